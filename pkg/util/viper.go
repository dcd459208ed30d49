package util

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the inspected environment variables.
const EnvPrefix = "RTM" // RealTime Metrics

// EnvName is the environment variable InitViper reads key from.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
}

func GetSubViper(v *viper.Viper, key string) *viper.Viper {
	n := v.Sub(key)
	if n == nil {
		n = viper.New()
	}
	InitViper(n, key)
	return n
}

// InitViper sets up env var handling for a viper. This must be run on every created sub viper as these settings
// are not persisted to nested viper instances.
func InitViper(v *viper.Viper, subViperName string) {
	InitViperWithPrefix(v, EnvPrefix, subViperName)
}

// InitViperWithPrefix is InitViper for binaries that read their environment under a different prefix.
func InitViperWithPrefix(v *viper.Viper, prefix, subViperName string) {
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if subViperName != "" {
		// Sub viper environment variables are accessed via <prefix>_<subViperName>_<varName>
		v.SetEnvPrefix(prefix + "_" + strings.ToUpper(subViperName))
	} else {
		v.SetEnvPrefix(prefix)
	}
	v.SetTypeByDefaultValue(true)
	v.AutomaticEnv()
}
