package stack

import (
	"errors"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	// EnvPrefix is the prefix of the environment variables read by the CDK app.
	EnvPrefix = "CDK"

	ParamBucketName      = "bucket-name"
	ParamGitHubOrg       = "github-org"
	ParamRepoName        = "repo-name"
	ParamRealtimeMetrics = "realtime-metrics"
	ParamDisableOnDelete = "disable-on-delete"
	ParamAssetPath       = "asset-path"
	ParamAccount         = "default-account"
	ParamRegion          = "default-region"

	DefaultAssetPath = "dist/monitoring-subscription"
)

// Config describes what the CDK app deploys.
type Config struct {
	BucketName      string
	GitHubOrg       string
	RepoName        string
	RealtimeMetrics bool
	DisableOnDelete bool
	// AssetPath is the directory holding the `bootstrap` binary of the custom resource lambda.
	AssetPath string
	// Account and Region pin the stacks to an environment, both empty leaves them environment-agnostic.
	Account string
	Region  string
}

func AddFlags(fs *pflag.FlagSet) {
	fs.String(ParamBucketName, "", "Name of the S3 bucket holding the assets")
	fs.String(ParamGitHubOrg, "", "GitHub organisation allowed to assume the deployment role")
	fs.String(ParamRepoName, "", "GitHub repository allowed to assume the deployment role")
	fs.Bool(ParamRealtimeMetrics, true, "Enable CloudFront realtime metrics on the distribution")
	fs.Bool(ParamDisableOnDelete, false, "Delete the monitoring subscription together with the custom resource")
	fs.String(ParamAssetPath, DefaultAssetPath, "Directory containing the built custom resource lambda")
}

func NewConfigFromViper(v *viper.Viper) Config {
	v.SetDefault(ParamRealtimeMetrics, true)
	v.SetDefault(ParamAssetPath, DefaultAssetPath)
	return Config{
		BucketName:      v.GetString(ParamBucketName),
		GitHubOrg:       v.GetString(ParamGitHubOrg),
		RepoName:        v.GetString(ParamRepoName),
		RealtimeMetrics: v.GetBool(ParamRealtimeMetrics),
		DisableOnDelete: v.GetBool(ParamDisableOnDelete),
		AssetPath:       v.GetString(ParamAssetPath),
		Account:         v.GetString(ParamAccount),
		Region:          v.GetString(ParamRegion),
	}
}

// Validate ensure all the values are valid,
// any values that not are reported as errors.
// All invalid values are reported together.
func (c Config) Validate() (errs error) {
	if c.BucketName == "" {
		errs = multierr.Append(errs, errors.New("missing `BucketName` value"))
	}
	if c.GitHubOrg == "" {
		errs = multierr.Append(errs, errors.New("missing `GitHubOrg` value"))
	}
	if c.RepoName == "" {
		errs = multierr.Append(errs, errors.New("missing `RepoName` value"))
	}
	if c.AssetPath == "" {
		errs = multierr.Append(errs, errors.New("missing `AssetPath` value"))
	}
	if (c.Account == "") != (c.Region == "") {
		errs = multierr.Append(errs, errors.New("`Account` and `Region` must be set together"))
	}
	return errs
}
