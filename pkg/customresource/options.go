package customresource

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ParamDisableOnDelete = "disable-on-delete"
	ParamResponseReserve = "response-reserve"

	DefaultDisableOnDelete = false
	DefaultResponseReserve = 2 * time.Second
)

// Options tune the lifecycle handling of the custom resource.
type Options struct {
	// DisableOnDelete deletes the monitoring subscription when the custom resource is deleted.
	// By default deleting the resource leaves the subscription as it is.
	DisableOnDelete bool

	// ResponseReserve is kept back from the invocation deadline so the response
	// to CloudFormation can still be sent after the CloudFront calls give up.
	ResponseReserve time.Duration
}

func NewOptionsFromViper(v *viper.Viper) Options {
	v.SetDefault(ParamDisableOnDelete, DefaultDisableOnDelete)
	v.SetDefault(ParamResponseReserve, DefaultResponseReserve)
	return Options{
		DisableOnDelete: v.GetBool(ParamDisableOnDelete),
		ResponseReserve: v.GetDuration(ParamResponseReserve),
	}
}

// AddFlags is used to add preconfigured entries
// into an existing `FlagSet`
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(
		&o.DisableOnDelete,
		ParamDisableOnDelete,
		o.DisableOnDelete,
		"When set, deleting the custom resource also deletes the monitoring subscription",
	)
	fs.DurationVar(
		&o.ResponseReserve,
		ParamResponseReserve,
		o.ResponseReserve,
		"Time kept back from the invocation deadline for responding to CloudFormation",
	)
}
