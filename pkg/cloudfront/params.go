package cloudfront

import (
	"github.com/spf13/pflag"

	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/util"
)

const (
	// ParamSkipUnchanged reads the subscription before writing it and skips the write when nothing changes.
	ParamSkipUnchanged = "skip-unchanged"
	// DefaultSkipUnchanged is the default for ParamSkipUnchanged, every event writes the status.
	DefaultSkipUnchanged = false
)

// AddFlags adds the client flags to the flag set.
func AddFlags(fs *pflag.FlagSet) {
	fs.Bool(ParamSkipUnchanged, DefaultSkipUnchanged, "Read the subscription first and skip the write when it already has the desired status")
	fs.Duration(util.ParamRetryInterval, util.DefaultRetryInterval, "Initial interval between retries of throttled CloudFront requests")
	fs.Int64(util.ParamRetryMaxCount, util.DefaultRetryMaxCount, "Maximum number of retries of throttled CloudFront requests (0 for unlimited)")
	fs.Duration(util.ParamRetryMaxTime, util.DefaultRetryMaxTime, "Maximum time spent retrying throttled CloudFront requests")
	fs.String(util.ParamRetryPolicy, util.DefaultRetryPolicy, "Retry policy: exponential, constant or disabled")
}
