package cloudfront

import (
	"github.com/aws/aws-sdk-go/service/cloudfront"
)

// Status is the desired or observed state of a distribution's realtime metrics subscription.
type Status string

const (
	Enabled  = Status(cloudfront.RealtimeMetricsSubscriptionStatusEnabled)
	Disabled = Status(cloudfront.RealtimeMetricsSubscriptionStatusDisabled)
)

// StatusOf maps the realtime metrics flag to a subscription status.
func StatusOf(enabled bool) Status {
	if enabled {
		return Enabled
	}
	return Disabled
}

func (s Status) String() string { return string(s) }
