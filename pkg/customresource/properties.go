package customresource

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/cloudfront"
)

const (
	DistributionIDKey  = "DistributionId"
	RealtimeMetricsKey = "RealtimeMetrics"

	// DataStatusKey is the response attribute carrying the resulting subscription status.
	DataStatusKey = "RealtimeMetricsSubscriptionStatus"
)

// Properties are the resource properties of the custom resource.
type Properties struct {
	DistributionID  string
	RealtimeMetrics bool
}

// ParseProperties reads the resource properties of an event.
// CloudFormation passes every property as a string, so only "true" enables realtime metrics.
// A boolean true is accepted for events built outside of CloudFormation.
// All properties of the wrong type are reported together.
func ParseProperties(props map[string]interface{}) (p Properties, errs error) {
	switch id := props[DistributionIDKey].(type) {
	case nil:
	case string:
		p.DistributionID = id
	default:
		errs = multierr.Append(errs, fmt.Errorf("`%s` resource property must be a string, got %T", DistributionIDKey, id))
	}

	switch flag := props[RealtimeMetricsKey].(type) {
	case nil:
	case string:
		p.RealtimeMetrics = flag == "true"
	case bool:
		p.RealtimeMetrics = flag
	default:
		errs = multierr.Append(errs, fmt.Errorf("`%s` resource property must be a string, got %T", RealtimeMetricsKey, flag))
	}

	return p, errs
}

// Validate ensures the properties can be applied to a distribution.
func (p Properties) Validate() error {
	if p.DistributionID == "" {
		return fmt.Errorf("%w: `%s` resource property is empty", cloudfront.ErrMissingDistributionID, DistributionIDKey)
	}
	return nil
}

// Status is the subscription status the properties ask for.
func (p Properties) Status() cloudfront.Status {
	return cloudfront.StatusOf(p.RealtimeMetrics)
}

// PhysicalResourceID identifies the subscription managed for the distribution.
func (p Properties) PhysicalResourceID() string {
	return p.DistributionID + "-realtime-metrics"
}
