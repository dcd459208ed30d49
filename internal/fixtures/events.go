package fixtures

import (
	"github.com/aws/aws-lambda-go/cfn"
)

type EventOpt func(e *cfn.Event)

// MakeEvent builds a custom resource event for tests. The default is a Create for
// distribution "E2EXAMPLE" with realtime metrics enabled.
func MakeEvent(opts ...EventOpt) cfn.Event {
	e := cfn.Event{
		RequestType:       cfn.RequestCreate,
		RequestID:         "unique-request-id",
		ResponseURL:       "http://localhost/response",
		ResourceType:      "AWS::CloudFormation::CustomResource",
		LogicalResourceID: "InvokeMonitoringSubscriptionLambda1",
		StackID:           "arn:aws:cloudformation:us-east-1:123456789012:stack/demo/guid",
		ResourceProperties: map[string]interface{}{
			"ServiceToken":    "arn:aws:lambda:us-east-1:123456789012:function:monitoring",
			"DistributionId":  "E2EXAMPLE",
			"RealtimeMetrics": "true",
		},
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func RequestType(t cfn.RequestType) EventOpt {
	return func(e *cfn.Event) {
		e.RequestType = t
	}
}

func ResponseURL(url string) EventOpt {
	return func(e *cfn.Event) {
		e.ResponseURL = url
	}
}

func PhysicalResourceID(id string) EventOpt {
	return func(e *cfn.Event) {
		e.PhysicalResourceID = id
	}
}

// Property sets a resource property, a nil value removes it.
func Property(key string, value interface{}) EventOpt {
	return func(e *cfn.Event) {
		if value == nil {
			delete(e.ResourceProperties, key)
			return
		}
		e.ResourceProperties[key] = value
	}
}
