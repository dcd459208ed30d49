package fixtures

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cloudfront"
	"github.com/aws/aws-sdk-go/service/cloudfront/cloudfrontiface"
	"github.com/stretchr/testify/assert"
)

// MockCloudFront implements the monitoring subscription calls of cloudfrontiface.CloudFrontAPI.
// Any call without a handler fails the test. Calls to other methods panic.
type MockCloudFront struct {
	cloudfrontiface.CloudFrontAPI
	TB testing.TB

	FnGet    func(*cloudfront.GetMonitoringSubscriptionInput) (*cloudfront.GetMonitoringSubscriptionOutput, error)
	FnCreate func(*cloudfront.CreateMonitoringSubscriptionInput) (*cloudfront.CreateMonitoringSubscriptionOutput, error)
	FnDelete func(*cloudfront.DeleteMonitoringSubscriptionInput) (*cloudfront.DeleteMonitoringSubscriptionOutput, error)

	GetCalls    int
	CreateCalls int
	DeleteCalls int
}

var _ cloudfrontiface.CloudFrontAPI = (*MockCloudFront)(nil)

func (m *MockCloudFront) GetMonitoringSubscriptionWithContext(_ aws.Context, in *cloudfront.GetMonitoringSubscriptionInput, _ ...request.Option) (*cloudfront.GetMonitoringSubscriptionOutput, error) {
	m.GetCalls++
	if m.FnGet != nil {
		return m.FnGet(in)
	}
	assert.Fail(m.TB, "GetMonitoringSubscription must not be called")
	return nil, nil
}

func (m *MockCloudFront) CreateMonitoringSubscriptionWithContext(_ aws.Context, in *cloudfront.CreateMonitoringSubscriptionInput, _ ...request.Option) (*cloudfront.CreateMonitoringSubscriptionOutput, error) {
	m.CreateCalls++
	if m.FnCreate != nil {
		return m.FnCreate(in)
	}
	assert.Fail(m.TB, "CreateMonitoringSubscription must not be called")
	return nil, nil
}

func (m *MockCloudFront) DeleteMonitoringSubscriptionWithContext(_ aws.Context, in *cloudfront.DeleteMonitoringSubscriptionInput, _ ...request.Option) (*cloudfront.DeleteMonitoringSubscriptionOutput, error) {
	m.DeleteCalls++
	if m.FnDelete != nil {
		return m.FnDelete(in)
	}
	assert.Fail(m.TB, "DeleteMonitoringSubscription must not be called")
	return nil, nil
}

// SubscriptionOutput builds a GetMonitoringSubscription response with the given status.
func SubscriptionOutput(status string) *cloudfront.GetMonitoringSubscriptionOutput {
	return &cloudfront.GetMonitoringSubscriptionOutput{
		MonitoringSubscription: &cloudfront.MonitoringSubscription{
			RealtimeMetricsSubscriptionConfig: &cloudfront.RealtimeMetricsSubscriptionConfig{
				RealtimeMetricsSubscriptionStatus: aws.String(status),
			},
		},
	}
}

// RequestedStatus extracts the status written by a CreateMonitoringSubscription call.
func RequestedStatus(in *cloudfront.CreateMonitoringSubscriptionInput) string {
	if in.MonitoringSubscription == nil || in.MonitoringSubscription.RealtimeMetricsSubscriptionConfig == nil {
		return ""
	}
	return aws.StringValue(in.MonitoringSubscription.RealtimeMetricsSubscriptionConfig.RealtimeMetricsSubscriptionStatus)
}
