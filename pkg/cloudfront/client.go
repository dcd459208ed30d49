package cloudfront

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudfront"
	"github.com/aws/aws-sdk-go/service/cloudfront/cloudfrontiface"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/net/http2"

	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/util"
)

const (
	// defaultRegion is where the CloudFront control plane lives.
	defaultRegion        = "us-east-1"
	defaultClientTimeout = 5 * time.Second
	// defaultMaxRetries leaves throttling to the Retry backoff, so waits stay bounded by the context deadline.
	defaultMaxRetries    = 0
)

// ErrMissingDistributionID is returned when no distribution was named.
var ErrMissingDistributionID = errors.New("missing distribution id")

// Client manages the realtime metrics monitoring subscription of CloudFront distributions.
type Client struct {
	logger logrus.FieldLogger

	CloudFront    cloudfrontiface.CloudFrontAPI
	Retry         util.BackoffFactory
	SkipUnchanged bool
}

// NewClient wraps an existing CloudFront API.
func NewClient(api cloudfrontiface.CloudFrontAPI, retry util.BackoffFactory, skipUnchanged bool, logger logrus.FieldLogger) *Client {
	if retry == nil {
		retry = util.NoRetries
	}
	return &Client{
		logger:        logger,
		CloudFront:    api,
		Retry:         retry,
		SkipUnchanged: skipUnchanged,
	}
}

// Status returns the current subscription status of the distribution.
// A distribution without a monitoring subscription is reported as Disabled.
func (c *Client) Status(ctx context.Context, distributionID string) (Status, error) {
	if distributionID == "" {
		return "", ErrMissingDistributionID
	}

	var out *cloudfront.GetMonitoringSubscriptionOutput
	err := c.retry(ctx, "GetMonitoringSubscription", distributionID, func() (err error) {
		out, err = c.CloudFront.GetMonitoringSubscriptionWithContext(ctx, &cloudfront.GetMonitoringSubscriptionInput{
			DistributionId: aws.String(distributionID),
		})
		return err
	})
	if err != nil {
		if IsNotFound(err) {
			return Disabled, nil
		}
		return "", fmt.Errorf("error getting monitoring subscription of %s: %w", distributionID, err)
	}

	if out == nil || out.MonitoringSubscription == nil || out.MonitoringSubscription.RealtimeMetricsSubscriptionConfig == nil {
		return Disabled, nil
	}
	status := aws.StringValue(out.MonitoringSubscription.RealtimeMetricsSubscriptionConfig.RealtimeMetricsSubscriptionStatus)
	if status == "" {
		return Disabled, nil
	}
	return Status(status), nil
}

// SetRealtimeMetrics sets the realtime metrics subscription status of the distribution.
// When SkipUnchanged is set the current status is read first and nothing is written if it already matches.
// It reports whether a write was issued.
func (c *Client) SetRealtimeMetrics(ctx context.Context, distributionID string, status Status) (bool, error) {
	if distributionID == "" {
		return false, ErrMissingDistributionID
	}

	logger := c.logger.WithFields(logrus.Fields{
		"distributionId": distributionID,
		"status":         status,
	})

	if c.SkipUnchanged {
		current, err := c.Status(ctx, distributionID)
		if err != nil {
			// Not fatal, the create below is authoritative.
			logger.WithError(err).Warn("Unable to read current monitoring subscription")
		} else if current == status {
			logger.Info("Monitoring subscription already in desired state")
			return false, nil
		}
	}

	logger.Info("Setting realtime monitoring subscription status")
	var out *cloudfront.CreateMonitoringSubscriptionOutput
	err := c.retry(ctx, "CreateMonitoringSubscription", distributionID, func() (err error) {
		out, err = c.CloudFront.CreateMonitoringSubscriptionWithContext(ctx, &cloudfront.CreateMonitoringSubscriptionInput{
			DistributionId: aws.String(distributionID),
			MonitoringSubscription: &cloudfront.MonitoringSubscription{
				RealtimeMetricsSubscriptionConfig: &cloudfront.RealtimeMetricsSubscriptionConfig{
					RealtimeMetricsSubscriptionStatus: aws.String(string(status)),
				},
			},
		})
		return err
	})
	if err != nil {
		return false, fmt.Errorf("error setting monitoring subscription of %s to %s: %w", distributionID, status, err)
	}

	logger.WithField("response", out).Debug("Monitoring subscription set")
	return true, nil
}

// DeleteSubscription removes the monitoring subscription of the distribution.
// Deleting a subscription that does not exist succeeds.
func (c *Client) DeleteSubscription(ctx context.Context, distributionID string) error {
	if distributionID == "" {
		return ErrMissingDistributionID
	}

	c.logger.WithField("distributionId", distributionID).Info("Deleting monitoring subscription")
	err := c.retry(ctx, "DeleteMonitoringSubscription", distributionID, func() error {
		_, err := c.CloudFront.DeleteMonitoringSubscriptionWithContext(ctx, &cloudfront.DeleteMonitoringSubscriptionInput{
			DistributionId: aws.String(distributionID),
		})
		return err
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("error deleting monitoring subscription of %s: %w", distributionID, err)
	}
	return nil
}

func (c *Client) retry(ctx context.Context, operation, distributionID string, op func() error) error {
	return util.Retry(ctx, c.Retry(), op, IsRetryable, func(err error, next time.Duration) {
		c.logger.WithFields(logrus.Fields{
			"operation":      operation,
			"distributionId": distributionID,
			"backoff":        next,
		}).WithError(err).Info("CloudFront request failed, retrying")
	})
}

// IsRetryable reports whether err is a throttling or server side CloudFront error.
func IsRetryable(err error) bool {
	if request.IsErrorThrottle(err) {
		return true
	}
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode() >= http.StatusInternalServerError
	}
	return false
}

// IsNotFound reports whether err means the monitoring subscription does not exist.
func IsNotFound(err error) bool {
	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		return awsErr.Code() == cloudfront.ErrCodeNoSuchMonitoringSubscription
	}
	return false
}

// NewClientFromViper returns a new client talking to the CloudFront API.
func NewClientFromViper(v *viper.Viper, logger logrus.FieldLogger) (*Client, error) {
	v.SetDefault(ParamSkipUnchanged, DefaultSkipUnchanged)
	retry, err := util.GetRetryFromViper(v)
	if err != nil {
		return nil, err
	}

	a := util.GetSubViper(v, "cloudfront")
	a.SetDefault("region", defaultRegion)
	a.SetDefault("max_retries", defaultMaxRetries)
	a.SetDefault("client_timeout", defaultClientTimeout)
	httpTimeout := a.GetDuration("client_timeout")
	if httpTimeout <= 0 {
		return nil, errors.New("client timeout must be positive")
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSHandshakeTimeout: 3 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:    2,
		IdleConnTimeout: 1 * time.Minute,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, err
	}
	config := aws.NewConfig().
		WithHTTPClient(&http.Client{
			Transport: transport,
			Timeout:   httpTimeout,
		}).
		WithMaxRetries(a.GetInt("max_retries")).
		WithRegion(a.GetString("region"))
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("error creating a new CloudFront session: %v", err)
	}

	return NewClient(cloudfront.New(sess), retry, v.GetBool(ParamSkipUnchanged), logger), nil
}
