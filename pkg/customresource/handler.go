package customresource

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/tilinna/clock"

	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/cloudfront"
)

var ErrUnsupportedRequestType = errors.New("unsupported request type")

// SubscriptionClient is the part of cloudfront.Client used by the handler,
// the main purpose here is to allow for mocks to be used throughout testing.
type SubscriptionClient interface {
	SetRealtimeMetrics(ctx context.Context, distributionID string, status cloudfront.Status) (bool, error)
	DeleteSubscription(ctx context.Context, distributionID string) error
}

var _ SubscriptionClient = (*cloudfront.Client)(nil)

// Handler applies custom resource lifecycle events to a distribution's monitoring subscription.
type Handler struct {
	logger  logrus.FieldLogger
	client  SubscriptionClient
	options Options
}

func NewHandler(client SubscriptionClient, options Options, logger logrus.FieldLogger) *Handler {
	return &Handler{
		logger:  logger,
		client:  client,
		options: options,
	}
}

// Handle is a cfn.CustomResourceFunction. Any returned error is reported to CloudFormation as FAILED.
// CloudFront calls stop ResponseReserve before the invocation deadline.
func (h *Handler) Handle(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	logger := h.logger.WithFields(logrus.Fields{
		"requestType":       event.RequestType,
		"requestId":         event.RequestID,
		"logicalResourceId": event.LogicalResourceID,
	})

	if deadline, ok := ctx.Deadline(); ok && h.options.ResponseReserve > 0 {
		var cancel context.CancelFunc
		ctx, cancel = clock.DeadlineContext(ctx, deadline.Add(-h.options.ResponseReserve))
		defer cancel()
	}

	if raw, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(event); err == nil {
		logger.WithField("event", raw).Debug("Received custom resource event")
	}

	switch event.RequestType {
	case cfn.RequestDelete:
		return h.delete(ctx, logger, event)
	case cfn.RequestCreate, cfn.RequestUpdate:
		return h.upsert(ctx, logger, event)
	default:
		err := fmt.Errorf("%w: %q", ErrUnsupportedRequestType, event.RequestType)
		logger.WithError(err).Error("Unable to handle event")
		return event.PhysicalResourceID, nil, err
	}
}

// delete never fails on properties it cannot use, a failed delete would block the stack.
func (h *Handler) delete(ctx context.Context, logger logrus.FieldLogger, event cfn.Event) (string, map[string]interface{}, error) {
	if !h.options.DisableOnDelete {
		logger.Info("Responding immediately on custom resource deletion")
		return event.PhysicalResourceID, nil, nil
	}

	props, err := ParseProperties(event.ResourceProperties)
	if err == nil {
		err = props.Validate()
	}
	if err != nil {
		logger.WithError(err).Warn("Leaving monitoring subscription in place")
		return event.PhysicalResourceID, nil, nil
	}

	logger = logger.WithField("distributionId", props.DistributionID)
	// A resource that asked for Disabled has nothing to undo. This also keeps the
	// subscription when a replacement resource for the same distribution enabled it.
	if !props.RealtimeMetrics {
		logger.Info("Realtime metrics were not enabled by this resource, nothing to delete")
		return event.PhysicalResourceID, nil, nil
	}
	if err := h.client.DeleteSubscription(ctx, props.DistributionID); err != nil {
		logger.WithError(err).Error("Failed to delete monitoring subscription")
		return event.PhysicalResourceID, nil, err
	}
	return event.PhysicalResourceID, nil, nil
}

func (h *Handler) upsert(ctx context.Context, logger logrus.FieldLogger, event cfn.Event) (string, map[string]interface{}, error) {
	props, err := ParseProperties(event.ResourceProperties)
	if err == nil {
		err = props.Validate()
	}
	if err != nil {
		logger.WithError(err).Error("Invalid resource properties")
		return event.PhysicalResourceID, nil, err
	}

	status := props.Status()
	logger = logger.WithFields(logrus.Fields{
		"distributionId": props.DistributionID,
		"status":         status,
	})

	written, err := h.client.SetRealtimeMetrics(ctx, props.DistributionID, status)
	if err != nil {
		logger.WithError(err).Error("Failed to set monitoring subscription")
		return props.PhysicalResourceID(), nil, err
	}
	logger.WithField("written", written).Info("Monitoring subscription in desired state")

	return props.PhysicalResourceID(), map[string]interface{}{
		DistributionIDKey: props.DistributionID,
		DataStatusKey:     string(status),
	}, nil
}
