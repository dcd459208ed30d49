package stack

import (
	"strconv"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/customresource"
	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/util"
)

// RealtimeMetricsProps configure SetRealtimeMetrics.
type RealtimeMetricsProps struct {
	Enabled         bool
	DisableOnDelete bool
	// AssetPath is the directory holding the `bootstrap` binary built from cmd/monitoring-subscription.
	AssetPath string
}

// SetRealtimeMetrics enables/disables CloudFront distribution realtime metrics
// with a custom resource backed by the monitoring-subscription lambda.
//
// NOTE: unless DisableOnDelete is set, removing the custom resource from the
// stack leaves the monitoring subscription as it is.
func SetRealtimeMetrics(scope constructs.Construct, distr awscloudfront.Distribution, props *RealtimeMetricsProps) awscdk.CustomResource {
	fn := awslambda.NewFunction(scope, jsii.String("MonitoringSubscriptionLambda"), &awslambda.FunctionProps{
		Handler:      jsii.String("bootstrap"),
		Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
		Architecture: awslambda.Architecture_ARM_64(),
		Description:  jsii.String("Sets or disables the CloudFront realtime monitoring subscription"),
		LogRetention: awslogs.RetentionDays_ONE_DAY,
		MemorySize:   jsii.Number(128), // minimum
		Timeout:      awscdk.Duration_Seconds(jsii.Number(8)),
		Code:         awslambda.Code_FromAsset(jsii.String(props.AssetPath), nil),
		Environment: &map[string]*string{
			util.EnvName(customresource.ParamDisableOnDelete): jsii.String(strconv.FormatBool(props.DisableOnDelete)),
		},
	})

	fn.AddToRolePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Sid:    jsii.String("AllowSetRealtimeMonitoringSubscription"),
		Effect: awsiam.Effect_ALLOW,
		Actions: jsii.Strings(
			"cloudfront:GetMonitoringSubscription",
			"cloudfront:CreateMonitoringSubscription",
			"cloudfront:DeleteMonitoringSubscription",
		),
		Resources: jsii.Strings("*"),
	}))

	fn.Node().AddDependency(distr)

	return awscdk.NewCustomResource(scope, jsii.String(RealtimeMetricsLogicalID(props.Enabled)), &awscdk.CustomResourceProps{
		ServiceToken: fn.FunctionArn(),
		Properties: &map[string]interface{}{
			customresource.DistributionIDKey:  distr.DistributionId(),
			customresource.RealtimeMetricsKey: props.Enabled,
		},
	})
}
