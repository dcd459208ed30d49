package stack

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type OidcProviderStack struct {
	awscdk.Stack
	OIDCProvider awsiam.CfnOIDCProvider
}

// NewOidcProviderStack creates a GitHub OIDC provider to assume deployment role
// without a need to setup IAM Users for programmatic access.
// The provider only needs to be created once per account, every role
// assumed through GitHub's OIDC can share it.
//
// See https://github.com/aws-actions/configure-aws-credentials
func NewOidcProviderStack(scope constructs.Construct, id string, props *awscdk.StackProps) *OidcProviderStack {
	stack := &OidcProviderStack{Stack: awscdk.NewStack(scope, &id, props)}
	stack.OIDCProvider = NewGitHubOIDCProvider(stack.Stack)
	return stack
}

type AppStackProps struct {
	awscdk.StackProps
	OIDCProvider awsiam.CfnOIDCProvider
	Config       Config
}

// NewAppStack creates the assets bucket, the distribution serving it with
// realtime metrics set per Config, and the GitHub deployment role.
func NewAppStack(scope constructs.Construct, id string, props *AppStackProps) awscdk.Stack {
	stack := awscdk.NewStack(scope, &id, &props.StackProps)
	conf := props.Config

	bucket := awss3.NewBucket(stack, jsii.String("Bucket"), &awss3.BucketProps{
		AutoDeleteObjects: jsii.Bool(true),
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		BucketName:        jsii.String(conf.BucketName),
		RemovalPolicy:     awscdk.RemovalPolicy_DESTROY,
	})

	awscdk.NewCfnOutput(stack, jsii.String("S3BucketName"), &awscdk.CfnOutputProps{
		Value: bucket.BucketName(),
	})

	distr := awscloudfront.NewDistribution(stack, jsii.String("Distribution"), &awscloudfront.DistributionProps{
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin: awscloudfrontorigins.NewS3Origin(bucket, nil),
		},
	})

	SetRealtimeMetrics(stack, distr, &RealtimeMetricsProps{
		Enabled:         conf.RealtimeMetrics,
		DisableOnDelete: conf.DisableOnDelete,
		AssetPath:       conf.AssetPath,
	})

	awscdk.NewCfnOutput(stack, jsii.String("DistributionDomainName"), &awscdk.CfnOutputProps{
		Value: distr.DistributionDomainName(),
	})
	awscdk.NewCfnOutput(stack, jsii.String("DistributionID"), &awscdk.CfnOutputProps{
		Value: distr.DistributionId(),
	})

	role := NewDeploymentRole(stack, props.OIDCProvider, conf.GitHubOrg, conf.RepoName)

	role.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Effect:    awsiam.Effect_ALLOW,
		Actions:   jsii.Strings("cloudfront:CreateInvalidation"),
		Resources: jsii.Strings(DistributionARNPattern(*stack.Account())),
	}))

	role.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Effect: awsiam.Effect_ALLOW,
		Actions: jsii.Strings(
			"s3:DeleteObject",
			"s3:GetBucketLocation",
			"s3:GetObject",
			"s3:ListBucket",
			"s3:PutObject",
		),
		Resources: jsii.Strings(
			*bucket.BucketArn(),
			fmt.Sprintf("%s/*", *bucket.BucketArn()),
		),
	}))

	awscdk.NewCfnOutput(stack, jsii.String("DeploymentRoleArn"), &awscdk.CfnOutputProps{
		Value: role.RoleArn(),
	})

	return stack
}

// Environment pins the stacks to the configured account and region.
// Without both the stacks are environment-agnostic.
func Environment(conf Config) *awscdk.Environment {
	if conf.Account == "" || conf.Region == "" {
		return nil
	}
	return &awscdk.Environment{
		Account: jsii.String(conf.Account),
		Region:  jsii.String(conf.Region),
	}
}
