package stack

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const (
	gitHubTokenURL      = "https://token.actions.githubusercontent.com"
	gitHubAudience      = "sts.amazonaws.com"
	gitHubThumbprint    = "a031c46782e6e6c662c2c87c76da9aa62ccabd8e"
	gitHubSubjectClaim  = "token.actions.githubusercontent.com:sub"
	deploymentRolePath  = "/deployment-role/"
	assumeWebIdentityOp = "sts:AssumeRoleWithWebIdentity"
)

// NewGitHubOIDCProvider registers GitHub Actions as an OIDC identity provider.
func NewGitHubOIDCProvider(scope constructs.Construct) awsiam.CfnOIDCProvider {
	return awsiam.NewCfnOIDCProvider(scope, jsii.String("GitHubOIDCProvider"), &awsiam.CfnOIDCProviderProps{
		Url:            jsii.String(gitHubTokenURL),
		ClientIdList:   jsii.Strings(gitHubAudience),
		ThumbprintList: jsii.Strings(gitHubThumbprint),
	})
}

// NewDeploymentRole creates a role that workflows of the GitHub repository can assume.
func NewDeploymentRole(scope constructs.Construct, oidcProvider awsiam.CfnOIDCProvider, gitHubOrg, repoName string) awsiam.Role {
	principal := awsiam.NewFederatedPrincipal(
		oidcProvider.AttrArn(),
		&map[string]interface{}{
			"StringLike": map[string]string{
				gitHubSubjectClaim: GitHubSubject(gitHubOrg, repoName),
			},
		},
		jsii.String(assumeWebIdentityOp),
	)

	return awsiam.NewRole(scope, jsii.String("DeploymentRole"), &awsiam.RoleProps{
		AssumedBy: principal,
		Path:      jsii.String(deploymentRolePath),
	})
}
