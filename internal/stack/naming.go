package stack

import (
	"fmt"
)

// RealtimeMetricsLogicalID is the logical id of the custom resource.
// It is derived from the flag so CloudFormation replaces the resource, and
// so invokes the lambda, whenever the flag changes.
func RealtimeMetricsLogicalID(enabled bool) string {
	return fmt.Sprintf("InvokeMonitoringSubscriptionLambda%d", btoi(enabled))
}

// GitHubSubject matches the OIDC token subject of every workflow run in the repository.
func GitHubSubject(org, repo string) string {
	return fmt.Sprintf("repo:%s/%s:*", org, repo)
}

// DistributionARNPattern matches every distribution of the account.
func DistributionARNPattern(account string) string {
	return fmt.Sprintf("arn:aws:cloudfront::%s:distribution/*", account)
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
