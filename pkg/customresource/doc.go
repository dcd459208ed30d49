// Package customresource implements the CloudFormation custom resource that
// toggles the realtime metrics subscription of a CloudFront distribution.
//
// CloudFormation invokes the function on Create, Update and Delete of the
// resource and waits for a SUCCESS or FAILED response on the pre-signed
// response URL of the event. Handler.Handle is wrapped with cfn.LambdaWrap,
// which sends exactly one response per event.
//
// For further information regarding custom resources:
//
//	https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/template-custom-resources.html
package customresource
