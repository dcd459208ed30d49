package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/internal/stack"
	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/util"
)

const (
	oidcStackName = "github-oidc"
	appStackName  = "demo-s3-cloudfront-assets"
)

func setupConfiguration() (*viper.Viper, error) {
	v := viper.New()
	util.InitViperWithPrefix(v, stack.EnvPrefix, "")

	cmd := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	stack.AddFlags(cmd)

	cmd.VisitAll(func(flag *pflag.Flag) {
		if err := v.BindPFlag(flag.Name, flag); err != nil {
			panic(err) // Should never happen
		}
	})

	if err := cmd.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	return v, nil
}

func main() {
	v, err := setupConfiguration()
	if err != nil {
		if err == pflag.ErrHelp {
			return
		}
		logrus.Fatalf("Error while parsing configuration: %v", err)
	}

	conf := stack.NewConfigFromViper(v)
	if err := conf.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"bucket":          conf.BucketName,
		"repository":      conf.GitHubOrg + "/" + conf.RepoName,
		"realtimeMetrics": conf.RealtimeMetrics,
	}).Info("Synthesizing stacks")

	defer jsii.Close()

	app := awscdk.NewApp(nil)
	env := stack.Environment(conf)

	oidc := stack.NewOidcProviderStack(app, "GitHubOIDCStack", &awscdk.StackProps{
		StackName: jsii.String(oidcStackName),
		Env:       env,
	})

	stack.NewAppStack(app, "AppStack", &stack.AppStackProps{
		StackProps: awscdk.StackProps{
			StackName: jsii.String(appStackName),
			Env:       env,
		},
		OIDCProvider: oidc.OIDCProvider,
		Config:       conf,
	})

	app.Synth(nil)
}
