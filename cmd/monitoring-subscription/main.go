package main

import (
	"os"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/cloudfront"
	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/customresource"
	"github.com/vorotech/aws-cdk-s3-cloudfront-assets/pkg/util"
)

var (
	Version   string
	BuildDate string
	GitCommit string
)

const (
	ParamConfigPath = "config-path"
	ParamVerbose    = "verbose"
)

func GetConfiguration(args []string) (*viper.Viper, error) {
	v := viper.New()
	util.InitViper(v, "")

	cmd := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	cmd.Bool(ParamVerbose, false, "Enables debug level logs")
	cmd.String(ParamConfigPath, "", "Path to a configuration file")

	options := customresource.Options{
		DisableOnDelete: customresource.DefaultDisableOnDelete,
		ResponseReserve: customresource.DefaultResponseReserve,
	}
	options.AddFlags(cmd)
	cloudfront.AddFlags(cmd)

	cmd.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(err)
		}
	})

	if err := cmd.Parse(args[1:]); err != nil {
		return nil, err
	}

	if confPath := v.GetString(ParamConfigPath); confPath != "" {
		v.SetConfigFile(confPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func NewLogger(v *viper.Viper) *logrus.Entry {
	log := logrus.New().WithFields(logrus.Fields{
		"version":   Version,
		"buildDate": BuildDate,
		"gitCommit": GitCommit,
	})

	log.Logger.SetFormatter(&logrus.JSONFormatter{})

	if v.GetBool(ParamVerbose) {
		log.Logger.SetLevel(logrus.DebugLevel)
	}
	return log
}

func NewHandler(v *viper.Viper, logger logrus.FieldLogger) (*customresource.Handler, error) {
	client, err := cloudfront.NewClientFromViper(v, logger)
	if err != nil {
		return nil, err
	}
	return customresource.NewHandler(client, customresource.NewOptionsFromViper(v), logger), nil
}

func main() {
	conf, err := GetConfiguration(os.Args)
	if err != nil {
		if err == pflag.ErrHelp {
			return
		}
		logrus.Fatalf("Error while parsing configuration: %v", err)
	}

	if Version == "" {
		Version = GetVersion()
	}

	log := NewLogger(conf)

	handler, err := NewHandler(conf, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create custom resource handler")
	}

	log.Info("Starting custom resource handler")
	lambda.Start(cfn.LambdaWrap(handler.Handle))
}
