package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"apigw-agent-bridge/internal/config"
	"apigw-agent-bridge/pkg/server"
)

func main() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	manager := server.GetManager()
	if err := manager.Initialize(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}

	awslambda.Start(manager.Handle)
}
