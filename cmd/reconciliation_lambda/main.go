package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/gig-agreements/pkg/blockchain"
	"github.com/chris/gig-agreements/pkg/config"
	"github.com/chris/gig-agreements/pkg/events"
	"github.com/chris/gig-agreements/pkg/service"
	"github.com/chris/gig-agreements/pkg/storage/dynamodb"
)

var reconciler *service.Reconciler

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.StorageDriver != config.DriverDynamoDB {
		log.Fatal("reconciliation requires STORAGE_DRIVER=dynamodb")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	networks, err := cfg.Networks(os.Environ())
	if err != nil {
		log.Fatalf("invalid blockchain networks: %v", err)
	}
	if len(networks) == 0 {
		log.Fatal("no blockchain networks configured")
	}

	var publisher events.Publisher = events.NoOp{}
	if cfg.SQSQueueURL != "" {
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)
	}

	store := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables)
	reconciler = service.NewReconciler(store, blockchain.NewVerifier(networks), publisher)
	if cfg.ReconcileMaxAge > 0 {
		reconciler.MaxAge = cfg.ReconcileMaxAge
	}
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) (service.Summary, error) {
	slog.Info("Starting reconciliation of pending transactions", "maxAge", reconciler.MaxAge.String())

	sum, err := reconciler.Run(ctx)
	if err != nil {
		slog.Error("Reconciliation failed", "error", err)
		return sum, err
	}

	slog.Info("Reconciliation finished",
		"checked", sum.Checked,
		"completed", sum.Completed,
		"failed", sum.Failed,
		"skipped", sum.Skipped,
		"errors", sum.Errors,
	)
	return sum, nil
}

func main() {
	lambda.Start(HandleRequest)
}
