package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/gig-agreements/pkg/config"
	"github.com/chris/gig-agreements/pkg/events"
	"github.com/chris/gig-agreements/pkg/storage/dynamodb"
	"github.com/chris/gig-agreements/pkg/websockets"
)

var notifier events.Publisher

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.WebSocketEndpoint == "" {
		log.Fatal("WEBSOCKET_API_ENDPOINT environment variable not set")
	}
	if cfg.Tables.Connections == "" {
		log.Fatal("DYNAMODB_CONNECTIONS_TABLE_NAME environment variable not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	store := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), cfg.Tables)
	notifier = &websockets.Notifier{
		Publisher: websockets.NewPublisher(awsCfg, store, store, cfg.WebSocketEndpoint),
	}
}

// HandleRequest pushes domain events from the queue to connected parties.
// Failed records are reported individually so SQS only retries those.
func HandleRequest(ctx context.Context, sqsEvent lambdaevents.SQSEvent) (lambdaevents.SQSEventResponse, error) {
	var resp lambdaevents.SQSEventResponse
	for _, message := range sqsEvent.Records {
		if err := deliver(ctx, message); err != nil {
			slog.Error("Failed to deliver event", "messageId", message.MessageId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, lambdaevents.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}
	return resp, nil
}

func deliver(ctx context.Context, message lambdaevents.SQSMessage) error {
	var e events.Event
	if err := json.Unmarshal([]byte(message.Body), &e); err != nil {
		// A malformed body will never succeed, so it is dropped rather than retried.
		slog.Error("Dropping malformed event", "messageId", message.MessageId, "error", err)
		return nil
	}
	if err := notifier.Publish(ctx, &e); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", e.ID, err)
	}
	slog.Info("Delivered event", "eventId", e.ID, "type", e.Type, "agreementId", e.AgreementID)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
