package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
)

// ConnectionsGetter defines an interface for finding the connections of users.
type ConnectionsGetter interface {
	GetConnectionsForUsers(ctx context.Context, userIDs []string) ([]string, error)
}

// PostToConnectionAPI is the subset of the API Gateway management client used to push messages.
type PostToConnectionAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// DefaultPublisher pushes messages through an API Gateway WebSocket API.
type DefaultPublisher struct {
	store       ConnectionsGetter
	connManager ConnectionManager
	apiGwClient PostToConnectionAPI
}

// NewPublisher creates a new DefaultPublisher for the API Gateway endpoint.
func NewPublisher(cfg aws.Config, store ConnectionsGetter, connManager ConnectionManager, apiEndpoint string) *DefaultPublisher {
	apiGwClient := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	})
	return NewPublisherWithClient(store, connManager, apiGwClient)
}

// NewPublisherWithClient creates a DefaultPublisher over an existing client.
func NewPublisherWithClient(store ConnectionsGetter, connManager ConnectionManager, client PostToConnectionAPI) *DefaultPublisher {
	return &DefaultPublisher{
		store:       store,
		connManager: connManager,
		apiGwClient: client,
	}
}

// Publish sends a message to every connection of the given users. Stale
// connections are removed; other delivery failures are logged.
func (p *DefaultPublisher) Publish(ctx context.Context, userIDs []string, message Message) error {
	connectionIDs, err := p.store.GetConnectionsForUsers(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("failed to get connections: %w", err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	for _, connectionID := range connectionIDs {
		_, err := p.apiGwClient.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})

		if err != nil {
			var goneErr *apigwtypes.GoneException
			if errors.As(err, &goneErr) {
				slog.Info("stale connection found, deleting", "connectionId", connectionID)
				if err := p.connManager.RemoveConnection(ctx, connectionID); err != nil {
					slog.Error("failed to delete stale connection", "error", err)
				}
			} else {
				slog.Error("failed to post to connection", "connectionId", connectionID, "error", err)
			}
		}
	}

	return nil
}

// NoOpPublisher is a publisher that does nothing.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, userIDs []string, message Message) error {
	return nil
}
