package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const connectionUserGSI = "user_id-index"

// WebSocketConnection represents a record in the WebSocket connections table.
type WebSocketConnection struct {
	ConnectionID string `dynamodbav:"connection_id"`
	UserID       string `dynamodbav:"user_id"`
}

// AddConnection saves a WebSocket connection ID for the user it was opened by.
func (s *Store) AddConnection(ctx context.Context, connectionID, userID string) error {
	conn := WebSocketConnection{ConnectionID: connectionID, UserID: userID}
	item, err := attributevalue.MarshalMap(conn)
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.WebsocketConnectionsTableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}

// RemoveConnection deletes a WebSocket connection ID from the database.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{
		"connection_id": connectionID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal connection key: %w", err)
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.WebsocketConnectionsTableName),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}

// GetConnectionsForUsers retrieves the open connection IDs of the given users.
func (s *Store) GetConnectionsForUsers(ctx context.Context, userIDs []string) ([]string, error) {
	var connectionIDs []string
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		items, err := s.queryAll(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.WebsocketConnectionsTableName),
			IndexName:              aws.String(connectionUserGSI),
			KeyConditionExpression: aws.String("user_id = :userID"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":userID": &types.AttributeValueMemberS{Value: userID},
			},
			ProjectionExpression: aws.String("connection_id"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query connections table: %w", err)
		}

		var connections []WebSocketConnection
		if err := attributevalue.UnmarshalListOfMaps(items, &connections); err != nil {
			return nil, fmt.Errorf("failed to unmarshal connections: %w", err)
		}
		for _, conn := range connections {
			connectionIDs = append(connectionIDs, conn.ConnectionID)
		}
	}

	return connectionIDs, nil
}
