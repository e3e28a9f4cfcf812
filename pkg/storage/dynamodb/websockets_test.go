package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/gig-agreements/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddConnection(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, WebsocketConnectionsTableName: "connections"}

		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			user, ok := in.Item["user_id"].(*types.AttributeValueMemberS)
			return ok && user.Value == "dev-1"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		err := store.AddConnection(context.Background(), "conn-1", "dev-1")

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, WebsocketConnectionsTableName: "connections"}

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("put failed"))

		err := store.AddConnection(context.Background(), "conn-1", "dev-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to put item")
	})
}

func TestRemoveConnection(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := &Store{Client: mockClient, WebsocketConnectionsTableName: "connections"}

	mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(&dynamodb.DeleteItemOutput{}, nil)

	assert.NoError(t, store.RemoveConnection(context.Background(), "conn-1"))
	mockClient.AssertExpectations(t)
}

func TestGetConnectionsForUsers(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := &Store{Client: mockClient, WebsocketConnectionsTableName: "connections"}

	forUser := func(userID string) interface{} {
		return mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			v := in.ExpressionAttributeValues[":userID"].(*types.AttributeValueMemberS)
			return v.Value == userID
		})
	}
	mockClient.On("Query", mock.Anything, forUser("client-1")).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		{"connection_id": &types.AttributeValueMemberS{Value: "c-1"}},
	}}, nil)
	mockClient.On("Query", mock.Anything, forUser("dev-1")).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		{"connection_id": &types.AttributeValueMemberS{Value: "c-2"}},
		{"connection_id": &types.AttributeValueMemberS{Value: "c-3"}},
	}}, nil)

	ids, err := store.GetConnectionsForUsers(context.Background(), []string{"client-1", "", "dev-1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-2", "c-3"}, ids)
	mockClient.AssertExpectations(t)
}
