package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
	"github.com/chris/gig-agreements/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolveWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, UsersTableName: "users"}

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			v := in.ExpressionAttributeValues[":wallet"].(*types.AttributeValueMemberS)
			return v.Value == "0xabcdef"
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
			{"user_id": &types.AttributeValueMemberS{Value: "dev-1"}},
		}}, nil)

		userID, err := store.ResolveWallet(context.Background(), "0xABCDEF")

		require.NoError(t, err)
		assert.Equal(t, "dev-1", userID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, UsersTableName: "users"}

		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		_, err := store.ResolveWallet(context.Background(), "0xabc")

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, UsersTableName: "users"}

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed"))

		_, err := store.ResolveWallet(context.Background(), "0xabc")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query users by wallet")
		mockClient.AssertExpectations(t)
	})
}

func TestGetUser(t *testing.T) {
	user := &models.User{
		UserID:            "dev-1",
		CompletedProjects: 2,
		TotalEarned:       models.MustAmount("12.5"),
	}

	mockClient := new(mocks.DynamoDBAPI)
	store := &Store{Client: mockClient, UsersTableName: "users"}

	av, err := attributevalue.MarshalMap(user)
	require.NoError(t, err)
	mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: av}, nil)

	result, err := store.GetUser(context.Background(), "dev-1")

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.CompletedProjects)
	assert.Equal(t, "12.5", result.TotalEarned.String())
	mockClient.AssertExpectations(t)
}
