package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
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

func TestGetAgreement(t *testing.T) {
	a := &models.Agreement{
		ID:       "AGR-0123456789AB",
		ClientID: "client-1",
		Status:   models.AgreementActive,
		Financials: models.Financials{
			TotalValue: models.MustAmount("1000"),
			Currency:   "ETH",
		},
		Version: 3,
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, AgreementsTableName: "agreements"}

		av, _ := attributevalue.MarshalMap(a)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: av}, nil)

		result, err := store.GetAgreement(context.Background(), a.ID)

		require.NoError(t, err)
		assert.Equal(t, a.ID, result.ID)
		assert.Equal(t, models.AgreementActive, result.Status)
		assert.Equal(t, "1000", result.Financials.TotalValue.String())
		assert.Equal(t, int64(3), result.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, AgreementsTableName: "agreements"}

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := store.GetAgreement(context.Background(), a.ID)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, AgreementsTableName: "agreements"}

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		_, err := store.GetAgreement(context.Background(), a.ID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get agreement from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestListAgreements(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	asClient := models.Agreement{ID: "AGR-1", ClientID: "user-1", CreatedAt: base}
	asDeveloper := models.Agreement{ID: "AGR-2", DeveloperID: "user-1", CreatedAt: base.Add(time.Hour)}
	byWallet := models.Agreement{ID: "AGR-3", ClientWallet: "0xabc", CreatedAt: base.Add(2 * time.Hour)}

	onIndex := func(index string) interface{} {
		return mock.MatchedBy(func(in *dynamodb.QueryInput) bool { return *in.IndexName == index })
	}

	t.Run("Merges Indexes Newest First", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, AgreementsTableName: "agreements"}

		mockClient.On("Query", mock.Anything, onIndex("client_id-index")).Return(&dynamodb.QueryOutput{Items: marshalAll(t, asClient)}, nil)
		mockClient.On("Query", mock.Anything, onIndex("developer_id-index")).Return(&dynamodb.QueryOutput{Items: marshalAll(t, asDeveloper)}, nil)
		mockClient.On("Query", mock.Anything, onIndex("client_wallet-index")).Return(&dynamodb.QueryOutput{Items: marshalAll(t, byWallet, asClient)}, nil)
		mockClient.On("Query", mock.Anything, onIndex("developer_wallet-index")).Return(&dynamodb.QueryOutput{}, nil)

		result, total, err := store.ListAgreements(context.Background(), storage.ListFilter{
			UserID:        "user-1",
			WalletAddress: "0xabc",
			Page:          1,
			Limit:         2,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, result, 2)
		assert.Equal(t, "AGR-3", result[0].ID)
		assert.Equal(t, "AGR-2", result[1].ID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Status Filter", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, AgreementsTableName: "agreements"}

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.FilterExpression != nil && *in.FilterExpression == "#status = :status"
		})).Return(&dynamodb.QueryOutput{}, nil).Twice()

		result, total, err := store.ListAgreements(context.Background(), storage.ListFilter{
			UserID: "user-1",
			Status: models.AgreementActive,
		})

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, result)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, AgreementsTableName: "agreements"}

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed"))

		_, _, err := store.ListAgreements(context.Background(), storage.ListFilter{UserID: "user-1"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query")
	})
}

func TestListMilestones(t *testing.T) {
	replaced := models.Milestone{ID: "m-old", AgreementID: "AGR-1", MilestoneNumber: 1, IsActive: false}
	first := models.Milestone{ID: "m-1", AgreementID: "AGR-1", MilestoneNumber: 1, IsActive: true, Status: models.MilestoneApproved}
	second := models.Milestone{ID: "m-2", AgreementID: "AGR-1", MilestoneNumber: 2, IsActive: true}
	agreement := &models.Agreement{ID: "AGR-1", MilestoneIDs: []string{"m-1", "m-2"}}

	newStore := func(t *testing.T) (*Store, *mocks.DynamoDBAPI) {
		mockClient := mocks.NewDynamoDBAPI(t)
		return &Store{Client: mockClient, AgreementsTableName: "agreements", MilestonesTableName: "milestones"}, mockClient
	}
	batchKeys := func(in *dynamodb.BatchGetItemInput) []string {
		var ids []string
		for _, key := range in.RequestItems["milestones"].Keys {
			ids = append(ids, key["id"].(*types.AttributeValueMemberS).Value)
		}
		return ids
	}

	t.Run("Success", func(t *testing.T) {
		store, mockClient := newStore(t)

		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return *in.TableName == "agreements" && *in.ConsistentRead
		})).Return(&dynamodb.GetItemOutput{Item: marshalAll(t, agreement)[0]}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.IndexName == agreementMilestoneGSI && *in.ProjectionExpression == "id"
		})).Return(&dynamodb.QueryOutput{Items: marshalAll(t, map[string]string{"id": "m-old"}, map[string]string{"id": "m-1"})}, nil).Once()
		mockClient.On("BatchGetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.BatchGetItemInput) bool {
			return *in.RequestItems["milestones"].ConsistentRead &&
				assert.ObjectsAreEqual([]string{"m-1", "m-2", "m-old"}, batchKeys(in))
		})).Return(&dynamodb.BatchGetItemOutput{
			Responses: map[string][]map[string]types.AttributeValue{"milestones": marshalAll(t, second, replaced, first)},
		}, nil).Once()

		result, err := store.ListMilestones(context.Background(), "AGR-1")

		require.NoError(t, err)
		require.Len(t, result, 3)
		assert.Equal(t, "m-1", result[0].ID)
		assert.Equal(t, models.MilestoneApproved, result[0].Status)
		assert.Equal(t, "m-old", result[1].ID)
		assert.Equal(t, "m-2", result[2].ID)
	})

	t.Run("Index Lagging Behind Writes", func(t *testing.T) {
		store, mockClient := newStore(t)

		// The index has not caught up with a freshly created agreement.
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: marshalAll(t, agreement)[0]}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil).Once()
		mockClient.On("BatchGetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.BatchGetItemInput) bool {
			return assert.ObjectsAreEqual([]string{"m-1", "m-2"}, batchKeys(in))
		})).Return(&dynamodb.BatchGetItemOutput{
			Responses: map[string][]map[string]types.AttributeValue{"milestones": marshalAll(t, first, second)},
		}, nil).Once()

		result, err := store.ListMilestones(context.Background(), "AGR-1")

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "m-1", result[0].ID)
		assert.Equal(t, "m-2", result[1].ID)
	})

	t.Run("Unprocessed Keys", func(t *testing.T) {
		store, mockClient := newStore(t)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: marshalAll(t, agreement)[0]}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil).Once()
		mockClient.On("BatchGetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.BatchGetItemInput) bool {
			return len(batchKeys(in)) == 2
		})).Return(&dynamodb.BatchGetItemOutput{
			Responses: map[string][]map[string]types.AttributeValue{"milestones": marshalAll(t, first)},
			UnprocessedKeys: map[string]types.KeysAndAttributes{"milestones": {
				Keys:           []map[string]types.AttributeValue{{"id": &types.AttributeValueMemberS{Value: "m-2"}}},
				ConsistentRead: aws.Bool(true),
			}},
		}, nil).Once()
		mockClient.On("BatchGetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.BatchGetItemInput) bool {
			return assert.ObjectsAreEqual([]string{"m-2"}, batchKeys(in))
		})).Return(&dynamodb.BatchGetItemOutput{
			Responses: map[string][]map[string]types.AttributeValue{"milestones": marshalAll(t, second)},
		}, nil).Once()

		result, err := store.ListMilestones(context.Background(), "AGR-1")

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "m-2", result[1].ID)
	})

	t.Run("Storage Error", func(t *testing.T) {
		store, mockClient := newStore(t)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed")).Once()

		_, err := store.ListMilestones(context.Background(), "AGR-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query for milestones")
	})

	t.Run("Batch Read Error", func(t *testing.T) {
		store, mockClient := newStore(t)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: marshalAll(t, agreement)[0]}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil).Once()
		mockClient.On("BatchGetItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

		_, err := store.ListMilestones(context.Background(), "AGR-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read milestones")
	})
}

func TestGetMilestoneNotFound(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := &Store{Client: mockClient, MilestonesTableName: "milestones"}

	mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := store.GetMilestone(context.Background(), "m-1")

	assert.ErrorIs(t, err, storage.ErrNotFound)
	mockClient.AssertExpectations(t)
}
