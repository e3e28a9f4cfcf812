package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/gig-agreements/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables names the DynamoDB tables backing the store.
type Tables struct {
	Agreements   string
	Milestones   string
	Transactions string
	Users        string
	Connections  string
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                        DynamoDBAPI
	AgreementsTableName           string
	MilestonesTableName           string
	TransactionsTableName         string
	UsersTableName                string
	WebsocketConnectionsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{
		Client:                        client,
		AgreementsTableName:           tables.Agreements,
		MilestonesTableName:           tables.Milestones,
		TransactionsTableName:         tables.Transactions,
		UsersTableName:                tables.Users,
		WebsocketConnectionsTableName: tables.Connections,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// getItem reads one record by its string key into out. A missing item is
// reported as storage.ErrNotFound.
func (s *Store) getItem(ctx context.Context, table, keyName, id, noun string, out interface{}) error {
	key, err := attributevalue.MarshalMap(map[string]string{keyName: id})
	if err != nil {
		return fmt.Errorf("failed to marshal %s ID: %w", noun, err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to get %s from DynamoDB: %w", noun, err)
	}

	if result.Item == nil {
		return fmt.Errorf("%s with ID %s %w", noun, id, storage.ErrNotFound)
	}

	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", noun, err)
	}
	return nil
}

// queryAll follows LastEvaluatedKey until the query is exhausted.
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, result.Items...)
		if len(result.LastEvaluatedKey) == 0 {
			return items, nil
		}
		next := *input
		next.ExclusiveStartKey = result.LastEvaluatedKey
		input = &next
	}
}

// batchGetLimit is the most keys DynamoDB accepts in one BatchGetItem call.
const batchGetLimit = 100

// batchGet reads the items with the given string keys using strongly
// consistent reads. Keys DynamoDB leaves unprocessed are resubmitted until
// none remain. Missing items are skipped.
func (s *Store) batchGet(ctx context.Context, table, keyName string, ids []string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for start := 0; start < len(ids); start += batchGetLimit {
		end := start + batchGetLimit
		if end > len(ids) {
			end = len(ids)
		}
		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, map[string]types.AttributeValue{keyName: &types.AttributeValueMemberS{Value: id}})
		}

		request := map[string]types.KeysAndAttributes{
			table: {Keys: keys, ConsistentRead: aws.Bool(true)},
		}
		for len(request) > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result, err := s.Client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, err
			}
			items = append(items, result.Responses[table]...)
			request = result.UnprocessedKeys
		}
	}
	return items, nil
}

func isConditionalCheckFailure(err error) bool {
	var condCheckFailed *types.ConditionalCheckFailedException
	if errors.As(err, &condCheckFailed) {
		return true
	}
	var conflict *types.TransactionConflictException
	if errors.As(err, &conflict) {
		return true
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if reason.Code == nil {
				continue
			}
			switch *reason.Code {
			case "ConditionalCheckFailed", "TransactionConflict":
				return true
			}
		}
	}
	return false
}
