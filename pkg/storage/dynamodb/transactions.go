package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/gig-agreements/pkg/models"
)

const (
	pendingTransactionGSI   = "status-created_at-index"
	agreementTransactionGSI = "agreement_id-index"
)

// GetTransaction retrieves a transaction from DynamoDB by its ID.
func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.getItem(ctx, s.TransactionsTableName, "id", txID, "transaction", &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListTransactionsByAgreement retrieves every transaction of an agreement, oldest first.
func (s *Store) ListTransactionsByAgreement(ctx context.Context, agreementID string) ([]*models.Transaction, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(agreementTransactionGSI),
		KeyConditionExpression: aws.String("agreement_id = :agreementID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":agreementID": &types.AttributeValueMemberS{Value: agreementID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query for transactions by agreement: %w", err)
	}

	var transactions []*models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.Before(transactions[j].CreatedAt)
	})
	return transactions, nil
}

// GetPendingTransactions returns pending and processing transactions created
// before now minus maxAge.
func (s *Store) GetPendingTransactions(ctx context.Context, maxAge time.Duration) ([]*models.Transaction, error) {
	cutoffTime := time.Now().UTC().Add(-maxAge)
	cutoffTimeStr, err := cutoffTime.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	var transactions []*models.Transaction
	for _, status := range []models.TransactionStatus{models.TxPending, models.TxProcessing} {
		items, err := s.queryAll(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.TransactionsTableName),
			IndexName:              aws.String(pendingTransactionGSI),
			KeyConditionExpression: aws.String("#status = :status AND created_at < :cutoff"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status": &types.AttributeValueMemberS{Value: string(status)},
				":cutoff": &types.AttributeValueMemberS{Value: string(cutoffTimeStr)},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query for pending transactions: %w", err)
		}

		var page []*models.Transaction
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pending transactions: %w", err)
		}
		transactions = append(transactions, page...)
	}

	return transactions, nil
}
