package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
)

// partyIndexes maps each agreement GSI to the attribute it is keyed on.
var (
	userIndexes = map[string]string{
		"client_id-index":    "client_id",
		"developer_id-index": "developer_id",
	}
	walletIndexes = map[string]string{
		"client_wallet-index":    "client_wallet",
		"developer_wallet-index": "developer_wallet",
	}
)

// GetAgreement retrieves an agreement from DynamoDB by its ID.
func (s *Store) GetAgreement(ctx context.Context, id string) (*models.Agreement, error) {
	var a models.Agreement
	if err := s.getItem(ctx, s.AgreementsTableName, "id", id, "agreement", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAgreements queries each party index for the caller, merges the
// results and pages them newest first.
func (s *Store) ListAgreements(ctx context.Context, filter storage.ListFilter) ([]*models.Agreement, int, error) {
	seen := make(map[string]*models.Agreement)

	query := func(indexes map[string]string, value string) error {
		if value == "" {
			return nil
		}
		for index, attr := range indexes {
			input := &dynamodb.QueryInput{
				TableName:              aws.String(s.AgreementsTableName),
				IndexName:              aws.String(index),
				KeyConditionExpression: aws.String("#key = :value"),
				ExpressionAttributeNames: map[string]string{
					"#key": attr,
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":value": &types.AttributeValueMemberS{Value: value},
				},
			}
			if filter.Status != "" {
				input.FilterExpression = aws.String("#status = :status")
				input.ExpressionAttributeNames["#status"] = "status"
				input.ExpressionAttributeValues[":status"] = &types.AttributeValueMemberS{Value: string(filter.Status)}
			}

			items, err := s.queryAll(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to query %s: %w", index, err)
			}
			var page []*models.Agreement
			if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
				return fmt.Errorf("failed to unmarshal agreements: %w", err)
			}
			for _, a := range page {
				seen[a.ID] = a
			}
		}
		return nil
	}

	if err := query(userIndexes, filter.UserID); err != nil {
		return nil, 0, err
	}
	if err := query(walletIndexes, filter.WalletAddress); err != nil {
		return nil, 0, err
	}

	agreements := make([]*models.Agreement, 0, len(seen))
	for _, a := range seen {
		agreements = append(agreements, a)
	}
	sort.Slice(agreements, func(i, j int) bool {
		if agreements[i].CreatedAt.Equal(agreements[j].CreatedAt) {
			return agreements[i].ID < agreements[j].ID
		}
		return agreements[i].CreatedAt.After(agreements[j].CreatedAt)
	})

	start, end := filter.Bounds(len(agreements))
	return agreements[start:end], len(agreements), nil
}
