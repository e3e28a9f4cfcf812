package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
)

// maxTransactItems is the DynamoDB limit on items per TransactWriteItems call.
const maxTransactItems = 100

// Commit writes every record of the change set in one TransactWriteItems
// call. Each put is conditioned on the version that was read, so a change
// set built from a stale read is rejected as a whole.
func (s *Store) Commit(ctx context.Context, cs *storage.ChangeSet) error {
	if cs.Empty() {
		return nil
	}

	var items []types.TransactWriteItem
	if cs.Agreement != nil {
		item, err := versionedPut(s.AgreementsTableName, cs.Agreement, cs.Agreement.Version)
		if err != nil {
			return fmt.Errorf("failed to marshal agreement: %w", err)
		}
		items = append(items, item)
	}
	for _, m := range cs.Milestones {
		item, err := versionedPut(s.MilestonesTableName, m, m.Version)
		if err != nil {
			return fmt.Errorf("failed to marshal milestone: %w", err)
		}
		items = append(items, item)
	}
	for _, tx := range cs.Transactions {
		item, err := versionedPut(s.TransactionsTableName, tx, tx.Version)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction: %w", err)
		}
		items = append(items, item)
	}
	for _, delta := range cs.UserStats {
		item, err := s.userStatsUpdate(delta)
		if err != nil {
			return fmt.Errorf("failed to marshal user stats: %w", err)
		}
		items = append(items, item)
	}

	if len(items) > maxTransactItems {
		return fmt.Errorf("change set of %d items exceeds the transaction limit of %d", len(items), maxTransactItems)
	}

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if isConditionalCheckFailure(err) {
			return fmt.Errorf("failed to commit changes: %w", storage.ErrConflict)
		}
		return fmt.Errorf("failed to execute commit transaction: %w", err)
	}

	if cs.Agreement != nil {
		cs.Agreement.Version++
	}
	for _, m := range cs.Milestones {
		m.Version++
	}
	for _, tx := range cs.Transactions {
		tx.Version++
	}
	return nil
}

// versionedPut builds a Put that stores record at expected+1 and only
// succeeds if the stored copy is still at expected.
func versionedPut(table string, record interface{}, expected int64) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	av["version"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(expected+1, 10)}

	put := &types.Put{
		TableName: aws.String(table),
		Item:      av,
	}
	if expected == 0 {
		put.ConditionExpression = aws.String("attribute_not_exists(id)")
	} else {
		put.ConditionExpression = aws.String("#version = :expected")
		put.ExpressionAttributeNames = map[string]string{"#version": "version"}
		put.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
		}
	}
	return types.TransactWriteItem{Put: put}, nil
}

func (s *Store) userStatsUpdate(delta models.UserStatsDelta) (types.TransactWriteItem, error) {
	earned, err := attributevalue.Marshal(delta.Earned)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	spent, err := attributevalue.Marshal(delta.Spent)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(s.UsersTableName),
			Key: map[string]types.AttributeValue{
				"user_id": &types.AttributeValueMemberS{Value: delta.UserID},
			},
			UpdateExpression: aws.String("ADD completed_projects :projects, total_earned :earned, total_spent :spent"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":projects": &types.AttributeValueMemberN{Value: strconv.FormatInt(delta.CompletedProjects, 10)},
				":earned":   earned,
				":spent":    spent,
			},
		},
	}, nil
}
