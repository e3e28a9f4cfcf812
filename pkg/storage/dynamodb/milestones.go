package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
)

const agreementMilestoneGSI = "agreement_id-index"

// GetMilestone retrieves a milestone from DynamoDB by its ID.
func (s *Store) GetMilestone(ctx context.Context, id string) (*models.Milestone, error) {
	var m models.Milestone
	if err := s.getItem(ctx, s.MilestonesTableName, "id", id, "milestone", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMilestones retrieves every milestone of an agreement, ordered by number.
//
// The agreement_id index is eventually consistent, so it is only used to
// discover replaced milestones. The active set comes from the agreement
// record and every item is read back with a consistent BatchGetItem.
func (s *Store) ListMilestones(ctx context.Context, agreementID string) ([]*models.Milestone, error) {
	ids, err := s.milestoneIDs(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	items, err := s.batchGet(ctx, s.MilestonesTableName, "id", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read milestones: %w", err)
	}

	var milestones []*models.Milestone
	if err := attributevalue.UnmarshalListOfMaps(items, &milestones); err != nil {
		return nil, fmt.Errorf("failed to unmarshal milestones: %w", err)
	}

	// Replaced milestones share numbers with their successors; active ones sort first.
	sort.SliceStable(milestones, func(i, j int) bool {
		if milestones[i].MilestoneNumber != milestones[j].MilestoneNumber {
			return milestones[i].MilestoneNumber < milestones[j].MilestoneNumber
		}
		return milestones[i].IsActive && !milestones[j].IsActive
	})
	return milestones, nil
}

// milestoneIDs merges the agreement's current milestone IDs with those the
// index knows about, keeping first-seen order.
func (s *Store) milestoneIDs(ctx context.Context, agreementID string) ([]string, error) {
	var ids []string
	seen := map[string]bool{}
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	var a models.Agreement
	err := s.getItem(ctx, s.AgreementsTableName, "id", agreementID, "agreement", &a)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	for _, id := range a.MilestoneIDs {
		add(id)
	}

	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.MilestonesTableName),
		IndexName:              aws.String(agreementMilestoneGSI),
		KeyConditionExpression: aws.String("agreement_id = :agreementID"),
		ProjectionExpression:   aws.String("id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":agreementID": &types.AttributeValueMemberS{Value: agreementID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query for milestones: %w", err)
	}
	for _, item := range items {
		if id, ok := item["id"].(*types.AttributeValueMemberS); ok {
			add(id.Value)
		}
	}
	return ids, nil
}
