package dynamodb

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
)

const walletAddressGSI = "wallet_address-index"

// GetUser retrieves a user profile, including marketplace stats, by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	if err := s.getItem(ctx, s.UsersTableName, "user_id", userID, "user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ResolveWallet returns the ID of the user registered with the wallet address.
func (s *Store) ResolveWallet(ctx context.Context, walletAddress string) (string, error) {
	wallet := strings.ToLower(walletAddress)
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.UsersTableName),
		IndexName:              aws.String(walletAddressGSI),
		KeyConditionExpression: aws.String("wallet_address = :wallet"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":wallet": &types.AttributeValueMemberS{Value: wallet},
		},
		ProjectionExpression: aws.String("user_id"),
		Limit:                aws.Int32(1),
	})
	if err != nil {
		return "", fmt.Errorf("failed to query users by wallet: %w", err)
	}

	if len(result.Items) == 0 {
		return "", fmt.Errorf("user with wallet %s %w", wallet, storage.ErrNotFound)
	}

	id, ok := result.Items[0]["user_id"].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("user with wallet %s has no user_id", wallet)
	}
	return id.Value, nil
}
