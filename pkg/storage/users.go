package storage

import (
	"context"

	"github.com/chris/gig-agreements/pkg/models"
)

// IdentityResolver maps a wallet address to a registered user.
type IdentityResolver interface {
	// ResolveWallet returns the user ID registered for the wallet, or ErrNotFound.
	ResolveWallet(ctx context.Context, walletAddress string) (string, error)
}

// UserStore defines the interface for reading users.
type UserStore interface {
	IdentityResolver
	GetUser(ctx context.Context, userID string) (*models.User, error)
}
