package storage

import (
	"context"
	"time"

	"github.com/chris/gig-agreements/pkg/models"
)

// TransactionReader defines the interface for reading transaction data.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// ListTransactionsByAgreement retrieves every transaction recorded against an agreement, oldest first.
	ListTransactionsByAgreement(ctx context.Context, agreementID string) ([]*models.Transaction, error)

	// GetPendingTransactions retrieves pending or processing transactions created more than maxAge ago.
	GetPendingTransactions(ctx context.Context, maxAge time.Duration) ([]*models.Transaction, error)
}
