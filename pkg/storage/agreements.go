package storage

import (
	"context"

	"github.com/chris/gig-agreements/pkg/models"
)

// ListFilter selects the agreements a user is party to.
type ListFilter struct {
	UserID        string
	WalletAddress string
	Status        models.AgreementStatus
	Page          int
	Limit         int
}

// AgreementReader defines the interface for reading agreements.
type AgreementReader interface {
	GetAgreement(ctx context.Context, id string) (*models.Agreement, error)

	// ListAgreements returns one page of the caller's agreements, newest
	// first, and the total number of matches.
	ListAgreements(ctx context.Context, filter ListFilter) ([]*models.Agreement, int, error)
}

// MilestoneReader defines the interface for reading milestones.
type MilestoneReader interface {
	GetMilestone(ctx context.Context, id string) (*models.Milestone, error)

	// ListMilestones returns every milestone of an agreement, including
	// replaced ones, ordered by milestone number.
	ListMilestones(ctx context.Context, agreementID string) ([]*models.Milestone, error)
}

// Bounds returns the [start, end) window of the filter's page over n items.
// Page is 1-based; out-of-range pages yield an empty window.
func (f ListFilter) Bounds(n int) (int, int) {
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = n
	}
	start := (page - 1) * limit
	if start > n {
		start = n
	}
	end := start + limit
	if end > n {
		end = n
	}
	return start, end
}
