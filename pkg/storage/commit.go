package storage

import (
	"context"

	"github.com/chris/gig-agreements/pkg/models"
)

// ChangeSet is every record touched by one operation. It is written as a
// single atomic unit: either every record is stored or none is.
type ChangeSet struct {
	Agreement    *models.Agreement
	Milestones   []*models.Milestone
	Transactions []*models.Transaction
	UserStats    []models.UserStatsDelta
}

// Empty reports whether the change set has nothing to write.
func (c *ChangeSet) Empty() bool {
	return c.Agreement == nil && len(c.Milestones) == 0 && len(c.Transactions) == 0 && len(c.UserStats) == 0
}

// Committer writes change sets. Each record's Version is the version that
// was read; a record whose stored version differs fails the whole commit
// with ErrConflict. Version 0 means the record must not exist yet. On
// success every record's Version is incremented.
type Committer interface {
	Commit(ctx context.Context, cs *ChangeSet) error
}
