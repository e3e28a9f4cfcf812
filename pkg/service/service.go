// Package service runs the agreement workflow against storage. Every
// mutation reads the records it needs, applies a pure transition from
// pkg/workflow and persists all touched records in one conditional commit.
// Events are published only after the commit succeeds.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/blockchain"
	"github.com/chris/gig-agreements/pkg/events"
	"github.com/chris/gig-agreements/pkg/metrics"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
	"github.com/chris/gig-agreements/pkg/uploads"
	"github.com/chris/gig-agreements/pkg/workflow"
)

// Verifier checks a transaction hash on chain.
type Verifier interface {
	Verify(ctx context.Context, txHash, network string, expected *models.Amount) (*blockchain.Result, error)
}

// Service holds the dependencies of the agreement workflow.
type Service struct {
	Store     storage.ApiStore
	Verifier  Verifier
	Uploader  uploads.Uploader
	Publisher events.Publisher
	// Now is the clock. It defaults to time.Now in UTC.
	Now func() time.Time
}

// New creates a Service. A nil uploader records content digests only and a
// nil publisher drops events.
func New(store storage.ApiStore, verifier Verifier, uploader uploads.Uploader, publisher events.Publisher) *Service {
	if uploader == nil {
		uploader = uploads.Digest{}
	}
	if publisher == nil {
		publisher = events.NoOp{}
	}
	return &Service{
		Store:     store,
		Verifier:  verifier,
		Uploader:  uploader,
		Publisher: publisher,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) now() time.Time {
	return s.Now()
}

// update is the working set of one agreement mutation.
type update struct {
	agreement  *models.Agreement
	milestones []*models.Milestone
	party      models.Party
	actor      models.Actor
	now        time.Time
	changes    *storage.ChangeSet
	events     []*events.Event
}

func (u *update) addMilestones(ms ...*models.Milestone) {
	u.changes.Milestones = append(u.changes.Milestones, ms...)
}

func (u *update) addTransaction(tx *models.Transaction) {
	if tx == nil {
		return
	}
	u.changes.Transactions = append(u.changes.Transactions, tx)
	u.events = append(u.events, withTransaction(events.New(events.TransactionRecorded, u.agreement, u.now), tx))
}

func withTransaction(e *events.Event, tx *models.Transaction) *events.Event {
	e.Transaction = tx
	return e
}

func withMilestone(e *events.Event, m *models.Milestone) *events.Event {
	e.Milestone = m
	return e
}

func notFoundOr(err error, noun, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound("%s %s not found", noun, id)
	}
	return apperrors.Internal(fmt.Sprintf("failed to load %s", noun), err)
}

func requireParty(p models.Party) error {
	if p != models.PartyClient && p != models.PartyDeveloper {
		return apperrors.Authorization("you are not a party to this agreement")
	}
	return nil
}

// loadAgreement reads the agreement and resolves the caller's role on it.
func (s *Service) loadAgreement(ctx context.Context, id string, actor models.Actor) (*models.Agreement, models.Party, error) {
	a, err := s.Store.GetAgreement(ctx, id)
	if err != nil {
		return nil, models.PartyNeither, notFoundOr(err, "agreement", id)
	}
	return a, workflow.ResolveParty(a, actor), nil
}

func (s *Service) listMilestones(ctx context.Context, agreementID string) ([]*models.Milestone, error) {
	ms, err := s.Store.ListMilestones(ctx, agreementID)
	if err != nil {
		return nil, apperrors.Internal("failed to load milestones", err)
	}
	return ms, nil
}

// backfill links the user behind a wallet-only party. A lookup miss or
// failure never blocks the operation.
func (s *Service) backfill(ctx context.Context, a *models.Agreement, p models.Party) {
	wallet, ok := workflow.UnlinkedWallet(a, p)
	if !ok {
		return
	}
	userID, err := s.Store.ResolveWallet(ctx, wallet)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Failed to resolve wallet owner", "agreementId", a.ID, "party", p, "error", err)
		}
		return
	}
	workflow.LinkUser(a, p, userID)
}

// updateAgreement runs apply on a fresh read of the agreement and its
// milestones and commits everything apply recorded, the agreement included.
func (s *Service) updateAgreement(ctx context.Context, actor models.Actor, id, op string, apply func(u *update) error) (*AgreementDetails, error) {
	a, p, err := s.loadAgreement(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	ms, err := s.listMilestones(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	s.backfill(ctx, a, p)

	u := &update{
		agreement:  a,
		milestones: ms,
		party:      p,
		actor:      actor,
		now:        s.now(),
		changes:    &storage.ChangeSet{Agreement: a},
	}
	before := a.Status
	if err := apply(u); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, op, u.changes); err != nil {
		return nil, err
	}

	metrics.RecordAgreementTransition(string(before), string(a.Status))
	s.publish(ctx, append([]*events.Event{events.New(events.AgreementUpdated, a, u.now)}, u.events...)...)
	return newDetails(a, u.milestones, p), nil
}

// commit persists a change set and classifies storage failures.
func (s *Service) commit(ctx context.Context, op string, cs *storage.ChangeSet) error {
	return commitChanges(ctx, s.Store, op, cs)
}

func commitChanges(ctx context.Context, store storage.Committer, op string, cs *storage.ChangeSet) error {
	if err := store.Commit(ctx, cs); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			metrics.RecordCommitConflict(op)
			return apperrors.Conflict("the agreement was changed by another request, reload and try again")
		}
		return apperrors.Internal("failed to save changes", err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, evs ...*events.Event) {
	publishAll(ctx, s.Publisher, evs...)
}

// publishAll delivers events after a commit. Failures are logged, the
// committed change stands.
func publishAll(ctx context.Context, publisher events.Publisher, evs ...*events.Event) {
	for _, e := range evs {
		if err := publisher.Publish(ctx, e); err != nil {
			metrics.RecordEventPublishFailure(string(e.Type))
			slog.Error("Failed to publish event", "type", e.Type, "agreementId", e.AgreementID, "error", err)
		}
	}
}
