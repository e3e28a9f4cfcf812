package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/events"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
	"github.com/chris/gig-agreements/pkg/workflow"
)

// AgreementDetails is an agreement with its active milestones populated.
type AgreementDetails struct {
	Agreement  *models.Agreement
	Milestones []*models.Milestone
	// Party is the caller's role on the agreement.
	Party models.Party
}

func newDetails(a *models.Agreement, ms []*models.Milestone, p models.Party) *AgreementDetails {
	active := make([]*models.Milestone, 0, len(ms))
	for _, m := range ms {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return &AgreementDetails{Agreement: a, Milestones: active, Party: p}
}

// CreateAgreement stores a new draft owned by the caller.
func (s *Service) CreateAgreement(ctx context.Context, actor models.Actor, in workflow.AgreementInput) (*AgreementDetails, error) {
	if in.DeveloperID == "" && in.DeveloperWallet != "" {
		userID, err := s.Store.ResolveWallet(ctx, in.DeveloperWallet)
		switch {
		case err == nil:
			in.DeveloperID = userID
		case !errors.Is(err, storage.ErrNotFound):
			slog.Warn("Failed to resolve developer wallet", "error", err)
		}
	}

	now := s.now()
	a, ms, err := workflow.NewAgreement(actor, in, now)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, "create_agreement", &storage.ChangeSet{Agreement: a, Milestones: ms}); err != nil {
		return nil, err
	}

	slog.Info("Agreement created", "agreementId", a.ID, "milestones", len(ms))
	s.publish(ctx, events.New(events.AgreementCreated, a, now))
	return newDetails(a, ms, models.PartyClient), nil
}

// GetAgreement returns an agreement the caller is a party to.
func (s *Service) GetAgreement(ctx context.Context, actor models.Actor, id string) (*AgreementDetails, error) {
	a, p, err := s.loadAgreement(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if err := requireParty(p); err != nil {
		return nil, err
	}
	ms, err := s.listMilestones(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return newDetails(a, ms, p), nil
}

// ListAgreements returns one page of the caller's agreements and the total
// number of matches.
func (s *Service) ListAgreements(ctx context.Context, actor models.Actor, filter storage.ListFilter) ([]*models.Agreement, int, error) {
	if actor.IsZero() {
		return nil, 0, apperrors.Authorization("caller identity is required")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.InvalidFields("invalid filter", []apperrors.FieldError{
			{Field: "status", Message: "unknown agreement status " + string(filter.Status)},
		})
	}
	filter.UserID = actor.UserID
	filter.WalletAddress = actor.WalletAddress

	list, total, err := s.Store.ListAgreements(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list agreements", err)
	}
	return list, total, nil
}

// SubmitAgreement sends a draft to the developer.
func (s *Service) SubmitAgreement(ctx context.Context, actor models.Actor, id string) (*AgreementDetails, error) {
	return s.updateAgreement(ctx, actor, id, "submit", func(u *update) error {
		return workflow.SubmitToDeveloper(u.agreement, u.party, u.now)
	})
}

// DeveloperAccept prices the agreement, replacing its milestones when new
// ones are supplied.
func (s *Service) DeveloperAccept(ctx context.Context, actor models.Actor, id string, in workflow.Pricing) (*AgreementDetails, error) {
	return s.updateAgreement(ctx, actor, id, "developer_accept", func(u *update) error {
		return applyPricing(u, in)
	})
}

func applyPricing(u *update, in workflow.Pricing) error {
	var wasActive []*models.Milestone
	for _, m := range u.milestones {
		if m.IsActive {
			wasActive = append(wasActive, m)
		}
	}
	created, err := workflow.DeveloperAccept(u.agreement, u.milestones, u.party, in, u.now)
	if err != nil {
		return err
	}
	if created == nil {
		return nil
	}
	// The replaced set is written with is_active=false next to the new one.
	u.addMilestones(wasActive...)
	u.addMilestones(created...)
	u.milestones = append(u.milestones, created...)
	return nil
}

// Respond is the developer's answer to a submitted agreement: accept prices
// it, decline cancels it with the given reason.
func (s *Service) Respond(ctx context.Context, actor models.Actor, id string, accept bool, in workflow.Pricing, reason string) (*AgreementDetails, error) {
	return s.updateAgreement(ctx, actor, id, "respond", func(u *update) error {
		if accept {
			return applyPricing(u, in)
		}
		return workflow.Decline(u.agreement, u.party, reason, u.now)
	})
}

// ClientApprove activates the agreement and records the escrow deposit.
func (s *Service) ClientApprove(ctx context.Context, actor models.Actor, id string, in workflow.EscrowFunding) (*AgreementDetails, error) {
	return s.updateAgreement(ctx, actor, id, "client_approve", func(u *update) error {
		tx, err := workflow.ClientApprove(u.agreement, u.party, in, u.now)
		if err != nil {
			return err
		}
		u.addTransaction(tx)
		return nil
	})
}

// Sign records the caller's signature.
func (s *Service) Sign(ctx context.Context, actor models.Actor, id string, in workflow.SignatureInput) (*AgreementDetails, error) {
	return s.updateAgreement(ctx, actor, id, "sign", func(u *update) error {
		return workflow.Sign(u.agreement, u.party, in, u.now)
	})
}

// Complete closes the agreement and credits both parties' statistics in
// the same commit.
func (s *Service) Complete(ctx context.Context, actor models.Actor, id string) (*AgreementDetails, error) {
	return s.updateAgreement(ctx, actor, id, "complete", func(u *update) error {
		deltas, err := workflow.Complete(u.agreement, u.milestones, u.party, u.now)
		if err != nil {
			return err
		}
		u.changes.UserStats = deltas
		return nil
	})
}

// Cancel ends the agreement.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, id, reason string) (*AgreementDetails, error) {
	return s.updateAgreement(ctx, actor, id, "cancel", func(u *update) error {
		return workflow.Cancel(u.agreement, u.party, reason, u.now)
	})
}

// Dispute freezes a running agreement.
func (s *Service) Dispute(ctx context.Context, actor models.Actor, id, reason string) (*AgreementDetails, error) {
	return s.updateAgreement(ctx, actor, id, "dispute", func(u *update) error {
		return workflow.RaiseDispute(u.agreement, u.party, reason, u.now)
	})
}
