package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/events"
	"github.com/chris/gig-agreements/pkg/metrics"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/uploads"
	"github.com/chris/gig-agreements/pkg/workflow"
)

// MilestoneDetails is a milestone with the agreement it belongs to.
type MilestoneDetails struct {
	Milestone *models.Milestone
	Agreement *models.Agreement
	// Transaction is the payment recorded by an approval, if any.
	Transaction *models.Transaction
}

// SubmitInput is a developer's delivery. Uploads are stored before the
// milestone is submitted and appended to Files.
type SubmitInput struct {
	Notes   string
	Files   []models.EvidenceFile
	Uploads []uploads.File
}

// GetMilestone returns a milestone of an agreement the caller is a party to.
func (s *Service) GetMilestone(ctx context.Context, actor models.Actor, id string) (*MilestoneDetails, error) {
	m, err := s.Store.GetMilestone(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "milestone", id)
	}
	a, p, err := s.loadAgreement(ctx, m.AgreementID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireParty(p); err != nil {
		return nil, err
	}
	return &MilestoneDetails{Milestone: m, Agreement: a}, nil
}

// updateMilestone runs apply on the milestone and commits it together with
// its agreement, so two requests racing on the same agreement cannot both
// win.
func (s *Service) updateMilestone(ctx context.Context, actor models.Actor, id, op string, apply func(u *update, m *models.Milestone) error) (*MilestoneDetails, error) {
	target, err := s.Store.GetMilestone(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "milestone", id)
	}

	var m *models.Milestone
	var before models.MilestoneStatus
	details, err := s.updateAgreement(ctx, actor, target.AgreementID, op, func(u *update) error {
		m = target
		for _, candidate := range u.milestones {
			if candidate.ID == target.ID {
				m = candidate
				break
			}
		}
		before = m.Status
		if err := apply(u, m); err != nil {
			return err
		}
		u.addMilestones(m)
		u.events = append(u.events, withMilestone(events.New(events.MilestoneUpdated, u.agreement, u.now), m))
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMilestoneTransition(string(before), string(m.Status))
	return &MilestoneDetails{Milestone: m, Agreement: details.Agreement}, nil
}

// StartMilestone begins work on a milestone.
func (s *Service) StartMilestone(ctx context.Context, actor models.Actor, id string) (*MilestoneDetails, error) {
	return s.updateMilestone(ctx, actor, id, "start_milestone", func(u *update, m *models.Milestone) error {
		return workflow.StartMilestone(u.agreement, m, u.party, u.now)
	})
}

// SubmitMilestone stores the uploaded evidence and submits the milestone
// for review. The caller's role and the milestone status are checked before
// anything is uploaded.
func (s *Service) SubmitMilestone(ctx context.Context, actor models.Actor, id string, in SubmitInput) (*MilestoneDetails, error) {
	return s.updateMilestone(ctx, actor, id, "submit_milestone", func(u *update, m *models.Milestone) error {
		if u.party != models.PartyDeveloper {
			return apperrors.Authorization("only the developer can submit a milestone")
		}
		if m.Status != models.MilestoneInProgress && m.Status != models.MilestoneRevisionRequested {
			return apperrors.Validation("milestone in status %s cannot be submitted", m.Status)
		}

		var empty []apperrors.FieldError
		for i, f := range in.Uploads {
			if len(f.Body) == 0 {
				empty = append(empty, apperrors.FieldError{Field: fmt.Sprintf("files[%d]", i), Message: fmt.Sprintf("file %q is empty", f.Name)})
			}
		}
		if len(empty) > 0 {
			return apperrors.InvalidFields("invalid evidence files", empty)
		}

		files := append([]models.EvidenceFile{}, in.Files...)
		for _, f := range in.Uploads {
			stored, err := s.Uploader.Store(ctx, m.ID, f)
			if errors.Is(err, uploads.ErrEmptyFile) {
				return apperrors.InvalidFields("invalid evidence files", []apperrors.FieldError{{Field: "files", Message: err.Error()}})
			}
			if err != nil {
				return apperrors.External("failed to store evidence file "+f.Name, err)
			}
			files = append(files, models.EvidenceFile{
				Name:        stored.Name,
				URL:         stored.URL,
				Hash:        stored.Hash,
				ContentType: stored.ContentType,
				Size:        stored.Size,
			})
		}
		return workflow.SubmitMilestone(u.agreement, m, u.party, u.actor, workflow.Submission{Notes: in.Notes, Files: files}, u.now)
	})
}

// ReviewMilestone marks a submitted milestone as under review.
func (s *Service) ReviewMilestone(ctx context.Context, actor models.Actor, id string) (*MilestoneDetails, error) {
	return s.updateMilestone(ctx, actor, id, "review_milestone", func(u *update, m *models.Milestone) error {
		return workflow.BeginReview(u.agreement, m, u.party, u.now)
	})
}

// ApproveMilestone approves the work and releases its value. The approval,
// the escrow release and the payment record are one commit.
func (s *Service) ApproveMilestone(ctx context.Context, actor models.Actor, id string, in workflow.Approval) (*MilestoneDetails, error) {
	var tx *models.Transaction
	details, err := s.updateMilestone(ctx, actor, id, "approve_milestone", func(u *update, m *models.Milestone) error {
		var err error
		tx, err = workflow.ApproveMilestone(u.agreement, m, u.milestones, u.party, u.actor, in, u.now)
		if err != nil {
			return err
		}
		u.addTransaction(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if tx != nil {
		metrics.RecordEscrowRelease(string(tx.Type))
	}
	details.Transaction = tx
	return details, nil
}

// RequestRevision sends a submission back to the developer.
func (s *Service) RequestRevision(ctx context.Context, actor models.Actor, id, reason string) (*MilestoneDetails, error) {
	return s.updateMilestone(ctx, actor, id, "request_revision", func(u *update, m *models.Milestone) error {
		return workflow.RequestRevision(u.agreement, m, u.party, u.actor, reason, u.now)
	})
}

// RejectMilestone ends a milestone without payment.
func (s *Service) RejectMilestone(ctx context.Context, actor models.Actor, id, reason string) (*MilestoneDetails, error) {
	return s.updateMilestone(ctx, actor, id, "reject_milestone", func(u *update, m *models.Milestone) error {
		return workflow.RejectMilestone(u.agreement, m, u.milestones, u.party, reason, u.now)
	})
}
