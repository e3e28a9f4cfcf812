package workflow

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/google/uuid"
)

var milestoneTransitions = map[models.MilestoneStatus][]models.MilestoneStatus{
	models.MilestonePending:           {models.MilestoneInProgress},
	models.MilestoneInProgress:        {models.MilestoneSubmitted},
	models.MilestoneSubmitted:         {models.MilestoneInReview, models.MilestoneApproved, models.MilestoneRevisionRequested, models.MilestoneRejected},
	models.MilestoneInReview:          {models.MilestoneApproved, models.MilestoneRevisionRequested, models.MilestoneRejected},
	models.MilestoneRevisionRequested: {models.MilestoneInProgress, models.MilestoneSubmitted},
	models.MilestoneCompleted:         {models.MilestoneApproved},
	models.MilestoneApproved:          {models.MilestonePaid},
	models.MilestonePaid:              {},
	models.MilestoneRejected:          {},
}

// CanTransitionMilestone reports whether the milestone graph has the edge from -> to.
func CanTransitionMilestone(from, to models.MilestoneStatus) bool {
	return slices.Contains(milestoneTransitions[from], to)
}

func transitionMilestone(m *models.Milestone, to models.MilestoneStatus, now time.Time) error {
	if !m.IsActive {
		return apperrors.Validation("milestone %s has been replaced", m.ID)
	}
	if !CanTransitionMilestone(m.Status, to) {
		return apperrors.Validation("milestone cannot move from %s to %s", m.Status, to)
	}
	m.Status = to
	m.UpdatedAt = now
	return nil
}

func requireRunning(a *models.Agreement) error {
	if a.Status != models.AgreementActive && a.Status != models.AgreementInProgress {
		return apperrors.Validation("agreement in status %s has no work in progress", a.Status)
	}
	return nil
}

// StartMilestone begins work. Starting the first milestone moves an active
// agreement to in_progress.
func StartMilestone(a *models.Agreement, m *models.Milestone, p models.Party, now time.Time) error {
	if err := requireParty(p, models.PartyDeveloper, "start a milestone"); err != nil {
		return err
	}
	if err := requireRunning(a); err != nil {
		return err
	}
	if m.Status != models.MilestonePending {
		return apperrors.Validation("milestone in status %s cannot be started", m.Status)
	}
	if err := transitionMilestone(m, models.MilestoneInProgress, now); err != nil {
		return err
	}
	m.Timeline.StartedAt = &now

	if a.Status == models.AgreementActive {
		return transitionAgreement(a, models.AgreementInProgress, p, now, "first milestone started")
	}
	a.UpdatedAt = now
	return nil
}

// Submission is the developer's delivery for a milestone.
type Submission struct {
	Notes string
	Files []models.EvidenceFile
}

// SubmitMilestone records delivered work for client review.
func SubmitMilestone(a *models.Agreement, m *models.Milestone, p models.Party, actor models.Actor, in Submission, now time.Time) error {
	if err := requireParty(p, models.PartyDeveloper, "submit a milestone"); err != nil {
		return err
	}
	if err := requireRunning(a); err != nil {
		return err
	}
	if m.Status != models.MilestoneInProgress && m.Status != models.MilestoneRevisionRequested {
		return apperrors.Validation("milestone in status %s cannot be submitted", m.Status)
	}
	if strings.TrimSpace(in.Notes) == "" && len(in.Files) == 0 {
		return apperrors.InvalidFields("submission is empty", []apperrors.FieldError{
			{Field: "notes", Message: "notes or files are required"},
		})
	}
	if err := transitionMilestone(m, models.MilestoneSubmitted, now); err != nil {
		return err
	}
	files := in.Files
	if files == nil {
		files = []models.EvidenceFile{}
	}
	m.Submission = &models.Submission{Files: files, Notes: in.Notes, SubmittedAt: now, SubmittedBy: actor.UserID}
	m.Timeline.SubmittedAt = &now
	return nil
}

// BeginReview marks a submitted milestone as under client review.
func BeginReview(a *models.Agreement, m *models.Milestone, p models.Party, now time.Time) error {
	if err := requireParty(p, models.PartyClient, "review a milestone"); err != nil {
		return err
	}
	if err := requireRunning(a); err != nil {
		return err
	}
	return transitionMilestone(m, models.MilestoneInReview, now)
}

// Approval is the client's sign-off on a milestone.
type Approval struct {
	Rating   int
	Feedback string
}

// ApproveMilestone approves the work, releases its value from escrow and
// returns the milestone_payment transaction recording the release. The
// milestone is marked paid in the same unit so a repeated approval can never
// release twice. all must hold every milestone of the agreement, m included.
func ApproveMilestone(a *models.Agreement, m *models.Milestone, all []*models.Milestone, p models.Party, actor models.Actor, in Approval, now time.Time) (*models.Transaction, error) {
	if err := requireParty(p, models.PartyClient, "approve a milestone"); err != nil {
		return nil, err
	}
	if err := requireRunning(a); err != nil {
		return nil, err
	}
	if m.Financials.IsPaid {
		return nil, apperrors.Validation("milestone %d has already been paid", m.MilestoneNumber)
	}
	if m.Status != models.MilestoneSubmitted && m.Status != models.MilestoneInReview {
		return nil, apperrors.Validation("milestone in status %s cannot be approved", m.Status)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperrors.InvalidFields("invalid rating", []apperrors.FieldError{
			{Field: "rating", Message: "rating must be between 1 and 5"},
		})
	}
	if err := transitionMilestone(m, models.MilestoneApproved, now); err != nil {
		return nil, err
	}
	m.Review = &models.Review{Rating: in.Rating, Feedback: in.Feedback, ReviewedAt: now, ReviewedBy: actor.UserID}
	m.Timeline.ApprovedAt = &now

	var tx *models.Transaction
	if m.Financials.Value.IsPositive() {
		if err := ReleasePayment(a, m.Financials.Value, now); err != nil {
			return nil, err
		}
		tx = &models.Transaction{
			ID:          uuid.NewString(),
			Type:        models.TxMilestonePayment,
			AgreementID: a.ID,
			MilestoneID: m.ID,
			From:        counterparty(a, models.PartyClient),
			To:          counterparty(a, models.PartyDeveloper),
			Amount:      models.Money{Value: m.Financials.Value, Currency: m.Financials.Currency},
			Fees:        models.Fees{Platform: PlatformFee(m.Financials.Value, models.TxMilestonePayment)},
			Status:      models.TxPending,
			Description: fmt.Sprintf("Payment for milestone %d of %s", m.MilestoneNumber, a.ID),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		m.Financials.IsPaid = true
		m.Financials.PaidAt = &now
		m.Financials.TransactionID = tx.ID
	}

	RecomputeMilestoneStats(a, all)
	if allAccepted(all) {
		if err := transitionAgreement(a, models.AgreementAwaitingFinalApproval, p, now, "all milestones approved"); err != nil {
			return nil, err
		}
	} else {
		a.UpdatedAt = now
	}
	return tx, nil
}

func allAccepted(ms []*models.Milestone) bool {
	n := 0
	for _, m := range ms {
		if !m.IsActive {
			continue
		}
		if !m.Status.IsAccepted() {
			return false
		}
		n++
	}
	return n > 0
}

// RequestRevision sends a submission back to the developer.
func RequestRevision(a *models.Agreement, m *models.Milestone, p models.Party, actor models.Actor, reason string, now time.Time) error {
	if err := requireParty(p, models.PartyClient, "request a revision"); err != nil {
		return err
	}
	if err := requireRunning(a); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return apperrors.InvalidFields("revision reason is required", []apperrors.FieldError{{Field: "reason", Message: "reason is required"}})
	}
	if err := transitionMilestone(m, models.MilestoneRevisionRequested, now); err != nil {
		return err
	}
	m.Revisions = append(m.Revisions, models.Revision{
		Number:      len(m.Revisions) + 1,
		Reason:      reason,
		RequestedAt: now,
		RequestedBy: actor.UserID,
	})
	return nil
}

// RejectMilestone ends the milestone without payment.
func RejectMilestone(a *models.Agreement, m *models.Milestone, all []*models.Milestone, p models.Party, reason string, now time.Time) error {
	if err := requireParty(p, models.PartyClient, "reject a milestone"); err != nil {
		return err
	}
	if err := requireRunning(a); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return apperrors.InvalidFields("rejection reason is required", []apperrors.FieldError{{Field: "reason", Message: "reason is required"}})
	}
	if err := transitionMilestone(m, models.MilestoneRejected, now); err != nil {
		return err
	}
	m.RejectionReason = reason
	RecomputeMilestoneStats(a, all)
	a.UpdatedAt = now
	return nil
}

// MarkMilestonePaid settles an approved milestone once its payment
// transaction has completed. It is a no-op for any other status.
func MarkMilestonePaid(m *models.Milestone, now time.Time) bool {
	if m.Status != models.MilestoneApproved {
		return false
	}
	m.Status = models.MilestonePaid
	m.UpdatedAt = now
	if m.Financials.PaidAt == nil {
		m.Financials.PaidAt = &now
	}
	m.Financials.IsPaid = true
	return true
}

func fieldName(list string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", list, i, field)
}
