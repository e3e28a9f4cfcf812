package workflow

import (
	"time"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/models"
)

// FundEscrow records a deposit of the full contract value.
func FundEscrow(a *models.Agreement, now time.Time) {
	total := a.Financials.TotalValue
	a.Escrow = models.Escrow{
		Status:         models.EscrowLocked,
		TotalAmount:    total,
		HeldAmount:     total,
		ReleasedAmount: models.Zero,
		FundedAt:       &now,
	}
	recomputeRemaining(a)
}

// TopUpDue is the part of the contract value that has not been deposited
// into a funded escrow, after an approved payment change raised the total.
func TopUpDue(a *models.Agreement) models.Amount {
	if a.Escrow.FundedAt == nil {
		return models.Zero
	}
	due := a.Financials.TotalValue.Sub(a.Escrow.TotalAmount)
	if !due.IsPositive() {
		return models.Zero
	}
	return due
}

// TopUpEscrow records an additional deposit against the outstanding top-up.
// A drained escrow is reopened so the new funds can be released.
func TopUpEscrow(a *models.Agreement, amount models.Amount, now time.Time) error {
	if !amount.IsPositive() {
		return apperrors.Validation("deposit amount must be positive")
	}
	if a.Escrow.FundedAt == nil {
		return apperrors.Validation("agreement escrow has not been funded")
	}
	due := TopUpDue(a)
	if !due.IsPositive() {
		return apperrors.Validation("escrow already covers the contract value")
	}
	if amount.Cmp(due) > 0 {
		return apperrors.Validation("deposit of %s exceeds the %s owed to escrow", amount, due)
	}

	a.Escrow.TotalAmount = a.Escrow.TotalAmount.Add(amount)
	a.Escrow.HeldAmount = a.Escrow.HeldAmount.Add(amount)
	if a.Escrow.ReleasedAmount.IsZero() {
		a.Escrow.Status = models.EscrowLocked
	} else {
		a.Escrow.Status = models.EscrowReleasing
	}
	a.Escrow.ReleasedAt = nil
	recomputeRemaining(a)
	return nil
}

// ReleasePayment moves amount from held escrow to released. It fails rather
// than overdraw: the released total can never exceed the contract value.
func ReleasePayment(a *models.Agreement, amount models.Amount, now time.Time) error {
	if !amount.IsPositive() {
		return apperrors.Validation("release amount must be positive")
	}
	if a.Escrow.Status != models.EscrowLocked && a.Escrow.Status != models.EscrowReleasing {
		return apperrors.Validation("escrow is not funded")
	}
	if amount.Cmp(a.Escrow.HeldAmount) > 0 {
		return apperrors.Validation("release of %s exceeds held escrow of %s", amount, a.Escrow.HeldAmount)
	}
	if a.Financials.ReleasedAmount.Add(amount).Cmp(a.Financials.TotalValue) > 0 {
		return apperrors.Validation("release of %s exceeds contract value", amount)
	}

	a.Escrow.HeldAmount = a.Escrow.HeldAmount.Sub(amount)
	a.Escrow.ReleasedAmount = a.Escrow.ReleasedAmount.Add(amount)
	a.Financials.ReleasedAmount = a.Financials.ReleasedAmount.Add(amount)
	a.Escrow.Status = models.EscrowReleasing
	settleIfDrained(a, now)
	recomputeRemaining(a)
	return nil
}

// RecordRefund returns amount from held escrow to the client.
func RecordRefund(a *models.Agreement, amount models.Amount, now time.Time) error {
	if !amount.IsPositive() {
		return apperrors.Validation("refund amount must be positive")
	}
	if amount.Cmp(a.Escrow.HeldAmount) > 0 {
		return apperrors.Validation("refund of %s exceeds held escrow of %s", amount, a.Escrow.HeldAmount)
	}
	a.Escrow.HeldAmount = a.Escrow.HeldAmount.Sub(amount)
	a.Financials.RefundedAmount = a.Financials.RefundedAmount.Add(amount)
	settleIfDrained(a, now)
	recomputeRemaining(a)
	return nil
}

func settleIfDrained(a *models.Agreement, now time.Time) {
	if a.Escrow.HeldAmount.IsZero() {
		a.Escrow.Status = models.EscrowCompleted
		a.Escrow.ReleasedAt = &now
	}
}

func recomputeRemaining(a *models.Agreement) {
	a.Financials.RemainingAmount = a.Financials.TotalValue.
		Sub(a.Financials.ReleasedAmount).
		Sub(a.Financials.RefundedAmount)
}
