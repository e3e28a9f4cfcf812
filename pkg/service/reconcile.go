package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/blockchain"
	"github.com/chris/gig-agreements/pkg/events"
	"github.com/chris/gig-agreements/pkg/metrics"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
	"github.com/chris/gig-agreements/pkg/workflow"
)

// Verification outcomes.
const (
	OutcomeVerified   = "verified"
	OutcomeReverted   = "reverted"
	OutcomeNotFound   = "not_found"
	OutcomeUnverified = "unverified"
)

// RevertedCode is the failure code of a transaction whose receipt reverted.
const RevertedCode = "onchain_reverted"

// settler applies on-chain outcomes to transactions. It is shared by the
// request path and the reconciliation sweep.
type settler struct {
	store     storage.ReconciliationStore
	publisher events.Publisher
}

func outcomeOf(res *blockchain.Result) string {
	switch {
	case res.Verified:
		return OutcomeVerified
	case res.Receipt == nil:
		return OutcomeNotFound
	case !res.Receipt.Success:
		return OutcomeReverted
	default:
		return OutcomeUnverified
	}
}

func unsettled(tx *models.Transaction) bool {
	return tx.Status == models.TxPending || tx.Status == models.TxProcessing
}

// settle records a verification result. Only pending or processing
// transactions change; anything else is reported as is.
func (st settler) settle(ctx context.Context, a *models.Agreement, tx *models.Transaction, res *blockchain.Result, now time.Time) error {
	outcome := outcomeOf(res)
	network := ""
	if tx.Blockchain != nil {
		network = tx.Blockchain.Network
	}
	metrics.RecordVerification(network, outcome)

	if !unsettled(tx) {
		if outcome == OutcomeReverted {
			slog.Warn("Settled transaction reverted on chain", "transactionId", tx.ID, "status", tx.Status)
		}
		return nil
	}
	switch outcome {
	case OutcomeVerified:
		return st.complete(ctx, a, tx, res.Receipt.Proof(now), now)
	case OutcomeReverted:
		return st.fail(ctx, a, tx, RevertedCode, res.Reason, now)
	}
	return nil
}

// complete attaches proof to tx. A milestone payment also settles its
// milestone and refreshes the agreement's milestone counters.
func (st settler) complete(ctx context.Context, a *models.Agreement, tx *models.Transaction, proof models.ChainProof, now time.Time) error {
	if proof.Network == "" && tx.Blockchain != nil {
		proof.Network = tx.Blockchain.Network
	}
	if err := workflow.MarkTransactionCompleted(tx, proof, now); err != nil {
		return err
	}
	cs := &storage.ChangeSet{Transactions: []*models.Transaction{tx}}

	var paid *models.Milestone
	if tx.Type == models.TxMilestonePayment && tx.MilestoneID != "" {
		ms, err := st.store.ListMilestones(ctx, a.ID)
		if err != nil {
			return apperrors.Internal("failed to load milestones", err)
		}
		for _, m := range ms {
			if m.ID == tx.MilestoneID && workflow.MarkMilestonePaid(m, now) {
				paid = m
			}
		}
		if paid != nil {
			workflow.RecomputeMilestoneStats(a, ms)
			a.UpdatedAt = now
			cs.Agreement = a
			cs.Milestones = []*models.Milestone{paid}
		}
	}

	if err := commitChanges(ctx, st.store, "complete_transaction", cs); err != nil {
		return err
	}
	evs := []*events.Event{withTransaction(events.New(events.TransactionUpdated, a, now), tx)}
	if paid != nil {
		metrics.RecordMilestoneTransition(string(models.MilestoneApproved), string(paid.Status))
		evs = append(evs, withMilestone(events.New(events.MilestoneUpdated, a, now), paid))
	}
	publishAll(ctx, st.publisher, evs...)
	return nil
}

func (st settler) fail(ctx context.Context, a *models.Agreement, tx *models.Transaction, code, message string, now time.Time) error {
	if err := workflow.MarkTransactionFailed(tx, code, message, now); err != nil {
		return err
	}
	if err := commitChanges(ctx, st.store, "fail_transaction", &storage.ChangeSet{Transactions: []*models.Transaction{tx}}); err != nil {
		return err
	}
	slog.Warn("Transaction failed on chain", "transactionId", tx.ID, "agreementId", a.ID, "reason", message)
	publishAll(ctx, st.publisher, withTransaction(events.New(events.TransactionUpdated, a, now), tx))
	return nil
}

// DefaultMaxAge is how old a pending transaction must be before the sweep
// checks it.
const DefaultMaxAge = 10 * time.Minute

// Summary counts what one reconciliation sweep did.
type Summary struct {
	Checked   int
	Completed int
	Failed    int
	Skipped   int
	Errors    int
}

// Reconciler re-verifies pending transactions that carry a transaction hash.
type Reconciler struct {
	Store     storage.ReconciliationStore
	Verifier  Verifier
	Publisher events.Publisher
	MaxAge    time.Duration
	Now       func() time.Time
}

// NewReconciler creates a Reconciler with the default age threshold.
func NewReconciler(store storage.ReconciliationStore, verifier Verifier, publisher events.Publisher) *Reconciler {
	if publisher == nil {
		publisher = events.NoOp{}
	}
	return &Reconciler{
		Store:     store,
		Verifier:  verifier,
		Publisher: publisher,
		MaxAge:    DefaultMaxAge,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run performs one sweep. Per-transaction failures are logged and counted
// so one bad record does not stop the rest; the next sweep picks them up.
func (r *Reconciler) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	txs, err := r.Store.GetPendingTransactions(ctx, r.MaxAge)
	if err != nil {
		return sum, fmt.Errorf("failed to get pending transactions: %w", err)
	}
	st := settler{store: r.Store, publisher: r.Publisher}

	for _, tx := range txs {
		if tx.Blockchain == nil || tx.Blockchain.TxHash == "" {
			sum.Skipped++
			continue
		}
		sum.Checked++

		res, err := r.Verifier.Verify(ctx, tx.Blockchain.TxHash, tx.Blockchain.Network, expectedValue(tx))
		if err != nil {
			sum.Errors++
			slog.Error("Failed to verify transaction", "transactionId", tx.ID, "error", err)
			continue
		}
		a, err := r.Store.GetAgreement(ctx, tx.AgreementID)
		if err != nil {
			sum.Errors++
			slog.Error("Failed to load agreement for transaction", "transactionId", tx.ID, "agreementId", tx.AgreementID, "error", err)
			continue
		}
		if err := st.settle(ctx, a, tx, res, r.Now()); err != nil {
			sum.Errors++
			if apperrors.Is(err, apperrors.KindConflict) {
				slog.Info("Transaction changed during reconciliation", "transactionId", tx.ID)
			} else {
				slog.Error("Failed to settle transaction", "transactionId", tx.ID, "error", err)
			}
			continue
		}

		switch tx.Status {
		case models.TxCompleted:
			sum.Completed++
		case models.TxFailed:
			sum.Failed++
		}
	}
	return sum, nil
}
