package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/gig-agreements/pkg/blockchain"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/service/mocks"
	"github.com/chris/gig-agreements/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReconcilerRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Completes Verified Payment", func(t *testing.T) {
		s, store, pub := newTestService(t)
		d, payment := approvedPayment(t, s)
		_, err := s.UpdateTransactionStatus(ctx, client, payment.ID, StatusUpdate{Status: models.TxProcessing, TxHash: paymentHash, Network: "sepolia"})
		require.NoError(t, err)

		verifier := new(mocks.Verifier)
		receipt := &blockchain.Receipt{TxHash: paymentHash, Network: "sepolia", Success: true, Confirmations: 3, Value: models.MustAmount("1000")}
		verifier.On("Verify", mock.Anything, paymentHash, "sepolia", mock.Anything).Return(&blockchain.Result{Verified: true, Receipt: receipt}, nil).Once()

		r := NewReconciler(store, verifier, pub)
		r.MaxAge = time.Minute
		sum, err := r.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, Summary{Checked: 1, Completed: 1}, sum)
		tx, err := store.GetTransaction(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TxCompleted, tx.Status)
		m, err := store.GetMilestone(ctx, d.Milestones[0].ID)
		require.NoError(t, err)
		assert.Equal(t, models.MilestonePaid, m.Status)
		verifier.AssertExpectations(t)

		sum, err = r.Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, sum.Checked)
	})

	t.Run("Skips Transactions Without Hash", func(t *testing.T) {
		s, store, _ := newTestService(t)
		approvedPayment(t, s)
		verifier := new(mocks.Verifier)

		r := NewReconciler(store, verifier, nil)
		r.MaxAge = time.Minute
		sum, err := r.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, Summary{Skipped: 1}, sum)
		verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Verifier Error Is Counted", func(t *testing.T) {
		s, store, _ := newTestService(t)
		d := activeAgreement(t, s, "100")
		_, err := s.Cancel(ctx, client, d.Agreement.ID, "dropped")
		require.NoError(t, err)
		refund, err := s.CreateTransaction(ctx, client, d.Agreement.ID, workflow.TransactionRequest{Type: models.TxRefund, Amount: models.MustAmount("100")})
		require.NoError(t, err)
		_, err = s.UpdateTransactionStatus(ctx, client, refund.ID, StatusUpdate{Status: models.TxProcessing, TxHash: paymentHash, Network: "sepolia"})
		require.NoError(t, err)

		verifier := new(mocks.Verifier)
		verifier.On("Verify", mock.Anything, paymentHash, "sepolia", mock.Anything).Return(nil, errors.New("fetch head: timeout"))

		r := NewReconciler(store, verifier, nil)
		r.MaxAge = time.Minute
		sum, err := r.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, Summary{Checked: 1, Errors: 1}, sum)
		tx, err := store.GetTransaction(ctx, refund.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TxProcessing, tx.Status)
	})
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeVerified, outcomeOf(&blockchain.Result{Verified: true, Receipt: &blockchain.Receipt{Success: true}}))
	assert.Equal(t, OutcomeNotFound, outcomeOf(&blockchain.Result{Reason: "not found"}))
	assert.Equal(t, OutcomeReverted, outcomeOf(&blockchain.Result{Receipt: &blockchain.Receipt{}}))
	assert.Equal(t, OutcomeUnverified, outcomeOf(&blockchain.Result{Receipt: &blockchain.Receipt{Success: true}}))
}
