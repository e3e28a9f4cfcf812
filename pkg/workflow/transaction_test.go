package workflow

import (
	"testing"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionStatusIsForwardOnly(t *testing.T) {
	statuses := []models.TransactionStatus{
		models.TxPending, models.TxProcessing, models.TxCompleted,
		models.TxFailed, models.TxCancelled, models.TxRefunded,
	}
	for _, from := range []models.TransactionStatus{models.TxCompleted, models.TxFailed} {
		for _, to := range statuses {
			if from == models.TxCompleted && to == models.TxRefunded {
				continue
			}
			assert.False(t, CanTransitionTransaction(from, to), "%s -> %s", from, to)
		}
	}

	tx := &models.Transaction{Type: models.TxPlatformFee, Status: models.TxPending}
	require.NoError(t, AdvanceTransaction(tx, models.TxProcessing, "", "", t0))
	require.NoError(t, MarkTransactionCompleted(tx, models.ChainProof{TxHash: txHash}, t0))
	assert.Equal(t, models.TxCompleted, tx.Status)
	assert.NotNil(t, tx.CompletedAt)

	err := MarkTransactionFailed(tx, "late", "too late", t0)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Equal(t, models.TxCompleted, tx.Status)

	err = AdvanceTransaction(tx, models.TxPending, "", "", t0)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	require.NoError(t, AdvanceTransaction(tx, models.TxRefunded, "", "", t0))
}

func TestAdvanceTransaction(t *testing.T) {
	tx := &models.Transaction{Status: models.TxPending}

	err := AdvanceTransaction(tx, models.TxCompleted, "", "", t0)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	err = AdvanceTransaction(tx, models.TxFailed, "", "", t0)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	require.NoError(t, AdvanceTransaction(tx, models.TxFailed, "insufficient_gas", "out of gas", t0))
	assert.Equal(t, "insufficient_gas", tx.Failure.Code)

	err = MarkTransactionCompleted(tx, models.ChainProof{TxHash: txHash}, t0)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Nil(t, tx.Blockchain)
}

func TestAdvanceTransactionKeepsEscrowConsistent(t *testing.T) {
	for _, typ := range []models.TransactionType{models.TxEscrowDeposit, models.TxMilestonePayment, models.TxFinalPayment, models.TxRefund} {
		pending := &models.Transaction{Type: typ, Status: models.TxPending}
		err := AdvanceTransaction(pending, models.TxCancelled, "", "", t0)
		assert.True(t, apperrors.Is(err, apperrors.KindValidation), "%s cancelled", typ)
		assert.Equal(t, models.TxPending, pending.Status)

		completed := &models.Transaction{Type: typ, Status: models.TxCompleted}
		err = AdvanceTransaction(completed, models.TxRefunded, "", "", t0)
		assert.True(t, apperrors.Is(err, apperrors.KindValidation), "%s refunded", typ)
		assert.Equal(t, models.TxCompleted, completed.Status)
	}

	fee := &models.Transaction{Type: models.TxPlatformFee, Status: models.TxPending}
	require.NoError(t, AdvanceTransaction(fee, models.TxCancelled, "", "", t0))
	assert.Equal(t, models.TxCancelled, fee.Status)
}

func TestRecordTransaction(t *testing.T) {
	t.Run("Milestone Payment Rejected", func(t *testing.T) {
		a, _ := activeAgreement(t, "100")
		_, err := RecordTransaction(a, models.PartyClient, TransactionRequest{Type: models.TxMilestonePayment, Amount: amt("1")}, t0)
		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	})

	t.Run("Deposit Without Top Up Due", func(t *testing.T) {
		a, _ := activeAgreement(t, "100")
		_, err := RecordTransaction(a, models.PartyClient, TransactionRequest{Type: models.TxEscrowDeposit, Amount: amt("1")}, t0)
		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		assert.Equal(t, "100", a.Escrow.TotalAmount.String())
	})

	t.Run("Top Up After Raised Total", func(t *testing.T) {
		a, ms := activeAgreement(t, "100")
		submitted(t, a, ms[0])
		_, err := ApproveMilestone(a, ms[0], ms, models.PartyClient, clientActor, Approval{Rating: 5}, t0)
		require.NoError(t, err)
		require.Equal(t, models.EscrowCompleted, a.Escrow.Status)
		a.Financials.TotalValue = amt("150")

		_, err = RecordTransaction(a, models.PartyDeveloper, TransactionRequest{Type: models.TxEscrowDeposit, Amount: amt("50")}, t0)
		assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))
		_, err = RecordTransaction(a, models.PartyClient, TransactionRequest{Type: models.TxEscrowDeposit, Amount: amt("60")}, t0)
		assert.True(t, apperrors.Is(err, apperrors.KindValidation))

		tx, err := RecordTransaction(a, models.PartyClient, TransactionRequest{Type: models.TxEscrowDeposit, Amount: amt("50")}, t0)

		require.NoError(t, err)
		assert.Equal(t, models.TxEscrowDeposit, tx.Type)
		assert.Equal(t, "150", a.Escrow.TotalAmount.String())
		assert.Equal(t, "50", a.Escrow.HeldAmount.String())
		assert.Equal(t, models.EscrowReleasing, a.Escrow.Status)
		assert.True(t, TopUpDue(a).IsZero())

		_, err = RecordTransaction(a, models.PartyClient, TransactionRequest{Type: models.TxFinalPayment, Amount: amt("50")}, t0)
		require.NoError(t, err)
		assert.Equal(t, "150", a.Financials.ReleasedAmount.String())
	})

	t.Run("Final Payment Releases Escrow", func(t *testing.T) {
		a, _ := activeAgreement(t, "100")
		a.Status = models.AgreementAwaitingFinalApproval

		tx, err := RecordTransaction(a, models.PartyClient, TransactionRequest{
			Type:   models.TxFinalPayment,
			Amount: amt("100"),
			Proof:  &models.ChainProof{TxHash: txHash, Network: "sepolia"},
		}, t0)

		require.NoError(t, err)
		assert.Equal(t, models.TxCompleted, tx.Status)
		assert.Equal(t, "100", a.Financials.ReleasedAmount.String())
		assert.Equal(t, "2.5", tx.Fees.Platform.String())
		assert.Equal(t, devActor.UserID, tx.To.UserID)
	})

	t.Run("Final Payment Too Early", func(t *testing.T) {
		a, _ := activeAgreement(t, "100")

		_, err := RecordTransaction(a, models.PartyClient, TransactionRequest{Type: models.TxFinalPayment, Amount: amt("10")}, t0)

		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		assert.True(t, a.Financials.ReleasedAmount.IsZero())
	})

	t.Run("Refund After Cancellation", func(t *testing.T) {
		a, _ := activeAgreement(t, "100")
		require.NoError(t, Cancel(a, models.PartyClient, "project dropped", t0))

		tx, err := RecordTransaction(a, models.PartyDeveloper, TransactionRequest{Type: models.TxRefund, Amount: amt("100")}, t0)

		require.NoError(t, err)
		assert.Equal(t, models.TxPending, tx.Status)
		assert.True(t, tx.Fees.Platform.IsZero())
		assert.Equal(t, "100", a.Financials.RefundedAmount.String())
		assert.Equal(t, "0", a.Financials.RemainingAmount.String())
		assert.Equal(t, clientActor.UserID, tx.To.UserID)

		_, err = RecordTransaction(a, models.PartyClient, TransactionRequest{Type: models.TxRefund, Amount: amt("1")}, t0)
		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	})

	t.Run("Developer Cannot Pay Bonus", func(t *testing.T) {
		a, _ := activeAgreement(t, "100")

		_, err := RecordTransaction(a, models.PartyDeveloper, TransactionRequest{Type: models.TxBonus, Amount: amt("1")}, t0)

		assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))
	})

	t.Run("Currency Mismatch", func(t *testing.T) {
		a, _ := activeAgreement(t, "100")

		_, err := RecordTransaction(a, models.PartyClient, TransactionRequest{Type: models.TxPlatformFee, Amount: amt("1"), Currency: "USD"}, t0)

		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	})
}

func TestPlatformFee(t *testing.T) {
	assert.Equal(t, "25", PlatformFee(amt("1000"), models.TxMilestonePayment).String())
	assert.Equal(t, "0.025", PlatformFee(amt("1"), models.TxEscrowDeposit).String())
	assert.True(t, PlatformFee(amt("1000"), models.TxRefund).IsZero())
	assert.Equal(t, "2.5", FeePercentage(PlatformFeeBps).String())
}

func TestReleasePayment(t *testing.T) {
	a, _ := activeAgreement(t, "100")

	assert.True(t, apperrors.Is(ReleasePayment(a, amt("0"), t0), apperrors.KindValidation))
	assert.True(t, apperrors.Is(ReleasePayment(a, amt("101"), t0), apperrors.KindValidation))
	assert.Equal(t, "100", a.Escrow.HeldAmount.String())

	require.NoError(t, ReleasePayment(a, amt("40"), t0))
	assert.Equal(t, models.EscrowReleasing, a.Escrow.Status)
	assert.Equal(t, "60", a.Escrow.HeldAmount.String())
	assert.Equal(t, "60", a.Financials.RemainingAmount.String())

	require.NoError(t, ReleasePayment(a, amt("60"), t0))
	assert.Equal(t, models.EscrowCompleted, a.Escrow.Status)
	assert.NotNil(t, a.Escrow.ReleasedAt)

	pending := &models.Agreement{Escrow: models.Escrow{Status: models.EscrowPending}}
	assert.True(t, apperrors.Is(ReleasePayment(pending, amt("1"), t0), apperrors.KindValidation))
}
