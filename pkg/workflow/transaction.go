package workflow

import (
	"slices"
	"strings"
	"time"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/google/uuid"
)

// Transactions only move forward; completed and failed are never reopened.
var transactionTransitions = map[models.TransactionStatus][]models.TransactionStatus{
	models.TxPending:    {models.TxProcessing, models.TxCompleted, models.TxFailed, models.TxCancelled},
	models.TxProcessing: {models.TxCompleted, models.TxFailed},
	models.TxCompleted:  {models.TxRefunded},
	models.TxFailed:     {},
	models.TxCancelled:  {},
	models.TxRefunded:   {},
}

func CanTransitionTransaction(from, to models.TransactionStatus) bool {
	return slices.Contains(transactionTransitions[from], to)
}

func transitionTransaction(tx *models.Transaction, to models.TransactionStatus, now time.Time) error {
	if !CanTransitionTransaction(tx.Status, to) {
		return apperrors.Validation("transaction cannot move from %s to %s", tx.Status, to)
	}
	tx.Status = to
	tx.UpdatedAt = now
	return nil
}

// TransactionRequest is a manually recorded financial event.
type TransactionRequest struct {
	Type        models.TransactionType
	Amount      models.Amount
	Currency    string
	USDValue    *models.Amount
	NetworkFee  models.Amount
	Description string
	Proof       *models.ChainProof
}

// RecordTransaction creates an escrow top-up, final payment, bonus, refund
// or platform fee record and applies its escrow effect. The initial deposit
// and milestone payments are only ever created by the actions that cause them.
func RecordTransaction(a *models.Agreement, p models.Party, in TransactionRequest, now time.Time) (*models.Transaction, error) {
	switch in.Type {
	case models.TxMilestonePayment:
		return nil, apperrors.InvalidFields("transaction type is created automatically", []apperrors.FieldError{
			{Field: "type", Message: string(in.Type) + " is recorded by the action that triggers it"},
		})
	case models.TxEscrowDeposit, models.TxFinalPayment, models.TxBonus, models.TxPlatformFee:
		if err := requireParty(p, models.PartyClient, "record a "+string(in.Type)); err != nil {
			return nil, err
		}
	case models.TxRefund:
		if err := requireEitherParty(p, "record a refund"); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.InvalidFields("invalid transaction", []apperrors.FieldError{{Field: "type", Message: "unknown transaction type"}})
	}
	if !in.Amount.IsPositive() {
		return nil, apperrors.InvalidFields("invalid transaction", []apperrors.FieldError{{Field: "amount", Message: "amount must be positive"}})
	}
	if in.Proof != nil && !ValidTxHash(in.Proof.TxHash) {
		return nil, apperrors.InvalidFields("invalid transaction", []apperrors.FieldError{{Field: "blockchain.txHash", Message: "must be a 0x-prefixed 32-byte hex hash"}})
	}
	currency := in.Currency
	if currency == "" {
		currency = a.Financials.Currency
	}
	if !strings.EqualFold(currency, a.Financials.Currency) {
		return nil, apperrors.Validation("currency %s does not match agreement currency %s", currency, a.Financials.Currency)
	}

	tx := &models.Transaction{
		ID:          uuid.NewString(),
		Type:        in.Type,
		AgreementID: a.ID,
		Amount:      models.Money{Value: in.Amount, Currency: a.Financials.Currency, USDValue: in.USDValue},
		Fees:        models.Fees{Platform: PlatformFee(in.Amount, in.Type), Network: in.NetworkFee},
		Status:      models.TxPending,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	switch in.Type {
	case models.TxEscrowDeposit:
		if a.Status.IsTerminal() {
			return nil, apperrors.Validation("agreement is already %s", a.Status)
		}
		if err := TopUpEscrow(a, in.Amount, now); err != nil {
			return nil, err
		}
		tx.From = counterparty(a, models.PartyClient)
		tx.To = models.Counterparty{WalletAddress: a.Blockchain.ContractAddress}
	case models.TxFinalPayment, models.TxBonus:
		if a.Status != models.AgreementAwaitingFinalApproval && a.Status != models.AgreementCompleted {
			return nil, apperrors.Validation("agreement in status %s is not ready for a %s", a.Status, in.Type)
		}
		if err := ReleasePayment(a, in.Amount, now); err != nil {
			return nil, err
		}
		tx.From = counterparty(a, models.PartyClient)
		tx.To = counterparty(a, models.PartyDeveloper)
	case models.TxRefund:
		if a.Status != models.AgreementCancelled && a.Status != models.AgreementDisputed {
			return nil, apperrors.Validation("agreement in status %s cannot be refunded", a.Status)
		}
		if err := RecordRefund(a, in.Amount, now); err != nil {
			return nil, err
		}
		tx.From = models.Counterparty{WalletAddress: a.Blockchain.ContractAddress}
		tx.To = counterparty(a, models.PartyClient)
	case models.TxPlatformFee:
		if a.Escrow.Status == models.EscrowPending {
			return nil, apperrors.Validation("agreement escrow has not been funded")
		}
		tx.From = counterparty(a, models.PartyClient)
	}
	a.UpdatedAt = now

	if in.Proof != nil {
		if err := MarkTransactionCompleted(tx, *in.Proof, now); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// MarkTransactionCompleted attaches on-chain proof and completes the transaction.
func MarkTransactionCompleted(tx *models.Transaction, proof models.ChainProof, now time.Time) error {
	if !ValidTxHash(proof.TxHash) {
		return apperrors.InvalidFields("invalid blockchain proof", []apperrors.FieldError{{Field: "txHash", Message: "must be a 0x-prefixed 32-byte hex hash"}})
	}
	if err := transitionTransaction(tx, models.TxCompleted, now); err != nil {
		return err
	}
	tx.Blockchain = &proof
	tx.CompletedAt = &now
	return nil
}

// MarkTransactionFailed records why a transaction did not settle.
func MarkTransactionFailed(tx *models.Transaction, code, message string, now time.Time) error {
	if strings.TrimSpace(code) == "" {
		return apperrors.InvalidFields("failure code is required", []apperrors.FieldError{{Field: "code", Message: "code is required"}})
	}
	if err := transitionTransaction(tx, models.TxFailed, now); err != nil {
		return err
	}
	tx.Failure = &models.Failure{Code: code, Message: message, At: now}
	return nil
}

// movesEscrow reports whether recording a transaction of type t changed the
// escrow ledger. Those records cannot be cancelled or refunded by status
// alone; money goes back through a refund transaction.
func movesEscrow(t models.TransactionType) bool {
	return t != models.TxPlatformFee
}

// AdvanceTransaction applies a manual status update. Completion needs
// blockchain proof and goes through MarkTransactionCompleted instead.
func AdvanceTransaction(tx *models.Transaction, to models.TransactionStatus, code, message string, now time.Time) error {
	switch to {
	case models.TxCompleted:
		return apperrors.Validation("completing a transaction requires blockchain proof")
	case models.TxFailed:
		return MarkTransactionFailed(tx, code, message, now)
	case models.TxCancelled, models.TxRefunded:
		if movesEscrow(tx.Type) {
			return apperrors.Validation("a %s cannot be marked %s, record a refund instead", tx.Type, to)
		}
	}
	if !to.Valid() {
		return apperrors.InvalidFields("invalid status", []apperrors.FieldError{{Field: "status", Message: "unknown transaction status"}})
	}
	return transitionTransaction(tx, to, now)
}
