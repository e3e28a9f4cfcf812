package service

import (
	"context"
	"errors"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/blockchain"
	"github.com/chris/gig-agreements/pkg/events"
	"github.com/chris/gig-agreements/pkg/metrics"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
	"github.com/chris/gig-agreements/pkg/workflow"
)

// StatusUpdate is a manual transaction status change. A move to processing
// may carry the hash of the submitted on-chain transaction.
type StatusUpdate struct {
	Status  models.TransactionStatus
	Code    string
	Message string
	TxHash  string
	Network string
}

// Verification is the outcome of checking a transaction on chain.
type Verification struct {
	Verified    bool
	Reason      string
	Receipt     *blockchain.Receipt
	Transaction *models.Transaction
}

func (s *Service) settler() settler {
	return settler{store: s.Store, publisher: s.Publisher}
}

// CreateTransaction records a final payment, bonus, refund or platform fee
// and applies its escrow effect in the same commit.
func (s *Service) CreateTransaction(ctx context.Context, actor models.Actor, agreementID string, in workflow.TransactionRequest) (*models.Transaction, error) {
	var tx *models.Transaction
	_, err := s.updateAgreement(ctx, actor, agreementID, "create_transaction", func(u *update) error {
		var err error
		tx, err = workflow.RecordTransaction(u.agreement, u.party, in, u.now)
		if err != nil {
			return err
		}
		u.addTransaction(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if tx.Type == models.TxFinalPayment || tx.Type == models.TxBonus {
		metrics.RecordEscrowRelease(string(tx.Type))
	}
	return tx, nil
}

// loadTransaction reads a transaction and its agreement and checks that the
// caller is a party to it.
func (s *Service) loadTransaction(ctx context.Context, actor models.Actor, id string) (*models.Transaction, *models.Agreement, error) {
	tx, err := s.Store.GetTransaction(ctx, id)
	if err != nil {
		return nil, nil, notFoundOr(err, "transaction", id)
	}
	a, p, err := s.loadAgreement(ctx, tx.AgreementID, actor)
	if err != nil {
		return nil, nil, err
	}
	if err := requireParty(p); err != nil {
		return nil, nil, err
	}
	return tx, a, nil
}

// GetTransaction returns a transaction of an agreement the caller is a
// party to.
func (s *Service) GetTransaction(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error) {
	tx, _, err := s.loadTransaction(ctx, actor, id)
	return tx, err
}

// ListTransactions returns every transaction of an agreement, oldest first.
func (s *Service) ListTransactions(ctx context.Context, actor models.Actor, agreementID string) ([]*models.Transaction, error) {
	_, p, err := s.loadAgreement(ctx, agreementID, actor)
	if err != nil {
		return nil, err
	}
	if err := requireParty(p); err != nil {
		return nil, err
	}
	txs, err := s.Store.ListTransactionsByAgreement(ctx, agreementID)
	if err != nil {
		return nil, apperrors.Internal("failed to list transactions", err)
	}
	return txs, nil
}

// AttachProof completes a transaction with the supplied on-chain proof. A
// completed milestone payment moves its milestone to paid.
func (s *Service) AttachProof(ctx context.Context, actor models.Actor, id string, proof models.ChainProof) (*models.Transaction, error) {
	tx, a, err := s.loadTransaction(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.settler().complete(ctx, a, tx, proof, s.now()); err != nil {
		return nil, err
	}
	return tx, nil
}

// UpdateTransactionStatus applies a manual status change.
func (s *Service) UpdateTransactionStatus(ctx context.Context, actor models.Actor, id string, in StatusUpdate) (*models.Transaction, error) {
	tx, a, err := s.loadTransaction(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if in.TxHash != "" {
		if in.Status != models.TxProcessing {
			return nil, apperrors.Validation("a transaction hash can only accompany a move to %s", models.TxProcessing)
		}
		if !workflow.ValidTxHash(in.TxHash) {
			return nil, apperrors.InvalidFields("invalid status update", []apperrors.FieldError{
				{Field: "txHash", Message: "must be a 0x-prefixed 32-byte hex hash"},
			})
		}
	}
	if err := workflow.AdvanceTransaction(tx, in.Status, in.Code, in.Message, now); err != nil {
		return nil, err
	}
	if in.TxHash != "" {
		tx.Blockchain = &models.ChainProof{TxHash: in.TxHash, Network: in.Network}
	}

	if err := s.commit(ctx, "update_transaction", &storage.ChangeSet{Transactions: []*models.Transaction{tx}}); err != nil {
		return nil, err
	}
	s.publish(ctx, withTransaction(events.New(events.TransactionUpdated, a, now), tx))
	return tx, nil
}

// VerifyTransaction checks the transaction's hash on chain. A reverted
// receipt fails a pending transaction and a verified one completes it. RPC
// failures are returned as they are, never retried.
func (s *Service) VerifyTransaction(ctx context.Context, actor models.Actor, id string) (*Verification, error) {
	tx, a, err := s.loadTransaction(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if s.Verifier == nil {
		return nil, apperrors.External("blockchain verification is not configured", nil)
	}
	if tx.Blockchain == nil || tx.Blockchain.TxHash == "" {
		return nil, apperrors.Validation("transaction %s has no blockchain hash to verify", tx.ID)
	}

	res, err := s.Verifier.Verify(ctx, tx.Blockchain.TxHash, tx.Blockchain.Network, expectedValue(tx))
	if err != nil {
		if errors.Is(err, blockchain.ErrUnknownNetwork) || errors.Is(err, blockchain.ErrInvalidHash) {
			return nil, apperrors.Validation("%s", err.Error())
		}
		return nil, apperrors.External("blockchain verification failed", err)
	}

	if err := s.settler().settle(ctx, a, tx, res, s.now()); err != nil {
		return nil, err
	}
	return &Verification{Verified: res.Verified, Reason: res.Reason, Receipt: res.Receipt, Transaction: tx}, nil
}

// expectedValue is the on-chain value a transaction should carry, or nil
// when there is nothing to compare.
func expectedValue(tx *models.Transaction) *models.Amount {
	if !tx.Amount.Value.IsPositive() {
		return nil
	}
	v := tx.Amount.Value
	return &v
}
