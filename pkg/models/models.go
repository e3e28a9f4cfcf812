package models

import (
	"time"
)

// TransactionStatus defines the possible states of a transaction.
type TransactionStatus string

const (
	TxPending    TransactionStatus = "pending"
	TxProcessing TransactionStatus = "processing"
	TxCompleted  TransactionStatus = "completed"
	TxFailed     TransactionStatus = "failed"
	TxCancelled  TransactionStatus = "cancelled"
	TxRefunded   TransactionStatus = "refunded"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxPending, TxProcessing, TxCompleted, TxFailed, TxCancelled, TxRefunded:
		return true
	default:
		return false
	}
}

// TransactionType is the kind of financial movement a transaction records.
type TransactionType string

const (
	TxEscrowDeposit    TransactionType = "escrow_deposit"
	TxMilestonePayment TransactionType = "milestone_payment"
	TxFinalPayment     TransactionType = "final_payment"
	TxRefund           TransactionType = "refund"
	TxPlatformFee      TransactionType = "platform_fee"
	TxBonus            TransactionType = "bonus"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxEscrowDeposit, TxMilestonePayment, TxFinalPayment, TxRefund, TxPlatformFee, TxBonus:
		return true
	default:
		return false
	}
}

// Counterparty is one side of a transaction.
type Counterparty struct {
	UserID        string `json:"userId,omitempty" dynamodbav:"user_id,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty" dynamodbav:"wallet_address,omitempty"`
}

type Money struct {
	Value    Amount  `json:"value" dynamodbav:"value"`
	Currency string  `json:"currency" dynamodbav:"currency"`
	USDValue *Amount `json:"usdValue,omitempty" dynamodbav:"usd_value,omitempty"`
}

type Fees struct {
	Platform Amount `json:"platform" dynamodbav:"platform"`
	Network  Amount `json:"network" dynamodbav:"network"`
}

// ChainProof is the on-chain evidence attached to a transaction.
type ChainProof struct {
	TxHash        string     `json:"txHash" dynamodbav:"tx_hash"`
	BlockNumber   uint64     `json:"blockNumber,omitempty" dynamodbav:"block_number,omitempty"`
	Network       string     `json:"network,omitempty" dynamodbav:"network,omitempty"`
	Confirmations uint64     `json:"confirmations,omitempty" dynamodbav:"confirmations,omitempty"`
	GasUsed       uint64     `json:"gasUsed,omitempty" dynamodbav:"gas_used,omitempty"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty" dynamodbav:"verified_at,omitempty"`
}

type Failure struct {
	Code    string    `json:"code" dynamodbav:"code"`
	Message string    `json:"message" dynamodbav:"message"`
	At      time.Time `json:"at" dynamodbav:"at"`
}

// Transaction represents the internal domain model for a financial event.
// It includes dynamodbav tags for marshalling.
type Transaction struct {
	ID          string            `json:"id" dynamodbav:"id"`
	Type        TransactionType   `json:"type" dynamodbav:"type"`
	AgreementID string            `json:"agreementId" dynamodbav:"agreement_id"`
	MilestoneID string            `json:"milestoneId,omitempty" dynamodbav:"milestone_id,omitempty"`
	From        Counterparty      `json:"from" dynamodbav:"from"`
	To          Counterparty      `json:"to" dynamodbav:"to"`
	Amount      Money             `json:"amount" dynamodbav:"amount"`
	Fees        Fees              `json:"fees" dynamodbav:"fees"`
	Status      TransactionStatus `json:"status" dynamodbav:"status"`
	Blockchain  *ChainProof       `json:"blockchain,omitempty" dynamodbav:"blockchain,omitempty"`
	Failure     *Failure          `json:"failure,omitempty" dynamodbav:"failure,omitempty"`
	Description string            `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Version     int64             `json:"version" dynamodbav:"version"`
	CreatedAt   time.Time         `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" dynamodbav:"updated_at"`
	CompletedAt *time.Time        `json:"completedAt,omitempty" dynamodbav:"completed_at,omitempty"`
}

// User is the slice of a registered account this service reads and updates.
type User struct {
	UserID            string    `json:"userId" dynamodbav:"user_id"`
	WalletAddress     string    `json:"walletAddress,omitempty" dynamodbav:"wallet_address,omitempty"`
	Name              string    `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Email             string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	CompletedProjects int64     `json:"completedProjects" dynamodbav:"completed_projects"`
	TotalEarned       Amount    `json:"totalEarned" dynamodbav:"total_earned"`
	TotalSpent        Amount    `json:"totalSpent" dynamodbav:"total_spent"`
	CreatedAt         time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// UserStatsDelta increments a user's lifetime statistics when an agreement completes.
type UserStatsDelta struct {
	UserID            string
	CompletedProjects int64
	Earned            Amount
	Spent             Amount
}
