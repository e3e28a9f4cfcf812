package models

import (
	"time"
)

// AgreementStatus defines the lifecycle states of an agreement.
type AgreementStatus string

const (
	AgreementDraft                 AgreementStatus = "draft"
	AgreementPendingDeveloper      AgreementStatus = "pending_developer"
	AgreementPendingClient         AgreementStatus = "pending_client"
	AgreementPendingSignatures     AgreementStatus = "pending_signatures"
	AgreementEscrowDeposit         AgreementStatus = "escrow_deposit"
	AgreementActive                AgreementStatus = "active"
	AgreementInProgress            AgreementStatus = "in_progress"
	AgreementAwaitingFinalApproval AgreementStatus = "awaiting_final_approval"
	AgreementCompleted             AgreementStatus = "completed"
	AgreementCancelled             AgreementStatus = "cancelled"
	AgreementDisputed              AgreementStatus = "disputed"
)

// Valid reports whether the status is one of the known values.
func (s AgreementStatus) Valid() bool {
	switch s {
	case AgreementDraft, AgreementPendingDeveloper, AgreementPendingClient, AgreementPendingSignatures,
		AgreementEscrowDeposit, AgreementActive, AgreementInProgress, AgreementAwaitingFinalApproval,
		AgreementCompleted, AgreementCancelled, AgreementDisputed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s AgreementStatus) IsTerminal() bool {
	return s == AgreementCompleted || s == AgreementCancelled
}

// EscrowStatus tracks the recorded (not custodied) escrow.
type EscrowStatus string

const (
	EscrowPending   EscrowStatus = "pending"
	EscrowLocked    EscrowStatus = "locked"
	EscrowReleasing EscrowStatus = "releasing"
	EscrowCompleted EscrowStatus = "completed"
)

// PlatformFee is the fee charged by the marketplace on the contract value.
type PlatformFee struct {
	Percentage Amount `json:"percentage" dynamodbav:"percentage"`
	Amount     Amount `json:"amount" dynamodbav:"amount"`
}

// Financials holds the money side of an agreement.
type Financials struct {
	TotalValue      Amount      `json:"totalValue" dynamodbav:"total_value"`
	Currency        string      `json:"currency" dynamodbav:"currency"`
	ReleasedAmount  Amount      `json:"releasedAmount" dynamodbav:"released_amount"`
	RemainingAmount Amount      `json:"remainingAmount" dynamodbav:"remaining_amount"`
	RefundedAmount  Amount      `json:"refundedAmount" dynamodbav:"refunded_amount"`
	PlatformFee     PlatformFee `json:"platformFee" dynamodbav:"platform_fee"`
}

// Escrow is the ledger of funds deposited against the agreement.
type Escrow struct {
	Status         EscrowStatus `json:"status" dynamodbav:"status"`
	TotalAmount    Amount       `json:"totalAmount" dynamodbav:"total_amount"`
	HeldAmount     Amount       `json:"heldAmount" dynamodbav:"held_amount"`
	ReleasedAmount Amount       `json:"releasedAmount" dynamodbav:"released_amount"`
	FundedAt       *time.Time   `json:"fundedAt,omitempty" dynamodbav:"funded_at,omitempty"`
	ReleasedAt     *time.Time   `json:"releasedAt,omitempty" dynamodbav:"released_at,omitempty"`
}

// MilestoneStats is a derived cache over the agreement's milestones.
type MilestoneStats struct {
	Total     int `json:"total" dynamodbav:"total"`
	Completed int `json:"completed" dynamodbav:"completed"`
	Approved  int `json:"approved" dynamodbav:"approved"`
	Pending   int `json:"pending" dynamodbav:"pending"`
}

// Signature is an off-chain signature record for one party.
type Signature struct {
	Signed        bool       `json:"signed" dynamodbav:"signed"`
	SignedAt      *time.Time `json:"signedAt,omitempty" dynamodbav:"signed_at,omitempty"`
	WalletAddress string     `json:"walletAddress,omitempty" dynamodbav:"wallet_address,omitempty"`
	Message       string     `json:"message,omitempty" dynamodbav:"message,omitempty"`
	Hash          string     `json:"hash,omitempty" dynamodbav:"hash,omitempty"`
}

type Signatures struct {
	Client    Signature `json:"client" dynamodbav:"client"`
	Developer Signature `json:"developer" dynamodbav:"developer"`
}

// BlockchainRecord is populated from data supplied by an external actor.
type BlockchainRecord struct {
	TxHash          string     `json:"txHash,omitempty" dynamodbav:"tx_hash,omitempty"`
	BlockNumber     uint64     `json:"blockNumber,omitempty" dynamodbav:"block_number,omitempty"`
	IPFSHashes      []string   `json:"ipfsHashes,omitempty" dynamodbav:"ipfs_hashes,omitempty"`
	Network         string     `json:"network,omitempty" dynamodbav:"network,omitempty"`
	ContractAddress string     `json:"contractAddress,omitempty" dynamodbav:"contract_address,omitempty"`
	RecordedAt      *time.Time `json:"recordedAt,omitempty" dynamodbav:"recorded_at,omitempty"`
}

type Project struct {
	Title         string     `json:"title" dynamodbav:"title"`
	Description   string     `json:"description,omitempty" dynamodbav:"description,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty" dynamodbav:"start_date,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty" dynamodbav:"end_date,omitempty"`
	ActualEndDate *time.Time `json:"actualEndDate,omitempty" dynamodbav:"actual_end_date,omitempty"`
}

// Closure records who ended or disputed an agreement and why.
type Closure struct {
	By     Party     `json:"by" dynamodbav:"by"`
	UserID string    `json:"userId,omitempty" dynamodbav:"user_id,omitempty"`
	Reason string    `json:"reason" dynamodbav:"reason"`
	At     time.Time `json:"at" dynamodbav:"at"`
}

// StatusChange is one entry of the agreement's audit trail.
type StatusChange struct {
	From AgreementStatus `json:"from" dynamodbav:"from"`
	To   AgreementStatus `json:"to" dynamodbav:"to"`
	By   Party           `json:"by" dynamodbav:"by"`
	At   time.Time       `json:"at" dynamodbav:"at"`
	Note string          `json:"note,omitempty" dynamodbav:"note,omitempty"`
}

// Agreement is one client-developer contract.
type Agreement struct {
	ID              string           `json:"id" dynamodbav:"id"`
	ClientID        string           `json:"clientId,omitempty" dynamodbav:"client_id,omitempty"`
	ClientWallet    string           `json:"clientWallet,omitempty" dynamodbav:"client_wallet,omitempty"`
	DeveloperID     string           `json:"developerId,omitempty" dynamodbav:"developer_id,omitempty"`
	DeveloperWallet string           `json:"developerWallet,omitempty" dynamodbav:"developer_wallet,omitempty"`
	Project         Project          `json:"project" dynamodbav:"project"`
	Financials      Financials       `json:"financials" dynamodbav:"financials"`
	Escrow          Escrow           `json:"escrow" dynamodbav:"escrow"`
	MilestoneIDs    []string         `json:"milestones" dynamodbav:"milestone_ids"`
	MilestoneStats  MilestoneStats   `json:"milestoneStats" dynamodbav:"milestone_stats"`
	Status          AgreementStatus  `json:"status" dynamodbav:"status"`
	Signatures      Signatures       `json:"signatures" dynamodbav:"signatures"`
	Blockchain      BlockchainRecord `json:"blockchain" dynamodbav:"blockchain"`
	Modifications   []Modification   `json:"modifications" dynamodbav:"modifications"`
	Cancellation    *Closure         `json:"cancellation,omitempty" dynamodbav:"cancellation,omitempty"`
	Dispute         *Closure         `json:"dispute,omitempty" dynamodbav:"dispute,omitempty"`
	History         []StatusChange   `json:"history" dynamodbav:"history"`
	Version         int64            `json:"version" dynamodbav:"version"`
	CreatedAt       time.Time        `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" dynamodbav:"updated_at"`
	ActivatedAt     *time.Time       `json:"activatedAt,omitempty" dynamodbav:"activated_at,omitempty"`
	CompletedAt     *time.Time       `json:"completedAt,omitempty" dynamodbav:"completed_at,omitempty"`
}

// FindModification returns the modification with the given ID, or nil.
func (a *Agreement) FindModification(id string) *Modification {
	for i := range a.Modifications {
		if a.Modifications[i].ID == id {
			return &a.Modifications[i]
		}
	}
	return nil
}
