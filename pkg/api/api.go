// Package api holds the request and response bodies of the HTTP API.
package api

import (
	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// NewMilestone defines model for NewMilestone.
type NewMilestone struct {
	Title        string              `json:"title" validate:"required,max=200"`
	Description  string              `json:"description,omitempty" validate:"max=5000"`
	Deliverables []string            `json:"deliverables,omitempty" validate:"max=50,dive,max=500"`
	Value        models.Amount       `json:"value"`
	DueDate      *openapi_types.Date `json:"dueDate,omitempty"`
}

// NewAgreement defines model for NewAgreement.
type NewAgreement struct {
	Title           string              `json:"title" validate:"required,max=200"`
	Description     string              `json:"description,omitempty" validate:"max=10000"`
	ClientWallet    string              `json:"clientWallet,omitempty" validate:"omitempty,eth_addr"`
	DeveloperId     string              `json:"developerId,omitempty" validate:"max=128"`
	DeveloperWallet string              `json:"developerWallet,omitempty" validate:"omitempty,eth_addr"`
	TotalValue      *models.Amount      `json:"totalValue,omitempty"`
	Currency        string              `json:"currency,omitempty" validate:"omitempty,alphanum,max=10"`
	StartDate       *openapi_types.Date `json:"startDate,omitempty"`
	EndDate         *openapi_types.Date `json:"endDate,omitempty"`
	Milestones      []NewMilestone      `json:"milestones,omitempty" validate:"max=100,dive"`
}

// Pricing defines model for Pricing.
type Pricing struct {
	TotalValue *models.Amount `json:"totalValue,omitempty"`
	Currency   string         `json:"currency,omitempty" validate:"omitempty,alphanum,max=10"`
	Milestones []NewMilestone `json:"milestones,omitempty" validate:"max=100,dive"`
}

// RespondRequest defines model for RespondRequest.
type RespondRequest struct {
	Accept *bool  `json:"accept" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"max=2000"`
	Pricing
}

// ClientApproveRequest defines model for ClientApproveRequest.
type ClientApproveRequest struct {
	TxHash          string   `json:"txHash" validate:"required"`
	BlockNumber     uint64   `json:"blockNumber,omitempty"`
	Network         string   `json:"network,omitempty" validate:"max=64"`
	ContractAddress string   `json:"contractAddress,omitempty" validate:"omitempty,eth_addr"`
	IpfsHashes      []string `json:"ipfsHashes,omitempty" validate:"max=20"`
}

// SignRequest defines model for SignRequest.
type SignRequest struct {
	WalletAddress string `json:"walletAddress,omitempty" validate:"omitempty,eth_addr"`
	Message       string `json:"message,omitempty" validate:"max=5000"`
	Hash          string `json:"hash,omitempty" validate:"max=256"`
}

// ReasonRequest is the body of cancel, dispute, request-revision and reject.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

// NewModification defines model for NewModification.
type NewModification struct {
	Type          models.ModificationType `json:"type" validate:"required,oneof=scope_change timeline_change payment_change milestone_change other"`
	Description   string                  `json:"description" validate:"required,max=5000"`
	PreviousValue map[string]interface{}  `json:"previousValue,omitempty"`
	NewValue      map[string]interface{}  `json:"newValue,omitempty"`
}

// ModificationResponse defines model for ModificationResponse.
type ModificationResponse struct {
	Approve *bool  `json:"approve" validate:"required"`
	Note    string `json:"note,omitempty" validate:"max=2000"`
}

// EvidenceLink is an already hosted deliverable referenced by URL.
type EvidenceLink struct {
	Name string `json:"name" validate:"required,max=255"`
	Url  string `json:"url" validate:"required,url"`
}

// SubmitMilestoneRequest defines model for SubmitMilestoneRequest.
type SubmitMilestoneRequest struct {
	Notes string         `json:"notes,omitempty" validate:"max=10000"`
	Files []EvidenceLink `json:"files,omitempty" validate:"max=20,dive"`
}

// ApproveMilestoneRequest defines model for ApproveMilestoneRequest.
type ApproveMilestoneRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback,omitempty" validate:"max=5000"`
}

// NewTransaction defines model for NewTransaction.
type NewTransaction struct {
	AgreementId string                 `json:"agreementId" validate:"required"`
	Type        models.TransactionType `json:"type" validate:"required,oneof=escrow_deposit final_payment bonus refund platform_fee"`
	Amount      models.Amount          `json:"amount"`
	Currency    string                 `json:"currency,omitempty" validate:"omitempty,alphanum,max=10"`
	UsdValue    *models.Amount         `json:"usdValue,omitempty"`
	NetworkFee  *models.Amount         `json:"networkFee,omitempty"`
	Description string                 `json:"description,omitempty" validate:"max=2000"`
	Blockchain  *BlockchainProof       `json:"blockchain,omitempty"`
}

// BlockchainProof defines model for BlockchainProof.
type BlockchainProof struct {
	TxHash        string `json:"txHash" validate:"required"`
	BlockNumber   uint64 `json:"blockNumber,omitempty"`
	Network       string `json:"network,omitempty" validate:"max=64"`
	Confirmations uint64 `json:"confirmations,omitempty"`
	GasUsed       uint64 `json:"gasUsed,omitempty"`
}

// TransactionStatusUpdate defines model for TransactionStatusUpdate.
type TransactionStatusUpdate struct {
	Status  models.TransactionStatus `json:"status" validate:"required,oneof=pending processing failed cancelled refunded"`
	Code    string                   `json:"code,omitempty" validate:"max=64"`
	Message string                   `json:"message,omitempty" validate:"max=2000"`
	TxHash  string                   `json:"txHash,omitempty"`
	Network string                   `json:"network,omitempty" validate:"max=64"`
}

// ListAgreementsParams defines parameters for ListAgreements.
type ListAgreementsParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	Page   *int    `form:"page,omitempty" json:"page,omitempty"`
	Limit  *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

// Agreement is an agreement with its active milestones and the caller's role.
type Agreement struct {
	Agreement  *models.Agreement   `json:"agreement"`
	Milestones []*models.Milestone `json:"milestones"`
	Role       models.Party        `json:"role,omitempty"`
}

// Milestone is a milestone with its parent agreement and, after approval,
// the payment it released.
type Milestone struct {
	Milestone   *models.Milestone   `json:"milestone"`
	Agreement   *models.Agreement   `json:"agreement"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// Verification defines model for Verification.
type Verification struct {
	Verified    bool                `json:"verified"`
	Reason      string              `json:"reason,omitempty"`
	Transaction *models.Transaction `json:"transaction"`
	Receipt     *Receipt            `json:"receipt,omitempty"`
}

// Receipt is the on-chain view of a transaction.
type Receipt struct {
	TxHash        string        `json:"txHash"`
	Network       string        `json:"network"`
	BlockNumber   uint64        `json:"blockNumber"`
	Success       bool          `json:"success"`
	Confirmations uint64        `json:"confirmations"`
	GasUsed       uint64        `json:"gasUsed"`
	To            string        `json:"to,omitempty"`
	Value         models.Amount `json:"value"`
}

// Pagination defines model for Pagination.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Response is the success envelope of every endpoint.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorBody defines model for ErrorBody.
type ErrorBody struct {
	Message    string                 `json:"message"`
	StatusCode int                    `json:"statusCode"`
	Errors     []apperrors.FieldError `json:"errors,omitempty"`
}

// ErrorResponse is the failure envelope of every endpoint.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}
