package models

import "time"

// MilestoneStatus defines the lifecycle states of a milestone.
type MilestoneStatus string

const (
	MilestonePending           MilestoneStatus = "pending"
	MilestoneInProgress        MilestoneStatus = "in_progress"
	MilestoneSubmitted         MilestoneStatus = "submitted"
	MilestoneInReview          MilestoneStatus = "in_review"
	MilestoneRevisionRequested MilestoneStatus = "revision_requested"
	MilestoneCompleted         MilestoneStatus = "completed"
	MilestoneApproved          MilestoneStatus = "approved"
	MilestonePaid              MilestoneStatus = "paid"
	MilestoneRejected          MilestoneStatus = "rejected"
)

func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestonePending, MilestoneInProgress, MilestoneSubmitted, MilestoneInReview,
		MilestoneRevisionRequested, MilestoneCompleted, MilestoneApproved, MilestonePaid, MilestoneRejected:
		return true
	default:
		return false
	}
}

// IsAccepted reports whether the client has signed off on the work.
func (s MilestoneStatus) IsAccepted() bool {
	return s == MilestoneApproved || s == MilestonePaid
}

type MilestoneFinancials struct {
	Value         Amount     `json:"value" dynamodbav:"value"`
	Currency      string     `json:"currency" dynamodbav:"currency"`
	IsPaid        bool       `json:"isPaid" dynamodbav:"is_paid"`
	PaidAt        *time.Time `json:"paidAt,omitempty" dynamodbav:"paid_at,omitempty"`
	TransactionID string     `json:"transactionId,omitempty" dynamodbav:"transaction_id,omitempty"`
}

type MilestoneTimeline struct {
	DueDate     *time.Time `json:"dueDate,omitempty" dynamodbav:"due_date,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty" dynamodbav:"started_at,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty" dynamodbav:"submitted_at,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty" dynamodbav:"approved_at,omitempty"`
}

// EvidenceFile is a file stored by the uploads collaborator.
type EvidenceFile struct {
	Name        string `json:"name" dynamodbav:"name"`
	URL         string `json:"url" dynamodbav:"url"`
	Hash        string `json:"hash,omitempty" dynamodbav:"hash,omitempty"`
	ContentType string `json:"contentType,omitempty" dynamodbav:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty" dynamodbav:"size,omitempty"`
}

type Submission struct {
	Files       []EvidenceFile `json:"files" dynamodbav:"files"`
	Notes       string         `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	SubmittedAt time.Time      `json:"submittedAt" dynamodbav:"submitted_at"`
	SubmittedBy string         `json:"submittedBy,omitempty" dynamodbav:"submitted_by,omitempty"`
}

type Review struct {
	Rating     int       `json:"rating" dynamodbav:"rating"`
	Feedback   string    `json:"feedback,omitempty" dynamodbav:"feedback,omitempty"`
	ReviewedAt time.Time `json:"reviewedAt" dynamodbav:"reviewed_at"`
	ReviewedBy string    `json:"reviewedBy,omitempty" dynamodbav:"reviewed_by,omitempty"`
}

// Revision is one entry of the append-only revision history.
type Revision struct {
	Number      int       `json:"number" dynamodbav:"number"`
	Reason      string    `json:"reason" dynamodbav:"reason"`
	RequestedAt time.Time `json:"requestedAt" dynamodbav:"requested_at"`
	RequestedBy string    `json:"requestedBy,omitempty" dynamodbav:"requested_by,omitempty"`
}

// Milestone is one billable unit of work within an agreement.
type Milestone struct {
	ID              string              `json:"id" dynamodbav:"id"`
	AgreementID     string              `json:"agreementId" dynamodbav:"agreement_id"`
	MilestoneNumber int                 `json:"milestoneNumber" dynamodbav:"milestone_number"`
	Title           string              `json:"title" dynamodbav:"title"`
	Description     string              `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Deliverables    []string            `json:"deliverables,omitempty" dynamodbav:"deliverables,omitempty"`
	Financials      MilestoneFinancials `json:"financials" dynamodbav:"financials"`
	Timeline        MilestoneTimeline   `json:"timeline" dynamodbav:"timeline"`
	Status          MilestoneStatus     `json:"status" dynamodbav:"status"`
	Submission      *Submission         `json:"submission,omitempty" dynamodbav:"submission,omitempty"`
	Review          *Review             `json:"review,omitempty" dynamodbav:"review,omitempty"`
	Revisions       []Revision          `json:"revisions" dynamodbav:"revisions"`
	RejectionReason string              `json:"rejectionReason,omitempty" dynamodbav:"rejection_reason,omitempty"`
	IsActive        bool                `json:"isActive" dynamodbav:"is_active"`
	Version         int64               `json:"version" dynamodbav:"version"`
	CreatedAt       time.Time           `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       time.Time           `json:"updatedAt" dynamodbav:"updated_at"`
}
