package models

import "time"

type ModificationType string

const (
	ModificationScope     ModificationType = "scope_change"
	ModificationTimeline  ModificationType = "timeline_change"
	ModificationPayment   ModificationType = "payment_change"
	ModificationMilestone ModificationType = "milestone_change"
	ModificationOther     ModificationType = "other"
)

func (t ModificationType) Valid() bool {
	switch t {
	case ModificationScope, ModificationTimeline, ModificationPayment, ModificationMilestone, ModificationOther:
		return true
	default:
		return false
	}
}

type ModificationStatus string

const (
	ModificationPending  ModificationStatus = "pending"
	ModificationApproved ModificationStatus = "approved"
	ModificationRejected ModificationStatus = "rejected"
)

// Modification is a change request attached to an agreement.
type Modification struct {
	ID            string                 `json:"id" dynamodbav:"id"`
	Type          ModificationType       `json:"type" dynamodbav:"type"`
	Description   string                 `json:"description" dynamodbav:"description"`
	PreviousValue map[string]interface{} `json:"previousValue,omitempty" dynamodbav:"previous_value,omitempty"`
	NewValue      map[string]interface{} `json:"newValue,omitempty" dynamodbav:"new_value,omitempty"`
	RequestedBy   Party                  `json:"requestedBy" dynamodbav:"requested_by"`
	RequestedByID string                 `json:"requestedById,omitempty" dynamodbav:"requested_by_id,omitempty"`
	Status        ModificationStatus     `json:"status" dynamodbav:"status"`
	RequestedAt   time.Time              `json:"requestedAt" dynamodbav:"requested_at"`
	RespondedAt   *time.Time             `json:"respondedAt,omitempty" dynamodbav:"responded_at,omitempty"`
	ResponseNote  string                 `json:"responseNote,omitempty" dynamodbav:"response_note,omitempty"`
	Applied       bool                   `json:"applied" dynamodbav:"applied"`
}
