package websockets

import "time"

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	MessageTypeAgreementUpdate   MessageType = "agreementUpdate"
	MessageTypeMilestoneUpdate   MessageType = "milestoneUpdate"
	MessageTypeTransactionUpdate MessageType = "transactionUpdate"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// AgreementUpdatePayload is the payload for an agreementUpdate message.
type AgreementUpdatePayload struct {
	AgreementID    string    `json:"agreementId"`
	Event          string    `json:"event"`
	Status         string    `json:"status"`
	ModificationID string    `json:"modificationId,omitempty"`
	At             time.Time `json:"at"`
}

// MilestoneUpdatePayload is the payload for a milestoneUpdate message.
type MilestoneUpdatePayload struct {
	AgreementID string    `json:"agreementId"`
	MilestoneID string    `json:"milestoneId"`
	Status      string    `json:"status"`
	At          time.Time `json:"at"`
}

// TransactionUpdatePayload is the payload for a transactionUpdate message.
type TransactionUpdatePayload struct {
	AgreementID   string    `json:"agreementId"`
	TransactionID string    `json:"transactionId"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	At            time.Time `json:"at"`
}
