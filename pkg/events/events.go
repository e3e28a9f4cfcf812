// Package events carries domain events to the collaborators that render
// PDFs, send email and push live updates.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/chris/gig-agreements/pkg/models"
	"github.com/google/uuid"
)

// Type names a domain event.
type Type string

const (
	AgreementCreated      Type = "agreement.created"
	AgreementUpdated      Type = "agreement.updated"
	MilestoneUpdated      Type = "milestone.updated"
	ModificationRequested Type = "modification.requested"
	ModificationResponded Type = "modification.responded"
	TransactionRecorded   Type = "transaction.recorded"
	TransactionUpdated    Type = "transaction.updated"
)

// Event is published after the change it describes has been committed.
type Event struct {
	ID             string              `json:"id"`
	Type           Type                `json:"type"`
	AgreementID    string              `json:"agreementId"`
	Status         string              `json:"status,omitempty"`
	Recipients     []string            `json:"recipients,omitempty"`
	OccurredAt     time.Time           `json:"occurredAt"`
	Agreement      *models.Agreement   `json:"agreement,omitempty"`
	Milestone      *models.Milestone   `json:"milestone,omitempty"`
	Transaction    *models.Transaction `json:"transaction,omitempty"`
	ModificationID string              `json:"modificationId,omitempty"`
}

// New builds an event addressed to both parties of the agreement.
func New(t Type, a *models.Agreement, at time.Time) *Event {
	e := &Event{
		ID:         uuid.New().String(),
		Type:       t,
		OccurredAt: at,
	}
	if a != nil {
		e.AgreementID = a.ID
		e.Status = string(a.Status)
		e.Agreement = a
		for _, id := range []string{a.ClientID, a.DeveloperID} {
			if id != "" {
				e.Recipients = append(e.Recipients, id)
			}
		}
	}
	return e
}

// Publisher defines the interface for a component that delivers events.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

// NoOp drops every event.
type NoOp struct{}

func (NoOp) Publish(context.Context, *Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event *Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
