package websockets

import (
	"context"

	"github.com/chris/gig-agreements/pkg/events"
)

// Notifier turns domain events into live updates for the two parties.
type Notifier struct {
	Publisher Publisher
}

var _ events.Publisher = (*Notifier)(nil)

// Publish implements events.Publisher.
func (n *Notifier) Publish(ctx context.Context, e *events.Event) error {
	if len(e.Recipients) == 0 {
		return nil
	}
	return n.Publisher.Publish(ctx, e.Recipients, MessageFor(e))
}

// MessageFor picks the message shape for an event.
func MessageFor(e *events.Event) Message {
	switch {
	case e.Milestone != nil:
		return Message{
			Type: MessageTypeMilestoneUpdate,
			Payload: MilestoneUpdatePayload{
				AgreementID: e.AgreementID,
				MilestoneID: e.Milestone.ID,
				Status:      string(e.Milestone.Status),
				At:          e.OccurredAt,
			},
		}
	case e.Transaction != nil:
		return Message{
			Type: MessageTypeTransactionUpdate,
			Payload: TransactionUpdatePayload{
				AgreementID:   e.AgreementID,
				TransactionID: e.Transaction.ID,
				Type:          string(e.Transaction.Type),
				Status:        string(e.Transaction.Status),
				At:            e.OccurredAt,
			},
		}
	default:
		return Message{
			Type: MessageTypeAgreementUpdate,
			Payload: AgreementUpdatePayload{
				AgreementID:    e.AgreementID,
				Event:          string(e.Type),
				Status:         e.Status,
				ModificationID: e.ModificationID,
				At:             e.OccurredAt,
			},
		}
	}
}
