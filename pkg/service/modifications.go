package service

import (
	"context"

	"github.com/chris/gig-agreements/pkg/events"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/workflow"
)

// RequestModification attaches a pending change request to the agreement.
func (s *Service) RequestModification(ctx context.Context, actor models.Actor, agreementID string, in workflow.ModificationRequest) (*models.Modification, error) {
	var mod models.Modification
	_, err := s.updateAgreement(ctx, actor, agreementID, "request_modification", func(u *update) error {
		created, err := workflow.RequestModification(u.agreement, u.party, u.actor, in, u.now)
		if err != nil {
			return err
		}
		mod = *created
		e := events.New(events.ModificationRequested, u.agreement, u.now)
		e.ModificationID = created.ID
		u.events = append(u.events, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mod, nil
}

// RespondModification approves or rejects a pending change request. An
// approved request is applied to the agreement in the same commit.
func (s *Service) RespondModification(ctx context.Context, actor models.Actor, agreementID, modificationID string, approve bool, note string) (*AgreementDetails, error) {
	return s.updateAgreement(ctx, actor, agreementID, "respond_modification", func(u *update) error {
		if _, err := workflow.RespondModification(u.agreement, u.party, modificationID, approve, note, u.now); err != nil {
			return err
		}
		e := events.New(events.ModificationResponded, u.agreement, u.now)
		e.ModificationID = modificationID
		u.events = append(u.events, e)
		return nil
	})
}
