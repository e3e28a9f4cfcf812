package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/google/uuid"
)

// ModificationRequest is a proposed amendment.
type ModificationRequest struct {
	Type          models.ModificationType
	Description   string
	PreviousValue map[string]interface{}
	NewValue      map[string]interface{}
}

// RequestModification appends a pending change request. Effects are checked
// up front so an approved request can always be applied.
func RequestModification(a *models.Agreement, p models.Party, actor models.Actor, in ModificationRequest, now time.Time) (*models.Modification, error) {
	if err := requireEitherParty(p, "request a modification"); err != nil {
		return nil, err
	}
	if a.Status.IsTerminal() {
		return nil, apperrors.Validation("agreement is already %s", a.Status)
	}
	var fields []apperrors.FieldError
	if !in.Type.Valid() {
		fields = append(fields, apperrors.FieldError{Field: "type", Message: fmt.Sprintf("unknown modification type %q", in.Type)})
	}
	if strings.TrimSpace(in.Description) == "" {
		fields = append(fields, apperrors.FieldError{Field: "description", Message: "description is required"})
	}
	if len(fields) > 0 {
		return nil, apperrors.InvalidFields("invalid modification", fields)
	}
	if _, err := parseEffect(in.Type, in.NewValue); err != nil {
		return nil, err
	}

	prev := in.PreviousValue
	if prev == nil {
		prev = snapshot(a, in.Type)
	}
	a.Modifications = append(a.Modifications, models.Modification{
		ID:            uuid.NewString(),
		Type:          in.Type,
		Description:   in.Description,
		PreviousValue: prev,
		NewValue:      in.NewValue,
		RequestedBy:   p,
		RequestedByID: actor.UserID,
		Status:        models.ModificationPending,
		RequestedAt:   now,
	})
	a.UpdatedAt = now
	return &a.Modifications[len(a.Modifications)-1], nil
}

// RespondModification approves or rejects a pending request. Only the party
// that did not raise it may respond.
func RespondModification(a *models.Agreement, p models.Party, modificationID string, approve bool, note string, now time.Time) (*models.Modification, error) {
	mod := a.FindModification(modificationID)
	if mod == nil {
		return nil, apperrors.NotFound("modification %s not found", modificationID)
	}
	if err := requireEitherParty(p, "respond to a modification"); err != nil {
		return nil, err
	}
	if p == mod.RequestedBy {
		return nil, apperrors.Authorization("the requesting party cannot respond to its own modification")
	}
	if mod.Status != models.ModificationPending {
		return nil, apperrors.Validation("modification has already been %s", mod.Status)
	}
	if a.Status.IsTerminal() {
		return nil, apperrors.Validation("agreement is already %s", a.Status)
	}

	if approve {
		eff, err := parseEffect(mod.Type, mod.NewValue)
		if err != nil {
			return nil, err
		}
		if err := eff.apply(a); err != nil {
			return nil, err
		}
		mod.Status = models.ModificationApproved
		mod.Applied = eff.changes()
	} else {
		mod.Status = models.ModificationRejected
	}
	mod.RespondedAt = &now
	mod.ResponseNote = note
	a.UpdatedAt = now
	return mod, nil
}

// effect is the parsed, type-specific change a modification carries.
type effect struct {
	totalValue  *models.Amount
	currency    string
	endDate     *time.Time
	description *string
}

func (e effect) changes() bool {
	return e.totalValue != nil || e.currency != "" || e.endDate != nil || e.description != nil
}

func (e effect) apply(a *models.Agreement) error {
	if e.totalValue != nil {
		committed := a.Financials.ReleasedAmount.Add(a.Financials.RefundedAmount)
		if e.totalValue.Cmp(committed) < 0 {
			return apperrors.Validation("total value %s is below the %s already paid out", e.totalValue, committed)
		}
		if a.Escrow.FundedAt != nil && e.totalValue.Cmp(a.Escrow.TotalAmount) < 0 {
			return apperrors.Validation("total value %s is below the %s already deposited in escrow", e.totalValue, a.Escrow.TotalAmount)
		}
		a.Financials.TotalValue = *e.totalValue
		recomputeRemaining(a)
		applyAgreementFee(a)
	}
	if e.currency != "" {
		a.Financials.Currency = e.currency
	}
	if e.endDate != nil {
		a.Project.EndDate = e.endDate
	}
	if e.description != nil {
		a.Project.Description = *e.description
	}
	return nil
}

func parseEffect(t models.ModificationType, v map[string]interface{}) (effect, error) {
	var e effect
	switch t {
	case models.ModificationPayment:
		if raw, ok := v["totalValue"]; ok {
			amt, err := amountValue(raw)
			if err != nil || !amt.IsPositive() {
				return e, apperrors.InvalidFields("invalid payment change", []apperrors.FieldError{{Field: "newValue.totalValue", Message: "must be a positive amount"}})
			}
			e.totalValue = &amt
		}
		if raw, ok := v["currency"]; ok {
			s, _ := raw.(string)
			if strings.TrimSpace(s) == "" {
				return e, apperrors.InvalidFields("invalid payment change", []apperrors.FieldError{{Field: "newValue.currency", Message: "must be a non-empty string"}})
			}
			e.currency = s
		}
		if !e.changes() {
			return e, apperrors.InvalidFields("invalid payment change", []apperrors.FieldError{{Field: "newValue", Message: "totalValue or currency is required"}})
		}
	case models.ModificationTimeline:
		s, _ := v["endDate"].(string)
		d, err := parseDate(s)
		if err != nil {
			return e, apperrors.InvalidFields("invalid timeline change", []apperrors.FieldError{{Field: "newValue.endDate", Message: "must be a date (YYYY-MM-DD or RFC 3339)"}})
		}
		e.endDate = &d
	case models.ModificationScope:
		if raw, ok := v["description"]; ok {
			s, ok := raw.(string)
			if !ok {
				return e, apperrors.InvalidFields("invalid scope change", []apperrors.FieldError{{Field: "newValue.description", Message: "must be a string"}})
			}
			e.description = &s
		}
	}
	return e, nil
}

func snapshot(a *models.Agreement, t models.ModificationType) map[string]interface{} {
	switch t {
	case models.ModificationPayment:
		return map[string]interface{}{"totalValue": a.Financials.TotalValue.String(), "currency": a.Financials.Currency}
	case models.ModificationTimeline:
		if a.Project.EndDate != nil {
			return map[string]interface{}{"endDate": a.Project.EndDate.Format(time.RFC3339)}
		}
	case models.ModificationScope:
		return map[string]interface{}{"description": a.Project.Description}
	}
	return nil
}

func amountValue(v interface{}) (models.Amount, error) {
	switch x := v.(type) {
	case string:
		return models.NewAmount(x)
	case json.Number:
		return models.NewAmount(x.String())
	case float64:
		return models.NewAmount(fmt.Sprintf("%v", x))
	case int:
		return models.AmountFromInt(int64(x)), nil
	case int64:
		return models.AmountFromInt(x), nil
	}
	return models.Amount{}, fmt.Errorf("unsupported amount %T", v)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
