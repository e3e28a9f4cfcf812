package agreements

import (
	"context"
	"net/http"

	"github.com/chris/gig-agreements/pkg/api"
	"github.com/chris/gig-agreements/pkg/httpx"
	"github.com/chris/gig-agreements/pkg/mapping"
	"github.com/chris/gig-agreements/pkg/middleware"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/service"
	"github.com/chris/gig-agreements/pkg/storage"
	"github.com/chris/gig-agreements/pkg/workflow"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service is the part of the agreement service these handlers call.
type Service interface {
	CreateAgreement(ctx context.Context, actor models.Actor, in workflow.AgreementInput) (*service.AgreementDetails, error)
	GetAgreement(ctx context.Context, actor models.Actor, id string) (*service.AgreementDetails, error)
	ListAgreements(ctx context.Context, actor models.Actor, filter storage.ListFilter) ([]*models.Agreement, int, error)
	SubmitAgreement(ctx context.Context, actor models.Actor, id string) (*service.AgreementDetails, error)
	DeveloperAccept(ctx context.Context, actor models.Actor, id string, in workflow.Pricing) (*service.AgreementDetails, error)
	Respond(ctx context.Context, actor models.Actor, id string, accept bool, in workflow.Pricing, reason string) (*service.AgreementDetails, error)
	ClientApprove(ctx context.Context, actor models.Actor, id string, in workflow.EscrowFunding) (*service.AgreementDetails, error)
	Sign(ctx context.Context, actor models.Actor, id string, in workflow.SignatureInput) (*service.AgreementDetails, error)
	Complete(ctx context.Context, actor models.Actor, id string) (*service.AgreementDetails, error)
	Cancel(ctx context.Context, actor models.Actor, id, reason string) (*service.AgreementDetails, error)
	Dispute(ctx context.Context, actor models.Actor, id, reason string) (*service.AgreementDetails, error)
	RequestModification(ctx context.Context, actor models.Actor, agreementID string, in workflow.ModificationRequest) (*models.Modification, error)
	RespondModification(ctx context.Context, actor models.Actor, agreementID, modificationID string, approve bool, note string) (*service.AgreementDetails, error)
	ListTransactions(ctx context.Context, actor models.Actor, agreementID string) ([]*models.Transaction, error)
}

// AgreementsHandler holds the dependencies for agreement-related handlers.
type AgreementsHandler struct {
	Service   Service
	Responder *httpx.Responder
}

// NewAgreementsHandler creates a new AgreementsHandler.
func NewAgreementsHandler(svc Service, responder *httpx.Responder) *AgreementsHandler {
	return &AgreementsHandler{Service: svc, Responder: responder}
}

// Routes mounts the agreement endpoints.
func (h *AgreementsHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateAgreement)
	r.Get("/", h.ListAgreements)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetAgreement)
		r.Post("/submit", h.SubmitAgreement)
		r.Post("/developer-accept", h.DeveloperAccept)
		r.Post("/respond", h.Respond)
		r.Post("/client-approve", h.ClientApprove)
		r.Post("/sign", h.Sign)
		r.Post("/complete", h.Complete)
		r.Post("/cancel", h.Cancel)
		r.Post("/dispute", h.Dispute)
		r.Post("/modifications", h.RequestModification)
		r.Post("/modifications/{modificationId}/respond", h.RespondModification)
		r.Get("/transactions", h.ListTransactions)
	})
}

func (h *AgreementsHandler) write(w http.ResponseWriter, r *http.Request, status int, message string, d *service.AgreementDetails, err error) {
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	h.Responder.JSON(w, status, message, mapping.ToApiAgreement(d))
}

// CreateAgreement handles POST /agreements.
func (h *AgreementsHandler) CreateAgreement(w http.ResponseWriter, r *http.Request) {
	var body api.NewAgreement
	if err := httpx.Decode(r, &body); err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	d, err := h.Service.CreateAgreement(r.Context(), middleware.ActorFrom(r.Context()), mapping.ToDomainNewAgreement(&body))
	h.write(w, r, http.StatusCreated, "Agreement created", d, err)
}

// ListAgreements handles GET /agreements.
func (h *AgreementsHandler) ListAgreements(w http.ResponseWriter, r *http.Request) {
	var params api.ListAgreementsParams
	for name, dest := range map[string]interface{}{"status": &params.Status, "page": &params.Page, "limit": &params.Limit} {
		if err := httpx.QueryParam(r, name, dest); err != nil {
			h.Responder.Error(w, r, err)
			return
		}
	}

	filter := storage.ListFilter{Page: 1, Limit: defaultPageSize}
	if params.Status != nil {
		filter.Status = models.AgreementStatus(*params.Status)
	}
	if params.Page != nil && *params.Page > 0 {
		filter.Page = *params.Page
	}
	if params.Limit != nil && *params.Limit > 0 {
		filter.Limit = min(*params.Limit, maxPageSize)
	}

	list, total, err := h.Service.ListAgreements(r.Context(), middleware.ActorFrom(r.Context()), filter)
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Agreement{}
	}
	h.Responder.Page(w, "Agreements retrieved", list, mapping.ToApiPagination(filter.Page, filter.Limit, total))
}

// GetAgreement handles GET /agreements/{id}.
func (h *AgreementsHandler) GetAgreement(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathParam(r, "id")
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	d, err := h.Service.GetAgreement(r.Context(), middleware.ActorFrom(r.Context()), id)
	h.write(w, r, http.StatusOK, "Agreement retrieved", d, err)
}

// decodeFor binds the agreement id and the request body.
func (h *AgreementsHandler) decodeFor(w http.ResponseWriter, r *http.Request, body interface{}) (string, bool) {
	id, err := httpx.PathParam(r, "id")
	if err == nil && body != nil {
		err = httpx.Decode(r, body)
	}
	if err != nil {
		h.Responder.Error(w, r, err)
		return "", false
	}
	return id, true
}

// SubmitAgreement handles POST /agreements/{id}/submit.
func (h *AgreementsHandler) SubmitAgreement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.decodeFor(w, r, nil)
	if !ok {
		return
	}
	d, err := h.Service.SubmitAgreement(r.Context(), middleware.ActorFrom(r.Context()), id)
	h.write(w, r, http.StatusOK, "Agreement sent to developer", d, err)
}

// DeveloperAccept handles POST /agreements/{id}/developer-accept.
func (h *AgreementsHandler) DeveloperAccept(w http.ResponseWriter, r *http.Request) {
	var body api.Pricing
	id, ok := h.decodeFor(w, r, &body)
	if !ok {
		return
	}
	d, err := h.Service.DeveloperAccept(r.Context(), middleware.ActorFrom(r.Context()), id, mapping.ToDomainPricing(body))
	h.write(w, r, http.StatusOK, "Agreement accepted by developer", d, err)
}

// Respond handles POST /agreements/{id}/respond.
func (h *AgreementsHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var body api.RespondRequest
	id, ok := h.decodeFor(w, r, &body)
	if !ok {
		return
	}
	d, err := h.Service.Respond(r.Context(), middleware.ActorFrom(r.Context()), id, *body.Accept, mapping.ToDomainPricing(body.Pricing), body.Reason)
	message := "Agreement accepted by developer"
	if !*body.Accept {
		message = "Agreement declined"
	}
	h.write(w, r, http.StatusOK, message, d, err)
}

// ClientApprove handles POST /agreements/{id}/client-approve.
func (h *AgreementsHandler) ClientApprove(w http.ResponseWriter, r *http.Request) {
	var body api.ClientApproveRequest
	id, ok := h.decodeFor(w, r, &body)
	if !ok {
		return
	}
	d, err := h.Service.ClientApprove(r.Context(), middleware.ActorFrom(r.Context()), id, mapping.ToDomainEscrowFunding(&body))
	h.write(w, r, http.StatusOK, "Agreement approved and escrow recorded", d, err)
}

// Sign handles POST /agreements/{id}/sign.
func (h *AgreementsHandler) Sign(w http.ResponseWriter, r *http.Request) {
	var body api.SignRequest
	id, ok := h.decodeFor(w, r, &body)
	if !ok {
		return
	}
	d, err := h.Service.Sign(r.Context(), middleware.ActorFrom(r.Context()), id, mapping.ToDomainSignature(&body))
	h.write(w, r, http.StatusOK, "Agreement signed", d, err)
}

// Complete handles POST /agreements/{id}/complete.
func (h *AgreementsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.decodeFor(w, r, nil)
	if !ok {
		return
	}
	d, err := h.Service.Complete(r.Context(), middleware.ActorFrom(r.Context()), id)
	h.write(w, r, http.StatusOK, "Agreement completed", d, err)
}

// Cancel handles POST /agreements/{id}/cancel.
func (h *AgreementsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var body api.ReasonRequest
	id, ok := h.decodeFor(w, r, &body)
	if !ok {
		return
	}
	d, err := h.Service.Cancel(r.Context(), middleware.ActorFrom(r.Context()), id, body.Reason)
	h.write(w, r, http.StatusOK, "Agreement cancelled", d, err)
}

// Dispute handles POST /agreements/{id}/dispute.
func (h *AgreementsHandler) Dispute(w http.ResponseWriter, r *http.Request) {
	var body api.ReasonRequest
	id, ok := h.decodeFor(w, r, &body)
	if !ok {
		return
	}
	d, err := h.Service.Dispute(r.Context(), middleware.ActorFrom(r.Context()), id, body.Reason)
	h.write(w, r, http.StatusOK, "Dispute raised", d, err)
}

// RequestModification handles POST /agreements/{id}/modifications.
func (h *AgreementsHandler) RequestModification(w http.ResponseWriter, r *http.Request) {
	var body api.NewModification
	id, ok := h.decodeFor(w, r, &body)
	if !ok {
		return
	}
	mod, err := h.Service.RequestModification(r.Context(), middleware.ActorFrom(r.Context()), id, mapping.ToDomainModification(&body))
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	h.Responder.JSON(w, http.StatusCreated, "Modification requested", mod)
}

// RespondModification handles POST /agreements/{id}/modifications/{modificationId}/respond.
func (h *AgreementsHandler) RespondModification(w http.ResponseWriter, r *http.Request) {
	var body api.ModificationResponse
	id, ok := h.decodeFor(w, r, &body)
	if !ok {
		return
	}
	modID, err := httpx.PathParam(r, "modificationId")
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	d, err := h.Service.RespondModification(r.Context(), middleware.ActorFrom(r.Context()), id, modID, *body.Approve, body.Note)
	message := "Modification approved"
	if !*body.Approve {
		message = "Modification rejected"
	}
	h.write(w, r, http.StatusOK, message, d, err)
}

// ListTransactions handles GET /agreements/{id}/transactions.
func (h *AgreementsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.decodeFor(w, r, nil)
	if !ok {
		return
	}
	txs, err := h.Service.ListTransactions(r.Context(), middleware.ActorFrom(r.Context()), id)
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	h.Responder.JSON(w, http.StatusOK, "Transactions retrieved", txs)
}
