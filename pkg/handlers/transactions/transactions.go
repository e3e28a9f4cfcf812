package transactions

import (
	"context"
	"net/http"

	"github.com/chris/gig-agreements/pkg/api"
	"github.com/chris/gig-agreements/pkg/httpx"
	"github.com/chris/gig-agreements/pkg/mapping"
	"github.com/chris/gig-agreements/pkg/middleware"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/service"
	"github.com/chris/gig-agreements/pkg/workflow"
	"github.com/go-chi/chi/v5"
)

// Service is the part of the agreement service these handlers call.
type Service interface {
	CreateTransaction(ctx context.Context, actor models.Actor, agreementID string, in workflow.TransactionRequest) (*models.Transaction, error)
	GetTransaction(ctx context.Context, actor models.Actor, id string) (*models.Transaction, error)
	AttachProof(ctx context.Context, actor models.Actor, id string, proof models.ChainProof) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, actor models.Actor, id string, in service.StatusUpdate) (*models.Transaction, error)
	VerifyTransaction(ctx context.Context, actor models.Actor, id string) (*service.Verification, error)
}

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Service   Service
	Responder *httpx.Responder
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(svc Service, responder *httpx.Responder) *TransactionsHandler {
	return &TransactionsHandler{Service: svc, Responder: responder}
}

// Routes mounts the transaction endpoints.
func (h *TransactionsHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateTransaction)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetTransactionById)
		r.Post("/blockchain", h.AttachProof)
		r.Post("/status", h.UpdateStatus)
		r.Get("/verify", h.VerifyTransaction)
	})
}

func (h *TransactionsHandler) write(w http.ResponseWriter, r *http.Request, status int, message string, tx *models.Transaction, err error) {
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	h.Responder.JSON(w, status, message, tx)
}

// CreateTransaction handles POST /transactions.
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var body api.NewTransaction
	if err := httpx.Decode(r, &body); err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	tx, err := h.Service.CreateTransaction(r.Context(), middleware.ActorFrom(r.Context()), body.AgreementId, mapping.ToDomainNewTransaction(&body))
	h.write(w, r, http.StatusCreated, "Transaction recorded", tx, err)
}

// GetTransactionById handles GET /transactions/{id}.
func (h *TransactionsHandler) GetTransactionById(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathParam(r, "id")
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	tx, err := h.Service.GetTransaction(r.Context(), middleware.ActorFrom(r.Context()), id)
	h.write(w, r, http.StatusOK, "Transaction retrieved", tx, err)
}

// AttachProof handles POST /transactions/{id}/blockchain.
func (h *TransactionsHandler) AttachProof(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathParam(r, "id")
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	var body api.BlockchainProof
	if err := httpx.Decode(r, &body); err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	tx, err := h.Service.AttachProof(r.Context(), middleware.ActorFrom(r.Context()), id, mapping.ToDomainChainProof(&body))
	h.write(w, r, http.StatusOK, "Blockchain proof recorded", tx, err)
}

// UpdateStatus handles POST /transactions/{id}/status.
func (h *TransactionsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathParam(r, "id")
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	var body api.TransactionStatusUpdate
	if err := httpx.Decode(r, &body); err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	tx, err := h.Service.UpdateTransactionStatus(r.Context(), middleware.ActorFrom(r.Context()), id, mapping.ToDomainStatusUpdate(&body))
	h.write(w, r, http.StatusOK, "Transaction status updated", tx, err)
}

// VerifyTransaction handles GET /transactions/{id}/verify. A receipt that
// does not match is reported with verified=false and a 200 status.
func (h *TransactionsHandler) VerifyTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathParam(r, "id")
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	v, err := h.Service.VerifyTransaction(r.Context(), middleware.ActorFrom(r.Context()), id)
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	message := "Transaction verified"
	if !v.Verified {
		message = "Transaction could not be verified"
	}
	h.Responder.JSON(w, http.StatusOK, message, mapping.ToApiVerification(v))
}
