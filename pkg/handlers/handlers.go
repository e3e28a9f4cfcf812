package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/gig-agreements/pkg/handlers/agreements"
	"github.com/chris/gig-agreements/pkg/handlers/milestones"
	"github.com/chris/gig-agreements/pkg/handlers/transactions"
	"github.com/chris/gig-agreements/pkg/httpx"
	"github.com/chris/gig-agreements/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service is everything the REST API calls on the agreement service.
type Service interface {
	agreements.Service
	milestones.Service
	transactions.Service
}

// Options configures the router.
type Options struct {
	Logger *slog.Logger
	// HideInternal strips internal error details from responses.
	HideInternal bool
	// WebSocket serves /ws when set.
	WebSocket http.Handler
}

// NewRouter mounts every endpoint on a chi router.
func NewRouter(svc Service, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	responder := httpx.NewResponder(opts.HideInternal)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Actor)
	r.Use(middleware.NewStructuredLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	r.NotFound(responder.NotFound)
	r.MethodNotAllowed(responder.MethodNotAllowed)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		responder.JSON(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	if opts.WebSocket != nil {
		r.Handle("/ws", opts.WebSocket)
	}

	r.Route("/agreements", agreements.NewAgreementsHandler(svc, responder).Routes)
	r.Route("/milestones", milestones.NewMilestonesHandler(svc, responder).Routes)
	r.Route("/transactions", transactions.NewTransactionsHandler(svc, responder).Routes)
	return r
}
