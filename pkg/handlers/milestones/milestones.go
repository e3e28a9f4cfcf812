package milestones

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/chris/gig-agreements/pkg/api"
	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/httpx"
	"github.com/chris/gig-agreements/pkg/mapping"
	"github.com/chris/gig-agreements/pkg/middleware"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/service"
	"github.com/chris/gig-agreements/pkg/uploads"
	"github.com/chris/gig-agreements/pkg/workflow"
	"github.com/go-chi/chi/v5"
)

const (
	// MaxUploadBytes bounds a multipart submission.
	MaxUploadBytes = 50 << 20
	maxFiles       = 10
)

// Service is the part of the agreement service these handlers call.
type Service interface {
	GetMilestone(ctx context.Context, actor models.Actor, id string) (*service.MilestoneDetails, error)
	StartMilestone(ctx context.Context, actor models.Actor, id string) (*service.MilestoneDetails, error)
	SubmitMilestone(ctx context.Context, actor models.Actor, id string, in service.SubmitInput) (*service.MilestoneDetails, error)
	ReviewMilestone(ctx context.Context, actor models.Actor, id string) (*service.MilestoneDetails, error)
	ApproveMilestone(ctx context.Context, actor models.Actor, id string, in workflow.Approval) (*service.MilestoneDetails, error)
	RequestRevision(ctx context.Context, actor models.Actor, id, reason string) (*service.MilestoneDetails, error)
	RejectMilestone(ctx context.Context, actor models.Actor, id, reason string) (*service.MilestoneDetails, error)
}

// MilestonesHandler holds the dependencies for milestone-related handlers.
type MilestonesHandler struct {
	Service   Service
	Responder *httpx.Responder
}

// NewMilestonesHandler creates a new MilestonesHandler.
func NewMilestonesHandler(svc Service, responder *httpx.Responder) *MilestonesHandler {
	return &MilestonesHandler{Service: svc, Responder: responder}
}

// Routes mounts the milestone endpoints.
func (h *MilestonesHandler) Routes(r chi.Router) {
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetMilestone)
		r.Post("/start", h.StartMilestone)
		r.Post("/submit", h.SubmitMilestone)
		r.Post("/review", h.ReviewMilestone)
		r.Post("/approve", h.ApproveMilestone)
		r.Post("/request-revision", h.RequestRevision)
		r.Post("/reject", h.RejectMilestone)
	})
}

func (h *MilestonesHandler) write(w http.ResponseWriter, r *http.Request, message string, d *service.MilestoneDetails, err error) {
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	h.Responder.JSON(w, http.StatusOK, message, mapping.ToApiMilestone(d))
}

func (h *MilestonesHandler) id(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := httpx.PathParam(r, "id")
	if err != nil {
		h.Responder.Error(w, r, err)
		return "", false
	}
	return id, true
}

// GetMilestone handles GET /milestones/{id}.
func (h *MilestonesHandler) GetMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	d, err := h.Service.GetMilestone(r.Context(), middleware.ActorFrom(r.Context()), id)
	h.write(w, r, "Milestone retrieved", d, err)
}

// StartMilestone handles POST /milestones/{id}/start.
func (h *MilestonesHandler) StartMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	d, err := h.Service.StartMilestone(r.Context(), middleware.ActorFrom(r.Context()), id)
	h.write(w, r, "Milestone started", d, err)
}

// SubmitMilestone handles POST /milestones/{id}/submit. The body is either
// JSON or multipart/form-data with a "notes" field, an optional "links"
// field holding a JSON array of {name,url}, and "files" parts.
func (h *MilestonesHandler) SubmitMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	var body api.SubmitMilestoneRequest
	var files []uploads.File
	var err error
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		files, err = readMultipart(w, r, &body)
	} else {
		err = httpx.Decode(r, &body)
	}
	if err != nil {
		h.Responder.Error(w, r, err)
		return
	}

	d, err := h.Service.SubmitMilestone(r.Context(), middleware.ActorFrom(r.Context()), id, mapping.ToDomainSubmission(&body, files))
	h.write(w, r, "Milestone submitted", d, err)
}

func readMultipart(w http.ResponseWriter, r *http.Request, body *api.SubmitMilestoneRequest) ([]uploads.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		return nil, apperrors.Validation("invalid multipart body: %v", err)
	}
	defer r.MultipartForm.RemoveAll()

	body.Notes = r.FormValue("notes")
	if links := r.FormValue("links"); links != "" {
		if err := json.Unmarshal([]byte(links), &body.Files); err != nil {
			return nil, apperrors.InvalidFields("invalid request", []apperrors.FieldError{{Field: "links", Message: "links must be a JSON array"}})
		}
	}
	if err := httpx.Validate(body); err != nil {
		return nil, err
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) > maxFiles {
		return nil, apperrors.InvalidFields("invalid request", []apperrors.FieldError{
			{Field: "files", Message: fmt.Sprintf("at most %d files may be uploaded", maxFiles)},
		})
	}
	files := make([]uploads.File, 0, len(headers))
	for i, fh := range headers {
		if fh.Size == 0 {
			return nil, apperrors.InvalidFields("invalid request", []apperrors.FieldError{
				{Field: fmt.Sprintf("files[%d]", i), Message: fmt.Sprintf("file %q is empty", fh.Filename)},
			})
		}
		f, err := fh.Open()
		if err != nil {
			return nil, apperrors.Validation("failed to read file %s", fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperrors.Validation("failed to read file %s", fh.Filename)
		}
		files = append(files, uploads.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        data,
		})
	}
	return files, nil
}

// ReviewMilestone handles POST /milestones/{id}/review.
func (h *MilestonesHandler) ReviewMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	d, err := h.Service.ReviewMilestone(r.Context(), middleware.ActorFrom(r.Context()), id)
	h.write(w, r, "Milestone in review", d, err)
}

// ApproveMilestone handles POST /milestones/{id}/approve.
func (h *MilestonesHandler) ApproveMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var body api.ApproveMilestoneRequest
	if err := httpx.Decode(r, &body); err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	d, err := h.Service.ApproveMilestone(r.Context(), middleware.ActorFrom(r.Context()), id, mapping.ToDomainApproval(&body))
	h.write(w, r, "Milestone approved", d, err)
}

// RequestRevision handles POST /milestones/{id}/request-revision.
func (h *MilestonesHandler) RequestRevision(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var body api.ReasonRequest
	if err := httpx.Decode(r, &body); err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	d, err := h.Service.RequestRevision(r.Context(), middleware.ActorFrom(r.Context()), id, body.Reason)
	h.write(w, r, "Revision requested", d, err)
}

// RejectMilestone handles POST /milestones/{id}/reject.
func (h *MilestonesHandler) RejectMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var body api.ReasonRequest
	if err := httpx.Decode(r, &body); err != nil {
		h.Responder.Error(w, r, err)
		return
	}
	d, err := h.Service.RejectMilestone(r.Context(), middleware.ActorFrom(r.Context()), id, body.Reason)
	h.write(w, r, "Milestone rejected", d, err)
}
