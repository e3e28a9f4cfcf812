// Package httpx holds the request decoding and response envelope shared by
// the HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/chris/gig-agreements/pkg/api"
	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

const internalMessage = "Internal server error"

// Responder writes the JSON envelopes. In production the details of
// internal failures are not sent to callers.
type Responder struct {
	HideInternal bool
}

// NewResponder creates a Responder.
func NewResponder(hideInternal bool) *Responder {
	return &Responder{HideInternal: hideInternal}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// JSON writes a success envelope.
func (rs *Responder) JSON(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, api.Response{Success: true, Message: message, Data: data})
}

// Page writes a success envelope for one page of a listing.
func (rs *Responder) Page(w http.ResponseWriter, message string, data interface{}, page *api.Pagination) {
	writeJSON(w, http.StatusOK, api.Response{Success: true, Message: message, Data: data, Pagination: page})
}

// Error writes the failure envelope for err.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	body := api.ErrorBody{StatusCode: status, Message: err.Error()}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Errors = appErr.Fields
		if appErr.Kind == apperrors.KindInternal && !rs.HideInternal {
			body.Message = appErr.Error()
		}
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
		)
		if rs.HideInternal && apperrors.KindOf(err) == apperrors.KindInternal {
			body.Message = internalMessage
		}
	}
	writeJSON(w, status, api.ErrorResponse{Success: false, Error: body})
}

// NotFound answers requests for routes that do not exist.
func (rs *Responder) NotFound(w http.ResponseWriter, r *http.Request) {
	rs.Error(w, r, apperrors.NotFound("route %s %s not found", r.Method, r.URL.Path))
}

// MethodNotAllowed answers requests with the wrong verb for a route.
func (rs *Responder) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, api.ErrorResponse{Error: api.ErrorBody{
		Message:    "method not allowed",
		StatusCode: http.StatusMethodNotAllowed,
	}})
}

// Decode reads a JSON body into dst and validates it. An empty body is
// treated as an empty object.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.Validation("invalid request body: %v", err)
	}
	return Validate(dst)
}

// PathParam binds a required path parameter declared on the chi route.
func PathParam(r *http.Request, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", apperrors.Validation("invalid format for parameter %s: %v", name, err)
	}
	return value, nil
}

// QueryParam binds an optional form-style query parameter into dest.
func QueryParam(r *http.Request, name string, dest interface{}) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return apperrors.InvalidFields("invalid query parameter", []apperrors.FieldError{
			{Field: name, Message: err.Error()},
		})
	}
	return nil
}
