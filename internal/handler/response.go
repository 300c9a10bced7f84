package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//   {"error": "not_found", "message": "question not found with id abc123"}
//
// The frontend always knows what fields to expect, regardless of whether
// it's a 400, 404, or 500.
//
// CONSISTENT LIST FORMAT:
// Every paginated listing responds with the page of items, the unpaginated
// total, and an isNext hint so the client can render pagination without a
// second request.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/repository"
	"github.com/sakif/devforum/internal/service"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"` // Human-readable description
}

// ListResponse wraps a page of results.
type ListResponse struct {
	Items  any  `json:"items"`
	Total  int  `json:"total"`
	IsNext bool `json:"isNext"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the body: once Encode writes,
// the headers are on the wire.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — we can only log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code.
//
// This is the only place domain errors meet HTTP. The service layer
// returns apperror.ErrValidation, apperror.ErrNotFound, etc.; errors.Is
// walks the wrap chain so it doesn't matter how many fmt.Errorf layers a
// service added on the way up.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — return a generic 500. The raw message might contain
	// SQL or file paths, so it is never exposed to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// writeList sends one page of a listing along with pagination metadata.
func writeList(w http.ResponseWriter, items any, total int, opts repository.ListOptions, pageLen int) {
	writeJSON(w, http.StatusOK, ListResponse{
		Items:  items,
		Total:  total,
		IsNext: opts.Offset+pageLen < total,
	})
}

// decodeJSON parses a request body into dst, rejecting malformed JSON with
// a ValidationError so it surfaces as a 400 like every other bad input.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON request body")
	}
	return nil
}

// listOptionsFromQuery reads the shared pagination parameters
// (?page=&pageSize=&query=&filter=) into repository.ListOptions.
// Out-of-range values are clamped by the services, so parsing is lenient:
// a non-numeric page simply means page 1.
func listOptionsFromQuery(r *http.Request) repository.ListOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	if pageSize < 1 {
		pageSize = service.DefaultListLimit
	}
	if pageSize > service.MaxListLimit {
		pageSize = service.MaxListLimit
	}

	return repository.ListOptions{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
		Query:  q.Get("query"),
		Filter: q.Get("filter"),
	}
}
