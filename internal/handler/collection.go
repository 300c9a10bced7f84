package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devforum/internal/auth"
	"github.com/sakif/devforum/internal/service"
	"github.com/sakif/devforum/internal/validation"
)

// CollectionHandler manages saved questions (bookmarks).
type CollectionHandler struct {
	collections *service.CollectionService
	logger      *slog.Logger
}

func NewCollectionHandler(collections *service.CollectionService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{collections: collections, logger: logger}
}

// HandleToggle saves or un-saves a question, one click per call.
//
// HTTP: POST /api/collections
// Auth: Required
// BODY: {"questionId": ...}
//
// Responds {"saved": true} when the call created the bookmark and
// {"saved": false} when it removed one.
func (h *CollectionHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var params validation.CollectionParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	saved, err := h.collections.Toggle(r.Context(), userID, params.QuestionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

// HandleIsSaved reports whether the caller has bookmarked a question.
//
// HTTP: GET /api/collections/status?questionId=
// Auth: Required
func (h *CollectionHandler) HandleIsSaved(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	params := validation.CollectionParams{QuestionID: r.URL.Query().Get("questionId")}
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	saved, err := h.collections.IsSaved(r.Context(), userID, params.QuestionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

// HandleListSaved returns the caller's saved questions.
//
// HTTP: GET /api/collections?page=&pageSize=&query=&filter=
// Auth: Required
func (h *CollectionHandler) HandleListSaved(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	opts := listOptionsFromQuery(r)

	collections, total, err := h.collections.ListSaved(r.Context(), userID, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeList(w, collections, total, opts, len(collections))
}
