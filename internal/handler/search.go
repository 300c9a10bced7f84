package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devforum/internal/service"
)

// SearchHandler serves the global search box.
type SearchHandler struct {
	search *service.SearchService
	logger *slog.Logger
}

func NewSearchHandler(search *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{search: search, logger: logger}
}

// HandleGlobal searches questions, answers, users, and tags at once.
//
// HTTP: GET /api/search?query=&type=
//
// An empty query returns an empty result set rather than an error — the
// client fires this on every keystroke, including the backspace down to
// nothing.
func (h *SearchHandler) HandleGlobal(w http.ResponseWriter, r *http.Request) {
	results, err := h.search.Global(r.Context(), r.URL.Query().Get("query"), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}
