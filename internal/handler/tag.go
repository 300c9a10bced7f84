package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/service"
)

// TagHandler serves the tag directory and per-tag question listings.
type TagHandler struct {
	tags      *service.TagService
	questions *service.QuestionService
	logger    *slog.Logger
}

func NewTagHandler(tags *service.TagService, questions *service.QuestionService, logger *slog.Logger) *TagHandler {
	return &TagHandler{tags: tags, questions: questions, logger: logger}
}

// HandleList returns the tag directory.
//
// HTTP: GET /api/tags?page=&pageSize=&query=&filter=
// Filters: popular (default), name, recent
func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	tags, total, err := h.tags.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeList(w, tags, total, opts, len(tags))
}

// HandleQuestions returns one tag plus the questions carrying it.
//
// HTTP: GET /api/tags/{id}/questions?page=&pageSize=&query=
func (h *TagHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	tag, questions, total, err := h.questions.ListByTag(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Tag *model.Tag `json:"tag"`
		ListResponse
	}{
		Tag: tag,
		ListResponse: ListResponse{
			Items:  questions,
			Total:  total,
			IsNext: opts.Offset+len(questions) < total,
		},
	})
}
