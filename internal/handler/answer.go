package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devforum/internal/auth"
	"github.com/sakif/devforum/internal/service"
	"github.com/sakif/devforum/internal/validation"
)

// AnswerHandler manages posting, listing, and deleting answers.
type AnswerHandler struct {
	answers *service.AnswerService
	logger  *slog.Logger
}

func NewAnswerHandler(answers *service.AnswerService, logger *slog.Logger) *AnswerHandler {
	return &AnswerHandler{answers: answers, logger: logger}
}

// HandleCreate posts an answer to a question.
//
// HTTP: POST /api/questions/{id}/answers
// Auth: Required
// BODY: {"content": ...}
func (h *AnswerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var params validation.CreateAnswerParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}
	params.QuestionID = r.PathValue("id")
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	answer, err := h.answers.Create(r.Context(), userID, params.QuestionID, params.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, answer)
}

// HandleListByQuestion returns a question's answers with their authors.
//
// HTTP: GET /api/questions/{id}/answers?page=&pageSize=&filter=
// Filters: latest (default), oldest, popular
func (h *AnswerHandler) HandleListByQuestion(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	answers, total, err := h.answers.ListByQuestion(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeList(w, answers, total, opts, len(answers))
}

// HandleDelete removes an answer and its votes.
//
// HTTP: DELETE /api/answers/{id}
// Auth: Required (author only)
func (h *AnswerHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.answers.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
