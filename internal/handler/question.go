package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devforum/internal/auth"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/service"
	"github.com/sakif/devforum/internal/validation"
)

// QuestionHandler manages question CRUD and the question listings.
//
// Ownership checks (only the author may edit or delete) live in the
// service; the handler's job is extracting the caller's identity from the
// request context and the parameters from the body and URL.
type QuestionHandler struct {
	questions *service.QuestionService
	votes     *service.VoteService
	logger    *slog.Logger
}

func NewQuestionHandler(questions *service.QuestionService, votes *service.VoteService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{questions: questions, votes: votes, logger: logger}
}

// HandleCreate posts a new question.
//
// HTTP: POST /api/questions
// Auth: Required
// BODY: {"title": ..., "content": ..., "tags": ["go", "sqlite"]}
func (h *QuestionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var params validation.CreateQuestionParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	question, err := h.questions.Create(r.Context(), userID, params.Title, params.Content, params.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

// HandleGet returns one question with its tags and author, and counts the
// view.
//
// HTTP: GET /api/questions/{id}
// Auth: Optional (vote status is included only for signed-in callers)
//
// Every GET increments the view counter. There is no per-user dedup — two
// visits are two views.
func (h *QuestionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	question, err := h.questions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	views, err := h.questions.IncrementViews(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	question.Views = views

	resp := struct {
		*model.Question
		VoteStatus *model.VoteStatus `json:"voteStatus,omitempty"`
	}{Question: question}

	// Signed-in callers also get their own vote state so the page can
	// render the arrows without a follow-up request.
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		status, err := h.votes.Status(r.Context(), userID, id, model.TargetQuestion)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.VoteStatus = status
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleEdit updates a question's title, content, and tag list.
//
// HTTP: PUT /api/questions/{id}
// Auth: Required (author only)
func (h *QuestionHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var params validation.EditQuestionParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}
	params.QuestionID = r.PathValue("id")
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	question, err := h.questions.Edit(r.Context(), userID, params.QuestionID, params.Title, params.Content, params.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// HandleDelete removes a question along with its answers, votes, tag links,
// and bookmarks.
//
// HTTP: DELETE /api/questions/{id}
// Auth: Required (author only)
func (h *QuestionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.questions.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleList returns the home-page question listing.
//
// HTTP: GET /api/questions?page=&pageSize=&query=&filter=
// Filters: newest (default), oldest, popular, unanswered
func (h *QuestionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	questions, total, err := h.questions.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeList(w, questions, total, opts, len(questions))
}
