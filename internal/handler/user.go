package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/devforum/internal/auth"
	"github.com/sakif/devforum/internal/service"
	"github.com/sakif/devforum/internal/validation"
)

// UserHandler serves the community listing, public profiles, per-user
// stats/badges, and profile edits.
type UserHandler struct {
	users     *service.UserService
	questions *service.QuestionService
	answers   *service.AnswerService
	logger    *slog.Logger
}

func NewUserHandler(
	users *service.UserService,
	questions *service.QuestionService,
	answers *service.AnswerService,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{users: users, questions: questions, answers: answers, logger: logger}
}

// HandleList returns the community page.
//
// HTTP: GET /api/users?page=&pageSize=&query=&filter=
// Filters: newest (default), oldest, popular (by reputation)
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	users, total, err := h.users.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeList(w, users, total, opts, len(users))
}

// HandleGet returns one user's public profile.
//
// HTTP: GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile edits the caller's own profile.
//
// HTTP: PUT /api/users/me
// Auth: Required
// BODY: {"name": ..., "bio": ..., "image": ..., "location": ..., "portfolio": ...}
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var params validation.UpdateProfileParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID,
		params.Name, params.Bio, params.Image, params.Location, params.Portfolio)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleQuestions returns a user's questions.
//
// HTTP: GET /api/users/{id}/questions?page=&pageSize=
func (h *UserHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	questions, total, err := h.questions.ListByAuthor(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeList(w, questions, total, opts, len(questions))
}

// HandleAnswers returns a user's answers.
//
// HTTP: GET /api/users/{id}/answers?page=&pageSize=
func (h *UserHandler) HandleAnswers(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	answers, total, err := h.answers.ListByAuthor(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeList(w, answers, total, opts, len(answers))
}

// HandleStats returns a user's aggregate activity and badge counts.
//
// HTTP: GET /api/users/{id}/stats
func (h *UserHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Stats(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleTopTags returns the tags a user asks about most.
//
// HTTP: GET /api/users/{id}/tags?limit=
func (h *UserHandler) HandleTopTags(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tags, err := h.users.TopTags(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}
