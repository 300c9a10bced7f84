package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devforum/internal/auth"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/service"
	"github.com/sakif/devforum/internal/validation"
)

// VoteHandler applies vote toggles and reports vote state.
//
// One endpoint covers upvote and downvote on both questions and answers —
// the target and vote type travel in the body, which keeps the state
// machine (create / switch / un-vote) in a single service method instead of
// four near-identical routes.
type VoteHandler struct {
	votes  *service.VoteService
	logger *slog.Logger
}

func NewVoteHandler(votes *service.VoteService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{votes: votes, logger: logger}
}

// HandleCast applies one click of the vote toggle.
//
// HTTP: POST /api/votes
// Auth: Required
// BODY: {"targetId": ..., "targetType": "question"|"answer", "voteType": "upvote"|"downvote"}
//
// The response carries the caller's resulting vote state so the client can
// flip the arrows without refetching the target.
func (h *VoteHandler) HandleCast(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var params validation.CreateVoteParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.votes.Cast(r.Context(), userID,
		params.TargetID, model.VoteTarget(params.TargetType), model.VoteType(params.VoteType))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleStatus reports whether the caller has voted on a target.
//
// HTTP: GET /api/votes/status?targetId=&targetType=
// Auth: Required
func (h *VoteHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	params := validation.VoteStatusParams{
		TargetID:   r.URL.Query().Get("targetId"),
		TargetType: r.URL.Query().Get("targetType"),
	}
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	status, err := h.votes.Status(r.Context(), userID, params.TargetID, model.VoteTarget(params.TargetType))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
