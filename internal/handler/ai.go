package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/devforum/internal/ai"
	"github.com/sakif/devforum/internal/validation"
)

// AIHandler drafts answers with the configured language model.
type AIHandler struct {
	generator *ai.AnswerGenerator
	logger    *slog.Logger
}

func NewAIHandler(generator *ai.AnswerGenerator, logger *slog.Logger) *AIHandler {
	return &AIHandler{generator: generator, logger: logger}
}

// HandleGenerate produces a suggested Markdown answer for a question.
//
// HTTP: POST /api/ai/answer
// Auth: Required
// BODY: {"question": <title>, "content": <question body>, "userAnswer": <optional draft>}
func (h *AIHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var params validation.AIAnswerParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	answer, err := h.generator.Generate(r.Context(), params.Question, params.Content, params.UserAnswer)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
				Error:   "unavailable",
				Message: "AI answer generation is not configured on this server",
			})
			return
		}
		h.logger.Error("AI answer generation failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "answer generation is temporarily unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
