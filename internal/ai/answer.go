// Package ai drafts answers to questions with an OpenAI chat completion.
//
// The generated text is a starting point the user edits before posting, so
// the prompt asks for Markdown and keeps the response focused on the one
// question. The feature is optional: with no API key configured the
// generator reports ErrNotConfigured and the rest of the app is unaffected.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when no OpenAI API key was supplied.
var ErrNotConfigured = errors.New("AI answer generation not configured")

// generateTimeout bounds one completion call. Chat completions for an
// answer-sized response normally finish well inside this.
const generateTimeout = 60 * time.Second

const systemPrompt = "You are a helpful assistant on a programming Q&A " +
	"forum. Answer the user's question accurately and concisely in GitHub-" +
	"flavored Markdown. Use code blocks for code. If the question cannot " +
	"be answered as asked, say what is missing instead of guessing."

// completionClient is the slice of the OpenAI client the generator uses,
// extracted so tests can substitute a fake.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AnswerGenerator turns a question (plus the user's optional draft) into a
// suggested Markdown answer.
type AnswerGenerator struct {
	client completionClient
	model  string
}

// NewAnswerGenerator builds a generator. An empty apiKey yields a disabled
// generator whose Generate returns ErrNotConfigured.
func NewAnswerGenerator(apiKey, model string) *AnswerGenerator {
	if apiKey == "" {
		return &AnswerGenerator{model: model}
	}
	return &AnswerGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Generate produces a Markdown answer for the given question. When the user
// has already written a partial answer, it is passed along so the model
// refines rather than replaces it.
func (g *AnswerGenerator) Generate(ctx context.Context, title, content, userDraft string) (string, error) {
	if g.client == nil {
		return "", ErrNotConfigured
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("question title is required")
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Question: %s\n\n%s\n", title, strings.TrimSpace(content))
	if draft := strings.TrimSpace(userDraft); draft != "" {
		fmt.Fprintf(&prompt, "\nThe user has started this draft answer. Improve and complete it:\n\n%s\n", draft)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no completion")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
