package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

// MinAnswerLength keeps drive-by one-liners out. An answer has to at least
// attempt an explanation.
const MinAnswerLength = 100

// AnswerService handles posting, listing, and deleting answers.
type AnswerService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewAnswerService(store repository.Store, logger *slog.Logger) *AnswerService {
	return &AnswerService{store: store, logger: logger}
}

// Create posts an answer to a question. The answer row, the question's
// answer_count bump, the post interaction, and the author's +10 reputation
// commit in one transaction.
func (s *AnswerService) Create(ctx context.Context, authorID, questionID, content string) (*model.Answer, error) {
	if authorID == "" {
		return nil, apperror.Unauthorized("authentication required to answer")
	}

	content = strings.TrimSpace(content)
	if len(content) < MinAnswerLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("answer must be at least %d characters", MinAnswerLength))
	}

	// The question must exist before we open the transaction.
	if _, err := s.store.Questions().GetByID(ctx, questionID); err != nil {
		return nil, err
	}

	answer := &model.Answer{
		QuestionID: questionID,
		AuthorID:   authorID,
		Content:    content,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Answers().Create(ctx, answer); err != nil {
			return err
		}
		if err := tx.Questions().AdjustAnswerCount(ctx, questionID, 1); err != nil {
			return err
		}
		return recordInteraction(ctx, tx, authorID, authorID, model.ActionPost, answer.ID, model.TargetAnswer)
	})
	if err != nil {
		s.logger.Error("failed to create answer",
			slog.String("questionID", questionID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("answer created",
		slog.String("id", answer.ID),
		slog.String("questionID", questionID),
		slog.String("authorID", authorID),
	)
	return answer, nil
}

// ListByQuestion pages through a question's answers with authors populated.
func (s *AnswerService) ListByQuestion(ctx context.Context, questionID string, opts repository.ListOptions) ([]model.Answer, int, error) {
	opts = clampListOptions(opts)
	answers, total, err := s.store.Answers().ListByQuestion(ctx, questionID, opts)
	if err != nil {
		return nil, 0, err
	}
	if err := s.populateAuthors(ctx, answers); err != nil {
		return nil, 0, err
	}
	return answers, total, nil
}

// ListByAuthor returns a user's answers, newest first.
func (s *AnswerService) ListByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Answer, int, error) {
	opts = clampListOptions(opts)
	return s.store.Answers().ListByAuthor(ctx, authorID, opts)
}

// Delete removes an answer: its votes, the question's answer_count, and the
// author's -10 reputation all move in the same transaction. Only the
// answer's author may delete it.
func (s *AnswerService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return apperror.Unauthorized("authentication required to delete an answer")
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		answer, err := tx.Answers().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if answer.AuthorID != userID {
			return apperror.Unauthorized("only the author can delete this answer")
		}

		if err := tx.Votes().DeleteByTarget(ctx, id, model.TargetAnswer); err != nil {
			return err
		}
		if err := tx.Answers().Delete(ctx, id); err != nil {
			return err
		}
		if err := tx.Questions().AdjustAnswerCount(ctx, answer.QuestionID, -1); err != nil {
			return err
		}
		return recordInteraction(ctx, tx, userID, answer.AuthorID, model.ActionDelete, id, model.TargetAnswer)
	})
	if err != nil {
		s.logger.Error("failed to delete answer",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("answer deleted", slog.String("id", id), slog.String("userID", userID))
	return nil
}

func (s *AnswerService) populateAuthors(ctx context.Context, answers []model.Answer) error {
	for i := range answers {
		author, err := s.store.Users().GetByID(ctx, answers[i].AuthorID)
		if err != nil {
			return err
		}
		answers[i].Author = author
	}
	return nil
}
