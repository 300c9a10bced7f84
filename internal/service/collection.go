package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

// CollectionService implements saved-question bookmarks with toggle
// semantics: saving a saved question unsaves it.
type CollectionService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewCollectionService(store repository.Store, logger *slog.Logger) *CollectionService {
	return &CollectionService{store: store, logger: logger}
}

// Toggle flips the saved state for (userID, questionID) and reports the new
// state. The check-then-mutate pair runs in a transaction, and the store's
// unique constraint on (author, question) backstops it: two rapid clicks
// can never leave two bookmark rows.
func (s *CollectionService) Toggle(ctx context.Context, userID, questionID string) (saved bool, err error) {
	if userID == "" {
		return false, apperror.Unauthorized("authentication required to save a question")
	}

	// The question must exist; a bookmark on a ghost is a NotFound.
	if _, err := s.store.Questions().GetByID(ctx, questionID); err != nil {
		return false, err
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		existing, err := tx.Collections().Get(ctx, userID, questionID)
		if err != nil {
			if !errors.Is(err, apperror.ErrNotFound) {
				return err
			}
			// Not saved yet → save
			c := &model.Collection{AuthorID: userID, QuestionID: questionID}
			if err := tx.Collections().Create(ctx, c); err != nil {
				return err
			}
			saved = true
			return nil
		}
		// Already saved → unsave
		if err := tx.Collections().Delete(ctx, existing.ID); err != nil {
			return err
		}
		saved = false
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("bookmark toggled",
		slog.String("userID", userID),
		slog.String("questionID", questionID),
		slog.Bool("saved", saved),
	)
	return saved, nil
}

// IsSaved reports whether userID has bookmarked the question.
func (s *CollectionService) IsSaved(ctx context.Context, userID, questionID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	_, err := s.store.Collections().Get(ctx, userID, questionID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListSaved returns the user's bookmarks with their questions populated.
// Query and Filter apply to the bookmarked questions.
func (s *CollectionService) ListSaved(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Collection, int, error) {
	if userID == "" {
		return nil, 0, apperror.Unauthorized("authentication required")
	}
	opts = clampListOptions(opts)
	return s.store.Collections().ListByAuthor(ctx, userID, opts)
}
