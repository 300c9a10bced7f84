package service

import (
	"context"
	"log/slog"

	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

// TagService exposes the tag listings. Tags themselves are created and
// retired as a side effect of posting and editing questions (see
// QuestionService); this service only reads.
type TagService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewTagService(store repository.Store, logger *slog.Logger) *TagService {
	return &TagService{store: store, logger: logger}
}

// List returns a page of tags. Filters: popular (default), name, recent.
func (s *TagService) List(ctx context.Context, opts repository.ListOptions) ([]model.Tag, int, error) {
	opts = clampListOptions(opts)
	return s.store.Tags().List(ctx, opts)
}

// GetByID returns one tag.
func (s *TagService) GetByID(ctx context.Context, id string) (*model.Tag, error) {
	return s.store.Tags().GetByID(ctx, id)
}
