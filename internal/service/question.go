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

// Validation constants. The HTTP layer runs full struct validation; these
// guard the invariants the service itself depends on, so non-HTTP callers
// get the same protection.
const (
	MaxTitleLength   = 100
	MaxTagsPerPost   = 5
	MaxTagNameLength = 30
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// QuestionService handles the question lifecycle: posting, reading, editing
// with tag reconciliation, and the delete cascade.
type QuestionService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewQuestionService(store repository.Store, logger *slog.Logger) *QuestionService {
	return &QuestionService{store: store, logger: logger}
}

// Create posts a new question with its tags.
//
// Everything runs in one transaction: the question row, a tag upsert + link
// per name, the post interaction, and the author's +5 reputation. The tag
// upsert matches case-insensitively, so "React" and "react" land on the
// same tag row.
func (s *QuestionService) Create(ctx context.Context, authorID, title, content string, tagNames []string) (*model.Question, error) {
	if authorID == "" {
		return nil, apperror.Unauthorized("authentication required to ask a question")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	tagNames, err := normalizeTagNames(tagNames)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		Title:    title,
		Content:  strings.TrimSpace(content),
		AuthorID: authorID,
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Questions().Create(ctx, question); err != nil {
			return err
		}
		for _, name := range tagNames {
			tag, err := tx.Tags().Upsert(ctx, name)
			if err != nil {
				return err
			}
			if err := tx.Tags().CreateLink(ctx, tag.ID, question.ID); err != nil {
				return err
			}
			question.Tags = append(question.Tags, *tag)
		}
		return recordInteraction(ctx, tx, authorID, authorID, model.ActionPost, question.ID, model.TargetQuestion)
	})
	if err != nil {
		s.logger.Error("failed to create question",
			slog.String("authorID", authorID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("question created",
		slog.String("id", question.ID),
		slog.String("authorID", authorID),
		slog.Int("tags", len(question.Tags)),
	)
	return question, nil
}

// GetByID returns a question with its tags and author populated.
func (s *QuestionService) GetByID(ctx context.Context, id string) (*model.Question, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "question ID is required")
	}

	question, err := s.store.Questions().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// IncrementViews bumps the view counter and returns the new value.
// Views are best-effort: no dedup per user, every read of the question
// page counts.
func (s *QuestionService) IncrementViews(ctx context.Context, id string) (int, error) {
	views, err := s.store.Questions().IncrementViews(ctx, id)
	if err != nil {
		return 0, err
	}
	return views, nil
}

// Edit updates title/content and reconciles the tag list.
//
// RECONCILIATION:
// The requested names are diffed (case-insensitively) against the question's
// current tags. Names only in the request are added: upsert the tag, link
// it. Tags only in the current set are removed: unlink, decrement the count.
// Tags in both are untouched — their counts don't move. The whole diff plus
// the title/content update commits atomically.
//
// Only the question's author may edit it.
func (s *QuestionService) Edit(ctx context.Context, userID, id, title, content string, tagNames []string) (*model.Question, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required to edit a question")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	tagNames, err := normalizeTagNames(tagNames)
	if err != nil {
		return nil, err
	}

	var question *model.Question
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		question, err = tx.Questions().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if question.AuthorID != userID {
			return apperror.Unauthorized("only the author can edit this question")
		}

		current, err := tx.Tags().ListForQuestion(ctx, id)
		if err != nil {
			return err
		}

		toAdd, toRemove := diffTags(current, tagNames)

		for _, name := range toAdd {
			tag, err := tx.Tags().Upsert(ctx, name)
			if err != nil {
				return err
			}
			if err := tx.Tags().CreateLink(ctx, tag.ID, id); err != nil {
				return err
			}
		}
		for _, tag := range toRemove {
			if err := tx.Tags().AdjustQuestionCount(ctx, tag.ID, -1); err != nil {
				return err
			}
			if err := tx.Tags().DeleteLink(ctx, tag.ID, id); err != nil {
				return err
			}
		}

		question.Title = title
		question.Content = strings.TrimSpace(content)
		if err := tx.Questions().Update(ctx, question); err != nil {
			return err
		}

		question.Tags, err = tx.Tags().ListForQuestion(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("question edited",
		slog.String("id", id),
		slog.String("userID", userID),
	)
	return question, nil
}

// Delete removes a question and everything hanging off it: answers, votes on
// the question and on each answer, tag links (decrementing each tag's
// count), and saved-question entries. The author takes the question-delete
// reputation hit. Only the author may delete.
func (s *QuestionService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return apperror.Unauthorized("authentication required to delete a question")
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		question, err := tx.Questions().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if question.AuthorID != userID {
			return apperror.Unauthorized("only the author can delete this question")
		}

		// Votes on the question's answers, then the answers themselves.
		// Each answer author takes the answer-delete reputation hit.
		answers, err := tx.Answers().ByQuestion(ctx, id)
		if err != nil {
			return err
		}
		for _, a := range answers {
			if err := tx.Votes().DeleteByTarget(ctx, a.ID, model.TargetAnswer); err != nil {
				return err
			}
			if err := recordInteraction(ctx, tx, userID, a.AuthorID, model.ActionDelete, a.ID, model.TargetAnswer); err != nil {
				return err
			}
		}
		if err := tx.Answers().DeleteByQuestion(ctx, id); err != nil {
			return err
		}

		// Votes on the question itself
		if err := tx.Votes().DeleteByTarget(ctx, id, model.TargetQuestion); err != nil {
			return err
		}

		// Tag links — each linked tag loses one from its question count
		tags, err := tx.Tags().ListForQuestion(ctx, id)
		if err != nil {
			return err
		}
		for _, tag := range tags {
			if err := tx.Tags().AdjustQuestionCount(ctx, tag.ID, -1); err != nil {
				return err
			}
			if err := tx.Tags().DeleteLink(ctx, tag.ID, id); err != nil {
				return err
			}
		}

		// Bookmarks pointing at the question
		if err := tx.Collections().DeleteByQuestion(ctx, id); err != nil {
			return err
		}

		if err := tx.Questions().Delete(ctx, id); err != nil {
			return err
		}

		return recordInteraction(ctx, tx, userID, question.AuthorID, model.ActionDelete, id, model.TargetQuestion)
	})
	if err != nil {
		s.logger.Error("failed to delete question",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("question deleted", slog.String("id", id), slog.String("userID", userID))
	return nil
}

// List returns a page of questions with tags populated, plus the total.
func (s *QuestionService) List(ctx context.Context, opts repository.ListOptions) ([]model.Question, int, error) {
	opts = clampListOptions(opts)
	questions, total, err := s.store.Questions().List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	if err := s.populateAll(ctx, questions); err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// ListByAuthor returns a user's questions, newest first.
func (s *QuestionService) ListByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Question, int, error) {
	opts = clampListOptions(opts)
	questions, total, err := s.store.Questions().ListByAuthor(ctx, authorID, opts)
	if err != nil {
		return nil, 0, err
	}
	if err := s.populateAll(ctx, questions); err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// ListByTag returns the questions carrying one tag, plus the tag itself.
func (s *QuestionService) ListByTag(ctx context.Context, tagID string, opts repository.ListOptions) (*model.Tag, []model.Question, int, error) {
	tag, err := s.store.Tags().GetByID(ctx, tagID)
	if err != nil {
		return nil, nil, 0, err
	}

	opts = clampListOptions(opts)
	questions, total, err := s.store.Questions().ListByTag(ctx, tagID, opts)
	if err != nil {
		return nil, nil, 0, err
	}
	if err := s.populateAll(ctx, questions); err != nil {
		return nil, nil, 0, err
	}
	return tag, questions, total, nil
}

func (s *QuestionService) populate(ctx context.Context, q *model.Question) error {
	tags, err := s.store.Tags().ListForQuestion(ctx, q.ID)
	if err != nil {
		return err
	}
	q.Tags = tags

	author, err := s.store.Users().GetByID(ctx, q.AuthorID)
	if err != nil {
		return err
	}
	q.Author = author
	return nil
}

func (s *QuestionService) populateAll(ctx context.Context, questions []model.Question) error {
	for i := range questions {
		if err := s.populate(ctx, &questions[i]); err != nil {
			return err
		}
	}
	return nil
}

// normalizeTagNames trims, drops empties, dedupes case-insensitively
// (keeping the first spelling), and enforces the tag limits.
func normalizeTagNames(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if len(name) > MaxTagNameLength {
			return nil, apperror.ValidationFailed("tags",
				fmt.Sprintf("tag %q must be %d characters or less", name, MaxTagNameLength))
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, apperror.ValidationFailed("tags", "at least one tag is required")
	}
	if len(out) > MaxTagsPerPost {
		return nil, apperror.ValidationFailed("tags",
			fmt.Sprintf("at most %d tags are allowed", MaxTagsPerPost))
	}
	return out, nil
}

// diffTags splits the requested names against the current tags:
// names with no current tag are additions, current tags with no requested
// name are removals. Matching is case-insensitive.
func diffTags(current []model.Tag, requested []string) (toAdd []string, toRemove []model.Tag) {
	currentByKey := make(map[string]model.Tag, len(current))
	for _, tag := range current {
		currentByKey[strings.ToLower(tag.Name)] = tag
	}
	requestedKeys := make(map[string]bool, len(requested))
	for _, name := range requested {
		requestedKeys[strings.ToLower(name)] = true
	}

	for _, name := range requested {
		if _, ok := currentByKey[strings.ToLower(name)]; !ok {
			toAdd = append(toAdd, name)
		}
	}
	for _, tag := range current {
		if !requestedKeys[strings.ToLower(tag.Name)] {
			toRemove = append(toRemove, tag)
		}
	}
	return toAdd, toRemove
}

// clampListOptions enforces sane pagination bounds for every listing.
func clampListOptions(opts repository.ListOptions) repository.ListOptions {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Limit > MaxListLimit {
		opts.Limit = MaxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}
