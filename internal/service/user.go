package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

// Badge thresholds per criterion, in bronze/silver/gold order.
// Crossing a threshold earns the badge; each criterion can contribute at
// most one badge per tier.
var badgeLevels = map[string][3]int{
	"questions":        {10, 50, 100},
	"answers":          {10, 50, 100},
	"question_upvotes": {10, 50, 100},
	"answer_upvotes":   {10, 50, 100},
	"views":            {1000, 10000, 100000},
}

// UserService handles profiles, the community listing, and the per-user
// stats/badges aggregation.
type UserService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewUserService(store repository.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// GetByID returns one user's public profile.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.store.Users().GetByID(ctx, id)
}

// List returns a page of community members plus the total.
func (s *UserService) List(ctx context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	opts = clampListOptions(opts)
	return s.store.Users().List(ctx, opts)
}

// UpdateProfile lets a user edit their own profile fields. Reputation is
// not among them — only the interaction engine moves it.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, bio, image, location, portfolio string) (*model.User, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required to edit a profile")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Bio = strings.TrimSpace(bio)
	user.Image = strings.TrimSpace(image)
	user.Location = strings.TrimSpace(location)
	user.Portfolio = strings.TrimSpace(portfolio)

	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("userID", userID))
	return user, nil
}

// Stats aggregates a user's activity and derives their badge counts.
func (s *UserService) Stats(ctx context.Context, userID string) (*model.UserStats, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}

	qStats, err := s.store.Questions().StatsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	aStats, err := s.store.Answers().StatsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.UserStats{
		TotalQuestions:  qStats.Count,
		TotalAnswers:    aStats.Count,
		QuestionUpvotes: qStats.Upvotes,
		AnswerUpvotes:   aStats.Upvotes,
		TotalViews:      qStats.Views,
	}
	stats.Badges = assignBadges(map[string]int{
		"questions":        stats.TotalQuestions,
		"answers":          stats.TotalAnswers,
		"question_upvotes": stats.QuestionUpvotes,
		"answer_upvotes":   stats.AnswerUpvotes,
		"views":            stats.TotalViews,
	})
	return stats, nil
}

// TopTags returns the tags a user asks about most, with usage counts.
func (s *UserService) TopTags(ctx context.Context, userID string, limit int) ([]repository.TagCount, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.Tags().TopForAuthor(ctx, userID, limit)
}

// assignBadges counts, per tier, how many criteria the user has crossed the
// threshold for.
func assignBadges(counts map[string]int) model.BadgeCounts {
	var badges model.BadgeCounts
	for criterion, value := range counts {
		levels, ok := badgeLevels[criterion]
		if !ok {
			continue
		}
		if value >= levels[0] {
			badges.Bronze++
		}
		if value >= levels[1] {
			badges.Silver++
		}
		if value >= levels[2] {
			badges.Gold++
		}
	}
	return badges
}
