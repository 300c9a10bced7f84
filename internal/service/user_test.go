package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
)

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "editor")

	updated, err := env.users.UpdateProfile(ctx, user.ID, "New Name", "a bio", "", "Dhaka", "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "a bio", updated.Bio)
	assert.Equal(t, "Dhaka", updated.Location)
}

func TestUpdateProfile_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.UpdateProfile(context.Background(), "", "Name", "", "", "", "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")
	voter := env.createUser(t, "voter")

	q, err := env.questions.Create(ctx, author.ID, "stats question", "body", []string{"go"})
	require.NoError(t, err)
	_, err = env.answers.Create(ctx, author.ID, q.ID, longAnswer("self answer."))
	require.NoError(t, err)
	_, err = env.votes.Cast(ctx, voter.ID, q.ID, model.TargetQuestion, model.Upvote)
	require.NoError(t, err)
	_, err = env.questions.IncrementViews(ctx, q.ID)
	require.NoError(t, err)

	stats, err := env.users.Stats(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalQuestions)
	assert.Equal(t, 1, stats.TotalAnswers)
	assert.Equal(t, 1, stats.QuestionUpvotes)
	assert.Equal(t, 1, stats.TotalViews)
	// Nothing crosses a badge threshold yet
	assert.Equal(t, model.BadgeCounts{}, stats.Badges)
}

func TestAssignBadges(t *testing.T) {
	cases := []struct {
		name   string
		counts map[string]int
		want   model.BadgeCounts
	}{
		{
			name:   "below every threshold",
			counts: map[string]int{"questions": 9, "views": 999},
			want:   model.BadgeCounts{},
		},
		{
			name:   "bronze for questions",
			counts: map[string]int{"questions": 10},
			want:   model.BadgeCounts{Bronze: 1},
		},
		{
			name:   "gold implies silver and bronze",
			counts: map[string]int{"answers": 100},
			want:   model.BadgeCounts{Gold: 1, Silver: 1, Bronze: 1},
		},
		{
			name:   "mixed tiers across criteria",
			counts: map[string]int{"questions": 50, "views": 1000, "answer_upvotes": 7},
			want:   model.BadgeCounts{Silver: 1, Bronze: 2},
		},
		{
			name:   "unknown criterion ignored",
			counts: map[string]int{"bogus": 1000000},
			want:   model.BadgeCounts{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, assignBadges(tc.counts))
		})
	}
}

func TestTopTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")

	_, err := env.questions.Create(ctx, author.ID, "first", "body", []string{"go", "sql"})
	require.NoError(t, err)
	_, err = env.questions.Create(ctx, author.ID, "second", "body", []string{"go"})
	require.NoError(t, err)

	top, err := env.users.TopTags(ctx, author.ID, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "go", top[0].Tag.Name)
	assert.Equal(t, 2, top[0].Count)
}
