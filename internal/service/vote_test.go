package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
)

// =========================================================================
// STATE MACHINE TESTS
// =========================================================================

func TestCast_NoVoteToUpvote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")
	voter := env.createUser(t, "voter")

	q, err := env.questions.Create(ctx, author.ID, "voting basics", "how does voting work?", []string{"meta"})
	require.NoError(t, err)

	result, err := env.votes.Cast(ctx, voter.ID, q.ID, model.TargetQuestion, model.Upvote)
	require.NoError(t, err)
	assert.True(t, result.Status.HasUpvoted)
	assert.False(t, result.Status.HasDownvoted)

	got, err := env.store.Questions().GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, 0, got.Downvotes)
}

func TestCast_SameTypeTwiceUnvotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")
	voter := env.createUser(t, "voter")

	q, err := env.questions.Create(ctx, author.ID, "toggle question", "body", []string{"meta"})
	require.NoError(t, err)

	_, err = env.votes.Cast(ctx, voter.ID, q.ID, model.TargetQuestion, model.Upvote)
	require.NoError(t, err)

	// Second identical cast returns to NoVote
	result, err := env.votes.Cast(ctx, voter.ID, q.ID, model.TargetQuestion, model.Upvote)
	require.NoError(t, err)
	assert.False(t, result.Status.HasUpvoted)
	assert.False(t, result.Status.HasDownvoted)

	got, err := env.store.Questions().GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes, "counter must return to its original value")

	_, err = env.store.Votes().Get(ctx, voter.ID, q.ID, model.TargetQuestion)
	assert.ErrorIs(t, err, apperror.ErrNotFound, "the vote row must be gone")
}

func TestCast_SwitchAdjustsBothCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")
	voter := env.createUser(t, "voter")

	q, err := env.questions.Create(ctx, author.ID, "switch question", "body", []string{"meta"})
	require.NoError(t, err)

	_, err = env.votes.Cast(ctx, voter.ID, q.ID, model.TargetQuestion, model.Upvote)
	require.NoError(t, err)

	result, err := env.votes.Cast(ctx, voter.ID, q.ID, model.TargetQuestion, model.Downvote)
	require.NoError(t, err)
	assert.True(t, result.Status.HasDownvoted)

	// Exactly one vote row remains, now a downvote
	vote, err := env.store.Votes().Get(ctx, voter.ID, q.ID, model.TargetQuestion)
	require.NoError(t, err)
	assert.Equal(t, model.Downvote, vote.VoteType)

	got, err := env.store.Questions().GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes, "upvote counter must drop on switch")
	assert.Equal(t, 1, got.Downvotes, "downvote counter must rise on switch")
}

func TestCast_AnswerTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")
	voter := env.createUser(t, "voter")

	q, err := env.questions.Create(ctx, author.ID, "answered question", "body", []string{"meta"})
	require.NoError(t, err)
	a, err := env.answers.Create(ctx, author.ID, q.ID, longAnswer("an answer."))
	require.NoError(t, err)

	_, err = env.votes.Cast(ctx, voter.ID, a.ID, model.TargetAnswer, model.Upvote)
	require.NoError(t, err)

	got, err := env.store.Answers().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
}

func TestCast_MissingTarget(t *testing.T) {
	env := newTestEnv(t)
	voter := env.createUser(t, "voter")

	_, err := env.votes.Cast(context.Background(), voter.ID, "no-such-question", model.TargetQuestion, model.Upvote)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCast_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	// Rejected before any read: the target doesn't even need to exist
	_, err := env.votes.Cast(context.Background(), "", "whatever", model.TargetQuestion, model.Upvote)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

// =========================================================================
// REPUTATION TESTS
// =========================================================================

func TestCast_UpvoteReputation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")
	voter := env.createUser(t, "voter")

	q, err := env.questions.Create(ctx, author.ID, "reputable question", "body", []string{"meta"})
	require.NoError(t, err)
	baseline := env.reputation(t, author.ID) // +5 from posting

	_, err = env.votes.Cast(ctx, voter.ID, q.ID, model.TargetQuestion, model.Upvote)
	require.NoError(t, err)

	assert.Equal(t, baseline+10, env.reputation(t, author.ID), "author gains +10 per upvote")
	assert.Equal(t, 2, env.reputation(t, voter.ID), "performer gains +2 per upvote")
}

func TestCast_DownvoteReputation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")
	voter := env.createUser(t, "voter")

	q, err := env.questions.Create(ctx, author.ID, "downvoted question", "body", []string{"meta"})
	require.NoError(t, err)
	baseline := env.reputation(t, author.ID)

	_, err = env.votes.Cast(ctx, voter.ID, q.ID, model.TargetQuestion, model.Downvote)
	require.NoError(t, err)

	assert.Equal(t, baseline-2, env.reputation(t, author.ID))
	assert.Equal(t, -1, env.reputation(t, voter.ID))
}

func TestCast_SelfUpvoteAppliesAuthorDeltaOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")

	q, err := env.questions.Create(ctx, author.ID, "self-voted question", "body", []string{"meta"})
	require.NoError(t, err)
	baseline := env.reputation(t, author.ID)

	_, err = env.votes.Cast(ctx, author.ID, q.ID, model.TargetQuestion, model.Upvote)
	require.NoError(t, err)

	// +10 exactly once — never +2 and +10
	assert.Equal(t, baseline+10, env.reputation(t, author.ID))
}

// =========================================================================
// STATUS TESTS
// =========================================================================

func TestStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")
	voter := env.createUser(t, "voter")

	q, err := env.questions.Create(ctx, author.ID, "status question", "body", []string{"meta"})
	require.NoError(t, err)

	status, err := env.votes.Status(ctx, voter.ID, q.ID, model.TargetQuestion)
	require.NoError(t, err)
	assert.False(t, status.HasUpvoted)
	assert.False(t, status.HasDownvoted)

	_, err = env.votes.Cast(ctx, voter.ID, q.ID, model.TargetQuestion, model.Downvote)
	require.NoError(t, err)

	status, err = env.votes.Status(ctx, voter.ID, q.ID, model.TargetQuestion)
	require.NoError(t, err)
	assert.False(t, status.HasUpvoted)
	assert.True(t, status.HasDownvoted)
}
