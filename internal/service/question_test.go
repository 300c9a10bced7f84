package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

func tagNames(tags []model.Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}

func (e *testEnv) tagByName(t *testing.T, name string) *model.Tag {
	t.Helper()
	// Upsert bumps the count, so find the tag through the listing instead.
	tags, _, err := e.store.Tags().List(context.Background(), repository.ListOptions{Limit: 100})
	require.NoError(t, err)
	for i := range tags {
		if tags[i].Name == name {
			return &tags[i]
		}
	}
	t.Fatalf("tag %q not found", name)
	return nil
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestQuestionCreate_TagsAndReputation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "asker")

	q, err := env.questions.Create(ctx, author.ID, "How to test Go code?", "I want table-driven tests.", []string{"go", "testing"})
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "testing"}, tagNames(q.Tags))
	assert.Equal(t, 1, env.tagByName(t, "go").Questions)
	assert.Equal(t, 1, env.tagByName(t, "testing").Questions)
	assert.Equal(t, 5, env.reputation(t, author.ID), "posting a question awards +5")
}

func TestQuestionCreate_DuplicateTagCasingsCollapse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "asker")

	q, err := env.questions.Create(ctx, author.ID, "casing question", "body", []string{"React", "react", "REACT"})
	require.NoError(t, err)

	// One tag, first spelling kept
	require.Len(t, q.Tags, 1)
	assert.Equal(t, "React", q.Tags[0].Name)
	assert.Equal(t, 1, env.tagByName(t, "React").Questions)
}

func TestQuestionCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "asker")

	cases := []struct {
		name  string
		title string
		tags  []string
	}{
		{"empty title", "", []string{"go"}},
		{"no tags", "valid title", nil},
		{"too many tags", "valid title", []string{"a", "b", "c", "d", "e", "f"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.questions.Create(ctx, author.ID, tc.title, "body", tc.tags)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestQuestionCreate_RollsBackOnDuplicateTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "asker")

	_, err := env.questions.Create(ctx, author.ID, "one of a kind", "body", []string{"go"})
	require.NoError(t, err)

	_, err = env.questions.Create(ctx, author.ID, "one of a kind", "body", []string{"rust"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// The failed create must not have leaked a tag or reputation
	assert.Equal(t, 5, env.reputation(t, author.ID), "only the first post awards points")
}

// =========================================================================
// EDIT / TAG RECONCILIATION TESTS
// =========================================================================

func TestQuestionEdit_ReconcilesTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "asker")

	q, err := env.questions.Create(ctx, author.ID, "tag shuffle", "body", []string{"react", "js"})
	require.NoError(t, err)

	edited, err := env.questions.Edit(ctx, author.ID, q.ID, "tag shuffle", "body", []string{"js", "go"})
	require.NoError(t, err)

	assert.Equal(t, []string{"js", "go"}, tagNames(edited.Tags))
	assert.Equal(t, 0, env.tagByName(t, "react").Questions, "removed tag count drops to zero but the tag row stays")
	assert.Equal(t, 1, env.tagByName(t, "js").Questions, "unchanged tag count must not move")
	assert.Equal(t, 1, env.tagByName(t, "go").Questions)
}

func TestQuestionEdit_CaseInsensitiveKeep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "asker")

	q, err := env.questions.Create(ctx, author.ID, "case keep", "body", []string{"React"})
	require.NoError(t, err)

	// "react" matches "React" case-insensitively — nothing is added or removed
	edited, err := env.questions.Edit(ctx, author.ID, q.ID, "case keep", "body", []string{"react"})
	require.NoError(t, err)

	assert.Equal(t, []string{"React"}, tagNames(edited.Tags))
	assert.Equal(t, 1, env.tagByName(t, "React").Questions)
}

func TestQuestionEdit_OnlyAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "asker")
	stranger := env.createUser(t, "stranger")

	q, err := env.questions.Create(ctx, author.ID, "protected question", "body", []string{"go"})
	require.NoError(t, err)

	_, err = env.questions.Edit(ctx, stranger.ID, q.ID, "hijacked", "body", []string{"go"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	got, err := env.store.Questions().GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "protected question", got.Title)
}

// =========================================================================
// DELETE CASCADE TESTS
// =========================================================================

func TestQuestionDelete_Cascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "asker")
	voter := env.createUser(t, "voter")
	saver := env.createUser(t, "saver")

	q, err := env.questions.Create(ctx, author.ID, "doomed question", "body", []string{"go", "sqlite"})
	require.NoError(t, err)
	a, err := env.answers.Create(ctx, voter.ID, q.ID, longAnswer("an answer."))
	require.NoError(t, err)

	_, err = env.votes.Cast(ctx, voter.ID, q.ID, model.TargetQuestion, model.Upvote)
	require.NoError(t, err)
	_, err = env.votes.Cast(ctx, saver.ID, a.ID, model.TargetAnswer, model.Upvote)
	require.NoError(t, err)
	_, err = env.collections.Toggle(ctx, saver.ID, q.ID)
	require.NoError(t, err)

	require.NoError(t, env.questions.Delete(ctx, author.ID, q.ID))

	// The question, its answers, every vote, every link, every bookmark: gone
	_, err = env.store.Questions().GetByID(ctx, q.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = env.store.Answers().GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = env.store.Votes().Get(ctx, voter.ID, q.ID, model.TargetQuestion)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = env.store.Votes().Get(ctx, saver.ID, a.ID, model.TargetAnswer)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	saved, err := env.collections.IsSaved(ctx, saver.ID, q.ID)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, 0, env.tagByName(t, "go").Questions)
	assert.Equal(t, 0, env.tagByName(t, "sqlite").Questions)

	// The author loses the question-post points; the answer author loses the
	// answer-post points. Vote reputation is not reversed.
	// author: +5 post, +10 received upvote, -5 delete.
	assert.Equal(t, 10, env.reputation(t, author.ID))
	// voter: +10 post answer, +2 upvote cast, +10 received upvote, -10 delete.
	assert.Equal(t, 12, env.reputation(t, voter.ID))
}

func TestQuestionDelete_OnlyAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "asker")
	stranger := env.createUser(t, "stranger")

	q, err := env.questions.Create(ctx, author.ID, "sturdy question", "body", []string{"go"})
	require.NoError(t, err)

	err = env.questions.Delete(ctx, stranger.ID, q.ID)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

// =========================================================================
// END-TO-END SCENARIO
// =========================================================================

// TestQuestionLifecycle walks the full post → upvote → retag → delete arc
// and checks every cross-entity invariant along the way.
func TestQuestionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userA := env.createUser(t, "usera")
	userB := env.createUser(t, "userb")

	// A posts Q1 with tags react, js
	q1, err := env.questions.Create(ctx, userA.ID, "lifecycle question", "body", []string{"react", "js"})
	require.NoError(t, err)
	assert.Equal(t, 1, env.tagByName(t, "react").Questions)
	assert.Equal(t, 1, env.tagByName(t, "js").Questions)
	require.Len(t, q1.Tags, 2)
	repA := env.reputation(t, userA.ID)

	// B upvotes Q1
	_, err = env.votes.Cast(ctx, userB.ID, q1.ID, model.TargetQuestion, model.Upvote)
	require.NoError(t, err)

	got, err := env.store.Questions().GetByID(ctx, q1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	_, err = env.store.Votes().Get(ctx, userB.ID, q1.ID, model.TargetQuestion)
	require.NoError(t, err, "a Vote(B, Q1, upvote) record must exist")
	assert.Equal(t, repA+10, env.reputation(t, userA.ID))
	assert.Equal(t, 2, env.reputation(t, userB.ID))

	// A edits Q1 tags to js, go
	edited, err := env.questions.Edit(ctx, userA.ID, q1.ID, "lifecycle question", "body", []string{"js", "go"})
	require.NoError(t, err)
	assert.Equal(t, 0, env.tagByName(t, "react").Questions)
	assert.Equal(t, 1, env.tagByName(t, "go").Questions)
	assert.Equal(t, []string{"js", "go"}, tagNames(edited.Tags))

	// A deletes Q1
	require.NoError(t, env.questions.Delete(ctx, userA.ID, q1.ID))
	_, err = env.store.Votes().Get(ctx, userB.ID, q1.ID, model.TargetQuestion)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, 0, env.tagByName(t, "js").Questions)
	assert.Equal(t, 0, env.tagByName(t, "go").Questions)
}
