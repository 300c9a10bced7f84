package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSearchService(t *testing.T, env *testEnv) *SearchService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSearchService(env.store, logger)
}

func TestGlobalSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	search := newTestSearchService(t, env)
	author := env.createUser(t, "gopher")

	q, err := env.questions.Create(ctx, author.ID, "how do goroutines leak", "body", []string{"goroutines"})
	require.NoError(t, err)
	_, err = env.answers.Create(ctx, author.ID, q.ID, longAnswer("goroutines leak when nobody reads the channel."))
	require.NoError(t, err)

	results, err := search.Global(ctx, "goroutines", "")
	require.NoError(t, err)

	kinds := map[string]bool{}
	for _, r := range results {
		kinds[r.Type] = true
	}
	assert.True(t, kinds[SearchTypeQuestion])
	assert.True(t, kinds[SearchTypeAnswer])
	assert.True(t, kinds[SearchTypeTag])
}

func TestGlobalSearch_TypeFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	search := newTestSearchService(t, env)
	author := env.createUser(t, "gopher")

	_, err := env.questions.Create(ctx, author.ID, "generics in go", "body", []string{"generics"})
	require.NoError(t, err)

	results, err := search.Global(ctx, "generics", SearchTypeTag)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, SearchTypeTag, results[0].Type)
	assert.Equal(t, "generics", results[0].Title)

	// An unrecognized filter matches nothing instead of erroring.
	results, err = search.Global(ctx, "generics", "bogus")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGlobalSearch_EmptyQuery(t *testing.T) {
	env := newTestEnv(t)
	search := newTestSearchService(t, env)

	results, err := search.Global(context.Background(), "   ", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGlobalSearch_AnswerHitsPointAtQuestion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	search := newTestSearchService(t, env)
	author := env.createUser(t, "gopher")

	q, err := env.questions.Create(ctx, author.ID, "context cancellation", "body", []string{"context"})
	require.NoError(t, err)
	_, err = env.answers.Create(ctx, author.ID, q.ID, longAnswer("always defer cancel after context.WithTimeout."))
	require.NoError(t, err)

	results, err := search.Global(ctx, "WithTimeout", SearchTypeAnswer)
	require.NoError(t, err)
	require.Len(t, results, 1)
	// Answer hits navigate to the question page, so they carry the question ID.
	assert.Equal(t, q.ID, results[0].ID)
	assert.True(t, strings.Contains(results[0].Title, "WithTimeout"))
}

func TestSnippet(t *testing.T) {
	short := "a short answer"
	assert.Equal(t, short, snippet(short))

	long := strings.Repeat("x", 200)
	got := snippet(long)
	assert.Len(t, []rune(got), 81)
	assert.True(t, strings.HasSuffix(got, "…"))
}
