package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
	"github.com/sakif/devforum/internal/repository/sqlite"
)

// Service tests run against the real store on an in-memory SQLite database
// rather than a hand-written mock. The Store interface spans eight
// repositories and the interesting behaviour here is exactly the
// cross-repository consistency (counters vs rows, links vs counts,
// reputation vs interactions) — a mock would have to reimplement the
// invariants under test. In-memory SQLite is as fast as a map and the
// driver is pure Go.

// testEnv bundles the store and every service wired over it.
type testEnv struct {
	store       repository.Store
	questions   *QuestionService
	answers     *AnswerService
	votes       *VoteService
	collections *CollectionService
	users       *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err, "opening in-memory store")
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		store:       db,
		questions:   NewQuestionService(db, logger),
		answers:     NewAnswerService(db, logger),
		votes:       NewVoteService(db, logger),
		collections: NewCollectionService(db, logger),
		users:       NewUserService(db, logger),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "User " + username,
		Username: username,
		Email:    username + "@example.com",
	}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

// reputation re-reads a user's current reputation from the store.
func (e *testEnv) reputation(t *testing.T, userID string) int {
	t.Helper()
	user, err := e.store.Users().GetByID(context.Background(), userID)
	require.NoError(t, err)
	return user.Reputation
}

// longAnswer pads content past the minimum answer length.
func longAnswer(lead string) string {
	filler := " This elaborates on the approach in enough detail to clear the minimum answer length requirement."
	out := lead
	for len(out) < MinAnswerLength {
		out += filler
	}
	return out
}
