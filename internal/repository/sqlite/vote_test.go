package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
)

func castTestVote(t *testing.T, db *DB, authorID, targetID string, voteType model.VoteType) *model.Vote {
	t.Helper()
	v := &model.Vote{
		AuthorID:   authorID,
		TargetID:   targetID,
		TargetType: model.TargetQuestion,
		VoteType:   voteType,
	}
	if err := db.Votes().Create(context.Background(), v); err != nil {
		t.Fatalf("failed to create test vote: %v", err)
	}
	return v
}

func TestVoteGet_NotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "novoter")
	q := createTestQuestion(t, db, user.ID, "unvoted question")

	// The service layer branches the state machine on this NotFound.
	_, err := db.Votes().Get(context.Background(), user.ID, q.ID, model.TargetQuestion)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestVoteCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "voter")
	q := createTestQuestion(t, db, user.ID, "voted question")

	created := castTestVote(t, db, user.ID, q.ID, model.Upvote)
	if created.ID == "" {
		t.Error("Create() did not set vote.ID")
	}

	found, err := db.Votes().Get(context.Background(), user.ID, q.ID, model.TargetQuestion)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found.VoteType != model.Upvote {
		t.Errorf("VoteType = %q, want %q", found.VoteType, model.Upvote)
	}
}

func TestVoteCreate_SecondVoteOnSameTarget(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "doublevoter")
	q := createTestQuestion(t, db, user.ID, "contested question")

	castTestVote(t, db, user.ID, q.ID, model.Upvote)

	// Single-vote invariant: the unique index rejects a second row even with
	// the opposite direction.
	second := &model.Vote{
		AuthorID:   user.ID,
		TargetID:   q.ID,
		TargetType: model.TargetQuestion,
		VoteType:   model.Downvote,
	}
	err := db.Votes().Create(context.Background(), second)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict", err)
	}
}

func TestVoteCreate_SameTargetIDDifferentType(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "crossvoter")
	q := createTestQuestion(t, db, user.ID, "cross-type question")

	castTestVote(t, db, user.ID, q.ID, model.Upvote)

	// Same ID value but answer target — distinct key, must not collide.
	answerVote := &model.Vote{
		AuthorID:   user.ID,
		TargetID:   q.ID,
		TargetType: model.TargetAnswer,
		VoteType:   model.Upvote,
	}
	if err := db.Votes().Create(context.Background(), answerVote); err != nil {
		t.Fatalf("Create() for answer target error = %v", err)
	}
}

func TestVoteUpdateType(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "switcher")
	q := createTestQuestion(t, db, user.ID, "switched question")
	v := castTestVote(t, db, user.ID, q.ID, model.Upvote)

	if err := db.Votes().UpdateType(context.Background(), v.ID, model.Downvote); err != nil {
		t.Fatalf("UpdateType() error = %v", err)
	}

	found, err := db.Votes().Get(context.Background(), user.ID, q.ID, model.TargetQuestion)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found.VoteType != model.Downvote {
		t.Errorf("VoteType = %q, want %q", found.VoteType, model.Downvote)
	}
}

func TestVoteDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "unvoter")
	q := createTestQuestion(t, db, user.ID, "unvoted-again question")
	v := castTestVote(t, db, user.ID, q.ID, model.Upvote)

	if err := db.Votes().Delete(context.Background(), v.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.Votes().Get(context.Background(), user.ID, q.ID, model.TargetQuestion)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
}

func TestVoteDeleteByTarget(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alicevotes")
	bob := createTestUser(t, db, "bobvotes")
	q := createTestQuestion(t, db, alice.ID, "mass-unvoted question")

	castTestVote(t, db, alice.ID, q.ID, model.Upvote)
	castTestVote(t, db, bob.ID, q.ID, model.Downvote)

	ctx := context.Background()
	if err := db.Votes().DeleteByTarget(ctx, q.ID, model.TargetQuestion); err != nil {
		t.Fatalf("DeleteByTarget() error = %v", err)
	}

	up, err := db.Votes().CountByTarget(ctx, q.ID, model.TargetQuestion, model.Upvote)
	if err != nil {
		t.Fatalf("CountByTarget() error = %v", err)
	}
	down, err := db.Votes().CountByTarget(ctx, q.ID, model.TargetQuestion, model.Downvote)
	if err != nil {
		t.Fatalf("CountByTarget() error = %v", err)
	}
	if up != 0 || down != 0 {
		t.Errorf("counts after DeleteByTarget = %d/%d, want 0/0", up, down)
	}
}
