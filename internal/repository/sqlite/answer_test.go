package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

func createTestAnswer(t *testing.T, db *DB, questionID, authorID, content string) *model.Answer {
	t.Helper()
	a := &model.Answer{
		QuestionID: questionID,
		AuthorID:   authorID,
		Content:    content,
	}
	if err := db.Answers().Create(context.Background(), a); err != nil {
		t.Fatalf("failed to create test answer: %v", err)
	}
	return a
}

func TestAnswerCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "answerer")
	q := createTestQuestion(t, db, user.ID, "answered question")

	a := createTestAnswer(t, db, q.ID, user.ID, "use a buffered channel")
	if a.ID == "" {
		t.Error("Create() did not set answer.ID")
	}

	found, err := db.Answers().GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Content != "use a buffered channel" {
		t.Errorf("Content = %q, want %q", found.Content, "use a buffered channel")
	}
	if found.QuestionID != q.ID {
		t.Errorf("QuestionID = %q, want %q", found.QuestionID, q.ID)
	}
}

func TestAnswerGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Answers().GetByID(context.Background(), "no-such-answer")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestAnswerListByQuestion_PopularOrder(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "rankanswerer")
	q := createTestQuestion(t, db, user.ID, "ranked question")

	ctx := context.Background()
	weak := createTestAnswer(t, db, q.ID, user.ID, "a mediocre answer")
	strong := createTestAnswer(t, db, q.ID, user.ID, "a great answer")
	if err := db.Answers().AdjustVoteCount(ctx, strong.ID, model.Upvote, 5); err != nil {
		t.Fatalf("AdjustVoteCount() error = %v", err)
	}

	answers, total, err := db.Answers().ListByQuestion(ctx, q.ID, repository.ListOptions{Filter: "popular"})
	if err != nil {
		t.Fatalf("ListByQuestion() error = %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if answers[0].ID != strong.ID {
		t.Errorf("answers[0].ID = %q, want the upvoted answer", answers[0].ID)
	}
	_ = weak
}

func TestAnswerDeleteByQuestion(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cascadeuser")
	q := createTestQuestion(t, db, user.ID, "cascaded question")
	createTestAnswer(t, db, q.ID, user.ID, "first answer")
	createTestAnswer(t, db, q.ID, user.ID, "second answer")

	ctx := context.Background()
	if err := db.Answers().DeleteByQuestion(ctx, q.ID); err != nil {
		t.Fatalf("DeleteByQuestion() error = %v", err)
	}

	remaining, err := db.Answers().ByQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("ByQuestion() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("len(remaining) = %d, want 0", len(remaining))
	}
}

func TestAnswerSearch(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "searchanswerer")
	q := createTestQuestion(t, db, user.ID, "searchable question")
	createTestAnswer(t, db, q.ID, user.ID, "reach for errgroup when fanning out")
	createTestAnswer(t, db, q.ID, user.ID, "plain mutexes are fine here")

	answers, err := db.Answers().Search(context.Background(), "errgroup", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("len(answers) = %d, want 1", len(answers))
	}
}

func TestAnswerStatsByAuthor(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "statanswerer")
	q := createTestQuestion(t, db, user.ID, "stats question")

	ctx := context.Background()
	a1 := createTestAnswer(t, db, q.ID, user.ID, "first")
	createTestAnswer(t, db, q.ID, user.ID, "second")
	if err := db.Answers().AdjustVoteCount(ctx, a1.ID, model.Upvote, 4); err != nil {
		t.Fatal(err)
	}

	stats, err := db.Answers().StatsByAuthor(ctx, user.ID)
	if err != nil {
		t.Fatalf("StatsByAuthor() error = %v", err)
	}
	if stats.Count != 2 {
		t.Errorf("Count = %d, want 2", stats.Count)
	}
	if stats.Upvotes != 4 {
		t.Errorf("Upvotes = %d, want 4", stats.Upvotes)
	}
}
