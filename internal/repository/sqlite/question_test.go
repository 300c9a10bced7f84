package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestQuestionCreate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "asker")

	q := &model.Question{
		Title:    "How do slices grow?",
		Content:  "I appended to a slice and its capacity doubled. Why?",
		AuthorID: user.ID,
	}
	if err := db.Questions().Create(context.Background(), q); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Verify the question was modified in-place (pointer receiver)
	if q.ID == "" {
		t.Error("Create() did not set question.ID")
	}
	if q.CreatedAt.IsZero() {
		t.Error("Create() did not set question.CreatedAt")
	}

	found, err := db.Questions().GetByID(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != q.Title {
		t.Errorf("Title = %q, want %q", found.Title, q.Title)
	}
	if found.Upvotes != 0 || found.Downvotes != 0 || found.AnswerCount != 0 || found.Views != 0 {
		t.Errorf("counters not zero on create: %+v", found)
	}
}

func TestQuestionCreate_DuplicateTitle(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "dupeasker")
	createTestQuestion(t, db, user.ID, "unique title")

	dupe := &model.Question{Title: "unique title", Content: "same title again", AuthorID: user.ID}
	err := db.Questions().Create(context.Background(), dupe)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict", err)
	}
}

func TestQuestionGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Questions().GetByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// UPDATE / DELETE TESTS
// =========================================================================

func TestQuestionUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "editor")
	q := createTestQuestion(t, db, user.ID, "old title")

	q.Title = "new title"
	q.Content = "clarified the question body"
	if err := db.Questions().Update(context.Background(), q); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Questions().GetByID(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "new title" {
		t.Errorf("Title = %q, want %q", found.Title, "new title")
	}
}

func TestQuestionUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.Question{ID: "no-such-question", Title: "x", Content: "y"}
	err := db.Questions().Update(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestQuestionDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "deleter")
	q := createTestQuestion(t, db, user.ID, "to be removed")

	if err := db.Questions().Delete(context.Background(), q.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.Questions().GetByID(context.Background(), q.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// COUNTER TESTS
// =========================================================================

func TestQuestionIncrementViews(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "viewer")
	q := createTestQuestion(t, db, user.ID, "watched question")

	for want := 1; want <= 3; want++ {
		got, err := db.Questions().IncrementViews(context.Background(), q.ID)
		if err != nil {
			t.Fatalf("IncrementViews() error = %v", err)
		}
		if got != want {
			t.Errorf("IncrementViews() = %d, want %d", got, want)
		}
	}
}

func TestQuestionAdjustVoteCount(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "votecounter")
	q := createTestQuestion(t, db, user.ID, "counted question")

	ctx := context.Background()
	qs := db.Questions()
	if err := qs.AdjustVoteCount(ctx, q.ID, model.Upvote, 1); err != nil {
		t.Fatalf("AdjustVoteCount(up, +1) error = %v", err)
	}
	if err := qs.AdjustVoteCount(ctx, q.ID, model.Downvote, 1); err != nil {
		t.Fatalf("AdjustVoteCount(down, +1) error = %v", err)
	}
	if err := qs.AdjustVoteCount(ctx, q.ID, model.Downvote, -1); err != nil {
		t.Fatalf("AdjustVoteCount(down, -1) error = %v", err)
	}

	found, err := qs.GetByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Upvotes != 1 {
		t.Errorf("Upvotes = %d, want 1", found.Upvotes)
	}
	if found.Downvotes != 0 {
		t.Errorf("Downvotes = %d, want 0", found.Downvotes)
	}
}

// =========================================================================
// LISTING TESTS
// =========================================================================

func TestQuestionList_FilterUnanswered(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "lister")
	answered := createTestQuestion(t, db, user.ID, "answered one")
	createTestQuestion(t, db, user.ID, "unanswered one")

	ctx := context.Background()
	if err := db.Questions().AdjustAnswerCount(ctx, answered.ID, 1); err != nil {
		t.Fatalf("AdjustAnswerCount() error = %v", err)
	}

	questions, total, err := db.Questions().List(ctx, repository.ListOptions{Filter: "unanswered"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	if questions[0].Title != "unanswered one" {
		t.Errorf("Title = %q, want %q", questions[0].Title, "unanswered one")
	}
}

func TestQuestionList_SearchAndPagination(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "searcher")
	createTestQuestion(t, db, user.ID, "golang generics basics")
	createTestQuestion(t, db, user.ID, "golang channels deadlock")
	createTestQuestion(t, db, user.ID, "css flexbox centering")

	questions, total, err := db.Questions().List(context.Background(), repository.ListOptions{
		Query: "golang",
		Limit: 1,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	// The total counts all matches even when the page is smaller
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(questions) != 1 {
		t.Errorf("len(questions) = %d, want 1", len(questions))
	}
}

func TestQuestionListByTag(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "tagger")
	tagged := createTestQuestion(t, db, user.ID, "tagged question")
	createTestQuestion(t, db, user.ID, "untagged question")

	ctx := context.Background()
	tag, err := db.Tags().Upsert(ctx, "go")
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := db.Tags().CreateLink(ctx, tag.ID, tagged.ID); err != nil {
		t.Fatalf("CreateLink() error = %v", err)
	}

	questions, total, err := db.Questions().ListByTag(ctx, tag.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListByTag() error = %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	if questions[0].ID != tagged.ID {
		t.Errorf("question ID = %q, want %q", questions[0].ID, tagged.ID)
	}
}

func TestQuestionStatsByAuthor(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "statuser")
	q1 := createTestQuestion(t, db, user.ID, "stat question one")
	q2 := createTestQuestion(t, db, user.ID, "stat question two")

	ctx := context.Background()
	qs := db.Questions()
	if err := qs.AdjustVoteCount(ctx, q1.ID, model.Upvote, 3); err != nil {
		t.Fatal(err)
	}
	if err := qs.AdjustVoteCount(ctx, q2.ID, model.Upvote, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := qs.IncrementViews(ctx, q1.ID); err != nil {
		t.Fatal(err)
	}

	stats, err := qs.StatsByAuthor(ctx, user.ID)
	if err != nil {
		t.Fatalf("StatsByAuthor() error = %v", err)
	}
	if stats.Count != 2 {
		t.Errorf("Count = %d, want 2", stats.Count)
	}
	if stats.Upvotes != 5 {
		t.Errorf("Upvotes = %d, want 5", stats.Upvotes)
	}
	if stats.Views != 1 {
		t.Errorf("Views = %d, want 1", stats.Views)
	}
}
