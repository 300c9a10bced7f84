package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

type questionRepo struct{ db *DB }

var _ repository.QuestionRepository = (*questionRepo)(nil)

const questionColumns = `id, title, content, author_id, upvotes, downvotes, answer_count, views, created_at, updated_at`

func scanQuestion(row interface{ Scan(...any) error }, q *model.Question) error {
	return row.Scan(
		&q.ID, &q.Title, &q.Content, &q.AuthorID, &q.Upvotes, &q.Downvotes,
		&q.AnswerCount, &q.Views, &q.CreatedAt, &q.UpdatedAt,
	)
}

// Create inserts a new question. Counters start at zero; tags are attached
// separately through the tag repository inside the same transaction.
// A duplicate title surfaces as ErrConflict (titles are unique).
func (r *questionRepo) Create(ctx context.Context, q *model.Question) error {
	now := time.Now()
	q.ID = xid.New().String()
	q.CreatedAt = now
	q.UpdatedAt = now

	_, err := r.db.q.ExecContext(ctx,
		`INSERT INTO questions (id, title, content, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, q.Title, q.Content, q.AuthorID, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("question", q.Title)
		}
		return fmt.Errorf("sqlite: inserting question: %w", err)
	}
	return nil
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := scanQuestion(r.db.q.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ?`, id), &q)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("question", id)
		}
		return nil, fmt.Errorf("sqlite: getting question %s: %w", id, err)
	}
	return &q, nil
}

// Update persists title and content. Counters are adjusted only through the
// atomic Adjust* methods, never through this write.
func (r *questionRepo) Update(ctx context.Context, q *model.Question) error {
	q.UpdatedAt = time.Now()

	result, err := r.db.q.ExecContext(ctx,
		`UPDATE questions SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		q.Title, q.Content, q.UpdatedAt, q.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("question", q.Title)
		}
		return fmt.Errorf("sqlite: updating question %s: %w", q.ID, err)
	}
	return checkAffected(result, "question", q.ID)
}

func (r *questionRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.q.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting question %s: %w", id, err)
	}
	return checkAffected(result, "question", id)
}

// List returns a page of questions plus the unpaginated total.
// Query matches title or content. Filters: newest (default), unanswered,
// popular.
func (r *questionRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Question, int, error) {
	where := ""
	args := []any{}
	if opts.Query != "" {
		where = `WHERE (title LIKE ? OR content LIKE ?)`
		pattern := "%" + opts.Query + "%"
		args = append(args, pattern, pattern)
	}

	order := "created_at DESC"
	switch opts.Filter {
	case "unanswered":
		if where == "" {
			where = `WHERE answer_count = 0`
		} else {
			where += ` AND answer_count = 0`
		}
	case "popular":
		order = "upvotes DESC"
	}

	return r.queryQuestions(ctx, where, order, args, opts)
}

func (r *questionRepo) ListByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Question, int, error) {
	return r.queryQuestions(ctx, `WHERE author_id = ?`, "created_at DESC", []any{authorID}, opts)
}

// ListByTag pages through the questions linked to one tag, newest first.
func (r *questionRepo) ListByTag(ctx context.Context, tagID string, opts repository.ListOptions) ([]model.Question, int, error) {
	where := `WHERE id IN (SELECT question_id FROM tag_questions WHERE tag_id = ?)`
	args := []any{tagID}
	if opts.Query != "" {
		where += ` AND title LIKE ?`
		args = append(args, "%"+opts.Query+"%")
	}
	order := "created_at DESC"
	if opts.Filter == "popular" {
		order = "upvotes DESC"
	}
	return r.queryQuestions(ctx, where, order, args, opts)
}

// queryQuestions is the shared count+page query for all question listings.
func (r *questionRepo) queryQuestions(ctx context.Context, where, order string, args []any, opts repository.ListOptions) ([]model.Question, int, error) {
	var total int
	if err := r.db.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM questions `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting questions: %w", err)
	}

	args = append(args, clampLimit(opts.Limit), maxInt(opts.Offset, 0))
	rows, err := r.db.q.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions `+where+`
		 ORDER BY `+order+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing questions: %w", err)
	}
	defer rows.Close()

	questions := make([]model.Question, 0, opts.Limit)
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating questions: %w", err)
	}
	return questions, total, nil
}

// IncrementViews bumps the view counter atomically and returns the new value.
func (r *questionRepo) IncrementViews(ctx context.Context, id string) (int, error) {
	result, err := r.db.q.ExecContext(ctx,
		`UPDATE questions SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("sqlite: incrementing views for question %s: %w", id, err)
	}
	if err := checkAffected(result, "question", id); err != nil {
		return 0, err
	}

	var views int
	if err := r.db.q.QueryRowContext(ctx,
		`SELECT views FROM questions WHERE id = ?`, id).Scan(&views); err != nil {
		return 0, fmt.Errorf("sqlite: reading views for question %s: %w", id, err)
	}
	return views, nil
}

// AdjustVoteCount adds delta to the named counter with a single atomic
// UPDATE — the counter-update path never does read-modify-write.
func (r *questionRepo) AdjustVoteCount(ctx context.Context, id string, voteType model.VoteType, delta int) error {
	column := "upvotes"
	if voteType == model.Downvote {
		column = "downvotes"
	}
	result, err := r.db.q.ExecContext(ctx,
		`UPDATE questions SET `+column+` = `+column+` + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("sqlite: adjusting %s for question %s: %w", column, id, err)
	}
	return checkAffected(result, "question", id)
}

func (r *questionRepo) AdjustAnswerCount(ctx context.Context, id string, delta int) error {
	result, err := r.db.q.ExecContext(ctx,
		`UPDATE questions SET answer_count = answer_count + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("sqlite: adjusting answer count for question %s: %w", id, err)
	}
	return checkAffected(result, "question", id)
}

// StatsByAuthor aggregates question count, upvote total and view total for
// one author. COALESCE makes the zero-questions case return zeros instead
// of NULLs.
func (r *questionRepo) StatsByAuthor(ctx context.Context, authorID string) (repository.AuthorStats, error) {
	var s repository.AuthorStats
	err := r.db.q.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(upvotes), 0), COALESCE(SUM(views), 0)
		 FROM questions WHERE author_id = ?`, authorID,
	).Scan(&s.Count, &s.Upvotes, &s.Views)
	if err != nil {
		return s, fmt.Errorf("sqlite: question stats for author %s: %w", authorID, err)
	}
	return s, nil
}
