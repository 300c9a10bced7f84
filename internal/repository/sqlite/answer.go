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

type answerRepo struct{ db *DB }

var _ repository.AnswerRepository = (*answerRepo)(nil)

const answerColumns = `id, question_id, author_id, content, upvotes, downvotes, created_at, updated_at`

func scanAnswer(row interface{ Scan(...any) error }, a *model.Answer) error {
	return row.Scan(
		&a.ID, &a.QuestionID, &a.AuthorID, &a.Content,
		&a.Upvotes, &a.Downvotes, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (r *answerRepo) Create(ctx context.Context, a *model.Answer) error {
	now := time.Now()
	a.ID = xid.New().String()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := r.db.q.ExecContext(ctx,
		`INSERT INTO answers (id, question_id, author_id, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.QuestionID, a.AuthorID, a.Content, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting answer: %w", err)
	}
	return nil
}

func (r *answerRepo) GetByID(ctx context.Context, id string) (*model.Answer, error) {
	var a model.Answer
	err := scanAnswer(r.db.q.QueryRowContext(ctx,
		`SELECT `+answerColumns+` FROM answers WHERE id = ?`, id), &a)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("answer", id)
		}
		return nil, fmt.Errorf("sqlite: getting answer %s: %w", id, err)
	}
	return &a, nil
}

func (r *answerRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.q.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting answer %s: %w", id, err)
	}
	return checkAffected(result, "answer", id)
}

// ListByQuestion pages through a question's answers.
// Filters: latest (default), oldest, popular.
func (r *answerRepo) ListByQuestion(ctx context.Context, questionID string, opts repository.ListOptions) ([]model.Answer, int, error) {
	order := "created_at DESC"
	switch opts.Filter {
	case "oldest":
		order = "created_at ASC"
	case "popular":
		order = "upvotes DESC"
	}
	return r.queryAnswers(ctx, `WHERE question_id = ?`, order, []any{questionID}, opts)
}

func (r *answerRepo) ListByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Answer, int, error) {
	return r.queryAnswers(ctx, `WHERE author_id = ?`, "created_at DESC", []any{authorID}, opts)
}

func (r *answerRepo) queryAnswers(ctx context.Context, where, order string, args []any, opts repository.ListOptions) ([]model.Answer, int, error) {
	var total int
	if err := r.db.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM answers `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting answers: %w", err)
	}

	args = append(args, clampLimit(opts.Limit), maxInt(opts.Offset, 0))
	rows, err := r.db.q.QueryContext(ctx,
		`SELECT `+answerColumns+` FROM answers `+where+`
		 ORDER BY `+order+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing answers: %w", err)
	}
	defer rows.Close()

	answers := make([]model.Answer, 0, opts.Limit)
	for rows.Next() {
		var a model.Answer
		if err := scanAnswer(rows, &a); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning answer row: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating answers: %w", err)
	}
	return answers, total, nil
}

// ByQuestion returns every answer on a question, unpaginated.
// The delete-question cascade uses this to find the vote rows and reputation
// deltas it must clean up.
func (r *answerRepo) ByQuestion(ctx context.Context, questionID string) ([]model.Answer, error) {
	rows, err := r.db.q.QueryContext(ctx,
		`SELECT `+answerColumns+` FROM answers WHERE question_id = ? ORDER BY created_at`, questionID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading answers for question %s: %w", questionID, err)
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		if err := scanAnswer(rows, &a); err != nil {
			return nil, fmt.Errorf("sqlite: scanning answer row: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating answers: %w", err)
	}
	return answers, nil
}

func (r *answerRepo) DeleteByQuestion(ctx context.Context, questionID string) error {
	_, err := r.db.q.ExecContext(ctx,
		`DELETE FROM answers WHERE question_id = ?`, questionID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting answers for question %s: %w", questionID, err)
	}
	return nil
}

func (r *answerRepo) AdjustVoteCount(ctx context.Context, id string, voteType model.VoteType, delta int) error {
	column := "upvotes"
	if voteType == model.Downvote {
		column = "downvotes"
	}
	result, err := r.db.q.ExecContext(ctx,
		`UPDATE answers SET `+column+` = `+column+` + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("sqlite: adjusting %s for answer %s: %w", column, id, err)
	}
	return checkAffected(result, "answer", id)
}

// Search finds answers whose content matches the query. Used by global
// search only, so it has no pagination — just a cap.
func (r *answerRepo) Search(ctx context.Context, query string, limit int) ([]model.Answer, error) {
	rows, err := r.db.q.QueryContext(ctx,
		`SELECT `+answerColumns+` FROM answers WHERE content LIKE ?
		 ORDER BY created_at DESC LIMIT ?`,
		"%"+query+"%", clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching answers: %w", err)
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		if err := scanAnswer(rows, &a); err != nil {
			return nil, fmt.Errorf("sqlite: scanning answer row: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating answers: %w", err)
	}
	return answers, nil
}

func (r *answerRepo) StatsByAuthor(ctx context.Context, authorID string) (repository.AuthorStats, error) {
	var s repository.AuthorStats
	err := r.db.q.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(upvotes), 0)
		 FROM answers WHERE author_id = ?`, authorID,
	).Scan(&s.Count, &s.Upvotes)
	if err != nil {
		return s, fmt.Errorf("sqlite: answer stats for author %s: %w", authorID, err)
	}
	return s, nil
}
