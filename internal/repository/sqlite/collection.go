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

type collectionRepo struct{ db *DB }

var _ repository.CollectionRepository = (*collectionRepo)(nil)

func (r *collectionRepo) Get(ctx context.Context, authorID, questionID string) (*model.Collection, error) {
	var c model.Collection
	err := r.db.q.QueryRowContext(ctx,
		`SELECT id, author_id, question_id, created_at FROM collections
		 WHERE author_id = ? AND question_id = ?`,
		authorID, questionID).Scan(&c.ID, &c.AuthorID, &c.QuestionID, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("collection", questionID)
		}
		return nil, fmt.Errorf("sqlite: getting collection (%s, %s): %w", authorID, questionID, err)
	}
	return &c, nil
}

func (r *collectionRepo) Create(ctx context.Context, c *model.Collection) error {
	c.ID = xid.New().String()
	c.CreatedAt = time.Now()

	_, err := r.db.q.ExecContext(ctx,
		`INSERT INTO collections (id, author_id, question_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		c.ID, c.AuthorID, c.QuestionID, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("collection", c.QuestionID)
		}
		return fmt.Errorf("sqlite: inserting collection: %w", err)
	}
	return nil
}

func (r *collectionRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.q.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting collection %s: %w", id, err)
	}
	return checkAffected(result, "collection", id)
}

func (r *collectionRepo) DeleteByQuestion(ctx context.Context, questionID string) error {
	_, err := r.db.q.ExecContext(ctx, `DELETE FROM collections WHERE question_id = ?`, questionID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting collections for question %s: %w", questionID, err)
	}
	return nil
}

// ListByAuthor returns the user's saved questions, each hydrated with the
// question row it points at. Search and filter apply to the questions,
// not the collection rows themselves.
func (r *collectionRepo) ListByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Collection, int, error) {
	where := ` FROM collections c
	          JOIN questions q ON q.id = c.question_id
	          WHERE c.author_id = ?`
	args := []any{authorID}

	if opts.Query != "" {
		where += ` AND q.title LIKE ?`
		args = append(args, "%"+opts.Query+"%")
	}

	var total int
	if err := r.db.q.QueryRowContext(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting collections for %s: %w", authorID, err)
	}

	query := `SELECT c.id, c.author_id, c.question_id, c.created_at,
	                 q.id, q.title, q.content, q.author_id, q.upvotes, q.downvotes,
	                 q.answer_count, q.views, q.created_at, q.updated_at` + where

	switch opts.Filter {
	case "oldest":
		query += ` ORDER BY c.created_at ASC`
	case "mostvoted":
		query += ` ORDER BY q.upvotes DESC`
	case "mostviewed":
		query += ` ORDER BY q.views DESC`
	case "mostanswered":
		query += ` ORDER BY q.answer_count DESC`
	default:
		query += ` ORDER BY c.created_at DESC`
	}

	query += ` LIMIT ? OFFSET ?`
	args = append(args, clampLimit(opts.Limit), maxInt(opts.Offset, 0))

	rows, err := r.db.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing collections for %s: %w", authorID, err)
	}
	defer rows.Close()

	var collections []model.Collection
	for rows.Next() {
		var c model.Collection
		var q model.Question
		if err := rows.Scan(
			&c.ID, &c.AuthorID, &c.QuestionID, &c.CreatedAt,
			&q.ID, &q.Title, &q.Content, &q.AuthorID, &q.Upvotes, &q.Downvotes,
			&q.AnswerCount, &q.Views, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning collection row: %w", err)
		}
		c.Question = &q
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating collection rows: %w", err)
	}
	return collections, total, nil
}
