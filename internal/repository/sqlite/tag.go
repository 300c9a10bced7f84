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

type tagRepo struct{ db *DB }

var _ repository.TagRepository = (*tagRepo)(nil)

const tagColumns = `id, name, questions, created_at, updated_at`

func scanTag(row interface{ Scan(...any) error }, t *model.Tag) error {
	return row.Scan(&t.ID, &t.Name, &t.Questions, &t.CreatedAt, &t.UpdatedAt)
}

// Upsert finds a tag by name (case-insensitively, via the NOCASE unique
// index) and increments its question count, or creates it with a count of
// one. The stored spelling is whatever the first user typed.
//
// ON CONFLICT targets the unique name index, so two concurrent upserts of
// "react" and "React" converge on one row with the count incremented twice.
func (r *tagRepo) Upsert(ctx context.Context, name string) (*model.Tag, error) {
	now := time.Now()
	_, err := r.db.q.ExecContext(ctx,
		`INSERT INTO tags (id, name, questions, created_at, updated_at)
		 VALUES (?, ?, 1, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET questions = questions + 1, updated_at = excluded.updated_at`,
		xid.New().String(), name, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: upserting tag %q: %w", name, err)
	}

	// Read the canonical row back; the NOCASE collation on name makes this
	// match whichever spelling won.
	var t model.Tag
	err = scanTag(r.db.q.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = ?`, name), &t)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading back tag %q: %w", name, err)
	}
	return &t, nil
}

func (r *tagRepo) GetByID(ctx context.Context, id string) (*model.Tag, error) {
	var t model.Tag
	err := scanTag(r.db.q.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, id), &t)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("tag", id)
		}
		return nil, fmt.Errorf("sqlite: getting tag %s: %w", id, err)
	}
	return &t, nil
}

// AdjustQuestionCount adds delta atomically. Counts may reach zero; the tag
// row is kept as a browsable historical entry.
func (r *tagRepo) AdjustQuestionCount(ctx context.Context, id string, delta int) error {
	result, err := r.db.q.ExecContext(ctx,
		`UPDATE tags SET questions = questions + ?, updated_at = ? WHERE id = ?`,
		delta, time.Now(), id)
	if err != nil {
		return fmt.Errorf("sqlite: adjusting question count for tag %s: %w", id, err)
	}
	return checkAffected(result, "tag", id)
}

// List pages through tags. Query matches the name; Filter picks the order:
// popular (most questions), name, recent, oldest.
func (r *tagRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Tag, int, error) {
	where := ""
	args := []any{}
	if opts.Query != "" {
		where = `WHERE name LIKE ?`
		args = append(args, "%"+opts.Query+"%")
	}

	var total int
	if err := r.db.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tags `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting tags: %w", err)
	}

	order := "created_at DESC"
	switch opts.Filter {
	case "popular":
		order = "questions DESC"
	case "name":
		order = "name COLLATE NOCASE ASC"
	case "oldest":
		order = "created_at ASC"
	}

	args = append(args, clampLimit(opts.Limit), maxInt(opts.Offset, 0))
	rows, err := r.db.q.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags `+where+`
		 ORDER BY `+order+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	defer rows.Close()

	tags := make([]model.Tag, 0, opts.Limit)
	for rows.Next() {
		var t model.Tag
		if err := scanTag(rows, &t); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating tags: %w", err)
	}
	return tags, total, nil
}

// ListForQuestion returns a question's tags in link-insertion order, which
// is the order the question displays them.
func (r *tagRepo) ListForQuestion(ctx context.Context, questionID string) ([]model.Tag, error) {
	rows, err := r.db.q.QueryContext(ctx,
		`SELECT t.id, t.name, t.questions, t.created_at, t.updated_at
		 FROM tags t
		 JOIN tag_questions tq ON tq.tag_id = t.id
		 WHERE tq.question_id = ?
		 ORDER BY tq.created_at, tq.id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading tags for question %s: %w", questionID, err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := scanTag(rows, &t); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tags: %w", err)
	}
	return tags, nil
}

// CreateLink attaches a tag to a question. A duplicate (tag, question) pair
// violates the unique index and surfaces as ErrConflict — the reconciliation
// logic never creates a link that already exists, so hitting this means a
// concurrent edit won.
func (r *tagRepo) CreateLink(ctx context.Context, tagID, questionID string) error {
	_, err := r.db.q.ExecContext(ctx,
		`INSERT INTO tag_questions (id, tag_id, question_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		xid.New().String(), tagID, questionID, time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("tag link", tagID)
		}
		return fmt.Errorf("sqlite: linking tag %s to question %s: %w", tagID, questionID, err)
	}
	return nil
}

func (r *tagRepo) DeleteLink(ctx context.Context, tagID, questionID string) error {
	result, err := r.db.q.ExecContext(ctx,
		`DELETE FROM tag_questions WHERE tag_id = ? AND question_id = ?`,
		tagID, questionID)
	if err != nil {
		return fmt.Errorf("sqlite: unlinking tag %s from question %s: %w", tagID, questionID, err)
	}
	return checkAffected(result, "tag link", tagID)
}

// TopForAuthor returns the tags most used across one author's questions.
func (r *tagRepo) TopForAuthor(ctx context.Context, authorID string, limit int) ([]repository.TagCount, error) {
	rows, err := r.db.q.QueryContext(ctx,
		`SELECT t.id, t.name, t.questions, t.created_at, t.updated_at, COUNT(*) AS uses
		 FROM tags t
		 JOIN tag_questions tq ON tq.tag_id = t.id
		 JOIN questions q ON q.id = tq.question_id
		 WHERE q.author_id = ?
		 GROUP BY t.id
		 ORDER BY uses DESC, t.name COLLATE NOCASE
		 LIMIT ?`, authorID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("sqlite: top tags for author %s: %w", authorID, err)
	}
	defer rows.Close()

	var counts []repository.TagCount
	for rows.Next() {
		var tc repository.TagCount
		if err := rows.Scan(
			&tc.Tag.ID, &tc.Tag.Name, &tc.Tag.Questions,
			&tc.Tag.CreatedAt, &tc.Tag.UpdatedAt, &tc.Count,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag count row: %w", err)
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tag counts: %w", err)
	}
	return counts, nil
}
