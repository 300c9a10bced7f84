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

type voteRepo struct{ db *DB }

var _ repository.VoteRepository = (*voteRepo)(nil)

const voteColumns = `id, author_id, target_id, target_type, vote_type, created_at, updated_at`

func scanVote(row interface{ Scan(...any) error }, v *model.Vote) error {
	return row.Scan(
		&v.ID, &v.AuthorID, &v.TargetID, &v.TargetType, &v.VoteType,
		&v.CreatedAt, &v.UpdatedAt,
	)
}

// Get returns the caller's vote on a target, or ErrNotFound.
// The UNIQUE(author, target, type) index guarantees at most one row.
func (r *voteRepo) Get(ctx context.Context, authorID, targetID string, targetType model.VoteTarget) (*model.Vote, error) {
	var v model.Vote
	err := scanVote(r.db.q.QueryRowContext(ctx,
		`SELECT `+voteColumns+` FROM votes
		 WHERE author_id = ? AND target_id = ? AND target_type = ?`,
		authorID, targetID, targetType), &v)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("vote", targetID)
		}
		return nil, fmt.Errorf("sqlite: getting vote (%s on %s): %w", authorID, targetID, err)
	}
	return &v, nil
}

func (r *voteRepo) Create(ctx context.Context, v *model.Vote) error {
	now := time.Now()
	v.ID = xid.New().String()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := r.db.q.ExecContext(ctx,
		`INSERT INTO votes (`+voteColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.AuthorID, v.TargetID, v.TargetType, v.VoteType, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Two concurrent casts by the same user — the loser lands here
			// and the whole transaction rolls back.
			return apperror.Conflict("vote", v.TargetID)
		}
		return fmt.Errorf("sqlite: inserting vote: %w", err)
	}
	return nil
}

// UpdateType flips an existing vote's direction (the switch transition).
func (r *voteRepo) UpdateType(ctx context.Context, id string, voteType model.VoteType) error {
	result, err := r.db.q.ExecContext(ctx,
		`UPDATE votes SET vote_type = ?, updated_at = ? WHERE id = ?`,
		voteType, time.Now(), id)
	if err != nil {
		return fmt.Errorf("sqlite: updating vote %s: %w", id, err)
	}
	return checkAffected(result, "vote", id)
}

func (r *voteRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.q.ExecContext(ctx, `DELETE FROM votes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting vote %s: %w", id, err)
	}
	return checkAffected(result, "vote", id)
}

// DeleteByTarget removes every vote on a target. Part of the delete
// cascades; zero rows is fine (a question may have no votes).
func (r *voteRepo) DeleteByTarget(ctx context.Context, targetID string, targetType model.VoteTarget) error {
	_, err := r.db.q.ExecContext(ctx,
		`DELETE FROM votes WHERE target_id = ? AND target_type = ?`,
		targetID, targetType)
	if err != nil {
		return fmt.Errorf("sqlite: deleting votes for %s %s: %w", targetType, targetID, err)
	}
	return nil
}

// CountByTarget counts live votes of one type on a target. Used by tests
// and consistency checks against the denormalized counters.
func (r *voteRepo) CountByTarget(ctx context.Context, targetID string, targetType model.VoteTarget, voteType model.VoteType) (int, error) {
	var n int
	err := r.db.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE target_id = ? AND target_type = ? AND vote_type = ?`,
		targetID, targetType, voteType).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting votes for %s %s: %w", targetType, targetID, err)
	}
	return n, nil
}
