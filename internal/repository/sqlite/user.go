package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

type userRepo struct{ db *DB }

// compile-time check that *userRepo implements repository.UserRepository
var _ repository.UserRepository = (*userRepo)(nil)

const userColumns = `id, name, username, email, bio, image, location, portfolio, reputation, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Bio, &u.Image,
		&u.Location, &u.Portfolio, &u.Reputation, &u.CreatedAt, &u.UpdatedAt,
	)
}

// Create inserts a new user. The ID and timestamps are generated here and
// written back through the pointer. A duplicate email or username surfaces
// as ErrConflict so the handler can return 409.
func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.q.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Username, user.Email, user.Bio, user.Image,
		user.Location, user.Portfolio, user.Reputation, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}
	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := scanUser(r.db.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id), &u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return &u, nil
}

// GetByEmail retrieves a user by their unique email.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := scanUser(r.db.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email), &u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email %s: %w", email, err)
	}
	return &u, nil
}

// Update persists the mutable profile fields. Reputation is deliberately
// NOT written here — only AdjustReputation touches it, atomically.
func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	result, err := r.db.q.ExecContext(ctx,
		`UPDATE users
		 SET name = ?, bio = ?, image = ?, location = ?, portfolio = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name, user.Bio, user.Image, user.Location, user.Portfolio,
		user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	return checkAffected(result, "user", user.ID)
}

// AdjustReputation applies a point delta with a single atomic UPDATE
// (SET reputation = reputation + ?) — never read-modify-write, so two
// concurrent adjustments can't lose each other's points.
func (r *userRepo) AdjustReputation(ctx context.Context, id string, delta int) error {
	result, err := r.db.q.ExecContext(ctx,
		`UPDATE users SET reputation = reputation + ?, updated_at = ? WHERE id = ?`,
		delta, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adjusting reputation for user %s: %w", id, err)
	}
	return checkAffected(result, "user", id)
}

// List returns a page of users plus the unpaginated total.
// Query matches name or email; Filter picks the sort order.
func (r *userRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	where := ""
	args := []any{}
	if opts.Query != "" {
		where = `WHERE name LIKE ? OR email LIKE ?`
		pattern := "%" + opts.Query + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := r.db.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting users: %w", err)
	}

	order := "created_at DESC"
	switch opts.Filter {
	case "newest":
		order = "created_at DESC"
	case "oldest":
		order = "created_at ASC"
	case "popular":
		order = "reputation DESC"
	}

	args = append(args, clampLimit(opts.Limit), maxInt(opts.Offset, 0))
	rows, err := r.db.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users `+where+`
		 ORDER BY `+order+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, opts.Limit)
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return users, total, nil
}

// --- shared helpers ---

// checkAffected converts "zero rows touched" into a NotFound domain error.
func checkAffected(result sql.Result, resource, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
// modernc.org/sqlite surfaces these as plain errors with the constraint name
// in the message, so a string check is the pragmatic test.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
