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

type accountRepo struct{ db *DB }

var _ repository.AccountRepository = (*accountRepo)(nil)

// Create inserts a sign-in account for an existing user.
// (provider, provider_account_id) is unique — a second GitHub login with the
// same GitHub account maps to the existing row, never a new one.
func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	now := time.Now()
	account.ID = xid.New().String()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := r.db.q.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, name, image, provider, provider_account_id, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.UserID, account.Name, account.Image,
		account.Provider, account.ProviderAccountID, account.PasswordHash,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("account", account.ProviderAccountID)
		}
		return fmt.Errorf("sqlite: inserting account (provider=%s): %w", account.Provider, err)
	}
	return nil
}

// GetByProvider looks up the unique (provider, providerAccountID) pair.
func (r *accountRepo) GetByProvider(ctx context.Context, provider, providerAccountID string) (*model.Account, error) {
	var a model.Account
	err := r.db.q.QueryRowContext(ctx,
		`SELECT id, user_id, name, image, provider, provider_account_id, password_hash, created_at, updated_at
		 FROM accounts WHERE provider = ? AND provider_account_id = ?`,
		provider, providerAccountID,
	).Scan(
		&a.ID, &a.UserID, &a.Name, &a.Image, &a.Provider,
		&a.ProviderAccountID, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", providerAccountID)
		}
		return nil, fmt.Errorf("sqlite: getting account (%s/%s): %w", provider, providerAccountID, err)
	}
	return &a, nil
}
