// Package service — authentication business logic.
//
// AuthService sits between the HTTP handlers and the repository/auth
// utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → Store (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// Two sign-in paths share one user table:
//   - Credentials: email + password, bcrypt-verified against the
//     "credentials" account row
//   - OAuth: GitHub or Google profile, matched by (provider, account ID)
//     and falling back to email so an OAuth sign-in attaches to an
//     existing credentials user instead of duplicating them
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/auth"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

const credentialsProvider = "credentials"

// AuthService handles sign-up, sign-in, and OAuth account linking.
type AuthService struct {
	store     repository.Store
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	store repository.Store,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// set the session cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// SignUp registers a new credentials user. The user row and its
// "credentials" account row are created in one transaction — a failure
// halfway cannot leave a user with no way to sign in.
//
// A taken email or username surfaces as ErrConflict from the store's
// unique constraints; there is no racy pre-check.
func (s *AuthService) SignUp(ctx context.Context, name, username, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Name:     strings.TrimSpace(name),
		Username: strings.TrimSpace(username),
		Email:    email,
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		account := &model.Account{
			UserID:            user.ID,
			Name:              user.Name,
			Provider:          credentialsProvider,
			ProviderAccountID: email,
			PasswordHash:      hash,
		}
		return tx.Accounts().Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return s.issueToken(user)
}

// SignIn authenticates a credentials user.
//
// Every failure — unknown email, OAuth-only user, wrong password — returns
// the same Unauthorized error. Distinguishing them would tell an attacker
// which emails are registered.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.store.Accounts().GetByProvider(ctx, credentialsProvider, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, err
	}

	if err := s.passwords.Verify(account.PasswordHash, password); err != nil {
		s.logger.Warn("failed sign-in attempt", slog.String("email", email))
		return nil, apperror.Unauthorized("invalid email or password")
	}

	user, err := s.store.Users().GetByID(ctx, account.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", slog.String("userID", user.ID))
	return s.issueToken(user)
}

// OAuthSignIn completes an OAuth callback: the provider profile is matched
// to a user, creating or linking rows as needed, and a session is issued.
//
// MATCHING ORDER:
//  1. (provider, providerAccountID) hits an account → that user signs in
//  2. the profile email matches an existing user → link a new account row
//     to them (same person, new sign-in method)
//  3. otherwise create both the user and the account
//
// Steps 2 and 3 run inside a transaction so a crash can't strand an
// account row pointing at a half-created user.
func (s *AuthService) OAuthSignIn(ctx context.Context, profile *auth.OAuthUser) (*AuthResult, error) {
	if profile == nil {
		return nil, fmt.Errorf("service/auth: OAuth profile must not be nil")
	}

	account, err := s.store.Accounts().GetByProvider(ctx, profile.Provider, profile.ProviderAccountID)
	if err == nil {
		user, err := s.store.Users().GetByID(ctx, account.UserID)
		if err != nil {
			return nil, err
		}
		s.logger.Info("user signed in via OAuth",
			slog.String("userID", user.ID),
			slog.String("provider", profile.Provider),
		)
		return s.issueToken(user)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	var user *model.User
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		email := strings.ToLower(strings.TrimSpace(profile.Email))

		existing, err := lookupUserByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			user = existing
		} else {
			user = &model.User{
				Name:     profile.Name,
				Username: usernameFromProfile(profile),
				Email:    email,
				Image:    profile.Image,
			}
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
		}

		newAccount := &model.Account{
			UserID:            user.ID,
			Name:              profile.Name,
			Image:             profile.Image,
			Provider:          profile.Provider,
			ProviderAccountID: profile.ProviderAccountID,
		}
		return tx.Accounts().Create(ctx, newAccount)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered via OAuth",
		slog.String("userID", user.ID),
		slog.String("provider", profile.Provider),
	)
	return s.issueToken(user)
}

// GetUserByID returns the user for a validated session's subject.
// Used by the /api/me handler after the middleware extracts the userID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("authentication required")
	}
	return s.store.Users().GetByID(ctx, id)
}

func (s *AuthService) issueToken(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// lookupUserByEmail returns nil (not an error) when no user has the email,
// or when the profile carries no email at all (GitHub users can hide it).
func lookupUserByEmail(ctx context.Context, tx repository.Store, email string) (*model.User, error) {
	if email == "" {
		return nil, nil
	}
	user, err := tx.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// usernameFromProfile picks a handle for an OAuth-created user. GitHub
// supplies a login; Google doesn't, so fall back to the email local part.
func usernameFromProfile(p *auth.OAuthUser) string {
	if p.Username != "" {
		return p.Username
	}
	if at := strings.IndexByte(p.Email, '@'); at > 0 {
		return p.Email[:at]
	}
	return p.ProviderAccountID
}
