// Package auth — password hashing for credential sign-in.
//
// WHY BCRYPT?
// bcrypt is deliberately slow, and that slowness is the security feature:
// it makes offline brute-force attacks expensive. It also generates and
// embeds a random salt in the output, so two users with the same password
// store different hashes and no separate salt column is needed.
//
// NEVER store passwords in plain text or with fast hashes (MD5, SHA-256) —
// those fall to GPU rigs in minutes.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly ~250ms on a
// modern server — negligible for a sign-in, brutal for an attacker.
// Tune it so hashing stays in the 200–300ms range on production hardware.
const defaultCost = 12

// PasswordService hashes and verifies credential passwords.
//
// It's a struct rather than free functions so the cost can be lowered in
// tests — bcrypt at cost 4 runs in milliseconds without changing the logic
// under test.
type PasswordService struct {
	cost int
}

// NewPasswordService returns a PasswordService at the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost returns a PasswordService at a custom cost.
// Tests pass bcrypt.MinCost; production code should not call this.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash bcrypt-hashes plaintext. The returned string is self-contained
// (version, cost, salt, digest) and goes straight into the password_hash
// column.
//
// bcrypt silently truncates input beyond 72 bytes, so we reject longer
// passwords explicitly rather than surprise the caller.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches a stored hash; nil means match.
// bcrypt compares in constant time, so response timing leaks nothing about
// how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
