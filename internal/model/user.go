// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered community member.
//
// Reputation is an integer adjusted exclusively by the interaction engine
// (see internal/service/reputation.go) — profile edits never touch it.
//
// WHY A SEPARATE Account TYPE?
// A user's identity (name, bio, reputation) is distinct from how they sign in.
// One User can have several Accounts: a GitHub OAuth account, a Google OAuth
// account, and a credentials account, all pointing at the same User row.
// Keeping them separate means adding a new sign-in method never mutates the
// users table.
type User struct {
	ID         string    `json:"id"         db:"id"`
	Name       string    `json:"name"       db:"name"`
	Username   string    `json:"username"   db:"username"` // unique handle, e.g. "sakif"
	Email      string    `json:"email"      db:"email"`    // unique
	Bio        string    `json:"bio"        db:"bio"`
	Image      string    `json:"image"      db:"image"` // avatar URL (may be empty)
	Location   string    `json:"location"   db:"location"`
	Portfolio  string    `json:"portfolio"  db:"portfolio"` // personal site URL
	Reputation int       `json:"reputation" db:"reputation"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`
}

// Account links a User to a sign-in method.
//
// (Provider, ProviderAccountID) is unique: one GitHub account maps to exactly
// one Account row. For credentials accounts the provider is "credentials",
// ProviderAccountID is the email, and PasswordHash holds the bcrypt hash.
// OAuth accounts leave PasswordHash empty.
type Account struct {
	ID                string    `json:"id"                db:"id"`
	UserID            string    `json:"userId"            db:"user_id"`
	Name              string    `json:"name"              db:"name"`
	Image             string    `json:"image"             db:"image"`
	Provider          string    `json:"provider"          db:"provider"` // "github", "google", "credentials"
	ProviderAccountID string    `json:"providerAccountId" db:"provider_account_id"`
	PasswordHash      string    `json:"-"                 db:"password_hash"` // never serialized
	CreatedAt         time.Time `json:"createdAt"         db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt"         db:"updated_at"`
}

// BadgeCounts summarizes a user's earned badges per tier.
type BadgeCounts struct {
	Gold   int `json:"GOLD"`
	Silver int `json:"SILVER"`
	Bronze int `json:"BRONZE"`
}

// UserStats is the aggregate returned by the user-stats operation.
type UserStats struct {
	TotalQuestions  int         `json:"totalQuestions"`
	TotalAnswers    int         `json:"totalAnswers"`
	QuestionUpvotes int         `json:"questionUpvotes"`
	AnswerUpvotes   int         `json:"answerUpvotes"`
	TotalViews      int         `json:"totalViews"`
	Badges          BadgeCounts `json:"badges"`
}
