// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation; tests
// may substitute mocks for individual repositories.
//
// TRANSACTIONS AS A UNIT OF WORK:
// Multi-step actions (cast vote, edit tags, delete question) must be
// all-or-nothing. Store.InTx takes a closure and guarantees exactly that:
// the closure receives a Store whose repositories all operate on one
// transaction, committed if the closure returns nil and rolled back
// otherwise. Service code never sees a transaction handle — it just calls
// the same repository methods on the Store it was given.
package repository

import (
	"context"

	"github.com/sakif/devforum/internal/model"
)

// ListOptions carries pagination and filtering for listing queries.
// Query is a case-insensitive substring match against the listing's search
// fields; Filter selects a listing-specific sort order.
type ListOptions struct {
	Limit  int
	Offset int
	Query  string
	Filter string
}

// TagCount pairs a tag with how many of a user's questions carry it.
type TagCount struct {
	Tag   model.Tag
	Count int
}

// AuthorStats aggregates vote/view totals over one author's content.
type AuthorStats struct {
	Count   int
	Upvotes int
	Views   int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	// AdjustReputation atomically adds delta to the user's reputation.
	AdjustReputation(ctx context.Context, id string, delta int) error
	List(ctx context.Context, opts ListOptions) ([]model.User, int, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	// GetByProvider looks up the unique (provider, providerAccountID) pair.
	GetByProvider(ctx context.Context, provider, providerAccountID string) (*model.Account, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, q *model.Question) error
	GetByID(ctx context.Context, id string) (*model.Question, error)
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]model.Question, int, error)
	ListByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]model.Question, int, error)
	ListByTag(ctx context.Context, tagID string, opts ListOptions) ([]model.Question, int, error)
	// IncrementViews atomically bumps the view counter and returns the new value.
	IncrementViews(ctx context.Context, id string) (int, error)
	// AdjustVoteCount atomically adds delta to the upvote or downvote counter.
	AdjustVoteCount(ctx context.Context, id string, voteType model.VoteType, delta int) error
	AdjustAnswerCount(ctx context.Context, id string, delta int) error
	StatsByAuthor(ctx context.Context, authorID string) (AuthorStats, error)
}

type AnswerRepository interface {
	Create(ctx context.Context, a *model.Answer) error
	GetByID(ctx context.Context, id string) (*model.Answer, error)
	Delete(ctx context.Context, id string) error
	ListByQuestion(ctx context.Context, questionID string, opts ListOptions) ([]model.Answer, int, error)
	ListByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]model.Answer, int, error)
	// ByQuestion returns every live answer for a question, unpaginated.
	// Used by the delete-question cascade.
	ByQuestion(ctx context.Context, questionID string) ([]model.Answer, error)
	DeleteByQuestion(ctx context.Context, questionID string) error
	AdjustVoteCount(ctx context.Context, id string, voteType model.VoteType, delta int) error
	Search(ctx context.Context, query string, limit int) ([]model.Answer, error)
	StatsByAuthor(ctx context.Context, authorID string) (AuthorStats, error)
}

type TagRepository interface {
	// Upsert finds a tag by case-insensitive name and increments its question
	// count, or creates it with a count of 1. Returns the canonical row.
	Upsert(ctx context.Context, name string) (*model.Tag, error)
	GetByID(ctx context.Context, id string) (*model.Tag, error)
	AdjustQuestionCount(ctx context.Context, id string, delta int) error
	List(ctx context.Context, opts ListOptions) ([]model.Tag, int, error)
	// ListForQuestion returns a question's tags in link-insertion order.
	ListForQuestion(ctx context.Context, questionID string) ([]model.Tag, error)
	CreateLink(ctx context.Context, tagID, questionID string) error
	DeleteLink(ctx context.Context, tagID, questionID string) error
	TopForAuthor(ctx context.Context, authorID string, limit int) ([]TagCount, error)
}

type VoteRepository interface {
	// Get returns the caller's vote on a target, or ErrNotFound.
	Get(ctx context.Context, authorID, targetID string, targetType model.VoteTarget) (*model.Vote, error)
	Create(ctx context.Context, v *model.Vote) error
	UpdateType(ctx context.Context, id string, voteType model.VoteType) error
	Delete(ctx context.Context, id string) error
	DeleteByTarget(ctx context.Context, targetID string, targetType model.VoteTarget) error
	CountByTarget(ctx context.Context, targetID string, targetType model.VoteTarget, voteType model.VoteType) (int, error)
}

type CollectionRepository interface {
	Get(ctx context.Context, authorID, questionID string) (*model.Collection, error)
	Create(ctx context.Context, c *model.Collection) error
	Delete(ctx context.Context, id string) error
	DeleteByQuestion(ctx context.Context, questionID string) error
	// ListByAuthor returns saved questions with the Question field populated.
	ListByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]model.Collection, int, error)
}

type InteractionRepository interface {
	Create(ctx context.Context, i *model.Interaction) error
}

// Store bundles every repository plus the transactional unit of work.
type Store interface {
	Users() UserRepository
	Accounts() AccountRepository
	Questions() QuestionRepository
	Answers() AnswerRepository
	Tags() TagRepository
	Votes() VoteRepository
	Collections() CollectionRepository
	Interactions() InteractionRepository

	// InTx runs fn against a transaction-scoped Store. If fn returns an
	// error the transaction is rolled back and the error returned;
	// otherwise it is committed. Nested calls join the outer transaction.
	InTx(ctx context.Context, fn func(Store) error) error
}
