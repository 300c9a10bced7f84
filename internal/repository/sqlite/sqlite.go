// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// SQLite — works everywhere Go works.
//
// TRANSACTION DESIGN:
// Every repository method runs its SQL against a `querier`, which both
// *sql.DB and *sql.Tx satisfy. A normal *DB queries the pool directly.
// InTx begins a transaction and hands the closure a second *DB whose querier
// IS that transaction — so the same repository code serves both transactional
// and non-transactional callers, and multi-step actions get all-or-nothing
// semantics without any repository method knowing it is inside one.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Blank import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/devforum/internal/repository"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps a sql.DB connection pool and implements repository.Store.
// A transaction-scoped copy (created by InTx) shares the pool handle but
// routes all queries through the open transaction.
type DB struct {
	conn *sql.DB
	q    querier
}

// compile-time check that *DB implements the full store contract
var _ repository.Store = (*DB)(nil)

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" in tests for a throwaway in-memory database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection only. SQLite serializes writers anyway, and a pool
	// breaks ":memory:" databases — each new connection would get its own
	// empty database.
	conn.SetMaxOpenConns(1)

	// Ping forces a real connection now, so a bad path surfaces here
	// instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// essential for a web server. Foreign keys are off by default in
	// SQLite; we rely on them for the question/answer/vote cascades.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn, q: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Store accessors. Each repository is a thin adapter over the shared
// querier, so a transaction-scoped DB hands out transaction-scoped repos
// for free.

func (db *DB) Users() repository.UserRepository               { return &userRepo{db} }
func (db *DB) Accounts() repository.AccountRepository         { return &accountRepo{db} }
func (db *DB) Questions() repository.QuestionRepository       { return &questionRepo{db} }
func (db *DB) Answers() repository.AnswerRepository           { return &answerRepo{db} }
func (db *DB) Tags() repository.TagRepository                 { return &tagRepo{db} }
func (db *DB) Votes() repository.VoteRepository               { return &voteRepo{db} }
func (db *DB) Collections() repository.CollectionRepository   { return &collectionRepo{db} }
func (db *DB) Interactions() repository.InteractionRepository { return &interactionRepo{db} }

// InTx runs fn inside a transaction. The Store passed to fn routes every
// repository call through that transaction. A nested InTx joins the outer
// transaction rather than opening a second one — SQLite does not support
// true nested transactions, and joining gives the right all-or-nothing
// behaviour for composed actions (e.g. vote → interaction → reputation).
func (db *DB) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if _, ok := db.q.(*sql.Tx); ok {
		return fn(db)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	txStore := &DB{conn: db.conn, q: tx}
	if err := fn(txStore); err != nil {
		// Rollback error is secondary; the closure's error is the cause.
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every startup; uniqueness and referential constraints live in the
// schema so the application cannot violate them even under races.
func (db *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			username   TEXT NOT NULL UNIQUE,
			email      TEXT NOT NULL UNIQUE,
			bio        TEXT NOT NULL DEFAULT '',
			image      TEXT NOT NULL DEFAULT '',
			location   TEXT NOT NULL DEFAULT '',
			portfolio  TEXT NOT NULL DEFAULT '',
			reputation INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id                  TEXT PRIMARY KEY,
			user_id             TEXT NOT NULL REFERENCES users(id),
			name                TEXT NOT NULL DEFAULT '',
			image               TEXT NOT NULL DEFAULT '',
			provider            TEXT NOT NULL,
			provider_account_id TEXT NOT NULL,
			password_hash       TEXT NOT NULL DEFAULT '',
			created_at          DATETIME NOT NULL,
			updated_at          DATETIME NOT NULL,
			UNIQUE(provider, provider_account_id)
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL UNIQUE,
			content      TEXT NOT NULL,
			author_id    TEXT NOT NULL REFERENCES users(id),
			upvotes      INTEGER NOT NULL DEFAULT 0,
			downvotes    INTEGER NOT NULL DEFAULT 0,
			answer_count INTEGER NOT NULL DEFAULT 0,
			views        INTEGER NOT NULL DEFAULT 0,
			created_at   DATETIME NOT NULL,
			updated_at   DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_author ON questions(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions(created_at)`,
		`CREATE TABLE IF NOT EXISTS answers (
			id          TEXT PRIMARY KEY,
			question_id TEXT NOT NULL REFERENCES questions(id),
			author_id   TEXT NOT NULL REFERENCES users(id),
			content     TEXT NOT NULL,
			upvotes     INTEGER NOT NULL DEFAULT 0,
			downvotes   INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_author ON answers(author_id)`,
		// COLLATE NOCASE on the unique index is the tag canonicalization
		// policy: names keep the spelling of first use, but "React" and
		// "react" are the same tag.
		`CREATE TABLE IF NOT EXISTS tags (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE COLLATE NOCASE,
			questions  INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tag_questions (
			id          TEXT PRIMARY KEY,
			tag_id      TEXT NOT NULL REFERENCES tags(id),
			question_id TEXT NOT NULL REFERENCES questions(id),
			created_at  DATETIME NOT NULL,
			UNIQUE(tag_id, question_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tag_questions_question ON tag_questions(question_id)`,
		// UNIQUE(author_id, question_id) closes the double-save race:
		// two rapid toggles cannot produce two rows.
		`CREATE TABLE IF NOT EXISTS collections (
			id          TEXT PRIMARY KEY,
			author_id   TEXT NOT NULL REFERENCES users(id),
			question_id TEXT NOT NULL REFERENCES questions(id),
			created_at  DATETIME NOT NULL,
			UNIQUE(author_id, question_id)
		)`,
		// UNIQUE(author_id, target_id, target_type) is the single-vote
		// invariant, enforced by the store itself.
		`CREATE TABLE IF NOT EXISTS votes (
			id          TEXT PRIMARY KEY,
			author_id   TEXT NOT NULL REFERENCES users(id),
			target_id   TEXT NOT NULL,
			target_type TEXT NOT NULL CHECK(target_type IN ('question','answer')),
			vote_type   TEXT NOT NULL CHECK(vote_type IN ('upvote','downvote')),
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL,
			UNIQUE(author_id, target_id, target_type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_target ON votes(target_id, target_type)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id),
			action_id   TEXT NOT NULL,
			action_type TEXT NOT NULL,
			action      TEXT NOT NULL,
			created_at  DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}
