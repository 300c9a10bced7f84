package model

import "time"

// Question is a community question.
//
// The counter fields are denormalized: Upvotes/Downvotes mirror the live Vote
// rows targeting this question, AnswerCount mirrors the live Answer rows, and
// the tag list mirrors the tag_questions links. Every mutation that touches
// one side of these pairs runs inside a transaction that touches the other,
// so the counters are never observably out of sync.
type Question struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"` // unique
	Content     string    `json:"content"     db:"content"`
	AuthorID    string    `json:"authorId"    db:"author_id"`
	Upvotes     int       `json:"upvotes"     db:"upvotes"`
	Downvotes   int       `json:"downvotes"   db:"downvotes"`
	AnswerCount int       `json:"answerCount" db:"answer_count"`
	Views       int       `json:"views"       db:"views"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`

	// Populated on reads, in link-insertion order. Not a column.
	Tags []Tag `json:"tags,omitempty"`
	// Populated on reads that join the author. Not a column.
	Author *User `json:"author,omitempty"`
}

// Tag is a question label. Names are unique case-insensitively; the stored
// spelling is whichever the first user typed. Questions counts the live
// tag_questions links — it can reach zero, but the tag row is kept.
type Tag struct {
	ID        string    `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"`
	Questions int       `json:"questions" db:"questions"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TagQuestion is the join row attaching a Tag to a Question.
// Exists exactly once per (tag, question) pair while the tag is attached.
type TagQuestion struct {
	ID         string    `json:"id"         db:"id"`
	TagID      string    `json:"tagId"      db:"tag_id"`
	QuestionID string    `json:"questionId" db:"question_id"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}
