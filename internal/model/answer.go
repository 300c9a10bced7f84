package model

import "time"

// Answer is a reply to a question. Upvotes/Downvotes follow the same
// counter invariant as Question, scoped to votes targeting this answer.
type Answer struct {
	ID         string    `json:"id"         db:"id"`
	QuestionID string    `json:"questionId" db:"question_id"`
	AuthorID   string    `json:"authorId"   db:"author_id"`
	Content    string    `json:"content"    db:"content"`
	Upvotes    int       `json:"upvotes"    db:"upvotes"`
	Downvotes  int       `json:"downvotes"  db:"downvotes"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`

	// Populated on reads that join the author. Not a column.
	Author *User `json:"author,omitempty"`
}
