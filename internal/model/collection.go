package model

import "time"

// Collection is a saved/bookmarked question. At most one row exists per
// (author, question) pair; saving again removes it (toggle semantics).
type Collection struct {
	ID         string    `json:"id"         db:"id"`
	AuthorID   string    `json:"authorId"   db:"author_id"`
	QuestionID string    `json:"questionId" db:"question_id"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`

	// Populated on saved-question listings. Not a column.
	Question *Question `json:"question,omitempty"`
}
