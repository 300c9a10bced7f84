package model

import "time"

// InteractionAction is the verb of a recorded interaction.
type InteractionAction string

const (
	ActionUpvote   InteractionAction = "upvote"
	ActionDownvote InteractionAction = "downvote"
	ActionPost     InteractionAction = "post"
	ActionDelete   InteractionAction = "delete"
	ActionView     InteractionAction = "view"
)

// Interaction is an append-only log entry recording a user action.
// The reputation engine derives point deltas from these; they are never
// updated or deleted after creation.
type Interaction struct {
	ID         string            `json:"id"         db:"id"`
	UserID     string            `json:"userId"     db:"user_id"`     // the performer
	ActionID   string            `json:"actionId"   db:"action_id"`   // target entity ID
	ActionType string            `json:"actionType" db:"action_type"` // "question" or "answer"
	Action     InteractionAction `json:"action"     db:"action"`
	CreatedAt  time.Time         `json:"createdAt"  db:"created_at"`
}
