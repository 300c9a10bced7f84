package model

import "time"

// VoteTarget identifies what kind of entity a vote points at.
type VoteTarget string

const (
	TargetQuestion VoteTarget = "question"
	TargetAnswer   VoteTarget = "answer"
)

// VoteType is the direction of a vote.
type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

// Vote records a single user's vote on a single target.
// At most one Vote exists per (author, target) — casting again either
// removes it (same type) or flips it (other type).
type Vote struct {
	ID         string     `json:"id"         db:"id"`
	AuthorID   string     `json:"authorId"   db:"author_id"`
	TargetID   string     `json:"targetId"   db:"target_id"`
	TargetType VoteTarget `json:"targetType" db:"target_type"`
	VoteType   VoteType   `json:"voteType"   db:"vote_type"`
	CreatedAt  time.Time  `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt"  db:"updated_at"`
}

// VoteStatus reports how, if at all, a user has voted on a target.
type VoteStatus struct {
	HasUpvoted   bool `json:"hasUpvoted"`
	HasDownvoted bool `json:"hasDownvoted"`
}
