// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → enforces rules, orchestrates transactions
//	Repository (data layer)  → reads/writes the database
//
// Services here take a repository.Store (interface), not a *sqlite.DB.
// That keeps them testable against the in-memory store and ignorant of SQL.
// Multi-step operations — casting a vote, reconciling tags, deleting a
// question — run their whole sequence inside store.InTx, so either every
// write lands or none do.
package service

import (
	"context"
	"fmt"

	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

// Reputation point values. Each recorded interaction awards points to the
// performer (who did it) and/or to the content author (whose post it was).
const (
	repUpvotePerformer   = 2
	repUpvoteAuthor      = 10
	repDownvotePerformer = -1
	repDownvoteAuthor    = -2
	repPostQuestion      = 5
	repPostAnswer        = 10
	repDeleteQuestion    = -5
	repDeleteAnswer      = -10
)

// reputationDeltas returns the (performer, author) point deltas for one
// action on one kind of target.
func reputationDeltas(action model.InteractionAction, targetType model.VoteTarget) (performer, author int) {
	switch action {
	case model.ActionUpvote:
		return repUpvotePerformer, repUpvoteAuthor
	case model.ActionDownvote:
		return repDownvotePerformer, repDownvoteAuthor
	case model.ActionPost:
		if targetType == model.TargetAnswer {
			return 0, repPostAnswer
		}
		return 0, repPostQuestion
	case model.ActionDelete:
		if targetType == model.TargetAnswer {
			return 0, repDeleteAnswer
		}
		return 0, repDeleteQuestion
	}
	return 0, 0
}

// recordInteraction appends the interaction and applies its reputation
// deltas. Must be called with a transaction-scoped Store: the interaction
// row and the point adjustments commit or roll back as one.
//
// SELF-ACTION RULE:
// When the performer is also the content author (posting your own question,
// voting on your own answer), only the author-side delta applies — once.
// A self-upvote is +10, never +2 and +10.
func recordInteraction(ctx context.Context, tx repository.Store, performerID, authorID string, action model.InteractionAction, targetID string, targetType model.VoteTarget) error {
	interaction := &model.Interaction{
		UserID:     performerID,
		ActionID:   targetID,
		ActionType: string(targetType),
		Action:     action,
	}
	if err := tx.Interactions().Create(ctx, interaction); err != nil {
		return fmt.Errorf("recording interaction: %w", err)
	}

	performerDelta, authorDelta := reputationDeltas(action, targetType)

	if performerID == authorID {
		if authorDelta == 0 {
			return nil
		}
		if err := tx.Users().AdjustReputation(ctx, authorID, authorDelta); err != nil {
			return fmt.Errorf("adjusting reputation for %s: %w", authorID, err)
		}
		return nil
	}

	if performerDelta != 0 {
		if err := tx.Users().AdjustReputation(ctx, performerID, performerDelta); err != nil {
			return fmt.Errorf("adjusting performer reputation for %s: %w", performerID, err)
		}
	}
	if authorDelta != 0 {
		if err := tx.Users().AdjustReputation(ctx, authorID, authorDelta); err != nil {
			return fmt.Errorf("adjusting author reputation for %s: %w", authorID, err)
		}
	}
	return nil
}
