package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/devforum/internal/apperror"
	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

// VoteService implements the vote toggling state machine.
//
// STATES per (user, target): NoVote, Upvoted, Downvoted.
// Casting vote type V transitions:
//
//	NoVote    → V: create the Vote, bump the V counter
//	V         → NoVote: delete the Vote, drop the V counter ("un-vote")
//	OtherType → V: flip the Vote, bump V, drop the other counter
//
// Every branch runs inside one transaction: the Vote row, the denormalized
// counters, the interaction log, and the reputation deltas move together or
// not at all.
type VoteService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewVoteService(store repository.Store, logger *slog.Logger) *VoteService {
	return &VoteService{store: store, logger: logger}
}

// CastResult reports the state after a cast, so the client can render the
// toggle without a second request.
type CastResult struct {
	Status model.VoteStatus `json:"status"`
}

// Cast applies one click of the vote toggle for userID on the target.
func (s *VoteService) Cast(ctx context.Context, userID, targetID string, targetType model.VoteTarget, voteType model.VoteType) (*CastResult, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required to vote")
	}

	// Resolve the target up front: it must exist, and we need its author
	// for the reputation deltas.
	authorID, err := s.targetAuthor(ctx, targetID, targetType)
	if err != nil {
		return nil, err
	}

	var result CastResult
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		existing, err := tx.Votes().Get(ctx, userID, targetID, targetType)
		switch {
		case err != nil && errors.Is(err, apperror.ErrNotFound):
			// NoVote → V
			vote := &model.Vote{
				AuthorID:   userID,
				TargetID:   targetID,
				TargetType: targetType,
				VoteType:   voteType,
			}
			if err := tx.Votes().Create(ctx, vote); err != nil {
				return err
			}
			if err := s.adjustCounter(ctx, tx, targetID, targetType, voteType, 1); err != nil {
				return err
			}
			if err := recordInteraction(ctx, tx, userID, authorID, voteAction(voteType), targetID, targetType); err != nil {
				return err
			}
			result.Status = statusFor(voteType)
			return nil

		case err != nil:
			return err

		case existing.VoteType == voteType:
			// V → NoVote
			if err := tx.Votes().Delete(ctx, existing.ID); err != nil {
				return err
			}
			if err := s.adjustCounter(ctx, tx, targetID, targetType, voteType, -1); err != nil {
				return err
			}
			result.Status = model.VoteStatus{}
			return nil

		default:
			// OtherType → V: both counters move, one up and one down
			if err := tx.Votes().UpdateType(ctx, existing.ID, voteType); err != nil {
				return err
			}
			if err := s.adjustCounter(ctx, tx, targetID, targetType, voteType, 1); err != nil {
				return err
			}
			if err := s.adjustCounter(ctx, tx, targetID, targetType, existing.VoteType, -1); err != nil {
				return err
			}
			if err := recordInteraction(ctx, tx, userID, authorID, voteAction(voteType), targetID, targetType); err != nil {
				return err
			}
			result.Status = statusFor(voteType)
			return nil
		}
	})
	if err != nil {
		s.logger.Error("vote cast failed",
			slog.String("userID", userID),
			slog.String("targetID", targetID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("vote cast",
		slog.String("userID", userID),
		slog.String("targetID", targetID),
		slog.String("targetType", string(targetType)),
		slog.String("voteType", string(voteType)),
	)
	return &result, nil
}

// Status reports whether userID has voted on the target, and which way.
func (s *VoteService) Status(ctx context.Context, userID, targetID string, targetType model.VoteTarget) (*model.VoteStatus, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required")
	}

	vote, err := s.store.Votes().Get(ctx, userID, targetID, targetType)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return &model.VoteStatus{}, nil
		}
		return nil, err
	}

	status := statusFor(vote.VoteType)
	return &status, nil
}

// targetAuthor fetches the target's author, failing with NotFound when the
// target doesn't exist.
func (s *VoteService) targetAuthor(ctx context.Context, targetID string, targetType model.VoteTarget) (string, error) {
	switch targetType {
	case model.TargetQuestion:
		q, err := s.store.Questions().GetByID(ctx, targetID)
		if err != nil {
			return "", err
		}
		return q.AuthorID, nil
	case model.TargetAnswer:
		a, err := s.store.Answers().GetByID(ctx, targetID)
		if err != nil {
			return "", err
		}
		return a.AuthorID, nil
	default:
		return "", fmt.Errorf("service/vote: unknown target type %q", targetType)
	}
}

func (s *VoteService) adjustCounter(ctx context.Context, tx repository.Store, targetID string, targetType model.VoteTarget, voteType model.VoteType, delta int) error {
	if targetType == model.TargetAnswer {
		return tx.Answers().AdjustVoteCount(ctx, targetID, voteType, delta)
	}
	return tx.Questions().AdjustVoteCount(ctx, targetID, voteType, delta)
}

func voteAction(voteType model.VoteType) model.InteractionAction {
	if voteType == model.Downvote {
		return model.ActionDownvote
	}
	return model.ActionUpvote
}

func statusFor(voteType model.VoteType) model.VoteStatus {
	return model.VoteStatus{
		HasUpvoted:   voteType == model.Upvote,
		HasDownvoted: voteType == model.Downvote,
	}
}
