package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devforum/internal/model"
	"github.com/sakif/devforum/internal/repository"
)

// interactionRepo is append-only: interactions feed recommendation and
// reputation history, they are never edited or removed.
type interactionRepo struct{ db *DB }

var _ repository.InteractionRepository = (*interactionRepo)(nil)

func (r *interactionRepo) Create(ctx context.Context, in *model.Interaction) error {
	in.ID = xid.New().String()
	in.CreatedAt = time.Now()

	_, err := r.db.q.ExecContext(ctx,
		`INSERT INTO interactions (id, user_id, action_id, action_type, action, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.ActionID, in.ActionType, in.Action, in.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: inserting interaction: %w", err)
	}
	return nil
}
