package ports

import (
	"context"

	"tribunal/domain/trial"

	"github.com/google/uuid"
)

// ArgumentRepository defines persistence operations for round arguments.
// The (case_id, round, side) uniqueness invariant is enforced here, at the
// persistence boundary, not merely in application logic.
type ArgumentRepository interface {
	// Create persists a new argument. Returns
	// core.ErrDuplicateSubmission when the (case, round, side) slot is
	// already filled.
	Create(ctx context.Context, a *trial.Argument) error

	// ListByRound returns both sides' arguments for one round.
	ListByRound(ctx context.Context, caseID uuid.UUID, round int) ([]trial.Argument, error)

	// ListByCase returns all arguments ordered by round, then side.
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]trial.Argument, error)
}
