package ports

import (
	"context"

	"tribunal/domain/trial"
	"tribunal/domain/verdict"

	"github.com/google/uuid"
)

// VerdictRepository guarantees verdict uniqueness per (case, round) and
// ordered access.
type VerdictRepository interface {
	Exists(ctx context.Context, caseID uuid.UUID, round int) (bool, error)

	// GetByRound returns the verdict for a round, or
	// core.ErrVerdictNotFound when absent.
	GetByRound(ctx context.Context, caseID uuid.UUID, round int) (*verdict.Verdict, error)

	// ListByCase returns all verdicts ordered by ascending round.
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]verdict.Verdict, error)

	// CreateAndAdvance persists the verdict and applies the case progress
	// update in a single transaction: either both commit or neither does.
	// Returns core.ErrDuplicateVerdict when a verdict for (case, round)
	// already exists; the case state is untouched in that event.
	CreateAndAdvance(ctx context.Context, v *verdict.Verdict, next trial.Progress) error
}
