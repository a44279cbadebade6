package postgres

import (
	"context"
	"fmt"

	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ArgumentRepositoryImpl implements ArgumentRepository for PostgreSQL
type ArgumentRepositoryImpl struct {
	db *sqlx.DB
}

// NewArgumentRepository creates a new PostgreSQL argument repository
func NewArgumentRepository(db *sqlx.DB) ports.ArgumentRepository {
	return &ArgumentRepositoryImpl{db: db}
}

// Create persists a new argument. The unique index on
// (case_id, round, side) rejects a second writer for the same slot; that
// rejection surfaces as core.ErrDuplicateSubmission.
func (r *ArgumentRepositoryImpl) Create(ctx context.Context, a *trial.Argument) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO arguments (id, case_id, round, side, argument_text, submitted_by, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.CaseID, a.Round, a.Side, a.ArgumentText, a.SubmittedBy, a.SubmittedAt)

	if err != nil {
		if isUniqueViolation(err, "arguments_case_round_side_key") {
			return core.ErrDuplicateSubmission
		}
		return fmt.Errorf("failed to insert argument: %w", err)
	}
	return nil
}

// ListByRound returns both sides' arguments for one round
func (r *ArgumentRepositoryImpl) ListByRound(ctx context.Context, caseID uuid.UUID, round int) ([]trial.Argument, error) {
	var args []trial.Argument
	err := r.db.SelectContext(ctx, &args, `
		SELECT id, case_id, round, side, argument_text, submitted_by, submitted_at
		FROM arguments
		WHERE case_id = $1 AND round = $2
		ORDER BY side ASC
	`, caseID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to list round arguments: %w", err)
	}
	return args, nil
}

// ListByCase returns all arguments ordered by round, then side
func (r *ArgumentRepositoryImpl) ListByCase(ctx context.Context, caseID uuid.UUID) ([]trial.Argument, error) {
	var args []trial.Argument
	err := r.db.SelectContext(ctx, &args, `
		SELECT id, case_id, round, side, argument_text, submitted_by, submitted_at
		FROM arguments
		WHERE case_id = $1
		ORDER BY round ASC, side ASC
	`, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list case arguments: %w", err)
	}
	return args, nil
}
