package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CaseRepositoryImpl implements CaseRepository for PostgreSQL
type CaseRepositoryImpl struct {
	db *sqlx.DB
}

// NewCaseRepository creates a new PostgreSQL case repository. The
// returned value satisfies both ports.CaseRepository and ports.CaseCounter.
func NewCaseRepository(db *sqlx.DB) *CaseRepositoryImpl {
	return &CaseRepositoryImpl{db: db}
}

const caseColumns = `id, case_number, title, description, case_type, jurisdiction, created_by, status, current_round, max_rounds, created_at, updated_at, finalized_at`

// Create persists a new case
func (r *CaseRepositoryImpl) Create(ctx context.Context, c *trial.Case) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cases (id, case_number, title, description, case_type, jurisdiction, created_by, status, current_round, max_rounds, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, c.ID, c.CaseNumber, c.Title, c.Description, c.CaseType, c.Jurisdiction, c.CreatedBy, c.Status, c.CurrentRound, c.MaxRounds, c.CreatedAt, c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert case: %w", err)
	}
	return nil
}

// GetByID retrieves a case by its identifier
func (r *CaseRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*trial.Case, error) {
	var c trial.Case
	err := r.db.GetContext(ctx, &c, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return &c, nil
}

// ListByOwner returns all cases created by a user, newest first
func (r *CaseRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]trial.Case, error) {
	var cases []trial.Case
	err := r.db.SelectContext(ctx, &cases, `
		SELECT `+caseColumns+` FROM cases WHERE created_by = $1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

// Update rewrites the mutable case fields
func (r *CaseRepositoryImpl) Update(ctx context.Context, c *trial.Case) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cases
		SET title = $2, description = $3, case_type = $4, jurisdiction = $5, updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Title, c.Description, c.CaseType, c.Jurisdiction)
	if err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrCaseNotFound
	}
	return nil
}

// Delete removes a case and, via cascades, its documents, arguments and
// verdicts
func (r *CaseRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrCaseNotFound
	}
	return nil
}

// Finalize marks the case finalized. The guard on status keeps a repeated
// call from silently rewriting finalized_at.
func (r *CaseRepositoryImpl) Finalize(ctx context.Context, id uuid.UUID, at time.Time) (*trial.Case, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cases
		SET status = $2, finalized_at = $3, updated_at = NOW()
		WHERE id = $1 AND status != $2
	`, id, trial.StatusFinalized, at)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize case: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, core.ErrCaseFinalized
	}
	return r.GetByID(ctx, id)
}

// Counts aggregates related-entity counts for a case detail view
func (r *CaseRepositoryImpl) Counts(ctx context.Context, caseID uuid.UUID) (*ports.CaseCounts, error) {
	var counts ports.CaseCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM documents WHERE case_id = $1),
			(SELECT COUNT(*) FROM documents WHERE case_id = $1 AND side = 'A'),
			(SELECT COUNT(*) FROM documents WHERE case_id = $1 AND side = 'B'),
			(SELECT COUNT(*) FROM arguments WHERE case_id = $1),
			(SELECT COUNT(*) FROM verdicts WHERE case_id = $1)
	`, caseID).Scan(&counts.Documents, &counts.SideADocs, &counts.SideBDocs, &counts.Arguments, &counts.Verdicts)
	if err != nil {
		return nil, fmt.Errorf("failed to count case relations: %w", err)
	}
	return &counts, nil
}
