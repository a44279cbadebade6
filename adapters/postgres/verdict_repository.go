package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/domain/verdict"
	"tribunal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// VerdictRepositoryImpl implements VerdictRepository for PostgreSQL
type VerdictRepositoryImpl struct {
	db *sqlx.DB
}

// NewVerdictRepository creates a new PostgreSQL verdict repository
func NewVerdictRepository(db *sqlx.DB) ports.VerdictRepository {
	return &VerdictRepositoryImpl{db: db}
}

// Exists reports whether a verdict for (case, round) has been persisted
func (r *VerdictRepositoryImpl) Exists(ctx context.Context, caseID uuid.UUID, round int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM verdicts WHERE case_id = $1 AND round = $2)
	`, caseID, round).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check verdict existence: %w", err)
	}
	return exists, nil
}

// GetByRound retrieves the verdict for a specific round
func (r *VerdictRepositoryImpl) GetByRound(ctx context.Context, caseID uuid.UUID, round int) (*verdict.Verdict, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, case_id, round, verdict_json, model_used, tokens_used, created_at
		FROM verdicts
		WHERE case_id = $1 AND round = $2
	`, caseID, round)

	v, err := scanVerdict(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrVerdictNotFound
		}
		return nil, fmt.Errorf("failed to get verdict: %w", err)
	}
	return v, nil
}

// ListByCase returns all verdicts ordered by ascending round
func (r *VerdictRepositoryImpl) ListByCase(ctx context.Context, caseID uuid.UUID) ([]verdict.Verdict, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, case_id, round, verdict_json, model_used, tokens_used, created_at
		FROM verdicts
		WHERE case_id = $1
		ORDER BY round ASC
	`, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query verdicts: %w", err)
	}
	defer rows.Close()

	var verdicts []verdict.Verdict
	for rows.Next() {
		v, err := scanVerdict(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verdict: %w", err)
		}
		verdicts = append(verdicts, *v)
	}
	return verdicts, rows.Err()
}

// CreateAndAdvance persists the verdict and the case round/status update in
// a single transaction. The verdict and the round counter never disagree:
// if the insert hits the (case_id, round) unique index the whole
// transaction rolls back and core.ErrDuplicateVerdict is returned with the
// case untouched.
func (r *VerdictRepositoryImpl) CreateAndAdvance(ctx context.Context, v *verdict.Verdict, next trial.Progress) error {
	payloadJSON, err := json.Marshal(v.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict payload: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO verdicts (id, case_id, round, verdict_json, model_used, tokens_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, v.ID, v.CaseID, v.Round, payloadJSON, v.ModelUsed, v.TokensUsed, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "verdicts_case_round_key") {
			return core.ErrDuplicateVerdict
		}
		return fmt.Errorf("failed to insert verdict: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE cases
		SET status = $2, current_round = $3, updated_at = NOW()
		WHERE id = $1
	`, next.CaseID, next.Status, next.CurrentRound)
	if err != nil {
		return fmt.Errorf("failed to advance case state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit verdict transaction: %w", err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVerdict(row rowScanner) (*verdict.Verdict, error) {
	var v verdict.Verdict
	var payloadJSON []byte

	err := row.Scan(&v.ID, &v.CaseID, &v.Round, &payloadJSON, &v.ModelUsed, &v.TokensUsed, &v.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payloadJSON, &v.Payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verdict payload: %w", err)
	}
	return &v, nil
}
