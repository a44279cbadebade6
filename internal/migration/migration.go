package migration

import (
	"context"

	"tribunal/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createUsersTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create users table")
	}

	if err := r.createCasesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create cases table")
	}

	if err := r.createDocumentsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create documents table")
	}

	if err := r.createArgumentsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create arguments table")
	}

	if err := r.createVerdictsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create verdicts table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createUsersTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			phone_hash VARCHAR(255) UNIQUE NOT NULL,
			full_name VARCHAR(255),
			email VARCHAR(255),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			last_login TIMESTAMP WITH TIME ZONE
		)
	`)
	return err
}

func (r *MigrationRunner) createCasesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cases (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			case_number VARCHAR(50) UNIQUE NOT NULL,
			title VARCHAR(500) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			case_type VARCHAR(50) NOT NULL DEFAULT 'civil',
			jurisdiction VARCHAR(100) NOT NULL,
			created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			status VARCHAR(50) NOT NULL DEFAULT 'draft',
			current_round INTEGER NOT NULL DEFAULT 0,
			max_rounds INTEGER NOT NULL DEFAULT 5,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			finalized_at TIMESTAMP WITH TIME ZONE,
			CONSTRAINT cases_round_bounds CHECK (current_round >= 0 AND current_round <= max_rounds)
		)
	`)
	return err
}

func (r *MigrationRunner) createDocumentsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			case_id UUID NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			side VARCHAR(1) NOT NULL CHECK (side IN ('A', 'B')),
			title VARCHAR(500) NOT NULL,
			file_name VARCHAR(500) NOT NULL,
			file_path VARCHAR(1000) NOT NULL,
			file_type VARCHAR(50) NOT NULL,
			full_text TEXT,
			page_count INTEGER,
			word_count INTEGER,
			uploaded_by UUID NOT NULL REFERENCES users(id),
			uploaded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			error_message TEXT
		)
	`)
	return err
}

func (r *MigrationRunner) createArgumentsTable(ctx context.Context, db *sqlx.DB) error {
	// The UNIQUE constraint is the submission gate's backstop: two racing
	// submissions for the same slot cannot both commit.
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS arguments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			case_id UUID NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			round INTEGER NOT NULL,
			side VARCHAR(1) NOT NULL CHECK (side IN ('A', 'B')),
			argument_text TEXT NOT NULL,
			submitted_by UUID NOT NULL REFERENCES users(id),
			submitted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			CONSTRAINT arguments_case_round_side_key UNIQUE (case_id, round, side)
		)
	`)
	return err
}

func (r *MigrationRunner) createVerdictsTable(ctx context.Context, db *sqlx.DB) error {
	// UNIQUE (case_id, round) makes verdict creation the compare-and-swap
	// that serializes racing adjudication triggers.
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS verdicts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			case_id UUID NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			round INTEGER NOT NULL,
			verdict_json JSONB NOT NULL,
			model_used VARCHAR(100) NOT NULL,
			tokens_used INTEGER,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			CONSTRAINT verdicts_case_round_key UNIQUE (case_id, round)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_cases_created_by ON cases(created_by)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_case_id ON documents(case_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_case_status ON documents(case_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_arguments_case_id ON arguments(case_id)`,
		`CREATE INDEX IF NOT EXISTS idx_verdicts_case_id ON verdicts(case_id)`,
	}

	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}

	return nil
}
