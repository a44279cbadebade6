package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DocumentRepositoryImpl implements DocumentRepository for PostgreSQL
type DocumentRepositoryImpl struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new PostgreSQL document repository
func NewDocumentRepository(db *sqlx.DB) ports.DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

const documentColumns = `id, case_id, side, title, file_name, file_path, file_type, full_text, page_count, word_count, uploaded_by, uploaded_at, status, error_message`

// Create persists a new document record
func (r *DocumentRepositoryImpl) Create(ctx context.Context, d *trial.Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, case_id, side, title, file_name, file_path, file_type, uploaded_by, uploaded_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, d.ID, d.CaseID, d.Side, d.Title, d.FileName, d.FilePath, d.FileType, d.UploadedBy, d.UploadedAt, d.Status)

	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByID retrieves a document scoped to its case
func (r *DocumentRepositoryImpl) GetByID(ctx context.Context, caseID, id uuid.UUID) (*trial.Document, error) {
	var d trial.Document
	err := r.db.GetContext(ctx, &d, `
		SELECT `+documentColumns+` FROM documents WHERE case_id = $1 AND id = $2
	`, caseID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// ListByCase returns all documents for a case in upload order
func (r *DocumentRepositoryImpl) ListByCase(ctx context.Context, caseID uuid.UUID) ([]trial.Document, error) {
	var docs []trial.Document
	err := r.db.SelectContext(ctx, &docs, `
		SELECT `+documentColumns+` FROM documents WHERE case_id = $1 ORDER BY uploaded_at ASC
	`, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// ListReady returns only documents whose extraction completed
func (r *DocumentRepositoryImpl) ListReady(ctx context.Context, caseID uuid.UUID) ([]trial.Document, error) {
	var docs []trial.Document
	err := r.db.SelectContext(ctx, &docs, `
		SELECT `+documentColumns+` FROM documents
		WHERE case_id = $1 AND status = $2
		ORDER BY uploaded_at ASC
	`, caseID, trial.DocReady)
	if err != nil {
		return nil, fmt.Errorf("failed to list ready documents: %w", err)
	}
	return docs, nil
}

// MarkProcessing flips a pending document to processing
func (r *DocumentRepositoryImpl) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE documents SET status = $2 WHERE id = $1
	`, id, trial.DocProcessing)
	if err != nil {
		return fmt.Errorf("failed to mark document processing: %w", err)
	}
	return nil
}

// MarkReady stores extracted text and flips the document to ready
func (r *DocumentRepositoryImpl) MarkReady(ctx context.Context, id uuid.UUID, fullText string, wordCount, pageCount int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET status = $2, full_text = $3, word_count = $4, page_count = $5, error_message = NULL
		WHERE id = $1
	`, id, trial.DocReady, fullText, wordCount, pageCount)
	if err != nil {
		return fmt.Errorf("failed to mark document ready: %w", err)
	}
	return nil
}

// MarkFailed records the terminal extraction failure with its reason
func (r *DocumentRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE documents SET status = $2, error_message = $3 WHERE id = $1
	`, id, trial.DocFailed, reason)
	if err != nil {
		return fmt.Errorf("failed to mark document failed: %w", err)
	}
	return nil
}

// Delete removes a document record
func (r *DocumentRepositoryImpl) Delete(ctx context.Context, caseID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM documents WHERE case_id = $1 AND id = $2
	`, caseID, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrDocumentNotFound
	}
	return nil
}
