package ports

import (
	"context"

	"tribunal/domain/trial"

	"github.com/google/uuid"
)

// DocumentRepository defines persistence operations for case evidence
type DocumentRepository interface {
	Create(ctx context.Context, d *trial.Document) error
	GetByID(ctx context.Context, caseID, id uuid.UUID) (*trial.Document, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]trial.Document, error)

	// ListReady returns only documents whose text extraction completed.
	ListReady(ctx context.Context, caseID uuid.UUID) ([]trial.Document, error)

	// MarkProcessing flips a pending document to processing.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// MarkReady stores the extracted text and counts and flips to ready.
	MarkReady(ctx context.Context, id uuid.UUID, fullText string, wordCount, pageCount int) error

	// MarkFailed records the terminal failure with its reason.
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error

	Delete(ctx context.Context, caseID, id uuid.UUID) error
}
