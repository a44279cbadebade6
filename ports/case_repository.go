package ports

import (
	"context"
	"time"

	"tribunal/domain/trial"

	"github.com/google/uuid"
)

// CaseRepository defines persistence operations for cases
type CaseRepository interface {
	Create(ctx context.Context, c *trial.Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*trial.Case, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]trial.Case, error)
	Update(ctx context.Context, c *trial.Case) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Finalize marks the case finalized with the given timestamp.
	Finalize(ctx context.Context, id uuid.UUID, at time.Time) (*trial.Case, error)
}

// CaseCounts aggregates related-entity counts for a case detail view.
type CaseCounts struct {
	Documents  int `json:"documents_count"`
	SideADocs  int `json:"side_a_docs_count"`
	SideBDocs  int `json:"side_b_docs_count"`
	Arguments  int `json:"arguments_count"`
	Verdicts   int `json:"verdicts_count"`
}

// CaseCounter reports related-entity counts for a case.
type CaseCounter interface {
	Counts(ctx context.Context, caseID uuid.UUID) (*CaseCounts, error)
}
