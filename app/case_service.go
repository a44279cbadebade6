package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/internal/analysis"
	"tribunal/ports"

	"github.com/google/uuid"
)

// caseTypes are the accepted case classifications.
var caseTypes = map[string]bool{
	"civil":          true,
	"criminal":       true,
	"corporate":      true,
	"constitutional": true,
	"family":         true,
}

// CreateCaseInput carries the fields a new case is built from.
type CreateCaseInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CaseType     string `json:"case_type"`
	Jurisdiction string `json:"jurisdiction"`
}

// UpdateCaseInput carries optional case updates; nil fields stay unchanged.
type UpdateCaseInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	CaseType     *string `json:"case_type"`
	Jurisdiction *string `json:"jurisdiction"`
}

// CaseDetail is a case with related-entity counts and confidence trend.
type CaseDetail struct {
	trial.Case
	ports.CaseCounts
	ConfidenceTrend *analysis.ConfidenceTrend `json:"confidence_trend,omitempty"`
}

// CaseService handles case lifecycle outside the round state machine.
type CaseService struct {
	cases    ports.CaseRepository
	counter  ports.CaseCounter
	verdicts ports.VerdictRepository
}

// NewCaseService creates a new case service
func NewCaseService(cases ports.CaseRepository, counter ports.CaseCounter, verdicts ports.VerdictRepository) *CaseService {
	return &CaseService{
		cases:    cases,
		counter:  counter,
		verdicts: verdicts,
	}
}

// generateCaseNumber builds a unique case number: CAS-YYYY-XXXXXX
func generateCaseNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("CAS-%d-%s", time.Now().UTC().Year(), suffix)
}

// Create creates a new case in draft with round 0.
func (s *CaseService) Create(ctx context.Context, userID uuid.UUID, input CreateCaseInput) (*trial.Case, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > 500 {
		return nil, core.NewValidationError("title must be 1-500 characters")
	}
	jurisdiction := strings.TrimSpace(input.Jurisdiction)
	if jurisdiction == "" || len(jurisdiction) > 100 {
		return nil, core.NewValidationError("jurisdiction must be 1-100 characters")
	}
	caseType := input.CaseType
	if caseType == "" {
		caseType = "civil"
	}
	if !caseTypes[caseType] {
		return nil, core.NewValidationError("unknown case type: " + caseType)
	}

	now := time.Now().UTC()
	c := &trial.Case{
		ID:           uuid.New(),
		CaseNumber:   generateCaseNumber(),
		Title:        title,
		Description:  input.Description,
		CaseType:     caseType,
		Jurisdiction: jurisdiction,
		CreatedBy:    userID,
		Status:       trial.StatusDraft,
		CurrentRound: 0,
		MaxRounds:    trial.DefaultMaxRounds,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.cases.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Printf("[CaseService] Case created: %s (%s)", c.CaseNumber, c.ID)
	return c, nil
}

// Get returns a case if the caller owns it.
func (s *CaseService) Get(ctx context.Context, userID, caseID uuid.UUID) (*trial.Case, error) {
	return s.ownedCase(ctx, userID, caseID)
}

// Detail returns a case with counts and the confidence trend across its
// verdicts.
func (s *CaseService) Detail(ctx context.Context, userID, caseID uuid.UUID) (*CaseDetail, error) {
	c, err := s.ownedCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}

	counts, err := s.counter.Counts(ctx, caseID)
	if err != nil {
		return nil, err
	}

	verdicts, err := s.verdicts.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	return &CaseDetail{
		Case:            *c,
		CaseCounts:      *counts,
		ConfidenceTrend: analysis.Confidence(verdicts),
	}, nil
}

// List returns the caller's cases.
func (s *CaseService) List(ctx context.Context, userID uuid.UUID) ([]trial.Case, error) {
	return s.cases.ListByOwner(ctx, userID)
}

// Update applies partial updates to a case the caller owns.
func (s *CaseService) Update(ctx context.Context, userID, caseID uuid.UUID, input UpdateCaseInput) (*trial.Case, error) {
	c, err := s.ownedCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status == trial.StatusFinalized {
		return nil, core.ErrCaseFinalized
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" || len(title) > 500 {
			return nil, core.NewValidationError("title must be 1-500 characters")
		}
		c.Title = title
	}
	if input.Description != nil {
		c.Description = *input.Description
	}
	if input.CaseType != nil {
		if !caseTypes[*input.CaseType] {
			return nil, core.NewValidationError("unknown case type: " + *input.CaseType)
		}
		c.CaseType = *input.CaseType
	}
	if input.Jurisdiction != nil {
		jurisdiction := strings.TrimSpace(*input.Jurisdiction)
		if jurisdiction == "" || len(jurisdiction) > 100 {
			return nil, core.NewValidationError("jurisdiction must be 1-100 characters")
		}
		c.Jurisdiction = jurisdiction
	}

	if err := s.cases.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.cases.GetByID(ctx, caseID)
}

// Delete removes a case the caller owns.
func (s *CaseService) Delete(ctx context.Context, userID, caseID uuid.UUID) error {
	if _, err := s.ownedCase(ctx, userID, caseID); err != nil {
		return err
	}
	return s.cases.Delete(ctx, caseID)
}

// Finalize marks a case complete. Requires the round-0 verdict to exist
// and the case to not already be finalized. Finalization is terminal.
func (s *CaseService) Finalize(ctx context.Context, userID, caseID uuid.UUID) (*trial.Case, error) {
	c, err := s.ownedCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status == trial.StatusFinalized {
		return nil, core.ErrCaseFinalized
	}

	_, err = s.verdicts.GetByRound(ctx, caseID, 0)
	if err != nil {
		if errors.Is(err, core.ErrVerdictNotFound) {
			return nil, core.NewValidationError("cannot finalize case without an initial verdict")
		}
		return nil, err
	}

	finalized, err := s.cases.Finalize(ctx, caseID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	log.Printf("[CaseService] Case finalized: %s", finalized.CaseNumber)
	return finalized, nil
}

func (s *CaseService) ownedCase(ctx context.Context, userID, caseID uuid.UUID) (*trial.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.CreatedBy != userID {
		return nil, core.ErrAccessDenied
	}
	return c, nil
}
