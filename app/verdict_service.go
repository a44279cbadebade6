package app

import (
	"context"
	"errors"
	"log"

	"tribunal/ai"
	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/domain/verdict"
	"tribunal/ports"

	"github.com/google/uuid"
)

// VerdictService orchestrates initial adjudication and verdict retrieval.
type VerdictService struct {
	cases     ports.CaseRepository
	documents ports.DocumentRepository
	verdicts  ports.VerdictRepository
	oracle    ports.Oracle
	assembler *ai.Assembler
}

// NewVerdictService creates a new verdict service
func NewVerdictService(
	cases ports.CaseRepository,
	documents ports.DocumentRepository,
	verdicts ports.VerdictRepository,
	oracle ports.Oracle,
) *VerdictService {
	return &VerdictService{
		cases:     cases,
		documents: documents,
		verdicts:  verdicts,
		oracle:    oracle,
		assembler: ai.NewAssembler(),
	}
}

// GenerateInitial produces the round-0 verdict for a case. It requires at
// least one ready document on each side and no existing round-0 verdict.
// On success the case moves to in_progress with current_round 1; on any
// failure the case stays in draft and no verdict is persisted.
func (s *VerdictService) GenerateInitial(ctx context.Context, userID, caseID uuid.UUID) (*verdict.Verdict, error) {
	c, err := s.ownedCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}

	exists, err := s.verdicts.Exists(ctx, caseID, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.ErrDuplicateVerdict
	}

	ready, err := s.documents.ListReady(ctx, caseID)
	if err != nil {
		return nil, err
	}
	sideADocs, sideBDocs := trial.SplitBySide(ready)
	if len(sideADocs) == 0 {
		return nil, core.NewSideMissingEvidenceError("A")
	}
	if len(sideBDocs) == 0 {
		return nil, core.NewSideMissingEvidenceError("B")
	}

	briefing := s.assembler.Initial(c, sideADocs, sideBDocs)

	judgment, err := s.oracle.Judge(ctx, ai.JudgeSystemInitial, briefing)
	if err != nil {
		return nil, err
	}

	v := verdict.NewVerdict(caseID, 0, judgment)
	err = s.verdicts.CreateAndAdvance(ctx, v, trial.Progress{
		CaseID:       caseID,
		Status:       trial.StatusInProgress,
		CurrentRound: 1,
	})
	if err != nil {
		// Another caller won the race past the existence check; the
		// persisted verdict is the result, not an error.
		if errors.Is(err, core.ErrDuplicateVerdict) {
			log.Printf("[VerdictService] Concurrent initial verdict for case %s, returning winner's result", caseID)
			return s.verdicts.GetByRound(ctx, caseID, 0)
		}
		return nil, err
	}

	log.Printf("[VerdictService] Initial verdict created for case %s - winner=%s", caseID, v.Payload.Winner)
	return v, nil
}

// GetByRound returns the verdict for one round of a case.
func (s *VerdictService) GetByRound(ctx context.Context, userID, caseID uuid.UUID, round int) (*verdict.Verdict, error) {
	c, err := s.ownedCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}
	if round < 0 || round > c.MaxRounds {
		return nil, core.ErrRoundOutOfRange
	}
	return s.verdicts.GetByRound(ctx, caseID, round)
}

// List returns all verdicts for a case ordered by ascending round.
func (s *VerdictService) List(ctx context.Context, userID, caseID uuid.UUID) ([]verdict.Verdict, error) {
	if _, err := s.ownedCase(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return s.verdicts.ListByCase(ctx, caseID)
}

func (s *VerdictService) ownedCase(ctx context.Context, userID, caseID uuid.UUID) (*trial.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.CreatedBy != userID {
		return nil, core.ErrAccessDenied
	}
	return c, nil
}
