package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tribunal/ai"
	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/domain/verdict"
	"tribunal/ports"

	"github.com/google/uuid"
)

// SubmitResult is what a submission returns: always the created argument,
// plus either the newly generated verdict or an explicit waiting signal.
// There is no silent partial state.
type SubmitResult struct {
	Argument            *trial.Argument  `json:"argument"`
	Verdict             *verdict.Verdict `json:"verdict,omitempty"`
	WaitingForOtherSide bool             `json:"waiting_for_other_side"`
	Message             string           `json:"message"`
}

// ArgumentService enforces turn-taking for argument submission and drives
// round advancement once both sides have acted.
type ArgumentService struct {
	cases     ports.CaseRepository
	documents ports.DocumentRepository
	arguments ports.ArgumentRepository
	verdicts  ports.VerdictRepository
	oracle    ports.Oracle
	assembler *ai.Assembler
}

// NewArgumentService creates a new argument service
func NewArgumentService(
	cases ports.CaseRepository,
	documents ports.DocumentRepository,
	arguments ports.ArgumentRepository,
	verdicts ports.VerdictRepository,
	oracle ports.Oracle,
) *ArgumentService {
	return &ArgumentService{
		cases:     cases,
		documents: documents,
		arguments: arguments,
		verdicts:  verdicts,
		oracle:    oracle,
		assembler: ai.NewAssembler(),
	}
}

// Submit admits an argument for the case's current round and, when both
// sides have now submitted, triggers adjudication and advances the round.
//
// Admission order: finalized check, draft check, round limit, duplicate
// slot. A single-side submission is a normal outcome, returned with
// WaitingForOtherSide set and no oracle call made.
func (s *ArgumentService) Submit(ctx context.Context, userID, caseID uuid.UUID, side trial.Side, text string) (*SubmitResult, error) {
	if !side.Valid() {
		return nil, core.ErrInvalidSide
	}
	if len(strings.TrimSpace(text)) < trial.MinArgumentLength {
		return nil, core.ErrArgumentTooShort
	}

	c, err := s.ownedCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}

	switch {
	case c.Status == trial.StatusFinalized:
		return nil, core.ErrCaseFinalized
	case c.Status == trial.StatusDraft:
		return nil, core.ErrCaseNotReady
	case c.CurrentRound >= c.MaxRounds:
		return nil, core.ErrRoundLimitReached
	}

	round := c.CurrentRound
	arg := &trial.Argument{
		ID:           uuid.New(),
		CaseID:       caseID,
		Round:        round,
		Side:         side,
		ArgumentText: text,
		SubmittedBy:  userID,
		SubmittedAt:  time.Now().UTC(),
	}
	if err := s.arguments.Create(ctx, arg); err != nil {
		return nil, err
	}

	roundArgs, err := s.arguments.ListByRound(ctx, caseID, round)
	if err != nil {
		return nil, err
	}
	sideAArgs, sideBArgs := trial.SplitArgumentsBySide(roundArgs)
	if len(sideAArgs) == 0 || len(sideBArgs) == 0 {
		return &SubmitResult{
			Argument:            arg,
			WaitingForOtherSide: true,
			Message:             fmt.Sprintf("Argument submitted. Waiting for Side %s to submit.", side.Opponent()),
		}, nil
	}

	v, err := s.adjudicate(ctx, c, round, sideAArgs, sideBArgs)
	if err != nil {
		// The admitted arguments stay persisted and the round does not
		// advance; the trigger can be retried without resubmission.
		return nil, err
	}

	return &SubmitResult{
		Argument: arg,
		Verdict:  v,
		Message:  "Argument submitted and verdict generated",
	}, nil
}

// Resume retries adjudication for the current round after a failed oracle
// call. It only acts when both arguments are already admitted and no
// verdict exists for the round.
func (s *ArgumentService) Resume(ctx context.Context, userID, caseID uuid.UUID) (*verdict.Verdict, error) {
	c, err := s.ownedCase(ctx, userID, caseID)
	if err != nil {
		return nil, err
	}

	switch {
	case c.Status == trial.StatusFinalized:
		return nil, core.ErrCaseFinalized
	case c.Status == trial.StatusDraft:
		return nil, core.ErrCaseNotReady
	case c.CurrentRound >= c.MaxRounds:
		return nil, core.ErrRoundLimitReached
	}

	round := c.CurrentRound
	roundArgs, err := s.arguments.ListByRound(ctx, caseID, round)
	if err != nil {
		return nil, err
	}
	sideAArgs, sideBArgs := trial.SplitArgumentsBySide(roundArgs)
	if len(sideAArgs) == 0 || len(sideBArgs) == 0 {
		return nil, core.NewValidationError("both sides must submit before adjudication can run")
	}

	return s.adjudicate(ctx, c, round, sideAArgs, sideBArgs)
}

// List returns all arguments for a case ordered by round, then side.
func (s *ArgumentService) List(ctx context.Context, userID, caseID uuid.UUID) ([]trial.Argument, error) {
	if _, err := s.ownedCase(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return s.arguments.ListByCase(ctx, caseID)
}

// adjudicate assembles the round briefing, invokes the oracle, and commits
// the verdict together with the round increment. If a concurrent trigger
// already created the round's verdict, that verdict is fetched and returned
// instead of surfacing the conflict.
func (s *ArgumentService) adjudicate(ctx context.Context, c *trial.Case, round int, sideAArgs, sideBArgs []trial.Argument) (*verdict.Verdict, error) {
	ready, err := s.documents.ListReady(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	sideADocs, sideBDocs := trial.SplitBySide(ready)

	prev, err := s.verdicts.GetByRound(ctx, c.ID, round-1)
	if err != nil && !errors.Is(err, core.ErrVerdictNotFound) {
		return nil, err
	}

	briefing := s.assembler.Round(c, round, sideADocs, sideBDocs, sideAArgs, sideBArgs, prev)

	judgment, err := s.oracle.Judge(ctx, ai.JudgeSystemRound, briefing)
	if err != nil {
		return nil, err
	}

	v := verdict.NewVerdict(c.ID, round, judgment)
	err = s.verdicts.CreateAndAdvance(ctx, v, trial.Progress{
		CaseID:       c.ID,
		Status:       trial.StatusInProgress,
		CurrentRound: round + 1,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateVerdict) {
			log.Printf("[ArgumentService] Concurrent adjudication for case %s round %d, returning winner's result", c.ID, round)
			return s.verdicts.GetByRound(ctx, c.ID, round)
		}
		return nil, err
	}

	log.Printf("[ArgumentService] Round %d verdict created for case %s - winner=%s", round, c.ID, v.Payload.Winner)
	return v, nil
}

func (s *ArgumentService) ownedCase(ctx context.Context, userID, caseID uuid.UUID) (*trial.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.CreatedBy != userID {
		return nil, core.ErrAccessDenied
	}
	return c, nil
}
