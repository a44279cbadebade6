package app

import (
	"context"
	"errors"
	"testing"

	"tribunal/ai"
	"tribunal/domain/core"
	"tribunal/domain/trial"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInitialVerdict(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	f.addReadyDoc(t, trial.SideA, "Contract", "The signed contract.")
	f.addReadyDoc(t, trial.SideB, "Correspondence", "Emails disputing delivery.")

	svc := f.verdictService()
	v, err := svc.GenerateInitial(context.Background(), f.userID, f.caseID)
	require.NoError(t, err)

	assert.Equal(t, 0, v.Round)
	assert.Equal(t, "A", v.Payload.Winner)
	assert.Equal(t, f.caseID, v.CaseID)

	c := f.currentCase(t)
	assert.Equal(t, trial.StatusInProgress, c.Status)
	assert.Equal(t, 1, c.CurrentRound)

	require.Len(t, f.oracle.SystemRoles, 1)
	assert.Equal(t, ai.JudgeSystemInitial, f.oracle.SystemRoles[0])
	assert.Contains(t, f.oracle.Briefings[0], "The signed contract.")
	assert.Contains(t, f.oracle.Briefings[0], "Emails disputing delivery.")
}

func TestGenerateInitialRequiresBothSidesEvidence(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	f.addReadyDoc(t, trial.SideA, "Contract", "Only side A submitted.")

	svc := f.verdictService()
	_, err := svc.GenerateInitial(context.Background(), f.userID, f.caseID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEvidenceMissing))
	assert.Contains(t, err.Error(), "Side B has not submitted any documents")

	// Nothing moved.
	c := f.currentCase(t)
	assert.Equal(t, trial.StatusDraft, c.Status)
	assert.Equal(t, 0, c.CurrentRound)
	assert.Equal(t, 0, f.oracle.Calls())
}

func TestGenerateInitialIgnoresUnreadyDocuments(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	f.addReadyDoc(t, trial.SideA, "Contract", "Side A evidence.")

	// Side B has a document, but it never finished extraction.
	pending := &trial.Document{
		ID:     uuid.New(),
		CaseID: f.caseID,
		Side:   trial.SideB,
		Title:  "Stuck upload",
		Status: trial.DocPending,
	}
	require.NoError(t, f.documents.Create(context.Background(), pending))

	svc := f.verdictService()
	_, err := svc.GenerateInitial(context.Background(), f.userID, f.caseID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEvidenceMissing))
}

func TestGenerateInitialDuplicateRejected(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	f.addReadyDoc(t, trial.SideA, "A", "Evidence A.")
	f.addReadyDoc(t, trial.SideB, "B", "Evidence B.")

	svc := f.verdictService()
	_, err := svc.GenerateInitial(context.Background(), f.userID, f.caseID)
	require.NoError(t, err)

	_, err = svc.GenerateInitial(context.Background(), f.userID, f.caseID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDuplicateVerdict))
	assert.Equal(t, 1, f.oracle.Calls())
}

func TestGenerateInitialOracleFailureLeavesCaseDraft(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	f.addReadyDoc(t, trial.SideA, "A", "Evidence A.")
	f.addReadyDoc(t, trial.SideB, "B", "Evidence B.")
	f.oracle.Fail(core.ErrOracleUnavailable)

	svc := f.verdictService()
	_, err := svc.GenerateInitial(context.Background(), f.userID, f.caseID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrOracleUnavailable))

	c := f.currentCase(t)
	assert.Equal(t, trial.StatusDraft, c.Status)
	assert.Equal(t, 0, c.CurrentRound)

	exists, err := f.verdicts.Exists(context.Background(), f.caseID, 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGenerateInitialAccessDenied(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	svc := f.verdictService()

	_, err := svc.GenerateInitial(context.Background(), uuid.New(), f.caseID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAccessDenied))
}

func TestGetVerdictByRound(t *testing.T) {
	f := newFixture(t, trial.StatusDraft, 0)
	f.addReadyDoc(t, trial.SideA, "A", "Evidence A.")
	f.addReadyDoc(t, trial.SideB, "B", "Evidence B.")

	svc := f.verdictService()
	created, err := svc.GenerateInitial(context.Background(), f.userID, f.caseID)
	require.NoError(t, err)

	got, err := svc.GetByRound(context.Background(), f.userID, f.caseID, 0)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByRound(context.Background(), f.userID, f.caseID, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrVerdictNotFound))
}

func TestGetVerdictRoundOutOfRange(t *testing.T) {
	f := newFixture(t, trial.StatusInProgress, 1)
	svc := f.verdictService()

	for _, round := range []int{-1, trial.DefaultMaxRounds + 1} {
		_, err := svc.GetByRound(context.Background(), f.userID, f.caseID, round)
		require.Error(t, err, "round %d", round)
		assert.True(t, errors.Is(err, core.ErrRoundOutOfRange))
	}
}
