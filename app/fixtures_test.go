package app

import (
	"context"
	"testing"
	"time"

	"tribunal/domain/trial"
	"tribunal/internal/testkit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fixture wires the in-memory stores and a scripted oracle around one
// owner and one case.
type fixture struct {
	cases     *testkit.CaseStore
	documents *testkit.DocumentStore
	arguments *testkit.ArgumentStore
	verdicts  *testkit.VerdictStore
	oracle    *testkit.ScriptedOracle

	userID uuid.UUID
	caseID uuid.UUID
}

func newFixture(t *testing.T, status trial.CaseStatus, currentRound int) *fixture {
	t.Helper()

	cases := testkit.NewCaseStore()
	documents := testkit.NewDocumentStore()
	arguments := testkit.NewArgumentStore()
	verdicts := testkit.NewVerdictStore(cases)
	cases.Documents = documents
	cases.Arguments = arguments
	cases.Verdicts = verdicts

	f := &fixture{
		cases:     cases,
		documents: documents,
		arguments: arguments,
		verdicts:  verdicts,
		oracle:    testkit.NewScriptedOracle(testkit.Judgment("A", 0.8)),
		userID:    uuid.New(),
		caseID:    uuid.New(),
	}

	now := time.Now().UTC()
	c := &trial.Case{
		ID:           f.caseID,
		CaseNumber:   "CAS-2026-TEST01",
		Title:        "Test v. Case",
		Description:  "A dispute used in tests.",
		CaseType:     "civil",
		Jurisdiction: "Testing",
		CreatedBy:    f.userID,
		Status:       status,
		CurrentRound: currentRound,
		MaxRounds:    trial.DefaultMaxRounds,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == trial.StatusFinalized {
		c.FinalizedAt = &now
	}
	require.NoError(t, cases.Create(context.Background(), c))

	return f
}

func (f *fixture) addReadyDoc(t *testing.T, side trial.Side, title, text string) {
	t.Helper()
	words := len(text)
	pages := 1
	doc := &trial.Document{
		ID:         uuid.New(),
		CaseID:     f.caseID,
		Side:       side,
		Title:      title,
		FileName:   title + ".txt",
		FileType:   "txt",
		FullText:   &text,
		WordCount:  &words,
		PageCount:  &pages,
		UploadedBy: f.userID,
		UploadedAt: time.Now().UTC(),
		Status:     trial.DocReady,
	}
	require.NoError(t, f.documents.Create(context.Background(), doc))
}

func (f *fixture) currentCase(t *testing.T) *trial.Case {
	t.Helper()
	c, err := f.cases.GetByID(context.Background(), f.caseID)
	require.NoError(t, err)
	return c
}

func (f *fixture) verdictService() *VerdictService {
	return NewVerdictService(f.cases, f.documents, f.verdicts, f.oracle)
}

func (f *fixture) argumentService() *ArgumentService {
	return NewArgumentService(f.cases, f.documents, f.arguments, f.verdicts, f.oracle)
}

func (f *fixture) caseService() *CaseService {
	return NewCaseService(f.cases, f.cases, f.verdicts)
}
