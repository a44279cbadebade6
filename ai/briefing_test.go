package ai

import (
	"strings"
	"testing"

	"tribunal/domain/trial"
	"tribunal/domain/verdict"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCase() *trial.Case {
	return &trial.Case{
		ID:           uuid.New(),
		CaseNumber:   "CAS-2026-ABC123",
		Title:        "Smith v. Jones",
		Description:  "Contract dispute over delivery terms.",
		CaseType:     "civil",
		Jurisdiction: "California",
		Status:       trial.StatusInProgress,
		CurrentRound: 1,
		MaxRounds:    trial.DefaultMaxRounds,
	}
}

func readyDoc(side trial.Side, title, text string) trial.Document {
	return trial.Document{
		ID:       uuid.New(),
		Side:     side,
		Title:    title,
		FileType: "txt",
		Status:   trial.DocReady,
		FullText: &text,
	}
}

func TestInitialBriefingDeterministic(t *testing.T) {
	a := NewAssembler()
	c := testCase()
	docsA := []trial.Document{readyDoc(trial.SideA, "Contract", "The contract text.")}
	docsB := []trial.Document{readyDoc(trial.SideB, "Rebuttal", "The rebuttal text.")}

	first := a.Initial(c, docsA, docsB)
	second := a.Initial(c, docsA, docsB)
	assert.Equal(t, first, second)
}

func TestInitialBriefingContent(t *testing.T) {
	a := NewAssembler()
	c := testCase()
	briefing := a.Initial(c,
		[]trial.Document{readyDoc(trial.SideA, "Contract", "Agreed terms.")},
		[]trial.Document{readyDoc(trial.SideB, "Invoice", "Payment record.")},
	)

	assert.Contains(t, briefing, "Smith v. Jones")
	assert.Contains(t, briefing, "CAS-2026-ABC123")
	assert.Contains(t, briefing, "**CURRENT ROUND:** 0 (Initial Verdict - no arguments yet)")
	assert.Contains(t, briefing, "**SIDE A EVIDENCE:**")
	assert.Contains(t, briefing, "**SIDE B EVIDENCE:**")
	assert.Contains(t, briefing, "Agreed terms.")
	assert.Contains(t, briefing, "Payment record.")
	assert.Contains(t, briefing, `"confidence_score"`)
}

func TestInitialBriefingTruncatesEvidence(t *testing.T) {
	a := NewAssembler()
	long := strings.Repeat("x", InitialEvidenceChars+500)
	briefing := a.Initial(testCase(),
		[]trial.Document{readyDoc(trial.SideA, "Long", long)},
		[]trial.Document{readyDoc(trial.SideB, "Short", "ok")},
	)

	assert.Contains(t, briefing, strings.Repeat("x", InitialEvidenceChars))
	assert.NotContains(t, briefing, strings.Repeat("x", InitialEvidenceChars+1))
}

func TestRoundBriefingTighterTruncation(t *testing.T) {
	a := NewAssembler()
	long := strings.Repeat("y", RoundEvidenceChars+500)
	briefing := a.Round(testCase(), 1,
		[]trial.Document{readyDoc(trial.SideA, "Long", long)},
		nil,
		[]trial.Argument{{Side: trial.SideA, ArgumentText: "Point one."}},
		[]trial.Argument{{Side: trial.SideB, ArgumentText: "Counterpoint."}},
		nil,
	)

	assert.Contains(t, briefing, strings.Repeat("y", RoundEvidenceChars))
	assert.NotContains(t, briefing, strings.Repeat("y", RoundEvidenceChars+1))
}

func TestRoundBriefingNoArgumentsMarker(t *testing.T) {
	a := NewAssembler()
	briefing := a.Round(testCase(), 2, nil, nil,
		[]trial.Argument{{Side: trial.SideA, ArgumentText: "Only A argued."}},
		nil,
		nil,
	)

	assert.Contains(t, briefing, "Only A argued.")
	assert.Contains(t, briefing, "No arguments submitted")
}

func TestRoundBriefingPreviousVerdict(t *testing.T) {
	a := NewAssembler()
	prev := &verdict.Verdict{
		Round: 0,
		Payload: verdict.Payload{
			Winner:          "B",
			ConfidenceScore: 0.7,
			Summary:         "Initial lean toward B.",
			FinalDecision:   "Side B prevails on the documents.",
		},
	}
	briefing := a.Round(testCase(), 1, nil, nil,
		[]trial.Argument{{Side: trial.SideA, ArgumentText: "New argument."}},
		[]trial.Argument{{Side: trial.SideB, ArgumentText: "Response."}},
		prev,
	)

	assert.Contains(t, briefing, "**Previous Verdict (Round 0):**")
	assert.Contains(t, briefing, "Initial lean toward B.")
	assert.NotContains(t, briefing, "N/A\n\n**SIDE A EVIDENCE")
}

func TestRoundBriefingNoPreviousVerdict(t *testing.T) {
	a := NewAssembler()
	briefing := a.Round(testCase(), 1, nil, nil,
		[]trial.Argument{{Side: trial.SideA, ArgumentText: "Opening."}},
		[]trial.Argument{{Side: trial.SideB, ArgumentText: "Reply."}},
		nil,
	)

	assert.Contains(t, briefing, "N/A")
	assert.NotContains(t, briefing, "**Previous Verdict")
}

func TestEmptyDescriptionRendersNA(t *testing.T) {
	a := NewAssembler()
	c := testCase()
	c.Description = ""
	briefing := a.Initial(c, nil, nil)
	assert.Contains(t, briefing, "- Description: N/A")
}

func TestTruncateRuneSafe(t *testing.T) {
	text := strings.Repeat("é", 10)
	out := truncate(text, 5)
	require.Equal(t, strings.Repeat("é", 5), out)
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t"))
	assert.Equal(t, 3, CountWords("one two three"))
	assert.Equal(t, 2, CountWords("  spaced \n words  "))
}
