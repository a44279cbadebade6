package verdict

import (
	"errors"
	"testing"

	"tribunal/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResponse = `{
	"summary": "Side A presented stronger documentary evidence.",
	"winner": "A",
	"confidence_score": 0.82,
	"issues": [
		{"issue": "breach", "finding": "established", "reasoning": "contract terms were clear"}
	],
	"final_decision": "Judgment for Side A.",
	"key_evidence_cited": ["Contract", "Email thread"]
}`

func TestParsePayloadValid(t *testing.T) {
	payload, err := ParsePayload(validResponse)
	require.NoError(t, err)

	assert.Equal(t, "A", payload.Winner)
	assert.Equal(t, 0.82, payload.ConfidenceScore)
	assert.Len(t, payload.Issues, 1)
	assert.Equal(t, "breach", payload.Issues[0].Issue)
	assert.Equal(t, []string{"Contract", "Email thread"}, payload.KeyEvidenceCited)
}

func TestParsePayloadStripsMarkdownFence(t *testing.T) {
	wrapped := "```json\n" + validResponse + "\n```"
	payload, err := ParsePayload(wrapped)
	require.NoError(t, err)
	assert.Equal(t, "A", payload.Winner)
}

func TestParsePayloadStripsLeadingChatter(t *testing.T) {
	wrapped := "Here is my verdict:\n" + validResponse
	payload, err := ParsePayload(wrapped)
	require.NoError(t, err)
	assert.Equal(t, "A", payload.Winner)
}

func TestParsePayloadInvalidJSON(t *testing.T) {
	_, err := ParsePayload("not json at all")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrOracleResponseInvalid))
}

func TestParsePayloadMissingFields(t *testing.T) {
	_, err := ParsePayload(`{"summary": "x", "winner": "A"}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrOracleResponseInvalid))
	assert.Contains(t, err.Error(), "confidence_score")
	assert.Contains(t, err.Error(), "final_decision")
}

func TestParsePayloadInvalidWinner(t *testing.T) {
	bad := `{
		"summary": "x", "winner": "C", "confidence_score": 0.5,
		"issues": [], "final_decision": "x", "key_evidence_cited": []
	}`
	_, err := ParsePayload(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrOracleResponseInvalid))
}

func TestParsePayloadConfidenceOutOfRange(t *testing.T) {
	for _, score := range []string{"-0.1", "1.5"} {
		bad := `{
			"summary": "x", "winner": "undecided", "confidence_score": ` + score + `,
			"issues": [], "final_decision": "x", "key_evidence_cited": []
		}`
		_, err := ParsePayload(bad)
		require.Error(t, err, "score %s should be rejected", score)
		assert.True(t, errors.Is(err, core.ErrOracleResponseInvalid))
	}
}

func TestParsePayloadBoundaryConfidence(t *testing.T) {
	for _, score := range []string{"0", "1"} {
		ok := `{
			"summary": "x", "winner": "undecided", "confidence_score": ` + score + `,
			"issues": [], "final_decision": "x", "key_evidence_cited": []
		}`
		_, err := ParsePayload(ok)
		assert.NoError(t, err, "score %s should be accepted", score)
	}
}

func TestCleanJSONContent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading chatter", "Sure:\n{\"a\": 1}", `{"a": 1}`},
		{"array", `[1, 2]`, `[1, 2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONContent(tt.input))
		})
	}
}
