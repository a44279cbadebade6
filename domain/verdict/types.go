package verdict

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tribunal/domain/core"

	"github.com/google/uuid"
)

// Winner values accepted in a verdict payload.
const (
	WinnerA         = "A"
	WinnerB         = "B"
	WinnerUndecided = "undecided"
)

// Issue is one adjudicated question inside a verdict.
type Issue struct {
	Issue     string `json:"issue"`
	Finding   string `json:"finding"`
	Reasoning string `json:"reasoning"`
}

// Payload is the structured outcome the oracle must return.
type Payload struct {
	Summary          string   `json:"summary"`
	Winner           string   `json:"winner"`
	ConfidenceScore  float64  `json:"confidence_score"`
	Issues           []Issue  `json:"issues"`
	FinalDecision    string   `json:"final_decision"`
	KeyEvidenceCited []string `json:"key_evidence_cited"`
}

// Validate enforces the oracle response contract. Failures are fatal for
// the call that produced the payload, never coerced or defaulted.
func (p *Payload) Validate() error {
	switch p.Winner {
	case WinnerA, WinnerB, WinnerUndecided:
	default:
		return fmt.Errorf("%w: invalid winner value: %q", core.ErrOracleResponseInvalid, p.Winner)
	}
	if p.ConfidenceScore < 0 || p.ConfidenceScore > 1 {
		return fmt.Errorf("%w: confidence_score %.4f outside [0,1]", core.ErrOracleResponseInvalid, p.ConfidenceScore)
	}
	return nil
}

// requiredFields are the exact keys a verdict response must carry.
var requiredFields = []string{"summary", "winner", "confidence_score", "issues", "final_decision", "key_evidence_cited"}

// ParsePayload parses and validates raw oracle output. The raw content is
// cleaned of markdown wrappers first; anything that then fails to parse,
// misses a required field, or violates the value constraints is reported
// as core.ErrOracleResponseInvalid.
func ParsePayload(raw string) (*Payload, error) {
	content := CleanJSONContent(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", core.ErrOracleResponseInvalid, err)
	}

	var missing []string
	for _, f := range requiredFields {
		if _, ok := fields[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", core.ErrOracleResponseInvalid, strings.Join(missing, ", "))
	}

	var payload Payload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed field types: %v", core.ErrOracleResponseInvalid, err)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CleanJSONContent strips markdown code fences and leading chatter that
// some models wrap around their JSON output.
func CleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Drop prefix chatter before the first JSON object or array.
	if !strings.HasPrefix(content, "{") && strings.Contains(content, "\n{") {
		parts := strings.SplitN(content, "\n{", 2)
		if !strings.Contains(parts[0], "{") && !strings.Contains(parts[0], "[") {
			content = "{" + parts[1]
		}
	} else if !strings.HasPrefix(content, "[") && strings.Contains(content, "\n[") {
		parts := strings.SplitN(content, "\n[", 2)
		if !strings.Contains(parts[0], "{") && !strings.Contains(parts[0], "[") {
			content = "[" + parts[1]
		}
	}

	return strings.TrimSpace(content)
}

// Verdict is the persisted outcome of one adjudication call for one round.
// At most one exists per (case, round).
type Verdict struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CaseID     uuid.UUID `json:"case_id" db:"case_id"`
	Round      int       `json:"round" db:"round"`
	Payload    Payload   `json:"verdict" db:"-"`
	ModelUsed  string    `json:"model_used" db:"model_used"`
	TokensUsed *int      `json:"tokens_used,omitempty" db:"tokens_used"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Judgment is a validated oracle response before persistence.
type Judgment struct {
	Payload    Payload
	ModelUsed  string
	TokensUsed *int
}

// NewVerdict builds a verdict record for a case and round from a judgment.
func NewVerdict(caseID uuid.UUID, round int, j *Judgment) *Verdict {
	return &Verdict{
		ID:         uuid.New(),
		CaseID:     caseID,
		Round:      round,
		Payload:    j.Payload,
		ModelUsed:  j.ModelUsed,
		TokensUsed: j.TokensUsed,
		CreatedAt:  time.Now().UTC(),
	}
}
