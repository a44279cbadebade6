package testkit

import (
	"context"
	"sync"

	"tribunal/domain/verdict"
)

// ScriptedOracle returns canned judgments in order, or a scripted error.
// It records the briefings it receives so tests can assert on them.
type ScriptedOracle struct {
	mu        sync.Mutex
	judgments []*verdict.Judgment
	err       error
	calls     int

	SystemRoles []string
	Briefings   []string
}

// NewScriptedOracle queues the given judgments for successive calls. The
// last judgment repeats once the queue is exhausted.
func NewScriptedOracle(judgments ...*verdict.Judgment) *ScriptedOracle {
	return &ScriptedOracle{judgments: judgments}
}

// Fail makes every subsequent call return err.
func (o *ScriptedOracle) Fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

// Calls reports how many times Judge was invoked.
func (o *ScriptedOracle) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func (o *ScriptedOracle) Judge(_ context.Context, systemRole, briefing string) (*verdict.Judgment, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	o.SystemRoles = append(o.SystemRoles, systemRole)
	o.Briefings = append(o.Briefings, briefing)
	if o.err != nil {
		return nil, o.err
	}
	idx := o.calls - 1
	if idx >= len(o.judgments) {
		idx = len(o.judgments) - 1
	}
	j := *o.judgments[idx]
	return &j, nil
}

// Judgment builds a minimal valid judgment for tests.
func Judgment(winner string, confidence float64) *verdict.Judgment {
	tokens := 150
	return &verdict.Judgment{
		Payload: verdict.Payload{
			Summary:         "Scripted analysis of the submitted material.",
			Winner:          winner,
			ConfidenceScore: confidence,
			Issues: []verdict.Issue{
				{Issue: "liability", Finding: "established", Reasoning: "scripted"},
			},
			FinalDecision:    "Scripted decision.",
			KeyEvidenceCited: []string{"Exhibit 1"},
		},
		ModelUsed:  "scripted-model",
		TokensUsed: &tokens,
	}
}
