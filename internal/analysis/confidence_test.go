package analysis

import (
	"testing"

	"tribunal/domain/verdict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verdictsWithScores(scores ...float64) []verdict.Verdict {
	out := make([]verdict.Verdict, len(scores))
	for i, s := range scores {
		out[i] = verdict.Verdict{
			Round:   i,
			Payload: verdict.Payload{ConfidenceScore: s},
		}
	}
	return out
}

func TestConfidenceNeedsTwoSamples(t *testing.T) {
	assert.Nil(t, Confidence(nil))
	assert.Nil(t, Confidence(verdictsWithScores(0.8)))
}

func TestConfidenceRising(t *testing.T) {
	trend := Confidence(verdictsWithScores(0.5, 0.6, 0.7, 0.8))
	require.NotNil(t, trend)

	assert.Equal(t, 4, trend.Samples)
	assert.InDelta(t, 0.65, trend.Mean, 1e-9)
	assert.InDelta(t, 0.5, trend.Min, 1e-9)
	assert.InDelta(t, 0.8, trend.Max, 1e-9)
	assert.InDelta(t, 0.1, trend.Slope, 1e-9)
	assert.Equal(t, "rising", trend.Direction)
}

func TestConfidenceFalling(t *testing.T) {
	trend := Confidence(verdictsWithScores(0.9, 0.7, 0.5))
	require.NotNil(t, trend)
	assert.Equal(t, "falling", trend.Direction)
	assert.InDelta(t, -0.2, trend.Slope, 1e-9)
}

func TestConfidenceStable(t *testing.T) {
	trend := Confidence(verdictsWithScores(0.7, 0.7, 0.7))
	require.NotNil(t, trend)
	assert.Equal(t, "stable", trend.Direction)
	assert.InDelta(t, 0, trend.Slope, 1e-9)
	assert.InDelta(t, 0, trend.StdDev, 1e-9)
}
