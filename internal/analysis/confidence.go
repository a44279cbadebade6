package analysis

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"tribunal/domain/verdict"
)

// ConfidenceTrend summarizes how the oracle's confidence moved across a
// case's verdict sequence.
type ConfidenceTrend struct {
	Samples   int     `json:"samples"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Slope     float64 `json:"slope"`
	Direction string  `json:"direction"`
}

// slopeEpsilon separates a drifting confidence series from a stable one.
const slopeEpsilon = 0.005

// Confidence computes the trend over verdicts ordered by round. Returns
// nil when fewer than two verdicts exist; a single data point has no trend.
func Confidence(verdicts []verdict.Verdict) *ConfidenceTrend {
	if len(verdicts) < 2 {
		return nil
	}

	rounds := make([]float64, len(verdicts))
	scores := make([]float64, len(verdicts))
	for i, v := range verdicts {
		rounds[i] = float64(v.Round)
		scores[i] = v.Payload.ConfidenceScore
	}

	mean, _ := stats.Mean(scores)
	stdDev, _ := stats.StandardDeviation(scores)
	min, _ := stats.Min(scores)
	max, _ := stats.Max(scores)

	_, slope := stat.LinearRegression(rounds, scores, nil, false)

	direction := "stable"
	switch {
	case slope > slopeEpsilon:
		direction = "rising"
	case slope < -slopeEpsilon:
		direction = "falling"
	}

	return &ConfidenceTrend{
		Samples:   len(verdicts),
		Mean:      mean,
		StdDev:    stdDev,
		Min:       min,
		Max:       max,
		Slope:     slope,
		Direction: direction,
	}
}
