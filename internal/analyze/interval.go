package analyze

import (
	"errors"
	"math"
)

// ─── Confidence intervals ─────────────────────────────────────────────────────

// ErrInvalidCount is returned when a success count lies outside [0, total].
var ErrInvalidCount = errors.New("analyze: successes must be between 0 and total")

// DefaultConfidence is the confidence level used when none is configured.
const DefaultConfidence = 0.95

// zTable holds the only supported critical values. Any other confidence
// level uses the 0.95 value.
var zTable = map[float64]float64{
	0.95: 1.96,
	0.99: 2.576,
}

// ZScore returns the critical value for a confidence level from the fixed
// lookup table, falling back to 1.96.
func ZScore(confidence float64) float64 {
	if z, ok := zTable[confidence]; ok {
		return z
	}
	return zTable[DefaultConfidence]
}

// Interval is a two-sided interval estimate around a point estimate.
type Interval struct {
	Parameter  string  `json:"parameter"` // "mean" or "proportion"
	Estimate   float64 `json:"estimate"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Margin     float64 `json:"margin"`
	Confidence float64 `json:"confidence"`
	Z          float64 `json:"z"`
	N          int     `json:"n"`
}

// MeanCI returns mean ± z*(std/sqrt(n)) using the population standard
// deviation. Empty data → zero interval.
func MeanCI(data []float64, confidence float64) Interval {
	ci := Interval{Parameter: "mean", Confidence: confidence, N: len(data)}
	if len(data) == 0 {
		return ci
	}
	s := NewSample(data)
	ci.Z = ZScore(confidence)
	ci.Estimate = s.Mean()
	ci.Margin = ci.Z * (s.StdDev() / math.Sqrt(float64(len(data))))
	ci.Lower = ci.Estimate - ci.Margin
	ci.Upper = ci.Estimate + ci.Margin
	return ci
}

// ProportionCI returns the Wald interval p ± z*sqrt(p(1-p)/total), with the
// bounds clamped to [0, 1]. Counts outside 0 <= successes <= total are
// ErrInvalidCount; total == 0 with no successes → zero interval.
func ProportionCI(successes, total int, confidence float64) (Interval, error) {
	if total < 0 || successes < 0 || successes > total {
		return Interval{}, ErrInvalidCount
	}
	ci := Interval{Parameter: "proportion", Confidence: confidence, N: total}
	if total == 0 {
		return ci, nil
	}
	p := float64(successes) / float64(total)
	ci.Z = ZScore(confidence)
	ci.Estimate = p
	ci.Margin = ci.Z * math.Sqrt(p*(1-p)/float64(total))
	ci.Lower = math.Max(0, p-ci.Margin)
	ci.Upper = math.Min(1, p+ci.Margin)
	return ci, nil
}
