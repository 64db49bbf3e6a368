package analyze

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// ─── Distribution ─────────────────────────────────────────────────────────────

// DefaultBins is the histogram bin count used when none is given.
const DefaultBins = 20

// Bin is one equal-width histogram bucket covering [Lower, Upper).
// The last bin also includes its upper edge.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram counts values into equal-width bins spanning [min, max].
// The maximum value falls into the last bin. A constant sample produces a
// single bin holding every value; an empty sample produces no bins.
// bins <= 0 uses DefaultBins.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	s := NewSample(values)
	lo, hi := s.Min(), s.Max()
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}

// CurvePoint is one (x, density) sample of a fitted normal curve.
type CurvePoint struct {
	X       float64 `json:"x"`
	Density float64 `json:"density"`
}

// NormalCurve samples the normal density with the given mean and standard
// deviation from mean-4σ to mean+4σ in steps of σ/steps. std <= 0 → nil.
// steps <= 0 uses 10.
func NormalCurve(mean, std float64, steps int) []CurvePoint {
	if std <= 0 {
		return nil
	}
	if steps <= 0 {
		steps = 10
	}
	dist := distuv.Normal{Mu: mean, Sigma: std}
	start := mean - 4*std
	step := std / float64(steps)
	n := 8*steps + 1
	out := make([]CurvePoint, n)
	for i := 0; i < n; i++ {
		x := start + float64(i)*step
		out[i] = CurvePoint{X: x, Density: dist.Prob(x)}
	}
	return out
}
