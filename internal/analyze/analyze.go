// Package analyze computes descriptive statistics, correlation, regression,
// interval estimates, significance tests and return/trend measures over
// in-memory float64 slices. All functions are pure; no I/O.
//
// Degenerate input (empty slices, zero variance, zero means, zero
// denominators) never produces an error or NaN: each operation documents
// the neutral value it returns instead. Only malformed shapes, such as
// paired slices of different lengths handed to a constructor, are
// rejected with an error.
package analyze

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/anantraj07/gold-analysis-project/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmpty is returned by strict constructors that need at least one value.
var ErrEmpty = errors.New("analyze: empty input")

// LengthMismatchError reports paired slices of different lengths.
type LengthMismatchError struct {
	X, Y int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("analyze: paired inputs differ in length (%d vs %d)", e.X, e.Y)
}

// ─── Sample ───────────────────────────────────────────────────────────────────

// Sample holds a private copy of a sequence of observations and its sorted
// variant. It is immutable after construction.
type Sample struct {
	values []float64
	sorted []float64
}

// NewSample copies values into a new Sample.
func NewSample(values []float64) *Sample {
	v := make([]float64, len(values))
	copy(v, values)
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	return &Sample{values: v, sorted: s}
}

// Len returns the number of observations.
func (s *Sample) Len() int { return len(s.values) }

// Values returns a copy of the observations in their original order.
func (s *Sample) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty sample.
func (s *Sample) Mean() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return stat.Mean(s.values, nil)
}

// Median returns the middle value, or the average of the two middle values
// for an even count. Empty sample → 0.
func (s *Sample) Median() float64 {
	n := len(s.sorted)
	if n == 0 {
		return 0
	}
	mid := n / 2
	if n%2 != 0 {
		return s.sorted[mid]
	}
	return (s.sorted[mid-1] + s.sorted[mid]) / 2
}

// Mode returns the most frequent value. On ties the first value to reach
// the winning frequency while scanning in input order wins.
// ok is false for an empty sample.
func (s *Sample) Mode() (mode float64, ok bool) {
	freq := make(map[float64]int, len(s.values))
	maxFreq := 0
	for _, v := range s.values {
		freq[v]++
		if freq[v] > maxFreq {
			maxFreq = freq[v]
			mode = v
			ok = true
		}
	}
	return mode, ok
}

// Variance returns the population variance (divisor N). It is exactly 0
// when every observation is equal, and 0 for an empty sample.
func (s *Sample) Variance() float64 {
	n := len(s.sorted)
	if n == 0 || s.sorted[0] == s.sorted[n-1] {
		return 0
	}
	return stat.Moment(2, s.values, nil)
}

// StdDev returns the population standard deviation.
func (s *Sample) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// CoefficientOfVariation returns StdDev/Mean*100. It is 0 when the mean is
// 0, which callers must not read as "no variation".
func (s *Sample) CoefficientOfVariation() float64 {
	m := s.Mean()
	if m == 0 {
		return 0
	}
	return s.StdDev() / m * 100
}

// Min returns the smallest value, or 0 for an empty sample.
func (s *Sample) Min() float64 {
	if len(s.sorted) == 0 {
		return 0
	}
	return floats.Min(s.sorted)
}

// Max returns the largest value, or 0 for an empty sample.
func (s *Sample) Max() float64 {
	if len(s.sorted) == 0 {
		return 0
	}
	return floats.Max(s.sorted)
}

// Range returns Max - Min.
func (s *Sample) Range() float64 {
	return s.Max() - s.Min()
}

// Quartile returns the q-th quartile (q in 0..4, clamped) using linear
// interpolation at fractional rank q/4*(n-1).
func (s *Sample) Quartile(q int) float64 {
	if q < 0 {
		q = 0
	}
	if q > 4 {
		q = 4
	}
	return interpolate(s.sorted, float64(q)/4*float64(len(s.sorted)-1))
}

// Q1 returns the first quartile.
func (s *Sample) Q1() float64 { return s.Quartile(1) }

// Q2 returns the second quartile; equal to Median.
func (s *Sample) Q2() float64 { return s.Quartile(2) }

// Q3 returns the third quartile.
func (s *Sample) Q3() float64 { return s.Quartile(3) }

// IQR returns Q3 - Q1.
func (s *Sample) IQR() float64 {
	return s.Q3() - s.Q1()
}

// Percentile returns the p-th percentile (p in 0..100, clamped) using linear
// interpolation at fractional rank p/100*(n-1). A NaN p → 0.
func (s *Sample) Percentile(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 0
	case p < 0:
		p = 0
	case p > 100:
		p = 100
	}
	return percentile(s.sorted, p)
}

// Skewness returns the third standardized moment without bias correction.
// A constant or empty sample has skewness 0.
func (s *Sample) Skewness() float64 {
	std := s.StdDev()
	if std == 0 {
		return 0
	}
	return stat.Moment(3, s.values, nil) / (std * std * std)
}

// Kurtosis returns the excess kurtosis: fourth standardized moment minus 3.
// A constant or empty sample has kurtosis 0.
func (s *Sample) Kurtosis() float64 {
	v := s.Variance()
	if v == 0 {
		return 0
	}
	return stat.Moment(4, s.values, nil)/(v*v) - 3
}

// ─── Summary ──────────────────────────────────────────────────────────────────

// Summary is a snapshot of every descriptive statistic for a series.
// Values are full precision; formatting belongs to the renderer.
type Summary struct {
	SeriesID   string   `json:"series_id,omitempty"`
	Count      int      `json:"count"`       // non-missing observations
	Missing    int      `json:"missing"`     // NaN count
	MissingPct float64  `json:"missing_pct"` // percent missing
	Mean       float64  `json:"mean"`
	Median     float64  `json:"median"`
	Mode       *float64 `json:"mode"` // nil when the sample is empty
	Std        float64  `json:"std"`
	Variance   float64  `json:"variance"`
	CV         float64  `json:"cv"`
	Min        float64  `json:"min"`
	Max        float64  `json:"max"`
	Range      float64  `json:"range"`
	Q1         float64  `json:"q1"`
	Q2         float64  `json:"q2"`
	Q3         float64  `json:"q3"`
	IQR        float64  `json:"iqr"`
	Skewness   float64  `json:"skewness"`
	Kurtosis   float64  `json:"kurtosis"`
	P05        float64  `json:"p05"`
	P25        float64  `json:"p25"`
	P50        float64  `json:"p50"`
	P75        float64  `json:"p75"`
	P95        float64  `json:"p95"`
	First      float64  `json:"first"`      // first non-NaN value
	Last       float64  `json:"last"`       // last non-NaN value
	Change     float64  `json:"change"`     // Last - First
	ChangePct  float64  `json:"change_pct"` // CumulativeReturn(First, Last)
}

// Summary bundles every accessor into a Summary snapshot.
// First/Last follow input order.
func (s *Sample) Summary() Summary {
	sum := Summary{
		Count:    s.Len(),
		Mean:     s.Mean(),
		Median:   s.Median(),
		Std:      s.StdDev(),
		Variance: s.Variance(),
		CV:       s.CoefficientOfVariation(),
		Min:      s.Min(),
		Max:      s.Max(),
		Range:    s.Range(),
		Q1:       s.Q1(),
		Q2:       s.Q2(),
		Q3:       s.Q3(),
		IQR:      s.IQR(),
		Skewness: s.Skewness(),
		Kurtosis: s.Kurtosis(),
		P05:      s.Percentile(5),
		P25:      s.Percentile(25),
		P50:      s.Percentile(50),
		P75:      s.Percentile(75),
		P95:      s.Percentile(95),
	}
	if m, ok := s.Mode(); ok {
		sum.Mode = &m
	}
	if n := len(s.values); n > 0 {
		sum.First = s.values[0]
		sum.Last = s.values[n-1]
		sum.Change = sum.Last - sum.First
		sum.ChangePct = CumulativeReturn(sum.First, sum.Last)
	}
	return sum
}

// Summarize computes a Summary over obs.
// NaN values are excluded from all numeric computations but counted.
func Summarize(seriesID string, obs []model.Observation) Summary {
	var vals []float64
	missing := 0
	for _, o := range obs {
		if math.IsNaN(o.Value) {
			missing++
			continue
		}
		vals = append(vals, o.Value)
	}

	s := NewSample(vals).Summary()
	s.SeriesID = seriesID
	s.Missing = missing
	if len(obs) > 0 {
		s.MissingPct = float64(missing) / float64(len(obs)) * 100
	}
	return s
}

// ─── Math helpers ─────────────────────────────────────────────────────────────

func percentile(sorted []float64, p float64) float64 {
	return interpolate(sorted, p/100*float64(len(sorted)-1))
}

// interpolate reads sorted at a fractional rank, clamping to the last
// element at the upper boundary. Empty input → 0.
func interpolate(sorted []float64, idx float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return floats.Sum(vals) / float64(len(vals))
}
