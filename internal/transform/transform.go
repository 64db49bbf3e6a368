// Package transform implements stateless operators over dated price series.
// Each operator takes a slice of Observations and returns a new slice; no
// side effects, no I/O.
package transform

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/anantraj07/gold-analysis-project/internal/analyze"
	"github.com/anantraj07/gold-analysis-project/internal/model"
	"github.com/anantraj07/gold-analysis-project/internal/util"
)

// ─── Returns ──────────────────────────────────────────────────────────────────

// Returns converts a price series into period-over-period percentage
// returns. Missing observations are skipped, so each return is measured
// against the previous non-missing price and dated at the later price.
// A zero prior price yields a 0 return.
func Returns(obs []model.Observation) ([]model.Observation, error) {
	var prices []float64
	var dates []time.Time
	for _, o := range obs {
		if o.IsMissing() {
			continue
		}
		prices = append(prices, o.Value)
		dates = append(dates, o.Date)
	}
	if len(prices) < 2 {
		return nil, fmt.Errorf("returns: need at least 2 non-missing observations, got %d", len(prices))
	}
	rets := analyze.Returns(prices)
	out := make([]model.Observation, len(rets))
	for i, r := range rets {
		out[i] = model.Observation{
			Date:     dates[i+1],
			Value:    r,
			ValueRaw: formatRaw(r),
		}
	}
	return out, nil
}

// ─── Log ──────────────────────────────────────────────────────────────────────

// Log computes the natural log of each observation value.
// Non-positive values produce NaN with a warning; NaN inputs stay NaN.
func Log(obs []model.Observation) ([]model.Observation, []string) {
	out := make([]model.Observation, len(obs))
	var warnings []string
	for i, o := range obs {
		val := math.NaN()
		switch {
		case o.IsMissing():
		case o.Value <= 0:
			warnings = append(warnings, fmt.Sprintf("%s: log(%g) is undefined, set to NaN",
				util.FormatDate(o.Date), o.Value))
		default:
			val = math.Log(o.Value)
		}
		out[i] = model.Observation{
			Date:     o.Date,
			Value:    val,
			ValueRaw: formatRaw(val),
		}
	}
	return out, warnings
}

// ─── Resample ─────────────────────────────────────────────────────────────────

// ResampleFreq is the target frequency for resampling.
type ResampleFreq string

const (
	ResampleMonthly   ResampleFreq = "monthly"
	ResampleQuarterly ResampleFreq = "quarterly"
	ResampleAnnual    ResampleFreq = "annual"
)

// ResampleMethod is the aggregation method for resampling.
type ResampleMethod string

const (
	ResampleMean ResampleMethod = "mean"
	ResampleLast ResampleMethod = "last"
	ResampleMin  ResampleMethod = "min"
	ResampleMax  ResampleMethod = "max"
)

// ParseResample validates a frequency and method pair from user input.
func ParseResample(freq, method string) (ResampleFreq, ResampleMethod, error) {
	f := ResampleFreq(freq)
	switch f {
	case ResampleMonthly, ResampleQuarterly, ResampleAnnual:
	default:
		return "", "", fmt.Errorf("resample: unknown frequency %q (use monthly, quarterly, annual)", freq)
	}
	m := ResampleMethod(method)
	switch m {
	case ResampleMean, ResampleLast, ResampleMin, ResampleMax:
	default:
		return "", "", fmt.Errorf("resample: unknown method %q (use mean, last, min, max)", method)
	}
	return f, m, nil
}

// Resample aggregates observations to a lower frequency. Observations are
// grouped by period and dated at the period start; NaN values are skipped
// in aggregation and a period with no values becomes NaN.
func Resample(obs []model.Observation, freq ResampleFreq, method ResampleMethod) ([]model.Observation, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("resample: empty input")
	}
	if _, _, err := ParseResample(string(freq), string(method)); err != nil {
		return nil, err
	}

	groups := make(map[string][]float64)
	keys := make(map[string]time.Time) // period key → period start date
	for _, o := range obs {
		key, start := periodKey(o.Date, freq)
		if !o.IsMissing() {
			groups[key] = append(groups[key], o.Value)
		}
		if _, exists := keys[key]; !exists {
			keys[key] = start
		}
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	out := make([]model.Observation, 0, len(sorted))
	for _, k := range sorted {
		val := aggregate(groups[k], method)
		out = append(out, model.Observation{
			Date:     keys[k],
			Value:    val,
			ValueRaw: formatRaw(val),
		})
	}
	return out, nil
}

func aggregate(vals []float64, method ResampleMethod) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	switch method {
	case ResampleLast:
		return vals[len(vals)-1]
	case ResampleMin:
		return analyze.NewSample(vals).Min()
	case ResampleMax:
		return analyze.NewSample(vals).Max()
	default:
		return analyze.NewSample(vals).Mean()
	}
}

// periodKey returns a sortable string key and canonical start date for a period.
func periodKey(t time.Time, freq ResampleFreq) (string, time.Time) {
	switch freq {
	case ResampleQuarterly:
		q := (t.Month()-1)/3 + 1
		start := time.Date(t.Year(), time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%04d-Q%d", t.Year(), q), start
	case ResampleAnnual:
		start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%04d", t.Year()), start
	default: // monthly
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%04d-%02d", t.Year(), t.Month()), start
	}
}

// ─── Filter ───────────────────────────────────────────────────────────────────

// FilterOptions describes a date/value filter predicate.
type FilterOptions struct {
	After       time.Time // keep obs with date >= After (zero = no lower bound)
	Before      time.Time // keep obs with date <= Before (zero = no upper bound)
	DropMissing bool      // drop NaN observations
}

// Filter returns observations matching all non-zero criteria in opts.
// Both date bounds are inclusive so "--after 2015 --before 2020" keeps
// the boundary years.
func Filter(obs []model.Observation, opts FilterOptions) []model.Observation {
	out := make([]model.Observation, 0, len(obs))
	for _, o := range obs {
		if !opts.After.IsZero() && o.Date.Before(opts.After) {
			continue
		}
		if !opts.Before.IsZero() && o.Date.After(opts.Before) {
			continue
		}
		if opts.DropMissing && o.IsMissing() {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ─── Rolling Window ───────────────────────────────────────────────────────────

// RollStat selects the statistic for rolling window computation.
type RollStat string

const (
	RollMean RollStat = "mean"
	RollStd  RollStat = "std"
	RollMin  RollStat = "min"
	RollMax  RollStat = "max"
)

// Roll computes a trailing window statistic. Each window holds the current
// point and the (window-1) preceding points; NaN values are skipped and a
// window with fewer than window/2 values (at least 1) is NaN. RollStd is
// the population standard deviation, matching analyze.Volatility.
func Roll(obs []model.Observation, window int, stat RollStat) ([]model.Observation, error) {
	if window < 1 {
		return nil, fmt.Errorf("roll: window must be >= 1, got %d", window)
	}
	switch stat {
	case RollMean, RollStd, RollMin, RollMax:
	default:
		return nil, fmt.Errorf("roll: unknown stat %q (use mean, std, min, max)", stat)
	}
	minPeriods := window / 2
	if minPeriods < 1 {
		minPeriods = 1
	}

	out := make([]model.Observation, len(obs))
	for i, o := range obs {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		vals := make([]float64, 0, window)
		for _, w := range obs[start : i+1] {
			if !w.IsMissing() {
				vals = append(vals, w.Value)
			}
		}

		val := math.NaN()
		if len(vals) >= minPeriods {
			s := analyze.NewSample(vals)
			switch stat {
			case RollMean:
				val = s.Mean()
			case RollStd:
				val = s.StdDev()
			case RollMin:
				val = s.Min()
			case RollMax:
				val = s.Max()
			}
		}
		out[i] = model.Observation{
			Date:     o.Date,
			Value:    val,
			ValueRaw: formatRaw(val),
		}
	}
	return out, nil
}

func formatRaw(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	return fmt.Sprintf("%g", v)
}
