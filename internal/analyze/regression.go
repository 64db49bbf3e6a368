package analyze

import (
	"fmt"
	"math"
	"sort"

	"github.com/anantraj07/gold-analysis-project/internal/model"
	"gonum.org/v1/gonum/floats"
)

// ─── Regression ───────────────────────────────────────────────────────────────

// FitMethod selects the regression algorithm.
type FitMethod string

const (
	MethodOLS      FitMethod = "ols"
	MethodTheilSen FitMethod = "theil-sen"
)

// Regression is a fitted line y = Slope*x + Intercept.
type Regression struct {
	Method    FitMethod `json:"method"`
	N         int       `json:"n"`
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	RSquared  float64   `json:"r_squared"`
}

// Fit performs an ordinary least-squares fit of y on x.
//
// When every x is identical the slope is 0, the intercept is mean(y) and
// RSquared is 0. When every y is identical RSquared is 0.
func Fit(x, y []float64) (Regression, error) {
	if err := CheckPaired(x, y); err != nil {
		return Regression{}, err
	}
	reg := Regression{Method: MethodOLS, N: len(x)}

	n := float64(len(x))
	sumX := floats.Sum(x)
	sumY := floats.Sum(y)
	sumXY := floats.Dot(x, y)
	sumX2 := floats.Dot(x, x)

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		reg.Intercept = sumY / n
		return reg, nil
	}
	reg.Slope = (n*sumXY - sumX*sumY) / denom
	reg.Intercept = (sumY - reg.Slope*sumX) / n
	reg.RSquared = rSquared(x, y, reg.Slope, reg.Intercept)
	return reg, nil
}

// FitTheilSen fits a line using the median of all pairwise slopes, which is
// robust to outliers. The intercept passes through (mean(x), mean(y)).
func FitTheilSen(x, y []float64) (Regression, error) {
	if err := CheckPaired(x, y); err != nil {
		return Regression{}, err
	}
	reg := Regression{Method: MethodTheilSen, N: len(x)}

	var slopes []float64
	for i := 0; i < len(x); i++ {
		for j := i + 1; j < len(x); j++ {
			dx := x[j] - x[i]
			if dx == 0 {
				continue
			}
			slopes = append(slopes, (y[j]-y[i])/dx)
		}
	}
	if len(slopes) == 0 {
		reg.Intercept = mean(y)
		return reg, nil
	}
	sort.Float64s(slopes)
	reg.Slope = percentile(slopes, 50)
	reg.Intercept = mean(y) - reg.Slope*mean(x)
	reg.RSquared = rSquared(x, y, reg.Slope, reg.Intercept)
	return reg, nil
}

// Predict returns Slope*x + Intercept.
func (r Regression) Predict(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// Equation formats the fitted line for display.
func (r Regression) Equation() string {
	return fmt.Sprintf("y = %.4fx + %.2f", r.Slope, r.Intercept)
}

// Residuals returns y[i] - Predict(x[i]). Mismatched inputs → nil.
func (r Regression) Residuals(x, y []float64) []float64 {
	if len(x) != len(y) {
		return nil
	}
	out := make([]float64, len(x))
	for i := range x {
		out[i] = y[i] - r.Predict(x[i])
	}
	return out
}

// rSquared returns 1 - SSres/SStot, or 0 when SStot is 0.
func rSquared(x, y []float64, slope, intercept float64) float64 {
	yMean := mean(y)
	var ssTot, ssRes float64
	for i := range y {
		pred := slope*x[i] + intercept
		ssTot += (y[i] - yMean) * (y[i] - yMean)
		ssRes += (y[i] - pred) * (y[i] - pred)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// ─── Dated series fit ─────────────────────────────────────────────────────────

// SeriesFit is a regression of value on elapsed days for a dated series.
type SeriesFit struct {
	Regression // slope is in units per day

	SeriesID     string  `json:"series_id"`
	Equation     string  `json:"equation"`
	Direction    string  `json:"direction"`      // "up", "down", "flat"
	SlopePerYear float64 `json:"slope_per_year"` // slope * 365.25
}

// FitSeries fits a line to the observations with x measured in days since
// the first non-NaN observation. NaN observations are excluded.
func FitSeries(seriesID string, obs []model.Observation, method FitMethod) (SeriesFit, error) {
	sf := SeriesFit{SeriesID: seriesID}

	var xs, ys []float64
	var t0 int64
	first := true
	for _, o := range obs {
		if math.IsNaN(o.Value) {
			continue
		}
		unix := o.Date.Unix()
		if first {
			t0 = unix
			first = false
		}
		xs = append(xs, float64(unix-t0)/86400)
		ys = append(ys, o.Value)
	}
	if len(xs) < 2 {
		return sf, fmt.Errorf("fit: need at least 2 non-NaN observations, got %d", len(xs))
	}

	var err error
	switch method {
	case MethodTheilSen:
		sf.Regression, err = FitTheilSen(xs, ys)
	default:
		sf.Regression, err = Fit(xs, ys)
	}
	if err != nil {
		return sf, err
	}

	sf.Equation = sf.Regression.Equation()
	sf.SlopePerYear = sf.Slope * 365.25
	switch {
	case sf.SlopePerYear > 0.01:
		sf.Direction = "up"
	case sf.SlopePerYear < -0.01:
		sf.Direction = "down"
	default:
		sf.Direction = "flat"
	}
	return sf, nil
}
