package analyze_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anantraj07/gold-analysis-project/internal/analyze"
)

// ─── Confidence intervals ─────────────────────────────────────────────────────

func TestZScore(t *testing.T) {
	assert.Equal(t, 1.96, analyze.ZScore(0.95))
	assert.Equal(t, 2.576, analyze.ZScore(0.99))
	assert.Equal(t, 1.96, analyze.ZScore(0.90), "unknown levels fall back to 1.96")
	assert.Equal(t, 1.96, analyze.ZScore(0))
}

func TestMeanCI(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50}
	std := math.Sqrt(200)

	ci := analyze.MeanCI(data, 0.95)
	assert.Equal(t, "mean", ci.Parameter)
	assert.Equal(t, 5, ci.N)
	assert.InDelta(t, 30.0, ci.Estimate, 1e-12)
	assert.InDelta(t, 1.96*std/math.Sqrt(5), ci.Margin, 1e-9)
	assert.InDelta(t, 12.396, ci.Margin, 1e-3)
	assert.InDelta(t, ci.Estimate-ci.Margin, ci.Lower, 1e-12)
	assert.InDelta(t, ci.Estimate+ci.Margin, ci.Upper, 1e-12)

	wide := analyze.MeanCI(data, 0.99)
	assert.InDelta(t, 2.576*std/math.Sqrt(5), wide.Margin, 1e-9)

	fallback := analyze.MeanCI(data, 0.80)
	assert.Equal(t, ci.Margin, fallback.Margin)
}

func TestMeanCIEmpty(t *testing.T) {
	ci := analyze.MeanCI(nil, 0.95)
	assert.Equal(t, 0.0, ci.Estimate)
	assert.Equal(t, 0.0, ci.Lower)
	assert.Equal(t, 0.0, ci.Upper)
	assert.Equal(t, 0.0, ci.Margin)
}

func TestProportionCI(t *testing.T) {
	ci, err := analyze.ProportionCI(6, 15, 0.95)
	require.NoError(t, err)
	assert.Equal(t, "proportion", ci.Parameter)
	assert.InDelta(t, 0.4, ci.Estimate, 1e-12)
	assert.InDelta(t, 1.96*math.Sqrt(0.4*0.6/15), ci.Margin, 1e-12)
	assert.InDelta(t, 0.4-ci.Margin, ci.Lower, 1e-12)
	assert.InDelta(t, 0.4+ci.Margin, ci.Upper, 1e-12)
}

func TestProportionCIClamped(t *testing.T) {
	ci, err := analyze.ProportionCI(1, 2, 0.99)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ci.Lower)
	assert.Equal(t, 1.0, ci.Upper)

	all, err := analyze.ProportionCI(5, 5, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 1.0, all.Estimate)
	assert.Equal(t, 0.0, all.Margin)
	assert.Equal(t, 1.0, all.Upper)
}

func TestProportionCIDegenerate(t *testing.T) {
	ci, err := analyze.ProportionCI(0, 0, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ci.Estimate)
	assert.Equal(t, 0.0, ci.Margin)

	_, err = analyze.ProportionCI(6, 5, 0.95)
	assert.ErrorIs(t, err, analyze.ErrInvalidCount)

	// counts are checked before the empty-total case
	_, err = analyze.ProportionCI(5, 0, 0.95)
	assert.ErrorIs(t, err, analyze.ErrInvalidCount)
	_, err = analyze.ProportionCI(-1, 0, 0.95)
	assert.ErrorIs(t, err, analyze.ErrInvalidCount)
	_, err = analyze.ProportionCI(0, -3, 0.95)
	assert.ErrorIs(t, err, analyze.ErrInvalidCount)
	_, err = analyze.ProportionCI(-1, 5, 0.95)
	assert.ErrorIs(t, err, analyze.ErrInvalidCount)
}

// ─── Hypothesis tests ─────────────────────────────────────────────────────────

func TestTTest(t *testing.T) {
	res := analyze.TTest([]float64{1, 2, 3, 4, 5}, []float64{6, 7, 8, 9, 10}, 0.05)

	// pooled variance 2, t = -5 / sqrt(2 * 0.4)
	assert.InDelta(t, -5/math.Sqrt(0.8), res.TStatistic, 1e-12)
	assert.Equal(t, 8, res.DF)
	assert.True(t, res.Significant)
	assert.Less(t, res.PValue, 0.01)
	assert.Equal(t, 3.0, res.MeanA)
	assert.Equal(t, 8.0, res.MeanB)
}

func TestTTestIgnoresAlphaForSignificance(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{6, 7, 8, 9, 10}
	strict := analyze.TTest(a, b, 0.0001)
	loose := analyze.TTest(a, b, 0.5)

	assert.Equal(t, strict.Significant, loose.Significant)
	assert.Equal(t, 0.0001, strict.Alpha)
	assert.Equal(t, 0.5, loose.Alpha)
}

func TestTTestNotSignificant(t *testing.T) {
	res := analyze.TTest([]float64{1, 2, 3}, []float64{2, 3, 4}, 0.05)
	assert.InDelta(t, -1.5, res.TStatistic, 1e-12)
	assert.False(t, res.Significant)
	assert.Greater(t, res.PValue, 0.05)
}

func TestTTestDegenerate(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"empty first", nil, []float64{1, 2}},
		{"empty second", []float64{1, 2}, nil},
		{"one each", []float64{1}, []float64{2}},
		{"zero pooled variance", []float64{3, 3, 3}, []float64{5, 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := analyze.TTest(tc.a, tc.b, 0.05)
			assert.Equal(t, 0.0, res.TStatistic)
			assert.False(t, res.Significant)
			assert.Equal(t, 1.0, res.PValue)
		})
	}
}

func TestCorrelationSignificance(t *testing.T) {
	res := analyze.CorrelationSignificance(0.5, 30, 0.05)
	assert.InDelta(t, 0.5*math.Sqrt(28)/math.Sqrt(0.75), res.TStatistic, 1e-12)
	assert.True(t, res.Significant)
	assert.Equal(t, 28, res.DF)

	weak := analyze.CorrelationSignificance(0.3, 10, 0.05)
	assert.False(t, weak.Significant)

	for _, tc := range []struct {
		r float64
		n int
	}{{0.9, 2}, {1, 50}, {-1, 50}} {
		res := analyze.CorrelationSignificance(tc.r, tc.n, 0.05)
		assert.Equal(t, 0.0, res.TStatistic, "r=%g n=%d", tc.r, tc.n)
		assert.False(t, res.Significant)
	}
}

// ─── Time series ──────────────────────────────────────────────────────────────

func TestReturns(t *testing.T) {
	r := analyze.Returns([]float64{100, 110, 99})
	require.Len(t, r, 2)
	assert.InDelta(t, 10.0, r[0], 1e-12)
	assert.InDelta(t, -10.0, r[1], 1e-12)

	assert.Empty(t, analyze.Returns([]float64{100}))
	assert.NotNil(t, analyze.Returns(nil))

	zero := analyze.Returns([]float64{0, 5, 10})
	assert.Equal(t, []float64{0, 100}, zero)
}

func TestCumulativeAndAnnualizedReturn(t *testing.T) {
	assert.InDelta(t, 50.0, analyze.CumulativeReturn(100, 150), 1e-12)
	assert.Equal(t, 0.0, analyze.CumulativeReturn(0, 150))

	assert.InDelta(t, 10.0, analyze.AnnualizedReturn(100, 121, 2), 1e-9)
	assert.Equal(t, 0.0, analyze.AnnualizedReturn(0, 121, 2))
	assert.Equal(t, 0.0, analyze.AnnualizedReturn(100, 121, 0))
	assert.Equal(t, 0.0, analyze.AnnualizedReturn(100, -5, 2))
}

func TestVolatility(t *testing.T) {
	assert.InDelta(t, 10.0, analyze.Volatility([]float64{10, -10}), 1e-12)
	assert.Equal(t, 0.0, analyze.Volatility(nil))
}

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		window   int
		expected analyze.Trend
	}{
		{"rising", ramp(100, 1, 40), 20, analyze.TrendBullish},
		{"falling", ramp(139, -1, 40), 20, analyze.TrendBearish},
		{"flat", ramp(100, 0.01, 40), 20, analyze.TrendSideways},
		{"too short", ramp(100, 1, 39), 20, analyze.TrendInsufficientData},
		{"default window", ramp(100, 1, 40), 0, analyze.TrendBullish},
		{"small window", []float64{10, 10, 12, 12}, 2, analyze.TrendBullish},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, analyze.ClassifyTrend(tc.prices, tc.window))
		})
	}
}

func TestAnalyzeTrendMeans(t *testing.T) {
	tr := analyze.AnalyzeTrend(ramp(100, 1, 40), 20)
	assert.Equal(t, 20, tr.Window)
	assert.InDelta(t, 109.5, tr.PriorMean, 1e-9)
	assert.InDelta(t, 129.5, tr.RecentMean, 1e-9)
	assert.InDelta(t, 20.0/109.5*100, tr.ChangePct, 1e-9)
}

// ─── Distribution ─────────────────────────────────────────────────────────────

func TestHistogram(t *testing.T) {
	bins := analyze.Histogram(ramp(0, 1, 10), 5)
	require.Len(t, bins, 5)
	total := 0
	for _, b := range bins {
		assert.Equal(t, 2, b.Count)
		total += b.Count
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 9.0, bins[4].Upper)
}

func TestHistogramDefaults(t *testing.T) {
	bins := analyze.Histogram(goldPrices, 0)
	require.Len(t, bins, analyze.DefaultBins)
	assert.Equal(t, 2, bins[len(bins)-1].Count, "maximum lands in the last bin")
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, len(goldPrices), total)

	constant := analyze.Histogram([]float64{4, 4, 4}, 10)
	require.Len(t, constant, 1)
	assert.Equal(t, 3, constant[0].Count)

	assert.Nil(t, analyze.Histogram(nil, 10))
}

func TestNormalCurve(t *testing.T) {
	pts := analyze.NormalCurve(0, 1, 10)
	require.Len(t, pts, 81)
	assert.InDelta(t, -4.0, pts[0].X, 1e-12)
	assert.InDelta(t, 4.0, pts[80].X, 1e-9)
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), pts[40].Density, 1e-12)
	assert.InDelta(t, pts[0].Density, pts[80].Density, 1e-12)

	assert.Nil(t, analyze.NormalCurve(5, 0, 10))
}

func TestMeasure(t *testing.T) {
	p := analyze.Measure("GOLD", []float64{100, 110, 121}, 2)
	assert.Equal(t, 2, p.Periods)
	assert.InDelta(t, 21.0, p.CumulativePct, 1e-9)
	assert.InDelta(t, 10.0, p.AnnualizedPct, 1e-9)
	assert.InDelta(t, 0.0, p.Volatility, 1e-9)
	assert.InDelta(t, 10.0, p.BestReturn, 1e-9)
	assert.InDelta(t, 10.0, p.WorstReturn, 1e-9)

	empty := analyze.Measure("X", nil, 3)
	assert.Equal(t, 0, empty.Periods)
	assert.Equal(t, 3.0, empty.Years)
}
