package analyze_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anantraj07/gold-analysis-project/internal/analyze"
	"github.com/anantraj07/gold-analysis-project/internal/model"
)

// ─── Correlation ──────────────────────────────────────────────────────────────

func TestPearson(t *testing.T) {
	tests := []struct {
		name     string
		x, y     []float64
		expected float64
	}{
		{"perfect positive", []float64{1, 2, 3, 4, 5}, []float64{2, 4, 6, 8, 10}, 1},
		{"perfect negative", []float64{1, 2, 3, 4, 5}, []float64{10, 8, 6, 4, 2}, -1},
		{"empty", []float64{}, []float64{}, 0},
		{"mismatched length", []float64{1, 2}, []float64{1}, 0},
		{"constant x", []float64{3, 3, 3}, []float64{1, 2, 3}, 0},
		{"single pair", []float64{1}, []float64{2}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, analyze.Pearson(tc.x, tc.y), 1e-12)
		})
	}
}

func TestPearsonSymmetric(t *testing.T) {
	x := []float64{5.49, 2.94, -0.34, 5.15, 4.22, 88.73}
	y := []float64{12241, 11221, 122410, 112210, 2048.5, 18.5}
	assert.Equal(t, analyze.Pearson(x, y), analyze.Pearson(y, x))
}

func TestPearsonBounded(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{2, 1, 4, 3, 6, 5}
	r := analyze.Pearson(x, y)
	assert.Greater(t, r, 0.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestCovariance(t *testing.T) {
	assert.InDelta(t, 2.0/3, analyze.Covariance([]float64{1, 2, 3}, []float64{1, 2, 3}), 1e-12)
	assert.InDelta(t, -2.0/3, analyze.Covariance([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.Equal(t, 0.0, analyze.Covariance([]float64{1, 2}, []float64{1}))
	assert.Equal(t, 0.0, analyze.Covariance(nil, nil))
}

func TestCheckPaired(t *testing.T) {
	err := analyze.CheckPaired([]float64{1, 2}, []float64{1})
	var lm *analyze.LengthMismatchError
	require.True(t, errors.As(err, &lm))
	assert.Equal(t, 2, lm.X)
	assert.Equal(t, 1, lm.Y)

	assert.ErrorIs(t, analyze.CheckPaired(nil, nil), analyze.ErrEmpty)
	assert.NoError(t, analyze.CheckPaired([]float64{1}, []float64{2}))
}

func TestCorrelationMatrix(t *testing.T) {
	m := analyze.CorrelationMatrix([][]float64{
		{1, 2, 3},
		{2, 4, 6},
		{3, 2, 1},
	})
	require.Len(t, m, 3)
	assert.Equal(t, 1.0, m[0][0])
	assert.InDelta(t, 1.0, m[0][1], 1e-12)
	assert.InDelta(t, -1.0, m[0][2], 1e-12)
	assert.Equal(t, m[1][2], m[2][1])
}

// ─── Regression ───────────────────────────────────────────────────────────────

func TestFitPerfectLine(t *testing.T) {
	reg, err := analyze.Fit([]float64{1, 2, 3, 4}, []float64{5, 7, 9, 11})
	require.NoError(t, err)

	assert.Equal(t, analyze.MethodOLS, reg.Method)
	assert.Equal(t, 4, reg.N)
	assert.InDelta(t, 2.0, reg.Slope, 1e-12)
	assert.InDelta(t, 3.0, reg.Intercept, 1e-12)
	assert.InDelta(t, 1.0, reg.RSquared, 1e-12)
	assert.InDelta(t, 23.0, reg.Predict(10), 1e-9)
	assert.Equal(t, "y = 2.0000x + 3.00", reg.Equation())
}

func TestFitDegenerate(t *testing.T) {
	t.Run("constant x", func(t *testing.T) {
		reg, err := analyze.Fit([]float64{2, 2, 2}, []float64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, 0.0, reg.Slope)
		assert.InDelta(t, 2.0, reg.Intercept, 1e-12)
		assert.Equal(t, 0.0, reg.RSquared)
	})
	t.Run("constant y", func(t *testing.T) {
		reg, err := analyze.Fit([]float64{1, 2, 3}, []float64{4, 4, 4})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, reg.Slope, 1e-12)
		assert.InDelta(t, 4.0, reg.Intercept, 1e-12)
		assert.Equal(t, 0.0, reg.RSquared)
	})
	t.Run("mismatched", func(t *testing.T) {
		_, err := analyze.Fit([]float64{1, 2}, []float64{1})
		var lm *analyze.LengthMismatchError
		assert.True(t, errors.As(err, &lm))
	})
	t.Run("empty", func(t *testing.T) {
		_, err := analyze.Fit(nil, nil)
		assert.ErrorIs(t, err, analyze.ErrEmpty)
	})
}

func TestFitResiduals(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{2, 4, 7}
	reg, err := analyze.Fit(x, y)
	require.NoError(t, err)

	res := reg.Residuals(x, y)
	require.Len(t, res, 3)
	var sum float64
	for _, r := range res {
		sum += r
	}
	assert.InDelta(t, 0.0, sum, 1e-9, "OLS residuals sum to zero")
	assert.Nil(t, reg.Residuals(x, y[:2]))
}

func TestFitTheilSenResistsOutlier(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 100}

	robust, err := analyze.FitTheilSen(x, y)
	require.NoError(t, err)
	assert.Equal(t, analyze.MethodTheilSen, robust.Method)
	assert.InDelta(t, 2.0, robust.Slope, 1e-12)

	ols, err := analyze.Fit(x, y)
	require.NoError(t, err)
	assert.Greater(t, ols.Slope, robust.Slope)
}

func TestFitTheilSenConstantX(t *testing.T) {
	reg, err := analyze.FitTheilSen([]float64{1, 1}, []float64{3, 5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, reg.Slope)
	assert.InDelta(t, 4.0, reg.Intercept, 1e-12)
}

func TestFitSeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]model.Observation, 10)
	for i := range obs {
		obs[i] = model.Observation{Date: start.AddDate(0, 0, i), Value: 10 + 0.5*float64(i)}
	}
	obs[3].Value = math.NaN()

	for _, method := range []analyze.FitMethod{analyze.MethodOLS, analyze.MethodTheilSen} {
		sf, err := analyze.FitSeries("GOLD", obs, method)
		require.NoError(t, err)
		assert.Equal(t, "GOLD", sf.SeriesID)
		assert.Equal(t, 9, sf.N)
		assert.InDelta(t, 0.5, sf.Slope, 1e-9)
		assert.InDelta(t, 10.0, sf.Intercept, 1e-9)
		assert.InDelta(t, 0.5*365.25, sf.SlopePerYear, 1e-6)
		assert.Equal(t, "up", sf.Direction)
	}
}

func TestFitSeriesFlatAndDown(t *testing.T) {
	flat, err := analyze.FitSeries("X", makeObs(2020, 1, 5, 5, 5), analyze.MethodOLS)
	require.NoError(t, err)
	assert.Equal(t, "flat", flat.Direction)

	down, err := analyze.FitSeries("X", makeObs(2020, 1, 30, 20, 10), analyze.MethodOLS)
	require.NoError(t, err)
	assert.Equal(t, "down", down.Direction)
}

func TestFitSeriesTooShort(t *testing.T) {
	_, err := analyze.FitSeries("X", makeObs(2020, 1, 1, math.NaN()), analyze.MethodOLS)
	assert.Error(t, err)
}

func TestPair(t *testing.T) {
	p, err := analyze.Pair("gold", []float64{1, 2, 3, 4}, "usd", []float64{2, 4, 6, 9}, 0.05)
	require.NoError(t, err)
	assert.Equal(t, "gold", p.X)
	assert.Equal(t, 4, p.N)
	assert.Greater(t, p.Pearson, 0.9)
	require.NotNil(t, p.Significance)
	assert.Equal(t, 2, p.Significance.DF)

	_, err = analyze.Pair("a", []float64{1}, "b", nil, 0.05)
	assert.Error(t, err)
}

func TestNewMatrix(t *testing.T) {
	m, err := analyze.NewMatrix([]string{"a", "b"}, [][]float64{{1, 2, 3}, {3, 2, 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.Columns)
	assert.InDelta(t, -1.0, m.R[0][1], 1e-12)

	_, err = analyze.NewMatrix([]string{"a"}, [][]float64{{1}, {2}})
	assert.Error(t, err)
}
