package analyze

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ─── Hypothesis tests ─────────────────────────────────────────────────────────

// CriticalT is the fixed two-tailed threshold used to flag significance.
// It approximates the 5% critical value and is applied regardless of the
// alpha passed to a test; alpha is only echoed back in the result.
const CriticalT = 1.96

// DefaultAlpha is the significance level recorded when none is supplied.
const DefaultAlpha = 0.05

// TestResult is the outcome of a t-based significance test.
type TestResult struct {
	Test        string  `json:"test"` // "t-test" or "correlation"
	TStatistic  float64 `json:"t_statistic"`
	DF          int     `json:"df"`
	PValue      float64 `json:"p_value"` // two-tailed, informational
	Alpha       float64 `json:"alpha"`
	Significant bool    `json:"significant"`
	Correlation float64 `json:"correlation,omitempty"`
	MeanA       float64 `json:"mean_a,omitempty"`
	MeanB       float64 `json:"mean_b,omitempty"`
}

// TTest computes the pooled-variance two-sample t-statistic
//
//	pooled = ((n1-1)var1 + (n2-1)var2) / (n1+n2-2)
//	t      = (mean1-mean2) / sqrt(pooled*(1/n1 + 1/n2))
//
// with population variances. Empty samples, fewer than two degrees of
// freedom and zero pooled variance yield t=0 and not significant.
func TTest(a, b []float64, alpha float64) TestResult {
	res := TestResult{Test: "t-test", Alpha: alpha, PValue: 1}
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 || n1+n2-2 <= 0 {
		return res
	}
	s1, s2 := NewSample(a), NewSample(b)
	res.MeanA, res.MeanB = s1.Mean(), s2.Mean()
	res.DF = n1 + n2 - 2

	pooled := (float64(n1-1)*s1.Variance() + float64(n2-1)*s2.Variance()) / float64(res.DF)
	if pooled == 0 {
		return res
	}
	res.TStatistic = (res.MeanA - res.MeanB) / math.Sqrt(pooled*(1/float64(n1)+1/float64(n2)))
	res.Significant = math.Abs(res.TStatistic) > CriticalT
	res.PValue = twoTailed(res.TStatistic, res.DF)
	return res
}

// CorrelationSignificance tests a correlation coefficient r from n pairs
// with t = r*sqrt(n-2)/sqrt(1-r²). n < 3 or |r| >= 1 yield t=0 and not
// significant.
func CorrelationSignificance(r float64, n int, alpha float64) TestResult {
	res := TestResult{Test: "correlation", Correlation: r, Alpha: alpha, PValue: 1}
	if n < 3 || math.Abs(r) >= 1 {
		return res
	}
	res.DF = n - 2
	res.TStatistic = r * math.Sqrt(float64(n-2)) / math.Sqrt(1-r*r)
	res.Significant = math.Abs(res.TStatistic) > CriticalT
	res.PValue = twoTailed(res.TStatistic, res.DF)
	return res
}

func twoTailed(t float64, df int) float64 {
	if df <= 0 {
		return 1
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}
