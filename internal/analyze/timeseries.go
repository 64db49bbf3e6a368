package analyze

import "math"

// ─── Returns ──────────────────────────────────────────────────────────────────

// Returns computes period-over-period percentage changes. The result has
// len(prices)-1 entries; fewer than two prices → empty slice. A zero prior
// price yields a 0 return for that period.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			continue
		}
		out[i-1] = (prices[i] - prev) / prev * 100
	}
	return out
}

// CumulativeReturn returns (end-start)/start*100, or 0 when start is 0.
func CumulativeReturn(start, end float64) float64 {
	if start == 0 {
		return 0
	}
	return (end - start) / start * 100
}

// AnnualizedReturn returns ((end/start)^(1/years) - 1)*100. It is 0 when
// start or years is 0, and when end/start is negative.
func AnnualizedReturn(start, end, years float64) float64 {
	if start == 0 || years == 0 {
		return 0
	}
	ratio := end / start
	if ratio < 0 {
		return 0
	}
	return (math.Pow(ratio, 1/years) - 1) * 100
}

// Volatility returns the population standard deviation of returns.
// Empty → 0.
func Volatility(returns []float64) float64 {
	return NewSample(returns).StdDev()
}

// ─── Trend classification ─────────────────────────────────────────────────────

// Trend is a coarse direction label for a price series.
type Trend string

const (
	TrendBullish          Trend = "bullish"
	TrendBearish          Trend = "bearish"
	TrendSideways         Trend = "sideways"
	TrendInsufficientData Trend = "insufficient_data"
)

// DefaultTrendWindow is the window size used when none is given.
const DefaultTrendWindow = 20

// trendThresholdPct is the move between windows needed to leave "sideways".
const trendThresholdPct = 5.0

// TrendResult explains a ClassifyTrend decision.
type TrendResult struct {
	Trend      Trend   `json:"trend"`
	Window     int     `json:"window"`
	RecentMean float64 `json:"recent_mean"`
	PriorMean  float64 `json:"prior_mean"`
	ChangePct  float64 `json:"change_pct"`
}

// ClassifyTrend compares the mean of the last window prices with the mean
// of the window before it. A rise of more than 5% is bullish, a fall of
// more than 5% bearish, anything else sideways. Fewer than 2*window prices
// → insufficient_data. window <= 0 uses DefaultTrendWindow.
func ClassifyTrend(prices []float64, window int) Trend {
	return AnalyzeTrend(prices, window).Trend
}

// AnalyzeTrend is ClassifyTrend with the window means attached.
func AnalyzeTrend(prices []float64, window int) TrendResult {
	if window <= 0 {
		window = DefaultTrendWindow
	}
	tr := TrendResult{Trend: TrendInsufficientData, Window: window}
	n := len(prices)
	if n < 2*window {
		return tr
	}
	tr.RecentMean = mean(prices[n-window:])
	tr.PriorMean = mean(prices[n-2*window : n-window])
	tr.ChangePct = CumulativeReturn(tr.PriorMean, tr.RecentMean)

	switch {
	case tr.ChangePct > trendThresholdPct:
		tr.Trend = TrendBullish
	case tr.ChangePct < -trendThresholdPct:
		tr.Trend = TrendBearish
	default:
		tr.Trend = TrendSideways
	}
	return tr
}

// ─── Performance ──────────────────────────────────────────────────────────────

// Performance collects the return measures of a price series.
type Performance struct {
	SeriesID      string  `json:"series_id"`
	Periods       int     `json:"periods"`
	Years         float64 `json:"years"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	CumulativePct float64 `json:"cumulative_pct"`
	AnnualizedPct float64 `json:"annualized_pct"`
	Volatility    float64 `json:"volatility"`
	MeanReturn    float64 `json:"mean_return"`
	BestReturn    float64 `json:"best_return"`
	WorstReturn   float64 `json:"worst_return"`
}

// Measure computes Performance for prices observed over years. Empty
// prices → zero Performance with only SeriesID and Years set.
func Measure(seriesID string, prices []float64, years float64) Performance {
	p := Performance{SeriesID: seriesID, Years: years}
	if len(prices) == 0 {
		return p
	}
	rets := Returns(prices)
	rs := NewSample(rets)
	p.Periods = len(rets)
	p.Start, p.End = prices[0], prices[len(prices)-1]
	p.CumulativePct = CumulativeReturn(p.Start, p.End)
	p.AnnualizedPct = AnnualizedReturn(p.Start, p.End, years)
	p.Volatility = rs.StdDev()
	p.MeanReturn = rs.Mean()
	p.BestReturn = rs.Max()
	p.WorstReturn = rs.Min()
	return p
}
