package cmd

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/anantraj07/gold-analysis-project/internal/analyze"
	"github.com/anantraj07/gold-analysis-project/internal/app"
	"github.com/anantraj07/gold-analysis-project/internal/model"
	"github.com/anantraj07/gold-analysis-project/internal/pipeline"
	"github.com/anantraj07/gold-analysis-project/internal/util"
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Time-series measures: returns, growth, volatility, trend",
	Long: `Series commands treat the input as an ordered price series. Missing
observations are skipped; the span in years is measured between the first
and last priced dates unless --years is given.`,
}

var (
	seriesYears  float64
	seriesWindow int
)

// loadPrices reads the series and returns its performance measures.
func loadPrices(cmd *cobra.Command) (*app.Deps, analyze.Performance, []float64, error) {
	deps, err := buildDeps(cmd)
	if err != nil {
		return nil, analyze.Performance{}, nil, err
	}
	seriesID, obs, err := readSeries(cmd, deps)
	if err != nil {
		return nil, analyze.Performance{}, nil, err
	}
	prices := pipeline.Values(obs)
	if len(prices) == 0 {
		return nil, analyze.Performance{}, nil, errors.New("series has no priced observations")
	}
	years := seriesYears
	if years <= 0 {
		years = pipeline.Span(obs)
	}
	return deps, analyze.Measure(seriesID, prices, years), prices, nil
}

// kvResult builds a two-column table result.
func kvResult(command string, rows [][]string) *model.Result {
	table := &model.Table{Rows: append([][]string{{"Field", "Value"}}, rows...)}
	return newResult(model.KindTable, command, table, len(rows))
}

// ─── series returns ───────────────────────────────────────────────────────────

var seriesReturnsCmd = &cobra.Command{
	Use:   "returns",
	Short: "Performance report: cumulative, annualized, volatility, best/worst period",
	Example: `  goldstat series returns --in gold.csv
  goldstat transform resample --freq annual --method last --in gold.csv | goldstat series returns`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, perf, _, err := loadPrices(cmd)
		if err != nil {
			return err
		}
		result := newResult(model.KindReturns, "series returns", &perf, perf.Periods)
		if perf.Years == 0 {
			result.Warnings = append(result.Warnings, "span is 0 years; annualized return reported as 0")
		}
		return emit(cmd, deps, result, start)
	},
}

// ─── series cumulative ────────────────────────────────────────────────────────

var seriesCumulativeCmd = &cobra.Command{
	Use:     "cumulative",
	Short:   "Cumulative return: (last − first) / first × 100",
	Example: `  goldstat series cumulative --in gold.csv`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, perf, _, err := loadPrices(cmd)
		if err != nil {
			return err
		}
		return emit(cmd, deps, kvResult("series cumulative", [][]string{
			{"Series", perf.SeriesID},
			{"Start", util.FormatValue(perf.Start)},
			{"End", util.FormatValue(perf.End)},
			{"Cumulative %", util.FormatValue(perf.CumulativePct)},
		}), start)
	},
}

// ─── series annualized ────────────────────────────────────────────────────────

var seriesAnnualizedCmd = &cobra.Command{
	Use:   "annualized",
	Short: "Compound annual growth: ((last/first)^(1/years) − 1) × 100",
	Example: `  goldstat series annualized --in gold.csv
  goldstat series annualized --in gold.csv --years 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, perf, _, err := loadPrices(cmd)
		if err != nil {
			return err
		}
		return emit(cmd, deps, kvResult("series annualized", [][]string{
			{"Series", perf.SeriesID},
			{"Start", util.FormatValue(perf.Start)},
			{"End", util.FormatValue(perf.End)},
			{"Years", util.FormatValue(perf.Years)},
			{"Annualized %", util.FormatValue(perf.AnnualizedPct)},
		}), start)
	},
}

// ─── series volatility ────────────────────────────────────────────────────────

var seriesVolatilityCmd = &cobra.Command{
	Use:     "volatility",
	Short:   "Standard deviation of period-over-period percentage returns",
	Example: `  goldstat series volatility --in gold.csv`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, perf, _, err := loadPrices(cmd)
		if err != nil {
			return err
		}
		return emit(cmd, deps, kvResult("series volatility", [][]string{
			{"Series", perf.SeriesID},
			{"Periods", strconv.Itoa(perf.Periods)},
			{"Mean return %", util.FormatValue(perf.MeanReturn)},
			{"Volatility %", util.FormatValue(perf.Volatility)},
		}), start)
	},
}

// ─── series trend ─────────────────────────────────────────────────────────────

var seriesTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Bullish / bearish / sideways: last window mean vs the window before",
	Long: `Trend compares the mean of the last --window prices with the mean of the
window before it. A rise of more than 5% is bullish, a fall of more than
5% bearish, anything else sideways. Fewer than 2×window prices reports
insufficient_data.`,
	Example: `  goldstat series trend --in gold.csv
  goldstat series trend --in gold.csv --window 6`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, _, prices, err := loadPrices(cmd)
		if err != nil {
			return err
		}
		window := intFlag(cmd, "window", deps.Config.TrendWindow)
		tr := analyze.AnalyzeTrend(prices, window)
		return emit(cmd, deps, newResult(model.KindTrend, "series trend", &tr, len(prices)), start)
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(seriesCmd)
	seriesCmd.AddCommand(
		seriesReturnsCmd,
		seriesCumulativeCmd,
		seriesAnnualizedCmd,
		seriesVolatilityCmd,
		seriesTrendCmd,
	)

	seriesCmd.PersistentFlags().Float64Var(&seriesYears, "years", 0,
		"override the span in years used for annualizing (default: measured from dates)")
	seriesTrendCmd.Flags().IntVar(&seriesWindow, "window", analyze.DefaultTrendWindow,
		"trend window size (default from config)")
}
