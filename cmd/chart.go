package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/anantraj07/gold-analysis-project/internal/analyze"
	"github.com/anantraj07/gold-analysis-project/internal/app"
	"github.com/anantraj07/gold-analysis-project/internal/chart"
	"github.com/anantraj07/gold-analysis-project/internal/model"
	"github.com/anantraj07/gold-analysis-project/internal/pipeline"
	"github.com/anantraj07/gold-analysis-project/internal/render"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a price series or its distribution as an ASCII chart",
	Long: `Chart commands read a price series and render to the terminal.

Pipeline examples:
  goldstat transform resample --freq annual --method mean --in gold.csv | goldstat chart bar
  goldstat chart plot --in gold.csv --title "Gold (INR/10g)"
  goldstat chart hist --in gold.csv --bins 10`,
}

var (
	chartWidth   int
	chartHeight  int
	chartTitle   string
	chartMaxBars int
	chartBins    int
	chartSteps   int
)

func chartOptions() chart.Options {
	return chart.Options{
		Width:   chartWidth,
		Height:  chartHeight,
		Title:   chartTitle,
		MaxBars: chartMaxBars,
	}
}

// chartData reports whether a data format was requested explicitly, in
// which case the chart's underlying numbers are rendered instead.
func chartData() bool {
	return globalFlags.Format != "" && globalFlags.Format != render.FormatTable
}

// ─── chart bar ───────────────────────────────────────────────────────────────

var chartBarCmd = &cobra.Command{
	Use:   "bar",
	Short: "Horizontal bar chart, one bar per observation",
	Long: `Renders a horizontal bar chart with one labeled bar per observation.

Best suited for low-frequency or resampled data (annual, quarterly). For
daily or monthly series, pipe through transform resample first.

Negative values are supported and bars extend left from a zero baseline.
Missing observations are skipped.`,
	Example: `  # Annual average price
  goldstat transform resample --freq annual --method mean --in gold.csv | goldstat chart bar

  # Annual returns
  goldstat transform resample --freq annual --method last --in gold.csv | goldstat transform returns | goldstat chart bar

  # Last 5 years only
  goldstat transform resample --freq annual --in gold.csv | goldstat chart bar --max-bars 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		seriesID, obs, err := readSeries(cmd, deps)
		if err != nil {
			return err
		}
		return chart.Bar(cmd.OutOrStdout(), seriesID, obs, chartOptions())
	},
}

// ─── chart plot ──────────────────────────────────────────────────────────────

var chartPlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Multi-line ASCII chart with labeled axes",
	Long: `Renders a multi-line chart with Y-axis tick labels and X-axis date labels.

Missing values appear as gaps in the curve, not zeros. Width auto-detects
from $COLUMNS (falls back to 80). Override with --width and --height.`,
	Example: `  goldstat chart plot --in gold.csv
  goldstat chart plot --in gold.csv --height 8 --title "Gold (INR/10g)"
  goldstat transform roll --stat mean --window 3 --in gold.csv | goldstat chart plot`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		seriesID, obs, err := readSeries(cmd, deps)
		if err != nil {
			return err
		}
		return chart.Plot(cmd.OutOrStdout(), seriesID, obs, chartOptions())
	},
}

// ─── chart hist ──────────────────────────────────────────────────────────────

var chartHistCmd = &cobra.Command{
	Use:   "hist",
	Short: "Histogram of prices in equal-width bins",
	Long: `Counts the prices into --bins equal-width bins spanning [min, max] and
draws one bar per bin. With --format json|jsonl|csv|tsv|md the bins are
printed as data instead.`,
	Example: `  goldstat chart hist --in gold.csv
  goldstat chart hist --in gold.csv --bins 10 --format csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		seriesID, obs, err := readSeries(cmd, deps)
		if err != nil {
			return err
		}
		bins := analyze.Histogram(pipeline.Values(obs), intFlag(cmd, "bins", deps.Config.HistogramBins))
		if chartData() {
			return emit(cmd, deps, newResult(model.KindHistogram, "chart hist", bins, len(bins)), start)
		}
		return chart.Histogram(cmd.OutOrStdout(), seriesID, bins, chartOptions())
	},
}

// ─── chart normal ────────────────────────────────────────────────────────────

var chartNormalCmd = &cobra.Command{
	Use:   "normal",
	Short: "Normal density fitted to the prices' mean and standard deviation",
	Long: `Fits a normal distribution with the sample mean and population standard
deviation and samples its density from mean−4σ to mean+4σ in steps of
σ/--steps. With --format json|jsonl|csv|tsv|md the points are printed as
data instead.`,
	Example: `  goldstat chart normal --in gold.csv
  goldstat chart normal --in gold.csv --steps 5 --format csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		seriesID, obs, err := readSeries(cmd, deps)
		if err != nil {
			return err
		}
		points, err := normalPoints(deps, seriesID, obs)
		if err != nil {
			return err
		}
		if chartData() {
			return emit(cmd, deps, newResult(model.KindHistogram, "chart normal", points, len(points)), start)
		}
		return chart.Curve(cmd.OutOrStdout(), points, chartOptions())
	},
}

func normalPoints(deps *app.Deps, seriesID string, obs []model.Observation) ([]analyze.CurvePoint, error) {
	s := analyze.Summarize(seriesID, obs)
	points := analyze.NormalCurve(s.Mean, s.Std, chartSteps)
	if points == nil {
		return nil, errors.New("chart normal: prices have zero spread")
	}
	deps.Log.WithField("mean", s.Mean).WithField("std", s.Std).Debug("normal curve fitted")
	return points, nil
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.AddCommand(chartBarCmd, chartPlotCmd, chartHistCmd, chartNormalCmd)

	pf := chartCmd.PersistentFlags()
	pf.IntVar(&chartWidth, "width", 0,
		"chart width in characters (default: auto-detect from $COLUMNS, fallback 80)")
	pf.IntVar(&chartHeight, "height", 12,
		"line chart height in rows")
	pf.StringVar(&chartTitle, "title", "",
		"chart title (default: series ID)")

	chartBarCmd.Flags().IntVar(&chartMaxBars, "max-bars", 0,
		"maximum bars to render, taking the last N (0 = no limit)")
	chartHistCmd.Flags().IntVar(&chartBins, "bins", analyze.DefaultBins,
		"number of bins (default from config)")
	chartNormalCmd.Flags().IntVar(&chartSteps, "steps", 10,
		"density samples per standard deviation")
}
