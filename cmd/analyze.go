package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anantraj07/gold-analysis-project/internal/analyze"
	"github.com/anantraj07/gold-analysis-project/internal/model"
)

// ─── describe ─────────────────────────────────────────────────────────────────

var describeColumns string

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Descriptive statistics: mean, median, mode, std, quartiles, skew",
	Long: `Describe prints every descriptive statistic for the price series.

With --columns it summarizes several CSV columns side by side; rows with a
missing value in any of the listed columns are dropped first.`,
	Example: `  goldstat describe --in gold.csv
  goldstat describe --in gold.csv --columns Gold_Price_INR,Silver_Price_INR,Inflation_Rate
  goldstat transform returns --in gold.csv | goldstat describe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}

		if cols := splitColumns(describeColumns); len(cols) > 0 {
			data, warnings, err := readColumns(cmd, deps, cols...)
			if err != nil {
				return err
			}
			sums := make([]analyze.Summary, len(cols))
			for i, c := range cols {
				sums[i] = analyze.NewSample(data[c]).Summary()
				sums[i].SeriesID = c
			}
			result := newResult(model.KindSummary, "describe", sums, len(sums))
			result.Warnings = warnings
			return emit(cmd, deps, result, start)
		}

		seriesID, obs, err := readSeries(cmd, deps)
		if err != nil {
			return err
		}
		s := analyze.Summarize(seriesID, obs)
		result := newResult(model.KindSummary, "describe", &s, s.Count)
		if s.Missing > 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%d missing observations excluded", s.Missing))
		}
		return emit(cmd, deps, result, start)
	},
}

// ─── correlate ────────────────────────────────────────────────────────────────

var correlateAlpha float64

var correlateCmd = &cobra.Command{
	Use:   "correlate <column> <column> [column...]",
	Short: "Pearson correlation between CSV columns",
	Long: `Correlate computes the Pearson coefficient between two CSV columns,
together with the covariance and a t-test of the coefficient.

With three or more columns it prints the full correlation matrix.`,
	Example: `  goldstat correlate Gold_Price_INR Inflation_Rate --in gold.csv
  goldstat correlate Gold_Price_INR Silver_Price_INR USD_INR --in gold.csv --format md`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		data, warnings, err := readColumns(cmd, deps, args...)
		if err != nil {
			return err
		}

		var result *model.Result
		if len(args) == 2 {
			p, err := analyze.Pair(args[0], data[args[0]], args[1], data[args[1]], correlateAlpha)
			if err != nil {
				return err
			}
			result = newResult(model.KindCorrelation, "correlate", &p, p.N)
		} else {
			cols := make([][]float64, len(args))
			for i, c := range args {
				cols[i] = data[c]
			}
			m, err := analyze.NewMatrix(args, cols)
			if err != nil {
				return err
			}
			result = newResult(model.KindCorrelation, "correlate", &m, len(data[args[0]]))
		}
		result.Warnings = warnings
		return emit(cmd, deps, result, start)
	},
}

// ─── regress ──────────────────────────────────────────────────────────────────

var (
	regressMethod string
	regressTime   bool
)

var regressCmd = &cobra.Command{
	Use:   "regress [<x-column> <y-column>]",
	Short: "Fit a line y = mx + b between two columns, or over time with --time",
	Long: `Regress fits a straight line by ordinary least squares (default) or by
the outlier-resistant Theil-Sen estimator.

With two column arguments it regresses the second CSV column on the first.
With --time it regresses the price series on elapsed days and reports the
slope per day and per year.`,
	Example: `  goldstat regress Inflation_Rate Gold_Price_INR --in gold.csv
  goldstat regress --time --in gold.csv --method theil-sen`,
	Args: func(cmd *cobra.Command, args []string) error {
		if regressTime {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		method := analyze.FitMethod(regressMethod)
		switch method {
		case analyze.MethodOLS, analyze.MethodTheilSen:
		default:
			return fmt.Errorf("unknown method %q (valid: ols, theil-sen)", regressMethod)
		}
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}

		if regressTime {
			seriesID, obs, err := readSeries(cmd, deps)
			if err != nil {
				return err
			}
			sf, err := analyze.FitSeries(seriesID, obs, method)
			if err != nil {
				return err
			}
			return emit(cmd, deps, newResult(model.KindRegression, "regress", &sf, sf.N), start)
		}

		data, warnings, err := readColumns(cmd, deps, args[0], args[1])
		if err != nil {
			return err
		}
		fit := analyze.Fit
		if method == analyze.MethodTheilSen {
			fit = analyze.FitTheilSen
		}
		reg, err := fit(data[args[0]], data[args[1]])
		if err != nil {
			return err
		}
		result := newResult(model.KindRegression, "regress", &reg, reg.N)
		result.Warnings = warnings
		return emit(cmd, deps, result, start)
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(describeCmd, correlateCmd, regressCmd)

	describeCmd.Flags().StringVar(&describeColumns, "columns", "",
		"comma-separated CSV columns to summarize side by side")
	correlateCmd.Flags().Float64Var(&correlateAlpha, "alpha", analyze.DefaultAlpha,
		"significance level reported with the coefficient")
	regressCmd.Flags().StringVar(&regressMethod, "method", string(analyze.MethodOLS),
		"fit method: ols|theil-sen")
	regressCmd.Flags().BoolVar(&regressTime, "time", false,
		"regress the price series on elapsed days")
}
