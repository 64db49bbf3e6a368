package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anantraj07/gold-analysis-project/internal/analyze"
	"github.com/anantraj07/gold-analysis-project/internal/model"
	"github.com/anantraj07/gold-analysis-project/internal/pipeline"
	"github.com/anantraj07/gold-analysis-project/internal/transform"
	"github.com/anantraj07/gold-analysis-project/internal/util"
)

var ciCmd = &cobra.Command{
	Use:   "ci",
	Short: "Confidence intervals for a mean or a proportion",
	Long: `Confidence intervals use the normal approximation: estimate ± z·SE.
The confidence level comes from --confidence, falling back to the
confidence setting in config.json (default 0.95).`,
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Significance tests: two-sample t-test and correlation t-test",
}

// confidenceLevel returns --confidence when set, else def.
func confidenceLevel(cmd *cobra.Command, def float64) (float64, error) {
	conf := floatFlag(cmd, "confidence", def)
	if conf <= 0 || conf >= 1 {
		return 0, fmt.Errorf("--confidence must be in (0, 1), got %g", conf)
	}
	return conf, nil
}

// ─── ci mean ──────────────────────────────────────────────────────────────────

var ciMeanCmd = &cobra.Command{
	Use:   "mean",
	Short: "Interval for the mean price: mean ± z·σ/√n",
	Example: `  goldstat ci mean --in gold.csv
  goldstat ci mean --in gold.csv --confidence 0.99`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		_, obs, err := readSeries(cmd, deps)
		if err != nil {
			return err
		}
		conf, err := confidenceLevel(cmd, deps.Config.Confidence)
		if err != nil {
			return err
		}
		ci := analyze.MeanCI(pipeline.Values(obs), conf)
		return emit(cmd, deps, newResult(model.KindInterval, "ci mean", &ci, ci.N), start)
	},
}

// ─── ci proportion ────────────────────────────────────────────────────────────

var ciProportionCmd = &cobra.Command{
	Use:   "proportion <successes> <total>",
	Short: "Interval for a proportion: p ± z·√(p(1−p)/n), clamped to [0, 1]",
	Example: `  goldstat ci proportion 54 80
  goldstat ci proportion 54 80 --confidence 0.9 --format json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		successes, err := parseCount(args[0], "successes")
		if err != nil {
			return err
		}
		total, err := parseCount(args[1], "total")
		if err != nil {
			return err
		}
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		conf, err := confidenceLevel(cmd, deps.Config.Confidence)
		if err != nil {
			return err
		}
		ci, err := analyze.ProportionCI(successes, total, conf)
		if err != nil {
			return err
		}
		return emit(cmd, deps, newResult(model.KindInterval, "ci proportion", &ci, ci.N), start)
	},
}

// ─── test ttest ───────────────────────────────────────────────────────────────

var (
	testAlpha float64
	testSplit string
)

var testTTestCmd = &cobra.Command{
	Use:   "ttest [<column-a> <column-b>]",
	Short: "Pooled two-sample t-test between two columns, or before/after a date",
	Long: `Ttest compares two samples with a pooled-variance t-statistic.
The difference is reported significant when |t| > 1.96.

With two column arguments the samples are CSV columns. With --split DATE
the price series is divided into observations before the date and those
on or after it.`,
	Example: `  goldstat test ttest Gold_Price_INR Silver_Price_INR --in gold.csv
  goldstat test ttest --split 2020-01-01 --in gold.csv`,
	Args: func(cmd *cobra.Command, args []string) error {
		if testSplit != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}

		if testSplit != "" {
			at, err := util.ParseDate(testSplit)
			if err != nil {
				return fmt.Errorf("--split: %w", err)
			}
			_, obs, err := readSeries(cmd, deps)
			if err != nil {
				return err
			}
			before := transform.Filter(obs, transform.FilterOptions{Before: at.AddDate(0, 0, -1), DropMissing: true})
			after := transform.Filter(obs, transform.FilterOptions{After: at, DropMissing: true})
			if len(before) == 0 || len(after) == 0 {
				return errors.New("--split leaves one side empty")
			}
			res := analyze.TTest(pipeline.Values(before), pipeline.Values(after), testAlpha)
			return emit(cmd, deps, newResult(model.KindHypothesis, "test ttest", &res, len(before)+len(after)), start)
		}

		data, warnings, err := readColumns(cmd, deps, args[0], args[1])
		if err != nil {
			return err
		}
		res := analyze.TTest(data[args[0]], data[args[1]], testAlpha)
		result := newResult(model.KindHypothesis, "test ttest", &res, 2*len(data[args[0]]))
		result.Warnings = warnings
		return emit(cmd, deps, result, start)
	},
}

// ─── test corr ────────────────────────────────────────────────────────────────

var testCorrCmd = &cobra.Command{
	Use:   "corr <column> <column>",
	Short: "Is a Pearson coefficient significant? t = r√(n−2)/√(1−r²)",
	Example: `  goldstat test corr Gold_Price_INR Inflation_Rate --in gold.csv`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		data, warnings, err := readColumns(cmd, deps, args[0], args[1])
		if err != nil {
			return err
		}
		x, y := data[args[0]], data[args[1]]
		if err := analyze.CheckPaired(x, y); err != nil {
			return err
		}
		res := analyze.CorrelationSignificance(analyze.Pearson(x, y), len(x), testAlpha)
		result := newResult(model.KindHypothesis, "test corr", &res, len(x))
		result.Warnings = warnings
		return emit(cmd, deps, result, start)
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(ciCmd, testCmd)
	ciCmd.AddCommand(ciMeanCmd, ciProportionCmd)
	testCmd.AddCommand(testTTestCmd, testCorrCmd)

	ciCmd.PersistentFlags().Float64("confidence", analyze.DefaultConfidence,
		"confidence level in (0, 1) (default from config)")
	testCmd.PersistentFlags().Float64Var(&testAlpha, "alpha", analyze.DefaultAlpha,
		"significance level reported with the result")
	testTTestCmd.Flags().StringVar(&testSplit, "split", "",
		"split the price series at this date instead of reading two columns")
}
