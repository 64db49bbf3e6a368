package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anantraj07/gold-analysis-project/internal/model"
	"github.com/anantraj07/gold-analysis-project/internal/transform"
	"github.com/anantraj07/gold-analysis-project/internal/util"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform a price series (CSV or JSONL in, JSONL out when piped)",
	Long: `Transform operators read a price series and write the transformed
observations. When stdout is a pipe and --format is not given they write
JSONL so that commands chain.

Pipeline example:
  goldstat transform filter --after 2015 --in gold.csv | goldstat transform resample --freq annual | goldstat chart bar
  goldstat transform returns --in gold.csv | goldstat describe`,
}

// runTransform reads the series, applies fn and writes the result.
func runTransform(cmd *cobra.Command, fn func([]model.Observation) ([]model.Observation, error)) error {
	deps, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	seriesID, obs, err := readSeries(cmd, deps)
	if err != nil {
		return err
	}
	out, err := fn(obs)
	if err != nil {
		return err
	}
	deps.Log.WithField("rows", len(out)).Debugf("%s applied", cmd.CommandPath())
	return writeSeries(cmd, deps, cmd.CommandPath(), seriesID, out)
}

// ─── returns ──────────────────────────────────────────────────────────────────

var transformReturnsCmd = &cobra.Command{
	Use:   "returns",
	Short: "Period-over-period percentage return: (p[t] − p[t−1]) / p[t−1] × 100",
	Long: `Returns replaces each price with its percentage change from the previous
priced observation. Missing prices are skipped and each return is dated at
the later price.`,
	Example: `  goldstat transform returns --in gold.csv
  goldstat transform resample --freq annual --method last --in gold.csv | goldstat transform returns`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransform(cmd, transform.Returns)
	},
}

// ─── log ──────────────────────────────────────────────────────────────────────

var transformLogCmd = &cobra.Command{
	Use:     "log",
	Short:   "Natural log of each observation value",
	Example: `  goldstat transform log --in gold.csv`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransform(cmd, func(obs []model.Observation) ([]model.Observation, error) {
			out, warnings := transform.Log(obs)
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠  %s\n", w)
			}
			return out, nil
		})
	},
}

// ─── resample ─────────────────────────────────────────────────────────────────

var (
	transformResampleFreq   string
	transformResampleMethod string
)

var transformResampleCmd = &cobra.Command{
	Use:   "resample",
	Short: "Downsample to lower frequency: monthly, quarterly, or annual",
	Example: `  goldstat transform resample --freq quarterly --method mean --in gold.csv
  goldstat transform resample --freq annual --method last --in gold.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		freq, method, err := transform.ParseResample(transformResampleFreq, transformResampleMethod)
		if err != nil {
			return err
		}
		return runTransform(cmd, func(obs []model.Observation) ([]model.Observation, error) {
			return transform.Resample(obs, freq, method)
		})
	},
}

// ─── filter ───────────────────────────────────────────────────────────────────

var (
	transformFilterAfter  string
	transformFilterBefore string
	transformFilterDrop   bool
)

var transformFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Keep observations within an inclusive date range",
	Example: `  goldstat transform filter --after 2020-01-01 --in gold.csv
  goldstat transform filter --after 2015 --before 2019 --drop-missing --in gold.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := transform.FilterOptions{DropMissing: transformFilterDrop}
		var err error
		if transformFilterAfter != "" {
			if opts.After, err = util.ParseDate(transformFilterAfter); err != nil {
				return fmt.Errorf("--after: %w", err)
			}
		}
		if transformFilterBefore != "" {
			if opts.Before, err = util.ParseDate(transformFilterBefore); err != nil {
				return fmt.Errorf("--before: %w", err)
			}
		}
		return runTransform(cmd, func(obs []model.Observation) ([]model.Observation, error) {
			return transform.Filter(obs, opts), nil
		})
	},
}

// ─── roll ─────────────────────────────────────────────────────────────────────

var (
	transformRollWindow int
	transformRollStat   string
)

var transformRollCmd = &cobra.Command{
	Use:   "roll",
	Short: "Rolling window statistic: mean, std, min, or max",
	Example: `  goldstat transform roll --stat mean --window 3 --in gold.csv
  goldstat transform returns --in gold.csv | goldstat transform roll --stat std --window 6`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransform(cmd, func(obs []model.Observation) ([]model.Observation, error) {
			return transform.Roll(obs, transformRollWindow, transform.RollStat(transformRollStat))
		})
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.AddCommand(
		transformReturnsCmd,
		transformLogCmd,
		transformResampleCmd,
		transformFilterCmd,
		transformRollCmd,
	)

	// resample flags
	transformResampleCmd.Flags().StringVar(&transformResampleFreq, "freq", "annual", "target frequency: monthly|quarterly|annual")
	transformResampleCmd.Flags().StringVar(&transformResampleMethod, "method", "mean", "aggregation method: mean|last|min|max")

	// filter flags
	transformFilterCmd.Flags().StringVar(&transformFilterAfter, "after", "", "keep obs dated on or after this date")
	transformFilterCmd.Flags().StringVar(&transformFilterBefore, "before", "", "keep obs dated on or before this date")
	transformFilterCmd.Flags().BoolVar(&transformFilterDrop, "drop-missing", false, "drop missing observations")

	// roll flags
	transformRollCmd.Flags().IntVar(&transformRollWindow, "window", 12, "window size in observations")
	transformRollCmd.Flags().StringVar(&transformRollStat, "stat", "mean", "statistic: mean|std|min|max")
}
