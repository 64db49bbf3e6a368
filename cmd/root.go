// Package cmd implements the goldstat CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anantraj07/gold-analysis-project/internal/app"
	"github.com/anantraj07/gold-analysis-project/internal/config"
	"github.com/anantraj07/gold-analysis-project/internal/render"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	In          string
	InputFormat string
	Format      string
	Out         string
	Config      string
	DateColumn  string
	ValueColumn string
	LogLevel    string
	Quiet       bool
	Verbose     bool
	Debug       bool
}

// rootCmd is the base command. Running `goldstat` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "goldstat",
	Short: "goldstat — statistics for gold price series and investor surveys",
	Long: `goldstat computes descriptive statistics, correlation, regression,
confidence intervals, significance tests and time-series measures over
gold price data and investor-attitude survey responses.

Input is a CSV file with a header row (Date, Gold_Price_INR, ...) or the
JSONL observations written by goldstat itself, read from --in or stdin.

Quick start:
  goldstat describe --in gold.csv
  goldstat series returns --in gold.csv
  goldstat correlate Gold_Price_INR Inflation_Rate --in gold.csv
  goldstat transform resample --freq annual --in gold.csv | goldstat chart bar`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps(cmd *cobra.Command) (*app.Deps, error) {
	cfg, err := config.Load(globalFlags.Config, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !render.ValidFormat(cfg.Format) {
		return nil, fmt.Errorf("unknown format %q (valid: %v)", cfg.Format, render.Formats)
	}

	deps := app.New(cfg)
	deps.Log.WithField("config_file", cfg.ConfigPath).Debug("configuration resolved")
	return deps, nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.In, "in", "",
		"read input from file instead of stdin (- means stdin)")
	pf.StringVar(&globalFlags.InputFormat, "input-format", "",
		"input format: csv|jsonl (default: csv for .csv files and column commands, else jsonl)")
	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.StringVar(&globalFlags.Config, "config", "",
		"config file (default: ./config.json when present)")
	pf.StringVar(&globalFlags.DateColumn, "date-column", "",
		"CSV date column (default: Date)")
	pf.StringVar(&globalFlags.ValueColumn, "value-column", "",
		"CSV price column (default: Gold_Price_INR)")
	pf.StringVar(&globalFlags.LogLevel, "log-level", "",
		"log level: debug|info|warn|error (default: warn)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show warnings and timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log input parsing and configuration details")
}
