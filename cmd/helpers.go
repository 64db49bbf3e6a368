package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anantraj07/gold-analysis-project/internal/app"
	"github.com/anantraj07/gold-analysis-project/internal/model"
	"github.com/anantraj07/gold-analysis-project/internal/pipeline"
	"github.com/anantraj07/gold-analysis-project/internal/render"
)

const (
	inputCSV   = "csv"
	inputJSONL = "jsonl"
)

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// outputWriter returns def, or the --out file when one is set. The returned
// close function must always be called.
func outputWriter(def io.Writer) (io.Writer, func() error, error) {
	if globalFlags.Out == "" {
		return def, func() error { return nil }, nil
	}
	f, err := os.Create(globalFlags.Out)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// ─── Input ────────────────────────────────────────────────────────────────────

// openInput returns the --in file, or the command's stdin when --in is
// empty or "-". The name is used in log fields.
func openInput(cmd *cobra.Command) (io.ReadCloser, string, error) {
	if globalFlags.In == "" || globalFlags.In == "-" {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}
	f, err := os.Open(globalFlags.In)
	if err != nil {
		return nil, "", fmt.Errorf("opening input: %w", err)
	}
	return f, globalFlags.In, nil
}

// inputFormat returns --input-format when set, otherwise infers it from the
// --in extension, otherwise def.
func inputFormat(def string) string {
	if globalFlags.InputFormat != "" {
		return strings.ToLower(globalFlags.InputFormat)
	}
	switch strings.ToLower(filepath.Ext(globalFlags.In)) {
	case ".csv", ".tsv":
		return inputCSV
	case ".jsonl", ".json":
		return inputJSONL
	}
	return def
}

// csvOptions builds CSV column options from the resolved config.
func csvOptions(deps *app.Deps) pipeline.CSVOptions {
	opts := pipeline.CSVOptions{
		DateColumn:  deps.Config.DateColumn,
		ValueColumn: deps.Config.ValueColumn,
	}
	if strings.EqualFold(filepath.Ext(globalFlags.In), ".tsv") {
		opts.Delimiter = '\t'
	}
	return opts
}

// readSeries loads one dated price series from CSV or JSONL input.
func readSeries(cmd *cobra.Command, deps *app.Deps) (string, []model.Observation, error) {
	r, name, err := openInput(cmd)
	if err != nil {
		return "", nil, err
	}
	defer r.Close()

	format := inputFormat(inputJSONL)
	var (
		seriesID string
		obs      []model.Observation
	)
	switch format {
	case inputCSV:
		seriesID, obs, err = pipeline.ReadCSV(r, csvOptions(deps))
	case inputJSONL:
		seriesID, obs, err = pipeline.ReadObservations(r)
	default:
		return "", nil, fmt.Errorf("unknown input format %q (valid: csv, jsonl)", format)
	}
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if seriesID == "" {
		seriesID = "series"
	}
	deps.Log.WithFields(logrus.Fields{
		"input":  name,
		"format": format,
		"series": seriesID,
		"rows":   len(obs),
	}).Debug("series loaded")
	return seriesID, obs, nil
}

// readColumns loads named numeric columns from CSV input. Rows missing any
// of the columns are dropped; the returned warnings say how many.
func readColumns(cmd *cobra.Command, deps *app.Deps, cols ...string) (map[string][]float64, []string, error) {
	if format := inputFormat(inputCSV); format != inputCSV {
		return nil, nil, fmt.Errorf("%s reads named columns and needs CSV input, got %s", cmd.CommandPath(), format)
	}
	r, name, err := openInput(cmd)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	data, dropped, err := pipeline.ReadColumns(r, csvOptions(deps), cols...)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", name, err)
	}
	var warnings []string
	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("dropped %d rows with missing values", dropped))
	}
	deps.Log.WithFields(logrus.Fields{
		"input":   name,
		"columns": cols,
		"rows":    len(data[cols[0]]),
		"dropped": dropped,
	}).Debug("columns loaded")
	return data, warnings, nil
}

// readResponses loads survey responses from JSONL or a JSON array.
func readResponses(cmd *cobra.Command, deps *app.Deps) ([]model.SurveyResponse, error) {
	r, name, err := openInput(cmd)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	responses, err := pipeline.ReadSurvey(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	deps.Log.WithFields(logrus.Fields{"input": name, "responses": len(responses)}).Debug("survey loaded")
	return responses, nil
}

// ─── Output ───────────────────────────────────────────────────────────────────

// newResult wraps a payload in a Result envelope.
func newResult(kind, command string, data interface{}, items int) *model.Result {
	return &model.Result{
		Kind:        kind,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        data,
		Stats:       model.ResultStats{Items: items},
	}
}

// emit renders result in the resolved format and prints the footer to
// stderr unless --quiet is set.
func emit(cmd *cobra.Command, deps *app.Deps, result *model.Result, start time.Time) error {
	result.Stats.DurationMs = time.Since(start).Milliseconds()

	w, closeFn, err := outputWriter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeFn()

	if err := render.Render(w, result, resolveFormat(deps.Config.Format)); err != nil {
		return err
	}
	for _, warn := range result.Warnings {
		deps.Log.Info(warn)
	}
	if !deps.Config.Quiet {
		render.PrintFooter(cmd.ErrOrStderr(), result, deps.Config.Verbose)
	}
	return nil
}

// writeSeries writes transformed observations. Without an explicit --format
// it writes JSONL when stdout is a pipe so that commands chain.
func writeSeries(cmd *cobra.Command, deps *app.Deps, command, seriesID string, obs []model.Observation) error {
	format := resolveFormat(deps.Config.Format)
	if globalFlags.Format == "" {
		if pipeline.IsTTY() {
			format = render.FormatTable
		} else {
			format = render.FormatJSONL
		}
	}

	w, closeFn, err := outputWriter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeFn()

	if format == render.FormatJSONL {
		return pipeline.WriteJSONL(w, seriesID, obs)
	}
	result := newResult(model.KindSeriesData, command, &model.SeriesData{
		SeriesID: seriesID,
		Obs:      obs,
	}, len(obs))
	return render.Render(w, result, format)
}

// printKVTableTo renders a two-column key/value table with aligned columns.
func printKVTableTo(w io.Writer, rows [][]string) {
	maxKey := 0
	for _, r := range rows {
		if len(r[0]) > maxKey {
			maxKey = len(r[0])
		}
	}
	for _, r := range rows {
		padding := strings.Repeat(" ", maxKey-len(r[0]))
		fmt.Fprintf(w, "  %s%s  %s\n", r[0], padding, r[1])
	}
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The add callback is called with row values as variadic strings.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

// ─── Flags and arguments ──────────────────────────────────────────────────────

// floatFlag returns the named flag when set on the command line, else def.
func floatFlag(cmd *cobra.Command, name string, def float64) float64 {
	if cmd.Flags().Changed(name) {
		if v, err := cmd.Flags().GetFloat64(name); err == nil {
			return v
		}
	}
	return def
}

// intFlag returns the named flag when set on the command line, else def.
func intFlag(cmd *cobra.Command, name string, def int) int {
	if cmd.Flags().Changed(name) {
		if v, err := cmd.Flags().GetInt(name); err == nil {
			return v
		}
	}
	return def
}

// splitColumns splits a comma-separated column list, dropping blanks.
func splitColumns(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// parseCount parses a non-negative integer argument, with a descriptive
// label for errors.
func parseCount(s, label string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a non-negative integer", label, s)
	}
	return n, nil
}
