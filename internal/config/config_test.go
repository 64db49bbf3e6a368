package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/anantraj07/gold-analysis-project/internal/config"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// writeConfig writes a config.json into dir and changes the working directory
// to dir for the duration of the test.
func writeConfig(t *testing.T, dir string, f config.File) {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chdir(t, dir)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// clearEnv blanks the GOLDSTAT_* variables Load consults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DEFAULT_FORMAT", "CONFIDENCE", "TREND_WINDOW", "HISTOGRAM_BINS",
		"DATE_COLUMN", "VALUE_COLUMN", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(config.EnvPrefix+"_"+k, "")
	}
}

// flagSet mirrors the persistent flags registered by the root command.
func flagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("goldstat", pflag.ContinueOnError)
	fs.String("format", "", "")
	fs.String("date-column", "", "")
	fs.String("value-column", "", "")
	fs.String("log-level", "", "")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

// ─── Defaults ─────────────────────────────────────────────────────────────────

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := config.Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != config.DefaultFormat {
		t.Errorf("Format: expected %q, got %q", config.DefaultFormat, cfg.Format)
	}
	if cfg.Confidence != config.DefaultConfidence {
		t.Errorf("Confidence: expected %g, got %g", config.DefaultConfidence, cfg.Confidence)
	}
	if cfg.TrendWindow != config.DefaultTrendWindow {
		t.Errorf("TrendWindow: expected %d, got %d", config.DefaultTrendWindow, cfg.TrendWindow)
	}
	if cfg.HistogramBins != config.DefaultHistogramBins {
		t.Errorf("HistogramBins: expected %d, got %d", config.DefaultHistogramBins, cfg.HistogramBins)
	}
	if cfg.DateColumn != "Date" || cfg.ValueColumn != "Gold_Price_INR" {
		t.Errorf("columns: got %q / %q", cfg.DateColumn, cfg.ValueColumn)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath should be empty when no file found, got %q", cfg.ConfigPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// ─── Config file loading ──────────────────────────────────────────────────────

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, t.TempDir(), config.File{
		DefaultFormat: "json",
		Confidence:    0.99,
		TrendWindow:   12,
		ValueColumn:   "Silver_Price_INR",
	})

	cfg, err := config.Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("Format: expected json, got %q", cfg.Format)
	}
	if cfg.Confidence != 0.99 {
		t.Errorf("Confidence: expected 0.99, got %g", cfg.Confidence)
	}
	if cfg.TrendWindow != 12 {
		t.Errorf("TrendWindow: expected 12, got %d", cfg.TrendWindow)
	}
	if cfg.ValueColumn != "Silver_Price_INR" {
		t.Errorf("ValueColumn: got %q", cfg.ValueColumn)
	}
	// Fields absent from the file keep their defaults.
	if cfg.HistogramBins != config.DefaultHistogramBins {
		t.Errorf("HistogramBins: expected default, got %d", cfg.HistogramBins)
	}
	if !strings.HasSuffix(cfg.ConfigPath, "config.json") {
		t.Errorf("ConfigPath should name config.json, got %q", cfg.ConfigPath)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.json")
	if err := config.WriteFile(path, config.File{HistogramBins: 8}); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HistogramBins != 8 {
		t.Errorf("HistogramBins: expected 8, got %d", cfg.HistogramBins)
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	clearEnv(t)
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.json"), nil); err == nil {
		t.Error("a missing --config file should be an error")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	if _, err := config.Load("", nil); err == nil {
		t.Error("malformed config.json should be an error")
	}
}

// ─── Environment and flag priority ────────────────────────────────────────────

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, t.TempDir(), config.File{Confidence: 0.9, DefaultFormat: "csv"})
	t.Setenv("GOLDSTAT_CONFIDENCE", "0.8")

	cfg, err := config.Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Confidence != 0.8 {
		t.Errorf("GOLDSTAT_CONFIDENCE should override file: got %g", cfg.Confidence)
	}
	if cfg.Format != "csv" {
		t.Errorf("Format: expected csv from file, got %q", cfg.Format)
	}
}

func TestLoadFlagOverridesEnvAndFile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, t.TempDir(), config.File{DefaultFormat: "csv"})
	t.Setenv("GOLDSTAT_DEFAULT_FORMAT", "tsv")

	cfg, err := config.Load("", flagSet(t, "--format", "md", "--value-column", "Price"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "md" {
		t.Errorf("--format should win: got %q", cfg.Format)
	}
	if cfg.ValueColumn != "Price" {
		t.Errorf("--value-column should win: got %q", cfg.ValueColumn)
	}
}

func TestLoadUnsetFlagDoesNotOverride(t *testing.T) {
	clearEnv(t)
	writeConfig(t, t.TempDir(), config.File{DefaultFormat: "csv"})

	cfg, err := config.Load("", flagSet(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "csv" {
		t.Errorf("unset flag should not override file value: got %q", cfg.Format)
	}
	if cfg.DateColumn != config.DefaultDateColumn {
		t.Errorf("unset flag should not blank the default: got %q", cfg.DateColumn)
	}
}

// ─── Validate ─────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Confidence: 0.95, TrendWindow: 20, HistogramBins: 20,
			DateColumn: "Date", ValueColumn: "Price", LogFormat: "text",
		}
	}
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"ok", func(*config.Config) {}, ""},
		{"confidence 1", func(c *config.Config) { c.Confidence = 1 }, "confidence"},
		{"confidence 0", func(c *config.Config) { c.Confidence = 0 }, "confidence"},
		{"window", func(c *config.Config) { c.TrendWindow = 0 }, "trend_window"},
		{"bins", func(c *config.Config) { c.HistogramBins = -1 }, "histogram_bins"},
		{"column", func(c *config.Config) { c.ValueColumn = "" }, "value_column"},
		{"log format", func(c *config.Config) { c.LogFormat = "xml" }, "log_format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			err := c.Validate()
			if tc.want == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestRows(t *testing.T) {
	cfg := &config.Config{Format: "table", Confidence: 0.95}
	rows := cfg.Rows()
	if rows[0][0] != "default_format" || rows[1][1] != "0.95" {
		t.Errorf("unexpected rows: %v", rows[:2])
	}
	last := rows[len(rows)-1]
	if last[0] != "config_file" || last[1] != "(not found)" {
		t.Errorf("config_file row: %v", last)
	}
}

// ─── WriteFile / Template ─────────────────────────────────────────────────────

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	f := config.Template()
	f.DefaultFormat = "csv"

	if err := config.WriteFile(path, f); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got config.File
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("WriteFile produced invalid JSON: %v", err)
	}
	if got != f {
		t.Errorf("round trip: expected %+v, got %+v", f, got)
	}
}

func TestWriteFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := config.WriteFile(path, config.Template()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file permissions: expected 0600, got %04o", info.Mode().Perm())
	}
}

func TestTemplateDefaults(t *testing.T) {
	tmpl := config.Template()
	if tmpl.DefaultFormat != "table" {
		t.Errorf("Template.DefaultFormat: expected table, got %q", tmpl.DefaultFormat)
	}
	if tmpl.Confidence != config.DefaultConfidence {
		t.Errorf("Template.Confidence: expected %g, got %g", config.DefaultConfidence, tmpl.Confidence)
	}
	if tmpl.LogFormat != "text" {
		t.Errorf("Template.LogFormat: expected text, got %q", tmpl.LogFormat)
	}
}
