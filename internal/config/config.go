// Package config handles loading and resolving goldstat configuration.
// Resolution order (later layers win):
//  1. built-in defaults
//  2. config.json in the current working directory (or --config PATH)
//  3. GOLDSTAT_* environment variables
//  4. CLI flags bound to the flag set passed to Load
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultConfigFile    = "config.json"
	DefaultFormat        = "table"
	DefaultConfidence    = 0.95
	DefaultTrendWindow   = 20
	DefaultHistogramBins = 20
	DefaultDateColumn    = "Date"
	DefaultValueColumn   = "Gold_Price_INR"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	EnvPrefix            = "GOLDSTAT"
)

// flagKeys maps persistent flag names onto config keys.
var flagKeys = map[string]string{
	"format":       "default_format",
	"date-column":  "date_column",
	"value-column": "value_column",
	"log-level":    "log_level",
}

// File is the on-disk representation of config.json. Zero fields are
// omitted so that a partial file leaves the defaults in place.
type File struct {
	DefaultFormat string  `json:"default_format,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
	TrendWindow   int     `json:"trend_window,omitempty"`
	HistogramBins int     `json:"histogram_bins,omitempty"`
	DateColumn    string  `json:"date_column,omitempty"`
	ValueColumn   string  `json:"value_column,omitempty"`
	LogLevel      string  `json:"log_level,omitempty"`
	LogFormat     string  `json:"log_format,omitempty"`
}

// Config is the fully-resolved runtime configuration.
type Config struct {
	Format        string  `mapstructure:"default_format"`
	Confidence    float64 `mapstructure:"confidence"`
	TrendWindow   int     `mapstructure:"trend_window"`
	HistogramBins int     `mapstructure:"histogram_bins"`
	DateColumn    string  `mapstructure:"date_column"`
	ValueColumn   string  `mapstructure:"value_column"`
	LogLevel      string  `mapstructure:"log_level"`
	LogFormat     string  `mapstructure:"log_format"`

	ConfigPath string `mapstructure:"-"` // path of the config file that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	Quiet   bool `mapstructure:"-"`
	Verbose bool `mapstructure:"-"`
	Debug   bool `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_format", DefaultFormat)
	v.SetDefault("confidence", DefaultConfidence)
	v.SetDefault("trend_window", DefaultTrendWindow)
	v.SetDefault("histogram_bins", DefaultHistogramBins)
	v.SetDefault("date_column", DefaultDateColumn)
	v.SetDefault("value_column", DefaultValueColumn)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
}

// Load resolves configuration from all sources. path names an explicit
// config file (empty means ./config.json when present). flags may be nil;
// otherwise any of --format, --date-column, --value-column and --log-level
// it defines are bound so that explicitly set flags override every other
// layer.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("json")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, filepath.Ext(DefaultConfigFile)))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		if abs, err := filepath.Abs(used); err == nil {
			used = abs
		}
		cfg.ConfigPath = used
	}
	return &cfg, nil
}

// Validate returns an error describing every out-of-range setting.
func (c *Config) Validate() error {
	var problems []string
	if c.Confidence <= 0 || c.Confidence >= 1 {
		problems = append(problems, fmt.Sprintf("confidence must be in (0, 1), got %g", c.Confidence))
	}
	if c.TrendWindow < 1 {
		problems = append(problems, fmt.Sprintf("trend_window must be positive, got %d", c.TrendWindow))
	}
	if c.HistogramBins < 1 {
		problems = append(problems, fmt.Sprintf("histogram_bins must be positive, got %d", c.HistogramBins))
	}
	if c.DateColumn == "" || c.ValueColumn == "" {
		problems = append(problems, "date_column and value_column must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format must be text or json, got %q", c.LogFormat))
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration:\n  " + strings.Join(problems, "\n  "))
}

// Rows returns the resolved settings as key/value pairs in a stable order,
// suitable for `goldstat config get`.
func (c *Config) Rows() [][]string {
	src := "(not found)"
	if c.ConfigPath != "" {
		src = c.ConfigPath
	}
	return [][]string{
		{"default_format", c.Format},
		{"confidence", fmt.Sprintf("%g", c.Confidence)},
		{"trend_window", fmt.Sprintf("%d", c.TrendWindow)},
		{"histogram_bins", fmt.Sprintf("%d", c.HistogramBins)},
		{"date_column", c.DateColumn},
		{"value_column", c.ValueColumn},
		{"log_level", c.LogLevel},
		{"log_format", c.LogFormat},
		{"config_file", src},
	}
}

// Template returns a File populated with the defaults, suitable for
// writing an initial config.json via `goldstat config init`.
func Template() File {
	return File{
		DefaultFormat: DefaultFormat,
		Confidence:    DefaultConfidence,
		TrendWindow:   DefaultTrendWindow,
		HistogramBins: DefaultHistogramBins,
		DateColumn:    DefaultDateColumn,
		ValueColumn:   DefaultValueColumn,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}
