// Package app wires together configuration and the logger into a single
// Deps struct that commands receive at runtime.
package app

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/anantraj07/gold-analysis-project/internal/config"
)

// Deps holds all runtime dependencies injected into command Run functions.
type Deps struct {
	Config *config.Config
	Log    *logrus.Logger
}

// New builds a Deps from resolved config. Diagnostics go to stderr so that
// stdout stays clean for pipelines.
func New(cfg *config.Config) *Deps {
	return &Deps{
		Config: cfg,
		Log:    NewLogger(cfg, os.Stderr),
	}
}

// NewLogger returns a logrus logger writing to w. --debug forces debug
// level and --quiet forces error level; otherwise log_level applies,
// falling back to warn when it does not parse.
func NewLogger(cfg *config.Config, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	switch {
	case cfg.Debug:
		level = logrus.DebugLevel
	case cfg.Quiet:
		level = logrus.ErrorLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return log
}
