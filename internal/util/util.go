// Package util provides shared utilities: date parsing, value parsing and
// formatting, and error aggregation.
package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ─── Date Parsing ─────────────────────────────────────────────────────────────

const dateLayout = "2006-01-02"

// dateLayouts are tried in order by ParseDate. Spreadsheet exports of the
// price history use any of these.
var dateLayouts = []string{
	dateLayout,
	"2006-01",
	"2006",
	"02-01-2006",
	"02/01/2006",
	time.RFC3339,
}

// ParseDate parses a date string into a time.Time (UTC midnight).
// YYYY-MM-DD is preferred; YYYY-MM, YYYY, DD-MM-YYYY, DD/MM/YYYY and
// RFC 3339 timestamps are also accepted.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// FormatDate formats a time.Time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ─── Observation Value Parsing ────────────────────────────────────────────────

// IsMissingCell reports whether a raw cell denotes a missing value.
func IsMissingCell(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "." || strings.EqualFold(s, "na") || strings.EqualFold(s, "null")
}

// ParseNumber parses a numeric cell. Thousands separators are stripped so
// "1,10,383" and "110,383" both parse. Missing cells return NaN with a nil
// error; anything else that is not a number returns an error.
func ParseNumber(s string) (float64, error) {
	if IsMissingCell(s) {
		return math.NaN(), nil
	}
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

// FormatValue formats a float64 for display, showing "." for NaN.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ─── Error Helpers ────────────────────────────────────────────────────────────

// MultiError collects multiple errors and presents them as one.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

func (m *MultiError) Error() string {
	msgs := make([]string, len(m.Errors))
	for i, e := range m.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.Errors
}
