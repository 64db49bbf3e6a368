// Package pipeline provides helpers for reading and writing Observation
// streams. JSONL is the canonical pipe format; CSV is accepted for
// spreadsheet exports of the price history and for paired columns.
package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/anantraj07/gold-analysis-project/internal/model"
	"github.com/anantraj07/gold-analysis-project/internal/util"
)

// ErrNoObservations is returned when the input holds no records.
var ErrNoObservations = errors.New("no observations read from input (is stdin empty?)")

// ParseError locates a malformed cell or record in the input.
type ParseError struct {
	Line   int
	Column string // empty for whole-record errors
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ─── JSONL ────────────────────────────────────────────────────────────────────

// ReadObservations reads JSONL records from r (stdin) and returns
// the series_id and slice of Observations.
// Each line must be a JSON object with at least "date" and "value" fields.
func ReadObservations(r io.Reader) (string, []model.Observation, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var obs []model.Observation
	seriesID := ""

	type row struct {
		SeriesID string      `json:"series_id"`
		Date     string      `json:"date"`
		Value    interface{} `json:"value"`
		ValueRaw string      `json:"value_raw"`
	}

	lineNum := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		var rec row
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return "", nil, &ParseError{Line: lineNum, Err: fmt.Errorf("invalid JSON: %w", err)}
		}

		if seriesID == "" && rec.SeriesID != "" {
			seriesID = rec.SeriesID
		}

		date, err := util.ParseDate(rec.Date)
		if err != nil {
			return "", nil, &ParseError{Line: lineNum, Column: "date", Err: err}
		}

		// value may be null (NaN), a number, or a missing-value string
		var val float64
		raw := rec.ValueRaw
		switch v := rec.Value.(type) {
		case nil:
			val = math.NaN()
			if raw == "" {
				raw = "."
			}
		case float64:
			val = v
			if raw == "" {
				raw = fmt.Sprintf("%g", v)
			}
		case string:
			if !util.IsMissingCell(v) {
				return "", nil, &ParseError{Line: lineNum, Column: "value", Err: fmt.Errorf("unexpected string value %q", v)}
			}
			val = math.NaN()
			raw = "."
		default:
			return "", nil, &ParseError{Line: lineNum, Column: "value", Err: fmt.Errorf("unexpected value type %T", rec.Value)}
		}

		obs = append(obs, model.Observation{
			Date:     date,
			Value:    val,
			ValueRaw: raw,
		})
	}
	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("reading input: %w", err)
	}
	if len(obs) == 0 {
		return "", nil, ErrNoObservations
	}
	return seriesID, obs, nil
}

// WriteJSONL writes observations as JSONL to w.
func WriteJSONL(w io.Writer, seriesID string, obs []model.Observation) error {
	enc := json.NewEncoder(w)
	for _, o := range obs {
		var val interface{}
		if math.IsNaN(o.Value) {
			val = nil
		} else {
			val = o.Value
		}
		rec := map[string]interface{}{
			"series_id": seriesID,
			"date":      util.FormatDate(o.Date),
			"value":     val,
			"value_raw": o.ValueRaw,
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// ReadSurvey reads survey responses, one JSON object per line. A file
// holding a single JSON array is accepted too.
func ReadSurvey(r io.Reader) ([]model.SurveyResponse, error) {
	br := bufio.NewReader(r)
	if first, err := peekNonSpace(br); err == nil && first == '[' {
		var out []model.SurveyResponse
		if err := json.NewDecoder(br).Decode(&out); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
		if len(out) == 0 {
			return nil, ErrNoObservations
		}
		return out, nil
	}

	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var out []model.SurveyResponse
	lineNum := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		var resp model.SurveyResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			return nil, &ParseError{Line: lineNum, Err: fmt.Errorf("invalid JSON: %w", err)}
		}
		out = append(out, resp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoObservations
	}
	return out, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := br.ReadByte(); err != nil {
				return 0, err
			}
		default:
			return b[0], nil
		}
	}
}

// ─── CSV ──────────────────────────────────────────────────────────────────────

// CSVOptions selects the columns read from a CSV file with a header row.
type CSVOptions struct {
	DateColumn  string // default "Date"
	ValueColumn string // default "Gold_Price_INR"
	Delimiter   rune   // default ','
}

func (o CSVOptions) withDefaults() CSVOptions {
	if o.DateColumn == "" {
		o.DateColumn = "Date"
	}
	if o.ValueColumn == "" {
		o.ValueColumn = "Gold_Price_INR"
	}
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	return o
}

// csvTable is a parsed CSV file with its header index.
type csvTable struct {
	index map[string]int
	rows  [][]string
}

func readCSVTable(r io.Reader, delim rune) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoObservations
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	t := &csvTable{index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.index[h] = i
	}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		t.rows = append(t.rows, rec)
	}
	if len(t.rows) == 0 {
		return nil, ErrNoObservations
	}
	return t, nil
}

func (t *csvTable) column(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, &ParseError{Line: 1, Column: name, Err: errors.New("column not found in header")}
	}
	return i, nil
}

// cell returns row[col], or "" when the row is short.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// ReadCSV reads a dated series from a CSV file with a header row. Blank,
// "." and NA cells become missing (NaN); any other non-numeric cell is a
// *ParseError. The series id is the value column name.
func ReadCSV(r io.Reader, opts CSVOptions) (string, []model.Observation, error) {
	opts = opts.withDefaults()
	t, err := readCSVTable(r, opts.Delimiter)
	if err != nil {
		return "", nil, err
	}
	dateIdx, err := t.column(opts.DateColumn)
	if err != nil {
		return "", nil, err
	}
	valIdx, err := t.column(opts.ValueColumn)
	if err != nil {
		return "", nil, err
	}

	obs := make([]model.Observation, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		date, err := util.ParseDate(cell(row, dateIdx))
		if err != nil {
			return "", nil, &ParseError{Line: line, Column: opts.DateColumn, Err: err}
		}
		raw := cell(row, valIdx)
		val, err := util.ParseNumber(raw)
		if err != nil {
			return "", nil, &ParseError{Line: line, Column: opts.ValueColumn, Err: err}
		}
		if math.IsNaN(val) {
			raw = "."
		}
		obs = append(obs, model.Observation{Date: date, Value: val, ValueRaw: raw})
	}
	return opts.ValueColumn, obs, nil
}

// ReadColumns reads numeric columns from a CSV file with a header row.
// Rows where any requested column is missing are dropped so the returned
// slices stay aligned; malformed cells are a *ParseError. Each column may
// be named once. The second return value is the number of dropped rows.
func ReadColumns(r io.Reader, opts CSVOptions, cols ...string) (map[string][]float64, int, error) {
	opts = opts.withDefaults()
	if len(cols) == 0 {
		return nil, 0, errors.New("no columns requested")
	}
	t, err := readCSVTable(r, opts.Delimiter)
	if err != nil {
		return nil, 0, err
	}
	idx := make([]int, len(cols))
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if seen[c] {
			return nil, 0, fmt.Errorf("column %q requested more than once", c)
		}
		seen[c] = true
		if idx[i], err = t.column(c); err != nil {
			return nil, 0, err
		}
	}

	out := make(map[string][]float64, len(cols))
	dropped := 0
	vals := make([]float64, len(cols))
	for i, row := range t.rows {
		missing := false
		for j, c := range cols {
			v, err := util.ParseNumber(cell(row, idx[j]))
			if err != nil {
				return nil, 0, &ParseError{Line: i + 2, Column: c, Err: err}
			}
			if math.IsNaN(v) {
				missing = true
			}
			vals[j] = v
		}
		if missing {
			dropped++
			continue
		}
		for j, c := range cols {
			out[c] = append(out[c], vals[j])
		}
	}
	return out, dropped, nil
}

// ─── Projection ───────────────────────────────────────────────────────────────

// Values returns the non-missing observation values in order.
func Values(obs []model.Observation) []float64 {
	out := make([]float64, 0, len(obs))
	for _, o := range obs {
		if !o.IsMissing() {
			out = append(out, o.Value)
		}
	}
	return out
}

// Span returns the number of years between the first and last
// non-missing observations, or 0 when there are fewer than two.
func Span(obs []model.Observation) float64 {
	var first, last time.Time
	n := 0
	for _, o := range obs {
		if o.IsMissing() {
			continue
		}
		if n == 0 {
			first = o.Date
		}
		last = o.Date
		n++
	}
	if n < 2 {
		return 0
	}
	return last.Sub(first).Hours() / 24 / 365.25
}

// IsTTY returns true if stdout is a terminal (not a pipe).
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
