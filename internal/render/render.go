// Package render converts Result values into human-readable or machine-parseable
// output. Each result kind is first laid out as a grid of strings; the
// format functions then draw that grid as a table, CSV/TSV or markdown.
// JSON output always carries the full typed envelope.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/anantraj07/gold-analysis-project/internal/analyze"
	"github.com/anantraj07/gold-analysis-project/internal/model"
	"github.com/anantraj07/gold-analysis-project/internal/survey"
	"github.com/anantraj07/gold-analysis-project/internal/util"
	"github.com/olekukonko/tablewriter"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatTable, FormatJSON, FormatJSONL, FormatCSV, FormatTSV, FormatMD}

// ValidFormat reports whether f is an accepted --format value.
func ValidFormat(f string) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatJSONL:
		return renderJSONL(w, result)
	case FormatCSV:
		return renderDelimited(w, result, ',')
	case FormatTSV:
		return renderDelimited(w, result, '\t')
	case FormatMD:
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sanitize(result))
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

// jsonlRow is a canonical JSONL record for time series observations.
type jsonlRow struct {
	SeriesID string      `json:"series_id"`
	Date     string      `json:"date"`
	Value    interface{} `json:"value"` // float64 or null
	ValueRaw string      `json:"value_raw"`
}

func renderJSONL(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	switch data := result.Data.(type) {
	case *model.SeriesData:
		for _, obs := range data.Obs {
			row := jsonlRow{
				SeriesID: data.SeriesID,
				Date:     util.FormatDate(obs.Date),
				ValueRaw: obs.ValueRaw,
			}
			if !math.IsNaN(obs.Value) {
				row.Value = obs.Value
			}
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	case []analyze.Summary:
		for _, s := range data {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
		return nil
	case []analyze.Bin:
		for _, b := range data {
			if err := enc.Encode(b); err != nil {
				return err
			}
		}
		return nil
	case []analyze.CurvePoint:
		for _, p := range data {
			if err := enc.Encode(p); err != nil {
				return err
			}
		}
		return nil
	case *survey.Frequency:
		for _, c := range data.Categories {
			if err := enc.Encode(c); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(sanitize(result).Data)
	}
}

// sanitize replaces a NaN-bearing SeriesData with a JSON-safe copy;
// encoding/json rejects NaN.
func sanitize(result *model.Result) *model.Result {
	sd, ok := result.Data.(*model.SeriesData)
	if !ok {
		return result
	}
	type obs struct {
		Date     string   `json:"date"`
		Value    *float64 `json:"value"`
		ValueRaw string   `json:"value_raw"`
	}
	rows := make([]obs, len(sd.Obs))
	for i, o := range sd.Obs {
		rows[i] = obs{Date: util.FormatDate(o.Date), ValueRaw: o.ValueRaw}
		if !o.IsMissing() {
			v := o.Value
			rows[i].Value = &v
		}
	}
	out := *result
	out.Data = struct {
		SeriesID string `json:"series_id"`
		Obs      []obs  `json:"observations"`
	}{sd.SeriesID, rows}
	return &out
}

// ─── Grid layout ──────────────────────────────────────────────────────────────

// grid is the tabular form of a result payload.
type grid struct {
	header []string
	rows   [][]string
	right  []bool // right-align column i
	named  []bool // header cell i is an input name, written as given
}

// headerCell returns header cell i for a delimited or tabular writer.
// Fixed labels are normalized by norm; input names pass through.
func (g *grid) headerCell(i int, norm func(string) string) string {
	if i < len(g.named) && g.named[i] {
		return g.header[i]
	}
	return norm(g.header[i])
}

func kvGrid(rows [][]string) *grid {
	return &grid{header: []string{"FIELD", "VALUE"}, rows: rows, right: []bool{false, true}}
}

// layout converts result.Data into a grid. Unknown payloads return nil and
// fall back to JSON.
func layout(result *model.Result) *grid {
	switch data := result.Data.(type) {
	case *model.SeriesData:
		g := &grid{header: []string{"SERIES", "DATE", "VALUE"}, right: []bool{false, false, true}}
		for _, o := range data.Obs {
			g.rows = append(g.rows, []string{data.SeriesID, util.FormatDate(o.Date), formatValue(o.Value)})
		}
		return g
	case *analyze.Summary:
		return kvGrid(summaryRows(data))
	case []analyze.Summary:
		return summaryColumns(data)
	case *analyze.Pairing:
		rows := [][]string{
			{"X", data.X},
			{"Y", data.Y},
			{"N", strconv.Itoa(data.N)},
			{"Pearson r", formatValue(data.Pearson)},
			{"Covariance", formatValue(data.Covariance)},
		}
		if data.Significance != nil {
			rows = append(rows, testRows(data.Significance)[1:]...)
		}
		return kvGrid(rows)
	case *analyze.Matrix:
		g := &grid{header: append([]string{""}, data.Columns...)}
		g.right = make([]bool, len(g.header))
		g.named = make([]bool, len(g.header))
		for i := 1; i < len(g.right); i++ {
			g.right[i] = true
			g.named[i] = true
		}
		for i, name := range data.Columns {
			row := []string{name}
			for _, r := range data.R[i] {
				row = append(row, fmt.Sprintf("%.4f", r))
			}
			g.rows = append(g.rows, row)
		}
		return g
	case *analyze.Regression:
		return kvGrid(regressionRows(data))
	case *analyze.SeriesFit:
		rows := [][]string{{"Series", data.SeriesID}}
		rows = append(rows, regressionRows(&data.Regression)...)
		rows = append(rows,
			[]string{"Slope / year", formatValue(data.SlopePerYear)},
			[]string{"Direction", data.Direction},
		)
		return kvGrid(rows)
	case *analyze.Interval:
		return kvGrid([][]string{
			{"Parameter", data.Parameter},
			{"N", strconv.Itoa(data.N)},
			{"Estimate", formatValue(data.Estimate)},
			{"Confidence", fmt.Sprintf("%g%%", data.Confidence*100)},
			{"z", formatValue(data.Z)},
			{"Margin", formatValue(data.Margin)},
			{"Lower", formatValue(data.Lower)},
			{"Upper", formatValue(data.Upper)},
		})
	case *analyze.TestResult:
		return kvGrid(testRows(data))
	case *analyze.Performance:
		return kvGrid([][]string{
			{"Series", data.SeriesID},
			{"Periods", strconv.Itoa(data.Periods)},
			{"Years", formatValue(data.Years)},
			{"Start", formatValue(data.Start)},
			{"End", formatValue(data.End)},
			{"Cumulative %", formatValue(data.CumulativePct)},
			{"Annualized %", formatValue(data.AnnualizedPct)},
			{"Volatility %", formatValue(data.Volatility)},
			{"Mean return %", formatValue(data.MeanReturn)},
			{"Best return %", formatValue(data.BestReturn)},
			{"Worst return %", formatValue(data.WorstReturn)},
		})
	case *analyze.TrendResult:
		return kvGrid([][]string{
			{"Trend", string(data.Trend)},
			{"Window", strconv.Itoa(data.Window)},
			{"Prior mean", formatValue(data.PriorMean)},
			{"Recent mean", formatValue(data.RecentMean)},
			{"Change %", formatValue(data.ChangePct)},
		})
	case []analyze.Bin:
		g := &grid{header: []string{"LOWER", "UPPER", "COUNT"}, right: []bool{true, true, true}}
		for _, b := range data {
			g.rows = append(g.rows, []string{formatValue(b.Lower), formatValue(b.Upper), strconv.Itoa(b.Count)})
		}
		return g
	case []analyze.CurvePoint:
		g := &grid{header: []string{"X", "DENSITY"}, right: []bool{true, true}}
		for _, p := range data {
			g.rows = append(g.rows, []string{formatValue(p.X), strconv.FormatFloat(p.Density, 'g', 6, 64)})
		}
		return g
	case *survey.Frequency:
		g := &grid{
			header: []string{data.Field, "COUNT", "PERCENT"},
			right:  []bool{false, true, true},
			named:  []bool{true, false, false},
		}
		for _, c := range data.Categories {
			g.rows = append(g.rows, []string{c.Value, strconv.Itoa(c.Count), fmt.Sprintf("%.1f%%", c.Percent)})
		}
		return g
	case *model.Table:
		if len(data.Rows) == 0 {
			return &grid{}
		}
		return &grid{header: data.Rows[0], rows: data.Rows[1:]}
	}
	return nil
}

func summaryRows(s *analyze.Summary) [][]string {
	mode := "-"
	if s.Mode != nil {
		mode = formatValue(*s.Mode)
	}
	return [][]string{
		{"Series", s.SeriesID},
		{"Count", strconv.Itoa(s.Count)},
		{"Missing", fmt.Sprintf("%d (%.1f%%)", s.Missing, s.MissingPct)},
		{"Mean", formatValue(s.Mean)},
		{"Median", formatValue(s.Median)},
		{"Mode", mode},
		{"Std Dev", formatValue(s.Std)},
		{"Variance", formatValue(s.Variance)},
		{"CV %", formatValue(s.CV)},
		{"Min", formatValue(s.Min)},
		{"Max", formatValue(s.Max)},
		{"Range", formatValue(s.Range)},
		{"Q1", formatValue(s.Q1)},
		{"Q3", formatValue(s.Q3)},
		{"IQR", formatValue(s.IQR)},
		{"Skewness", formatValue(s.Skewness)},
		{"Kurtosis", formatValue(s.Kurtosis)},
		{"P5", formatValue(s.P05)},
		{"P95", formatValue(s.P95)},
		{"First", formatValue(s.First)},
		{"Last", formatValue(s.Last)},
		{"Change", formatValue(s.Change)},
		{"Change %", formatValue(s.ChangePct)},
	}
}

// summaryColumns lays several summaries side by side, one column each.
func summaryColumns(sums []analyze.Summary) *grid {
	if len(sums) == 0 {
		return &grid{}
	}
	g := &grid{header: []string{"STAT"}, right: []bool{false}, named: []bool{false}}
	var cols [][][]string
	for i := range sums {
		g.header = append(g.header, sums[i].SeriesID)
		g.right = append(g.right, true)
		g.named = append(g.named, true)
		cols = append(cols, summaryRows(&sums[i]))
	}
	for r := 1; r < len(cols[0]); r++ { // row 0 is the series id
		row := []string{cols[0][r][0]}
		for _, c := range cols {
			row = append(row, c[r][1])
		}
		g.rows = append(g.rows, row)
	}
	return g
}

func regressionRows(r *analyze.Regression) [][]string {
	return [][]string{
		{"Method", string(r.Method)},
		{"N", strconv.Itoa(r.N)},
		{"Slope", formatValue(r.Slope)},
		{"Intercept", formatValue(r.Intercept)},
		{"R²", formatValue(r.RSquared)},
		{"Equation", r.Equation()},
	}
}

func testRows(t *analyze.TestResult) [][]string {
	rows := [][]string{
		{"Test", t.Test},
		{"t", formatValue(t.TStatistic)},
		{"DF", strconv.Itoa(t.DF)},
		{"p-value", strconv.FormatFloat(t.PValue, 'g', 4, 64)},
		{"Alpha", formatValue(t.Alpha)},
		{"Significant", strconv.FormatBool(t.Significant)},
	}
	if t.Test == "t-test" {
		rows = append(rows,
			[]string{"Mean A", formatValue(t.MeanA)},
			[]string{"Mean B", formatValue(t.MeanB)},
		)
	}
	return rows
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result) error {
	g := layout(result)
	if g == nil {
		return renderJSON(w, result)
	}
	header := make([]string, len(g.header))
	for i := range g.header {
		header[i] = g.headerCell(i, strings.ToUpper)
	}
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(header)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	if len(g.right) == len(g.header) {
		align := make([]int, len(g.right))
		for i, r := range g.right {
			align[i] = tablewriter.ALIGN_LEFT
			if r {
				align[i] = tablewriter.ALIGN_RIGHT
			}
		}
		tw.SetColumnAlignment(align)
	}
	tw.SetAutoWrapText(false)
	tw.AppendBulk(g.rows)
	tw.Render()
	return nil
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, result *model.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	if g := layout(result); g != nil {
		header := make([]string, len(g.header))
		for i := range g.header {
			header[i] = g.headerCell(i, csvLabel)
		}
		_ = cw.Write(header)
		for _, row := range g.rows {
			_ = cw.Write(row)
		}
	} else {
		// serialize as JSON on a single line
		b, _ := json.Marshal(sanitize(result).Data)
		_ = cw.Write([]string{string(b)})
	}

	cw.Flush()
	return cw.Error()
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, result *model.Result) error {
	g := layout(result)
	if g == nil {
		return renderJSON(w, result)
	}
	cells := make([]string, len(g.header))
	seps := make([]string, len(g.header))
	for i, h := range g.header {
		cells[i] = mdEscape(h)
		seps[i] = "---"
		if i < len(g.right) && g.right[i] {
			seps[i] = "---:"
		}
	}
	fmt.Fprintf(w, "| %s |\n|%s|\n", strings.Join(cells, " | "), strings.Join(seps, "|"))
	for _, row := range g.rows {
		esc := make([]string, len(row))
		for i, c := range row {
			esc[i] = mdEscape(c)
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(esc, " | "))
	}
	return nil
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes warnings and stats to w when verbose mode is on.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		fmt.Fprintf(w, "\n[%s • %d items • %dms]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
		)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// formatValue formats a value for display.
// Always shows at least one decimal place (e.g. 4.0, not 4).
// Trims unnecessary trailing zeros beyond the first (e.g. 3.400000 → 3.4).
// Missing values (NaN) render as ".".
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	s := strings.TrimRight(fmt.Sprintf("%.6f", v), "0")
	if strings.HasSuffix(s, ".") {
		s += "0" // "4." → "4.0"
	}
	if s == "-0.0" {
		s = "0.0"
	}
	return s
}

// csvLabel turns a display label such as "SLOPE / YEAR" into a column name.
func csvLabel(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "_"))
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
