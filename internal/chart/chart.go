// Package chart provides ASCII terminal charts for price series and their
// distributions:
//
//   - Bar: one horizontal bar per observation, for annual prices or returns
//   - Histogram: one horizontal bar per bin of an analyze.Histogram
//   - Plot: multi-line price chart with labelled axes
//   - Curve: the same line renderer drawing a fitted normal density
//
// Missing values render as gaps, never as zeros.
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/anantraj07/gold-analysis-project/internal/analyze"
	"github.com/anantraj07/gold-analysis-project/internal/model"
)

// Options controls chart size. Zero values auto-detect.
type Options struct {
	// Width is the total character width. 0 reads $COLUMNS, falling back to 80.
	Width int
	// Height is the number of rows in a line chart body. 0 means 12.
	Height int
	// Title overrides the default title.
	Title string
	// MaxBars keeps only the last MaxBars bars. 0 means no limit.
	MaxBars int
}

func (o Options) width() int {
	if o.Width > 0 {
		return o.Width
	}
	return termWidth()
}

func (o Options) height() int {
	if o.Height > 0 {
		return o.Height
	}
	return 12
}

func (o Options) title(def string) string {
	if o.Title != "" {
		return o.Title
	}
	return def
}

// ─── Bars ─────────────────────────────────────────────────────────────────────

// Bar renders one horizontal bar per non-missing observation.
//
//	GOLD  2013 – 2016
//	2013  30.0K  ████████
//	2014  29.5K  ███████
//	2016  31.4K  ████████████████
func Bar(w io.Writer, seriesID string, obs []model.Observation, opts Options) error {
	var valid []model.Observation
	for _, o := range obs {
		if !o.IsMissing() {
			valid = append(valid, o)
		}
	}
	if len(valid) == 0 {
		return fmt.Errorf("chart bar: no non-missing observations to render")
	}
	if opts.MaxBars > 0 && len(valid) > opts.MaxBars {
		valid = valid[len(valid)-opts.MaxBars:]
	}
	if len(valid) > 60 {
		fmt.Fprintf(w, "⚠  %d observations — consider piping through: goldstat transform resample --freq annual\n\n", len(valid))
	}

	dateFmt := "2006-01-02"
	if isMonthly(valid) {
		dateFmt = "2006-01"
	}
	if isAnnual(valid) {
		dateFmt = "2006"
	}
	labels := make([]string, len(valid))
	values := make([]float64, len(valid))
	for i, o := range valid {
		labels[i] = o.Date.Format(dateFmt)
		values[i] = o.Value
	}

	fmt.Fprintf(w, "%s  %s – %s\n", opts.title(seriesID), labels[0], labels[len(labels)-1])
	drawBars(w, labels, values, formatFloat, false, opts.width())
	return nil
}

// Histogram renders the bins of an analyze.Histogram as horizontal bars,
// one per bin, labelled with the bin edges.
func Histogram(w io.Writer, title string, bins []analyze.Bin, opts Options) error {
	if len(bins) == 0 {
		return fmt.Errorf("chart histogram: no bins to render")
	}
	labels := make([]string, len(bins))
	counts := make([]float64, len(bins))
	total := 0
	for i, b := range bins {
		labels[i] = formatFloat(b.Lower) + "–" + formatFloat(b.Upper)
		counts[i] = float64(b.Count)
		total += b.Count
	}
	fmt.Fprintf(w, "%s  (n=%d, %d bins)\n", opts.title(title), total, len(bins))
	drawBars(w, labels, counts, func(v float64) string { return strconv.Itoa(int(v)) }, true, opts.width())
	return nil
}

// drawBars writes one labelled bar per value. Bars grow from the minimum
// (from zero when fromZero is set), or both ways from a zero baseline when
// any value is negative.
func drawBars(w io.Writer, labels []string, values []float64, format func(float64) string, fromZero bool, totalWidth int) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	labelWidth, valWidth := 0, 0
	for i, v := range values {
		labelWidth = max(labelWidth, len([]rune(labels[i])))
		valWidth = max(valWidth, len(format(v)))
	}

	barAreaWidth := max(totalWidth-labelWidth-valWidth-4, 4)

	base := minVal
	if fromZero && minVal >= 0 {
		base = 0
	}
	valRange := maxVal - base
	if valRange == 0 {
		valRange = 1
	}

	hasNeg := minVal < 0
	var zeroPos int
	if hasNeg {
		valRange = maxVal - minVal
		zeroPos = int(math.Round((-minVal / valRange) * float64(barAreaWidth-1)))
	}

	for i, v := range values {
		var bar string
		switch {
		case hasNeg:
			bar = buildBiBar(v, valRange, barAreaWidth, zeroPos)
		default:
			barLen := int(math.Round((v - base) / valRange * float64(barAreaWidth)))
			if barLen < 1 && !fromZero {
				barLen = 1 // every price bar stays visible
			}
			bar = strings.Repeat("█", min(max(barLen, 0), barAreaWidth))
		}
		pad := labelWidth - len([]rune(labels[i]))
		fmt.Fprintf(w, "%s%s  %*s  %s\n", labels[i], strings.Repeat(" ", pad), valWidth, format(v), bar)
	}
}

// buildBiBar renders a bar that may extend left (negative) or right (positive)
// from a zero baseline at zeroPos within a field of width barAreaWidth.
func buildBiBar(val, valRange float64, barAreaWidth, zeroPos int) string {
	buf := []rune(strings.Repeat(" ", barAreaWidth))
	if zeroPos >= 0 && zeroPos < barAreaWidth {
		buf[zeroPos] = '│'
	}
	if val >= 0 {
		end := zeroPos + int(math.Round(val/valRange*float64(barAreaWidth-1)))
		for i := zeroPos + 1; i <= end && i < barAreaWidth; i++ {
			buf[i] = '█'
		}
	} else {
		start := max(zeroPos-int(math.Round((-val)/valRange*float64(barAreaWidth-1))), 0)
		for i := start; i < zeroPos && i < barAreaWidth; i++ {
			buf[i] = '█'
		}
	}
	return string(buf)
}

// isMonthly returns true if every observation falls on the first of a month.
func isMonthly(obs []model.Observation) bool {
	if len(obs) < 2 {
		return false
	}
	for _, o := range obs {
		if o.Date.Day() != 1 {
			return false
		}
	}
	return true
}

// isAnnual returns true if observations are roughly a year apart.
func isAnnual(obs []model.Observation) bool {
	if len(obs) < 2 {
		return false
	}
	for i := 1; i < len(obs) && i < 5; i++ {
		months := int(obs[i].Date.Sub(obs[i-1].Date).Hours() / 24 / 28)
		if months < 10 {
			return false
		}
	}
	return true
}

// ─── Line charts ──────────────────────────────────────────────────────────────

// Plot renders a multi-line ASCII chart of a price series.
func Plot(w io.Writer, seriesID string, obs []model.Observation, opts Options) error {
	valid := 0
	for _, o := range obs {
		if !o.IsMissing() {
			valid++
		}
	}
	if valid < 2 {
		return fmt.Errorf("chart plot: need at least 2 non-missing observations (got %d)", valid)
	}
	values := make([]float64, len(obs))
	for i, o := range obs {
		values[i] = o.Value
	}
	x := [3]string{
		obs[0].Date.Format("2006-01"),
		obs[len(obs)/2].Date.Format("2006-01"),
		obs[len(obs)-1].Date.Format("2006-01"),
	}
	title := fmt.Sprintf("%s  (%s to %s)", opts.title(seriesID), x[0], x[2])
	drawLine(w, title, values, x, opts)
	return nil
}

// Curve renders the density points of analyze.NormalCurve as a line chart
// with the x range on the horizontal axis.
func Curve(w io.Writer, points []analyze.CurvePoint, opts Options) error {
	if len(points) < 2 {
		return fmt.Errorf("chart curve: need at least 2 points (got %d)", len(points))
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Density
	}
	x := [3]string{
		formatFloat(points[0].X),
		formatFloat(points[len(points)/2].X),
		formatFloat(points[len(points)-1].X),
	}
	drawLine(w, opts.title("Normal density"), values, x, opts)
	return nil
}

// drawLine samples values into the plot width and draws them with labelled
// y ticks and start/middle/end x labels.
func drawLine(w io.Writer, title string, values []float64, x [3]string, opts Options) {
	width, height := opts.width(), opts.height()

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !math.IsNaN(v) {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}

	ticks := yTicks(minVal, maxVal, height)
	yLabelWidth := 0
	for _, t := range ticks {
		yLabelWidth = max(yLabelWidth, len(formatFloat(t)))
	}
	plotWidth := max(width-yLabelWidth-2, 10)

	cols := sampleCols(values, plotWidth)
	grid := buildGrid(cols, minVal, maxVal, height)

	fmt.Fprintln(w, title)
	for row := 0; row < height; row++ {
		label := ""
		for _, t := range ticks {
			if math.Abs(rowForValue(t, minVal, maxVal, height)-float64(row)) < 0.5 {
				label = formatFloat(t)
				break
			}
		}
		axisCh := "┤"
		if label == "" {
			axisCh = " "
		}
		fmt.Fprintf(w, "%*s%s%s\n", yLabelWidth, label, axisCh, string(grid[row]))
	}
	fmt.Fprintf(w, "%s└%s\n", strings.Repeat(" ", yLabelWidth), strings.Repeat("─", plotWidth))
	fmt.Fprintf(w, "%s %s\n", strings.Repeat(" ", yLabelWidth), xAxisLabels(x, plotWidth))
}

// sampleCols reduces values to exactly n columns. Each column holds the
// average of its bucket, or NaN if the bucket is all missing.
func sampleCols(values []float64, n int) []float64 {
	total := len(values)
	cols := make([]float64, n)
	for col := 0; col < n; col++ {
		lo := col * total / n
		hi := min((col+1)*total/n-1, total-1)
		if hi < lo {
			hi = lo // fewer values than columns: repeat
		}
		sum, count := 0.0, 0
		for i := lo; i <= hi; i++ {
			if !math.IsNaN(values[i]) {
				sum += values[i]
				count++
			}
		}
		if count == 0 {
			cols[col] = math.NaN()
		} else {
			cols[col] = sum / float64(count)
		}
	}
	return cols
}

// rowForValue returns the float row index (0=top=max) for a given value.
func rowForValue(v, minVal, maxVal float64, height int) float64 {
	if maxVal == minVal {
		return float64(height) / 2
	}
	return (maxVal - v) / (maxVal - minVal) * float64(height-1)
}

// buildGrid renders columns into a height×width rune grid using
// box-drawing characters to connect adjacent points.
func buildGrid(cols []float64, minVal, maxVal float64, height int) [][]rune {
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", len(cols)))
	}

	rowOf := make([]int, len(cols))
	for col, v := range cols {
		if math.IsNaN(v) {
			rowOf[col] = -1 // gap
			continue
		}
		rowOf[col] = min(max(int(math.Round(rowForValue(v, minVal, maxVal, height))), 0), height-1)
	}

	for col := range cols {
		r := rowOf[col]
		if r < 0 {
			continue
		}
		prevRow, nextRow := -2, -2
		if col > 0 {
			prevRow = rowOf[col-1]
		}
		if col < len(cols)-1 {
			nextRow = rowOf[col+1]
		}

		switch {
		case prevRow == -2 && nextRow == -2:
			grid[r][col] = '·'
		case (prevRow < 0 || prevRow == r) && (nextRow < 0 || nextRow == r):
			grid[r][col] = '─'
		case prevRow >= 0 && nextRow >= 0 && (prevRow < r) == (nextRow < r) && prevRow != r && nextRow != r:
			grid[r][col] = '─' // local peak or trough
		case (prevRow < 0 || prevRow <= r) && nextRow > r:
			grid[r][col] = '╭'
		case (prevRow < 0 || prevRow >= r) && nextRow >= 0 && nextRow < r:
			grid[r][col] = '╰'
		case prevRow >= 0 && prevRow < r:
			grid[r][col] = '╮'
		case prevRow >= 0 && prevRow > r:
			grid[r][col] = '╯'
		default:
			grid[r][col] = '─'
		}

		// vertical connector to the previous column
		if prevRow >= 0 && prevRow != r {
			lo, hi := min(r, prevRow), max(r, prevRow)
			for fill := lo + 1; fill < hi; fill++ {
				if grid[fill][col] == ' ' {
					grid[fill][col] = '│'
				}
			}
		}
	}
	return grid
}

// ─── Axis helpers ─────────────────────────────────────────────────────────────

// yTicks returns 3–4 evenly spaced tick values for the y axis.
func yTicks(minVal, maxVal float64, height int) []float64 {
	if maxVal == minVal {
		return []float64{minVal}
	}
	nTicks := 4
	if height <= 6 {
		nTicks = 3
	}
	ticks := make([]float64, nTicks)
	for i := range ticks {
		ticks[i] = minVal + float64(i)*(maxVal-minVal)/float64(nTicks-1)
	}
	return ticks
}

// xAxisLabels places start, middle and end labels across plotWidth.
func xAxisLabels(x [3]string, plotWidth int) string {
	buf := []rune(strings.Repeat(" ", plotWidth))
	writeAt := func(pos int, s string) {
		for i, ch := range []rune(s) {
			if pos+i >= 0 && pos+i < len(buf) {
				buf[pos+i] = ch
			}
		}
	}
	writeAt(0, x[0])
	writeAt(plotWidth/2-len(x[1])/2, x[1])
	writeAt(plotWidth-len(x[2]), x[2])
	return string(buf)
}

// ─── Utilities ────────────────────────────────────────────────────────────────

// formatFloat formats a float for axis labels: compact K/M notation for
// large magnitudes, at least one decimal place otherwise.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	abs := math.Abs(v)
	var s string
	switch {
	case abs == 0:
		return "0"
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "K"
	case abs >= 100:
		s = strconv.FormatFloat(v, 'f', 1, 64)
	case abs >= 1:
		s = strconv.FormatFloat(v, 'f', 2, 64)
	default:
		s = strconv.FormatFloat(v, 'f', 4, 64)
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// termWidth returns the terminal width from $COLUMNS, defaulting to 80.
func termWidth() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 20 {
			return n
		}
	}
	return 80
}
