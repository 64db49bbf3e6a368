// Package model defines the canonical data types used throughout goldstat:
// dated price observations, survey responses, and the result envelope that
// every command returns.
package model

import (
	"math"
	"strconv"
	"time"
)

// ─── Time Series Types ────────────────────────────────────────────────────────

// Observation is a single data point in a price series.
// Value is NaN when the raw value is "." or empty (missing data).
// ValueRaw preserves the original cell text from the input.
type Observation struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	ValueRaw string    `json:"value_raw"`
}

// IsMissing returns true if the observation value is NaN (missing data).
func (o Observation) IsMissing() bool {
	return math.IsNaN(o.Value)
}

// SeriesData bundles observations for a single named series.
type SeriesData struct {
	SeriesID string        `json:"series_id"`
	Obs      []Observation `json:"observations"`
}

// ─── Survey Types ─────────────────────────────────────────────────────────────

// SurveyResponse is one row of the investor-attitude survey.
// InflationHedge is a 1–5 Likert score ("gold is a good inflation hedge").
type SurveyResponse struct {
	ID             int    `json:"id"`
	Age            string `json:"age"`
	Gender         string `json:"gender"`
	Occupation     string `json:"occupation"`
	Income         string `json:"income"`
	InflationHedge int    `json:"inflationHedge"`
	Interest       string `json:"interest"`
	Purchase       string `json:"purchase"`
	Form           string `json:"form"`
	Risk           string `json:"risk"`
	Sentiment      string `json:"sentiment"`
	Timeline       string `json:"timeline"`
	Source         string `json:"source"`
}

// SurveyFields lists the categorical field names accepted by Field, in
// questionnaire order.
var SurveyFields = []string{
	"age", "gender", "occupation", "income", "inflationHedge", "interest",
	"purchase", "form", "risk", "sentiment", "timeline", "source",
}

// Field returns the value of a named field as a category label.
func (r SurveyResponse) Field(name string) (string, bool) {
	switch name {
	case "age":
		return r.Age, true
	case "gender":
		return r.Gender, true
	case "occupation":
		return r.Occupation, true
	case "income":
		return r.Income, true
	case "inflationHedge":
		return strconv.Itoa(r.InflationHedge), true
	case "interest":
		return r.Interest, true
	case "purchase":
		return r.Purchase, true
	case "form":
		return r.Form, true
	case "risk":
		return r.Risk, true
	case "sentiment":
		return r.Sentiment, true
	case "timeline":
		return r.Timeline, true
	case "source":
		return r.Source, true
	}
	return "", false
}

// ─── Result Envelope ─────────────────────────────────────────────────────────

// ResultStats carries timing metadata for a command result.
type ResultStats struct {
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items"`
}

// Result is the uniform envelope returned by every command.
// The Data field holds the typed payload; Kind identifies what is in it.
// Renderers switch on Kind to format output appropriately.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindSeriesData  = "series_data"
	KindSummary     = "summary"
	KindCorrelation = "correlation"
	KindRegression  = "regression"
	KindInterval    = "interval"
	KindHypothesis  = "hypothesis"
	KindReturns     = "returns"
	KindTrend       = "trend"
	KindHistogram   = "histogram"
	KindFrequency   = "frequency"
	KindTable       = "table"
)

// Table is a generic key/value payload for KindTable results.
type Table struct {
	Rows [][]string `json:"rows"`
}
