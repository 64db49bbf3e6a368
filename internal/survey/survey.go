// Package survey tabulates investor-attitude survey responses: category
// frequencies, the share of respondents giving an answer with its
// confidence interval, and a summary of the 1–5 inflation-hedge score.
package survey

import (
	"fmt"
	"strings"

	"github.com/anantraj07/gold-analysis-project/internal/analyze"
	"github.com/anantraj07/gold-analysis-project/internal/model"
	"github.com/anantraj07/gold-analysis-project/internal/util"
)

// Likert score bounds for the inflation-hedge question.
const (
	LikertMin = 1
	LikertMax = 5
)

// UnknownFieldError reports a field name that is not a survey question.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("survey: unknown field %q (valid: %s)", e.Field, strings.Join(model.SurveyFields, ", "))
}

// Category is one answer and how many respondents gave it.
type Category struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Frequency is the distribution of answers to one question.
type Frequency struct {
	Field      string     `json:"field"`
	Total      int        `json:"total"`
	Categories []Category `json:"categories"`
}

// Tabulate counts the answers to field. Categories are ordered by count,
// highest first, with ties kept in order of first appearance. Blank
// answers are tabulated as "(blank)".
func Tabulate(responses []model.SurveyResponse, field string) (Frequency, error) {
	f := Frequency{Field: field, Total: len(responses)}
	if !validField(field) {
		return f, &UnknownFieldError{Field: field}
	}

	index := make(map[string]int)
	for _, r := range responses {
		v, _ := r.Field(field)
		if strings.TrimSpace(v) == "" {
			v = "(blank)"
		}
		i, ok := index[v]
		if !ok {
			i = len(f.Categories)
			index[v] = i
			f.Categories = append(f.Categories, Category{Value: v})
		}
		f.Categories[i].Count++
	}

	// stable insertion sort keeps first-appearance order among equal counts
	cats := f.Categories
	for i := 1; i < len(cats); i++ {
		for j := i; j > 0 && cats[j].Count > cats[j-1].Count; j-- {
			cats[j], cats[j-1] = cats[j-1], cats[j]
		}
	}
	for i := range cats {
		if f.Total > 0 {
			cats[i].Percent = float64(cats[i].Count) / float64(f.Total) * 100
		}
	}
	return f, nil
}

// Share returns the proportion of responses whose field equals value
// (case-insensitive) with its confidence interval.
func Share(responses []model.SurveyResponse, field, value string, confidence float64) (analyze.Interval, error) {
	if !validField(field) {
		return analyze.Interval{}, &UnknownFieldError{Field: field}
	}
	hits := 0
	for _, r := range responses {
		if v, _ := r.Field(field); strings.EqualFold(strings.TrimSpace(v), value) {
			hits++
		}
	}
	ci, err := analyze.ProportionCI(hits, len(responses), confidence)
	if err != nil {
		return ci, err
	}
	ci.Parameter = fmt.Sprintf("share(%s=%s)", field, value)
	return ci, nil
}

// Likert summarizes the inflation-hedge scores. Scores outside 1–5 are
// ignored; use Validate to report them.
func Likert(responses []model.SurveyResponse) analyze.Summary {
	scores := make([]float64, 0, len(responses))
	for _, r := range responses {
		if r.InflationHedge >= LikertMin && r.InflationHedge <= LikertMax {
			scores = append(scores, float64(r.InflationHedge))
		}
	}
	sum := analyze.NewSample(scores).Summary()
	sum.SeriesID = "inflationHedge"
	sum.Missing = len(responses) - len(scores)
	if len(responses) > 0 {
		sum.MissingPct = float64(sum.Missing) / float64(len(responses)) * 100
	}
	return sum
}

// Validate checks every response and reports all problems at once:
// inflation-hedge scores outside 1–5 and duplicate ids.
func Validate(responses []model.SurveyResponse) error {
	var errs util.MultiError
	seen := make(map[int]int, len(responses))
	for i, r := range responses {
		if r.InflationHedge < LikertMin || r.InflationHedge > LikertMax {
			errs.Add(fmt.Errorf("response %d (id %d): inflationHedge %d outside %d–%d",
				i+1, r.ID, r.InflationHedge, LikertMin, LikertMax))
		}
		if prev, dup := seen[r.ID]; dup {
			errs.Add(fmt.Errorf("response %d: duplicate id %d (first seen in response %d)", i+1, r.ID, prev))
			continue
		}
		seen[r.ID] = i + 1
	}
	return errs.Err()
}

func validField(name string) bool {
	for _, f := range model.SurveyFields {
		if f == name {
			return true
		}
	}
	return false
}
