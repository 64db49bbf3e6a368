package cmd

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anantraj07/gold-analysis-project/internal/model"
	"github.com/anantraj07/gold-analysis-project/internal/survey"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Summarize investor-attitude survey responses (JSONL or JSON array)",
	Long: `Survey commands read survey responses, one JSON object per line or a
single JSON array, from --in or stdin.

Fields: ` + strings.Join(model.SurveyFields, ", "),
}

// ─── survey tab ───────────────────────────────────────────────────────────────

var surveyTabCmd = &cobra.Command{
	Use:   "tab <field>",
	Short: "Frequency table of the answers to one question",
	Example: `  goldstat survey tab form --in survey.jsonl
  goldstat survey tab sentiment --in survey.json --format md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		responses, err := readResponses(cmd, deps)
		if err != nil {
			return err
		}
		f, err := survey.Tabulate(responses, args[0])
		if err != nil {
			return err
		}
		return emit(cmd, deps, newResult(model.KindFrequency, "survey tab", &f, f.Total), start)
	},
}

// ─── survey share ─────────────────────────────────────────────────────────────

var surveyShareCmd = &cobra.Command{
	Use:   "share <field> <value>",
	Short: "Share of respondents giving one answer, with a confidence interval",
	Example: `  goldstat survey share form Coins --in survey.jsonl
  goldstat survey share gender female --in survey.jsonl --confidence 0.9`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		responses, err := readResponses(cmd, deps)
		if err != nil {
			return err
		}
		conf, err := confidenceLevel(cmd, deps.Config.Confidence)
		if err != nil {
			return err
		}
		ci, err := survey.Share(responses, args[0], args[1], conf)
		if err != nil {
			return err
		}
		return emit(cmd, deps, newResult(model.KindInterval, "survey share", &ci, ci.N), start)
	},
}

// ─── survey likert ────────────────────────────────────────────────────────────

var surveyLikertCmd = &cobra.Command{
	Use:     "likert",
	Short:   "Descriptive statistics of the 1–5 inflation-hedge scores",
	Example: `  goldstat survey likert --in survey.jsonl`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		responses, err := readResponses(cmd, deps)
		if err != nil {
			return err
		}
		sum := survey.Likert(responses)
		result := newResult(model.KindSummary, "survey likert", &sum, sum.Count)
		if sum.Missing > 0 {
			result.Warnings = append(result.Warnings,
				strconv.Itoa(sum.Missing)+" responses without a 1–5 score excluded")
		}
		return emit(cmd, deps, result, start)
	},
}

// ─── survey validate ──────────────────────────────────────────────────────────

var surveyValidateCmd = &cobra.Command{
	Use:     "validate",
	Short:   "Report out-of-range scores and duplicate ids",
	Example: `  goldstat survey validate --in survey.jsonl`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		responses, err := readResponses(cmd, deps)
		if err != nil {
			return err
		}
		if err := survey.Validate(responses); err != nil {
			return err
		}
		if !deps.Config.Quiet {
			printKVTableTo(cmd.OutOrStdout(), [][]string{
				{"responses", strconv.Itoa(len(responses))},
				{"status", "ok"},
			})
		}
		return nil
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(surveyCmd)
	surveyCmd.AddCommand(surveyTabCmd, surveyShareCmd, surveyLikertCmd, surveyValidateCmd)

	surveyShareCmd.Flags().Float64("confidence", 0.95,
		"confidence level in (0, 1) (default from config)")

	surveyTabCmd.ValidArgsFunction = surveyFieldList
	surveyShareCmd.ValidArgsFunction = surveyFieldList
}

// surveyFieldList completes the field argument of tab and share.
func surveyFieldList(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return model.SurveyFields, cobra.ShellCompDirectiveNoFileComp
}
