package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	delos "github.com/instantcocoa/delos-go"
	"github.com/instantcocoa/delos-go/internal/cli/output"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run and inspect evaluations",
}

var evalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List evaluation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		eval, err := client.Eval()
		if err != nil {
			return err
		}

		promptID, _ := cmd.Flags().GetString("prompt")
		datasetID, _ := cmd.Flags().GetString("dataset")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		page, err := eval.ListRuns(cmd.Context(), delos.ListRunsParams{
			PromptID:  promptID,
			DatasetID: datasetID,
			Status:    delos.EvalRunStatus(status),
			Limit:     limit,
		})
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if structured() {
			return writer().Print(page)
		}

		tbl := output.Table{Headers: []string{"ID", "NAME", "STATUS", "PROGRESS", "SCORE", "CREATED"}}
		for _, run := range page.Items {
			score := ""
			if run.Summary != nil {
				score = fmt.Sprintf("%.3f", run.Summary.OverallScore)
			}
			tbl.AddRow(run.ID, run.Name, string(run.Status),
				fmt.Sprintf("%d/%d", run.CompletedExamples, run.TotalExamples),
				score, output.Timestamp(run.CreatedAt))
		}
		if err := writer().Print(tbl); err != nil {
			return err
		}
		if page.HasMore() {
			output.Info("showing %d of %d runs", len(page.Items), page.TotalCount)
		}
		return nil
	},
}

var evalGetCmd = &cobra.Command{
	Use:   "get <run-id>",
	Short: "Show an evaluation run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		eval, err := client.Eval()
		if err != nil {
			return err
		}

		run, err := eval.GetRun(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("getting run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("eval run %s not found", args[0])
		}
		if structured() {
			return writer().Print(run)
		}

		output.Info("%s (%s): %s, %.0f%% complete", run.Name, run.ID, run.Status, run.Progress())
		output.Info("prompt %s v%d against dataset %s", run.PromptID, run.PromptVersion, run.DatasetID)
		if run.ErrorMessage != "" {
			output.Info("error: %s", run.ErrorMessage)
		}
		if s := run.Summary; s != nil {
			output.Info("score %.3f, pass rate %.1f%% (%d passed, %d failed)",
				s.OverallScore, s.PassRate*100, s.PassedCount, s.FailedCount)
			output.Info("%d tokens, $%.4f, avg latency %.0fms", s.TotalTokens, s.TotalCostUSD, s.AvgLatencyMS)
		}
		return nil
	},
}

var evalCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Start an evaluation run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		eval, err := client.Eval()
		if err != nil {
			return err
		}

		promptID, _ := cmd.Flags().GetString("prompt")
		promptVersion, _ := cmd.Flags().GetInt("version")
		datasetID, _ := cmd.Flags().GetString("dataset")
		evaluators, _ := cmd.Flags().GetStringSlice("evaluators")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		sampleSize, _ := cmd.Flags().GetInt("sample-size")
		shuffle, _ := cmd.Flags().GetBool("shuffle")

		var config *delos.EvalConfig
		if len(evaluators) > 0 || concurrency > 0 || sampleSize > 0 || shuffle {
			config = &delos.EvalConfig{
				Concurrency: concurrency,
				SampleSize:  sampleSize,
				Shuffle:     shuffle,
			}
			for _, evaluator := range evaluators {
				config.Evaluators = append(config.Evaluators, delos.EvaluatorConfig{Type: evaluator})
			}
		}

		run, err := eval.CreateRun(cmd.Context(), delos.CreateRunParams{
			Name:          args[0],
			PromptID:      promptID,
			PromptVersion: promptVersion,
			DatasetID:     datasetID,
			Config:        config,
		})
		if err != nil {
			return fmt.Errorf("creating run: %w", err)
		}
		if structured() {
			return writer().Print(run)
		}
		output.Success("started eval run %s (%s)", run.Name, run.ID)
		return nil
	},
}

var evalCancelCmd = &cobra.Command{
	Use:   "cancel <run-id>",
	Short: "Cancel a running evaluation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		eval, err := client.Eval()
		if err != nil {
			return err
		}

		run, err := eval.CancelRun(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("cancelling run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("eval run %s not found", args[0])
		}
		output.Success("cancelled run %s (%s)", run.ID, run.Status)
		return nil
	},
}

var evalResultsCmd = &cobra.Command{
	Use:   "results <run-id>",
	Short: "List a run's per-example results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		eval, err := client.Eval()
		if err != nil {
			return err
		}

		failedOnly, _ := cmd.Flags().GetBool("failed")
		limit, _ := cmd.Flags().GetInt("limit")
		page, err := eval.GetResults(cmd.Context(), args[0], delos.GetResultsParams{
			FailedOnly: failedOnly,
			Limit:      limit,
		})
		if err != nil {
			return fmt.Errorf("getting results: %w", err)
		}
		if structured() {
			return writer().Print(page)
		}

		tbl := output.Table{Headers: []string{"EXAMPLE", "SCORE", "PASSED", "LATENCY", "ERROR"}}
		for _, r := range page.Items {
			tbl.AddRow(r.ExampleID, fmt.Sprintf("%.3f", r.OverallScore), yesNo(r.Passed),
				fmt.Sprintf("%.0fms", r.LatencyMS), output.Truncate(r.Error, 40))
		}
		if err := writer().Print(tbl); err != nil {
			return err
		}
		if page.HasMore() {
			output.Info("showing %d of %d results", len(page.Items), page.TotalCount)
		}
		return nil
	},
}

var evalCompareCmd = &cobra.Command{
	Use:   "compare <run-id-a> <run-id-b>",
	Short: "Compare two evaluation runs",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		eval, err := client.Eval()
		if err != nil {
			return err
		}

		runA, runB, examples, err := eval.CompareRuns(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("comparing runs: %w", err)
		}
		if structured() {
			return writer().Print(struct {
				RunA     *delos.RunComparison      `json:"run_a" yaml:"run_a"`
				RunB     *delos.RunComparison      `json:"run_b" yaml:"run_b"`
				Examples []delos.ExampleComparison `json:"examples" yaml:"examples"`
			}{runA, runB, examples})
		}

		printComparison("A", runA)
		printComparison("B", runB)
		improved, regressed := 0, 0
		for _, ex := range examples {
			switch {
			case ex.Regression:
				regressed++
			case ex.ScoreDiff > 0:
				improved++
			}
		}
		output.Info("%d examples compared: %d improved, %d regressed", len(examples), improved, regressed)
		return nil
	},
}

func printComparison(label string, c *delos.RunComparison) {
	if c == nil {
		return
	}
	output.Info("run %s %s (v%s): score %.3f, pass rate %.1f%%, avg latency %.0fms, $%.4f",
		label, c.RunID, c.PromptVersion, c.OverallScore, c.PassRate*100, c.AvgLatencyMS, c.TotalCostUSD)
}

var evalEvaluatorsCmd = &cobra.Command{
	Use:   "evaluators",
	Short: "List available evaluator types",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		eval, err := client.Eval()
		if err != nil {
			return err
		}

		evaluators, err := eval.ListEvaluators(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing evaluators: %w", err)
		}
		if structured() {
			return writer().Print(evaluators)
		}

		tbl := output.Table{Headers: []string{"TYPE", "NAME", "PARAMS", "DESCRIPTION"}}
		for _, e := range evaluators {
			tbl.AddRow(e.Type, e.Name, fmt.Sprintf("%d", len(e.Params)), output.Truncate(e.Description, 60))
		}
		return writer().Print(tbl)
	},
}

func init() {
	evalRunsCmd.Flags().String("prompt", "", "filter by prompt ID")
	evalRunsCmd.Flags().String("dataset", "", "filter by dataset ID")
	evalRunsCmd.Flags().String("status", "", "filter by status (pending, running, completed, failed, cancelled)")
	evalRunsCmd.Flags().Int("limit", 0, "maximum runs to return (0 uses the server default)")

	evalCreateCmd.Flags().String("prompt", "", "prompt ID to evaluate")
	evalCreateCmd.Flags().Int("version", 0, "prompt version to evaluate (0 is latest)")
	evalCreateCmd.Flags().String("dataset", "", "dataset ID to evaluate against")
	evalCreateCmd.Flags().StringSlice("evaluators", nil, "evaluator types to apply, e.g. exact_match,llm_judge")
	evalCreateCmd.Flags().Int("concurrency", 0, "examples evaluated in parallel (0 uses the server default)")
	evalCreateCmd.Flags().Int("sample-size", 0, "evaluate a sample of this many examples (0 runs all)")
	evalCreateCmd.Flags().Bool("shuffle", false, "shuffle examples before sampling")

	evalResultsCmd.Flags().Bool("failed", false, "only failed examples")
	evalResultsCmd.Flags().Int("limit", 0, "maximum results to return (0 uses the server default)")

	evalCmd.AddCommand(evalRunsCmd)
	evalCmd.AddCommand(evalGetCmd)
	evalCmd.AddCommand(evalCreateCmd)
	evalCmd.AddCommand(evalCancelCmd)
	evalCmd.AddCommand(evalResultsCmd)
	evalCmd.AddCommand(evalCompareCmd)
	evalCmd.AddCommand(evalEvaluatorsCmd)
}
