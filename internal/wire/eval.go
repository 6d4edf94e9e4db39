package wire

import "time"

// EvalServiceName is the fully qualified name of the evaluation service.
const EvalServiceName = "eval.v1.EvalService"

func init() {
	register(Service{
		Name: EvalServiceName,
		Methods: []string{
			"CreateEvalRun", "GetEvalRun", "ListEvalRuns", "CancelEvalRun",
			"GetEvalResults", "CompareRuns", "ListEvaluators",
		},
	})
}

// EvalRunStatus mirrors eval.v1.EvalRunStatus.
type EvalRunStatus int32

const (
	EvalRunStatusUnspecified EvalRunStatus = 0
	EvalRunStatusPending     EvalRunStatus = 1
	EvalRunStatusRunning     EvalRunStatus = 2
	EvalRunStatusCompleted   EvalRunStatus = 3
	EvalRunStatusFailed      EvalRunStatus = 4
	EvalRunStatusCancelled   EvalRunStatus = 5
)

// EvaluatorConfig selects and parameterizes one evaluator within a run.
type EvaluatorConfig struct {
	Type   string            `json:"type,omitempty"`
	Name   string            `json:"name,omitempty"`
	Params map[string]string `json:"params,omitempty"`
	Weight float64           `json:"weight,omitempty"`
}

// EvalConfig controls how an evaluation run executes.
type EvalConfig struct {
	Evaluators  []*EvaluatorConfig `json:"evaluators,omitempty"`
	Provider    string             `json:"provider,omitempty"`
	Model       string             `json:"model,omitempty"`
	Concurrency int32              `json:"concurrency,omitempty"`
	SampleSize  int32              `json:"sample_size,omitempty"`
	Shuffle     bool               `json:"shuffle,omitempty"`
}

// EvalSummary aggregates scores across a completed run.
type EvalSummary struct {
	OverallScore      float64            `json:"overall_score,omitempty"`
	ScoresByEvaluator map[string]float64 `json:"scores_by_evaluator,omitempty"`
	PassedCount       int32              `json:"passed_count,omitempty"`
	FailedCount       int32              `json:"failed_count,omitempty"`
	PassRate          float64            `json:"pass_rate,omitempty"`
	TotalCostUSD      float64            `json:"total_cost_usd,omitempty"`
	TotalTokens       int32              `json:"total_tokens,omitempty"`
	AvgLatencyMS      float64            `json:"avg_latency_ms,omitempty"`
}

// EvalRun tracks one evaluation of a prompt version against a dataset.
type EvalRun struct {
	ID                string            `json:"id,omitempty"`
	Name              string            `json:"name,omitempty"`
	Description       string            `json:"description,omitempty"`
	PromptID          string            `json:"prompt_id,omitempty"`
	PromptVersion     int32             `json:"prompt_version,omitempty"`
	DatasetID         string            `json:"dataset_id,omitempty"`
	Config            *EvalConfig       `json:"config,omitempty"`
	Status            EvalRunStatus     `json:"status,omitempty"`
	ErrorMessage      string            `json:"error_message,omitempty"`
	TotalExamples     int32             `json:"total_examples,omitempty"`
	CompletedExamples int32             `json:"completed_examples,omitempty"`
	Summary           *EvalSummary      `json:"summary,omitempty"`
	CreatedAt         *time.Time        `json:"created_at,omitempty"`
	StartedAt         *time.Time        `json:"started_at,omitempty"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	CreatedBy         string            `json:"created_by,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// EvaluatorResult is one evaluator's verdict on one example.
type EvaluatorResult struct {
	EvaluatorType string            `json:"evaluator_type,omitempty"`
	Score         float64           `json:"score,omitempty"`
	Passed        bool              `json:"passed,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// EvalResult is the scored outcome for one example in a run.
type EvalResult struct {
	ID               string                      `json:"id,omitempty"`
	EvalRunID        string                      `json:"eval_run_id,omitempty"`
	ExampleID        string                      `json:"example_id,omitempty"`
	Input            map[string]any              `json:"input,omitempty"`
	ExpectedOutput   map[string]any              `json:"expected_output,omitempty"`
	ActualOutput     map[string]any              `json:"actual_output,omitempty"`
	EvaluatorResults map[string]*EvaluatorResult `json:"evaluator_results,omitempty"`
	OverallScore     float64                     `json:"overall_score,omitempty"`
	Passed           bool                        `json:"passed,omitempty"`
	LatencyMS        float64                     `json:"latency_ms,omitempty"`
	TokensUsed       int32                       `json:"tokens_used,omitempty"`
	CostUSD          float64                     `json:"cost_usd,omitempty"`
	Error            string                      `json:"error,omitempty"`
}

// RunComparison summarizes one side of a run-to-run comparison.
type RunComparison struct {
	RunID         string  `json:"run_id,omitempty"`
	PromptVersion string  `json:"prompt_version,omitempty"`
	OverallScore  float64 `json:"overall_score,omitempty"`
	PassRate      float64 `json:"pass_rate,omitempty"`
	AvgLatencyMS  float64 `json:"avg_latency_ms,omitempty"`
	TotalCostUSD  float64 `json:"total_cost_usd,omitempty"`
}

// ExampleComparison is the per-example delta between two runs.
type ExampleComparison struct {
	ExampleID  string  `json:"example_id,omitempty"`
	ScoreA     float64 `json:"score_a,omitempty"`
	ScoreB     float64 `json:"score_b,omitempty"`
	ScoreDiff  float64 `json:"score_diff,omitempty"`
	Regression bool    `json:"regression,omitempty"`
}

// EvaluatorParam documents one parameter an evaluator accepts.
type EvaluatorParam struct {
	Name         string `json:"name,omitempty"`
	Type         string `json:"type,omitempty"`
	Description  string `json:"description,omitempty"`
	Required     bool   `json:"required,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
}

// Evaluator describes an evaluator type the service supports.
type Evaluator struct {
	Type        string            `json:"type,omitempty"`
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Params      []*EvaluatorParam `json:"params,omitempty"`
}

type CreateEvalRunRequest struct {
	Name          string            `json:"name,omitempty"`
	Description   string            `json:"description,omitempty"`
	PromptID      string            `json:"prompt_id,omitempty"`
	PromptVersion int32             `json:"prompt_version,omitempty"`
	DatasetID     string            `json:"dataset_id,omitempty"`
	Config        *EvalConfig       `json:"config,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type CreateEvalRunResponse struct {
	EvalRun *EvalRun `json:"eval_run,omitempty"`
}

type GetEvalRunRequest struct {
	ID string `json:"id,omitempty"`
}

type GetEvalRunResponse struct {
	EvalRun *EvalRun `json:"eval_run,omitempty"`
}

type ListEvalRunsRequest struct {
	PromptID  string        `json:"prompt_id,omitempty"`
	DatasetID string        `json:"dataset_id,omitempty"`
	Status    EvalRunStatus `json:"status,omitempty"`
	Limit     int32         `json:"limit,omitempty"`
	Offset    int32         `json:"offset,omitempty"`
}

type ListEvalRunsResponse struct {
	EvalRuns   []*EvalRun `json:"eval_runs,omitempty"`
	TotalCount int32      `json:"total_count,omitempty"`
}

type CancelEvalRunRequest struct {
	ID string `json:"id,omitempty"`
}

type CancelEvalRunResponse struct {
	EvalRun *EvalRun `json:"eval_run,omitempty"`
}

type GetEvalResultsRequest struct {
	EvalRunID  string `json:"eval_run_id,omitempty"`
	FailedOnly bool   `json:"failed_only,omitempty"`
	Limit      int32  `json:"limit,omitempty"`
	Offset     int32  `json:"offset,omitempty"`
}

type GetEvalResultsResponse struct {
	Results    []*EvalResult `json:"results,omitempty"`
	TotalCount int32         `json:"total_count,omitempty"`
}

type CompareRunsRequest struct {
	RunIDA string `json:"run_id_a,omitempty"`
	RunIDB string `json:"run_id_b,omitempty"`
}

type CompareRunsResponse struct {
	RunA     *RunComparison       `json:"run_a,omitempty"`
	RunB     *RunComparison       `json:"run_b,omitempty"`
	Examples []*ExampleComparison `json:"examples,omitempty"`
}

type ListEvaluatorsRequest struct{}

type ListEvaluatorsResponse struct {
	Evaluators []*Evaluator `json:"evaluators,omitempty"`
}
