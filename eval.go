package delos

import (
	"context"
	"fmt"
	"time"

	"github.com/instantcocoa/delos-go/internal/wire"
)

// ============================================================================
// Evaluation Types
// ============================================================================

// EvalRunStatus represents the lifecycle state of an evaluation run.
type EvalRunStatus string

const (
	EvalRunStatusUnspecified EvalRunStatus = "unspecified"
	EvalRunStatusPending     EvalRunStatus = "pending"
	EvalRunStatusRunning     EvalRunStatus = "running"
	EvalRunStatusCompleted   EvalRunStatus = "completed"
	EvalRunStatusFailed      EvalRunStatus = "failed"
	EvalRunStatusCancelled   EvalRunStatus = "cancelled"
)

// String returns the string representation of the run status.
func (s EvalRunStatus) String() string { return string(s) }

// IsTerminal reports whether the run has reached a final state.
func (s EvalRunStatus) IsTerminal() bool {
	switch s {
	case EvalRunStatusCompleted, EvalRunStatusFailed, EvalRunStatusCancelled:
		return true
	}
	return false
}

// EvaluatorConfig selects and parameterizes one evaluator within a run.
type EvaluatorConfig struct {
	// Type names the evaluator, e.g. exact_match or llm_judge.
	Type string

	Name   string
	Params map[string]string

	// Weight scales this evaluator's score in the overall score.
	// Zero selects 1.0.
	Weight float64
}

// EvalConfig controls how an evaluation run executes.
type EvalConfig struct {
	Evaluators []EvaluatorConfig
	Provider   string
	Model      string

	// Concurrency is the number of examples evaluated in parallel.
	// Zero selects 1.
	Concurrency int

	// SampleSize limits the run to a sample. Zero runs every example.
	SampleSize int

	Shuffle bool
}

// EvalSummary aggregates scores across a completed run.
type EvalSummary struct {
	OverallScore      float64
	ScoresByEvaluator map[string]float64
	PassedCount       int
	FailedCount       int
	PassRate          float64
	TotalCostUSD      float64
	TotalTokens       int
	AvgLatencyMS      float64
}

// EvalRun tracks one evaluation of a prompt version against a dataset.
type EvalRun struct {
	ID                string
	Name              string
	Description       string
	PromptID          string
	PromptVersion     int
	DatasetID         string
	Config            *EvalConfig
	Status            EvalRunStatus
	ErrorMessage      string
	TotalExamples     int
	CompletedExamples int
	Summary           *EvalSummary
	CreatedAt         *time.Time
	StartedAt         *time.Time
	CompletedAt       *time.Time
	CreatedBy         string
	Metadata          map[string]string
}

// Progress returns how far the run has advanced, as a percentage. A run
// with no examples reports zero.
func (r *EvalRun) Progress() float64 {
	if r.TotalExamples == 0 {
		return 0.0
	}
	return float64(r.CompletedExamples) / float64(r.TotalExamples) * 100
}

// EvaluatorResult is one evaluator's verdict on one example.
type EvaluatorResult struct {
	EvaluatorType string
	Score         float64
	Passed        bool
	Explanation   string
	Details       map[string]string
}

// EvalResult is the scored outcome for one example in a run.
type EvalResult struct {
	ID               string
	EvalRunID        string
	ExampleID        string
	Input            JSONObject
	ExpectedOutput   JSONObject
	ActualOutput     JSONObject
	EvaluatorResults map[string]EvaluatorResult
	OverallScore     float64
	Passed           bool
	LatencyMS        float64
	TokensUsed       int
	CostUSD          float64
	Error            string
}

// RunComparison summarizes one side of a run-to-run comparison.
type RunComparison struct {
	RunID         string
	PromptVersion string
	OverallScore  float64
	PassRate      float64
	AvgLatencyMS  float64
	TotalCostUSD  float64
}

// ExampleComparison is the per-example score delta between two runs.
type ExampleComparison struct {
	ExampleID  string
	ScoreA     float64
	ScoreB     float64
	ScoreDiff  float64
	Regression bool
}

// EvaluatorParam documents one parameter an evaluator accepts.
type EvaluatorParam struct {
	Name         string
	Type         string
	Description  string
	Required     bool
	DefaultValue string
}

// Evaluator describes an evaluator type the service supports.
type Evaluator struct {
	Type        string
	Name        string
	Description string
	Params      []EvaluatorParam
}

// ============================================================================
// Wire Mapping
// ============================================================================

var evalRunStatusToWire = map[EvalRunStatus]wire.EvalRunStatus{
	EvalRunStatusUnspecified: wire.EvalRunStatusUnspecified,
	EvalRunStatusPending:     wire.EvalRunStatusPending,
	EvalRunStatusRunning:     wire.EvalRunStatusRunning,
	EvalRunStatusCompleted:   wire.EvalRunStatusCompleted,
	EvalRunStatusFailed:      wire.EvalRunStatusFailed,
	EvalRunStatusCancelled:   wire.EvalRunStatusCancelled,
}

var evalRunStatusNames = map[wire.EvalRunStatus]EvalRunStatus{
	wire.EvalRunStatusUnspecified: EvalRunStatusUnspecified,
	wire.EvalRunStatusPending:     EvalRunStatusPending,
	wire.EvalRunStatusRunning:     EvalRunStatusRunning,
	wire.EvalRunStatusCompleted:   EvalRunStatusCompleted,
	wire.EvalRunStatusFailed:      EvalRunStatusFailed,
	wire.EvalRunStatusCancelled:   EvalRunStatusCancelled,
}

func evalRunStatusFromWire(s wire.EvalRunStatus) EvalRunStatus {
	if status, ok := evalRunStatusNames[s]; ok {
		return status
	}
	return EvalRunStatusUnspecified
}

func evalConfigToWire(c *EvalConfig) *wire.EvalConfig {
	if c == nil {
		return nil
	}
	w := &wire.EvalConfig{
		Provider:    c.Provider,
		Model:       c.Model,
		Concurrency: int32(c.Concurrency),
		SampleSize:  int32(c.SampleSize),
		Shuffle:     c.Shuffle,
	}
	if w.Concurrency <= 0 {
		w.Concurrency = 1
	}
	for _, e := range c.Evaluators {
		weight := e.Weight
		if weight == 0 {
			weight = 1.0
		}
		w.Evaluators = append(w.Evaluators, &wire.EvaluatorConfig{
			Type:   e.Type,
			Name:   e.Name,
			Params: e.Params,
			Weight: weight,
		})
	}
	return w
}

func evalConfigFromWire(w *wire.EvalConfig) *EvalConfig {
	if w == nil {
		return nil
	}
	c := &EvalConfig{
		Provider:    w.Provider,
		Model:       w.Model,
		Concurrency: int(w.Concurrency),
		SampleSize:  int(w.SampleSize),
		Shuffle:     w.Shuffle,
	}
	for _, we := range w.Evaluators {
		if we == nil {
			continue
		}
		c.Evaluators = append(c.Evaluators, EvaluatorConfig{
			Type:   we.Type,
			Name:   we.Name,
			Params: we.Params,
			Weight: we.Weight,
		})
	}
	return c
}

func evalSummaryFromWire(w *wire.EvalSummary) *EvalSummary {
	if w == nil {
		return nil
	}
	return &EvalSummary{
		OverallScore:      w.OverallScore,
		ScoresByEvaluator: w.ScoresByEvaluator,
		PassedCount:       int(w.PassedCount),
		FailedCount:       int(w.FailedCount),
		PassRate:          w.PassRate,
		TotalCostUSD:      w.TotalCostUSD,
		TotalTokens:       int(w.TotalTokens),
		AvgLatencyMS:      w.AvgLatencyMS,
	}
}

func evalRunFromWire(w *wire.EvalRun) EvalRun {
	return EvalRun{
		ID:                w.ID,
		Name:              w.Name,
		Description:       w.Description,
		PromptID:          w.PromptID,
		PromptVersion:     int(w.PromptVersion),
		DatasetID:         w.DatasetID,
		Config:            evalConfigFromWire(w.Config),
		Status:            evalRunStatusFromWire(w.Status),
		ErrorMessage:      w.ErrorMessage,
		TotalExamples:     int(w.TotalExamples),
		CompletedExamples: int(w.CompletedExamples),
		Summary:           evalSummaryFromWire(w.Summary),
		CreatedAt:         w.CreatedAt,
		StartedAt:         w.StartedAt,
		CompletedAt:       w.CompletedAt,
		CreatedBy:         w.CreatedBy,
		Metadata:          w.Metadata,
	}
}

func evalRunPtrFromWire(w *wire.EvalRun) *EvalRun {
	if w == nil {
		return nil
	}
	r := evalRunFromWire(w)
	return &r
}

func evalResultFromWire(w *wire.EvalResult) EvalResult {
	r := EvalResult{
		ID:             w.ID,
		EvalRunID:      w.EvalRunID,
		ExampleID:      w.ExampleID,
		Input:          fromWireMap(w.Input),
		ExpectedOutput: fromWireMap(w.ExpectedOutput),
		ActualOutput:   fromWireMap(w.ActualOutput),
		OverallScore:   w.OverallScore,
		Passed:         w.Passed,
		LatencyMS:      w.LatencyMS,
		TokensUsed:     int(w.TokensUsed),
		CostUSD:        w.CostUSD,
		Error:          w.Error,
	}
	if len(w.EvaluatorResults) > 0 {
		r.EvaluatorResults = make(map[string]EvaluatorResult, len(w.EvaluatorResults))
		for name, wr := range w.EvaluatorResults {
			if wr == nil {
				continue
			}
			r.EvaluatorResults[name] = EvaluatorResult{
				EvaluatorType: wr.EvaluatorType,
				Score:         wr.Score,
				Passed:        wr.Passed,
				Explanation:   wr.Explanation,
				Details:       wr.Details,
			}
		}
	}
	return r
}

func runComparisonFromWire(w *wire.RunComparison) *RunComparison {
	if w == nil {
		return nil
	}
	return &RunComparison{
		RunID:         w.RunID,
		PromptVersion: w.PromptVersion,
		OverallScore:  w.OverallScore,
		PassRate:      w.PassRate,
		AvgLatencyMS:  w.AvgLatencyMS,
		TotalCostUSD:  w.TotalCostUSD,
	}
}

func evaluatorFromWire(w *wire.Evaluator) Evaluator {
	e := Evaluator{
		Type:        w.Type,
		Name:        w.Name,
		Description: w.Description,
	}
	for _, wp := range w.Params {
		if wp == nil {
			continue
		}
		e.Params = append(e.Params, EvaluatorParam{
			Name:         wp.Name,
			Type:         wp.Type,
			Description:  wp.Description,
			Required:     wp.Required,
			DefaultValue: wp.DefaultValue,
		})
	}
	return e
}

// ============================================================================
// Eval Client
// ============================================================================

// EvalClient handles evaluation runs and their results.
type EvalClient struct {
	serviceClient
}

func newEvalClient(cfg *Config) (*EvalClient, error) {
	sc, err := newServiceClient(cfg, ServiceEval, wire.EvalServiceName)
	if err != nil {
		return nil, err
	}
	return &EvalClient{serviceClient: sc}, nil
}

// CreateRunParams describes an evaluation run to start.
type CreateRunParams struct {
	// Name is required.
	Name          string
	Description   string
	PromptID      string
	PromptVersion int
	DatasetID     string
	Config        *EvalConfig
	Metadata      map[string]string
}

// CreateRun starts an evaluation run and returns it in its initial state.
func (c *EvalClient) CreateRun(ctx context.Context, params CreateRunParams) (*EvalRun, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("delos: eval run name is required")
	}

	req := &wire.CreateEvalRunRequest{
		Name:          params.Name,
		Description:   params.Description,
		PromptID:      params.PromptID,
		PromptVersion: int32(params.PromptVersion),
		DatasetID:     params.DatasetID,
		Config:        evalConfigToWire(params.Config),
		Metadata:      params.Metadata,
	}

	var resp wire.CreateEvalRunResponse
	if err := c.invoke(ctx, "CreateEvalRun", req, &resp); err != nil {
		return nil, err
	}
	return evalRunPtrFromWire(resp.EvalRun), nil
}

// GetRun retrieves an evaluation run by ID. It returns nil, nil when the
// run does not exist.
func (c *EvalClient) GetRun(ctx context.Context, id string) (*EvalRun, error) {
	var resp wire.GetEvalRunResponse
	err := c.invoke(ctx, "GetEvalRun", &wire.GetEvalRunRequest{ID: id}, &resp)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return evalRunPtrFromWire(resp.EvalRun), nil
}

// ListRunsParams filters a run listing.
type ListRunsParams struct {
	PromptID  string
	DatasetID string

	// Status narrows the listing to one state. Unspecified matches all.
	Status EvalRunStatus

	Limit  int
	Offset int
}

// ListRuns returns one page of evaluation runs matching the given filters.
func (c *EvalClient) ListRuns(ctx context.Context, params ListRunsParams) (*Page[EvalRun], error) {
	req := &wire.ListEvalRunsRequest{
		PromptID:  params.PromptID,
		DatasetID: params.DatasetID,
		Status:    evalRunStatusToWire[params.Status],
		Limit:     limitOrDefault(params.Limit),
		Offset:    int32(params.Offset),
	}

	var resp wire.ListEvalRunsResponse
	if err := c.invoke(ctx, "ListEvalRuns", req, &resp); err != nil {
		return nil, err
	}

	runs := make([]EvalRun, 0, len(resp.EvalRuns))
	for _, wr := range resp.EvalRuns {
		if wr == nil {
			continue
		}
		runs = append(runs, evalRunFromWire(wr))
	}
	return &Page[EvalRun]{
		Items:      runs,
		TotalCount: int(resp.TotalCount),
		Limit:      int(req.Limit),
		Offset:     params.Offset,
	}, nil
}

// CancelRun asks the service to cancel a run and returns the run's
// resulting state. Whether a finished run can be cancelled is decided
// server-side.
func (c *EvalClient) CancelRun(ctx context.Context, id string) (*EvalRun, error) {
	var resp wire.CancelEvalRunResponse
	err := c.invoke(ctx, "CancelEvalRun", &wire.CancelEvalRunRequest{ID: id}, &resp)
	if err != nil {
		return nil, err
	}
	return evalRunPtrFromWire(resp.EvalRun), nil
}

// GetResultsParams selects a window of a run's per-example results.
type GetResultsParams struct {
	// FailedOnly restricts the listing to failed examples.
	FailedOnly bool

	Limit  int
	Offset int
}

// GetResults returns one page of a run's per-example results.
func (c *EvalClient) GetResults(ctx context.Context, runID string, params GetResultsParams) (*Page[EvalResult], error) {
	req := &wire.GetEvalResultsRequest{
		EvalRunID:  runID,
		FailedOnly: params.FailedOnly,
		Limit:      limitOrDefault(params.Limit),
		Offset:     int32(params.Offset),
	}

	var resp wire.GetEvalResultsResponse
	if err := c.invoke(ctx, "GetEvalResults", req, &resp); err != nil {
		return nil, err
	}

	results := make([]EvalResult, 0, len(resp.Results))
	for _, wr := range resp.Results {
		if wr == nil {
			continue
		}
		results = append(results, evalResultFromWire(wr))
	}
	return &Page[EvalResult]{
		Items:      results,
		TotalCount: int(resp.TotalCount),
		Limit:      int(req.Limit),
		Offset:     params.Offset,
	}, nil
}

// CompareRuns compares two runs over their shared examples. It returns
// the summary for each side and the per-example deltas.
func (c *EvalClient) CompareRuns(ctx context.Context, runIDA, runIDB string) (*RunComparison, *RunComparison, []ExampleComparison, error) {
	req := &wire.CompareRunsRequest{RunIDA: runIDA, RunIDB: runIDB}

	var resp wire.CompareRunsResponse
	if err := c.invoke(ctx, "CompareRuns", req, &resp); err != nil {
		return nil, nil, nil, err
	}

	examples := make([]ExampleComparison, 0, len(resp.Examples))
	for _, we := range resp.Examples {
		if we == nil {
			continue
		}
		examples = append(examples, ExampleComparison{
			ExampleID:  we.ExampleID,
			ScoreA:     we.ScoreA,
			ScoreB:     we.ScoreB,
			ScoreDiff:  we.ScoreDiff,
			Regression: we.Regression,
		})
	}
	return runComparisonFromWire(resp.RunA), runComparisonFromWire(resp.RunB), examples, nil
}

// ListEvaluators returns the evaluator types the service supports.
func (c *EvalClient) ListEvaluators(ctx context.Context) ([]Evaluator, error) {
	var resp wire.ListEvaluatorsResponse
	err := c.invoke(ctx, "ListEvaluators", &wire.ListEvaluatorsRequest{}, &resp)
	if err != nil {
		return nil, err
	}

	evaluators := make([]Evaluator, 0, len(resp.Evaluators))
	for _, we := range resp.Evaluators {
		if we == nil {
			continue
		}
		evaluators = append(evaluators, evaluatorFromWire(we))
	}
	return evaluators, nil
}
