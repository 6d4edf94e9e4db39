package delos

import (
	"context"
	"time"

	"github.com/instantcocoa/delos-go/internal/wire"
)

// ============================================================================
// Deployment Types
// ============================================================================

// DeploymentStatus represents the lifecycle state of a deployment.
type DeploymentStatus string

const (
	DeploymentStatusUnspecified     DeploymentStatus = "unspecified"
	DeploymentStatusPendingApproval DeploymentStatus = "pending_approval"
	DeploymentStatusPendingGates    DeploymentStatus = "pending_gates"
	DeploymentStatusGatesFailed     DeploymentStatus = "gates_failed"
	DeploymentStatusInProgress      DeploymentStatus = "in_progress"
	DeploymentStatusCompleted       DeploymentStatus = "completed"
	DeploymentStatusRolledBack      DeploymentStatus = "rolled_back"
	DeploymentStatusCancelled       DeploymentStatus = "cancelled"
	DeploymentStatusFailed          DeploymentStatus = "failed"
)

// String returns the string representation of the deployment status.
func (s DeploymentStatus) String() string { return string(s) }

// DeploymentType selects how a new prompt version reaches traffic.
type DeploymentType string

const (
	DeploymentTypeUnspecified DeploymentType = "unspecified"
	DeploymentTypeImmediate   DeploymentType = "immediate"
	DeploymentTypeGradual     DeploymentType = "gradual"
	DeploymentTypeCanary      DeploymentType = "canary"
	DeploymentTypeBlueGreen   DeploymentType = "blue_green"
)

// String returns the string representation of the deployment type.
func (t DeploymentType) String() string { return string(t) }

// DeploymentStrategy controls the rollout of a deployment.
type DeploymentStrategy struct {
	// Type defaults to DeploymentTypeImmediate when unset.
	Type DeploymentType

	InitialPercentage int
	Increment         int
	IntervalSeconds   int
	AutoRollback      bool
	RollbackThreshold float64
}

// RolloutProgress reports how far a gradual rollout has advanced.
type RolloutProgress struct {
	CurrentPercentage int
	TargetPercentage  int
	LastIncrementAt   *time.Time
	NextIncrementAt   *time.Time
}

// GateCondition is one check a quality gate evaluates. Type is one of
// eval_score, latency, cost, or custom; Operator is gte, lte, or eq.
type GateCondition struct {
	Type      string
	Operator  string
	Threshold float64
	EvalRunID string
	DatasetID string
}

// ConditionResult is the evaluated outcome of one gate condition.
type ConditionResult struct {
	Type     string
	Expected float64
	Actual   float64
	Passed   bool
}

// QualityGate is a named set of conditions a deployment must satisfy.
type QualityGate struct {
	ID         string
	Name       string
	PromptID   string
	Conditions []GateCondition
	Required   bool
	CreatedAt  *time.Time
	CreatedBy  string
}

// QualityGateResult is the outcome of evaluating one gate.
type QualityGateResult struct {
	GateID           string
	GateName         string
	Passed           bool
	Message          string
	ConditionResults []ConditionResult
}

// DeploymentMetrics is a snapshot of a deployment's traffic metrics.
type DeploymentMetrics struct {
	AvgLatencyMS float64
	ErrorRate    float64
	QualityScore float64
	RequestCount int
}

// Deployment moves a prompt from one version to another in an environment.
type Deployment struct {
	ID            string
	PromptID      string
	FromVersion   int
	ToVersion     int
	Environment   string
	Strategy      *DeploymentStrategy
	Status        DeploymentStatus
	StatusMessage string
	GateResults   []QualityGateResult
	GatesPassed   bool
	Rollout       *RolloutProgress
	CreatedAt     *time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedBy     string
	ApprovedBy    string
	Metadata      map[string]string
}

// IsActive reports whether the deployment is awaiting approval, awaiting
// gates, or in progress.
func (d *Deployment) IsActive() bool {
	switch d.Status {
	case DeploymentStatusPendingApproval, DeploymentStatusPendingGates, DeploymentStatusInProgress:
		return true
	}
	return false
}

// IsComplete reports whether the deployment has finished, successfully
// or not.
func (d *Deployment) IsComplete() bool {
	switch d.Status {
	case DeploymentStatusCompleted, DeploymentStatusRolledBack, DeploymentStatusCancelled,
		DeploymentStatusFailed, DeploymentStatusGatesFailed:
		return true
	}
	return false
}

// DeploymentStatusInfo is the live status of a deployment: its state,
// rollout progress, gate outcomes, and metric snapshots for the new and
// previous versions.
type DeploymentStatusInfo struct {
	Status          DeploymentStatus
	Rollout         *RolloutProgress
	GateResults     []QualityGateResult
	CurrentMetrics  *DeploymentMetrics
	BaselineMetrics *DeploymentMetrics
}

// ============================================================================
// Wire Mapping
// ============================================================================

var deploymentStatusToWire = map[DeploymentStatus]wire.DeploymentStatus{
	DeploymentStatusUnspecified:     wire.DeploymentStatusUnspecified,
	DeploymentStatusPendingApproval: wire.DeploymentStatusPendingApproval,
	DeploymentStatusPendingGates:    wire.DeploymentStatusPendingGates,
	DeploymentStatusGatesFailed:     wire.DeploymentStatusGatesFailed,
	DeploymentStatusInProgress:      wire.DeploymentStatusInProgress,
	DeploymentStatusCompleted:       wire.DeploymentStatusCompleted,
	DeploymentStatusRolledBack:      wire.DeploymentStatusRolledBack,
	DeploymentStatusCancelled:       wire.DeploymentStatusCancelled,
	DeploymentStatusFailed:          wire.DeploymentStatusFailed,
}

var deploymentStatusNames = map[wire.DeploymentStatus]DeploymentStatus{
	wire.DeploymentStatusUnspecified:     DeploymentStatusUnspecified,
	wire.DeploymentStatusPendingApproval: DeploymentStatusPendingApproval,
	wire.DeploymentStatusPendingGates:    DeploymentStatusPendingGates,
	wire.DeploymentStatusGatesFailed:     DeploymentStatusGatesFailed,
	wire.DeploymentStatusInProgress:      DeploymentStatusInProgress,
	wire.DeploymentStatusCompleted:       DeploymentStatusCompleted,
	wire.DeploymentStatusRolledBack:      DeploymentStatusRolledBack,
	wire.DeploymentStatusCancelled:       DeploymentStatusCancelled,
	wire.DeploymentStatusFailed:          DeploymentStatusFailed,
}

func deploymentStatusFromWire(s wire.DeploymentStatus) DeploymentStatus {
	if status, ok := deploymentStatusNames[s]; ok {
		return status
	}
	return DeploymentStatusUnspecified
}

var deploymentTypeToWire = map[DeploymentType]wire.DeploymentType{
	DeploymentTypeUnspecified: wire.DeploymentTypeUnspecified,
	DeploymentTypeImmediate:   wire.DeploymentTypeImmediate,
	DeploymentTypeGradual:     wire.DeploymentTypeGradual,
	DeploymentTypeCanary:      wire.DeploymentTypeCanary,
	DeploymentTypeBlueGreen:   wire.DeploymentTypeBlueGreen,
}

var deploymentTypeNames = map[wire.DeploymentType]DeploymentType{
	wire.DeploymentTypeUnspecified: DeploymentTypeUnspecified,
	wire.DeploymentTypeImmediate:   DeploymentTypeImmediate,
	wire.DeploymentTypeGradual:     DeploymentTypeGradual,
	wire.DeploymentTypeCanary:      DeploymentTypeCanary,
	wire.DeploymentTypeBlueGreen:   DeploymentTypeBlueGreen,
}

func deploymentTypeFromWire(t wire.DeploymentType) DeploymentType {
	if typ, ok := deploymentTypeNames[t]; ok {
		return typ
	}
	return DeploymentTypeUnspecified
}

func deploymentStrategyToWire(s *DeploymentStrategy) *wire.DeploymentStrategy {
	if s == nil {
		return nil
	}
	typ := s.Type
	if typ == "" {
		typ = DeploymentTypeImmediate
	}
	return &wire.DeploymentStrategy{
		Type:              deploymentTypeToWire[typ],
		InitialPercentage: int32(s.InitialPercentage),
		Increment:         int32(s.Increment),
		IntervalSeconds:   int32(s.IntervalSeconds),
		AutoRollback:      s.AutoRollback,
		RollbackThreshold: s.RollbackThreshold,
	}
}

func deploymentStrategyFromWire(w *wire.DeploymentStrategy) *DeploymentStrategy {
	if w == nil {
		return nil
	}
	return &DeploymentStrategy{
		Type:              deploymentTypeFromWire(w.Type),
		InitialPercentage: int(w.InitialPercentage),
		Increment:         int(w.Increment),
		IntervalSeconds:   int(w.IntervalSeconds),
		AutoRollback:      w.AutoRollback,
		RollbackThreshold: w.RollbackThreshold,
	}
}

func rolloutProgressFromWire(w *wire.RolloutProgress) *RolloutProgress {
	if w == nil {
		return nil
	}
	return &RolloutProgress{
		CurrentPercentage: int(w.CurrentPercentage),
		TargetPercentage:  int(w.TargetPercentage),
		LastIncrementAt:   w.LastIncrementAt,
		NextIncrementAt:   w.NextIncrementAt,
	}
}

func gateConditionsToWire(conditions []GateCondition) []*wire.GateCondition {
	if len(conditions) == 0 {
		return nil
	}
	out := make([]*wire.GateCondition, 0, len(conditions))
	for _, c := range conditions {
		out = append(out, &wire.GateCondition{
			Type:      c.Type,
			Operator:  c.Operator,
			Threshold: c.Threshold,
			EvalRunID: c.EvalRunID,
			DatasetID: c.DatasetID,
		})
	}
	return out
}

func gateConditionsFromWire(conditions []*wire.GateCondition) []GateCondition {
	if len(conditions) == 0 {
		return nil
	}
	out := make([]GateCondition, 0, len(conditions))
	for _, c := range conditions {
		if c == nil {
			continue
		}
		out = append(out, GateCondition{
			Type:      c.Type,
			Operator:  c.Operator,
			Threshold: c.Threshold,
			EvalRunID: c.EvalRunID,
			DatasetID: c.DatasetID,
		})
	}
	return out
}

func gateResultsFromWire(results []*wire.QualityGateResult) []QualityGateResult {
	if len(results) == 0 {
		return nil
	}
	out := make([]QualityGateResult, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		gr := QualityGateResult{
			GateID:   r.GateID,
			GateName: r.GateName,
			Passed:   r.Passed,
			Message:  r.Message,
		}
		for _, cr := range r.ConditionResults {
			if cr == nil {
				continue
			}
			gr.ConditionResults = append(gr.ConditionResults, ConditionResult{
				Type:     cr.Type,
				Expected: cr.Expected,
				Actual:   cr.Actual,
				Passed:   cr.Passed,
			})
		}
		out = append(out, gr)
	}
	return out
}

func qualityGateFromWire(w *wire.QualityGate) QualityGate {
	return QualityGate{
		ID:         w.ID,
		Name:       w.Name,
		PromptID:   w.PromptID,
		Conditions: gateConditionsFromWire(w.Conditions),
		Required:   w.Required,
		CreatedAt:  w.CreatedAt,
		CreatedBy:  w.CreatedBy,
	}
}

func deploymentMetricsFromWire(w *wire.DeploymentMetrics) *DeploymentMetrics {
	if w == nil {
		return nil
	}
	return &DeploymentMetrics{
		AvgLatencyMS: w.AvgLatencyMS,
		ErrorRate:    w.ErrorRate,
		QualityScore: w.QualityScore,
		RequestCount: int(w.RequestCount),
	}
}

func deploymentFromWire(w *wire.Deployment) Deployment {
	return Deployment{
		ID:            w.ID,
		PromptID:      w.PromptID,
		FromVersion:   int(w.FromVersion),
		ToVersion:     int(w.ToVersion),
		Environment:   w.Environment,
		Strategy:      deploymentStrategyFromWire(w.Strategy),
		Status:        deploymentStatusFromWire(w.Status),
		StatusMessage: w.StatusMessage,
		GateResults:   gateResultsFromWire(w.GateResults),
		GatesPassed:   w.GatesPassed,
		Rollout:       rolloutProgressFromWire(w.Rollout),
		CreatedAt:     w.CreatedAt,
		StartedAt:     w.StartedAt,
		CompletedAt:   w.CompletedAt,
		CreatedBy:     w.CreatedBy,
		ApprovedBy:    w.ApprovedBy,
		Metadata:      w.Metadata,
	}
}

func deploymentPtrFromWire(w *wire.Deployment) *Deployment {
	if w == nil {
		return nil
	}
	d := deploymentFromWire(w)
	return &d
}

// ============================================================================
// Deploy Client
// ============================================================================

// DeployClient handles deployments and quality gates.
type DeployClient struct {
	serviceClient
}

func newDeployClient(cfg *Config) (*DeployClient, error) {
	sc, err := newServiceClient(cfg, ServiceDeploy, wire.DeployServiceName)
	if err != nil {
		return nil, err
	}
	return &DeployClient{serviceClient: sc}, nil
}

// CreateDeploymentParams describes a deployment to start.
type CreateDeploymentParams struct {
	PromptID  string
	ToVersion int

	// Environment defaults to "production" when empty.
	Environment string

	Strategy     *DeploymentStrategy
	SkipApproval bool
	Metadata     map[string]string
}

// Create starts a deployment of a prompt version and returns it in its
// initial state.
func (c *DeployClient) Create(ctx context.Context, params CreateDeploymentParams) (*Deployment, error) {
	environment := params.Environment
	if environment == "" {
		environment = "production"
	}

	req := &wire.CreateDeploymentRequest{
		PromptID:     params.PromptID,
		ToVersion:    int32(params.ToVersion),
		Environment:  environment,
		Strategy:     deploymentStrategyToWire(params.Strategy),
		SkipApproval: params.SkipApproval,
		Metadata:     params.Metadata,
	}

	var resp wire.CreateDeploymentResponse
	if err := c.invoke(ctx, "CreateDeployment", req, &resp); err != nil {
		return nil, err
	}
	return deploymentPtrFromWire(resp.Deployment), nil
}

// Get retrieves a deployment by ID. It returns nil, nil when the
// deployment does not exist.
func (c *DeployClient) Get(ctx context.Context, id string) (*Deployment, error) {
	var resp wire.GetDeploymentResponse
	err := c.invoke(ctx, "GetDeployment", &wire.GetDeploymentRequest{ID: id}, &resp)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return deploymentPtrFromWire(resp.Deployment), nil
}

// ListDeploymentsParams filters a deployment listing.
type ListDeploymentsParams struct {
	PromptID    string
	Environment string

	// Status narrows the listing to one state. Unspecified matches all.
	Status DeploymentStatus

	Limit  int
	Offset int
}

// List returns one page of deployments matching the given filters.
func (c *DeployClient) List(ctx context.Context, params ListDeploymentsParams) (*Page[Deployment], error) {
	req := &wire.ListDeploymentsRequest{
		PromptID:    params.PromptID,
		Environment: params.Environment,
		Status:      deploymentStatusToWire[params.Status],
		Limit:       limitOrDefault(params.Limit),
		Offset:      int32(params.Offset),
	}

	var resp wire.ListDeploymentsResponse
	if err := c.invoke(ctx, "ListDeployments", req, &resp); err != nil {
		return nil, err
	}

	deployments := make([]Deployment, 0, len(resp.Deployments))
	for _, wd := range resp.Deployments {
		if wd == nil {
			continue
		}
		deployments = append(deployments, deploymentFromWire(wd))
	}
	return &Page[Deployment]{
		Items:      deployments,
		TotalCount: int(resp.TotalCount),
		Limit:      int(req.Limit),
		Offset:     params.Offset,
	}, nil
}

// Approve approves a deployment that is pending approval and returns its
// new state.
func (c *DeployClient) Approve(ctx context.Context, id, comment string) (*Deployment, error) {
	req := &wire.ApproveDeploymentRequest{ID: id, Comment: comment}

	var resp wire.ApproveDeploymentResponse
	if err := c.invoke(ctx, "ApproveDeployment", req, &resp); err != nil {
		return nil, err
	}
	return deploymentPtrFromWire(resp.Deployment), nil
}

// Rollback rolls a deployment back. It returns the rolled-back deployment
// and the new deployment created to restore the previous version.
func (c *DeployClient) Rollback(ctx context.Context, id, reason string) (*Deployment, *Deployment, error) {
	req := &wire.RollbackDeploymentRequest{ID: id, Reason: reason}

	var resp wire.RollbackDeploymentResponse
	if err := c.invoke(ctx, "RollbackDeployment", req, &resp); err != nil {
		return nil, nil, err
	}
	return deploymentPtrFromWire(resp.Deployment), deploymentPtrFromWire(resp.RollbackDeployment), nil
}

// Cancel cancels an active deployment and returns its new state.
func (c *DeployClient) Cancel(ctx context.Context, id, reason string) (*Deployment, error) {
	req := &wire.CancelDeploymentRequest{ID: id, Reason: reason}

	var resp wire.CancelDeploymentResponse
	if err := c.invoke(ctx, "CancelDeployment", req, &resp); err != nil {
		return nil, err
	}
	return deploymentPtrFromWire(resp.Deployment), nil
}

// GetStatus returns the live status of a deployment, including metric
// snapshots for the deployed and baseline versions.
func (c *DeployClient) GetStatus(ctx context.Context, id string) (*DeploymentStatusInfo, error) {
	var resp wire.GetDeploymentStatusResponse
	err := c.invoke(ctx, "GetDeploymentStatus", &wire.GetDeploymentStatusRequest{ID: id}, &resp)
	if err != nil {
		return nil, err
	}
	return &DeploymentStatusInfo{
		Status:          deploymentStatusFromWire(resp.Status),
		Rollout:         rolloutProgressFromWire(resp.Rollout),
		GateResults:     gateResultsFromWire(resp.GateResults),
		CurrentMetrics:  deploymentMetricsFromWire(resp.CurrentMetrics),
		BaselineMetrics: deploymentMetricsFromWire(resp.BaselineMetrics),
	}, nil
}

// CreateQualityGateParams describes a quality gate to create.
type CreateQualityGateParams struct {
	Name       string
	PromptID   string
	Conditions []GateCondition

	// Required marks the gate as blocking. Nil selects true.
	Required *bool
}

// CreateQualityGate registers a quality gate for a prompt and returns it.
func (c *DeployClient) CreateQualityGate(ctx context.Context, params CreateQualityGateParams) (*QualityGate, error) {
	required := true
	if params.Required != nil {
		required = *params.Required
	}

	req := &wire.CreateQualityGateRequest{
		Name:       params.Name,
		PromptID:   params.PromptID,
		Conditions: gateConditionsToWire(params.Conditions),
		Required:   required,
	}

	var resp wire.CreateQualityGateResponse
	if err := c.invoke(ctx, "CreateQualityGate", req, &resp); err != nil {
		return nil, err
	}
	if resp.QualityGate == nil {
		return nil, nil
	}
	gate := qualityGateFromWire(resp.QualityGate)
	return &gate, nil
}

// ListQualityGates returns the quality gates configured for a prompt.
func (c *DeployClient) ListQualityGates(ctx context.Context, promptID string) ([]QualityGate, error) {
	req := &wire.ListQualityGatesRequest{PromptID: promptID}

	var resp wire.ListQualityGatesResponse
	if err := c.invoke(ctx, "ListQualityGates", req, &resp); err != nil {
		return nil, err
	}

	gates := make([]QualityGate, 0, len(resp.QualityGates))
	for _, wg := range resp.QualityGates {
		if wg == nil {
			continue
		}
		gates = append(gates, qualityGateFromWire(wg))
	}
	return gates, nil
}
