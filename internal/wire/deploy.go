package wire

import "time"

// DeployServiceName is the fully qualified name of the deployment service.
const DeployServiceName = "deploy.v1.DeployService"

func init() {
	register(Service{
		Name: DeployServiceName,
		Methods: []string{
			"CreateDeployment", "GetDeployment", "ListDeployments",
			"ApproveDeployment", "RollbackDeployment", "CancelDeployment",
			"GetDeploymentStatus", "CreateQualityGate", "ListQualityGates",
		},
	})
}

// DeploymentStatus mirrors deploy.v1.DeploymentStatus.
type DeploymentStatus int32

const (
	DeploymentStatusUnspecified     DeploymentStatus = 0
	DeploymentStatusPendingApproval DeploymentStatus = 1
	DeploymentStatusPendingGates    DeploymentStatus = 2
	DeploymentStatusGatesFailed     DeploymentStatus = 3
	DeploymentStatusInProgress      DeploymentStatus = 4
	DeploymentStatusCompleted       DeploymentStatus = 5
	DeploymentStatusRolledBack      DeploymentStatus = 6
	DeploymentStatusCancelled       DeploymentStatus = 7
	DeploymentStatusFailed          DeploymentStatus = 8
)

// DeploymentType mirrors deploy.v1.DeploymentType.
type DeploymentType int32

const (
	DeploymentTypeUnspecified DeploymentType = 0
	DeploymentTypeImmediate   DeploymentType = 1
	DeploymentTypeGradual     DeploymentType = 2
	DeploymentTypeCanary      DeploymentType = 3
	DeploymentTypeBlueGreen   DeploymentType = 4
)

// DeploymentStrategy controls how a new prompt version reaches traffic.
type DeploymentStrategy struct {
	Type              DeploymentType `json:"type,omitempty"`
	InitialPercentage int32          `json:"initial_percentage,omitempty"`
	Increment         int32          `json:"increment,omitempty"`
	IntervalSeconds   int32          `json:"interval_seconds,omitempty"`
	AutoRollback      bool           `json:"auto_rollback,omitempty"`
	RollbackThreshold float64        `json:"rollback_threshold,omitempty"`
}

// RolloutProgress reports how far a gradual rollout has advanced.
type RolloutProgress struct {
	CurrentPercentage int32      `json:"current_percentage,omitempty"`
	TargetPercentage  int32      `json:"target_percentage,omitempty"`
	LastIncrementAt   *time.Time `json:"last_increment_at,omitempty"`
	NextIncrementAt   *time.Time `json:"next_increment_at,omitempty"`
}

// GateCondition is one check a quality gate evaluates.
type GateCondition struct {
	Type      string  `json:"type,omitempty"`
	Operator  string  `json:"operator,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	EvalRunID string  `json:"eval_run_id,omitempty"`
	DatasetID string  `json:"dataset_id,omitempty"`
}

// ConditionResult is the evaluated outcome of one gate condition.
type ConditionResult struct {
	Type     string  `json:"type,omitempty"`
	Expected float64 `json:"expected,omitempty"`
	Actual   float64 `json:"actual,omitempty"`
	Passed   bool    `json:"passed,omitempty"`
}

// QualityGate is a named set of conditions a deployment must satisfy.
type QualityGate struct {
	ID         string           `json:"id,omitempty"`
	Name       string           `json:"name,omitempty"`
	PromptID   string           `json:"prompt_id,omitempty"`
	Conditions []*GateCondition `json:"conditions,omitempty"`
	Required   bool             `json:"required,omitempty"`
	CreatedAt  *time.Time       `json:"created_at,omitempty"`
	CreatedBy  string           `json:"created_by,omitempty"`
}

// QualityGateResult is the outcome of evaluating one gate.
type QualityGateResult struct {
	GateID           string             `json:"gate_id,omitempty"`
	GateName         string             `json:"gate_name,omitempty"`
	Passed           bool               `json:"passed,omitempty"`
	Message          string             `json:"message,omitempty"`
	ConditionResults []*ConditionResult `json:"condition_results,omitempty"`
}

// DeploymentMetrics carries live traffic metrics for a deployment.
type DeploymentMetrics struct {
	AvgLatencyMS float64 `json:"avg_latency_ms,omitempty"`
	ErrorRate    float64 `json:"error_rate,omitempty"`
	QualityScore float64 `json:"quality_score,omitempty"`
	RequestCount int32   `json:"request_count,omitempty"`
}

// Deployment moves a prompt from one version to another in an environment.
type Deployment struct {
	ID            string               `json:"id,omitempty"`
	PromptID      string               `json:"prompt_id,omitempty"`
	FromVersion   int32                `json:"from_version,omitempty"`
	ToVersion     int32                `json:"to_version,omitempty"`
	Environment   string               `json:"environment,omitempty"`
	Strategy      *DeploymentStrategy  `json:"strategy,omitempty"`
	Status        DeploymentStatus     `json:"status,omitempty"`
	StatusMessage string               `json:"status_message,omitempty"`
	GateResults   []*QualityGateResult `json:"gate_results,omitempty"`
	GatesPassed   bool                 `json:"gates_passed,omitempty"`
	Rollout       *RolloutProgress     `json:"rollout,omitempty"`
	CreatedAt     *time.Time           `json:"created_at,omitempty"`
	StartedAt     *time.Time           `json:"started_at,omitempty"`
	CompletedAt   *time.Time           `json:"completed_at,omitempty"`
	CreatedBy     string               `json:"created_by,omitempty"`
	ApprovedBy    string               `json:"approved_by,omitempty"`
	Metadata      map[string]string    `json:"metadata,omitempty"`
}

type CreateDeploymentRequest struct {
	PromptID     string              `json:"prompt_id,omitempty"`
	ToVersion    int32               `json:"to_version,omitempty"`
	Environment  string              `json:"environment,omitempty"`
	Strategy     *DeploymentStrategy `json:"strategy,omitempty"`
	SkipApproval bool                `json:"skip_approval,omitempty"`
	Metadata     map[string]string   `json:"metadata,omitempty"`
}

type CreateDeploymentResponse struct {
	Deployment *Deployment `json:"deployment,omitempty"`
}

type GetDeploymentRequest struct {
	ID string `json:"id,omitempty"`
}

type GetDeploymentResponse struct {
	Deployment *Deployment `json:"deployment,omitempty"`
}

type ListDeploymentsRequest struct {
	PromptID    string           `json:"prompt_id,omitempty"`
	Environment string           `json:"environment,omitempty"`
	Status      DeploymentStatus `json:"status,omitempty"`
	Limit       int32            `json:"limit,omitempty"`
	Offset      int32            `json:"offset,omitempty"`
}

type ListDeploymentsResponse struct {
	Deployments []*Deployment `json:"deployments,omitempty"`
	TotalCount  int32         `json:"total_count,omitempty"`
}

type ApproveDeploymentRequest struct {
	ID      string `json:"id,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type ApproveDeploymentResponse struct {
	Deployment *Deployment `json:"deployment,omitempty"`
}

type RollbackDeploymentRequest struct {
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// RollbackDeploymentResponse returns both the deployment that was rolled
// back and the new deployment created to restore the previous version.
type RollbackDeploymentResponse struct {
	Deployment         *Deployment `json:"deployment,omitempty"`
	RollbackDeployment *Deployment `json:"rollback_deployment,omitempty"`
}

type CancelDeploymentRequest struct {
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type CancelDeploymentResponse struct {
	Deployment *Deployment `json:"deployment,omitempty"`
}

type GetDeploymentStatusRequest struct {
	ID string `json:"id,omitempty"`
}

type GetDeploymentStatusResponse struct {
	Status          DeploymentStatus     `json:"status,omitempty"`
	Rollout         *RolloutProgress     `json:"rollout,omitempty"`
	GateResults     []*QualityGateResult `json:"gate_results,omitempty"`
	CurrentMetrics  *DeploymentMetrics   `json:"current_metrics,omitempty"`
	BaselineMetrics *DeploymentMetrics   `json:"baseline_metrics,omitempty"`
}

type CreateQualityGateRequest struct {
	Name       string           `json:"name,omitempty"`
	PromptID   string           `json:"prompt_id,omitempty"`
	Conditions []*GateCondition `json:"conditions,omitempty"`
	Required   bool             `json:"required,omitempty"`
}

type CreateQualityGateResponse struct {
	QualityGate *QualityGate `json:"quality_gate,omitempty"`
}

type ListQualityGatesRequest struct {
	PromptID string `json:"prompt_id,omitempty"`
}

type ListQualityGatesResponse struct {
	QualityGates []*QualityGate `json:"quality_gates,omitempty"`
}
