package delos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/instantcocoa/delos-go/internal/wire"
)

func TestDeploymentStatusRoundTrip(t *testing.T) {
	statuses := []DeploymentStatus{
		DeploymentStatusUnspecified,
		DeploymentStatusPendingApproval,
		DeploymentStatusPendingGates,
		DeploymentStatusGatesFailed,
		DeploymentStatusInProgress,
		DeploymentStatusCompleted,
		DeploymentStatusRolledBack,
		DeploymentStatusCancelled,
		DeploymentStatusFailed,
	}
	for _, s := range statuses {
		w, ok := deploymentStatusToWire[s]
		if !ok {
			t.Errorf("status %q has no wire mapping", s)
			continue
		}
		if got := deploymentStatusFromWire(w); got != s {
			t.Errorf("round trip of %q = %q", s, got)
		}
	}

	if got := deploymentStatusFromWire(wire.DeploymentStatus(77)); got != DeploymentStatusUnspecified {
		t.Errorf("deploymentStatusFromWire(77) = %q, want unspecified", got)
	}
}

func TestDeploymentTypeRoundTrip(t *testing.T) {
	types := []DeploymentType{
		DeploymentTypeUnspecified,
		DeploymentTypeImmediate,
		DeploymentTypeGradual,
		DeploymentTypeCanary,
		DeploymentTypeBlueGreen,
	}
	for _, dt := range types {
		w, ok := deploymentTypeToWire[dt]
		if !ok {
			t.Errorf("type %q has no wire mapping", dt)
			continue
		}
		if got := deploymentTypeFromWire(w); got != dt {
			t.Errorf("round trip of %q = %q", dt, got)
		}
	}

	if got := deploymentTypeFromWire(wire.DeploymentType(12)); got != DeploymentTypeUnspecified {
		t.Errorf("deploymentTypeFromWire(12) = %q, want unspecified", got)
	}
}

func TestDeploymentLifecyclePredicates(t *testing.T) {
	tests := []struct {
		status   DeploymentStatus
		active   bool
		complete bool
	}{
		{DeploymentStatusUnspecified, false, false},
		{DeploymentStatusPendingApproval, true, false},
		{DeploymentStatusPendingGates, true, false},
		{DeploymentStatusGatesFailed, false, true},
		{DeploymentStatusInProgress, true, false},
		{DeploymentStatusCompleted, false, true},
		{DeploymentStatusRolledBack, false, true},
		{DeploymentStatusCancelled, false, true},
		{DeploymentStatusFailed, false, true},
	}

	for _, tt := range tests {
		d := &Deployment{Status: tt.status}
		if got := d.IsActive(); got != tt.active {
			t.Errorf("%q.IsActive() = %v, want %v", tt.status, got, tt.active)
		}
		if got := d.IsComplete(); got != tt.complete {
			t.Errorf("%q.IsComplete() = %v, want %v", tt.status, got, tt.complete)
		}
	}
}

func TestDeploymentStrategyToWire(t *testing.T) {
	if deploymentStrategyToWire(nil) != nil {
		t.Error("nil strategy should map to nil")
	}

	w := deploymentStrategyToWire(&DeploymentStrategy{})
	if w.Type != wire.DeploymentTypeImmediate {
		t.Errorf("unset Type = %d, want immediate", w.Type)
	}

	w = deploymentStrategyToWire(&DeploymentStrategy{
		Type:              DeploymentTypeGradual,
		InitialPercentage: 10,
		Increment:         20,
		IntervalSeconds:   300,
		AutoRollback:      true,
		RollbackThreshold: 0.05,
	})
	if w.Type != wire.DeploymentTypeGradual {
		t.Errorf("Type = %d, want gradual", w.Type)
	}
	if w.InitialPercentage != 10 || w.Increment != 20 || w.IntervalSeconds != 300 {
		t.Errorf("rollout knobs lost: %+v", w)
	}
	if !w.AutoRollback || w.RollbackThreshold != 0.05 {
		t.Errorf("rollback knobs lost: %+v", w)
	}
}

// fakeDeploy backs the deployment service in bufconn tests.
type fakeDeploy struct {
	create     func(context.Context, *wire.CreateDeploymentRequest) (any, error)
	get        func(context.Context, *wire.GetDeploymentRequest) (any, error)
	list       func(context.Context, *wire.ListDeploymentsRequest) (any, error)
	approve    func(context.Context, *wire.ApproveDeploymentRequest) (any, error)
	rollback   func(context.Context, *wire.RollbackDeploymentRequest) (any, error)
	cancel     func(context.Context, *wire.CancelDeploymentRequest) (any, error)
	getStatus  func(context.Context, *wire.GetDeploymentStatusRequest) (any, error)
	createGate func(context.Context, *wire.CreateQualityGateRequest) (any, error)
	listGates  func(context.Context, *wire.ListQualityGatesRequest) (any, error)
}

func (f *fakeDeploy) register(srv *grpc.Server) {
	srv.RegisterService(&grpc.ServiceDesc{
		ServiceName: wire.DeployServiceName,
		HandlerType: anyService,
		Methods: []grpc.MethodDesc{
			unary("CreateDeployment", f.create),
			unary("GetDeployment", f.get),
			unary("ListDeployments", f.list),
			unary("ApproveDeployment", f.approve),
			unary("RollbackDeployment", f.rollback),
			unary("CancelDeployment", f.cancel),
			unary("GetDeploymentStatus", f.getStatus),
			unary("CreateQualityGate", f.createGate),
			unary("ListQualityGates", f.listGates),
		},
	}, f)
}

func newTestDeployClient(t *testing.T, f *fakeDeploy) *DeployClient {
	t.Helper()
	conn := newBufConn(t, f.register)
	return &DeployClient{serviceClient: newTestSubClient(t, ServiceDeploy, wire.DeployServiceName, conn)}
}

func TestDeployCreate(t *testing.T) {
	var got *wire.CreateDeploymentRequest
	client := newTestDeployClient(t, &fakeDeploy{
		create: func(_ context.Context, req *wire.CreateDeploymentRequest) (any, error) {
			got = req
			return &wire.CreateDeploymentResponse{Deployment: &wire.Deployment{
				ID:          "dep1",
				PromptID:    req.PromptID,
				FromVersion: 3,
				ToVersion:   req.ToVersion,
				Environment: req.Environment,
				Status:      wire.DeploymentStatusPendingApproval,
			}}, nil
		},
	})

	dep, err := client.Create(context.Background(), CreateDeploymentParams{
		PromptID:  "p1",
		ToVersion: 4,
	})
	require.NoError(t, err)
	require.NotNil(t, dep)
	assert.Equal(t, "dep1", dep.ID)
	assert.Equal(t, 3, dep.FromVersion)
	assert.Equal(t, DeploymentStatusPendingApproval, dep.Status)
	assert.True(t, dep.IsActive())

	require.NotNil(t, got)
	assert.Equal(t, "production", got.Environment)
	assert.Nil(t, got.Strategy)
}

func TestDeployCreateGradual(t *testing.T) {
	var got *wire.CreateDeploymentRequest
	client := newTestDeployClient(t, &fakeDeploy{
		create: func(_ context.Context, req *wire.CreateDeploymentRequest) (any, error) {
			got = req
			return &wire.CreateDeploymentResponse{Deployment: &wire.Deployment{
				ID:       "dep2",
				Status:   wire.DeploymentStatusInProgress,
				Strategy: req.Strategy,
				Rollout:  &wire.RolloutProgress{CurrentPercentage: 10, TargetPercentage: 100},
			}}, nil
		},
	})

	dep, err := client.Create(context.Background(), CreateDeploymentParams{
		PromptID:    "p1",
		ToVersion:   4,
		Environment: "staging",
		Strategy: &DeploymentStrategy{
			Type:              DeploymentTypeGradual,
			InitialPercentage: 10,
			Increment:         30,
			AutoRollback:      true,
		},
		SkipApproval: true,
	})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "staging", got.Environment)
	assert.True(t, got.SkipApproval)
	require.NotNil(t, got.Strategy)
	assert.Equal(t, wire.DeploymentTypeGradual, got.Strategy.Type)
	assert.Equal(t, int32(10), got.Strategy.InitialPercentage)

	require.NotNil(t, dep.Strategy)
	assert.Equal(t, DeploymentTypeGradual, dep.Strategy.Type)
	require.NotNil(t, dep.Rollout)
	assert.Equal(t, 10, dep.Rollout.CurrentPercentage)
	assert.Equal(t, 100, dep.Rollout.TargetPercentage)
}

func TestDeployGet(t *testing.T) {
	client := newTestDeployClient(t, &fakeDeploy{
		get: func(_ context.Context, req *wire.GetDeploymentRequest) (any, error) {
			if req.ID != "dep1" {
				return nil, status.Error(codes.NotFound, "no such deployment")
			}
			return &wire.GetDeploymentResponse{Deployment: &wire.Deployment{
				ID:     "dep1",
				Status: wire.DeploymentStatusCompleted,
			}}, nil
		},
	})

	ctx := context.Background()

	dep, err := client.Get(ctx, "dep1")
	require.NoError(t, err)
	require.NotNil(t, dep)
	assert.True(t, dep.IsComplete())

	dep, err = client.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, dep)
}

func TestDeployList(t *testing.T) {
	var got *wire.ListDeploymentsRequest
	client := newTestDeployClient(t, &fakeDeploy{
		list: func(_ context.Context, req *wire.ListDeploymentsRequest) (any, error) {
			got = req
			return &wire.ListDeploymentsResponse{
				Deployments: []*wire.Deployment{
					{ID: "dep1", Status: wire.DeploymentStatusInProgress},
					nil,
					{ID: "dep2", Status: wire.DeploymentStatusInProgress},
				},
				TotalCount: 5,
			}, nil
		},
	})

	page, err := client.List(context.Background(), ListDeploymentsParams{
		PromptID:    "p1",
		Environment: "production",
		Status:      DeploymentStatusInProgress,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "dep2", page.Items[1].ID)
	assert.Equal(t, 5, page.TotalCount)
	assert.True(t, page.HasMore())

	require.NotNil(t, got)
	assert.Equal(t, "production", got.Environment)
	assert.Equal(t, wire.DeploymentStatusInProgress, got.Status)
	assert.Equal(t, int32(DefaultLimit), got.Limit)
}

func TestDeployApprove(t *testing.T) {
	var got *wire.ApproveDeploymentRequest
	client := newTestDeployClient(t, &fakeDeploy{
		approve: func(_ context.Context, req *wire.ApproveDeploymentRequest) (any, error) {
			got = req
			return &wire.ApproveDeploymentResponse{Deployment: &wire.Deployment{
				ID:         req.ID,
				Status:     wire.DeploymentStatusInProgress,
				ApprovedBy: "ops@example.com",
			}}, nil
		},
	})

	dep, err := client.Approve(context.Background(), "dep1", "LGTM")
	require.NoError(t, err)
	assert.Equal(t, DeploymentStatusInProgress, dep.Status)
	assert.Equal(t, "ops@example.com", dep.ApprovedBy)

	require.NotNil(t, got)
	assert.Equal(t, "LGTM", got.Comment)
}

func TestDeployRollback(t *testing.T) {
	var got *wire.RollbackDeploymentRequest
	client := newTestDeployClient(t, &fakeDeploy{
		rollback: func(_ context.Context, req *wire.RollbackDeploymentRequest) (any, error) {
			got = req
			return &wire.RollbackDeploymentResponse{
				Deployment: &wire.Deployment{
					ID:     req.ID,
					Status: wire.DeploymentStatusRolledBack,
				},
				RollbackDeployment: &wire.Deployment{
					ID:          "dep9",
					FromVersion: 4,
					ToVersion:   3,
					Status:      wire.DeploymentStatusInProgress,
				},
			}, nil
		},
	})

	rolled, restore, err := client.Rollback(context.Background(), "dep1", "error rate spike")
	require.NoError(t, err)

	require.NotNil(t, rolled)
	assert.Equal(t, DeploymentStatusRolledBack, rolled.Status)

	require.NotNil(t, restore)
	assert.Equal(t, "dep9", restore.ID)
	assert.Equal(t, 3, restore.ToVersion)
	assert.True(t, restore.IsActive())

	require.NotNil(t, got)
	assert.Equal(t, "error rate spike", got.Reason)
}

func TestDeployCancel(t *testing.T) {
	client := newTestDeployClient(t, &fakeDeploy{
		cancel: func(_ context.Context, req *wire.CancelDeploymentRequest) (any, error) {
			return &wire.CancelDeploymentResponse{Deployment: &wire.Deployment{
				ID:            req.ID,
				Status:        wire.DeploymentStatusCancelled,
				StatusMessage: req.Reason,
			}}, nil
		},
	})

	dep, err := client.Cancel(context.Background(), "dep1", "superseded")
	require.NoError(t, err)
	assert.Equal(t, DeploymentStatusCancelled, dep.Status)
	assert.Equal(t, "superseded", dep.StatusMessage)
}

func TestDeployGetStatus(t *testing.T) {
	next := time.Date(2026, 2, 10, 12, 30, 0, 0, time.UTC)
	client := newTestDeployClient(t, &fakeDeploy{
		getStatus: func(_ context.Context, req *wire.GetDeploymentStatusRequest) (any, error) {
			return &wire.GetDeploymentStatusResponse{
				Status: wire.DeploymentStatusInProgress,
				Rollout: &wire.RolloutProgress{
					CurrentPercentage: 40,
					TargetPercentage:  100,
					NextIncrementAt:   &next,
				},
				GateResults: []*wire.QualityGateResult{
					{
						GateID:   "gate1",
						GateName: "accuracy",
						Passed:   true,
						ConditionResults: []*wire.ConditionResult{
							{Type: "eval_score", Expected: 0.8, Actual: 0.91, Passed: true},
							nil,
						},
					},
					nil,
				},
				CurrentMetrics:  &wire.DeploymentMetrics{AvgLatencyMS: 120, ErrorRate: 0.01, RequestCount: 4200},
				BaselineMetrics: &wire.DeploymentMetrics{AvgLatencyMS: 150, ErrorRate: 0.02, RequestCount: 9000},
			}, nil
		},
	})

	info, err := client.GetStatus(context.Background(), "dep1")
	require.NoError(t, err)

	assert.Equal(t, DeploymentStatusInProgress, info.Status)
	require.NotNil(t, info.Rollout)
	assert.Equal(t, 40, info.Rollout.CurrentPercentage)
	require.NotNil(t, info.Rollout.NextIncrementAt)
	assert.True(t, info.Rollout.NextIncrementAt.Equal(next))

	require.Len(t, info.GateResults, 1)
	assert.True(t, info.GateResults[0].Passed)
	require.Len(t, info.GateResults[0].ConditionResults, 1)
	assert.Equal(t, 0.91, info.GateResults[0].ConditionResults[0].Actual)

	require.NotNil(t, info.CurrentMetrics)
	assert.Equal(t, 120.0, info.CurrentMetrics.AvgLatencyMS)
	require.NotNil(t, info.BaselineMetrics)
	assert.Equal(t, 9000, info.BaselineMetrics.RequestCount)
}

func TestDeployCreateQualityGate(t *testing.T) {
	var got *wire.CreateQualityGateRequest
	client := newTestDeployClient(t, &fakeDeploy{
		createGate: func(_ context.Context, req *wire.CreateQualityGateRequest) (any, error) {
			got = req
			return &wire.CreateQualityGateResponse{QualityGate: &wire.QualityGate{
				ID:         "gate1",
				Name:       req.Name,
				PromptID:   req.PromptID,
				Conditions: req.Conditions,
				Required:   req.Required,
			}}, nil
		},
	})

	ctx := context.Background()

	gate, err := client.CreateQualityGate(ctx, CreateQualityGateParams{
		Name:     "accuracy",
		PromptID: "p1",
		Conditions: []GateCondition{
			{Type: "eval_score", Operator: "gte", Threshold: 0.8, DatasetID: "ds1"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, gate)
	assert.Equal(t, "gate1", gate.ID)
	assert.True(t, gate.Required)
	require.Len(t, gate.Conditions, 1)
	assert.Equal(t, "gte", gate.Conditions[0].Operator)

	// Unset Required defaults to blocking.
	require.NotNil(t, got)
	assert.True(t, got.Required)

	optional := false
	_, err = client.CreateQualityGate(ctx, CreateQualityGateParams{
		Name:     "latency",
		PromptID: "p1",
		Required: &optional,
	})
	require.NoError(t, err)
	assert.False(t, got.Required)
}

func TestDeployListQualityGates(t *testing.T) {
	client := newTestDeployClient(t, &fakeDeploy{
		listGates: func(_ context.Context, req *wire.ListQualityGatesRequest) (any, error) {
			if req.PromptID != "p1" {
				return &wire.ListQualityGatesResponse{}, nil
			}
			return &wire.ListQualityGatesResponse{QualityGates: []*wire.QualityGate{
				{ID: "gate1", Name: "accuracy", Required: true},
				nil,
				{ID: "gate2", Name: "latency"},
			}}, nil
		},
	})

	gates, err := client.ListQualityGates(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, gates, 2)
	assert.Equal(t, "accuracy", gates[0].Name)
	assert.False(t, gates[1].Required)
}
