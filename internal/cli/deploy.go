package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	delos "github.com/instantcocoa/delos-go"
	"github.com/instantcocoa/delos-go/internal/cli/output"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Roll out prompt versions",
}

var deployCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a deployment",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		deploy, err := client.Deploy()
		if err != nil {
			return err
		}

		promptID, _ := cmd.Flags().GetString("prompt")
		toVersion, _ := cmd.Flags().GetInt("version")
		environment, _ := cmd.Flags().GetString("environment")
		skipApproval, _ := cmd.Flags().GetBool("skip-approval")

		var strategy *delos.DeploymentStrategy
		strategyFlags := []string{"type", "initial-traffic", "increment", "interval", "auto-rollback"}
		for _, name := range strategyFlags {
			if cmd.Flags().Changed(name) {
				deployType, _ := cmd.Flags().GetString("type")
				initial, _ := cmd.Flags().GetInt("initial-traffic")
				increment, _ := cmd.Flags().GetInt("increment")
				interval, _ := cmd.Flags().GetInt("interval")
				autoRollback, _ := cmd.Flags().GetBool("auto-rollback")
				strategy = &delos.DeploymentStrategy{
					Type:              delos.DeploymentType(deployType),
					InitialPercentage: initial,
					Increment:         increment,
					IntervalSeconds:   interval,
					AutoRollback:      autoRollback,
				}
				break
			}
		}

		deployment, err := deploy.Create(cmd.Context(), delos.CreateDeploymentParams{
			PromptID:     promptID,
			ToVersion:    toVersion,
			Environment:  environment,
			Strategy:     strategy,
			SkipApproval: skipApproval,
		})
		if err != nil {
			return fmt.Errorf("creating deployment: %w", err)
		}
		if structured() {
			return writer().Print(deployment)
		}
		output.Success("created deployment %s: %s v%d -> v%d in %s",
			deployment.ID, deployment.PromptID, deployment.FromVersion, deployment.ToVersion, deployment.Environment)
		if deployment.Status == delos.DeploymentStatusPendingApproval {
			output.Info("awaiting approval: delos deploy approve %s", deployment.ID)
		}
		return nil
	},
}

var deployListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployments",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		deploy, err := client.Deploy()
		if err != nil {
			return err
		}

		promptID, _ := cmd.Flags().GetString("prompt")
		environment, _ := cmd.Flags().GetString("environment")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		page, err := deploy.List(cmd.Context(), delos.ListDeploymentsParams{
			PromptID:    promptID,
			Environment: environment,
			Status:      delos.DeploymentStatus(status),
			Limit:       limit,
		})
		if err != nil {
			return fmt.Errorf("listing deployments: %w", err)
		}
		if structured() {
			return writer().Print(page)
		}

		tbl := output.Table{Headers: []string{"ID", "PROMPT", "VERSIONS", "ENV", "STATUS", "CREATED"}}
		for _, d := range page.Items {
			tbl.AddRow(d.ID, d.PromptID,
				fmt.Sprintf("v%d -> v%d", d.FromVersion, d.ToVersion),
				d.Environment, string(d.Status), output.Timestamp(d.CreatedAt))
		}
		if err := writer().Print(tbl); err != nil {
			return err
		}
		if page.HasMore() {
			output.Info("showing %d of %d deployments", len(page.Items), page.TotalCount)
		}
		return nil
	},
}

var deployGetCmd = &cobra.Command{
	Use:   "get <deployment-id>",
	Short: "Show a deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		deploy, err := client.Deploy()
		if err != nil {
			return err
		}

		deployment, err := deploy.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("getting deployment: %w", err)
		}
		if deployment == nil {
			return fmt.Errorf("deployment %s not found", args[0])
		}
		if structured() {
			return writer().Print(deployment)
		}

		output.Info("%s: %s v%d -> v%d in %s", deployment.ID, deployment.PromptID,
			deployment.FromVersion, deployment.ToVersion, deployment.Environment)
		output.Info("status %s", deployment.Status)
		if deployment.StatusMessage != "" {
			output.Info("%s", deployment.StatusMessage)
		}
		if deployment.ApprovedBy != "" {
			output.Info("approved by %s", deployment.ApprovedBy)
		}
		if r := deployment.Rollout; r != nil {
			output.Info("rollout at %d%% of %d%%", r.CurrentPercentage, r.TargetPercentage)
		}
		for _, gate := range deployment.GateResults {
			state := "passed"
			if !gate.Passed {
				state = "failed"
			}
			output.Info("gate %s %s: %s", gate.GateName, state, gate.Message)
		}
		return nil
	},
}

var deployApproveCmd = &cobra.Command{
	Use:   "approve <deployment-id>",
	Short: "Approve a pending deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		deploy, err := client.Deploy()
		if err != nil {
			return err
		}

		comment, _ := cmd.Flags().GetString("comment")
		deployment, err := deploy.Approve(cmd.Context(), args[0], comment)
		if err != nil {
			return fmt.Errorf("approving deployment: %w", err)
		}
		if deployment == nil {
			return fmt.Errorf("deployment %s not found", args[0])
		}
		output.Success("approved deployment %s (%s)", deployment.ID, deployment.Status)
		return nil
	},
}

var deployRollbackCmd = &cobra.Command{
	Use:   "rollback <deployment-id>",
	Short: "Roll a deployment back to its previous version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		deploy, err := client.Deploy()
		if err != nil {
			return err
		}

		reason, _ := cmd.Flags().GetString("reason")
		rolled, restore, err := deploy.Rollback(cmd.Context(), args[0], reason)
		if err != nil {
			return fmt.Errorf("rolling back: %w", err)
		}
		if rolled == nil {
			return fmt.Errorf("deployment %s not found", args[0])
		}
		output.Success("rolled back deployment %s", rolled.ID)
		if restore != nil {
			output.Info("restoring v%d via deployment %s", restore.ToVersion, restore.ID)
		}
		return nil
	},
}

var deployCancelCmd = &cobra.Command{
	Use:   "cancel <deployment-id>",
	Short: "Cancel an in-flight deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		deploy, err := client.Deploy()
		if err != nil {
			return err
		}

		reason, _ := cmd.Flags().GetString("reason")
		deployment, err := deploy.Cancel(cmd.Context(), args[0], reason)
		if err != nil {
			return fmt.Errorf("cancelling deployment: %w", err)
		}
		if deployment == nil {
			return fmt.Errorf("deployment %s not found", args[0])
		}
		output.Success("cancelled deployment %s", deployment.ID)
		return nil
	},
}

var deployStatusCmd = &cobra.Command{
	Use:   "status <deployment-id>",
	Short: "Show live rollout status, gates, and metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		deploy, err := client.Deploy()
		if err != nil {
			return err
		}

		info, err := deploy.GetStatus(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("getting status: %w", err)
		}
		if structured() {
			return writer().Print(info)
		}

		output.Info("status %s", info.Status)
		if r := info.Rollout; r != nil {
			output.Info("rollout at %d%% of %d%%", r.CurrentPercentage, r.TargetPercentage)
			if r.NextIncrementAt != nil {
				output.Info("next increment at %s", output.Timestamp(r.NextIncrementAt))
			}
		}
		if len(info.GateResults) > 0 {
			tbl := output.Table{Headers: []string{"GATE", "PASSED", "MESSAGE"}}
			for _, gate := range info.GateResults {
				tbl.AddRow(gate.GateName, yesNo(gate.Passed), gate.Message)
			}
			if err := writer().Print(tbl); err != nil {
				return err
			}
		}
		printMetrics("current", info.CurrentMetrics)
		printMetrics("baseline", info.BaselineMetrics)
		return nil
	},
}

func printMetrics(label string, m *delos.DeploymentMetrics) {
	if m == nil {
		return
	}
	output.Info("%s: %.0fms avg, %.2f%% errors, quality %.3f over %d requests",
		label, m.AvgLatencyMS, m.ErrorRate*100, m.QualityScore, m.RequestCount)
}

var deployGatesCmd = &cobra.Command{
	Use:   "gates <prompt-id>",
	Short: "List a prompt's quality gates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		deploy, err := client.Deploy()
		if err != nil {
			return err
		}

		gates, err := deploy.ListQualityGates(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("listing gates: %w", err)
		}
		if structured() {
			return writer().Print(gates)
		}

		tbl := output.Table{Headers: []string{"ID", "NAME", "REQUIRED", "CONDITIONS"}}
		for _, g := range gates {
			tbl.AddRow(g.ID, g.Name, yesNo(g.Required), fmt.Sprintf("%d", len(g.Conditions)))
		}
		return writer().Print(tbl)
	},
}

var deployGateCreateCmd = &cobra.Command{
	Use:   "gate-create <name>",
	Short: "Create a quality gate for a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		deploy, err := client.Deploy()
		if err != nil {
			return err
		}

		promptID, _ := cmd.Flags().GetString("prompt")
		required, _ := cmd.Flags().GetBool("required")
		condType, _ := cmd.Flags().GetString("condition")
		operator, _ := cmd.Flags().GetString("operator")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		evalRunID, _ := cmd.Flags().GetString("eval-run")
		datasetID, _ := cmd.Flags().GetString("dataset")

		params := delos.CreateQualityGateParams{
			Name:     args[0],
			PromptID: promptID,
			Required: &required,
		}
		if condType != "" {
			params.Conditions = append(params.Conditions, delos.GateCondition{
				Type:      condType,
				Operator:  operator,
				Threshold: threshold,
				EvalRunID: evalRunID,
				DatasetID: datasetID,
			})
		}

		gate, err := deploy.CreateQualityGate(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("creating gate: %w", err)
		}
		if gate == nil {
			return fmt.Errorf("gate was not created")
		}
		output.Success("created quality gate %s (%s)", gate.Name, gate.ID)
		return nil
	},
}

func init() {
	deployCreateCmd.Flags().String("prompt", "", "prompt ID to deploy")
	deployCreateCmd.Flags().Int("version", 0, "prompt version to deploy")
	deployCreateCmd.Flags().String("environment", "", "target environment (default production)")
	deployCreateCmd.Flags().String("type", "", "rollout type: immediate, gradual, canary, or blue_green")
	deployCreateCmd.Flags().Int("initial-traffic", 0, "starting traffic percentage for gradual rollouts")
	deployCreateCmd.Flags().Int("increment", 0, "traffic percentage added per interval")
	deployCreateCmd.Flags().Int("interval", 0, "seconds between traffic increments")
	deployCreateCmd.Flags().Bool("auto-rollback", false, "roll back automatically when metrics degrade")
	deployCreateCmd.Flags().Bool("skip-approval", false, "skip the manual approval step")

	deployListCmd.Flags().String("prompt", "", "filter by prompt ID")
	deployListCmd.Flags().String("environment", "", "filter by environment")
	deployListCmd.Flags().String("status", "", "filter by status")
	deployListCmd.Flags().Int("limit", 0, "maximum deployments to return (0 uses the server default)")

	deployApproveCmd.Flags().String("comment", "", "approval comment")
	deployRollbackCmd.Flags().String("reason", "", "why the deployment is being rolled back")
	deployCancelCmd.Flags().String("reason", "", "why the deployment is being cancelled")

	deployGateCreateCmd.Flags().String("prompt", "", "prompt ID the gate protects")
	deployGateCreateCmd.Flags().Bool("required", true, "gate blocks deployments when failing")
	deployGateCreateCmd.Flags().String("condition", "", "condition type: eval_score, latency, cost, or custom")
	deployGateCreateCmd.Flags().String("operator", "gte", "condition operator: gte, lte, or eq")
	deployGateCreateCmd.Flags().Float64("threshold", 0, "condition threshold")
	deployGateCreateCmd.Flags().String("eval-run", "", "eval run the condition reads scores from")
	deployGateCreateCmd.Flags().String("dataset", "", "dataset the condition evaluates against")

	deployCmd.AddCommand(deployCreateCmd)
	deployCmd.AddCommand(deployListCmd)
	deployCmd.AddCommand(deployGetCmd)
	deployCmd.AddCommand(deployApproveCmd)
	deployCmd.AddCommand(deployRollbackCmd)
	deployCmd.AddCommand(deployCancelCmd)
	deployCmd.AddCommand(deployStatusCmd)
	deployCmd.AddCommand(deployGatesCmd)
	deployCmd.AddCommand(deployGateCreateCmd)
}
