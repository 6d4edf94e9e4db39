package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	delos "github.com/instantcocoa/delos-go"
	"github.com/instantcocoa/delos-go/internal/cli/output"
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Inspect traces and spans",
}

var observeTraceCmd = &cobra.Command{
	Use:   "trace <trace-id>",
	Short: "Show a trace and its spans",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		observe, err := client.Observe()
		if err != nil {
			return err
		}

		trace, err := observe.GetTrace(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("getting trace: %w", err)
		}
		if trace == nil {
			return fmt.Errorf("trace %s not found", args[0])
		}
		if structured() {
			return writer().Print(trace)
		}

		if root := trace.RootSpan(); root != nil {
			output.Info("trace %s: %s (%d spans)", trace.TraceID, root.Name, len(trace.Spans))
		} else {
			output.Info("trace %s (%d spans)", trace.TraceID, len(trace.Spans))
		}
		tbl := output.Table{Headers: []string{"SPAN", "NAME", "KIND", "STATUS", "DURATION", "STARTED"}}
		for _, s := range trace.Spans {
			duration := ""
			if d := s.DurationMS(); d != nil {
				duration = fmt.Sprintf("%.1fms", *d)
			}
			tbl.AddRow(s.SpanID, s.Name, string(s.Kind), string(s.Status), duration, s.StartTime.Format("15:04:05.000"))
		}
		return writer().Print(tbl)
	},
}

var observeQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query recent traces",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		observe, err := client.Observe()
		if err != nil {
			return err
		}

		service, _ := cmd.Flags().GetString("service")
		limit, _ := cmd.Flags().GetInt("limit")
		traces, err := observe.QueryTraces(cmd.Context(), delos.QueryTracesParams{
			ServiceName: service,
			Limit:       limit,
		})
		if err != nil {
			return fmt.Errorf("querying traces: %w", err)
		}
		if structured() {
			return writer().Print(traces)
		}

		tbl := output.Table{Headers: []string{"TRACE", "SERVICE", "SPANS", "ROOT", "DURATION", "STARTED"}}
		for _, tr := range traces {
			rootName := ""
			if root := tr.RootSpan(); root != nil {
				rootName = root.Name
			}
			duration := ""
			if d := tr.DurationMS(); d != nil {
				duration = fmt.Sprintf("%.1fms", *d)
			}
			tbl.AddRow(tr.TraceID, tr.ServiceName, fmt.Sprintf("%d", len(tr.Spans)), rootName, duration, output.Timestamp(tr.StartTime))
		}
		return writer().Print(tbl)
	},
}

func init() {
	observeQueryCmd.Flags().String("service", "", "filter by service name")
	observeQueryCmd.Flags().Int("limit", 0, "maximum traces to return (0 uses the server default)")

	observeCmd.AddCommand(observeTraceCmd)
	observeCmd.AddCommand(observeQueryCmd)
}
