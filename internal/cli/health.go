package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/instantcocoa/delos-go/internal/cli/output"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe every service endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		results := client.HealthCheck(cmd.Context())
		if structured() {
			return writer().Print(results)
		}

		services := make([]string, 0, len(results))
		for name := range results {
			services = append(services, name)
		}
		sort.Strings(services)

		tbl := output.Table{Headers: []string{"SERVICE", "STATUS"}}
		for _, name := range services {
			status := "ready"
			if !results[name] {
				status = "unreachable"
			}
			tbl.AddRow(name, status)
		}
		return writer().Print(tbl)
	},
}
