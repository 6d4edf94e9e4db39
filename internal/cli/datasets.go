package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	delos "github.com/instantcocoa/delos-go"
	"github.com/instantcocoa/delos-go/internal/cli/output"
)

var datasetsCmd = &cobra.Command{
	Use:     "datasets",
	Aliases: []string{"dataset", "ds"},
	Short:   "Manage evaluation datasets",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		datasets, err := client.Datasets()
		if err != nil {
			return err
		}

		promptID, _ := cmd.Flags().GetString("prompt")
		tags, _ := cmd.Flags().GetStringSlice("tags")
		search, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")
		page, err := datasets.List(cmd.Context(), delos.ListDatasetsParams{
			PromptID: promptID,
			Tags:     tags,
			Search:   search,
			Limit:    limit,
		})
		if err != nil {
			return fmt.Errorf("listing datasets: %w", err)
		}
		if structured() {
			return writer().Print(page)
		}

		tbl := output.Table{Headers: []string{"ID", "NAME", "EXAMPLES", "VERSION", "UPDATED"}}
		for _, d := range page.Items {
			tbl.AddRow(d.ID, d.Name, fmt.Sprintf("%d", d.ExampleCount), fmt.Sprintf("v%d", d.Version), output.Timestamp(d.LastUpdated))
		}
		if err := writer().Print(tbl); err != nil {
			return err
		}
		if page.HasMore() {
			output.Info("showing %d of %d datasets", len(page.Items), page.TotalCount)
		}
		return nil
	},
}

var datasetsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		datasets, err := client.Datasets()
		if err != nil {
			return err
		}

		dataset, err := datasets.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("getting dataset: %w", err)
		}
		if dataset == nil {
			return fmt.Errorf("dataset %s not found", args[0])
		}
		if structured() {
			return writer().Print(dataset)
		}

		output.Info("%s (%s) v%d, %d examples", dataset.Name, dataset.ID, dataset.Version, dataset.ExampleCount)
		if dataset.Description != "" {
			output.Info("%s", dataset.Description)
		}
		if dataset.PromptID != "" {
			output.Info("linked prompt %s", dataset.PromptID)
		}
		return nil
	},
}

var datasetsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		datasets, err := client.Datasets()
		if err != nil {
			return err
		}

		description, _ := cmd.Flags().GetString("description")
		promptID, _ := cmd.Flags().GetString("prompt")
		tags, _ := cmd.Flags().GetStringSlice("tags")
		dataset, err := datasets.Create(cmd.Context(), delos.CreateDatasetParams{
			Name:        args[0],
			Description: description,
			PromptID:    promptID,
			Tags:        tags,
		})
		if err != nil {
			return fmt.Errorf("creating dataset: %w", err)
		}
		if structured() {
			return writer().Print(dataset)
		}
		output.Success("created dataset %s (%s)", dataset.Name, dataset.ID)
		return nil
	},
}

var datasetsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		datasets, err := client.Datasets()
		if err != nil {
			return err
		}

		deleted, err := datasets.Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("deleting dataset: %w", err)
		}
		if !deleted {
			return fmt.Errorf("dataset %s not found", args[0])
		}
		output.Success("deleted dataset %s", args[0])
		return nil
	},
}

var datasetsExamplesCmd = &cobra.Command{
	Use:   "examples <dataset-id>",
	Short: "List a dataset's examples",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		datasets, err := client.Datasets()
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		shuffle, _ := cmd.Flags().GetBool("shuffle")
		page, err := datasets.GetExamples(cmd.Context(), args[0], delos.GetExamplesParams{
			Limit:   limit,
			Offset:  offset,
			Shuffle: shuffle,
		})
		if err != nil {
			return fmt.Errorf("listing examples: %w", err)
		}
		if structured() {
			return writer().Print(page)
		}

		tbl := output.Table{Headers: []string{"ID", "SOURCE", "INPUT", "EXPECTED"}}
		for _, ex := range page.Items {
			tbl.AddRow(ex.ID, string(ex.Source), jsonCell(ex.Input, 48), jsonCell(ex.ExpectedOutput, 48))
		}
		if err := writer().Print(tbl); err != nil {
			return err
		}
		if page.HasMore() {
			output.Info("showing %d of %d examples", len(page.Items), page.TotalCount)
		}
		return nil
	},
}

// jsonCell renders a JSON object compactly for a table cell.
func jsonCell(obj delos.JSONObject, max int) string {
	if len(obj) == 0 {
		return ""
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	return output.Truncate(string(b), max)
}

func init() {
	datasetsListCmd.Flags().String("prompt", "", "filter by linked prompt ID")
	datasetsListCmd.Flags().StringSlice("tags", nil, "filter by tags")
	datasetsListCmd.Flags().String("search", "", "search in name and description")
	datasetsListCmd.Flags().Int("limit", 0, "maximum datasets to return (0 uses the server default)")

	datasetsCreateCmd.Flags().String("description", "", "dataset description")
	datasetsCreateCmd.Flags().String("prompt", "", "prompt ID this dataset exercises")
	datasetsCreateCmd.Flags().StringSlice("tags", nil, "tags to attach")

	datasetsExamplesCmd.Flags().Int("limit", 0, "maximum examples to return (0 uses the server default)")
	datasetsExamplesCmd.Flags().Int("offset", 0, "examples to skip")
	datasetsExamplesCmd.Flags().Bool("shuffle", false, "return examples in random order")

	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsGetCmd)
	datasetsCmd.AddCommand(datasetsCreateCmd)
	datasetsCmd.AddCommand(datasetsDeleteCmd)
	datasetsCmd.AddCommand(datasetsExamplesCmd)
}
