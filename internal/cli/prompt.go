package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	delos "github.com/instantcocoa/delos-go"
	"github.com/instantcocoa/delos-go/internal/cli/output"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Manage prompts and their versions",
}

var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		prompts, err := client.Prompts()
		if err != nil {
			return err
		}

		tags, _ := cmd.Flags().GetStringSlice("tags")
		search, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")
		page, err := prompts.List(cmd.Context(), delos.ListPromptsParams{
			Tags:   tags,
			Search: search,
			Limit:  limit,
		})
		if err != nil {
			return fmt.Errorf("listing prompts: %w", err)
		}
		if structured() {
			return writer().Print(page)
		}

		tbl := output.Table{Headers: []string{"ID", "NAME", "SLUG", "VERSION", "UPDATED"}}
		for _, p := range page.Items {
			tbl.AddRow(p.ID, p.Name, p.Slug, fmt.Sprintf("v%d", p.CurrentVersion), output.Timestamp(p.UpdatedAt))
		}
		if err := writer().Print(tbl); err != nil {
			return err
		}
		if page.HasMore() {
			output.Info("showing %d of %d prompts", len(page.Items), page.TotalCount)
		}
		return nil
	},
}

var promptGetCmd = &cobra.Command{
	Use:   "get <id-or-slug>",
	Short: "Show a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		prompts, err := client.Prompts()
		if err != nil {
			return err
		}

		version, _ := cmd.Flags().GetInt("version")
		var prompt *delos.Prompt
		if version > 0 {
			prompt, err = prompts.GetAtVersion(cmd.Context(), args[0], version)
		} else {
			prompt, err = prompts.Get(cmd.Context(), args[0])
		}
		if err != nil {
			return fmt.Errorf("getting prompt: %w", err)
		}
		if prompt == nil {
			return fmt.Errorf("prompt %s not found", args[0])
		}
		if structured() {
			return writer().Print(prompt)
		}

		output.Info("%s (%s) v%d", prompt.Name, prompt.ID, prompt.CurrentVersion)
		if prompt.Description != "" {
			output.Info("%s", prompt.Description)
		}
		v := prompt.Latest()
		if version > 0 {
			v = prompt.Version(version)
		}
		if v == nil {
			return nil
		}
		if v.Model != "" {
			output.Info("model %s, temperature %.2f, max tokens %d", v.Model, v.Temperature, v.MaxTokens)
		}
		if v.SystemPrompt != "" {
			fmt.Printf("\n[system]\n%s\n", v.SystemPrompt)
		}
		if v.Template != "" {
			fmt.Printf("\n%s\n", v.Template)
		}
		return nil
	},
}

var promptCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		prompts, err := client.Prompts()
		if err != nil {
			return err
		}

		slug, _ := cmd.Flags().GetString("slug")
		description, _ := cmd.Flags().GetString("description")
		template, _ := cmd.Flags().GetString("template")
		system, _ := cmd.Flags().GetString("system")
		model, _ := cmd.Flags().GetString("model")
		temperature, _ := cmd.Flags().GetFloat64("temperature")
		maxTokens, _ := cmd.Flags().GetInt("max-tokens")
		tags, _ := cmd.Flags().GetStringSlice("tags")

		prompt, err := prompts.Create(cmd.Context(), delos.CreatePromptParams{
			Name:         args[0],
			Slug:         slug,
			Description:  description,
			Template:     template,
			SystemPrompt: system,
			Model:        model,
			Temperature:  temperature,
			MaxTokens:    maxTokens,
			Tags:         tags,
		})
		if err != nil {
			return fmt.Errorf("creating prompt: %w", err)
		}
		if structured() {
			return writer().Print(prompt)
		}
		output.Success("created prompt %s (%s)", prompt.Name, prompt.ID)
		return nil
	},
}

var promptDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		prompts, err := client.Prompts()
		if err != nil {
			return err
		}

		deleted, err := prompts.Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("deleting prompt: %w", err)
		}
		if !deleted {
			return fmt.Errorf("prompt %s not found", args[0])
		}
		output.Success("deleted prompt %s", args[0])
		return nil
	},
}

var promptVersionsCmd = &cobra.Command{
	Use:   "versions <id>",
	Short: "List a prompt's version history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		prompts, err := client.Prompts()
		if err != nil {
			return err
		}

		versions, err := prompts.ListVersions(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("listing versions: %w", err)
		}
		if structured() {
			return writer().Print(versions)
		}

		tbl := output.Table{Headers: []string{"VERSION", "MODEL", "CREATED", "BY", "MESSAGE"}}
		for _, v := range versions {
			tbl.AddRow(fmt.Sprintf("v%d", v.Version), v.Model, output.Timestamp(v.CreatedAt), v.CreatedBy, output.Truncate(v.CommitMessage, 40))
		}
		return writer().Print(tbl)
	},
}

func init() {
	promptListCmd.Flags().StringSlice("tags", nil, "filter by tags")
	promptListCmd.Flags().String("search", "", "search in name and description")
	promptListCmd.Flags().Int("limit", 0, "maximum prompts to return (0 uses the server default)")

	promptGetCmd.Flags().Int("version", 0, "pin a specific version (0 is latest)")

	promptCreateCmd.Flags().String("slug", "", "URL-safe identifier (derived from the name when empty)")
	promptCreateCmd.Flags().String("description", "", "prompt description")
	promptCreateCmd.Flags().String("template", "", "prompt template with {{variable}} placeholders")
	promptCreateCmd.Flags().String("system", "", "system prompt")
	promptCreateCmd.Flags().String("model", "", "default model")
	promptCreateCmd.Flags().Float64("temperature", 0, "default sampling temperature")
	promptCreateCmd.Flags().Int("max-tokens", 0, "default max tokens")
	promptCreateCmd.Flags().StringSlice("tags", nil, "tags to attach")

	promptCmd.AddCommand(promptListCmd)
	promptCmd.AddCommand(promptGetCmd)
	promptCmd.AddCommand(promptCreateCmd)
	promptCmd.AddCommand(promptDeleteCmd)
	promptCmd.AddCommand(promptVersionsCmd)
}
