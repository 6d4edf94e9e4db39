package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	delos "github.com/instantcocoa/delos-go"
	"github.com/instantcocoa/delos-go/internal/cli/output"
)

var runtimeCmd = &cobra.Command{
	Use:   "runtime",
	Short: "Run completions and inspect providers",
}

var runtimeCompleteCmd = &cobra.Command{
	Use:   "complete <message...>",
	Short: "Generate a completion for a message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		runtime, err := client.Runtime()
		if err != nil {
			return err
		}

		model, _ := cmd.Flags().GetString("model")
		provider, _ := cmd.Flags().GetString("provider")
		system, _ := cmd.Flags().GetString("system")
		temperature, _ := cmd.Flags().GetFloat64("temperature")
		maxTokens, _ := cmd.Flags().GetInt("max-tokens")
		routing, _ := cmd.Flags().GetString("routing")
		stream, _ := cmd.Flags().GetBool("stream")

		params := delos.CompletionParams{
			Model:           model,
			Provider:        provider,
			SystemPrompt:    system,
			Temperature:     temperature,
			MaxTokens:       maxTokens,
			RoutingStrategy: delos.RoutingStrategy(routing),
			Messages: []delos.Message{
				{Role: "user", Content: strings.Join(args, " ")},
			},
		}

		if stream {
			st, err := runtime.CompleteStream(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("starting stream: %w", err)
			}
			defer st.Close()
			for {
				chunk, err := st.Recv()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("streaming: %w", err)
				}
				fmt.Print(chunk)
			}
			fmt.Println()
			return nil
		}

		resp, err := runtime.Complete(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("completing: %w", err)
		}
		if structured() {
			return writer().Print(resp)
		}
		fmt.Println(resp.Content)
		if verbose() {
			output.Info("%s/%s | %d tokens | %.0fms | %s",
				resp.Provider, resp.Model, resp.Usage.TotalTokens, resp.LatencyMS, resp.FinishReason)
		}
		return nil
	},
}

var runtimeModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		runtime, err := client.Runtime()
		if err != nil {
			return err
		}

		provider, _ := cmd.Flags().GetString("provider")
		models, err := runtime.ListModels(cmd.Context(), provider)
		if err != nil {
			return fmt.Errorf("listing models: %w", err)
		}
		if structured() {
			return writer().Print(models)
		}

		tbl := output.Table{Headers: []string{"ID", "NAME", "PROVIDER", "CONTEXT", "MAX OUT", "VISION", "TOOLS"}}
		for _, m := range models {
			tbl.AddRow(m.ID, m.Name, m.Provider,
				fmt.Sprintf("%d", m.ContextWindow),
				fmt.Sprintf("%d", m.MaxOutputTokens),
				yesNo(m.SupportsVision),
				yesNo(m.SupportsFunctionCalling))
		}
		return writer().Print(tbl)
	},
}

var runtimeProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List providers and their availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()
		runtime, err := client.Runtime()
		if err != nil {
			return err
		}

		providers, err := runtime.ListProviders(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing providers: %w", err)
		}
		if structured() {
			return writer().Print(providers)
		}

		tbl := output.Table{Headers: []string{"ID", "NAME", "MODELS", "AVAILABLE"}}
		for _, p := range providers {
			tbl.AddRow(p.ID, p.Name, fmt.Sprintf("%d", len(p.Models)), yesNo(p.IsAvailable))
		}
		return writer().Print(tbl)
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	runtimeCompleteCmd.Flags().String("model", "", "model to use")
	runtimeCompleteCmd.Flags().String("provider", "", "provider to use")
	runtimeCompleteCmd.Flags().String("system", "", "system prompt")
	runtimeCompleteCmd.Flags().Float64("temperature", 0, "sampling temperature (0 uses the server default)")
	runtimeCompleteCmd.Flags().Int("max-tokens", 0, "maximum tokens to generate (0 uses the server default)")
	runtimeCompleteCmd.Flags().String("routing", "", "routing strategy: cost, latency, or quality")
	runtimeCompleteCmd.Flags().Bool("stream", false, "stream the completion as it is generated")
	runtimeModelsCmd.Flags().String("provider", "", "filter by provider")

	runtimeCmd.AddCommand(runtimeCompleteCmd)
	runtimeCmd.AddCommand(runtimeModelsCmd)
	runtimeCmd.AddCommand(runtimeProvidersCmd)
}
