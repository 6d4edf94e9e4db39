// Package cli implements the delos command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	delos "github.com/instantcocoa/delos-go"
	"github.com/instantcocoa/delos-go/internal/cli/output"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "delos",
	Short: "Command line interface for the Delos platform",
	Long: `delos drives the Delos platform from the terminal: manage prompts and
datasets, run completions and evaluations, inspect traces, and roll
out prompt versions behind quality gates.

Settings are read from DELOS_* environment variables and from
.delos.yaml in the home or working directory (override the path with
--config). Flags win over the environment, which wins over the file.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.delos.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, or yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(observeCmd)
	rootCmd.AddCommand(runtimeCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".delos")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DELOS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "delos: reading config: %v\n", err)
			os.Exit(1)
		}
	}
}

// clientOptions translates viper settings into client options. Timeouts
// are given in seconds, matching the DELOS_TIMEOUT environment contract.
func clientOptions() []delos.ConfigOption {
	var opts []delos.ConfigOption
	if host := viper.GetString("host"); host != "" {
		opts = append(opts, delos.WithHost(host))
	}
	if key := viper.GetString("api_key"); key != "" {
		opts = append(opts, delos.WithAPIKey(key))
	}
	if secs := viper.GetFloat64("timeout"); secs > 0 {
		opts = append(opts, delos.WithTimeout(time.Duration(secs*float64(time.Second))))
	}
	if secs := viper.GetFloat64("connect_timeout"); secs > 0 {
		opts = append(opts, delos.WithConnectTimeout(time.Duration(secs*float64(time.Second))))
	}
	if viper.GetBool("use_tls") {
		opts = append(opts, delos.WithTLS(true))
	}

	services := []string{
		delos.ServiceObserve,
		delos.ServiceRuntime,
		delos.ServicePrompt,
		delos.ServiceDatasets,
		delos.ServiceEval,
		delos.ServiceDeploy,
	}
	for _, svc := range services {
		key := "endpoints." + svc
		if !viper.IsSet(key+".host") && !viper.IsSet(key+".port") {
			continue
		}
		// Partial endpoints are fine: the client fills missing pieces
		// from the global host and the default ports.
		opts = append(opts, delos.WithEndpoint(svc, delos.ServiceEndpoint{
			Host:   viper.GetString(key + ".host"),
			Port:   viper.GetInt(key + ".port"),
			UseTLS: viper.GetBool(key + ".tls"),
		}))
	}
	return opts
}

// newClient builds the client: environment first, then config file and
// flag settings on top.
func newClient() (*delos.Client, error) {
	opts := clientOptions()
	if verbose() {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("building logger: %w", err)
		}
		opts = append(opts, delos.WithStructuredLogger(delos.NewZapAdapter(logger)))
	}
	return delos.NewFromEnv(opts...)
}

func writer() *output.Writer {
	return output.NewWriter(os.Stdout, viper.GetString("output"))
}

// structured reports whether the whole response should be rendered
// instead of a table.
func structured() bool {
	f := viper.GetString("output")
	return f == string(output.FormatJSON) || f == string(output.FormatYAML)
}

func verbose() bool {
	return viper.GetBool("verbose")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("delos version %s\n", delos.Version)
	},
}
