package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/hunseop/automated-task-launcher/internal/api"
	"github.com/hunseop/automated-task-launcher/internal/config"
	"github.com/hunseop/automated-task-launcher/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "atl",
	Short: "Automated task launcher for firewall analysis pipelines",
	Long: `atl orchestrates multi-step firewall analysis projects against a compatible
backend: it walks each project's ordered task pipeline, asks only for the
inputs the server declares, submits each task together with its predecessor's
result, and renders the finished project's results as a searchable,
exportable table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagBaseURL string
	cfg         config.Config
)

// Execute runs the root command with the given context
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentPreRunE = setup
}

// setup loads the configuration and wires the default logger before any
// command runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.LogLevel),
		Format: log.ParseFormat(cfg.LogFormat),
		Output: log.NewOutput(os.Stderr),
	})
	log.SetDefaultLogger(logger)
	return nil
}

// newClient creates a backend client from the effective configuration
func newClient() (*api.Client, error) {
	return api.NewClient(cfg.BaseURL, api.WithLogger(log.DefaultLogger()))
}
