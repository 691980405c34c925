package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sapphires-iaq/filterwatch/internal/config"
	"github.com/sapphires-iaq/filterwatch/internal/service/action"
	"github.com/sapphires-iaq/filterwatch/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// serverAddress overrides the server address from configuration.
	serverAddress string

	// rootCmd represents the base command for pushing one operator trigger.
	rootCmd = &cobra.Command{
		Use:   "filterwatch-action <trigger>",
		Short: "Push one operator trigger to a running filterwatch server.",
		Long: `Pushes a single operator trigger to a running filterwatch server and retries
until the server accepts it.

Valid triggers: approve, decline, defer-20, defer-60, disclaimer-confirm,
disclaimer-cancel, caution-acknowledge. Intended for scripted and headless
setups where no browser is driving the dialogs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &action.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				Trigger:       args[0],
			}

			return action.Run(ctx, options)
		},
	}
)

// Execute runs the filterwatch-action CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&serverAddress, "server", "a", "", "server address override (host:port)")
}
