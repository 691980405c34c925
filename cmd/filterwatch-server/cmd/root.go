package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sapphires-iaq/filterwatch/internal/config"
	"github.com/sapphires-iaq/filterwatch/internal/service/server"
	"github.com/sapphires-iaq/filterwatch/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// sessionFile path where the dialog session is persisted.
	sessionFile string

	// rootCmd represents the base command for running the HTTP server.
	rootCmd = &cobra.Command{
		Use:   "filterwatch-server [listen-address]",
		Short: "Run the filterwatch server and drive the fan decision dialogs.",
		Long: `Starts the filterwatch server that watches the sensor database for filter
activation events and walks the operator through the fan decision dialogs.

The server listens on the specified address or uses settings from configuration file.
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8050).
The dialog session is persisted to JSON file for recovery across restarts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				SessionFile:   sessionFile,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the filterwatch-server CLI and exits with non-zero status on error.
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
		StringVarP(&sessionFile, "session-file", "s", config.DefaultSessionFilename, "path to persist dialog session")
}
