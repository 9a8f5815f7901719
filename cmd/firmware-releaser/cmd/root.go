package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/firmware-releaser/internal/config"
	"github.com/oshokin/firmware-releaser/internal/logger"
	"github.com/oshokin/firmware-releaser/internal/service/sync"
	"github.com/oshokin/firmware-releaser/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// channel selects the release track to synchronize.
	channel string

	// dryRun disables release creation, uploads and state writes.
	dryRun bool

	// logLevel sets the logging verbosity.
	logLevel string

	// rootCmd represents the base command for synchronizing firmware releases.
	rootCmd = &cobra.Command{
		Use:   "firmware-releaser",
		Short: "Build changed firmware artifacts and publish them as dated releases",
		Args:  cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &sync.Options{
				ConfigPath: configPath,
				Channel:    channel,
				DryRun:     dryRun,
			}

			return sync.Run(ctx, options)
		},
	}
)

// Execute runs the firmware-releaser CLI and exits with non-zero status on error.
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
	rootCmd.Flags().StringVar(&channel, "channel", "all", "release channel to synchronize (stable, nightly or all)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify and build without publishing or writing state")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error, fatal)")
}
