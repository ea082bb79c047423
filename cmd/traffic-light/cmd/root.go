package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/traffic-light/internal/config"
	"github.com/oshokin/traffic-light/internal/logger"
	"github.com/oshokin/traffic-light/internal/service/controller"
	"github.com/oshokin/traffic-light/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// metricsAddress overrides the metrics listen address.
	metricsAddress string
	// logLevel overrides the configured log level.
	logLevel string
	// watch enables hot reload of the dwell periods.
	watch bool
	// multiInstance skips the single instance guard.
	multiInstance bool

	// rootCmd represents the base command for running the controller.
	rootCmd = &cobra.Command{
		Use:   "traffic-light [listen-address]",
		Short: "Run the traffic-light controller.",
		Long: `Runs a timed traffic-light controller on simulated lamps.

The light cycles red, red+yellow, green, yellow and back to red, each phase
lasting its configured dwell period. The mode button toggles maintenance mode,
where all lamps are lit until it is pressed again. The button is pressed
remotely over gRPC with "traffic-light-ctl switch".

Settings are read from the configuration file; a missing file selects the
default 3s / 500ms / 2s cycle. The gRPC listen address can be provided as
argument to override the configuration (e.g., :50051, 0.0.0.0:50051).`,
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

			options := &controller.Options{
				ConfigPath:        configPath,
				ListenAddress:     listenAddress,
				MetricsAddress:    metricsAddress,
				LogLevel:          logLevel,
				Watch:             watch,
				SkipInstanceCheck: multiInstance,
			}

			return controller.Run(ctx, options)
		},
	}
)

// Execute runs the traffic-light CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	err := rootCmd.Execute()

	logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	rootCmd.Flags().StringVarP(&metricsAddress, "metrics", "m", "", "serve Prometheus metrics on this address")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload dwell periods when the configuration file changes")

	// Hidden flag to run several controllers on one host for testing.
	rootCmd.Flags().BoolVar(&multiInstance, "multi-instance", false, "skip the single instance check")

	err := rootCmd.Flags().MarkHidden("multi-instance")
	if err != nil {
		panic(err)
	}
}
