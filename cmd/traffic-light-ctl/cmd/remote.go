package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/traffic-light/internal/service/remote"
)

var (
	// jsonOutput prints the raw status message as JSON.
	jsonOutput bool
	// pollInterval is the pause between status queries of watch.
	pollInterval time.Duration

	// statusCmd prints the status of a running controller.
	statusCmd = &cobra.Command{
		Use:   "status [server-address]",
		Short: "Print the status of a running controller.",
		Long: `Queries a running controller over gRPC and prints the current light,
lamp levels, entry time, transition count and dwell periods.

Server address can be provided as argument or loaded from configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return remote.Status(cmd.Context(), remoteOptions(cmd, args))
		},
	}

	// switchCmd toggles maintenance mode on a running controller.
	switchCmd = &cobra.Command{
		Use:   "switch [server-address]",
		Short: "Toggle maintenance mode on a running controller.",
		Long: `Presses and releases the mode button of a running controller.

In normal operation the light enters maintenance mode with all lamps lit;
in maintenance mode it returns to red and restarts the cycle. The printed
status is the one the controller had when the request was queued. Hostname
and username are sent along for the controller's audit log.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return remote.Switch(cmd.Context(), remoteOptions(cmd, args))
		},
	}

	// watchCmd follows the status of a running controller.
	watchCmd = &cobra.Command{
		Use:   "watch [server-address]",
		Short: "Print the status of a running controller on every change.",
		Long: `Polls a running controller over gRPC and prints its status whenever the
light changes. Failed queries are logged and retried until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := remoteOptions(cmd, args)
			options.PollInterval = pollInterval

			return remote.Watch(ctx, options)
		},
	}
)

// remoteOptions builds the remote command options from flags and arguments.
func remoteOptions(cmd *cobra.Command, args []string) *remote.Options {
	// Use server address argument if provided, otherwise rely on config.
	var serverAddress string
	if len(args) > 0 {
		serverAddress = args[0]
	}

	return &remote.Options{
		ConfigPath:    configPath,
		ServerAddress: serverAddress,
		JSON:          jsonOutput,
		Out:           cmd.OutOrStdout(),
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	for _, command := range []*cobra.Command{statusCmd, switchCmd, watchCmd} {
		command.Flags().BoolVarP(&jsonOutput, "json", "j", false, "print the status as JSON")
		rootCmd.AddCommand(command)
	}

	watchCmd.Flags().
		DurationVarP(&pollInterval, "interval", "i", remote.DefaultPollInterval, "pause between status queries")
}
