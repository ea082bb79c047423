package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/traffic-light/internal/config"
	"github.com/oshokin/traffic-light/internal/logger"
	"github.com/oshokin/traffic-light/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for talking to a running controller.
	rootCmd = &cobra.Command{
		Use:   "traffic-light-ctl",
		Short: "Query and control a running traffic-light controller.",
		Long: `Talks to a running traffic-light controller over gRPC.

The controller address is taken from the argument of each command or from
the configuration file shared with the controller.`,
	}
)

// Execute runs the client CLI and exits with non-zero status on error.
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
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
