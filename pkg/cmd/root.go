// Package cmd implements the command-line interface for the mcpkit demo
// server.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// args holds all command-line arguments and configuration options.
type args struct {
	build      string
	version    string
	LogLevel   string
	ConfigPath string
	LogFile    string
	TextFormat bool
}

// InitCommands initializes and returns the root command for the mcpkit demo
// server. It sets up the command structure and the server subcommand's
// persistent flags; environment variables are read later, by initConfig.
// The build and version parameters are used for logging and version
// information. The returned error is always nil.
func InitCommands(build, version string) (*cobra.Command, error) {
	args := &args{
		build:   build,
		version: version,
	}

	cmd := &cobra.Command{
		Use:     "mcpkit-demo",
		Short:   "mcpkit demo server",
		Long:    "Illustrative stdio front end for a reflective MCP tool/resource/prompt registry",
		Version: fmt.Sprintf("%s (Build: %s)", version, build),
	}

	// Add server subcommand
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the mcpkit demo server",
		Long:  "Register the sample host type and serve it over the illustrative stdio wire format",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := initLogger(args); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			slog.Info("starting mcpkit demo server",
				slog.String("version", args.version),
				slog.String("build", args.build))

			cfg, err := initConfig(args)
			if err != nil {
				return fmt.Errorf("init config: %w", err)
			}

			return runStart(cmd.Context(), cfg, os.Stdin, os.Stdout)
		},
	}

	// Add persistent flags
	serverCmd.PersistentFlags().StringVar(&args.ConfigPath, "config", "", "config file path")
	serverCmd.PersistentFlags().StringVar(&args.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	serverCmd.PersistentFlags().BoolVar(&args.TextFormat, "log-text", false, "log in text format, otherwise JSON")
	serverCmd.PersistentFlags().StringVar(&args.LogFile, "log-file", "", "log file path (if not set, logs are discarded)")

	cmd.AddCommand(serverCmd)

	return cmd, nil
}
