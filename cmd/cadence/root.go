package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/cadence/pkg/cli"
	"mercator-hq/cadence/pkg/config"
	"mercator-hq/cadence/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence - composable loop-control policies",
	Long: `Cadence repeats commands under chains of loop-control policies.

A chain combines policies that decide when a loop is complete (count,
timeout) and when the next iteration may start (rate, schedule). Chains are
declared in the config file and referenced by name.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the command's status.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode reports err and returns the process exit status for it. A failed
// child command propagates its own status.
func exitCode(err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(os.Stderr, exitErr)
		}
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "cadence.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig initializes the global configuration from --config.
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	return config.GetConfig(), nil
}

// setupLogger builds the configured logger and installs it as the slog
// default. --verbose forces debug level.
func setupLogger(cfg *config.Config) (*logging.Logger, error) {
	lcfg := logging.FromConfig(cfg.Telemetry.Logging, os.Stderr)
	if verbose {
		lcfg.Level = "debug"
	}

	logger, err := logging.New(lcfg)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())
	return logger, nil
}
