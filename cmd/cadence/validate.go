package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mercator-hq/cadence/pkg/cli"
	"mercator-hq/cadence/pkg/config"
	"mercator-hq/cadence/pkg/policies"
)

var validateFlags struct {
	watch bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the configuration file and every policy chain it declares.

Structural errors (unknown enums, negative durations, duplicate chain names)
are reported together. Each chain is then built to catch policy errors such
as unknown policy types or invalid cron schedules.

With --watch the file is re-validated on every change until interrupted.

Examples:
  # Validate the default config
  cadence validate

  # Validate a specific file and keep watching it
  cadence validate --config /etc/cadence/cadence.yaml --watch`,
	Args: cobra.NoArgs,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.watch, "watch", false, "re-validate on every file change")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err == nil {
		err = checkChains(cfg)
	}
	if err != nil {
		reportInvalid(out, err)
		if !validateFlags.watch {
			return cli.NewConfigError("", "configuration is invalid")
		}
		cfg = config.NewDefaultConfig()
	} else {
		reportValid(out, cfg)
	}

	if !validateFlags.watch {
		return nil
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	watcher, err := config.NewWatcher(cfgFile, 0, logger.Slog().With("component", "config.watcher"))
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", cfgFile)

	err = watcher.Watch(ctx, func(cfg *config.Config) {
		if err := checkChains(cfg); err != nil {
			reportInvalid(out, err)
			return
		}
		config.SetConfig(cfg)
		if err := logger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
			logger.Warn("failed to apply log level", "error", err)
		}
		reportValid(out, cfg)
	})
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	return nil
}

// checkChains builds every chain with the default policy registry.
func checkChains(cfg *config.Config) error {
	registry := policies.DefaultRegistry()

	var errs []error
	for _, ch := range cfg.Chains {
		if _, err := registry.BuildChain(ch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func reportValid(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "✓ Configuration valid (%d chains)\n", len(cfg.Chains))
	for _, ch := range cfg.Chains {
		fmt.Fprintf(w, "  - %s (gate %s, %d policies)\n", ch.Name, ch.Gate, len(ch.Policies))
	}
	for _, warn := range config.Warnings(cfg) {
		fmt.Fprintf(w, "⚠ %s\n", warn.Error())
	}
}

func reportInvalid(w io.Writer, err error) {
	fmt.Fprintf(w, "✗ Configuration invalid\n%v\n", err)
}
