package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/cadence/pkg/cli"
	"mercator-hq/cadence/pkg/policy"
	"mercator-hq/cadence/pkg/runner"
	"mercator-hq/cadence/pkg/telemetry/tracing"
)

var runFlags struct {
	chain         string
	lines         bool
	untilSuccess  bool
	progress      bool
	metricsListen string
}

var runCmd = &cobra.Command{
	Use:   "run --chain NAME -- COMMAND [ARGS...]",
	Short: "Run a command under a policy chain",
	Long: `Run a command repeatedly under the named policy chain.

By default the command is repeated until the chain completes, and the first
failing invocation stops the loop with the command's exit status. With
--until-success failures are retried and the first success stops the loop.

With --lines the command runs once per line read from stdin, the line
appended as the last argument, until stdin ends or the chain completes.

Examples:
  # Poll a health endpoint under the "poll" chain
  cadence run --chain poll --until-success -- curl -fsS http://localhost:8080/health

  # Compress files at the pace of the "batch" chain
  ls *.log | cadence run --chain batch --lines -- gzip

  # Expose loop metrics while running
  cadence run --chain poll --metrics-listen 127.0.0.1:9090 -- ./check.sh`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChain,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.chain, "chain", "", "policy chain to run under (required)")
	runCmd.Flags().BoolVar(&runFlags.lines, "lines", false, "run the command once per stdin line")
	runCmd.Flags().BoolVar(&runFlags.untilSuccess, "until-success", false, "retry failures and stop at the first success")
	runCmd.Flags().BoolVar(&runFlags.progress, "progress", false, "show a live iteration counter on stderr")
	runCmd.Flags().StringVar(&runFlags.metricsListen, "metrics-listen", "", "override metrics listen address")
	_ = runCmd.MarkFlagRequired("chain")
	_ = runCmd.RegisterFlagCompletionFunc("chain", completeChainNames)
}

func runChain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runFlags.metricsListen != "" {
		cfg.Telemetry.Metrics.Enabled = true
		cfg.Telemetry.Metrics.ListenAddress = runFlags.metricsListen
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	opts := []runner.Option{
		runner.WithLogger(logger.Slog()),
		runner.WithTracingOptions(tracing.WithServiceVersion(Version), tracing.WithGlobal()),
	}
	if runFlags.progress {
		opts = append(opts, runner.WithObserver(cli.NewProgress(cmd.ErrOrStderr())))
	}

	r, err := runner.New(ctx, cfg, opts...)
	if err != nil {
		return cli.NewConfigError("chains", err.Error())
	}
	defer r.Close(context.Background())

	if !r.HasChain(runFlags.chain) {
		return cli.NewConfigError("chains", fmt.Sprintf("unknown chain %q (configured: %s)",
			runFlags.chain, strings.Join(r.Chains(), ", ")))
	}

	if c := r.Metrics(); c != nil && cfg.Telemetry.Metrics.ListenAddress != "" {
		go func() {
			if err := c.Serve(ctx, cfg.Telemetry.Metrics.ListenAddress, logger.Slog()); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	action := &commandAction{
		ctx:          ctx,
		argv:         args,
		stdin:        cmd.InOrStdin(),
		stdout:       cmd.OutOrStdout(),
		stderr:       cmd.ErrOrStderr(),
		untilSuccess: runFlags.untilSuccess,
	}

	if runFlags.lines {
		action.stdin = nil
		items, scanErr := scanLines(cmd.InOrStdin())
		err = r.ForEach(ctx, runFlags.chain, items, func(line string) error {
			return action.run(line)
		})
		if err == nil {
			err = scanErr()
		}
	} else {
		err = r.Repeat(ctx, runFlags.chain, func() error {
			return action.run()
		})
	}

	return runError(err)
}

// commandAction runs one invocation of the user's command per iteration.
type commandAction struct {
	ctx          context.Context
	argv         []string
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	untilSuccess bool
}

// run executes the command with extra appended to its arguments. With
// untilSuccess, a zero exit ends the loop and a non-zero exit continues it.
func (a *commandAction) run(extra ...string) error {
	argv := append(append([]string(nil), a.argv[1:]...), extra...)
	c := exec.CommandContext(a.ctx, a.argv[0], argv...)
	c.Stdin = a.stdin
	c.Stdout = a.stdout
	c.Stderr = a.stderr

	err := c.Run()
	if ctxErr := a.ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var exitErr *exec.ExitError
	switch {
	case a.untilSuccess && err == nil:
		return policy.ErrStop
	case a.untilSuccess && errors.As(err, &exitErr):
		return nil
	case errors.As(err, &exitErr):
		return cli.NewExitError(exitErr.ExitCode(), fmt.Errorf("%s: %w", a.argv[0], err))
	}
	return err
}

// scanLines returns the lines of r as a sequence, and a function reporting
// any read error once the sequence is drained.
func scanLines(r io.Reader) (iter.Seq[string], func() error) {
	scanner := bufio.NewScanner(r)
	seq := func(yield func(string) bool) {
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}
	return seq, scanner.Err
}

// runError maps loop errors to command errors. Cancellation by signal is a
// clean exit.
func runError(err error) error {
	var exitErr *cli.ExitError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	case errors.As(err, &exitErr):
		return err
	default:
		return cli.NewCommandError("run", err)
	}
}
