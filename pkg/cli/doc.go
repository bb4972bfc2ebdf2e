/*
Package cli provides command-line interface utilities for the cadence
command.

Output Formatting:

Results can be printed as text, JSON, YAML or CSV. Values implementing
Tabular render as aligned columns in text and as rows in CSV:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Progress Reporting:

Progress is a policy.Observer that renders a live iteration counter:

	progress := cli.NewProgress(os.Stderr)
	err := r.Repeat(ctx, "poll", fn) // with runner.WithObserver(progress)

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
