package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/cadence/pkg/cli"
	"mercator-hq/cadence/pkg/config"
	"mercator-hq/cadence/pkg/history"
)

var historyFlags struct {
	chain     string
	reason    string
	since     time.Duration
	limit     int
	format    string
	olderThan time.Duration
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded runs",
	Long: `Inspect and prune the runs recorded in the history store.

Runs are recorded by "cadence run" when history is enabled in the config.

Subcommands:
  list   - List recorded runs, most recent first
  prune  - Delete runs older than a maximum age`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	Long: `List recorded runs, most recent first.

Examples:
  # Last 20 runs
  cadence history list

  # Failed runs of the "poll" chain in the last day, as JSON
  cadence history list --chain poll --reason failed --since 24h --format json`,
	Args: cobra.NoArgs,
	RunE: listHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old runs",
	Long: `Delete runs older than --older-than, or history.retention.max_age from the
config when the flag is not set.

Examples:
  # Keep one week of history
  cadence history prune --older-than 168h`,
	Args: cobra.NoArgs,
	RunE: pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyFlags.chain, "chain", "", "only runs of this chain")
	historyListCmd.Flags().StringVar(&historyFlags.reason, "reason", "", "only runs with this stop reason")
	historyListCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only runs started within this duration")
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "maximum number of runs (0 for all)")
	historyListCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, yaml, csv")
	_ = historyListCmd.RegisterFlagCompletionFunc("chain", completeChainNames)

	historyPruneCmd.Flags().DurationVar(&historyFlags.olderThan, "older-than", 0, "delete runs older than this duration")
}

func openHistory() (history.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if _, err := setupLogger(cfg); err != nil {
		return nil, nil, err
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		return nil, nil, cli.NewConfigError("history", err.Error())
	}
	return store, cfg, nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(cli.OutputFormat(historyFlags.format))
	if err != nil {
		return err
	}

	store, _, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	q := history.Query{
		Chain:  historyFlags.chain,
		Reason: historyFlags.reason,
		Limit:  historyFlags.limit,
	}
	if historyFlags.since > 0 {
		q.Since = time.Now().Add(-historyFlags.since)
	}

	runs, err := store.List(cmd.Context(), q)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	return formatter.FormatTo(cmd.OutOrStdout(), runList(runs))
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	store, cfg, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	retention := cfg.History.Retention
	if historyFlags.olderThan > 0 {
		retention.MaxAge = historyFlags.olderThan
	}
	if retention.MaxAge <= 0 {
		return cli.NewConfigError("history.retention.max_age", "no maximum age configured; pass --older-than")
	}

	deleted, err := history.NewScheduler(store, retention, nil).RunOnce(cmd.Context())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d runs older than %s\n", deleted, retention.MaxAge)
	return nil
}

// runList renders runs as a table in text and CSV output.
type runList []*history.Run

// Table implements cli.Tabular.
func (l runList) Table() cli.Table {
	t := cli.Table{
		Headers: []string{"ID", "CHAIN", "SHAPE", "ITERATIONS", "REASON", "STARTED", "DURATION", "ERROR"},
	}
	for _, r := range l {
		t.Rows = append(t.Rows, []string{
			r.ID,
			r.Chain,
			r.Shape,
			strconv.Itoa(r.Iterations),
			r.Reason,
			r.StartedAt.UTC().Format(time.RFC3339),
			r.Duration.Round(time.Millisecond).String(),
			r.Error,
		})
	}
	return t
}
