package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/httpc/packages/history"
	"github.com/abdul-hamid-achik/httpc/packages/output"
	"github.com/spf13/cobra"
)

var (
	historyLimitFlag int
	historyStatsFlag bool
	historyJSONFlag  bool
	historyClearFlag bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded transactions",
	Long: `Show the most recent get/post transactions with their status, size and duration.

Examples:
  httpc history
  httpc history -n 50 --stats
  httpc history --json > transactions.json
  httpc history --clear`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", history.DefaultLimit, "Number of transactions to show")
	historyCmd.Flags().BoolVar(&historyStatsFlag, "stats", false, "Include latency percentiles over all transactions")
	historyCmd.Flags().BoolVar(&historyJSONFlag, "json", false, "Print as JSON")
	historyCmd.Flags().BoolVar(&historyClearFlag, "clear", false, "Delete all recorded transactions")
}

var errHistoryDisabled = errors.New("history is disabled (set history in the config file or pass --history)")

func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if !cfg.HistoryEnabled() {
		return errHistoryDisabled
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	if historyClearFlag {
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	entries, err := store.Recent(ctx, historyLimitFlag)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	var stats *history.Stats
	if historyStatsFlag {
		if stats, err = store.Stats(ctx); err != nil {
			return fmt.Errorf("computing stats: %w", err)
		}
	}

	if historyJSONFlag {
		f := output.NewJSONFormatter(output.JSONWithWriter(cmd.OutOrStdout()))
		f.FormatHistory(entries)
		if stats != nil {
			f.FormatStats(stats)
		}
		return f.Flush()
	}

	f := buildFormatter(cmd, cfg)
	f.FormatHistory(entries)
	if stats != nil {
		f.FormatStats(stats)
	}
	return nil
}
