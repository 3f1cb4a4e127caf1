package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/zjrosen/opcalc/internal/infrastructure/sqlite"
	"github.com/zjrosen/opcalc/internal/presentation"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent calculations as JSON",
	Long: `Show recent calculations, newest first, as JSON.

Calculations are recorded only while the history-persistence flag is enabled.

Examples:
  opcalc history
  opcalc history --limit 5 | jq '.[].command'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.History.Path == "" {
			return errors.New("history.path is not configured")
		}
		limit := cfg.History.Limit
		if cmd.Flags().Changed("limit") {
			limit = historyLimit
		}

		db, err := sqlite.NewDB(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		records, err := db.HistoryRepository().Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatHistory(presentation.FromRecords(records))
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of calculations to show")
	rootCmd.AddCommand(historyCmd)
}
