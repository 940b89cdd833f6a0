package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodewee/doc-highlight/pkg/config"
	"github.com/nodewee/doc-highlight/pkg/history"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent annotation runs",
	Long: `List the most recent runs recorded in the history database.

History is recorded only when history_db is configured:
  doc-highlight config set history_db ~/.doc-highlight/history.db`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfigWithEnvOverrides()
		if cfg.HistoryDB == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled. Set history_db to enable it:")
			fmt.Fprintln(cmd.OutOrStdout(), "  doc-highlight config set history_db ~/.doc-highlight/history.db")
			return
		}
		path, err := utils.ExpandPath(cfg.HistoryDB)
		if err != nil {
			exitWithError(err)
		}
		store, err := history.Open(path)
		if err != nil {
			exitWithError(err)
		}
		defer store.Close()

		if err := printHistory(context.Background(), cmd.OutOrStdout(), store, historyLimit); err != nil {
			exitWithError(err)
		}
	},
}

// printHistory writes the newest entries as an aligned table
func printHistory(ctx context.Context, w io.Writer, store *history.Store, limit int) error {
	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tQUERY\tMATCHES\tSTRATEGY\tOUTPUT\tSTATUS")
	for _, e := range entries {
		status := "ok"
		if e.Error != "" {
			status = e.Error
		} else if e.FallbackUsed {
			status = "fallback"
		}
		fmt.Fprintf(tw, "%s\t%q\t%d\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Query, e.MatchCount, e.Strategy, e.Output, status)
	}
	return tw.Flush()
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}
