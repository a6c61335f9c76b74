package cli

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pfrederiksen/ticket-monitor/internal/logger"
	"github.com/pfrederiksen/ticket-monitor/internal/storage"
	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded status observations, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			store, err := storage.Open(cfg.History, clock.New(), logger.Nop())
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer store.Close()

			history, err := store.Load()
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if len(history) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No status history recorded yet.")
				return nil
			}

			renderHistory(cmd, history, a.limit)
			return nil
		},
	}

	cmd.Flags().IntVar(&a.limit, "limit", 0, "Only show the most recent N entries (0 shows all)")

	return cmd
}

func renderHistory(cmd *cobra.Command, history ticket.History, limit int) {
	keys := history.Keys()
	if limit > 0 && len(keys) > limit {
		keys = keys[len(keys)-limit:]
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Recorded At", "Status", "Match", "Date", "Time"})
	for _, k := range keys {
		entry := history[k]
		var d ticket.MatchDetails
		if entry.MatchDetails != nil {
			d = *entry.MatchDetails
		}
		t.AppendRow(table.Row{k, entry.Status, d.Teams, d.Date, d.Time})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	if ts, entry, ok := history.Latest(); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Last seen: %s at %s\n", entry.Status, ts)
	}
}
