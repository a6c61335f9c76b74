package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/ticket-monitor/internal/logger"
	"github.com/pfrederiksen/ticket-monitor/internal/notifier"
	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without fetching anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			manager, err := notifier.FromConfig(cfg, logger.Nop())
			if err != nil {
				return err
			}

			platform, _ := cfg.Platform()
			channels := strings.Join(manager.Channels(), ", ")
			if channels == "" {
				channels = "none"
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Configuration OK")
			fmt.Fprintf(w, "  Platform:  %s\n", cfg.Monitor.Platform)
			fmt.Fprintf(w, "  URL:       %s\n", cfg.Monitor.URL)
			fmt.Fprintf(w, "  Match:     %s\n", cfg.Monitor.MatchIdentifier)
			fmt.Fprintf(w, "  Statuses:  %s\n", strings.Join(platform.PossibleStatuses, ", "))
			fmt.Fprintf(w, "  Notify on: %s\n", strings.Join(platform.NotifyStatuses, ", "))
			fmt.Fprintf(w, "  Channels:  %s\n", channels)
			fmt.Fprintf(w, "  History:   %s (%s)\n", cfg.History.Path, cfg.History.Driver)

			if home, away, ok := ticket.Teams(cfg.Monitor.MatchIdentifier); ok {
				fmt.Fprintf(w, "  Teams:     %s / %s\n", home, away)
			} else {
				fmt.Fprintf(w, "Warning: match identifier should look like 'Team A%sTeam B'\n", ticket.MatchSeparator)
			}
			return nil
		},
	}
}
