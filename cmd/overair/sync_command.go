package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"overair/internal/listings"
	"overair/internal/sync"
	"overair/internal/tracking"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one listings synchronization cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			provider := listings.New(cfg.Provider.BaseURL,
				listings.WithTimeout(time.Duration(cfg.Provider.TimeoutSeconds)*time.Second))
			orchestrator := sync.NewOrchestrator(cfg, provider, st, tracking.NewSink(cfg), logger)

			result, err := orchestrator.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync cycle: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Synced lineup %s in %s\n", result.Lineup, result.Duration().Round(time.Millisecond))
			fmt.Fprintf(out, "  channels:  %d added, %d already known\n", result.Channels.Added, result.Channels.Duplicates)
			fmt.Fprintf(out, "  programs:  %d added, %d already known, %d skipped (no title)\n",
				result.Programs.Added, result.Programs.Duplicates, result.Programs.SkippedNoTitle)
			if cfg.Sync.PersistSchedules {
				fmt.Fprintf(out, "  schedules: %d added, %d already known, %d refreshed\n",
					result.Schedules.Added, result.Schedules.Duplicates, result.Schedules.Refreshed)
				if result.Schedules.UnknownStations > 0 || result.Schedules.UnknownPrograms > 0 {
					fmt.Fprintf(out, "  skipped:   %d unknown stations, %d unknown programs\n",
						result.Schedules.UnknownStations, result.Schedules.UnknownPrograms)
				}
			}
			return nil
		},
	}
}
