package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"overair/internal/listings"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Fetch a few upcoming airings from the provider and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			client := listings.New(cfg.Provider.BaseURL,
				listings.WithTimeout(time.Duration(cfg.Provider.TimeoutSeconds)*time.Second))

			if _, err := client.Authenticate(runCtx, cfg.Provider.Username, cfg.Provider.Password); err != nil {
				return fmt.Errorf("authenticate: %w", err)
			}
			lineups, err := client.Status(runCtx)
			if err != nil {
				return fmt.Errorf("fetch status: %w", err)
			}
			lineup := lineups[0].Lineup
			if cfg.Provider.Lineup != "" {
				lineup = cfg.Provider.Lineup
			}
			mappings, err := client.LineupChannels(runCtx, lineup)
			if err != nil {
				return fmt.Errorf("fetch lineup channels: %w", err)
			}

			stations := make([]string, 0, len(mappings))
			seen := make(map[string]struct{}, len(mappings))
			for _, m := range mappings {
				if _, ok := seen[m.StationID]; ok {
					continue
				}
				seen[m.StationID] = struct{}{}
				stations = append(stations, m.StationID)
			}

			dates := make([]string, 0, cfg.Sync.Days)
			now := time.Now().UTC()
			for i := 0; i < cfg.Sync.Days; i++ {
				dates = append(dates, now.AddDate(0, 0, i).Format("2006-01-02"))
			}
			schedules, err := client.Schedules(runCtx, stations, dates)
			if err != nil {
				return fmt.Errorf("fetch schedules: %w", err)
			}

			type previewAiring struct {
				StationID   string `json:"stationID"`
				ProgramID   string `json:"programID"`
				AirDateTime string `json:"airDateTime"`
				Duration    int    `json:"duration"`
			}
			preview := make([]previewAiring, 0, limit)
		outer:
			for _, sched := range schedules {
				for _, airing := range sched.Airings {
					preview = append(preview, previewAiring{
						StationID:   sched.StationID,
						ProgramID:   airing.ProgramID,
						AirDateTime: airing.AirDateTime,
						Duration:    airing.Duration,
					})
					if len(preview) >= limit {
						break outer
					}
				}
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(preview)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 3, "Number of airings to print")
	return cmd
}
