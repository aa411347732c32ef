package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog counts and recent recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			counts, err := st.Counts(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog: %s\n", st.Path())
			fmt.Fprint(out, renderTable(
				[]string{"Channels", "Programs", "Schedules", "Recordings"},
				[][]string{{
					fmt.Sprintf("%d", counts.Channels),
					fmt.Sprintf("%d", counts.Programs),
					fmt.Sprintf("%d", counts.Schedules),
					fmt.Sprintf("%d", counts.Recordings),
				}},
			))

			recordings, err := st.RecentRecordings(cmd.Context(), 10)
			if err != nil {
				return err
			}
			if len(recordings) == 0 {
				return nil
			}

			fmt.Fprintln(out, "\nRecent recordings:")
			rows := make([][]string, 0, len(recordings))
			for _, r := range recordings {
				rows = append(rows, []string{
					r.Title,
					time.Unix(r.StartTS, 0).Local().Format(time.DateTime),
					r.Reason,
				})
			}
			fmt.Fprint(out, renderTable([]string{"Title", "Start", "Reason"}, rows))
			return nil
		},
	}
}
