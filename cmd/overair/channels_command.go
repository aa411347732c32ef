package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List channels stored in the local catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			channels, err := st.ListChannels(cmd.Context())
			if err != nil {
				return err
			}
			if len(channels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No channels stored yet. Run 'overair sync' first.")
				return nil
			}

			rows := make([][]string, 0, len(channels))
			for _, ch := range channels {
				rows = append(rows, []string{
					fmt.Sprintf("%d", ch.ID),
					ch.ChannelNumber,
					ch.StationID,
					ch.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"ID", "Channel", "Station", "Added"}, rows))
			return nil
		},
	}
}
