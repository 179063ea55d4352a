package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"showsync/internal/daemonctl"
)

func newUpcomingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming",
		Short: "List episodes airing soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *daemonctl.Client) error {
				resp, err := client.Upcoming(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Episodes) == 0 {
					fmt.Fprintln(out, "Nothing airing in the configured window")
					return nil
				}
				rows := make([][]string, 0, len(resp.Episodes))
				for _, episode := range resp.Episodes {
					rows = append(rows, []string{
						episode.AirDate,
						episode.ShowTitle,
						fmt.Sprintf("S%02dE%02d", episode.Season, episode.Episode),
						episode.Title,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Air date", "Show", "Episode", "Title"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}
