package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"showsync/internal/daemonctl"
)

func newShowsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shows [query]",
		Short: "List tracked shows, optionally filtered by a search query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = strings.TrimSpace(args[0])
			}
			return ctx.withClient(func(client *daemonctl.Client) error {
				resp, err := client.Shows(cmd.Context(), query)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Shows) == 0 {
					fmt.Fprintln(out, "No shows found")
					return nil
				}
				rows := make([][]string, 0, len(resp.Shows))
				for _, show := range resp.Shows {
					next := ""
					if show.NextSeason > 0 || show.NextEpisode > 0 {
						next = fmt.Sprintf("S%02dE%02d", show.NextSeason, show.NextEpisode)
					}
					rows = append(rows, []string{
						strconv.FormatInt(show.TMDBID, 10),
						show.Title,
						formatShowStatus(show.Status),
						next,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"TMDB ID", "Title", "Status", "Next"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func formatShowStatus(status string) string {
	if status == "" {
		return "unknown"
	}
	return titleCaser.String(status)
}
