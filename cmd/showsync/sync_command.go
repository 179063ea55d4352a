package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"showsync/internal/api"
	"showsync/internal/daemonctl"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Trigger synchronization runs",
	}
	cmd.AddCommand(newSyncNowCommand(ctx))
	cmd.AddCommand(newSyncShowCommand(ctx))
	return cmd
}

func newSyncNowCommand(ctx *commandContext) *cobra.Command {
	var full bool
	var notify bool

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Request an immediate sync run",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := "delta"
			if full {
				scope = "full"
			}
			return ctx.withClient(func(client *daemonctl.Client) error {
				resp, err := client.SyncNow(cmd.Context(), scope, 0, notify)
				if err != nil {
					return err
				}
				printSyncResponse(cmd, resp)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Refresh every tracked show instead of stale ones only")
	cmd.Flags().BoolVar(&notify, "notify", false, "Push scheduled/canceled notices for this request")
	return cmd
}

func newSyncShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tmdb-id>",
		Short: "Sync a single show if its data is stale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || showID <= 0 {
				return fmt.Errorf("invalid show id %q", args[0])
			}
			return ctx.withClient(func(client *daemonctl.Client) error {
				resp, err := client.SyncShowIfStale(cmd.Context(), showID)
				if err != nil {
					return err
				}
				printSyncResponse(cmd, resp)
				return nil
			})
		},
	}
}

func printSyncResponse(cmd *cobra.Command, resp *api.SyncResponse) {
	out := cmd.OutOrStdout()
	switch {
	case resp.Enqueued:
		fmt.Fprintln(out, "Sync requested")
	case resp.Message != "":
		fmt.Fprintln(out, resp.Message)
	default:
		fmt.Fprintln(out, "Sync not needed")
	}
}
