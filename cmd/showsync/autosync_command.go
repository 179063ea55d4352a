package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"showsync/internal/daemonctl"
)

func newAutoSyncCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autosync",
		Short: "Inspect or toggle periodic background syncing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *daemonctl.Client) error {
				enabled, err := client.AutoSync(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Auto sync: %s\n", onOff(enabled))
				return nil
			})
		},
	}
	cmd.AddCommand(newAutoSyncSetCommand(ctx, "on", true))
	cmd.AddCommand(newAutoSyncSetCommand(ctx, "off", false))
	return cmd
}

func newAutoSyncSetCommand(ctx *commandContext, name string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Turn periodic background syncing %s", name),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *daemonctl.Client) error {
				if err := client.SetAutoSync(cmd.Context(), enabled); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Auto sync: %s\n", onOff(enabled))
				return nil
			})
		},
	}
}
