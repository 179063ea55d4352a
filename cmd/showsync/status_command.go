package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"showsync/internal/daemonctl"
	"showsync/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var showChecks bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and library status",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			err := ctx.withClient(func(client *daemonctl.Client) error {
				status, err := client.Status(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(out, renderStatus(status))
				return nil
			})
			if err != nil {
				fmt.Fprintln(out, "Daemon: not running")
				fmt.Fprintf(out, "  (%v)\n", err)
			}

			if showChecks {
				cfg, cfgErr := ctx.ensureConfig()
				if cfgErr != nil {
					return cfgErr
				}
				checkCtx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
				defer cancel()
				fmt.Fprintln(out)
				fmt.Fprint(out, renderChecks(preflight.RunAll(checkCtx, cfg)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showChecks, "checks", false, "Run and display preflight checks")
	return cmd
}
