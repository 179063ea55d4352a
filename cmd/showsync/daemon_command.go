package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"showsync/internal/daemonctl"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage the background daemon",
	}
	cmd.AddCommand(newDaemonStartCommand(ctx))
	cmd.AddCommand(newDaemonStatusCommand(ctx))
	return cmd
}

func newDaemonStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Launch the daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client, err := daemonctl.NewClient(cfg.Paths.APIBind)
			if err != nil {
				return err
			}
			if client.Ping(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon already running")
				return nil
			}

			daemonPath, err := locateDaemonBinary()
			if err != nil {
				return err
			}

			var configPath string
			if ctx.configFlag != nil {
				configPath = *ctx.configFlag
			}
			if err := daemonctl.Launch(daemonPath, configPath); err != nil {
				return fmt.Errorf("launch daemon: %w", err)
			}
			if err := daemonctl.WaitForDaemon(cmd.Context(), client, 10*time.Second); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Daemon started")
			return nil
		},
	}
}

func newDaemonStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the daemon is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *daemonctl.Client) error {
				if client.Ping(cmd.Context()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Daemon: running")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Daemon: not running")
				}
				return nil
			})
		},
	}
}

// locateDaemonBinary looks for showsyncd next to the CLI binary, then on PATH.
func locateDaemonBinary() (string, error) {
	self, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(self), "showsyncd")
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	if path, lookErr := exec.LookPath("showsyncd"); lookErr == nil {
		return path, nil
	}
	return "", fmt.Errorf("showsyncd binary not found next to %q or on PATH", filepath.Dir(os.Args[0]))
}
