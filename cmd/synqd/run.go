package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/synq/internal/config"
	"go.klb.dev/synq/internal/orchestrator"
)

// newRunCmd builds "synqd run": loads synq.toml, generates and persists a
// host keypair on first run, and drives the orchestrator until SIGINT/SIGTERM.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the synq daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			if err := bindViper(cmd, v); err != nil {
				return err
			}
			setupLogging(cmd, v)

			path := v.GetString("config")
			if path == "" {
				path = v.ConfigFileUsed()
			}
			if path == "" {
				return fmt.Errorf("run: no synq.toml found; pass --config")
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if generated, err := config.EnsureIdentity(cfg); err != nil {
				return err
			} else if generated {
				if err := config.Save(path, cfg); err != nil {
					return err
				}
			}

			daemon, err := orchestrator.Build(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return daemon.Run(ctx)
		},
	}
	addConfigFlag(cmd)
	addLoggingFlags(cmd)
	return cmd
}
