// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package cli builds the cobra commands shared by every binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/minevisit/internal/config"
)

const version = "0.1.0"

// RunFunc is the body of a command once the configuration is loaded.
type RunFunc func(ctx context.Context, cfg *config.Config) error

// NewCommand returns a command that loads .env, then the config file named
// by --config or MINEVISIT_CONFIG, and hands both to run.
func NewCommand(use, short string, run RunFunc) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ResolvePath(configPath, cmd.Flags().Changed("config"))
			if err := config.InitGlobal(path); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg := config.Get()
			if cfg == nil {
				return errors.New("configuration not loaded")
			}
			return run(cmd.Context(), cfg)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "path to the KEY=VALUE config file")

	return cmd
}

// Execute runs cmd until it returns or the process is interrupted, and
// exits with status 1 on error.
func Execute(cmd *cobra.Command) {
	if err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
