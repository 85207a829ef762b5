// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/opsdeck/opsdeck/internal/config"
	"github.com/opsdeck/opsdeck/internal/logging"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the OpsDeck CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opsdeck",
		Short: "OpsDeck - account authentication for the OpsDeck platform",
		Long: `OpsDeck manages platform accounts: registration with hashed
credentials, login with brute-force lockout, and session token issuance.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Flags mirror config keys; set flags override file and defaults.
	cmd.PersistentFlags().String("database.url", "", "PostgreSQL connection URL")
	cmd.PersistentFlags().String("log.format", "json", "log output format (json or text)")
	cmd.PersistentFlags().Int("auth.max_attempts", 3, "failed attempts before lockout")
	cmd.PersistentFlags().Duration("auth.lock_duration", 5*time.Minute, "account lockout duration")

	// Add subcommands
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewRegisterCmd())
	cmd.AddCommand(NewLoginCmd())

	return cmd
}

// loadConfig builds the effective configuration for a command invocation
// and installs the default logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	logging.SetDefault("opsdeck", version, cfg.Log.Format)
	return cfg, nil
}
