// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/opsdeck/opsdeck/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Run all pending database migrations against the PostgreSQL database.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	databaseURL := databaseURLFrom(cfg.Database.URL)
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set database.url or DATABASE_URL)")
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }() //nolint:errcheck // Best effort cleanup

	cmd.Println("Running migrations...")
	if err := migrator.Up(); err != nil {
		return err
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	if dirty {
		return oops.Code("MIGRATION_DIRTY").
			With("version", version).
			Errorf("database is in a dirty migration state")
	}

	cmd.Printf("Migrations completed successfully (version %d)\n", version)
	return nil
}

// databaseURLFrom prefers the configured URL and falls back to the
// DATABASE_URL environment variable.
func databaseURLFrom(configured string) string {
	if configured != "" {
		return configured
	}
	return os.Getenv("DATABASE_URL")
}
