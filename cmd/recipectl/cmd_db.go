package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recipebox/recipebox-api/internal/config"
	"github.com/recipebox/recipebox-api/internal/repository"
)

// bootDB loads config, opens the database and applies the schema.
func bootDB(ctx context.Context) (config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	db, err := repository.NewDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return config.Config{}, nil, err
	}

	if err := repository.Migrate(ctx, db, cfg.DatabaseDriver); err != nil {
		db.Close()
		return config.Config{}, nil, err
	}
	return cfg, db, nil
}

// recipectl migrate
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create any missing tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", cfg.DatabaseDriver)
			return nil
		},
	}
}
