package main

import (
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			down, _ := cmd.Flags().GetInt("down")
			if down < 0 {
				return errors.New("--down must be positive")
			}

			cfg, logger := bootstrap()
			db, err := postgres.InitDB(cfg.CheckoutDB)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			}()

			if down > 0 {
				return migrate.RollbackMigrations(db, cfg.Migrations.Path, down, logger)
			}
			return migrate.RunMigrations(db, cfg.Migrations.Path, logger)
		},
	}
	cmd.Flags().Int("down", 0, "Roll back this many migrations instead of applying")
	return cmd
}
