package main

import (
	"github.com/spf13/cobra"

	"complyhub/internal/database"
	"complyhub/internal/database/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "create the database schema if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.NewPostgres(cmd.Context(), cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		return migration.EnsureMigrated(cmd.Context(), db, log, cfg.Database.Host)
	},
}
