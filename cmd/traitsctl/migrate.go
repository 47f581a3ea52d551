package main

import (
	"github.com/spf13/cobra"

	"github.com/traits-rail/traits-core/internal/config"
	"github.com/traits-rail/traits-core/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema and role grants against the admin connection",
	RunE:  migrate,
}

func migrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.NewAdminConnection(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	logger.Info("schema and roles applied")
	return nil
}
