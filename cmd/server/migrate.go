package main

import (
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Create or update the catalog tables in the PostgreSQL database.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	cmd.Println("Running migrations...")
	db, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
