package main

import (
	"gamecatalog/backend/internal/catalog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the predefined genres, engines and example games",
		Long: `Insert the predefined genres and engines that are missing. Example games
are added only when the catalog has no games. Safe to run repeatedly.`,
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	db, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	result, err := catalog.NewStore(db).Seed(cmd.Context(), logger)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "seed catalog").Wrap(err)
	}

	cmd.Printf("Seeded %d genres, %d engines, %d games\n", result.Genres, result.Engines, result.Games)
	return nil
}
