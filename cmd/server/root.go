package main

import (
	"log/slog"
	"os"

	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/database"
	"gamecatalog/backend/internal/logging"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// NewRootCmd creates the root command. Without a subcommand it serves the API.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Game catalog API server",
		Long:         `Serves the game catalog API. Configuration comes from .env, the environment and flags, in increasing precedence.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	flags := cmd.PersistentFlags()
	flags.String("database-url", "", "PostgreSQL connection string")
	flags.String("jwt-secret", "", "secret used to sign access tokens")
	flags.Duration("access-token-ttl", 0, "access token lifetime (default 30m)")
	flags.Int("bcrypt-cost", 0, "bcrypt cost factor")
	flags.String("port", "", "HTTP listen port (default 8080)")
	flags.String("log-format", "", "log format: json or text")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}

// setup loads configuration and builds the process logger.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").With("operation", "load config").Wrap(err)
	}
	logger := logging.Setup("gamecatalog", version, cfg.LogFormat, cfg.LogLevel, os.Stderr)
	return cfg, logger, nil
}

// connect opens the database and brings the schema up to date.
func connect(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL is required")
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	return db, nil
}
