package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gamecatalog/backend/internal/models"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a PostgreSQL connection for the given DSN.
func Connect(dsn string, log *slog.Logger) (*gorm.DB, error) {
	db, err := Open(postgres.Open(dsn), log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established.")
	return db, nil
}

// Open initializes gorm on top of any dialector and registers the custom
// game<->genre join table. Tests use it with an in-memory SQLite dialector.
func Open(dialector gorm.Dialector, log *slog.Logger) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.SetupJoinTable(&models.Game{}, "Genres", &models.GameGenre{}); err != nil {
		return nil, fmt.Errorf("setup game_genres join table: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the catalog schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.User{}, &models.Engine{}, &models.Genre{}, &models.Game{}, &models.GameGenre{})
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err came from a unique constraint.
// gorm translates most drivers into ErrDuplicatedKey; raw pgx errors are checked by SQLSTATE.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
