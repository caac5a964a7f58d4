// Package dbtest provides throwaway databases for package tests.
package dbtest

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"gamecatalog/backend/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a migrated in-memory SQLite database private to the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := database.Open(sqlite.Open(dsn), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}
