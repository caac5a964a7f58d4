//go:build integration

// Package catalog_test runs the catalog and credential stores against a real PostgreSQL.
package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"gamecatalog/backend/internal/database"
)

type testEnv struct {
	container *postgres.PostgresContainer
	db        *gorm.DB
}

var env *testEnv

func TestCatalogIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Integration Suite")
}

var _ = BeforeSuite(func() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("gamecatalog_test"),
		postgres.WithUsername("gamecatalog"),
		postgres.WithPassword("gamecatalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	Expect(err).NotTo(HaveOccurred())

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	Expect(err).NotTo(HaveOccurred())

	db, err := database.Connect(connStr, slog.New(slog.NewTextHandler(io.Discard, nil)))
	Expect(err).NotTo(HaveOccurred())
	Expect(database.Migrate(db)).To(Succeed())

	env = &testEnv{container: container, db: db}
})

var _ = AfterSuite(func() {
	if env == nil {
		return
	}
	if sqlDB, err := env.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = env.container.Terminate(context.Background())
})

func truncateAll() {
	err := env.db.Exec("TRUNCATE game_genres, games, genres, engines, users RESTART IDENTITY CASCADE").Error
	Expect(err).NotTo(HaveOccurred())
}
