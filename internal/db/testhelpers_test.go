package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// setupTestDB поднимает PostgreSQL testcontainer, прогоняет миграции через
// RunMigrations и возвращает pool. Пропускается в -short режиме (нужен Docker).
func setupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dungeonrespawn"),
		postgres.WithUsername("dungeonrespawn"),
		postgres.WithPassword("dungeonrespawn"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		tb.Fatalf("starting postgres container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("postgres connection string: %v", err)
	}
	if err := RunMigrations(ctx, dsn); err != nil {
		tb.Fatalf("RunMigrations: %v", err)
	}

	database, err := New(ctx, dsn)
	if err != nil {
		tb.Fatalf("connecting to test db: %v", err)
	}
	tb.Cleanup(database.Close)
	return database.Pool()
}

// setupSQLite открывает SQLite-файл во временной директории теста.
func setupSQLite(tb testing.TB) (*SQLiteEntranceRepository, string) {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "dungeonrespawn.db")
	repo, err := OpenSQLite(context.Background(), path)
	if err != nil {
		tb.Fatalf("OpenSQLite: %v", err)
	}
	tb.Cleanup(func() { _ = repo.Close() })
	return repo, path
}
