package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/dungeonrespawn/internal/config"
	"github.com/udisondev/dungeonrespawn/internal/db"
	"github.com/udisondev/dungeonrespawn/internal/respawn"
)

// OpenStore opens the entrance store selected by cfg.Storage and applies
// migrations. The returned close func is never nil.
func OpenStore(ctx context.Context, cfg config.Config) (respawn.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		repo, err := db.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, func() {}, fmt.Errorf("opening sqlite store %s: %w", cfg.Storage.SQLitePath, err)
		}
		slog.Info("entrance store opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.SQLitePath)
		return repo, func() { _ = repo.Close() }, nil

	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		database, err := db.New(ctx, dsn)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connecting to database: %w", err)
		}
		if err := db.RunMigrations(ctx, dsn); err != nil {
			database.Close()
			return nil, func() {}, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("entrance store opened", "driver", cfg.Storage.Driver, "host", cfg.Database.Host)
		return db.NewEntranceRepository(database.Pool()), database.Close, nil

	default:
		return nil, func() {}, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Storage.Driver)
	}
}
