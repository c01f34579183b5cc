package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/udisondev/dungeonrespawn/internal/model"
	_ "modernc.org/sqlite"
)

const (
	sqliteSelectEntrances = `SELECT character_id, map, x, y, z, o FROM dungeonrespawn_playerinfo`
	sqliteUpsertEntrance  = `INSERT INTO dungeonrespawn_playerinfo (character_id, map, x, y, z, o)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (character_id) DO UPDATE SET
		   map = excluded.map,
		   x   = excluded.x,
		   y   = excluded.y,
		   z   = excluded.z,
		   o   = excluded.o`
	sqliteDeleteEntrance = `DELETE FROM dungeonrespawn_playerinfo WHERE character_id = ?`
)

// SQLiteEntranceRepository stores instance entrances in a local SQLite file.
type SQLiteEntranceRepository struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteEntranceRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating sqlite dir: %w", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite допускает одного writer'а.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(ctx, sqlDB, "sqlite3"); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLiteEntranceRepository{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (r *SQLiteEntranceRepository) Close() error {
	return r.sqlDB.Close()
}

// LoadEntrances loads every stored entrance.
func (r *SQLiteEntranceRepository) LoadEntrances(ctx context.Context) ([]model.EntranceRow, error) {
	rows, err := r.sqlDB.QueryContext(ctx, sqliteSelectEntrances)
	if err != nil {
		return nil, fmt.Errorf("query dungeonrespawn_playerinfo: %w", err)
	}
	defer rows.Close()

	var result []model.EntranceRow
	for rows.Next() {
		var row model.EntranceRow
		if err := rows.Scan(&row.CharacterID, &row.MapID, &row.X, &row.Y, &row.Z, &row.O); err != nil {
			return nil, fmt.Errorf("scan dungeonrespawn_playerinfo: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// SaveEntrances upserts keep and deletes drop in a single transaction.
func (r *SQLiteEntranceRepository) SaveEntrances(ctx context.Context, keep []model.EntranceRow, drop []int64) error {
	if len(keep) == 0 && len(drop) == 0 {
		return nil
	}

	tx, err := r.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, row := range keep {
		if _, err := tx.ExecContext(ctx, sqliteUpsertEntrance,
			row.CharacterID, int64(row.MapID),
			float64(row.X), float64(row.Y), float64(row.Z), float64(row.O)); err != nil {
			return fmt.Errorf("upsert entrance character %d: %w", row.CharacterID, err)
		}
	}
	for _, id := range drop {
		if _, err := tx.ExecContext(ctx, sqliteDeleteEntrance, id); err != nil {
			return fmt.Errorf("delete entrance character %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entrances: %w", err)
	}
	return nil
}
