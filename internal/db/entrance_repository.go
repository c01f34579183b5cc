package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/udisondev/dungeonrespawn/internal/model"
)

const (
	pgSelectEntrances = `SELECT character_id, map, x, y, z, o FROM dungeonrespawn_playerinfo`
	pgUpsertEntrance  = `INSERT INTO dungeonrespawn_playerinfo (character_id, map, x, y, z, o)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (character_id) DO UPDATE SET
		   map = EXCLUDED.map,
		   x   = EXCLUDED.x,
		   y   = EXCLUDED.y,
		   z   = EXCLUDED.z,
		   o   = EXCLUDED.o`
	pgDeleteEntrance = `DELETE FROM dungeonrespawn_playerinfo WHERE character_id = $1`
)

// EntranceRepository stores instance entrances in PostgreSQL.
type EntranceRepository struct {
	pool *pgxpool.Pool
}

// NewEntranceRepository creates a new EntranceRepository.
func NewEntranceRepository(pool *pgxpool.Pool) *EntranceRepository {
	return &EntranceRepository{pool: pool}
}

// LoadEntrances loads every stored entrance.
func (r *EntranceRepository) LoadEntrances(ctx context.Context) ([]model.EntranceRow, error) {
	rows, err := r.pool.Query(ctx, pgSelectEntrances)
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
func (r *EntranceRepository) SaveEntrances(ctx context.Context, keep []model.EntranceRow, drop []int64) error {
	if len(keep) == 0 && len(drop) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	batch := &pgx.Batch{}
	for _, row := range keep {
		batch.Queue(pgUpsertEntrance, row.CharacterID, row.MapID, row.X, row.Y, row.Z, row.O)
	}
	for _, id := range drop {
		batch.Queue(pgDeleteEntrance, id)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck
			return fmt.Errorf("save entrance batch: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close entrance batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit entrances: %w", err)
	}
	return nil
}
