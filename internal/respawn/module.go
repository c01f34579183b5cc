// Package respawn redirects death-recovery teleports inside dungeon and raid
// instances to the point where the player entered the instance.
//
// The host engine drives the module through the On* hooks. Entrances are
// tracked per character on every map change, characters that release their
// ghost inside an instance are queued, and the next teleport request for a
// queued, dead character is replaced by a teleport to the entrance plus an
// in-place resurrection. Any missing or inconsistent state lets the host's
// default teleport through.
package respawn

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/dungeonrespawn/internal/config"
	"github.com/udisondev/dungeonrespawn/internal/model"
)

// Store persists entrances between process runs.
type Store interface {
	LoadEntrances(ctx context.Context) ([]model.EntranceRow, error)
	// SaveEntrances upserts keep and deletes rows for the drop character IDs.
	SaveEntrances(ctx context.Context, keep []model.EntranceRow, drop []int64) error
}

// Module is the host-facing dungeon respawn script.
// Thread-safe: one mutex guards the tracker, the queue and the options.
type Module struct {
	mu      sync.Mutex
	tracker *Tracker
	queue   *Queue
	gate    *Gate
	opts    config.DungeonRespawn

	// observed: хост вызывал хуки игроков с момента последней загрузки.
	// Пока его нет, реестр совпадает с хранилищем и save пропускается.
	observed bool

	store    Store
	recorder Recorder
}

// NewModule creates a module with default (disabled) options.
// store may be nil: entrances then live only in memory.
// recorder may be nil.
func NewModule(store Store, recorder Recorder) *Module {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	tracker := NewTracker()
	queue := NewQueue()
	return &Module{
		tracker:  tracker,
		queue:    queue,
		gate:     NewGate(tracker, queue),
		opts:     config.DefaultDungeonRespawn(),
		store:    store,
		recorder: recorder,
	}
}

// Options returns the active options.
func (m *Module) Options() config.DungeonRespawn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

// Stats returns the number of tracked and queued characters.
func (m *Module) Stats() (tracked, queued int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker.Len(), m.queue.Len()
}

// Entrance returns the recorded entrance for a character.
func (m *Module) Entrance(characterID int64) (model.Entrance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.tracker.Lookup(characterID)
	if !ok || !rec.Entrance.IsSet() {
		return model.EmptyEntrance(), false
	}
	return rec.Entrance, true
}

// IsQueued reports whether a redirect is pending for a character.
func (m *Module) IsQueued(characterID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Contains(characterID)
}

// OnPlayerLogin starts tracking the character.
func (m *Module) OnPlayerLogin(p model.Player) {
	if p == nil {
		return
	}
	m.mu.Lock()
	m.tracker.Observe(p)
	m.observed = true
	m.publishLocked()
	m.mu.Unlock()
}

// OnPlayerLogout drops a pending redirect so it cannot leak into the next
// session. The tracker record is kept.
func (m *Module) OnPlayerLogout(p model.Player) {
	if p == nil {
		return
	}
	m.mu.Lock()
	m.queue.Remove(p.CharacterID())
	m.publishLocked()
	m.mu.Unlock()
}

// OnPlayerReleasedGhost queues the character for a redirect when it
// releases its ghost inside a dungeon or raid.
func (m *Module) OnPlayerReleasedGhost(p model.Player) {
	if p == nil {
		return
	}
	m.mu.Lock()
	if !m.opts.Enable || !p.MapKind().IsInstance() {
		m.mu.Unlock()
		return
	}
	added := m.queue.Enqueue(p.CharacterID())
	if m.opts.Debug {
		slog.Info("dungeon respawn: added to teleport queue",
			"character", p.Name(),
			"characterID", p.CharacterID(),
			"queueSize", m.queue.Len())
	}
	m.publishLocked()
	m.mu.Unlock()

	if added {
		m.recorder.Enqueued()
	}
}

// OnPlayerMapChanged updates the character's instance flag and entrance.
func (m *Module) OnPlayerMapChanged(p model.Player) {
	if p == nil {
		return
	}
	m.mu.Lock()
	rec := m.tracker.MapChanged(p)
	m.observed = true
	if m.opts.Debug && rec.InInstance {
		slog.Info("dungeon respawn: map changed inside instance",
			"character", p.Name(),
			"characterID", p.CharacterID(),
			"mapID", p.MapID(),
			"entranceMapID", rec.Entrance.MapID)
	}
	m.publishLocked()
	m.mu.Unlock()
}

// OnPlayerBeforeTeleport is called before the host teleports a player.
// Returns true to let the teleport proceed. On false the player has already
// been moved to the instance entrance and resurrected.
//
// The redirect runs after the lock is released: hosts whose TeleportTo
// re-enters this hook get an allow, since the queue entry is gone.
func (m *Module) OnPlayerBeforeTeleport(p model.Player, mapID int32, x, y, z, o float32) bool {
	m.mu.Lock()
	verdict := m.gate.Evaluate(p, mapID)
	if p != nil {
		m.observed = true
	}
	fraction := m.opts.HealthFraction()
	m.publishLocked()
	m.mu.Unlock()

	m.recorder.TeleportDecision(verdict.Reason.String(), !verdict.Allow())
	if verdict.Allow() {
		return true
	}

	m.redirect(p, verdict.Entrance, fraction)
	return false
}

func (m *Module) redirect(p model.Player, e model.Entrance, healthFraction float32) {
	if !p.TeleportTo(e.MapID, e.Location) {
		slog.Warn("dungeon respawn: host refused entrance teleport",
			"character", p.Name(),
			"characterID", p.CharacterID(),
			"mapID", e.MapID)
	}
	p.Resurrect(healthFraction)
	p.SpawnCorpseBones()
}

// OnConfigLoad applies options and loads stored entrances. On reload the
// current entrances are saved and the registry is cleared first; the queue
// survives. A store failure is logged and returned, and the module keeps
// working with whatever it has in memory.
func (m *Module) OnConfigLoad(ctx context.Context, opts config.DungeonRespawn, reload bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if reload {
		if err := m.saveLocked(ctx); err != nil {
			slog.Error("saving entrances before reload", "err", err)
		}
		m.tracker.Reset()
	}

	m.opts = opts
	m.gate.Configure(opts.Enable, opts.Debug)

	err := m.loadLocked(ctx)
	m.publishLocked()
	return err
}

// OnShutdown flushes entrances to the store.
func (m *Module) OnShutdown(ctx context.Context) error {
	return m.Save(ctx)
}

// Save upserts entrances of characters inside an instance and deletes the
// rest. Nothing is written until a player hook has run since the last load,
// so a process without host traffic leaves the stored rows untouched.
func (m *Module) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(ctx)
}

func (m *Module) loadLocked(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	rows, err := m.store.LoadEntrances(ctx)
	if err != nil {
		m.recorder.StoreError("load")
		slog.Error("loading dungeon respawn entrances", "err", err)
		return fmt.Errorf("%w: load entrances: %w", ErrStoreUnavailable, err)
	}
	m.tracker.Restore(rows)
	m.observed = false
	slog.Info("dungeon respawn entrances loaded", "rows", len(rows))
	return nil
}

func (m *Module) saveLocked(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	if !m.observed {
		slog.Debug("dungeon respawn save skipped, no player activity since load")
		return nil
	}
	records := m.tracker.Snapshot()
	keep := make([]model.EntranceRow, 0, len(records))
	var drop []int64
	for _, rec := range records {
		if rec.InInstance {
			keep = append(keep, model.EntranceRow{CharacterID: rec.CharacterID, Entrance: rec.Entrance})
		} else {
			drop = append(drop, rec.CharacterID)
		}
	}

	if err := m.store.SaveEntrances(ctx, keep, drop); err != nil {
		m.recorder.StoreError("save")
		slog.Error("saving dungeon respawn entrances", "err", err)
		return fmt.Errorf("%w: save entrances: %w", ErrStoreUnavailable, err)
	}
	slog.Debug("dungeon respawn entrances saved", "upserted", len(keep), "deleted", len(drop))
	return nil
}

func (m *Module) publishLocked() {
	m.recorder.Population(m.tracker.Len(), m.queue.Len())
}
