package respawn

import (
	"context"
	"errors"
	"sync"

	"github.com/udisondev/dungeonrespawn/internal/model"
)

// fakePlayer is an in-memory stand-in for a host player.
type fakePlayer struct {
	id   int64
	name string

	mapID int32
	kind  model.MapKind
	loc   model.Location
	dead  bool

	refuseTeleport bool
	// onTeleport runs inside TeleportTo, before the move is applied.
	onTeleport func(mapID int32, loc model.Location)

	teleports   []model.Entrance
	resurrected []float32
	bones       int
}

func newFakePlayer(id int64) *fakePlayer {
	return &fakePlayer{id: id, name: "Tester", kind: model.MapKindOther}
}

func (p *fakePlayer) CharacterID() int64       { return p.id }
func (p *fakePlayer) Name() string             { return p.name }
func (p *fakePlayer) MapID() int32             { return p.mapID }
func (p *fakePlayer) MapKind() model.MapKind   { return p.kind }
func (p *fakePlayer) Location() model.Location { return p.loc }
func (p *fakePlayer) IsDead() bool             { return p.dead }

func (p *fakePlayer) TeleportTo(mapID int32, loc model.Location) bool {
	if p.onTeleport != nil {
		p.onTeleport(mapID, loc)
	}
	if p.refuseTeleport {
		return false
	}
	p.teleports = append(p.teleports, model.Entrance{MapID: mapID, Location: loc})
	p.mapID = mapID
	p.loc = loc
	return true
}

func (p *fakePlayer) Resurrect(healthFraction float32) {
	p.resurrected = append(p.resurrected, healthFraction)
	p.dead = false
}

func (p *fakePlayer) SpawnCorpseBones() { p.bones++ }

// enter moves the player onto a map, as the host does before firing the
// map-changed hook.
func (p *fakePlayer) enter(mapID int32, kind model.MapKind, loc model.Location) {
	p.mapID = mapID
	p.kind = kind
	p.loc = loc
}

// memStore is an in-memory Store.
type memStore struct {
	mu      sync.Mutex
	rows    map[int64]model.EntranceRow
	loadErr error
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[int64]model.EntranceRow)}
}

func (s *memStore) LoadEntrances(context.Context) ([]model.EntranceRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]model.EntranceRow, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}

func (s *memStore) SaveEntrances(_ context.Context, keep []model.EntranceRow, drop []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	for _, row := range keep {
		s.rows[row.CharacterID] = row
	}
	for _, id := range drop {
		delete(s.rows, id)
	}
	return nil
}

var errStoreDown = errors.New("connection refused")

// countingRecorder records module events.
type countingRecorder struct {
	mu        sync.Mutex
	decisions map[string]int
	redirects int
	enqueued  int
	storeErrs map[string]int
	tracked   int
	queued    int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		decisions: make(map[string]int),
		storeErrs: make(map[string]int),
	}
}

func (r *countingRecorder) TeleportDecision(reason string, redirected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions[reason]++
	if redirected {
		r.redirects++
	}
}

func (r *countingRecorder) Enqueued() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enqueued++
}

func (r *countingRecorder) StoreError(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeErrs[op]++
}

func (r *countingRecorder) Population(tracked, queued int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracked = tracked
	r.queued = queued
}
