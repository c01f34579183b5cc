package respawn

import (
	"github.com/udisondev/dungeonrespawn/internal/model"
)

// Record is the per-character respawn bookkeeping.
type Record struct {
	CharacterID int64
	Entrance    model.Entrance

	// TransitioningMap is set when a teleport to another map was requested;
	// the next map change records a fresh entrance.
	TransitioningMap bool
	// InInstance mirrors the classification seen on the last map change.
	InInstance bool
}

// Tracker keeps instance entrances keyed by character ID.
// Not safe for concurrent use: Module serializes all access.
type Tracker struct {
	records map[int64]*Record
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		records: make(map[int64]*Record, 64),
	}
}

// Observe returns the record for the player's character, creating an empty
// one on first sight.
func (t *Tracker) Observe(p model.Player) *Record {
	return t.observeID(p.CharacterID())
}

func (t *Tracker) observeID(characterID int64) *Record {
	if rec, ok := t.records[characterID]; ok {
		return rec
	}
	rec := &Record{
		CharacterID: characterID,
		Entrance:    model.EmptyEntrance(),
	}
	t.records[characterID] = rec
	return rec
}

// Lookup returns the record without creating one.
func (t *Tracker) Lookup(characterID int64) (*Record, bool) {
	rec, ok := t.records[characterID]
	return rec, ok
}

// MapChanged refreshes the instance flag and records the entrance on first
// entry or after a map switch. Repeated calls on the same map keep the
// original entrance.
func (t *Tracker) MapChanged(p model.Player) *Record {
	rec := t.Observe(p)

	rec.InInstance = p.MapKind().IsInstance()
	if !rec.InInstance {
		return rec
	}

	mapID := p.MapID()
	if rec.TransitioningMap || !rec.Entrance.IsSet() || rec.Entrance.MapID != mapID {
		rec.Entrance = model.Entrance{
			MapID:    mapID,
			Location: p.Location(),
		}
		rec.TransitioningMap = false
	}
	return rec
}

// TeleportRequested marks the character as transitioning when the
// destination lies on a different map.
func (t *Tracker) TeleportRequested(p model.Player, destMapID int32) {
	if p.MapID() == destMapID {
		return
	}
	t.Observe(p).TransitioningMap = true
}

// Len returns the number of tracked characters.
func (t *Tracker) Len() int {
	return len(t.records)
}

// Snapshot returns copies of all records.
func (t *Tracker) Snapshot() []Record {
	out := make([]Record, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, *rec)
	}
	return out
}

// Restore installs loaded entrances. Restored records start with both
// flags cleared, same as a fresh login.
func (t *Tracker) Restore(rows []model.EntranceRow) {
	for _, row := range rows {
		rec := t.observeID(row.CharacterID)
		rec.Entrance = row.Entrance
		rec.TransitioningMap = false
		rec.InInstance = false
	}
}

// Reset drops every record.
func (t *Tracker) Reset() {
	clear(t.records)
}
