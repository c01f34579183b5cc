package model

// NoMap — sentinel MapID: вход в инстанс не записан.
const NoMap int32 = -1

// Entrance is the point where a character first arrived in the current
// instance run. MapID == NoMap means no entrance is recorded; every
// consumer must treat it as absent.
type Entrance struct {
	MapID int32
	Location
}

// EmptyEntrance returns an entrance with no map recorded.
func EmptyEntrance() Entrance {
	return Entrance{MapID: NoMap}
}

// IsSet reports whether the entrance holds a recorded map.
func (e Entrance) IsSet() bool {
	return e.MapID != NoMap
}

// EntranceRow is one persisted entrance, keyed by character.
type EntranceRow struct {
	CharacterID int64
	Entrance
}
