package model

// MapKind is the host's classification of the map a player is on.
type MapKind int32

const (
	MapKindOther MapKind = iota // World, battleground, arena
	MapKindDungeon
	MapKindRaid
)

// String returns a human-readable kind name.
func (k MapKind) String() string {
	switch k {
	case MapKindOther:
		return "OTHER"
	case MapKindDungeon:
		return "DUNGEON"
	case MapKindRaid:
		return "RAID"
	default:
		return "UNKNOWN"
	}
}

// IsInstance reports whether the kind is a dungeon or raid instance.
func (k MapKind) IsInstance() bool {
	return k == MapKindDungeon || k == MapKindRaid
}
