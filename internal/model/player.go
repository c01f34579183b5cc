package model

// Player is the capability surface the host exposes for a connected
// character. Implementations are owned by the host engine; the respawn
// module only reads state and calls the teleport/resurrect primitives.
type Player interface {
	// CharacterID возвращает стабильный ID персонажа (persisted key).
	CharacterID() int64
	Name() string

	MapID() int32
	MapKind() MapKind
	Location() Location
	IsDead() bool

	// TeleportTo moves the player; returns false if the host refused.
	TeleportTo(mapID int32, loc Location) bool
	// Resurrect restores the player with fraction (0..1] of max health.
	Resurrect(healthFraction float32)
	// SpawnCorpseBones leaves the corpse marker at the player's position.
	SpawnCorpseBones()
}
