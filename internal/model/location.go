package model

// Location представляет координаты и ориентацию в мире хоста.
// Value type, передаётся по значению (immutable).
type Location struct {
	X float32
	Y float32
	Z float32
	O float32 // orientation, radians
}

// NewLocation создаёт Location с указанными координатами.
func NewLocation(x, y, z, o float32) Location {
	return Location{X: x, Y: y, Z: z, O: o}
}
