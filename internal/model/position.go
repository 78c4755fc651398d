package model

import "math"

// Position is a point in world space. Value type, passed by value.
type Position struct {
	X float32
	Y float32
	Z float32
}

// TownSpawn is where new characters start and dead ones respawn.
var TownSpawn = Position{X: 500, Y: 0, Z: 500}

// DistanceTo returns the true 3D distance to other.
func (p Position) DistanceTo(other Position) float64 {
	return math.Sqrt(p.DistanceSquared(other))
}

// DistanceSquared avoids the sqrt when only comparisons are needed.
func (p Position) DistanceSquared(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	dz := float64(p.Z - other.Z)
	return dx*dx + dy*dy + dz*dz
}

// Finite reports whether all components are finite numbers.
func (p Position) Finite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

func finite(f float32) bool {
	f64 := float64(f)
	return !math.IsNaN(f64) && !math.IsInf(f64, 0)
}
