package world

import (
	"math"

	"github.com/flyagain/server/internal/wire"
)

// World bounds and speed rules. The ground limit keeps walkers out of
// the air; flying lifts it to the world ceiling.
const (
	WorldMinXZ float32 = -100
	WorldMaxXZ float32 = 10100
	WorldMinY  float32 = -10
	WorldMaxY  float32 = 500
	MaxGroundY float32 = 1.0

	baseWalkSpeed float32 = 5
	baseFlySpeed  float32 = 8
	dexSpeedBonus float32 = 0.05

	// speedTolerance absorbs float drift in the travelled-distance
	// check; displacements at or under minCheckedDistance skip the
	// check entirely so standing players do not flap.
	speedTolerance     = 1.5
	minCheckedDistance = 0.1

	// renormTolerance is the slack before an input direction longer
	// than a unit vector is scaled back down.
	renormTolerance = 1e-3
)

// PositionCorrection reasons, machine readable for the client.
const (
	ReasonNonFinite   = "non_finite"
	ReasonOutOfBounds = "out_of_bounds"
	ReasonNoFlight    = "no_flight"
	ReasonTooFast     = "too_fast"
)

func finite(f float32) bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// setMovementInput validates a movement intent and stores it on the
// entity. Inputs with non-finite components are discarded entirely.
// Directions longer than a unit vector are renormalized so clients
// cannot amplify speed through the direction magnitude.
func setMovementInput(p *PlayerEntity, in *wire.MovementInput) bool {
	if !finite(in.DX) || !finite(in.DY) || !finite(in.DZ) || !finite(in.Rotation) {
		return false
	}
	dx, dy, dz := in.DX, in.DY, in.DZ
	length := math.Sqrt(float64(dx)*float64(dx) + float64(dy)*float64(dy) + float64(dz)*float64(dz))
	if length > 1+renormTolerance {
		inv := float32(1 / length)
		dx *= inv
		dy *= inv
		dz *= inv
	}
	if in.Flying != p.Input.Flying {
		p.Dirty = true
	}
	p.Input = InputState{
		DX:       dx,
		DY:       dy,
		DZ:       dz,
		Rotation: in.Rotation,
		Moving:   in.Moving,
		Flying:   in.Flying,
	}
	p.Rotation = in.Rotation
	return true
}

// moveSpeed is the player's current speed in units per second.
func moveSpeed(p *PlayerEntity) float32 {
	base := baseWalkSpeed
	if p.Input.Flying {
		base = baseFlySpeed
	}
	return base + float32(p.Dexterity)*dexSpeedBonus
}

// applyMovement advances one moving player by dt seconds and commits
// the result. On a validation failure it leaves the position untouched
// and returns the correction reason.
func applyMovement(p *PlayerEntity, dt float32, grid *SpatialGrid) (reason string, ok bool) {
	speed := moveSpeed(p)
	step := speed * dt
	cx := p.Pos.X + p.Input.DX*step
	cy := p.Pos.Y + p.Input.DY*step
	cz := p.Pos.Z + p.Input.DZ*step

	switch {
	case !finite(cx) || !finite(cy) || !finite(cz):
		return ReasonNonFinite, false
	case cx < WorldMinXZ || cx > WorldMaxXZ || cz < WorldMinXZ || cz > WorldMaxXZ,
		cy < WorldMinY || cy > WorldMaxY:
		return ReasonOutOfBounds, false
	case !p.Input.Flying && cy > MaxGroundY:
		return ReasonNoFlight, false
	}

	ddx := float64(cx - p.Pos.X)
	ddy := float64(cy - p.Pos.Y)
	ddz := float64(cz - p.Pos.Z)
	dist := math.Sqrt(ddx*ddx + ddy*ddy + ddz*ddz)
	if dist > minCheckedDistance && dist > float64(speed)*float64(dt)*speedTolerance {
		return ReasonTooFast, false
	}

	grid.Update(p.EntityID, p.Pos.X, p.Pos.Z, cx, cz)
	p.Pos.X = cx
	p.Pos.Y = cy
	p.Pos.Z = cz
	p.Dirty = true
	return "", true
}
