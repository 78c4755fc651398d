package world

import "math"

// CellSize is the side of one spatial grid cell in world units. The
// interest set of a point is the 3x3 block of cells around it.
const CellSize = 50

// Cell addresses one grid square. Coordinates are 64-bit so absurd
// positions index a far-away cell instead of wrapping.
type Cell struct {
	X int64
	Z int64
}

// CellOf maps a world position to its cell. Floor division puts an
// entity sitting exactly on a boundary into the higher-coordinate cell.
func CellOf(x, z float32) Cell {
	return Cell{
		X: int64(math.Floor(float64(x) / CellSize)),
		Z: int64(math.Floor(float64(z) / CellSize)),
	}
}

// SpatialGrid maps occupied cells to the entity ids inside them. It is
// owned by a single ZoneChannel and mutated only on the tick thread,
// so it carries no locks.
type SpatialGrid struct {
	cells map[Cell]map[int64]struct{}
}

func NewSpatialGrid() *SpatialGrid {
	return &SpatialGrid{cells: make(map[Cell]map[int64]struct{})}
}

// Insert places an entity in the cell covering (x, z).
func (g *SpatialGrid) Insert(entityID int64, x, z float32) {
	cell := CellOf(x, z)
	set, ok := g.cells[cell]
	if !ok {
		set = make(map[int64]struct{})
		g.cells[cell] = set
	}
	set[entityID] = struct{}{}
}

// Remove takes an entity out of the cell covering (x, z). Empty cells
// are dropped so the map tracks only occupied space.
func (g *SpatialGrid) Remove(entityID int64, x, z float32) {
	cell := CellOf(x, z)
	set, ok := g.cells[cell]
	if !ok {
		return
	}
	delete(set, entityID)
	if len(set) == 0 {
		delete(g.cells, cell)
	}
}

// Update moves an entity between cells. It is a no-op while both
// positions land in the same cell.
func (g *SpatialGrid) Update(entityID int64, oldX, oldZ, newX, newZ float32) {
	if CellOf(oldX, oldZ) == CellOf(newX, newZ) {
		return
	}
	g.Remove(entityID, oldX, oldZ)
	g.Insert(entityID, newX, newZ)
}

// Nearby appends every entity id in the 3x3 cell block around (x, z)
// to buf and returns it. Callers on the tick path pass a reused buffer.
func (g *SpatialGrid) Nearby(x, z float32, buf []int64) []int64 {
	center := CellOf(x, z)
	for dx := int64(-1); dx <= 1; dx++ {
		for dz := int64(-1); dz <= 1; dz++ {
			set, ok := g.cells[Cell{X: center.X + dx, Z: center.Z + dz}]
			if !ok {
				continue
			}
			for id := range set {
				buf = append(buf, id)
			}
		}
	}
	return buf
}

// ForNearby calls fn for every entity id in the 3x3 block around
// (x, z) until fn returns false.
func (g *SpatialGrid) ForNearby(x, z float32, fn func(entityID int64) bool) {
	center := CellOf(x, z)
	for dx := int64(-1); dx <= 1; dx++ {
		for dz := int64(-1); dz <= 1; dz++ {
			set, ok := g.cells[Cell{X: center.X + dx, Z: center.Z + dz}]
			if !ok {
				continue
			}
			for id := range set {
				if !fn(id) {
					return
				}
			}
		}
	}
}

// CellCount returns the number of occupied cells.
func (g *SpatialGrid) CellCount() int {
	return len(g.cells)
}
