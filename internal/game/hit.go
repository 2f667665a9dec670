package game

import (
	"github.com/tomz197/droptap/internal/physics"
)

// entityIndex keeps a spatial index over the live entity slice so slot probes
// and clicks do not scan every entity. It must be rebuilt whenever the slice
// is reordered or entities move.
type entityIndex struct {
	grid     *physics.SpatialGrid
	entities *[]*Entity
}

func newEntityIndex(width, height, cellSize float64, entities *[]*Entity) *entityIndex {
	return &entityIndex{
		grid:     physics.NewSpatialGrid(width, height, cellSize),
		entities: entities,
	}
}

func (x *entityIndex) rebuild() {
	x.grid.Clear()
	for i, e := range *x.entities {
		x.grid.Insert(e.Pos.X, e.Pos.Y, i)
	}
}

func (x *entityIndex) insert(i int) {
	e := (*x.entities)[i]
	x.grid.Insert(e.Pos.X, e.Pos.Y, i)
}

// Occupied reports whether a probe circle of the given radius centred on p
// overlaps any live entity's hit circle.
func (x *entityIndex) Occupied(p Vec, radius float64) bool {
	found := false
	x.grid.QueryAround(p.X, p.Y, func(i int) bool {
		e := (*x.entities)[i]
		probe := physics.Circle{X: p.X, Y: p.Y, R: radius}
		if probe.Overlaps(e.HitArea()) {
			found = true
		}
		return found
	})
	return found
}

// Resolve finds the entity under p. When several hit circles contain p the
// closest centre wins, and on a tie the newest entity (drawn on top) wins.
func (x *entityIndex) Resolve(p Vec) (int, bool) {
	best := -1
	bestDist := 0.0
	x.grid.QueryAround(p.X, p.Y, func(i int) bool {
		e := (*x.entities)[i]
		if !e.Contains(p) {
			return false
		}
		d := physics.DistanceSquared(p.X, p.Y, e.Pos.X, e.Pos.Y)
		if best < 0 || d < bestDist || (d == bestDist && e.ID > (*x.entities)[best].ID) {
			best = i
			bestDist = d
		}
		return false
	})
	return best, best >= 0
}
