package game

import "github.com/tomz197/droptap/internal/physics"

// Vec is a position in world units. Y grows downwards.
type Vec struct {
	X, Y float64
}

// Category says whether clicking an object helps or ends the game.
type Category int

const (
	Good Category = iota
	Bad
)

// String returns the category name.
func (c Category) String() string {
	if c == Bad {
		return "Bad"
	}
	return "Good"
}

// Entity is a falling object. It is a plain record: the Game advances,
// hit-tests and removes entities uniformly.
type Entity struct {
	ID        uint64
	Pos       Vec
	Slot      int // Index of the slot it spawned from
	Category  Category
	Variant   string
	FallSpeed float64 // Units per second
	Lifetime  float64 // Seconds until it vanishes unclicked
	Radius    float64 // Hit circle
}

// Advance moves the entity down at constant speed and counts down its
// lifetime. It reports whether the entity has expired.
func (e *Entity) Advance(dt float64) (expired bool) {
	e.Pos.Y += e.FallSpeed * dt
	e.Lifetime -= dt
	return e.Lifetime <= 0
}

// Contains reports whether p lies inside the entity's hit circle.
func (e *Entity) Contains(p Vec) bool {
	return e.HitArea().Contains(p.X, p.Y)
}

// HitArea is the entity's clickable circle.
func (e *Entity) HitArea() physics.Circle {
	return physics.Circle{X: e.Pos.X, Y: e.Pos.Y, R: e.Radius}
}
