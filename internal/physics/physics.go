// Package physics provides the hit-testing geometry of the play area and a
// spatial index over it.
package physics

// Circle is a hit area or a slot probe. A zero radius is a single point.
type Circle struct {
	X, Y float64
	R    float64
}

// Contains reports whether (px, py) lies inside or on the edge of c.
func (c Circle) Contains(px, py float64) bool {
	return DistanceSquared(px, py, c.X, c.Y) <= c.R*c.R
}

// Overlaps reports whether c and o touch or overlap. Two zero-radius
// circles overlap only when they coincide.
func (c Circle) Overlaps(o Circle) bool {
	reach := c.R + o.R
	return DistanceSquared(c.X, c.Y, o.X, o.Y) <= reach*reach
}

// DistanceSquared is the squared distance between two points, used for
// ranking candidates without a sqrt.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}
