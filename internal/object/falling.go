package object

import (
	"math"

	"github.com/tomz197/droptap/internal/draw"
	"github.com/tomz197/droptap/internal/game"
)

const (
	expiryBlinkStart = 1.0 // Seconds of lifetime left when blinking starts
	expiryBlinkHz    = 8.0
)

// Falling draws a falling object.
type Falling struct {
	game.Entity
}

// Draw renders the variant's shape at the entity position. Objects about to
// vanish blink.
func (f Falling) Draw(ctx DrawContext) {
	if f.Lifetime < expiryBlinkStart && !ShouldRenderBlink(f.Lifetime, expiryBlinkHz) {
		return
	}

	s := ShapeFor(f.Category, f.Variant)
	center := draw.Point{X: f.Pos.X, Y: f.Pos.Y}
	c := ctx.Canvas

	if len(s.Vertices) == 0 {
		if s.Filled {
			c.FillCircle(center, f.Radius, s.Color)
		} else {
			ring := Shape{Vertices: regular(16, 1)}
			c.DrawPolygon(ring.Outline(c.BorrowPoints(16), center, f.Radius), s.Color, false)
		}
	} else {
		points := s.Outline(c.BorrowPoints(len(s.Vertices)), center, f.Radius)
		c.DrawPolygon(points, s.Color, s.Filled)
	}

	if s.Cross {
		d := f.Radius * 0.5 * math.Sqrt2
		c.DrawLine(draw.Point{X: center.X - d, Y: center.Y - d}, draw.Point{X: center.X + d, Y: center.Y + d}, s.Color)
		c.DrawLine(draw.Point{X: center.X - d, Y: center.Y + d}, draw.Point{X: center.X + d, Y: center.Y - d}, s.Color)
	}
}
