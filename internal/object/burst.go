package object

import (
	"math"

	"github.com/tomz197/droptap/internal/draw"
	"github.com/tomz197/droptap/internal/game"
)

const (
	burstSparks = 10
	burstReach  = 7.0  // Logical units travelled by the end of the effect
	burstFadeAt = 0.75 // Progress after which sparks are no longer drawn
)

var burstColors = map[string]draw.Color{
	"spark": draw.Yellow,
	"ring":  draw.Cyan,
}

// Burst draws a hit effect as sparks flying outward from the click point.
type Burst struct {
	game.Effect
}

// Draw renders the sparks for the effect's current progress.
func (b Burst) Draw(ctx DrawContext) {
	p := b.Progress()
	if p >= burstFadeAt {
		return
	}
	color, ok := burstColors[b.Asset]
	if !ok {
		color = draw.White
	}

	// Ease out so sparks slow down as they spread.
	dist := burstReach * (1 - (1-p)*(1-p))
	for i := 0; i < burstSparks; i++ {
		a := float64(i) * 2 * math.Pi / burstSparks
		// Alternate sparks travel a little less far.
		r := dist
		if i%2 == 1 {
			r *= 0.7
		}
		ctx.Canvas.Set(draw.Point{X: b.Pos.X + math.Cos(a)*r, Y: b.Pos.Y + math.Sin(a)*r}, color)
	}
	if p < 0.25 {
		ctx.Canvas.Set(draw.Point{X: b.Pos.X, Y: b.Pos.Y}, draw.White)
	}
}
