// Package object adapts game state into things the terminal canvas can draw.
package object

import (
	"github.com/tomz197/droptap/internal/draw"
)

// DrawContext carries the per-client drawing targets.
type DrawContext struct {
	Canvas *draw.Canvas      // Pixel shapes
	Writer *draw.ChunkWriter // Text overlays
}

// Drawable is anything that can draw itself for one frame.
type Drawable interface {
	Draw(ctx DrawContext)
}

// ShouldRenderBlink reports whether something blinking at frequency Hz
// while remaining > 0 is visible this frame. It is always visible once
// remaining reaches zero.
func ShouldRenderBlink(remaining, frequency float64) bool {
	if remaining <= 0 {
		return true
	}
	return int(remaining*frequency)%2 != 0
}
