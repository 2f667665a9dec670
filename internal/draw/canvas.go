package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// cell is what one terminal cell shows: a half-block glyph with the top
// pixel as foreground and the bottom pixel as background.
type cell struct {
	glyph rune
	fg    Color
	bg    Color
}

var blankCell = cell{glyph: ' '}

// Canvas is a colour pixel buffer with two pixels per terminal cell
// vertically. Drawing happens in logical coordinates scaled to the current
// terminal size. Render only emits cells that changed since the last frame.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int
	pixels         []Color // [y*termWidth + x]

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64
	scaleY        float64

	// 0-based offset of the canvas inside a larger terminal
	offsetCol int
	offsetRow int

	front       []cell // What the terminal currently shows
	frontValid  []bool
	borderDirty bool

	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewCanvas creates a canvas mapping logicalWidth x logicalHeight onto a
// termWidth x termHeight cell area.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize adapts the canvas to new terminal dimensions. A change in size
// forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 1), max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.front = make([]cell, termWidth*termHeight)
		c.frontValid = make([]bool, termWidth*termHeight)
		c.borderDirty = true
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row where the canvas starts.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.borderDirty = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Clear unsets every pixel. The terminal is not touched until Render.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render repaint every cell and the border,
// e.g. after the screen was cleared.
func (c *Canvas) ForceRedraw() {
	clear(c.frontValid)
	c.borderDirty = true
}

// MarkTextDirty records that text was written over n cells starting at a
// 1-based canvas position, so Render repaints them next frame.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+n, c.termWidth); x++ {
		c.frontValid[r*c.termWidth+x] = false
	}
}

func (c *Canvas) setPixel(x, y int, color Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = color
	}
}

func (c *Canvas) toPixel(p Point) (int, int) {
	return int(math.Round(p.X * c.scaleX)), int(math.Round(p.Y * c.scaleY))
}

// Set colours the pixel under a logical point.
func (c *Canvas) Set(p Point, color Color) {
	x, y := c.toPixel(p)
	c.setPixel(x, y, color)
}

// DrawLine draws a line between two logical points (Bresenham).
func (c *Canvas) DrawLine(p1, p2 Point, color Color) {
	x1, y1 := c.toPixel(p1)
	x2, y2 := c.toPixel(p2)

	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.setPixel(x1, y1, color)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws the outline of a polygon and optionally fills it.
func (c *Canvas) DrawPolygon(points []Point, color Color, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points, color)
	}
	for i := range points {
		c.DrawLine(points[i], points[(i+1)%len(points)], color)
	}
}

// fillPolygon scanline-fills a polygon in pixel space.
func (c *Canvas) fillPolygon(points []Point, color Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
		minY = math.Min(minY, scaled[i].Y)
		maxY = math.Max(maxY, scaled[i].Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		xs := c.intersectionBuf[:0]
		for i := range scaled {
			p1, p2 := scaled[i], scaled[(i+1)%len(scaled)]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = xs
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i])); x <= int(math.Floor(xs[i+1])); x++ {
				c.setPixel(x, y, color)
			}
		}
	}
}

// FillCircle fills a circle given in logical units.
func (c *Canvas) FillCircle(center Point, radius float64, color Color) {
	cx, cy := center.X*c.scaleX, center.Y*c.scaleY
	rx, ry := radius*c.scaleX, radius*c.scaleY
	if rx <= 0 || ry <= 0 {
		return
	}
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		dy := (float64(y) - cy) / ry
		if dy*dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		for x := int(math.Ceil(cx - half)); x <= int(math.Floor(cx+half)); x++ {
			c.setPixel(x, y, color)
		}
	}
}

// BorrowPoints returns a reusable point slice valid until the next call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}

func (c *Canvas) cellAt(col, row int) cell {
	top := c.pixels[row*2*c.termWidth+col]
	bottom := c.pixels[(row*2+1)*c.termWidth+col]
	switch {
	case top == None && bottom == None:
		return blankCell
	case top == bottom:
		return cell{glyph: BlockFull, fg: top}
	case bottom == None:
		return cell{glyph: BlockUpperHalf, fg: top}
	case top == None:
		return cell{glyph: BlockLowerHalf, fg: bottom}
	}
	return cell{glyph: BlockUpperHalf, fg: top, bg: bottom}
}

// Render writes every cell that differs from what the terminal shows.
func (c *Canvas) Render(cw *ChunkWriter) {
	written := false
	lastCol, lastRow := -1, -1
	curFg, curBg := None, None

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			i := row*c.termWidth + col
			want := c.cellAt(col, row)
			if c.frontValid[i] && c.front[i] == want {
				continue
			}
			if !written || want.fg != curFg || want.bg != curBg {
				cw.WriteString(sgr(want.fg, want.bg))
				curFg, curBg = want.fg, want.bg
			}
			if row != lastRow || col != lastCol+1 {
				cw.MoveCursor(col+1, row+1)
			}
			cw.WriteRune(want.glyph)
			lastCol, lastRow = col, row
			written = true

			c.front[i] = want
			c.frontValid[i] = true
		}
	}
	if written {
		cw.WriteString(Reset)
	}
}

// RenderBorder frames the canvas when the terminal is larger than the
// render area. It draws only after a resize, offset change or ForceRedraw.
func (c *Canvas) RenderBorder(w io.Writer) {
	if !c.borderDirty {
		return
	}
	c.borderDirty = false

	hasSides := c.offsetCol >= 1
	hasEnds := c.offsetRow >= 1
	left, right := c.offsetCol, c.offsetCol+c.termWidth+1
	top, bottom := c.offsetRow, c.offsetRow+c.termHeight+1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasEnds {
		if hasSides {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, bar)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, bar)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, left+1, bar)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, left+1, bar)
		}
	}
	if hasSides {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}
	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 { return c.logicalWidth }

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// TerminalWidth returns the render area width in cells.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the render area height in cells.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// LogicalToTerminal converts a logical point to the 1-based canvas cell
// containing it, for placing text next to drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(Point{X: x, Y: y})
	return px + 1, py/2 + 1
}

// TerminalToLogical maps a 1-based absolute terminal cell, as reported by
// the mouse, to the logical point at the centre of that cell. It reports
// false for cells outside the render area.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64, ok bool) {
	cc := col - 1 - c.offsetCol
	rr := row - 1 - c.offsetRow
	if cc < 0 || cc >= c.termWidth || rr < 0 || rr >= c.termHeight {
		return 0, 0, false
	}
	return float64(cc) / c.scaleX, (float64(rr*2) + 0.5) / c.scaleY, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
