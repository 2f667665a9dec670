// Package draw renders the game to an ANSI terminal: a buffered chunked
// writer, terminal mode control and a half-block canvas with twice the
// vertical resolution of the terminal.
package draw

import "strconv"

// Point is a position in logical canvas coordinates.
type Point struct {
	X, Y float64
}

// Block characters.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Shades from empty to solid.
var Shades = []rune{BlockEmpty, BlockLight, BlockMedium, BlockDark, BlockFull}

// ShadeLevel returns a shade character for an intensity in [0, 1].
func ShadeLevel(intensity float64) rune {
	switch {
	case intensity <= 0:
		return Shades[0]
	case intensity >= 1:
		return Shades[len(Shades)-1]
	}
	return Shades[int(intensity*float64(len(Shades)-1))]
}

// Color is a pixel colour. The zero value is an unset pixel.
type Color uint8

const (
	None Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	Gray
)

// Reset restores the terminal's default colours.
const Reset = "\033[0m"

func (c Color) fg() int {
	switch c {
	case None:
		return 39
	case Gray:
		return 90
	}
	return 90 + int(c)
}

func (c Color) bg() int {
	return c.fg() + 10
}

// sgr returns the escape sequence selecting fg on bg.
func sgr(fg, bg Color) string {
	return "\033[" + strconv.Itoa(fg.fg()) + ";" + strconv.Itoa(bg.bg()) + "m"
}
