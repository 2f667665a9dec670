// Package desktop runs the game in a window through ebiten. It shares the
// game core and shapes with the terminal client and only replaces input
// and rendering.
package desktop

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tomz197/droptap/internal/draw"
	"github.com/tomz197/droptap/internal/game"
	"github.com/tomz197/droptap/internal/object"
)

// Scale is the number of window pixels per world unit.
const Scale = 6

var palette = map[draw.Color]color.RGBA{
	draw.None:    {0xdd, 0xdd, 0xdd, 0xff},
	draw.Red:     {0xf2, 0x4b, 0x4b, 0xff},
	draw.Green:   {0x5c, 0xd6, 0x5c, 0xff},
	draw.Yellow:  {0xf5, 0xd0, 0x42, 0xff},
	draw.Blue:    {0x4b, 0x7b, 0xf2, 0xff},
	draw.Magenta: {0xd0, 0x5c, 0xf2, 0xff},
	draw.Cyan:    {0x4b, 0xd8, 0xf2, 0xff},
	draw.White:   {0xff, 0xff, 0xff, 0xff},
	draw.Gray:    {0x60, 0x60, 0x60, 0xff},
}

var background = color.RGBA{0x10, 0x12, 0x18, 0xff}

// Window adapts a Game to ebiten.Game.
type Window struct {
	game   *game.Game
	log    *log.Logger
	points []draw.Point
	white  *ebiten.Image
}

// New wraps g for ebiten.RunGame.
func New(g *game.Game, logger *log.Logger) *Window {
	return &Window{game: g, log: logger, points: make([]draw.Point, 32)}
}

// Size returns the window size in pixels for the game's world.
func (w *Window) Size() (int, int) {
	world := w.game.Config().World
	return int(world.Width * Scale), int(world.Height * Scale)
}

// Update applies one tick of input. ebiten calls it TPS times a second.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.log.Info("window closed", "score", w.game.Session().Score())
		return ebiten.Termination
	}

	start := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	switch w.game.Phase() {
	case game.PhaseNotStarted:
		if start || clicked {
			w.game.Start()
		}
	case game.PhaseRunning:
		var click *game.Vec
		if clicked {
			x, y := ebiten.CursorPosition()
			click = &game.Vec{X: float64(x) / Scale, Y: float64(y) / Scale}
		}
		w.game.Tick(time.Second/time.Duration(ebiten.TPS()), click)
	case game.PhaseOver:
		if start || inpututil.IsKeyJustPressed(ebiten.KeyR) {
			w.game.Restart()
		}
	}
	return nil
}

// Draw renders the current snapshot.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	snap := w.game.Snapshot()

	switch snap.Phase {
	case game.PhaseNotStarted:
		ebitenutil.DebugPrintAt(screen, "DROPTAP", 20, 20)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
			"Click falling objects before they vanish. You have %gs.", snap.Duration), 20, 50)
		ebitenutil.DebugPrintAt(screen, "Filled shapes score a point. Crossed shapes end the game.", 20, 66)
		ebitenutil.DebugPrintAt(screen, "Click or press SPACE to start, Q to quit.", 20, 98)
		return
	}

	for _, s := range snap.Slots {
		vector.DrawFilledRect(screen, float32(s.X*Scale)-2, float32(s.Y*Scale)-2, 4, 4, palette[draw.Gray], false)
	}
	for _, e := range snap.Entities {
		w.drawEntity(screen, e)
	}
	for _, fx := range snap.Effects {
		w.drawEffect(screen, fx)
	}

	ebitenutil.DebugPrintAt(screen, w.game.ScoreText(), 8, 8)
	width, _ := w.Size()
	barW := float32(width) / 3
	vector.StrokeRect(screen, float32(width)-barW-8, 8, barW, 10, 1, palette[draw.White], false)
	vector.DrawFilledRect(screen, float32(width)-barW-8, 8, barW*float32(w.game.TimeFraction()), 10, palette[draw.Cyan], false)

	if snap.Phase == game.PhaseOver {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("GAME OVER  Final score: %d", snap.Score), 20, 50)
		ebitenutil.DebugPrintAt(screen, "Press R to restart, Q to quit.", 20, 66)
	}
}

// Layout keeps the world at a fixed pixel size.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.Size()
}

func (w *Window) drawEntity(screen *ebiten.Image, e game.Entity) {
	if e.Lifetime < 1 && !object.ShouldRenderBlink(e.Lifetime, 8) {
		return
	}
	s := object.ShapeFor(e.Category, e.Variant)
	clr := palette[s.Color]
	cx, cy, r := float32(e.Pos.X*Scale), float32(e.Pos.Y*Scale), float32(e.Radius*Scale)

	switch {
	case len(s.Vertices) == 0 && s.Filled:
		vector.DrawFilledCircle(screen, cx, cy, r, clr, true)
	case len(s.Vertices) == 0:
		vector.StrokeCircle(screen, cx, cy, r, 2, clr, true)
	default:
		if cap(w.points) < len(s.Vertices) {
			w.points = make([]draw.Point, len(s.Vertices))
		}
		pts := s.Outline(w.points[:len(s.Vertices)], draw.Point{X: e.Pos.X, Y: e.Pos.Y}, e.Radius)
		w.drawPolygon(screen, pts, clr, s.Filled)
	}

	if s.Cross {
		d := r * 0.5 * math.Sqrt2
		vector.StrokeLine(screen, cx-d, cy-d, cx+d, cy+d, 2, clr, true)
		vector.StrokeLine(screen, cx-d, cy+d, cx+d, cy-d, 2, clr, true)
	}
}

func (w *Window) drawPolygon(screen *ebiten.Image, pts []draw.Point, clr color.RGBA, filled bool) {
	var path vector.Path
	for i, p := range pts {
		if i == 0 {
			path.MoveTo(float32(p.X*Scale), float32(p.Y*Scale))
		} else {
			path.LineTo(float32(p.X*Scale), float32(p.Y*Scale))
		}
	}
	path.Close()

	var vs []ebiten.Vertex
	var is []uint16
	if filled {
		vs, is = path.AppendVerticesAndIndicesForFilling(nil, nil)
	} else {
		vs, is = path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: 2})
	}
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(clr.R) / 0xff
		vs[i].ColorG = float32(clr.G) / 0xff
		vs[i].ColorB = float32(clr.B) / 0xff
		vs[i].ColorA = 1
	}
	screen.DrawTriangles(vs, is, w.whiteImage(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (w *Window) whiteImage() *ebiten.Image {
	if w.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		w.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return w.white
}

func (w *Window) drawEffect(screen *ebiten.Image, fx game.Effect) {
	p := fx.Progress()
	if p >= 0.75 {
		return
	}
	dist := 7 * (1 - (1-p)*(1-p)) * Scale
	for i := 0; i < 10; i++ {
		a := float64(i) * 2 * math.Pi / 10
		x := float32(fx.Pos.X*Scale + math.Cos(a)*dist)
		y := float32(fx.Pos.Y*Scale + math.Sin(a)*dist)
		vector.DrawFilledCircle(screen, x, y, 2, palette[draw.Yellow], true)
	}
}
