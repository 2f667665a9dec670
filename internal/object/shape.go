package object

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/tomz197/droptap/internal/draw"
	"github.com/tomz197/droptap/internal/game"
)

// Shape describes how a variant is drawn: a closed polygon given as radial
// multipliers of the hit radius at evenly spaced angles, or a disc when
// Vertices is empty.
type Shape struct {
	Vertices []float64
	Rotation float64 // Angle of the first vertex, radians
	Filled   bool
	Cross    bool // Overlay an X, marking objects to avoid
	Color    draw.Color
}

func regular(n int, r float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = r
	}
	return v
}

func star(points int, inner float64) []float64 {
	v := make([]float64, points*2)
	for i := range v {
		v[i] = 1
		if i%2 == 1 {
			v[i] = inner
		}
	}
	return v
}

var shapes = map[string]Shape{
	"apple": {Filled: true, Color: draw.Green},
	"star":  {Vertices: star(5, 0.45), Rotation: -math.Pi / 2, Filled: true, Color: draw.Yellow},
	"gem":   {Vertices: regular(4, 1), Rotation: -math.Pi / 2, Filled: true, Color: draw.Cyan},
	"coin":  {Vertices: regular(8, 0.9), Rotation: math.Pi / 8, Filled: true, Color: draw.Yellow},
	"bomb":  {Cross: true, Color: draw.Red},
	"skull": {Vertices: regular(6, 1), Rotation: math.Pi / 6, Cross: true, Color: draw.Magenta},
}

// ShapeFor returns the shape of a variant. Unknown variants get an
// irregular polygon seeded from the name, so the same name always looks the
// same. Good objects are filled; Bad ones are outlined and crossed.
func ShapeFor(category game.Category, variant string) Shape {
	if s, ok := shapes[variant]; ok {
		return s
	}

	h := fnv.New64a()
	h.Write([]byte(variant))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	n := 5 + rng.Intn(5)
	v := make([]float64, n)
	for i := range v {
		v[i] = 0.7 + rng.Float64()*0.3
	}
	s := Shape{Vertices: v, Rotation: rng.Float64() * 2 * math.Pi}
	if category == game.Good {
		s.Filled, s.Color = true, draw.Green
	} else {
		s.Cross, s.Color = true, draw.Red
	}
	return s
}

// Outline places the shape's vertices around center for a hit radius.
func (s Shape) Outline(points []draw.Point, center draw.Point, radius float64) []draw.Point {
	n := len(s.Vertices)
	for i, m := range s.Vertices {
		a := s.Rotation + float64(i)*2*math.Pi/float64(n)
		points[i] = draw.Point{
			X: center.X + math.Cos(a)*m*radius,
			Y: center.Y + math.Sin(a)*m*radius,
		}
	}
	return points[:n]
}
