package game

// Effect is the short-lived burst shown where a Good object was clicked.
// It has no bearing on scoring.
type Effect struct {
	Pos       Vec
	Asset     string
	Clip      string // Sound played when the effect was created
	Duration  float64
	Remaining float64
}

// Advance counts the effect down and reports whether it has expired.
func (e *Effect) Advance(dt float64) (expired bool) {
	e.Remaining -= dt
	return e.Remaining <= 0
}

// Progress returns the elapsed fraction of the effect in [0, 1].
func (e Effect) Progress() float64 {
	if e.Duration <= 0 {
		return 1
	}
	p := 1 - e.Remaining/e.Duration
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
