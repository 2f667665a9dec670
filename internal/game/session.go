// Package game implements the falling-object reaction game: session state,
// spawning, fall motion, hit resolution and the per-tick driver. It has no
// knowledge of terminals or windows; hosts call Tick once per frame and read
// Snapshot to draw.
package game

import "github.com/google/uuid"

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota // Start panel shown, clock stopped
	PhaseRunning                 // Clock running, objects falling
	PhaseOver                    // Final score shown, simulation frozen
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseRunning:
		return "Running"
	case PhaseOver:
		return "Over"
	default:
		return "Unknown"
	}
}

// Session holds the score and clock of one play-through. A session is never
// reused: restarting replaces it with a new one.
type Session struct {
	ID        string
	score     int
	remaining float64
	duration  float64
	phase     Phase
}

// NewSession creates a not-yet-started session with a fresh identifier.
func NewSession(duration float64) *Session {
	return &Session{
		ID:        uuid.New().String(),
		remaining: duration,
		duration:  duration,
	}
}

// Score returns the number of Good objects clicked.
func (s *Session) Score() int { return s.score }

// Remaining returns the seconds left on the clock, always within [0, Duration].
func (s *Session) Remaining() float64 { return s.remaining }

// Duration returns the full session length in seconds.
func (s *Session) Duration() float64 { return s.duration }

// Phase returns the lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// Running reports whether the clock is running.
func (s *Session) Running() bool { return s.phase == PhaseRunning }

// Over reports whether the session has ended.
func (s *Session) Over() bool { return s.phase == PhaseOver }

// AddPoint increments the score. It does nothing unless the session is running.
func (s *Session) AddPoint() bool {
	if s.phase != PhaseRunning {
		return false
	}
	s.score++
	return true
}

func (s *Session) start() bool {
	if s.phase != PhaseNotStarted {
		return false
	}
	s.phase = PhaseRunning
	s.remaining = s.duration
	return true
}

func (s *Session) advance(dt float64) {
	if s.phase != PhaseRunning || dt <= 0 {
		return
	}
	s.remaining -= dt
	if s.remaining < 0 {
		s.remaining = 0
	}
}

// expire drops the clock to zero; the next timeout check ends the session.
func (s *Session) expire() {
	if s.phase != PhaseRunning {
		return
	}
	s.remaining = 0
}

func (s *Session) timedOut() bool {
	return s.phase == PhaseRunning && s.remaining <= 0
}

// finish moves Running to Over. It returns false if the session was not
// running, which makes game-over idempotent.
func (s *Session) finish() bool {
	if s.phase != PhaseRunning {
		return false
	}
	s.remaining = 0
	s.phase = PhaseOver
	return true
}
