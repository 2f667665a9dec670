package client

import (
	"time"

	"github.com/tomz197/droptap/internal/draw"
	"github.com/tomz197/droptap/internal/game"
	"github.com/tomz197/droptap/internal/input"
)

// ClientState holds per-connection UI state. Game state lives in the Game.
type ClientState struct {
	Input         input.Input
	Running       bool
	prevPhase     game.Phase
	prevScreen    screen
	delta         time.Duration
	elapsed       float64 // Seconds since the client started, drives blinking
	idle          float64 // Seconds since the last key or mouse event
	isInactive    bool
	shuttingDown  bool
	shutdownTimer float64
	termSizeFunc  draw.TermSizeFunc
}

// screen is what the UI overlay currently shows. A change triggers a full
// terminal clear.
type screen int

const (
	screenStart screen = iota
	screenPlaying
	screenOver
	screenInactive
	screenShutdown
)

// NewClientState creates the state of a freshly connected client.
func NewClientState() *ClientState {
	return &ClientState{Running: true}
}
