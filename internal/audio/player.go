// Package audio synthesises and plays the game's sound clips through the
// default output device.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Player mixes clips onto the speaker. Play never blocks the frame loop.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	log         *log.Logger
}

// NewPlayer creates a player at full volume. Call Init before Play.
func NewPlayer(logger *log.Logger) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: 1,
		log:    logger,
	}
}

// Init opens the output device and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// SetVolume sets the linear master volume, clamped to [0, 1], applied to
// clips started later. 0 mutes.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = min(max(v, 0), 1)
}

// Play starts the named clip. Unknown names and an uninitialised device are
// ignored.
func (p *Player) Play(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s, ok := Clip(name)
	if !ok {
		p.log.Debug("unknown clip", "clip", name)
		return
	}

	speaker.Lock()
	p.mixer.Add(gain(s, p.volume))
	speaker.Unlock()
}

// Close stops every playing clip.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Mute satisfies the same Play contract and discards every clip.
type Mute struct{}

func (Mute) Play(string) {}
