package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the rate every clip is synthesised at.
const SampleRate = beep.SampleRate(44100)

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Saw
	Noise
)

type oscillator struct {
	freq     float64
	phase    float64
	position int
	total    int
	wave     Wave
	rng      *rand.Rand
}

func newOscillator(freq float64, d time.Duration, wave Wave) *oscillator {
	return &oscillator{
		freq:  freq,
		total: SampleRate.N(d),
		wave:  wave,
		rng:   rand.New(rand.NewSource(int64(freq*1000) + 1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.position >= o.total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if o.position >= o.total {
			break
		}
		var v float64
		switch o.wave {
		case Sine:
			v = math.Sin(2 * math.Pi * o.phase)
		case Square:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case Saw:
			v = 2 * (o.phase - 0.5)
		case Noise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		o.phase += o.freq / float64(SampleRate)
		o.phase -= math.Floor(o.phase)
		o.position++
		n++
	}
	return n, true
}

func (o *oscillator) Err() error { return nil }

// envelope ramps a streamer in over attack and out over release.
type envelope struct {
	s        beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration) *envelope {
	return &envelope{
		s:       s,
		attack:  SampleRate.N(attack),
		release: SampleRate.N(release),
		total:   SampleRate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	releaseStart := max(e.total-e.release, e.attack)
	for i := 0; i < n; i++ {
		vol := 1.0
		switch {
		case e.position < e.attack:
			vol = float64(e.position) / float64(e.attack)
		case e.position >= releaseStart && e.release > 0:
			vol = max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// gain scales s linearly. Zero or less silences it.
func gain(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// note is one enveloped tone.
type note struct {
	freq    float64
	wave    Wave
	length  time.Duration
	attack  time.Duration
	release time.Duration
}

func (n note) streamer() beep.Streamer {
	return newEnvelope(newOscillator(n.freq, n.length, n.wave), n.length, n.attack, n.release)
}

// sequence plays notes one after another.
func sequence(notes ...note) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		parts[i] = n.streamer()
	}
	return beep.Seq(parts...)
}

// clips maps every clip name the game knows to its generator.
var clips = map[string]func() beep.Streamer{
	"coin": func() beep.Streamer {
		return gain(sequence(
			note{freq: 987.77, wave: Square, length: 80 * time.Millisecond, attack: 2 * time.Millisecond, release: 20 * time.Millisecond},
			note{freq: 1318.51, wave: Square, length: 220 * time.Millisecond, attack: 2 * time.Millisecond, release: 180 * time.Millisecond},
		), 0.25)
	},
	"bell": func() beep.Streamer {
		fund := note{freq: 880, wave: Sine, length: 400 * time.Millisecond, attack: 5 * time.Millisecond, release: 380 * time.Millisecond}
		over := note{freq: 1760, wave: Sine, length: 400 * time.Millisecond, attack: 5 * time.Millisecond, release: 200 * time.Millisecond}
		return gain(beep.Mix(gain(fund.streamer(), 0.7), gain(over.streamer(), 0.3)), 0.6)
	},
	"blip": func() beep.Streamer {
		return gain(sequence(
			note{freq: 1200, wave: Square, length: 60 * time.Millisecond, attack: time.Millisecond, release: 30 * time.Millisecond},
		), 0.2)
	},
	"pop": func() beep.Streamer {
		return gain(beep.Mix(
			note{freq: 0, wave: Noise, length: 50 * time.Millisecond, attack: time.Millisecond, release: 45 * time.Millisecond}.streamer(),
			gain(note{freq: 420, wave: Sine, length: 70 * time.Millisecond, attack: time.Millisecond, release: 60 * time.Millisecond}.streamer(), 0.8),
		), 0.4)
	},
	"buzz": func() beep.Streamer {
		return gain(beep.Take(SampleRate.N(150*time.Millisecond), sequence(
			note{freq: 100, wave: Saw, length: 150 * time.Millisecond, attack: 5 * time.Millisecond, release: 50 * time.Millisecond},
		)), 0.3)
	},
	"descend": func() beep.Streamer {
		step := func(freq float64) note {
			return note{freq: freq, wave: Square, length: 180 * time.Millisecond, attack: 3 * time.Millisecond, release: 60 * time.Millisecond}
		}
		return gain(sequence(step(659.25), step(523.25), step(392), step(261.63)), 0.25)
	},
}

// Clip returns a fresh streamer for the named clip.
func Clip(name string) (beep.Streamer, bool) {
	gen, ok := clips[name]
	if !ok {
		return nil, false
	}
	return gen(), true
}

// Has reports whether a clip with that name exists.
func Has(name string) bool {
	_, ok := clips[name]
	return ok
}
