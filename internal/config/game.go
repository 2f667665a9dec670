package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid game config")

// Point is a position in world units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// World is the size of the play area in world units. The origin is the
// top-left corner and Y grows downwards.
type World struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Game holds the tunable parameters of a play session.
// Durations are in seconds, distances in world units.
type Game struct {
	FallSpeed      float64  `yaml:"fallSpeed"`      // Units per second
	SpawnInterval  float64  `yaml:"spawnInterval"`  // Seconds between spawn attempts
	GameDuration   float64  `yaml:"gameDuration"`   // Seconds per session
	Lifetime       float64  `yaml:"lifetime"`       // Seconds before an unclicked object vanishes
	GoodChance     float64  `yaml:"goodChance"`     // Probability a spawn is Good
	SlotTolerance  float64  `yaml:"slotTolerance"`  // Probe radius for slot occupancy
	HitRadius      float64  `yaml:"hitRadius"`      // Clickable radius of a falling object
	EffectDuration float64  `yaml:"effectDuration"` // Lifetime of the hit effect
	GameID         int      `yaml:"gameID"`         // Reported alongside the final score
	World          World    `yaml:"world"`
	Slots          []Point  `yaml:"slots"`
	GoodVariants   []string `yaml:"goodVariants"`
	BadVariants    []string `yaml:"badVariants"`
	HitEffect      string   `yaml:"hitEffect"`
	HitClips       []string `yaml:"hitClips"`
	GameOverClip   string   `yaml:"gameOverClip"`
}

// Default returns the stock configuration: a 30 second session on a
// 120x80 field with six slots along the top edge.
func Default() Game {
	return Game{
		FallSpeed:      11.0,
		SpawnInterval:  1.0,
		GameDuration:   30.0,
		Lifetime:       6.0,
		GoodChance:     0.7,
		SlotTolerance:  0.1,
		HitRadius:      4.0,
		EffectDuration: 0.2,
		GameID:         42,
		World:          World{Width: 120, Height: 80},
		Slots: []Point{
			{X: 15, Y: 8}, {X: 33, Y: 8}, {X: 51, Y: 8},
			{X: 69, Y: 8}, {X: 87, Y: 8}, {X: 105, Y: 8},
		},
		GoodVariants: []string{"apple", "star", "gem", "coin"},
		BadVariants:  []string{"bomb", "skull"},
		HitEffect:    "spark",
		HitClips:     []string{"coin", "bell", "blip", "pop"},
		GameOverClip: "descend",
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Game{}, fmt.Errorf("failed to read game config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Game{}, fmt.Errorf("failed to parse game config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Game{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (Game, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks that every field is usable by the game loop.
func (g Game) Validate() error {
	switch {
	case g.FallSpeed < 0:
		return invalid("fallSpeed must be >= 0, got %v", g.FallSpeed)
	case g.SpawnInterval <= 0:
		return invalid("spawnInterval must be > 0, got %v", g.SpawnInterval)
	case g.GameDuration <= 0:
		return invalid("gameDuration must be > 0, got %v", g.GameDuration)
	case g.Lifetime <= 0:
		return invalid("lifetime must be > 0, got %v", g.Lifetime)
	case g.GoodChance < 0 || g.GoodChance > 1:
		return invalid("goodChance must be within [0, 1], got %v", g.GoodChance)
	case g.SlotTolerance < 0:
		return invalid("slotTolerance must be >= 0, got %v", g.SlotTolerance)
	case g.HitRadius <= 0:
		return invalid("hitRadius must be > 0, got %v", g.HitRadius)
	case g.EffectDuration < 0:
		return invalid("effectDuration must be >= 0, got %v", g.EffectDuration)
	case g.World.Width <= 0 || g.World.Height <= 0:
		return invalid("world must have a positive size, got %vx%v", g.World.Width, g.World.Height)
	case len(g.Slots) == 0:
		return invalid("slots cannot be empty")
	case g.GoodChance > 0 && len(g.GoodVariants) == 0:
		return invalid("goodVariants cannot be empty when goodChance > 0")
	case g.GoodChance < 1 && len(g.BadVariants) == 0:
		return invalid("badVariants cannot be empty when goodChance < 1")
	}

	for i, s := range g.Slots {
		if s.X < 0 || s.X > g.World.Width || s.Y < 0 || s.Y > g.World.Height {
			return invalid("slot %d (%v, %v) lies outside the world", i, s.X, s.Y)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
