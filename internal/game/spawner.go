package game

import (
	"math/rand"

	"github.com/tomz197/droptap/internal/config"
)

// Occupancy answers whether a live entity overlaps a probe circle.
type Occupancy interface {
	Occupied(p Vec, radius float64) bool
}

// Spawner drops new entities at free slots on a fixed period of simulated time.
type Spawner struct {
	slots      []Vec
	good       []string
	bad        []string
	goodChance float64
	tolerance  float64
	interval   float64
	fallSpeed  float64
	lifetime   float64
	radius     float64
	rng        *rand.Rand

	untilNext float64 // Seconds until the next attempt
	armed     bool
	nextID    uint64
}

// NewSpawner creates a disarmed spawner from the game settings.
func NewSpawner(cfg config.Game, rng *rand.Rand) *Spawner {
	slots := make([]Vec, len(cfg.Slots))
	for i, p := range cfg.Slots {
		slots[i] = Vec{X: p.X, Y: p.Y}
	}
	return &Spawner{
		slots:      slots,
		good:       append([]string(nil), cfg.GoodVariants...),
		bad:        append([]string(nil), cfg.BadVariants...),
		goodChance: cfg.GoodChance,
		tolerance:  cfg.SlotTolerance,
		interval:   cfg.SpawnInterval,
		fallSpeed:  cfg.FallSpeed,
		lifetime:   cfg.Lifetime,
		radius:     cfg.HitRadius,
		rng:        rng,
	}
}

// Slots returns the spawn positions.
func (s *Spawner) Slots() []Vec {
	return s.slots
}

// Arm starts the periodic trigger; the first attempt happens on the next Update,
// whatever its dt.
func (s *Spawner) Arm() {
	s.armed = true
	s.untilNext = 0
}

// Reset disarms the trigger and restarts entity numbering.
func (s *Spawner) Reset() {
	s.armed = false
	s.untilNext = 0
	s.nextID = 0
}

// Update advances the trigger by dt and calls emit for every entity spawned.
// Several attempts can fire in one call if dt spans multiple intervals;
// emit must make each new entity visible to occ before returning.
func (s *Spawner) Update(dt float64, occ Occupancy, emit func(*Entity)) {
	if !s.armed {
		return
	}
	s.untilNext -= dt
	for s.untilNext <= 0 {
		if e, ok := s.TrySpawn(occ); ok {
			emit(e)
		}
		s.untilNext += s.interval
	}
}

// TrySpawn places one entity at a random free slot. It returns false, without
// consuming randomness, when every slot is occupied.
func (s *Spawner) TrySpawn(occ Occupancy) (*Entity, bool) {
	free := s.freeSlots(occ)
	if len(free) == 0 {
		return nil, false
	}

	slot := free[s.rng.Intn(len(free))]

	category := Bad
	variants := s.bad
	if s.rng.Float64() < s.goodChance {
		category = Good
		variants = s.good
	}
	if len(variants) == 0 {
		return nil, false
	}
	variant := variants[s.rng.Intn(len(variants))]

	s.nextID++
	return &Entity{
		ID:        s.nextID,
		Pos:       s.slots[slot],
		Slot:      slot,
		Category:  category,
		Variant:   variant,
		FallSpeed: s.fallSpeed,
		Lifetime:  s.lifetime,
		Radius:    s.radius,
	}, true
}

// freeSlots returns the indices of slots whose probe touches no live entity.
func (s *Spawner) freeSlots(occ Occupancy) []int {
	free := make([]int, 0, len(s.slots))
	for i, p := range s.slots {
		if !occ.Occupied(p, s.tolerance) {
			free = append(free, i)
		}
	}
	return free
}
