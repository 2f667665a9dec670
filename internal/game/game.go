package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/droptap/internal/config"
	"github.com/tomz197/droptap/internal/logging"
	"github.com/tomz197/droptap/internal/report"
)

// reportTimeout bounds one Report call made from the frame loop.
const reportTimeout = 3 * time.Second

// Sound plays a named clip without blocking.
type Sound interface {
	Play(clip string)
}

type silent struct{}

func (silent) Play(string) {}

// Options carries the collaborators of a Game. Zero values are replaced with
// silent, non-reporting, non-logging defaults.
type Options struct {
	Rand     *rand.Rand
	Sound    Sound
	Reporter report.Reporter
	Logger   *log.Logger
	Now      func() time.Time
}

// Game drives one session at a time: it owns the session state, the live
// falling entities, the hit effects and the spawn trigger. A Game is not safe
// for concurrent use; the host calls every method from its frame loop.
type Game struct {
	cfg      config.Game
	session  *Session
	entities []*Entity
	effects  []*Effect
	spawner  *Spawner
	index    *entityIndex

	rng      *rand.Rand
	sound    Sound
	reporter report.Reporter
	log      *log.Logger
	now      func() time.Time
}

// New creates a game in the NotStarted phase. cfg must already be validated.
func New(cfg config.Game, opts Options) *Game {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Sound == nil {
		opts.Sound = silent{}
	}
	if opts.Reporter == nil {
		opts.Reporter = report.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	g := &Game{
		cfg:      cfg,
		rng:      opts.Rand,
		sound:    opts.Sound,
		reporter: opts.Reporter,
		log:      opts.Logger,
		now:      opts.Now,
		spawner:  NewSpawner(cfg, opts.Rand),
	}
	g.index = newEntityIndex(cfg.World.Width, cfg.World.Height,
		math.Max(1, cfg.HitRadius+cfg.SlotTolerance), &g.entities)
	g.session = NewSession(cfg.GameDuration)
	return g
}

// Config returns the settings the game was built with.
func (g *Game) Config() config.Game { return g.cfg }

// Session returns the current session.
func (g *Game) Session() *Session { return g.session }

// Phase returns the current session phase.
func (g *Game) Phase() Phase { return g.session.Phase() }

// Start begins the session: the clock is reset to the full duration and the
// spawn trigger fires on the first tick. It does nothing outside NotStarted.
func (g *Game) Start() bool {
	if !g.session.start() {
		return false
	}
	g.spawner.Arm()
	g.log.Info("game started", "session", g.session.ID, "duration", g.session.Duration())
	return true
}

// Restart throws the whole session away and builds a fresh, not-yet-started
// one. Nothing from the previous session survives.
func (g *Game) Restart() {
	old := g.session.ID
	g.session = NewSession(g.cfg.GameDuration)
	g.entities = nil
	g.effects = nil
	g.spawner.Reset()
	g.index.rebuild()
	g.log.Debug("game restarted", "previous", old, "session", g.session.ID)
}

// Tick advances the simulation by delta and processes at most one click,
// given in world coordinates. It does nothing unless the session is running.
//
// Order within a tick: clock, motion and expiry, spawning, then the click.
// New entities therefore appear at their slot and can be hit in the same tick.
func (g *Game) Tick(delta time.Duration, click *Vec) {
	if !g.session.Running() {
		return
	}
	dt := delta.Seconds()
	if dt < 0 {
		dt = 0
	}

	g.session.advance(dt)
	if g.checkTimeout() {
		return
	}

	g.advanceEntities(dt)
	g.advanceEffects(dt)
	g.spawner.Update(dt, g.index, g.add)

	if click != nil {
		g.handleClick(*click)
		g.checkTimeout()
	}
}

// add appends a freshly spawned entity and indexes it immediately so that a
// second spawn in the same tick sees its slot as taken.
func (g *Game) add(e *Entity) {
	g.entities = append(g.entities, e)
	g.index.insert(len(g.entities) - 1)
	g.log.Debug("spawned", "id", e.ID, "slot", e.Slot, "category", e.Category, "variant", e.Variant)
}

func (g *Game) advanceEntities(dt float64) {
	kept := g.entities[:0]
	for _, e := range g.entities {
		if !e.Advance(dt) {
			kept = append(kept, e)
		}
	}
	clear(g.entities[len(kept):])
	g.entities = kept
	g.index.rebuild()
}

func (g *Game) advanceEffects(dt float64) {
	kept := g.effects[:0]
	for _, fx := range g.effects {
		if !fx.Advance(dt) {
			kept = append(kept, fx)
		}
	}
	clear(g.effects[len(kept):])
	g.effects = kept
}

// handleClick resolves the click against the live entities and applies the
// effect of the hit category.
func (g *Game) handleClick(p Vec) {
	i, ok := g.index.Resolve(p)
	if !ok {
		return
	}
	hit := g.entities[i]
	g.remove(i)

	switch hit.Category {
	case Good:
		g.session.AddPoint()
		g.spawnEffect(p)
	case Bad:
		g.log.Debug("bad object clicked", "id", hit.ID, "variant", hit.Variant)
		g.session.expire()
	}
}

func (g *Game) remove(i int) {
	copy(g.entities[i:], g.entities[i+1:])
	g.entities[len(g.entities)-1] = nil
	g.entities = g.entities[:len(g.entities)-1]
	g.index.rebuild()
}

func (g *Game) spawnEffect(p Vec) {
	var clip string
	if clips := g.cfg.HitClips; len(clips) > 0 {
		clip = clips[g.rng.Intn(len(clips))]
		g.sound.Play(clip)
	}
	g.effects = append(g.effects, &Effect{
		Pos:       p,
		Asset:     g.cfg.HitEffect,
		Clip:      clip,
		Duration:  g.cfg.EffectDuration,
		Remaining: g.cfg.EffectDuration,
	})
}

// checkTimeout ends the session once the clock reaches zero. Both the timer
// and a Bad hit end the game through here.
func (g *Game) checkTimeout() bool {
	if !g.session.timedOut() {
		return false
	}
	g.gameOver()
	return true
}

func (g *Game) gameOver() {
	if !g.session.finish() {
		return
	}
	g.log.Info("game over", "session", g.session.ID, "score", g.session.Score())
	if g.cfg.GameOverClip != "" {
		g.sound.Play(g.cfg.GameOverClip)
	}
	g.submit(report.Result{
		Score:     g.session.Score(),
		SessionID: g.session.ID,
		GameID:    g.cfg.GameID,
		Duration:  g.session.Duration(),
		At:        g.now(),
	})
}

// submit hands the result to the reporter. Errors and panics are logged and
// never reach the frame loop.
func (g *Game) submit(res report.Result) {
	defer func() {
		if p := recover(); p != nil {
			g.log.Error("score reporter panicked", "panic", p, "session", res.SessionID)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()
	if err := g.reporter.Report(ctx, res); err != nil {
		g.log.Warn("score report failed", "err", err, "session", res.SessionID)
	}
}

// ScoreText is the HUD score label.
func (g *Game) ScoreText() string {
	return fmt.Sprintf("Score: %d", g.session.Score())
}

// TimeFraction returns the remaining time as a fraction of the duration,
// for the time bar.
func (g *Game) TimeFraction() float64 {
	d := g.session.Duration()
	if d <= 0 {
		return 0
	}
	return g.session.Remaining() / d
}

// Snapshot is a copy of everything a host needs to draw one frame.
type Snapshot struct {
	SessionID string
	Phase     Phase
	Score     int
	Remaining float64
	Duration  float64
	World     config.World
	Slots     []Vec
	Entities  []Entity
	Effects   []Effect
}

// Snapshot copies the current state. The result shares nothing mutable with
// the game.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		SessionID: g.session.ID,
		Phase:     g.session.Phase(),
		Score:     g.session.Score(),
		Remaining: g.session.Remaining(),
		Duration:  g.session.Duration(),
		World:     g.cfg.World,
		Slots:     append([]Vec(nil), g.spawner.Slots()...),
		Entities:  make([]Entity, len(g.entities)),
		Effects:   make([]Effect, len(g.effects)),
	}
	for i, e := range g.entities {
		s.Entities[i] = *e
	}
	for i, fx := range g.effects {
		s.Effects[i] = *fx
	}
	return s
}
