package game

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/droptap/internal/config"
	"github.com/tomz197/droptap/internal/logging"
	"github.com/tomz197/droptap/internal/report"
)

type recordingSound struct {
	clips []string
}

func (s *recordingSound) Play(clip string) { s.clips = append(s.clips, clip) }

type recordingReporter struct {
	results []report.Result
	err     error
	panics  bool
}

func (r *recordingReporter) Report(_ context.Context, res report.Result) error {
	r.results = append(r.results, res)
	if r.panics {
		panic("reporter exploded")
	}
	return r.err
}

// oneSlot returns a config with a single slot in the middle of the world.
func oneSlot(goodChance float64) config.Game {
	cfg := config.Default()
	cfg.Slots = []config.Point{{X: 60, Y: 8}}
	cfg.GoodChance = goodChance
	return cfg
}

func newTestGame(cfg config.Game) (*Game, *recordingSound, *recordingReporter) {
	sound := &recordingSound{}
	rep := &recordingReporter{}
	g := New(cfg, Options{
		Rand:     rand.New(rand.NewSource(7)),
		Sound:    sound,
		Reporter: rep,
		Now:      func() time.Time { return time.Unix(1700000000, 0) },
	})
	return g, sound, rep
}

func TestNewGameIsNotStarted(t *testing.T) {
	g, _, _ := newTestGame(config.Default())

	if g.Phase() != PhaseNotStarted {
		t.Errorf("Expected phase NotStarted, got %v", g.Phase())
	}
	g.Tick(time.Second, nil)
	snap := g.Snapshot()
	if len(snap.Entities) != 0 {
		t.Errorf("Expected no entities before start, got %d", len(snap.Entities))
	}
	if snap.Remaining != 30 {
		t.Errorf("Expected clock untouched before start, got %v", snap.Remaining)
	}
}

func TestStartOnlyOnce(t *testing.T) {
	g, _, _ := newTestGame(config.Default())

	if !g.Start() {
		t.Fatal("Expected first Start to succeed")
	}
	if g.Start() {
		t.Error("Expected second Start to be ignored")
	}
	if g.Phase() != PhaseRunning {
		t.Errorf("Expected phase Running, got %v", g.Phase())
	}
}

func TestFirstTickSpawns(t *testing.T) {
	g, _, _ := newTestGame(config.Default())
	g.Start()
	g.Tick(0, nil)

	snap := g.Snapshot()
	if len(snap.Entities) != 1 {
		t.Fatalf("Expected 1 entity after first tick, got %d", len(snap.Entities))
	}
	e := snap.Entities[0]
	if e.Pos != snap.Slots[e.Slot] {
		t.Errorf("Expected entity at slot %v, got %v", snap.Slots[e.Slot], e.Pos)
	}
	if e.ID != 1 {
		t.Errorf("Expected ID 1, got %d", e.ID)
	}
}

func TestTimerEndsGameOnce(t *testing.T) {
	g, sound, rep := newTestGame(config.Default())
	g.Start()

	for i := 0; i < 60; i++ {
		g.Tick(time.Second, nil)
	}

	if g.Phase() != PhaseOver {
		t.Fatalf("Expected phase Over, got %v", g.Phase())
	}
	if len(rep.results) != 1 {
		t.Fatalf("Expected exactly 1 report, got %d", len(rep.results))
	}
	res := rep.results[0]
	if res.GameID != 42 || res.Duration != 30 || res.SessionID != g.Session().ID {
		t.Errorf("Unexpected report %+v", res)
	}
	if !res.At.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("Expected report time from clock, got %v", res.At)
	}
	overClips := 0
	for _, c := range sound.clips {
		if c == "descend" {
			overClips++
		}
	}
	if overClips != 1 {
		t.Errorf("Expected game-over clip once, got %d", overClips)
	}
}

func TestGoodClickScoresAndSpawnsEffect(t *testing.T) {
	g, sound, _ := newTestGame(oneSlot(1))
	g.Start()
	g.Tick(0, nil)

	g.Tick(0, &Vec{X: 61, Y: 9})

	snap := g.Snapshot()
	if snap.Score != 1 {
		t.Errorf("Expected score 1, got %d", snap.Score)
	}
	if len(snap.Entities) != 0 {
		t.Errorf("Expected clicked entity removed, got %d", len(snap.Entities))
	}
	if len(snap.Effects) != 1 {
		t.Fatalf("Expected 1 effect, got %d", len(snap.Effects))
	}
	fx := snap.Effects[0]
	if fx.Pos != (Vec{X: 61, Y: 9}) || fx.Asset != "spark" || fx.Remaining != 0.2 {
		t.Errorf("Unexpected effect %+v", fx)
	}
	if len(sound.clips) != 1 || sound.clips[0] != fx.Clip {
		t.Errorf("Expected hit clip %q played once, got %v", fx.Clip, sound.clips)
	}

	g.Tick(150*time.Millisecond, nil)
	if n := len(g.Snapshot().Effects); n != 1 {
		t.Errorf("Expected effect alive after 0.15s, got %d", n)
	}
	g.Tick(100*time.Millisecond, nil)
	if n := len(g.Snapshot().Effects); n != 0 {
		t.Errorf("Expected effect gone after 0.25s, got %d", n)
	}
}

func TestMissDoesNothing(t *testing.T) {
	g, sound, _ := newTestGame(oneSlot(1))
	g.Start()
	g.Tick(0, nil)

	g.Tick(0, &Vec{X: 10, Y: 70})

	snap := g.Snapshot()
	if snap.Score != 0 || len(snap.Entities) != 1 || len(snap.Effects) != 0 {
		t.Errorf("Expected miss to change nothing, got score=%d entities=%d effects=%d",
			snap.Score, len(snap.Entities), len(snap.Effects))
	}
	if len(sound.clips) != 0 {
		t.Errorf("Expected no sound, got %v", sound.clips)
	}
}

func TestBadClickEndsGameSameTick(t *testing.T) {
	g, _, rep := newTestGame(oneSlot(0))
	g.Start()
	g.Tick(0, nil)

	g.Tick(0, &Vec{X: 60, Y: 8})

	if g.Phase() != PhaseOver {
		t.Fatalf("Expected phase Over, got %v", g.Phase())
	}
	if r := g.Session().Remaining(); r != 0 {
		t.Errorf("Expected remaining 0, got %v", r)
	}
	if g.Session().Score() != 0 {
		t.Errorf("Expected score unchanged, got %d", g.Session().Score())
	}
	if len(g.Snapshot().Effects) != 0 {
		t.Error("Expected no effect for a Bad hit")
	}

	g.Tick(time.Second, &Vec{X: 60, Y: 8})
	if len(rep.results) != 1 {
		t.Errorf("Expected exactly 1 report, got %d", len(rep.results))
	}
}

func TestStateFrozenAfterOver(t *testing.T) {
	g, _, _ := newTestGame(oneSlot(0))
	g.Start()
	g.Tick(0, nil)
	g.Tick(0, &Vec{X: 60, Y: 8})

	before := g.Snapshot()
	for i := 0; i < 10; i++ {
		g.Tick(time.Second, &Vec{X: 60, Y: 20})
	}
	after := g.Snapshot()

	if before.Score != after.Score || before.Remaining != after.Remaining ||
		len(before.Entities) != len(after.Entities) || len(before.Effects) != len(after.Effects) {
		t.Errorf("Expected frozen state, before=%+v after=%+v", before, after)
	}
	if g.Start() {
		t.Error("Expected Start to be ignored once over")
	}
}

func TestNoTwoEntitiesShareASlot(t *testing.T) {
	cfg := oneSlot(0.5)
	cfg.FallSpeed = 0
	cfg.SpawnInterval = 0.1
	g, _, _ := newTestGame(cfg)
	g.Start()

	// One long tick spans ten spawn attempts.
	g.Tick(time.Second, nil)
	if n := len(g.Snapshot().Entities); n != 1 {
		t.Fatalf("Expected 1 entity in a single slot, got %d", n)
	}

	for i := 0; i < 40; i++ {
		g.Tick(100*time.Millisecond, nil)
		if n := len(g.Snapshot().Entities); n > 1 {
			t.Fatalf("Expected at most 1 entity at tick %d, got %d", i, n)
		}
	}
}

func TestSlotFreesOnceEntityFallsAway(t *testing.T) {
	g, _, _ := newTestGame(oneSlot(1))
	g.Start()
	g.Tick(0, nil)
	g.Tick(time.Second, nil)

	snap := g.Snapshot()
	if len(snap.Entities) != 2 {
		t.Fatalf("Expected 2 entities after 1s, got %d", len(snap.Entities))
	}
	if snap.Entities[0].Pos.Y != 19 || snap.Entities[1].Pos.Y != 8 {
		t.Errorf("Expected older entity lower, got %v and %v", snap.Entities[0].Pos, snap.Entities[1].Pos)
	}
}

func TestEntitiesExpireAfterLifetime(t *testing.T) {
	cfg := oneSlot(1)
	cfg.SpawnInterval = 100
	g, _, _ := newTestGame(cfg)
	g.Start()
	g.Tick(0, nil)

	for i := 0; i < 5; i++ {
		g.Tick(time.Second, nil)
	}
	if n := len(g.Snapshot().Entities); n != 1 {
		t.Fatalf("Expected entity alive at 5s, got %d", n)
	}
	g.Tick(time.Second, nil)
	if n := len(g.Snapshot().Entities); n != 0 {
		t.Errorf("Expected entity gone at 6s, got %d", n)
	}
}

func TestRemainingStaysInRange(t *testing.T) {
	g, _, _ := newTestGame(config.Default())
	g.Start()
	r := rand.New(rand.NewSource(3))

	for i := 0; i < 2000 && !g.Session().Over(); i++ {
		var click *Vec
		if r.Intn(4) == 0 {
			click = &Vec{X: r.Float64() * 120, Y: r.Float64() * 80}
		}
		g.Tick(time.Duration(r.Intn(50))*time.Millisecond, click)

		rem := g.Session().Remaining()
		if rem < 0 || rem > g.Session().Duration() {
			t.Fatalf("Remaining %v out of range at tick %d", rem, i)
		}
	}
}

func TestNegativeDeltaIgnored(t *testing.T) {
	g, _, _ := newTestGame(config.Default())
	g.Start()
	g.Tick(-time.Second, nil)

	if r := g.Session().Remaining(); r != 30 {
		t.Errorf("Expected remaining 30, got %v", r)
	}
}

func TestRestartBuildsFreshSession(t *testing.T) {
	g, _, rep := newTestGame(oneSlot(1))
	g.Start()
	g.Tick(0, nil)
	g.Tick(0, &Vec{X: 60, Y: 8})
	g.Tick(time.Second, nil)
	oldID := g.Session().ID

	g.Restart()

	snap := g.Snapshot()
	if snap.Phase != PhaseNotStarted {
		t.Errorf("Expected NotStarted, got %v", snap.Phase)
	}
	if snap.SessionID == oldID {
		t.Error("Expected a new session ID")
	}
	if snap.Score != 0 || snap.Remaining != 30 || len(snap.Entities) != 0 || len(snap.Effects) != 0 {
		t.Errorf("Expected a clean session, got %+v", snap)
	}
	if len(rep.results) != 0 {
		t.Errorf("Expected restart not to report, got %d", len(rep.results))
	}

	g.Tick(time.Second, nil)
	if n := len(g.Snapshot().Entities); n != 0 {
		t.Errorf("Expected no spawns before start, got %d", n)
	}
	g.Start()
	g.Tick(0, nil)
	snap = g.Snapshot()
	if len(snap.Entities) != 1 || snap.Entities[0].ID != 1 {
		t.Errorf("Expected numbering to restart, got %+v", snap.Entities)
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	g, _, rep := newTestGame(oneSlot(0))
	g.Start()
	g.Tick(0, nil)
	g.Tick(0, &Vec{X: 60, Y: 8})
	g.Restart()
	g.Start()
	g.Tick(0, nil)
	g.Tick(0, &Vec{X: 60, Y: 8})

	if len(rep.results) != 2 {
		t.Fatalf("Expected one report per session, got %d", len(rep.results))
	}
	if rep.results[0].SessionID == rep.results[1].SessionID {
		t.Error("Expected distinct session IDs in reports")
	}
}

func TestTenGoodClicksScoreTen(t *testing.T) {
	g, _, rep := newTestGame(oneSlot(1))
	g.Start()
	g.Tick(0, nil)

	for i := 0; i < 10; i++ {
		snap := g.Snapshot()
		if len(snap.Entities) == 0 {
			t.Fatalf("Expected an entity to click at round %d", i)
		}
		pos := snap.Entities[len(snap.Entities)-1].Pos
		g.Tick(0, &pos)
		g.Tick(time.Second, nil)
	}

	if s := g.Session().Score(); s != 10 {
		t.Errorf("Expected score 10, got %d", s)
	}
	for !g.Session().Over() {
		g.Tick(time.Second, nil)
	}
	if len(rep.results) != 1 || rep.results[0].Score != 10 {
		t.Errorf("Expected a single report with score 10, got %+v", rep.results)
	}
}

func TestBadClickMidGame(t *testing.T) {
	g, _, rep := newTestGame(oneSlot(0))
	g.Start()
	g.Tick(0, nil)
	for i := 0; i < 5; i++ {
		g.Tick(time.Second, nil)
	}
	if r := g.Session().Remaining(); r != 25 {
		t.Fatalf("Expected 25s left, got %v", r)
	}

	snap := g.Snapshot()
	pos := snap.Entities[len(snap.Entities)-1].Pos
	g.Tick(0, &pos)

	if !g.Session().Over() || g.Session().Remaining() != 0 {
		t.Errorf("Expected game over with no time left, got %v %v", g.Phase(), g.Session().Remaining())
	}
	if len(rep.results) != 1 || rep.results[0].Score != 0 {
		t.Errorf("Expected a single report with score 0, got %+v", rep.results)
	}
}

func TestReporterFailureIsNotFatal(t *testing.T) {
	tests := []struct {
		name string
		rep  *recordingReporter
		want string
	}{
		{"error", &recordingReporter{err: errors.New("boom")}, "score report failed"},
		{"panic", &recordingReporter{panics: true}, "score reporter panicked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			g := New(oneSlot(0), Options{
				Rand:     rand.New(rand.NewSource(1)),
				Reporter: tt.rep,
				Logger:   logging.New(&buf, "", "debug"),
			})
			g.Start()
			g.Tick(0, nil)
			g.Tick(0, &Vec{X: 60, Y: 8})

			if !g.Session().Over() {
				t.Fatal("Expected game over despite reporter failure")
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected log to contain %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	g, _, _ := newTestGame(oneSlot(1))
	g.Start()
	g.Tick(0, nil)

	snap := g.Snapshot()
	snap.Entities[0].Pos.Y = 70
	snap.Slots[0].X = 0

	again := g.Snapshot()
	if again.Entities[0].Pos.Y != 8 || again.Slots[0].X != 60 {
		t.Errorf("Expected snapshot mutation not to leak, got %+v", again)
	}
}

func TestHUDText(t *testing.T) {
	g, _, _ := newTestGame(oneSlot(1))
	g.Start()
	g.Tick(0, nil)
	g.Tick(0, &Vec{X: 60, Y: 8})
	g.Tick(3*time.Second, nil)

	if got := g.ScoreText(); got != "Score: 1" {
		t.Errorf("Expected %q, got %q", "Score: 1", got)
	}
	if got := g.TimeFraction(); got != 0.9 {
		t.Errorf("Expected time fraction 0.9, got %v", got)
	}
}
