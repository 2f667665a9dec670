package game

import "testing"

func TestSessionLifecycle(t *testing.T) {
	s := NewSession(30)

	if s.AddPoint() {
		t.Error("Expected AddPoint to be ignored before start")
	}
	s.advance(5)
	if s.Remaining() != 30 {
		t.Errorf("Expected clock stopped before start, got %v", s.Remaining())
	}

	if !s.start() {
		t.Fatal("Expected start to succeed")
	}
	if s.start() {
		t.Error("Expected second start to fail")
	}
	s.AddPoint()
	s.advance(40)
	if s.Remaining() != 0 {
		t.Errorf("Expected remaining clamped at 0, got %v", s.Remaining())
	}
	if !s.timedOut() {
		t.Error("Expected timed out")
	}

	if !s.finish() {
		t.Fatal("Expected finish to succeed")
	}
	if s.finish() {
		t.Error("Expected finish to be idempotent")
	}
	if s.AddPoint() || s.Score() != 1 {
		t.Errorf("Expected score frozen at 1, got %d", s.Score())
	}
	if s.Phase().String() != "Over" {
		t.Errorf("Expected Over, got %s", s.Phase())
	}
}

func TestSessionExpire(t *testing.T) {
	s := NewSession(30)
	s.expire()
	if s.Remaining() != 30 {
		t.Error("Expected expire to be ignored before start")
	}
	s.start()
	s.expire()
	if s.Remaining() != 0 || !s.timedOut() {
		t.Errorf("Expected expired session, got remaining %v", s.Remaining())
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a, b := NewSession(1), NewSession(1)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("Expected distinct IDs, got %q and %q", a.ID, b.ID)
	}
}

func TestEntityAdvance(t *testing.T) {
	e := &Entity{Pos: Vec{X: 10, Y: 8}, FallSpeed: 11, Lifetime: 6, Radius: 4}

	if e.Advance(2) {
		t.Error("Expected entity alive after 2s")
	}
	if e.Pos != (Vec{X: 10, Y: 30}) {
		t.Errorf("Expected (10, 30), got %v", e.Pos)
	}
	if !e.Advance(4) {
		t.Error("Expected entity expired after 6s")
	}
	if !e.Contains(Vec{X: 12, Y: 74}) || e.Contains(Vec{X: 20, Y: 74}) {
		t.Error("Unexpected hit circle")
	}
}

func TestEffectProgress(t *testing.T) {
	fx := &Effect{Duration: 0.2, Remaining: 0.2}
	if fx.Progress() != 0 {
		t.Errorf("Expected 0, got %v", fx.Progress())
	}
	fx.Advance(0.1)
	if p := fx.Progress(); p < 0.49 || p > 0.51 {
		t.Errorf("Expected about 0.5, got %v", p)
	}
	if !fx.Advance(0.2) || fx.Progress() != 1 {
		t.Errorf("Expected expired effect at 1, got %v", fx.Progress())
	}
}

func TestEntityIndex(t *testing.T) {
	entities := []*Entity{
		{ID: 1, Pos: Vec{X: 10, Y: 10}, Radius: 4},
		{ID: 2, Pos: Vec{X: 14, Y: 10}, Radius: 4},
		{ID: 3, Pos: Vec{X: 50, Y: 50}, Radius: 4},
	}
	x := newEntityIndex(120, 80, 5, &entities)
	x.rebuild()

	tests := []struct {
		p    Vec
		want uint64
		ok   bool
	}{
		{Vec{X: 9, Y: 10}, 1, true},
		{Vec{X: 15, Y: 10}, 2, true},
		{Vec{X: 12, Y: 10}, 2, true}, // Equidistant: newest wins
		{Vec{X: 50, Y: 53}, 3, true},
		{Vec{X: 30, Y: 30}, 0, false},
	}
	for _, tt := range tests {
		i, ok := x.Resolve(tt.p)
		if ok != tt.ok {
			t.Errorf("Resolve(%v): expected ok=%v, got %v", tt.p, tt.ok, ok)
			continue
		}
		if ok && entities[i].ID != tt.want {
			t.Errorf("Resolve(%v): expected ID %d, got %d", tt.p, tt.want, entities[i].ID)
		}
	}

	if !x.Occupied(Vec{X: 50, Y: 45.95}, 0.1) {
		t.Error("Expected probe touching the hit circle to be occupied")
	}
	if x.Occupied(Vec{X: 50, Y: 45}, 0.1) {
		t.Error("Expected probe clear of the hit circle to be free")
	}
}
