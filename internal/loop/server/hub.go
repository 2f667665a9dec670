// Package server tracks the clients connected to one process: the player
// count, a shared leaderboard and graceful shutdown. Each client runs its
// own isolated game; nothing in here touches game state.
package server

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/droptap/internal/loop/config"
)

// Lobby is what a client needs from the hub.
type Lobby interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	Players() int
	RecordScore(clientID, score int)
	TopScores() []TopScoreEntry
}

// ClientHandle is a client's registration.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent
}

// ClientEventType identifies a hub-to-client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventTopScores                      // The leaderboard changed
)

// ClientEvent is sent from the hub to clients.
type ClientEvent struct {
	Type ClientEventType
}

// TopScoreEntry is one leaderboard line.
type TopScoreEntry struct {
	Username string
	Score    int
	clientID int // Tie-break: earlier registration first
}

// Hub is the process-wide registry of clients.
type Hub struct {
	mu        sync.RWMutex
	clients   map[int]*ClientHandle
	nextID    int
	topScores []TopScoreEntry
	log       *log.Logger
}

var _ Lobby = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[int]*ClientHandle),
		nextID:  1,
		log:     logger,
	}
}

// RegisterClient adds a client and returns its handle.
func (h *Hub) RegisterClient(username string) *ClientHandle {
	if r := []rune(username); len(r) > config.MaxUsernameLength {
		username = string(r[:config.MaxUsernameLength])
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	handle := &ClientHandle{
		ID:       h.nextID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	h.nextID++
	h.clients[handle.ID] = handle
	h.log.Debug("client registered", "id", handle.ID, "user", username, "players", len(h.clients))
	return handle
}

// UnregisterClient removes a client and closes its event channel. Unknown
// IDs are ignored.
func (h *Hub) UnregisterClient(clientID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, ok := h.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(h.clients, clientID)
	h.log.Debug("client unregistered", "id", clientID, "players", len(h.clients))
}

// Players returns how many clients are connected.
func (h *Hub) Players() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RecordScore offers a finished session's score to the leaderboard. A
// client holds at most one entry, its best.
func (h *Hub) RecordScore(clientID, score int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.clients[clientID]
	if !ok {
		return
	}

	i := slices.IndexFunc(h.topScores, func(e TopScoreEntry) bool { return e.clientID == clientID })
	switch {
	case i >= 0 && h.topScores[i].Score >= score:
		return
	case i >= 0:
		h.topScores[i].Score = score
	default:
		h.topScores = append(h.topScores, TopScoreEntry{Username: handle.Username, Score: score, clientID: clientID})
	}

	slices.SortStableFunc(h.topScores, func(a, b TopScoreEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.clientID, b.clientID)
	})
	if len(h.topScores) > config.TopScoreCount {
		h.topScores = h.topScores[:config.TopScoreCount]
	}
	h.broadcastLocked(ClientEvent{Type: EventTopScores})
}

// TopScores returns a copy of the leaderboard, best first.
func (h *Hub) TopScores() []TopScoreEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.topScores)
}

// broadcastLocked delivers ev without blocking; a client with a full queue
// misses it.
func (h *Hub) broadcastLocked(ev ClientEvent) {
	for _, handle := range h.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// Shutdown tells every client the server is going away and waits until
// they have all unregistered or the timeout passes. It reports whether all
// clients left in time.
func (h *Hub) Shutdown(timeout time.Duration) bool {
	h.mu.RLock()
	h.broadcastLocked(ClientEvent{Type: EventServerShutdown})
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if h.Players() == 0 {
			return true
		}
		select {
		case <-deadline:
			h.log.Warn("clients still connected at shutdown", "players", h.Players())
			return false
		case <-ticker.C:
		}
	}
}
