// Package scoreboard collects reported results in memory and exposes the
// WebSocket endpoint reporters send them to.
package scoreboard

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/droptap/internal/report"
)

const (
	readLimit  = 1 << 12
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Reporters are game processes, not browsers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Board keeps the most recent results, newest first.
type Board struct {
	mu      sync.RWMutex
	results []report.Result
	limit   int
	log     *log.Logger
}

// NewBoard creates a board holding at most limit results.
func NewBoard(limit int, logger *log.Logger) *Board {
	if limit <= 0 {
		limit = 1
	}
	return &Board{limit: limit, log: logger}
}

// Record adds r to the front, dropping the oldest result past the limit.
func (b *Board) Record(r report.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.results = append(b.results, report.Result{})
	copy(b.results[1:], b.results)
	b.results[0] = r
	if len(b.results) > b.limit {
		b.results = b.results[:b.limit]
	}
}

// Recent returns up to n results, newest first.
func (b *Board) Recent(n int) []report.Result {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n = min(max(n, 0), len(b.results))
	out := make([]report.Result, n)
	copy(out, b.results)
	return out
}

// Len returns how many results are held.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.results)
}

// Report records r directly, so a Board can sit behind a game in-process.
func (b *Board) Report(_ context.Context, r report.Result) error {
	b.Record(r)
	return nil
}

// ServeWS upgrades the request and records every binary frame received
// until the peer closes.
func (b *Board) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn("upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go b.ping(conn, done)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.log.Debug("collector read ended", "err", err, "remote", r.RemoteAddr)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			b.log.Debug("ignoring non-binary frame", "remote", r.RemoteAddr)
			continue
		}
		res, err := report.Decode(data)
		if err != nil {
			b.log.Warn("bad result frame", "err", err, "remote", r.RemoteAddr)
			continue
		}
		b.Record(res)
		b.log.Info("result recorded", "score", res.Score, "session", res.SessionID, "game", res.GameID)
	}
}

func (b *Board) ping(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
