package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNoEndpoint is returned when a WebSocketReporter has no URL.
var ErrNoEndpoint = errors.New("report: no collector endpoint")

const writeWait = 5 * time.Second

// WebSocketReporter sends each result as a single binary msgpack frame over
// a short-lived WebSocket connection.
type WebSocketReporter struct {
	url    string
	dialer *websocket.Dialer
}

// NewWebSocketReporter creates a reporter for a ws:// or wss:// URL.
func NewWebSocketReporter(url string) *WebSocketReporter {
	return &WebSocketReporter{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: writeWait,
		},
	}
}

// Report dials the collector, writes the frame and closes the connection.
func (w *WebSocketReporter) Report(ctx context.Context, r Result) error {
	if w.url == "" {
		return ErrNoEndpoint
	}

	data, err := Encode(r)
	if err != nil {
		return err
	}

	conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("dial collector: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("send result: %w", err)
	}

	// Best-effort close handshake; the collector may already be gone.
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return nil
}
