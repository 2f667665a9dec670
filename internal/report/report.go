// Package report delivers final scores to external collectors.
//
// Reporting is best-effort: the game never blocks on, retries, or fails
// because of a reporter. Network reporters are wrapped in Async by the
// commands so a slow collector cannot stall the frame loop.
package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Result is the final outcome of one session.
type Result struct {
	Score     int       `msgpack:"score"`
	SessionID string    `msgpack:"session"`
	GameID    int       `msgpack:"game"`
	Duration  float64   `msgpack:"duration"` // Configured session length in seconds
	At        time.Time `msgpack:"at"`
}

// Reporter submits a final score to an external system.
type Reporter interface {
	Report(ctx context.Context, r Result) error
}

// Func adapts a function to the Reporter interface.
type Func func(ctx context.Context, r Result) error

// Report calls f.
func (f Func) Report(ctx context.Context, r Result) error {
	return f(ctx, r)
}

// Encode serialises a result into its msgpack wire form.
func Encode(r Result) ([]byte, error) {
	data, err := msgpack.Marshal(&r)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return data, nil
}

// Decode parses a msgpack-encoded result.
func Decode(data []byte) (Result, error) {
	var r Result
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}
	return r, nil
}

// Nop discards every report.
type Nop struct{}

// Report does nothing.
func (Nop) Report(context.Context, Result) error { return nil }

// LogReporter writes each result to a structured logger.
type LogReporter struct {
	log *log.Logger
}

// NewLogReporter creates a reporter that logs results at info level.
func NewLogReporter(logger *log.Logger) *LogReporter {
	return &LogReporter{log: logger}
}

// Report logs the result.
func (l *LogReporter) Report(_ context.Context, r Result) error {
	l.log.Info("score reported", "score", r.Score, "session", r.SessionID, "game", r.GameID)
	return nil
}

// Multi fans a report out to several reporters, joining their errors.
type Multi []Reporter

// Report calls every reporter even if some fail.
func (m Multi) Report(ctx context.Context, r Result) error {
	var errs []error
	for _, rep := range m {
		if err := rep.Report(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Async runs the wrapped reporter on its own goroutine with a timeout and
// returns immediately. Failures and panics are logged, never returned.
type Async struct {
	next    Reporter
	log     *log.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsync wraps next. A non-positive timeout means 5 seconds.
func NewAsync(next Reporter, logger *log.Logger, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Async{next: next, log: logger, timeout: timeout}
}

// Report schedules the submission and returns nil.
func (a *Async) Report(_ context.Context, r Result) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				a.log.Error("score reporter panicked", "panic", p, "session", r.SessionID)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.next.Report(ctx, r); err != nil {
			a.log.Warn("score report failed", "err", err, "session", r.SessionID)
		}
	}()
	return nil
}

// Wait blocks until every scheduled submission has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}

// Standard logs every result and, when url is set, also sends it to the
// collector in the background. wait blocks until pending sends finish.
func Standard(url string, logger *log.Logger, timeout time.Duration) (r Reporter, wait func()) {
	reporters := Multi{NewLogReporter(logger)}
	if url == "" {
		return reporters, func() {}
	}
	async := NewAsync(NewWebSocketReporter(url), logger, timeout)
	return append(reporters, async), async.Wait
}
