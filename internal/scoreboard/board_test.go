package scoreboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tomz197/droptap/internal/logging"
	"github.com/tomz197/droptap/internal/report"
)

func TestRecordKeepsNewestFirst(t *testing.T) {
	b := NewBoard(3, logging.Discard())
	for i := 1; i <= 5; i++ {
		b.Record(report.Result{Score: i})
	}

	if b.Len() != 3 {
		t.Fatalf("Expected 3 results, got %d", b.Len())
	}
	got := b.Recent(10)
	for i, want := range []int{5, 4, 3} {
		if got[i].Score != want {
			t.Errorf("Expected score %d at %d, got %d", want, i, got[i].Score)
		}
	}
	if n := len(b.Recent(2)); n != 2 {
		t.Errorf("Expected 2 results, got %d", n)
	}
	if n := len(b.Recent(-1)); n != 0 {
		t.Errorf("Expected 0 results, got %d", n)
	}
}

func TestRecentReturnsCopy(t *testing.T) {
	b := NewBoard(2, logging.Discard())
	b.Record(report.Result{Score: 1})

	got := b.Recent(1)
	got[0].Score = 99
	if b.Recent(1)[0].Score != 1 {
		t.Error("Expected Recent to return a copy")
	}
}

func TestServeWSRecordsReportedResult(t *testing.T) {
	b := NewBoard(10, logging.Discard())
	srv := httptest.NewServer(httpHandler(b))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	want := report.Result{Score: 7, SessionID: "abc", GameID: 42, Duration: 30}
	if err := report.NewWebSocketReporter(url).Report(ctx, want); err != nil {
		t.Fatalf("Report: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for b.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	got := b.Recent(1)
	if len(got) != 1 || got[0].Score != 7 || got[0].SessionID != "abc" {
		t.Errorf("Expected recorded result, got %+v", got)
	}
}

func TestServeWSSkipsBadFrames(t *testing.T) {
	b := NewBoard(10, logging.Discard())
	srv := httptest.NewServer(httpHandler(b))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	_ = conn.WriteMessage(websocket.TextMessage, []byte("hello"))
	_ = conn.WriteMessage(websocket.BinaryMessage, []byte{0xc1})
	data, _ := report.Encode(report.Result{Score: 3})
	_ = conn.WriteMessage(websocket.BinaryMessage, data)

	deadline := time.Now().Add(2 * time.Second)
	for b.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if b.Len() != 1 || b.Recent(1)[0].Score != 3 {
		t.Errorf("Expected only the valid frame recorded, got %+v", b.Recent(10))
	}
}

func TestBoardAsReporter(t *testing.T) {
	b := NewBoard(1, logging.Discard())
	var r report.Reporter = b
	if err := r.Report(context.Background(), report.Result{Score: 2}); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 1 {
		t.Errorf("Expected 1 result, got %d", b.Len())
	}
}

func httpHandler(b *Board) http.Handler { return http.HandlerFunc(b.ServeWS) }
