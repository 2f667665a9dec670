package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/droptap/internal/logging"
	"github.com/tomz197/droptap/internal/report"
	"github.com/tomz197/droptap/internal/scoreboard"
)

func getPage(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestIndexListsScores(t *testing.T) {
	board := scoreboard.NewBoard(10, logging.Discard())
	srv := httptest.NewServer(routes(board, "play.example", logging.Discard()))
	defer srv.Close()

	status, body := getPage(t, srv, "/")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if !strings.Contains(body, "No games reported yet") || !strings.Contains(body, "play.example") {
		t.Errorf("Unexpected empty page: %s", body)
	}

	board.Record(report.Result{Score: 17, SessionID: "abc-123", GameID: 42, At: time.Unix(1700000000, 0)})
	_, body = getPage(t, srv, "/")
	if !strings.Contains(body, "abc-123") || !strings.Contains(body, ">17<") {
		t.Errorf("Expected score row, got %s", body)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	board := scoreboard.NewBoard(10, logging.Discard())
	srv := httptest.NewServer(routes(board, "", logging.Discard()))
	defer srv.Close()

	if status, _ := getPage(t, srv, "/nope"); status != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", status)
	}
}

func TestCollectorRoute(t *testing.T) {
	board := scoreboard.NewBoard(10, logging.Discard())
	srv := httptest.NewServer(routes(board, "", logging.Discard()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scores"
	if err := report.NewWebSocketReporter(url).Report(t.Context(), report.Result{Score: 3, SessionID: "s"}); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for board.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := board.Recent(1); len(got) != 1 || got[0].Score != 3 {
		t.Errorf("Expected recorded score 3, got %+v", got)
	}
}
