package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "test", "warn")
	if logger.GetLevel() != log.WarnLevel {
		t.Fatalf("Expected warn level, got %v", logger.GetLevel())
	}

	logger.Info("hidden")
	logger.Warn("shown", "score", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "score=3") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	logger := New(&bytes.Buffer{}, "", "chatty")
	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("Expected info level, got %v", logger.GetLevel())
	}
}

func TestNewEmptyLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "", "")
	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("Expected info level, got %v", logger.GetLevel())
	}
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug line should be filtered: %q", buf.String())
	}
}

func TestOpenFile(t *testing.T) {
	logger, closeFn, err := OpenFile("", "x", "")
	if err != nil || logger == nil {
		t.Fatalf("empty path: logger=%v err=%v", logger, err)
	}
	_ = closeFn()

	path := filepath.Join(t.TempDir(), "game.log")
	logger, closeFn, err = OpenFile(path, "game", "debug")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	logger.Debug("written")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "written") {
		t.Errorf("log file missing entry: %q", data)
	}
}
