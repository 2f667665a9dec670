package main

import (
	"path/filepath"
	"testing"

	"github.com/tomz197/droptap/internal/config"
)

func TestRunReturnsExitCodeOnBadConfig(t *testing.T) {
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	if code := run(); code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
}
