package logging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerLogsWithoutPanicking(t *testing.T) {
	l := Default()
	l.Info("starting run", "scheduler", "async")
	l.With("component", "verifier").Warn("tool not found")
}

func TestFileLoggingWritesToConfiguredDir(t *testing.T) {
	dir := t.TempDir()
	l := New(Config{Level: LevelDebug, LogDir: dir, Service: "verifier", Quiet: true})
	defer l.Close()
	l.Debug("probing toolchain")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}
