package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewCreatesDirAndWritesPlainText(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	l, cleanup, err := New(Options{Dir: dir, Level: "info"})
	require.NoError(t, err)

	l.Info("saved headers to file", zap.Int("count", 3))
	l.Debug("hidden at info level")
	cleanup()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, " - INFO - saved headers to file")
	assert.Contains(t, out, `"count": 3`)
	assert.NotContains(t, out, "hidden at info level")
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	dir := t.TempDir()

	l, cleanup, err := New(Options{Dir: dir, Level: "loud"})
	require.NoError(t, err)
	l.Debug("debug line")
	l.Warn("warn line")
	cleanup()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "debug line")
	assert.Contains(t, string(data), "WARN - warn line")
}
