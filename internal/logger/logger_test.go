package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"skillswap/backend/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := logger.New(logger.Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := logger.New(logger.Options{Level: "debug", File: path, Production: true})
	require.NoError(t, err)

	l.Info("skill created", zap.String("skill_id", "s1"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"skill created"`)
	assert.Contains(t, string(data), `"skill_id":"s1"`)
}

func TestNew_LevelFilters(t *testing.T) {
	l, err := logger.New(logger.Options{Level: "warn"})
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestComponent_NilLoggerIsSafe(t *testing.T) {
	l := logger.Component(nil, "storage")
	assert.NotPanics(t, func() { l.Info("ignored") })
}

func TestNew_ConsoleGoesToStderr(t *testing.T) {
	dir := t.TempDir()
	stdout, err := os.Create(filepath.Join(dir, "stdout"))
	require.NoError(t, err)
	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	require.NoError(t, err)

	origOut, origErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = stdout, stderr
	t.Cleanup(func() { os.Stdout, os.Stderr = origOut, origErr })

	l, err := logger.New(logger.Options{Level: "info"})
	require.NoError(t, err)
	l.Warn("redis unavailable")
	_ = l.Sync()
	require.NoError(t, stdout.Close())
	require.NoError(t, stderr.Close())

	out, err := os.ReadFile(stdout.Name())
	require.NoError(t, err)
	errOut, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Contains(t, string(errOut), "redis unavailable")
}
