package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewFromCore(core), logs
}

func TestLogger_Levels(t *testing.T) {
	logger, logs := newObserved(zapcore.DebugLevel)

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, logs := newObserved(zapcore.WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("visible")

	assert.Equal(t, 1, logs.Len())
}

func TestLogger_Fields(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	logger.Info("search finished",
		String("smarts", "c1ccccc1"),
		Int("matches", 2),
		Bool("unique", true),
		Duration("elapsed", 5*time.Millisecond),
		Err(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "c1ccccc1", fields["smarts"])
	assert.Equal(t, int64(2), fields["matches"])
	assert.Equal(t, true, fields["unique"])
	assert.Equal(t, "boom", fields["error"])
}

func TestLogger_With(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	child := logger.With(String("component", "search"))
	child.Info("one")
	logger.Info("two")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "search", entries[0].ContextMap()["component"])
	assert.NotContains(t, entries[1].ContextMap(), "component")
}

func TestLogger_Named(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	logger.Named("helium").Named("http").Info("request")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "helium.http", logs.All()[0].LoggerName)
}

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, logger)

	console, err := New(Config{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, console)
}

func TestDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	logger, _ := newObserved(zapcore.InfoLevel)
	SetDefault(logger)
	assert.Equal(t, logger, Default())

	SetDefault(nil) // ignored
	assert.Equal(t, logger, Default())
}

func TestNewNop(t *testing.T) {
	nop := NewNop()
	nop.Info("discarded", String("k", "v"))
	assert.Equal(t, nop, nop.With(String("k", "v")))
	assert.Equal(t, nop, nop.Named("x"))
}
