package core

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Given: a ZapLogger wrapping a zap.Logger with an observer core
// When: Info/Warn/Error are called with fields
// Then: the underlying zap.Logger receives the message and fields
// unmodified
func TestZapLogger_DelegatesToZap(t *testing.T) {
	r := require.New(t)
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Info("task started", F("task_id", "abc-123"), F("priority", 2))
	logger.Warn("queue backing up", F("depth", 42))
	logger.Error("task panicked", F("panic", "boom"))

	entries := logs.All()
	r.Len(entries, 3)

	r.Equal(zapcore.InfoLevel, entries[0].Level)
	r.Equal("task started", entries[0].Message)
	r.Equal("abc-123", entries[0].ContextMap()["task_id"])
	r.EqualValues(2, entries[0].ContextMap()["priority"])

	r.Equal(zapcore.WarnLevel, entries[1].Level)
	r.EqualValues(42, entries[1].ContextMap()["depth"])

	r.Equal(zapcore.ErrorLevel, entries[2].Level)
	r.Equal("boom", entries[2].ContextMap()["panic"])
}

// Given: a ZapLogger constructed with a nil *zap.Logger
// When: its methods are called
// Then: it falls back to a no-op logger instead of panicking
func TestZapLogger_NilFallsBackToNop(t *testing.T) {
	logger := NewZapLogger(nil)
	logger.Debug("should not panic")
	logger.Info("should not panic")
	logger.Warn("should not panic")
	logger.Error("should not panic")
}

// Given: the package-wide default Logger
// When: SetDefaultLogger installs a ZapLogger backed by an observer
// Then: DefaultRejectedTaskHandler's logging reaches it
func TestSetDefaultLogger_ZapLogger(t *testing.T) {
	r := require.New(t)
	core, logs := observer.New(zapcore.DebugLevel)
	previous := defaultLogger
	defer SetDefaultLogger(previous)

	SetDefaultLogger(NewZapLogger(zap.New(core)))

	handler := &DefaultRejectedTaskHandler{}
	handler.HandleRejected("scheduler_closed")

	entries := logs.All()
	r.Len(entries, 1)
	r.Equal("task rejected", entries[0].Message)
	r.Equal("scheduler_closed", entries[0].ContextMap()["reason"])
}
