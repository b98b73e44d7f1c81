package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueFields(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core)).With("component", "lifecycle")

	logger.Warn("announce teams failed", "game_id", "game-1", "attempt", 2, "error", errors.New("store down"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "lifecycle", fields["component"])
	require.Equal(t, "game-1", fields["game_id"])
	require.EqualValues(t, 2, fields["attempt"])
	require.Equal(t, "store down", fields["error"])
}

func TestLogger_OddArgsAndNilReceiver(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core))

	logger.Info("dangling", "game_id")
	require.Len(t, logs.All(), 1)
	_, ok := logs.All()[0].ContextMap()["game_id"]
	require.True(t, ok)

	var nilLogger *Logger
	nilLogger.Info("does not panic")
}
