package log

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"", LevelInfo},
		{"INFO", LevelInfo},
		{" warning ", LevelWarn},
		{"error", LevelError},
		{"off", LevelSilent},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)

	var l Level
	require.NoError(t, l.UnmarshalText([]byte("warn")))
	require.Equal(t, LevelWarn, l)
	text, err := l.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "warn", string(text))
}

func TestLogger_Observer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core, LevelInfo)

	t.Run("Level Filter", func(t *testing.T) {
		logger.Debug("hidden")
		logger.Info("shown", Int("bones", 3))
		require.Equal(t, 1, logs.Len())
		entry := logs.TakeAll()[0]
		require.Equal(t, "shown", entry.Message)
		require.EqualValues(t, 3, entry.ContextMap()["bones"])
	})

	t.Run("Set Level", func(t *testing.T) {
		logger.SetLevel(LevelDebug)
		require.Equal(t, LevelDebug, logger.GetLevel())
		logger.Log(LevelDebug, "now shown")
		require.Equal(t, 1, logs.Len())
		logs.TakeAll()

		logger.SetLevel(LevelSilent)
		logger.Error("dropped")
		require.Zero(t, logs.Len())
		logger.SetLevel(LevelInfo)
	})

	t.Run("Child Fields", func(t *testing.T) {
		child := logger.With(Instance("abc"), Component("manager"))
		child.Warn("tick failed", Error(errors.New("boom")), Float32("delta", 0.5))
		entry := logs.TakeAll()[0]
		fields := entry.ContextMap()
		require.Equal(t, "abc", fields["instance"])
		require.Equal(t, "manager", fields["component"])
		require.Equal(t, "boom", fields["error"])
	})

	t.Run("Context Fields", func(t *testing.T) {
		ctx := ContextWithFields(context.Background(), String("client", "10.0.0.1"))
		logger.WithContext(ctx).Info("connected")
		require.Equal(t, "10.0.0.1", logs.TakeAll()[0].ContextMap()["client"])

		require.Same(t, logger, logger.WithContext(context.Background()))
	})
}

func TestProvide(t *testing.T) {
	require.NotNil(t, Provide())
	Nop().Error("nothing happens")
}
