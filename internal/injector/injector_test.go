package injector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/skeletal/internal/core/config"
	"github.com/zeusync/skeletal/internal/core/observability/log"
	"github.com/zeusync/skeletal/internal/demo"
)

func TestInitializeApp(t *testing.T) {
	t.Run("Start And Stop", func(t *testing.T) {
		cfg := config.Default()
		cfg.Log.Level = log.LevelSilent
		cfg.Manager.Instances = 3
		cfg.Server.ListenAddr = "127.0.0.1:0"
		cfg.Playback.Mixes = []config.Mix{{From: demo.AnimWalk, To: demo.AnimWave, Duration: 0.4}}

		app, err := InitializeApp(cfg)
		require.NoError(t, err)
		require.InDelta(t, 0.4, app.StateData.Mix(app.Data.FindAnimation(demo.AnimWalk), app.Data.FindAnimation(demo.AnimWave)), 1e-6)

		require.NoError(t, app.Start(context.Background()))
		require.Equal(t, 3, app.Manager.Len())
		require.NotNil(t, app.Server.Addr())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, app.Stop(ctx))
		require.NoError(t, app.Stop(ctx))
	})

	t.Run("Unknown Mix", func(t *testing.T) {
		cfg := config.Default()
		cfg.Log.Level = log.LevelSilent
		cfg.Playback.Mixes = []config.Mix{{From: demo.AnimWalk, To: "run", Duration: 0.4}}

		_, err := InitializeApp(cfg)
		require.Error(t, err)
	})
}
