package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/skeletal/internal/core/observability/log"
	"github.com/zeusync/skeletal/internal/core/playback"
	"github.com/zeusync/skeletal/internal/core/skeletal"
)

const sample = `
log:
  level: debug
playback:
  default_mix: 0.1
  time_scale: 1.5
  mixes:
    - from: walk
      to: wave
      duration: 0.4
manager:
  workers: 4
  instances: 3
server:
  listen_addr: 127.0.0.1:9000
  tick_rate: 50ms
`

func TestLoad(t *testing.T) {
	t.Run("Document", func(t *testing.T) {
		c, err := Load(strings.NewReader(sample))
		require.NoError(t, err)
		require.Equal(t, log.LevelDebug, c.Level())
		require.InDelta(t, 0.1, c.Playback.DefaultMix, 1e-6)
		require.InDelta(t, 1.5, c.Playback.TimeScale, 1e-6)
		require.Equal(t, []Mix{{From: "walk", To: "wave", Duration: 0.4}}, c.Playback.Mixes)
		require.Equal(t, 4, c.Manager.Workers)
		require.Equal(t, 3, c.Manager.Instances)
		require.Equal(t, "127.0.0.1:9000", c.Server.ListenAddr)
		require.Equal(t, 50*time.Millisecond, c.Server.TickRate)
		// Not in the document.
		require.Equal(t, Default().Server.WriteTimeout, c.Server.WriteTimeout)
	})

	t.Run("Empty Is Default", func(t *testing.T) {
		c, err := Load(strings.NewReader(""))
		require.NoError(t, err)
		require.Equal(t, Default(), c)
	})

	t.Run("Unknown Key", func(t *testing.T) {
		_, err := Load(strings.NewReader("server:\n  port: 80\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Bad Level", func(t *testing.T) {
		_, err := Load(strings.NewReader("log:\n  level: loud\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Invalid Values", func(t *testing.T) {
		_, err := Load(strings.NewReader("server:\n  tick_rate: 0s\nplayback:\n  mixes:\n    - from: walk\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.ErrorContains(t, err, "tick_rate")
		require.ErrorContains(t, err, "mixes[0]")
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, c.Manager.Instances)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_ApplyMixes(t *testing.T) {
	b := skeletal.NewBuilder("rig")
	b.Bone("root", "", skeletal.Identity)
	walk := b.Animation("walk", func(a *skeletal.AnimationBuilder) {
		a.Rotate("root", skeletal.At(0, 0), skeletal.At(1, 10))
	})
	wave := b.Animation("wave", func(a *skeletal.AnimationBuilder) {
		a.Rotate("root", skeletal.At(0, 0), skeletal.At(1, -10))
	})
	data, err := b.Build()
	require.NoError(t, err)

	c, err := Load(strings.NewReader(sample))
	require.NoError(t, err)
	stateData := playback.NewAnimationStateData(data)
	require.NoError(t, c.ApplyMixes(stateData))
	require.InDelta(t, 0.4, stateData.Mix(walk, wave), 1e-6)
	require.InDelta(t, 0.1, stateData.Mix(wave, walk), 1e-6)

	c.Playback.Mixes = append(c.Playback.Mixes, Mix{From: "walk", To: "run", Duration: 1})
	require.ErrorIs(t, c.ApplyMixes(stateData), playback.ErrUnknownAnimation)
}
