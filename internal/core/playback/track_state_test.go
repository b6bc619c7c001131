package playback

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/skeletal/internal/core/skeletal"
)

func TestTrackState_Restore(t *testing.T) {
	src := newRig(t)
	src.set(t, 0, "wave", true)
	src.step(0)
	src.step(0.37)
	src.step(0.9)

	state := src.state.Current(0).State()
	require.Equal(t, "wave", state.Animation)
	require.InDelta(t, 1.27, state.TrackTime, delta)

	raw, err := state.Serialize()
	require.NoError(t, err)

	var decoded TrackState
	require.NoError(t, decoded.Deserialize(raw))
	require.Equal(t, state, decoded)

	t.Run("Same Pose", func(t *testing.T) {
		dst := newRig(t)
		entry := dst.set(t, 0, decoded.Animation, false)
		entry.Restore(decoded)
		require.True(t, entry.Loop)

		dst.state.Apply(dst.skeleton)
		dst.skeleton.UpdateWorldTransform(skeletal.PhysicsUpdate)
		require.InDelta(t, src.bone().Local.Rotation, dst.bone().Local.Rotation, delta)
		require.Equal(t, src.skeleton.PoseDigest(), dst.skeleton.PoseDigest())
	})

	t.Run("Continues In Step", func(t *testing.T) {
		dst := newRig(t)
		dst.set(t, 0, decoded.Animation, true).Restore(decoded)
		dst.state.Apply(dst.skeleton)
		dst.state.Drain()
		src.state.Drain()

		src.step(0.8)
		dst.step(0.8)
		require.Equal(t, src.skeleton.PoseDigest(), dst.skeleton.PoseDigest())
		require.Equal(t, recordTypes(src.state.Drain()), recordTypes(dst.state.Drain()))
	})

	t.Run("Corrupt Data", func(t *testing.T) {
		var s TrackState
		require.Error(t, s.Deserialize([]byte("not gob")))
	})
}
