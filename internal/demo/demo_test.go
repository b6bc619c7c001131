package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/skeletal/internal/core/events/bus"
	"github.com/zeusync/skeletal/internal/core/instance"
	"github.com/zeusync/skeletal/internal/core/observability/log"
	"github.com/zeusync/skeletal/internal/core/playback"
	"github.com/zeusync/skeletal/internal/core/skeletal"
)

func TestRig(t *testing.T) {
	data, err := Rig()
	require.NoError(t, err)

	t.Run("Contents", func(t *testing.T) {
		require.Equal(t, Name, data.Name)
		require.NotNil(t, data.FindIkConstraint(ArmIK))
		require.NotNil(t, data.FindSkin(SkinArmored))
		for _, name := range []string{AnimIdle, AnimWalk, AnimWave} {
			require.NotNil(t, data.FindAnimation(name), name)
		}
		require.InDelta(t, 1.2, data.FindAnimation(AnimWave).Duration(), 1e-6)
	})

	t.Run("Hand Reaches Target", func(t *testing.T) {
		skeleton := skeletal.NewSkeleton(data)
		skeleton.UpdateWorldTransform(skeletal.PhysicsPose)

		hand, target := skeleton.FindBone("hand"), skeleton.FindBone("arm_target")
		require.InDelta(t, target.WorldX, hand.WorldX, 0.05)
		require.InDelta(t, target.WorldY, hand.WorldY, 0.05)
		require.Equal(t, "hand_fist", skeleton.FindSlot("hand").Attachment().Name())
	})
}

func TestDirect(t *testing.T) {
	data, err := Rig()
	require.NoError(t, err)
	m := instance.NewManager(bus.New(), log.Nop(), instance.Options{})

	first, err := m.Add(data, nil)
	require.NoError(t, err)
	second, err := m.Add(data, nil)
	require.NoError(t, err)
	require.NoError(t, Direct(m, first, 0))
	require.NoError(t, Direct(m, second, 1))

	var footsteps []string
	waves := 0
	_, err = m.Bus().SubscribeTopic(first.ID, playback.EventEvent.String(), func(e bus.Event) error {
		r, _ := instance.RecordOf(e)
		switch r.Event.Name() {
		case EventFootstep:
			footsteps = append(footsteps, r.Event.String)
		case EventWave:
			waves++
		}
		return nil
	})
	require.NoError(t, err)

	for n := 0; n < 90; n++ {
		require.NoError(t, m.Tick(context.Background(), 1.0/30))
	}

	require.GreaterOrEqual(t, len(footsteps), 5)
	require.Equal(t, []string{"left", "right"}, footsteps[:2])
	require.Equal(t, 1, waves)

	require.NoError(t, first.Do(func(skeleton *skeletal.Skeleton, state *playback.AnimationState) error {
		wave := state.Current(waveTrack)
		require.NotNil(t, wave)
		require.True(t, wave.IsEmptyAnimation())
		require.NotNil(t, wave.Next())
		require.Equal(t, AnimWave, wave.Next().Animation().Name())
		require.Equal(t, "default", skeletonSkin(skeleton))
		return nil
	}))
	require.NoError(t, second.Do(func(skeleton *skeletal.Skeleton, _ *playback.AnimationState) error {
		require.Equal(t, SkinArmored, skeletonSkin(skeleton))
		return nil
	}))
}

func skeletonSkin(s *skeletal.Skeleton) string {
	if s.Skin() == nil {
		return "default"
	}
	return s.Skin().Name()
}
