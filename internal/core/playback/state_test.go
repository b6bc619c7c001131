package playback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/skeletal/internal/core/skeletal"
)

func TestAnimationState_Crossfade(t *testing.T) {
	t.Run("Midpoint", func(t *testing.T) {
		r := newRig(t)
		r.set(t, 0, "a", true)
		r.step(0)
		require.InDelta(t, 10, r.bone().Local.X, delta)

		next := r.set(t, 0, "b", true)
		next.SetMixDuration(0.3)
		r.step(0.15)
		require.InDelta(t, 20, r.bone().Local.X, delta)

		r.step(0.15)
		r.step(0.01)
		require.InDelta(t, 30, r.bone().Local.X, delta)
		require.Nil(t, r.state.Current(0).MixingFrom())
	})

	t.Run("Held Entry Outlives Its Mix", func(t *testing.T) {
		r := newRig(t)
		first := r.set(t, 0, "a", true)
		r.step(0)
		second := r.set(t, 0, "b", true)
		second.SetMixDuration(0.2)
		r.step(0.1)
		third := r.set(t, 0, "walk", true)
		third.SetMixDuration(0.5)
		r.step(0.15)

		// second finished mixing in, but first still holds alpha under it.
		r.step(0.05)
		require.GreaterOrEqual(t, second.MixTime, second.MixDuration)
		require.Same(t, second, third.MixingFrom())
		require.Same(t, first, second.MixingFrom())
		r.state.Drain()

		// Once third is fully mixed in the whole chain ends together.
		r.step(0.5)
		r.step(0.01)
		require.Nil(t, third.MixingFrom())
		ends := 0
		for _, rec := range r.state.Drain() {
			if rec.Type == EventEnd {
				ends++
			}
		}
		require.Equal(t, 2, ends)
	})

	t.Run("Hard Cut", func(t *testing.T) {
		r := newRig(t)
		r.set(t, 0, "a", true)
		r.step(0)

		entry := r.set(t, 0, "b", true)
		require.Zero(t, entry.MixDuration)
		r.step(0.01)
		require.InDelta(t, 30, r.bone().Local.X, delta)
	})

	t.Run("Configured Mix On Dequeue", func(t *testing.T) {
		r := newRig(t)
		require.NoError(t, r.state.Data().SetMixByName("a", "b", 0.2))
		r.set(t, 0, "a", false)
		next := r.add(t, 0, "b", false, 0)
		require.InDelta(t, 0.2, next.MixDuration, delta)
		require.InDelta(t, 0.8, next.Delay, delta)

		r.step(0)
		r.step(0.5)
		r.step(0.4)
		require.Same(t, r.state.Current(0).Animation(), r.data.FindAnimation("a"))

		r.step(0.1)
		current := r.state.Current(0)
		require.Equal(t, "b", current.Animation().Name())
		require.Equal(t, "a", current.MixingFrom().Animation().Name())
		require.InDelta(t, 0.2, current.TrackTime, delta)
		require.InDelta(t, 0.1, current.MixTime, delta)
		// Half way through the mix.
		require.InDelta(t, 20, r.bone().Local.X, delta)
	})

	t.Run("Shortest Rotation Across 180", func(t *testing.T) {
		r := newRig(t)
		r.set(t, 0, "left", true)
		r.step(0)
		require.InDelta(t, 170, r.bone().Local.Rotation, delta)

		r.set(t, 0, "right", true).SetMixDuration(0.2)
		r.step(0.1)
		require.InDelta(t, 180, abs(skeletal.WrapDegrees(r.bone().Local.Rotation)), delta)
	})
}

func TestAnimationState_SetAnimationClearsQueue(t *testing.T) {
	r := newRig(t)
	first := r.set(t, 0, "a", true)
	queued1 := r.add(t, 0, "b", false, 0)
	queued2 := r.add(t, 0, "a", false, 0)
	require.Same(t, queued1, first.Next())
	require.Same(t, queued2, queued1.Next())
	require.Equal(t, []EventType{EventStart}, recordTypes(r.state.Drain()))

	replacement := r.set(t, 0, "b", false)
	require.Nil(t, replacement.Next())
	require.Nil(t, r.state.Current(0).Next())
	// The first entry was never applied, so there is nothing to mix from.
	require.Nil(t, replacement.MixingFrom())

	records := r.state.Drain()
	require.Equal(t, []EventType{
		EventInterrupt, EventEnd, EventDispose, EventDispose, EventDispose, EventStart,
	}, recordTypes(records))
	require.Same(t, first, records[2].Entry)
	require.Same(t, queued1, records[3].Entry)
	require.Same(t, queued2, records[4].Entry)
	require.Same(t, replacement, records[5].Entry)

	t.Run("Recycles Disposed Entries", func(t *testing.T) {
		require.Empty(t, r.state.Drain())
		entry, err := r.state.AddAnimationByName(1, "wave", false, 0)
		require.NoError(t, err)
		reused := false
		for _, old := range []*TrackEntry{first, queued1, queued2} {
			reused = reused || old == entry
		}
		require.True(t, reused)
		require.Equal(t, "wave", entry.Animation().Name())
		require.Equal(t, 1, entry.TrackIndex())
		require.Nil(t, entry.Next())
	})
}

func TestAnimationState_Records(t *testing.T) {
	t.Run("Events In Order With Complete", func(t *testing.T) {
		r := newRig(t)
		r.set(t, 0, "walk", true)
		r.step(0)
		require.Equal(t, []EventType{EventStart}, recordTypes(r.state.Drain()))

		r.step(0.5)
		records := r.state.Drain()
		require.Len(t, records, 1)
		require.Equal(t, EventEvent, records[0].Type)
		require.Equal(t, "step", records[0].Event.Name())

		r.step(0.6)
		records = r.state.Drain()
		require.Equal(t, []EventType{EventEvent, EventComplete}, recordTypes(records))
		require.Equal(t, "land", records[0].Event.Name())
	})

	t.Run("Reverse Fires No Events", func(t *testing.T) {
		r := newRig(t)
		r.set(t, 0, "walk", false).Reverse = true
		r.step(0)
		r.state.Drain()
		r.step(0.9)
		require.Equal(t, []EventType{}, recordTypes(r.state.Drain()))
	})

	t.Run("Type Names", func(t *testing.T) {
		names := []string{"start", "interrupt", "end", "complete", "dispose", "event"}
		for i, name := range names {
			require.Equal(t, name, EventType(i).String())
		}
	})
}

func TestAnimationState_EmptyAnimation(t *testing.T) {
	r := newRig(t)
	r.set(t, 0, "a", true)
	r.step(0)

	empty, err := r.state.SetEmptyAnimation(0, 0.5)
	require.NoError(t, err)
	require.True(t, empty.IsEmptyAnimation())
	r.state.Drain()

	r.step(0.25)
	require.InDelta(t, 5, r.bone().Local.X, delta)

	r.step(0.3)
	require.InDelta(t, 0, r.bone().Local.X, delta)

	r.step(0.1)
	r.step(0.1)
	require.Nil(t, r.state.Current(0))

	var ended []string
	for _, rec := range r.state.Drain() {
		if rec.Type == EventEnd {
			ended = append(ended, rec.Entry.String())
		}
	}
	require.Equal(t, []string{"a", "<empty>"}, ended)
}

func TestAnimationState_AddEmptyAnimation(t *testing.T) {
	r := newRig(t)
	r.set(t, 0, "a", false)
	entry, err := r.state.AddEmptyAnimation(0, 0.25, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.75, entry.Delay, delta)
	require.InDelta(t, 0.25, entry.TrackEnd, delta)
}

func TestAnimationState_Tracks(t *testing.T) {
	t.Run("Invalid Track", func(t *testing.T) {
		r := newRig(t)
		require.Nil(t, r.state.Current(3))
		require.Nil(t, r.state.Current(-1))

		_, err := r.state.SetAnimation(-1, r.data.FindAnimation("a"), false)
		require.ErrorIs(t, err, ErrInvalidTrack)
		_, err = r.state.AddAnimation(0, nil, false, 0)
		require.ErrorIs(t, err, ErrNilAnimation)
		_, err = r.state.SetAnimationByName(0, "missing", false)
		require.ErrorIs(t, err, ErrUnknownAnimation)
		require.ErrorIs(t, r.state.Data().SetMixByName("a", "missing", 1), ErrUnknownAnimation)
	})

	t.Run("Lazy Tracks", func(t *testing.T) {
		r := newRig(t)
		r.set(t, 2, "a", false)
		require.Len(t, r.state.Tracks(), 3)
		require.Nil(t, r.state.Current(1))
		require.NotNil(t, r.state.Current(2))
	})

	t.Run("Higher Track Wins", func(t *testing.T) {
		r := newRig(t)
		r.set(t, 0, "a", true)
		r.set(t, 1, "b", true)
		r.step(0)
		require.InDelta(t, 30, r.bone().Local.X, delta)

		r.state.Current(1).Alpha = 0.5
		r.step(0)
		require.InDelta(t, 20, r.bone().Local.X, delta)
	})

	t.Run("Clear Tracks", func(t *testing.T) {
		r := newRig(t)
		r.set(t, 0, "a", true)
		r.set(t, 1, "b", true)
		r.state.Drain()

		r.state.ClearTrack(5)
		r.state.ClearTracks()
		require.Empty(t, r.state.Tracks())
		require.Equal(t, []EventType{EventEnd, EventDispose, EventEnd, EventDispose}, recordTypes(r.state.Drain()))
		require.False(t, r.state.Apply(r.skeleton))
	})

	t.Run("Time Scale", func(t *testing.T) {
		r := newRig(t)
		entry := r.set(t, 0, "wave", false)
		r.state.TimeScale = 2
		entry.TimeScale = 0.5
		r.step(0.25)
		require.InDelta(t, 0.25, entry.TrackTime, delta)
	})

	t.Run("Delay", func(t *testing.T) {
		r := newRig(t)
		entry := r.add(t, 0, "a", false, 0.5)
		require.InDelta(t, 0.5, entry.Delay, delta)
		r.step(0.25)
		require.InDelta(t, 0, r.bone().Local.X, delta)
		r.step(0.5)
		require.InDelta(t, 10, r.bone().Local.X, delta)
		require.InDelta(t, 0.25, entry.TrackTime, delta)
	})

	t.Run("Track End", func(t *testing.T) {
		r := newRig(t)
		r.set(t, 0, "a", false).TrackEnd = 0.5
		r.step(0)
		r.step(0.6)
		r.step(0.1)
		require.Nil(t, r.state.Current(0))
	})
}

func TestAnimationState_Attachments(t *testing.T) {
	r := newRig(t)
	hand := r.skeleton.FindSlot("hand")

	r.set(t, 0, "grab", true)
	r.step(0)
	require.Equal(t, "fist", hand.Attachment().Name())

	// While grab mixes out its attachment is no longer applied, so the
	// slot goes back to its setup attachment.
	r.set(t, 0, "a", true).SetMixDuration(0.2)
	r.step(0.1)
	require.Equal(t, "open", hand.Attachment().Name())
}

func TestTrackEntry_Timing(t *testing.T) {
	r := newRig(t)
	entry := r.set(t, 0, "wave", true)

	require.InDelta(t, 1, entry.TrackComplete(), delta)
	entry.TrackTime = 2.5
	require.InDelta(t, 0.5, entry.AnimationTime(), delta)
	require.InDelta(t, 3, entry.TrackComplete(), delta)
	require.True(t, entry.IsComplete())

	entry.Loop = false
	require.InDelta(t, 1, entry.AnimationTime(), delta)
	require.InDelta(t, 2.5, entry.TrackComplete(), delta)

	entry.AnimationStart, entry.AnimationEnd = 0.25, 0.75
	entry.Loop = true
	entry.TrackTime = 0.6
	require.InDelta(t, 0.35, entry.AnimationTime(), delta)

	require.False(t, entry.WasApplied())
	r.step(0)
	require.True(t, entry.WasApplied())

	next := r.add(t, 0, "a", false, 0)
	next.SetMixDurationWithDelay(0.25, 0)
	require.InDelta(t, entry.TrackComplete()-0.25, next.Delay, delta)
}

func TestAnimationState_ContractViolation(t *testing.T) {
	// A rig with fewer bones and slots than the animations expect.
	b := skeletal.NewBuilder("small")
	b.Bone("root", "", skeletal.Identity)
	small, err := b.Build()
	require.NoError(t, err)

	requireContractError := func(t *testing.T, kind string, fn func()) {
		t.Helper()
		defer func() {
			r := recover()
			require.NotNil(t, r)
			var ce *skeletal.ContractError
			require.True(t, errors.As(r.(error), &ce), "%T", r)
			require.Equal(t, kind, ce.Kind)
			require.ErrorIs(t, ce, skeletal.ErrDataContract)
		}()
		fn()
	}

	t.Run("Attachment Timeline", func(t *testing.T) {
		data := newTestRig(t)
		state := NewAnimationState(NewAnimationStateData(data))
		_, err := state.SetAnimation(0, data.FindAnimation("grab"), true)
		require.NoError(t, err)
		state.Update(0.1)

		requireContractError(t, "slot", func() { state.Apply(skeletal.NewSkeleton(small)) })
	})

	t.Run("Mixed Rotation", func(t *testing.T) {
		data := newTestRig(t)
		state := NewAnimationState(NewAnimationStateData(data))
		entry, err := state.SetAnimation(0, data.FindAnimation("wave"), true)
		require.NoError(t, err)
		entry.Alpha = 0.5
		state.Update(0.1)

		requireContractError(t, "bone", func() { state.Apply(skeletal.NewSkeleton(small)) })
	})
}

func TestAnimationState_SetTimeScale(t *testing.T) {
	r := newRig(t)
	entry := r.set(t, 0, "wave", true)

	r.state.SetTimeScale(2)
	require.InDelta(t, 2, r.state.TimeScale, delta)
	r.step(0.25)
	require.InDelta(t, 0.5, entry.TrackTime, delta)
	require.InDelta(t, 45, r.bone().Local.Rotation, delta)

	r.state.SetTimeScale(0)
	r.step(1)
	require.InDelta(t, 0.5, entry.TrackTime, delta)
}
