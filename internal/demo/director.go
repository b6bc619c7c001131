package demo

import (
	"fmt"

	"github.com/zeusync/skeletal/internal/core/events/bus"
	"github.com/zeusync/skeletal/internal/core/instance"
	"github.com/zeusync/skeletal/internal/core/playback"
	"github.com/zeusync/skeletal/internal/core/skeletal"
)

const (
	walkTrack = 0
	waveTrack = 1

	// WavePause is the time between the end of a wave and the next one.
	WavePause  = 2
	waveMixOut = 0.3
)

// Direct starts the demo loop on inst: a looping walk on track 0 with a
// wave layered on track 1 that is queued again every time it completes.
// Instances are staggered by n so they do not move in lockstep, and odd
// instances wear the armored skin.
func Direct(m *instance.Manager, inst *instance.Instance, n int) error {
	err := inst.Do(func(skeleton *skeletal.Skeleton, state *playback.AnimationState) error {
		if n%2 == 1 {
			if err := skeleton.SetSkinByName(SkinArmored); err != nil {
				return err
			}
		}
		walk, err := state.SetAnimationByName(walkTrack, AnimWalk, true)
		if err != nil {
			return err
		}
		walk.TrackTime = float32(n) * 0.17
		_, err = state.AddAnimationByName(waveTrack, AnimWave, false, 0.5+float32(n%4)*0.4)
		return err
	})
	if err != nil {
		return fmt.Errorf("direct %s: %w", inst.ID, err)
	}

	_, err = m.Bus().SubscribeTopic(inst.ID, playback.EventComplete.String(), func(e bus.Event) error {
		r, ok := instance.RecordOf(e)
		if !ok || r.Entry.TrackIndex() != waveTrack || r.Entry.Animation().Name() != AnimWave {
			return nil
		}
		return inst.Do(func(_ *skeletal.Skeleton, state *playback.AnimationState) error {
			if _, err := state.AddEmptyAnimation(waveTrack, waveMixOut, 0); err != nil {
				return err
			}
			_, err := state.AddAnimationByName(waveTrack, AnimWave, false, WavePause)
			return err
		})
	})
	return err
}
