package playback

import (
	"fmt"

	"github.com/zeusync/skeletal/internal/core/skeletal"
)

type mixKey struct {
	from, to *skeletal.Animation
}

// AnimationStateData holds the crossfade durations used when one
// animation replaces another on a track. It is shared by any number of
// AnimationStates and must not be modified while they update.
type AnimationStateData struct {
	skeletonData *skeletal.SkeletonData
	mixes        map[mixKey]float32
	// DefaultMix is used for pairs without an explicit duration.
	DefaultMix float32
}

func NewAnimationStateData(data *skeletal.SkeletonData) *AnimationStateData {
	return &AnimationStateData{skeletonData: data, mixes: make(map[mixKey]float32)}
}

func (d *AnimationStateData) SkeletonData() *skeletal.SkeletonData { return d.skeletonData }

// SetMixByName sets the mix duration between two animations of the
// skeleton data, looked up by name.
func (d *AnimationStateData) SetMixByName(from, to string, duration float32) error {
	a := d.skeletonData.FindAnimation(from)
	if a == nil {
		return fmt.Errorf("%w: %q", ErrUnknownAnimation, from)
	}
	b := d.skeletonData.FindAnimation(to)
	if b == nil {
		return fmt.Errorf("%w: %q", ErrUnknownAnimation, to)
	}
	d.SetMix(a, b, duration)
	return nil
}

func (d *AnimationStateData) SetMix(from, to *skeletal.Animation, duration float32) {
	d.mixes[mixKey{from, to}] = duration
}

// Mix returns the duration to crossfade from one animation to another,
// or DefaultMix when the pair has none.
func (d *AnimationStateData) Mix(from, to *skeletal.Animation) float32 {
	if duration, ok := d.mixes[mixKey{from, to}]; ok {
		return duration
	}
	return d.DefaultMix
}
