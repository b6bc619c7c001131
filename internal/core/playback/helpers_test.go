package playback

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/skeletal/internal/core/skeletal"
)

const delta = 0.001

// newTestRig builds one animated bone under the root and a hand slot with
// two regions. Every animation lasts one second.
func newTestRig(t *testing.T) *skeletal.SkeletonData {
	t.Helper()
	b := skeletal.NewBuilder("rig")
	b.Bone("root", "", skeletal.Identity)
	b.Bone("bone", "root", skeletal.Identity)
	b.Slot("hand", "bone", "open")
	b.Region("default", "hand", "open", 4, 4)
	b.Region("default", "hand", "fist", 4, 4)
	b.Event("step")
	b.Event("land")

	b.Animation("a", func(a *skeletal.AnimationBuilder) {
		a.TranslateX("bone", skeletal.At(0, 10), skeletal.At(1, 10))
	})
	b.Animation("b", func(a *skeletal.AnimationBuilder) {
		a.TranslateX("bone", skeletal.At(0, 30), skeletal.At(1, 30))
	})
	b.Animation("walk", func(a *skeletal.AnimationBuilder) {
		a.TranslateX("bone", skeletal.At(0, 0), skeletal.At(1, 0))
		a.Events(skeletal.EventKey{Time: 0.25, Name: "step"}, skeletal.EventKey{Time: 0.75, Name: "land"})
	})
	b.Animation("wave", func(a *skeletal.AnimationBuilder) {
		a.Rotate("bone", skeletal.At(0, 0), skeletal.At(1, 90))
	})
	b.Animation("left", func(a *skeletal.AnimationBuilder) {
		a.Rotate("bone", skeletal.At(0, 170), skeletal.At(1, 170))
	})
	b.Animation("right", func(a *skeletal.AnimationBuilder) {
		a.Rotate("bone", skeletal.At(0, -170), skeletal.At(1, -170))
	})
	b.Animation("grab", func(a *skeletal.AnimationBuilder) {
		a.Attachment("hand", skeletal.AttachmentKey{Time: 0, Name: "fist"}, skeletal.AttachmentKey{Time: 1, Name: "fist"})
	})

	data, err := b.Build()
	require.NoError(t, err)
	return data
}

type rig struct {
	data     *skeletal.SkeletonData
	skeleton *skeletal.Skeleton
	state    *AnimationState
}

func newRig(t *testing.T) *rig {
	data := newTestRig(t)
	return &rig{
		data:     data,
		skeleton: skeletal.NewSkeleton(data),
		state:    NewAnimationState(NewAnimationStateData(data)),
	}
}

// step updates the state by dt and poses the skeleton.
func (r *rig) step(dt float32) {
	r.state.Update(dt)
	r.state.Apply(r.skeleton)
	r.skeleton.UpdateWorldTransform(skeletal.PhysicsUpdate)
}

func (r *rig) bone() *skeletal.Bone { return r.skeleton.FindBone("bone") }

func (r *rig) set(t *testing.T, track int, name string, loop bool) *TrackEntry {
	t.Helper()
	entry, err := r.state.SetAnimationByName(track, name, loop)
	require.NoError(t, err)
	return entry
}

func (r *rig) add(t *testing.T, track int, name string, loop bool, delay float32) *TrackEntry {
	t.Helper()
	entry, err := r.state.AddAnimationByName(track, name, loop, delay)
	require.NoError(t, err)
	return entry
}

func recordTypes(records []Record) []EventType {
	out := make([]EventType, len(records))
	for i, r := range records {
		out[i] = r.Type
	}
	return out
}
