package skeletal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const delta = 0.001

// newTestRig builds a root with an arm and a hand, a body slot with a
// region and a hand slot with two alternative regions.
func newTestRig(t *testing.T, animate func(b *Builder)) *SkeletonData {
	t.Helper()
	b := NewBuilder("rig")
	b.Bone("root", "", Identity)
	arm := b.Bone("arm", "root", Transform{X: 10, Rotation: 10, ScaleX: 1, ScaleY: 1})
	arm.Length = 20
	b.Bone("hand", "arm", Translation(20, 0))
	b.Slot("body", "root", "body")
	b.Slot("hand", "hand", "open")
	b.Region("default", "body", "body", 10, 20)
	b.Region("default", "hand", "open", 4, 4)
	b.Region("default", "hand", "fist", 3, 3)
	b.Event("step")
	if animate != nil {
		animate(b)
	}
	data, err := b.Build()
	require.NoError(t, err)
	return data
}

func apply(s *Skeleton, anim *Animation, time, alpha float32, blend MixBlend) {
	anim.Apply(s, time, time, false, nil, alpha, blend, MixIn)
}
