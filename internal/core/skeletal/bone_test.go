package skeletal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBone_WorldTransform(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		s := NewSkeleton(newTestRig(t, nil))
		s.FindBone("root").Local.Rotation = 33
		s.FindBone("hand").Local.ScaleX = 1.7

		s.UpdateWorldTransform(PhysicsNone)
		first := make([][6]float32, len(s.Bones()))
		for i, b := range s.Bones() {
			first[i] = [6]float32{b.A, b.B, b.C, b.D, b.WorldX, b.WorldY}
		}
		digest := s.PoseDigest()

		s.UpdateWorldTransform(PhysicsNone)
		for i, b := range s.Bones() {
			require.Equal(t, first[i], [6]float32{b.A, b.B, b.C, b.D, b.WorldX, b.WorldY})
		}
		require.Equal(t, digest, s.PoseDigest())
	})

	t.Run("Chain", func(t *testing.T) {
		s := NewSkeleton(newTestRig(t, nil))
		s.FindBone("arm").Local.Rotation = 90
		s.UpdateWorldTransform(PhysicsNone)

		hand := s.FindBone("hand")
		require.InDelta(t, 10, hand.WorldX, delta)
		require.InDelta(t, 20, hand.WorldY, delta)
		require.InDelta(t, 90, hand.WorldRotationX(), delta)
	})

	t.Run("No Scale", func(t *testing.T) {
		b := NewBuilder("noscale")
		b.Bone("root", "", Transform{ScaleX: 2, ScaleY: 2})
		b.Bone("child", "root", Translation(10, 0)).Inherit = InheritNoScale
		data, err := b.Build()
		require.NoError(t, err)

		s := NewSkeleton(data)
		s.UpdateWorldTransform(PhysicsNone)
		child := s.FindBone("child")
		require.InDelta(t, 20, child.WorldX, delta)
		require.InDelta(t, 0, child.WorldY, delta)
		require.InDelta(t, 1, child.WorldScaleX(), delta)
		require.InDelta(t, 1, child.WorldScaleY(), delta)
	})

	t.Run("Only Translation", func(t *testing.T) {
		b := NewBuilder("translation")
		b.Bone("root", "", Transform{Rotation: 90, ScaleX: 3, ScaleY: 3})
		b.Bone("child", "root", Translation(10, 0)).Inherit = InheritOnlyTranslation
		data, err := b.Build()
		require.NoError(t, err)

		s := NewSkeleton(data)
		s.UpdateWorldTransform(PhysicsNone)
		child := s.FindBone("child")
		require.InDelta(t, 0, child.WorldX, delta)
		require.InDelta(t, 30, child.WorldY, delta)
		require.InDelta(t, 0, child.WorldRotationX(), delta)
		require.InDelta(t, 1, child.WorldScaleX(), delta)
	})

	t.Run("No Rotation Or Reflection", func(t *testing.T) {
		b := NewBuilder("norotation")
		b.Bone("root", "", Transform{Rotation: 45, ScaleX: 1, ScaleY: 1})
		b.Bone("child", "root", Translation(10, 0)).Inherit = InheritNoRotationOrReflection
		data, err := b.Build()
		require.NoError(t, err)

		s := NewSkeleton(data)
		s.UpdateWorldTransform(PhysicsNone)
		child := s.FindBone("child")
		require.InDelta(t, 0, child.WorldRotationX(), delta)
		require.InDelta(t, 7.0711, child.WorldX, delta)
		require.InDelta(t, 7.0711, child.WorldY, delta)
	})

	t.Run("Skeleton Scale And Position", func(t *testing.T) {
		s := NewSkeleton(newTestRig(t, nil))
		s.X, s.Y = 100, 50
		s.ScaleY = -1
		s.FindBone("arm").Local.Rotation = 90
		s.UpdateWorldTransform(PhysicsNone)

		hand := s.FindBone("hand")
		require.InDelta(t, 110, hand.WorldX, delta)
		require.InDelta(t, 30, hand.WorldY, delta)
	})
}

func TestBone_Conversions(t *testing.T) {
	s := NewSkeleton(newTestRig(t, nil))
	arm := s.FindBone("arm")
	arm.Local = Transform{X: 5, Y: -3, Rotation: 30, ScaleX: 1.5, ScaleY: 0.5, ShearY: 10}
	s.UpdateWorldTransform(PhysicsNone)

	t.Run("World And Local Round Trip", func(t *testing.T) {
		wx, wy := arm.LocalToWorld(7, 2)
		lx, ly := arm.WorldToLocal(wx, wy)
		require.InDelta(t, 7, lx, delta)
		require.InDelta(t, 2, ly, delta)

		px, py := arm.WorldToParent(wx, wy)
		wx2, wy2 := arm.ParentToWorld(px, py)
		require.InDelta(t, wx, wx2, delta)
		require.InDelta(t, wy, wy2, delta)
	})

	t.Run("Rotation Round Trip", func(t *testing.T) {
		world := arm.LocalToWorldRotation(40)
		require.InDelta(t, 40, arm.WorldToLocalRotation(world), 0.01)
	})

	t.Run("Applied From World", func(t *testing.T) {
		arm.UpdateAppliedTransform()
		require.InDelta(t, 5, arm.Applied.X, delta)
		require.InDelta(t, -3, arm.Applied.Y, delta)
		require.InDelta(t, 30, arm.Applied.Rotation, 0.01)
		require.InDelta(t, 1.5, arm.Applied.ScaleX, delta)
		require.InDelta(t, 0.5, arm.Applied.ScaleY, delta)
		require.InDelta(t, 10, arm.Applied.ShearY, 0.01)
	})

	t.Run("Rotate World", func(t *testing.T) {
		before := arm.WorldRotationX()
		arm.RotateWorld(15)
		require.InDelta(t, before+15, arm.WorldRotationX(), 0.01)
	})
}
