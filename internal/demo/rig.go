// Package demo builds the rig animated by the pose server when no other
// skeleton data is configured.
package demo

import (
	"github.com/zeusync/skeletal/internal/core/skeletal"
)

const (
	Name = "courier"

	AnimIdle = "idle"
	AnimWalk = "walk"
	AnimWave = "wave"

	EventFootstep = "footstep"
	EventWave     = "wave"

	SkinArmored = "armored"
	ArmIK       = "arm_ik"
)

// Rig builds a small biped: a torso on the hip, one two-bone arm driven by
// an IK target and two legs. The default skin draws the hand closed; the
// wave animation opens it.
func Rig() (*skeletal.SkeletonData, error) {
	b := skeletal.NewBuilder(Name)

	b.Bone("root", "", skeletal.Identity)
	b.Bone("hip", "root", skeletal.Transform{Y: 100, ScaleX: 1, ScaleY: 1})
	b.Bone("torso", "hip", skeletal.Transform{Rotation: 90, ScaleX: 1, ScaleY: 1}).Length = 60
	b.Bone("head", "torso", skeletal.Transform{X: 60, ScaleX: 1, ScaleY: 1}).Length = 20
	b.Bone("upper_arm", "torso", skeletal.Transform{X: 50, Rotation: -120, ScaleX: 1, ScaleY: 1}).Length = 35
	b.Bone("forearm", "upper_arm", skeletal.Transform{X: 35, Rotation: 20, ScaleX: 1, ScaleY: 1}).Length = 30
	b.Bone("hand", "forearm", skeletal.Transform{X: 30, ScaleX: 1, ScaleY: 1})
	b.Bone("arm_target", "root", skeletal.Transform{X: 40, Y: 120, ScaleX: 1, ScaleY: 1})
	b.Bone("thigh_l", "hip", skeletal.Transform{Rotation: -80, ScaleX: 1, ScaleY: 1}).Length = 50
	b.Bone("thigh_r", "hip", skeletal.Transform{Rotation: -100, ScaleX: 1, ScaleY: 1}).Length = 50

	b.Slot("leg_r", "thigh_r", "leg")
	b.Slot("torso", "torso", "torso")
	b.Slot("head", "head", "head")
	b.Slot("leg_l", "thigh_l", "leg")
	b.Slot("arm", "upper_arm", "arm")
	b.Slot("hand", "hand", "hand_fist")

	b.Region("default", "leg_r", "leg", 12, 50)
	b.Region("default", "leg_l", "leg", 12, 50)
	b.Region("default", "torso", "torso", 40, 60)
	b.Region("default", "head", "head", 24, 24)
	b.Region("default", "arm", "arm", 10, 35)
	b.Region("default", "hand", "hand_fist", 10, 10)
	b.Region("default", "hand", "hand_open", 14, 12)
	b.Region(SkinArmored, "torso", "torso", 48, 64)
	b.Region(SkinArmored, "head", "head", 28, 30)

	ik := b.IK(ArmIK, []string{"upper_arm", "forearm"}, "arm_target")
	ik.BendDirection = -1

	b.Event(EventFootstep)
	b.Event(EventWave)

	b.Animation(AnimIdle, func(a *skeletal.AnimationBuilder) {
		a.Rotate("torso", skeletal.At(0, 0), skeletal.At(1, 3).With(skeletal.Bezier(0.25, 0, 0.75, 1)), skeletal.At(2, 0))
	})
	b.Animation(AnimWalk, func(a *skeletal.AnimationBuilder) {
		a.TranslateY("hip",
			skeletal.At(0, 0), skeletal.At(0.25, -4), skeletal.At(0.5, 0), skeletal.At(0.75, -4), skeletal.At(1, 0))
		a.Rotate("thigh_l", skeletal.At(0, 25), skeletal.At(0.5, -25), skeletal.At(1, 25))
		a.Rotate("thigh_r", skeletal.At(0, -25), skeletal.At(0.5, 25), skeletal.At(1, -25))
		a.Events(
			skeletal.EventKey{Time: 0.25, Name: EventFootstep, String: "left"},
			skeletal.EventKey{Time: 0.75, Name: EventFootstep, String: "right"},
		)
	})
	b.Animation(AnimWave, func(a *skeletal.AnimationBuilder) {
		a.Translate("arm_target",
			skeletal.At(0, 0, 0), skeletal.At(0.3, 15, 45), skeletal.At(0.6, -10, 45),
			skeletal.At(0.9, 15, 45), skeletal.At(1.2, 0, 0))
		a.Attachment("hand", skeletal.AttachmentKey{Time: 0, Name: "hand_open"}, skeletal.AttachmentKey{Time: 1.2, Name: "hand_fist"})
		a.IK(ArmIK, skeletal.IkKey{Time: 0, Mix: 1, BendDirection: -1}, skeletal.IkKey{Time: 1.2, Mix: 1, BendDirection: -1})
		a.Events(skeletal.EventKey{Time: 0.6, Name: EventWave})
	})

	return b.Build()
}
