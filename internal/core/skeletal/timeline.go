package skeletal

import (
	"fmt"
	"sort"
)

// Property identifies the kind of skeleton property a timeline writes.
type Property uint8

const (
	PropertyRotate Property = iota
	PropertyX
	PropertyY
	PropertyScaleX
	PropertyScaleY
	PropertyShearX
	PropertyShearY
	PropertyInherit
	PropertyRGB
	PropertyAlpha
	PropertyRGB2
	PropertyAttachment
	PropertyDeform
	PropertyEvent
	PropertyDrawOrder
	PropertyIkConstraint
	PropertyTransformConstraint
	PropertyPathConstraintPosition
	PropertyPathConstraintSpacing
	PropertyPathConstraintMix
)

// PropertyID uniquely identifies one animated property of a skeleton:
// the property kind in the top byte and the entity index below it.
type PropertyID uint64

func propertyID(p Property, index int) PropertyID {
	return PropertyID(uint64(p)<<56 | uint64(uint32(index)))
}

func deformPropertyID(slot int, attachment *VertexAttachment) PropertyID {
	return PropertyID(uint64(PropertyDeform)<<56 | uint64(uint32(slot))<<32 | uint64(attachment.ID()))
}

func (id PropertyID) Property() Property { return Property(id >> 56) }

// Timeline keys one or more properties of a skeleton over time.
//
// Apply poses the skeleton for time. lastTime is the previous time the
// timeline was applied and is used only by timelines that fire events.
// Fired events are appended to events, which may be nil. alpha is the
// weight of the timeline; blend controls how it is combined with the
// current pose and direction tells whether the animation is mixing in or out.
type Timeline interface {
	Apply(skeleton *Skeleton, lastTime, time float32, events *[]*Event, alpha float32, blend MixBlend, direction MixDirection)
	PropertyIDs() []PropertyID
	Frames() []float32
	FrameEntries() int
	FrameCount() int
	Duration() float32
}

type timeline struct {
	frames  []float32
	entries int
	ids     []PropertyID
}

func newTimeline(frameCount, entries int, ids ...PropertyID) timeline {
	return timeline{frames: make([]float32, frameCount*entries), entries: entries, ids: ids}
}

func (t *timeline) PropertyIDs() []PropertyID { return t.ids }
func (t *timeline) Frames() []float32         { return t.frames }
func (t *timeline) FrameEntries() int         { return t.entries }
func (t *timeline) FrameCount() int           { return len(t.frames) / t.entries }

func (t *timeline) Duration() float32 {
	if len(t.frames) == 0 {
		return 0
	}
	return t.frames[len(t.frames)-t.entries]
}

// Search returns the index into frames of the last frame whose time is
// less than or equal to time. step is the frame stride. A time before the
// first frame returns 0.
func Search(frames []float32, time float32, step int) int {
	count := len(frames) / step
	i := sort.Search(count, func(i int) bool { return frames[i*step] > time })
	if i == 0 {
		return 0
	}
	return (i - 1) * step
}

// validator is implemented by timelines that reference skeleton entities.
type validator interface {
	validate(data *SkeletonData) error
}

func checkIndex(kind string, index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("%w: %s index %d out of range [0, %d)", ErrDataContract, kind, index, count)
	}
	return nil
}

type boneRef struct{ bone int }

// BoneIndex is the index of the bone the timeline writes.
func (r boneRef) BoneIndex() int { return r.bone }

func (r boneRef) validate(data *SkeletonData) error {
	return checkIndex("bone", r.bone, len(data.Bones))
}

type slotRef struct{ slot int }

// SlotIndex is the index of the slot the timeline writes.
func (r slotRef) SlotIndex() int { return r.slot }

func (r slotRef) validate(data *SkeletonData) error {
	return checkIndex("slot", r.slot, len(data.Slots))
}

type ikRef struct{ constraint int }

func (r ikRef) ConstraintIndex() int { return r.constraint }

func (r ikRef) validate(data *SkeletonData) error {
	return checkIndex("ik constraint", r.constraint, len(data.IkConstraints))
}

type transformRef struct{ constraint int }

func (r transformRef) ConstraintIndex() int { return r.constraint }

func (r transformRef) validate(data *SkeletonData) error {
	return checkIndex("transform constraint", r.constraint, len(data.TransformConstraints))
}

type pathRef struct{ constraint int }

func (r pathRef) ConstraintIndex() int { return r.constraint }

func (r pathRef) validate(data *SkeletonData) error {
	return checkIndex("path constraint", r.constraint, len(data.PathConstraints))
}

// beforeFirst is the value of a property when time is before the first
// frame.
func beforeFirst(alpha float32, blend MixBlend, current, setup float32) float32 {
	switch blend {
	case MixSetup:
		return setup
	case MixFirst:
		return current + (setup-current)*alpha
	}
	return current
}

// mixRelative combines a value keyed relative to the setup pose.
func mixRelative(value, alpha float32, blend MixBlend, current, setup float32) float32 {
	switch blend {
	case MixSetup:
		return setup + value*alpha
	case MixFirst, MixReplace:
		value += setup - current
	}
	return current + value*alpha
}

// mixAbsolute combines a value keyed as an absolute property value.
func mixAbsolute(value, alpha float32, blend MixBlend, current, setup float32) float32 {
	if blend == MixSetup {
		return setup + (value-setup)*alpha
	}
	return current + (value-current)*alpha
}

// mixScale combines a scale keyed as a multiple of the setup scale. When
// mixing, the sign of the scale snaps rather than passing through zero.
func mixScale(value, alpha float32, blend MixBlend, direction MixDirection, current, setup float32) float32 {
	value *= setup
	if alpha == 1 {
		if blend == MixAdd {
			return current + value - setup
		}
		return value
	}
	if direction == MixOut {
		switch blend {
		case MixSetup:
			return setup + (abs(value)*signum(setup)-setup)*alpha
		case MixFirst, MixReplace:
			return current + (abs(value)*signum(current)-current)*alpha
		}
	} else {
		var s float32
		switch blend {
		case MixSetup:
			s = abs(setup) * signum(value)
			return s + (value-s)*alpha
		case MixFirst, MixReplace:
			s = abs(current) * signum(value)
			return s + (value-s)*alpha
		}
	}
	return current + (value-setup)*alpha
}
