package skeletal

import (
	"errors"
	"fmt"
)

// SkeletonData is the immutable setup definition of a rig. It is shared
// read-only by every Skeleton built from it.
type SkeletonData struct {
	Name        string
	Bones       []*BoneData // parents precede children
	Slots       []*SlotData // setup draw order
	Skins       []*Skin
	DefaultSkin *Skin
	Events      []*EventData
	Animations  []*Animation

	IkConstraints        []*IkConstraintData
	TransformConstraints []*TransformConstraintData
	PathConstraints      []*PathConstraintData

	X, Y, Width, Height float32
	ReferenceScale      float32
	FPS                 float32
}

func (d *SkeletonData) FindBone(name string) *BoneData {
	for _, b := range d.Bones {
		if b.Name == name {
			return b
		}
	}
	return nil
}

func (d *SkeletonData) FindSlot(name string) *SlotData {
	for _, s := range d.Slots {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (d *SkeletonData) FindSkin(name string) *Skin {
	for _, s := range d.Skins {
		if s.name == name {
			return s
		}
	}
	return nil
}

func (d *SkeletonData) FindEvent(name string) *EventData {
	for _, e := range d.Events {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (d *SkeletonData) FindAnimation(name string) *Animation {
	for _, a := range d.Animations {
		if a.name == name {
			return a
		}
	}
	return nil
}

func (d *SkeletonData) FindIkConstraint(name string) *IkConstraintData {
	for _, c := range d.IkConstraints {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (d *SkeletonData) FindTransformConstraint(name string) *TransformConstraintData {
	for _, c := range d.TransformConstraints {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (d *SkeletonData) FindPathConstraint(name string) *PathConstraintData {
	for _, c := range d.PathConstraints {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Validate checks that every index in the data refers to an existing
// entity and that all animations are consistent with it.
func (d *SkeletonData) Validate() error {
	var errs []error
	bones, slots := len(d.Bones), len(d.Slots)
	inRange := func(kind, owner string, index, count int) {
		if index < 0 || index >= count {
			errs = append(errs, fmt.Errorf("%w: %s %q: %s index %d out of range [0, %d)",
				ErrInvalidSkeleton, kind, owner, kind, index, count))
		}
	}

	for i, b := range d.Bones {
		if b.Index != i {
			errs = append(errs, fmt.Errorf("%w: bone %q has index %d at position %d", ErrInvalidSkeleton, b.Name, b.Index, i))
		}
		if b.Parent >= i {
			errs = append(errs, fmt.Errorf("%w: bone %q must come after its parent", ErrInvalidSkeleton, b.Name))
		} else if b.Parent < -1 {
			inRange("bone", b.Name, b.Parent, bones)
		}
	}
	for i, s := range d.Slots {
		if s.Index != i {
			errs = append(errs, fmt.Errorf("%w: slot %q has index %d at position %d", ErrInvalidSkeleton, s.Name, s.Index, i))
		}
		inRange("bone", s.Name, s.Bone, bones)
	}
	for _, c := range d.IkConstraints {
		if len(c.Bones) < 1 || len(c.Bones) > 2 {
			errs = append(errs, fmt.Errorf("%w: ik constraint %q must have 1 or 2 bones", ErrInvalidSkeleton, c.Name))
		}
		for _, b := range c.Bones {
			inRange("bone", c.Name, b, bones)
		}
		inRange("bone", c.Name, c.Target, bones)
	}
	for _, c := range d.TransformConstraints {
		for _, b := range c.Bones {
			inRange("bone", c.Name, b, bones)
		}
		inRange("bone", c.Name, c.Target, bones)
	}
	for _, c := range d.PathConstraints {
		for _, b := range c.Bones {
			inRange("bone", c.Name, b, bones)
		}
		inRange("slot", c.Name, c.Target, slots)
	}
	for _, skin := range d.Skins {
		for _, e := range skin.entries {
			inRange("slot", skin.name, e.SlotIndex, slots)
		}
		for _, b := range skin.Bones {
			inRange("bone", skin.name, b, bones)
		}
	}
	for _, a := range d.Animations {
		if err := a.Validate(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
