package skeletal

import (
	"cmp"
	"fmt"
	"slices"
)

// Skeleton is the runtime pose of a SkeletonData. A skeleton and the
// animation state driving it must be used from one goroutine at a time.
type Skeleton struct {
	data *SkeletonData

	bones     []*Bone
	slots     []*Slot
	drawOrder []*Slot

	ikConstraints        []*IkConstraint
	transformConstraints []*TransformConstraint
	pathConstraints      []*PathConstraint

	cache []Updatable
	skin  *Skin

	Color          Color
	X, Y           float32
	ScaleX, ScaleY float32
	// Time is the physics clock advanced by Update.
	Time float32
}

// NewSkeleton builds a skeleton in its setup pose. The data must have
// passed Validate.
func NewSkeleton(data *SkeletonData) *Skeleton {
	s := &Skeleton{data: data, Color: White, ScaleX: 1, ScaleY: 1}

	s.bones = make([]*Bone, len(data.Bones))
	for i, bd := range data.Bones {
		bone := newBone(bd, s)
		s.bones[i] = bone
		if bd.Parent >= 0 {
			parent := s.bones[bd.Parent]
			parent.children = append(parent.children, i)
		}
	}

	s.slots = make([]*Slot, len(data.Slots))
	s.drawOrder = make([]*Slot, len(data.Slots))
	for i, sd := range data.Slots {
		slot := newSlot(sd, s)
		s.slots[i] = slot
		s.drawOrder[i] = slot
	}

	for _, c := range data.IkConstraints {
		s.ikConstraints = append(s.ikConstraints, newIkConstraint(c, s))
	}
	for _, c := range data.TransformConstraints {
		s.transformConstraints = append(s.transformConstraints, newTransformConstraint(c, s))
	}
	for _, c := range data.PathConstraints {
		s.pathConstraints = append(s.pathConstraints, newPathConstraint(c, s))
	}

	s.UpdateCache()
	return s
}

func (s *Skeleton) Data() *SkeletonData    { return s.data }
func (s *Skeleton) Bones() []*Bone         { return s.bones }
func (s *Skeleton) Slots() []*Slot         { return s.slots }
func (s *Skeleton) Skin() *Skin            { return s.skin }
func (s *Skeleton) UpdateList() []Updatable { return s.cache }

// DrawOrder returns the slots in the order they should be drawn.
func (s *Skeleton) DrawOrder() []*Slot { return s.drawOrder }

// SetDrawOrder replaces the draw order. order must be a permutation of Slots.
func (s *Skeleton) SetDrawOrder(order []*Slot) {
	copy(s.drawOrder, order)
}

func (s *Skeleton) IkConstraints() []*IkConstraint               { return s.ikConstraints }
func (s *Skeleton) TransformConstraints() []*TransformConstraint { return s.transformConstraints }
func (s *Skeleton) PathConstraints() []*PathConstraint           { return s.pathConstraints }

// RootBone returns nil for a skeleton without bones.
func (s *Skeleton) RootBone() *Bone {
	if len(s.bones) == 0 {
		return nil
	}
	return s.bones[0]
}

// BoneAt returns the bone at index. An index outside the skeleton is a
// data contract violation and panics with a *ContractError.
func (s *Skeleton) BoneAt(index int) *Bone { return s.bone(index) }

// SlotAt is BoneAt for slots.
func (s *Skeleton) SlotAt(index int) *Slot { return s.slot(index) }

func (s *Skeleton) bone(index int) *Bone {
	if index < 0 || index >= len(s.bones) {
		violate("bone", index, len(s.bones))
	}
	return s.bones[index]
}

func (s *Skeleton) slot(index int) *Slot {
	if index < 0 || index >= len(s.slots) {
		violate("slot", index, len(s.slots))
	}
	return s.slots[index]
}

func (s *Skeleton) ikConstraint(index int) *IkConstraint {
	if index < 0 || index >= len(s.ikConstraints) {
		violate("ik constraint", index, len(s.ikConstraints))
	}
	return s.ikConstraints[index]
}

func (s *Skeleton) transformConstraint(index int) *TransformConstraint {
	if index < 0 || index >= len(s.transformConstraints) {
		violate("transform constraint", index, len(s.transformConstraints))
	}
	return s.transformConstraints[index]
}

func (s *Skeleton) pathConstraint(index int) *PathConstraint {
	if index < 0 || index >= len(s.pathConstraints) {
		violate("path constraint", index, len(s.pathConstraints))
	}
	return s.pathConstraints[index]
}

type orderedConstraint struct {
	order int
	sort  func()
}

// UpdateCache rebuilds the ordered list of bones and constraints walked by
// UpdateWorldTransform. It must be called after bones or constraints are
// added or removed and after the skin changes.
func (s *Skeleton) UpdateCache() {
	s.cache = s.cache[:0]

	for _, bone := range s.bones {
		bone.sorted = bone.data.SkinRequired
		bone.active = !bone.sorted
	}
	if s.skin != nil {
		for _, index := range s.skin.Bones {
			for bone := s.bones[index]; bone != nil; bone = bone.Parent() {
				bone.sorted = false
				bone.active = true
			}
		}
	}

	constraints := make([]orderedConstraint, 0, len(s.ikConstraints)+len(s.transformConstraints)+len(s.pathConstraints))
	for _, c := range s.ikConstraints {
		constraints = append(constraints, orderedConstraint{c.data.Order, func() { s.sortIk(c) }})
	}
	for _, c := range s.transformConstraints {
		constraints = append(constraints, orderedConstraint{c.data.Order, func() { s.sortTransform(c) }})
	}
	for _, c := range s.pathConstraints {
		constraints = append(constraints, orderedConstraint{c.data.Order, func() { s.sortPath(c) }})
	}
	slices.SortStableFunc(constraints, func(a, b orderedConstraint) int { return cmp.Compare(a.order, b.order) })
	for _, c := range constraints {
		c.sort()
	}

	for _, bone := range s.bones {
		s.sortBone(bone)
	}
}

func (s *Skeleton) skinHas(data *ConstraintData) bool {
	return !data.SkinRequired || (s.skin != nil && s.skin.hasConstraint(data))
}

func (s *Skeleton) sortIk(c *IkConstraint) {
	c.active = c.Target().active && s.skinHas(&c.data.ConstraintData)
	if !c.active {
		return
	}
	s.sortBone(c.Target())

	parent := s.bones[c.bones[0]]
	s.sortBone(parent)
	if len(c.bones) == 1 {
		s.cache = append(s.cache, c)
		s.sortReset(parent.children)
		return
	}
	child := s.bones[c.bones[len(c.bones)-1]]
	s.sortBone(child)
	s.cache = append(s.cache, c)
	s.sortReset(parent.children)
	child.sorted = true
}

func (s *Skeleton) sortTransform(c *TransformConstraint) {
	c.active = c.Target().active && s.skinHas(&c.data.ConstraintData)
	if !c.active {
		return
	}
	s.sortBone(c.Target())

	if c.data.Local {
		for _, index := range c.bones {
			child := s.bones[index]
			if parent := child.Parent(); parent != nil {
				s.sortBone(parent)
			}
			s.sortBone(child)
		}
	} else {
		for _, index := range c.bones {
			s.sortBone(s.bones[index])
		}
	}
	s.cache = append(s.cache, c)
	s.resetConstrained(c.bones)
}

func (s *Skeleton) sortPath(c *PathConstraint) {
	slot := c.Target()
	slotBone := slot.Bone()
	c.active = slotBone.active && s.skinHas(&c.data.ConstraintData)
	if !c.active {
		return
	}

	if s.skin != nil {
		s.sortPathSkin(s.skin, slot.data.Index, slotBone)
	}
	if s.data.DefaultSkin != nil && s.data.DefaultSkin != s.skin {
		s.sortPathSkin(s.data.DefaultSkin, slot.data.Index, slotBone)
	}
	s.sortPathAttachment(slot.attachment, slotBone)

	for _, index := range c.bones {
		s.sortBone(s.bones[index])
	}
	s.cache = append(s.cache, c)
	s.resetConstrained(c.bones)
}

func (s *Skeleton) sortPathSkin(skin *Skin, slotIndex int, slotBone *Bone) {
	for _, e := range skin.entries {
		if e.SlotIndex == slotIndex {
			s.sortPathAttachment(e.Attachment, slotBone)
		}
	}
}

func (s *Skeleton) sortPathAttachment(attachment Attachment, slotBone *Bone) {
	path, ok := attachment.(*PathAttachment)
	if !ok {
		return
	}
	if path.Bones == nil {
		s.sortBone(slotBone)
		return
	}
	for i := 0; i < len(path.Bones); {
		n := path.Bones[i]
		i++
		for n += i; i < n; i++ {
			s.sortBone(s.bones[path.Bones[i]])
		}
	}
}

func (s *Skeleton) resetConstrained(bones []int) {
	for _, index := range bones {
		s.sortReset(s.bones[index].children)
	}
	for _, index := range bones {
		s.bones[index].sorted = true
	}
}

func (s *Skeleton) sortBone(bone *Bone) {
	if bone.sorted {
		return
	}
	if parent := bone.Parent(); parent != nil {
		s.sortBone(parent)
	}
	bone.sorted = true
	s.cache = append(s.cache, bone)
}

func (s *Skeleton) sortReset(children []int) {
	for _, index := range children {
		bone := s.bones[index]
		if !bone.active {
			continue
		}
		if bone.sorted {
			s.sortReset(bone.children)
		}
		bone.sorted = false
	}
}

// UpdateWorldTransform resets every bone's applied pose to its local pose
// and walks the update cache. Calling it twice without changing the local
// pose yields the same world transforms.
func (s *Skeleton) UpdateWorldTransform(physics Physics) {
	for _, bone := range s.bones {
		bone.Applied = bone.Local
	}
	for _, u := range s.cache {
		if u.IsActive() {
			u.Update(physics)
		}
	}
}

// Update advances the physics clock.
func (s *Skeleton) Update(delta float32) {
	s.Time += delta
}

func (s *Skeleton) SetToSetupPose() {
	s.SetBonesToSetupPose()
	s.SetSlotsToSetupPose()
}

// SetBonesToSetupPose resets bones and constraints.
func (s *Skeleton) SetBonesToSetupPose() {
	for _, bone := range s.bones {
		bone.SetToSetupPose()
	}
	for _, c := range s.ikConstraints {
		c.SetToSetupPose()
	}
	for _, c := range s.transformConstraints {
		c.SetToSetupPose()
	}
	for _, c := range s.pathConstraints {
		c.SetToSetupPose()
	}
}

// SetSlotsToSetupPose resets slots and the draw order.
func (s *Skeleton) SetSlotsToSetupPose() {
	copy(s.drawOrder, s.slots)
	for _, slot := range s.slots {
		slot.SetToSetupPose()
	}
}

func (s *Skeleton) FindBone(name string) *Bone {
	for _, b := range s.bones {
		if b.data.Name == name {
			return b
		}
	}
	return nil
}

func (s *Skeleton) FindSlot(name string) *Slot {
	for _, sl := range s.slots {
		if sl.data.Name == name {
			return sl
		}
	}
	return nil
}

func (s *Skeleton) FindIkConstraint(name string) *IkConstraint {
	for _, c := range s.ikConstraints {
		if c.data.Name == name {
			return c
		}
	}
	return nil
}

func (s *Skeleton) FindTransformConstraint(name string) *TransformConstraint {
	for _, c := range s.transformConstraints {
		if c.data.Name == name {
			return c
		}
	}
	return nil
}

func (s *Skeleton) FindPathConstraint(name string) *PathConstraint {
	for _, c := range s.pathConstraints {
		if c.data.Name == name {
			return c
		}
	}
	return nil
}

// SetSkin changes the skin. Attachments from the old skin that are
// currently visible are replaced by the new skin's attachments of the same
// name. Without an old skin, each slot gets the new skin's setup
// attachment, if any.
func (s *Skeleton) SetSkin(skin *Skin) {
	if skin == s.skin {
		return
	}
	if skin != nil {
		if s.skin != nil {
			skin.attachAll(s, s.skin)
		} else {
			for i, slot := range s.slots {
				if name := slot.data.AttachmentName; name != "" {
					if attachment := skin.Attachment(i, name); attachment != nil {
						slot.SetAttachment(attachment)
					}
				}
			}
		}
	}
	s.skin = skin
	s.UpdateCache()
}

func (s *Skeleton) SetSkinByName(name string) error {
	skin := s.data.FindSkin(name)
	if skin == nil {
		return fmt.Errorf("skin %q: %w", name, ErrNotFound)
	}
	s.SetSkin(skin)
	return nil
}

// Attachment looks the name up in the current skin, then the default skin.
func (s *Skeleton) Attachment(slotIndex int, name string) Attachment {
	if s.skin != nil {
		if attachment := s.skin.Attachment(slotIndex, name); attachment != nil {
			return attachment
		}
	}
	if s.data.DefaultSkin != nil {
		return s.data.DefaultSkin.Attachment(slotIndex, name)
	}
	return nil
}

func (s *Skeleton) AttachmentByName(slotName, name string) Attachment {
	slot := s.data.FindSlot(slotName)
	if slot == nil {
		return nil
	}
	return s.Attachment(slot.Index, name)
}

// SetAttachment sets the named attachment on the named slot. An empty
// attachment name clears the slot.
func (s *Skeleton) SetAttachment(slotName, name string) error {
	slot := s.FindSlot(slotName)
	if slot == nil {
		return fmt.Errorf("slot %q: %w", slotName, ErrNotFound)
	}
	var attachment Attachment
	if name != "" {
		attachment = s.Attachment(slot.data.Index, name)
		if attachment == nil {
			return fmt.Errorf("attachment %q for slot %q: %w", name, slotName, ErrNotFound)
		}
	}
	slot.SetAttachment(attachment)
	return nil
}

// Bounds returns the axis aligned box around all region and mesh
// attachments of active bones. It is empty when nothing is visible.
func (s *Skeleton) Bounds() (x, y, width, height float32) {
	var (
		vertices []float32
		found    bool
		minX     float32
		minY     float32
		maxX     float32
		maxY     float32
	)
	for _, slot := range s.drawOrder {
		if !slot.Bone().active {
			continue
		}
		var n int
		switch a := slot.attachment.(type) {
		case *RegionAttachment:
			n = 8
			vertices = resize(vertices, n)
			a.ComputeWorldVertices(slot, vertices, 0, 2)
		case *MeshAttachment:
			n = a.WorldVerticesLength
			vertices = resize(vertices, n)
			a.ComputeWorldVertices(slot, 0, n, vertices, 0, 2)
		default:
			continue
		}
		for i := 0; i < n; i += 2 {
			vx, vy := vertices[i], vertices[i+1]
			if !found {
				minX, minY, maxX, maxY = vx, vy, vx, vy
				found = true
				continue
			}
			minX, minY = min(minX, vx), min(minY, vy)
			maxX, maxY = max(maxX, vx), max(maxY, vy)
		}
	}
	return minX, minY, maxX - minX, maxY - minY
}

func (s *Skeleton) String() string {
	if s.data.Name != "" {
		return s.data.Name
	}
	return "skeleton"
}
