package skeletal

import (
	"errors"
	"fmt"
)

// Curve shapes the segment from a key to the next key.
type Curve struct {
	kind               int
	cx1, cy1, cx2, cy2 float32
}

var (
	Linear  = Curve{kind: curveLinear}
	Stepped = Curve{kind: curveStepped}
)

// Bezier returns a cubic Bezier curve with control points normalized to
// the segment: x is the fraction of the time span and y the fraction of
// the value change.
func Bezier(cx1, cy1, cx2, cy2 float32) Curve {
	return Curve{kind: curveBezier, cx1: cx1, cy1: cy1, cx2: cx2, cy2: cy2}
}

// Key is a keyframe of a curve timeline.
type Key struct {
	Time   float32
	Values []float32
	Curve  Curve
}

func At(time float32, values ...float32) Key {
	return Key{Time: time, Values: values}
}

func (k Key) With(curve Curve) Key {
	k.Curve = curve
	return k
}

type AttachmentKey struct {
	Time float32
	Name string // empty clears the slot
}

type InheritKey struct {
	Time    float32
	Inherit Inherit
}

// DrawOrderKey lists slot names in draw order. A nil Order restores the
// setup order.
type DrawOrderKey struct {
	Time  float32
	Order []string
}

// DeformKey holds per-vertex offsets from the setup vertices. Nil offsets
// key the setup vertices.
type DeformKey struct {
	Time    float32
	Offsets []float32
	Curve   Curve
}

// EventKey fires the named event. Zero values keep the event's defaults.
type EventKey struct {
	Time   float32
	Name   string
	Int    int
	Float  float32
	String string
}

type IkKey struct {
	Time          float32
	Mix           float32
	Softness      float32
	BendDirection int
	Compress      bool
	Stretch       bool
	Curve         Curve
}

// Builder assembles SkeletonData in code. Errors are collected and
// returned by Build.
type Builder struct {
	data  *SkeletonData
	order int
	errs  []error
}

func NewBuilder(name string) *Builder {
	return &Builder{data: &SkeletonData{Name: name, ReferenceScale: 100, FPS: 30}}
}

// Data returns the skeleton data under construction.
func (b *Builder) Data() *SkeletonData { return b.data }

func (b *Builder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

// Bone adds a bone. parent is empty for a root bone and must already exist.
func (b *Builder) Bone(name, parent string, setup Transform) *BoneData {
	parentIndex := -1
	if parent != "" {
		p := b.data.FindBone(parent)
		if p == nil {
			b.fail("bone %q: parent %q: %w", name, parent, ErrNotFound)
		} else {
			parentIndex = p.Index
		}
	}
	bd := NewBoneData(len(b.data.Bones), name, parentIndex)
	bd.Setup = setup
	b.data.Bones = append(b.data.Bones, bd)
	return bd
}

// Slot adds a slot on bone with an optional setup attachment name.
func (b *Builder) Slot(name, bone, attachment string) *SlotData {
	sd := NewSlotData(len(b.data.Slots), name, b.boneIndex("slot "+name, bone))
	sd.AttachmentName = attachment
	b.data.Slots = append(b.data.Slots, sd)
	return sd
}

// Skin returns the named skin, creating it. The skin named "default"
// becomes the default skin.
func (b *Builder) Skin(name string) *Skin {
	if s := b.data.FindSkin(name); s != nil {
		return s
	}
	s := NewSkin(name)
	b.data.Skins = append(b.data.Skins, s)
	if name == "default" {
		b.data.DefaultSkin = s
	}
	return s
}

// Attach adds an attachment for slot to skin.
func (b *Builder) Attach(skin, slot string, attachment Attachment) {
	b.Skin(skin).SetAttachment(b.slotIndex("attachment "+attachment.Name(), slot), attachment.Name(), attachment)
}

// Region adds a region attachment to skin and returns it.
func (b *Builder) Region(skin, slot, name string, width, height float32) *RegionAttachment {
	r := NewRegionAttachment(name, width, height)
	b.Attach(skin, slot, r)
	return r
}

func (b *Builder) Event(name string) *EventData {
	e := NewEventData(name)
	b.data.Events = append(b.data.Events, e)
	return e
}

func (b *Builder) IK(name string, bones []string, target string) *IkConstraintData {
	c := NewIkConstraintData(name)
	c.Order = b.nextOrder()
	c.Bones = b.boneIndices("ik "+name, bones)
	c.Target = b.boneIndex("ik "+name, target)
	b.data.IkConstraints = append(b.data.IkConstraints, c)
	return c
}

func (b *Builder) TransformConstraint(name string, bones []string, target string) *TransformConstraintData {
	c := NewTransformConstraintData(name)
	c.Order = b.nextOrder()
	c.Bones = b.boneIndices("transform "+name, bones)
	c.Target = b.boneIndex("transform "+name, target)
	b.data.TransformConstraints = append(b.data.TransformConstraints, c)
	return c
}

func (b *Builder) PathConstraint(name string, bones []string, targetSlot string) *PathConstraintData {
	c := NewPathConstraintData(name)
	c.Order = b.nextOrder()
	c.Bones = b.boneIndices("path "+name, bones)
	c.Target = b.slotIndex("path "+name, targetSlot)
	b.data.PathConstraints = append(b.data.PathConstraints, c)
	return c
}

func (b *Builder) nextOrder() int {
	o := b.order
	b.order++
	return o
}

// Animation builds an animation. The duration is the time of the last key
// across all timelines.
func (b *Builder) Animation(name string, build func(a *AnimationBuilder)) *Animation {
	ab := &AnimationBuilder{b: b, name: name}
	build(ab)
	anim := NewAnimation(name, ab.timelines, ab.duration)
	b.data.Animations = append(b.data.Animations, anim)
	return anim
}

// Build validates and returns the skeleton data.
func (b *Builder) Build() (*SkeletonData, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	if err := b.data.Validate(); err != nil {
		return nil, err
	}
	return b.data, nil
}

func (b *Builder) boneIndex(owner, name string) int {
	if bd := b.data.FindBone(name); bd != nil {
		return bd.Index
	}
	b.fail("%s: bone %q: %w", owner, name, ErrNotFound)
	return -1
}

func (b *Builder) boneIndices(owner string, names []string) []int {
	out := make([]int, len(names))
	for i, n := range names {
		out[i] = b.boneIndex(owner, n)
	}
	return out
}

func (b *Builder) slotIndex(owner, name string) int {
	if sd := b.data.FindSlot(name); sd != nil {
		return sd.Index
	}
	b.fail("%s: slot %q: %w", owner, name, ErrNotFound)
	return -1
}

func constraintIndex[T any](items []T, name func(T) string, want string) int {
	for i, item := range items {
		if name(item) == want {
			return i
		}
	}
	return -1
}

// AnimationBuilder adds timelines to an animation under construction.
type AnimationBuilder struct {
	b         *Builder
	name      string
	timelines []Timeline
	duration  float32
}

func (a *AnimationBuilder) fail(format string, args ...any) {
	a.b.fail("animation %q: "+format, append([]any{a.name}, args...)...)
}

func (a *AnimationBuilder) add(t Timeline, lastTime float32) {
	a.timelines = append(a.timelines, t)
	a.duration = max(a.duration, lastTime)
}

// checkKeys verifies value counts and key order.
func (a *AnimationBuilder) checkKeys(what string, keys []Key, values int) bool {
	if len(keys) == 0 {
		a.fail("%s: %w: no keys", what, ErrInvalidKey)
		return false
	}
	for i, k := range keys {
		if len(k.Values) != values {
			a.fail("%s key %d: %w: %d values, want %d", what, i, ErrInvalidKey, len(k.Values), values)
			return false
		}
		if i > 0 && k.Time < keys[i-1].Time {
			a.fail("%s key %d: %w", what, i, ErrUnsortedFrames)
			return false
		}
	}
	return true
}

func bezierCount(keys []Key, values int) int {
	n := 0
	for i := 0; i < len(keys)-1; i++ {
		if keys[i].Curve.kind == curveBezier {
			n += values
		}
	}
	return n
}

type curved interface {
	Timeline
	curve() *curveTimeline
}

func (t *curveTimeline) curve() *curveTimeline { return t }

// fillCurve writes keys into the frames of t unless set is given, then
// stores the curve of every segment for the first values keyed values.
func fillCurve(t curved, keys []Key, values int, set func(frame int, k Key)) {
	ct := t.curve()
	for f, k := range keys {
		if set != nil {
			set(f, k)
			continue
		}
		i := f * ct.entries
		ct.frames[i] = k.Time
		copy(ct.frames[i+1:i+1+values], k.Values)
	}
	bezier := 0
	for f := 0; f < len(keys)-1; f++ {
		c := keys[f].Curve
		switch c.kind {
		case curveStepped:
			ct.SetStepped(f)
		case curveBezier:
			i, next := f*ct.entries, (f+1)*ct.entries
			t1, t2 := ct.frames[i], ct.frames[next]
			dt := t2 - t1
			for v := 1; v <= values; v++ {
				v1, v2 := ct.frames[i+v], ct.frames[next+v]
				dv := v2 - v1
				ct.SetBezier(bezier, f, v-1, t1, v1, t1+c.cx1*dt, v1+c.cy1*dv, t1+c.cx2*dt, v1+c.cy2*dv, t2, v2)
				bezier++
			}
		default:
			ct.SetLinear(f)
		}
	}
}

func (a *AnimationBuilder) boneCurve(what, bone string, keys []Key, values int, create func(frames, beziers, bone int) curved) {
	index := a.b.boneIndex("animation "+a.name+" "+what, bone)
	if index < 0 || !a.checkKeys(what+" "+bone, keys, values) {
		return
	}
	t := create(len(keys), bezierCount(keys, values), index)
	fillCurve(t, keys, values, nil)
	a.add(t, keys[len(keys)-1].Time)
}

// Rotate keys a bone's rotation in degrees relative to setup.
func (a *AnimationBuilder) Rotate(bone string, keys ...Key) {
	index := a.b.boneIndex("animation "+a.name+" rotate", bone)
	if index < 0 || !a.checkKeys("rotate "+bone, keys, 1) {
		return
	}
	t := NewRotateTimeline(len(keys), bezierCount(keys, 1), index)
	fillCurve(t, keys, 1, func(f int, k Key) { t.SetFrame(f, k.Time, k.Values[0]) })
	a.add(t, keys[len(keys)-1].Time)
}

// Translate keys a bone's x and y offsets from setup.
func (a *AnimationBuilder) Translate(bone string, keys ...Key) {
	a.boneCurve("translate", bone, keys, 2, func(f, bz, i int) curved { return NewTranslateTimeline(f, bz, i) })
}

func (a *AnimationBuilder) TranslateX(bone string, keys ...Key) {
	a.boneCurve("translateX", bone, keys, 1, func(f, bz, i int) curved { return NewTranslateXTimeline(f, bz, i) })
}

func (a *AnimationBuilder) TranslateY(bone string, keys ...Key) {
	a.boneCurve("translateY", bone, keys, 1, func(f, bz, i int) curved { return NewTranslateYTimeline(f, bz, i) })
}

// Scale keys a bone's scale as a multiple of the setup scale.
func (a *AnimationBuilder) Scale(bone string, keys ...Key) {
	a.boneCurve("scale", bone, keys, 2, func(f, bz, i int) curved { return NewScaleTimeline(f, bz, i) })
}

func (a *AnimationBuilder) ScaleX(bone string, keys ...Key) {
	a.boneCurve("scaleX", bone, keys, 1, func(f, bz, i int) curved { return NewScaleXTimeline(f, bz, i) })
}

func (a *AnimationBuilder) ScaleY(bone string, keys ...Key) {
	a.boneCurve("scaleY", bone, keys, 1, func(f, bz, i int) curved { return NewScaleYTimeline(f, bz, i) })
}

func (a *AnimationBuilder) Shear(bone string, keys ...Key) {
	a.boneCurve("shear", bone, keys, 2, func(f, bz, i int) curved { return NewShearTimeline(f, bz, i) })
}

func (a *AnimationBuilder) ShearX(bone string, keys ...Key) {
	a.boneCurve("shearX", bone, keys, 1, func(f, bz, i int) curved { return NewShearXTimeline(f, bz, i) })
}

func (a *AnimationBuilder) ShearY(bone string, keys ...Key) {
	a.boneCurve("shearY", bone, keys, 1, func(f, bz, i int) curved { return NewShearYTimeline(f, bz, i) })
}

func (a *AnimationBuilder) Inherit(bone string, keys ...InheritKey) {
	index := a.b.boneIndex("animation "+a.name+" inherit", bone)
	if index < 0 || len(keys) == 0 {
		return
	}
	t := NewInheritTimeline(len(keys), index)
	for f, k := range keys {
		t.SetFrame(f, k.Time, k.Inherit)
	}
	a.add(t, keys[len(keys)-1].Time)
}

func (a *AnimationBuilder) slotCurve(what, slot string, keys []Key, values int, create func(frames, beziers, slot int) curved) {
	index := a.b.slotIndex("animation "+a.name+" "+what, slot)
	if index < 0 || !a.checkKeys(what+" "+slot, keys, values) {
		return
	}
	t := create(len(keys), bezierCount(keys, values), index)
	fillCurve(t, keys, values, nil)
	a.add(t, keys[len(keys)-1].Time)
}

// RGBA keys r, g, b, a of a slot's color.
func (a *AnimationBuilder) RGBA(slot string, keys ...Key) {
	a.slotCurve("rgba", slot, keys, 4, func(f, bz, i int) curved { return NewRGBATimeline(f, bz, i) })
}

func (a *AnimationBuilder) RGB(slot string, keys ...Key) {
	a.slotCurve("rgb", slot, keys, 3, func(f, bz, i int) curved { return NewRGBTimeline(f, bz, i) })
}

func (a *AnimationBuilder) Alpha(slot string, keys ...Key) {
	a.slotCurve("alpha", slot, keys, 1, func(f, bz, i int) curved { return NewAlphaTimeline(f, bz, i) })
}

// RGBA2 keys r, g, b, a of the light color then r, g, b of the dark color.
func (a *AnimationBuilder) RGBA2(slot string, keys ...Key) {
	a.slotCurve("rgba2", slot, keys, 7, func(f, bz, i int) curved { return NewRGBA2Timeline(f, bz, i) })
}

// RGB2 keys r, g, b of the light color then r, g, b of the dark color.
func (a *AnimationBuilder) RGB2(slot string, keys ...Key) {
	a.slotCurve("rgb2", slot, keys, 6, func(f, bz, i int) curved { return NewRGB2Timeline(f, bz, i) })
}

func (a *AnimationBuilder) Attachment(slot string, keys ...AttachmentKey) {
	index := a.b.slotIndex("animation "+a.name+" attachment", slot)
	if index < 0 || len(keys) == 0 {
		return
	}
	t := NewAttachmentTimeline(len(keys), index)
	for f, k := range keys {
		t.SetFrame(f, k.Time, k.Name)
	}
	a.add(t, keys[len(keys)-1].Time)
}

// Deform keys the vertices of the named vertex attachment in skin.
func (a *AnimationBuilder) Deform(skin, slot, attachment string, keys ...DeformKey) {
	index := a.b.slotIndex("animation "+a.name+" deform", slot)
	if index < 0 || len(keys) == 0 {
		return
	}
	s := a.b.data.FindSkin(skin)
	if s == nil {
		a.fail("deform: skin %q: %w", skin, ErrNotFound)
		return
	}
	d, ok := s.Attachment(index, attachment).(Deformable)
	if !ok {
		a.fail("deform: vertex attachment %q: %w", attachment, ErrNotFound)
		return
	}
	vertex := d.VertexData()
	weighted := vertex.Bones != nil
	count := len(vertex.Vertices)
	if weighted {
		count = count / 3 * 2
	}

	beziers := 0
	for i := 0; i < len(keys)-1; i++ {
		if keys[i].Curve.kind == curveBezier {
			beziers++
		}
	}
	t := NewDeformTimeline(len(keys), beziers, index, vertex)
	bezier := 0
	for f, k := range keys {
		if f > 0 && k.Time < keys[f-1].Time {
			a.fail("deform key %d: %w", f, ErrUnsortedFrames)
			return
		}
		if k.Offsets != nil && len(k.Offsets) != count {
			a.fail("deform key %d: %w: %d offsets, want %d", f, ErrInvalidKey, len(k.Offsets), count)
			return
		}
		vertices := make([]float32, count)
		copy(vertices, k.Offsets)
		if !weighted {
			for i := range vertices {
				vertices[i] += vertex.Vertices[i]
			}
		}
		t.SetFrame(f, k.Time, vertices)
	}
	for f := 0; f < len(keys)-1; f++ {
		c := keys[f].Curve
		switch c.kind {
		case curveStepped:
			t.SetStepped(f)
		case curveBezier:
			t1, t2 := keys[f].Time, keys[f+1].Time
			dt := t2 - t1
			t.SetBezier(bezier, f, 0, t1, 0, t1+c.cx1*dt, c.cy1, t1+c.cx2*dt, c.cy2, t2, 1)
			bezier++
		default:
			t.SetLinear(f)
		}
	}
	a.add(t, keys[len(keys)-1].Time)
}

// Events keys fired events. Keys must be sorted by time.
func (a *AnimationBuilder) Events(keys ...EventKey) {
	if len(keys) == 0 {
		return
	}
	t := NewEventTimeline(len(keys))
	for f, k := range keys {
		data := a.b.data.FindEvent(k.Name)
		if data == nil {
			a.fail("event %q: %w", k.Name, ErrNotFound)
			return
		}
		e := NewEvent(k.Time, data)
		if k.Int != 0 {
			e.Int = k.Int
		}
		if k.Float != 0 {
			e.Float = k.Float
		}
		if k.String != "" {
			e.String = k.String
		}
		t.SetFrame(f, e)
	}
	a.add(t, keys[len(keys)-1].Time)
}

func (a *AnimationBuilder) DrawOrder(keys ...DrawOrderKey) {
	if len(keys) == 0 {
		return
	}
	t := NewDrawOrderTimeline(len(keys))
	for f, k := range keys {
		var order []int
		if k.Order != nil {
			order = make([]int, len(k.Order))
			for i, name := range k.Order {
				order[i] = a.b.slotIndex("animation "+a.name+" draw order", name)
			}
		}
		t.SetFrame(f, k.Time, order)
	}
	a.add(t, keys[len(keys)-1].Time)
}

func (a *AnimationBuilder) IK(constraint string, keys ...IkKey) {
	index := constraintIndex(a.b.data.IkConstraints, func(c *IkConstraintData) string { return c.Name }, constraint)
	if index < 0 {
		a.fail("ik constraint %q: %w", constraint, ErrNotFound)
		return
	}
	if len(keys) == 0 {
		return
	}
	curveKeys := make([]Key, len(keys))
	for i, k := range keys {
		curveKeys[i] = Key{Time: k.Time, Values: []float32{k.Mix, k.Softness}, Curve: k.Curve}
	}
	if !a.checkKeys("ik "+constraint, curveKeys, 2) {
		return
	}
	t := NewIkConstraintTimeline(len(keys), bezierCount(curveKeys, 2), index)
	fillCurve(t, curveKeys, 2, func(f int, _ Key) {
		ik := keys[f]
		t.SetFrame(f, ik.Time, ik.Mix, ik.Softness, ik.BendDirection, ik.Compress, ik.Stretch)
	})
	a.add(t, keys[len(keys)-1].Time)
}

// TransformMix keys rotate, x, y, scaleX, scaleY and shearY mixes.
func (a *AnimationBuilder) TransformMix(constraint string, keys ...Key) {
	index := constraintIndex(a.b.data.TransformConstraints, func(c *TransformConstraintData) string { return c.Name }, constraint)
	if index < 0 {
		a.fail("transform constraint %q: %w", constraint, ErrNotFound)
		return
	}
	if !a.checkKeys("transform "+constraint, keys, 6) {
		return
	}
	t := NewTransformConstraintTimeline(len(keys), bezierCount(keys, 6), index)
	fillCurve(t, keys, 6, nil)
	a.add(t, keys[len(keys)-1].Time)
}

func (a *AnimationBuilder) pathCurve(what, constraint string, keys []Key, values int, create func(frames, beziers, index int) curved) {
	index := constraintIndex(a.b.data.PathConstraints, func(c *PathConstraintData) string { return c.Name }, constraint)
	if index < 0 {
		a.fail("path constraint %q: %w", constraint, ErrNotFound)
		return
	}
	if !a.checkKeys(what+" "+constraint, keys, values) {
		return
	}
	t := create(len(keys), bezierCount(keys, values), index)
	fillCurve(t, keys, values, nil)
	a.add(t, keys[len(keys)-1].Time)
}

func (a *AnimationBuilder) PathPosition(constraint string, keys ...Key) {
	a.pathCurve("path position", constraint, keys, 1, func(f, bz, i int) curved { return NewPathConstraintPositionTimeline(f, bz, i) })
}

func (a *AnimationBuilder) PathSpacing(constraint string, keys ...Key) {
	a.pathCurve("path spacing", constraint, keys, 1, func(f, bz, i int) curved { return NewPathConstraintSpacingTimeline(f, bz, i) })
}

// PathMix keys rotate, x and y mixes.
func (a *AnimationBuilder) PathMix(constraint string, keys ...Key) {
	a.pathCurve("path mix", constraint, keys, 3, func(f, bz, i int) curved { return NewPathConstraintMixTimeline(f, bz, i) })
}
