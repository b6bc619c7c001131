package skeletal

// RotateTimeline keys a bone's local rotation in degrees.
type RotateTimeline struct {
	curveTimeline1
	boneRef
}

func NewRotateTimeline(frameCount, bezierCount, bone int) *RotateTimeline {
	return &RotateTimeline{
		curveTimeline1: newCurveTimeline1(frameCount, bezierCount, propertyID(PropertyRotate, bone)),
		boneRef:        boneRef{bone},
	}
}

// SetFrame stores degrees unwrapped relative to the previous frame so
// interpolation takes the shortest way around. Frames must be set in order.
func (t *RotateTimeline) SetFrame(frame int, time, degrees float32) {
	if frame > 0 {
		prev := t.frames[(frame-1)<<1+1]
		degrees = prev + WrapDegrees(degrees-prev)
	}
	t.curveTimeline1.SetFrame(frame, time, degrees)
}

func (t *RotateTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	bone := skeleton.bone(t.bone)
	if !bone.active {
		return
	}
	bone.Local.Rotation = t.relativeValue(time, alpha, blend, bone.Local.Rotation, bone.data.Setup.Rotation)
}

// TranslateTimeline keys a bone's local x and y.
type TranslateTimeline struct {
	curveTimeline2
	boneRef
}

func NewTranslateTimeline(frameCount, bezierCount, bone int) *TranslateTimeline {
	return &TranslateTimeline{
		curveTimeline2: newCurveTimeline2(frameCount, bezierCount, propertyID(PropertyX, bone), propertyID(PropertyY, bone)),
		boneRef:        boneRef{bone},
	}
}

func (t *TranslateTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	bone := skeleton.bone(t.bone)
	if !bone.active {
		return
	}
	setup := &bone.data.Setup
	if time < t.frames[0] {
		bone.Local.X = beforeFirst(alpha, blend, bone.Local.X, setup.X)
		bone.Local.Y = beforeFirst(alpha, blend, bone.Local.Y, setup.Y)
		return
	}
	x, y := t.values(time)
	bone.Local.X = mixRelative(x, alpha, blend, bone.Local.X, setup.X)
	bone.Local.Y = mixRelative(y, alpha, blend, bone.Local.Y, setup.Y)
}

// TranslateXTimeline keys a bone's local x.
type TranslateXTimeline struct {
	curveTimeline1
	boneRef
}

func NewTranslateXTimeline(frameCount, bezierCount, bone int) *TranslateXTimeline {
	return &TranslateXTimeline{newCurveTimeline1(frameCount, bezierCount, propertyID(PropertyX, bone)), boneRef{bone}}
}

func (t *TranslateXTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	if bone := skeleton.bone(t.bone); bone.active {
		bone.Local.X = t.relativeValue(time, alpha, blend, bone.Local.X, bone.data.Setup.X)
	}
}

// TranslateYTimeline keys a bone's local y.
type TranslateYTimeline struct {
	curveTimeline1
	boneRef
}

func NewTranslateYTimeline(frameCount, bezierCount, bone int) *TranslateYTimeline {
	return &TranslateYTimeline{newCurveTimeline1(frameCount, bezierCount, propertyID(PropertyY, bone)), boneRef{bone}}
}

func (t *TranslateYTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	if bone := skeleton.bone(t.bone); bone.active {
		bone.Local.Y = t.relativeValue(time, alpha, blend, bone.Local.Y, bone.data.Setup.Y)
	}
}

// ScaleTimeline keys a bone's local scale as a multiple of the setup scale.
type ScaleTimeline struct {
	curveTimeline2
	boneRef
}

func NewScaleTimeline(frameCount, bezierCount, bone int) *ScaleTimeline {
	return &ScaleTimeline{
		curveTimeline2: newCurveTimeline2(frameCount, bezierCount, propertyID(PropertyScaleX, bone), propertyID(PropertyScaleY, bone)),
		boneRef:        boneRef{bone},
	}
}

func (t *ScaleTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, direction MixDirection) {
	bone := skeleton.bone(t.bone)
	if !bone.active {
		return
	}
	setup := &bone.data.Setup
	if time < t.frames[0] {
		bone.Local.ScaleX = beforeFirst(alpha, blend, bone.Local.ScaleX, setup.ScaleX)
		bone.Local.ScaleY = beforeFirst(alpha, blend, bone.Local.ScaleY, setup.ScaleY)
		return
	}
	x, y := t.values(time)
	bone.Local.ScaleX = mixScale(x, alpha, blend, direction, bone.Local.ScaleX, setup.ScaleX)
	bone.Local.ScaleY = mixScale(y, alpha, blend, direction, bone.Local.ScaleY, setup.ScaleY)
}

type ScaleXTimeline struct {
	curveTimeline1
	boneRef
}

func NewScaleXTimeline(frameCount, bezierCount, bone int) *ScaleXTimeline {
	return &ScaleXTimeline{newCurveTimeline1(frameCount, bezierCount, propertyID(PropertyScaleX, bone)), boneRef{bone}}
}

func (t *ScaleXTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, direction MixDirection) {
	if bone := skeleton.bone(t.bone); bone.active {
		bone.Local.ScaleX = t.scaleValue(time, alpha, blend, direction, bone.Local.ScaleX, bone.data.Setup.ScaleX)
	}
}

type ScaleYTimeline struct {
	curveTimeline1
	boneRef
}

func NewScaleYTimeline(frameCount, bezierCount, bone int) *ScaleYTimeline {
	return &ScaleYTimeline{newCurveTimeline1(frameCount, bezierCount, propertyID(PropertyScaleY, bone)), boneRef{bone}}
}

func (t *ScaleYTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, direction MixDirection) {
	if bone := skeleton.bone(t.bone); bone.active {
		bone.Local.ScaleY = t.scaleValue(time, alpha, blend, direction, bone.Local.ScaleY, bone.data.Setup.ScaleY)
	}
}

// ShearTimeline keys a bone's local shear in degrees.
type ShearTimeline struct {
	curveTimeline2
	boneRef
}

func NewShearTimeline(frameCount, bezierCount, bone int) *ShearTimeline {
	return &ShearTimeline{
		curveTimeline2: newCurveTimeline2(frameCount, bezierCount, propertyID(PropertyShearX, bone), propertyID(PropertyShearY, bone)),
		boneRef:        boneRef{bone},
	}
}

func (t *ShearTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	bone := skeleton.bone(t.bone)
	if !bone.active {
		return
	}
	setup := &bone.data.Setup
	if time < t.frames[0] {
		bone.Local.ShearX = beforeFirst(alpha, blend, bone.Local.ShearX, setup.ShearX)
		bone.Local.ShearY = beforeFirst(alpha, blend, bone.Local.ShearY, setup.ShearY)
		return
	}
	x, y := t.values(time)
	bone.Local.ShearX = mixRelative(x, alpha, blend, bone.Local.ShearX, setup.ShearX)
	bone.Local.ShearY = mixRelative(y, alpha, blend, bone.Local.ShearY, setup.ShearY)
}

type ShearXTimeline struct {
	curveTimeline1
	boneRef
}

func NewShearXTimeline(frameCount, bezierCount, bone int) *ShearXTimeline {
	return &ShearXTimeline{newCurveTimeline1(frameCount, bezierCount, propertyID(PropertyShearX, bone)), boneRef{bone}}
}

func (t *ShearXTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	if bone := skeleton.bone(t.bone); bone.active {
		bone.Local.ShearX = t.relativeValue(time, alpha, blend, bone.Local.ShearX, bone.data.Setup.ShearX)
	}
}

type ShearYTimeline struct {
	curveTimeline1
	boneRef
}

func NewShearYTimeline(frameCount, bezierCount, bone int) *ShearYTimeline {
	return &ShearYTimeline{newCurveTimeline1(frameCount, bezierCount, propertyID(PropertyShearY, bone)), boneRef{bone}}
}

func (t *ShearYTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	if bone := skeleton.bone(t.bone); bone.active {
		bone.Local.ShearY = t.relativeValue(time, alpha, blend, bone.Local.ShearY, bone.data.Setup.ShearY)
	}
}

// InheritTimeline keys a bone's inherit mode. Frames are not interpolated.
type InheritTimeline struct {
	timeline
	boneRef
}

func NewInheritTimeline(frameCount, bone int) *InheritTimeline {
	return &InheritTimeline{newTimeline(frameCount, 2, propertyID(PropertyInherit, bone)), boneRef{bone}}
}

func (t *InheritTimeline) SetFrame(frame int, time float32, inherit Inherit) {
	frame <<= 1
	t.frames[frame] = time
	t.frames[frame+1] = float32(inherit)
}

func (t *InheritTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, _ float32, blend MixBlend, direction MixDirection) {
	bone := skeleton.bone(t.bone)
	if !bone.active {
		return
	}
	if direction == MixOut {
		if blend == MixSetup {
			bone.Inherit = bone.data.Inherit
		}
		return
	}
	if time < t.frames[0] {
		if blend == MixSetup || blend == MixFirst {
			bone.Inherit = bone.data.Inherit
		}
		return
	}
	bone.Inherit = Inherit(t.frames[Search(t.frames, time, 2)+1])
}
