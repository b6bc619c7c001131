package skeletal

// IkConstraintTimeline keys an IK constraint's mix, softness, bend
// direction, compress and stretch. Only mix and softness are interpolated.
type IkConstraintTimeline struct {
	curveTimeline
	ikRef
}

func NewIkConstraintTimeline(frameCount, bezierCount, constraint int) *IkConstraintTimeline {
	return &IkConstraintTimeline{
		curveTimeline: newCurveTimeline(frameCount, 6, bezierCount, propertyID(PropertyIkConstraint, constraint)),
		ikRef:         ikRef{constraint},
	}
}

func boolFloat(v bool) float32 {
	if v {
		return 1
	}
	return 0
}

func (t *IkConstraintTimeline) SetFrame(frame int, time, mix, softness float32, bendDirection int, compress, stretch bool) {
	frame *= 6
	f := t.frames
	f[frame] = time
	f[frame+1] = mix
	f[frame+2] = softness
	f[frame+3] = float32(bendDirection)
	f[frame+4] = boolFloat(compress)
	f[frame+5] = boolFloat(stretch)
}

func (t *IkConstraintTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, direction MixDirection) {
	c := skeleton.ikConstraint(t.constraint)
	if !c.active {
		return
	}
	data := c.data
	frames := t.frames
	if time < frames[0] {
		switch blend {
		case MixSetup:
			c.SetToSetupPose()
		case MixFirst:
			c.Mix += (data.Mix - c.Mix) * alpha
			c.Softness += (data.Softness - c.Softness) * alpha
			c.BendDirection = data.BendDirection
			c.Compress = data.Compress
			c.Stretch = data.Stretch
		}
		return
	}

	i := Search(frames, time, 6)
	mix, softness := t.curveValue(time, i, 1), t.curveValue(time, i, 2)
	keyed := func() {
		c.BendDirection = int(frames[i+3])
		c.Compress = frames[i+4] != 0
		c.Stretch = frames[i+5] != 0
	}
	if blend == MixSetup {
		c.Mix = data.Mix + (mix-data.Mix)*alpha
		c.Softness = data.Softness + (softness-data.Softness)*alpha
		if direction == MixOut {
			c.BendDirection = data.BendDirection
			c.Compress = data.Compress
			c.Stretch = data.Stretch
		} else {
			keyed()
		}
		return
	}
	c.Mix += (mix - c.Mix) * alpha
	c.Softness += (softness - c.Softness) * alpha
	if direction == MixIn {
		keyed()
	}
}

// TransformConstraintMix is one keyed set of transform constraint mixes.
type TransformConstraintMix struct {
	Rotate, X, Y, ScaleX, ScaleY, ShearY float32
}

// TransformConstraintTimeline keys a transform constraint's mixes.
type TransformConstraintTimeline struct {
	curveTimeline
	transformRef
}

func NewTransformConstraintTimeline(frameCount, bezierCount, constraint int) *TransformConstraintTimeline {
	return &TransformConstraintTimeline{
		curveTimeline: newCurveTimeline(frameCount, 7, bezierCount, propertyID(PropertyTransformConstraint, constraint)),
		transformRef:  transformRef{constraint},
	}
}

func (t *TransformConstraintTimeline) SetFrame(frame int, time float32, m TransformConstraintMix) {
	frame *= 7
	f := t.frames
	f[frame] = time
	f[frame+1], f[frame+2], f[frame+3] = m.Rotate, m.X, m.Y
	f[frame+4], f[frame+5], f[frame+6] = m.ScaleX, m.ScaleY, m.ShearY
}

func (t *TransformConstraintTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	c := skeleton.transformConstraint(t.constraint)
	if !c.active {
		return
	}
	d := c.data
	current := [...]*float32{&c.MixRotate, &c.MixX, &c.MixY, &c.MixScaleX, &c.MixScaleY, &c.MixShearY}
	setup := [6]float32{d.MixRotate, d.MixX, d.MixY, d.MixScaleX, d.MixScaleY, d.MixShearY}

	if time < t.frames[0] {
		for k, p := range current {
			*p = beforeFirst(alpha, blend, *p, setup[k])
		}
		return
	}
	i := Search(t.frames, time, 7)
	for k, p := range current {
		*p = mixAbsolute(t.curveValue(time, i, k+1), alpha, blend, *p, setup[k])
	}
}

// PathConstraintPositionTimeline keys a path constraint's position.
type PathConstraintPositionTimeline struct {
	curveTimeline1
	pathRef
}

func NewPathConstraintPositionTimeline(frameCount, bezierCount, constraint int) *PathConstraintPositionTimeline {
	return &PathConstraintPositionTimeline{
		curveTimeline1: newCurveTimeline1(frameCount, bezierCount, propertyID(PropertyPathConstraintPosition, constraint)),
		pathRef:        pathRef{constraint},
	}
}

func (t *PathConstraintPositionTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	if c := skeleton.pathConstraint(t.constraint); c.active {
		c.Position = t.absoluteValue(time, alpha, blend, c.Position, c.data.Position)
	}
}

// PathConstraintSpacingTimeline keys a path constraint's spacing.
type PathConstraintSpacingTimeline struct {
	curveTimeline1
	pathRef
}

func NewPathConstraintSpacingTimeline(frameCount, bezierCount, constraint int) *PathConstraintSpacingTimeline {
	return &PathConstraintSpacingTimeline{
		curveTimeline1: newCurveTimeline1(frameCount, bezierCount, propertyID(PropertyPathConstraintSpacing, constraint)),
		pathRef:        pathRef{constraint},
	}
}

func (t *PathConstraintSpacingTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	if c := skeleton.pathConstraint(t.constraint); c.active {
		c.Spacing = t.absoluteValue(time, alpha, blend, c.Spacing, c.data.Spacing)
	}
}

// PathConstraintMixTimeline keys a path constraint's rotate, x and y mixes.
type PathConstraintMixTimeline struct {
	curveTimeline
	pathRef
}

func NewPathConstraintMixTimeline(frameCount, bezierCount, constraint int) *PathConstraintMixTimeline {
	return &PathConstraintMixTimeline{
		curveTimeline: newCurveTimeline(frameCount, 4, bezierCount, propertyID(PropertyPathConstraintMix, constraint)),
		pathRef:       pathRef{constraint},
	}
}

func (t *PathConstraintMixTimeline) SetFrame(frame int, time, mixRotate, mixX, mixY float32) {
	frame <<= 2
	f := t.frames
	f[frame] = time
	f[frame+1], f[frame+2], f[frame+3] = mixRotate, mixX, mixY
}

func (t *PathConstraintMixTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	c := skeleton.pathConstraint(t.constraint)
	if !c.active {
		return
	}
	d := c.data
	if time < t.frames[0] {
		c.MixRotate = beforeFirst(alpha, blend, c.MixRotate, d.MixRotate)
		c.MixX = beforeFirst(alpha, blend, c.MixX, d.MixX)
		c.MixY = beforeFirst(alpha, blend, c.MixY, d.MixY)
		return
	}
	i := Search(t.frames, time, 4)
	c.MixRotate = mixAbsolute(t.curveValue(time, i, 1), alpha, blend, c.MixRotate, d.MixRotate)
	c.MixX = mixAbsolute(t.curveValue(time, i, 2), alpha, blend, c.MixX, d.MixX)
	c.MixY = mixAbsolute(t.curveValue(time, i, 3), alpha, blend, c.MixY, d.MixY)
}
