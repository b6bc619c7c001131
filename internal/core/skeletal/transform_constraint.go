package skeletal

// TransformConstraintData copies a fraction of the target bone's
// transform onto the constrained bones.
type TransformConstraintData struct {
	ConstraintData
	Bones  []int
	Target int

	MixRotate, MixX, MixY          float32
	MixScaleX, MixScaleY, MixShearY float32

	OffsetRotation   float32
	OffsetX, OffsetY float32
	OffsetScaleX     float32
	OffsetScaleY     float32
	OffsetShearY     float32
	Relative, Local  bool
}

func NewTransformConstraintData(name string) *TransformConstraintData {
	return &TransformConstraintData{ConstraintData: ConstraintData{Name: name}}
}

type TransformConstraint struct {
	data     *TransformConstraintData
	skeleton *Skeleton
	bones    []int
	target   int

	MixRotate, MixX, MixY          float32
	MixScaleX, MixScaleY, MixShearY float32

	active bool
}

func newTransformConstraint(data *TransformConstraintData, skeleton *Skeleton) *TransformConstraint {
	c := &TransformConstraint{data: data, skeleton: skeleton, bones: data.Bones, target: data.Target}
	c.SetToSetupPose()
	return c
}

func (c *TransformConstraint) Data() *TransformConstraintData { return c.data }
func (c *TransformConstraint) Bones() []int                   { return c.bones }
func (c *TransformConstraint) Target() *Bone                  { return c.skeleton.bones[c.target] }
func (c *TransformConstraint) IsActive() bool                 { return c.active }
func (c *TransformConstraint) String() string                 { return c.data.Name }

func (c *TransformConstraint) SetToSetupPose() {
	d := c.data
	c.MixRotate, c.MixX, c.MixY = d.MixRotate, d.MixX, d.MixY
	c.MixScaleX, c.MixScaleY, c.MixShearY = d.MixScaleX, d.MixScaleY, d.MixShearY
}

func (c *TransformConstraint) Update(Physics) {
	if c.MixRotate == 0 && c.MixX == 0 && c.MixY == 0 && c.MixScaleX == 0 && c.MixScaleY == 0 && c.MixShearY == 0 {
		return
	}
	switch {
	case c.data.Local && c.data.Relative:
		c.applyRelativeLocal()
	case c.data.Local:
		c.applyAbsoluteLocal()
	case c.data.Relative:
		c.applyRelativeWorld()
	default:
		c.applyAbsoluteWorld()
	}
}

func wrapRadians(r float32) float32 {
	if r > pi {
		return r - pi2
	}
	if r < -pi {
		return r + pi2
	}
	return r
}

func (c *TransformConstraint) applyAbsoluteWorld() {
	d := c.data
	translate := c.MixX != 0 || c.MixY != 0
	target := c.Target()
	ta, tb, tc, td := target.A, target.B, target.C, target.D
	reflect := degRad
	if ta*td-tb*tc <= 0 {
		reflect = -degRad
	}
	offsetRotation := d.OffsetRotation * reflect
	offsetShearY := d.OffsetShearY * reflect

	for _, index := range c.bones {
		bone := c.skeleton.bones[index]
		if c.MixRotate != 0 {
			a, b, cc, dd := bone.A, bone.B, bone.C, bone.D
			r := wrapRadians(atan2(tc, ta)-atan2(cc, a)+offsetRotation) * c.MixRotate
			cs, sn := cos(r), sin(r)
			bone.A = cs*a - sn*cc
			bone.B = cs*b - sn*dd
			bone.C = sn*a + cs*cc
			bone.D = sn*b + cs*dd
		}
		if translate {
			x, y := target.LocalToWorld(d.OffsetX, d.OffsetY)
			bone.WorldX += (x - bone.WorldX) * c.MixX
			bone.WorldY += (y - bone.WorldY) * c.MixY
		}
		if c.MixScaleX != 0 {
			s := sqrt(bone.A*bone.A + bone.C*bone.C)
			if s != 0 {
				s = (s + (sqrt(ta*ta+tc*tc)-s+d.OffsetScaleX)*c.MixScaleX) / s
			}
			bone.A *= s
			bone.C *= s
		}
		if c.MixScaleY != 0 {
			s := sqrt(bone.B*bone.B + bone.D*bone.D)
			if s != 0 {
				s = (s + (sqrt(tb*tb+td*td)-s+d.OffsetScaleY)*c.MixScaleY) / s
			}
			bone.B *= s
			bone.D *= s
		}
		if c.MixShearY > 0 {
			b, dd := bone.B, bone.D
			by := atan2(dd, b)
			r := wrapRadians(atan2(td, tb) - atan2(tc, ta) - (by - atan2(bone.C, bone.A)))
			r = by + (r+offsetShearY)*c.MixShearY
			s := sqrt(b*b + dd*dd)
			bone.B = cos(r) * s
			bone.D = sin(r) * s
		}
		bone.UpdateAppliedTransform()
	}
}

func (c *TransformConstraint) applyRelativeWorld() {
	d := c.data
	translate := c.MixX != 0 || c.MixY != 0
	target := c.Target()
	ta, tb, tc, td := target.A, target.B, target.C, target.D
	reflect := degRad
	if ta*td-tb*tc <= 0 {
		reflect = -degRad
	}
	offsetRotation := d.OffsetRotation * reflect
	offsetShearY := d.OffsetShearY * reflect

	for _, index := range c.bones {
		bone := c.skeleton.bones[index]
		if c.MixRotate != 0 {
			a, b, cc, dd := bone.A, bone.B, bone.C, bone.D
			r := wrapRadians(atan2(tc, ta)+offsetRotation) * c.MixRotate
			cs, sn := cos(r), sin(r)
			bone.A = cs*a - sn*cc
			bone.B = cs*b - sn*dd
			bone.C = sn*a + cs*cc
			bone.D = sn*b + cs*dd
		}
		if translate {
			x, y := target.LocalToWorld(d.OffsetX, d.OffsetY)
			bone.WorldX += x * c.MixX
			bone.WorldY += y * c.MixY
		}
		if c.MixScaleX != 0 {
			s := (sqrt(ta*ta+tc*tc)-1+d.OffsetScaleX)*c.MixScaleX + 1
			bone.A *= s
			bone.C *= s
		}
		if c.MixScaleY != 0 {
			s := (sqrt(tb*tb+td*td)-1+d.OffsetScaleY)*c.MixScaleY + 1
			bone.B *= s
			bone.D *= s
		}
		if c.MixShearY > 0 {
			r := wrapRadians(atan2(td, tb) - atan2(tc, ta))
			b, dd := bone.B, bone.D
			r = atan2(dd, b) + (r-pi/2+offsetShearY)*c.MixShearY
			s := sqrt(b*b + dd*dd)
			bone.B = cos(r) * s
			bone.D = sin(r) * s
		}
		bone.UpdateAppliedTransform()
	}
}

func (c *TransformConstraint) applyAbsoluteLocal() {
	d := c.data
	target := c.Target().Applied
	for _, index := range c.bones {
		bone := c.skeleton.bones[index]
		t := bone.Applied
		if c.MixRotate != 0 {
			t.Rotation += (target.Rotation - t.Rotation + d.OffsetRotation) * c.MixRotate
		}
		t.X += (target.X - t.X + d.OffsetX) * c.MixX
		t.Y += (target.Y - t.Y + d.OffsetY) * c.MixY
		if c.MixScaleX != 0 {
			t.ScaleX += (target.ScaleX - t.ScaleX + d.OffsetScaleX) * c.MixScaleX
		}
		if c.MixScaleY != 0 {
			t.ScaleY += (target.ScaleY - t.ScaleY + d.OffsetScaleY) * c.MixScaleY
		}
		if c.MixShearY != 0 {
			t.ShearY += (target.ShearY - t.ShearY + d.OffsetShearY) * c.MixShearY
		}
		bone.UpdateWorldTransformWith(t)
	}
}

func (c *TransformConstraint) applyRelativeLocal() {
	d := c.data
	target := c.Target().Applied
	for _, index := range c.bones {
		bone := c.skeleton.bones[index]
		t := bone.Applied
		t.Rotation += (target.Rotation + d.OffsetRotation) * c.MixRotate
		t.X += (target.X + d.OffsetX) * c.MixX
		t.Y += (target.Y + d.OffsetY) * c.MixY
		t.ScaleX *= (target.ScaleX-1+d.OffsetScaleX)*c.MixScaleX + 1
		t.ScaleY *= (target.ScaleY-1+d.OffsetScaleY)*c.MixScaleY + 1
		t.ShearY += (target.ShearY + d.OffsetShearY) * c.MixShearY
		bone.UpdateWorldTransformWith(t)
	}
}
