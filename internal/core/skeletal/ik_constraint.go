package skeletal

// ConstraintData is shared by all constraint definitions.
type ConstraintData struct {
	Name string
	// Order is the position of the constraint in the update cache relative
	// to all other constraints.
	Order        int
	SkinRequired bool
}

// IkConstraintData rotates one or two bones so the tip reaches a target.
type IkConstraintData struct {
	ConstraintData
	Bones         []int
	Target        int
	Mix           float32
	Softness      float32
	BendDirection int
	Compress      bool
	Stretch       bool
	Uniform       bool
}

func NewIkConstraintData(name string) *IkConstraintData {
	return &IkConstraintData{ConstraintData: ConstraintData{Name: name}, Mix: 1, BendDirection: 1}
}

type IkConstraint struct {
	data     *IkConstraintData
	skeleton *Skeleton
	bones    []int
	target   int

	Mix           float32
	Softness      float32
	BendDirection int
	Compress      bool
	Stretch       bool

	active bool
}

func newIkConstraint(data *IkConstraintData, skeleton *Skeleton) *IkConstraint {
	c := &IkConstraint{data: data, skeleton: skeleton, bones: data.Bones, target: data.Target}
	c.SetToSetupPose()
	return c
}

func (c *IkConstraint) Data() *IkConstraintData { return c.data }
func (c *IkConstraint) Bones() []int            { return c.bones }
func (c *IkConstraint) Target() *Bone           { return c.skeleton.bones[c.target] }
func (c *IkConstraint) IsActive() bool          { return c.active }
func (c *IkConstraint) String() string          { return c.data.Name }

func (c *IkConstraint) SetToSetupPose() {
	c.Mix = c.data.Mix
	c.Softness = c.data.Softness
	c.BendDirection = c.data.BendDirection
	c.Compress = c.data.Compress
	c.Stretch = c.data.Stretch
}

func (c *IkConstraint) Update(Physics) {
	if c.Mix == 0 {
		return
	}
	target := c.Target()
	bones := c.skeleton.bones
	switch len(c.bones) {
	case 1:
		ApplyIk1(bones[c.bones[0]], target.WorldX, target.WorldY, c.Compress, c.Stretch, c.data.Uniform, c.Mix)
	case 2:
		ApplyIk2(bones[c.bones[0]], bones[c.bones[1]], target.WorldX, target.WorldY, c.BendDirection, c.Stretch, c.data.Uniform, c.Softness, c.Mix)
	}
}

// ApplyIk1 rotates a single bone toward the target world position.
func ApplyIk1(bone *Bone, targetX, targetY float32, compress, stretch, uniform bool, alpha float32) {
	skeleton := bone.skeleton
	pa, pb, pc, pd, pwx, pwy := bone.parentFrame()
	ap := bone.Applied
	rotationIK := -ap.ShearX - ap.Rotation
	var tx, ty float32

	switch bone.Inherit {
	case InheritOnlyTranslation:
		tx = (targetX - bone.WorldX) * signum(skeleton.ScaleX)
		ty = (targetY - bone.WorldY) * signum(skeleton.ScaleY)
	default:
		if bone.Inherit == InheritNoRotationOrReflection {
			s := abs(pa*pd-pb*pc) / max(0.0001, pa*pa+pc*pc)
			sa := pa / skeleton.ScaleX
			sc := pc / skeleton.ScaleY
			pb = -sc * s * skeleton.ScaleX
			pd = sa * s * skeleton.ScaleY
			rotationIK += atan2Deg(sc, sa)
		}
		x, y := targetX-pwx, targetY-pwy
		d := pa*pd - pb*pc
		if abs(d) <= 0.0001 {
			tx, ty = 0, 0
		} else {
			tx = (x*pd-y*pb)/d - ap.X
			ty = (y*pa-x*pc)/d - ap.Y
		}
	}

	rotationIK += atan2Deg(ty, tx)
	if ap.ScaleX < 0 {
		rotationIK += 180
	}
	if rotationIK > 180 {
		rotationIK -= 360
	} else if rotationIK < -180 {
		rotationIK += 360
	}

	sx, sy := ap.ScaleX, ap.ScaleY
	if compress || stretch {
		switch bone.Inherit {
		case InheritNoScale, InheritNoScaleOrReflection:
			tx = targetX - bone.WorldX
			ty = targetY - bone.WorldY
		}
		b := bone.data.Length * sx
		if b > 0.0001 {
			dd := tx*tx + ty*ty
			if (compress && dd < b*b) || (stretch && dd > b*b) {
				s := (sqrt(dd)/b-1)*alpha + 1
				sx *= s
				if uniform {
					sy *= s
				}
			}
		}
	}
	bone.UpdateWorldTransformWith(Transform{
		X: ap.X, Y: ap.Y,
		Rotation: ap.Rotation + rotationIK*alpha,
		ScaleX:   sx, ScaleY: sy,
		ShearX: ap.ShearX, ShearY: ap.ShearY,
	})
}

// ApplyIk2 bends a parent and child bone so the child's tip reaches the
// target world position. Both bones must use InheritNormal.
func ApplyIk2(parent, child *Bone, targetX, targetY float32, bendDir int, stretch, uniform bool, softness, alpha float32) {
	if parent.Inherit != InheritNormal || child.Inherit != InheritNormal {
		return
	}
	pt, ct := parent.Applied, child.Applied
	px, py := pt.X, pt.Y
	psx, psy := pt.ScaleX, pt.ScaleY
	sx, sy := psx, psy
	csx := ct.ScaleX
	bend := float32(bendDir)

	var os1, os2, s2 float32
	if psx < 0 {
		psx = -psx
		os1 = 180
		s2 = -1
	} else {
		os1 = 0
		s2 = 1
	}
	if psy < 0 {
		psy = -psy
		s2 = -s2
	}
	if csx < 0 {
		csx = -csx
		os2 = 180
	}

	cx := ct.X
	var cy, cwx, cwy float32
	a, b, c, d := parent.A, parent.B, parent.C, parent.D
	u := abs(psx-psy) <= 0.0001
	if !u || stretch {
		cy = 0
		cwx = a*cx + parent.WorldX
		cwy = c*cx + parent.WorldY
	} else {
		cy = ct.Y
		cwx = a*cx + b*cy + parent.WorldX
		cwy = c*cx + d*cy + parent.WorldY
	}

	var ppx, ppy float32
	a, b, c, d, ppx, ppy = parent.parentFrame()
	id := a*d - b*c
	x, y := cwx-ppx, cwy-ppy
	if abs(id) <= 0.0001 {
		id = 0
	} else {
		id = 1 / id
	}
	dx := (x*d-y*b)*id - px
	dy := (y*a-x*c)*id - py
	l1 := sqrt(dx*dx + dy*dy)
	l2 := child.data.Length * csx
	if l1 < 0.0001 {
		ApplyIk1(parent, targetX, targetY, false, stretch, false, alpha)
		child.UpdateWorldTransformWith(Transform{X: cx, Y: cy, ScaleX: ct.ScaleX, ScaleY: ct.ScaleY, ShearX: ct.ShearX, ShearY: ct.ShearY})
		return
	}

	x, y = targetX-ppx, targetY-ppy
	tx := (x*d-y*b)*id - px
	ty := (y*a-x*c)*id - py
	dd := tx*tx + ty*ty
	if softness != 0 {
		softness *= psx * (csx + 1) * 0.5
		td := sqrt(dd)
		sd := td - l1 - l2*psx + softness
		if sd > 0 {
			p := min(1, sd/(softness*2)) - 1
			p = (sd - softness*(1-p*p)) / td
			tx -= p * tx
			ty -= p * ty
			dd = tx*tx + ty*ty
		}
	}

	var a1, a2 float32
	if u {
		l2 *= psx
		cosine := (dd - l1*l1 - l2*l2) / (2 * l1 * l2)
		if cosine < -1 {
			cosine = -1
			a2 = pi * bend
		} else if cosine > 1 {
			cosine = 1
			a2 = 0
			if stretch {
				s := (sqrt(dd)/(l1+l2)-1)*alpha + 1
				sx *= s
				if uniform {
					sy *= s
				}
			}
		} else {
			a2 = acos(cosine) * bend
		}
		a = l1 + l2*cosine
		b = l2 * sin(a2)
		a1 = atan2(ty*a-tx*b, tx*a+ty*b)
	} else {
		a1, a2 = solveIkEllipse(l1, l2, psx, psy, tx, ty, dd, bend)
	}

	os := atan2(cy, cx) * s2
	rotation := pt.Rotation
	a1 = (a1-os)*radDeg + os1 - rotation
	if a1 > 180 {
		a1 -= 360
	} else if a1 < -180 {
		a1 += 360
	}
	parent.UpdateWorldTransformWith(Transform{X: px, Y: py, Rotation: rotation + a1*alpha, ScaleX: sx, ScaleY: sy})

	rotation = ct.Rotation
	a2 = ((a2+os)*radDeg-ct.ShearX)*s2 + os2 - rotation
	if a2 > 180 {
		a2 -= 360
	} else if a2 < -180 {
		a2 += 360
	}
	child.UpdateWorldTransformWith(Transform{
		X: cx, Y: cy,
		Rotation: rotation + a2*alpha,
		ScaleX:   ct.ScaleX, ScaleY: ct.ScaleY,
		ShearX: ct.ShearX, ShearY: ct.ShearY,
	})
}

// solveIkEllipse handles a non-uniformly scaled parent, where the reach
// of the child is an ellipse rather than a circle.
func solveIkEllipse(l1, l2, psx, psy, tx, ty, dd, bend float32) (a1, a2 float32) {
	a := psx * l2
	b := psy * l2
	aa, bb := a*a, b*b
	ta := atan2(ty, tx)
	c := bb*l1*l1 + aa*dd - aa*bb
	c1 := -2 * bb * l1
	c2 := bb - aa
	d := c1*c1 - 4*c2*c
	if d >= 0 {
		q := sqrt(d)
		if c1 < 0 {
			q = -q
		}
		q = -(c1 + q) * 0.5
		r0, r1 := q/c2, c/q
		r := r1
		if abs(r0) < abs(r1) {
			r = r0
		}
		r0 = dd - r*r
		if r0 >= 0 {
			y := sqrt(r0) * bend
			return ta - atan2(y, r), atan2(y/psy, (r-l1)/psx)
		}
	}

	minAngle, minX, minY := pi, l1-a, float32(0)
	minDist := minX * minX
	maxAngle, maxX, maxY := float32(0), l1+a, float32(0)
	maxDist := maxX * maxX
	c = -a * l1 / (aa - bb)
	if c >= -1 && c <= 1 {
		c = acos(c)
		x := a*cos(c) + l1
		y := b * sin(c)
		d = x*x + y*y
		if d < minDist {
			minAngle, minDist, minX, minY = c, d, x, y
		}
		if d > maxDist {
			maxAngle, maxDist, maxX, maxY = c, d, x, y
		}
	}
	if dd <= (minDist+maxDist)*0.5 {
		return ta - atan2(minY*bend, minX), minAngle * bend
	}
	return ta - atan2(maxY*bend, maxX), maxAngle * bend
}
