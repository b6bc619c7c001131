package skeletal

// BoneData is the immutable setup definition of a bone.
type BoneData struct {
	Index        int
	Name         string
	Parent       int // -1 for a root bone
	Length       float32
	Setup        Transform
	Inherit      Inherit
	SkinRequired bool
	Color        Color
}

func NewBoneData(index int, name string, parent int) *BoneData {
	return &BoneData{
		Index:  index,
		Name:   name,
		Parent: parent,
		Setup:  Identity,
		Color:  NewColor(0.61, 0.61, 0.61, 1),
	}
}

// Bone is the runtime state of a bone. Relationships to other bones are
// indices into the owning skeleton's bone slice.
type Bone struct {
	data     *BoneData
	skeleton *Skeleton
	parent   int
	children []int

	// Local is the pose written by timelines.
	Local Transform
	// Applied is the pose the world transform was last computed from.
	// Constraints may change it.
	Applied Transform
	Inherit Inherit

	// World 2x2 matrix and translation.
	A, B, C, D     float32
	WorldX, WorldY float32

	sorted bool
	active bool
}

func newBone(data *BoneData, skeleton *Skeleton) *Bone {
	b := &Bone{data: data, skeleton: skeleton, parent: data.Parent}
	b.SetToSetupPose()
	return b
}

func (b *Bone) Data() *BoneData     { return b.data }
func (b *Bone) Skeleton() *Skeleton { return b.skeleton }
func (b *Bone) Index() int          { return b.data.Index }
func (b *Bone) ParentIndex() int    { return b.parent }
func (b *Bone) Children() []int     { return b.children }
func (b *Bone) IsActive() bool      { return b.active }

// Parent returns the parent bone or nil for a root bone.
func (b *Bone) Parent() *Bone {
	if b.parent < 0 {
		return nil
	}
	return b.skeleton.bones[b.parent]
}

func (b *Bone) String() string { return b.data.Name }

// Update computes the world transform from the applied pose.
func (b *Bone) Update(Physics) {
	b.UpdateWorldTransformWith(b.Applied)
}

// UpdateWorldTransform computes the world transform from the local pose.
func (b *Bone) UpdateWorldTransform() {
	b.UpdateWorldTransformWith(b.Local)
}

// UpdateWorldTransformWith stores t as the applied pose and composes the
// world transform from it and the parent's world transform.
func (b *Bone) UpdateWorldTransformWith(t Transform) {
	b.Applied = t
	skeleton := b.skeleton
	sx, sy := skeleton.ScaleX, skeleton.ScaleY

	parent := b.Parent()
	if parent == nil {
		rx := (t.Rotation + t.ShearX) * degRad
		ry := (t.Rotation + 90 + t.ShearY) * degRad
		b.A = cos(rx) * t.ScaleX * sx
		b.B = cos(ry) * t.ScaleY * sx
		b.C = sin(rx) * t.ScaleX * sy
		b.D = sin(ry) * t.ScaleY * sy
		b.WorldX = t.X*sx + skeleton.X
		b.WorldY = t.Y*sy + skeleton.Y
		return
	}

	pa, pb, pc, pd := parent.A, parent.B, parent.C, parent.D
	b.WorldX = pa*t.X + pb*t.Y + parent.WorldX
	b.WorldY = pc*t.X + pd*t.Y + parent.WorldY

	switch b.Inherit {
	case InheritNormal:
		rx := (t.Rotation + t.ShearX) * degRad
		ry := (t.Rotation + 90 + t.ShearY) * degRad
		la := cos(rx) * t.ScaleX
		lb := cos(ry) * t.ScaleY
		lc := sin(rx) * t.ScaleX
		ld := sin(ry) * t.ScaleY
		b.A = pa*la + pb*lc
		b.B = pa*lb + pb*ld
		b.C = pc*la + pd*lc
		b.D = pc*lb + pd*ld
		return
	case InheritOnlyTranslation:
		rx := (t.Rotation + t.ShearX) * degRad
		ry := (t.Rotation + 90 + t.ShearY) * degRad
		b.A = cos(rx) * t.ScaleX
		b.B = cos(ry) * t.ScaleY
		b.C = sin(rx) * t.ScaleX
		b.D = sin(ry) * t.ScaleY
	case InheritNoRotationOrReflection:
		isx, isy := 1/sx, 1/sy
		pa *= isx
		pc *= isy
		s := pa*pa + pc*pc
		var prx float32
		if s > 0.0001 {
			s = abs(pa*pd*isy-pb*isx*pc) / s
			pb = pc * s
			pd = pa * s
			prx = atan2Deg(pc, pa)
		} else {
			pa, pc = 0, 0
			prx = 90 - atan2Deg(pd, pb)
		}
		rx := (t.Rotation + t.ShearX - prx) * degRad
		ry := (t.Rotation + t.ShearY - prx + 90) * degRad
		la := cos(rx) * t.ScaleX
		lb := cos(ry) * t.ScaleY
		lc := sin(rx) * t.ScaleX
		ld := sin(ry) * t.ScaleY
		b.A = pa*la - pb*lc
		b.B = pa*lb - pb*ld
		b.C = pc*la + pd*lc
		b.D = pc*lb + pd*ld
	case InheritNoScale, InheritNoScaleOrReflection:
		r := t.Rotation * degRad
		rc, rs := cos(r), sin(r)
		za := (pa*rc + pb*rs) / sx
		zc := (pc*rc + pd*rs) / sy
		s := sqrt(za*za + zc*zc)
		if s > 0.00001 {
			s = 1 / s
		}
		za *= s
		zc *= s
		s = sqrt(za*za + zc*zc)
		if b.Inherit == InheritNoScale && (pa*pd-pb*pc < 0) != ((sx < 0) != (sy < 0)) {
			s = -s
		}
		r = pi/2 + atan2(zc, za)
		zb := cos(r) * s
		zd := sin(r) * s
		shx := t.ShearX * degRad
		shy := (90 + t.ShearY) * degRad
		la := cos(shx) * t.ScaleX
		lb := cos(shy) * t.ScaleY
		lc := sin(shx) * t.ScaleX
		ld := sin(shy) * t.ScaleY
		b.A = za*la + zb*lc
		b.B = za*lb + zb*ld
		b.C = zc*la + zd*lc
		b.D = zc*lb + zd*ld
	}
	b.A *= sx
	b.B *= sx
	b.C *= sy
	b.D *= sy
}

// SetToSetupPose resets the local pose and inherit mode to the setup values.
func (b *Bone) SetToSetupPose() {
	b.Local = b.data.Setup
	b.Inherit = b.data.Inherit
}

// UpdateAppliedTransform derives the applied pose from the current world
// transform. Constraints call it after editing the world matrix directly.
func (b *Bone) UpdateAppliedTransform() {
	skeleton := b.skeleton
	parent := b.Parent()
	if parent == nil {
		a, bb, c, d := b.A, b.B, b.C, b.D
		b.Applied = Transform{
			X:        b.WorldX - skeleton.X,
			Y:        b.WorldY - skeleton.Y,
			Rotation: atan2Deg(c, a),
			ScaleX:   sqrt(a*a + c*c),
			ScaleY:   sqrt(bb*bb + d*d),
			ShearY:   atan2Deg(a*bb+c*d, a*d-bb*c),
		}
		return
	}

	pa, pb, pc, pd := parent.A, parent.B, parent.C, parent.D
	pid := 1 / (pa*pd - pb*pc)
	ia, ib, ic, id := pd*pid, pb*pid, pc*pid, pa*pid
	dx, dy := b.WorldX-parent.WorldX, b.WorldY-parent.WorldY
	b.Applied.X = dx*ia - dy*ib
	b.Applied.Y = dy*id - dx*ic

	var ra, rb, rc, rd float32
	if b.Inherit == InheritOnlyTranslation {
		ra, rb, rc, rd = b.A, b.B, b.C, b.D
	} else {
		switch b.Inherit {
		case InheritNoRotationOrReflection:
			s := abs(pa*pd-pb*pc) / (pa*pa + pc*pc)
			sa := pa / skeleton.ScaleX
			sc := pc / skeleton.ScaleY
			pb = -sc * s * skeleton.ScaleX
			pd = sa * s * skeleton.ScaleY
			pid = 1 / (pa*pd - pb*pc)
			ia = pd * pid
			ib = pb * pid
		case InheritNoScale, InheritNoScaleOrReflection:
			rcos, rsin := cosDeg(b.Local.Rotation), sinDeg(b.Local.Rotation)
			pa = (pa*rcos + pb*rsin) / skeleton.ScaleX
			pc = (pc*rcos + pd*rsin) / skeleton.ScaleY
			s := sqrt(pa*pa + pc*pc)
			if s > 0.00001 {
				s = 1 / s
			}
			pa *= s
			pc *= s
			s = sqrt(pa*pa + pc*pc)
			if b.Inherit == InheritNoScale && (pid < 0) != ((skeleton.ScaleX < 0) != (skeleton.ScaleY < 0)) {
				s = -s
			}
			r := pi/2 + atan2(pc, pa)
			pb = cos(r) * s
			pd = sin(r) * s
			pid = 1 / (pa*pd - pb*pc)
			ia = pd * pid
			ib = pb * pid
			ic = pc * pid
			id = pa * pid
		}
		ra = ia*b.A - ib*b.C
		rb = ia*b.B - ib*b.D
		rc = id*b.C - ic*b.A
		rd = id*b.D - ic*b.B
	}

	b.Applied.ShearX = 0
	b.Applied.ScaleX = sqrt(ra*ra + rc*rc)
	if b.Applied.ScaleX > 0.0001 {
		det := ra*rd - rb*rc
		b.Applied.ScaleY = det / b.Applied.ScaleX
		b.Applied.ShearY = -atan2Deg(ra*rb+rc*rd, det)
		b.Applied.Rotation = atan2Deg(rc, ra)
	} else {
		b.Applied.ScaleX = 0
		b.Applied.ScaleY = sqrt(rb*rb + rd*rd)
		b.Applied.ShearY = 0
		b.Applied.Rotation = 90 - atan2Deg(rd, rb)
	}
}

func (b *Bone) WorldRotationX() float32 { return atan2Deg(b.C, b.A) }
func (b *Bone) WorldRotationY() float32 { return atan2Deg(b.D, b.B) }
func (b *Bone) WorldScaleX() float32    { return sqrt(b.A*b.A + b.C*b.C) }
func (b *Bone) WorldScaleY() float32    { return sqrt(b.B*b.B + b.D*b.D) }

// WorldToLocal transforms a world position into this bone's local space.
func (b *Bone) WorldToLocal(worldX, worldY float32) (float32, float32) {
	invDet := 1 / (b.A*b.D - b.B*b.C)
	x, y := worldX-b.WorldX, worldY-b.WorldY
	return x*b.D*invDet - y*b.B*invDet, y*b.A*invDet - x*b.C*invDet
}

// LocalToWorld transforms a position in this bone's local space into world space.
func (b *Bone) LocalToWorld(localX, localY float32) (float32, float32) {
	return localX*b.A + localY*b.B + b.WorldX, localX*b.C + localY*b.D + b.WorldY
}

func (b *Bone) WorldToParent(worldX, worldY float32) (float32, float32) {
	if parent := b.Parent(); parent != nil {
		return parent.WorldToLocal(worldX, worldY)
	}
	return worldX, worldY
}

func (b *Bone) ParentToWorld(x, y float32) (float32, float32) {
	if parent := b.Parent(); parent != nil {
		return parent.LocalToWorld(x, y)
	}
	return x, y
}

func (b *Bone) WorldToLocalRotation(worldRotation float32) float32 {
	s, c := sinDeg(worldRotation), cosDeg(worldRotation)
	return atan2Deg(b.A*s-b.C*c, b.D*c-b.B*s) + b.Local.Rotation - b.Local.ShearX
}

func (b *Bone) LocalToWorldRotation(localRotation float32) float32 {
	localRotation -= b.Local.Rotation - b.Local.ShearX
	s, c := sinDeg(localRotation), cosDeg(localRotation)
	return atan2Deg(c*b.C+s*b.D, c*b.A+s*b.B)
}

// RotateWorld rotates the world matrix. The applied pose is left stale
// until UpdateAppliedTransform is called.
func (b *Bone) RotateWorld(degrees float32) {
	r := degrees * degRad
	s, c := sin(r), cos(r)
	ra, rb := b.A, b.B
	b.A = c*ra - s*b.C
	b.B = c*rb - s*b.D
	b.C = s*ra + c*b.C
	b.D = s*rb + c*b.D
}

// parentFrame returns the world matrix a bone's local translation is
// composed against. Root bones use the skeleton position and scale.
func (b *Bone) parentFrame() (pa, pb, pc, pd, wx, wy float32) {
	if parent := b.Parent(); parent != nil {
		return parent.A, parent.B, parent.C, parent.D, parent.WorldX, parent.WorldY
	}
	s := b.skeleton
	return s.ScaleX, 0, 0, s.ScaleY, s.X, s.Y
}
