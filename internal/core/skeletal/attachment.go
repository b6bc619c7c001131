package skeletal

import "sync/atomic"

// Attachment is immutable geometry drawn for, or attached to, a slot.
type Attachment interface {
	Name() string
}

// Deformable is implemented by attachments whose vertices are positioned
// by bones and may be changed by deform timelines.
type Deformable interface {
	Attachment
	VertexData() *VertexAttachment
}

var nextVertexAttachmentID atomic.Uint32

// VertexAttachment holds vertices that are either relative to the slot's
// bone (Bones is nil) or weighted across several bones. Weighted vertices
// are encoded per vertex as: bone count, then (bone index, x, y, weight)
// per bone, with bone indices in Bones and x, y, weight in Vertices.
type VertexAttachment struct {
	name                string
	id                  uint32
	Bones               []int
	Vertices            []float32
	WorldVerticesLength int
	timelineAttachment  *VertexAttachment
}

func newVertexAttachment(name string) VertexAttachment {
	return VertexAttachment{name: name, id: nextVertexAttachmentID.Add(1)}
}

func (v *VertexAttachment) Name() string                  { return v.name }
func (v *VertexAttachment) ID() uint32                    { return v.id }
func (v *VertexAttachment) VertexData() *VertexAttachment { return v }

// TimelineAttachment is the attachment whose deform timelines apply to
// this one. Linked meshes share the timelines of their parent.
func (v *VertexAttachment) TimelineAttachment() *VertexAttachment {
	if v.timelineAttachment == nil {
		return v
	}
	return v.timelineAttachment
}

func (v *VertexAttachment) SetTimelineAttachment(t *VertexAttachment) {
	v.timelineAttachment = t
}

// ComputeWorldVertices transforms count floats of local vertices starting
// at start into world, writing pairs at offset with the given stride. The
// slot's deform buffer is used when non-empty.
func (v *VertexAttachment) ComputeWorldVertices(slot *Slot, start, count int, world []float32, offset, stride int) {
	count = offset + (count>>1)*stride
	deform := slot.Deform
	vertices := v.Vertices

	if v.Bones == nil {
		if len(deform) > 0 {
			vertices = deform
		}
		bone := slot.Bone()
		x, y := bone.WorldX, bone.WorldY
		a, b, c, d := bone.A, bone.B, bone.C, bone.D
		for vi, w := start, offset; w < count; vi, w = vi+2, w+stride {
			vx, vy := vertices[vi], vertices[vi+1]
			world[w] = vx*a + vy*b + x
			world[w+1] = vx*c + vy*d + y
		}
		return
	}

	vi, skip := 0, 0
	for i := 0; i < start; i += 2 {
		n := v.Bones[vi]
		vi += n + 1
		skip += n
	}
	bones := slot.skeleton.bones
	if len(deform) == 0 {
		for w, b := offset, skip*3; w < count; w += stride {
			var wx, wy float32
			n := v.Bones[vi] + vi + 1
			for vi++; vi < n; vi, b = vi+1, b+3 {
				bone := bones[v.Bones[vi]]
				vx, vy, weight := vertices[b], vertices[b+1], vertices[b+2]
				wx += (vx*bone.A + vy*bone.B + bone.WorldX) * weight
				wy += (vx*bone.C + vy*bone.D + bone.WorldY) * weight
			}
			world[w] = wx
			world[w+1] = wy
		}
		return
	}
	for w, b, f := offset, skip*3, skip<<1; w < count; w += stride {
		var wx, wy float32
		n := v.Bones[vi] + vi + 1
		for vi++; vi < n; vi, b, f = vi+1, b+3, f+2 {
			bone := bones[v.Bones[vi]]
			vx, vy, weight := vertices[b]+deform[f], vertices[b+1]+deform[f+1], vertices[b+2]
			wx += (vx*bone.A + vy*bone.B + bone.WorldX) * weight
			wy += (vx*bone.C + vy*bone.D + bone.WorldY) * weight
		}
		world[w] = wx
		world[w+1] = wy
	}
}

// RegionAttachment is a textured quad.
type RegionAttachment struct {
	name     string
	Path     string
	X, Y     float32
	Rotation float32
	ScaleX   float32
	ScaleY   float32
	Width    float32
	Height   float32
	Color    Color
	UVs      [8]float32
	offset   [8]float32
}

func NewRegionAttachment(name string, width, height float32) *RegionAttachment {
	r := &RegionAttachment{
		name:   name,
		Path:   name,
		ScaleX: 1,
		ScaleY: 1,
		Width:  width,
		Height: height,
		Color:  White,
		UVs:    [8]float32{0, 1, 0, 0, 1, 0, 1, 1},
	}
	r.UpdateRegion()
	return r
}

func (r *RegionAttachment) Name() string { return r.name }

// UpdateRegion recomputes the quad corner offsets. Call it after changing
// the placement fields.
func (r *RegionAttachment) UpdateRegion() {
	localX := -r.Width / 2 * r.ScaleX
	localY := -r.Height / 2 * r.ScaleY
	localX2 := r.Width / 2 * r.ScaleX
	localY2 := r.Height / 2 * r.ScaleY
	c, s := cosDeg(r.Rotation), sinDeg(r.Rotation)
	localXCos, localXSin := localX*c+r.X, localX*s
	localYCos, localYSin := localY*c+r.Y, localY*s
	localX2Cos, localX2Sin := localX2*c+r.X, localX2*s
	localY2Cos, localY2Sin := localY2*c+r.Y, localY2*s

	r.offset = [8]float32{
		localXCos - localYSin, localYCos + localXSin,
		localXCos - localY2Sin, localY2Cos + localXSin,
		localX2Cos - localY2Sin, localY2Cos + localX2Sin,
		localX2Cos - localYSin, localYCos + localX2Sin,
	}
}

// ComputeWorldVertices writes the four quad corners in world space.
func (r *RegionAttachment) ComputeWorldVertices(slot *Slot, world []float32, offset, stride int) {
	bone := slot.Bone()
	x, y := bone.WorldX, bone.WorldY
	a, b, c, d := bone.A, bone.B, bone.C, bone.D
	for i := 0; i < 8; i += 2 {
		ox, oy := r.offset[i], r.offset[i+1]
		world[offset] = ox*a + oy*b + x
		world[offset+1] = ox*c + oy*d + y
		offset += stride
	}
}

// MeshAttachment is a textured triangle mesh.
type MeshAttachment struct {
	VertexAttachment
	Path       string
	Color      Color
	RegionUVs  []float32
	Triangles  []uint16
	HullLength int
	Width      float32
	Height     float32
	parentMesh *MeshAttachment
}

func NewMeshAttachment(name string) *MeshAttachment {
	return &MeshAttachment{VertexAttachment: newVertexAttachment(name), Path: name, Color: White}
}

func (m *MeshAttachment) ParentMesh() *MeshAttachment { return m.parentMesh }

// NewLinkedMesh returns a mesh sharing this mesh's geometry and deform
// timelines.
func (m *MeshAttachment) NewLinkedMesh(name string) *MeshAttachment {
	linked := NewMeshAttachment(name)
	linked.parentMesh = m
	linked.Bones = m.Bones
	linked.Vertices = m.Vertices
	linked.WorldVerticesLength = m.WorldVerticesLength
	linked.RegionUVs = m.RegionUVs
	linked.Triangles = m.Triangles
	linked.HullLength = m.HullLength
	linked.Width, linked.Height = m.Width, m.Height
	linked.Color = m.Color
	linked.timelineAttachment = m.TimelineAttachment()
	return linked
}

// BoundingBoxAttachment is a polygon used for hit detection.
type BoundingBoxAttachment struct {
	VertexAttachment
	Color Color
}

func NewBoundingBoxAttachment(name string) *BoundingBoxAttachment {
	return &BoundingBoxAttachment{VertexAttachment: newVertexAttachment(name), Color: NewColor(0.38, 0.94, 0, 1)}
}

// ClippingAttachment clips the slots from its own up to EndSlot.
type ClippingAttachment struct {
	VertexAttachment
	EndSlot int
	Color   Color
}

func NewClippingAttachment(name string) *ClippingAttachment {
	return &ClippingAttachment{VertexAttachment: newVertexAttachment(name), EndSlot: -1, Color: NewColor(0.2275, 0.2275, 0.8078, 1)}
}

// PathAttachment is a chain of cubic Bezier curves stored as
// (control, point, control) triples per curve joint.
type PathAttachment struct {
	VertexAttachment
	Lengths       []float32
	Closed        bool
	ConstantSpeed bool
	Color         Color
}

func NewPathAttachment(name string) *PathAttachment {
	return &PathAttachment{VertexAttachment: newVertexAttachment(name), ConstantSpeed: true, Color: NewColor(1, 0.5, 0, 1)}
}

// PointAttachment marks a position and direction relative to a bone.
type PointAttachment struct {
	name     string
	X, Y     float32
	Rotation float32
	Color    Color
}

func NewPointAttachment(name string) *PointAttachment {
	return &PointAttachment{name: name, Color: NewColor(0.9451, 0.9451, 0, 1)}
}

func (p *PointAttachment) Name() string { return p.name }

func (p *PointAttachment) ComputeWorldPosition(bone *Bone) (float32, float32) {
	return bone.LocalToWorld(p.X, p.Y)
}

func (p *PointAttachment) ComputeWorldRotation(bone *Bone) float32 {
	r := p.Rotation * degRad
	c, s := cos(r), sin(r)
	x := c*bone.A + s*bone.B
	y := c*bone.C + s*bone.D
	return atan2Deg(y, x)
}
