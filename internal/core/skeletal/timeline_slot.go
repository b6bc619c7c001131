package skeletal

// RGBATimeline keys a slot's color.
type RGBATimeline struct {
	curveTimeline
	slotRef
}

func NewRGBATimeline(frameCount, bezierCount, slot int) *RGBATimeline {
	return &RGBATimeline{
		curveTimeline: newCurveTimeline(frameCount, 5, bezierCount, propertyID(PropertyRGB, slot), propertyID(PropertyAlpha, slot)),
		slotRef:       slotRef{slot},
	}
}

func (t *RGBATimeline) SetFrame(frame int, time float32, c Color) {
	frame *= 5
	t.frames[frame] = time
	t.frames[frame+1] = c.R
	t.frames[frame+2] = c.G
	t.frames[frame+3] = c.B
	t.frames[frame+4] = c.A
}

func (t *RGBATimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	slot := skeleton.slot(t.slot)
	if !slot.Bone().active {
		return
	}
	color := &slot.Color
	setup := slot.data.Color
	if time < t.frames[0] {
		switch blend {
		case MixSetup:
			*color = setup
		case MixFirst:
			color.Add((setup.R-color.R)*alpha, (setup.G-color.G)*alpha, (setup.B-color.B)*alpha, (setup.A-color.A)*alpha)
		}
		return
	}

	i := Search(t.frames, time, 5)
	r, g, b, a := t.curveValue(time, i, 1), t.curveValue(time, i, 2), t.curveValue(time, i, 3), t.curveValue(time, i, 4)
	if alpha == 1 {
		color.Set(r, g, b, a)
		return
	}
	if blend == MixSetup {
		*color = setup
	}
	color.Add((r-color.R)*alpha, (g-color.G)*alpha, (b-color.B)*alpha, (a-color.A)*alpha)
}

// RGBTimeline keys a slot's color without alpha.
type RGBTimeline struct {
	curveTimeline
	slotRef
}

func NewRGBTimeline(frameCount, bezierCount, slot int) *RGBTimeline {
	return &RGBTimeline{newCurveTimeline(frameCount, 4, bezierCount, propertyID(PropertyRGB, slot)), slotRef{slot}}
}

func (t *RGBTimeline) SetFrame(frame int, time, r, g, b float32) {
	frame <<= 2
	t.frames[frame] = time
	t.frames[frame+1] = r
	t.frames[frame+2] = g
	t.frames[frame+3] = b
}

func (t *RGBTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	slot := skeleton.slot(t.slot)
	if !slot.Bone().active {
		return
	}
	mixRGB(&t.curveTimeline, time, 0, alpha, blend, &slot.Color, slot.data.Color)
}

// mixRGB applies three keyed color channels starting at value offset
// base+1 onto color.
func mixRGB(t *curveTimeline, time float32, base int, alpha float32, blend MixBlend, color *Color, setup Color) {
	if time < t.frames[0] {
		switch blend {
		case MixSetup:
			color.R, color.G, color.B = setup.R, setup.G, setup.B
		case MixFirst:
			color.R += (setup.R - color.R) * alpha
			color.G += (setup.G - color.G) * alpha
			color.B += (setup.B - color.B) * alpha
		}
		return
	}
	i := Search(t.frames, time, t.entries)
	r, g, b := t.curveValue(time, i, base+1), t.curveValue(time, i, base+2), t.curveValue(time, i, base+3)
	if alpha == 1 {
		color.R, color.G, color.B = r, g, b
		return
	}
	if blend == MixSetup {
		color.R, color.G, color.B = setup.R, setup.G, setup.B
	}
	color.R += (r - color.R) * alpha
	color.G += (g - color.G) * alpha
	color.B += (b - color.B) * alpha
}

// AlphaTimeline keys a slot's alpha.
type AlphaTimeline struct {
	curveTimeline1
	slotRef
}

func NewAlphaTimeline(frameCount, bezierCount, slot int) *AlphaTimeline {
	return &AlphaTimeline{newCurveTimeline1(frameCount, bezierCount, propertyID(PropertyAlpha, slot)), slotRef{slot}}
}

func (t *AlphaTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	slot := skeleton.slot(t.slot)
	if !slot.Bone().active {
		return
	}
	color := &slot.Color
	setup := slot.data.Color.A
	if time < t.frames[0] {
		color.A = beforeFirst(alpha, blend, color.A, setup)
		return
	}
	a := t.value1(time)
	if alpha == 1 {
		color.A = a
		return
	}
	if blend == MixSetup {
		color.A = setup
	}
	color.A += (a - color.A) * alpha
}

func setupDarkColor(slot *Slot) Color {
	if slot.data.DarkColor == nil {
		return Color{A: 1}
	}
	return *slot.data.DarkColor
}

// RGBA2Timeline keys a slot's light color and the RGB of its dark color
// for two color tinting. The dark color's alpha is never keyed: it is reset
// to setup by MixSetup and set to 1 when the keys are applied fully.
type RGBA2Timeline struct {
	curveTimeline
	slotRef
}

func NewRGBA2Timeline(frameCount, bezierCount, slot int) *RGBA2Timeline {
	return &RGBA2Timeline{
		curveTimeline: newCurveTimeline(frameCount, 8, bezierCount,
			propertyID(PropertyRGB, slot), propertyID(PropertyAlpha, slot), propertyID(PropertyRGB2, slot)),
		slotRef: slotRef{slot},
	}
}

func (t *RGBA2Timeline) SetFrame(frame int, time float32, light, dark Color) {
	frame <<= 3
	f := t.frames
	f[frame] = time
	f[frame+1], f[frame+2], f[frame+3], f[frame+4] = light.R, light.G, light.B, light.A
	f[frame+5], f[frame+6], f[frame+7] = dark.R, dark.G, dark.B
}

func (t *RGBA2Timeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	slot := skeleton.slot(t.slot)
	if !slot.Bone().active {
		return
	}
	light, dark := &slot.Color, &slot.DarkColor
	setupLight, setupDark := slot.data.Color, setupDarkColor(slot)
	if time < t.frames[0] {
		switch blend {
		case MixSetup:
			*light = setupLight
			*dark = setupDark
		case MixFirst:
			light.Add((setupLight.R-light.R)*alpha, (setupLight.G-light.G)*alpha, (setupLight.B-light.B)*alpha,
				(setupLight.A-light.A)*alpha)
			dark.R += (setupDark.R - dark.R) * alpha
			dark.G += (setupDark.G - dark.G) * alpha
			dark.B += (setupDark.B - dark.B) * alpha
		}
		return
	}

	i := Search(t.frames, time, 8)
	r, g, b, a := t.curveValue(time, i, 1), t.curveValue(time, i, 2), t.curveValue(time, i, 3), t.curveValue(time, i, 4)
	r2, g2, b2 := t.curveValue(time, i, 5), t.curveValue(time, i, 6), t.curveValue(time, i, 7)
	if alpha == 1 {
		light.Set(r, g, b, a)
		dark.Set(r2, g2, b2, 1)
		return
	}
	if blend == MixSetup {
		*light = setupLight
		*dark = setupDark
	}
	light.Add((r-light.R)*alpha, (g-light.G)*alpha, (b-light.B)*alpha, (a-light.A)*alpha)
	dark.R += (r2 - dark.R) * alpha
	dark.G += (g2 - dark.G) * alpha
	dark.B += (b2 - dark.B) * alpha
}

// RGB2Timeline keys the RGB of a slot's light and dark colors. The dark
// alpha follows RGBA2Timeline.
type RGB2Timeline struct {
	curveTimeline
	slotRef
}

func NewRGB2Timeline(frameCount, bezierCount, slot int) *RGB2Timeline {
	return &RGB2Timeline{
		curveTimeline: newCurveTimeline(frameCount, 7, bezierCount, propertyID(PropertyRGB, slot), propertyID(PropertyRGB2, slot)),
		slotRef:       slotRef{slot},
	}
}

func (t *RGB2Timeline) SetFrame(frame int, time float32, light, dark Color) {
	frame *= 7
	f := t.frames
	f[frame] = time
	f[frame+1], f[frame+2], f[frame+3] = light.R, light.G, light.B
	f[frame+4], f[frame+5], f[frame+6] = dark.R, dark.G, dark.B
}

func (t *RGB2Timeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	slot := skeleton.slot(t.slot)
	if !slot.Bone().active {
		return
	}
	setupDark := setupDarkColor(slot)
	mixRGB(&t.curveTimeline, time, 0, alpha, blend, &slot.Color, slot.data.Color)
	mixRGB(&t.curveTimeline, time, 3, alpha, blend, &slot.DarkColor, setupDark)
	switch {
	case time >= t.frames[0] && alpha == 1:
		slot.DarkColor.A = 1
	case blend == MixSetup:
		slot.DarkColor.A = setupDark.A
	}
}

// AttachmentTimeline keys the attachment name of a slot. An empty name
// clears the slot.
type AttachmentTimeline struct {
	timeline
	slotRef
	names []string
}

func NewAttachmentTimeline(frameCount, slot int) *AttachmentTimeline {
	return &AttachmentTimeline{
		timeline: newTimeline(frameCount, 1, propertyID(PropertyAttachment, slot)),
		slotRef:  slotRef{slot},
		names:    make([]string, frameCount),
	}
}

func (t *AttachmentTimeline) SetFrame(frame int, time float32, name string) {
	t.frames[frame] = time
	t.names[frame] = name
}

func (t *AttachmentTimeline) AttachmentNames() []string { return t.names }

func (t *AttachmentTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, _ float32, blend MixBlend, direction MixDirection) {
	slot := skeleton.slot(t.slot)
	if !slot.Bone().active {
		return
	}
	if direction == MixOut {
		if blend == MixSetup {
			t.setAttachment(skeleton, slot, slot.data.AttachmentName)
		}
		return
	}
	if time < t.frames[0] {
		if blend == MixSetup || blend == MixFirst {
			t.setAttachment(skeleton, slot, slot.data.AttachmentName)
		}
		return
	}
	t.setAttachment(skeleton, slot, t.names[Search(t.frames, time, 1)])
}

func (t *AttachmentTimeline) setAttachment(skeleton *Skeleton, slot *Slot, name string) {
	if name == "" {
		slot.SetAttachment(nil)
		return
	}
	slot.SetAttachment(skeleton.Attachment(t.slot, name))
}

// DeformTimeline keys the vertices of a vertex attachment. Frame vertices
// are offsets from the setup vertices for unweighted attachments and
// offsets of the bone relative positions for weighted ones.
type DeformTimeline struct {
	curveTimeline
	slotRef
	attachment *VertexAttachment
	vertices   [][]float32
}

func NewDeformTimeline(frameCount, bezierCount, slot int, attachment *VertexAttachment) *DeformTimeline {
	return &DeformTimeline{
		curveTimeline: newCurveTimeline(frameCount, 1, bezierCount, deformPropertyID(slot, attachment)),
		slotRef:       slotRef{slot},
		attachment:    attachment,
		vertices:      make([][]float32, frameCount),
	}
}

func (t *DeformTimeline) SetFrame(frame int, time float32, vertices []float32) {
	t.frames[frame] = time
	t.vertices[frame] = vertices
}

func (t *DeformTimeline) Attachment() *VertexAttachment { return t.attachment }
func (t *DeformTimeline) Vertices() [][]float32         { return t.vertices }

func (t *DeformTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, alpha float32, blend MixBlend, _ MixDirection) {
	slot := skeleton.slot(t.slot)
	if !slot.Bone().active {
		return
	}
	deformable, ok := slot.attachment.(Deformable)
	if !ok || deformable.VertexData().TimelineAttachment() != t.attachment {
		return
	}
	vertex := deformable.VertexData()
	weighted := vertex.Bones != nil
	setupVertices := vertex.Vertices

	if len(slot.Deform) == 0 {
		blend = MixSetup
	}
	vertexCount := len(t.vertices[0])
	frames := t.frames

	if time < frames[0] {
		switch blend {
		case MixSetup:
			slot.Deform = slot.Deform[:0]
		case MixFirst:
			if alpha == 1 {
				slot.Deform = slot.Deform[:0]
				return
			}
			deform := slot.resizeDeform(vertexCount)
			if !weighted {
				for i := range deform {
					deform[i] += (setupVertices[i] - deform[i]) * alpha
				}
			} else {
				alpha = 1 - alpha
				for i := range deform {
					deform[i] *= alpha
				}
			}
		}
		return
	}

	deform := slot.resizeDeform(vertexCount)
	if time >= frames[len(frames)-1] {
		t.applyVertices(deform, t.vertices[len(frames)-1], nil, 0, setupVertices, weighted, alpha, blend)
		return
	}

	frame := Search(frames, time, 1)
	percent := t.curvePercent(time, frame)
	t.applyVertices(deform, t.vertices[frame], t.vertices[frame+1], percent, setupVertices, weighted, alpha, blend)
}

// applyVertices mixes the frame vertices, interpolated toward next by
// percent when next is not nil, into deform.
func (t *DeformTimeline) applyVertices(deform, prev, next []float32, percent float32, setup []float32, weighted bool, alpha float32, blend MixBlend) {
	value := func(i int) float32 {
		if next == nil {
			return prev[i]
		}
		p := prev[i]
		return p + (next[i]-p)*percent
	}

	if alpha == 1 {
		switch {
		case blend != MixAdd:
			for i := range deform {
				deform[i] = value(i)
			}
		case weighted:
			for i := range deform {
				deform[i] += value(i)
			}
		default:
			for i := range deform {
				deform[i] += value(i) - setup[i]
			}
		}
		return
	}

	switch blend {
	case MixSetup:
		if weighted {
			for i := range deform {
				deform[i] = value(i) * alpha
			}
		} else {
			for i := range deform {
				s := setup[i]
				deform[i] = s + (value(i)-s)*alpha
			}
		}
	case MixFirst, MixReplace:
		for i := range deform {
			deform[i] += (value(i) - deform[i]) * alpha
		}
	case MixAdd:
		if weighted {
			for i := range deform {
				deform[i] += value(i) * alpha
			}
		} else {
			for i := range deform {
				deform[i] += (value(i) - setup[i]) * alpha
			}
		}
	}
}
