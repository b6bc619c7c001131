package skeletal

// SlotData is the immutable setup definition of a slot.
type SlotData struct {
	Index          int
	Name           string
	Bone           int
	Color          Color
	DarkColor      *Color // nil unless the slot uses two-color tinting
	AttachmentName string // empty for no setup attachment
	Blend          BlendMode
}

func NewSlotData(index int, name string, bone int) *SlotData {
	return &SlotData{Index: index, Name: name, Bone: bone, Color: White}
}

// Slot binds a bone to the attachment currently drawn for it.
type Slot struct {
	data     *SlotData
	skeleton *Skeleton

	Color     Color
	DarkColor Color
	// Deform holds per-vertex offsets or absolute positions written by
	// deform timelines. Empty means the attachment's own vertices are used.
	Deform []float32
	// AttachmentState is bookkeeping for the animation state machine.
	AttachmentState int
	SequenceIndex   int

	attachment Attachment
}

func newSlot(data *SlotData, skeleton *Skeleton) *Slot {
	s := &Slot{data: data, skeleton: skeleton, SequenceIndex: -1}
	s.SetToSetupPose()
	return s
}

func (s *Slot) Data() *SlotData       { return s.data }
func (s *Slot) Skeleton() *Skeleton   { return s.skeleton }
func (s *Slot) Bone() *Bone           { return s.skeleton.bones[s.data.Bone] }
func (s *Slot) Attachment() Attachment { return s.attachment }
func (s *Slot) HasDarkColor() bool    { return s.data.DarkColor != nil }
func (s *Slot) String() string        { return s.data.Name }

// SetAttachment changes the current attachment. The deform buffer is
// cleared unless both attachments share the same deform timeline target.
func (s *Slot) SetAttachment(attachment Attachment) {
	if s.attachment == attachment {
		return
	}
	if !sameTimelineAttachment(s.attachment, attachment) {
		s.Deform = s.Deform[:0]
	}
	s.attachment = attachment
	s.SequenceIndex = -1
}

func sameTimelineAttachment(a, b Attachment) bool {
	va, ok := a.(Deformable)
	if !ok {
		return false
	}
	vb, ok := b.(Deformable)
	if !ok {
		return false
	}
	return va.VertexData().TimelineAttachment() == vb.VertexData().TimelineAttachment()
}

// SetToSetupPose restores the setup color and attachment.
func (s *Slot) SetToSetupPose() {
	s.Color = s.data.Color
	if s.data.DarkColor != nil {
		s.DarkColor = *s.data.DarkColor
	}
	if s.data.AttachmentName == "" {
		s.SetAttachment(nil)
		return
	}
	s.attachment = nil
	s.SetAttachment(s.skeleton.Attachment(s.data.Index, s.data.AttachmentName))
}

// resizeDeform sets the deform buffer length, keeping existing values and
// zeroing new ones.
func (s *Slot) resizeDeform(n int) []float32 {
	if cap(s.Deform) < n {
		grown := make([]float32, n)
		copy(grown, s.Deform)
		s.Deform = grown
		return s.Deform
	}
	old := len(s.Deform)
	s.Deform = s.Deform[:n]
	for i := old; i < n; i++ {
		s.Deform[i] = 0
	}
	return s.Deform
}
