package skeletal

type skinKey struct {
	slot int
	name string
}

// SkinEntry is one attachment of a skin.
type SkinEntry struct {
	SlotIndex  int
	Name       string
	Attachment Attachment
}

// Skin maps (slot index, attachment name) pairs to attachments. It also
// lists the bones and constraints that are only active while it is set.
type Skin struct {
	name        string
	index       map[skinKey]int
	entries     []SkinEntry
	Bones       []int
	Constraints []*ConstraintData
	Color       Color
}

func NewSkin(name string) *Skin {
	return &Skin{name: name, index: make(map[skinKey]int), Color: NewColor(0.99607843, 0.61960787, 0.30980393, 1)}
}

func (s *Skin) Name() string { return s.name }

// SetAttachment adds or replaces the attachment for the slot and name.
func (s *Skin) SetAttachment(slotIndex int, name string, attachment Attachment) {
	key := skinKey{slot: slotIndex, name: name}
	if i, ok := s.index[key]; ok {
		s.entries[i].Attachment = attachment
		return
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, SkinEntry{SlotIndex: slotIndex, Name: name, Attachment: attachment})
}

// Attachment returns nil when the skin has no attachment for the slot and name.
func (s *Skin) Attachment(slotIndex int, name string) Attachment {
	if i, ok := s.index[skinKey{slot: slotIndex, name: name}]; ok {
		return s.entries[i].Attachment
	}
	return nil
}

func (s *Skin) RemoveAttachment(slotIndex int, name string) {
	key := skinKey{slot: slotIndex, name: name}
	i, ok := s.index[key]
	if !ok {
		return
	}
	delete(s.index, key)
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	for j := i; j < len(s.entries); j++ {
		e := s.entries[j]
		s.index[skinKey{slot: e.SlotIndex, name: e.Name}] = j
	}
}

// Attachments returns the entries in insertion order.
func (s *Skin) Attachments() []SkinEntry { return s.entries }

func (s *Skin) AttachmentsForSlot(slotIndex int) []SkinEntry {
	var out []SkinEntry
	for _, e := range s.entries {
		if e.SlotIndex == slotIndex {
			out = append(out, e)
		}
	}
	return out
}

// AddSkin adds all attachments, bones and constraints of other.
func (s *Skin) AddSkin(other *Skin) {
	for _, bone := range other.Bones {
		s.addBone(bone)
	}
	for _, c := range other.Constraints {
		s.addConstraint(c)
	}
	for _, e := range other.entries {
		s.SetAttachment(e.SlotIndex, e.Name, e.Attachment)
	}
}

// CopySkin is AddSkin for a skin built to be modified independently.
// Attachments are immutable and shared, so it differs only in intent.
func (s *Skin) CopySkin(other *Skin) {
	s.AddSkin(other)
}

func (s *Skin) addBone(index int) {
	for _, b := range s.Bones {
		if b == index {
			return
		}
	}
	s.Bones = append(s.Bones, index)
}

func (s *Skin) addConstraint(c *ConstraintData) {
	if s.hasConstraint(c) {
		return
	}
	s.Constraints = append(s.Constraints, c)
}

func (s *Skin) hasConstraint(c *ConstraintData) bool {
	for _, existing := range s.Constraints {
		if existing == c {
			return true
		}
	}
	return false
}

// attachAll attaches this skin's attachments where the old skin's
// attachment is currently set.
func (s *Skin) attachAll(skeleton *Skeleton, old *Skin) {
	for _, e := range old.entries {
		slot := skeleton.slots[e.SlotIndex]
		if slot.attachment == e.Attachment {
			if attachment := s.Attachment(e.SlotIndex, e.Name); attachment != nil {
				slot.SetAttachment(attachment)
			}
		}
	}
}

func (s *Skin) String() string { return s.name }
