package instance

import (
	"fmt"

	"github.com/zeusync/skeletal/internal/core/skeletal"
	"github.com/zeusync/skeletal/pkg/concurrent"
)

// BonePose is the world transform of one bone.
type BonePose struct {
	Name string  `json:"name"`
	A    float32 `json:"a"`
	B    float32 `json:"b"`
	C    float32 `json:"c"`
	D    float32 `json:"d"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
}

// SlotPose is a slot in draw order with its visible attachment.
type SlotPose struct {
	Name       string `json:"name"`
	Attachment string `json:"attachment,omitempty"`
}

// PoseSnapshot is a copy of what a renderer needs to draw an instance.
type PoseSnapshot struct {
	ID        string     `json:"id"`
	Skeleton  string     `json:"skeleton"`
	Time      float32    `json:"time"`
	Bones     []BonePose `json:"bones"`
	DrawOrder []SlotPose `json:"draw_order"`
	Digest    uint64     `json:"digest"`
}

func (i *Instance) Snapshot() PoseSnapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	return snapshotOf(i.ID, i.Skeleton)
}

func snapshotOf(id string, s *skeletal.Skeleton) PoseSnapshot {
	snap := PoseSnapshot{
		ID:        id,
		Skeleton:  s.Data().Name,
		Time:      s.Time,
		Bones:     make([]BonePose, len(s.Bones())),
		DrawOrder: make([]SlotPose, len(s.DrawOrder())),
		Digest:    s.PoseDigest(),
	}
	for n, b := range s.Bones() {
		snap.Bones[n] = BonePose{Name: b.String(), A: b.A, B: b.B, C: b.C, D: b.D, X: b.WorldX, Y: b.WorldY}
	}
	for n, slot := range s.DrawOrder() {
		snap.DrawOrder[n] = SlotPose{Name: slot.String()}
		if a := slot.Attachment(); a != nil {
			snap.DrawOrder[n].Attachment = a.Name()
		}
	}
	return snap
}

// Snapshot copies the pose of one instance.
func (m *Manager) Snapshot(id string) (PoseSnapshot, error) {
	inst, ok := m.Get(id)
	if !ok {
		return PoseSnapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return inst.Snapshot(), nil
}

// Snapshots copies the pose of every instance, ordered by id.
func (m *Manager) Snapshots() []PoseSnapshot {
	return concurrent.ParallelMap(m.sorted(), m.workers, (*Instance).Snapshot)
}
