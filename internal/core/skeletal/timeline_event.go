package skeletal

import (
	"fmt"
	"math"
)

// EventTimeline fires events keyed between the last and current time.
type EventTimeline struct {
	timeline
	events []*Event
}

func NewEventTimeline(frameCount int) *EventTimeline {
	return &EventTimeline{
		timeline: newTimeline(frameCount, 1, propertyID(PropertyEvent, 0)),
		events:   make([]*Event, frameCount),
	}
}

// SetFrame keys event at its own time.
func (t *EventTimeline) SetFrame(frame int, event *Event) {
	t.frames[frame] = event.Time
	t.events[frame] = event
}

func (t *EventTimeline) Events() []*Event { return t.events }

// Apply appends the events with lastTime < frame time <= time. When
// lastTime > time the animation looped and the events after lastTime are
// fired first.
func (t *EventTimeline) Apply(skeleton *Skeleton, lastTime, time float32, fired *[]*Event, alpha float32, blend MixBlend, direction MixDirection) {
	if fired == nil {
		return
	}
	frames := t.frames
	count := len(frames)

	if lastTime > time {
		t.Apply(skeleton, lastTime, math.MaxInt32, fired, alpha, blend, direction)
		lastTime = -1
	} else if lastTime >= frames[count-1] {
		return
	}
	if time < frames[0] {
		return
	}

	var i int
	if lastTime >= frames[0] {
		i = Search(frames, lastTime, 1) + 1
		frameTime := frames[i]
		for i > 0 && frames[i-1] == frameTime {
			i--
		}
	}
	for ; i < count && time >= frames[i]; i++ {
		*fired = append(*fired, t.events[i])
	}
}

// DrawOrderTimeline keys the slot draw order. A nil frame order restores
// the setup order.
type DrawOrderTimeline struct {
	timeline
	orders [][]int
}

func NewDrawOrderTimeline(frameCount int) *DrawOrderTimeline {
	return &DrawOrderTimeline{
		timeline: newTimeline(frameCount, 1, propertyID(PropertyDrawOrder, 0)),
		orders:   make([][]int, frameCount),
	}
}

// SetFrame keys order, where order[i] is the setup index of the slot drawn
// at position i.
func (t *DrawOrderTimeline) SetFrame(frame int, time float32, order []int) {
	t.frames[frame] = time
	t.orders[frame] = order
}

func (t *DrawOrderTimeline) DrawOrders() [][]int { return t.orders }

func (t *DrawOrderTimeline) Apply(skeleton *Skeleton, _, time float32, _ *[]*Event, _ float32, blend MixBlend, direction MixDirection) {
	if direction == MixOut {
		if blend == MixSetup {
			copy(skeleton.drawOrder, skeleton.slots)
		}
		return
	}
	if time < t.frames[0] {
		if blend == MixSetup || blend == MixFirst {
			copy(skeleton.drawOrder, skeleton.slots)
		}
		return
	}
	order := t.orders[Search(t.frames, time, 1)]
	if order == nil {
		copy(skeleton.drawOrder, skeleton.slots)
		return
	}
	for i, setupIndex := range order {
		skeleton.drawOrder[i] = skeleton.slot(setupIndex)
	}
}

func (t *DrawOrderTimeline) validate(data *SkeletonData) error {
	for _, order := range t.orders {
		if order == nil {
			continue
		}
		if len(order) != len(data.Slots) {
			return fmt.Errorf("%w: draw order has %d slots, want %d", ErrDataContract, len(order), len(data.Slots))
		}
		for _, index := range order {
			if err := checkIndex("slot", index, len(data.Slots)); err != nil {
				return err
			}
		}
	}
	return nil
}
