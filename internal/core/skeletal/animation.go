package skeletal

import (
	"errors"
	"fmt"
)

// Animation is a named list of timelines. Timelines refer to skeleton
// entities by index, so an animation can be shared by every skeleton of
// the same SkeletonData.
type Animation struct {
	name      string
	timelines []Timeline
	ids       map[PropertyID]struct{}
	duration  float32
}

func NewAnimation(name string, timelines []Timeline, duration float32) *Animation {
	a := &Animation{name: name, duration: duration}
	a.SetTimelines(timelines)
	return a
}

func (a *Animation) Name() string          { return a.name }
func (a *Animation) Timelines() []Timeline { return a.timelines }
func (a *Animation) Duration() float32     { return a.duration }
func (a *Animation) String() string        { return a.name }

func (a *Animation) SetDuration(duration float32) { a.duration = duration }

func (a *Animation) SetTimelines(timelines []Timeline) {
	a.timelines = timelines
	a.ids = make(map[PropertyID]struct{}, len(timelines))
	for _, t := range timelines {
		for _, id := range t.PropertyIDs() {
			a.ids[id] = struct{}{}
		}
	}
}

// HasTimeline reports whether any timeline keys one of the properties.
func (a *Animation) HasTimeline(ids []PropertyID) bool {
	for _, id := range ids {
		if _, ok := a.ids[id]; ok {
			return true
		}
	}
	return false
}

// Apply applies every timeline at time. With loop set, times past the
// duration wrap around and events keyed before the wrap still fire.
func (a *Animation) Apply(skeleton *Skeleton, lastTime, time float32, loop bool, events *[]*Event, alpha float32, blend MixBlend, direction MixDirection) {
	if loop && a.duration != 0 {
		time = mod(time, a.duration)
		if lastTime > 0 {
			lastTime = mod(lastTime, a.duration)
		}
	}
	for _, t := range a.timelines {
		t.Apply(skeleton, lastTime, time, events, alpha, blend, direction)
	}
}

// Validate checks that frames are sorted by time and that every entity a
// timeline references exists in data. Equal frame times are allowed.
func (a *Animation) Validate(data *SkeletonData) error {
	var errs []error
	for n, t := range a.timelines {
		if err := validateTimeline(t, data); err != nil {
			errs = append(errs, fmt.Errorf("animation %q timeline %d (%T): %w", a.name, n, t, err))
		}
	}
	return errors.Join(errs...)
}

func validateTimeline(t Timeline, data *SkeletonData) error {
	frames, entries := t.Frames(), t.FrameEntries()
	if len(frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrInvalidKey)
	}
	for i := entries; i < len(frames); i += entries {
		if frames[i] < frames[i-entries] {
			return fmt.Errorf("%w: frame %d at %g follows %g", ErrUnsortedFrames, i/entries, frames[i], frames[i-entries])
		}
	}
	if et, ok := t.(*EventTimeline); ok {
		for i, e := range et.events {
			if e == nil || e.data == nil {
				return fmt.Errorf("%w: event frame %d has no event data", ErrInvalidKey, i)
			}
		}
	}
	if v, ok := t.(validator); ok {
		return v.validate(data)
	}
	return nil
}
