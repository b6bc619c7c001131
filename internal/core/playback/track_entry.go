package playback

import (
	"math"

	"github.com/zeusync/skeletal/internal/core/skeletal"
)

// Timeline modes computed for entries being mixed.
const (
	// modeSubsequent: a lower track or an earlier entry already keys the
	// property, so the timeline mixes from the current pose.
	modeSubsequent = iota
	// modeFirst: the timeline is the first to key the property and mixes
	// from the setup pose.
	modeFirst
	// modeHoldSubsequent and modeHoldFirst hold the timeline at full
	// alpha while the next entry mixes in, because it keys the same
	// property.
	modeHoldSubsequent
	modeHoldFirst
	// modeHoldMix holds the timeline but fades it out as the entry that
	// does not key the property mixes in.
	modeHoldMix
)

// TrackEntry is one animation queued or playing on a track. Entries are
// owned by the AnimationState: after the EventDispose record for an entry
// has been drained, the next Drain recycles it and the pointer must no
// longer be used.
type TrackEntry struct {
	animation *skeletal.Animation
	track     int

	previous, next       *TrackEntry
	mixingFrom, mixingTo *TrackEntry

	// Loop repeats the animation until another entry replaces it.
	Loop bool
	// HoldPrevious keeps the previous entry's keyed properties at full
	// alpha while this entry mixes in. It must be set before the next
	// Apply.
	HoldPrevious bool
	// Reverse plays the animation backward. Events are not fired.
	Reverse bool
	// ShortestRotation mixes rotations directly instead of tracking the
	// direction of each bone across frames.
	ShortestRotation bool

	// Delay is the seconds to wait before the entry starts.
	Delay float32
	// TrackTime is the seconds the entry has been current, scaled by
	// TimeScale.
	TrackTime float32
	trackLast, nextTrackLast float32
	// TrackEnd is the track time at which the entry ends and the track is
	// cleared. Ignored while a next entry is queued.
	TrackEnd float32

	// AnimationStart and AnimationEnd bound the part of the animation that
	// is played.
	AnimationStart float32
	AnimationEnd   float32
	animationLast, nextAnimationLast float32

	// TimeScale multiplies delta times for this entry.
	TimeScale float32
	// Alpha weights the entry's timelines.
	Alpha float32
	// MixTime and MixDuration track the crossfade from the previous entry.
	MixTime     float32
	MixDuration float32
	interruptAlpha float32
	totalAlpha     float32

	// MixBlend is used by tracks above zero. Track 0 always blends with
	// skeletal.MixFirst.
	MixBlend skeletal.MixBlend

	// EventThreshold is the mix percentage below which the entry still
	// fires events while mixing out.
	EventThreshold float32
	// AlphaAttachmentThreshold is the alpha at or above which attachment
	// timelines are applied.
	AlphaAttachmentThreshold float32
	// MixAttachmentThreshold is the mix percentage below which attachment
	// timelines are applied while mixing out.
	MixAttachmentThreshold float32
	// MixDrawOrderThreshold is the mix percentage below which the draw
	// order timeline is applied while mixing out.
	MixDrawOrderThreshold float32

	timelineMode      []int
	timelineHoldMix   []*TrackEntry
	timelinesRotation []float32

	released bool
}

func (e *TrackEntry) Animation() *skeletal.Animation { return e.animation }
func (e *TrackEntry) TrackIndex() int                { return e.track }

// Next is the entry queued after this one.
func (e *TrackEntry) Next() *TrackEntry { return e.next }

// Previous is the entry this one was queued after, until it becomes current.
func (e *TrackEntry) Previous() *TrackEntry { return e.previous }

// MixingFrom is the entry being mixed out while this one mixes in.
func (e *TrackEntry) MixingFrom() *TrackEntry { return e.mixingFrom }

// MixingTo is the entry this one is being mixed out to.
func (e *TrackEntry) MixingTo() *TrackEntry { return e.mixingTo }

func (e *TrackEntry) String() string {
	if e.animation == nil {
		return "<none>"
	}
	return e.animation.Name()
}

// AnimationTime is the time within the animation, wrapped for looping
// entries and clamped to AnimationEnd otherwise.
func (e *TrackEntry) AnimationTime() float32 {
	if e.Loop {
		duration := e.AnimationEnd - e.AnimationStart
		if duration == 0 {
			return e.AnimationStart
		}
		return float32(math.Mod(float64(e.TrackTime), float64(duration))) + e.AnimationStart
	}
	return min(e.TrackTime+e.AnimationStart, e.AnimationEnd)
}

// AnimationLast is the animation time of the previous Apply, or -1.
func (e *TrackEntry) AnimationLast() float32 { return e.animationLast }

// SetAnimationLast sets the time events are fired from on the next Apply.
func (e *TrackEntry) SetAnimationLast(last float32) {
	e.animationLast = last
	e.nextAnimationLast = last
}

// IsComplete reports whether at least one loop iteration or the whole
// animation has been played.
func (e *TrackEntry) IsComplete() bool {
	return e.TrackTime >= e.AnimationEnd-e.AnimationStart
}

// TrackComplete is the track time at which the entry completes: the end
// of the current loop iteration, the animation duration, or the current
// track time when the animation is already over.
func (e *TrackEntry) TrackComplete() float32 {
	duration := e.AnimationEnd - e.AnimationStart
	if duration != 0 {
		if e.Loop {
			return duration * (1 + float32(int(e.TrackTime/duration)))
		}
		if e.TrackTime < duration {
			return duration
		}
	}
	return e.TrackTime
}

// WasApplied reports whether the entry has been applied at least once.
func (e *TrackEntry) WasApplied() bool { return e.nextTrackLast != -1 }

// IsNextReady reports whether the queued next entry starts on the next
// Update.
func (e *TrackEntry) IsNextReady() bool {
	return e.next != nil && e.nextTrackLast-e.next.Delay >= 0
}

// IsEmptyAnimation reports whether the entry plays the empty animation.
func (e *TrackEntry) IsEmptyAnimation() bool { return e.animation == emptyAnimation }

// SetMixDuration sets the crossfade duration from the previous entry.
func (e *TrackEntry) SetMixDuration(duration float32) { e.MixDuration = duration }

// SetMixDurationWithDelay sets the mix duration and recomputes the delay
// the way AddAnimation does: a delay <= 0 is relative to the completion
// of the previous entry, less the mix duration.
func (e *TrackEntry) SetMixDurationWithDelay(duration, delay float32) {
	e.MixDuration = duration
	if delay <= 0 {
		if e.previous != nil {
			delay = max(delay+e.previous.TrackComplete()-duration, 0)
		} else {
			delay = 0
		}
	}
	e.Delay = delay
}

// ResetRotationDirections forgets the rotation direction tracked while
// mixing so the next mix takes the shortest path again.
func (e *TrackEntry) ResetRotationDirections() { e.timelinesRotation = e.timelinesRotation[:0] }

func (e *TrackEntry) reset() {
	*e = TrackEntry{
		timelineMode:      e.timelineMode[:0],
		timelineHoldMix:   e.timelineHoldMix[:0],
		timelinesRotation: e.timelinesRotation[:0],
	}
}

// State captures the timing of the entry.
func (e *TrackEntry) State() TrackState {
	return TrackState{
		Animation:         e.animation.Name(),
		Loop:              e.Loop,
		Reverse:           e.Reverse,
		Delay:             e.Delay,
		TrackTime:         e.TrackTime,
		TrackLast:         e.trackLast,
		NextTrackLast:     e.nextTrackLast,
		TrackEnd:          e.TrackEnd,
		AnimationStart:    e.AnimationStart,
		AnimationEnd:      e.AnimationEnd,
		AnimationLast:     e.animationLast,
		NextAnimationLast: e.nextAnimationLast,
		TimeScale:         e.TimeScale,
		Alpha:             e.Alpha,
		MixTime:           e.MixTime,
		MixDuration:       e.MixDuration,
		InterruptAlpha:    e.interruptAlpha,
	}
}

// Restore applies timing captured by State. The animation is not changed.
func (e *TrackEntry) Restore(s TrackState) {
	e.Loop = s.Loop
	e.Reverse = s.Reverse
	e.Delay = s.Delay
	e.TrackTime = s.TrackTime
	e.trackLast = s.TrackLast
	e.nextTrackLast = s.NextTrackLast
	e.TrackEnd = s.TrackEnd
	e.AnimationStart = s.AnimationStart
	e.AnimationEnd = s.AnimationEnd
	e.animationLast = s.AnimationLast
	e.nextAnimationLast = s.NextAnimationLast
	e.TimeScale = s.TimeScale
	e.Alpha = s.Alpha
	e.MixTime = s.MixTime
	e.MixDuration = s.MixDuration
	e.interruptAlpha = s.InterruptAlpha
}
