package playback

import (
	"fmt"
	"math"

	"github.com/zeusync/skeletal/internal/core/skeletal"
	"github.com/zeusync/skeletal/pkg/generic"
)

// emptyAnimation has no timelines. Mixing to it fades the previous
// entry back to the setup pose.
var emptyAnimation = skeletal.NewAnimation("<empty>", nil, 0)

// Attachment states stored on slots relative to unkeyedState.
const (
	attachmentSetup   = 1
	attachmentCurrent = 2
)

// AnimationState applies animations over time, queues animations for
// later playback, and mixes from one animation to another. Each track
// plays one entry at a time; higher tracks are applied over lower ones.
//
// Notifications are queued as Records and returned by Drain. Nothing is
// called back while the pose is being changed.
type AnimationState struct {
	data   *AnimationStateData
	tracks []*TrackEntry
	// TimeScale multiplies the delta of every Update.
	TimeScale float32

	unkeyedState      int
	events            []*skeletal.Event
	queue             recordQueue
	propertyIDs       map[skeletal.PropertyID]struct{}
	animationsChanged bool
	entries           *generic.FreeList[*TrackEntry]
}

func NewAnimationState(data *AnimationStateData) *AnimationState {
	s := &AnimationState{
		data:        data,
		TimeScale:   1,
		propertyIDs: make(map[skeletal.PropertyID]struct{}),
		entries:     generic.NewFreeList(func() *TrackEntry { return new(TrackEntry) }, 64),
	}
	s.queue = recordQueue{entries: s.entries, changed: &s.animationsChanged}
	return s
}

func (s *AnimationState) Data() *AnimationStateData { return s.data }

// SetTimeScale sets the multiplier applied to the delta of every Update.
// Zero pauses all tracks.
func (s *AnimationState) SetTimeScale(scale float32) { s.TimeScale = scale }

// Tracks returns the track slots. Entries are nil for empty tracks.
func (s *AnimationState) Tracks() []*TrackEntry { return s.tracks }

// Current returns the entry playing on track, or nil when the track is
// empty or does not exist.
func (s *AnimationState) Current(track int) *TrackEntry {
	if track < 0 || track >= len(s.tracks) {
		return nil
	}
	return s.tracks[track]
}

// Drain returns the records queued since the previous Drain in the
// order they occurred. The slice and the entries disposed in it stay
// valid until the next Drain.
func (s *AnimationState) Drain() []Record {
	return s.queue.drain()
}

// Update advances the track entries by delta seconds.
func (s *AnimationState) Update(delta float32) {
	delta *= s.TimeScale
	for i, current := range s.tracks {
		if current == nil {
			continue
		}
		current.animationLast = current.nextAnimationLast
		current.trackLast = current.nextTrackLast

		currentDelta := delta * current.TimeScale
		if current.Delay > 0 {
			current.Delay -= currentDelta
			if current.Delay > 0 {
				continue
			}
			currentDelta = -current.Delay
			current.Delay = 0
		}

		if next := current.next; next != nil {
			// Switch once the next entry's delay has passed, keeping the
			// leftover time.
			nextTime := current.trackLast - next.Delay
			if nextTime >= 0 {
				next.Delay = 0
				if current.TimeScale != 0 {
					next.TrackTime += (nextTime/current.TimeScale + delta) * next.TimeScale
				}
				current.TrackTime += currentDelta
				s.setCurrent(i, next, true)
				for next.mixingFrom != nil {
					next.MixTime += delta
					next = next.mixingFrom
				}
				continue
			}
		} else if current.trackLast >= current.TrackEnd && current.mixingFrom == nil {
			s.tracks[i] = nil
			s.queue.end(current)
			s.clearNext(current)
			continue
		}

		if current.mixingFrom != nil && s.updateMixingFrom(current, delta) {
			// All mixing from entries are done.
			from := current.mixingFrom
			current.mixingFrom = nil
			if from != nil {
				from.mixingTo = nil
			}
			for ; from != nil; from = from.mixingFrom {
				s.queue.end(from)
			}
		}

		current.TrackTime += currentDelta
	}
}

// updateMixingFrom returns true when the mix from to.mixingFrom and
// every entry before it is complete.
func (s *AnimationState) updateMixingFrom(to *TrackEntry, delta float32) bool {
	from := to.mixingFrom
	if from == nil {
		return true
	}
	finished := s.updateMixingFrom(from, delta)

	from.animationLast = from.nextAnimationLast
	from.trackLast = from.nextTrackLast

	// The mix is complete once to has been applied at least once.
	if to.nextTrackLast != -1 && to.MixTime >= to.MixDuration {
		if from.totalAlpha == 0 || to.MixDuration == 0 {
			to.mixingFrom = from.mixingFrom
			if from.mixingFrom != nil {
				from.mixingFrom.mixingTo = to
			}
			to.interruptAlpha = from.interruptAlpha
			s.queue.end(from)
		}
		return finished
	}

	from.TrackTime += delta * from.TimeScale
	to.MixTime += delta
	return false
}

// Apply poses the skeleton with the current entry of every track and the
// entries they mix from. It reports whether any entry was applied.
func (s *AnimationState) Apply(skeleton *skeletal.Skeleton) bool {
	if s.animationsChanged {
		s.computeHolds()
	}

	applied := false
	for i, current := range s.tracks {
		if current == nil || current.Delay > 0 {
			continue
		}
		applied = true

		blend := current.MixBlend
		if i == 0 {
			blend = skeletal.MixFirst
		}

		alpha := current.Alpha
		if current.mixingFrom != nil {
			alpha *= s.applyMixingFrom(current, skeleton, blend)
		} else if current.TrackTime >= current.TrackEnd && current.next == nil {
			alpha = 0
		}
		attachments := alpha >= current.AlphaAttachmentThreshold

		animationLast, animationTime := current.animationLast, current.AnimationTime()
		applyTime := animationTime
		events := &s.events
		if current.Reverse {
			applyTime = current.animation.Duration() - applyTime
			events = nil
		}

		timelines := current.animation.Timelines()
		if (i == 0 && alpha == 1) || blend == skeletal.MixAdd {
			if i == 0 {
				attachments = true
			}
			for _, tl := range timelines {
				if at, ok := tl.(*skeletal.AttachmentTimeline); ok {
					s.applyAttachmentTimeline(at, skeleton, applyTime, blend, attachments)
					continue
				}
				tl.Apply(skeleton, animationLast, applyTime, events, alpha, blend, skeletal.MixIn)
			}
		} else {
			shortest := current.ShortestRotation
			firstFrame := !shortest && len(current.timelinesRotation) != len(timelines)<<1
			if firstFrame {
				current.timelinesRotation = resize(current.timelinesRotation, len(timelines)<<1)
			}
			for ii, tl := range timelines {
				timelineBlend := skeletal.MixSetup
				if current.timelineMode[ii] == modeSubsequent {
					timelineBlend = blend
				}
				switch t := tl.(type) {
				case *skeletal.RotateTimeline:
					if !shortest {
						s.applyRotateTimeline(t, skeleton, applyTime, alpha, timelineBlend, current.timelinesRotation, ii<<1, firstFrame)
						continue
					}
				case *skeletal.AttachmentTimeline:
					s.applyAttachmentTimeline(t, skeleton, applyTime, blend, attachments)
					continue
				}
				tl.Apply(skeleton, animationLast, applyTime, events, alpha, timelineBlend, skeletal.MixIn)
			}
		}
		s.queueEvents(current, animationTime)
		s.events = s.events[:0]
		current.nextAnimationLast = animationTime
		current.nextTrackLast = current.TrackTime
	}

	// Slots whose attachment was only set by entries mixing out, or not
	// at all this frame, go back to the setup attachment.
	setupState := s.unkeyedState + attachmentSetup
	for _, slot := range skeleton.Slots() {
		if slot.AttachmentState == setupState {
			s.setSetupAttachment(skeleton, slot)
		}
	}
	// Moving the base avoids resetting every slot's state each frame.
	s.unkeyedState += 2
	return applied
}

func (s *AnimationState) applyMixingFrom(to *TrackEntry, skeleton *skeletal.Skeleton, blend skeletal.MixBlend) float32 {
	from := to.mixingFrom
	if from.mixingFrom != nil {
		s.applyMixingFrom(from, skeleton, blend)
	}

	var mix float32
	if to.MixDuration == 0 {
		// A single frame mix undoes what from keyed.
		mix = 1
		if blend == skeletal.MixFirst {
			blend = skeletal.MixSetup
		}
	} else {
		mix = min(to.MixTime/to.MixDuration, 1)
		if blend != skeletal.MixFirst {
			blend = from.MixBlend
		}
	}

	attachments := mix < from.MixAttachmentThreshold
	drawOrder := mix < from.MixDrawOrderThreshold
	timelines := from.animation.Timelines()
	alphaHold := from.Alpha * to.interruptAlpha
	alphaMix := alphaHold * (1 - mix)
	animationLast, animationTime := from.animationLast, from.AnimationTime()
	applyTime := animationTime
	var events *[]*skeletal.Event
	if from.Reverse {
		applyTime = from.animation.Duration() - applyTime
	} else if mix < from.EventThreshold {
		events = &s.events
	}

	if blend == skeletal.MixAdd {
		for _, tl := range timelines {
			tl.Apply(skeleton, animationLast, applyTime, events, alphaMix, blend, skeletal.MixOut)
		}
	} else {
		shortest := from.ShortestRotation
		firstFrame := !shortest && len(from.timelinesRotation) != len(timelines)<<1
		if firstFrame {
			from.timelinesRotation = resize(from.timelinesRotation, len(timelines)<<1)
		}

		from.totalAlpha = 0
		for i, tl := range timelines {
			direction := skeletal.MixOut
			var timelineBlend skeletal.MixBlend
			var alpha float32
			switch from.timelineMode[i] {
			case modeSubsequent:
				if _, ok := tl.(*skeletal.DrawOrderTimeline); ok && !drawOrder {
					continue
				}
				timelineBlend, alpha = blend, alphaMix
			case modeFirst:
				timelineBlend, alpha = skeletal.MixSetup, alphaMix
			case modeHoldSubsequent:
				timelineBlend, alpha = blend, alphaHold
			case modeHoldFirst:
				timelineBlend, alpha = skeletal.MixSetup, alphaHold
			default:
				holdMix := from.timelineHoldMix[i]
				timelineBlend = skeletal.MixSetup
				alpha = alphaHold * max(0, 1-holdMix.MixTime/holdMix.MixDuration)
			}
			from.totalAlpha += alpha

			switch t := tl.(type) {
			case *skeletal.RotateTimeline:
				if !shortest {
					s.applyRotateTimeline(t, skeleton, applyTime, alpha, timelineBlend, from.timelinesRotation, i<<1, firstFrame)
					continue
				}
			case *skeletal.AttachmentTimeline:
				s.applyAttachmentTimeline(t, skeleton, applyTime, timelineBlend, attachments && alpha >= from.AlphaAttachmentThreshold)
				continue
			case *skeletal.DrawOrderTimeline:
				if drawOrder && timelineBlend == skeletal.MixSetup {
					direction = skeletal.MixIn
				}
			}
			tl.Apply(skeleton, animationLast, applyTime, events, alpha, timelineBlend, direction)
		}
	}

	if to.MixDuration > 0 {
		s.queueEvents(from, animationTime)
	}
	s.events = s.events[:0]
	from.nextAnimationLast = animationTime
	from.nextTrackLast = from.TrackTime
	return mix
}

func (s *AnimationState) applyAttachmentTimeline(t *skeletal.AttachmentTimeline, skeleton *skeletal.Skeleton, time float32, blend skeletal.MixBlend, attachments bool) {
	slot := skeleton.SlotAt(t.SlotIndex())
	if !slot.Bone().IsActive() {
		return
	}
	frames := t.Frames()
	if time < frames[0] {
		if blend == skeletal.MixSetup || blend == skeletal.MixFirst {
			s.setAttachment(skeleton, slot, slot.Data().AttachmentName, attachments)
		}
	} else {
		s.setAttachment(skeleton, slot, t.AttachmentNames()[skeletal.Search(frames, time, 1)], attachments)
	}
	// Without a keyed attachment this frame, restore setup at the end.
	if slot.AttachmentState <= s.unkeyedState {
		slot.AttachmentState = s.unkeyedState + attachmentSetup
	}
}

func (s *AnimationState) setAttachment(skeleton *skeletal.Skeleton, slot *skeletal.Slot, name string, attachments bool) {
	var attachment skeletal.Attachment
	if name != "" {
		attachment = skeleton.Attachment(slot.Data().Index, name)
	}
	slot.SetAttachment(attachment)
	if attachments {
		slot.AttachmentState = s.unkeyedState + attachmentCurrent
	}
}

func (s *AnimationState) setSetupAttachment(skeleton *skeletal.Skeleton, slot *skeletal.Slot) {
	var attachment skeletal.Attachment
	if name := slot.Data().AttachmentName; name != "" {
		attachment = skeleton.Attachment(slot.Data().Index, name)
	}
	slot.SetAttachment(attachment)
}

// applyRotateTimeline mixes a rotation keeping the direction chosen on
// the first frame of the mix, so a bone never snaps to the other side
// when the difference crosses 180 degrees.
func (s *AnimationState) applyRotateTimeline(t *skeletal.RotateTimeline, skeleton *skeletal.Skeleton, time, alpha float32, blend skeletal.MixBlend, rotations []float32, i int, firstFrame bool) {
	if firstFrame {
		rotations[i] = 0
	}
	if alpha == 1 {
		t.Apply(skeleton, 0, time, nil, 1, blend, skeletal.MixIn)
		return
	}

	bone := skeleton.BoneAt(t.BoneIndex())
	if !bone.IsActive() {
		return
	}
	setup := bone.Data().Setup.Rotation
	var r1, r2 float32
	if time < t.Frames()[0] {
		switch blend {
		case skeletal.MixSetup:
			bone.Local.Rotation = setup
			return
		case skeletal.MixFirst:
			r1, r2 = bone.Local.Rotation, setup
		default:
			return
		}
	} else {
		r1 = bone.Local.Rotation
		if blend == skeletal.MixSetup {
			r1 = setup
		}
		r2 = setup + t.CurveValue(time)
	}

	var total float32
	diff := r2 - r1
	diff -= float32(math.Ceil(float64(diff/360-0.5))) * 360
	if diff == 0 {
		total = rotations[i]
	} else {
		lastTotal, lastDiff := float32(0), diff
		if !firstFrame {
			// Angle and direction of the mix including loops, and the
			// difference between the bones.
			lastTotal, lastDiff = rotations[i], rotations[i+1]
		}
		loops := lastTotal - float32(math.Mod(float64(lastTotal), 360))
		total = diff + loops
		current, dir := diff >= 0, lastTotal >= 0
		if abs(lastDiff) <= 90 && signum(lastDiff) != signum(diff) {
			switch {
			case abs(lastTotal-loops) > 180:
				total += 360 * signum(lastTotal)
				dir = current
			case loops != 0:
				total -= 360 * signum(lastTotal)
			default:
				dir = current
			}
		}
		if dir != current {
			total += 360 * signum(lastTotal)
		}
		rotations[i] = total
	}
	rotations[i+1] = diff
	bone.Local.Rotation = r1 + total*alpha
}

// queueEvents records the events fired by the last Apply of entry, with
// the complete record placed between the events before and after the
// loop boundary.
func (s *AnimationState) queueEvents(entry *TrackEntry, animationTime float32) {
	start, end := entry.AnimationStart, entry.AnimationEnd
	duration := end - start
	trackLastWrapped := float32(math.Mod(float64(entry.trackLast), float64(duration)))

	events := s.events
	i := 0
	for ; i < len(events); i++ {
		e := events[i]
		if e.Time < trackLastWrapped {
			break
		}
		if e.Time > end {
			continue
		}
		s.queue.event(entry, e)
	}

	var complete bool
	if entry.Loop {
		if duration == 0 {
			complete = true
		} else {
			cycles := math.Floor(float64(entry.TrackTime / duration))
			complete = cycles > 0 && cycles > math.Floor(float64(entry.trackLast/duration))
		}
	} else {
		complete = animationTime >= end && entry.animationLast < end
	}
	if complete {
		s.queue.complete(entry)
	}

	for ; i < len(events); i++ {
		e := events[i]
		if e.Time < start {
			continue
		}
		s.queue.event(entry, e)
	}
}

// ClearTracks removes every entry from every track. Entries mixing out
// stop immediately; the skeleton keeps its current pose.
func (s *AnimationState) ClearTracks() {
	for i := range s.tracks {
		s.ClearTrack(i)
	}
	s.tracks = s.tracks[:0]
}

// ClearTrack removes all entries from a track. Unknown tracks are
// ignored.
func (s *AnimationState) ClearTrack(track int) {
	current := s.Current(track)
	if current == nil {
		return
	}
	s.queue.end(current)
	s.clearNext(current)

	for entry := current; ; {
		from := entry.mixingFrom
		if from == nil {
			break
		}
		s.queue.end(from)
		entry.mixingFrom = nil
		entry.mixingTo = nil
		entry = from
	}
	s.tracks[current.track] = nil
}

func (s *AnimationState) setCurrent(track int, current *TrackEntry, interrupt bool) {
	from := s.expandToIndex(track)
	s.tracks[track] = current
	current.previous = nil

	if from != nil {
		if interrupt {
			s.queue.interrupt(from)
		}
		current.mixingFrom = from
		from.mixingTo = current
		current.MixTime = 0

		// Keep the percentage of an interrupted mix.
		if from.mixingFrom != nil && from.MixDuration > 0 {
			current.interruptAlpha *= min(1, from.MixTime/from.MixDuration)
		}
		// The rotation directions were tracked for mixing in.
		from.timelinesRotation = from.timelinesRotation[:0]
	}
	s.queue.start(current)
}

// SetAnimation discards any queued entries on the track and makes the
// animation current right away. There is no crossfade unless the caller
// sets one on the returned entry with SetMixDuration before the next
// Apply.
func (s *AnimationState) SetAnimation(track int, animation *skeletal.Animation, loop bool) (*TrackEntry, error) {
	if track < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTrack, track)
	}
	if animation == nil {
		return nil, ErrNilAnimation
	}

	interrupt := true
	current := s.expandToIndex(track)
	if current != nil {
		if current.nextTrackLast == -1 {
			// Never mix from an entry that was never applied.
			s.tracks[track] = current.mixingFrom
			s.queue.interrupt(current)
			s.queue.end(current)
			s.clearNext(current)
			current = current.mixingFrom
			interrupt = false
		} else {
			s.clearNext(current)
		}
	}
	entry := s.trackEntry(track, animation, loop, current)
	entry.MixDuration = 0
	s.setCurrent(track, entry, interrupt)
	return entry, nil
}

// SetAnimationByName is SetAnimation with an animation of the skeleton
// data looked up by name.
func (s *AnimationState) SetAnimationByName(track int, name string, loop bool) (*TrackEntry, error) {
	animation, err := s.findAnimation(name)
	if err != nil {
		return nil, err
	}
	return s.SetAnimation(track, animation, loop)
}

// AddAnimation queues an animation after the last entry of the track.
// A delay <= 0 starts it that many seconds before the previous entry
// completes, less the mix duration, so the crossfade ends when the
// previous entry does. An empty track plays it right away.
func (s *AnimationState) AddAnimation(track int, animation *skeletal.Animation, loop bool, delay float32) (*TrackEntry, error) {
	if track < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTrack, track)
	}
	if animation == nil {
		return nil, ErrNilAnimation
	}

	last := s.expandToIndex(track)
	if last != nil {
		for last.next != nil {
			last = last.next
		}
	}

	entry := s.trackEntry(track, animation, loop, last)
	if last == nil {
		s.setCurrent(track, entry, true)
		delay = max(delay, 0)
	} else {
		last.next = entry
		entry.previous = last
		if delay <= 0 {
			delay = max(delay+last.TrackComplete()-entry.MixDuration, 0)
		}
	}
	entry.Delay = delay
	return entry, nil
}

func (s *AnimationState) AddAnimationByName(track int, name string, loop bool, delay float32) (*TrackEntry, error) {
	animation, err := s.findAnimation(name)
	if err != nil {
		return nil, err
	}
	return s.AddAnimation(track, animation, loop, delay)
}

// SetEmptyAnimation mixes the track out to the setup pose over
// mixDuration seconds and then clears it.
func (s *AnimationState) SetEmptyAnimation(track int, mixDuration float32) (*TrackEntry, error) {
	entry, err := s.SetAnimation(track, emptyAnimation, false)
	if err != nil {
		return nil, err
	}
	entry.MixDuration = mixDuration
	entry.TrackEnd = mixDuration
	return entry, nil
}

// AddEmptyAnimation queues a mix out to the setup pose. A delay <= 0
// makes the mix end when the previous entry completes.
func (s *AnimationState) AddEmptyAnimation(track int, mixDuration, delay float32) (*TrackEntry, error) {
	entry, err := s.AddAnimation(track, emptyAnimation, false, delay)
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		entry.Delay = max(entry.Delay+entry.MixDuration-mixDuration, 0)
	}
	entry.MixDuration = mixDuration
	entry.TrackEnd = mixDuration
	return entry, nil
}

// SetEmptyAnimations mixes every track out to the setup pose.
func (s *AnimationState) SetEmptyAnimations(mixDuration float32) {
	for _, current := range s.tracks {
		if current != nil {
			_, _ = s.SetEmptyAnimation(current.track, mixDuration)
		}
	}
}

func (s *AnimationState) findAnimation(name string) (*skeletal.Animation, error) {
	animation := s.data.skeletonData.FindAnimation(name)
	if animation == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
	}
	return animation, nil
}

func (s *AnimationState) expandToIndex(index int) *TrackEntry {
	if index < len(s.tracks) {
		return s.tracks[index]
	}
	for len(s.tracks) <= index {
		s.tracks = append(s.tracks, nil)
	}
	return nil
}

func (s *AnimationState) trackEntry(track int, animation *skeletal.Animation, loop bool, last *TrackEntry) *TrackEntry {
	entry := s.entries.Get()
	entry.reset()
	entry.track = track
	entry.animation = animation
	entry.Loop = loop

	entry.AnimationEnd = animation.Duration()
	entry.animationLast = -1
	entry.nextAnimationLast = -1
	entry.trackLast = -1
	entry.nextTrackLast = -1
	entry.TrackEnd = math.MaxFloat32
	entry.TimeScale = 1

	entry.Alpha = 1
	if last != nil {
		entry.MixDuration = s.data.Mix(last.animation, animation)
	}
	entry.interruptAlpha = 1
	entry.MixBlend = skeletal.MixReplace
	return entry
}

// clearNext disposes every entry queued after entry.
func (s *AnimationState) clearNext(entry *TrackEntry) {
	for next := entry.next; next != nil; next = next.next {
		s.queue.dispose(next)
	}
	entry.next = nil
}

// computeHolds sets the timeline modes of every entry from the lowest
// track up, after entries started or ended.
func (s *AnimationState) computeHolds() {
	s.animationsChanged = false
	clear(s.propertyIDs)
	for _, entry := range s.tracks {
		if entry == nil {
			continue
		}
		for entry.mixingFrom != nil {
			entry = entry.mixingFrom
		}
		for ; entry != nil; entry = entry.mixingTo {
			// Additive entries mixing out skip the modes, except on
			// track 0 which always mixes with MixFirst.
			if entry.mixingTo == nil || entry.MixBlend != skeletal.MixAdd || entry.track == 0 {
				s.computeHold(entry)
			}
		}
	}
}

func (s *AnimationState) computeHold(entry *TrackEntry) {
	to := entry.mixingTo
	timelines := entry.animation.Timelines()
	n := len(timelines)
	entry.timelineMode = resizeInts(entry.timelineMode, n)
	entry.timelineHoldMix = resizeEntries(entry.timelineHoldMix, n)

	if to != nil && to.HoldPrevious {
		for i, tl := range timelines {
			entry.timelineMode[i] = modeHoldSubsequent
			if s.addAll(tl.PropertyIDs()) {
				entry.timelineMode[i] = modeHoldFirst
			}
		}
		return
	}

outer:
	for i, tl := range timelines {
		ids := tl.PropertyIDs()
		switch {
		case !s.addAll(ids):
			entry.timelineMode[i] = modeSubsequent
		case to == nil || isDiscrete(tl) || !to.animation.HasTimeline(ids):
			entry.timelineMode[i] = modeFirst
		default:
			for next := to.mixingTo; next != nil; next = next.mixingTo {
				if next.animation.HasTimeline(ids) {
					continue
				}
				if entry.MixDuration > 0 {
					entry.timelineMode[i] = modeHoldMix
					entry.timelineHoldMix[i] = next
					continue outer
				}
				break
			}
			entry.timelineMode[i] = modeHoldFirst
		}
	}
}

// addAll adds the ids and reports whether any of them was new.
func (s *AnimationState) addAll(ids []skeletal.PropertyID) bool {
	added := false
	for _, id := range ids {
		if _, ok := s.propertyIDs[id]; !ok {
			s.propertyIDs[id] = struct{}{}
			added = true
		}
	}
	return added
}

func isDiscrete(tl skeletal.Timeline) bool {
	switch tl.(type) {
	case *skeletal.AttachmentTimeline, *skeletal.DrawOrderTimeline, *skeletal.EventTimeline:
		return true
	}
	return false
}
