package instance

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zeusync/skeletal/internal/core/playback"
	"github.com/zeusync/skeletal/internal/core/skeletal"
	"github.com/zeusync/skeletal/pkg/encoding"
)

// Instance is one posed skeleton and the animation state driving it.
// Skeleton and State must only be touched through Do once the instance
// is owned by a Manager.
type Instance struct {
	ID       string
	Skeleton *skeletal.Skeleton
	State    *playback.AnimationState

	mu      sync.Mutex
	pending []recordEvent
}

// Do runs fn with exclusive access to the skeleton and its state.
func (i *Instance) Do(fn func(skeleton *skeletal.Skeleton, state *playback.AnimationState) error) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return fn(i.Skeleton, i.State)
}

// tick advances the state by delta and poses the skeleton. A contract
// panic raised by mismatched data is returned as an error.
func (i *Instance) tick(delta float32) (err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	defer i.recoverContract(&err)

	i.State.Update(delta)
	i.State.Apply(i.Skeleton)
	i.Skeleton.Update(delta)
	i.Skeleton.UpdateWorldTransform(skeletal.PhysicsUpdate)
	i.collect()
	return nil
}

// recoverContract turns a *skeletal.ContractError panic into *err. Any
// other panic is raised again.
func (i *Instance) recoverContract(err *error) {
	r := recover()
	if r == nil {
		return
	}
	ce, ok := r.(*skeletal.ContractError)
	if !ok {
		panic(r)
	}
	*err = fmt.Errorf("instance %s: %w", i.ID, ce)
}

// collect moves the drained records into pending, stamped now.
func (i *Instance) collect() {
	records := i.State.Drain()
	if len(records) == 0 {
		return
	}
	ts := now()
	for _, r := range records {
		i.pending = append(i.pending, recordEvent{instance: i.ID, record: r, ts: ts})
	}
}

func (i *Instance) takePending() []recordEvent {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.pending
	i.pending = nil
	return out
}

type savedTracks struct {
	Tracks []savedTrack
}

type savedTrack struct {
	Track int
	State playback.TrackState
}

// SaveTracks encodes the timing of the current entry of every track.
// Entries being mixed out and queued entries are not saved.
func (i *Instance) SaveTracks() ([]byte, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var saved savedTracks
	for n, entry := range i.State.Tracks() {
		if entry != nil {
			saved.Tracks = append(saved.Tracks, savedTrack{Track: n, State: entry.State()})
		}
	}
	return encoding.GobMarshal(&saved)
}

// RestoreTracks replaces the tracks with those saved by SaveTracks and
// poses the skeleton. Animations are looked up by name. The records of
// the swap are published by the next Tick.
func (i *Instance) RestoreTracks(data []byte) (err error) {
	var saved savedTracks
	if err := encoding.GobUnmarshal(data, &saved); err != nil {
		return fmt.Errorf("decode tracks: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	defer i.recoverContract(&err)
	i.State.ClearTracks()
	var errs []error
	for _, t := range saved.Tracks {
		entry, err := i.State.SetAnimationByName(t.Track, t.State.Animation, t.State.Loop)
		if err != nil {
			errs = append(errs, fmt.Errorf("track %d: %w", t.Track, err))
			continue
		}
		entry.Restore(t.State)
	}
	i.Skeleton.SetToSetupPose()
	i.State.Apply(i.Skeleton)
	i.Skeleton.UpdateWorldTransform(skeletal.PhysicsPose)
	return errors.Join(errs...)
}
