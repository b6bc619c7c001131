package playback

import (
	"github.com/zeusync/skeletal/internal/core/skeletal"
	"github.com/zeusync/skeletal/pkg/generic"
)

// EventType is the kind of a Record.
type EventType uint8

const (
	// EventStart is recorded when an entry becomes the current entry of
	// its track.
	EventStart EventType = iota
	// EventInterrupt is recorded when another entry replaces the entry
	// before it completed its mix in.
	EventInterrupt
	// EventEnd is recorded when an entry will never be applied again.
	EventEnd
	// EventComplete is recorded each time an entry finishes a loop or
	// reaches its animation end.
	EventComplete
	// EventDispose is recorded when an entry is released. It is the last
	// record for the entry, which is reused once the next Drain runs.
	EventDispose
	// EventEvent carries a keyed animation event.
	EventEvent
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventInterrupt:
		return "interrupt"
	case EventEnd:
		return "end"
	case EventComplete:
		return "complete"
	case EventDispose:
		return "dispose"
	case EventEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Record is one queued notification. Event is set only for EventEvent.
type Record struct {
	Type  EventType
	Entry *TrackEntry
	Event *skeletal.Event
}

// recordQueue collects records in occurrence order. Drain hands out the
// pending buffer and swaps in the one returned by the previous Drain, so
// a drained slice stays valid until the following Drain.
type recordQueue struct {
	pending  []Record
	drained  []Record
	disposed []*TrackEntry
	entries  *generic.FreeList[*TrackEntry]
	changed  *bool
}

func (q *recordQueue) start(entry *TrackEntry) {
	q.pending = append(q.pending, Record{Type: EventStart, Entry: entry})
	*q.changed = true
}

func (q *recordQueue) interrupt(entry *TrackEntry) {
	q.pending = append(q.pending, Record{Type: EventInterrupt, Entry: entry})
}

// end also disposes the entry.
func (q *recordQueue) end(entry *TrackEntry) {
	q.pending = append(q.pending, Record{Type: EventEnd, Entry: entry})
	*q.changed = true
	q.dispose(entry)
}

func (q *recordQueue) dispose(entry *TrackEntry) {
	q.pending = append(q.pending, Record{Type: EventDispose, Entry: entry})
}

func (q *recordQueue) complete(entry *TrackEntry) {
	q.pending = append(q.pending, Record{Type: EventComplete, Entry: entry})
}

func (q *recordQueue) event(entry *TrackEntry, event *skeletal.Event) {
	q.pending = append(q.pending, Record{Type: EventEvent, Entry: entry, Event: event})
}

func (q *recordQueue) drain() []Record {
	for _, entry := range q.disposed {
		entry.reset()
		q.entries.Put(entry)
	}
	q.disposed = q.disposed[:0]

	out := q.pending
	for _, r := range out {
		if r.Type == EventDispose && !r.Entry.released {
			r.Entry.released = true
			q.disposed = append(q.disposed, r.Entry)
		}
	}
	clear(q.drained)
	q.pending, q.drained = q.drained[:0], out
	return out
}
