package instance

import (
	"time"

	"github.com/zeusync/skeletal/internal/core/events/bus"
	"github.com/zeusync/skeletal/internal/core/observability/log"
	"github.com/zeusync/skeletal/internal/core/playback"
)

var (
	_ bus.Event   = recordEvent{}
	_ bus.Topical = recordEvent{}
)

// recordEvent carries a playback record on the bus. The topic is the id
// of the instance that produced it and the type is the record type, so
// listeners subscribe with SubscribeTopic(id, "complete", ...) or
// bus.AnyType.
type recordEvent struct {
	instance string
	record   playback.Record
	ts       time.Time
}

func (e recordEvent) Type() string         { return e.record.Type.String() }
func (e recordEvent) Source() string       { return e.instance }
func (e recordEvent) Topic() string        { return e.instance }
func (e recordEvent) Timestamp() time.Time { return e.ts }

// Data is the playback.Record. Its entry stays valid until the next Tick.
func (e recordEvent) Data() any { return e.record }

func (e recordEvent) Metadata() map[string]any {
	meta := map[string]any{}
	if entry := e.record.Entry; entry != nil {
		meta["track"] = entry.TrackIndex()
		meta["animation"] = entry.String()
	}
	if ev := e.record.Event; ev != nil {
		meta["event"] = ev.Name()
		meta["time"] = ev.Time
	}
	return meta
}

// RecordOf returns the playback record carried by an event published by
// the manager.
func RecordOf(e bus.Event) (playback.Record, bool) {
	r, ok := e.Data().(playback.Record)
	return r, ok
}

// deliveryLogger reports failing listeners.
type deliveryLogger struct {
	log log.Log
}

func (d deliveryLogger) OnPublish(string, string, bus.Event) {}

func (d deliveryLogger) OnDelivered(topic, eventType string, handlers int, err error, durationMicros int64) {
	if err == nil {
		return
	}
	d.log.Warn("record listener failed",
		log.Instance(topic),
		log.String("type", eventType),
		log.Int("handlers", handlers),
		log.Int64("duration_us", durationMicros),
		log.Error(err),
	)
}
