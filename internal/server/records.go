package server

import (
	"sync"

	"github.com/zeusync/skeletal/internal/core/events/bus"
	"github.com/zeusync/skeletal/internal/core/instance"
	"github.com/zeusync/skeletal/internal/core/playback"
)

// RecordMessage is a playback record as sent to clients.
type RecordMessage struct {
	Instance  string `json:"instance"`
	Type      string `json:"type"`
	Track     int    `json:"track"`
	Animation string `json:"animation"`
	Event     string `json:"event,omitempty"`
	Value     string `json:"value,omitempty"`
}

// recordCollector observes the bus and keeps the records published since
// the last frame. Records are copied when published because their entries
// are recycled by the next tick.
type recordCollector struct {
	mu      sync.Mutex
	pending []RecordMessage
}

func (c *recordCollector) OnPublish(topic, eventType string, e bus.Event) {
	r, ok := instance.RecordOf(e)
	if !ok {
		return
	}
	msg := RecordMessage{Instance: topic, Type: eventType}
	if r.Entry != nil {
		msg.Track = r.Entry.TrackIndex()
		msg.Animation = r.Entry.String()
	}
	if r.Type == playback.EventEvent && r.Event != nil {
		msg.Event = r.Event.Name()
		msg.Value = r.Event.String
	}

	c.mu.Lock()
	c.pending = append(c.pending, msg)
	c.mu.Unlock()
}

func (c *recordCollector) OnDelivered(string, string, int, error, int64) {}

func (c *recordCollector) take() []RecordMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.pending
	c.pending = nil
	return out
}
