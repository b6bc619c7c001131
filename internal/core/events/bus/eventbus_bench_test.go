package bus

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

// poseRecord mirrors the records the instance manager publishes: one
// topic per instance, the record type as the event type.
type poseRecord struct {
	instance string
	kind     string
	ts       time.Time
}

func (r poseRecord) Type() string             { return r.kind }
func (r poseRecord) Source() string           { return r.instance }
func (r poseRecord) Topic() string            { return r.instance }
func (r poseRecord) Timestamp() time.Time     { return r.ts }
func (r poseRecord) Data() any                { return nil }
func (r poseRecord) Metadata() map[string]any { return nil }

var recordKinds = []string{"start", "event", "event", "complete"}

type countingObserver struct{ delivered atomic.Int64 }

func (*countingObserver) OnPublish(string, string, Event) {}
func (o *countingObserver) OnDelivered(_, _ string, handlers int, _ error, _ int64) {
	o.delivered.Add(int64(handlers))
}

// setupInstances declares one topic per instance with a typed handler for
// timeline events and an AnyType handler, and returns one tick worth of
// records for every instance.
func setupInstances(b *testing.B, eb EventBus, instances int, delivered *atomic.Int64) [][]Event {
	b.Helper()
	count := func(Event) error {
		delivered.Add(1)
		return nil
	}
	batches := make([][]Event, instances)
	now := time.Now()
	for i := range batches {
		id := fmt.Sprintf("instance-%d", i)
		if err := eb.CreateTopic(id, TopicConfig{Description: "rig"}); err != nil {
			b.Fatal(err)
		}
		if _, err := eb.SubscribeTopic(id, "event", count); err != nil {
			b.Fatal(err)
		}
		if _, err := eb.SubscribeTopic(id, AnyType, count); err != nil {
			b.Fatal(err)
		}
		for _, kind := range recordKinds {
			batches[i] = append(batches[i], poseRecord{instance: id, kind: kind, ts: now})
		}
	}
	return batches
}

func BenchmarkPublishBatch_Records(b *testing.B) {
	for _, instances := range []int{1, 16, 256} {
		b.Run(fmt.Sprintf("Instances %d", instances), func(b *testing.B) {
			eb := New()
			var delivered atomic.Int64
			batches := setupInstances(b, eb, instances, &delivered)
			all := make([]Event, 0, instances*len(recordKinds))
			for _, batch := range batches {
				all = append(all, batch...)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for n := 0; n < b.N; n++ {
				if err := eb.PublishBatch(all...); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()
			if delivered.Load() == 0 {
				b.Fatal("no records delivered")
			}
		})
	}
}

func BenchmarkPublishBatch_Observed(b *testing.B) {
	eb := New()
	var delivered atomic.Int64
	batches := setupInstances(b, eb, 16, &delivered)
	obs := &countingObserver{}
	eb.AddObserver(obs)
	defer eb.RemoveObserver(obs)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for _, batch := range batches {
			if err := eb.PublishBatch(batch...); err != nil {
				b.Fatal(err)
			}
		}
	}
	b.StopTimer()
	if obs.delivered.Load() != delivered.Load() {
		b.Fatalf("observer saw %d deliveries, handlers ran %d", obs.delivered.Load(), delivered.Load())
	}
}

// Each goroutine publishes the records of its own instances, the way the
// manager's workers do after a tick.
func BenchmarkPublishBatch_Parallel(b *testing.B) {
	eb := New()
	var delivered atomic.Int64
	batches := setupInstances(b, eb, 64, &delivered)
	var next atomic.Int64

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			batch := batches[int(next.Add(1))%len(batches)]
			if err := eb.PublishBatch(batch...); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// Instances come and go while records are published.
func BenchmarkPublishBatch_TopicChurn(b *testing.B) {
	eb := New()
	var delivered atomic.Int64
	batches := setupInstances(b, eb, 8, &delivered)
	count := func(Event) error {
		delivered.Add(1)
		return nil
	}
	scratch := make([]Event, 0, len(recordKinds)+1)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		id := fmt.Sprintf("transient-%d", n)
		if err := eb.CreateTopic(id, TopicConfig{}); err != nil {
			b.Fatal(err)
		}
		if _, err := eb.SubscribeTopic(id, AnyType, count); err != nil {
			b.Fatal(err)
		}
		batch := append(scratch[:0], batches[n%len(batches)]...)
		batch = append(batch, poseRecord{instance: id, kind: "dispose"})
		if err := eb.PublishBatch(batch...); err != nil {
			b.Fatal(err)
		}
		if err := eb.RemoveTopic(id); err != nil {
			b.Fatal(err)
		}
	}
}
