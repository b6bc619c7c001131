package bus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testObserver struct {
	mu             sync.Mutex
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_, _ string, _ Event) {
	o.mu.Lock()
	o.publishCount++
	o.mu.Unlock()
}

func (o *testObserver) OnDelivered(_, _ string, handlers int, err error, _ int64) {
	o.mu.Lock()
	o.deliveredCount += handlers
	o.lastErr = err
	o.mu.Unlock()
}

type topicEvent struct {
	Event
	topic string
}

func (e topicEvent) Topic() string { return e.topic }

func TestEventBus_Publish(t *testing.T) {
	t.Run("Subscription Order", func(t *testing.T) {
		b := New()
		var got []string
		for _, name := range []string{"first", "second", "third"} {
			_, err := b.Subscribe("pose", func(Event) error {
				got = append(got, name)
				return nil
			})
			require.NoError(t, err)
		}
		_, err := b.Subscribe(AnyType, func(e Event) error {
			got = append(got, "any:"+e.Type())
			return nil
		})
		require.NoError(t, err)

		require.NoError(t, b.Publish(NewEvent("pose", "tester", 123, nil)))
		require.Equal(t, []string{"first", "second", "third", "any:pose"}, got)
	})

	t.Run("Joined Errors", func(t *testing.T) {
		b := New()
		errA, errB := errors.New("a"), errors.New("b")
		_, _ = b.Subscribe("x", func(Event) error { return errA })
		_, _ = b.Subscribe("x", func(Event) error { return nil })
		_, _ = b.Subscribe("x", func(Event) error { return errB })

		err := b.Publish(NewEvent("x", "src", nil, nil))
		require.ErrorIs(t, err, errA)
		require.ErrorIs(t, err, errB)
	})

	t.Run("Nil Handler", func(t *testing.T) {
		_, err := New().Subscribe("x", nil)
		require.ErrorIs(t, err, ErrNilHandler)
	})

	t.Run("Cancel", func(t *testing.T) {
		b := New()
		calls := 0
		sub, err := b.Subscribe("x", func(Event) error { calls++; return nil })
		require.NoError(t, err)
		require.True(t, sub.IsActive())

		require.NoError(t, b.Unsubscribe(sub))
		require.NoError(t, sub.Cancel())
		require.NoError(t, b.Unsubscribe(nil))
		require.False(t, sub.IsActive())

		require.NoError(t, b.Publish(NewEvent("x", "src", nil, nil)))
		require.Zero(t, calls)
	})
}

func TestEventBus_Topics(t *testing.T) {
	t.Run("Isolation", func(t *testing.T) {
		b := New()
		require.NoError(t, b.CreateTopic("t1", TopicConfig{}))
		require.NoError(t, b.CreateTopic("t2", TopicConfig{}))
		count1, count2 := 0, 0
		_, _ = b.SubscribeTopic("t1", "ev", func(Event) error { count1++; return nil })
		_, _ = b.SubscribeTopic("t2", "ev", func(Event) error { count2++; return nil })

		require.NoError(t, b.PublishToTopic("t1", NewEvent("ev", "src", nil, nil)))
		require.Equal(t, 1, count1)
		require.Zero(t, count2)
	})

	t.Run("Batch Routes By Topic", func(t *testing.T) {
		b := New()
		var got []string
		for _, topic := range []string{"", "a", "b"} {
			_, _ = b.SubscribeTopic(topic, AnyType, func(e Event) error {
				got = append(got, topic+"/"+e.Type())
				return nil
			})
		}
		err := b.PublishBatch(
			topicEvent{NewEvent("start", "", nil, nil), "b"},
			topicEvent{NewEvent("event", "", nil, nil), "a"},
			NewEvent("plain", "", nil, nil),
			topicEvent{NewEvent("end", "", nil, nil), "b"},
		)
		require.NoError(t, err)
		require.Equal(t, []string{"b/start", "a/event", "/plain", "b/end"}, got)
	})

	t.Run("Remove", func(t *testing.T) {
		b := New()
		calls := 0
		sub, _ := b.SubscribeTopic("gone", "ev", func(Event) error { calls++; return nil })
		require.NoError(t, b.RemoveTopic("gone"))
		require.False(t, sub.IsActive())
		require.NoError(t, b.PublishToTopic("gone", NewEvent("ev", "", nil, nil)))
		require.Zero(t, calls)
		require.Error(t, b.RemoveTopic(""))
		for _, info := range b.GetTopics() {
			require.NotEqual(t, "gone", info.Name)
		}
	})

	t.Run("Persistence", func(t *testing.T) {
		b := New()
		_ = b.CreateTopic("tb", TopicConfig{Description: "second"})
		_ = b.CreateTopic("ta", TopicConfig{Description: "first"})
		_, _ = b.SubscribeTopic("ta", "ev", func(Event) error { return nil })
		data, err := b.SaveState()
		require.NoError(t, err)

		b2 := New()
		require.NoError(t, b2.LoadState(data))
		require.Equal(t, []TopicInfo{
			{Name: "ta", Description: "first"},
			{Name: "tb", Description: "second"},
		}, b2.GetTopics())

		require.Error(t, b2.LoadState([]byte("garbage")))
	})
}

func TestEventBus_Observer(t *testing.T) {
	b := New()
	_, _ = b.Subscribe("e", func(Event) error { return nil })
	require.NoError(t, b.Publish(NewEvent("e", "s", nil, nil)))
	require.Zero(t, b.GetMetrics().Published)

	obs := &testObserver{}
	b.AddObserver(obs)
	b.AddObserver(obs)
	failure := errors.New("handler failed")
	_, _ = b.Subscribe("e", func(Event) error { return failure })

	require.ErrorIs(t, b.Publish(NewEvent("e", "s", nil, nil)), failure)
	m := b.GetMetrics()
	require.EqualValues(t, 1, m.Published)
	require.EqualValues(t, 2, m.DeliveredHandlers)
	require.EqualValues(t, 1, m.Errors)
	require.EqualValues(t, 2, m.SubscribersActive)
	require.Equal(t, 1, obs.publishCount)
	require.Equal(t, 2, obs.deliveredCount)
	require.ErrorIs(t, obs.lastErr, failure)

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil, nil))
	require.Equal(t, 1, obs.publishCount)
}

func TestEventBus_Concurrent(t *testing.T) {
	b := New()
	var mu sync.Mutex
	received := 0
	_, _ = b.Subscribe("tick", func(Event) error {
		mu.Lock()
		received++
		mu.Unlock()
		return nil
	})
	b.AddObserver(&testObserver{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Publish(NewEvent("tick", "", nil, nil))
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 800, received)
	require.EqualValues(t, 800, b.GetMetrics().Published)

	ev := NewEvent("tick", "src", 1, map[string]any{"k": "v"})
	require.Equal(t, "src", ev.Source())
	require.Equal(t, 1, ev.Data())
	require.Equal(t, "v", ev.Metadata()["k"])
	require.WithinDuration(t, time.Now(), ev.Timestamp(), time.Second)
}
