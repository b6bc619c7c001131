package bus

import "time"

// AnyType subscribes a handler to every event type of a topic.
const AnyType = "*"

// EventBus is a thread-safe, in-process pub/sub bus.
//
// Handlers subscribe by Event.Type() within a topic; the default topic is
// "". Delivery is synchronous on the publishing goroutine and handlers of
// one type run in subscription order, followed by the AnyType handlers.
// Handler errors are joined and returned from Publish and PublishBatch.
// Metrics are collected only while an observer is registered.
type EventBus interface {
	// Publish delivers the event to the default topic.
	Publish(event Event) error
	// PublishToTopic delivers the event to the subscribers of topic.
	PublishToTopic(topic string, event Event) error
	// PublishBatch delivers events in order. Events implementing Topical
	// go to their own topic, the rest to the default topic.
	PublishBatch(events ...Event) error

	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. A nil subscription is
	// ignored.
	Unsubscribe(Subscription) error

	// CreateTopic declares a topic. Repeat declarations are no-ops.
	CreateTopic(name string, config TopicConfig) error
	// RemoveTopic drops a topic and cancels its subscriptions.
	RemoveTopic(name string) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	GetMetrics() EventBusMetrics
	GetTopics() []TopicInfo

	// SaveState serializes the declared topics. Subscriptions are not
	// persisted.
	SaveState() ([]byte, error)
	// LoadState declares the topics saved by SaveState.
	LoadState(data []byte) error
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
	Metadata() map[string]any
}

// Topical is implemented by events that carry their own topic.
type Topical interface {
	Topic() string
}

type (
	// EventHandler is invoked per delivered event.
	EventHandler func(event Event) error
)

// Subscription is a registered handler.
type Subscription interface {
	ID() string
	Topic() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// TopicConfig describes topic-level settings.
type TopicConfig struct {
	// Description is kept with the topic for GetTopics.
	Description string
}

// EventBusObserver is notified about deliveries. Observers should return
// quickly; they run on the publishing goroutine.
type EventBusObserver interface {
	OnPublish(topic, eventType string, event Event)
	OnDelivered(topic, eventType string, handlers int, err error, durationMicros int64)
}

// EventBusMetrics are updated only while at least one observer is
// registered.
type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
	Topics            uint64
}

type TopicInfo struct {
	Name        string
	Description string
	EventTypes  int
	Subs        int
}
