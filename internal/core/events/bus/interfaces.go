package bus

import "time"

// EventBus is an in-process pub/sub bus.
//
// Delivery is synchronous: Publish calls handlers on the caller goroutine in
// subscription order, so a single-threaded tick sees events in a fixed order.
// Handlers subscribed to WildcardType receive every event after the typed
// handlers. Handler errors are joined and returned from Publish.
type EventBus interface {
	Publish(event Event) error
	PublishBatch(events ...Event) error

	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	Unsubscribe(Subscription) error

	GetMetrics() Metrics
}

// WildcardType subscribes a handler to every event type.
const WildcardType = "*"

// Event is an immutable message transported by the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
	Metadata() map[string]any
}

type EventHandler func(Event) error

// Subscription is a handle returned by Subscribe.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}

// Metrics are running delivery counters.
type Metrics struct {
	Published     uint64
	Delivered     uint64
	HandlerErrors uint64
	Unrouted      uint64
}
