// Package ports defines the interfaces between the skin services and their adapters.
package ports

import (
	"github.com/tejashwikalptaru/skinamp/internal/domain"
)

// EventBus delivers skin lifecycle events to any number of consumers.
// The skin manager publishes; render consumers, the watcher and logging subscribe.
// Publishers never know who is listening.
//
// Thread-safety: implementations must allow Publish, Subscribe and Unsubscribe
// from multiple goroutines at once.
//
// Example usage:
//
//	// In the skin manager: publish after the current skin was swapped
//	bus.Publish(domain.NewSkinChangedEvent(skin, previousKey, seq, elapsed))
//
//	// In a render consumer: redraw with the new sprites
//	subID := bus.Subscribe(domain.EventSkinChanged, func(event domain.Event) {
//	    e := event.(domain.SkinChangedEvent)
//	    view.Redraw(e.Key)
//	})
//
//	// Later: Unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish sends an event to every subscriber of its type and to every
	// wildcard subscriber. Handlers must return quickly.
	Publish(event domain.Event)

	// Subscribe registers a handler for one event type and returns its ID.
	// Registering the same handler twice results in two calls per event.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a handler. Unknown IDs are ignored.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives every event.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers reports whether anyone listens to the event type.
	HasSubscribers(eventType domain.EventType) bool

	// Close drops all subscriptions. Publishing after Close is a no-op.
	Close() error
}
