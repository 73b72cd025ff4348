package shared

import "context"

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish publishes one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler processes domain events
type EventHandler interface {
	// Handle processes a single domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in.
	// An empty slice means the handler receives all events.
	EventTypes() []string
}

// EventBus combines publishing with handler subscription
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for specific event types
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a handler
	Unsubscribe(handler EventHandler)
}
