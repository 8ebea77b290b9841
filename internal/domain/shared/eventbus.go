package shared

import "context"

// EventHandler reacts to events delivered by an EventBus
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the accepted event types; empty means every type
	EventTypes() []string
}

// EventPublisher hands events to whatever delivers them
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations.
// Subscribe with no eventTypes falls back to handler.EventTypes().
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is an in-process publisher/subscriber with a lifecycle
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
