package infrastructure

import (
	"cogbot/events"
)

// NoopEventPublisher is used when NATS is not configured
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}

// Mirror does nothing
func (n *NoopEventPublisher) Mirror(bus *events.Bus) {}
