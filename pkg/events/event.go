package events

import "time"

// Event is the contract every cross-service notification satisfies
// before it reaches the broker.
type Event interface {
	// EventType returns the routing code, e.g. "SPARK_READY".
	EventType() string

	// Payload returns the event body delivered to subscribers.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain value implementation of Event. Services fill it
// inline rather than defining a new type per event code.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
