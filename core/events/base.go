package events

import "time"

// Kind identifies an engine event variant.
type Kind string

// Event is the contract every engine event satisfies. Events are immutable
// once constructed; ordering between events from one producer is preserved by
// the event bus.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and creation timestamp shared by all events.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase creates the shared event base with the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
