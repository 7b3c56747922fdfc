package events

import "time"

// Kind names an engine event within a receiver-facing namespace, e.g.
// "tool_call.denied". The full vocabulary is listed in the package doc.
type Kind string

// Event is implemented by every engine event. Consumers dispatch on the
// concrete type or on Kind.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and creation time shared by every event. Concrete
// events embed it and add their payload fields.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase stamps a new event with its kind and the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
