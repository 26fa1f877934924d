// Package journal defines the audit journal consumed by external indexers.
package journal

import (
	"context"

	"github.com/netgovern/netgovern/internal/govern/event"
)

// Recorder persists the ordered domain events of one engine mutation.
type Recorder interface {
	// Append durably records the events in order. Append is called after
	// the engine state change has committed; a failure here must not be
	// interpreted as rolling the change back.
	Append(ctx context.Context, events []event.Event) error
}

// Memory is an in-memory Recorder for tests and ephemeral runs.
type Memory struct {
	events []event.Event
}

// NewMemory creates an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{}
}

// Append implements Recorder.
func (m *Memory) Append(_ context.Context, events []event.Event) error {
	for _, evt := range events {
		evt.Seq = uint64(len(m.events) + 1)
		m.events = append(m.events, evt)
	}
	return nil
}

// Events returns the recorded events in append order.
func (m *Memory) Events() []event.Event {
	out := make([]event.Event, len(m.events))
	copy(out, m.events)
	return out
}
