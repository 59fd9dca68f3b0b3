// Package bus carries orchestration events from the pipeline stages that
// produce them to whoever wants to observe them.
//
// A [Bus] owns a single bounded channel. Writers hold a [Producer]; producers
// are cheap to clone and hand to concurrent stages, and the underlying channel
// closes once the last producer is closed, so consumers can range over
// [Bus.Events] without any extra signalling.
package bus

import (
	"sync"
	"sync/atomic"

	"github.com/fridayvoice/friday-core/core/events"
)

// DefaultCapacity is the event channel buffer used by [New].
const DefaultCapacity = 32

// Bus is a bounded, in-order event channel shared by every pipeline stage.
type Bus struct {
	events chan events.Event
}

// Option configures a bus at construction time.
type Option func(*options)

type options struct {
	capacity int
}

// WithCapacity overrides the event channel buffer size.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}

// New creates a bus together with its first producer.
func New(opts ...Option) (*Bus, *Producer) {
	o := options{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bus{events: make(chan events.Event, o.capacity)}
	shared := &producerGroup{bus: b}
	shared.refs.Store(1)
	return b, &Producer{group: shared}
}

// Events exposes the consumer end of the bus. The channel closes once every
// producer has been closed; events emitted before the last close are still
// delivered.
func (b *Bus) Events() <-chan events.Event {
	return b.events
}

// producerGroup tracks how many live producers still reference the bus.
type producerGroup struct {
	bus  *Bus
	refs atomic.Int32
}

// Producer is a handle that writes events onto the bus. Each handle must be
// closed exactly once; Clone hands out additional handles for detached
// goroutines.
type Producer struct {
	group     *producerGroup
	closeOnce sync.Once
}

// Emit places an event on the bus, blocking while the channel is full so
// slow consumers exert backpressure instead of losing events.
//
// Emit must not be called after Close; clone a producer for any goroutine
// that can outlive the current one.
func (p *Producer) Emit(event events.Event) {
	p.group.bus.events <- event
}

// Clone returns a new independent producer handle for the same bus.
func (p *Producer) Clone() *Producer {
	p.group.refs.Add(1)
	return &Producer{group: p.group}
}

// Close releases this handle. Closing the last live handle closes the event
// channel. Close is idempotent.
func (p *Producer) Close() {
	p.closeOnce.Do(func() {
		if p.group.refs.Add(-1) == 0 {
			close(p.group.bus.events)
		}
	})
}
