package usecase

import (
	"sync"

	"portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/events/core/ring"
)

const BufferCapacity = 100

// EventBuffer bridges captured events between flush cycles. It is not a
// system of record: when full, the oldest event is dropped.
type EventBuffer struct {
	mu   sync.Mutex
	ring *ring.Ring[domain.Event]
}

func NewEventBuffer(capacity int) *EventBuffer {
	if capacity <= 0 {
		capacity = BufferCapacity
	}
	return &EventBuffer{ring: ring.New[domain.Event](capacity)}
}

func (b *EventBuffer) Append(e domain.Event) {
	b.mu.Lock()
	b.ring.Push(e)
	b.mu.Unlock()
}

// DrainAll returns every buffered event oldest-first and leaves the buffer
// empty in the same critical section.
func (b *EventBuffer) DrainAll() []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.Drain()
}

func (b *EventBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.Len()
}
