// Package ring provides a fixed-capacity FIFO that overwrites its oldest
// entry when full. It is not safe for concurrent use.
package ring

type Ring[T any] struct {
	items []T
	head  int
	size  int
}

// New returns an empty ring. Capacity below 1 is raised to 1.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

func (r *Ring[T]) Len() int { return r.size }

func (r *Ring[T]) Cap() int { return len(r.items) }

// Push appends v at the tail. When the ring is full the head is dropped and
// Push reports true.
func (r *Ring[T]) Push(v T) (evicted bool) {
	capacity := len(r.items)
	if r.size < capacity {
		r.items[(r.head+r.size)%capacity] = v
		r.size++
		return false
	}
	r.items[r.head] = v
	r.head = (r.head + 1) % capacity
	return true
}

// Snapshot returns the contents oldest-first without modifying the ring.
func (r *Ring[T]) Snapshot() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}
	return out
}

// Drain returns the contents oldest-first and empties the ring.
func (r *Ring[T]) Drain() []T {
	out := r.Snapshot()
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.head, r.size = 0, 0
	return out
}
