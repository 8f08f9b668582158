package monitor

// ring is a fixed-capacity circular buffer with FIFO eviction. It is
// not synchronized; owners guard access with their own lock under the
// single-writer discipline the scheduler enforces.
type ring[T any] struct {
	items []T
	head  int
	count int
}

func newRing[T any](capacity int) *ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &ring[T]{items: make([]T, capacity)}
}

// push appends an item, evicting the oldest when full
func (r *ring[T]) push(item T) {
	r.items[r.head] = item
	r.head = (r.head + 1) % len(r.items)
	if r.count < len(r.items) {
		r.count++
	}
}

func (r *ring[T]) len() int {
	return r.count
}

func (r *ring[T]) cap() int {
	return len(r.items)
}

// values returns the contents in order from oldest to newest
func (r *ring[T]) values() []T {
	out := make([]T, r.count)
	start := 0
	if r.count == len(r.items) {
		start = r.head
	}
	for i := 0; i < r.count; i++ {
		out[i] = r.items[(start+i)%len(r.items)]
	}
	return out
}

// clear drops all items without releasing the backing array
func (r *ring[T]) clear() {
	r.head = 0
	r.count = 0
}
