package sequence

// Ring is a bounded FIFO of values. Pushing into a full ring evicts the
// oldest element. Values are stored by copy.
type Ring[T any] struct {
	buf   []T
	head  int // index of the oldest element
	size  int
	limit int
}

// NewRing creates a ring holding at most limit elements. A non-positive
// limit yields a ring that keeps nothing.
func NewRing[T any](limit int) *Ring[T] {
	if limit < 0 {
		limit = 0
	}
	return &Ring[T]{buf: make([]T, limit), limit: limit}
}

// Push appends v and returns the evicted element, if any.
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	if r.limit == 0 {
		return v, true
	}
	if r.size < r.limit {
		r.buf[(r.head+r.size)%r.limit] = v
		r.size++
		return evicted, false
	}
	evicted = r.buf[r.head]
	r.buf[r.head] = v
	r.head = (r.head + 1) % r.limit
	return evicted, true
}

func (r *Ring[T]) Len() int { return r.size }

func (r *Ring[T]) Cap() int { return r.limit }

// Slice copies the contents, oldest first.
func (r *Ring[T]) Slice() []T {
	out := make([]T, r.size)
	for i := range out {
		out[i] = r.buf[(r.head+i)%r.limit]
	}
	return out
}

// Clear drops every element.
func (r *Ring[T]) Clear() {
	clear(r.buf)
	r.head, r.size = 0, 0
}
