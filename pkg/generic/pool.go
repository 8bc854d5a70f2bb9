package generic

import "sync"

// Pool is a typed sync.Pool with an optional reset hook run on Put.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

// NewPool creates a pool producing values with generate. reset, when not
// nil, is applied to every value handed back through Put.
func NewPool[T any](generate func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
		reset: reset,
	}
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		p.reset(value)
	}
	p.pool.Put(value)
}

// Borrow runs fn with a pooled value and returns it afterwards.
func (p *Pool[T]) Borrow(fn func(T)) {
	v := p.Get()
	defer p.Put(v)
	fn(v)
}
