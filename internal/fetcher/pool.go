package fetcher

import "context"

// Pool is a fixed-size checkout pool. Acquire blocks on a channel receive
// until a handle is free; the pool never grows past its initial size.
type Pool[T any] struct {
	items chan T
}

// NewPool fills a pool with size handles produced by newItem.
func NewPool[T any](size int, newItem func() T) *Pool[T] {
	if size < 1 {
		size = 1
	}
	p := &Pool[T]{items: make(chan T, size)}
	for range size {
		p.items <- newItem()
	}
	return p
}

// Acquire checks a handle out of the pool.
func (p *Pool[T]) Acquire(ctx context.Context) (T, error) {
	select {
	case item := <-p.items:
		return item, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Release returns a handle obtained from Acquire.
func (p *Pool[T]) Release(item T) {
	select {
	case p.items <- item:
	default:
		// More releases than acquires; drop the extra handle.
	}
}

// Size is the total number of handles the pool was created with.
func (p *Pool[T]) Size() int {
	return cap(p.items)
}

// Available is the number of handles currently checked in.
func (p *Pool[T]) Available() int {
	return len(p.items)
}
