// Package pool provides generic, type-safe object pooling for benchmatrix.
// The combination generator draws its row buffers from a pool so that
// iterating a large Cartesian product does not allocate per row, and the
// suite orchestrator returns each row once its lifecycle completes.
//
// Example usage:
//
//	rows := pool.New(
//	    func() []byte { return make([]byte, 0, 64) },
//	    func(b []byte) {},
//	)
//	buf := rows.Get()
//	defer rows.Put(buf)
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and automatic reset.
// The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		hits      int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The new function is called when the pool is empty and a new object is
// needed. The reset function, if non-nil, is called before returning an
// object to the pool.
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   new,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, creating one if the pool is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	obj := p.pool.Get().(T)
	atomic.AddInt64(&p.stats.hits, 1)
	return obj
}

// Put returns an object to the pool for reuse, resetting it first when a
// reset function was provided.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns current pool statistics: total objects created, objects
// currently checked out, and successful Get operations.
func (p *Pool[T]) Stats() (allocated, inUse, hits int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.hits)
}
