// Package objpool is a generic sync.Pool-backed recycler for the small,
// short-lived bookkeeping structs Fluxion allocates on its hot paths — the
// merge engine's heap entries, one per buffered lookahead value.
package objpool

import "sync"

// Pool recycles values of type T to reduce allocation churn on the merge
// engine's hot path. Get returns a previously-Put value when the pool has
// one, exactly as it was Put (Pool does not reset it), and otherwise a value
// built by the function given to New, or the zero T if that was nil.
type Pool[T any] struct {
	p sync.Pool
}

// New creates a Pool. newFn may be nil, in which case Get returns the zero
// value of T until something has been Put.
func New[T any](newFn func() T) *Pool[T] {
	p := &Pool[T]{}
	if newFn != nil {
		p.p.New = func() any { return newFn() }
	}
	return p
}

// Get returns a recycled or freshly constructed T.
func (p *Pool[T]) Get() T {
	v := p.p.Get()
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Put returns v to the pool for reuse.
func (p *Pool[T]) Put(v T) {
	p.p.Put(v)
}
