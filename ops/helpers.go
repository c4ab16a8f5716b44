// Package ops implements Fluxion's single-stream operators: map, filter,
// scan, distinct, take/skip, take_while_with, window_by_count, sample_ratio,
// start_with, tap, and on_error. Each collapses to one goroutine per
// operator instance plus whatever local variables its state needs, since
// goroutines are never moved by the scheduler the way pinned Rust futures
// can be.
package ops

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// send delivers item to out unless ctx is done first, reporting whether the
// send succeeded.
func send[T fluxion.HasTimestamp](ctx context.Context, out chan<- fluxion.StreamItem[T], item fluxion.StreamItem[T]) bool {
	select {
	case out <- item:
		return true
	case <-ctx.Done():
		return false
	}
}
