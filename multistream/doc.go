// Package multistream implements Fluxion's multi-stream operators (spec
// §4.3): combine_latest, with_latest_from, combine_with_previous, emit_when,
// take_latest_when, the merge_with seeded-state builder, and partition.
//
// The stateful operators here keep their cross-stream state in a cell
// protected by a fluxion.Mutex and update it in a classify-then-mutate
// critical section. User-supplied predicates and combiners (pred, combine)
// run only after the lock is released. MergeWith's f is the exception: it is
// the mutation of the shared state itself and runs while the lock is held.
package multistream

import (
	"context"
	"sync"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// taggedItem pairs an item with the index of the source it came from,
// mirroring the merge package's sourceEvent but without the demand-driven
// lookahead gate: multistream operators consume whatever arrives as it
// arrives, with no reordering contract to uphold.
type taggedItem[T fluxion.HasTimestamp] struct {
	idx  int
	item fluxion.StreamItem[T]
}

// fanIn starts one forwarding goroutine per source and multiplexes their
// items onto a single tagged channel, closing it once every source has
// closed or ctx is done.
func fanIn[T fluxion.HasTimestamp](ctx context.Context, sources []<-chan fluxion.StreamItem[T]) <-chan taggedItem[T] {
	out := make(chan taggedItem[T])
	var wg sync.WaitGroup
	wg.Add(len(sources))
	for i, s := range sources {
		go func(idx int, in <-chan fluxion.StreamItem[T]) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-in:
					if !ok {
						return
					}
					select {
					case out <- taggedItem[T]{idx: idx, item: item}:
					case <-ctx.Done():
						return
					}
				}
			}
		}(i, s)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
