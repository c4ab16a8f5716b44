// Package merge implements Fluxion's k-way ordered merge engine: given N
// input streams of StreamItem[T] where T carries a timestamp, it
// produces one stream whose Value items are delivered in non-decreasing
// timestamp order, ties broken by source index. Error items are forwarded
// eagerly and never participate in ordering.
package merge

import (
	"container/heap"
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
	"github.com/umbgtt10/fluxion-sub003/internal/objpool"
	"github.com/umbgtt10/fluxion-sub003/metrics"
)

// Ordered merges sources into a single timestamp-ordered stream, recording
// throughput and lock-failure counts on provider (pass metrics.NewNoopProvider()
// to discard them).
//
// Edge cases: zero sources yields an immediately completed stream; a single
// source passes straight through with no buffering; a source that never
// produces again blocks progress by design
// (temporal merge needs the next timestamp from every active source — there
// are no watermarks in this core).
func Ordered[T fluxion.HasTimestamp](ctx context.Context, provider metrics.Provider, sources ...<-chan fluxion.StreamItem[T]) <-chan fluxion.StreamItem[T] {
	if provider == nil {
		provider = metrics.NewNoopProvider()
	}
	out := make(chan fluxion.StreamItem[T])

	switch len(sources) {
	case 0:
		close(out)
		return out
	case 1:
		go passthrough(ctx, sources[0], out, provider)
		return out
	}

	events := make(chan sourceEvent[T], len(sources))
	feeds := make([]*feed[T], len(sources))
	for i, s := range sources {
		feeds[i] = newFeed(i, s, events)
		go feeds[i].run(ctx)
	}

	go runCoordinator(ctx, feeds, events, out, provider)
	return out
}

func passthrough[T fluxion.HasTimestamp](ctx context.Context, in <-chan fluxion.StreamItem[T], out chan<- fluxion.StreamItem[T], provider metrics.Provider) {
	defer close(out)
	itemsOut := provider.Counter("fluxion_merge_items_total")
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- item:
				itemsOut.Add(1)
			case <-ctx.Done():
				return
			}
		}
	}
}

// runCoordinator owns the heap and is the only goroutine that touches it, so
// the fluxion.Mutex guard is not load-bearing for this single-goroutine
// design; it keeps heap access uniform with every other shared-state
// operator (a recovered panic still emits LockError and continues) and
// future-proofs against a multi-producer heap owner.
func runCoordinator[T fluxion.HasTimestamp](
	ctx context.Context,
	feeds []*feed[T],
	events <-chan sourceEvent[T],
	out chan<- fluxion.StreamItem[T],
	provider metrics.Provider,
) {
	defer close(out)

	n := len(feeds)
	h := &itemHeap[T]{}
	heap.Init(h)
	entries := objpool.New(func() *heapEntry[T] { return &heapEntry[T]{} })

	exhausted := make([]bool, n)
	pending := make([]bool, n)
	var guard fluxion.Mutex

	itemsOut := provider.Counter("fluxion_merge_items_total")
	lockErrors := provider.Counter("fluxion_merge_lock_errors_total")
	heapDepth := provider.UpDownCounter("fluxion_merge_heap_depth")

	send := func(item fluxion.StreamItem[T]) bool {
		select {
		case out <- item:
			itemsOut.Add(1)
			return true
		case <-ctx.Done():
			return false
		}
	}

	remaining := n
	for _, f := range feeds {
		pending[f.idx] = true
		f.request()
	}

	headsReady := func() bool {
		for i := 0; i < n; i++ {
			if !exhausted[i] && pending[i] {
				return false
			}
		}
		return true
	}

	emitRoot := func() bool {
		var entry *heapEntry[T]
		var popErr *fluxion.FluxionError
		popErr = guard.WithLock("ordered-merge heap pop", func() {
			entry = heap.Pop(h).(*heapEntry[T])
		})
		if popErr != nil {
			lockErrors.Add(1)
			return send(fluxion.ErrorItem[T]{Err: popErr})
		}
		heapDepth.Add(-1)
		val, idx := entry.val, entry.idx
		*entry = heapEntry[T]{}
		entries.Put(entry)
		if !send(fluxion.NewValue[T](val)) {
			return false
		}
		if !exhausted[idx] {
			pending[idx] = true
			feeds[idx].request()
		}
		return true
	}

	for remaining > 0 {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			pending[ev.idx] = false
			if !ev.ok {
				exhausted[ev.idx] = true
				remaining--
				break
			}
			if errVal, isErr := fluxion.AsError[T](ev.item); isErr {
				if !send(fluxion.ErrorItem[T]{Err: errVal}) {
					return
				}
				pending[ev.idx] = true
				feeds[ev.idx].request()
				break
			}
			v, _ := fluxion.AsValue[T](ev.item)
			entry := entries.Get()
			entry.ts, entry.idx, entry.val = v.Ts(), ev.idx, v
			pushErr := guard.WithLock("ordered-merge heap push", func() {
				heap.Push(h, entry)
			})
			if pushErr != nil {
				lockErrors.Add(1)
				if !send(fluxion.ErrorItem[T]{Err: pushErr}) {
					return
				}
				break
			}
			heapDepth.Add(1)
		}

		for headsReady() && h.Len() > 0 {
			if !emitRoot() {
				return
			}
		}
	}

	// All sources exhausted: drain any remaining buffered entries in order.
	for h.Len() > 0 {
		if !emitRoot() {
			return
		}
	}
}
