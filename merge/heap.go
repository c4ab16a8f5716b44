package merge

import fluxion "github.com/umbgtt10/fluxion-sub003"

// heapEntry is one buffered lookahead value, keyed for the priority queue by
// (timestamp, source index) so ties break by source index ascending.
type heapEntry[T fluxion.HasTimestamp] struct {
	ts  fluxion.Timestamp
	idx int
	val T
}

// itemHeap implements container/heap.Interface over *heapEntry. Entries are
// recycled through an objpool.Pool rather than allocated fresh on every
// push: the heap is on the merge engine's hot path (one push and one pop per
// emitted value), and the entries are small, short-lived, and uniformly
// shaped, exactly the allocation pattern objpool.Pool targets. It is the
// merge engine's priority queue: at most one buffered lookahead value per
// active source sits in this heap at any time.
type itemHeap[T fluxion.HasTimestamp] []*heapEntry[T]

func (h itemHeap[T]) Len() int { return len(h) }

func (h itemHeap[T]) Less(i, j int) bool {
	if h[i].ts != h[j].ts {
		return h[i].ts < h[j].ts
	}
	return h[i].idx < h[j].idx
}

func (h itemHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap[T]) Push(x any) {
	*h = append(*h, x.(*heapEntry[T]))
}

func (h *itemHeap[T]) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return entry
}
