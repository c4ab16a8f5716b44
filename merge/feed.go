package merge

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// sourceEvent is a demand-driven completion notification from one source
// feed: an index, a payload, and a flag distinguishing "has a value" from
// "this source is exhausted".
type sourceEvent[T fluxion.HasTimestamp] struct {
	idx  int
	item fluxion.StreamItem[T]
	ok   bool
}

// feed pulls from one input stream on demand: it only reads the next item
// after receiving a signal on want, keeping at most one lookahead value
// buffered per source without needing the coordinator to poll every source
// on every iteration.
type feed[T fluxion.HasTimestamp] struct {
	idx  int
	in   <-chan fluxion.StreamItem[T]
	want chan struct{}
	out  chan<- sourceEvent[T]
}

func newFeed[T fluxion.HasTimestamp](idx int, in <-chan fluxion.StreamItem[T], out chan<- sourceEvent[T]) *feed[T] {
	return &feed[T]{idx: idx, in: in, want: make(chan struct{}, 1), out: out}
}

func (f *feed[T]) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.want:
			select {
			case <-ctx.Done():
				return
			case item, ok := <-f.in:
				ev := sourceEvent[T]{idx: f.idx, ok: ok}
				if ok {
					ev.item = item
				}
				select {
				case f.out <- ev:
				case <-ctx.Done():
					return
				}
				if !ok {
					return
				}
			}
		}
	}
}

// request signals the feed to pull its next item. It never blocks: want has
// capacity 1 and the coordinator only requests once per outstanding slot.
func (f *feed[T]) request() {
	select {
	case f.want <- struct{}{}:
	default:
	}
}
