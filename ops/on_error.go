package ops

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// OnError runs h for every Error item. h returning true consumes (drops) the
// error; false forwards it downstream unchanged. Values pass through
// untouched. Chaining multiple OnError calls composes a handler-of-
// responsibility chain, since each only sees the errors the previous stage
// declined to consume.
func OnError[T fluxion.HasTimestamp](
	ctx context.Context, in <-chan fluxion.StreamItem[T], h func(*fluxion.FluxionError) bool,
) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if err, isErr := fluxion.AsError[T](item); isErr {
					if h(err) {
						continue
					}
				}
				if !send(ctx, out, item) {
					return
				}
			}
		}
	}()
	return out
}
