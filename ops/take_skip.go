package ops

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// TakeItems emits at most n Values and then terminates the stream (without
// draining the remainder of in). Errors seen before the limit is reached are
// forwarded.
func TakeItems[T fluxion.HasTimestamp](ctx context.Context, in <-chan fluxion.StreamItem[T], n int) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])
	go func() {
		defer close(out)
		if n <= 0 {
			return
		}
		taken := 0
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if !send(ctx, out, item) {
					return
				}
				if _, isVal := fluxion.AsValue[T](item); isVal {
					taken++
					if taken >= n {
						return
					}
				}
			}
		}
	}()
	return out
}

// SkipItems drops the first n Values and forwards everything after. Errors
// are always forwarded, even during the skip phase.
func SkipItems[T fluxion.HasTimestamp](ctx context.Context, in <-chan fluxion.StreamItem[T], n int) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])
	go func() {
		defer close(out)
		skipped := 0
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if _, isVal := fluxion.AsValue[T](item); isVal {
					if skipped < n {
						skipped++
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
