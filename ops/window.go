package ops

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// WindowByCount collects Values into fixed-size windows of n, emitting each
// full window as one item stamped with its last member's timestamp. A
// trailing partial window, if any, is flushed when the source ends.
// Errors pass through immediately, without being buffered into a window.
func WindowByCount[T fluxion.HasTimestamp](
	ctx context.Context, in <-chan fluxion.StreamItem[T], n int,
) <-chan fluxion.StreamItem[fluxion.Timestamped[[]T]] {
	out := make(chan fluxion.StreamItem[fluxion.Timestamped[[]T]])
	go func() {
		defer close(out)
		var window []T

		flush := func() bool {
			if len(window) == 0 {
				return true
			}
			wrapped := fluxion.With(window, window[len(window)-1].Ts())
			window = nil
			return send(ctx, out, fluxion.NewValue[fluxion.Timestamped[[]T]](wrapped))
		}

		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					flush()
					return
				}
				v, isVal := fluxion.AsValue[T](item)
				if !isVal {
					err, _ := fluxion.AsError[T](item)
					if !send(ctx, out, fluxion.NewError[fluxion.Timestamped[[]T]](err)) {
						return
					}
					continue
				}
				window = append(window, v)
				if len(window) >= n {
					if !flush() {
						return
					}
				}
			}
		}
	}()
	return out
}
