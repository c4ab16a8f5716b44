package timeops

import (
	"context"
	"time"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// Sample emits the latest Value seen since the previous tick, once every d;
// a tick with nothing new since the last one produces no output. Errors
// pass through immediately, outside the sampling cadence. The shared
// "latest since last tick" cell is guarded by a fluxion.Mutex per the
// multi-stream operators' poisoned-lock contract, even though sample has a
// single reader and writer goroutine here — consistent with the rest of the
// module rather than a special case.
func Sample[T fluxion.HasTimestamp, TM fluxion.Timer](
	ctx context.Context, in <-chan fluxion.StreamItem[T], clock TM, d time.Duration,
) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])
	go func() {
		defer close(out)

		var guard fluxion.Mutex
		var latest T
		have := false
		tick := clock.After(d)

		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if err, isErr := fluxion.AsError[T](item); isErr {
					if !send(ctx, out, fluxion.NewError[T](err)) {
						return
					}
					continue
				}
				v, _ := fluxion.AsValue[T](item)
				lockErr := guard.WithLock("sample update", func() {
					latest = v
					have = true
				})
				if lockErr != nil {
					if !send(ctx, out, fluxion.NewError[T](lockErr)) {
						return
					}
				}
			case <-tick:
				tick = clock.After(d)
				var emit T
				var ready bool
				lockErr := guard.WithLock("sample read", func() {
					ready = have
					emit = latest
					have = false
				})
				if lockErr != nil {
					if !send(ctx, out, fluxion.NewError[T](lockErr)) {
						return
					}
					continue
				}
				if !ready {
					continue
				}
				if !send(ctx, out, fluxion.NewValue[T](emit)) {
					return
				}
			}
		}
	}()
	return out
}
