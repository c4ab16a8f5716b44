package timeops

import (
	"context"
	"time"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// Throttle emits the first Value of a window immediately and suppresses
// further values until d has elapsed since that emission. By default (see
// SPEC_FULL.md's Open Question resolution), a value suppressed during the
// window is re-emitted once the window boundary fires (trailing edge);
// pass WithLeadingOnly to discard it instead. Errors pass straight through
// and do not participate in the window.
func Throttle[T fluxion.HasTimestamp, TM fluxion.Timer](
	ctx context.Context, in <-chan fluxion.StreamItem[T], clock TM, d time.Duration, opts ...ThrottleOption,
) <-chan fluxion.StreamItem[fluxion.Timestamped[T]] {
	cfg := defaultThrottleConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	out := make(chan fluxion.StreamItem[fluxion.Timestamped[T]])
	go func() {
		defer close(out)

		var windowEnd <-chan time.Time
		var trailing T
		haveTrailing := false

		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					if cfg.trailingEdge && haveTrailing {
						wrapped := fluxion.With(trailing, clock.Now())
						send(ctx, out, fluxion.NewValue[fluxion.Timestamped[T]](wrapped))
					}
					return
				}
				if err, isErr := fluxion.AsError[T](item); isErr {
					if !send(ctx, out, fluxion.NewError[fluxion.Timestamped[T]](err)) {
						return
					}
					continue
				}
				v, _ := fluxion.AsValue[T](item)
				if windowEnd == nil {
					wrapped := fluxion.With(v, v.Ts())
					if !send(ctx, out, fluxion.NewValue[fluxion.Timestamped[T]](wrapped)) {
						return
					}
					windowEnd = clock.After(d)
					continue
				}
				if cfg.trailingEdge {
					trailing = v
					haveTrailing = true
				}
			case <-windowEnd:
				if cfg.trailingEdge && haveTrailing {
					wrapped := fluxion.With(trailing, clock.Now())
					if !send(ctx, out, fluxion.NewValue[fluxion.Timestamped[T]](wrapped)) {
						return
					}
					haveTrailing = false
					windowEnd = clock.After(d)
				} else {
					windowEnd = nil
				}
			}
		}
	}()
	return out
}
