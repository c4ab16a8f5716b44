package ops

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// ScanOrdered is a stateful fold: init seeds the accumulator, and f is
// applied to (accumulator, value) for every Value, emitting the updated
// accumulator stamped with the input item's own timestamp. Errors pass
// through unchanged.
func ScanOrdered[T fluxion.HasTimestamp, S any](
	ctx context.Context, in <-chan fluxion.StreamItem[T], init S, f func(S, T) S,
) <-chan fluxion.StreamItem[fluxion.Timestamped[S]] {
	out := make(chan fluxion.StreamItem[fluxion.Timestamped[S]])
	go func() {
		defer close(out)
		state := init
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if v, isVal := fluxion.AsValue[T](item); isVal {
					state = f(state, v)
					wrapped := fluxion.With(state, v.Ts())
					if !send(ctx, out, fluxion.NewValue[fluxion.Timestamped[S]](wrapped)) {
						return
					}
					continue
				}
				err, _ := fluxion.AsError[T](item)
				if !send(ctx, out, fluxion.NewError[fluxion.Timestamped[S]](err)) {
					return
				}
			}
		}
	}()
	return out
}
