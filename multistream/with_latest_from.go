package multistream

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// WithLatestFrom is CombineLatest's asymmetric sibling: it emits only on
// primary source events, pairing each with the latest Value observed on s2
// via combine. Before s2 has produced its first Value, primary events are
// held back (not emitted) — combine only ever sees a real secondary value,
// never a zero value masquerading as one. Errors from either stream are
// forwarded.
func WithLatestFrom[T, T2, R fluxion.HasTimestamp](
	ctx context.Context,
	primary <-chan fluxion.StreamItem[T],
	s2 <-chan fluxion.StreamItem[T2],
	combine func(source T, latestS2 T2) R,
) <-chan fluxion.StreamItem[R] {
	out := make(chan fluxion.StreamItem[R])

	go func() {
		defer close(out)

		var guard fluxion.Mutex
		var latest T2
		haveLatest := false

		ctx2, cancel2 := context.WithCancel(ctx)
		defer cancel2()
		go func() {
			for {
				select {
				case <-ctx2.Done():
					return
				case item, ok := <-s2:
					if !ok {
						return
					}
					if v, isVal := fluxion.AsValue[T2](item); isVal {
						_ = guard.WithLock("with-latest-from update s2", func() {
							latest = v
							haveLatest = true
						})
					} else if err, isErr := fluxion.AsError[T2](item); isErr {
						if !send(ctx2, out, fluxion.NewError[R](err)) {
							return
						}
					}
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-primary:
				if !ok {
					return
				}
				if err, isErr := fluxion.AsError[T](item); isErr {
					if !send(ctx, out, fluxion.NewError[R](err)) {
						return
					}
					continue
				}
				v, _ := fluxion.AsValue[T](item)

				var ready bool
				var l T2
				lockErr := guard.WithLock("with-latest-from read", func() {
					ready = haveLatest
					l = latest
				})
				if lockErr != nil {
					if !send(ctx, out, fluxion.NewError[R](lockErr)) {
						return
					}
					continue
				}
				if !ready {
					continue
				}
				if !send(ctx, out, fluxion.NewValue[R](combine(v, l))) {
					return
				}
			}
		}
	}()

	return out
}
