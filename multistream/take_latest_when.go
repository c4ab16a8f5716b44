package multistream

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// TakeLatestWhen stores the latest Value seen on source; each Value on
// trigger causes the stored source value, if any, to be re-emitted — a
// sample operator driven by another stream instead of a clock. Source
// errors are forwarded immediately; trigger errors are ignored, since
// trigger only carries timing information.
func TakeLatestWhen[T, Trig fluxion.HasTimestamp](
	ctx context.Context,
	source <-chan fluxion.StreamItem[T],
	trigger <-chan fluxion.StreamItem[Trig],
) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])

	go func() {
		defer close(out)

		var guard fluxion.Mutex
		var latest T
		haveLatest := false

		ctx2, cancel2 := context.WithCancel(ctx)
		defer cancel2()
		go func() {
			for {
				select {
				case <-ctx2.Done():
					return
				case item, ok := <-source:
					if !ok {
						return
					}
					if v, isVal := fluxion.AsValue[T](item); isVal {
						_ = guard.WithLock("take-latest-when update source", func() {
							latest = v
							haveLatest = true
						})
						continue
					}
					if err, isErr := fluxion.AsError[T](item); isErr {
						if !send(ctx2, out, fluxion.NewError[T](err)) {
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
			case item, ok := <-trigger:
				if !ok {
					return
				}
				if _, isVal := fluxion.AsValue[Trig](item); !isVal {
					continue
				}

				var emit T
				var ready bool
				lockErr := guard.WithLock("take-latest-when read", func() {
					ready = haveLatest
					emit = latest
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
