package multistream

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// EmitWhen forwards a source Value only while pred(sourceValue, latestS2)
// reports true; latestS2 is nil until s2 produces its first Value. Source
// errors always pass through; s2 is a side-channel and its own errors are
// not forwarded (unlike WithLatestFrom, which forwards errors from both of
// its streams).
func EmitWhen[T, T2 fluxion.HasTimestamp](
	ctx context.Context,
	source <-chan fluxion.StreamItem[T],
	s2 <-chan fluxion.StreamItem[T2],
	pred func(sourceValue T, latestS2 *T2) bool,
) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])

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
						_ = guard.WithLock("emit-when update s2", func() {
							latest = v
							haveLatest = true
						})
					}
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-source:
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

				var s2ptr *T2
				lockErr := guard.WithLock("emit-when read", func() {
					if haveLatest {
						l := latest
						s2ptr = &l
					}
				})
				if lockErr != nil {
					if !send(ctx, out, fluxion.NewError[T](lockErr)) {
						return
					}
					continue
				}

				if !pred(v, s2ptr) {
					continue
				}
				if !send(ctx, out, item) {
					return
				}
			}
		}
	}()

	return out
}
