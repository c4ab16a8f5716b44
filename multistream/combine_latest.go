package multistream

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// CombineLatest keeps the latest Value seen on each of sources. It emits a
// snapshot — one value per source, in source order — whenever every slot has
// been written at least once and pred reports true for the resulting
// snapshot. The emitted timestamp is the maximum of the contributing
// timestamps. Errors from any source are forwarded immediately, tagged with
// the combined output type.
func CombineLatest[T fluxion.HasTimestamp](
	ctx context.Context, sources []<-chan fluxion.StreamItem[T], pred func(snapshot []T) bool,
) <-chan fluxion.StreamItem[fluxion.Timestamped[[]T]] {
	out := make(chan fluxion.StreamItem[fluxion.Timestamped[[]T]])
	if len(sources) == 0 {
		close(out)
		return out
	}

	go func() {
		defer close(out)

		n := len(sources)
		latest := make([]T, n)
		have := make([]bool, n)
		var maxTs fluxion.Timestamp
		var guard fluxion.Mutex

		items := fanIn(ctx, sources)
		for {
			select {
			case <-ctx.Done():
				return
			case ti, ok := <-items:
				if !ok {
					return
				}
				if err, isErr := fluxion.AsError[T](ti.item); isErr {
					if !send(ctx, out, fluxion.NewError[fluxion.Timestamped[[]T]](err)) {
						return
					}
					continue
				}
				v, _ := fluxion.AsValue[T](ti.item)

				var snapshot []T
				allReady := false
				ts := v.Ts()
				lockErr := guard.WithLock("combine-latest update", func() {
					latest[ti.idx] = v
					have[ti.idx] = true
					if ts > maxTs {
						maxTs = ts
					}
					allReady = allHave(have)
					if allReady {
						snapshot = append([]T(nil), latest...)
					}
				})
				if lockErr != nil {
					if !send(ctx, out, fluxion.NewError[fluxion.Timestamped[[]T]](lockErr)) {
						return
					}
					continue
				}
				if !allReady {
					continue
				}
				if !pred(snapshot) {
					continue
				}
				wrapped := fluxion.With(snapshot, maxTs)
				if !send(ctx, out, fluxion.NewValue[fluxion.Timestamped[[]T]](wrapped)) {
					return
				}
			}
		}
	}()
	return out
}

func allHave(have []bool) bool {
	for _, h := range have {
		if !h {
			return false
		}
	}
	return true
}

func send[T fluxion.HasTimestamp](ctx context.Context, out chan<- fluxion.StreamItem[T], item fluxion.StreamItem[T]) bool {
	select {
	case out <- item:
		return true
	case <-ctx.Done():
		return false
	}
}
