package ops

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// MapOrdered applies f to every Value, preserving its timestamp, and
// forwards every Error unchanged.
func MapOrdered[T, R fluxion.HasTimestamp](
	ctx context.Context, in <-chan fluxion.StreamItem[T], f func(T) R,
) <-chan fluxion.StreamItem[R] {
	out := make(chan fluxion.StreamItem[R])
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
				if v, isVal := fluxion.AsValue[T](item); isVal {
					if !send(ctx, out, fluxion.NewValue[R](f(v))) {
						return
					}
					continue
				}
				err, _ := fluxion.AsError[T](item)
				if !send(ctx, out, fluxion.NewError[R](err)) {
					return
				}
			}
		}
	}()
	return out
}

// FilterOrdered forwards a Value only when p reports true, drops it
// otherwise, and always forwards Error items.
func FilterOrdered[T fluxion.HasTimestamp](
	ctx context.Context, in <-chan fluxion.StreamItem[T], p func(T) bool,
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
				if v, isVal := fluxion.AsValue[T](item); isVal {
					if !p(v) {
						continue
					}
					if !send(ctx, out, item) {
						return
					}
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
