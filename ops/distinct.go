package ops

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// DistinctUntilChangedBy emits a Value only when key(value) differs from
// the key of the last-emitted value; the first Value is always emitted.
// Errors always pass through.
func DistinctUntilChangedBy[T fluxion.HasTimestamp, K comparable](
	ctx context.Context, in <-chan fluxion.StreamItem[T], key func(T) K,
) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])
	go func() {
		defer close(out)
		var lastKey K
		haveLast := false
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				v, isVal := fluxion.AsValue[T](item)
				if !isVal {
					if !send(ctx, out, item) {
						return
					}
					continue
				}
				k := key(v)
				if haveLast && k == lastKey {
					continue
				}
				haveLast = true
				lastKey = k
				if !send(ctx, out, item) {
					return
				}
			}
		}
	}()
	return out
}

// distinctConstraint is the comparable half of DistinctUntilChanged's type
// constraint (HasTimestamp is the other half), needed only by that
// identity-key convenience wrapper.
type distinctConstraint interface {
	comparable
}

// DistinctUntilChanged is DistinctUntilChangedBy with the identity key,
// for payload types that are directly comparable.
func DistinctUntilChanged[T interface {
	fluxion.HasTimestamp
	distinctConstraint
}](ctx context.Context, in <-chan fluxion.StreamItem[T]) <-chan fluxion.StreamItem[T] {
	return DistinctUntilChangedBy[T, T](ctx, in, func(v T) T { return v })
}
