package multistream

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// Pair carries a value alongside the value that preceded it, as produced by
// CombineWithPrevious. Its timestamp is the current value's.
type Pair[T fluxion.HasTimestamp] struct {
	Previous T
	Current  T
}

func (p Pair[T]) Ts() fluxion.Timestamp { return p.Current.Ts() }

// CombineWithPrevious emits (previous, current) pairs for every Value after
// the first; the first Value produces no output, since there is no previous
// value to pair it with yet. Errors pass through unchanged.
func CombineWithPrevious[T fluxion.HasTimestamp](
	ctx context.Context, in <-chan fluxion.StreamItem[T],
) <-chan fluxion.StreamItem[Pair[T]] {
	out := make(chan fluxion.StreamItem[Pair[T]])
	go func() {
		defer close(out)
		var prev T
		havePrev := false
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if err, isErr := fluxion.AsError[T](item); isErr {
					if !send(ctx, out, fluxion.NewError[Pair[T]](err)) {
						return
					}
					continue
				}
				v, _ := fluxion.AsValue[T](item)
				if !havePrev {
					prev = v
					havePrev = true
					continue
				}
				pair := Pair[T]{Previous: prev, Current: v}
				prev = v
				if !send(ctx, out, fluxion.NewValue[Pair[T]](pair)) {
					return
				}
			}
		}
	}()
	return out
}
