package multistream

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// Partition splits in into two streams by pred: Values for which pred
// returns true go to trueOut, the rest to falseOut. Errors are delivered to
// both branches, since a failure downstream of the split is relevant to
// either side regardless of which branch would have carried the value.
// Partition requires a Spawner since running the split is an independent
// background task, not something the caller necessarily wants to drive
// inline.
func Partition[T fluxion.HasTimestamp](
	ctx context.Context, in <-chan fluxion.StreamItem[T], pred func(T) bool, spawner fluxion.Spawner,
) (trueOut, falseOut <-chan fluxion.StreamItem[T]) {
	t := make(chan fluxion.StreamItem[T])
	f := make(chan fluxion.StreamItem[T])

	spawner.Spawn(func() {
		defer close(t)
		defer close(f)
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if err, isErr := fluxion.AsError[T](item); isErr {
					if !sendBoth(ctx, t, f, fluxion.NewError[T](err)) {
						return
					}
					continue
				}
				v, _ := fluxion.AsValue[T](item)
				dest := f
				if pred(v) {
					dest = t
				}
				select {
				case dest <- item:
				case <-ctx.Done():
					return
				}
			}
		}
	})

	return t, f
}

func sendBoth[T fluxion.HasTimestamp](ctx context.Context, t, f chan<- fluxion.StreamItem[T], item fluxion.StreamItem[T]) bool {
	select {
	case t <- item:
	case <-ctx.Done():
		return false
	}
	select {
	case f <- item:
	case <-ctx.Done():
		return false
	}
	return true
}
