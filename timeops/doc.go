// Package timeops implements Fluxion's time-based operators: debounce,
// throttle, delay, sample, and timeout. Every operator is parameterised by a
// Timer type argument — TM fluxion.Timer — rather than taking an interface
// value, so each instantiation monomorphises to a specialised function for
// its concrete clock instead of paying an interface-dispatch tax on every
// tick. The sole suspension point for time in every operator is TM.After.
package timeops

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

func send[T fluxion.HasTimestamp](ctx context.Context, out chan<- fluxion.StreamItem[T], item fluxion.StreamItem[T]) bool {
	select {
	case out <- item:
		return true
	case <-ctx.Done():
		return false
	}
}
