package timeops

import (
	"context"
	"time"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// Timeout forwards every item unchanged and additionally emits a
// StreamProcessingError("timeout") whenever d elapses without any item
// (Value or Error) arriving — measured from the previous item, or from
// subscription if none has arrived yet. The window resets on any item,
// including Error items: see SPEC_FULL.md's Open Question resolution — an
// Error is evidence the source is alive, so resetting on it avoids a
// spurious second timeout immediately after a transient failure. Emitting
// a timeout does not terminate the stream; the window simply restarts.
func Timeout[T fluxion.HasTimestamp, TM fluxion.Timer](
	ctx context.Context, in <-chan fluxion.StreamItem[T], clock TM, d time.Duration,
) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])
	go func() {
		defer close(out)
		wake := clock.After(d)
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				wake = clock.After(d)
				if !send(ctx, out, item) {
					return
				}
			case <-wake:
				wake = clock.After(d)
				if !send(ctx, out, fluxion.NewError[T](fluxion.StreamProcessingError("timeout"))) {
					return
				}
			}
		}
	}()
	return out
}
