package timeops

import (
	"context"
	"time"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// Debounce holds the latest source Value and resets a sleep of d on every
// new one; the held value is emitted, stamped with clock.Now(), only once
// the sleep fires without being interrupted by a fresher value. A value
// still pending when the source ends is flushed before the output closes.
// Errors pass through immediately and do not reset or consume the pending
// value. The output is wrapped in Timestamped[T] since the emission
// timestamp is the clock's own time, not T's original timestamp.
func Debounce[T fluxion.HasTimestamp, TM fluxion.Timer](
	ctx context.Context, in <-chan fluxion.StreamItem[T], clock TM, d time.Duration,
) <-chan fluxion.StreamItem[fluxion.Timestamped[T]] {
	out := make(chan fluxion.StreamItem[fluxion.Timestamped[T]])
	go func() {
		defer close(out)

		var pending T
		havePending := false
		var wake <-chan time.Time

		flush := func() bool {
			if !havePending {
				return true
			}
			wrapped := fluxion.With(pending, clock.Now())
			havePending = false
			wake = nil
			return send(ctx, out, fluxion.NewValue[fluxion.Timestamped[T]](wrapped))
		}

		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					flush()
					return
				}
				if err, isErr := fluxion.AsError[T](item); isErr {
					if !send(ctx, out, fluxion.NewError[fluxion.Timestamped[T]](err)) {
						return
					}
					continue
				}
				v, _ := fluxion.AsValue[T](item)
				pending = v
				havePending = true
				wake = clock.After(d)
			case <-wake:
				if !flush() {
					return
				}
			}
		}
	}()
	return out
}
