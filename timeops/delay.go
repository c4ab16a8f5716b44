package timeops

import (
	"context"
	"time"

	channels "gopkg.in/eapache/channels.v1"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// delayEntry tags every item with its own deadline channel, started the
// instant the item was read off in.
type delayEntry[T fluxion.HasTimestamp] struct {
	item fluxion.StreamItem[T]
	wake <-chan time.Time
}

// Delay delays every item — Values and Errors alike — by d, preserving
// arrival order. Each item gets its own independent wake timer the moment
// it is read, so overlapping delays run concurrently; order is preserved
// because the timers are started and drained strictly in arrival order and
// all share the same duration, so completion order never inverts arrival
// order for a monotone clock. The unbounded backlog between the reader and
// the emitter uses channels.InfiniteChannel, the same non-blocking
// per-consumer queue primitive this module uses for the broadcast subject.
func Delay[T fluxion.HasTimestamp, TM fluxion.Timer](
	ctx context.Context, in <-chan fluxion.StreamItem[T], clock TM, d time.Duration,
) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])
	queue := channels.NewInfiniteChannel()

	go func() {
		defer queue.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				select {
				case queue.In() <- delayEntry[T]{item: item, wake: clock.After(d)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		defer close(out)
		for raw := range queue.Out() {
			entry := raw.(delayEntry[T])
			select {
			case <-entry.wake:
			case <-ctx.Done():
				return
			}
			if !send(ctx, out, entry.item) {
				return
			}
		}
	}()

	return out
}
