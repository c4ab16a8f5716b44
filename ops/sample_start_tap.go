package ops

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// SampleRatio emits every k-th Value (the 1st, (k+1)-th, (2k+1)-th, ...).
// Errors always pass through and do not count towards the k-counter.
func SampleRatio[T fluxion.HasTimestamp](ctx context.Context, in <-chan fluxion.StreamItem[T], k int) <-chan fluxion.StreamItem[T] {
	if k <= 0 {
		k = 1
	}
	out := make(chan fluxion.StreamItem[T])
	go func() {
		defer close(out)
		count := 0
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if _, isVal := fluxion.AsValue[T](item); isVal {
					emit := count%k == 0
					count++
					if !emit {
						continue
					}
				}
				if !send(ctx, out, item) {
					return
				}
			}
		}
	}()
	return out
}

// StartWith prepends v0 as the first emitted Value, before anything from in.
func StartWith[T fluxion.HasTimestamp](ctx context.Context, in <-chan fluxion.StreamItem[T], v0 T) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])
	go func() {
		defer close(out)
		if !send(ctx, out, fluxion.NewValue(v0)) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if !send(ctx, out, item) {
					return
				}
			}
		}
	}()
	return out
}

// Tap runs f as a side effect on every Value and forwards every item
// unchanged.
func Tap[T fluxion.HasTimestamp](ctx context.Context, in <-chan fluxion.StreamItem[T], f func(T)) <-chan fluxion.StreamItem[T] {
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
					f(v)
				}
				if !send(ctx, out, item) {
					return
				}
			}
		}
	}()
	return out
}
