package adapters

import (
	"context"

	fluxion "github.com/umbgtt10/fluxion-sub003"
	"github.com/umbgtt10/fluxion-sub003/metrics"
)

// SubscribeLatest drains in keeping at most one handler in flight. A value
// that arrives while a handler is running supersedes any value already
// queued behind it (intermediate values are discarded) and cancels the
// running handler's child token; the handler is expected to observe that
// token and wind down, though nothing forces it to stop early. Once the
// running handler returns, the latest queued value, if any, starts the next
// handler. SubscribeLatest requires a Spawner, since handlers run
// concurrently with the draining loop rather than inline.
//
// SubscribeLatest returns once in closes or ctx is cancelled. If in closes
// while a value is still queued, it first waits for the running handler to
// return and starts the queued value's handler; it never waits for the last
// started handler to finish, matching the adapter's fire-and-forget
// relationship with its spawned handlers. An optional
// trailing metrics.Provider records handled-value, handled-error, and
// superseded-value counts; omit it to discard them.
func SubscribeLatest[T fluxion.HasTimestamp](
	ctx context.Context,
	in <-chan fluxion.StreamItem[T],
	onNext func(value T, token CancelToken),
	onError func(err *fluxion.FluxionError),
	spawner fluxion.Spawner,
	provider ...metrics.Provider,
) {
	m := resolveProvider(provider)
	values := m.Counter("fluxion_adapter_values_total")
	errs := m.Counter("fluxion_adapter_errors_total")
	superseded := m.Counter("fluxion_adapter_superseded_total")

	var guard fluxion.Mutex
	var queued *T
	running := false
	var runningCancel context.CancelFunc
	handlerDone := make(chan struct{}, 1)

	startHandler := func(v T) {
		childCtx, cancel := context.WithCancel(ctx)
		runningCancel = cancel
		running = true
		values.Add(1)
		spawner.Spawn(func() {
			if onNext != nil {
				runGuarded(func() { onNext(v, newCancelToken(childCtx)) })
			}
			cancel()
			handlerDone <- struct{}{}
		})
	}

	for {
		select {
		case <-ctx.Done():
			if runningCancel != nil {
				runningCancel()
			}
			return
		case item, ok := <-in:
			if !ok {
				hasQueued := false
				_ = guard.WithLock("subscribe-latest close", func() { hasQueued = queued != nil })
				if !hasQueued {
					return
				}
				in = nil // stop receiving; the handlerDone case starts the queued value
				continue
			}
			if err, isErr := fluxion.AsError[T](item); isErr {
				errs.Add(1)
				if onError != nil {
					runGuarded(func() { onError(err) })
				}
				continue
			}
			v, _ := fluxion.AsValue[T](item)
			lockErr := guard.WithLock("subscribe-latest supersede", func() {
				if running {
					if runningCancel != nil {
						runningCancel()
					}
					if queued != nil {
						superseded.Add(1)
					}
					vv := v
					queued = &vv
					return
				}
				startHandler(v)
			})
			if lockErr != nil && onError != nil {
				runGuarded(func() { onError(lockErr) })
			}
		case <-handlerDone:
			_ = guard.WithLock("subscribe-latest dequeue", func() {
				running = false
				next := queued
				queued = nil
				if next != nil {
					startHandler(*next)
				}
			})
			if in == nil {
				return
			}
		}
	}
}
