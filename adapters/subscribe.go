// Package adapters implements Fluxion's terminal execution adapters (spec
// §4.6): Subscribe and SubscribeLatest. Both drain a stream of
// StreamItem[T] to completion, invoking user-supplied callbacks rather than
// producing another stream — they are where a Fluxion pipeline ends.
package adapters

import (
	"context"

	"github.com/rs/zerolog/log"

	fluxion "github.com/umbgtt10/fluxion-sub003"
	"github.com/umbgtt10/fluxion-sub003/metrics"
)

func logHandlerPanic(r any) {
	log.Error().Interface("panic", r).Msg("fluxion adapter handler panicked")
}

func resolveProvider(provider []metrics.Provider) metrics.Provider {
	if len(provider) > 0 && provider[0] != nil {
		return provider[0]
	}
	return metrics.NewNoopProvider()
}

// Subscribe drains in sequentially: for every Value it runs onNext to
// completion before requesting the next item, and for every Error it runs
// onError. At most one handler is ever in flight and strict source order is
// preserved. Subscribe blocks the calling goroutine until in closes or ctx
// is cancelled — run it via a Spawner for background draining. An optional
// trailing metrics.Provider records handled-value and handled-error counts;
// omit it to discard them.
func Subscribe[T fluxion.HasTimestamp](
	ctx context.Context,
	in <-chan fluxion.StreamItem[T],
	onNext func(value T, token CancelToken),
	onError func(err *fluxion.FluxionError),
	provider ...metrics.Provider,
) {
	m := resolveProvider(provider)
	values := m.Counter("fluxion_adapter_values_total")
	errs := m.Counter("fluxion_adapter_errors_total")

	token := newCancelToken(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-in:
			if !ok {
				return
			}
			if err, isErr := fluxion.AsError[T](item); isErr {
				errs.Add(1)
				if onError != nil {
					runGuarded(func() { onError(err) })
				}
				continue
			}
			v, _ := fluxion.AsValue[T](item)
			values.Add(1)
			if onNext != nil {
				runGuarded(func() { onNext(v, token) })
			}
		}
	}
}
