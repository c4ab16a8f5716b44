package subject

import (
	"context"

	"github.com/rs/zerolog/log"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// Share turns in into a clonable handle: a FluxionSubject fed by a spawned
// pump that drains the upstream and forwards every item to it. Each
// Subscribe on the returned subject yields an independent stream over the
// same upstream, so Share is how a cold, single-consumer stream becomes a
// hot, multi-consumer one. Like partition, share needs a Spawner, since the
// pump is an independent background task rather than something the caller
// drives inline.
func Share[T fluxion.HasTimestamp](
	ctx context.Context, in <-chan fluxion.StreamItem[T], spawner fluxion.Spawner,
) *FluxionSubject[T] {
	subj := New[T]()
	spawner.Spawn(func() {
		defer subj.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				if err := subj.Send(item); err != nil {
					log.Warn().
						Str("component", "fluxion.Share").
						Err(err).
						Msg("pump failed to deliver item to subject, reporting as a stream error instead")
					_ = subj.Send(fluxion.NewError[T](err))
				}
			}
		}
	})
	return subj
}
