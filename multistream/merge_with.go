package multistream

import (
	"context"
	"sync"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// MergedStream is the seeded-state builder behind merge_with: Seed creates
// one shared state cell, and each MergeWith call attaches another source
// that mutates it. Every attached source shares the same state object, and
// every mutation — regardless of which source triggered it — produces one
// timestamped snapshot on the combined output stream.
type MergedStream[S any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	out    chan fluxion.StreamItem[fluxion.Timestamped[S]]
	wg     sync.WaitGroup
	once   sync.Once

	guard fluxion.Mutex
	state S
}

// Seed starts a new MergedStream with the given initial state.
func Seed[S any](ctx context.Context, state S) *MergedStream[S] {
	ctx2, cancel := context.WithCancel(ctx)
	return &MergedStream[S]{
		ctx:    ctx2,
		cancel: cancel,
		out:    make(chan fluxion.StreamItem[fluxion.Timestamped[S]]),
		state:  state,
	}
}

// MergeWith attaches src to ms: every Value consumed from src runs f under
// ms's shared lock, mutating state in place, and the resulting state is
// emitted as a timestamped snapshot carrying src's item's timestamp. Errors
// from src are forwarded onto the combined output. MergeWith is a
// standalone function, not a method, since Go methods cannot introduce a
// type parameter beyond the receiver's own.
func MergeWith[S any, T fluxion.HasTimestamp](
	ms *MergedStream[S], src <-chan fluxion.StreamItem[T], f func(state *S, v T),
) *MergedStream[S] {
	ms.wg.Add(1)
	go func() {
		defer ms.wg.Done()
		for {
			select {
			case <-ms.ctx.Done():
				return
			case item, ok := <-src:
				if !ok {
					return
				}
				if err, isErr := fluxion.AsError[T](item); isErr {
					if !send(ms.ctx, ms.out, fluxion.NewError[fluxion.Timestamped[S]](err)) {
						return
					}
					continue
				}
				v, _ := fluxion.AsValue[T](item)
				ts := v.Ts()

				var snapshot S
				lockErr := ms.guard.WithLock("merge-with mutate", func() {
					f(&ms.state, v)
					snapshot = ms.state
				})
				if lockErr != nil {
					if !send(ms.ctx, ms.out, fluxion.NewError[fluxion.Timestamped[S]](lockErr)) {
						return
					}
					continue
				}
				wrapped := fluxion.With(snapshot, ts)
				if !send(ms.ctx, ms.out, fluxion.NewValue[fluxion.Timestamped[S]](wrapped)) {
					return
				}
			}
		}
	}()
	return ms
}

// Stream returns the combined output channel, closed once every attached
// source has been exhausted or the seeding context is cancelled. Call it
// only after every MergeWith attachment has been made.
func (ms *MergedStream[S]) Stream() <-chan fluxion.StreamItem[fluxion.Timestamped[S]] {
	go func() {
		ms.wg.Wait()
		ms.once.Do(func() { close(ms.out) })
	}()
	return ms.out
}
