package ops

import (
	"context"
	"sync"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// TakeWhileWith emits items from in for as long as pred holds over the
// current source item and the latest Value seen on s2; the first time pred
// returns false the stream terminates (the failing item is not emitted).
// pred receives nil for the s2 argument until s2 has produced its first
// Value. s2's own Error items are not part of this operator's output —
// only in's are; s2 is treated as a side-channel (unlike
// multistream.WithLatestFrom, which forwards its secondary stream's errors).
func TakeWhileWith[T, T2 fluxion.HasTimestamp](
	ctx context.Context,
	in <-chan fluxion.StreamItem[T],
	s2 <-chan fluxion.StreamItem[T2],
	pred func(source T, latestS2 *T2) bool,
) <-chan fluxion.StreamItem[T] {
	out := make(chan fluxion.StreamItem[T])

	var mu sync.Mutex
	var latest T2
	haveLatest := false

	ctx2, cancel2 := context.WithCancel(ctx)
	go func() {
		defer cancel2()
		for {
			select {
			case <-ctx2.Done():
				return
			case item, ok := <-s2:
				if !ok {
					return
				}
				if v, isVal := fluxion.AsValue[T2](item); isVal {
					mu.Lock()
					latest = v
					haveLatest = true
					mu.Unlock()
				}
			}
		}
	}()

	go func() {
		defer close(out)
		defer cancel2()
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				v, isVal := fluxion.AsValue[T](item)
				if !isVal {
					if !send(ctx, out, item) {
						return
					}
					continue
				}

				mu.Lock()
				var s2ptr *T2
				if haveLatest {
					l := latest
					s2ptr = &l
				}
				mu.Unlock()

				if !pred(v, s2ptr) {
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
