package adapters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fluxion "github.com/umbgtt10/fluxion-sub003"
	"github.com/umbgtt10/fluxion-sub003/runtimekit/realtime"
)

type intItem struct {
	V  int
	At fluxion.Timestamp
}

func (i intItem) Ts() fluxion.Timestamp { return i.At }

func TestSubscribe_PreservesOrderAndInvokesErrorCallback(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 3)
	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	in <- fluxion.NewError[intItem](fluxion.StreamProcessingError("boom"))
	in <- fluxion.NewValue(intItem{V: 2, At: 2})
	close(in)

	var mu sync.Mutex
	var values []int
	var errs []string

	Subscribe[intItem](context.Background(), in,
		func(v intItem, _ CancelToken) {
			mu.Lock()
			values = append(values, v.V)
			mu.Unlock()
		},
		func(err *fluxion.FluxionError) {
			mu.Lock()
			errs = append(errs, err.Context)
			mu.Unlock()
		},
	)

	require.Equal(t, []int{1, 2}, values)
	require.Equal(t, []string{"boom"}, errs)
}

func TestSubscribeLatest_SupersedesQueuedValue(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem])
	var mu sync.Mutex
	var processed []int

	handlerStarted := make(chan struct{}, 4)
	release := make(chan struct{}) // holds handler(1) open until every later value has been consumed
	onNext := func(v intItem, token CancelToken) {
		handlerStarted <- struct{}{}
		if v.V == 1 {
			<-release
		} else {
			select {
			case <-token.Done():
			case <-time.After(100 * time.Millisecond):
			}
		}
		mu.Lock()
		processed = append(processed, v.V)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go SubscribeLatest[intItem](ctx, in, onNext, nil, realtime.New())

	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	<-handlerStarted // handler for 1 is now running

	// Each unbuffered send returns only once the adapter has received the
	// value, and the adapter is sequential, so by the time the send of 4
	// returns, 2 and 3 have already been superseded — all while handler(1)
	// is still blocked on release.
	in <- fluxion.NewValue(intItem{V: 2, At: 2})
	in <- fluxion.NewValue(intItem{V: 3, At: 3})
	in <- fluxion.NewValue(intItem{V: 4, At: 4})
	close(release)

	time.Sleep(350 * time.Millisecond) // let handler(1) wind down and handler(4) run to completion

	mu.Lock()
	got := append([]int(nil), processed...)
	mu.Unlock()

	require.Equal(t, []int{1, 4}, got)
}
