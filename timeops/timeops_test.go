package timeops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fluxion "github.com/umbgtt10/fluxion-sub003"
	"github.com/umbgtt10/fluxion-sub003/runtimekit/virtual"
)

type intItem struct {
	V  int
	At fluxion.Timestamp
}

func (i intItem) Ts() fluxion.Timestamp { return i.At }

// collect starts draining ch in the background immediately, so the
// operator under test never stalls on an unbuffered send while the test
// goroutine is still busy feeding input and advancing the virtual clock.
// The result slice is delivered on the returned channel once ch closes.
func collect[T fluxion.HasTimestamp](ch <-chan fluxion.StreamItem[T]) <-chan []fluxion.StreamItem[T] {
	done := make(chan []fluxion.StreamItem[T], 1)
	go func() {
		var out []fluxion.StreamItem[T]
		for item := range ch {
			out = append(out, item)
		}
		done <- out
	}()
	return done
}

func await[T fluxion.HasTimestamp](t *testing.T, done <-chan []fluxion.StreamItem[T]) []fluxion.StreamItem[T] {
	t.Helper()
	select {
	case got := <-done:
		return got
	case <-time.After(2 * time.Second):
		t.Fatal("timed out collecting stream")
		return nil
	}
}

func TestDebounce_FlushesLatestHeldValueOnSourceEnd(t *testing.T) {
	clock := virtual.New(time.Unix(0, 0))
	in := make(chan fluxion.StreamItem[intItem], 2)
	out := Debounce[intItem](context.Background(), in, clock, 10*time.Millisecond)
	done := collect(out)

	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	time.Sleep(20 * time.Millisecond)
	in <- fluxion.NewValue(intItem{V: 2, At: 2})
	time.Sleep(20 * time.Millisecond)
	close(in)

	got := await(t, done)
	require.Len(t, got, 1)
	v, ok := fluxion.AsValue[fluxion.Timestamped[intItem]](got[0])
	require.True(t, ok)
	require.Equal(t, 2, v.IntoInner().V)
}

func TestThrottle_EmitsLeadingThenTrailing(t *testing.T) {
	clock := virtual.New(time.Unix(0, 0))
	in := make(chan fluxion.StreamItem[intItem], 3)
	out := Throttle[intItem](context.Background(), in, clock, 10*time.Millisecond)
	done := collect(out)

	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	time.Sleep(20 * time.Millisecond)
	in <- fluxion.NewValue(intItem{V: 2, At: 2})
	time.Sleep(10 * time.Millisecond)
	in <- fluxion.NewValue(intItem{V: 3, At: 3})
	time.Sleep(10 * time.Millisecond)

	clock.Advance(10 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(in)

	got := await(t, done)
	require.Len(t, got, 2)
	v0, _ := fluxion.AsValue[fluxion.Timestamped[intItem]](got[0])
	require.Equal(t, 1, v0.IntoInner().V)
	v1, _ := fluxion.AsValue[fluxion.Timestamped[intItem]](got[1])
	require.Equal(t, 3, v1.IntoInner().V)
}

func TestSample_SkipsTicksWithNothingNew(t *testing.T) {
	clock := virtual.New(time.Unix(0, 0))
	in := make(chan fluxion.StreamItem[intItem], 2)
	out := Sample[intItem](context.Background(), in, clock, 10*time.Millisecond)
	done := collect(out)

	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	time.Sleep(20 * time.Millisecond)
	clock.Advance(10 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	clock.Advance(10 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(in)

	got := await(t, done)
	require.Len(t, got, 1)
	v, _ := fluxion.AsValue[intItem](got[0])
	require.Equal(t, 1, v.V)
}

func TestTimeout_FiresWithoutTerminating(t *testing.T) {
	clock := virtual.New(time.Unix(0, 0))
	in := make(chan fluxion.StreamItem[intItem], 2)
	out := Timeout[intItem](context.Background(), in, clock, 10*time.Millisecond)
	done := collect(out)

	time.Sleep(20 * time.Millisecond)
	clock.Advance(10 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	close(in)

	got := await(t, done)
	require.Len(t, got, 2)
	_, isErr := fluxion.AsError[intItem](got[0])
	require.True(t, isErr)
	v, ok := fluxion.AsValue[intItem](got[1])
	require.True(t, ok)
	require.Equal(t, 1, v.V)
}

func TestDelay_PreservesOrder(t *testing.T) {
	clock := virtual.New(time.Unix(0, 0))
	in := make(chan fluxion.StreamItem[intItem], 3)
	out := Delay[intItem](context.Background(), in, clock, 10*time.Millisecond)
	done := collect(out)

	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	in <- fluxion.NewValue(intItem{V: 2, At: 2})
	in <- fluxion.NewValue(intItem{V: 3, At: 3})
	close(in)
	time.Sleep(20 * time.Millisecond)

	clock.Advance(10 * time.Millisecond)

	got := await(t, done)
	require.Len(t, got, 3)
	for i, want := range []int{1, 2, 3} {
		v, _ := fluxion.AsValue[intItem](got[i])
		require.Equal(t, want, v.V)
	}
}
