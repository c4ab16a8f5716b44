package ops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

type intItem struct {
	V  int
	At fluxion.Timestamp
}

func (i intItem) Ts() fluxion.Timestamp { return i.At }

func drain[T fluxion.HasTimestamp](t *testing.T, ch <-chan fluxion.StreamItem[T]) []fluxion.StreamItem[T] {
	t.Helper()
	var out []fluxion.StreamItem[T]
	timeout := time.After(2 * time.Second)
	for {
		select {
		case item, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, item)
		case <-timeout:
			t.Fatal("timed out draining stream")
		}
	}
}

func TestMapOrdered_ErrorPassthrough(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 3)
	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	in <- fluxion.NewError[intItem](fluxion.LockError("boom"))
	in <- fluxion.NewValue(intItem{V: 2, At: 2})
	close(in)

	ctx := context.Background()
	out := MapOrdered[intItem, intItem](ctx, in, func(v intItem) intItem {
		return intItem{V: v.V + 1, At: v.At}
	})

	got := drain(t, out)
	require.Len(t, got, 3)

	v0, ok := fluxion.AsValue[intItem](got[0])
	require.True(t, ok)
	require.Equal(t, 2, v0.V)

	_, isErr := fluxion.AsError[intItem](got[1])
	require.True(t, isErr)

	v2, ok := fluxion.AsValue[intItem](got[2])
	require.True(t, ok)
	require.Equal(t, 3, v2.V)
}

func TestFilterOrdered_DropsButForwardsErrors(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 3)
	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	in <- fluxion.NewError[intItem](fluxion.StreamProcessingError("x"))
	in <- fluxion.NewValue(intItem{V: 2, At: 2})
	close(in)

	out := FilterOrdered[intItem](context.Background(), in, func(v intItem) bool { return v.V%2 == 0 })
	got := drain(t, out)
	require.Len(t, got, 2)
	_, isErr := fluxion.AsError[intItem](got[0])
	require.True(t, isErr)
	v, ok := fluxion.AsValue[intItem](got[1])
	require.True(t, ok)
	require.Equal(t, 2, v.V)
}

func TestWindowByCount_FlushesPartialTrailingWindow(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 5)
	for i := 1; i <= 5; i++ {
		in <- fluxion.NewValue(intItem{V: i, At: fluxion.Timestamp(i)})
	}
	close(in)

	out := WindowByCount[intItem](context.Background(), in, 2)
	got := drain(t, out)
	require.Len(t, got, 3) // [1,2] [3,4] [5]

	last, ok := fluxion.AsValue[fluxion.Timestamped[[]intItem]](got[2])
	require.True(t, ok)
	require.Len(t, last.IntoInner(), 1)
}

func TestDistinctUntilChangedBy_SkipsRepeats(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 4)
	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	in <- fluxion.NewValue(intItem{V: 1, At: 2})
	in <- fluxion.NewValue(intItem{V: 2, At: 3})
	in <- fluxion.NewValue(intItem{V: 2, At: 4})
	close(in)

	out := DistinctUntilChangedBy[intItem, int](context.Background(), in, func(v intItem) int { return v.V })
	got := drain(t, out)
	require.Len(t, got, 2)
}

func TestTakeItems_TerminatesAfterN(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 5)
	for i := 1; i <= 5; i++ {
		in <- fluxion.NewValue(intItem{V: i, At: fluxion.Timestamp(i)})
	}
	close(in)

	out := TakeItems[intItem](context.Background(), in, 3)
	got := drain(t, out)
	require.Len(t, got, 3)
}

func TestSkipItems_DropsFirstNButForwardsErrors(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 4)
	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	in <- fluxion.NewError[intItem](fluxion.StreamProcessingError("x"))
	in <- fluxion.NewValue(intItem{V: 2, At: 2})
	in <- fluxion.NewValue(intItem{V: 3, At: 3})
	close(in)

	out := SkipItems[intItem](context.Background(), in, 2)
	got := drain(t, out)
	require.Len(t, got, 2) // the error (always forwarded) plus value 3 (values 1,2 skipped)

	_, isErr := fluxion.AsError[intItem](got[0])
	require.True(t, isErr)
	v, ok := fluxion.AsValue[intItem](got[1])
	require.True(t, ok)
	require.Equal(t, 3, v.V)
}

func TestTakeWhileWith_StopsOnceSecondaryMismatches(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 4)
	s2 := make(chan fluxion.StreamItem[intItem], 1)

	out := TakeWhileWith[intItem, intItem](context.Background(), in, s2, func(source intItem, latest *intItem) bool {
		return latest != nil && source.V < latest.V
	})

	s2 <- fluxion.NewValue(intItem{V: 10, At: 1})
	close(s2)
	time.Sleep(20 * time.Millisecond) // let the background s2-latching goroutine observe the value first

	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	in <- fluxion.NewValue(intItem{V: 2, At: 2})
	in <- fluxion.NewValue(intItem{V: 20, At: 3}) // fails pred, terminates the stream
	in <- fluxion.NewValue(intItem{V: 3, At: 4})
	close(in)
	got := drain(t, out)
	require.Len(t, got, 2)
	v1, _ := fluxion.AsValue[intItem](got[1])
	require.Equal(t, 2, v1.V)
}

func TestSampleRatio_EmitsEveryKth(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 6)
	for i := 1; i <= 6; i++ {
		in <- fluxion.NewValue(intItem{V: i, At: fluxion.Timestamp(i)})
	}
	close(in)

	out := SampleRatio[intItem](context.Background(), in, 3)
	got := drain(t, out)
	require.Len(t, got, 2)
	v0, _ := fluxion.AsValue[intItem](got[0])
	v1, _ := fluxion.AsValue[intItem](got[1])
	require.Equal(t, 1, v0.V)
	require.Equal(t, 4, v1.V)
}

func TestStartWith_PrependsInitialValue(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 1)
	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	close(in)

	out := StartWith[intItem](context.Background(), in, intItem{V: 0, At: 0})
	got := drain(t, out)
	require.Len(t, got, 2)
	v0, _ := fluxion.AsValue[intItem](got[0])
	v1, _ := fluxion.AsValue[intItem](got[1])
	require.Equal(t, 0, v0.V)
	require.Equal(t, 1, v1.V)
}

func TestTap_RunsSideEffectAndForwardsUnchanged(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 2)
	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	in <- fluxion.NewValue(intItem{V: 2, At: 2})
	close(in)

	var seen []int
	out := Tap[intItem](context.Background(), in, func(v intItem) { seen = append(seen, v.V) })
	got := drain(t, out)
	require.Len(t, got, 2)
	require.Equal(t, []int{1, 2}, seen)
}

func TestOnError_ConsumedErrorIsDropped(t *testing.T) {
	in := make(chan fluxion.StreamItem[intItem], 3)
	in <- fluxion.NewValue(intItem{V: 1, At: 1})
	in <- fluxion.NewError[intItem](fluxion.LockError("consume-me"))
	in <- fluxion.NewError[intItem](fluxion.StreamProcessingError("pass-me"))
	close(in)

	out := OnError[intItem](context.Background(), in, func(err *fluxion.FluxionError) bool {
		return err.Kind == fluxion.KindLockError
	})
	got := drain(t, out)
	require.Len(t, got, 2) // value 1, plus the StreamProcessingError that wasn't consumed
	_, isErr := fluxion.AsError[intItem](got[1])
	require.True(t, isErr)
}
