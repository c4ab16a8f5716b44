package merge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fluxion "github.com/umbgtt10/fluxion-sub003"
	"github.com/umbgtt10/fluxion-sub003/metrics"
)

type intItem struct {
	V  int
	At fluxion.Timestamp
}

func (i intItem) Ts() fluxion.Timestamp { return i.At }

func itemChan(items ...intItem) chan fluxion.StreamItem[intItem] {
	ch := make(chan fluxion.StreamItem[intItem], len(items))
	for _, it := range items {
		ch <- fluxion.NewValue[intItem](it)
	}
	close(ch)
	return ch
}

func drain(t *testing.T, ch <-chan fluxion.StreamItem[intItem]) []fluxion.StreamItem[intItem] {
	t.Helper()
	var out []fluxion.StreamItem[intItem]
	timeout := time.After(2 * time.Second)
	for {
		select {
		case item, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, item)
		case <-timeout:
			t.Fatal("timed out draining merged stream")
		}
	}
}

func TestOrdered_TiesBrokenBySourceIndex(t *testing.T) {
	s1 := itemChan(intItem{V: 1, At: 1}, intItem{V: 3, At: 3})
	s2 := itemChan(intItem{V: 2, At: 2}, intItem{V: 4, At: 3})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := Ordered[intItem](ctx, metrics.NewNoopProvider(), s1, s2)
	got := drain(t, out)

	require.Len(t, got, 4)
	wantTs := []fluxion.Timestamp{1, 2, 3, 3}
	wantV := []int{1, 2, 3, 4}
	for i, item := range got {
		v, ok := fluxion.AsValue[intItem](item)
		require.True(t, ok)
		require.Equal(t, wantTs[i], v.At)
		require.Equal(t, wantV[i], v.V)
	}
}

func TestOrdered_EmptySourceSet(t *testing.T) {
	ctx := context.Background()
	out := Ordered[intItem](ctx, metrics.NewNoopProvider())
	got := drain(t, out)
	require.Empty(t, got)
}

func TestOrdered_SingleSourcePassesThrough(t *testing.T) {
	ctx := context.Background()
	s := itemChan(intItem{V: 1, At: 5}, intItem{V: 2, At: 9})
	out := Ordered[intItem](ctx, metrics.NewNoopProvider(), s)
	got := drain(t, out)
	require.Len(t, got, 2)
}

func TestOrdered_ErrorsForwardedEagerly(t *testing.T) {
	s1 := make(chan fluxion.StreamItem[intItem], 3)
	s1 <- fluxion.NewValue[intItem](intItem{V: 1, At: 1})
	s1 <- fluxion.NewError[intItem](fluxion.StreamProcessingError("boom"))
	s1 <- fluxion.NewValue[intItem](intItem{V: 2, At: 2})
	close(s1)

	s2 := itemChan(intItem{V: 10, At: 10})

	ctx := context.Background()
	out := Ordered[intItem](ctx, metrics.NewNoopProvider(), s1, s2)
	got := drain(t, out)

	require.Len(t, got, 4)
	_, isErr := fluxion.AsError[intItem](got[1])
	require.True(t, isErr)
}
