// Package virtual provides a deterministic, manually-advanced clock used by
// this module's own tests for the time-based operators (debounce, throttle,
// delay, sample, timeout). No example repo in the retrieval pack ships a
// fake-clock dependency, so this is hand-rolled in the same spirit as the
// teacher's own local test helper (tests/fifo_local_test_impl.go): a small,
// package-private-feeling type that exists only to make concurrency
// deterministic under test, not a production runtime binding.
package virtual

import (
	"sort"
	"sync"
	"time"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// Clock is a controllable fluxion.Timer. Now() reflects a virtual instant
// that only moves forward when Advance is called; After registers a waiter
// that fires once the virtual instant reaches its deadline.
type Clock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// New creates a Clock starting at the given instant.
func New(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() fluxion.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fluxion.TimestampFromTime(c.now)
}

func (c *Clock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	deadline := c.now.Add(d)
	if !deadline.After(c.now) {
		ch <- c.now
		return ch
	}
	c.waiters = append(c.waiters, waiter{deadline: deadline, ch: ch})
	return ch
}

// Spawn runs fn on a goroutine, matching realtime.Clock's Spawner contract
// so tests can exercise share/partition/subscribe_latest against a
// deterministic Timer.
func (c *Clock) Spawn(fn func()) {
	go fn()
}

// Advance moves the virtual clock forward by d, firing every waiter whose
// deadline has been reached, in deadline order.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now

	remaining := c.waiters[:0]
	var fire []waiter
	for _, w := range c.waiters {
		if !w.deadline.After(now) {
			fire = append(fire, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
	c.mu.Unlock()

	sort.SliceStable(fire, func(i, j int) bool { return fire[i].deadline.Before(fire[j].deadline) })
	for _, w := range fire {
		w.ch <- now
	}
}
