// Package realtime binds fluxion's Timer and Spawner abstractions to the Go
// runtime's own scheduler and wall clock. It is the "production" runtime: on
// every Go target (servers, WASM, embedded via TinyGo) goroutines and
// time.Timer are available, so unlike the Rust original there is only one
// real binding rather than one per async executor (tokio/smol/async-std/
// wasm/Embassy) — see SPEC_FULL.md §0.
package realtime

import (
	"time"

	fluxion "github.com/umbgtt10/fluxion-sub003"
)

// Clock implements fluxion.Timer and fluxion.Spawner using the standard
// library scheduler. It is a zero-sized type: every method call lowers
// directly to the stdlib call it wraps, so generic operators instantiated
// with Clock pay no abstraction overhead beyond the interface methods
// themselves.
type Clock struct{}

// New returns the realtime Clock. There is no configuration: it always
// reflects wall-clock time and spawns via the native `go` statement.
func New() Clock { return Clock{} }

func (Clock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func (Clock) Now() fluxion.Timestamp {
	return fluxion.TimestampFromTime(time.Now())
}

func (Clock) Spawn(fn func()) {
	go fn()
}
