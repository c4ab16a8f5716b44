package fluxion

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Mutex is a poisonable critical-section guard. Plain sync.Mutex has no
// poisoning concept, but spec requires every lock acquisition to surface a
// recovered poison as a single LockError (§3, §7): "every operator that
// acquires a lock must convert a poisoned/failed acquisition into LockError
// and emit it... Poisoned mutexes are recovered into usable access and
// logged as LockError once; subsequent successful locks do not re-emit."
//
// Mutex reproduces that contract on top of sync.Mutex: if the critical
// section panics, the panic is recovered, the mutex is marked poisoned, and
// the next WithLock call skips its section, returns a LockError describing
// its context, and clears the poison. A zerolog warning is emitted the first
// time a poisoned Mutex is recovered; later recoveries and subsequent
// successful locks stay silent.
type Mutex struct {
	mu       sync.Mutex
	poisoned bool
	warned   bool
	context  string
}

// WithLock runs fn under the lock. If the mutex is currently poisoned, fn is
// not run at all and a *FluxionError of KindLockError is returned
// immediately (the operator is expected to emit it as StreamItem.Error and
// continue, never panic). If fn itself panics, the panic is recovered, the
// mutex is marked poisoned for subsequent calls, and a *FluxionError is
// returned for the current call.
func (m *Mutex) WithLock(context string, fn func()) *FluxionError {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.poisoned {
		return m.recoverPoison(context)
	}

	var panicked any
	func() {
		defer func() {
			panicked = recover()
		}()
		fn()
	}()

	if panicked != nil {
		m.poisoned = true
		m.context = context
		return LockError(context)
	}

	return nil
}

// recoverPoison implements the "recovered into usable access, logged once"
// half of the contract: the first call after poisoning logs a warning and
// clears the flag so the *next* WithLock call runs fn normally; this call
// itself still reports the poison as a LockError, since the critical
// section was skipped for it.
func (m *Mutex) recoverPoison(context string) *FluxionError {
	if !m.warned {
		m.warned = true
		log.Warn().
			Str("component", "fluxion.Mutex").
			Str("context", m.context).
			Msg("recovered poisoned lock, resuming normal operation")
	}
	m.poisoned = false
	return LockError(context)
}
