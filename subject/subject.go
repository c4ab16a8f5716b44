// Package subject implements Fluxion's hot, multi-subscriber broadcast
// point: FluxionSubject and the share operator. Unlike every other
// component in this module, a subject is push-based from the producer's
// side too — Send is called directly by application code rather than being
// driven by an upstream channel — so it is the one place state is mutated
// from arbitrary caller goroutines rather than a single coordinating one.
package subject

import (
	"github.com/rs/zerolog/log"
	channels "gopkg.in/eapache/channels.v1"

	fluxion "github.com/umbgtt10/fluxion-sub003"
	"github.com/umbgtt10/fluxion-sub003/metrics"
)

// subscription is one registered receiver: an unbounded per-subscriber
// queue (so Send never blocks on a slow consumer) plus a closed flag. Every
// field here is only ever touched while the owning FluxionSubject's guard is
// held — see subject.go's Send/Subscribe/drain — so stop() can never race a
// concurrent send() onto an already-closed channel.
type subscription[T fluxion.HasTimestamp] struct {
	ch     *channels.InfiniteChannel
	closed bool
}

// send must be called with the owning subject's guard held.
func (s *subscription[T]) send(item fluxion.StreamItem[T]) bool {
	if s.closed {
		return false
	}
	s.ch.In() <- item
	return true
}

// stop must be called with the owning subject's guard held.
func (s *subscription[T]) stop() {
	if !s.closed {
		s.closed = true
		s.ch.Close()
	}
}

// FluxionSubject broadcasts every Send call to all currently registered
// subscribers. It is safe for concurrent use from any number of producer
// and subscriber goroutines.
type FluxionSubject[T fluxion.HasTimestamp] struct {
	guard     fluxion.Mutex
	subs      []*subscription[T]
	closed    bool
	lifecycle *closeCoordinator
	metrics   metrics.Provider
}

// New creates an empty, open FluxionSubject. An optional metrics.Provider
// records subscriber counts and send/lock-error counters; with none given,
// metrics are discarded via metrics.NoopProvider.
func New[T fluxion.HasTimestamp](provider ...metrics.Provider) *FluxionSubject[T] {
	s := &FluxionSubject[T]{metrics: metrics.NewNoopProvider()}
	if len(provider) > 0 && provider[0] != nil {
		s.metrics = provider[0]
	}
	s.lifecycle = newCloseCoordinator(s.drain)
	return s
}

// Send locks subject state and forwards item to every live subscriber,
// pruning any that have unsubscribed. A poisoned lock surfaces as
// LockError and the send is dropped for this call only. The prune-on-the-
// same-critical-section-as-the-broadcast discipline (rather than pruning
// lazily via an atomic flag checked outside the lock) is what keeps a
// concurrent Unsubscribe from ever closing a subscriber's channel while
// this loop is mid-send to it.
func (s *FluxionSubject[T]) Send(item fluxion.StreamItem[T]) *fluxion.FluxionError {
	err := s.guard.WithLock("subject send", func() {
		if s.closed {
			return
		}
		live := s.subs[:0]
		for _, sub := range s.subs {
			if !sub.send(item) {
				continue
			}
			live = append(live, sub)
		}
		s.subs = live
	})
	if err != nil {
		s.metrics.Counter("fluxion_subject_lock_errors_total").Add(1)
		return err
	}
	s.metrics.Counter("fluxion_subject_sends_total").Add(1)
	return nil
}

// Error broadcasts err to every live subscriber as a StreamItem.Error. It
// does not close the subject: errors are in-band items here like everywhere
// else in the module, and a subject that has reported an error keeps
// accepting sends and subscriptions.
func (s *FluxionSubject[T]) Error(err *fluxion.FluxionError) *fluxion.FluxionError {
	return s.Send(fluxion.NewError[T](err))
}

// Subscribe registers a new subscriber and returns its stream along with an
// unsubscribe function. If the subject is already closed, the returned
// stream is immediately completed and unsubscribe is a no-op. Unsubscribe
// stops and prunes the subscription under the same guard Send uses, so a
// subscriber that unsubscribes mid-broadcast never races a concurrent Send.
func (s *FluxionSubject[T]) Subscribe() (<-chan fluxion.StreamItem[T], func()) {
	out := make(chan fluxion.StreamItem[T])
	var sub *subscription[T]

	lockErr := s.guard.WithLock("subject subscribe", func() {
		if s.closed {
			return
		}
		sub = &subscription[T]{ch: channels.NewInfiniteChannel()}
		s.subs = append(s.subs, sub)
	})

	if lockErr != nil || sub == nil {
		close(out)
		return out, func() {}
	}

	s.metrics.UpDownCounter("fluxion_subject_subscribers").Add(1)

	go func() {
		defer close(out)
		for raw := range sub.ch.Out() {
			out <- raw.(fluxion.StreamItem[T])
		}
	}()

	unsubscribed := false
	return out, func() {
		pruned := false
		_ = s.guard.WithLock("subject unsubscribe", func() {
			if unsubscribed {
				return
			}
			unsubscribed = true
			pruned = true
			sub.stop()
			s.removeLocked(sub)
		})
		if pruned {
			s.metrics.UpDownCounter("fluxion_subject_subscribers").Add(-1)
		}
	}
}

// removeLocked drops target from s.subs. Callers must hold s.guard.
func (s *FluxionSubject[T]) removeLocked(target *subscription[T]) {
	for i, sub := range s.subs {
		if sub == target {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Close marks the subject closed and stops every live subscriber. Safe to
// call more than once or concurrently; only the first call has any effect.
func (s *FluxionSubject[T]) Close() {
	s.lifecycle.Close()
}

func (s *FluxionSubject[T]) drain() {
	var n int
	_ = s.guard.WithLock("subject close", func() {
		s.closed = true
		for _, sub := range s.subs {
			sub.stop()
		}
		n = len(s.subs)
		s.subs = nil
	})
	if n > 0 {
		s.metrics.UpDownCounter("fluxion_subject_subscribers").Add(-int64(n))
	}
	log.Debug().Str("component", "fluxion.FluxionSubject").Int("subscribers", n).Msg("subject closed")
}
