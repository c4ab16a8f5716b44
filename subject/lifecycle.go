package subject

import "sync"

// closeCoordinator guarantees a subject's shutdown sequence — flip the
// closed flag, drain subscribers — runs exactly once no matter how many
// callers invoke Close concurrently. A broadcast subject's teardown needs
// no inflight task waits and no separate forwarder goroutines to join, just
// one state flip and one drain step behind a sync.Once.
type closeCoordinator struct {
	once  sync.Once
	drain func()
}

func newCloseCoordinator(drain func()) *closeCoordinator {
	return &closeCoordinator{drain: drain}
}

// Close runs drain exactly once across the coordinator's lifetime.
func (c *closeCoordinator) Close() {
	c.once.Do(func() {
		if c.drain != nil {
			c.drain()
		}
	})
}
