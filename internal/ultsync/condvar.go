package ultsync

import (
	"schedlab/internal/schederr"
	"schedlab/internal/task"
)

// CondVar is a user-level condition variable (spec §4.4). Spurious wakeups are not
// permitted — every waiter goes through the exact wait/signal/broadcast protocol below,
// not an approximation of one. Callers are still expected to wrap Wait in a predicate
// loop defensively, per spec.
type CondVar struct {
	waiters []task.ID
}

// NewCondVar returns an empty condition variable.
func NewCondVar() *CondVar {
	return &CondVar{}
}

// Wait: caller must hold m. Enqueues the current task on the CV's waiter list, releases
// m, and blocks; on resume it reacquires m before returning — a direct translation of
// original_source/ult_sync.cpp's ULTCondVar::wait, including its choice to let the woken
// waiter reacquire the mutex through the mutex's own Lock rather than the condvar
// re-deriving ownership itself (which would double-grant the mutex once Block returns).
func (c *CondVar) Wait(b Blocker, m *Mutex) error {
	current := b.Current()
	if owner, ok := m.Owner(); !ok || owner != current {
		return schederr.ErrSyncViolation
	}
	c.waiters = append(c.waiters, current)
	m.grantNext(b)
	b.Block(current)
	m.Lock(b)
	return nil
}

// Signal moves the longest-waiting task directly to READY (original_source/ult_sync.cpp's
// ULTCondVar::signal); the woken task reacquires its mutex itself via Wait's trailing
// m.Lock(b) call, so Signal needs no knowledge of mutex state.
func (c *CondVar) Signal(b Blocker) {
	c.wake(b, 1)
}

// Broadcast wakes every waiter, in FIFO order.
func (c *CondVar) Broadcast(b Blocker) {
	c.wake(b, len(c.waiters))
}

func (c *CondVar) wake(b Blocker, n int) {
	for i := 0; i < n && len(c.waiters) > 0; i++ {
		id := c.waiters[0]
		c.waiters = c.waiters[1:]
		b.Ready(id)
	}
}
