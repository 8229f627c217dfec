package ultsync

import (
	"schedlab/internal/schederr"
	"schedlab/internal/task"
)

// ForceReleaseToken gates Mutex.ForceRelease (spec §9: "a distinguished force_release
// operation gated behind a capability token held only by the preemption controller").
// Only the preempt package is expected to mint one, via NewForceReleaseToken, and only
// from within its Controller — ordinary lock/unlock call sites never need it.
type ForceReleaseToken struct{ _ byte }

// NewForceReleaseToken mints a capability token. Documented as preempt.Controller's
// exclusive use; every other caller should go through Lock/Unlock instead.
func NewForceReleaseToken() ForceReleaseToken { return ForceReleaseToken{} }

// Mutex is a binary, FIFO, user-level lock (spec §3 Lock/semaphore object, §4.4).
type Mutex struct {
	Name    string
	owner   *task.ID
	waiters []task.ID
}

// NewMutex returns a free mutex identified by name (used in graph/event reporting).
func NewMutex(name string) *Mutex {
	return &Mutex{Name: name}
}

// Owner reports the current owner, if any.
func (m *Mutex) Owner() (task.ID, bool) {
	if m.owner == nil {
		return 0, false
	}
	return *m.owner, true
}

// Waiters returns a snapshot of the FIFO wait queue.
func (m *Mutex) Waiters() []task.ID {
	return append([]task.ID(nil), m.waiters...)
}

// Lock may only be called by the RUNNING task (spec §4.4); grants immediately if free,
// otherwise enqueues and blocks. When Block returns, the caller already owns the mutex —
// whoever called Unlock/ForceRelease granted it directly before making this task READY.
func (m *Mutex) Lock(b Blocker) {
	current := b.Current()
	if m.owner == nil {
		m.owner = &current
		return
	}
	m.waiters = append(m.waiters, current)
	b.Block(current)
}

// Unlock must be called by the owner (spec §4.4); any other caller gets SyncViolation.
// Forced release by the preemption controller goes through ForceRelease instead.
func (m *Mutex) Unlock(b Blocker, caller task.ID) error {
	if m.owner == nil || *m.owner != caller {
		return schederr.ErrSyncViolation
	}
	m.grantNext(b)
	return nil
}

// ForceRelease revokes the mutex from its current owner without the owner's
// cooperation — the one deliberately unsafe operation in the system (spec §4.7),
// permitted only via a ForceReleaseToken.
func (m *Mutex) ForceRelease(b Blocker, _ ForceReleaseToken) {
	m.grantNext(b)
}

// grantNext either frees the mutex or hands it straight to the head of the FIFO wait
// queue, marking that waiter READY (spec §4.4 unlock semantics).
func (m *Mutex) grantNext(b Blocker) {
	if len(m.waiters) == 0 {
		m.owner = nil
		return
	}
	next := m.waiters[0]
	m.waiters = m.waiters[1:]
	m.owner = &next
	b.Ready(next)
}
