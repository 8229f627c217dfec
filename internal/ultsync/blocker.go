// Package ultsync implements the user-level mutex and condition variable (C4, spec
// §4.4), translated from original_source/ult_sync.h/ult_sync.cpp's ULTMutex/ULTCondVar
// into Go: FIFO waiter queues, block/unblock integrated with the scheduler via the
// Blocker interface rather than direct swapcontext calls.
package ultsync

import "schedlab/internal/task"

// Blocker is the scheduler-side hook sync primitives need: which ULT is presently
// running, how to suspend it, and how to make a waiter READY again. The policy
// package's ULT engine implements this, keeping ultsync itself free of any dependency
// on the ready structures or dispatch loop (C3/C5).
type Blocker interface {
	Current() task.ID
	Block(id task.ID)
	Ready(id task.ID)
}
