// Package ultrt implements the context runtime (C2, spec §4.2): spawn/switch/yield/destroy
// over a stackful-coroutine abstraction. Go exposes no userland stack-switching primitive,
// so the backend here emulates one with a goroutine paired to two handshake channels — the
// same pattern other_examples/blastbao-go-coopsched__coopsched.go uses to park a goroutine
// until the scheduler resumes it (task.waitAndBlock / t.wakeCh), generalized to a full
// spawn/switch/yield/destroy capability and to an explicit Runtime value replacing the
// process-globals the original C++ threadedscheduler.cpp/ult_context.h relied on
// (spec §9 redesign note).
package ultrt

import (
	"sync"
	"sync/atomic"

	"schedlab/internal/schederr"
	"schedlab/internal/task"
)

// Reason explains why control returned from a Handle to the scheduler.
type Reason int

const (
	ReasonQuantum Reason = iota
	ReasonBlocked
	ReasonFinished
)

func (r Reason) String() string {
	switch r {
	case ReasonQuantum:
		return "quantum"
	case ReasonBlocked:
		return "blocked"
	case ReasonFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Handle is the runtime's view of one ULT's coroutine context: the pair of channels used
// to hand control back and forth, plus the preemption flag (§4.7), which the ULT
// dispatch loop checks before dispatching the handle.
type Handle struct {
	ID     task.ID
	Paused atomic.Bool

	resume  chan struct{}
	yielded chan Reason
}

// YieldToScheduler hands control back to the dispatch loop at a quantum boundary without
// blocking indefinitely — the caller (running inside the ULT's own goroutine) resumes
// from this call the next time the scheduler dispatches this handle again.
func (h *Handle) YieldToScheduler() {
	h.yielded <- ReasonQuantum
	<-h.resume
}

// Block suspends the ULT until some other ULT (via a sync primitive) makes it READY
// again and the scheduler re-dispatches it — spec §5's "suspension points" (ii) and (iii).
func (h *Handle) Block() {
	h.yielded <- ReasonBlocked
	<-h.resume
}

// Runtime owns the arena of ULT contexts, replacing the original's g_contexts/
// g_current_idx/ready_queue globals (spec §9) with an explicit value passed to every
// operation that touches it.
type Runtime struct {
	mu          sync.Mutex
	handles     map[task.ID]*Handle
	stackSizeKB int
	maxContexts int
}

// NewRuntime returns a Runtime configured with the given per-context stack size
// (spec §4.2 default 64 KiB) and an upper bound on live contexts, past which Spawn
// fails with ResourceExhausted.
func NewRuntime(stackSizeKB int, maxContexts int) *Runtime {
	if stackSizeKB <= 0 {
		stackSizeKB = 64
	}
	if maxContexts <= 0 {
		maxContexts = 100000
	}
	return &Runtime{
		handles:     make(map[task.ID]*Handle),
		stackSizeKB: stackSizeKB,
		maxContexts: maxContexts,
	}
}

// Spawn creates a new ULT context running entry, cooperatively parked until the first
// SwitchTo. entry receives the Handle so it can call YieldToScheduler/Block itself, and
// an arg value threaded through unchanged (spec §4.2's spawn(entry_fn, arg)).
func (r *Runtime) Spawn(id task.ID, entry func(h *Handle, arg any), arg any) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.handles[id]; dup {
		return nil, schederr.Wrap(schederr.ErrInvalidTask, "context already spawned for task")
	}
	if len(r.handles) >= r.maxContexts {
		return nil, schederr.ErrResourceExhausted
	}

	h := &Handle{
		ID:      id,
		resume:  make(chan struct{}),
		yielded: make(chan Reason),
	}
	r.handles[id] = h

	go func() {
		<-h.resume
		entry(h, arg)
		h.yielded <- ReasonFinished
	}()

	return h, nil
}

// SwitchTo resumes h until it yields, blocks, or finishes, and reports which.
func (r *Runtime) SwitchTo(h *Handle) Reason {
	h.resume <- struct{}{}
	return <-h.yielded
}

// Handle looks up a live context by task id.
func (r *Runtime) Handle(id task.ID) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[id]
	return h, ok
}

// Destroy releases a context's bookkeeping once its task is FINISHED (spec §3: "its
// context is released on FINISHED"). The backing goroutine has already returned by the
// time Destroy is called for a normally-finished task.
func (r *Runtime) Destroy(id task.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}

// StackSizeKB reports the configured per-context stack size.
func (r *Runtime) StackSizeKB() int { return r.stackSizeKB }
