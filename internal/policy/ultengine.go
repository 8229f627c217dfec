package policy

import (
	"context"

	"schedlab/internal/config"
	"schedlab/internal/deadlock"
	"schedlab/internal/events"
	"schedlab/internal/preempt"
	"schedlab/internal/ready"
	"schedlab/internal/schederr"
	"schedlab/internal/task"
	"schedlab/internal/timeline"
	"schedlab/internal/ultrt"
	"schedlab/internal/ultsync"
)

// WorkFunc is a ULT's cooperative body (spec §4.2's entry_fn): it runs on its own
// goroutine and calls h.YieldToScheduler at each unit of progress it chooses (DefaultWork
// uses SliceTicks), returning only once its assigned burst is exhausted. Lock-acquiring fixtures (the
// deadlock-lab demo, spec §9) call into ultsync primitives from here as well.
type WorkFunc func(h *ultrt.Handle, t *task.Task, eng *ULTEngine)

// DefaultWork returns the plain compute-bound fixture: yield once per SliceTicks of the
// task's remaining burst, with no synchronization (original_source/scheduler.cpp's
// baseline ULT body) — cooperative yielding in place of the original's wall-clock sleep.
// It only yields between chunks, never after the chunk that drains the last of Remaining,
// so the run loop observes the task's own goroutine return (ultrt.ReasonFinished) on that
// final chunk instead of one more quantum-sized yield with nothing left to do.
func DefaultWork(cfg config.Config) WorkFunc {
	return func(h *ultrt.Handle, t *task.Task, eng *ULTEngine) {
		for t.Remaining > 0 {
			ran := int64(cfg.SliceTicks)
			if ran > t.Remaining {
				ran = t.Remaining
			}
			t.Remaining -= ran
			if t.Remaining > 0 {
				h.YieldToScheduler()
			}
		}
	}
}

// LockingWork wraps a WorkFunc so the ULT acquires the named lock on m before running
// body and releases it after, maintaining g's wait-for graph around the critical section
// (spec §4.6: "every lock, trylock, unlock ... updates two maps"). This is the
// deadlock-lab demo fixture, grounded on original_source/semaphores_pre_emption.cpp's
// Thread1Proc/Thread2Proc pair — two ULTs each wrapping their body between two locks
// taken in opposite order recreate the same circular wait.
func LockingWork(lockName string, m *ultsync.Mutex, g *deadlock.Graph, body WorkFunc) WorkFunc {
	return func(h *ultrt.Handle, t *task.Task, eng *ULTEngine) {
		if _, held := m.Owner(); held {
			g.SetWaiting(t.ID, lockName)
		}
		m.Lock(eng)
		g.ClearWaiting(t.ID)
		g.SetOwner(lockName, t.ID, true)
		g.NotePriority(t.ID, t.Priority)

		body(h, t, eng)

		g.SetOwner(lockName, t.ID, false)
		m.Unlock(eng, t.ID)
	}
}

// Lab bundles the deadlock-lab machinery (C6+C7) an ULT-mode run can opt into: the
// wait-for graph every LockingWork fixture updates, the mutexes it names, and the
// recovery controller that acts on detected cycles. A nil *Lab disables the lab
// entirely — plain ULT runs never pay for it.
type Lab struct {
	Graph      *deadlock.Graph
	Mutexes    map[string]*ultsync.Mutex
	Controller *preempt.Controller
}

// ULTEngine drives cooperative dispatch of live ULT contexts (C5's ULT-mode variant,
// integrating C2/C3/C4): a synchronous channel handshake means exactly one goroutine is
// ever runnable at a time, so the queue/blocked bookkeeping below needs no locking of its
// own even though ultsync primitives call back into it from other tasks' contexts.
type ULTEngine struct {
	rt      *ultrt.Runtime
	queue   ready.Queue
	tasks   map[task.ID]*task.Task
	blocked map[task.ID]bool
	current task.ID
	base    Name
	name    Name
	cfg     config.Config
	rec     *timeline.Recorder
	sink    events.Sink
	clock   int64
}

// Current implements ultsync.Blocker.
func (e *ULTEngine) Current() task.ID { return e.current }

// Block implements ultsync.Blocker: called from within the current ULT's own goroutine
// by a mutex/condvar that must suspend it. Marks it blocked and yields control back to
// SwitchTo via the handle's own suspension point.
func (e *ULTEngine) Block(id task.ID) {
	e.blocked[id] = true
	if h, ok := e.rt.Handle(id); ok {
		h.Block()
	}
}

// Ready implements ultsync.Blocker: called from whichever ULT is currently running to
// wake another. The woken task re-enters the ready structure; its own goroutine remains
// parked until the driver loop dispatches it again.
func (e *ULTEngine) Ready(id task.ID) {
	delete(e.blocked, id)
	t, ok := e.tasks[id]
	if !ok {
		return
	}
	t.State = task.READY
	e.queue.Insert(t)
}

// runState builds the (mostly-empty) driver state postSlice/onArrival hooks expect,
// scoped to this engine's queue and clock so aging/vruntime/demotion behave identically
// in ULT mode as in simulation mode.
func (e *ULTEngine) runState() *runState {
	return &runState{cfg: e.cfg, name: e.name, queue: e.queue, sink: e.sink, lastEnd: e.clock}
}

func (e *ULTEngine) emit(ev events.Event) {
	if e.sink == nil {
		return
	}
	ev.Policy = string(e.name)
	e.sink.Emit(ev)
}

// RunULT executes one ULT-mode policy (T_FCFS, T_RR, T_PRIORITY, T_MLFQ, T_CFS) over a
// task set, spawning one context per task and cooperatively dispatching them through the
// base policy's ready structure and post-slice hooks (spec §4.2-§4.5 integration). workFor
// supplies each task's cooperative body; DefaultWork(cfg) is the usual choice, and
// LockingWork(...) composed with it is how the deadlock-lab demo builds circular waits.
// lab may be nil to disable the deadlock detector/recovery controller entirely.
func RunULT(ctx context.Context, ts *task.Set, name Name, cfg config.Config, sink events.Sink, workFor func(t *task.Task) WorkFunc, lab *Lab) (*timeline.Recorder, error) {
	if !name.IsULT() {
		return nil, schederr.Wrap(schederr.ErrInvalidTask, "RunULT is ULT-mode only; use Run for simulation policies")
	}
	base := name.Base()
	spc := specFor(base)
	if spc == nil {
		return nil, schederr.Wrap(schederr.ErrInvalidTask, "unknown ULT base policy "+string(base))
	}
	if workFor == nil {
		workFor = func(*task.Task) WorkFunc { return DefaultWork(cfg) }
	}

	run := ts.Clone()
	eng := &ULTEngine{
		rt:      ultrt.NewRuntime(cfg.StackSizeKB, 0),
		queue:   spc.newQueue(cfg),
		tasks:   make(map[task.ID]*task.Task, run.Len()),
		blocked: make(map[task.ID]bool),
		base:    base,
		name:    name,
		cfg:     cfg,
		rec:     timeline.NewRecorder(),
		sink:    sink,
	}
	eng.emit(events.Event{Kind: events.KindPolicyStart})
	defer func() { eng.emit(events.Event{Kind: events.KindPolicyEnd}) }()

	handles := make(map[task.ID]*ultrt.Handle, run.Len())
	for _, t := range run.Tasks() {
		eng.tasks[t.ID] = t
		tt := t
		work := workFor(tt)
		h, err := eng.rt.Spawn(tt.ID, func(h *ultrt.Handle, _ any) {
			work(h, tt, eng)
		}, nil)
		if err != nil {
			return eng.rec, err
		}
		handles[t.ID] = h
	}

	pending := run.SortedByArrival()
	admit := func(at int64) {
		i := 0
		for i < len(pending) {
			id := pending[i]
			t, _ := run.Get(id)
			if t.Arrival > at {
				break
			}
			t.State = task.READY
			spc.onArrival(eng.runState(), t)
			eng.queue.Insert(t)
			i++
		}
		pending = pending[i:]
	}
	admit(0)

	lastBoost := int64(0)
	lastDetect := int64(0)

	for eng.queue.Len() > 0 || len(pending) > 0 || len(eng.blocked) > 0 {
		select {
		case <-ctx.Done():
			return eng.rec, schederr.ErrCancelled
		default:
		}

		if lab != nil && len(eng.blocked) > 0 && eng.clock-lastDetect >= cfg.DetectorPeriod {
			lastDetect = eng.clock
			if cycle, found := lab.Graph.Detect(); found {
				eng.emit(deadlock.DeadlockEvent(cycle))
				victim := deadlock.Victim(cycle, lab.Graph.PriorityMap())
				if lockName, ok := lab.Graph.OwnedLock(victim); ok {
					if m, ok := lab.Mutexes[lockName]; ok {
						if vh, ok := handles[victim]; ok {
							lab.Controller.Recover(vh, victim, lockName, m, lab.Graph, eng)
						}
					}
				} else if lockName, ok := lab.Graph.WaitingOn(victim); ok {
					// Victim holds nothing of its own (waiting on the very first
					// lock in the chain); nothing to force-release, but it still
					// can't proceed on its own — surface as unrecoverable rather
					// than spin.
					_ = lockName
					return eng.rec, schederr.ErrDeadlockUnrecoverable
				}
			}
		}

		if eng.queue.Len() == 0 {
			if len(pending) > 0 {
				next, _ := run.Get(pending[0])
				eng.clock = next.Arrival
				admit(eng.clock)
				continue
			}
			if len(eng.blocked) > 0 {
				// Recovery (above) couldn't make progress this round; give the
				// next detector period a chance rather than spinning hot.
				eng.clock++
				continue
			}
			break
		}

		if cfg.BoostInterval > 0 && base == MLFQ && eng.clock-lastBoost >= cfg.BoostInterval {
			if mlfq, ok := eng.queue.(*ready.MLFQ); ok {
				for _, t := range mlfq.DrainAll() {
					eng.emit(events.Event{Kind: events.KindBoosted, TaskID: t.ID, OldLevel: t.Level, NewLevel: 0})
					t.Level = 0
					mlfq.Insert(t)
				}
			}
			lastBoost = eng.clock
		}

		t, _ := eng.queue.PopNext()
		if h, ok := handles[t.ID]; ok && h.Paused.Load() {
			// Mid-recovery victim (Controller.Recover has stepped 1 but not yet 4, spec
			// §4.7): don't dispatch it until it's resumed. Not reachable while Recover
			// runs synchronously between detector checks, but the run loop still honors
			// the flag rather than assuming it never sees a paused handle.
			eng.queue.Insert(t)
			eng.clock++
			continue
		}
		eng.current = t.ID
		t.State = task.RUNNING

		start := eng.clock
		if t.Arrival > start {
			start = t.Arrival
		}
		// Dispatch unit is min(T.remaining, q) per spec's driver loop — SliceTicks plays
		// no part here; it's DefaultWork's own voluntary yield granularity, confined to
		// config.go's documented tick-visualization role, never a scheduling credit.
		ran := t.Remaining
		if q := spc.quantum(cfg, t); q > 0 && q < ran {
			ran = q
		}
		end := start + ran

		h := handles[t.ID]
		reason := eng.rt.SwitchTo(h)

		eng.rec.RecordSlice(t.ID, start, end, task.RUNNING)
		eng.emit(events.Event{Kind: events.KindSliceRecorded, TaskID: t.ID, Start: start, End: end, State: task.RUNNING})
		eng.clock = end
		admit(eng.clock)

		switch reason {
		case ultrt.ReasonFinished:
			t.Remaining = 0
			t.State = task.FINISHED
			eng.rt.Destroy(t.ID)
			eng.emit(events.Event{Kind: events.KindTaskFinished, TaskID: t.ID, End: end})
			spc.postSlice(eng.runState(), t, ran, true)
		case ultrt.ReasonBlocked:
			t.State = task.BLOCKED
			eng.blocked[t.ID] = true
		default: // ultrt.ReasonQuantum
			t.State = task.READY
			spc.postSlice(eng.runState(), t, ran, false)
		}
	}

	return eng.rec, nil
}
