package main

import (
	"schedlab/internal/config"
	"schedlab/internal/deadlock"
	"schedlab/internal/events"
	"schedlab/internal/policy"
	"schedlab/internal/preempt"
	"schedlab/internal/task"
	"schedlab/internal/ultrt"
	"schedlab/internal/ultsync"
)

// buildDeadlockDemo wires spec §8 scenario S5: task 1 grabs lock A then requests B, task
// 2 grabs lock B then requests A — a deliberate circular wait — while every other task
// in the set just runs DefaultWork. Grounded directly on
// original_source/semaphores_pre_emption.cpp's Thread1Proc/Thread2Proc pair.
func buildDeadlockDemo(cfg config.Config, sink events.Sink) (func(t *task.Task) policy.WorkFunc, *policy.Lab) {
	lockA := ultsync.NewMutex("A")
	lockB := ultsync.NewMutex("B")
	graph := deadlock.New()

	lab := &policy.Lab{
		Graph: graph,
		Mutexes: map[string]*ultsync.Mutex{
			"A": lockA,
			"B": lockB,
		},
		Controller: preempt.NewController(cfg.PreemptionGraceMS, sink),
	}

	// yieldBefore inserts one quantum's worth of "unrelated work" between acquiring the
	// first lock and requesting the second, mirroring Thread1Proc/Thread2Proc's
	// sleep_for(100ms) between sem_wait calls — without it, a task holding the first lock
	// would grab the second in the same uninterrupted dispatch and the circular wait this
	// scenario exists to exercise could never form.
	yieldBefore := func(next policy.WorkFunc) policy.WorkFunc {
		return func(h *ultrt.Handle, t *task.Task, eng *policy.ULTEngine) {
			h.YieldToScheduler()
			next(h, t, eng)
		}
	}

	workFor := func(t *task.Task) policy.WorkFunc {
		base := policy.DefaultWork(cfg)
		switch t.ID {
		case 1:
			return policy.LockingWork("A", lockA, graph, yieldBefore(policy.LockingWork("B", lockB, graph, base)))
		case 2:
			return policy.LockingWork("B", lockB, graph, yieldBefore(policy.LockingWork("A", lockA, graph, base)))
		default:
			return base
		}
	}

	return workFor, lab
}
