package policy

import (
	"schedlab/internal/config"
	"schedlab/internal/ready"
	"schedlab/internal/task"
)

// fcfsSpec: submission order preserved, infinite quantum, non-preemptive
// (original_source/scheduler.cpp's runFCFS).
type fcfsSpec struct{}

func (fcfsSpec) newQueue(cfg config.Config) ready.Queue { return ready.NewFIFO() }

func (fcfsSpec) quantum(cfg config.Config, t *task.Task) int64 { return 0 }

// postSlice is a no-op in simulation mode, where quantum()==0 makes every slice run to
// completion so finished is always true here; ULT mode still bounds slices by
// cfg.SliceTicks, so a not-yet-finished task must go back on the queue like every other
// policy (spec §4.5's non-preemptive FCFS just never chooses to preempt, it doesn't skip
// requeueing a task that was cut short by the ULT dispatch grain).
func (fcfsSpec) postSlice(rs *runState, t *task.Task, ran int64, finished bool) {
	if !finished {
		rs.queue.Insert(t)
	}
}

func (fcfsSpec) onArrival(rs *runState, t *task.Task) {}
