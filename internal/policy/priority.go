package policy

import (
	"schedlab/internal/config"
	"schedlab/internal/ready"
	"schedlab/internal/task"
)

// prioritySpec: select max dynamic priority; after a slice, decay the task that just ran
// and age everyone still waiting (original_source/scheduler.cpp's runPriority, spec §4.5).
type prioritySpec struct{}

func (prioritySpec) newQueue(cfg config.Config) ready.Queue { return ready.NewPriority() }

func (prioritySpec) quantum(cfg config.Config, t *task.Task) int64 { return cfg.Quantum }

func (prioritySpec) postSlice(rs *runState, t *task.Task, ran int64, finished bool) {
	ordered := rs.queue.(*ready.Ordered)

	old := t.Priority
	dec := int(ran / rs.cfg.FeedbackFactor)
	t.Priority -= dec
	if t.Priority < 1 {
		t.Priority = 1
	}
	if old != t.Priority {
		rs.emit(priorityAdjustedEvent(rs, t, old, t.Priority))
	}

	agingIncrement := rs.cfg.AgingIncrement
	agingMax := rs.cfg.AgingMax
	ordered.Rebalance(func(x *task.Task) {
		before := x.Priority
		x.Priority += agingIncrement
		if cap := x.BasePriority + agingMax; x.Priority > cap {
			x.Priority = cap
		}
		if before != x.Priority {
			rs.emit(priorityAdjustedEvent(rs, x, before, x.Priority))
		}
	})

	if !finished {
		ordered.Insert(t)
	}
}

func (prioritySpec) onArrival(rs *runState, t *task.Task) {}
