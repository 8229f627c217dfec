package policy

import (
	"schedlab/internal/config"
	"schedlab/internal/ready"
	"schedlab/internal/task"
)

// sjfSpec: non-preemptive min-remaining-time-first, infinite quantum.
type sjfSpec struct{}

func (sjfSpec) newQueue(cfg config.Config) ready.Queue { return ready.NewSJF() }

func (sjfSpec) quantum(cfg config.Config, t *task.Task) int64 { return 0 }

// See fcfsSpec.postSlice: quantum()==0 guarantees finished==true in simulation mode, but
// ULT mode's SliceTicks-bounded dispatch can still cut a slice short.
func (sjfSpec) postSlice(rs *runState, t *task.Task, ran int64, finished bool) {
	if !finished {
		rs.queue.Insert(t)
	}
}

func (sjfSpec) onArrival(rs *runState, t *task.Task) {}
