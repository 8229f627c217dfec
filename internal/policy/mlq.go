package policy

import (
	"schedlab/internal/config"
	"schedlab/internal/ready"
	"schedlab/internal/task"
)

// mlqSpec: strict priority between three static bands, FIFO within a band, non-preemptive
// (§4.5 and the Open Question this repo resolves: no preemption across bands).
type mlqSpec struct{}

func (mlqSpec) newQueue(cfg config.Config) ready.Queue { return ready.NewMLQ() }

func (mlqSpec) quantum(cfg config.Config, t *task.Task) int64 { return 0 }

func (mlqSpec) postSlice(rs *runState, t *task.Task, ran int64, finished bool) {
	if !finished {
		rs.queue.Insert(t)
	}
}

func (mlqSpec) onArrival(rs *runState, t *task.Task) {}
