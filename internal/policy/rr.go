package policy

import (
	"schedlab/internal/config"
	"schedlab/internal/ready"
	"schedlab/internal/task"
)

// rrSpec: fixed quantum Q, requeue to tail on quantum exhaustion. The shared driver loop
// already admits arrivals before calling postSlice, so a requeued task lands behind any
// arrival that occurred during its slice, as spec §4.5 requires.
type rrSpec struct{}

func (rrSpec) newQueue(cfg config.Config) ready.Queue { return ready.NewFIFO() }

func (rrSpec) quantum(cfg config.Config, t *task.Task) int64 { return cfg.Quantum }

func (rrSpec) postSlice(rs *runState, t *task.Task, ran int64, finished bool) {
	if !finished {
		rs.queue.Insert(t)
	}
}

func (rrSpec) onArrival(rs *runState, t *task.Task) {}
