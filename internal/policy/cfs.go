package policy

import (
	"schedlab/internal/config"
	"schedlab/internal/ready"
	"schedlab/internal/task"
)

// cfsSpec: select min vruntime; on return, vruntime += ran * W0/weight. New arrivals
// inherit the tree's current minimum vruntime rather than starting at zero (§9 Open
// Question, resolved Linux-like in this repo).
type cfsSpec struct{}

func (cfsSpec) newQueue(cfg config.Config) ready.Queue { return ready.NewCFS() }

func (cfsSpec) quantum(cfg config.Config, t *task.Task) int64 {
	if t.Remaining < cfg.Quantum {
		return t.Remaining
	}
	return cfg.Quantum
}

func (cfsSpec) postSlice(rs *runState, t *task.Task, ran int64, finished bool) {
	t.Vruntime += float64(ran) * rs.cfg.CFSBaseWeight / t.Weight
	if !finished {
		rs.queue.Insert(t)
	}
}

func (cfsSpec) onArrival(rs *runState, t *task.Task) {
	if ordered, ok := rs.queue.(*ready.Ordered); ok {
		if minV, any := ordered.MinKey(); any {
			t.Vruntime = minV
		}
	}
}
