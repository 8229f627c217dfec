package policy

import (
	"schedlab/internal/config"
	"schedlab/internal/ready"
	"schedlab/internal/task"
)

// edfSpec: earliest absolute deadline first; deadline misses are reported, never
// prevented (spec §1 Non-goals, §4.5).
type edfSpec struct{}

func (edfSpec) newQueue(cfg config.Config) ready.Queue { return ready.NewEDF() }

func (edfSpec) quantum(cfg config.Config, t *task.Task) int64 { return cfg.Quantum }

func (edfSpec) postSlice(rs *runState, t *task.Task, ran int64, finished bool) {
	if finished && rs.lastEnd > t.Deadline {
		rs.emit(deadlineMissEvent(rs, t))
	}
	if !finished {
		rs.queue.Insert(t)
	}
}

func (edfSpec) onArrival(rs *runState, t *task.Task) {}
