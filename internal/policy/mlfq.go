package policy

import (
	"schedlab/internal/config"
	"schedlab/internal/ready"
	"schedlab/internal/task"
)

// mlfqSpec: quantum at level l is Q*2^l; a task that doesn't finish its slice demotes to
// min(l+1, L-1) (spec §4.3/§4.5). Priority boost (ULT mode only, every B time units) is
// driven by the engine's driver loop, not this hook, since it needs a global clock view.
type mlfqSpec struct{}

func (mlfqSpec) newQueue(cfg config.Config) ready.Queue { return ready.NewMLFQ(cfg.MLFQLevels) }

func (mlfqSpec) quantum(cfg config.Config, t *task.Task) int64 {
	q := cfg.Quantum
	for i := 0; i < t.Level; i++ {
		q *= 2
	}
	return q
}

func (mlfqSpec) postSlice(rs *runState, t *task.Task, ran int64, finished bool) {
	q := rs.queue.(*ready.MLFQ)
	if finished {
		return
	}
	old := t.Level
	newLevel := t.Level + 1
	if newLevel > q.Levels()-1 {
		newLevel = q.Levels() - 1
	}
	if newLevel != old {
		rs.emit(demotedEvent(rs, t, old, newLevel))
	}
	q.InsertAtLevel(t, newLevel)
}

func (mlfqSpec) onArrival(rs *runState, t *task.Task) {}
