package policy

import (
	"schedlab/internal/config"
	"schedlab/internal/ready"
	"schedlab/internal/task"
)

// spec is the set of policy-specific hooks the shared driver loop (spec §4.5) calls into:
// which ready structure to use, how long a dispatch may run before preemption (0 means
// "until completion" — FCFS/SJF/MLQ), and what happens to task state right after a slice
// (feedback, aging, vruntime, demotion).
type spec interface {
	newQueue(cfg config.Config) ready.Queue
	quantum(cfg config.Config, t *task.Task) int64
	postSlice(rs *runState, t *task.Task, ran int64, finished bool)
	// onArrival is called once per task as it's admitted, before insertion into the
	// queue; CFS uses it to seed vruntime from the tree's current minimum.
	onArrival(rs *runState, t *task.Task)
}

func specFor(name Name) spec {
	switch name {
	case FCFS:
		return fcfsSpec{}
	case RR:
		return rrSpec{}
	case PRIORITY:
		return prioritySpec{}
	case SJF:
		return sjfSpec{}
	case MLQ:
		return mlqSpec{}
	case MLFQ:
		return mlfqSpec{}
	case EDF:
		return edfSpec{}
	case CFS:
		return cfsSpec{}
	default:
		return nil
	}
}
