package ready

import "schedlab/internal/task"

// NewSJF orders by (remaining asc, id asc): shortest-job-first, non-preemptive.
func NewSJF() *Ordered {
	return NewOrdered(func(t *task.Task) float64 { return float64(t.Remaining) })
}

// NewPriority orders by (priority desc, id asc): higher dynamic priority runs first.
// Negating priority turns "desc" into the Ordered queue's native "asc" comparison.
func NewPriority() *Ordered {
	return NewOrdered(func(t *task.Task) float64 { return -float64(t.Priority) })
}

// NewEDF orders by (deadline asc, id asc): earliest absolute deadline first.
func NewEDF() *Ordered {
	return NewOrdered(func(t *task.Task) float64 { return float64(t.Deadline) })
}

// NewCFS orders by (vruntime asc, id asc).
func NewCFS() *Ordered {
	return NewOrdered(func(t *task.Task) float64 { return t.Vruntime })
}
