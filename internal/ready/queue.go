// Package ready implements the per-policy ready structures of spec §4.3: FIFO deques for
// FCFS/RR, ordered sets for SJF/Priority/EDF/CFS, and leveled FIFO bands for MLQ/MLFQ.
package ready

import "schedlab/internal/task"

// Queue is the common contract every ready structure implements. All operations are
// O(log n) or better for the ordered variants, as spec §4.3 requires.
type Queue interface {
	Insert(t *task.Task)
	PopNext() (*task.Task, bool)
	Peek() (*task.Task, bool)
	IsEmpty() bool
	Contains(id task.ID) bool
	Len() int
}
