package ready

import (
	"github.com/emirpasic/gods/queues/arrayqueue"

	"schedlab/internal/task"
)

// FIFO is the ready structure for FCFS and RR (spec §4.3): pure arrival/requeue order.
// Grounded on gods/queues/arrayqueue, already in the teacher's dependency graph via the
// sibling gods/trees/redblacktree package the teacher imports directly.
type FIFO struct {
	q        *arrayqueue.Queue
	present  map[task.ID]bool
	byID     map[task.ID]*task.Task
}

// NewFIFO returns an empty FIFO ready queue.
func NewFIFO() *FIFO {
	return &FIFO{
		q:       arrayqueue.New(),
		present: make(map[task.ID]bool),
		byID:    make(map[task.ID]*task.Task),
	}
}

// Insert enqueues a task at the tail.
func (f *FIFO) Insert(t *task.Task) {
	f.q.Enqueue(t.ID)
	f.present[t.ID] = true
	f.byID[t.ID] = t
}

// PopNext dequeues the head of the FIFO.
func (f *FIFO) PopNext() (*task.Task, bool) {
	v, ok := f.q.Dequeue()
	if !ok {
		return nil, false
	}
	id := v.(task.ID)
	delete(f.present, id)
	t := f.byID[id]
	delete(f.byID, id)
	return t, true
}

// Peek returns the head without removing it.
func (f *FIFO) Peek() (*task.Task, bool) {
	v, ok := f.q.Peek()
	if !ok {
		return nil, false
	}
	return f.byID[v.(task.ID)], true
}

// IsEmpty reports whether the queue holds no tasks.
func (f *FIFO) IsEmpty() bool { return f.q.Empty() }

// Contains reports whether id is currently enqueued.
func (f *FIFO) Contains(id task.ID) bool { return f.present[id] }

// Len returns the number of enqueued tasks.
func (f *FIFO) Len() int { return f.q.Size() }
