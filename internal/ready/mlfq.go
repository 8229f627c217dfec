package ready

import "schedlab/internal/task"

// MLFQ implements L leveled FIFO bands (spec §4.3/§4.5): all tasks enter level 0,
// quantum at level l is Q*2^l, and a task that doesn't finish its slice demotes to
// min(l+1, L-1).
type MLFQ struct {
	levels []*FIFO
}

// NewMLFQ returns an empty MLFQ with the given number of levels (default L=3).
func NewMLFQ(levels int) *MLFQ {
	m := &MLFQ{levels: make([]*FIFO, levels)}
	for i := range m.levels {
		m.levels[i] = NewFIFO()
	}
	return m
}

// Levels returns the configured number of levels.
func (m *MLFQ) Levels() int { return len(m.levels) }

// InsertAtLevel enqueues t into a specific level's FIFO band, used for demotion/boost
// where the task's Level field has already been updated by the caller.
func (m *MLFQ) InsertAtLevel(t *task.Task, level int) {
	if level < 0 {
		level = 0
	}
	if level >= len(m.levels) {
		level = len(m.levels) - 1
	}
	t.Level = level
	m.levels[level].Insert(t)
}

// Insert enqueues t at its current Level (spec: new arrivals enter level 0, since Level
// is zero-valued on task creation).
func (m *MLFQ) Insert(t *task.Task) {
	m.InsertAtLevel(t, t.Level)
}

// PopNext returns the head of the highest-priority (lowest-numbered) non-empty level.
func (m *MLFQ) PopNext() (*task.Task, bool) {
	for l := 0; l < len(m.levels); l++ {
		if !m.levels[l].IsEmpty() {
			return m.levels[l].PopNext()
		}
	}
	return nil, false
}

// Peek returns the head of the highest-priority non-empty level without removing it.
func (m *MLFQ) Peek() (*task.Task, bool) {
	for l := 0; l < len(m.levels); l++ {
		if !m.levels[l].IsEmpty() {
			return m.levels[l].Peek()
		}
	}
	return nil, false
}

// IsEmpty reports whether every level is empty.
func (m *MLFQ) IsEmpty() bool {
	for _, l := range m.levels {
		if !l.IsEmpty() {
			return false
		}
	}
	return true
}

// Contains reports whether id is enqueued at any level.
func (m *MLFQ) Contains(id task.ID) bool {
	for _, l := range m.levels {
		if l.Contains(id) {
			return true
		}
	}
	return false
}

// Len returns the total number of enqueued tasks across all levels.
func (m *MLFQ) Len() int {
	n := 0
	for _, l := range m.levels {
		n += l.Len()
	}
	return n
}

// DrainAll removes every task from every level, for the priority-boost post-hook that
// resets all tasks to level 0 (spec §4.5, ULT mode only).
func (m *MLFQ) DrainAll() []*task.Task {
	var all []*task.Task
	for _, l := range m.levels {
		for !l.IsEmpty() {
			t, _ := l.PopNext()
			all = append(all, t)
		}
	}
	return all
}
