// Package task defines the task entity and its state machine (§3 of the data model:
// immutable identity plus mutable scheduling fields).
package task

import "fmt"

// ID uniquely identifies a task within a TaskSet.
type ID uint64

// State is a task's position in the NEW -> READY -> RUNNING -> {READY|BLOCKED|FINISHED}
// state machine.
type State int

const (
	NEW State = iota
	READY
	RUNNING
	BLOCKED
	FINISHED
)

func (s State) String() string {
	switch s {
	case NEW:
		return "NEW"
	case READY:
		return "READY"
	case RUNNING:
		return "RUNNING"
	case BLOCKED:
		return "BLOCKED"
	case FINISHED:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// FinishReason distinguishes why a task reached FINISHED.
type FinishReason int

const (
	FinishedNormally FinishReason = iota
	FinishedTimeout
)

// Task is one schedulable unit. ID, Arrival, Burst, BasePriority, Deadline and Nice are
// immutable identity; Remaining, Priority, Level, Vruntime, Weight and State are mutated
// by the policy engine as the task runs.
type Task struct {
	ID           ID
	Arrival      int64 // arrival_time >= 0
	Burst        int64 // burst > 0
	BasePriority int   // base_priority, higher number = higher priority
	Deadline     int64 // deadline >= arrival + burst
	Nice         int   // CFS nice value

	Remaining int64 // <= Burst, monotonically non-increasing
	Priority  int   // dynamic priority, starts at BasePriority
	Level     int   // MLQ/MLFQ band, only grows except at priority boost
	Vruntime  float64
	Weight    float64
	State     State

	Reason FinishReason
}

// New constructs a Task with its mutable fields initialized from identity. Validation
// (duplicate id, non-positive burst, deadline < arrival+burst) is the TaskSet's job, not
// the constructor's, so callers can build a Task before deciding where it lives.
func New(id ID, arrival, burst int64, basePriority int, deadline int64, nice int) *Task {
	return &Task{
		ID:           id,
		Arrival:      arrival,
		Burst:        burst,
		BasePriority: basePriority,
		Deadline:     deadline,
		Nice:         nice,
		Remaining:    burst,
		Priority:     basePriority,
		Level:        0,
		Vruntime:     0,
		Weight:       Weight(nice),
		State:        NEW,
	}
}

// Weight computes the CFS share weight W0/2^nice, W0=1024 (§4.5).
func Weight(nice int) float64 {
	const w0 = 1024.0
	w := w0
	if nice >= 0 {
		for i := 0; i < nice; i++ {
			w /= 2
		}
	} else {
		for i := 0; i < -nice; i++ {
			w *= 2
		}
	}
	return w
}

// Finished reports whether the task has no remaining work.
func (t *Task) Finished() bool { return t.Remaining <= 0 }

func (t *Task) String() string {
	return fmt.Sprintf("Task{id=%d arrival=%d burst=%d remaining=%d priority=%d state=%s}",
		t.ID, t.Arrival, t.Burst, t.Remaining, t.Priority, t.State)
}
