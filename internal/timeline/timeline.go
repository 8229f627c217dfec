// Package timeline implements the append-only slice log (C1) described in spec §4.1:
// record_slice(task_id, start, end, state) and timeline() returning the ordered sequence.
package timeline

import (
	"encoding/csv"
	"io"
	"strconv"

	"schedlab/internal/task"
)

// Entry is one recorded CPU slice. Entries for the same TaskID are never merged — callers
// may depend on quantum boundaries being visible (spec §4.1).
type Entry struct {
	TaskID       task.ID
	Start        int64
	End          int64
	StateAtStart task.State
}

// Recorder accumulates Entries during a single scheduler run. It is append-only until
// the run completes, after which Entries() is treated as read-only by convention.
type Recorder struct {
	entries []Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordSlice appends one slice. start < end and start >= the task's arrival time are
// invariants enforced by callers (the policy engine), not re-checked here, since the
// driver loop already derives start as max(t, task.Arrival).
func (r *Recorder) RecordSlice(id task.ID, start, end int64, stateAtStart task.State) {
	r.entries = append(r.entries, Entry{TaskID: id, Start: start, End: end, StateAtStart: stateAtStart})
}

// Entries returns the recorded sequence in dispatch order.
func (r *Recorder) Entries() []Entry {
	return r.entries
}

// Len reports how many slices have been recorded.
func (r *Recorder) Len() int { return len(r.entries) }

// WriteCSV serializes the recorded slices in dispatch order: "task_id,start,end,state",
// the §6 timeline report format.
func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"task_id", "start", "end", "state"}); err != nil {
		return err
	}
	for _, e := range r.entries {
		rec := []string{
			strconv.FormatUint(uint64(e.TaskID), 10),
			strconv.FormatInt(e.Start, 10),
			strconv.FormatInt(e.End, 10),
			e.StateAtStart.String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ForTask filters entries belonging to one task, preserving order.
func (r *Recorder) ForTask(id task.ID) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.TaskID == id {
			out = append(out, e)
		}
	}
	return out
}
