package policy

import (
	"context"

	"schedlab/internal/config"
	"schedlab/internal/events"
	"schedlab/internal/ready"
	"schedlab/internal/schederr"
	"schedlab/internal/task"
	"schedlab/internal/timeline"
)

// runState carries everything the shared driver loop and per-policy hooks need to
// mutate as a run progresses — the explicit replacement for the process-wide scheduler
// globals the original relied on (spec §9).
type runState struct {
	cfg    config.Config
	name   Name
	queue  ready.Queue
	rec    *timeline.Recorder
	sink   events.Sink
	ts     *task.Set
	clock  int64
	lastEnd int64

	pending []task.ID // ids not yet admitted, sorted by (arrival, id)
}

func (rs *runState) emit(e events.Event) {
	if rs.sink == nil {
		return
	}
	e.Policy = string(rs.name)
	rs.sink.Emit(e)
}

func priorityAdjustedEvent(rs *runState, t *task.Task, oldPriority, newPriority int) events.Event {
	return events.Event{Kind: events.KindPriorityAdjusted, TaskID: t.ID, OldPriority: oldPriority, NewPriority: newPriority}
}

func demotedEvent(rs *runState, t *task.Task, oldLevel, newLevel int) events.Event {
	return events.Event{Kind: events.KindDemoted, TaskID: t.ID, OldLevel: oldLevel, NewLevel: newLevel}
}

func deadlineMissEvent(rs *runState, t *task.Task) events.Event {
	return events.Event{Kind: events.KindDeadlineMiss, TaskID: t.ID, Deadline: t.Deadline, End: rs.lastEnd}
}

// admit moves every pending task whose arrival <= at into the ready queue, in
// (arrival asc, id asc) order (spec §5: "admission order is by id ascending" for ties).
func (rs *runState) admit(at int64) {
	i := 0
	for i < len(rs.pending) {
		id := rs.pending[i]
		t, _ := rs.ts.Get(id)
		if t.Arrival > at {
			break
		}
		t.State = task.READY
		specFor(rs.name).onArrival(rs, t)
		rs.queue.Insert(t)
		i++
	}
	rs.pending = rs.pending[i:]
}

// Run executes one policy over one task set to completion (or cancellation/timeout),
// implementing the shared driver loop of spec §4.5.
func Run(ctx context.Context, ts *task.Set, name Name, cfg config.Config, sink events.Sink) (*timeline.Recorder, error) {
	if name.IsULT() {
		return nil, schederr.Wrap(schederr.ErrInvalidTask, "Run is simulation-mode only; use RunULT for T_* policies")
	}
	spc := specFor(name)
	if spc == nil {
		return nil, schederr.Wrap(schederr.ErrInvalidTask, "unknown policy "+string(name))
	}

	run := ts.Clone()
	rs := &runState{
		cfg:     cfg,
		name:    name,
		queue:   spc.newQueue(cfg),
		rec:     timeline.NewRecorder(),
		sink:    sink,
		ts:      run,
		pending: run.SortedByArrival(),
	}
	rs.emit(events.Event{Kind: events.KindPolicyStart})
	defer func() { rs.emit(events.Event{Kind: events.KindPolicyEnd}) }()

	rs.admit(0)

	for !rs.queue.IsEmpty() || len(rs.pending) > 0 {
		select {
		case <-ctx.Done():
			return rs.rec, schederr.ErrCancelled
		default:
		}

		if rs.queue.IsEmpty() {
			next, _ := run.Get(rs.pending[0])
			rs.clock = next.Arrival
			rs.admit(rs.clock)
			continue
		}

		t, _ := rs.queue.PopNext()
		start := rs.clock
		if t.Arrival > start {
			start = t.Arrival
		}

		q := spc.quantum(cfg, t)
		r := t.Remaining
		if q > 0 && q < r {
			r = q
		}

		end := start + r
		t.State = task.RUNNING
		rs.rec.RecordSlice(t.ID, start, end, task.RUNNING)
		rs.emit(events.Event{Kind: events.KindSliceRecorded, TaskID: t.ID, Start: start, End: end, State: task.RUNNING})

		rs.clock = end
		rs.lastEnd = end
		t.Remaining -= r
		rs.admit(rs.clock)

		finished := t.Remaining <= 0
		if finished {
			t.Remaining = 0
			t.State = task.FINISHED
			rs.emit(events.Event{Kind: events.KindTaskFinished, TaskID: t.ID, End: end})
		} else {
			t.State = task.READY
		}

		spc.postSlice(rs, t, r, finished)
	}

	return rs.rec, nil
}
