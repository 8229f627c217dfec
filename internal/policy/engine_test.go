package policy

import (
	"context"
	"testing"

	"schedlab/internal/config"
	"schedlab/internal/events"
	"schedlab/internal/task"
)

func mustSet(t *testing.T, tasks ...*task.Task) *task.Set {
	t.Helper()
	s, err := task.NewSet(tasks)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return s
}

// TestFCFSNoIdle is spec §8 scenario S1: three tasks, no gaps, submission order preserved.
func TestFCFSNoIdle(t *testing.T) {
	ts := mustSet(t,
		task.New(1, 0, 10, 1, 1000, 0),
		task.New(2, 0, 5, 1, 1000, 0),
		task.New(3, 0, 3, 1, 1000, 0),
	)
	cfg := config.Default()
	rec, err := Run(context.Background(), ts, FCFS, cfg, events.NopSink{})
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		id         task.ID
		start, end int64
	}{
		{1, 0, 10}, {2, 10, 15}, {3, 15, 18},
	}
	entries := rec.Entries()
	if len(entries) != len(want) {
		t.Fatalf("got %d slices, want %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		e := entries[i]
		if e.TaskID != w.id || e.Start != w.start || e.End != w.end {
			t.Fatalf("slice %d = %+v, want {%d %d %d}", i, e, w.id, w.start, w.end)
		}
	}
}

// TestRRQuantum is spec §8 scenario S2.
func TestRRQuantum(t *testing.T) {
	ts := mustSet(t,
		task.New(1, 0, 6, 1, 1000, 0),
		task.New(2, 0, 4, 1, 1000, 0),
	)
	cfg := config.Default()
	cfg.Quantum = 4
	rec, err := Run(context.Background(), ts, RR, cfg, events.NopSink{})
	if err != nil {
		t.Fatal(err)
	}
	want := [][3]int64{{1, 0, 4}, {2, 4, 8}, {1, 8, 10}}
	entries := rec.Entries()
	if len(entries) != len(want) {
		t.Fatalf("got %d slices, want %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		e := entries[i]
		if int64(e.TaskID) != w[0] || e.Start != w[1] || e.End != w[2] {
			t.Fatalf("slice %d = %+v, want %v", i, e, w)
		}
	}
}

// TestPriorityAging is spec §8 scenario S3.
func TestPriorityAging(t *testing.T) {
	ts := mustSet(t,
		task.New(1, 0, 5, 5, 1000, 0),
		task.New(2, 0, 5, 3, 1000, 0),
	)
	cfg := config.Default()
	cfg.Quantum = 5
	cfg.FeedbackFactor = 50
	cfg.AgingIncrement = 1

	coll := &events.CollectorSink{}
	rec, err := Run(context.Background(), ts, PRIORITY, cfg, coll)
	if err != nil {
		t.Fatal(err)
	}
	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d slices, want 2: %+v", len(entries), entries)
	}
	if entries[0].TaskID != 1 || entries[0].Start != 0 || entries[0].End != 5 {
		t.Fatalf("first slice = %+v, want task 1 [0,5)", entries[0])
	}
	if entries[1].TaskID != 2 || entries[1].Start != 5 || entries[1].End != 10 {
		t.Fatalf("second slice = %+v, want task 2 [5,10)", entries[1])
	}

	foundAging := false
	for _, e := range coll.Events {
		if e.Kind == events.KindPriorityAdjusted && e.TaskID == 2 && e.NewPriority == 4 {
			foundAging = true
		}
	}
	if !foundAging {
		t.Fatalf("expected task 2 to age from 3 to 4, events: %+v", coll.Events)
	}
}

// TestEDFDeadlineMiss is spec §8 scenario S4.
func TestEDFDeadlineMiss(t *testing.T) {
	ts := mustSet(t,
		task.New(1, 0, 8, 1, 8, 0),
		task.New(2, 0, 2, 1, 10, 0),
	)
	// NewSet rejects deadline < arrival+burst, so task 1's infeasible deadline of 5 is
	// set after the set is built.
	t1, _ := ts.Get(1)
	t1.Deadline = 5
	cfg := config.Default()
	cfg.Quantum = 2

	coll := &events.CollectorSink{}
	rec, err := Run(context.Background(), ts, EDF, cfg, coll)
	if err != nil {
		t.Fatal(err)
	}
	entries := rec.Entries()
	last := entries[len(entries)-1]
	if last.TaskID != 2 || last.Start != 8 || last.End != 10 {
		t.Fatalf("final slice = %+v, want task 2 [8,10)", last)
	}

	miss := false
	for _, e := range coll.Events {
		if e.Kind == events.KindDeadlineMiss && e.TaskID == 1 {
			miss = true
		}
	}
	if !miss {
		t.Fatalf("expected a DeadlineMiss event for task 1, events: %+v", coll.Events)
	}
}

func TestRunRejectsULTPolicy(t *testing.T) {
	ts := mustSet(t, task.New(1, 0, 5, 1, 100, 0))
	_, err := Run(context.Background(), ts, TRR, config.Default(), events.NopSink{})
	if err == nil {
		t.Fatal("expected Run to reject a T_* policy")
	}
}

func TestCloneIsolatesRepeatedRuns(t *testing.T) {
	ts := mustSet(t,
		task.New(1, 0, 10, 1, 1000, 0),
		task.New(2, 0, 5, 1, 1000, 0),
	)
	cfg := config.Default()
	_, err := Run(context.Background(), ts, FCFS, cfg, events.NopSink{})
	if err != nil {
		t.Fatal(err)
	}
	orig, _ := ts.Get(1)
	if orig.Remaining != 10 || orig.State != task.NEW {
		t.Fatalf("Run mutated the caller's task set: %+v", orig)
	}

	// Running the same nominal set again under a different policy must be unaffected
	// by the first run (spec §8 idempotence).
	rec2, err := Run(context.Background(), ts, SJF, cfg, events.NopSink{})
	if err != nil {
		t.Fatal(err)
	}
	if rec2.Len() == 0 {
		t.Fatal("second run produced no slices")
	}
}
