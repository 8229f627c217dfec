package metrics

import (
	"strings"
	"testing"

	"schedlab/internal/task"
	"schedlab/internal/timeline"
)

// TestComputeMatchesFCFSScenario reuses spec §8 scenario S1's exact timeline to pin down
// the response/turnaround/waiting formulas.
func TestComputeMatchesFCFSScenario(t *testing.T) {
	ts, err := task.NewSet([]*task.Task{
		task.New(1, 0, 10, 1, 1000, 0),
		task.New(2, 0, 5, 1, 1000, 0),
		task.New(3, 0, 3, 1, 1000, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	tl := timeline.NewRecorder()
	tl.RecordSlice(1, 0, 10, task.RUNNING)
	tl.RecordSlice(2, 10, 15, task.RUNNING)
	tl.RecordSlice(3, 15, 18, task.RUNNING)

	rep := Compute("FCFS", ts, tl)
	if len(rep.Tasks) != 3 {
		t.Fatalf("Tasks = %+v, want 3 rows", rep.Tasks)
	}

	want := map[task.ID]struct{ resp, tat, wait int64 }{
		1: {0, 10, 0},
		2: {10, 15, 10},
		3: {15, 18, 15},
	}
	for _, row := range rep.Tasks {
		w := want[row.TaskID]
		if row.Response != w.resp || row.Turnaround != w.tat || row.Waiting != w.wait {
			t.Fatalf("task %d = %+v, want resp=%d tat=%d wait=%d", row.TaskID, row, w.resp, w.tat, w.wait)
		}
	}

	wantMeanResp := (0.0 + 10.0 + 15.0) / 3.0
	wantMeanTat := (10.0 + 15.0 + 18.0) / 3.0
	wantMeanWait := (0.0 + 10.0 + 15.0) / 3.0
	if abs(rep.MeanResponse-wantMeanResp) > 1e-9 {
		t.Fatalf("MeanResponse = %v, want %v", rep.MeanResponse, wantMeanResp)
	}
	if abs(rep.MeanTurnaround-wantMeanTat) > 1e-9 {
		t.Fatalf("MeanTurnaround = %v, want %v", rep.MeanTurnaround, wantMeanTat)
	}
	if abs(rep.MeanWaiting-wantMeanWait) > 1e-9 {
		t.Fatalf("MeanWaiting = %v, want %v", rep.MeanWaiting, wantMeanWait)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func TestComputeSkipsTasksWithNoRecordedSlices(t *testing.T) {
	ts, err := task.NewSet([]*task.Task{task.New(1, 0, 5, 1, 100, 0)})
	if err != nil {
		t.Fatal(err)
	}
	rep := Compute("FCFS", ts, timeline.NewRecorder())
	if len(rep.Tasks) != 0 {
		t.Fatalf("Tasks = %+v, want none (nothing recorded)", rep.Tasks)
	}
	if rep.MeanResponse != 0 {
		t.Fatalf("MeanResponse = %v, want 0 on an empty report", rep.MeanResponse)
	}
}

func TestComputeMergesSplitSlicesForOneTask(t *testing.T) {
	ts, err := task.NewSet([]*task.Task{task.New(1, 0, 10, 1, 100, 0)})
	if err != nil {
		t.Fatal(err)
	}
	tl := timeline.NewRecorder()
	tl.RecordSlice(1, 0, 4, task.RUNNING)
	tl.RecordSlice(1, 4, 10, task.RUNNING) // resumed after some other task's slice

	rep := Compute("RR", ts, tl)
	if len(rep.Tasks) != 1 {
		t.Fatalf("Tasks = %+v, want 1 row", rep.Tasks)
	}
	row := rep.Tasks[0]
	if row.FirstStart != 0 || row.Completion != 10 || row.Turnaround != 10 {
		t.Fatalf("merged row = %+v, want FirstStart=0 Completion=10 Turnaround=10", row)
	}
}

func TestWriteCSVFormatsTwoDecimals(t *testing.T) {
	reports := []Report{
		{Policy: "FCFS", MeanResponse: 8.333333, MeanTurnaround: 14.333333, MeanWaiting: 8.333333},
	}
	var sb strings.Builder
	if err := WriteCSV(&sb, reports); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "algorithm,response,turnaround,waiting") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, "FCFS,8.33,14.33,8.33") {
		t.Fatalf("missing formatted row: %q", out)
	}
}
