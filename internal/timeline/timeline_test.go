package timeline

import (
	"strings"
	"testing"

	"schedlab/internal/task"
)

func TestRecordSliceAndForTask(t *testing.T) {
	r := NewRecorder()
	r.RecordSlice(1, 0, 5, task.RUNNING)
	r.RecordSlice(2, 5, 8, task.RUNNING)
	r.RecordSlice(1, 8, 10, task.RUNNING)

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	for1 := r.ForTask(1)
	if len(for1) != 2 || for1[0].Start != 0 || for1[1].Start != 8 {
		t.Fatalf("ForTask(1) = %+v", for1)
	}
}

func TestWriteCSV(t *testing.T) {
	r := NewRecorder()
	r.RecordSlice(1, 0, 5, task.RUNNING)

	var sb strings.Builder
	if err := r.WriteCSV(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "task_id,start,end,state") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, "1,0,5,RUNNING") {
		t.Fatalf("missing recorded slice row: %q", out)
	}
}
