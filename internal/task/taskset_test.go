package task

import (
	"errors"
	"strings"
	"testing"

	"schedlab/internal/schederr"
)

func TestNewSetRejectsDuplicateID(t *testing.T) {
	_, err := NewSet([]*Task{
		New(1, 0, 10, 1, 100, 0),
		New(1, 5, 10, 1, 100, 0),
	})
	if !errors.Is(err, schederr.ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
}

func TestNewSetRejectsBadDeadline(t *testing.T) {
	_, err := NewSet([]*Task{New(1, 0, 10, 1, 5, 0)})
	if !errors.Is(err, schederr.ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for deadline < arrival+burst, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s, err := NewSet([]*Task{New(1, 0, 10, 1, 100, 0)})
	if err != nil {
		t.Fatal(err)
	}
	clone := s.Clone()
	ct, _ := clone.Get(1)
	ct.Remaining = 3

	orig, _ := s.Get(1)
	if orig.Remaining != 10 {
		t.Fatalf("mutating clone leaked into original: got %d want 10", orig.Remaining)
	}
}

func TestSortedByArrivalTieBreaksByID(t *testing.T) {
	s, err := NewSet([]*Task{
		New(2, 5, 10, 1, 100, 0),
		New(1, 5, 10, 1, 100, 0),
		New(3, 0, 10, 1, 100, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	got := s.SortedByArrival()
	want := []ID{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedByArrival() = %v, want %v", got, want)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	s, err := NewSet([]*Task{
		New(1, 0, 25, 10, 1000, 0),
		New(2, 5, 15, 5, 1000, -2),
	})
	if err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := s.WriteCSV(&sb); err != nil {
		t.Fatal(err)
	}

	round, err := ParseCSV(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	if round.Len() != s.Len() {
		t.Fatalf("round-tripped set has %d tasks, want %d", round.Len(), s.Len())
	}
	rt, _ := round.Get(2)
	if rt.Nice != -2 || rt.BasePriority != 5 || rt.Burst != 15 || rt.Arrival != 5 {
		t.Fatalf("round-tripped task 2 mismatch: %+v", rt)
	}
}

func TestParseCSVMissingColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("id,priority,burst,arrival\n1,1,10,0\n"))
	if !errors.Is(err, schederr.ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for missing deadline column, got %v", err)
	}
}

func TestWeight(t *testing.T) {
	if Weight(0) != 1024 {
		t.Fatalf("Weight(0) = %v, want 1024", Weight(0))
	}
	if Weight(1) != 512 {
		t.Fatalf("Weight(1) = %v, want 512", Weight(1))
	}
	if Weight(-1) != 2048 {
		t.Fatalf("Weight(-1) = %v, want 2048", Weight(-1))
	}
}
