package task

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"schedlab/internal/schederr"
)

// Set is an ordered, validated collection of tasks, keyed by ID.
type Set struct {
	order []ID
	byID  map[ID]*Task
}

// NewSet builds a Set from tasks, validating §3's invariants at construction time
// (spec §7: "validation errors are reported at submit and do not start the run").
func NewSet(tasks []*Task) (*Set, error) {
	s := &Set{byID: make(map[ID]*Task, len(tasks))}
	for _, t := range tasks {
		if err := s.Add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add validates and inserts a single task, preserving submission order.
func (s *Set) Add(t *Task) error {
	if s.byID == nil {
		s.byID = make(map[ID]*Task)
	}
	if _, dup := s.byID[t.ID]; dup {
		return schederr.Wrap(schederr.ErrInvalidTask, fmt.Sprintf("duplicate task id %d", t.ID))
	}
	if t.Burst <= 0 {
		return schederr.Wrap(schederr.ErrInvalidTask, fmt.Sprintf("task %d: burst must be > 0", t.ID))
	}
	if t.Arrival < 0 {
		return schederr.Wrap(schederr.ErrInvalidTask, fmt.Sprintf("task %d: arrival must be >= 0", t.ID))
	}
	if t.Deadline < t.Arrival+t.Burst {
		return schederr.Wrap(schederr.ErrInvalidTask, fmt.Sprintf("task %d: deadline < arrival+burst", t.ID))
	}
	s.byID[t.ID] = t
	s.order = append(s.order, t.ID)
	return nil
}

// Tasks returns tasks in submission order.
func (s *Set) Tasks() []*Task {
	out := make([]*Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Get looks up a task by id.
func (s *Set) Get(id ID) (*Task, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// Len returns the number of tasks.
func (s *Set) Len() int { return len(s.order) }

// Clone deep-copies every task, so the same nominal Set can be run against multiple
// policies without one run's mutation of Remaining/Priority/Vruntime leaking into
// another (spec §8: identical task set submitted twice yields identical results).
func (s *Set) Clone() *Set {
	clone := &Set{byID: make(map[ID]*Task, len(s.order)), order: append([]ID(nil), s.order...)}
	for id, t := range s.byID {
		cp := *t
		clone.byID[id] = &cp
	}
	return clone
}

// ParseCSV reads the §6 task-set format: header "id,priority,burst,arrival,deadline[,nice]".
func ParseCSV(r io.Reader) (*Set, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse task set csv: %w", err)
	}
	if len(records) == 0 {
		return nil, schederr.Wrap(schederr.ErrInvalidTask, "empty task set csv")
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	required := []string{"id", "priority", "burst", "arrival", "deadline"}
	for _, r := range required {
		if _, ok := col[r]; !ok {
			return nil, schederr.Wrap(schederr.ErrInvalidTask, fmt.Sprintf("missing column %q", r))
		}
	}
	niceCol, hasNice := col["nice"]

	tasks := make([]*Task, 0, len(records)-1)
	for _, rec := range records[1:] {
		id, err := strconv.ParseInt(rec[col["id"]], 10, 64)
		if err != nil {
			return nil, schederr.Wrap(schederr.ErrInvalidTask, "bad id column")
		}
		priority, err := strconv.Atoi(rec[col["priority"]])
		if err != nil {
			return nil, schederr.Wrap(schederr.ErrInvalidTask, "bad priority column")
		}
		burst, err := strconv.ParseInt(rec[col["burst"]], 10, 64)
		if err != nil {
			return nil, schederr.Wrap(schederr.ErrInvalidTask, "bad burst column")
		}
		arrival, err := strconv.ParseInt(rec[col["arrival"]], 10, 64)
		if err != nil {
			return nil, schederr.Wrap(schederr.ErrInvalidTask, "bad arrival column")
		}
		deadline, err := strconv.ParseInt(rec[col["deadline"]], 10, 64)
		if err != nil {
			return nil, schederr.Wrap(schederr.ErrInvalidTask, "bad deadline column")
		}
		nice := 0
		if hasNice && rec[niceCol] != "" {
			nice, err = strconv.Atoi(rec[niceCol])
			if err != nil {
				return nil, schederr.Wrap(schederr.ErrInvalidTask, "bad nice column")
			}
		}
		tasks = append(tasks, New(ID(id), arrival, burst, priority, deadline, nice))
	}
	return NewSet(tasks)
}

// WriteCSV serializes the set in submission order using the same §6 header, so
// ParseCSV(WriteCSV(s)) round-trips the original (spec §8 idempotence property).
func (s *Set) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "priority", "burst", "arrival", "deadline", "nice"}); err != nil {
		return err
	}
	for _, t := range s.Tasks() {
		rec := []string{
			strconv.FormatInt(int64(t.ID), 10),
			strconv.Itoa(t.BasePriority),
			strconv.FormatInt(t.Burst, 10),
			strconv.FormatInt(t.Arrival, 10),
			strconv.FormatInt(t.Deadline, 10),
			strconv.Itoa(t.Nice),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SortedByArrival returns task ids ordered by (arrival asc, id asc), the admission order
// spec §5 requires for arrivals landing "at" the same integer time.
func (s *Set) SortedByArrival() []ID {
	ids := append([]ID(nil), s.order...)
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.byID[ids[i]], s.byID[ids[j]]
		if a.Arrival != b.Arrival {
			return a.Arrival < b.Arrival
		}
		return a.ID < b.ID
	})
	return ids
}
