package ready

import "schedlab/internal/task"

// Band indices for MLQ's three static priority bands (spec §4.3).
const (
	BandLow = iota
	BandMedium
	BandHigh
)

// BandOf classifies a task's static priority into MLQ's three bands: low <=10,
// 10<medium<=20, high>20.
func BandOf(priority int) int {
	switch {
	case priority <= 10:
		return BandLow
	case priority <= 20:
		return BandMedium
	default:
		return BandHigh
	}
}

// MLQ implements strict priority between three static FIFO bands, non-preemptive within
// a band (spec §4.3/§4.5: a higher-band arrival does not preempt a running lower-band
// task — this repo's Open Question resolution).
type MLQ struct {
	bands [3]*FIFO
}

// NewMLQ returns an empty three-band MLQ ready structure.
func NewMLQ() *MLQ {
	return &MLQ{bands: [3]*FIFO{NewFIFO(), NewFIFO(), NewFIFO()}}
}

// Insert enqueues t into the FIFO band matching its static priority.
func (m *MLQ) Insert(t *task.Task) {
	m.bands[BandOf(t.BasePriority)].Insert(t)
}

// PopNext returns the head of the highest non-empty band.
func (m *MLQ) PopNext() (*task.Task, bool) {
	for b := BandHigh; b >= BandLow; b-- {
		if !m.bands[b].IsEmpty() {
			return m.bands[b].PopNext()
		}
	}
	return nil, false
}

// Peek returns the head of the highest non-empty band without removing it.
func (m *MLQ) Peek() (*task.Task, bool) {
	for b := BandHigh; b >= BandLow; b-- {
		if !m.bands[b].IsEmpty() {
			return m.bands[b].Peek()
		}
	}
	return nil, false
}

// IsEmpty reports whether every band is empty.
func (m *MLQ) IsEmpty() bool {
	for _, b := range m.bands {
		if !b.IsEmpty() {
			return false
		}
	}
	return true
}

// Contains reports whether id is enqueued in any band.
func (m *MLQ) Contains(id task.ID) bool {
	for _, b := range m.bands {
		if b.Contains(id) {
			return true
		}
	}
	return false
}

// Len returns the total number of enqueued tasks across all bands.
func (m *MLQ) Len() int {
	n := 0
	for _, b := range m.bands {
		n += b.Len()
	}
	return n
}
