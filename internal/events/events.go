// Package events defines the structured event contract (C9, spec §4.9): tagged variants
// with no free-form strings, plus a Sink interface and a zap-backed default sink.
package events

import "schedlab/internal/task"

// Kind tags an Event variant.
type Kind int

const (
	KindSliceRecorded Kind = iota
	KindTaskFinished
	KindPolicyStart
	KindPolicyEnd
	KindDeadlockDetected
	KindForcedRelease
	KindPriorityAdjusted
	KindDemoted
	KindBoosted
	KindDeadlineMiss
)

func (k Kind) String() string {
	switch k {
	case KindSliceRecorded:
		return "SliceRecorded"
	case KindTaskFinished:
		return "TaskFinished"
	case KindPolicyStart:
		return "PolicyStart"
	case KindPolicyEnd:
		return "PolicyEnd"
	case KindDeadlockDetected:
		return "DeadlockDetected"
	case KindForcedRelease:
		return "ForcedRelease"
	case KindPriorityAdjusted:
		return "PriorityAdjusted"
	case KindDemoted:
		return "Demoted"
	case KindBoosted:
		return "Boosted"
	case KindDeadlineMiss:
		return "DeadlineMiss"
	default:
		return "Unknown"
	}
}

// Event is a tagged union. Only the fields relevant to Kind are populated; zero values
// in the others carry no meaning.
type Event struct {
	Kind Kind

	Policy string
	TaskID task.ID
	Start  int64
	End    int64
	State  task.State

	OldPriority int
	NewPriority int

	OldLevel int
	NewLevel int

	LockName string
	Cycle    []task.ID
	Victim   task.ID

	Deadline int64
}

// Sink receives events as they happen. Implementations must not block the scheduler for
// long; the default sink logs synchronously but cheaply.
type Sink interface {
	Emit(Event)
}

// NopSink discards every event. Useful for tests that don't care about logging.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(Event) {}

// CollectorSink records every event in memory, in emission order — handy for tests that
// want to assert on the event stream without driving zap.
type CollectorSink struct {
	Events []Event
}

// Emit implements Sink.
func (c *CollectorSink) Emit(e Event) {
	c.Events = append(c.Events, e)
}
