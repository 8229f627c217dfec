package preempt

import (
	"testing"
	"time"

	"schedlab/internal/deadlock"
	"schedlab/internal/events"
	"schedlab/internal/task"
	"schedlab/internal/ultrt"
	"schedlab/internal/ultsync"
)

type fakeBlocker struct {
	current task.ID
	readied []task.ID
}

func (f *fakeBlocker) Current() task.ID { return f.current }
func (f *fakeBlocker) Block(id task.ID) {}
func (f *fakeBlocker) Ready(id task.ID) { f.readied = append(f.readied, id) }

func TestRecoverForceReleasesHeldLockAndGrantsNextWaiter(t *testing.T) {
	m := ultsync.NewMutex("A")
	owner := &fakeBlocker{current: 1}
	m.Lock(owner)
	waiter := &fakeBlocker{current: 2}
	m.Lock(waiter)

	g := deadlock.New()
	g.SetOwner("A", 1, true)
	g.SetWaiting(2, "A")

	coll := &events.CollectorSink{}
	c := NewController(0, coll)

	rt := ultrt.NewRuntime(64, 0)
	h, err := rt.Spawn(1, func(h *ultrt.Handle, arg any) {}, nil)
	if err != nil {
		t.Fatal(err)
	}

	c.Recover(h, 1, "A", m, g, owner)

	if owner, _ := m.Owner(); owner != 2 {
		t.Fatalf("Owner() after Recover = %v, want 2 (next waiter granted)", owner)
	}
	if len(owner.readied) != 1 || owner.readied[0] != 2 {
		t.Fatalf("Recover should ready waiter 2, got %v", owner.readied)
	}
	if _, held := g.Owner("A"); held {
		t.Fatal("graph should no longer show A as owned after ClearOwner")
	}
	if h.Paused.Load() {
		t.Fatal("handle should be unpaused once Recover returns")
	}

	foundEvent := false
	for _, e := range coll.Events {
		if e.Kind == events.KindForcedRelease && e.LockName == "A" && e.Victim == 1 {
			foundEvent = true
		}
	}
	if !foundEvent {
		t.Fatalf("expected a ForcedRelease{lock:A, victim:1} event, got %+v", coll.Events)
	}
}

func TestRecoverNoOpIfLockAlreadyReleased(t *testing.T) {
	m := ultsync.NewMutex("A")
	g := deadlock.New()
	coll := &events.CollectorSink{}
	c := NewController(0, coll)

	rt := ultrt.NewRuntime(64, 0)
	h, err := rt.Spawn(1, func(h *ultrt.Handle, arg any) {}, nil)
	if err != nil {
		t.Fatal(err)
	}

	c.Recover(h, 1, "A", m, g, &fakeBlocker{current: 1})

	for _, e := range coll.Events {
		if e.Kind == events.KindForcedRelease {
			t.Fatalf("should not emit ForcedRelease when the lock is already free, got %+v", e)
		}
	}
}

func TestRecoverPausesDuringGraceWindow(t *testing.T) {
	m := ultsync.NewMutex("A")
	owner := &fakeBlocker{current: 1}
	m.Lock(owner)

	g := deadlock.New()
	g.SetOwner("A", 1, true)

	c := NewController(20, events.NopSink{}) // 20ms grace window

	rt := ultrt.NewRuntime(64, 0)
	h, err := rt.Spawn(1, func(h *ultrt.Handle, arg any) {}, nil)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		c.Recover(h, 1, "A", m, g, owner)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	if !h.Paused.Load() {
		t.Fatal("handle should be paused during the grace window")
	}
	<-done
}
