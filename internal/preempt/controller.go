// Package preempt implements the forced-preemption recovery protocol (C7, spec §4.7):
// pause a deadlock victim, give it a grace window to release cooperatively, force-release
// its lock if it hasn't, then resume it. Grounded on
// original_source/semaphores_pre_emption.cpp's PreemptorProc, translated from suspend/
// resume of a Win32 thread handle into the atomic pause flag and channel-handshake resume
// this repo's ULT runtime already provides.
package preempt

import (
	"time"

	"schedlab/internal/deadlock"
	"schedlab/internal/events"
	"schedlab/internal/task"
	"schedlab/internal/ultrt"
	"schedlab/internal/ultsync"
)

// Controller owns the one capability token that can force-release a mutex outside its
// owner (spec §9's "distinguished force_release operation gated behind a capability
// token"); nothing else in the process is allowed to mint one.
type Controller struct {
	token     ultsync.ForceReleaseToken
	graceWait time.Duration
	sink      events.Sink
}

// NewController returns a Controller with the given grace window (spec default 300
// ms-equivalents, config.PreemptionGraceMS).
func NewController(graceMS int64, sink events.Sink) *Controller {
	return &Controller{
		token:     ultsync.NewForceReleaseToken(),
		graceWait: time.Duration(graceMS) * time.Millisecond,
		sink:      sink,
	}
}

func (c *Controller) emit(e events.Event) {
	if c.sink == nil {
		return
	}
	c.sink.Emit(e)
}

// Recover runs the four-step protocol of spec §4.7 against a victim that owns lockName
// on the given mutex and Blocker:
//  1. mark victim paused (visible via the handle's atomic flag)
//  2. sleep the grace window, letting the victim's own run-loop notice and release
//  3. if still held, force-release it and clear graph state
//  4. resume the victim, which will re-acquire any lock it still needs normally
//
// RunULT's dispatch loop checks h.Paused on each task it pops off the ready queue and
// puts it back undispatched while true, though in this single-threaded cooperative model Recover always
// resolves the flag back to false before returning, since it performs the release/graph
// update synchronously between steps 1 and 4 with nothing else able to run concurrently.
func (c *Controller) Recover(h *ultrt.Handle, victim task.ID, lockName string, m *ultsync.Mutex, g *deadlock.Graph, b ultsync.Blocker) {
	h.Paused.Store(true)

	if c.graceWait > 0 {
		time.Sleep(c.graceWait)
	}

	if _, held := m.Owner(); held {
		m.ForceRelease(b, c.token)
		g.ClearOwner(lockName)
		c.emit(events.Event{Kind: events.KindForcedRelease, LockName: lockName, Victim: victim})
	}

	h.Paused.Store(false)
}
