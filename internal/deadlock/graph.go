// Package deadlock tracks lock ownership as a wait-for graph and periodically checks it
// for cycles (C6, spec §4.6), grounded on original_source/semaphores_pre_emption.cpp's
// two-semaphore circular-wait scenario and the spec's own iterative-DFS redesign note
// (§9 REDESIGN FLAGS: "per-DFS visited and recursion-stack bitmaps keyed by TaskId").
package deadlock

import (
	"sync"

	"schedlab/internal/events"
	"schedlab/internal/task"
)

// LockID identifies a mutex/semaphore in the graph by name.
type LockID = string

// Graph is the single graph-lock guarded owner/waiting map pair spec §4.6/§5 requires:
// every lock/trylock/unlock/sem_wait/sem_post call updates it, and the detector copies
// both maps under the same lock (snapshot) before running DFS on the copy.
type Graph struct {
	mu      sync.Mutex
	owner   map[LockID]task.ID
	waiting map[task.ID]LockID
	prio    map[task.ID]int // last known dynamic priority, for victim selection
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		owner:   make(map[LockID]task.ID),
		waiting: make(map[task.ID]LockID),
		prio:    make(map[task.ID]int),
	}
}

// SetOwner records that lock l is now held by t (called on grant, i.e. lock() success or
// unlock()'s handoff to the next waiter). With holds=false the entry is cleared only if t
// is the current owner.
func (g *Graph) SetOwner(l LockID, t task.ID, holds bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if holds {
		g.owner[l] = t
	} else if cur, ok := g.owner[l]; ok && cur == t {
		delete(g.owner, l)
	}
}

// ClearOwner unconditionally frees l, used by forced preemption once it has revoked
// ownership regardless of who last held it.
func (g *Graph) ClearOwner(l LockID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.owner, l)
}

// SetWaiting records that t is blocked waiting on l. Clear with ClearWaiting once t is
// granted the lock or otherwise stops waiting.
func (g *Graph) SetWaiting(t task.ID, l LockID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.waiting[t] = l
}

// ClearWaiting removes t's waiting edge, called the moment t is granted a lock.
func (g *Graph) ClearWaiting(t task.ID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.waiting, t)
}

// NotePriority records t's current dynamic priority for later victim selection; the
// scheduler calls this whenever a task's priority changes.
func (g *Graph) NotePriority(t task.ID, priority int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prio[t] = priority
}

// Owner reports the current owner of l, if any.
func (g *Graph) Owner(l LockID) (task.ID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.owner[l]
	return t, ok
}

// OwnedLock reports the lock t currently owns, if any — the reverse of Owner, used by
// RunULT's recovery step to find which lock a chosen victim must be forced to release (spec
// §4.7: the victim's *held* lock, not the one it's waiting for).
func (g *Graph) OwnedLock(t task.ID) (LockID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for l, o := range g.owner {
		if o == t {
			return l, true
		}
	}
	return "", false
}

// WaitingOn reports the lock t is currently blocked on, if any.
func (g *Graph) WaitingOn(t task.ID) (LockID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.waiting[t]
	return l, ok
}

// snapshot copies both maps under the graph-lock so DFS can run lock-free afterward.
func (g *Graph) snapshot() (owner map[LockID]task.ID, waiting map[task.ID]LockID, prio map[task.ID]int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	owner = make(map[LockID]task.ID, len(g.owner))
	for k, v := range g.owner {
		owner[k] = v
	}
	waiting = make(map[task.ID]LockID, len(g.waiting))
	for k, v := range g.waiting {
		waiting[k] = v
	}
	prio = make(map[task.ID]int, len(g.prio))
	for k, v := range g.prio {
		prio[k] = v
	}
	return
}

// Detect builds wait_for: Task -> Task = {t -> owner[waiting[t]]} from a fresh snapshot
// and reports the first cycle found by iterative DFS (spec §4.6/§9: per-DFS visited and
// recursion-stack sets keyed by task id, O(V+E), no recursion). Detect never mutates
// state and never releases locks — that's the Controller's job (§4.7).
func (g *Graph) Detect() (cycle []task.ID, found bool) {
	owner, waiting, _ := g.snapshot()

	waitFor := make(map[task.ID]task.ID, len(waiting))
	for t, l := range waiting {
		if o, ok := owner[l]; ok {
			waitFor[t] = o
		}
	}

	visited := make(map[task.ID]bool, len(waitFor))
	onStack := make(map[task.ID]bool, len(waitFor))

	for start := range waitFor {
		if visited[start] {
			continue
		}
		if c, ok := dfsCycle(start, waitFor, visited, onStack); ok {
			return c, true
		}
	}
	return nil, false
}

// dfsCycle walks the single-successor chain from start (wait_for is a functional graph:
// each task waits on at most one lock, hence at most one successor), using an explicit
// stack of visited nodes in call order so a repeat hit can be sliced into the cycle.
func dfsCycle(start task.ID, waitFor map[task.ID]task.ID, visited, onStack map[task.ID]bool) ([]task.ID, bool) {
	var path []task.ID
	cur := start
	for {
		if onStack[cur] {
			// cur is where the cycle closes; slice path from cur's first occurrence.
			for i, id := range path {
				if id == cur {
					return append([]task.ID(nil), path[i:]...), true
				}
			}
			return nil, false
		}
		if visited[cur] {
			return nil, false
		}
		visited[cur] = true
		onStack[cur] = true
		path = append(path, cur)

		next, ok := waitFor[cur]
		if !ok {
			for _, id := range path {
				onStack[id] = false
			}
			return nil, false
		}
		cur = next
	}
}

// Victim selects, from a detected cycle, the task with the lowest priority, tying by
// highest id (spec §4.6, and the Open Question this repo resolves that way).
func Victim(cycle []task.ID, prio map[task.ID]int) task.ID {
	best := cycle[0]
	for _, id := range cycle[1:] {
		bp, ip := prio[best], prio[id]
		if ip < bp || (ip == bp && id > best) {
			best = id
		}
	}
	return best
}

// PriorityOf reports the last-known priority recorded via NotePriority for one task.
func (g *Graph) PriorityOf(t task.ID) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prio[t]
}

// PriorityMap returns a snapshot of every task's last-known priority.
func (g *Graph) PriorityMap() map[task.ID]int {
	_, _, prio := g.snapshot()
	return prio
}

// DeadlockEvent builds the DeadlockDetected event for a found cycle (spec §5's sink
// contract: structured, tagged variants, no free-form strings).
func DeadlockEvent(cycle []task.ID) events.Event {
	return events.Event{Kind: events.KindDeadlockDetected, Cycle: append([]task.ID(nil), cycle...)}
}
