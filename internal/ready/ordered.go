package ready

import (
	"github.com/emirpasic/gods/trees/redblacktree"

	"schedlab/internal/task"
)

// Key is the ordering key extracted from a task for an Ordered queue. Ties are always
// broken by id ascending by embedding id in the comparator, not in Key itself, so callers
// only need to supply the policy-specific primary key.
type Key func(t *task.Task) float64

type orderedEntry struct {
	key float64
	id  task.ID
}

// Ordered is a tree-backed ready structure keyed by (Key(t) asc, id asc) — the shape
// spec §4.3 specifies for SJF (remaining), Priority (negated priority, so higher
// priority sorts first), EDF (deadline) and CFS (vruntime). Grounded directly on
// vrunq/internal/sched/scheduler.go's redblacktree.NewWith(cmp) over a {vruntime, id}
// key, generalized from "vruntime" to an arbitrary Key func.
type Ordered struct {
	tree *redblacktree.Tree
	key  Key
	byID map[task.ID]*task.Task
}

// NewOrdered returns an empty Ordered queue using key as the primary ordering function.
func NewOrdered(key Key) *Ordered {
	return &Ordered{
		tree: redblacktree.NewWith(orderedCmp),
		key:  key,
		byID: make(map[task.ID]*task.Task),
	}
}

func orderedCmp(a, b any) int {
	ka, kb := a.(orderedEntry), b.(orderedEntry)
	switch {
	case ka.key < kb.key:
		return -1
	case ka.key > kb.key:
		return 1
	case ka.id < kb.id:
		return -1
	case ka.id > kb.id:
		return 1
	default:
		return 0
	}
}

// Insert adds t, computing its key at insertion time. Re-inserting after a key change
// (e.g. CFS vruntime update) requires Remove then Insert; the queue does not track
// staleness itself.
func (o *Ordered) Insert(t *task.Task) {
	o.tree.Put(orderedEntry{key: o.key(t), id: t.ID}, t)
	o.byID[t.ID] = t
}

// PopNext removes and returns the minimum-key entry.
func (o *Ordered) PopNext() (*task.Task, bool) {
	node := o.tree.Left()
	if node == nil {
		return nil, false
	}
	entry := node.Key.(orderedEntry)
	t := node.Value.(*task.Task)
	o.tree.Remove(entry)
	delete(o.byID, entry.id)
	return t, true
}

// Peek returns the minimum-key entry without removing it.
func (o *Ordered) Peek() (*task.Task, bool) {
	node := o.tree.Left()
	if node == nil {
		return nil, false
	}
	return node.Value.(*task.Task), true
}

// IsEmpty reports whether the tree holds no tasks.
func (o *Ordered) IsEmpty() bool { return o.tree.Size() == 0 }

// Contains reports whether id is currently in the tree.
func (o *Ordered) Contains(id task.ID) bool {
	_, ok := o.byID[id]
	return ok
}

// Len returns the number of entries in the tree.
func (o *Ordered) Len() int { return o.tree.Size() }

// MinKey returns the smallest key currently in the tree, used by CFS to seed a new
// arrival's vruntime without granting it an advantage over tasks already waiting
// (§9 Open Question: Linux-like min_vruntime inheritance, the choice this repo makes).
func (o *Ordered) MinKey() (float64, bool) {
	node := o.tree.Left()
	if node == nil {
		return 0, false
	}
	return node.Key.(orderedEntry).key, true
}

// Remove drops a task from the tree given the key it was inserted under, so a task whose
// ordering key changed in place can be re-sorted by a following Insert.
func (o *Ordered) Remove(t *task.Task, oldKey float64) {
	o.tree.Remove(orderedEntry{key: oldKey, id: t.ID})
	delete(o.byID, t.ID)
}

// Rebalance applies update to every task currently in the tree and re-sorts it under
// the resulting key. Used by Priority's aging post-hook (spec §4.5: "for every other
// READY task x, x.priority += AG"), which must reshuffle the whole tree since the
// ordering key changed for every remaining entry.
func (o *Ordered) Rebalance(update func(t *task.Task)) {
	tasks := make([]*task.Task, 0, len(o.byID))
	for _, t := range o.byID {
		tasks = append(tasks, t)
	}
	o.tree.Clear()
	o.byID = make(map[task.ID]*task.Task, len(tasks))
	for _, t := range tasks {
		update(t)
		o.Insert(t)
	}
}

// Visit calls fn for every task currently in the tree, in no particular order, without
// mutating ordering keys, for read-only inspection where a Rebalance would be overkill.
func (o *Ordered) Visit(fn func(t *task.Task)) {
	for _, t := range o.byID {
		fn(t)
	}
}
