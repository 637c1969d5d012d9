// internal/sched/queue.go

package sched

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// Queue keeps tasks ordered by priority, then age, then insertion order.
// The leftmost node is the task to service next.
//
// Task fields that take part in ordering must only be changed through
// Update or UpdateAll, otherwise the tree loses track of the node.
type Queue struct {
	rbt  *redblacktree.Tree // red-black tree ordered by nodeKey
	keys map[TaskID]nodeKey // current tree key of every queued task
	seq  uint64             // insertion counter, breaks remaining ties
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		rbt:  redblacktree.NewWith(nodeCmp),
		keys: make(map[TaskID]nodeKey),
	}
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int { return q.rbt.Size() }

// Push inserts a task behind every task that compares equal to it.
func (q *Queue) Push(t *Task) {
	q.seq++
	q.put(t, q.seq)
}

// PeekMin returns the next task to service without removing it.
func (q *Queue) PeekMin() (*Task, bool) {
	node := q.rbt.Left()
	if node == nil {
		return nil, false
	}
	return node.Value.(*Task), true
}

// PopMin removes and returns the next task to service.
func (q *Queue) PopMin() (*Task, bool) {
	node := q.rbt.Left()
	if node == nil {
		return nil, false
	}
	t := node.Value.(*Task)
	q.rbt.Remove(node.Key)
	delete(q.keys, t.ID)
	return t, true
}

// Get returns the queued task with the given ID.
func (q *Queue) Get(id TaskID) (*Task, bool) {
	key, ok := q.keys[id]
	if !ok {
		return nil, false
	}
	v, found := q.rbt.Get(key)
	if !found {
		return nil, false
	}
	return v.(*Task), true
}

// Remove drops the task with the given ID.
func (q *Queue) Remove(id TaskID) (*Task, bool) {
	t, ok := q.Get(id)
	if !ok {
		return nil, false
	}
	q.rbt.Remove(q.keys[id])
	delete(q.keys, id)
	return t, true
}

// Update applies fn to one task and repositions it, keeping its place
// among tasks that still compare equal.
func (q *Queue) Update(id TaskID, fn func(*Task)) bool {
	t, ok := q.Get(id)
	if !ok {
		return false
	}
	key := q.keys[id]
	q.rbt.Remove(key)
	fn(t)
	q.put(t, key.seq)
	return true
}

// UpdateAll applies fn to every task in order and rebuilds the tree.
func (q *Queue) UpdateAll(fn func(*Task)) {
	tasks := q.ordered()
	keys := q.keys

	q.rbt.Clear()
	q.keys = make(map[TaskID]nodeKey, len(tasks))
	for _, t := range tasks {
		fn(t)
		q.put(t, keys[t.ID].seq)
	}
}

// Tasks returns copies of the queued tasks in service order.
func (q *Queue) Tasks() []Task {
	out := make([]Task, 0, q.rbt.Size())
	for _, t := range q.ordered() {
		out = append(out, *t)
	}
	return out
}

func (q *Queue) ordered() []*Task {
	out := make([]*Task, 0, q.rbt.Size())
	it := q.rbt.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*Task))
	}
	return out
}

func (q *Queue) put(t *Task, seq uint64) {
	key := nodeKey{priority: t.Priority, age: t.Age, seq: seq}
	q.rbt.Put(key, t)
	q.keys[t.ID] = key
}

// nodeKey is used as a key in the red-black tree.
type nodeKey struct {
	priority int
	age      int
	seq      uint64
}

// nodeCmp implements the Comparator interface for red-black tree ordering.
func nodeCmp(a, b any) int {
	ka, kb := a.(nodeKey), b.(nodeKey)
	if c := cmp(ka.priority, ka.age, kb.priority, kb.age); c != 0 {
		return c
	}
	switch {
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}
