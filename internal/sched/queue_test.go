package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Name)
	}
	return out
}

func TestQueueOrdering(t *testing.T) {
	q := NewQueue()
	q.Push(&Task{ID: "1", Name: "late", Priority: 9})
	q.Push(&Task{ID: "2", Name: "young", Priority: 3, Age: 0})
	q.Push(&Task{ID: "3", Name: "old", Priority: 3, Age: 5})
	q.Push(&Task{ID: "4", Name: "urgent", Priority: 1})
	q.Push(&Task{ID: "5", Name: "young twin", Priority: 3, Age: 0})

	assert.Equal(t, []string{"urgent", "old", "young", "young twin", "late"}, names(q.Tasks()))
	assert.Equal(t, 5, q.Len())
}

func TestQueuePeekAndPopMin(t *testing.T) {
	q := NewQueue()
	_, ok := q.PeekMin()
	assert.False(t, ok)
	_, ok = q.PopMin()
	assert.False(t, ok)

	q.Push(&Task{ID: "a", Name: "a", Priority: 2})
	q.Push(&Task{ID: "b", Name: "b", Priority: 1})

	top, ok := q.PeekMin()
	require.True(t, ok)
	assert.Equal(t, "b", top.Name)
	assert.Equal(t, 2, q.Len())

	top, ok = q.PopMin()
	require.True(t, ok)
	assert.Equal(t, "b", top.Name)
	assert.Equal(t, 1, q.Len())
	_, ok = q.Get("b")
	assert.False(t, ok)
}

func TestQueuePushGoesBehindEquals(t *testing.T) {
	q := NewQueue()
	first := &Task{ID: "a", Name: "a", Priority: 4}
	q.Push(first)
	q.Push(&Task{ID: "b", Name: "b", Priority: 4})

	popped, _ := q.PopMin()
	q.Push(popped)
	assert.Equal(t, []string{"b", "a"}, names(q.Tasks()))
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()
	q.Push(&Task{ID: "a", Name: "a", Priority: 1})
	q.Push(&Task{ID: "b", Name: "b", Priority: 2})

	removed, ok := q.Remove("a")
	require.True(t, ok)
	assert.Equal(t, "a", removed.Name)
	assert.Equal(t, []string{"b"}, names(q.Tasks()))

	_, ok = q.Remove("a")
	assert.False(t, ok)
}

func TestQueueUpdateRepositions(t *testing.T) {
	q := NewQueue()
	q.Push(&Task{ID: "a", Name: "a", Priority: 1})
	q.Push(&Task{ID: "b", Name: "b", Priority: 5})

	ok := q.Update("b", func(t *Task) { t.Priority = 0 })
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, names(q.Tasks()))

	assert.False(t, q.Update("missing", func(*Task) {}))
}

func TestQueueUpdateAllKeepsTieOrder(t *testing.T) {
	q := NewQueue()
	q.Push(&Task{ID: "a", Name: "a", Priority: 3})
	q.Push(&Task{ID: "b", Name: "b", Priority: 3})
	q.Push(&Task{ID: "c", Name: "c", Priority: 2})

	q.UpdateAll(func(t *Task) { t.Age++ })

	tasks := q.Tasks()
	assert.Equal(t, []string{"c", "a", "b"}, names(tasks))
	for _, task := range tasks {
		assert.Equal(t, 1, task.Age)
	}
	// tree keys follow the mutation
	got, ok := q.Get("b")
	require.True(t, ok)
	assert.Equal(t, 1, got.Age)
}

func TestQueueTasksAreCopies(t *testing.T) {
	q := NewQueue()
	q.Push(&Task{ID: "a", Name: "a", Priority: 3})

	tasks := q.Tasks()
	tasks[0].Priority = 100

	got, _ := q.Get("a")
	assert.Equal(t, 3, got.Priority)
}
