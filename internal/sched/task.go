package sched

import (
	"time"

	"github.com/google/uuid"
)

// Priority bounds. Lower numbers are serviced first.
const (
	MinPriority = 1
	MaxPriority = 255
)

// TaskID uniquely identifies a task in the scheduler.
type TaskID string

// NewTaskID returns a fresh random identifier.
func NewTaskID() TaskID {
	return TaskID(uuid.NewString())
}

// Short returns the first eight characters of the ID for display.
func (id TaskID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// Task represents one schedulable item on the list.
type Task struct {
	ID           TaskID     `json:"id"`
	Name         string     `json:"name"`
	Priority     int        `json:"priority"`      // 1 - 255, where 1 is serviced first
	Paused       bool       `json:"paused"`        // paused tasks never decay
	Deadline     *time.Time `json:"deadline"`      // optional, overrides BasePriority
	Age          int        `json:"age"`           // steps spent waiting since last aged or reset
	BasePriority int        `json:"base_priority"` // restored by Reset
}

// NewTask creates a new task with a fresh ID.
// NOTE: when a deadline is given, the explicit priority is ignored.
func NewTask(name string, priority int, deadline *time.Time) *Task {
	return newTaskAt(name, priority, deadline, time.Now())
}

func newTaskAt(name string, priority int, deadline *time.Time, now time.Time) *Task {
	if deadline != nil {
		priority = PriorityFromDeadline(*deadline, now)
	}
	priority = clampPriority(priority)

	return &Task{
		ID:           NewTaskID(),
		Name:         name,
		Priority:     priority,
		Deadline:     deadline,
		BasePriority: priority,
	}
}

// PriorityFromDeadline maps the whole days left until deadline onto the
// priority range. Past and same-day deadlines yield MinPriority.
func PriorityFromDeadline(deadline, now time.Time) int {
	days := int64(deadline.Sub(now) / (24 * time.Hour))
	if days > MaxPriority {
		return MaxPriority
	}
	if days < MinPriority {
		return MinPriority
	}
	return int(days)
}

// ApplyAging boosts a waiting task by one step. Paused tasks are left untouched.
func (t *Task) ApplyAging() {
	if t.Paused {
		return
	}
	t.Age = 0
	t.Priority = max(t.Priority-1, MinPriority)
}

// Reset returns the task to its baseline after it has been serviced.
func (t *Task) Reset() {
	t.Age = 0
	t.Priority = t.BasePriority
}

// Equal reports whether two tasks carry the same scheduling state,
// ignoring ID and deadline. Used for duplicate detection only.
func (t Task) Equal(o Task) bool {
	return t.Name == o.Name &&
		t.Priority == o.Priority &&
		t.BasePriority == o.BasePriority &&
		t.Age == o.Age &&
		t.Paused == o.Paused
}

// Compare orders tasks by priority, then by age with older tasks first.
// A negative result means a is serviced before b.
func Compare(a, b Task) int {
	return cmp(a.Priority, a.Age, b.Priority, b.Age)
}

func cmp(pa, aa, pb, ab int) int {
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	case aa > ab:
		return -1
	case aa < ab:
		return 1
	default:
		return 0
	}
}

func clampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	} else if p > MaxPriority {
		return MaxPriority
	}
	return p
}
