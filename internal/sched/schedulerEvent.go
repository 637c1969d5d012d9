// internal/sched/schedulerEvent.go

package sched

import (
	"time"
)

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusEnqueue StatusKind = iota
	StatusRemove
	StatusPause
	StatusResume
	StatusDispatch
	StatusAge
	StatusFinish
	StatusReconcile
)

// StatusEvent is emitted on every change to a task
type StatusEvent struct {
	Time     time.Time
	Kind     StatusKind
	TaskID   TaskID
	Name     string
	Priority int
	Age      int
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusEnqueue:
		return "Enqueued"
	case StatusRemove:
		return "Removed"
	case StatusPause:
		return "Paused"
	case StatusResume:
		return "Resumed"
	case StatusDispatch:
		return "Dispatch"
	case StatusAge:
		return "Aged"
	case StatusFinish:
		return "Finish"
	case StatusReconcile:
		return "Reconcile"
	default:
		return "Unknown"
	}
}

func newEvent(now time.Time, kind StatusKind, t *Task) StatusEvent {
	return StatusEvent{
		Time:     now,
		Kind:     kind,
		TaskID:   t.ID,
		Name:     t.Name,
		Priority: t.Priority,
		Age:      t.Age,
	}
}
