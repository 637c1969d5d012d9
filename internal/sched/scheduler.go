// internal/sched/scheduler.go

package sched

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrTaskNotFound is returned when no task carries the requested ID.
	ErrTaskNotFound = errors.New("task not found")
	// ErrAmbiguousID is returned when an ID prefix matches several tasks.
	ErrAmbiguousID = errors.New("ambiguous task id")
)

// Store persists the full task list.
type Store interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
}

// Scheduler orders tasks, ages the neglected ones and writes every change
// through to its Store.
type Scheduler struct {
	queue  *Queue      // tasks in service order
	store  Store       // written after every mutation
	clock  Clock       // source of "now" for deadlines and events
	logger *log.Logger // receives one line per event

	// history-related
	csvFile   *os.File
	csvWriter *csv.Writer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the event logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New creates an empty Scheduler backed by store.
func New(store Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		queue:  NewQueue(),
		store:  store,
		clock:  SystemClock{},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load creates a Scheduler from the tasks held in store.
// Deadline-bearing tasks get their base priority recomputed, and their
// current priority is capped by it. Tasks stored without an ID receive one
// and the list is written back so the IDs stay stable.
func Load(store Store, opts ...Option) (*Scheduler, error) {
	s := New(store, opts...)

	tasks, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	now := s.clock.Now()
	migrated := false
	for i := range tasks {
		t := tasks[i]
		if t.ID == "" {
			t.ID = NewTaskID()
			migrated = true
		} else if _, dup := s.queue.Get(t.ID); dup {
			t.ID = NewTaskID()
			migrated = true
		}
		t.Priority = clampPriority(t.Priority)
		t.BasePriority = clampPriority(t.BasePriority)
		t.Age = max(t.Age, 0)

		changed := reconcileDeadline(&t, now)
		s.queue.Push(&t)
		if changed {
			s.handleEvent(newEvent(now, StatusReconcile, &t))
		}
	}

	if migrated {
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// reconcileDeadline recomputes the base priority of a deadline-bearing task.
// A closer deadline can only lower the live priority, never raise it.
func reconcileDeadline(t *Task, now time.Time) bool {
	if t.Deadline == nil {
		return false
	}
	base := PriorityFromDeadline(*t.Deadline, now)
	changed := base != t.BasePriority
	t.BasePriority = base
	t.Priority = min(t.Priority, base)
	return changed
}

// EnableHistory appends every event to the CSV journal at path.
func (s *Scheduler) EnableHistory(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat history: %w", err)
	}

	w := csv.NewWriter(f)
	// write header on a fresh journal
	if info.Size() == 0 {
		w.Write(historyHeader)
		w.Flush()
	}
	s.csvFile = f
	s.csvWriter = w
	return nil
}

// Close flushes and closes the history journal, if any.
func (s *Scheduler) Close() error {
	if s.csvFile == nil {
		return nil
	}
	s.csvWriter.Flush()
	err := s.csvFile.Close()
	s.csvFile, s.csvWriter = nil, nil
	return err
}

// Len returns the number of tasks.
func (s *Scheduler) Len() int { return s.queue.Len() }

// Tasks returns a snapshot of all tasks in service order.
func (s *Scheduler) Tasks() []Task { return s.queue.Tasks() }

// Current returns the task that would be serviced next.
func (s *Scheduler) Current() (Task, bool) {
	t, ok := s.queue.PeekMin()
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Get returns the task with the given ID.
func (s *Scheduler) Get(id TaskID) (Task, bool) {
	t, ok := s.queue.Get(id)
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Find resolves a full ID or a unique ID prefix.
func (s *Scheduler) Find(prefix string) (Task, error) {
	if t, ok := s.Get(TaskID(prefix)); ok {
		return t, nil
	}
	var found []Task
	if prefix != "" {
		for _, t := range s.queue.Tasks() {
			if strings.HasPrefix(string(t.ID), prefix) {
				found = append(found, t)
			}
		}
	}
	switch len(found) {
	case 0:
		return Task{}, fmt.Errorf("%w: %q", ErrTaskNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return Task{}, fmt.Errorf("%w: %q matches %d tasks", ErrAmbiguousID, prefix, len(found))
	}
}

// NewTask creates a task using the scheduler's clock for deadline math.
func (s *Scheduler) NewTask(name string, priority int, deadline *time.Time) *Task {
	return newTaskAt(name, priority, deadline, s.clock.Now())
}

// Add enqueues a copy of t and persists. Duplicates are allowed; a task
// without an ID, or with one already in use, gets a fresh ID.
func (s *Scheduler) Add(t Task) (TaskID, error) {
	if _, dup := s.queue.Get(t.ID); dup || t.ID == "" {
		t.ID = NewTaskID()
	}
	t.Priority = clampPriority(t.Priority)
	t.BasePriority = clampPriority(t.BasePriority)

	s.queue.Push(&t)
	s.handleEvent(newEvent(s.clock.Now(), StatusEnqueue, &t))
	return t.ID, s.save()
}

// Remove deletes the task with the given ID and persists.
// NOTE: when nothing matches, the list is still written if it is empty;
// a non-empty list is left untouched and ErrTaskNotFound is returned.
func (s *Scheduler) Remove(id TaskID) error {
	if t, ok := s.queue.Remove(id); ok {
		s.handleEvent(newEvent(s.clock.Now(), StatusRemove, t))
		return s.save()
	}
	if s.queue.Len() == 0 {
		return s.save()
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// TogglePause flips the paused flag of the task with the given ID.
// The list is persisted whether or not the task was found.
func (s *Scheduler) TogglePause(id TaskID) error {
	var ev StatusEvent
	found := s.queue.Update(id, func(t *Task) {
		t.Paused = !t.Paused
		kind := StatusResume
		if t.Paused {
			kind = StatusPause
		}
		ev = newEvent(s.clock.Now(), kind, t)
	})
	if found {
		s.handleEvent(ev)
	}

	if err := s.save(); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return nil
}

// Step services the current task without completing it:
//   - the current task is reset to its base priority and requeued,
//   - every other task waits one more step,
//   - the longest-waiting unpaused task is aged.
func (s *Scheduler) Step() error {
	// 1) nothing to do on an empty list
	current, ok := s.queue.PopMin()
	if !ok {
		return nil
	}
	now := s.clock.Now()

	// 2) everyone else waited one more step
	s.queue.UpdateAll(func(t *Task) { t.Age++ })

	// 3) age the oldest eligible task. A lone waiting task is picked even
	//    when paused, in which case aging leaves it alone.
	if oldest := s.oldestWaiting(true); oldest != nil {
		s.age(now, oldest)
	}

	// 4) put the serviced task back at full strength
	current.Reset()
	s.queue.Push(current)
	s.handleEvent(newEvent(now, StatusDispatch, current))

	return s.save()
}

// StepAndFinish completes the current task and ages the longest-waiting
// remaining task, paused or not.
func (s *Scheduler) StepAndFinish() error {
	done, ok := s.queue.PopMin()
	if !ok {
		return nil
	}
	now := s.clock.Now()
	s.handleEvent(newEvent(now, StatusFinish, done))

	// don't do anything else if we removed the last task
	if s.queue.Len() == 0 {
		return s.save()
	}

	s.queue.UpdateAll(func(t *Task) { t.Age++ })
	if oldest := s.oldestWaiting(false); oldest != nil {
		s.age(now, oldest)
	}

	return s.save()
}

// oldestWaiting returns the task with the highest age, the last one in
// service order on ties. With eligibleOnly, paused tasks are skipped unless
// only one task is waiting. Returns nil when nothing qualifies.
func (s *Scheduler) oldestWaiting(eligibleOnly bool) *Task {
	tasks := s.queue.ordered()
	if len(tasks) == 1 {
		return tasks[0]
	}

	var oldest *Task
	for _, t := range tasks {
		if eligibleOnly && t.Paused {
			continue
		}
		if oldest == nil || t.Age >= oldest.Age {
			oldest = t
		}
	}
	if oldest == nil && len(tasks) > 0 {
		s.logger.Warn("no eligible task to age, every waiting task is paused", "waiting", len(tasks))
	}
	return oldest
}

func (s *Scheduler) age(now time.Time, t *Task) {
	if t.Paused {
		return
	}
	s.queue.Update(t.ID, (*Task).ApplyAging)
	s.handleEvent(newEvent(now, StatusAge, t))
}

func (s *Scheduler) save() error {
	if err := s.store.Save(s.queue.Tasks()); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

var historyHeader = []string{"timestamp", "event", "task_id", "name", "priority", "age"}

func (s *Scheduler) handleEvent(ev StatusEvent) {
	s.logger.Debug(ev.Kind.String(),
		"task", ev.TaskID.Short(),
		"name", ev.Name,
		"priority", ev.Priority,
		"age", ev.Age,
	)

	// CSV output
	if s.csvWriter != nil {
		rec := []string{
			ev.Time.Format(time.RFC3339Nano),
			ev.Kind.String(),
			string(ev.TaskID),
			ev.Name,
			strconv.Itoa(ev.Priority),
			strconv.Itoa(ev.Age),
		}
		s.csvWriter.Write(rec)
		s.csvWriter.Flush()
		if err := s.csvWriter.Error(); err != nil {
			s.logger.Warn("write history", "err", err)
		}
	}
}
