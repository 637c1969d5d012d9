package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nasin/internal/sched"
)

const (
	fieldName = iota
	fieldPriority
	fieldDate
	fieldCount
)

// form collects the name, priority and deadline of a new task.
type form struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newForm() *form {
	f := &form{}
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 40
		f.inputs[i] = ti
	}
	f.inputs[fieldName].Prompt = "Name: "
	f.inputs[fieldPriority].Prompt = "Priority: "
	f.inputs[fieldPriority].Placeholder = "1"
	f.inputs[fieldDate].Prompt = "Date: "
	f.inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	return f
}

func (f *form) open() tea.Cmd {
	f.focus = fieldName
	return tea.Batch(f.inputs[fieldName].Focus(), textinput.Blink)
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.focus = fieldName
}

// focusNext and focusPrev stop at the first and last field.
func (f *form) focusNext() tea.Cmd {
	return f.setFocus(min(f.focus+1, fieldCount-1))
}

func (f *form) focusPrev() tea.Cmd {
	return f.setFocus(max(f.focus-1, fieldName))
}

func (f *form) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) view() string {
	lines := make([]string, 0, fieldCount)
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	return strings.Join(lines, "\n")
}

// task builds the task described by the form. An empty priority means
// defaultPriority and non-numeric text means 1; an out-of-range priority or
// an unreadable date is an error.
func (f *form) task(s *sched.Scheduler, defaultPriority int, loc *time.Location) (*sched.Task, error) {
	priority := defaultPriority
	if v := strings.TrimSpace(f.inputs[fieldPriority].Value()); v != "" {
		p, err := sched.ParsePriority(v)
		if err != nil {
			return nil, err
		}
		priority = p
	}
	deadline, err := sched.ParseDeadline(f.inputs[fieldDate].Value(), loc)
	if err != nil {
		return nil, err
	}
	return s.NewTask(f.inputs[fieldName].Value(), priority, deadline), nil
}
