// Package tui provides the interactive terminal task list.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"nasin/internal/sched"
)

// Option configures the TUI behavior.
type Option func(*Model)

// WithDefaultPriority sets the priority used when the form leaves it empty.
func WithDefaultPriority(p int) Option {
	return func(m *Model) {
		m.defaultPriority = p
	}
}

// WithLocation sets the time zone deadlines are typed and shown in.
func WithLocation(loc *time.Location) Option {
	return func(m *Model) {
		m.loc = loc
	}
}

// Run starts the TUI on s and blocks until the user quits.
func Run(ctx context.Context, s *sched.Scheduler, opts ...Option) error {
	program := tea.NewProgram(New(s, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

type mode int

const (
	modeList mode = iota
	modeAdd
)

// Model is the bubbletea model. It owns the scheduler for the lifetime of
// the program.
type Model struct {
	sched           *sched.Scheduler
	tasks           []sched.Task
	cursor          int
	mode            mode
	form            *form
	status          string
	err             error
	defaultPriority int
	loc             *time.Location
}

// New builds a model over s.
func New(s *sched.Scheduler, opts ...Option) *Model {
	m := &Model{
		sched:           s,
		defaultPriority: sched.MinPriority,
		loc:             time.Local,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.form = newForm()
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeAdd {
			return m, m.form.update(msg)
		}
		return m, nil
	}
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode == modeAdd {
		return m, m.updateForm(key)
	}
	return m, m.updateList(key)
}

func (m *Model) updateList(key tea.KeyMsg) tea.Cmd {
	m.status = ""
	switch key.String() {
	case "q", "esc":
		return tea.Quit
	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case "s":
		return m.apply(m.sched.Step)
	case "f":
		return m.apply(m.sched.StepAndFinish)
	case "p":
		if t, ok := m.selected(); ok {
			return m.apply(func() error { return m.sched.TogglePause(t.ID) })
		}
	case "d":
		if t, ok := m.selected(); ok {
			return m.apply(func() error { return m.sched.Remove(t.ID) })
		}
	case "a":
		m.mode = modeAdd
		return m.form.open()
	}
	return nil
}

func (m *Model) updateForm(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		m.closeForm()
		return nil
	case "enter":
		task, err := m.form.task(m.sched, m.defaultPriority, m.loc)
		m.closeForm()
		if err != nil {
			m.status = "task not added: " + err.Error()
			return nil
		}
		return m.apply(func() error {
			_, err := m.sched.Add(*task)
			return err
		})
	case "tab", "down":
		return m.form.focusNext()
	case "shift+tab", "up":
		return m.form.focusPrev()
	}
	return m.form.update(key)
}

func (m *Model) closeForm() {
	m.form.reset()
	m.mode = modeList
}

// apply runs a scheduler operation. Any failure ends the program, since the
// task file can no longer be trusted to match what is shown.
func (m *Model) apply(op func() error) tea.Cmd {
	if err := op(); err != nil {
		m.err = err
		return tea.Quit
	}
	m.refresh()
	return nil
}

func (m *Model) refresh() {
	m.tasks = m.sched.Tasks()
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m *Model) selected() (sched.Task, bool) {
	if len(m.tasks) == 0 {
		return sched.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	highlightStyle = cellStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("229"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m *Model) View() string {
	var b strings.Builder
	if m.mode == modeAdd {
		b.WriteString(titleStyle.Render("Add Task...") + "\n\n")
		b.WriteString(m.form.view() + "\n\n")
		writeKeys(&b, "Next", "<Tab>", "Previous", "<S-Tab>", "Add", "<Enter>", "Quit", "<Esc>")
		return b.String()
	}

	b.WriteString(titleStyle.Render("Nasin") + "\n\n")
	if len(m.tasks) == 0 {
		b.WriteString("No tasks. Press a to add one.\n")
	} else {
		b.WriteString(m.renderTable() + "\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n")
	writeKeys(&b,
		"Down", "<j/Down>",
		"Up", "<k/Up>",
		"Step", "<s>",
		"Finish", "<f>",
		"Toggle Pause", "<p>",
		"Remove", "<d>",
		"Add", "<a>",
		"Quit", "<q/Esc>",
	)
	return b.String()
}

func (m *Model) renderTable() string {
	rows := make([][]string, 0, len(m.tasks))
	for _, t := range m.tasks {
		paused := "[ ]"
		if t.Paused {
			paused = "[P]"
		}
		deadline := "-"
		if t.Deadline != nil {
			deadline = t.Deadline.In(m.loc).Format(sched.DateLayout)
		}
		rows = append(rows, []string{paused, t.Name, strconv.Itoa(t.Priority), deadline})
	}

	return table.New().
		Border(lipgloss.ThickBorder()).
		Headers("P?", "Name", "Priority", "Deadline").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == m.cursor:
				return highlightStyle
			default:
				return cellStyle
			}
		}).
		Render()
}

func writeKeys(b *strings.Builder, pairs ...string) {
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(fmt.Sprintf(" %s %s", pairs[i], keyStyle.Render(pairs[i+1])))
	}
	b.WriteString("\n")
}
