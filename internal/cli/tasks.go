package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"nasin/internal/sched"
	"nasin/internal/storage"
)

var (
	listJSON    bool
	addPriority int
	addDeadline string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show tasks in service order",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		tasks := a.sched.Tasks()
		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(storage.Document{Tasks: tasks})
		}
		writeTasks(cmd.OutOrStdout(), tasks)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add NAME...",
	Short: "Add a task",
	Long: "Add a task. With --deadline the priority is derived from the days left\n" +
		"until the deadline and --priority is ignored.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		priority := a.cfg.DefaultPriority
		if cmd.Flags().Changed("priority") {
			priority = addPriority
		}
		if priority < sched.MinPriority || priority > sched.MaxPriority {
			return fmt.Errorf("%w: %d", sched.ErrPriorityRange, priority)
		}
		deadline, err := sched.ParseDeadline(addDeadline, time.Local)
		if err != nil {
			return err
		}

		task := a.sched.NewTask(strings.Join(args, " "), priority, deadline)
		id, err := a.sched.Add(*task)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s %q (priority %d)\n", id.Short(), task.Name, task.Priority)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm"},
	Short:   "Remove a task by ID or unique ID prefix",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.sched.Find(args[0])
		if err != nil {
			return err
		}
		if err := a.sched.Remove(t.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s %q\n", t.ID.Short(), t.Name)
		return nil
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause ID",
	Short: "Pause or resume a task by ID or unique ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.sched.Find(args[0])
		if err != nil {
			return err
		}
		if err := a.sched.TogglePause(t.ID); err != nil {
			return err
		}
		state := "paused"
		if t.Paused {
			state = "resumed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %q\n", state, t.ID.Short(), t.Name)
		return nil
	},
}

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Put the current task back and age the longest-waiting one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return advance(cmd.OutOrStdout(), (*sched.Scheduler).Step)
	},
}

var finishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Complete the current task and age the longest-waiting one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return advance(cmd.OutOrStdout(), (*sched.Scheduler).StepAndFinish)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print the task document as JSON")
	addCmd.Flags().IntVarP(&addPriority, "priority", "p", sched.MinPriority, "priority, 1 is serviced first; without the flag default_priority from the config applies")
	addCmd.Flags().StringVarP(&addDeadline, "deadline", "d", "", "deadline as YYYY-MM-DD")
}

// advance runs a scheduling operation and reports the new current task.
func advance(w io.Writer, op func(*sched.Scheduler) error) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.sched.Len() == 0 {
		fmt.Fprintln(w, "no tasks")
		return nil
	}
	if err := op(a.sched); err != nil {
		return err
	}
	if cur, ok := a.sched.Current(); ok {
		fmt.Fprintf(w, "next: %s %q (priority %d)\n", cur.ID.Short(), cur.Name, cur.Priority)
	} else {
		fmt.Fprintln(w, "all tasks finished")
	}
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func writeTasks(w io.Writer, tasks []sched.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID.Short(),
			pausedMark(t),
			t.Name,
			strconv.Itoa(t.Priority),
			formatDeadline(t),
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "P?", "Name", "Priority", "Deadline").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, tbl.Render())
}

func pausedMark(t sched.Task) string {
	if t.Paused {
		return "[P]"
	}
	return "[ ]"
}

func formatDeadline(t sched.Task) string {
	if t.Deadline == nil {
		return "-"
	}
	return t.Deadline.Local().Format(sched.DateLayout)
}
