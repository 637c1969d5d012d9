package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nasin/internal/sched"
	"nasin/internal/storage"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI against a private data directory.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--data-dir", dir,
		"--config", filepath.Join(dir, "config.yml"),
		"--log-level", "error",
	}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func listed(t *testing.T, dir string) []sched.Task {
	t.Helper()
	out, err := run(t, dir, "list", "--json")
	require.NoError(t, err)
	var doc storage.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	return doc.Tasks
}

func TestAddListStepFinish(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "add", "write", "report", "-p", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"write report" (priority 2)`)

	_, err = run(t, dir, "add", "tidy", "desk", "--priority", "3")
	require.NoError(t, err)

	tasks := listed(t, dir)
	require.Len(t, tasks, 2)
	assert.Equal(t, "write report", tasks[0].Name)

	out, err = run(t, dir, "step")
	require.NoError(t, err)
	assert.Contains(t, out, "next:")

	tasks = listed(t, dir)
	require.Len(t, tasks, 2)
	assert.Equal(t, "tidy desk", tasks[0].Name, "aged task overtakes the serviced one")

	_, err = run(t, dir, "finish")
	require.NoError(t, err)
	_, err = run(t, dir, "finish")
	require.NoError(t, err)
	assert.Empty(t, listed(t, dir))

	out, err = run(t, dir, "step")
	require.NoError(t, err)
	assert.Contains(t, out, "no tasks")
}

func TestAddRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "add", "x", "-p", "0")
	assert.ErrorIs(t, err, sched.ErrPriorityRange)

	_, err = run(t, dir, "add", "x", "-d", "soon")
	assert.Error(t, err)

	assert.Empty(t, listed(t, dir))
}

func TestAddWithDeadline(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "add", "taxes", "-d", "2000-01-01")
	require.NoError(t, err)

	tasks := listed(t, dir)
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, tasks[0].Priority, "past deadline is most urgent")
	require.NotNil(t, tasks[0].Deadline)
}

func TestPauseAndRemoveByPrefix(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "one")
	require.NoError(t, err)

	id := string(listed(t, dir)[0].ID)

	out, err := run(t, dir, "pause", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "paused")
	assert.True(t, listed(t, dir)[0].Paused)

	out, err = run(t, dir, "pause", id)
	require.NoError(t, err)
	assert.Contains(t, out, "resumed")

	_, err = run(t, dir, "rm", id[:6])
	require.NoError(t, err)
	assert.Empty(t, listed(t, dir))

	_, err = run(t, dir, "remove", "missing")
	assert.ErrorIs(t, err, sched.ErrTaskNotFound)
}

func TestListTable(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no tasks")

	_, err = run(t, dir, "add", "visible")
	require.NoError(t, err)
	out, err = run(t, dir, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "Priority")
	assert.Contains(t, out, "[ ]")
}

func TestHistory(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "logged")
	require.NoError(t, err)
	_, err = run(t, dir, "finish")
	require.NoError(t, err)

	out, err := run(t, dir, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Enqueued")
	assert.Contains(t, lines[1], "Finish")

	out, err = run(t, dir, "history", "-n", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "Enqueued")
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nasin dev")
}
