package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tempus/internal/models"
)

// resetFlags puts every flag back to its default, cobra keeps values between executions
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func setEnv(t *testing.T, lang string) {
	t.Setenv("TEMPUS_LANGUAGE", lang)
	t.Setenv("TEMPUS_THEME", "")
	t.Setenv("TEMPUS_LOG_LEVEL", "error")
	t.Setenv("TEMPUS_ASYNC_WRITES", "false")
}

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--data-dir", dir, "--storage", "snapshot"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustExecute(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := execute(t, dir, args...)
	require.NoError(t, err, out)
	return out
}

func listTasks(t *testing.T, dir string) []models.Task {
	t.Helper()
	var tasks []models.Task
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, dir, "ls", "--json")), &tasks))
	return tasks
}

func TestAdd_WithMarkers(t *testing.T) {
	setEnv(t, "en")
	dir := t.TempDir()

	out := mustExecute(t, dir, "add", "Finish", "report", "+important", "+urgent")
	assert.Contains(t, out, `Got it. I've added "Finish report" to Do First (Important & Urgent).`)

	tasks := listTasks(t, dir)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Finish report", tasks[0].Text)
	assert.True(t, tasks[0].IsImportant)
	assert.True(t, tasks[0].IsUrgent)
	assert.Contains(t, out, shortID(tasks[0].ID))
}

func TestAdd_FlagsAndQuadrantMarker(t *testing.T) {
	setEnv(t, "en")
	dir := t.TempDir()

	mustExecute(t, dir, "add", "-i", "Plan quarter")
	mustExecute(t, dir, "add", "-i", "-u", "Tidy desk @q4")

	tasks := listTasks(t, dir)
	require.Len(t, tasks, 2)
	// newest first
	assert.Equal(t, "Tidy desk", tasks[0].Text)
	assert.Equal(t, models.QuadrantEliminate, tasks[0].Quadrant())
	assert.Equal(t, "Plan quarter", tasks[1].Text)
	assert.Equal(t, models.QuadrantSchedule, tasks[1].Quadrant())
}

func TestAdd_BlankTextIsRejected(t *testing.T) {
	setEnv(t, "en")
	dir := t.TempDir()

	_, err := execute(t, dir, "add", "+urgent")
	require.Error(t, err)
	assert.Empty(t, listTasks(t, dir))
}

func TestTaskLifecycle(t *testing.T) {
	setEnv(t, "en")
	dir := t.TempDir()

	mustExecute(t, dir, "add", "Write draft")
	id := listTasks(t, dir)[0].ID
	short := shortID(id)

	out := mustExecute(t, dir, "done", short)
	assert.Contains(t, out, "as done: Write draft")
	assert.True(t, listTasks(t, dir)[0].Completed)

	// already done stays done
	mustExecute(t, dir, "done", short)
	assert.True(t, listTasks(t, dir)[0].Completed)

	mustExecute(t, dir, "undone", short)
	assert.False(t, listTasks(t, dir)[0].Completed)

	mustExecute(t, dir, "edit", short, "Write", "final", "draft")
	assert.Equal(t, "Write final draft", listTasks(t, dir)[0].Text)

	mustExecute(t, dir, "mv", short, "q3")
	assert.Equal(t, models.QuadrantDelegate, listTasks(t, dir)[0].Quadrant())

	out = mustExecute(t, dir, "rm", short)
	assert.Contains(t, out, "Deleted task")
	assert.Empty(t, listTasks(t, dir))

	_, err := execute(t, dir, "done", short)
	assert.Error(t, err)
}

func TestSubTasks(t *testing.T) {
	setEnv(t, "en")
	dir := t.TempDir()

	mustExecute(t, dir, "add", "Finish report")
	short := shortID(listTasks(t, dir)[0].ID)

	mustExecute(t, dir, "sub", "add", short, "Collect", "numbers")
	mustExecute(t, dir, "sub", "add", short, "Write summary")

	out := mustExecute(t, dir, "sub", "done", short, "1")
	assert.Contains(t, out, "Sub-task done: Collect numbers")

	mustExecute(t, dir, "sub", "edit", short, "2", "Write", "the", "summary")

	task := listTasks(t, dir)[0]
	require.Len(t, task.SubTasks, 2)
	assert.True(t, task.SubTasks[0].Completed)
	assert.Equal(t, "Write the summary", task.SubTasks[1].Text)
	assert.False(t, task.SubTasks[1].Completed)

	_, err := execute(t, dir, "sub", "done", short, "3")
	assert.Error(t, err)
}

func TestList_Text(t *testing.T) {
	setEnv(t, "en")
	dir := t.TempDir()

	mustExecute(t, dir, "add", "Finish report @q1")
	mustExecute(t, dir, "add", "Old task @q1")
	mustExecute(t, dir, "done", shortID(listTasks(t, dir)[0].ID))

	out := mustExecute(t, dir, "ls")
	assert.Contains(t, out, "DO FIRST (2)")
	assert.Contains(t, out, "[x] Old task")
	assert.Contains(t, out, "[ ] Finish report")
	assert.Contains(t, out, "No tasks")

	out = mustExecute(t, dir, "ls", "--pending", "-q", "q1")
	assert.Contains(t, out, "DO FIRST (1)")
	assert.NotContains(t, out, "Old task")
	assert.NotContains(t, out, "SCHEDULE")

	_, err := execute(t, dir, "ls", "-q", "q5")
	assert.Error(t, err)
}

func TestConfig_PersistsPreferences(t *testing.T) {
	setEnv(t, "")
	dir := t.TempDir()

	mustExecute(t, dir, "config", "lang", "en")
	mustExecute(t, dir, "config", "theme", "toggle")

	out := mustExecute(t, dir, "config")
	assert.Contains(t, out, "language: en")
	assert.Contains(t, out, "theme: dark")

	_, err := os.Stat(filepath.Join(dir, "prefs.yaml"))
	assert.NoError(t, err)

	_, err = execute(t, dir, "config", "lang", "fr")
	assert.Error(t, err)
}

func TestUnknownStorageFails(t *testing.T) {
	setEnv(t, "en")
	dir := t.TempDir()

	resetFlags(rootCmd)
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"--data-dir", dir, "--storage", "redis", "ls"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}

func TestResolveTask(t *testing.T) {
	tasks := []models.Task{
		{ID: "3f2a9c1d-0000-4000-8000-000000000001", Text: "a"},
		{ID: "3f2a9c1d-0000-4000-8000-000000000002", Text: "b"},
		{ID: "7b1e0000-0000-4000-8000-000000000003", Text: "c"},
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr string
	}{
		{name: "full id", ref: tasks[1].ID, want: "b"},
		{name: "unique prefix", ref: "7b1e", want: "c"},
		{name: "case insensitive", ref: "7B1E0000", want: "c"},
		{name: "ambiguous prefix", ref: "3f2a9c1d", wantErr: "ambiguous"},
		{name: "too short", ref: "7b", wantErr: "too short"},
		{name: "not found", ref: "ffff", wantErr: "not found"},
		{name: "empty", ref: "  ", wantErr: "cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTask(tasks, tt.ref)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Text)
		})
	}
}

func TestResolveSubTask(t *testing.T) {
	task := models.Task{
		ID: "3f2a9c1d-0000-4000-8000-000000000001",
		SubTasks: []models.SubTask{
			{ID: "aaaa1111-0000-4000-8000-000000000001", Text: "first"},
			{ID: "bbbb2222-0000-4000-8000-000000000002", Text: "second"},
		},
	}

	sub, err := resolveSubTask(task, "2")
	require.NoError(t, err)
	assert.Equal(t, "second", sub.Text)

	sub, err = resolveSubTask(task, "aaaa")
	require.NoError(t, err)
	assert.Equal(t, "first", sub.Text)

	_, err = resolveSubTask(task, "0")
	assert.Error(t, err)
	_, err = resolveSubTask(task, "cccc")
	assert.Error(t, err)
}
