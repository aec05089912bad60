package tui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tempus/internal/db"
	"github.com/balkashynov/tempus/internal/models"
	"github.com/balkashynov/tempus/internal/prefs"
	"github.com/balkashynov/tempus/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()

	_, err := prefs.Init(filepath.Join(dir, prefs.FileName), prefs.Settings{Language: prefs.LanguageEnglish})
	require.NoError(t, err)

	adapter, err := db.NewSnapshotAdapter(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)
	s, err := store.Open(context.Background(), adapter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustCreate(t *testing.T, s *store.Store, text string, q models.Quadrant) models.Task {
	t.Helper()
	imp, urg := q.Flags()
	task, err := s.Create(context.Background(), text, imp, urg)
	require.NoError(t, err)
	return task
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// press sends one key without running the command it returns
func press(t *testing.T, m MatrixModel, key string) MatrixModel {
	t.Helper()
	updated, _ := m.Update(keyMsg(key))
	return updated.(MatrixModel)
}

// pressRun sends one key that starts a store write, runs the write and feeds
// the result back the way the bubbletea loop would
func pressRun(t *testing.T, m MatrixModel, key string) MatrixModel {
	t.Helper()
	updated, cmd := m.Update(keyMsg(key))
	m = updated.(MatrixModel)
	require.NotNil(t, cmd)

	done, ok := cmd().(mutationDoneMsg)
	require.True(t, ok)
	updated, _ = m.Update(done)
	return updated.(MatrixModel)
}

func TestMatrixModel_RendersEveryQuadrant(t *testing.T) {
	s := newTestStore(t)
	for _, q := range models.Quadrants {
		mustCreate(t, s, "task-"+string(q), q)
	}

	m := NewMatrixModel(s, nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	view := updated.(MatrixModel).View()

	for _, q := range models.Quadrants {
		assert.Contains(t, view, "task-"+string(q))
	}
	assert.Contains(t, view, "DO FIRST")
	assert.Contains(t, view, "ELIMINATE")
}

func TestMatrixModel_DeleteDropsSelection(t *testing.T) {
	s := newTestStore(t)
	older := mustCreate(t, s, "Older", models.QuadrantDoFirst)
	newer := mustCreate(t, s, "Newer", models.QuadrantDoFirst)

	m := NewMatrixModel(s, nil)
	require.Equal(t, newer.ID, m.selectedID)

	m = pressRun(t, m, "d")
	_, err := s.Get(newer.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, older.ID, m.selectedID)

	m = pressRun(t, m, "d")
	assert.Empty(t, s.List())
	assert.Empty(t, m.selectedID)
	assert.Empty(t, m.status)
}

func TestMatrixModel_SelectionDroppedWhenRemovedElsewhere(t *testing.T) {
	s := newTestStore(t)
	task := mustCreate(t, s, "Shared", models.QuadrantSchedule)

	events, unsubscribe := subscribe(s)
	defer unsubscribe()
	m := NewMatrixModel(s, events)
	require.Equal(t, task.ID, m.selectedID)

	require.NoError(t, s.Remove(context.Background(), task.ID))
	updated, cmd := m.Update(waitForEvent(events)())
	m = updated.(MatrixModel)

	assert.Empty(t, m.selectedID)
	assert.NotNil(t, cmd, "keeps listening")

	// toggling a task someone else already removed is not an error
	m.selectedID = task.ID
	m = pressRun(t, m, " ")
	assert.Empty(t, m.status)
}

func TestMatrixModel_MoveFollowsTask(t *testing.T) {
	s := newTestStore(t)
	task := mustCreate(t, s, "Finish report", models.QuadrantDoFirst)

	m := NewMatrixModel(s, nil)
	m = pressRun(t, m, "3")

	got, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.False(t, got.IsImportant)
	assert.True(t, got.IsUrgent)
	assert.Equal(t, models.QuadrantDelegate, m.focus)
	assert.Equal(t, task.ID, m.selectedID)
	assert.Empty(t, m.matrix.DoFirst)
}

func TestMatrixModel_ToggleCompletion(t *testing.T) {
	s := newTestStore(t)
	task := mustCreate(t, s, "Toggle", models.QuadrantEliminate)

	m := NewMatrixModel(s, nil)
	m = pressRun(t, m, " ")

	got, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.True(t, m.matrix.Eliminate[0].Completed)
}

func TestMatrixModel_SubTasks(t *testing.T) {
	s := newTestStore(t)
	task := mustCreate(t, s, "Trip", models.QuadrantSchedule)

	m := NewMatrixModel(s, nil)
	m = press(t, m, "a")
	require.Equal(t, modeAddSubTask, m.mode)
	m = press(t, m, "Book hotel")
	m = pressRun(t, m, "enter")

	got, err := s.Get(task.ID)
	require.NoError(t, err)
	require.Len(t, got.SubTasks, 1)
	assert.Equal(t, "Book hotel", got.SubTasks[0].Text)
	assert.True(t, m.expanded[task.ID])

	// down moves onto the sub-task row, space toggles it
	m = press(t, m, "down")
	assert.Equal(t, got.SubTasks[0].ID, m.subID)
	m = pressRun(t, m, " ")

	// e renames the sub-task in place
	m = press(t, m, "e")
	require.Equal(t, modeRenameSubTask, m.mode)
	m.input.SetValue("Updated")
	m = pressRun(t, m, "enter")

	got, err = s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.SubTask{{ID: got.SubTasks[0].ID, Text: "Updated", Completed: true}}, got.SubTasks)
	assert.False(t, got.Completed)

	// collapsing drops the sub-task selection
	m = press(t, m, "up")
	m = press(t, m, "enter")
	assert.False(t, m.expanded[task.ID])
	assert.Empty(t, m.subID)
}

func TestMatrixModel_NewTaskLandsInFocusedQuadrant(t *testing.T) {
	s := newTestStore(t)

	m := NewMatrixModel(s, nil)
	m = press(t, m, "tab") // q1 -> q2
	require.Equal(t, models.QuadrantSchedule, m.focus)

	m = press(t, m, "n")
	m = press(t, m, "Plan sprint")
	m = pressRun(t, m, "enter")

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Plan sprint", list[0].Text)
	assert.Equal(t, models.QuadrantSchedule, list[0].Quadrant())
	assert.Equal(t, list[0].ID, m.selectedID)
}

func TestMatrixModel_NewTaskMarkersAddToFocus(t *testing.T) {
	s := newTestStore(t)

	m := NewMatrixModel(s, nil)
	m = press(t, m, "tab") // q2: important
	m = press(t, m, "n")
	m.input.SetValue("Call bank +urgent +soon")
	m = pressRun(t, m, "enter")

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Call bank", list[0].Text)
	assert.Equal(t, models.QuadrantDoFirst, list[0].Quadrant())
	assert.Contains(t, m.status, "+soon")

	m = press(t, m, "n")
	m.input.SetValue("Shred mail +important @q4")
	m = pressRun(t, m, "enter")

	list = s.List()
	require.Len(t, list, 2)
	assert.Equal(t, models.QuadrantEliminate, list[0].Quadrant())
	assert.Empty(t, m.status)
}

// runConcurrently runs cmds the way the bubbletea loop does, one goroutine each
func runConcurrently(cmds []tea.Cmd) []tea.Msg {
	msgs := make([]tea.Msg, len(cmds))
	var wg sync.WaitGroup
	for i := len(cmds) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msgs[i] = cmds[i]()
		}(i)
	}
	wg.Wait()
	return msgs
}

func TestMatrixModel_RapidMovesApplyInKeypressOrder(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := newTestStore(t)
		task := mustCreate(t, s, "Trip", models.QuadrantDoFirst)

		m := NewMatrixModel(s, nil)
		var cmds []tea.Cmd
		for _, key := range []string{"4", "2", "3"} {
			updated, cmd := m.Update(keyMsg(key))
			m = updated.(MatrixModel)
			require.NotNil(t, cmd)
			cmds = append(cmds, cmd)
		}

		for _, msg := range runConcurrently(cmds) {
			updated, _ := m.Update(msg)
			m = updated.(MatrixModel)
		}
		m.writes.Close()

		got, err := s.Get(task.ID)
		require.NoError(t, err)
		require.Equal(t, models.QuadrantDelegate, got.Quadrant())
		assert.Equal(t, models.QuadrantDelegate, m.focus)
	}
}

func TestMatrixModel_RenameRejectsBlank(t *testing.T) {
	s := newTestStore(t)
	task := mustCreate(t, s, "Keep me", models.QuadrantDoFirst)

	m := NewMatrixModel(s, nil)
	m = press(t, m, "e")
	m.input.SetValue("   ")
	m = pressRun(t, m, "enter")

	got, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep me", got.Text)
	assert.NotEmpty(t, m.status)
	assert.Equal(t, modeBrowse, m.mode)
}

func TestMatrixModel_EscCancelsEditing(t *testing.T) {
	s := newTestStore(t)
	task := mustCreate(t, s, "Untouched", models.QuadrantDoFirst)

	m := NewMatrixModel(s, nil)
	m = press(t, m, "e")
	m = press(t, m, "xyz")
	m = press(t, m, "esc")

	got, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Untouched", got.Text)
	assert.Equal(t, modeBrowse, m.mode)
}

func TestCaptureModel_CreatesAndAcknowledges(t *testing.T) {
	s := newTestStore(t)

	m := NewCaptureModel(s, false, false)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = updated.(CaptureModel)

	m.input.SetValue("Finish report +i +u")
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(CaptureModel)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(CaptureModel)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Finish report", list[0].Text)
	assert.Equal(t, models.QuadrantDoFirst, list[0].Quadrant())
	assert.Equal(t, 1, m.created)

	view := m.View()
	assert.Contains(t, view, "Finish report +i +u")
	assert.True(t, strings.Contains(view, `Got it. I've added "Finish report" to Do First (Important & Urgent).`))
}

func TestCaptureModel_TogglesPickQuadrant(t *testing.T) {
	s := newTestStore(t)

	m := NewCaptureModel(s, true, false)
	updated, _ := m.Update(keyMsg("tab")) // important off
	m = updated.(CaptureModel)
	assert.False(t, m.isImportant)

	m.isUrgent = true
	m.input.SetValue("Answer email")
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(CaptureModel)
	m.Update(cmd())

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, models.QuadrantDelegate, list[0].Quadrant())
}

func TestCaptureModel_RapidSubmitsKeepOrder(t *testing.T) {
	s := newTestStore(t)

	m := NewCaptureModel(s, false, false)
	var cmds []tea.Cmd
	for _, text := range []string{"first", "second", "third"} {
		m.input.SetValue(text)
		updated, cmd := m.Update(keyMsg("enter"))
		m = updated.(CaptureModel)
		require.NotNil(t, cmd)
		cmds = append(cmds, cmd)
	}
	runConcurrently(cmds)
	m.writes.Close()

	var texts []string
	for _, task := range s.List() {
		texts = append(texts, task.Text)
	}
	assert.Equal(t, []string{"third", "second", "first"}, texts)
}

func TestCaptureModel_IgnoresBlankInput(t *testing.T) {
	s := newTestStore(t)

	m := NewCaptureModel(s, false, false)
	m.input.SetValue("   ")
	_, cmd := m.Update(keyMsg("enter"))

	assert.Nil(t, cmd)
	assert.Empty(t, s.List())
}
