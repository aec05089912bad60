package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/tempus/internal/i18n"
	"github.com/balkashynov/tempus/internal/models"
	"github.com/balkashynov/tempus/internal/parser"
	"github.com/balkashynov/tempus/internal/prefs"
	"github.com/balkashynov/tempus/internal/store"
)

// inputMode is what the text input is currently used for
type inputMode int

const (
	modeBrowse inputMode = iota
	modeRenameTask
	modeRenameSubTask
	modeAddSubTask
	modeNewTask
)

// row is one line of a quadrant: a task, or one of its sub-tasks when expanded
type row struct {
	taskID    string
	subTaskID string
}

// MatrixModel represents the TUI model for the quadrant board
type MatrixModel struct {
	store  *store.Store
	events <-chan store.Event
	writes *writer

	width  int
	height int

	// Board data
	matrix   models.Matrix
	degraded bool
	settings prefs.Settings

	// Selection
	focus      models.Quadrant
	selectedID string
	subID      string
	expanded   map[string]bool

	// Inline editing
	mode  inputMode
	input textinput.Model

	status string
}

// NewMatrixModel creates the board from the store's current state.
// events may be nil, the board then only refreshes after its own writes.
func NewMatrixModel(s *store.Store, events <-chan store.Event) MatrixModel {
	input := textinput.New()
	input.CharLimit = 200
	input.Width = 50

	m := MatrixModel{
		store:    s,
		events:   events,
		writes:   newWriter(),
		matrix:   s.Matrix(),
		degraded: s.Degraded(),
		settings: prefs.Current(),
		focus:    models.QuadrantDoFirst,
		expanded: map[string]bool{},
		input:    input,
	}

	// Pre-select the first task of the first non-empty quadrant
	for _, q := range models.Quadrants {
		if tasks := m.matrix.Get(q); len(tasks) > 0 {
			m.focus = q
			m.selectedID = tasks[0].ID
			break
		}
	}
	return m
}

// Init initializes the model
func (m MatrixModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update handles messages
func (m MatrixModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, m.width/2-10)
		return m, nil

	case storeEventMsg:
		m = m.applyMatrix(store.Event(msg).Matrix())
		m.degraded = msg.Degraded
		return m, waitForEvent(m.events)

	case mutationDoneMsg:
		m.status = describeError(msg.err, m.settings.Language)
		if m.status == "" {
			m.status = msg.notice
		}
		m = m.applyMatrix(m.store.Matrix())
		m.degraded = m.store.Degraded()
		if msg.selectID != "" && msg.selectID != m.selectedID {
			m = m.selectTask(msg.selectID)
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.handleInputKeys(msg)
		}
		return m.handleBrowseKeys(msg)
	}

	return m, nil
}

// handleBrowseKeys handles key input while navigating the board
func (m MatrixModel) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "up", "k":
		return m.moveRow(-1), nil

	case "down", "j":
		return m.moveRow(1), nil

	case "left", "h":
		return m.moveColumn(-1), nil

	case "right", "l":
		return m.moveColumn(1), nil

	case "tab":
		return m.focusQuadrant(models.Quadrants[(m.focus.Index()+1)%4]), nil

	case "shift+tab":
		return m.focusQuadrant(models.Quadrants[(m.focus.Index()+3)%4]), nil

	case " ":
		if m.selectedID == "" {
			return m, nil
		}
		taskID, subID := m.selectedID, m.subID
		if subID != "" {
			return m, m.writes.mutate(taskID, func(ctx context.Context) (string, error) {
				_, err := m.store.ToggleSubTask(ctx, taskID, subID)
				return taskID, err
			})
		}
		return m, m.writes.mutate(taskID, func(ctx context.Context) (string, error) {
			_, err := m.store.ToggleCompletion(ctx, taskID)
			return taskID, err
		})

	case "d":
		if m.selectedID == "" || m.subID != "" {
			return m, nil
		}
		taskID := m.selectedID
		return m, m.writes.mutate("", func(ctx context.Context) (string, error) {
			return "", m.store.Remove(ctx, taskID)
		})

	case "1", "2", "3", "4":
		if m.selectedID == "" {
			return m, nil
		}
		taskID := m.selectedID
		target := models.Quadrants[int(msg.String()[0]-'1')]
		return m, m.writes.mutate(taskID, func(ctx context.Context) (string, error) {
			_, err := m.store.MoveToQuadrant(ctx, taskID, target)
			return taskID, err
		})

	case "enter":
		if m.selectedID == "" {
			return m, nil
		}
		if m.expanded[m.selectedID] {
			delete(m.expanded, m.selectedID)
			m.subID = ""
		} else {
			m.expanded[m.selectedID] = true
		}
		return m, nil

	case "e":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if m.subID != "" {
			if i := task.SubTaskIndex(m.subID); i >= 0 {
				return m.startInput(modeRenameSubTask, task.SubTasks[i].Text)
			}
			return m, nil
		}
		return m.startInput(modeRenameTask, task.Text)

	case "a":
		if m.selectedID == "" {
			return m, nil
		}
		m.expanded[m.selectedID] = true
		return m.startInput(modeAddSubTask, "")

	case "n":
		return m.startInput(modeNewTask, "")

	case "t":
		settings, err := prefs.ToggleTheme()
		m.settings = settings
		if err != nil {
			m.status = err.Error()
		}
		return m, nil

	case "L":
		next := prefs.LanguageEnglish
		if m.settings.Language == prefs.LanguageEnglish {
			next = prefs.LanguageChinese
		}
		settings, err := prefs.SetLanguage(string(next))
		m.settings = settings
		if err != nil {
			m.status = err.Error()
		}
		return m, nil
	}

	return m, nil
}

// handleInputKeys handles key input while the inline editor is open
func (m MatrixModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		return m, nil

	case "enter":
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m MatrixModel) startInput(mode inputMode, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.status = ""
	m.input.SetValue(value)
	m.input.CursorEnd()

	lang := m.settings.Language
	switch mode {
	case modeAddSubTask:
		m.input.Placeholder = i18n.T(lang, i18n.KeyAddSubTask)
	case modeNewTask:
		m.input.Placeholder = i18n.T(lang, i18n.KeyTypeTask)
	default:
		m.input.Placeholder = ""
	}
	cmd := m.input.Focus()
	return m, cmd
}

// submitInput sends the inline editor's value to the store
func (m MatrixModel) submitInput() (tea.Model, tea.Cmd) {
	mode := m.mode
	text := m.input.Value()
	taskID, subID, focus := m.selectedID, m.subID, m.focus

	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()

	switch mode {
	case modeRenameTask:
		return m, m.writes.mutate(taskID, func(ctx context.Context) (string, error) {
			_, err := m.store.Rename(ctx, taskID, text)
			return taskID, err
		})

	case modeRenameSubTask:
		return m, m.writes.mutate(taskID, func(ctx context.Context) (string, error) {
			_, err := m.store.RenameSubTask(ctx, taskID, subID, text)
			return taskID, err
		})

	case modeAddSubTask:
		return m, m.writes.mutate(taskID, func(ctx context.Context) (string, error) {
			_, err := m.store.AddSubTask(ctx, taskID, text)
			return taskID, err
		})

	case modeNewTask:
		// Markers add to the focused quadrant, an explicit @qN wins
		capture := parser.ParseCapture(text)
		isImportant, isUrgent := focus.Flags()
		isImportant = isImportant || capture.IsImportant
		isUrgent = isUrgent || capture.IsUrgent
		if capture.Quadrant != "" {
			isImportant, isUrgent = capture.Quadrant.Flags()
		}
		notice := strings.Join(capture.Errors, " · ")
		s := m.store
		return m, m.writes.do(func(ctx context.Context) tea.Msg {
			task, err := s.Create(ctx, capture.Text, isImportant, isUrgent)
			return mutationDoneMsg{err: err, selectID: task.ID, notice: notice}
		})
	}
	return m, nil
}

// applyMatrix swaps in a new board and repairs the selection.
// A task that moved is followed into its new quadrant; a task that is gone is
// dropped and the row that took its place is selected instead.
func (m MatrixModel) applyMatrix(matrix models.Matrix) MatrixModel {
	prevIndex := m.rowIndex()
	m.matrix = matrix

	for id := range m.expanded {
		if _, ok := m.findTask(id); !ok {
			delete(m.expanded, id)
		}
	}

	if m.selectedID == "" {
		return m
	}

	task, ok := m.findTask(m.selectedID)
	if !ok {
		m.selectedID, m.subID = "", ""
		rows := m.rows(m.focus)
		if len(rows) > 0 && prevIndex >= 0 {
			m.selectedID = rows[min(prevIndex, len(rows)-1)].taskID
		}
		return m
	}

	m.focus = task.Quadrant()
	if m.subID != "" && (!m.expanded[task.ID] || task.SubTaskIndex(m.subID) < 0) {
		m.subID = ""
	}
	return m
}

// selectTask focuses the quadrant holding id and selects its task row
func (m MatrixModel) selectTask(id string) MatrixModel {
	task, ok := m.findTask(id)
	if !ok {
		return m
	}
	m.focus = task.Quadrant()
	m.selectedID = id
	m.subID = ""
	return m
}

func (m MatrixModel) findTask(id string) (models.Task, bool) {
	for _, q := range models.Quadrants {
		for _, task := range m.matrix.Get(q) {
			if task.ID == id {
				return task, true
			}
		}
	}
	return models.Task{}, false
}

func (m MatrixModel) selectedTask() (models.Task, bool) {
	if m.selectedID == "" {
		return models.Task{}, false
	}
	return m.findTask(m.selectedID)
}

// rows lists the lines of a quadrant in display order
func (m MatrixModel) rows(q models.Quadrant) []row {
	var rows []row
	for _, task := range m.matrix.Get(q) {
		rows = append(rows, row{taskID: task.ID})
		if m.expanded[task.ID] {
			for _, sub := range task.SubTasks {
				rows = append(rows, row{taskID: task.ID, subTaskID: sub.ID})
			}
		}
	}
	return rows
}

// rowIndex is the selected row within the focused quadrant, or -1
func (m MatrixModel) rowIndex() int {
	for i, r := range m.rows(m.focus) {
		if r.taskID == m.selectedID && r.subTaskID == m.subID {
			return i
		}
	}
	return -1
}

// moveRow moves the selection within the focused quadrant, spilling over into
// the quadrant above or below at the edges
func (m MatrixModel) moveRow(delta int) MatrixModel {
	rows := m.rows(m.focus)
	idx := m.rowIndex()
	next := idx + delta

	if idx >= 0 && next >= 0 && next < len(rows) {
		m.selectedID, m.subID = rows[next].taskID, rows[next].subTaskID
		return m
	}
	if idx < 0 && len(rows) > 0 {
		m.selectedID, m.subID = rows[0].taskID, rows[0].subTaskID
		return m
	}

	// Top row is q1/q2, bottom row is q3/q4
	i := m.focus.Index()
	switch {
	case delta < 0 && i >= 2:
		m = m.focusQuadrant(models.Quadrants[i-2])
		if rows := m.rows(m.focus); len(rows) > 0 {
			last := rows[len(rows)-1]
			m.selectedID, m.subID = last.taskID, last.subTaskID
		}
	case delta > 0 && i < 2:
		m = m.focusQuadrant(models.Quadrants[i+2])
	}
	return m
}

// moveColumn switches between the left and right quadrant of a row
func (m MatrixModel) moveColumn(delta int) MatrixModel {
	i := m.focus.Index()
	switch {
	case delta < 0 && i%2 == 1:
		return m.focusQuadrant(models.Quadrants[i-1])
	case delta > 0 && i%2 == 0:
		return m.focusQuadrant(models.Quadrants[i+1])
	}
	return m
}

// focusQuadrant focuses q and selects its first task, if any
func (m MatrixModel) focusQuadrant(q models.Quadrant) MatrixModel {
	m.focus = q
	m.selectedID, m.subID = "", ""
	if tasks := m.matrix.Get(q); len(tasks) > 0 {
		m.selectedID = tasks[0].ID
	}
	return m
}

// View renders the TUI
func (m MatrixModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	palette := PaletteFor(m.settings.Theme)
	lang := m.settings.Language

	header := m.renderHeader(palette)
	footer := m.renderFooter(palette)

	// Two columns, two rows of boxes; 2 for each border
	boxWidth := max(20, m.width/2-3)
	boxHeight := max(3, (m.height-lipgloss.Height(header)-lipgloss.Height(footer)-2)/2-2)

	box := func(q models.Quadrant) string {
		return m.renderQuadrant(q, boxWidth, boxHeight, palette, lang)
	}

	grid := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, box(models.QuadrantDoFirst), " ", box(models.QuadrantSchedule)),
		lipgloss.JoinHorizontal(lipgloss.Top, box(models.QuadrantDelegate), " ", box(models.QuadrantEliminate)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, grid, footer)
}

func (m MatrixModel) renderHeader(p Palette) string {
	lang := m.settings.Language

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.AccentMain)).
		Render(i18n.T(lang, i18n.KeyAppTitle))
	view := p.fg(p.SecondaryText).Render("  " + i18n.T(lang, i18n.KeyMatrixView))

	line := title + view
	if m.degraded {
		line += "  " + p.fg(p.Warning).Bold(true).Render("⚠ "+i18n.T(lang, i18n.KeyDegraded))
	}
	return line
}

func (m MatrixModel) renderFooter(p Palette) string {
	var b strings.Builder

	if m.mode != modeBrowse {
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.AccentBright)).
			Padding(0, 1).
			Render(m.input.View()))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(p.fg(p.Error).Render(m.status))
		b.WriteString("\n")
	}

	helpText := "↑/↓ nav · ←/→/tab quadrant · space done · enter expand · e edit · a sub-task · n new · 1-4 move · d delete · t theme · L lang · q quit"
	if m.mode != modeBrowse {
		helpText = "enter save · esc cancel"
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.HelpText)).
		Italic(true).
		Render(helpText))

	return b.String()
}

// renderQuadrant renders one box of the board
func (m MatrixModel) renderQuadrant(q models.Quadrant, width, height int, p Palette, lang prefs.Language) string {
	color := p.QuadrantColor(q)
	tasks := m.matrix.Get(q)
	focused := q == m.focus

	var lines []string
	heading := lipgloss.NewStyle().Bold(true).Foreground(color).
		Render(fmt.Sprintf("%s (%d)", i18n.QuadrantTitle(lang, q), len(tasks)))
	lines = append(lines, heading, "")

	rows := m.rows(q)
	if len(rows) == 0 {
		lines = append(lines, p.fg(p.DisabledText).Italic(true).Render(i18n.T(lang, i18n.KeyNoTasks)))
	}

	// Keep the selected row visible
	visible := max(1, height-2)
	start := 0
	if focused {
		if idx := m.rowIndex(); idx >= visible {
			start = idx - visible + 1
		}
	}
	end := min(start+visible, len(rows))

	for _, r := range rows[start:end] {
		task, _ := m.findTask(r.taskID)
		selected := focused && r.taskID == m.selectedID && r.subTaskID == m.subID
		lines = append(lines, m.renderRow(task, r, selected, width-4, p))
	}

	border := lipgloss.RoundedBorder()
	if focused {
		border = lipgloss.ThickBorder()
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Padding(0, 1).
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m MatrixModel) renderRow(task models.Task, r row, selected bool, width int, p Palette) string {
	var text string
	var done bool
	indent := ""

	if r.subTaskID == "" {
		text = task.Text
		done = task.Completed
		if n := len(task.SubTasks); n > 0 {
			marker := "▸"
			if m.expanded[task.ID] {
				marker = "▾"
			}
			text = fmt.Sprintf("%s %s (%d/%d)", text, marker, task.CompletedSubTasks(), n)
		}
	} else {
		i := task.SubTaskIndex(r.subTaskID)
		if i < 0 {
			return ""
		}
		text = task.SubTasks[i].Text
		done = task.SubTasks[i].Completed
		indent = "  └ "
	}

	check := "○ "
	if done {
		check = "✓ "
	}

	line := truncate(indent+check+text, width)
	style := p.fg(p.PrimaryText)
	switch {
	case selected:
		style = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.AccentBright))
	case done:
		style = p.fg(p.DisabledText).Strikethrough(true)
	}
	return style.Render(line)
}

// truncate cuts s to fit width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
