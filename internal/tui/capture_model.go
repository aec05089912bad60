package tui

import (
	"context"
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

type chatRole int

const (
	roleAssistant chatRole = iota
	roleUser
)

// chatMessage is one entry of the conversation. Assistant lines keep their
// source rather than rendered text so they follow language switches.
type chatMessage struct {
	role  chatRole
	text  string       // user lines only
	task  *models.Task // acknowledgment of this task
	intro bool
}

// captureDoneMsg reports the outcome of a create
type captureDoneMsg struct {
	task models.Task
	err  error
}

// CaptureModel represents the TUI model for the chat capture
type CaptureModel struct {
	store  *store.Store
	writes *writer
	input  textinput.Model

	width  int
	height int

	messages    []chatMessage
	isImportant bool
	isUrgent    bool
	settings    prefs.Settings

	// State
	status   string
	created  int
	lastErr  error
	degraded bool
}

// NewCaptureModel creates the chat capture with the toggles preset
func NewCaptureModel(s *store.Store, isImportant, isUrgent bool) CaptureModel {
	settings := prefs.Current()

	input := textinput.New()
	input.Placeholder = i18n.T(settings.Language, i18n.KeyTypeTask)
	input.CharLimit = 200
	input.Width = 60
	input.Focus()

	return CaptureModel{
		store:       s,
		writes:      newWriter(),
		input:       input,
		messages:    []chatMessage{{role: roleAssistant, intro: true}},
		isImportant: isImportant,
		isUrgent:    isUrgent,
		settings:    settings,
		degraded:    s.Degraded(),
	}
}

// Init initializes the model
func (m CaptureModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m CaptureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputWidth := m.width - 10
		if inputWidth < 30 {
			inputWidth = 30
		}
		if inputWidth > 100 {
			inputWidth = 100
		}
		m.input.Width = inputWidth
		return m, nil

	case captureDoneMsg:
		m.status = describeError(msg.err, m.settings.Language)
		m.degraded = m.store.Degraded()
		if msg.err != nil {
			m.lastErr = msg.err
		}
		// A persistence failure still created the task in memory
		if msg.task.ID != "" {
			task := msg.task
			m.created++
			m.messages = append(m.messages, chatMessage{role: roleAssistant, task: &task})
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			return m.submit()

		case "tab":
			m.isImportant = !m.isImportant
			return m, nil

		case "shift+tab":
			m.isUrgent = !m.isUrgent
			return m, nil

		case "ctrl+t":
			settings, err := prefs.ToggleTheme()
			m.settings = settings
			if err != nil {
				m.status = err.Error()
			}
			return m, nil

		case "ctrl+l":
			next := prefs.LanguageEnglish
			if m.settings.Language == prefs.LanguageEnglish {
				next = prefs.LanguageChinese
			}
			settings, err := prefs.SetLanguage(string(next))
			m.settings = settings
			if err != nil {
				m.status = err.Error()
			}
			m.input.Placeholder = i18n.T(m.settings.Language, i18n.KeyTypeTask)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit posts the typed line to the conversation and creates the task
func (m CaptureModel) submit() (tea.Model, tea.Cmd) {
	raw := m.input.Value()
	if strings.TrimSpace(raw) == "" {
		return m, nil
	}

	capture := parser.ParseCapture(raw)
	isImportant := m.isImportant || capture.IsImportant
	isUrgent := m.isUrgent || capture.IsUrgent
	if capture.Quadrant != "" {
		isImportant, isUrgent = capture.Quadrant.Flags()
	}

	m.messages = append(m.messages, chatMessage{role: roleUser, text: strings.TrimSpace(raw)})
	m.input.Reset()
	m.status = strings.Join(capture.Errors, " · ")

	s := m.store
	text := capture.Text
	return m, m.writes.do(func(ctx context.Context) tea.Msg {
		task, err := s.Create(ctx, text, isImportant, isUrgent)
		return captureDoneMsg{task: task, err: err}
	})
}

// View renders the TUI
func (m CaptureModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	p := PaletteFor(m.settings.Theme)
	lang := m.settings.Language

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.AccentMain)).
		Render(i18n.T(lang, i18n.KeyAppTitle))
	header := title + p.fg(p.SecondaryText).Render("  "+i18n.T(lang, i18n.KeyChatCapture))
	if m.degraded {
		header += "  " + p.fg(p.Warning).Bold(true).Render("⚠ "+i18n.T(lang, i18n.KeyDegraded))
	}

	footer := m.renderComposer(p, lang)

	// History fills whatever is left, newest at the bottom
	historyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	history := m.renderHistory(p, lang, historyHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, "", history, footer)
}

func (m CaptureModel) renderHistory(p Palette, lang prefs.Language, height int) string {
	bubbleWidth := max(20, m.width*2/3)

	var blocks []string
	for _, msg := range m.messages {
		switch {
		case msg.role == roleUser:
			bubble := lipgloss.NewStyle().
				Background(lipgloss.Color(p.UserBubble)).
				Foreground(lipgloss.Color(p.PrimaryText)).
				Padding(0, 1).
				MaxWidth(bubbleWidth).
				Render(msg.text)
			blocks = append(blocks, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble))

		case msg.intro:
			blocks = append(blocks, p.fg(p.PrimaryText).Render(i18n.T(lang, i18n.KeyAssistantIntro)))

		case msg.task != nil:
			ack := i18n.Acknowledge(*msg.task, lang)
			marker := lipgloss.NewStyle().Foreground(p.QuadrantColor(ack.Quadrant)).Render("● ")
			blocks = append(blocks, marker+p.fg(p.PrimaryText).Width(bubbleWidth).Render(ack.Message))
		}
	}

	lines := strings.Split(strings.Join(blocks, "\n\n"), "\n")
	if height > 0 && len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return lipgloss.NewStyle().Height(max(height, 0)).Render(strings.Join(lines, "\n"))
}

func (m CaptureModel) renderComposer(p Palette, lang prefs.Language) string {
	var b strings.Builder

	toggle := func(on bool, label string, q models.Quadrant) string {
		dot := "○ "
		style := p.fg(p.SecondaryText)
		if on {
			dot = "● "
			style = lipgloss.NewStyle().Bold(true).Foreground(p.QuadrantColor(q))
		}
		return style.Render(dot + label)
	}
	b.WriteString(toggle(m.isImportant, i18n.T(lang, i18n.KeyImportant), models.QuadrantDoFirst))
	b.WriteString("   ")
	b.WriteString(toggle(m.isUrgent, i18n.T(lang, i18n.KeyUrgent), models.QuadrantDoFirst))
	b.WriteString("   ")
	b.WriteString(p.fg(p.DisabledText).Render("→ " + i18n.QuadrantLabel(lang, models.QuadrantOf(m.isImportant, m.isUrgent))))
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.AccentBright)).
		Padding(0, 1).
		Render(m.input.View()))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(p.fg(p.Error).Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.HelpText)).
		Italic(true).
		Render("enter send · tab important · shift+tab urgent · +i +u @q1..@q4 · ctrl+t theme · ctrl+l lang · esc quit"))

	return b.String()
}
