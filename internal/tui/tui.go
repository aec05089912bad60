package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/tempus/internal/i18n"
	"github.com/balkashynov/tempus/internal/prefs"
	"github.com/balkashynov/tempus/internal/store"
)

// mutationTimeout bounds a single store write started from a keypress
const mutationTimeout = 10 * time.Second

// RunMatrixTUI starts the interactive quadrant board
func RunMatrixTUI(s *store.Store) error {
	events, unsubscribe := subscribe(s)
	defer unsubscribe()

	model := NewMatrixModel(s, events)
	defer model.writes.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(MatrixModel); ok && m.degraded {
		fmt.Println("⚠️  " + i18n.T(prefs.Current().Language, i18n.KeyDegraded))
	}
	return nil
}

// RunCaptureTUI starts the chat capture with the toggles preset
func RunCaptureTUI(s *store.Store, isImportant, isUrgent bool) error {
	model := NewCaptureModel(s, isImportant, isUrgent)
	defer model.writes.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()

	// Handle exit messages after TUI closes
	if err != nil {
		return err
	}

	if m, ok := finalModel.(CaptureModel); ok {
		switch {
		case m.created > 0:
			fmt.Printf("✅ %d task(s) added\n", m.created)
		case m.lastErr != nil:
			fmt.Printf("❌ Error: %v\n", m.lastErr)
		}
	}
	return nil
}

// storeEventMsg carries a store notification into the bubbletea loop
type storeEventMsg store.Event

// mutationDoneMsg reports the outcome of a write started by the model
type mutationDoneMsg struct {
	err      error
	selectID string // task to focus once the write lands
	notice   string // parser warnings, shown when the write itself succeeded
}

// subscribe forwards store notifications into a channel. Only the newest
// pending event is kept, it carries the full collection anyway, so a slow
// UI never blocks a writer.
func subscribe(s *store.Store) (<-chan store.Event, func()) {
	ch := make(chan store.Event, 1)
	unsubscribe := s.Subscribe(func(ev store.Event) {
		for {
			select {
			case ch <- ev:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	})
	return ch, unsubscribe
}

// waitForEvent blocks until the store publishes again
func waitForEvent(events <-chan store.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return storeEventMsg(ev)
	}
}

// describeError turns a store error into a status line. Not-found errors are
// expected when another surface removed the task first and are swallowed.
func describeError(err error, lang prefs.Language) string {
	var serr *store.Error
	switch {
	case err == nil, store.IsKind(err, store.KindNotFound):
		return ""
	case store.IsKind(err, store.KindPersistence):
		return i18n.T(lang, i18n.KeyDegraded)
	case errors.As(err, &serr):
		return serr.Msg
	default:
		return err.Error()
	}
}
