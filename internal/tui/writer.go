package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sourcegraph/conc"
)

// writeBacklog is how many keypress writes may wait for the worker before
// Update blocks on the next one
const writeBacklog = 64

type writeJob struct {
	run  func(ctx context.Context) tea.Msg
	done chan tea.Msg
}

// writer applies store writes one at a time in the order they were queued.
// Bubbletea runs every command on its own goroutine, so writes are queued
// from Update and the returned command only waits for the outcome.
type writer struct {
	jobs      chan writeJob
	closeOnce sync.Once
	wg        conc.WaitGroup
}

func newWriter() *writer {
	w := &writer{jobs: make(chan writeJob, writeBacklog)}
	w.wg.Go(w.loop)
	return w
}

func (w *writer) loop() {
	for job := range w.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		job.done <- job.run(ctx)
		cancel()
	}
}

// do queues run behind every earlier write. It must be called from Update.
func (w *writer) do(run func(ctx context.Context) tea.Msg) tea.Cmd {
	done := make(chan tea.Msg, 1)
	w.jobs <- writeJob{run: run, done: done}
	return func() tea.Msg {
		return <-done
	}
}

// mutate queues a board write. fn returns the task to select afterwards,
// an empty id keeps selectID.
func (w *writer) mutate(selectID string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	return w.do(func(ctx context.Context) tea.Msg {
		id, err := fn(ctx)
		if id == "" {
			id = selectID
		}
		return mutationDoneMsg{err: err, selectID: id}
	})
}

// Close waits for the queued writes to land
func (w *writer) Close() {
	w.closeOnce.Do(func() {
		close(w.jobs)
	})
	w.wg.Wait()
}
