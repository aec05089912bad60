package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/balkashynov/tempus/internal/models"
)

// ErrQueueClosed is returned by Save after Close
var ErrQueueClosed = errors.New("write queue closed")

// Queue makes saves asynchronous. A single worker writes snapshots in the
// order they were issued; while a write is in flight only the newest pending
// snapshot is kept, so a stale snapshot never lands after a newer one.
type Queue struct {
	next   Adapter
	logger *slog.Logger

	mu         sync.Mutex
	cond       *sync.Cond
	pending    []models.Task
	hasPending bool
	busy       bool
	closed     bool
	lastErr    error

	wg conc.WaitGroup
}

// NewQueue starts the write worker in front of next
func NewQueue(next Adapter, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{next: next, logger: logger}
	q.cond = sync.NewCond(&q.mu)
	q.wg.Go(q.run)
	return q
}

func (q *Queue) run() {
	for {
		q.mu.Lock()
		for !q.hasPending && !q.closed {
			q.cond.Wait()
		}
		if !q.hasPending && q.closed {
			q.mu.Unlock()
			return
		}
		snapshot := q.pending
		q.pending = nil
		q.hasPending = false
		q.busy = true
		q.mu.Unlock()

		err := q.next.Save(context.Background(), snapshot)
		if err != nil {
			q.logger.Warn("background save failed", "tasks", len(snapshot), "error", err)
		}

		q.mu.Lock()
		q.busy = false
		q.lastErr = err
		q.cond.Broadcast()
		q.mu.Unlock()
	}
}

// Save enqueues a copy of tasks. It reports a failure of the previous background write, if any;
// the snapshot enqueued now is a full retry of that write.
func (q *Queue) Save(_ context.Context, tasks []models.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	prevErr := q.lastErr
	q.lastErr = nil
	q.pending = models.CloneTasks(tasks)
	q.hasPending = true
	q.cond.Broadcast()

	if prevErr != nil {
		return fmt.Errorf("previous write failed: %w", prevErr)
	}
	return nil
}

// Flush blocks until every enqueued snapshot has been written and returns the last write error
func (q *Queue) Flush() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.hasPending || q.busy {
		q.cond.Wait()
	}
	return q.lastErr
}

// Load drains the queue first so a load issued after a save sees that save
func (q *Queue) Load(ctx context.Context) ([]models.Task, error) {
	if err := q.Flush(); err != nil {
		return nil, err
	}
	return q.next.Load(ctx)
}

// Close writes what is pending, stops the worker and closes the wrapped adapter
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()

	q.wg.Wait()

	q.mu.Lock()
	writeErr := q.lastErr
	q.mu.Unlock()

	return errors.Join(writeErr, q.next.Close())
}
