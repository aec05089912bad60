package store

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/tempus/internal/db"
	"github.com/balkashynov/tempus/internal/models"
)

// Store owns the canonical task collection. Every read returns copies and
// every write goes through one of its mutation methods.
type Store struct {
	adapter db.Adapter
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	mu       sync.Mutex
	tasks    []models.Task // oldest first
	degraded bool

	// notifyMu is taken before mu is released so observers see commits in order
	notifyMu  sync.Mutex
	obsMu     sync.RWMutex
	observers []observer
	nextObsID int
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for commit and persistence messages
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the uuid generator for task and sub-task ids
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Open restores the last durable state from adapter.
// A load failure is returned as a persistence error and no store is created,
// so a damaged mirror is never overwritten by an empty collection.
func Open(ctx context.Context, adapter db.Adapter, opts ...Option) (*Store, error) {
	s := &Store{
		adapter: adapter,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := adapter.Load(ctx)
	if err != nil {
		return nil, newError(KindPersistence, "failed to load tasks", err)
	}

	s.tasks = models.CloneTasks(tasks)
	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].CreatedAt.Before(s.tasks[j].CreatedAt)
	})

	s.logger.Debug("store loaded", "tasks", len(s.tasks))
	return s, nil
}

// Close closes the underlying adapter
func (s *Store) Close() error {
	return s.adapter.Close()
}

// List returns every task, newest first
func (s *Store) List() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// Matrix returns the four quadrant views, each newest first
func (s *Store) Matrix() models.Matrix {
	return models.Partition(s.List())
}

// Get returns a copy of one task
func (s *Store) Get(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Task{}, taskNotFound(id)
	}
	return s.tasks[i].Clone(), nil
}

// Degraded reports whether the last write to the durable mirror failed
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Create adds a task. On a persistence failure the task is still created in
// memory and returned together with the error.
func (s *Store) Create(ctx context.Context, text string, isImportant, isUrgent bool) (models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, newError(KindValidation, "task text cannot be empty", nil)
	}

	var created models.Task
	err := s.apply(ctx, OpCreate, func() (change, error) {
		created = models.Task{
			ID:          s.freshTaskIDLocked(),
			Text:        text,
			IsImportant: isImportant,
			IsUrgent:    isUrgent,
			Completed:   false,
			CreatedAt:   s.nextCreatedAtLocked(),
			SubTasks:    []models.SubTask{},
		}
		s.tasks = append(s.tasks, created)
		return change{taskID: created.ID}, nil
	})
	return created.Clone(), err
}

// ToggleCompletion flips a task's completed flag
func (s *Store) ToggleCompletion(ctx context.Context, id string) (models.Task, error) {
	var updated models.Task
	err := s.apply(ctx, OpToggle, func() (change, error) {
		i := s.indexLocked(id)
		if i < 0 {
			return change{}, taskNotFound(id)
		}
		s.tasks[i].Completed = !s.tasks[i].Completed
		updated = s.tasks[i].Clone()
		return change{taskID: id}, nil
	})
	return updated, err
}

// Rename replaces a task's text. Renaming to the current text writes nothing.
func (s *Store) Rename(ctx context.Context, id, text string) (models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, newError(KindValidation, "task text cannot be empty", nil)
	}

	var updated models.Task
	err := s.apply(ctx, OpRename, func() (change, error) {
		i := s.indexLocked(id)
		if i < 0 {
			return change{}, taskNotFound(id)
		}
		if s.tasks[i].Text == text {
			updated = s.tasks[i].Clone()
			return change{noop: true}, nil
		}
		s.tasks[i].Text = text
		updated = s.tasks[i].Clone()
		return change{taskID: id}, nil
	})
	return updated, err
}

// Remove deletes a task and its sub-tasks. Removing an absent id succeeds.
func (s *Store) Remove(ctx context.Context, id string) error {
	return s.apply(ctx, OpRemove, func() (change, error) {
		i := s.indexLocked(id)
		if i < 0 {
			return change{noop: true}, nil
		}
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		return change{taskID: id, deleted: true}, nil
	})
}

// MoveToQuadrant sets both flags to the pair that maps to q
func (s *Store) MoveToQuadrant(ctx context.Context, id string, q models.Quadrant) (models.Task, error) {
	if !q.Valid() {
		return models.Task{}, newError(KindValidation, "invalid quadrant '"+string(q)+"'", nil)
	}
	isImportant, isUrgent := q.Flags()

	var updated models.Task
	err := s.apply(ctx, OpMove, func() (change, error) {
		i := s.indexLocked(id)
		if i < 0 {
			return change{}, taskNotFound(id)
		}
		if s.tasks[i].IsImportant == isImportant && s.tasks[i].IsUrgent == isUrgent {
			updated = s.tasks[i].Clone()
			return change{noop: true}, nil
		}
		s.tasks[i].IsImportant = isImportant
		s.tasks[i].IsUrgent = isUrgent
		updated = s.tasks[i].Clone()
		return change{taskID: id}, nil
	})
	return updated, err
}

// AddSubTask appends a sub-task to the end of the task's list
func (s *Store) AddSubTask(ctx context.Context, taskID, text string) (models.SubTask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.SubTask{}, newError(KindValidation, "sub-task text cannot be empty", nil)
	}

	var created models.SubTask
	err := s.apply(ctx, OpAddSubTask, func() (change, error) {
		i := s.indexLocked(taskID)
		if i < 0 {
			return change{}, taskNotFound(taskID)
		}
		created = models.SubTask{
			ID:        s.freshSubTaskIDLocked(s.tasks[i]),
			Text:      text,
			Completed: false,
		}
		s.tasks[i].SubTasks = append(s.tasks[i].SubTasks, created)
		return change{taskID: taskID, subTaskID: created.ID}, nil
	})
	return created, err
}

// ToggleSubTask flips a sub-task's completed flag
func (s *Store) ToggleSubTask(ctx context.Context, taskID, subTaskID string) (models.SubTask, error) {
	var updated models.SubTask
	err := s.apply(ctx, OpToggleSubTask, func() (change, error) {
		i := s.indexLocked(taskID)
		if i < 0 {
			return change{}, taskNotFound(taskID)
		}
		j := s.tasks[i].SubTaskIndex(subTaskID)
		if j < 0 {
			return change{}, subTaskNotFound(taskID, subTaskID)
		}
		sub := &s.tasks[i].SubTasks[j]
		sub.Completed = !sub.Completed
		updated = *sub
		return change{taskID: taskID, subTaskID: subTaskID}, nil
	})
	return updated, err
}

// RenameSubTask replaces a sub-task's text. Renaming to the current text writes nothing.
func (s *Store) RenameSubTask(ctx context.Context, taskID, subTaskID, text string) (models.SubTask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.SubTask{}, newError(KindValidation, "sub-task text cannot be empty", nil)
	}

	var updated models.SubTask
	err := s.apply(ctx, OpRenameSubTask, func() (change, error) {
		i := s.indexLocked(taskID)
		if i < 0 {
			return change{}, taskNotFound(taskID)
		}
		j := s.tasks[i].SubTaskIndex(subTaskID)
		if j < 0 {
			return change{}, subTaskNotFound(taskID, subTaskID)
		}
		sub := &s.tasks[i].SubTasks[j]
		if sub.Text == text {
			updated = *sub
			return change{noop: true}, nil
		}
		sub.Text = text
		updated = *sub
		return change{taskID: taskID, subTaskID: subTaskID}, nil
	})
	return updated, err
}

// Sync writes the whole collection to the durable mirror. A success leaves degraded mode.
func (s *Store) Sync(ctx context.Context) error {
	return s.apply(ctx, OpSync, func() (change, error) {
		return change{full: true}, nil
	})
}

// change describes what a mutation touched
type change struct {
	taskID    string
	subTaskID string
	deleted   bool
	noop      bool
	full      bool
}

// apply runs fn under the store lock, persists what it changed and publishes
// the result. Nothing is written or published when fn fails or changes nothing.
// A persistence failure keeps the in-memory change and is returned to the caller.
func (s *Store) apply(ctx context.Context, op Op, fn func() (change, error)) error {
	s.mu.Lock()

	ch, err := fn()
	if err != nil || ch.noop {
		s.mu.Unlock()
		return err
	}

	perr := s.persistLocked(ctx, ch)
	if perr == nil {
		s.logger.Debug("task committed", "op", op, "task_id", ch.taskID, "sub_task_id", ch.subTaskID)
	}

	ev := Event{
		Op:        op,
		TaskID:    ch.taskID,
		SubTaskID: ch.subTaskID,
		Tasks:     s.listLocked(),
		Degraded:  s.degraded,
	}
	if perr != nil {
		ev.Err = perr
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	s.notify(ev)

	return perr
}

// persistLocked mirrors a change to the adapter. Single-task writes are used
// only while the mirror is known to be in sync; otherwise the whole collection
// is written, which also retries whatever an earlier failure left unsaved.
func (s *Store) persistLocked(ctx context.Context, ch change) error {
	var err error
	delta, isDelta := s.adapter.(db.DeltaAdapter)
	switch {
	case isDelta && !s.degraded && !ch.full && ch.deleted:
		err = delta.DeleteTask(ctx, ch.taskID)
	case isDelta && !s.degraded && !ch.full:
		err = delta.PutTask(ctx, s.tasks[s.indexLocked(ch.taskID)].Clone())
	default:
		err = s.adapter.Save(ctx, s.listLocked())
	}

	if err != nil {
		s.degraded = true
		s.logger.Warn("changes may not be saved", "task_id", ch.taskID, "error", err)
		return newError(KindPersistence, "changes may not be saved", err)
	}
	if s.degraded {
		s.logger.Info("storage recovered", "tasks", len(s.tasks))
	}
	s.degraded = false
	return nil
}

// listLocked copies the collection newest first
func (s *Store) listLocked() []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for i := len(s.tasks) - 1; i >= 0; i-- {
		out = append(out, s.tasks[i].Clone())
	}
	return out
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) freshTaskIDLocked() string {
	for {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id
		}
	}
}

func (s *Store) freshSubTaskIDLocked(parent models.Task) string {
	for {
		id := s.newID()
		if id != "" && parent.SubTaskIndex(id) < 0 {
			return id
		}
	}
}

// nextCreatedAtLocked returns now, bumped past the newest task so creation
// order and timestamp order never disagree
func (s *Store) nextCreatedAtLocked() time.Time {
	now := s.now().UTC().Round(0)
	if n := len(s.tasks); n > 0 {
		newest := s.tasks[n-1].CreatedAt
		if !now.After(newest) {
			now = newest.Add(time.Nanosecond)
		}
	}
	return now
}
