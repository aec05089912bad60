package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/balkashynov/tempus/internal/models"
)

// snapshotDoc is the on-disk shape of the whole collection
type snapshotDoc struct {
	Version int           `json:"version"`
	Tasks   []models.Task `json:"tasks"`
}

// SnapshotAdapter keeps the whole collection under a single JSON file
type SnapshotAdapter struct {
	mu   sync.RWMutex
	path string
}

// NewSnapshotAdapter creates a snapshot store at path, creating its directory
func NewSnapshotAdapter(path string) (*SnapshotAdapter, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve snapshot path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tempus directory: %w", err)
	}
	return &SnapshotAdapter{path: abs}, nil
}

// Load reads the last committed snapshot. A missing file is the first-run state.
func (s *SnapshotAdapter) Load(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("corrupted snapshot %s: %w", s.path, err)
	}

	tasks := doc.Tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	for i := range tasks {
		if tasks[i].SubTasks == nil {
			tasks[i].SubTasks = []models.SubTask{}
		}
	}
	return tasks, nil
}

// Save replaces the snapshot atomically: write to a temp file then rename
func (s *SnapshotAdapter) Save(_ context.Context, tasks []models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(snapshotDoc{
		Version: schemaVersion,
		Tasks:   models.CloneTasks(tasks),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Close is a no-op; every Save is already on disk
func (s *SnapshotAdapter) Close() error {
	return nil
}

// Path returns the snapshot file location
func (s *SnapshotAdapter) Path() string {
	return s.path
}
