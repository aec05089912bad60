package db

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/balkashynov/tempus/internal/models"
)

// Storage strategies
const (
	StorageSQLite   = "sqlite"
	StorageSnapshot = "snapshot"
)

// Adapter is the durable mirror of the task collection.
// Load returns an empty collection, not an error, when nothing was saved yet.
type Adapter interface {
	Load(ctx context.Context) ([]models.Task, error)
	Save(ctx context.Context, tasks []models.Task) error
	Close() error
}

// DeltaAdapter can persist a single task without rewriting the collection
type DeltaAdapter interface {
	Adapter
	PutTask(ctx context.Context, task models.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// Options selects and configures an adapter
type Options struct {
	Storage     string
	DataDir     string
	AsyncWrites bool
	Logger      *slog.Logger
}

// Open builds the adapter for the configured storage strategy
func Open(opts Options) (Adapter, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		adapter Adapter
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Storage)) {
	case "", StorageSQLite:
		adapter, err = OpenSQLite(filepath.Join(opts.DataDir, "tempus.db"))
	case StorageSnapshot:
		adapter, err = NewSnapshotAdapter(filepath.Join(opts.DataDir, "tasks.json"))
	default:
		return nil, fmt.Errorf("unknown storage type '%s'. Use: %s or %s", opts.Storage, StorageSQLite, StorageSnapshot)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("storage opened", "storage", opts.Storage, "data_dir", opts.DataDir, "async", opts.AsyncWrites)

	if opts.AsyncWrites {
		return NewQueue(adapter, logger), nil
	}
	return adapter, nil
}
