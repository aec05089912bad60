package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteAdapter persists tasks as indexed rows in a local SQLite database
type SQLiteAdapter struct {
	db *gorm.DB
}

// OpenSQLite sets up the database connection and runs migrations
func OpenSQLite(dbPath string) (*SQLiteAdapter, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create tempus directory: %w", err)
	}

	// Open database connection
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// A single connection keeps writes strictly ordered
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	adapter := &SQLiteAdapter{db: db}

	if err := adapter.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return adapter, nil
}

// runMigrations creates/updates the database schema
func (a *SQLiteAdapter) runMigrations() error {
	return a.db.AutoMigrate(
		&taskRecord{},
		&subTaskRecord{},
	)
}

// Close closes the database connection
func (a *SQLiteAdapter) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
