package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/tempus/internal/models"
)

// Load retrieves every task with its sub-tasks, newest first
func (a *SQLiteAdapter) Load(ctx context.Context) ([]models.Task, error) {
	var records []taskRecord

	err := a.db.WithContext(ctx).
		Preload("SubTasks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, fromTaskRecord(r))
	}
	return tasks, nil
}

// Save reconciles the database with the full collection in one transaction
func (a *SQLiteAdapter) Save(ctx context.Context, tasks []models.Task) error {
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(tasks))
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}

		// Drop rows of tasks that are no longer in the collection
		if len(ids) == 0 {
			all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
			if err := all.Delete(&subTaskRecord{}).Error; err != nil {
				return err
			}
			if err := all.Delete(&taskRecord{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("task_id NOT IN ?", ids).Delete(&subTaskRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id NOT IN ?", ids).Delete(&taskRecord{}).Error; err != nil {
				return err
			}
		}

		for _, t := range tasks {
			if err := putTask(tx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// PutTask upserts one task and replaces its sub-tasks atomically
func (a *SQLiteAdapter) PutTask(ctx context.Context, task models.Task) error {
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return putTask(tx, task)
	})
	if err != nil {
		return fmt.Errorf("failed to save task %s: %w", task.ID, err)
	}
	return nil
}

// DeleteTask removes one task and its sub-tasks atomically
func (a *SQLiteAdapter) DeleteTask(ctx context.Context, id string) error {
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&subTaskRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&taskRecord{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}

// putTask writes the task row and rewrites its sub-task rows inside tx
func putTask(tx *gorm.DB, task models.Task) error {
	record := toTaskRecord(task)
	err := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&record).Error
	if err != nil {
		return err
	}

	if err := tx.Where("task_id = ?", task.ID).Delete(&subTaskRecord{}).Error; err != nil {
		return err
	}

	subs := toSubTaskRecords(task)
	if len(subs) == 0 {
		return nil
	}
	return tx.Create(&subs).Error
}
