package db

import (
	"time"

	"github.com/balkashynov/tempus/internal/models"
)

// schemaVersion is stamped on every row and snapshot written by this build
const schemaVersion = 1

// taskRecord is the row shape of a task
type taskRecord struct {
	ID            string `gorm:"primaryKey"`
	Text          string `gorm:"not null"`
	IsImportant   bool   `gorm:"index"`
	IsUrgent      bool   `gorm:"index"`
	Completed     bool   `gorm:"index"`
	CreatedAtNano int64  `gorm:"column:created_at;index"` // unix nanoseconds, UTC
	SchemaVersion int

	// Relationships
	SubTasks []subTaskRecord `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (taskRecord) TableName() string {
	return "tasks"
}

// subTaskRecord is the row shape of a sub-task. Position keeps insertion order.
type subTaskRecord struct {
	TaskID    string `gorm:"primaryKey"`
	ID        string `gorm:"primaryKey"`
	Position  int    `gorm:"not null;index"`
	Text      string `gorm:"not null"`
	Completed bool
}

func (subTaskRecord) TableName() string {
	return "sub_tasks"
}

func toTaskRecord(t models.Task) taskRecord {
	return taskRecord{
		ID:            t.ID,
		Text:          t.Text,
		IsImportant:   t.IsImportant,
		IsUrgent:      t.IsUrgent,
		Completed:     t.Completed,
		CreatedAtNano: toUnixNano(t.CreatedAt),
		SchemaVersion: schemaVersion,
	}
}

// toUnixNano maps the zero time to 0, UnixNano is undefined outside 1678..2262
func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func toSubTaskRecords(t models.Task) []subTaskRecord {
	subs := make([]subTaskRecord, 0, len(t.SubTasks))
	for i, sub := range t.SubTasks {
		subs = append(subs, subTaskRecord{
			TaskID:    t.ID,
			ID:        sub.ID,
			Position:  i,
			Text:      sub.Text,
			Completed: sub.Completed,
		})
	}
	return subs
}

func fromTaskRecord(r taskRecord) models.Task {
	t := models.Task{
		ID:          r.ID,
		Text:        r.Text,
		IsImportant: r.IsImportant,
		IsUrgent:    r.IsUrgent,
		Completed:   r.Completed,
		CreatedAt:   fromUnixNano(r.CreatedAtNano),
		SubTasks:    make([]models.SubTask, 0, len(r.SubTasks)),
	}
	for _, sub := range r.SubTasks {
		t.SubTasks = append(t.SubTasks, models.SubTask{
			ID:        sub.ID,
			Text:      sub.Text,
			Completed: sub.Completed,
		})
	}
	return t
}
