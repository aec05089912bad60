package models

import (
	"time"
)

// Task represents a captured todo item placed in the matrix by its two flags
type Task struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	IsImportant bool      `json:"isImportant"`
	IsUrgent    bool      `json:"isUrgent"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	SubTasks    []SubTask `json:"subTasks"`
}

// SubTask represents a checklist item owned by a task
type SubTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Quadrant derives the task's quadrant from its flags. It is never stored.
func (t Task) Quadrant() Quadrant {
	return QuadrantOf(t.IsImportant, t.IsUrgent)
}

// Clone returns a deep copy that shares no sub-task storage with t
func (t Task) Clone() Task {
	c := t
	c.SubTasks = make([]SubTask, len(t.SubTasks))
	copy(c.SubTasks, t.SubTasks)
	return c
}

// SubTaskIndex returns the position of the sub-task with the given id, or -1
func (t Task) SubTaskIndex(subTaskID string) int {
	for i, sub := range t.SubTasks {
		if sub.ID == subTaskID {
			return i
		}
	}
	return -1
}

// CompletedSubTasks counts finished sub-tasks
func (t Task) CompletedSubTasks() int {
	n := 0
	for _, sub := range t.SubTasks {
		if sub.Completed {
			n++
		}
	}
	return n
}

// CloneTasks deep-copies a task slice
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
