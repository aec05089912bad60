package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/balkashynov/tempus/internal/models"
)

// minPrefix is the shortest id prefix accepted on the command line
const minPrefix = 4

// resolveTask finds the task whose id equals ref or starts with it.
// Ids are uuids, so the list and matrix output shows only the first 8 characters.
func resolveTask(tasks []models.Task, ref string) (models.Task, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return models.Task{}, fmt.Errorf("task id cannot be empty")
	}

	var matches []models.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if len(ref) >= minPrefix && strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		if len(ref) < minPrefix {
			return models.Task{}, fmt.Errorf("task id '%s' is too short, use at least %d characters", ref, minPrefix)
		}
		return models.Task{}, fmt.Errorf("task '%s' not found", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("task id '%s' is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveSubTask finds a sub-task of t by id, id prefix or 1-based position
func resolveSubTask(t models.Task, ref string) (models.SubTask, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return models.SubTask{}, fmt.Errorf("sub-task id cannot be empty")
	}

	// Short numbers are positions, anything longer is an id prefix
	if pos, err := strconv.Atoi(ref); err == nil && len(ref) < minPrefix {
		if pos < 1 || pos > len(t.SubTasks) {
			return models.SubTask{}, fmt.Errorf("task '%s' has no sub-task #%d", shortID(t.ID), pos)
		}
		return t.SubTasks[pos-1], nil
	}

	var matches []models.SubTask
	for _, sub := range t.SubTasks {
		if sub.ID == ref {
			return sub, nil
		}
		if len(ref) >= minPrefix && strings.HasPrefix(sub.ID, ref) {
			matches = append(matches, sub)
		}
	}
	switch len(matches) {
	case 0:
		return models.SubTask{}, fmt.Errorf("sub-task '%s' not found", ref)
	case 1:
		return matches[0], nil
	default:
		return models.SubTask{}, fmt.Errorf("sub-task id '%s' is ambiguous (%d matches)", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
