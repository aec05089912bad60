package store

import (
	"github.com/balkashynov/tempus/internal/models"
)

// Op names the mutation behind an Event
type Op string

const (
	OpCreate        Op = "create"
	OpToggle        Op = "toggle"
	OpRename        Op = "rename"
	OpRemove        Op = "remove"
	OpMove          Op = "move"
	OpAddSubTask    Op = "add_subtask"
	OpToggleSubTask Op = "toggle_subtask"
	OpRenameSubTask Op = "rename_subtask"
	OpSync          Op = "sync"
)

// Event is published after every committed mutation
type Event struct {
	Op        Op            `json:"op"`
	TaskID    string        `json:"taskId,omitempty"`
	SubTaskID string        `json:"subTaskId,omitempty"`
	Tasks     []models.Task `json:"tasks"` // newest first
	Degraded  bool          `json:"degraded"`
	Err       error         `json:"-"`
}

// Matrix partitions the event's collection by quadrant
func (e Event) Matrix() models.Matrix {
	return models.Partition(e.Tasks)
}

type observer struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for every future commit and returns a function that removes it.
// fn runs on the mutating goroutine and must not call store mutations itself.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.obsMu.Lock()
	s.nextObsID++
	id := s.nextObsID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(ev Event) {
	s.obsMu.RLock()
	observers := make([]observer, len(s.observers))
	copy(observers, s.observers)
	s.obsMu.RUnlock()

	for _, o := range observers {
		e := ev
		e.Tasks = models.CloneTasks(ev.Tasks)
		o.fn(e)
	}
}
