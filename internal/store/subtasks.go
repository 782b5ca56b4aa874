package store

import (
	"slices"

	"github.com/tgienger/daybook/internal/models"
)

func (s *Store) AddSubtask(taskID string, subtask models.Subtask) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			t.Subtasks = append(t.Subtasks, subtask)
			t.UpdatedAt = now
			return true
		})
		if !ok {
			return 0
		}
		next.Tasks = tasks
		return touchedTasks
	})
}

// UpdateSubtask merges patch onto the subtask and refreshes both its
// UpdatedAt and the parent task's. Unknown ids are ignored.
func (s *Store) UpdateSubtask(taskID, subtaskID string, patch models.SubtaskPatch) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			i := slices.IndexFunc(t.Subtasks, func(st models.Subtask) bool { return st.ID == subtaskID })
			if i < 0 {
				return false
			}
			patch.Apply(&t.Subtasks[i])
			t.Subtasks[i].UpdatedAt = now
			t.UpdatedAt = now
			return true
		})
		if !ok {
			return 0
		}
		next.Tasks = tasks
		return touchedTasks
	})
}

func (s *Store) DeleteSubtask(taskID, subtaskID string) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			n := len(t.Subtasks)
			t.Subtasks = slices.DeleteFunc(t.Subtasks, func(st models.Subtask) bool { return st.ID == subtaskID })
			if len(t.Subtasks) == n {
				return false
			}
			t.UpdatedAt = now
			return true
		})
		if !ok {
			return 0
		}
		next.Tasks = tasks
		return touchedTasks
	})
}
