package store

import (
	"slices"

	"github.com/tgienger/daybook/internal/models"
)

// Reminders are stored only. Nothing in daybook flips Sent; a scheduler
// would do that through UpdateReminder.

func (s *Store) AddReminder(taskID string, reminder models.Reminder) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			t.Reminders = append(t.Reminders, reminder)
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

func (s *Store) UpdateReminder(taskID, reminderID string, patch models.ReminderPatch) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			i := slices.IndexFunc(t.Reminders, func(r models.Reminder) bool { return r.ID == reminderID })
			if i < 0 {
				return false
			}
			patch.Apply(&t.Reminders[i])
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

func (s *Store) DeleteReminder(taskID, reminderID string) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			n := len(t.Reminders)
			t.Reminders = slices.DeleteFunc(t.Reminders, func(r models.Reminder) bool { return r.ID == reminderID })
			if len(t.Reminders) == n {
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
