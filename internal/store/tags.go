package store

import (
	"slices"

	"github.com/tgienger/daybook/internal/models"
)

// AddTag registers a tag globally
func (s *Store) AddTag(tag models.Tag) {
	s.update(func(next *Snapshot) touched {
		next.Tags = append(slices.Clone(next.Tags), tag)
		return touchedTags
	})
}

// UpdateTag changes the registry entry only. Tasks keep the copy they were
// given when the tag was attached, so their name and color go stale.
func (s *Store) UpdateTag(id string, patch models.TagPatch) {
	s.update(func(next *Snapshot) touched {
		i := slices.IndexFunc(next.Tags, func(t models.Tag) bool { return t.ID == id })
		if i < 0 {
			return 0
		}
		tags := slices.Clone(next.Tags)
		patch.Apply(&tags[i])
		next.Tags = tags
		return touchedTags
	})
}

// DeleteTag removes the tag from the registry and strips it from every task
// that carries a copy. Both collections are persisted.
func (s *Store) DeleteTag(id string) {
	s.update(func(next *Snapshot) touched {
		var t touched
		if slices.ContainsFunc(next.Tags, func(tag models.Tag) bool { return tag.ID == id }) {
			next.Tags = slices.DeleteFunc(slices.Clone(next.Tags), func(tag models.Tag) bool { return tag.ID == id })
			t |= touchedTags
		}

		hasTag := func(tag models.Tag) bool { return tag.ID == id }
		var tasks []models.Task
		for i, task := range next.Tasks {
			if !slices.ContainsFunc(task.Tags, hasTag) {
				continue
			}
			if tasks == nil {
				tasks = slices.Clone(next.Tasks)
			}
			c := task.Clone()
			c.Tags = slices.DeleteFunc(c.Tags, hasTag)
			tasks[i] = c
		}
		if tasks != nil {
			next.Tasks = tasks
			t |= touchedTasks
		}
		return t
	})
}

// AddTagToTask copies the registry tag onto the task unless the task already
// has a tag with that id
func (s *Store) AddTagToTask(taskID, tagID string) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		i := slices.IndexFunc(next.Tags, func(t models.Tag) bool { return t.ID == tagID })
		if i < 0 {
			return 0
		}
		tag := next.Tags[i]
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			if slices.ContainsFunc(t.Tags, func(existing models.Tag) bool { return existing.ID == tagID }) {
				return false
			}
			t.Tags = append(t.Tags, tag)
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

// RemoveTagFromTask drops the tag from the task's list and refreshes
// UpdatedAt
func (s *Store) RemoveTagFromTask(taskID, tagID string) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			t.Tags = slices.DeleteFunc(t.Tags, func(tag models.Tag) bool { return tag.ID == tagID })
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
