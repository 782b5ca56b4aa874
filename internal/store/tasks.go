package store

import (
	"fmt"
	"slices"

	"github.com/tgienger/daybook/internal/models"
)

// AddTask appends task. The caller supplies the id and timestamps; missing
// collections and priority are defaulted.
func (s *Store) AddTask(task models.Task) {
	t := task.Clone()
	t.Normalize()
	s.update(func(next *Snapshot) touched {
		next.Tasks = append(slices.Clone(next.Tasks), t)
		return touchedTasks
	})
}

// UpdateTask merges patch onto the task with id and refreshes UpdatedAt.
// Fields the patch leaves nil are not touched.
func (s *Store) UpdateTask(id string, patch models.TaskPatch) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, id, func(t *models.Task) bool {
			patch.Apply(t)
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

// DeleteTask removes the task. Projects and tags are not adjusted.
func (s *Store) DeleteTask(id string) {
	s.update(func(next *Snapshot) touched {
		if !slices.ContainsFunc(next.Tasks, func(t models.Task) bool { return t.ID == id }) {
			return 0
		}
		next.Tasks = slices.DeleteFunc(slices.Clone(next.Tasks), func(t models.Task) bool { return t.ID == id })
		return touchedTasks
	})
}

func (s *Store) ArchiveTask(id string) {
	s.setArchived(id, true)
}

func (s *Store) UnarchiveTask(id string) {
	s.setArchived(id, false)
}

func (s *Store) setArchived(id string, archived bool) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, id, func(t *models.Task) bool {
			t.Archived = archived
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

// DuplicateTask appends a deep copy of the task under a new id with
// " (Copy)" appended to the title, status reset to todo and unarchived.
// It returns the new task id, or "" when id is unknown.
func (s *Store) DuplicateTask(id string) string {
	now := s.now()
	newID := s.newID("task")
	created := ""
	s.update(func(next *Snapshot) touched {
		i := slices.IndexFunc(next.Tasks, func(t models.Task) bool { return t.ID == id })
		if i < 0 {
			return 0
		}
		c := next.Tasks[i].Clone()
		c.ID = newID
		c.Title += " (Copy)"
		c.Status = models.StatusTodo
		c.Archived = false
		c.CreatedAt = now
		c.UpdatedAt = now
		next.Tasks = append(slices.Clone(next.Tasks), c)
		created = newID
		return touchedTasks
	})
	return created
}

// MoveTask points the task at another project and copies that project's
// name into ProjectName. An empty projectID detaches the task. When the
// project does not exist the id is still stored and the name cleared.
func (s *Store) MoveTask(taskID, projectID string) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		name := ""
		if projectID != "" {
			if i := slices.IndexFunc(next.Projects, func(p models.Project) bool { return p.ID == projectID }); i >= 0 {
				name = next.Projects[i].Name
			}
		}
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			t.ProjectID = projectID
			t.ProjectName = name
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

// ReorderTasks gives the listed tasks positions 0..n-1 in the given order
// and moves them to the front of the collection. Unknown ids are skipped
// and other tasks keep their position.
func (s *Store) ReorderTasks(ids []string) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		byID := make(map[string]int, len(next.Tasks))
		for i, t := range next.Tasks {
			byID[t.ID] = i
		}

		listed := make(map[string]bool, len(ids))
		reordered := make([]models.Task, 0, len(ids))
		for _, id := range ids {
			i, ok := byID[id]
			if !ok || listed[id] {
				continue
			}
			listed[id] = true
			t := next.Tasks[i].Clone()
			pos := len(reordered)
			t.Position = &pos
			t.UpdatedAt = now
			reordered = append(reordered, t)
		}
		if len(reordered) == 0 {
			return 0
		}

		out := make([]models.Task, 0, len(next.Tasks))
		out = append(out, reordered...)
		for _, t := range next.Tasks {
			if !listed[t.ID] {
				out = append(out, t)
			}
		}
		next.Tasks = out
		return touchedTasks
	})
}

// AddAttachmentToTask appends attachment metadata produced by an upload
func (s *Store) AddAttachmentToTask(taskID string, attachment models.Attachment) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			t.Attachments = append(t.Attachments, attachment)
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

// AddNoteToTask appends a note, e.g. a document summary
func (s *Store) AddNoteToTask(taskID string, note models.Note) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			t.Notes = append(t.Notes, note)
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

// Task returns the task with id from the current snapshot
func (s *Store) Task(id string) (models.Task, error) {
	snap := s.Snapshot()
	for _, t := range snap.Tasks {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
}
