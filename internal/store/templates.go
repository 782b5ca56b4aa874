package store

import (
	"fmt"
	"slices"

	"github.com/tgienger/daybook/internal/models"
)

func (s *Store) AddTemplate(template models.TaskTemplate) {
	tpl := template.Clone()
	tpl.Normalize()
	s.update(func(next *Snapshot) touched {
		next.Templates = append(slices.Clone(next.Templates), tpl)
		return touchedTemplates
	})
}

func (s *Store) UpdateTemplate(id string, patch models.TemplatePatch) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		i := slices.IndexFunc(next.Templates, func(t models.TaskTemplate) bool { return t.ID == id })
		if i < 0 {
			return 0
		}
		templates := slices.Clone(next.Templates)
		tpl := templates[i].Clone()
		patch.Apply(&tpl)
		tpl.UpdatedAt = now
		templates[i] = tpl
		next.Templates = templates
		return touchedTemplates
	})
}

func (s *Store) DeleteTemplate(id string) {
	s.update(func(next *Snapshot) touched {
		if !slices.ContainsFunc(next.Templates, func(t models.TaskTemplate) bool { return t.ID == id }) {
			return 0
		}
		next.Templates = slices.DeleteFunc(slices.Clone(next.Templates), func(t models.TaskTemplate) bool { return t.ID == id })
		return touchedTemplates
	})
}

// Template returns the template with id from the current snapshot
func (s *Store) Template(id string) (models.TaskTemplate, error) {
	snap := s.Snapshot()
	for _, t := range snap.Templates {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return models.TaskTemplate{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
}

// CreateTaskFromTemplate builds a todo task from the template, with fresh
// incomplete subtasks and the current user as its only assignee, adds it
// through AddTask and returns it. Unlike the other actions an unknown id is
// an error, since the caller needs the task it asked for.
func (s *Store) CreateTaskFromTemplate(templateID string) (models.Task, error) {
	tpl, err := s.Template(templateID)
	if err != nil {
		return models.Task{}, err
	}

	now := s.now()
	user := s.Snapshot().CurrentUser

	subtasks := make([]models.Subtask, len(tpl.Subtasks))
	for i, bp := range tpl.Subtasks {
		subtasks[i] = models.Subtask{
			ID:        s.newID("subtask"),
			Title:     bp.Title,
			Completed: false,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	task := models.Task{
		ID:             s.newID("task"),
		Title:          tpl.Title,
		Description:    tpl.Description,
		Status:         models.StatusTodo,
		Priority:       tpl.Priority,
		Tags:           slices.Clone(tpl.Tags),
		EstimatedHours: tpl.EstimatedHours,
		Assignees:      []models.User{user},
		Attachments:    []models.Attachment{},
		Notes:          []models.Note{},
		Subtasks:       subtasks,
		Reminders:      []models.Reminder{},
		TimeEntries:    []models.TimeEntry{},
		Archived:       false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	task.Normalize()
	s.AddTask(task)
	return task, nil
}
