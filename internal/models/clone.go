package models

import "slices"

// Clone returns a deep copy of the task. Nested collections and optional
// values are copied so the result shares no memory with t.
func (t Task) Clone() Task {
	c := t
	c.Tags = slices.Clone(t.Tags)
	c.Assignees = slices.Clone(t.Assignees)
	c.Attachments = slices.Clone(t.Attachments)
	c.Notes = slices.Clone(t.Notes)
	c.Subtasks = slices.Clone(t.Subtasks)
	c.Reminders = slices.Clone(t.Reminders)
	c.TimeEntries = make([]TimeEntry, len(t.TimeEntries))
	for i, e := range t.TimeEntries {
		c.TimeEntries[i] = e.Clone()
	}
	if t.TimeEntries == nil {
		c.TimeEntries = nil
	}
	c.DueDate = clonePtr(t.DueDate)
	c.EstimatedHours = clonePtr(t.EstimatedHours)
	c.ActualHours = clonePtr(t.ActualHours)
	c.Progress = clonePtr(t.Progress)
	c.Position = clonePtr(t.Position)
	if t.Recurrence != nil {
		r := t.Recurrence.Clone()
		c.Recurrence = &r
	}
	return c
}

func (e TimeEntry) Clone() TimeEntry {
	c := e
	c.EndTime = clonePtr(e.EndTime)
	c.Duration = clonePtr(e.Duration)
	return c
}

func (r Recurrence) Clone() Recurrence {
	c := r
	c.DaysOfWeek = slices.Clone(r.DaysOfWeek)
	c.EndDate = clonePtr(r.EndDate)
	c.Occurrences = clonePtr(r.Occurrences)
	return c
}

func (l GroceryList) Clone() GroceryList {
	c := l
	c.Items = slices.Clone(l.Items)
	return c
}

func (p Project) Clone() Project {
	c := p
	c.Assignees = slices.Clone(p.Assignees)
	return c
}

func (t TaskTemplate) Clone() TaskTemplate {
	c := t
	c.Tags = slices.Clone(t.Tags)
	c.Subtasks = slices.Clone(t.Subtasks)
	c.EstimatedHours = clonePtr(t.EstimatedHours)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
