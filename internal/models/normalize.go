package models

// Normalize fills the fields older documents may lack: priority defaults to
// medium and nil collections become empty ones. It reports whether anything
// changed so callers can decide to persist the migrated value.
func (t *Task) Normalize() bool {
	changed := false
	if t.Priority == "" {
		t.Priority = PriorityMedium
		changed = true
	}
	if t.Status == "" {
		t.Status = StatusTodo
		changed = true
	}
	if t.Tags == nil {
		t.Tags = []Tag{}
		changed = true
	}
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
		changed = true
	}
	if t.Reminders == nil {
		t.Reminders = []Reminder{}
		changed = true
	}
	if t.TimeEntries == nil {
		t.TimeEntries = []TimeEntry{}
		changed = true
	}
	if t.Assignees == nil {
		t.Assignees = []User{}
		changed = true
	}
	if t.Attachments == nil {
		t.Attachments = []Attachment{}
		changed = true
	}
	if t.Notes == nil {
		t.Notes = []Note{}
		changed = true
	}
	return changed
}

// Normalize gives a template empty collections and a default priority
func (t *TaskTemplate) Normalize() {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []Tag{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []SubtaskBlueprint{}
	}
}

// Normalize gives a project an empty assignee list
func (p *Project) Normalize() {
	if p.Assignees == nil {
		p.Assignees = []User{}
	}
}

// Normalize gives a list an empty item slice and files every item under a
// known category
func (l *GroceryList) Normalize() {
	if l.Items == nil {
		l.Items = []GroceryItem{}
	}
	for i := range l.Items {
		l.Items[i].Category = CanonicalCategory(string(l.Items[i].Category))
	}
}
