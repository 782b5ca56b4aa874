package models

import "time"

// Patches carry the fields a caller wants to change. A nil field is left
// untouched by Apply.

type TaskPatch struct {
	Title          *string
	Description    *string
	Status         *Status
	Priority       *Priority
	Tags           []Tag
	DueDate        *time.Time
	ClearDueDate   bool
	EstimatedHours *float64
	ActualHours    *float64
	Progress       *int
	Assignees      []User
	Recurrence     *Recurrence
	Archived       *bool
	Position       *int
}

// Apply merges the patch onto t. Slices are replaced, not appended to.
// ProjectID and ProjectName are deliberately absent: MoveTask owns them.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Tags != nil {
		t.Tags = append([]Tag{}, p.Tags...)
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.EstimatedHours != nil {
		t.EstimatedHours = ptr(*p.EstimatedHours)
	}
	if p.ActualHours != nil {
		t.ActualHours = ptr(*p.ActualHours)
	}
	if p.Progress != nil {
		t.Progress = ptr(*p.Progress)
	}
	if p.Assignees != nil {
		t.Assignees = append([]User{}, p.Assignees...)
	}
	if p.Recurrence != nil {
		r := p.Recurrence.Clone()
		t.Recurrence = &r
	}
	if p.Archived != nil {
		t.Archived = *p.Archived
	}
	if p.Position != nil {
		t.Position = ptr(*p.Position)
	}
}

type SubtaskPatch struct {
	Title     *string
	Completed *bool
}

func (p SubtaskPatch) Apply(s *Subtask) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
}

type TagPatch struct {
	Name  *string
	Color *string
}

func (p TagPatch) Apply(t *Tag) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
}

type ReminderPatch struct {
	Date *time.Time
	Type *ReminderType
	Sent *bool
}

func (p ReminderPatch) Apply(r *Reminder) {
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Sent != nil {
		r.Sent = *p.Sent
	}
}

type ProjectPatch struct {
	Name           *string
	Description    *string
	Color          *string
	TotalTasks     *int
	CompletedTasks *int
	Assignees      []User
}

func (p ProjectPatch) Apply(pr *Project) {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.Color != nil {
		pr.Color = *p.Color
	}
	if p.TotalTasks != nil {
		pr.TotalTasks = *p.TotalTasks
	}
	if p.CompletedTasks != nil {
		pr.CompletedTasks = *p.CompletedTasks
	}
	if p.Assignees != nil {
		pr.Assignees = append([]User{}, p.Assignees...)
	}
}

type TemplatePatch struct {
	Name           *string
	Title          *string
	Description    *string
	Priority       *Priority
	Tags           []Tag
	EstimatedHours *float64
	Subtasks       []SubtaskBlueprint
}

func (p TemplatePatch) Apply(t *TaskTemplate) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Tags != nil {
		t.Tags = append([]Tag{}, p.Tags...)
	}
	if p.EstimatedHours != nil {
		t.EstimatedHours = ptr(*p.EstimatedHours)
	}
	if p.Subtasks != nil {
		t.Subtasks = append([]SubtaskBlueprint{}, p.Subtasks...)
	}
}

type GroceryListPatch struct {
	Name *string
}

func (p GroceryListPatch) Apply(l *GroceryList) {
	if p.Name != nil {
		l.Name = *p.Name
	}
}

type GroceryItemPatch struct {
	Name      *string
	Category  *GroceryCategory
	Quantity  *string
	Completed *bool
}

func (p GroceryItemPatch) Apply(it *GroceryItem) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Category != nil {
		it.Category = CanonicalCategory(string(*p.Category))
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.Completed != nil {
		it.Completed = *p.Completed
	}
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}

func ptr[T any](v T) *T {
	return &v
}
