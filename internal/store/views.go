package store

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tgienger/daybook/internal/models"
)

// Column is one kanban lane
type Column struct {
	Status models.Status
	Tasks  []models.Task
}

// KanbanColumns groups non-archived tasks by status, in todo, in-progress,
// done order. Each column is sorted by Position; tasks without one sort as 0.
func (s Snapshot) KanbanColumns() []Column {
	cols := make([]Column, len(models.Statuses))
	for i, st := range models.Statuses {
		cols[i].Status = st
		cols[i].Tasks = []models.Task{}
	}
	for _, t := range s.Tasks {
		if t.Archived {
			continue
		}
		if i := slices.Index(models.Statuses, t.Status); i >= 0 {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	for i := range cols {
		slices.SortStableFunc(cols[i].Tasks, func(a, b models.Task) int {
			return position(a) - position(b)
		})
	}
	return cols
}

func position(t models.Task) int {
	if t.Position == nil {
		return 0
	}
	return *t.Position
}

// TasksDueOn returns the non-archived tasks due on the calendar day of
// date, in date's location
func (s Snapshot) TasksDueOn(date time.Time) []models.Task {
	want := dayOf(date, date.Location())
	var out []models.Task
	for _, t := range s.Tasks {
		if t.Archived || t.DueDate == nil {
			continue
		}
		if dayOf(*t.DueDate, date.Location()).Equal(want) {
			out = append(out, t)
		}
	}
	return out
}

// ProjectTasks returns the non-archived tasks of a project
func (s Snapshot) ProjectTasks(projectID string) []models.Task {
	var out []models.Task
	for _, t := range s.Tasks {
		if !t.Archived && t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

func (s Snapshot) ArchivedTasks() []models.Task {
	var out []models.Task
	for _, t := range s.Tasks {
		if t.Archived {
			out = append(out, t)
		}
	}
	return out
}

// SearchResult holds what Search matched
type SearchResult struct {
	Tasks    []models.Task
	Projects []models.Project
}

// Search matches query case-insensitively against task titles and
// descriptions and project names and descriptions. An empty query matches
// nothing.
func (s Snapshot) Search(query string) SearchResult {
	var res SearchResult
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return res
	}
	match := func(fields ...string) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	}
	for _, t := range s.Tasks {
		if match(t.Title, t.Description) {
			res.Tasks = append(res.Tasks, t)
		}
	}
	for _, p := range s.Projects {
		if match(p.Name, p.Description) {
			res.Projects = append(res.Projects, p)
		}
	}
	return res
}

// GroceryProgress reports how many items of the list are completed
func GroceryProgress(l models.GroceryList) (done, total int) {
	for _, it := range l.Items {
		if it.Completed {
			done++
		}
	}
	return done, len(l.Items)
}

// GroceryProgressLabel formats GroceryProgress as "done/total"
func GroceryProgressLabel(l models.GroceryList) string {
	done, total := GroceryProgress(l)
	return fmt.Sprintf("%d/%d", done, total)
}
