package store

import (
	"math"
	"slices"

	"github.com/tgienger/daybook/internal/models"
)

const timeEntryDescription = "Time tracking session"

// StartTimeTracking appends an open entry starting now. A second call before
// StopTimeTracking opens a second entry; callers are expected to check
// ActiveTimeEntry first.
func (s *Store) StartTimeTracking(taskID string) {
	now := s.now()
	entry := models.TimeEntry{
		ID:          s.newID("entry"),
		StartTime:   now,
		Description: timeEntryDescription,
	}
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			t.TimeEntries = append(t.TimeEntries, entry)
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

// StopTimeTracking closes the first open entry of the task, stores its
// duration in whole minutes and recomputes ActualHours from every entry.
// Any further open entries stay open.
func (s *Store) StopTimeTracking(taskID string) {
	now := s.now()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			i := slices.IndexFunc(t.TimeEntries, models.TimeEntry.Open)
			if i < 0 {
				return false
			}
			end := now
			minutes := int(math.Round(float64(end.Sub(t.TimeEntries[i].StartTime).Milliseconds()) / 60000))
			t.TimeEntries[i].EndTime = &end
			t.TimeEntries[i].Duration = &minutes

			hours := round2(float64(trackedMinutes(t.TimeEntries)) / 60)
			t.ActualHours = &hours
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

// AddTimeEntry appends a manually recorded entry. ActualHours is left as is
// until the next StopTimeTracking.
func (s *Store) AddTimeEntry(taskID string, entry models.TimeEntry) {
	now := s.now()
	entry = entry.Clone()
	s.update(func(next *Snapshot) touched {
		tasks, ok := updateTask(next.Tasks, taskID, func(t *models.Task) bool {
			t.TimeEntries = append(t.TimeEntries, entry)
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

// ActiveTimeEntry returns the first open entry of the task, if any
func ActiveTimeEntry(t models.Task) (models.TimeEntry, bool) {
	i := slices.IndexFunc(t.TimeEntries, models.TimeEntry.Open)
	if i < 0 {
		return models.TimeEntry{}, false
	}
	return t.TimeEntries[i], true
}

func trackedMinutes(entries []models.TimeEntry) int {
	total := 0
	for _, e := range entries {
		if e.Duration != nil {
			total += *e.Duration
		}
	}
	return total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
