package store

import (
	"math"
	"time"

	"github.com/tgienger/daybook/internal/models"
)

const day = 24 * time.Hour

// GetStatistics computes statistics over the current snapshot at the
// store's notion of now
func (s *Store) GetStatistics() models.Statistics {
	return Statistics(s.Snapshot().Tasks, s.now())
}

// Statistics derives the dashboard numbers from tasks as of now. Archived
// tasks are ignored throughout. Calendar days are taken in now's location.
func Statistics(tasks []models.Task, now time.Time) models.Statistics {
	var st models.Statistics

	weekAgo := now.Add(-7 * day)
	monthAgo := now.Add(-30 * day)

	var completionHours, totalTime float64
	doneDays := make(map[string]bool)

	for _, t := range tasks {
		if t.Archived {
			continue
		}
		st.TotalTasks++

		switch t.Status {
		case models.StatusDone:
			st.CompletedTasks++
			completionHours += t.UpdatedAt.Sub(t.CreatedAt).Hours()
			doneDays[dayOf(t.UpdatedAt, now.Location()).Format(time.DateOnly)] = true
		case models.StatusInProgress:
			st.InProgressTasks++
		}

		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != models.StatusDone {
			st.OverdueTasks++
		}
		if !t.CreatedAt.Before(weekAgo) {
			st.TasksThisWeek++
		}
		if !t.CreatedAt.Before(monthAgo) {
			st.TasksThisMonth++
		}
		if t.ActualHours != nil {
			totalTime += *t.ActualHours
		}
	}

	if st.CompletedTasks > 0 {
		st.AverageCompletionTime = round2(completionHours / float64(st.CompletedTasks))
	}

	var rate float64
	if st.TotalTasks > 0 {
		rate = float64(st.CompletedTasks) / float64(st.TotalTasks) * 100
	}
	st.CompletionRate = round2(rate)

	score := math.Round(rate*0.4 +
		float64(st.TasksThisWeek)/7*10*0.3 +
		float64(st.TasksThisMonth)/30*10*0.3)
	st.ProductivityScore = int(min(max(score, 0), 100))

	st.Streak = streak(doneDays, dayOf(now, now.Location()))
	st.TotalTime = round2(totalTime)
	return st
}

// streak counts consecutive days with at least one completion, walking back
// from today. Today is a grace day: with no completions yet the walk starts
// from yesterday instead of reporting 0, so the streak survives until the
// day is over.
func streak(doneDays map[string]bool, today time.Time) int {
	d := today
	if !doneDays[d.Format(time.DateOnly)] {
		d = d.AddDate(0, 0, -1)
	}
	n := 0
	for doneDays[d.Format(time.DateOnly)] {
		n++
		d = d.AddDate(0, 0, -1)
	}
	return n
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
