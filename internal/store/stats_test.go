package store_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
)

func TestStatistics(t *testing.T) {
	now := epoch

	done1 := sampleTask("t1", now.Add(-48*time.Hour))
	done1.Status = models.StatusDone
	done1.UpdatedAt = now.Add(-time.Hour)

	done2 := sampleTask("t2", now.Add(-72*time.Hour))
	done2.Status = models.StatusDone
	done2.UpdatedAt = now.Add(-day)
	hours := 1.5
	done2.ActualHours = &hours

	working := sampleTask("t3", now.Add(-2*time.Hour))
	working.Status = models.StatusInProgress

	late := sampleTask("t4", now.Add(-10*day))
	due := now.Add(-day)
	late.DueDate = &due

	archived := sampleTask("t5", now)
	archived.Status = models.StatusDone
	archived.Archived = true

	got := store.Statistics([]models.Task{done1, done2, working, late, archived}, now)
	want := models.Statistics{
		TotalTasks:            4,
		CompletedTasks:        2,
		InProgressTasks:       1,
		OverdueTasks:          1,
		TasksThisWeek:         3,
		TasksThisMonth:        4,
		AverageCompletionTime: 47.5,
		ProductivityScore:     22,
		CompletionRate:        50,
		Streak:                2,
		TotalTime:             1.5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("statistics (-want +got):\n%s", diff)
	}
}

func TestStatisticsEmpty(t *testing.T) {
	got := store.Statistics(nil, epoch)
	if diff := cmp.Diff(models.Statistics{}, got); diff != "" {
		t.Errorf("statistics (-want +got):\n%s", diff)
	}
}

func TestStreak(t *testing.T) {
	completedAt := func(id string, at time.Time) models.Task {
		task := sampleTask(id, at.Add(-time.Hour))
		task.Status = models.StatusDone
		task.UpdatedAt = at
		return task
	}

	tests := []struct {
		name  string
		tasks []models.Task
		want  int
	}{
		{
			name:  "nothing completed",
			tasks: []models.Task{sampleTask("t1", epoch)},
			want:  0,
		},
		{
			name:  "today only",
			tasks: []models.Task{completedAt("t1", epoch)},
			want:  1,
		},
		{
			name: "yesterday and before without today",
			tasks: []models.Task{
				completedAt("t1", epoch.Add(-day)),
				completedAt("t2", epoch.Add(-2*day)),
			},
			want: 2,
		},
		{
			name: "gap ends the run",
			tasks: []models.Task{
				completedAt("t1", epoch),
				completedAt("t2", epoch.Add(-day)),
				completedAt("t3", epoch.Add(-3*day)),
			},
			want: 2,
		},
		{
			name: "several on one day count once",
			tasks: []models.Task{
				completedAt("t1", epoch),
				completedAt("t2", epoch.Add(-time.Minute)),
			},
			want: 1,
		},
		{
			name:  "two days ago only",
			tasks: []models.Task{completedAt("t1", epoch.Add(-2*day))},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := store.Statistics(tt.tasks, epoch).Streak; got != tt.want {
				t.Errorf("expected streak %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGetStatisticsUsesClock(t *testing.T) {
	s, clock := newTestStore(t, newMemBackend())
	task := sampleTask("t1", epoch)
	due := epoch.Add(time.Hour)
	task.DueDate = &due
	s.AddTask(task)

	if got := s.GetStatistics().OverdueTasks; got != 0 {
		t.Errorf("expected nothing overdue yet, got %d", got)
	}
	clock.Advance(2 * time.Hour)
	if got := s.GetStatistics().OverdueTasks; got != 1 {
		t.Errorf("expected one overdue task, got %d", got)
	}
}
