package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		projectID string
		priority  string
		due       string
	)

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task",
		Example: `  daybook add "Pay rent" --due 2024-04-01 --priority high
  daybook add "Draft slides" --project project_1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("title must not be empty")
			}
			p, err := parsePriority(priority)
			if err != nil {
				return err
			}

			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			now := time.Now()
			task := models.Task{
				ID:        "task_" + uuid.NewString(),
				Title:     title,
				Status:    models.StatusTodo,
				Priority:  p,
				Assignees: []models.User{sess.store.Snapshot().CurrentUser},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if due != "" {
				d, err := time.ParseInLocation(time.DateOnly, due, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --due %q, want YYYY-MM-DD: %w", due, err)
				}
				task.DueDate = &d
			}

			sess.store.AddTask(task)
			if projectID != "" {
				if _, err := sess.store.Project(projectID); err != nil {
					sess.log.Warn("task moved to unknown project", "task", task.ID, "project", projectID)
				}
				sess.store.MoveTask(task.ID, projectID)
			}

			fmt.Fprintln(cmd.OutOrStdout(), task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id to file the task under")
	cmd.Flags().StringVar(&priority, "priority", string(models.PriorityMedium), "Priority: low|medium|high")
	cmd.Flags().StringVar(&due, "due", "", "Due date as YYYY-MM-DD")
	return cmd
}

func parsePriority(s string) (models.Priority, error) {
	p := models.Priority(strings.ToLower(s))
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q, want low|medium|high", s)
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		archived  bool
		projectID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			snap := sess.store.Snapshot()
			var tasks []models.Task
			switch {
			case archived:
				tasks = snap.ArchivedTasks()
			case projectID != "":
				tasks = snap.ProjectTasks(projectID)
			default:
				tasks = slices.DeleteFunc(slices.Clone(snap.Tasks), func(t models.Task) bool { return t.Archived })
			}

			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), taskTable(tasks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&archived, "archived", false, "Show archived tasks instead")
	cmd.Flags().StringVar(&projectID, "project", "", "Only tasks of this project")
	return cmd
}

func taskTable(tasks []models.Task) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "STATUS", "PRIORITY", "PROJECT", "DUE", "SUBTASKS")
	for _, task := range tasks {
		dueStr := ""
		if task.DueDate != nil {
			dueStr = task.DueDate.Format(time.DateOnly)
		}
		done := 0
		for _, st := range task.Subtasks {
			if st.Completed {
				done++
			}
		}
		t.Row(task.ID, task.Title, string(task.Status), string(task.Priority), task.ProjectName, dueStr,
			fmt.Sprintf("%d/%d", done, len(task.Subtasks)))
	}
	return t.String()
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show productivity statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			fmt.Fprint(cmd.OutOrStdout(), formatStats(sess.store.GetStatistics()))
			return nil
		},
	}
}

func formatStats(st models.Statistics) string {
	var b strings.Builder
	line := func(label string, value any) {
		fmt.Fprintf(&b, "%-26s %v\n", label+":", value)
	}
	line("Total tasks", st.TotalTasks)
	line("Completed", st.CompletedTasks)
	line("In progress", st.InProgressTasks)
	line("Overdue", st.OverdueTasks)
	line("Created this week", st.TasksThisWeek)
	line("Created this month", st.TasksThisMonth)
	line("Completion rate", fmt.Sprintf("%.2f%%", st.CompletionRate))
	line("Avg completion time", fmt.Sprintf("%.2fh", st.AverageCompletionTime))
	line("Productivity score", st.ProductivityScore)
	line("Streak", fmt.Sprintf("%d days", st.Streak))
	line("Time tracked", fmt.Sprintf("%.2fh", st.TotalTime))
	return b.String()
}

// requireTask resolves id or returns a readable error
func requireTask(st *store.Store, id string) (models.Task, error) {
	task, err := st.Task(id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Task{}, fmt.Errorf("no task with id %s", id)
	}
	return task, err
}
