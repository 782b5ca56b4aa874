package models

import "time"

// Status is the workflow state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists the statuses in kanban column order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Priority of a task or template
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type ReminderType string

const (
	ReminderNotification ReminderType = "notification"
	ReminderEmail        ReminderType = "email"
	ReminderSMS          ReminderType = "sms"
)

type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentPDF   AttachmentType = "pdf"
	AttachmentOther AttachmentType = "other"
)

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
	RecurrenceCustom  RecurrenceType = "custom"
)

// User is the local session owner. There is no authentication.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Attachment is file metadata returned by the upload service
type Attachment struct {
	ID         string         `json:"id"`
	Type       AttachmentType `json:"type"`
	URL        string         `json:"url"`
	Name       string         `json:"name"`
	Size       int64          `json:"size"`
	UploadedAt time.Time      `json:"uploadedAt"`
}

// Note is free text attached to a task
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Subtask struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tag is defined in the global registry and copied by value onto tasks
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Reminder struct {
	ID   string       `json:"id"`
	Date time.Time    `json:"date"`
	Type ReminderType `json:"type"`
	Sent bool         `json:"sent"`
}

// Recurrence describes how a task repeats. Nothing schedules it yet.
type Recurrence struct {
	Type        RecurrenceType `json:"type"`
	Interval    int            `json:"interval"`
	DaysOfWeek  []int          `json:"daysOfWeek,omitempty"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
	Occurrences *int           `json:"occurrences,omitempty"`
}

// TimeEntry is one tracked work session. Duration is in minutes and only
// set once the entry is closed.
type TimeEntry struct {
	ID          string     `json:"id"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Duration    *int       `json:"duration,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Open reports whether the entry is still running
func (e TimeEntry) Open() bool {
	return e.EndTime == nil
}

// Task is the central entity. ProjectName is a cached copy of the project's
// name and is only changed by the mutator that sets ProjectID.
type Task struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	ProjectID      string       `json:"projectId,omitempty"`
	ProjectName    string       `json:"projectName,omitempty"`
	Status         Status       `json:"status"`
	Priority       Priority     `json:"priority"`
	Tags           []Tag        `json:"tags"`
	DueDate        *time.Time   `json:"dueDate,omitempty"`
	EstimatedHours *float64     `json:"estimatedHours,omitempty"`
	ActualHours    *float64     `json:"actualHours,omitempty"`
	Progress       *int         `json:"progress,omitempty"`
	Assignees      []User       `json:"assignees"`
	Attachments    []Attachment `json:"attachments"`
	Notes          []Note       `json:"notes"`
	Subtasks       []Subtask    `json:"subtasks"`
	Reminders      []Reminder   `json:"reminders"`
	Recurrence     *Recurrence  `json:"recurrence,omitempty"`
	TimeEntries    []TimeEntry  `json:"timeEntries"`
	Archived       bool         `json:"archived"`
	Position       *int         `json:"position,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Project groups tasks. TotalTasks and CompletedTasks are supplied by the
// caller and are not derived from the task collection.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Color          string    `json:"color"`
	TotalTasks     int       `json:"totalTasks"`
	CompletedTasks int       `json:"completedTasks"`
	Assignees      []User    `json:"assignees"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type GroceryItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  GroceryCategory `json:"category"`
	Quantity  string          `json:"quantity,omitempty"`
	Completed bool            `json:"completed"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type GroceryList struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Items     []GroceryItem `json:"items"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// SubtaskBlueprint is a subtask without identity, materialized when a task
// is created from a template
type SubtaskBlueprint struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type TaskTemplate struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	Priority       Priority           `json:"priority"`
	Tags           []Tag              `json:"tags"`
	EstimatedHours *float64           `json:"estimatedHours,omitempty"`
	Subtasks       []SubtaskBlueprint `json:"subtasks"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// Statistics is computed on demand and never persisted
type Statistics struct {
	TotalTasks            int     `json:"totalTasks"`
	CompletedTasks        int     `json:"completedTasks"`
	InProgressTasks       int     `json:"inProgressTasks"`
	OverdueTasks          int     `json:"overdueTasks"`
	TasksThisWeek         int     `json:"tasksThisWeek"`
	TasksThisMonth        int     `json:"tasksThisMonth"`
	AverageCompletionTime float64 `json:"averageCompletionTime"`
	ProductivityScore     int     `json:"productivityScore"`
	CompletionRate        float64 `json:"completionRate"`
	Streak                int     `json:"streak"`
	TotalTime             float64 `json:"totalTime"`
}
