package views

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

type snapshotter interface {
	tea.Model
	SetSnapshot(store.Snapshot)
}

// press sends each key and then refreshes the view, the way the app does
// once the store publishes
func press(v snapshotter, st *store.Store, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = v.Update(keyMsg(k))
		v.SetSnapshot(st.Snapshot())
	}
	return cmd
}

func typeText(v snapshotter, st *store.Store, text string) {
	for _, r := range text {
		press(v, st, string(r))
	}
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(nil)
	st.Initialize()
	t.Cleanup(st.Close)
	return st
}

func seedProject(t *testing.T, st *store.Store) models.Project {
	t.Helper()
	now := time.Now()
	p := models.Project{ID: "p1", Name: "Home", Color: "#7aa2f7", CreatedAt: now, UpdatedAt: now}
	st.AddProject(p)
	for i, title := range []string{"Water plants", "Fix sink"} {
		st.AddTask(models.Task{
			ID:        []string{"t1", "t2"}[i],
			Title:     title,
			ProjectID: p.ID, ProjectName: p.Name,
			Status:    models.StatusTodo,
			Priority:  models.PriorityMedium,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	return p
}

func newTaskView(t *testing.T) (*TaskListView, *store.Store) {
	t.Helper()
	st := newStore(t)
	p := seedProject(t, st)
	v := NewTaskListView(st, p)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	v.SetSnapshot(st.Snapshot())
	return v, st
}

func visibleTitles(v *TaskListView) []string {
	var out []string
	for _, t := range v.tasks {
		out = append(out, t.Title)
	}
	return out
}

func mustTask(t *testing.T, st *store.Store, id string) models.Task {
	t.Helper()
	task, err := st.Task(id)
	if err != nil {
		t.Fatalf("task %s: %v", id, err)
	}
	return task
}

func TestTaskViewCreate(t *testing.T) {
	v, st := newTaskView(t)

	press(v, st, "n")
	typeText(v, st, "Buy bulbs")
	press(v, st, "tab", "tab", "right", "tab")
	typeText(v, st, "2030-01-02")
	press(v, st, "ctrl+s")

	if v.editing {
		t.Fatalf("form still open: %q", v.formErr)
	}
	snap := st.Snapshot()
	if len(snap.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(snap.Tasks))
	}
	task := snap.Tasks[2]
	if task.Title != "Buy bulbs" || task.ProjectID != "p1" || task.ProjectName != "Home" {
		t.Errorf("unexpected task %+v", task)
	}
	if task.Priority != models.PriorityHigh {
		t.Errorf("priority = %s, want high", task.Priority)
	}
	if task.DueDate == nil || task.DueDate.Format(time.DateOnly) != "2030-01-02" {
		t.Errorf("due = %v, want 2030-01-02", task.DueDate)
	}
	if !strings.HasPrefix(task.ID, "task_") {
		t.Errorf("unexpected id %q", task.ID)
	}
}

func TestTaskViewRejectsBadDueDate(t *testing.T) {
	v, st := newTaskView(t)

	press(v, st, "n")
	typeText(v, st, "Later")
	press(v, st, "tab", "tab", "tab")
	typeText(v, st, "soon")
	press(v, st, "ctrl+s")

	if !v.editing || v.formErr == "" {
		t.Errorf("expected the form to stay open with an error")
	}
	if n := len(st.Snapshot().Tasks); n != 2 {
		t.Errorf("expected no new task, got %d tasks", n)
	}
}

func TestTaskViewEditClearsDueDate(t *testing.T) {
	v, st := newTaskView(t)
	due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local)
	st.UpdateTask("t1", models.TaskPatch{DueDate: &due})
	v.SetSnapshot(st.Snapshot())

	press(v, st, "e")
	if v.editDue.Value() != "2030-01-01" {
		t.Fatalf("due field = %q", v.editDue.Value())
	}
	v.editDue.SetValue("")
	press(v, st, "ctrl+s")

	if task := mustTask(t, st, "t1"); task.DueDate != nil {
		t.Errorf("expected due date cleared, got %v", task.DueDate)
	}
}

func TestTaskViewStatusAndFilters(t *testing.T) {
	v, st := newTaskView(t)

	press(v, st, "s")
	if got := mustTask(t, st, "t1").Status; got != models.StatusInProgress {
		t.Fatalf("status = %s, want in-progress", got)
	}
	press(v, st, "s")
	if got := mustTask(t, st, "t1").Status; got != models.StatusDone {
		t.Fatalf("status = %s, want done", got)
	}
	if diff := cmp.Diff([]string{"Fix sink"}, visibleTitles(v)); diff != "" {
		t.Errorf("open tasks mismatch (-want +got):\n%s", diff)
	}

	press(v, st, "c")
	if diff := cmp.Diff([]string{"Water plants"}, visibleTitles(v)); diff != "" {
		t.Errorf("completed tasks mismatch (-want +got):\n%s", diff)
	}

	press(v, st, "s")
	if got := mustTask(t, st, "t1").Status; got != models.StatusTodo {
		t.Errorf("status = %s, want todo", got)
	}
}

func TestTaskViewSearch(t *testing.T) {
	v, st := newTaskView(t)

	press(v, st, "/")
	typeText(v, st, "sink")
	press(v, st, "enter")

	if diff := cmp.Diff([]string{"Fix sink"}, visibleTitles(v)); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
	if v.focus != FocusTaskList {
		t.Errorf("expected focus back on the list")
	}
}

func TestTaskViewSearchStaysInProject(t *testing.T) {
	v, st := newTaskView(t)
	desc := "Ferns by the WINDOW first"
	st.UpdateTask("t1", models.TaskPatch{Description: &desc})
	now := time.Now()
	st.AddTask(models.Task{ID: "t3", Title: "Window cleaning", ProjectID: "p2", Status: models.StatusTodo, CreatedAt: now, UpdatedAt: now})
	v.SetSnapshot(st.Snapshot())

	press(v, st, "/")
	typeText(v, st, "window")
	press(v, st, "enter")

	if diff := cmp.Diff([]string{"Water plants"}, visibleTitles(v)); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestTaskViewArchiveAndDuplicate(t *testing.T) {
	v, st := newTaskView(t)

	press(v, st, "y")
	if n := len(st.Snapshot().Tasks); n != 3 {
		t.Fatalf("expected duplicate, got %d tasks", n)
	}

	press(v, st, "x")
	if !mustTask(t, st, "t1").Archived {
		t.Fatal("expected t1 archived")
	}
	if diff := cmp.Diff([]string{"Fix sink", "Water plants (Copy)"}, visibleTitles(v)); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}

	press(v, st, "A")
	if diff := cmp.Diff([]string{"Water plants"}, visibleTitles(v)); diff != "" {
		t.Errorf("archived mismatch (-want +got):\n%s", diff)
	}
	press(v, st, "x")
	if mustTask(t, st, "t1").Archived {
		t.Error("expected t1 unarchived")
	}
}

func TestTaskViewTimer(t *testing.T) {
	v, st := newTaskView(t)

	press(v, st, "T")
	if _, running := store.ActiveTimeEntry(mustTask(t, st, "t1")); !running {
		t.Fatal("expected a running timer")
	}
	press(v, st, "T")
	task := mustTask(t, st, "t1")
	if _, running := store.ActiveTimeEntry(task); running || len(task.TimeEntries) != 1 {
		t.Errorf("expected one closed entry, got %+v", task.TimeEntries)
	}
}

func TestTaskViewReorder(t *testing.T) {
	v, st := newTaskView(t)

	press(v, st, "J")
	if diff := cmp.Diff([]string{"Fix sink", "Water plants"}, visibleTitles(v)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if v.cursor != 1 {
		t.Errorf("cursor = %d, want 1", v.cursor)
	}
}

func TestTaskViewTags(t *testing.T) {
	v, st := newTaskView(t)

	press(v, st, "t", "n")
	typeText(v, st, "chores")
	press(v, st, "enter")

	snap := st.Snapshot()
	if len(snap.Tags) != 1 || snap.Tags[0].Name != "chores" {
		t.Fatalf("unexpected tags %+v", snap.Tags)
	}
	if task := mustTask(t, st, "t1"); len(task.Tags) != 1 {
		t.Fatalf("expected tag on t1, got %+v", task.Tags)
	}

	// Toggle it off again
	press(v, st, " ")
	if task := mustTask(t, st, "t1"); len(task.Tags) != 0 {
		t.Errorf("expected tag removed, got %+v", task.Tags)
	}
	press(v, st, " ", "esc")

	press(v, st, "f", "down", "enter")
	if diff := cmp.Diff([]string{"Water plants"}, visibleTitles(v)); diff != "" {
		t.Errorf("tag filter mismatch (-want +got):\n%s", diff)
	}
}

func TestTaskViewDetail(t *testing.T) {
	v, st := newTaskView(t)

	press(v, st, "enter")
	if !v.viewingTask || v.viewTaskID != "t1" {
		t.Fatalf("expected detail view of t1")
	}

	press(v, st, "a")
	typeText(v, st, "Fill can")
	press(v, st, "enter", "1")

	task := mustTask(t, st, "t1")
	if len(task.Subtasks) != 1 || task.Subtasks[0].Title != "Fill can" || !task.Subtasks[0].Completed {
		t.Errorf("unexpected subtasks %+v", task.Subtasks)
	}

	press(v, st, "c")
	typeText(v, st, "ferns first")
	press(v, st, "ctrl+s")

	task = mustTask(t, st, "t1")
	if len(task.Notes) != 1 || task.Notes[0].Content != "ferns first" {
		t.Errorf("unexpected notes %+v", task.Notes)
	}
	if !strings.Contains(v.View(), "ferns first") {
		t.Error("detail view does not show the note")
	}

	press(v, st, "d", "y")
	if v.viewingTask {
		t.Error("expected detail view closed after delete")
	}
	if _, err := st.Task("t1"); err == nil {
		t.Error("expected t1 deleted")
	}
}

func TestTaskViewBack(t *testing.T) {
	v, st := newTaskView(t)
	cmd := press(v, st, "esc")
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(BackToProjects); !ok {
		t.Error("expected BackToProjects")
	}
}

func TestGroceryView(t *testing.T) {
	st := newStore(t)
	v := NewGroceryView(st)
	v.SetSnapshot(st.Snapshot())

	press(v, st, "n")
	typeText(v, st, "Weekly")
	press(v, st, "enter")
	if lists := st.Snapshot().GroceryLists; len(lists) != 1 || lists[0].Name != "Weekly" {
		t.Fatalf("unexpected lists %+v", lists)
	}

	press(v, st, "enter", "n")
	typeText(v, st, "milk")
	press(v, st, "tab")
	typeText(v, st, "2l")
	press(v, st, "tab", "right", "enter")

	list := st.Snapshot().GroceryLists[0]
	if len(list.Items) != 1 {
		t.Fatalf("expected one item, got %+v", list.Items)
	}
	it := list.Items[0]
	if it.Name != "milk" || it.Quantity != "2l" || it.Category != models.GroceryCategories[0] {
		t.Errorf("unexpected item %+v", it)
	}

	press(v, st, " ")
	list = st.Snapshot().GroceryLists[0]
	if got := store.GroceryProgressLabel(list); got != "1/1" {
		t.Errorf("progress = %q", got)
	}
	if !strings.Contains(v.View(), "[x]") {
		t.Error("expected a checked item")
	}

	press(v, st, "d")
	if n := len(st.Snapshot().GroceryLists[0].Items); n != 0 {
		t.Errorf("expected item deleted, got %d", n)
	}

	press(v, st, "esc", "d", "y")
	if n := len(st.Snapshot().GroceryLists); n != 0 {
		t.Errorf("expected list deleted, got %d", n)
	}
}

func TestStatsView(t *testing.T) {
	st := newStore(t)
	seedProject(t, st)
	done := models.StatusDone
	st.UpdateTask("t1", models.TaskPatch{Status: &done})

	v := NewStatsView(st)
	v.SetSnapshot(st.Snapshot())

	if v.stats.TotalTasks != 2 || v.stats.CompletedTasks != 1 {
		t.Errorf("unexpected stats %+v", v.stats)
	}
	out := v.View()
	for _, want := range []string{"Statistics", "Completion rate", "Due today"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats view missing %q", want)
		}
	}
}
