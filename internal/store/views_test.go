package store_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
)

func TestGroceryLists(t *testing.T) {
	s, clock := newTestStore(t, newMemBackend())
	s.AddGroceryList(models.GroceryList{
		ID:   "g1",
		Name: "Weekend",
		Items: []models.GroceryItem{
			{ID: "i1", Name: "Apples", Category: "fruits", Completed: true},
			{ID: "i2", Name: "Milk", Category: models.CategoryDairy},
		},
	})
	s.AddGroceryItem("g1", models.GroceryItem{ID: "i3", Name: "Chips", Category: "Snacks"})

	list := s.Snapshot().GroceryLists[0]
	if got := store.GroceryProgressLabel(list); got != "1/3" {
		t.Errorf("expected 1/3, got %s", got)
	}
	if list.Items[0].Category != models.CategoryFruits {
		t.Errorf("expected canonical Fruits, got %q", list.Items[0].Category)
	}
	if list.Items[2].Category != models.CategoryOther {
		t.Errorf("expected unknown category filed under Other, got %q", list.Items[2].Category)
	}

	clock.Advance(time.Minute)
	s.UpdateGroceryItem("g1", "i2", models.GroceryItemPatch{Completed: models.Ptr(true)})
	list = s.Snapshot().GroceryLists[0]
	if got := store.GroceryProgressLabel(list); got != "2/3" {
		t.Errorf("expected 2/3, got %s", got)
	}
	if !list.UpdatedAt.Equal(clock.Now()) || !list.Items[1].UpdatedAt.Equal(clock.Now()) {
		t.Errorf("expected refreshed timestamps, got list %v item %v", list.UpdatedAt, list.Items[1].UpdatedAt)
	}

	version := s.Snapshot().Version
	s.UpdateGroceryItem("g1", "missing", models.GroceryItemPatch{Completed: models.Ptr(true)})
	s.DeleteGroceryItem("g1", "missing")
	s.AddGroceryItem("missing", models.GroceryItem{ID: "x"})
	if s.Snapshot().Version != version {
		t.Error("expected grocery misses to be no-ops")
	}

	s.DeleteGroceryItem("g1", "i3")
	s.UpdateGroceryList("g1", models.GroceryListPatch{Name: models.Ptr("Sunday")})
	list = s.Snapshot().GroceryLists[0]
	if list.Name != "Sunday" || len(list.Items) != 2 {
		t.Errorf("unexpected list %+v", list)
	}

	s.DeleteGroceryList("g1")
	if got := s.Snapshot().GroceryLists; len(got) != 0 {
		t.Errorf("expected no lists, got %d", len(got))
	}
}

func TestProjects(t *testing.T) {
	s, clock := newTestStore(t, newMemBackend())
	s.AddProject(models.Project{ID: "p1", Name: "Work", Color: "#5f33e1", TotalTasks: 3, CompletedTasks: 1})
	s.AddTask(sampleTask("t1", epoch))
	s.MoveTask("t1", "p1")
	s.UpdateTask("t1", models.TaskPatch{Status: models.Ptr(models.StatusDone)})

	p, err := s.Project("p1")
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalTasks != 3 || p.CompletedTasks != 1 {
		t.Errorf("expected counters as written, got %d/%d", p.CompletedTasks, p.TotalTasks)
	}
	if p.Assignees == nil {
		t.Error("expected empty assignees")
	}

	clock.Advance(time.Minute)
	s.UpdateProject("p1", models.ProjectPatch{CompletedTasks: models.Ptr(2)})
	p, _ = s.Project("p1")
	if p.CompletedTasks != 2 || !p.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("unexpected project %+v", p)
	}

	s.SelectProject("p1")
	if s.Snapshot().SelectedProjectID != "p1" {
		t.Fatal("expected selection")
	}
	s.DeleteProject("p1")
	snap := s.Snapshot()
	if len(snap.Projects) != 0 || snap.SelectedProjectID != "" {
		t.Errorf("expected project and selection gone, got %+v / %q", snap.Projects, snap.SelectedProjectID)
	}
	if got := findTask(t, snap, "t1"); got.ProjectID != "p1" {
		t.Error("deleting a project must not touch its tasks")
	}
}

func TestKanbanColumns(t *testing.T) {
	s, _ := newTestStore(t, newMemBackend())
	add := func(id string, status models.Status, archived bool) {
		task := sampleTask(id, epoch)
		task.Status = status
		task.Archived = archived
		s.AddTask(task)
	}
	add("a", models.StatusTodo, false)
	add("b", models.StatusTodo, false)
	add("c", models.StatusInProgress, false)
	add("d", models.StatusDone, true)
	s.ReorderTasks([]string{"b", "a"})

	cols := s.Snapshot().KanbanColumns()
	ids := func(c store.Column) []string {
		out := []string{}
		for _, task := range c.Tasks {
			out = append(out, task.ID)
		}
		return out
	}
	got := map[models.Status][]string{}
	for _, c := range cols {
		got[c.Status] = ids(c)
	}
	want := map[models.Status][]string{
		models.StatusTodo:       {"b", "a"},
		models.StatusInProgress: {"c"},
		models.StatusDone:       {},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
}

func TestTasksDueOn(t *testing.T) {
	s, _ := newTestStore(t, newMemBackend())
	morning := time.Date(2024, time.March, 20, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, time.March, 20, 22, 0, 0, 0, time.UTC)
	other := time.Date(2024, time.March, 21, 8, 0, 0, 0, time.UTC)
	for id, due := range map[string]time.Time{"m": morning, "e": evening, "o": other} {
		task := sampleTask(id, epoch)
		task.DueDate = &due
		s.AddTask(task)
	}
	s.AddTask(sampleTask("none", epoch))

	got := s.Snapshot().TasksDueOn(time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC))
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks due, got %d", len(got))
	}
	for _, task := range got {
		if task.ID != "m" && task.ID != "e" {
			t.Errorf("unexpected task %s", task.ID)
		}
	}
}

func TestSearch(t *testing.T) {
	s, _ := newTestStore(t, newMemBackend())
	task := sampleTask("t1", epoch)
	task.Title = "Buy Groceries"
	s.AddTask(task)
	other := sampleTask("t2", epoch)
	other.Description = "call the plumber"
	s.AddTask(other)
	s.AddProject(models.Project{ID: "p1", Name: "Home renovation", Description: "plumbing"})

	res := s.Snapshot().Search("  PLUMB ")
	if len(res.Tasks) != 1 || res.Tasks[0].ID != "t2" {
		t.Errorf("unexpected tasks %+v", res.Tasks)
	}
	if len(res.Projects) != 1 {
		t.Errorf("unexpected projects %+v", res.Projects)
	}

	if res := s.Snapshot().Search(""); len(res.Tasks) != 0 || len(res.Projects) != 0 {
		t.Error("expected empty query to match nothing")
	}
}

func TestProjectTasks(t *testing.T) {
	s, _ := newTestStore(t, newMemBackend())
	s.AddProject(models.Project{ID: "p1", Name: "Work"})
	for _, id := range []string{"t1", "t2", "t3"} {
		s.AddTask(sampleTask(id, epoch))
	}
	s.MoveTask("t1", "p1")
	s.MoveTask("t2", "p1")
	s.ArchiveTask("t2")

	got := s.Snapshot().ProjectTasks("p1")
	if len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("unexpected project tasks %+v", got)
	}
}
