package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tgienger/daybook/internal/db"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
)

func runCmd(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--data-dir="+dataDir))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	out, err := runCmd(t, dataDir, args...)
	if err != nil {
		t.Fatalf("daybook %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// loadSnapshot opens the data directory the way the CLI does and returns
// what is stored there
func loadSnapshot(t *testing.T, dataDir string) store.Snapshot {
	t.Helper()
	database, err := db.New(filepath.Join(dataDir, "daybook.db"), filepath.Join(dataDir, "daybook.lock"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()
	st := store.New(database)
	st.Initialize()
	defer st.Close()
	return st.Snapshot()
}

func TestAddAndList(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "login", "Ada")
	id := strings.TrimSpace(mustRun(t, dir, "add", "Pay", "rent", "--priority", "high", "--due", "2024-04-01"))
	if !strings.HasPrefix(id, "task_") {
		t.Fatalf("expected a task id, got %q", id)
	}

	out := mustRun(t, dir, "list")
	if !strings.Contains(out, "Pay rent") || !strings.Contains(out, "2024-04-01") {
		t.Errorf("list output missing task:\n%s", out)
	}

	snap := loadSnapshot(t, dir)
	if len(snap.Tasks) != 1 {
		t.Fatalf("expected one stored task, got %d", len(snap.Tasks))
	}
	task := snap.Tasks[0]
	if task.Priority != "high" || len(task.Assignees) != 1 || task.Assignees[0].Name != "Ada" {
		t.Errorf("unexpected task %+v", task)
	}

	if out := mustRun(t, dir, "list", "--archived"); !strings.Contains(out, "No tasks") {
		t.Errorf("expected no archived tasks:\n%s", out)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCmd(t, dir, "add", "x", "--priority", "urgent"); err == nil {
		t.Error("expected invalid priority to fail")
	}
	if _, err := runCmd(t, dir, "add", "x", "--due", "tomorrow"); err == nil {
		t.Error("expected invalid due date to fail")
	}
}

func TestTemplates(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "templates.yaml")
	yml := `templates:
  - name: Weekly review
    title: Review the week
    priority: high
    estimatedHours: 1.5
    tags: [work]
    subtasks: [Inbox zero, Plan next week]
`
	if err := os.WriteFile(file, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	mustRun(t, dir, "templates", "import", file)
	if out := mustRun(t, dir, "templates", "list"); !strings.Contains(out, "Weekly review") {
		t.Errorf("templates list missing import:\n%s", out)
	}

	snap := loadSnapshot(t, dir)
	if len(snap.Templates) != 1 || len(snap.Tags) != 1 {
		t.Fatalf("expected one template and one tag, got %d / %d", len(snap.Templates), len(snap.Tags))
	}

	id := strings.TrimSpace(mustRun(t, dir, "templates", "use", snap.Templates[0].ID))
	snap = loadSnapshot(t, dir)
	if len(snap.Tasks) != 1 || snap.Tasks[0].ID != id {
		t.Fatalf("expected task %s, got %+v", id, snap.Tasks)
	}
	if len(snap.Tasks[0].Subtasks) != 2 || snap.Tasks[0].Tags[0].Name != "work" {
		t.Errorf("unexpected task %+v", snap.Tasks[0])
	}

	_, err := runCmd(t, dir, "templates", "use", "nope")
	if err == nil || !strings.Contains(err.Error(), "no template") {
		t.Errorf("expected missing template error, got %v", err)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "one")
	out := mustRun(t, dir, "stats")
	if !strings.Contains(out, "Total tasks:") || !strings.Contains(out, "Completion rate:") {
		t.Errorf("unexpected stats output:\n%s", out)
	}
}

func TestAttachAndSummarize(t *testing.T) {
	dir := t.TempDir()
	id := strings.TrimSpace(mustRun(t, dir, "add", "Read report"))

	doc := filepath.Join(t.TempDir(), "report.txt")
	text := "Revenue grew twelve percent this quarter. Costs too. Hiring stays frozen until the summer."
	if err := os.WriteFile(doc, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	mustRun(t, dir, "attach", id, doc)
	out := mustRun(t, dir, "summarize", id, doc)
	want := "Revenue grew twelve percent this quarter. Hiring stays frozen until the summer."
	if strings.TrimSpace(out) != want {
		t.Errorf("summary = %q, want %q", strings.TrimSpace(out), want)
	}

	task := loadSnapshot(t, dir).Tasks[0]
	if len(task.Attachments) != 1 || task.Attachments[0].Name != "report.txt" {
		t.Errorf("unexpected attachments %+v", task.Attachments)
	}
	if len(task.Notes) != 1 || !strings.Contains(task.Notes[0].Content, want) {
		t.Errorf("unexpected notes %+v", task.Notes)
	}

	if _, err := runCmd(t, dir, "attach", "task_missing", doc); err == nil {
		t.Error("expected attach to an unknown task to fail")
	}
}

func TestLogout(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "login", "Ada")
	mustRun(t, dir, "add", "keep me")
	mustRun(t, dir, "logout")

	snap := loadSnapshot(t, dir)
	if snap.CurrentUser != store.GuestUser || len(snap.Tasks) != 1 {
		t.Errorf("unexpected state after logout: %+v, %d tasks", snap.CurrentUser, len(snap.Tasks))
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "login", "Ada")
	id := strings.TrimSpace(mustRun(t, dir, "add", "Back up photos"))

	var docs map[string]json.RawMessage
	if err := json.Unmarshal([]byte(mustRun(t, dir, "export")), &docs); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	for _, key := range []string{store.KeyUser, store.KeyTasks} {
		if _, ok := docs[key]; !ok {
			keys := make([]string, 0, len(docs))
			for k := range docs {
				keys = append(keys, k)
			}
			t.Errorf("export missing %q, got keys %v", key, keys)
		}
	}

	var tasks []models.Task
	if err := json.Unmarshal(docs[store.KeyTasks], &tasks); err != nil {
		t.Fatalf("tasks document: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != id {
		t.Errorf("unexpected exported tasks %+v", tasks)
	}
}
