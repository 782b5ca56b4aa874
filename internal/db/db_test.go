package db

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	database, err := New(filepath.Join(dir, "daybook.db"), filepath.Join(dir, "daybook.lock"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestDocuments(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		database := newTestDB(t)
		data, ok, err := database.GetDocument("tasks")
		if err != nil {
			t.Fatalf("GetDocument failed: %v", err)
		}
		if ok || data != nil {
			t.Errorf("expected no document, got %q", data)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		database := newTestDB(t)
		if err := database.PutDocument("tasks", []byte(`[{"id":"t1"}]`)); err != nil {
			t.Fatalf("PutDocument failed: %v", err)
		}
		data, ok, err := database.GetDocument("tasks")
		if err != nil || !ok {
			t.Fatalf("GetDocument = %v, %v", ok, err)
		}
		if string(data) != `[{"id":"t1"}]` {
			t.Errorf("unexpected document %q", data)
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		database := newTestDB(t)
		_ = database.PutDocument("darkMode", []byte("false"))
		if err := database.PutDocument("darkMode", []byte("true")); err != nil {
			t.Fatalf("PutDocument failed: %v", err)
		}
		data, _, _ := database.GetDocument("darkMode")
		if string(data) != "true" {
			t.Errorf("expected replaced value, got %q", data)
		}
	})

	t.Run("delete and keys", func(t *testing.T) {
		database := newTestDB(t)
		for _, k := range []string{"tasks", "projects", "tags"} {
			if err := database.PutDocument(k, []byte("[]")); err != nil {
				t.Fatalf("PutDocument(%s) failed: %v", k, err)
			}
		}
		if err := database.DeleteDocuments("tasks", "tags", "missing"); err != nil {
			t.Fatalf("DeleteDocuments failed: %v", err)
		}
		keys, err := database.DocumentKeys()
		if err != nil {
			t.Fatalf("DocumentKeys failed: %v", err)
		}
		if diff := cmp.Diff([]string{"projects"}, keys); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSettings(t *testing.T) {
	database := newTestDB(t)

	v, err := database.GetSetting("last_project_id")
	if err != nil || v != "" {
		t.Fatalf("expected empty setting, got %q, %v", v, err)
	}
	if err := database.SetSetting("last_project_id", "p1"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := database.SetSetting("last_project_id", "p2"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	v, _ = database.GetSetting("last_project_id")
	if v != "p2" {
		t.Errorf("expected p2, got %q", v)
	}
}

func TestLocking(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "daybook.lock")

	first, err := New(filepath.Join(dir, "daybook.db"), lockPath)
	if err != nil {
		t.Fatalf("failed to open first database: %v", err)
	}

	_, err = New(filepath.Join(dir, "daybook.db"), lockPath)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := New(filepath.Join(dir, "daybook.db"), lockPath)
	if err != nil {
		t.Fatalf("expected lock to be released, got %v", err)
	}
	_ = second.Close()
}
