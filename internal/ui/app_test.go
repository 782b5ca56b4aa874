package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
	"github.com/tgienger/daybook/internal/ui/styles"
	"github.com/tgienger/daybook/internal/ui/views"
)

type fakeSettings map[string]string

func (f fakeSettings) GetSetting(key string) (string, error) { return f[key], nil }

func (f fakeSettings) SetSetting(key, value string) error {
	f[key] = value
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(nil)
	st.Initialize()
	t.Cleanup(st.Close)
	t.Cleanup(func() { styles.UseDarkMode(false) })
	return st
}

func addProject(st *store.Store, id, name string) {
	now := time.Now()
	st.AddProject(models.Project{ID: id, Name: name, Color: "#7aa2f7", CreatedAt: now, UpdatedAt: now})
}

// start runs Init and delivers the initial snapshot
func start(a *App) {
	a.Update(a.Init()())
}

func TestAppRestoresLastProject(t *testing.T) {
	st := newTestStore(t)
	addProject(st, "p1", "Home")
	settings := fakeSettings{lastProjectKey: "p1"}

	app := NewApp(st, settings)
	start(app)

	if app.CurrentView() != ViewTasks {
		t.Fatalf("expected task view, got %v", app.CurrentView())
	}
	if got := st.Snapshot().SelectedProjectID; got != "p1" {
		t.Errorf("selected project = %q, want p1", got)
	}

	app.Update(views.BackToProjects{})
	if app.CurrentView() != ViewProjects {
		t.Errorf("expected project view, got %v", app.CurrentView())
	}
	if settings[lastProjectKey] != "" || st.Snapshot().SelectedProjectID != "" {
		t.Errorf("expected selection cleared, got setting %q, selected %q", settings[lastProjectKey], st.Snapshot().SelectedProjectID)
	}
}

func TestAppIgnoresUnknownLastProject(t *testing.T) {
	st := newTestStore(t)
	app := NewApp(st, fakeSettings{lastProjectKey: "gone"})
	start(app)
	if app.CurrentView() != ViewProjects {
		t.Errorf("expected project view, got %v", app.CurrentView())
	}
}

func TestAppNilSettings(t *testing.T) {
	st := newTestStore(t)
	addProject(st, "p1", "Home")
	app := NewApp(st, nil)
	start(app)
	app.Update(views.SelectedProject{Project: st.Snapshot().Projects[0]})
	if app.CurrentView() != ViewTasks {
		t.Errorf("expected task view, got %v", app.CurrentView())
	}
}

func TestAppDropsStaleSnapshots(t *testing.T) {
	st := newTestStore(t)
	app := NewApp(st, nil)
	start(app)

	old := st.Snapshot()
	addProject(st, "p1", "Home")
	fresh := st.Snapshot()

	app.Update(SnapshotMsg{Snapshot: fresh})
	app.Update(SnapshotMsg{Snapshot: old})
	if app.snap.Version != fresh.Version || len(app.snap.Projects) != 1 {
		t.Errorf("stale snapshot applied: version %d, %d projects", app.snap.Version, len(app.snap.Projects))
	}
}

func TestAppLeavesDeletedProject(t *testing.T) {
	st := newTestStore(t)
	addProject(st, "p1", "Home")
	app := NewApp(st, nil)
	start(app)
	app.Update(views.SelectedProject{Project: st.Snapshot().Projects[0]})

	st.DeleteProject("p1")
	app.Update(SnapshotMsg{Snapshot: st.Snapshot()})
	if app.CurrentView() != ViewProjects {
		t.Errorf("expected project view after delete, got %v", app.CurrentView())
	}
}

func TestAppScreens(t *testing.T) {
	st := newTestStore(t)
	app := NewApp(st, nil)
	start(app)

	app.Update(views.ShowGrocery{})
	if app.CurrentView() != ViewGrocery {
		t.Errorf("expected grocery view, got %v", app.CurrentView())
	}
	app.Update(views.BackToProjects{})
	app.Update(views.ShowStats{})
	if app.CurrentView() != ViewStats {
		t.Errorf("expected stats view, got %v", app.CurrentView())
	}
}

func TestAppThemeFollowsDarkMode(t *testing.T) {
	st := newTestStore(t)
	app := NewApp(st, nil)
	start(app)
	if styles.Current.Name != styles.TokyoNightDay.Name {
		t.Fatalf("expected light theme, got %s", styles.Current.Name)
	}

	// m on the project list flips dark mode in the store
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	app.Update(SnapshotMsg{Snapshot: st.Snapshot()})
	if !st.Snapshot().DarkMode || styles.Current.Name != styles.TokyoNight.Name {
		t.Errorf("expected dark theme, got %s", styles.Current.Name)
	}
}
