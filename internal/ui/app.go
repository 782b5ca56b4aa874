package ui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
	"github.com/tgienger/daybook/internal/ui/styles"
	"github.com/tgienger/daybook/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewTasks
	ViewGrocery
	ViewStats
)

// lastProjectKey remembers the open project between runs
const lastProjectKey = "last_project_id"

// Settings stores small UI preferences outside the store
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// SnapshotMsg delivers a published store snapshot to the program
type SnapshotMsg struct {
	Snapshot store.Snapshot
}

type snapshotView interface {
	tea.Model
	SetSnapshot(store.Snapshot)
}

type App struct {
	store       *store.Store
	settings    Settings
	snap        store.Snapshot
	seen        bool
	currentView View
	projectList *views.ProjectListView
	taskList    *views.TaskListView
	grocery     *views.GroceryView
	stats       *views.StatsView
	width       int
	height      int
}

// Creates a new application. settings may be nil.
func NewApp(st *store.Store, settings Settings) *App {
	return &App{
		store:       st,
		settings:    settings,
		currentView: ViewProjects,
		projectList: views.NewProjectListView(st),
		grocery:     views.NewGroceryView(st),
		stats:       views.NewStatsView(st),
	}
}

func (a *App) Init() tea.Cmd {
	snap := a.store.Snapshot()
	return func() tea.Msg { return SnapshotMsg{Snapshot: snap} }
}

// CurrentView reports which screen is showing
func (a *App) CurrentView() View {
	return a.currentView
}

func (a *App) active() snapshotView {
	switch a.currentView {
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList
		}
	case ViewGrocery:
		return a.grocery
	case ViewStats:
		return a.stats
	}
	return a.projectList
}

func (a *App) setting(key string) string {
	if a.settings == nil {
		return ""
	}
	v, err := a.settings.GetSetting(key)
	if err != nil {
		return ""
	}
	return v
}

func (a *App) saveSetting(key, value string) {
	if a.settings != nil {
		a.settings.SetSetting(key, value)
	}
}

// applySnapshot hands snap to every view. Snapshots can arrive out of
// order, so anything older than the current one is dropped.
func (a *App) applySnapshot(snap store.Snapshot) tea.Cmd {
	if a.seen && snap.Version <= a.snap.Version {
		return nil
	}
	first := !a.seen
	a.seen = true
	a.snap = snap

	styles.UseDarkMode(snap.DarkMode)
	a.projectList.SetSnapshot(snap)
	a.grocery.SetSnapshot(snap)
	a.stats.SetSnapshot(snap)
	if a.taskList != nil {
		a.taskList.SetSnapshot(snap)
	}

	if first {
		// Check for last opened project
		if id := a.setting(lastProjectKey); id != "" {
			if p, ok := findProject(snap, id); ok {
				return a.openProject(p)
			}
		}
		return nil
	}

	if a.currentView == ViewTasks && a.taskList != nil {
		if _, ok := findProject(snap, a.taskList.ProjectID()); !ok {
			return a.backToProjects()
		}
	}
	return nil
}

func findProject(snap store.Snapshot, id string) (models.Project, bool) {
	i := slices.IndexFunc(snap.Projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		return models.Project{}, false
	}
	return snap.Projects[i], true
}

func (a *App) resize() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

func (a *App) openProject(project models.Project) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.store, project)
	a.taskList.SetSnapshot(a.snap)
	a.store.SelectProject(project.ID)

	// Save as last opened project
	a.saveSetting(lastProjectKey, project.ID)

	// Initialize task list with window size
	return tea.Batch(a.taskList.Init(), a.resize())
}

func (a *App) backToProjects() tea.Cmd {
	a.currentView = ViewProjects
	a.taskList = nil
	a.store.SelectProject("")
	a.saveSetting(lastProjectKey, "")
	return tea.Batch(a.projectList.Init(), a.resize())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		return a, a.applySnapshot(msg.Snapshot)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update project list size since it persists
		a.projectList.Update(msg)

	case views.SelectedProject:
		return a, a.openProject(msg.Project)

	case views.ShowGrocery:
		a.currentView = ViewGrocery
		return a, a.resize()

	case views.ShowStats:
		a.currentView = ViewStats
		return a, a.resize()

	case views.BackToProjects:
		return a, a.backToProjects()
	}

	_, cmd := a.active().Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.active().View()
}
