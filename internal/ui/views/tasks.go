package views

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
	"github.com/tgienger/daybook/internal/ui/keys"
	"github.com/tgienger/daybook/internal/ui/styles"
)

const defaultTagColor = "#7aa2f7"

var priorities = []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusBackButton FocusArea = iota
	FocusSearchInput
	FocusTagDropdown
	FocusTaskList
)

// Edit form fields, in tab order
const (
	editFieldTitle = iota
	editFieldDesc
	editFieldPriority
	editFieldDue
	editFieldTags
	editFieldSave
	editFieldCount
)

// TaskListView shows the tasks of one project
type TaskListView struct {
	store   *store.Store
	snap    store.Snapshot
	project models.Project
	tasks   []models.Task // visible after filters
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	// UI state
	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model
	selectedTag string // "" = no filter

	// Tag dropdown state
	tagDropdownOpen bool
	tagCursor       int

	// Task creation/editing
	editing       bool
	editingNew    bool
	editTaskID    string
	editTitle     textinput.Model
	editDesc      textarea.Model
	editPriority  int // index into priorities
	editDue       textinput.Model
	editFocusIdx  int
	editTags      []string // IDs of tags selected for this task
	editTagCursor int
	formErr       string

	// Tag assignment mode
	assigningTags   bool
	assignTagCursor int
	assigningTaskID string
	creatingTag     bool
	newTagInput     textinput.Model

	// Task view mode (detail view)
	viewingTask         bool
	viewTaskID          string
	noteInput           textarea.Model
	noteInputFocused    bool
	subtaskInput        textinput.Model
	subtaskInputFocused bool

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Filters toggled from the list
	showingCompleted bool
	showingArchived  bool

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(st *store.Store, project models.Project) *TaskListView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD"
	editDue.CharLimit = 10

	noteInput := textarea.New()
	noteInput.Placeholder = "Add a note..."
	noteInput.CharLimit = 2000
	noteInput.SetWidth(50)
	noteInput.SetHeight(3)
	noteInput.ShowLineNumbers = false

	subtaskInput := textinput.New()
	subtaskInput.Placeholder = "Subtask title"
	subtaskInput.CharLimit = 200

	newTag := textinput.New()
	newTag.Placeholder = "Tag name"
	newTag.CharLimit = 40

	return &TaskListView{
		store:        st,
		project:      project,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		focus:        FocusTaskList,
		searchInput:  search,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editPriority: 1,
		editDue:      editDue,
		noteInput:    noteInput,
		subtaskInput: subtaskInput,
		newTagInput:  newTag,
	}
}

// BackToProjects signals to go back to project list
type BackToProjects struct{}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return nil
}

// ProjectID is the project this view lists
func (v *TaskListView) ProjectID() string {
	return v.project.ID
}

// SetSnapshot refreshes the view from snap
func (v *TaskListView) SetSnapshot(snap store.Snapshot) {
	v.snap = snap
	v.styles = styles.NewStyles()
	if i := slices.IndexFunc(snap.Projects, func(p models.Project) bool { return p.ID == v.project.ID }); i >= 0 {
		v.project = snap.Projects[i]
	}
	v.applyFilters()
}

// applyFilters recomputes the visible tasks from the snapshot
func (v *TaskListView) applyFilters() {
	// Search narrows the candidates; project and status filters stay here
	candidates := v.snap.Tasks
	if strings.TrimSpace(v.searchInput.Value()) != "" {
		candidates = v.snap.Search(v.searchInput.Value()).Tasks
	}

	var out []models.Task
	for _, t := range candidates {
		if t.ProjectID != v.project.ID || t.Archived != v.showingArchived {
			continue
		}
		if !v.showingArchived && (t.Status == models.StatusDone) != v.showingCompleted {
			continue
		}
		if v.selectedTag != "" && !hasTag(t, v.selectedTag) {
			continue
		}
		out = append(out, t)
	}
	v.tasks = out

	if v.cursor >= len(v.tasks) {
		v.cursor = max(0, len(v.tasks)-1)
	}
	// The task being tagged may have been filtered out, e.g. marked done
	if v.assigningTags && !slices.ContainsFunc(v.tasks, func(t models.Task) bool { return t.ID == v.assigningTaskID }) {
		v.assigningTags = false
		v.assigningTaskID = ""
	}
}

func hasTag(t models.Task, tagID string) bool {
	return slices.ContainsFunc(t.Tags, func(tag models.Tag) bool { return tag.ID == tagID })
}

func (v *TaskListView) selected() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// viewedTask looks the detail-view task up in the snapshot, so it stays
// visible even when a filter would now hide it
func (v *TaskListView) viewedTask() (models.Task, bool) {
	i := slices.IndexFunc(v.snap.Tasks, func(t models.Task) bool { return t.ID == v.viewTaskID })
	if i < 0 {
		return models.Task{}, false
	}
	return v.snap.Tasks[i], true
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Update textarea widths dynamically based on content width
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.noteInput.SetWidth(inputWidth)
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		if v.assigningTags {
			return v.updateAssigningTags(msg)
		}

		if v.tagDropdownOpen {
			return v.updateTagDropdown(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle search input typing first - don't process hotkeys while typing
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			v.cursor, v.scrollY = 0, 0
			v.applyFilters()
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case msg.String() == "K":
		v.moveSelected(-1)
		return v, nil

	case msg.String() == "J":
		v.moveSelected(1)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusBackButton:
			return v, func() tea.Msg { return BackToProjects{} }
		case FocusTagDropdown:
			v.tagDropdownOpen = true
			v.tagCursor = 0
			return v, nil
		case FocusTaskList:
			if task, ok := v.selected(); ok {
				v.viewingTask = true
				v.viewTaskID = task.ID
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.selected(); ok && v.focus == FocusTaskList {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(); ok && v.focus == FocusTaskList {
			v.confirmDelete(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.Status):
		if task, ok := v.selected(); ok {
			v.cycleStatus(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.Archive):
		if task, ok := v.selected(); ok {
			if task.Archived {
				v.store.UnarchiveTask(task.ID)
			} else {
				v.store.ArchiveTask(task.ID)
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Duplicate):
		if task, ok := v.selected(); ok {
			v.store.DuplicateTask(task.ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Timer):
		if task, ok := v.selected(); ok {
			v.toggleTimer(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.focus = FocusTagDropdown
		v.tagDropdownOpen = true
		v.tagCursor = 0
		return v, nil

	case key.Matches(msg, v.keys.Tags):
		if task, ok := v.selected(); ok && v.focus == FocusTaskList {
			v.startAssigningTags(task)
		}
		return v, nil

	case msg.String() == "?":
		// Show help popup (useful at narrow widths)
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.ShowCompleted):
		v.showingCompleted = !v.showingCompleted
		v.showingArchived = false
		v.cursor, v.scrollY = 0, 0
		v.applyFilters()
		return v, nil

	case key.Matches(msg, v.keys.ShowArchived):
		v.showingArchived = !v.showingArchived
		v.cursor, v.scrollY = 0, 0
		v.applyFilters()
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) confirmDelete(task models.Task) {
	v.confirmingDelete = true
	v.deleteTargetID = task.ID
	v.deleteTargetName = task.Title
}

// cycleStatus moves the task to the next status: todo, in progress, done
func (v *TaskListView) cycleStatus(task models.Task) {
	i := slices.Index(models.Statuses, task.Status)
	next := models.Statuses[(i+1)%len(models.Statuses)]
	v.store.UpdateTask(task.ID, models.TaskPatch{Status: &next})
}

func (v *TaskListView) toggleTimer(task models.Task) {
	if _, running := store.ActiveTimeEntry(task); running {
		v.store.StopTimeTracking(task.ID)
		return
	}
	v.store.StartTimeTracking(task.ID)
}

// moveSelected swaps the selected task with its visible neighbour and
// stores the new order
func (v *TaskListView) moveSelected(dir int) {
	j := v.cursor + dir
	if v.focus != FocusTaskList || j < 0 || j >= len(v.tasks) {
		return
	}
	ids := make([]string, len(v.tasks))
	for i, t := range v.tasks {
		ids[i] = t.ID
	}
	ids[v.cursor], ids[j] = ids[j], ids[v.cursor]
	v.store.ReorderTasks(ids)
	v.cursor = j
	v.ensureVisible()
}

func (v *TaskListView) updateTagDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.tagDropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.tagCursor > 0 {
			v.tagCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.tagCursor < len(v.snap.Tags) { // +1 for "None" option
			v.tagCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.tagCursor == 0 {
			v.selectedTag = ""
		} else {
			v.selectedTag = v.snap.Tags[v.tagCursor-1].ID
		}
		v.tagDropdownOpen = false
		v.cursor, v.scrollY = 0, 0
		v.applyFilters()
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.store.DeleteTask(v.deleteTargetID)
		v.confirmingDelete = false
		if v.viewTaskID == v.deleteTargetID {
			v.viewingTask = false
			v.viewTaskID = ""
		}
		return v, nil
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, ok := v.viewedTask()
	if !ok {
		v.viewingTask = false
		return v, nil
	}

	if v.noteInputFocused {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.noteInputFocused = false
			v.noteInput.Blur()
			return v, nil
		case msg.String() == "ctrl+s":
			v.submitNote(task.ID)
			return v, nil
		default:
			var cmd tea.Cmd
			v.noteInput, cmd = v.noteInput.Update(msg)
			return v, cmd
		}
	}

	if v.subtaskInputFocused {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.subtaskInputFocused = false
			v.subtaskInput.Blur()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			v.submitSubtask(task.ID)
			return v, nil
		default:
			var cmd tea.Cmd
			v.subtaskInput, cmd = v.subtaskInput.Update(msg)
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		v.viewTaskID = ""
		return v, nil
	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		v.startEditTask(task)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		v.confirmDelete(task)
		return v, nil
	case key.Matches(msg, v.keys.Tags):
		v.viewingTask = false
		v.startAssigningTags(task)
		return v, nil
	case key.Matches(msg, v.keys.Status):
		v.cycleStatus(task)
		return v, nil
	case key.Matches(msg, v.keys.Timer):
		v.toggleTimer(task)
		return v, nil
	case key.Matches(msg, v.keys.Note):
		v.noteInputFocused = true
		v.noteInput.Focus()
		return v, textarea.Blink
	case key.Matches(msg, v.keys.Subtask):
		v.subtaskInputFocused = true
		v.subtaskInput.Reset()
		v.subtaskInput.Focus()
		return v, textinput.Blink
	case len(msg.String()) == 1 && msg.String() >= "1" && msg.String() <= "9":
		// Number keys toggle the matching subtask
		i := int(msg.String()[0] - '1')
		if i < len(task.Subtasks) {
			done := !task.Subtasks[i].Completed
			v.store.UpdateSubtask(task.ID, task.Subtasks[i].ID, models.SubtaskPatch{Completed: &done})
		}
		return v, nil
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *TaskListView) startAssigningTags(task models.Task) {
	v.assigningTags = true
	v.assignTagCursor = 0
	v.assigningTaskID = task.ID
	v.creatingTag = false
}

func (v *TaskListView) updateAssigningTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.creatingTag {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.creatingTag = false
			v.newTagInput.Blur()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			name := strings.TrimSpace(v.newTagInput.Value())
			if name != "" {
				tag := models.Tag{ID: "tag_" + uuid.NewString(), Name: name, Color: defaultTagColor}
				v.store.AddTag(tag)
				v.store.AddTagToTask(v.assigningTaskID, tag.ID)
			}
			v.creatingTag = false
			v.newTagInput.Blur()
			return v, nil
		default:
			var cmd tea.Cmd
			v.newTagInput, cmd = v.newTagInput.Update(msg)
			return v, cmd
		}
	}

	tags := v.snap.Tags
	switch {
	case key.Matches(msg, v.keys.Back):
		v.assigningTags = false
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.creatingTag = true
		v.newTagInput.Reset()
		v.newTagInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		// Removing a tag from the registry strips it from every task
		if v.assignTagCursor < len(tags) {
			v.store.DeleteTag(tags[v.assignTagCursor].ID)
			if v.assignTagCursor > 0 {
				v.assignTagCursor--
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.assignTagCursor > 0 {
			v.assignTagCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.assignTagCursor < len(tags)-1 {
			v.assignTagCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Toggle):
		i := slices.IndexFunc(v.snap.Tasks, func(t models.Task) bool { return t.ID == v.assigningTaskID })
		if i < 0 || v.assignTagCursor >= len(tags) {
			return v, nil
		}
		task := v.snap.Tasks[i]
		tag := tags[v.assignTagCursor]
		if hasTag(task, tag.ID) {
			v.store.RemoveTagFromTask(task.ID, tag.ID)
		} else {
			v.store.AddTagToTask(task.ID, tag.ID)
		}
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		v.saveTask()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % editFieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + editFieldCount - 1) % editFieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case editFieldTitle, editFieldPriority, editFieldDue:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case editFieldTags:
			v.toggleEditTag()
			return v, nil
		case editFieldSave:
			v.saveTask()
			return v, nil
		}
		// For the description textarea, let enter pass through for newlines

	case key.Matches(msg, v.keys.Toggle):
		if v.editFocusIdx == editFieldTags {
			v.toggleEditTag()
			return v, nil
		}

	case key.Matches(msg, v.keys.Left):
		if v.editFocusIdx == editFieldPriority {
			v.editPriority = (v.editPriority + len(priorities) - 1) % len(priorities)
			return v, nil
		}

	case key.Matches(msg, v.keys.Right):
		if v.editFocusIdx == editFieldPriority {
			v.editPriority = (v.editPriority + 1) % len(priorities)
			return v, nil
		}

	case key.Matches(msg, v.keys.Up):
		if v.editFocusIdx == editFieldTags && v.editTagCursor > 0 {
			v.editTagCursor--
			return v, nil
		}

	case key.Matches(msg, v.keys.Down):
		if v.editFocusIdx == editFieldTags && v.editTagCursor < len(v.snap.Tags)-1 {
			v.editTagCursor++
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case editFieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case editFieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case editFieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

// toggleEditTag toggles the currently selected tag in the edit form
func (v *TaskListView) toggleEditTag() {
	if v.editTagCursor >= len(v.snap.Tags) {
		return
	}
	tagID := v.snap.Tags[v.editTagCursor].ID
	if i := slices.Index(v.editTags, tagID); i >= 0 {
		v.editTags = slices.Delete(v.editTags, i, i+1)
		return
	}
	v.editTags = append(v.editTags, tagID)
}

func (v *TaskListView) cycleFocus(dir int) {
	v.searchInput.Blur()
	v.focus = FocusArea((int(v.focus) + dir + 4) % 4)
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

func (v *TaskListView) ensureVisible() {
	// Each task item is 2 lines + 1 margin
	availableHeight := max(v.height-12, 3)
	visibleItems := max(availableHeight/3, 1)

	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editTaskID = ""
	v.editFocusIdx = editFieldTitle
	v.editTagCursor = 0
	v.editTags = []string{}
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editDue.Reset()
	v.editPriority = slices.Index(priorities, models.PriorityMedium)
	v.formErr = ""
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editTaskID = task.ID
	v.editFocusIdx = editFieldTitle
	v.editTagCursor = 0
	v.editTags = make([]string, len(task.Tags))
	for i, t := range task.Tags {
		v.editTags[i] = t.ID
	}
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editDue.Reset()
	if task.DueDate != nil {
		v.editDue.SetValue(task.DueDate.Format(time.DateOnly))
	}
	v.editPriority = max(slices.Index(priorities, task.Priority), 0)
	v.formErr = ""
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case editFieldTitle:
		v.editTitle.Focus()
	case editFieldDesc:
		v.editDesc.Focus()
	case editFieldDue:
		v.editDue.Focus()
	}
}

// saveTask writes the form back through the store. A bad due date keeps
// the form open with an error.
func (v *TaskListView) saveTask() {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.editing = false
		return
	}

	var due *time.Time
	if s := strings.TrimSpace(v.editDue.Value()); s != "" {
		d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			v.formErr = "Due date must look like 2024-03-15"
			return
		}
		due = &d
	}
	desc := strings.TrimSpace(v.editDesc.Value())
	priority := priorities[v.editPriority]

	var (
		taskID  string
		current []models.Tag
	)
	if v.editingNew {
		now := time.Now()
		task := models.Task{
			ID:          "task_" + uuid.NewString(),
			Title:       title,
			Description: desc,
			ProjectID:   v.project.ID,
			ProjectName: v.project.Name,
			Status:      models.StatusTodo,
			Priority:    priority,
			DueDate:     due,
			Assignees:   []models.User{v.snap.CurrentUser},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		v.store.AddTask(task)
		taskID = task.ID
	} else {
		taskID = v.editTaskID
		task, err := v.store.Task(taskID)
		if err != nil {
			v.editing = false
			return
		}
		current = task.Tags
		v.store.UpdateTask(taskID, models.TaskPatch{
			Title:        &title,
			Description:  &desc,
			Priority:     &priority,
			DueDate:      due,
			ClearDueDate: due == nil,
		})
	}

	// Sync tags - remove old ones and add new ones
	for _, existing := range current {
		if !slices.Contains(v.editTags, existing.ID) {
			v.store.RemoveTagFromTask(taskID, existing.ID)
		}
	}
	for _, id := range v.editTags {
		if !slices.ContainsFunc(current, func(t models.Tag) bool { return t.ID == id }) {
			v.store.AddTagToTask(taskID, id)
		}
	}

	v.formErr = ""
	v.editing = false
}

func (v *TaskListView) submitNote(taskID string) {
	content := strings.TrimSpace(v.noteInput.Value())
	if content == "" {
		return
	}
	now := time.Now()
	v.store.AddNoteToTask(taskID, models.Note{
		ID:        "note_" + uuid.NewString(),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	v.noteInput.Reset()
	v.noteInputFocused = false
	v.noteInput.Blur()
}

func (v *TaskListView) submitSubtask(taskID string) {
	title := strings.TrimSpace(v.subtaskInput.Value())
	if title != "" {
		now := time.Now()
		v.store.AddSubtask(taskID, models.Subtask{
			ID:        "subtask_" + uuid.NewString(),
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	v.subtaskInput.Reset()
	v.subtaskInputFocused = false
	v.subtaskInput.Blur()
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	if v.assigningTags {
		return v.renderTagAssignment()
	}

	var b strings.Builder

	// Header with back button, search, and tag filter
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(v.renderTaskList())

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) tagName(id string) string {
	for _, t := range v.snap.Tags {
		if t.ID == id {
			return t.Name
		}
	}
	return "?"
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	// Search input - dynamic width
	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-8, 10, 30)
	v.searchInput.Placeholder = "Search..."
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	// Tag filter dropdown - show just tag name at narrow widths
	tagStyle := s.Button
	if v.focus == FocusTagDropdown {
		tagStyle = s.ButtonFocused
	}
	tagLabel := "All"
	if v.selectedTag != "" {
		tagLabel = v.tagName(v.selectedTag)
	}
	if !isNarrow {
		tagLabel = "Tags: " + tagLabel
	}
	tagBtn := tagStyle.Render(tagLabel + " ▼")

	titleText := v.project.Name
	switch {
	case v.showingArchived:
		titleText += " (Archived)"
	case v.showingCompleted:
		titleText += " (Completed)"
	}
	title := s.Title.Render(titleText)

	var header string
	if isNarrow {
		// Narrow: stack vertically, no back button (esc still works)
		header = lipgloss.JoinVertical(lipgloss.Left,
			searchBox,
			tagBtn,
		)
	} else {
		backStyle := s.Button
		if v.focus == FocusBackButton {
			backStyle = s.ButtonFocused
		}
		backBtn := backStyle.Render("← Projects")

		header = lipgloss.JoinHorizontal(lipgloss.Center,
			backBtn, "  ", searchBox, "  ", tagBtn,
		)
	}

	dropdown := ""
	if v.tagDropdownOpen {
		dropdown = "\n" + v.renderTagDropdown()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, header+dropdown)
}

func (v *TaskListView) renderTagDropdown() string {
	s := v.styles
	var items []string

	noneStyle := s.ListItem
	if v.tagCursor == 0 {
		noneStyle = s.ListSelected
	}
	items = append(items, noneStyle.Render("None"))

	for i, tag := range v.snap.Tags {
		itemStyle := s.ListItem
		if v.tagCursor == i+1 {
			itemStyle = s.ListSelected
		}
		tagColor := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color))
		items = append(items, itemStyle.Render(tagColor.Render("●")+" "+tag.Name))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return s.FilterBar.Render(content)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	availableHeight := max(v.height-12, 3)
	visibleItems := max(availableHeight/3, 1)

	var items []string
	endIdx := min(v.scrollY+visibleItems, len(v.tasks))

	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focus == FocusTaskList))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func statusMark(st models.Status) string {
	switch st {
	case models.StatusInProgress:
		return "[~]"
	case models.StatusDone:
		return "[x]"
	default:
		return "[ ]"
	}
}

func (v *TaskListView) priorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return lipgloss.NewStyle().Foreground(styles.Current.Error)
	case models.PriorityLow:
		return lipgloss.NewStyle().Foreground(styles.Current.ForegroundDim)
	default:
		return lipgloss.NewStyle().Foreground(styles.Current.Warning)
	}
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	titleLine := statusMark(task.Status) + " " + v.priorityStyle(task.Priority).Render("●") + " " + task.Title
	if _, running := store.ActiveTimeEntry(task); running {
		titleLine += " ⏱"
	}

	// Second line: tags, due date and subtask progress
	var parts []string
	for _, tag := range task.Tags {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render(tag.Name))
	}
	if task.DueDate != nil {
		due := "due " + task.DueDate.Format("Jan 2")
		if task.DueDate.Before(time.Now()) && task.Status != models.StatusDone {
			due = lipgloss.NewStyle().Foreground(styles.Current.Error).Render(due)
		}
		parts = append(parts, due)
	}
	if n := len(task.Subtasks); n > 0 {
		done := 0
		for _, st := range task.Subtasks {
			if st.Completed {
				done++
			}
		}
		parts = append(parts, fmt.Sprintf("%d/%d subtasks", done, n))
	}
	metaLine := s.TitleMuted.Render("no tags")
	if len(parts) > 0 {
		metaLine = strings.Join(parts, " • ")
	}

	var titleStyle, metaStyle lipgloss.Style
	if selected {
		titleStyle = s.ListSelected.Width(width)
		metaStyle = s.ListSelected.Width(width)
	} else {
		titleStyle = s.ListItem.Width(width)
		metaStyle = s.ListItem.Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(titleLine), metaStyle.Render(metaLine)) + "\n"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	fieldStyles := make([]lipgloss.Style, editFieldCount)
	for i := range fieldStyles {
		fieldStyles[i] = s.Input
	}
	fieldStyles[editFieldSave] = s.Button
	if v.editFocusIdx == editFieldSave {
		fieldStyles[editFieldSave] = s.ButtonFocused
	} else {
		fieldStyles[v.editFocusIdx] = s.InputFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)
	priority := fmt.Sprintf("◀ %s ▶", priorities[v.editPriority])

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyles[editFieldTitle].Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		fieldStyles[editFieldDesc].Render(v.editDesc.View()),
		"",
		"Priority:",
		fieldStyles[editFieldPriority].Width(16).Render(priority),
		"",
		"Due date:",
		fieldStyles[editFieldDue].Width(16).Render(v.editDue.View()),
		"",
		"Tags:",
		v.renderEditTagSelector(fieldStyles[editFieldTags], inputWidth),
		"",
		fieldStyles[editFieldSave].Render(" Save "),
	}
	if v.formErr != "" {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(styles.Current.Error).Render(v.formErr))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ←→: priority • Space/↵: toggle tag • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

// renderEditTagSelector renders the inline tag selector for the edit form
func (v *TaskListView) renderEditTagSelector(containerStyle lipgloss.Style, width int) string {
	s := v.styles

	if len(v.snap.Tags) == 0 {
		return containerStyle.Width(width).Render(s.TitleMuted.Render("No tags yet. Press 't' on a task to create one."))
	}

	var items []string
	for i, tag := range v.snap.Tags {
		checkbox := "[ ]"
		if slices.Contains(v.editTags, tag.ID) {
			checkbox = "[x]"
		}

		tagColor := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color))
		itemText := checkbox + " " + tagColor.Render("●") + " " + tag.Name

		if v.editFocusIdx == editFieldTags && i == v.editTagCursor {
			items = append(items, s.ListSelected.Render(itemText))
		} else {
			items = append(items, s.ListItem.Render(itemText))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return containerStyle.Width(width).Render(content)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	completedLabel := "done"
	if v.showingCompleted {
		completedLabel = "open"
	}

	k := v.styles.HelpKey.Render
	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s new • %s status • %s timer • %s tags • %s %s • %s back • %s more",
			k("↵"), k("n"), k("s"), k("T"), k("t"), k("c"), completedLabel, k("esc"), k("?"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	completedLabel := "show completed"
	if v.showingCompleted {
		completedLabel = "show open"
	}
	archivedLabel := "show archived"
	if v.showingArchived {
		archivedLabel = "hide archived"
	}

	helpItems := []string{
		s.HelpKey.Render("↵") + "      view task",
		s.HelpKey.Render("e") + "      edit task",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("s") + "      cycle status",
		s.HelpKey.Render("x") + "      archive / unarchive",
		s.HelpKey.Render("y") + "      duplicate",
		s.HelpKey.Render("T") + "      start / stop timer",
		s.HelpKey.Render("J/K") + "    move down / up",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("f") + "      filter by tag",
		s.HelpKey.Render("t") + "      assign tags",
		s.HelpKey.Render("c") + "      " + completedLabel,
		s.HelpKey.Render("A") + "      " + archivedLabel,
		s.HelpKey.Render("esc") + "    back",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderTagAssignment() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	i := slices.IndexFunc(v.snap.Tasks, func(t models.Task) bool { return t.ID == v.assigningTaskID })
	if i < 0 {
		return ""
	}
	task := v.snap.Tasks[i]

	var items []string
	for i, tag := range v.snap.Tags {
		itemStyle := s.ListItem
		if i == v.assignTagCursor {
			itemStyle = s.ListSelected
		}

		checkbox := "[ ]"
		if hasTag(task, tag.ID) {
			checkbox = "[x]"
		}

		tagColor := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color))
		items = append(items, itemStyle.Render(checkbox+" "+tagColor.Render("●")+" "+tag.Name))
	}
	if len(items) == 0 {
		items = append(items, s.TitleMuted.Render("No tags yet"))
	}

	rows := []string{
		s.Title.Render("Assign Tags to: " + task.Title),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
		"",
	}
	if v.creatingTag {
		rows = append(rows, s.InputFocused.Render(v.newTagInput.View()), "", s.TitleMuted.Render("Enter: create • Esc: cancel"))
	} else {
		rows = append(rows, s.TitleMuted.Render("Enter/Space: toggle • n: new tag • d: delete tag • Esc: done"))
	}

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

// trackedTime describes closed entries and, if running, the open one
func trackedTime(task models.Task, now time.Time) string {
	minutes := 0
	for _, e := range task.TimeEntries {
		if e.Duration != nil {
			minutes += *e.Duration
		}
	}
	out := fmt.Sprintf("%dh %02dm tracked", minutes/60, minutes%60)
	if e, running := store.ActiveTimeEntry(task); running {
		out += fmt.Sprintf(" • running for %s", now.Sub(e.StartTime).Truncate(time.Second))
	}
	return out
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.viewedTask()
	if !ok {
		return ""
	}

	s := v.styles
	maxContentWidth := styles.ContentWidth(v.width)
	textWidth := clamp(maxContentWidth-10, 20, 70)
	labelStyle := s.TitleMuted
	wrap := lipgloss.NewStyle().Width(textWidth)

	var tagStrs []string
	for _, tag := range task.Tags {
		tagStrs = append(tagStrs, lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render(tag.Name))
	}
	tagsLine := "None"
	if len(tagStrs) > 0 {
		tagsLine = strings.Join(tagStrs, " ")
	}

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}

	dueText := "None"
	if task.DueDate != nil {
		dueText = task.DueDate.Format("Mon Jan 2, 2006")
	}

	var subtaskLines []string
	for i, st := range task.Subtasks {
		mark := "[ ]"
		if st.Completed {
			mark = "[x]"
		}
		subtaskLines = append(subtaskLines, fmt.Sprintf("%d %s %s", i+1, mark, st.Title))
	}
	subtasks := s.TitleMuted.Render("No subtasks")
	if len(subtaskLines) > 0 {
		subtasks = strings.Join(subtaskLines, "\n")
	}
	if v.subtaskInputFocused {
		subtasks += "\n" + s.InputFocused.Render(v.subtaskInput.View())
	}

	var noteLines []string
	for _, n := range task.Notes {
		noteLines = append(noteLines, lipgloss.JoinVertical(lipgloss.Left,
			s.TitleMuted.Render(n.CreatedAt.Format("Jan 2, 2006 3:04 PM")),
			wrap.Render(n.Content),
		))
	}
	notes := s.TitleMuted.Render("No notes yet")
	if len(noteLines) > 0 {
		notes = lipgloss.JoinVertical(lipgloss.Left, noteLines...)
	}

	var attachmentLines []string
	for _, a := range task.Attachments {
		attachmentLines = append(attachmentLines, fmt.Sprintf("%s (%s, %d bytes)", a.Name, a.Type, a.Size))
	}
	attachments := s.TitleMuted.Render("None")
	if len(attachmentLines) > 0 {
		attachments = strings.Join(attachmentLines, "\n")
	}

	v.noteInput.SetWidth(clamp(textWidth, 20, 50))
	noteInputStyle := s.Input
	if v.noteInputFocused {
		noteInputStyle = s.InputFocused
	}

	k := s.HelpKey.Render
	var helpText string
	switch {
	case v.noteInputFocused:
		helpText = s.Help.Render(fmt.Sprintf("%s submit • %s cancel", k("ctrl+s"), k("esc")))
	case v.subtaskInputFocused:
		helpText = s.Help.Render(fmt.Sprintf("%s add • %s cancel", k("↵"), k("esc")))
	default:
		helpText = s.Help.Render(fmt.Sprintf("%s edit • %s status • %s timer • %s tags • %s subtask • %s toggle • %s note • %s back",
			k("e"), k("s"), k("T"), k("t"), k("a"), k("1-9"), k("c"), k("esc")))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		labelStyle.Render("Status"),
		string(task.Status),
		"",
		labelStyle.Render("Priority"),
		v.priorityStyle(task.Priority).Render(string(task.Priority)),
		"",
		labelStyle.Render("Due"),
		dueText,
		"",
		labelStyle.Render("Tags"),
		tagsLine,
		"",
		labelStyle.Render("Time"),
		trackedTime(task, time.Now()),
		"",
		labelStyle.Render("Description"),
		wrap.Render(descText),
		"",
		labelStyle.Render("Subtasks"),
		subtasks,
		"",
		labelStyle.Render("Attachments"),
		attachments,
		"",
		labelStyle.Render("Notes"),
		notes,
		"",
		noteInputStyle.Render(v.noteInput.View()),
		"",
		helpText,
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}
