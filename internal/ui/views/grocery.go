package views

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/tgienger/daybook/internal/models"
	"github.com/tgienger/daybook/internal/store"
	"github.com/tgienger/daybook/internal/ui/keys"
	"github.com/tgienger/daybook/internal/ui/styles"
)

// GroceryView lists grocery lists and, once one is opened, its items
type GroceryView struct {
	store  *store.Store
	snap   store.Snapshot
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	listCursor int
	openListID string // "" = showing all lists
	itemCursor int

	// New list / item form
	creating    bool
	focusIdx    int // 0=name, 1=quantity, 2=category
	newName     textinput.Model
	newQuantity textinput.Model
	newCategory int // index into models.GroceryCategories

	confirmingDelete bool
}

func NewGroceryView(st *store.Store) *GroceryView {
	name := textinput.New()
	name.CharLimit = 100

	qty := textinput.New()
	qty.Placeholder = "Quantity (optional)"
	qty.CharLimit = 30

	return &GroceryView{
		store:       st,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		newName:     name,
		newQuantity: qty,
	}
}

func (v *GroceryView) Init() tea.Cmd {
	return nil
}

// SetSnapshot refreshes the view from snap
func (v *GroceryView) SetSnapshot(snap store.Snapshot) {
	v.snap = snap
	v.styles = styles.NewStyles()

	if v.openListID != "" {
		if _, ok := v.openList(); !ok {
			v.openListID = ""
			v.creating = false
		}
	}
	v.listCursor = clamp(v.listCursor, 0, max(len(snap.GroceryLists)-1, 0))
	v.itemCursor = clamp(v.itemCursor, 0, max(len(v.items())-1, 0))
}

func (v *GroceryView) openList() (models.GroceryList, bool) {
	i := slices.IndexFunc(v.snap.GroceryLists, func(l models.GroceryList) bool { return l.ID == v.openListID })
	if i < 0 {
		return models.GroceryList{}, false
	}
	return v.snap.GroceryLists[i], true
}

// items returns the open list's items grouped by category in display order
func (v *GroceryView) items() []models.GroceryItem {
	l, ok := v.openList()
	if !ok {
		return nil
	}
	out := slices.Clone(l.Items)
	slices.SortStableFunc(out, func(a, b models.GroceryItem) int {
		return slices.Index(models.GroceryCategories, a.Category) - slices.Index(models.GroceryCategories, b.Category)
	})
	return out
}

func (v *GroceryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating {
			return v.updateCreating(msg)
		}
		if v.openListID != "" {
			return v.updateItems(msg)
		}
		return v.updateLists(msg)
	}
	return v, nil
}

func (v *GroceryView) updateLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }
	case key.Matches(msg, v.keys.Up):
		if v.listCursor > 0 {
			v.listCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.listCursor < len(v.snap.GroceryLists)-1 {
			v.listCursor++
		}
	case key.Matches(msg, v.keys.Enter):
		if v.listCursor < len(v.snap.GroceryLists) {
			v.openListID = v.snap.GroceryLists[v.listCursor].ID
			v.itemCursor = 0
		}
	case key.Matches(msg, v.keys.New):
		return v, v.startCreating("List name")
	case key.Matches(msg, v.keys.Delete):
		if v.listCursor < len(v.snap.GroceryLists) {
			v.confirmingDelete = true
		}
	}
	return v, nil
}

func (v *GroceryView) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := v.items()
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back):
		v.openListID = ""
	case key.Matches(msg, v.keys.Up):
		if v.itemCursor > 0 {
			v.itemCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.itemCursor < len(items)-1 {
			v.itemCursor++
		}
	case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
		if v.itemCursor < len(items) {
			it := items[v.itemCursor]
			v.store.UpdateGroceryItem(v.openListID, it.ID, models.GroceryItemPatch{Completed: models.Ptr(!it.Completed)})
		}
	case key.Matches(msg, v.keys.New):
		return v, v.startCreating("Item name")
	case key.Matches(msg, v.keys.Delete):
		if v.itemCursor < len(items) {
			v.store.DeleteGroceryItem(v.openListID, items[v.itemCursor].ID)
		}
	}
	return v, nil
}

func (v *GroceryView) startCreating(placeholder string) tea.Cmd {
	v.creating = true
	v.focusIdx = 0
	v.newCategory = len(models.GroceryCategories) - 1
	v.newName.Reset()
	v.newName.Placeholder = placeholder
	v.newQuantity.Reset()
	v.newName.Focus()
	v.newQuantity.Blur()
	return textinput.Blink
}

func (v *GroceryView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Lists only have a name; items add quantity and category
	fields := 1
	if v.openListID != "" {
		fields = 3
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		v.submit()
		return v, nil
	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % fields
		v.updateFocus()
		return v, nil
	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + fields - 1) % fields
		v.updateFocus()
		return v, nil
	case v.focusIdx == 2 && key.Matches(msg, v.keys.Left):
		v.newCategory = (v.newCategory + len(models.GroceryCategories) - 1) % len(models.GroceryCategories)
		return v, nil
	case v.focusIdx == 2 && key.Matches(msg, v.keys.Right):
		v.newCategory = (v.newCategory + 1) % len(models.GroceryCategories)
		return v, nil
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newQuantity, cmd = v.newQuantity.Update(msg)
	}
	return v, cmd
}

func (v *GroceryView) updateFocus() {
	v.newName.Blur()
	v.newQuantity.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newQuantity.Focus()
	}
}

func (v *GroceryView) submit() {
	name := strings.TrimSpace(v.newName.Value())
	v.creating = false
	if name == "" {
		return
	}
	now := time.Now()
	if v.openListID == "" {
		v.store.AddGroceryList(models.GroceryList{
			ID:        "grocery_" + uuid.NewString(),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
		v.listCursor = len(v.snap.GroceryLists)
		return
	}
	v.store.AddGroceryItem(v.openListID, models.GroceryItem{
		ID:        "item_" + uuid.NewString(),
		Name:      name,
		Quantity:  strings.TrimSpace(v.newQuantity.Value()),
		Category:  models.GroceryCategories[v.newCategory],
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (v *GroceryView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if v.listCursor < len(v.snap.GroceryLists) {
			v.store.DeleteGroceryList(v.snap.GroceryLists[v.listCursor].ID)
		}
		v.confirmingDelete = false
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *GroceryView) View() string {
	var content string
	switch {
	case v.confirmingDelete:
		content = v.renderDeleteConfirm()
	case v.creating:
		content = v.renderCreateForm()
	case v.openListID != "":
		content = v.renderItems()
	default:
		content = v.renderLists()
	}
	return styles.CenterView(lipgloss.NewStyle().Padding(1, 2).Render(content), v.width, v.height)
}

func (v *GroceryView) renderLists() string {
	s := v.styles
	rows := []string{s.Title.Render("Grocery Lists"), ""}

	if len(v.snap.GroceryLists) == 0 {
		rows = append(rows, s.TitleMuted.Render("No grocery lists. Press 'n' to create one."))
	}
	for i, l := range v.snap.GroceryLists {
		line := fmt.Sprintf("%s  %s", l.Name, s.TitleMuted.Render(store.GroceryProgressLabel(l)))
		if i == v.listCursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}

	k := s.HelpKey.Render
	rows = append(rows, "", s.Help.Render(fmt.Sprintf("%s open • %s new • %s delete • %s back", k("↵"), k("n"), k("d"), k("esc"))))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *GroceryView) renderItems() string {
	s := v.styles
	l, _ := v.openList()
	rows := []string{
		s.Title.Render(l.Name) + "  " + s.TitleMuted.Render(store.GroceryProgressLabel(l)),
		"",
	}

	items := v.items()
	if len(items) == 0 {
		rows = append(rows, s.TitleMuted.Render("Nothing on this list yet. Press 'n' to add an item."))
	}

	var lastCategory models.GroceryCategory
	for i, it := range items {
		if i == 0 || it.Category != lastCategory {
			rows = append(rows, s.TitleMuted.Render(string(it.Category)))
			lastCategory = it.Category
		}
		mark := "[ ]"
		if it.Completed {
			mark = "[x]"
		}
		line := mark + " " + it.Name
		if it.Quantity != "" {
			line += s.TitleMuted.Render(" (" + it.Quantity + ")")
		}
		if i == v.itemCursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}

	k := s.HelpKey.Render
	rows = append(rows, "", s.Help.Render(fmt.Sprintf("%s toggle • %s new • %s delete • %s lists", k("space"), k("n"), k("d"), k("esc"))))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *GroceryView) renderCreateForm() string {
	s := v.styles
	inputWidth := clamp(styles.ContentWidth(v.width)-10, 20, 40)

	fieldStyle := func(idx int) lipgloss.Style {
		if v.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	if v.openListID == "" {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("New Grocery List"),
			"",
			fieldStyle(0).Width(inputWidth).Render(v.newName.View()),
			"",
			s.TitleMuted.Render("Enter: create • Esc: cancel"),
		)
	}

	category := fmt.Sprintf("◀ %s ▶", models.GroceryCategories[v.newCategory])
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Item"),
		"",
		fieldStyle(0).Width(inputWidth).Render(v.newName.View()),
		fieldStyle(1).Width(inputWidth).Render(v.newQuantity.View()),
		fieldStyle(2).Width(inputWidth).Render(category),
		"",
		s.TitleMuted.Render("Tab: next field • ←→: category • Enter: add • Esc: cancel"),
	)
}

func (v *GroceryView) renderDeleteConfirm() string {
	s := v.styles
	name := ""
	if v.listCursor < len(v.snap.GroceryLists) {
		name = v.snap.GroceryLists[v.listCursor].Name
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Grocery List?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q and all its items will be removed.", name)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)
}
