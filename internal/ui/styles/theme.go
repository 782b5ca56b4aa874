package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a color palette. Styles derives the view styles from it.
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary lipgloss.Color

	// Priority and due-date accents
	Warning lipgloss.Color
	Error   lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary: lipgloss.Color("#7aa2f7"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// TokyoNightDay is the light variant, used when dark mode is off
var TokyoNightDay = Theme{
	Name: "Tokyo Night Day",

	Background:    lipgloss.Color("#e1e2e7"),
	Foreground:    lipgloss.Color("#3760bf"),
	ForegroundDim: lipgloss.Color("#848cb5"),

	Primary: lipgloss.Color("#2e7de9"),
	Warning: lipgloss.Color("#8c6c3e"),
	Error:   lipgloss.Color("#f52a65"),

	Border:      lipgloss.Color("#a8aecb"),
	BorderFocus: lipgloss.Color("#2e7de9"),
	Selection:   lipgloss.Color("#b7c1e3"),
}

// Current holds the active theme
var Current = TokyoNightDay

// UseDarkMode switches Current to the dark or light theme. Styles built
// before the switch keep their old colors; call NewStyles again.
func UseDarkMode(dark bool) {
	if dark {
		Current = TokyoNight
	} else {
		Current = TokyoNightDay
	}
}

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles are the lipgloss styles the views render with. They are derived
// from a Theme, so rebuild them with NewStyles after the theme changes.
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Bordered panel used for dropdowns, popups and stat tiles
	FilterBar lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Help      lipgloss.Style
	HelpKey   lipgloss.Style
	StatusBar lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	return Current.Styles()
}

// Styles derives the view styles from the palette
func (t Theme) Styles() *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	boxed := func(border lipgloss.Color, hpad int) lipgloss.Style {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, hpad)
	}

	return &Styles{
		Title:      fg(t.Primary).Bold(true),
		TitleMuted: fg(t.ForegroundDim),

		ListItem:     fg(t.Foreground).Padding(0, 2),
		ListSelected: fg(t.Primary).Background(t.Selection).Padding(0, 2).Bold(true),

		FilterBar: boxed(t.Border, 1),

		Button:        boxed(t.Border, 2).Foreground(t.Foreground),
		ButtonFocused: boxed(t.BorderFocus, 2).Foreground(t.Primary).Bold(true),
		ButtonPrimary: fg(t.Background).Background(t.Primary).Padding(0, 2).Bold(true),

		Input:        boxed(t.Border, 1).Foreground(t.Foreground),
		InputFocused: boxed(t.BorderFocus, 1).Foreground(t.Foreground),

		Help:      fg(t.ForegroundDim).Padding(1, 2),
		HelpKey:   fg(t.Primary).Bold(true),
		StatusBar: fg(t.ForegroundDim).Padding(0, 1),
	}
}
