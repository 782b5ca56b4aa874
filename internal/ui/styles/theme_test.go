package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestStylesFollowPalette(t *testing.T) {
	for _, theme := range []Theme{TokyoNight, TokyoNightDay} {
		s := theme.Styles()
		if got := s.Title.GetForeground(); got != theme.Primary {
			t.Errorf("%s: title foreground = %v, want %v", theme.Name, got, theme.Primary)
		}
		if got := s.InputFocused.GetBorderTopForeground(); got != theme.BorderFocus {
			t.Errorf("%s: focused input border = %v, want %v", theme.Name, got, theme.BorderFocus)
		}
		if got := s.ListSelected.GetBackground(); got != theme.Selection {
			t.Errorf("%s: selection background = %v, want %v", theme.Name, got, theme.Selection)
		}
	}
}

func TestNewStylesUsesCurrentTheme(t *testing.T) {
	t.Cleanup(func() { UseDarkMode(false) })

	UseDarkMode(true)
	if got := NewStyles().Title.GetForeground(); got != TokyoNight.Primary {
		t.Errorf("dark title foreground = %v, want %v", got, TokyoNight.Primary)
	}
	UseDarkMode(false)
	if got := NewStyles().Title.GetForeground(); got != TokyoNightDay.Primary {
		t.Errorf("light title foreground = %v, want %v", got, TokyoNightDay.Primary)
	}
}

func TestContentWidth(t *testing.T) {
	tests := []struct {
		terminal, want int
	}{
		{40, 40},
		{MaxWidth, MaxWidth},
		{200, MaxWidth},
	}
	for _, tt := range tests {
		if got := ContentWidth(tt.terminal); got != tt.want {
			t.Errorf("ContentWidth(%d) = %d, want %d", tt.terminal, got, tt.want)
		}
	}
	if got := CenterView("x", 40, 10); got != "x" {
		t.Errorf("narrow terminal should not pad, got %q", got)
	}
	if got := lipgloss.Width(CenterView("x", 120, 1)); got != 120 {
		t.Errorf("centered width = %d, want 120", got)
	}
}
