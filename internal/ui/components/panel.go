package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pharmdrill/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked panels.
// All panels are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a double-border frame, centering it
// vertically and horizontally within the given dimensions.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Panel wraps content in a rounded-border card at the given content width.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// Button renders a selectable button.
func Button(label string, selected bool, width int) string {
	if selected {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Highlight).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Highlight).
			Padding(0, 1).
			Render("▸ " + label)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(label)
}

// TileState is the visual state of a board tile.
type TileState int

const (
	TileIdle TileState = iota
	TileSelected
	TileMatched
	TileMismatched
)

// Tile renders one board slot. focused draws the cursor border.
func Tile(label string, state TileState, focused bool, width int) string {
	st := lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Text).
		Padding(0, 1)

	switch state {
	case TileSelected:
		st = st.Foreground(theme.BgDark).Background(theme.Info).Bold(true)
	case TileMatched:
		st = st.Foreground(theme.Success).Faint(true)
	case TileMismatched:
		st = st.Foreground(theme.Text).Background(theme.Error).Bold(true)
	}
	if focused {
		st = st.BorderForeground(theme.Highlight)
	}
	return st.Render(label)
}

// Checkbox renders a "[x] label" row.
func Checkbox(label string, checked, focused bool) string {
	box := "[ ] "
	if checked {
		box = "[x] "
	}
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if focused {
		style = style.Foreground(theme.Primary).Bold(true)
		return style.Render("▸ " + box + label)
	}
	return style.Render("  " + box + label)
}

// TruncateLabel cuts s to n runes, ending with an ellipsis when cut.
func TruncateLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}
