package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pharmdrill/internal/ui/theme"
)

// AccuracyBar draws an accuracy percentage (0-100) as a filled track. The
// fill colour follows the same bands as the end-of-session rating.
type AccuracyBar struct {
	Label    string
	Accuracy float64
	Width    int
}

// NewAccuracyBar creates a bar for accuracy in percent.
func NewAccuracyBar(label string, accuracy float64, width int) AccuracyBar {
	return AccuracyBar{Label: label, Accuracy: accuracy, Width: width}
}

func barColor(accuracy float64) color.Color {
	switch {
	case accuracy >= 75:
		return theme.Success
	case accuracy >= 60:
		return theme.Accent
	default:
		return theme.Error
	}
}

// View renders the bar followed by the rounded percentage.
func (b AccuracyBar) View() string {
	var prefix string
	if b.Label != "" {
		prefix = lipgloss.NewStyle().Foreground(theme.Text).Render(b.Label) + "  "
	}
	pct := fmt.Sprintf("  %3.0f%%", b.Accuracy)

	track := max(b.Width-lipgloss.Width(prefix)-len(pct), 4)
	filled := min(max(int(float64(track)*b.Accuracy/100), 0), track)

	fill := lipgloss.NewStyle().Background(barColor(b.Accuracy)).Render(strings.Repeat(" ", filled))
	rest := lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", track-filled))

	return prefix + fill + rest + lipgloss.NewStyle().Foreground(theme.TextDim).Render(pct)
}
