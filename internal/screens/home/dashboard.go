package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pharmdrill/internal/ui/components"
	"github.com/abhisek/pharmdrill/internal/ui/theme"
)

const titleFull = ` ___  _                    ___       _ _ _
| _ \| |_   __ _ _ _ _ __ |   \ _ _ (_) | |
|  _/| ' \ / _' | '_| '  \| |) | '_|| | | |
|_|  |_||_|\__,_|_| |_|_|_|___/|_|  |_|_|_|`

const titleCompact = "P · H · A · R · M · D · R · I · L · L"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Highlight).
		Bold(true)

	text := titleFull
	if compact {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(text))
}

type dashboardStats struct {
	selected int
	total    int
	sessions int
	accuracy float64
	answered int
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(st dashboardStats, cw int, compact bool) string {
	drugStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	sessStyle := lipgloss.NewStyle().Foreground(theme.Info).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			drugStyle.Render(fmt.Sprintf("%d/%d", st.selected, st.total)),
			accuracyText(st, true, accStyle, dimStyle),
			sessStyle.Render(fmt.Sprintf("#%d", st.sessions)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			drugStyle.Render(fmt.Sprintf("%d/%d DRUGS", st.selected, st.total)),
			accuracyText(st, false, accStyle, dimStyle),
			sessStyle.Render(fmt.Sprintf("%d SESSIONS", st.sessions)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Info).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func accuracyText(st dashboardStats, compact bool, active, dim lipgloss.Style) string {
	if st.answered == 0 {
		if compact {
			return dim.Render("--%")
		}
		return dim.Render("NO ANSWERS YET")
	}
	if compact {
		return active.Render(fmt.Sprintf("%.0f%%", st.accuracy))
	}
	return active.Render(fmt.Sprintf("%.0f%% ACCURACY", st.accuracy))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int) string {
	var buttons []string
	for i, label := range items {
		buttons = append(buttons, components.Button(label, i == selected, buttonWidth))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for small terminals
// where bordered buttons would overflow.
func renderMenuCompact(items []string, selected int, cw int) string {
	var lines []string
	for i, label := range items {
		if i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Highlight).
				Bold(true).
				Render(" ▸ "+label+" "))
			continue
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.Text).
			Render("   "+label))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderDescription shows what the highlighted entry does.
func renderDescription(desc string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(desc)
}

// renderWarning renders a one-line notice above the menu.
func renderWarning(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + text)
}
