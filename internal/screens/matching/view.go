package matching

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pharmdrill/internal/matching"
	"github.com/abhisek/pharmdrill/internal/ui/components"
	"github.com/abhisek/pharmdrill/internal/ui/layout"
	"github.com/abhisek/pharmdrill/internal/ui/theme"
)

func (s *MatchingScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  %s\n\n  Press any key to pick other columns.", s.errMsg))
	}
	switch s.phase {
	case phaseSetup:
		return s.renderSetup(width)
	case phaseDone:
		return s.renderDone(width)
	}
	return s.renderBoard(width)
}

func (s *MatchingScreen) renderSetup(width int) string {
	var b strings.Builder
	b.WriteString("\n")

	prompt := "Choose the left column"
	if s.colA != nil {
		prompt = fmt.Sprintf("Match %s with...", *s.colA)
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(prompt))
	b.WriteString("\n\n")

	var lines []string
	for i, a := range s.attrs {
		label := a.Header()
		style := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "    "
		if s.colA != nil && a == *s.colA {
			style = style.Foreground(theme.TextDim)
			label += "  (left)"
		}
		if i == s.attrCursor {
			style = style.Foreground(theme.Primary).Bold(true)
			prefix = "  ▸ "
		}
		lines = append(lines, style.Render(prefix+label))
	}
	b.WriteString(layout.Center(lipgloss.NewStyle().Width(30).Render(strings.Join(lines, "\n")), width))

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d drugs in play, up to %d pairs per board", len(s.subset), s.opts.Matching.MaxPairs)))
	return b.String()
}

func (s *MatchingScreen) renderBoard(width int) string {
	g := s.game
	var b strings.Builder

	status := fmt.Sprintf("%s  ↔  %s     %d left   %d misses",
		g.ColA, g.ColB, g.Remaining()/2, g.Misses())
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Secondary).
		Bold(true).
		Render(status))
	b.WriteString("\n")
	b.WriteString(layout.Center(layout.Divider(width, 110), width))
	b.WriteString("\n")

	tileWidth := min((width-10)/2, matching.DisplayWidth+4)
	left := s.renderColumn(matching.Left, g.Left, tileWidth)
	right := s.renderColumn(matching.Right, g.Right, tileWidth)
	board := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	b.WriteString(layout.Center(board, width))
	b.WriteString("\n")

	if s.lastMatch != nil {
		msg := lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("Match!")
		if !*s.lastMatch {
			msg = lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Not a pair")
		}
		b.WriteString(layout.Center(msg, width))
	}
	return b.String()
}

func (s *MatchingScreen) renderColumn(side matching.Side, cards []matching.Card, w int) string {
	var tiles []string
	for i, c := range cards {
		focused := s.cursor.Side == side && s.cursor.Index == i
		label := matching.Truncate(c.Display(), max(w-4, 1))
		tiles = append(tiles, components.Tile(label, tileState(c.State), focused, w))
	}
	return lipgloss.JoinVertical(lipgloss.Left, tiles...)
}

func tileState(st matching.SlotState) components.TileState {
	switch st {
	case matching.Selected:
		return components.TileSelected
	case matching.Matched:
		return components.TileMatched
	case matching.Mismatched:
		return components.TileMismatched
	}
	return components.TileIdle
}

func (s *MatchingScreen) renderDone(width int) string {
	g := s.game
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Bold(true).
		Render("Congratulations! All pairs matched."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("%d pairs in %d attempts (%d misses)", len(g.Pairs), g.Attempts(), g.Misses())))
	return b.String()
}
