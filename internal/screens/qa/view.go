package qa

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pharmdrill/internal/ui/layout"
	"github.com/abhisek/pharmdrill/internal/ui/theme"
)

// renderQuestionView renders the active question display.
func (s *QAScreen) renderQuestionView(width int) string {
	ex, ok := s.session.Current()
	if !ok {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Wrapping up...")
	}

	var b strings.Builder

	idx, total := s.session.Position()
	score := s.session.Score()

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s", ex.Kind.Tag()))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  %s %d/%d",
			idx+1, total,
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
			score.Correct, score.Total,
		))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	questionStyle := lipgloss.NewStyle().
		Width(min(width-8, 80)).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(layout.Center(questionStyle.Render(ex.Prompt), width))
	b.WriteString("\n\n")

	answerLine := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Answer: " + s.input.View())
	b.WriteString(answerLine)

	return b.String()
}

// renderFeedback renders the feedback overlay.
func (s *QAScreen) renderFeedback(width int) string {
	fb := s.feedback
	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString("\n\n")

	switch {
	case fb.revealed:
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true), "Answer revealed"))
	case fb.correct:
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success).Bold(true), "Correct!"))
	default:
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error).Bold(true), "Not quite"))
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), fmt.Sprintf("You said: %s", fb.answer)))
	}
	b.WriteString("\n\n")

	expStyle := lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Foreground(theme.Text)
	b.WriteString(layout.Center(expStyle.Render(fmt.Sprintf("%s\n\n%s", fb.exercise.Prompt, fb.exercise.Expected)), width))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Press any key to continue..."))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	line := func(color lipgloss.Style, text string) string {
		return color.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "End session early?"))
	b.WriteString("\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.TextDim), "Answers so far count toward your progress."))
	b.WriteString("\n\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, end and save"))
	b.WriteString("\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	b.WriteString("\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Error), "[D] Discard this session"))
	return b.String()
}
