package progress

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/pharmdrill/internal/dataset"
	"github.com/abhisek/pharmdrill/internal/progress"
	"github.com/abhisek/pharmdrill/internal/router"
	"github.com/abhisek/pharmdrill/internal/screen"
	"github.com/abhisek/pharmdrill/internal/screens/history"
	"github.com/abhisek/pharmdrill/internal/store"
	"github.com/abhisek/pharmdrill/internal/study"
	"github.com/abhisek/pharmdrill/internal/ui/components"
	"github.com/abhisek/pharmdrill/internal/ui/layout"
	"github.com/abhisek/pharmdrill/internal/ui/theme"
)

// ListLimit caps the recent-session and weakest-drug tables.
const ListLimit = 15

// Deps are what the progress view reads and acts on.
type Deps struct {
	Progress  *progress.Store
	Dataset   *dataset.Dataset
	Events    store.EventRepo // optional; enables the history view
	ExportDir string
	Logger    *zap.Logger
}

// ProgressScreen shows aggregates, recent sessions and the weakest drugs.
type ProgressScreen struct {
	deps                Deps
	showingResetConfirm bool
	notice              string
	noticeErr           bool
	scroll              int
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)
var _ screen.EscapeHandler = (*ProgressScreen)(nil)

// New creates a ProgressScreen.
func New(deps Deps) *ProgressScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &ProgressScreen{deps: deps}
}

func (s *ProgressScreen) Init() tea.Cmd {
	return nil
}

func (s *ProgressScreen) Title() string {
	return "Progress"
}

// HandlesEscape lets Esc cancel the reset dialog instead of leaving.
func (s *ProgressScreen) HandlesEscape() bool {
	return s.showingResetConfirm
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	if s.showingResetConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Erase all progress"},
			{Key: "N", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "X", Description: "Export"},
		{Key: "R", Description: "Reset"},
	}
	if s.deps.Events != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if s.showingResetConfirm {
		switch key {
		case "y", "Y":
			s.showingResetConfirm = false
			s.reset()
		case "n", "N", "esc":
			s.showingResetConfirm = false
		}
		return s, nil
	}

	s.notice = ""
	switch key {
	case "x":
		s.export()
	case "r":
		s.showingResetConfirm = true
	case "h":
		if s.deps.Events != nil {
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(s.deps.Events)}
			}
		}
	case "up", "k":
		if s.scroll > 0 {
			s.scroll--
		}
	case "down", "j":
		s.scroll++
	}
	return s, nil
}

func (s *ProgressScreen) export() {
	path, err := s.deps.Progress.ExportSnapshot(s.deps.ExportDir)
	if err != nil {
		s.setNotice(fmt.Sprintf("Export failed: %v", err), true)
		return
	}
	s.setNotice(fmt.Sprintf("Progress exported to %s", path), false)
}

func (s *ProgressScreen) reset() {
	if err := s.deps.Progress.ResetAll(); err != nil {
		s.deps.Logger.Error("reset not saved", zap.Error(err))
		s.setNotice(fmt.Sprintf("Progress cleared but not saved: %v", err), true)
		return
	}
	s.deps.Logger.Info("progress reset")
	s.setNotice("All progress has been reset.", false)
}

func (s *ProgressScreen) setNotice(text string, isErr bool) {
	s.notice = text
	s.noticeErr = isErr
}

func (s *ProgressScreen) View(width, height int) string {
	if s.showingResetConfirm {
		return renderResetConfirm(width)
	}

	var lines []string
	lines = append(lines, s.renderOverall(width)...)
	lines = append(lines, "")
	lines = append(lines, s.renderRecent(width)...)
	lines = append(lines, "")
	lines = append(lines, s.renderWeakest(width)...)

	// Reserve one line for the notice.
	visible := max(height-2, 1)
	maxScroll := max(len(lines)-visible, 0)
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	lines = lines[s.scroll:min(len(lines), s.scroll+visible)]

	out := strings.Join(lines, "\n")
	if s.notice != "" {
		color := theme.Success
		if s.noticeErr {
			color = theme.Error
		}
		out += "\n" + lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(color).Render(s.notice)
	}
	return out
}

func heading(text string, width int) []string {
	return []string{
		layout.Center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(text), width),
		layout.Center(layout.Divider(width, 64), width),
	}
}

func (s *ProgressScreen) renderOverall(width int) []string {
	ov := s.deps.Progress.Overall()
	out := heading("Overall Statistics", width)
	stats := fmt.Sprintf("Questions: %d    Correct: %d    Accuracy: %.1f%%    Sessions: %d",
		ov.TotalQuestions, ov.TotalCorrect, ov.Accuracy, ov.Sessions)
	out = append(out, layout.Center(lipgloss.NewStyle().Foreground(theme.Text).Render(stats), width))
	bar := components.NewAccuracyBar("Accuracy", ov.Accuracy, min(width-8, 64))
	out = append(out, layout.Center(bar.View(), width))
	return out
}

func (s *ProgressScreen) renderRecent(width int) []string {
	out := heading("Recent Sessions", width)
	recent := s.deps.Progress.RecentSessions(ListLimit)
	if len(recent) == 0 {
		return append(out, layout.Center(theme.Hint.Render("No sessions yet. Start practicing!"), width))
	}
	for _, o := range recent {
		line := fmt.Sprintf("%-16s  %-14s  %3d/%-3d  %5.1f%%",
			o.Date.Local().Format("Jan 02 15:04"),
			study.TagLabel(o.Mode),
			o.Correct, o.Total, o.Accuracy)
		out = append(out, layout.Center(accuracyStyle(o.Accuracy).Render(line), width))
	}
	return out
}

func (s *ProgressScreen) renderWeakest(width int) []string {
	out := heading("Drugs Needing Practice", width)
	stats := s.deps.Progress.DrugStats(s.deps.Dataset)
	if len(stats) == 0 {
		return append(out, layout.Center(theme.Hint.Render("No answers recorded yet."), width))
	}
	if len(stats) > ListLimit {
		stats = stats[:ListLimit]
	}
	for _, d := range stats {
		line := fmt.Sprintf("%-28s  %3d/%-3d  %5.1f%%",
			components.TruncateLabel(d.Name, 28), d.Correct, d.Total, d.Accuracy)
		out = append(out, layout.Center(accuracyStyle(d.Accuracy).Render(line), width))
	}
	return out
}

func accuracyStyle(acc float64) lipgloss.Style {
	switch {
	case acc >= 75:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case acc >= 60:
		return lipgloss.NewStyle().Foreground(theme.Accent)
	default:
		return lipgloss.NewStyle().Foreground(theme.Error)
	}
}

// renderResetConfirm renders the reset confirmation dialog.
func renderResetConfirm(width int) string {
	line := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "Reset all progress?"))
	b.WriteString("\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.TextDim), "Session history and per-drug scores will be erased."))
	b.WriteString("\n\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Error), "[Y] Yes, erase everything"))
	b.WriteString("\n")
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep it"))
	return b.String()
}
