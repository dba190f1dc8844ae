package selection

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pharmdrill/internal/router"
	"github.com/abhisek/pharmdrill/internal/screen"
	"github.com/abhisek/pharmdrill/internal/selection"
	"github.com/abhisek/pharmdrill/internal/ui/components"
	"github.com/abhisek/pharmdrill/internal/ui/layout"
	"github.com/abhisek/pharmdrill/internal/ui/theme"
)

// row is one line of the checklist: a section header or a drug under it.
type row struct {
	section string
	drugID  int
	isDrug  bool
}

// SelectionScreen lets the learner pick which sections and drugs to study.
type SelectionScreen struct {
	state  *selection.State
	rows   []row
	cursor int
	offset int
}

var _ screen.Screen = (*SelectionScreen)(nil)
var _ screen.KeyHintProvider = (*SelectionScreen)(nil)

// New creates a SelectionScreen editing state in place.
func New(state *selection.State) *SelectionScreen {
	s := &SelectionScreen{state: state}
	ds := state.Dataset()
	for _, sec := range ds.Sections {
		s.rows = append(s.rows, row{section: sec.Name})
		for _, id := range sec.IDs {
			s.rows = append(s.rows, row{section: sec.Name, drugID: id, isDrug: true})
		}
	}
	return s
}

func (s *SelectionScreen) Init() tea.Cmd {
	return nil
}

func (s *SelectionScreen) Title() string {
	return "Select Drugs"
}

func (s *SelectionScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Space", Description: "Toggle"},
		{Key: "A", Description: "All"},
		{Key: "N", Description: "None"},
		{Key: "Esc", Description: "Done"},
	}
}

func (s *SelectionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
	case "pgup":
		s.cursor = max(0, s.cursor-10)
	case "pgdown":
		s.cursor = min(len(s.rows)-1, s.cursor+10)
	case "space", " ", "enter":
		s.toggle()
	case "a":
		s.state.SelectAll()
	case "n":
		s.state.DeselectAll()
	case "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *SelectionScreen) toggle() {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return
	}
	r := s.rows[s.cursor]
	if r.isDrug {
		_ = s.state.SetDrugIncluded(r.drugID, !s.state.DrugIncluded(r.drugID))
		return
	}
	_ = s.state.ToggleSection(r.section, !s.state.SectionIncluded(r.section))
}

func (s *SelectionScreen) View(width, height int) string {
	var b strings.Builder

	count := fmt.Sprintf("%d of %d drugs selected",
		s.state.SelectedCount(), s.state.Dataset().Len())
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Secondary).
		Bold(true).
		Render(count))
	b.WriteString("\n")
	b.WriteString(layout.Center(layout.Divider(width, 60), width))
	b.WriteString("\n")

	visible := height - 4
	if visible < 1 {
		visible = 1
	}
	s.scrollTo(visible)

	end := min(len(s.rows), s.offset+visible)
	var lines []string
	for i := s.offset; i < end; i++ {
		lines = append(lines, s.renderRow(s.rows[i], i == s.cursor))
	}
	block := lipgloss.NewStyle().Width(min(width-4, 60)).Render(strings.Join(lines, "\n"))
	b.WriteString(layout.Center(block, width))
	return b.String()
}

// scrollTo keeps the cursor inside a window of n rows.
func (s *SelectionScreen) scrollTo(n int) {
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+n {
		s.offset = s.cursor - n + 1
	}
}

func (s *SelectionScreen) renderRow(r row, focused bool) string {
	if !r.isDrug {
		line := components.Checkbox(r.section, s.state.SectionIncluded(r.section), focused)
		return lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(line)
	}
	rec, ok := s.state.Dataset().Record(r.drugID)
	label := fmt.Sprintf("#%d", r.drugID)
	if ok {
		label = rec.Label()
	}
	return "    " + components.Checkbox(label, s.state.DrugIncluded(r.drugID), focused)
}
