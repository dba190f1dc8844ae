package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pharmdrill/internal/ui/theme"
)

// MenuItem is one entry of a Menu.
type MenuItem struct {
	Label  string
	Action func() tea.Cmd
}

// Menu is a vertical list with a wrapping cursor. Digits 1-9 jump to and
// activate the matching entry.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

func (m Menu) Init() tea.Cmd {
	return nil
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
	case "down", "j", "tab":
		m.Selected = (m.Selected + 1) % len(m.Items)
	case "enter":
		return m, m.activate()
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Items) && n <= 9 {
			m.Selected = n - 1
			return m, m.activate()
		}
	}
	return m, nil
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	if a := m.Items[m.Selected].Action; a != nil {
		return a()
	}
	return nil
}

// View renders the entries one per line.
func (m Menu) View() string {
	on := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	off := lipgloss.NewStyle().Foreground(theme.Text)

	lines := make([]string, len(m.Items))
	for i, item := range m.Items {
		if i == m.Selected {
			lines[i] = on.Render("  ▸ " + item.Label)
		} else {
			lines[i] = off.Render("    " + item.Label)
		}
	}
	return strings.Join(lines, "\n")
}
