package flashcard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pharmdrill/internal/flashcard"
	"github.com/abhisek/pharmdrill/internal/screen"
	"github.com/abhisek/pharmdrill/internal/ui/components"
	"github.com/abhisek/pharmdrill/internal/ui/layout"
	"github.com/abhisek/pharmdrill/internal/ui/theme"
)

// FlashcardScreen pages through a shuffled deck of drug cards.
type FlashcardScreen struct {
	deck *flashcard.Deck
}

var _ screen.Screen = (*FlashcardScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardScreen)(nil)

// New creates a FlashcardScreen over deck.
func New(deck *flashcard.Deck) *FlashcardScreen {
	return &FlashcardScreen{deck: deck}
}

func (s *FlashcardScreen) Init() tea.Cmd {
	return nil
}

func (s *FlashcardScreen) Title() string {
	return "Learn Mode"
}

func (s *FlashcardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Previous/Next"},
		{Key: "S", Description: "Shuffle"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FlashcardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "right", "l", "space", "enter":
		s.deck.Next()
	case "left", "h":
		s.deck.Previous()
	case "s":
		s.deck.Reshuffle()
	}
	return s, nil
}

func (s *FlashcardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if s.deck.Complete() {
		var b strings.Builder
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render(fmt.Sprintf("You've reviewed all %d cards!", s.deck.Len())))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Press S to shuffle and go again, or ← to look back."))
		return b.String()
	}

	card, _ := s.deck.Current()

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Card %d of %d", s.deck.Position()+1, s.deck.Len())))
	b.WriteString("\n\n")

	var body strings.Builder
	body.WriteString(lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).Render(card.Title()))
	body.WriteString("\n")
	if card.Record.Section != "" {
		body.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(card.Record.Section))
		body.WriteString("\n")
	}
	for _, f := range card.Fields() {
		body.WriteString("\n")
		body.WriteString(theme.Label.Render(f.Attribute.Header() + ":"))
		body.WriteString("\n")
		body.WriteString(lipgloss.NewStyle().
			Foreground(theme.Text).
			Width(cw - 8).
			Render(f.Value))
		body.WriteString("\n")
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(1, 2).
		Render(body.String())
	b.WriteString(layout.Center(panel, width))
	return b.String()
}
