package home

import (
	"errors"
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/pharmdrill/internal/config"
	"github.com/abhisek/pharmdrill/internal/flashcard"
	"github.com/abhisek/pharmdrill/internal/progress"
	"github.com/abhisek/pharmdrill/internal/qa"
	"github.com/abhisek/pharmdrill/internal/router"
	"github.com/abhisek/pharmdrill/internal/screen"
	flashcardscreen "github.com/abhisek/pharmdrill/internal/screens/flashcard"
	matchingscreen "github.com/abhisek/pharmdrill/internal/screens/matching"
	progressscreen "github.com/abhisek/pharmdrill/internal/screens/progress"
	qascreen "github.com/abhisek/pharmdrill/internal/screens/qa"
	selectionscreen "github.com/abhisek/pharmdrill/internal/screens/selection"
	"github.com/abhisek/pharmdrill/internal/selection"
	"github.com/abhisek/pharmdrill/internal/store"
	"github.com/abhisek/pharmdrill/internal/study"
	"github.com/abhisek/pharmdrill/internal/ui/components"
)

// Deps is everything the home screen hands down to the study modes.
type Deps struct {
	Selection *selection.State
	Progress  *progress.Store
	Events    store.EventRepo // nil disables the attempt log
	Matching  config.Matching
	ExportDir string
	Logger    *zap.Logger
	Rand      *rand.Rand // nil uses the global source
}

const quitLabel = "Quit"

// HomeScreen is the main menu.
type HomeScreen struct {
	deps       Deps
	menu       components.Menu
	menuLabels []string
	modes      []study.Mode
	warning    string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &HomeScreen{deps: deps, modes: study.Modes()}

	var items []components.MenuItem
	for _, m := range h.modes {
		h.menuLabels = append(h.menuLabels, m.Label())
		items = append(items, components.MenuItem{Label: m.Label(), Action: h.open(m)})
	}
	h.menuLabels = append(h.menuLabels, quitLabel)
	items = append(items, components.MenuItem{Label: quitLabel, Action: func() tea.Cmd {
		return tea.Quit
	}})

	h.menu = components.NewMenu(items)
	return h
}

// open returns the menu action for a mode.
func (h *HomeScreen) open(m study.Mode) func() tea.Cmd {
	return func() tea.Cmd {
		next, err := h.screenFor(m)
		if err != nil {
			h.warning = warningFor(err)
			h.deps.Logger.Info("mode not started", zap.String("mode", m.String()), zap.Error(err))
			return nil
		}
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: next}
		}
	}
}

func (h *HomeScreen) screenFor(m study.Mode) (screen.Screen, error) {
	d := h.deps
	switch m {
	case study.Selection:
		return selectionscreen.New(d.Selection), nil
	case study.ProgressView:
		return progressscreen.New(progressscreen.Deps{
			Progress:  d.Progress,
			Dataset:   d.Selection.Dataset(),
			Events:    d.Events,
			ExportDir: d.ExportDir,
			Logger:    d.Logger,
		}), nil
	}

	subset, err := d.Selection.WorkingSubset()
	if err != nil {
		return nil, err
	}

	switch m {
	case study.Matching:
		return matchingscreen.New(subset, matchingscreen.Options{
			Matching: d.Matching,
			Rand:     d.Rand,
			Logger:   d.Logger,
		}), nil
	case study.QA:
		exercises, err := qa.Generate(subset, d.Rand)
		if err != nil {
			return nil, err
		}
		return qascreen.New(exercises, qascreen.Deps{
			Recorder: d.Progress,
			Events:   d.Events,
			Logger:   d.Logger,
		}), nil
	case study.Flashcard:
		deck, err := flashcard.NewDeck(subset, d.Rand)
		if err != nil {
			return nil, err
		}
		return flashcardscreen.New(deck), nil
	}
	return nil, errors.New("unknown mode")
}

func warningFor(err error) string {
	switch {
	case errors.Is(err, selection.ErrEmptySelection), errors.Is(err, flashcard.ErrEmptyDeck):
		return "No drugs selected. Use Select Drugs first."
	case errors.Is(err, qa.ErrNoExercises):
		return "The selected drugs have nothing to ask about."
	default:
		return err.Error()
	}
}

// Warning returns the notice currently shown above the menu.
func (h *HomeScreen) Warning() string {
	return h.warning
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		h.warning = ""
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	ov := h.deps.Progress.Overall()
	sections = append(sections, renderStatsBar(dashboardStats{
		selected: h.deps.Selection.SelectedCount(),
		total:    h.deps.Selection.Dataset().Len(),
		sessions: ov.Sessions,
		accuracy: ov.Accuracy,
		answered: ov.TotalQuestions,
	}, cw, compact))

	if h.warning != "" {
		sections = append(sections, renderWarning(h.warning, cw))
	}

	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	}

	if h.menu.Selected < len(h.modes) {
		sections = append(sections, renderDescription(h.modes[h.menu.Selected].Description(), cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
