package matching

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/pharmdrill/internal/config"
	"github.com/abhisek/pharmdrill/internal/dataset"
	"github.com/abhisek/pharmdrill/internal/matching"
	"github.com/abhisek/pharmdrill/internal/screen"
	"github.com/abhisek/pharmdrill/internal/ui/layout"
)

type phase int

const (
	phaseSetup phase = iota
	phaseBoard
	phaseDone
)

// resolveMsg fires once the resolve delay after a second pick has passed.
type resolveMsg struct{ game *matching.Game }

// clearMsg fires once a mismatch has been shown for the flash delay.
type clearMsg struct{ game *matching.Game }

// Options configures the matching screen.
type Options struct {
	Matching config.Matching
	Rand     *rand.Rand
	Logger   *zap.Logger
}

// MatchingScreen runs column setup followed by a matching board.
type MatchingScreen struct {
	subset []dataset.DrugRecord
	opts   Options

	phase phase

	// setup
	attrs      []dataset.Attribute
	attrCursor int
	colA       *dataset.Attribute

	// board
	game      *matching.Game
	cursor    matching.Ref
	resolving bool
	flashing  bool
	lastMatch *bool

	errMsg string
}

var _ screen.Screen = (*MatchingScreen)(nil)
var _ screen.KeyHintProvider = (*MatchingScreen)(nil)

// New creates a MatchingScreen over the working subset.
func New(subset []dataset.DrugRecord, opts Options) *MatchingScreen {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Matching.MaxPairs <= 0 {
		opts.Matching.MaxPairs = matching.MaxPairs
	}
	if opts.Matching.ResolveDelay <= 0 {
		opts.Matching.ResolveDelay = matching.ResolveDelay
	}
	if opts.Matching.FlashDelay <= 0 {
		opts.Matching.FlashDelay = matching.FlashDelay
	}
	return &MatchingScreen{
		subset: subset,
		opts:   opts,
		attrs:  dataset.AllAttributes(),
	}
}

func (s *MatchingScreen) Init() tea.Cmd {
	return nil
}

func (s *MatchingScreen) Title() string {
	return "Matching Game"
}

func (s *MatchingScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	switch s.phase {
	case phaseSetup:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Choose"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseDone:
		return []layout.KeyHint{
			{Key: "R", Description: "Play again"},
			{Key: "C", Description: "Change columns"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→↑↓", Description: "Move"},
		{Key: "Enter", Description: "Pick"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MatchingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resolveMsg:
		return s.handleResolve(msg)
	case clearMsg:
		return s.handleClear(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *MatchingScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Error state — any key returns to column setup.
	if s.errMsg != "" {
		s.errMsg = ""
		s.reset()
		return s, nil
	}

	switch s.phase {
	case phaseSetup:
		return s.handleSetupKey(key)
	case phaseDone:
		switch key {
		case "r":
			return s, s.deal(s.game.ColA, s.game.ColB)
		case "c":
			s.reset()
		}
		return s, nil
	}
	return s.handleBoardKey(key)
}

func (s *MatchingScreen) handleSetupKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k":
		if s.attrCursor > 0 {
			s.attrCursor--
		}
	case "down", "j":
		if s.attrCursor < len(s.attrs)-1 {
			s.attrCursor++
		}
	case "enter", "space":
		picked := s.attrs[s.attrCursor]
		if s.colA == nil {
			s.colA = &picked
			return s, nil
		}
		if picked == *s.colA {
			return s, nil
		}
		return s, s.deal(*s.colA, picked)
	case "backspace":
		s.colA = nil
	}
	return s, nil
}

func (s *MatchingScreen) handleBoardKey(key string) (screen.Screen, tea.Cmd) {
	g := s.game
	switch key {
	case "left", "h":
		s.cursor.Side = matching.Left
	case "right", "l":
		s.cursor.Side = matching.Right
	case "up", "k":
		if s.cursor.Index > 0 {
			s.cursor.Index--
		}
	case "down", "j":
		if s.cursor.Index < len(g.Left)-1 {
			s.cursor.Index++
		}
	case "enter", "space":
		if s.resolving || s.flashing {
			return s, nil
		}
		s.lastMatch = nil
		if g.Select(s.cursor) {
			s.resolving = true
			return s, tickAfter(s.opts.Matching.ResolveDelay, func() tea.Msg { return resolveMsg{game: g} })
		}
	}
	return s, nil
}

func (s *MatchingScreen) handleResolve(msg resolveMsg) (screen.Screen, tea.Cmd) {
	if msg.game != s.game {
		return s, nil
	}
	s.resolving = false
	v, ok := s.game.Resolve()
	if !ok {
		return s, nil
	}
	matched := v.Matched
	s.lastMatch = &matched
	if !v.Matched {
		s.flashing = true
		g := s.game
		return s, tickAfter(s.opts.Matching.FlashDelay, func() tea.Msg { return clearMsg{game: g} })
	}
	if s.game.Done() {
		s.phase = phaseDone
		s.opts.Logger.Info("matching game complete",
			zap.String("left", s.game.ColA.Slug()),
			zap.String("right", s.game.ColB.Slug()),
			zap.Int("pairs", len(s.game.Pairs)),
			zap.Int("attempts", s.game.Attempts()))
	}
	return s, nil
}

func (s *MatchingScreen) handleClear(msg clearMsg) (screen.Screen, tea.Cmd) {
	if msg.game != s.game {
		return s, nil
	}
	s.flashing = false
	s.game.ClearMismatch()
	return s, nil
}

// deal starts a new board. Ticks from a previous board are ignored.
func (s *MatchingScreen) deal(colA, colB dataset.Attribute) tea.Cmd {
	g, err := matching.New(s.subset, colA, colB, matching.Options{
		MaxPairs: s.opts.Matching.MaxPairs,
		Rand:     s.opts.Rand,
	})
	if err != nil {
		s.errMsg = describe(err, colA, colB)
		return nil
	}
	s.game = g
	s.phase = phaseBoard
	s.cursor = matching.Ref{Side: matching.Left}
	s.resolving, s.flashing = false, false
	s.lastMatch = nil
	return nil
}

func (s *MatchingScreen) reset() {
	s.phase = phaseSetup
	s.colA = nil
	s.game = nil
}

func describe(err error, colA, colB dataset.Attribute) string {
	if errors.Is(err, matching.ErrNoPairs) {
		return fmt.Sprintf("None of the selected drugs have both %s and %s.", colA, colB)
	}
	return err.Error()
}

func tickAfter(d time.Duration, fn func() tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return fn() })
}
