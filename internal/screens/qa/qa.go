package qa

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/pharmdrill/internal/qa"
	"github.com/abhisek/pharmdrill/internal/router"
	"github.com/abhisek/pharmdrill/internal/screen"
	"github.com/abhisek/pharmdrill/internal/screens/summary"
	"github.com/abhisek/pharmdrill/internal/store"
	"github.com/abhisek/pharmdrill/internal/study"
	"github.com/abhisek/pharmdrill/internal/ui/components"
	"github.com/abhisek/pharmdrill/internal/ui/layout"
)

// Deps are the sinks a Q&A session reports to.
type Deps struct {
	Recorder qa.Recorder
	Events   store.EventRepo // optional
	Logger   *zap.Logger
}

// QAScreen implements screen.Screen for a Q&A practice session.
type QAScreen struct {
	session            *qa.Session
	deps               Deps
	input              components.TextInput
	feedback           *feedback
	showingQuitConfirm bool
	ended              bool
}

var _ screen.Screen = (*QAScreen)(nil)
var _ screen.KeyHintProvider = (*QAScreen)(nil)
var _ screen.EscapeHandler = (*QAScreen)(nil)

// New creates a QAScreen over pre-generated exercises.
func New(exercises []qa.Exercise, deps Deps) *QAScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &QAScreen{
		session: qa.NewSession(exercises),
		deps:    deps,
		input:   components.NewTextInput("Type your answer...", 200),
	}
}

func (s *QAScreen) Init() tea.Cmd {
	_, total := s.session.Position()
	s.appendSessionEvent(store.SessionEventData{Action: store.ActionStart, Total: total})
	s.deps.Logger.Info("qa session started",
		zap.String("session_id", s.session.ID),
		zap.Int("exercises", total))
	return s.input.Init()
}

func (s *QAScreen) Title() string {
	return "Q&A Practice"
}

// HandlesEscape keeps Esc from popping an unfinished session.
func (s *QAScreen) HandlesEscape() bool {
	return !s.ended
}

func (s *QAScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End and save"},
			{Key: "N", Description: "Keep going"},
			{Key: "D", Description: "Discard"},
		}
	}
	if s.feedback != nil {
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+R", Description: "Reveal"},
		{Key: "Ctrl+S", Description: "Skip"},
		{Key: "Ctrl+E", Description: "End"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QAScreen) View(width, height int) string {
	if s.showingQuitConfirm {
		return renderQuitConfirm(width)
	}
	if s.feedback != nil {
		return s.renderFeedback(width)
	}
	return s.renderQuestionView(width)
}

func (s *QAScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionEndMsg:
		return s.handleSessionEnd()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.feedback == nil && !s.showingQuitConfirm {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QAScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.ended {
		return s, nil
	}
	key := msg.String()

	// Quit confirmation dialog.
	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.showingQuitConfirm = false
			return s, endSession
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		case "d", "D":
			s.ended = true
			s.deps.Logger.Info("qa session discarded", zap.String("session_id", s.session.ID))
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	// Feedback overlay — any key dismisses.
	if s.feedback != nil {
		s.feedback = nil
		s.input.Reset()
		if s.session.Done() {
			return s, endSession
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.showingQuitConfirm = true
		return s, nil
	case "enter":
		return s.submitAnswer()
	case "ctrl+r":
		return s.reveal()
	case "ctrl+s":
		if err := s.session.Skip(); err != nil {
			return s, endSession
		}
		s.input.Reset()
		if s.session.Done() {
			return s, endSession
		}
		return s, nil
	case "ctrl+e":
		return s, endSession
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submitAnswer grades the typed answer and shows feedback.
func (s *QAScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	answer := s.input.Value()
	if answer == "" {
		return s, nil
	}
	attempt, err := s.session.Submit(answer)
	if err != nil {
		return s, endSession
	}
	s.input.Submit(attempt.Correct)

	if s.deps.Events != nil {
		ex := attempt.Exercise
		err := s.deps.Events.AppendAttempt(context.Background(), store.AttemptEventData{
			SessionID: s.session.ID,
			DrugID:    ex.DrugID,
			DrugName:  ex.DrugName,
			Relation:  ex.Kind.String(),
			Prompt:    ex.Prompt,
			Expected:  ex.Expected,
			Answer:    answer,
			Correct:   attempt.Correct,
		})
		if err != nil {
			s.deps.Logger.Warn("attempt not logged", zap.Error(err))
		}
	}

	s.feedback = &feedback{
		exercise: attempt.Exercise,
		answer:   answer,
		correct:  attempt.Correct,
	}
	return s, nil
}

func (s *QAScreen) reveal() (screen.Screen, tea.Cmd) {
	ex, ok := s.session.Current()
	if !ok {
		return s, endSession
	}
	if _, err := s.session.Reveal(); err != nil {
		return s, endSession
	}
	s.feedback = &feedback{exercise: ex, revealed: true}
	return s, nil
}

func (s *QAScreen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	if s.ended {
		return s, nil
	}
	s.ended = true

	sum, err := s.session.Finish(s.deps.Recorder)
	if err != nil {
		s.deps.Logger.Error("qa session not saved", zap.String("session_id", s.session.ID), zap.Error(err))
	}

	s.appendSessionEvent(store.SessionEventData{
		Action:       store.ActionEnd,
		Total:        sum.Total,
		Correct:      sum.Correct,
		DurationSecs: int(sum.Duration / time.Second),
	})
	s.deps.Logger.Info("qa session finished",
		zap.String("session_id", s.session.ID),
		zap.Int("correct", sum.Correct),
		zap.Int("total", sum.Total))

	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum, err)}
	}
}

func (s *QAScreen) appendSessionEvent(data store.SessionEventData) {
	if s.deps.Events == nil {
		return
	}
	data.SessionID = s.session.ID
	data.Mode = study.QA.Tag()
	if err := s.deps.Events.AppendSessionEvent(context.Background(), data); err != nil {
		s.deps.Logger.Warn("session event not logged", zap.String("action", data.Action), zap.Error(err))
	}
}

func endSession() tea.Msg {
	return sessionEndMsg{}
}
