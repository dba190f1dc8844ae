// Package history lists finished sessions from the event log.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pharmdrill/internal/router"
	"github.com/abhisek/pharmdrill/internal/screen"
	"github.com/abhisek/pharmdrill/internal/store"
	"github.com/abhisek/pharmdrill/internal/study"
	"github.com/abhisek/pharmdrill/internal/ui/layout"
	"github.com/abhisek/pharmdrill/internal/ui/theme"
)

// SessionLimit caps how many sessions the list loads.
const SessionLimit = 50

type status int

const (
	loading status = iota
	ready
	failed
)

type sessionsMsg struct {
	sessions []store.SessionSummaryRecord
	err      error
}

type answersMsg struct {
	sessionID string
	answers   []store.AttemptRecord
	err       error
}

// HistoryScreen shows one line per session. Enter opens a session to list
// the answers graded in it; only one session is open at a time.
type HistoryScreen struct {
	repo     store.EventRepo
	status   status
	failure  error
	sessions []store.SessionSummaryRecord
	answers  map[string][]store.AttemptRecord
	cursor   int
	open     string
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(repo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{repo: repo, answers: map[string][]store.AttemptRecord{}}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		out, err := repo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: SessionLimit})
		return sessionsMsg{sessions: out, err: err}
	}
}

func (s *HistoryScreen) fetchAnswers(id string) tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		out, err := repo.QueryAttempts(context.Background(), store.QueryOpts{SessionID: id})
		return answersMsg{sessionID: id, answers: out, err: err}
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Show answers"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionsMsg:
		if msg.err != nil {
			s.status, s.failure = failed, msg.err
			return s, nil
		}
		s.status, s.sessions = ready, msg.sessions
	case answersMsg:
		if msg.err == nil {
			s.answers[msg.sessionID] = msg.answers
		}
	case tea.KeyMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *HistoryScreen) handleKey(key string) tea.Cmd {
	switch key {
	case "esc", "q":
		return func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, max(len(s.sessions)-1, 0))
	case "enter", "space":
		if s.cursor >= len(s.sessions) {
			return nil
		}
		id := s.sessions[s.cursor].SessionID
		if s.open == id {
			s.open = ""
			return nil
		}
		s.open = id
		if _, cached := s.answers[id]; !cached {
			return s.fetchAnswers(id)
		}
	}
	return nil
}

func (s *HistoryScreen) View(width, height int) string {
	notice := func(text string, style lipgloss.Style) string {
		return "\n\n" + layout.Center(style.Render(text), width)
	}
	switch {
	case s.status == loading:
		return notice("Loading history...", theme.Hint)
	case s.status == failed:
		return notice(fmt.Sprintf("Could not read the event log: %v", s.failure), theme.Incorrect)
	case len(s.sessions) == 0:
		return notice("No sessions yet. Finish a Q&A session to see it here.", theme.Hint)
	}

	lines := []string{""}
	for i, sess := range s.sessions {
		lines = append(lines, layout.Center(sessionLine(sess, i == s.cursor), width))
		if sess.SessionID == s.open {
			lines = append(lines, s.answerLines(sess.SessionID, width)...)
		}
	}
	return strings.Join(lines, "\n")
}

func sessionLine(sess store.SessionSummaryRecord, focused bool) string {
	marker, style := "  ", theme.Body
	if focused {
		marker, style = "▸ ", theme.Selected
	}
	return style.Render(fmt.Sprintf("%s%s  %-14s %2d:%02d  %3d asked  %.0f%% accuracy",
		marker,
		sess.Timestamp.Local().Format("Jan 02 15:04"),
		study.TagLabel(sess.Mode),
		sess.DurationSecs/60, sess.DurationSecs%60,
		sess.Total,
		study.Accuracy(sess.Correct, sess.Total),
	))
}

func (s *HistoryScreen) answerLines(id string, width int) []string {
	answers, ok := s.answers[id]
	switch {
	case !ok:
		return []string{layout.Center(theme.Hint.Render("loading answers..."), width)}
	case len(answers) == 0:
		return []string{layout.Center(theme.Hint.Render("no graded answers"), width)}
	}

	out := make([]string, 0, len(answers))
	for _, a := range answers {
		mark := theme.Correct.Render("✓")
		if !a.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		out = append(out, layout.Center(fmt.Sprintf("%s %s  %q → %q", mark, a.DrugName, a.Answer, a.Expected), width))
	}
	return out
}
