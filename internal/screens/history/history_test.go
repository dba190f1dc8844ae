package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pharmdrill/internal/store"
)

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	sessions []store.SessionSummaryRecord
	attempts []store.AttemptRecord
	queried  []string
}

func (m *mockEventRepo) AppendAttempt(context.Context, store.AttemptEventData) error { return nil }
func (m *mockEventRepo) AppendSessionEvent(context.Context, store.SessionEventData) error {
	return nil
}
func (m *mockEventRepo) QueryAttempts(_ context.Context, opts store.QueryOpts) ([]store.AttemptRecord, error) {
	m.queried = append(m.queried, opts.SessionID)
	return m.attempts, nil
}
func (m *mockEventRepo) QuerySessionSummaries(context.Context, store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	return m.sessions, nil
}
func (m *mockEventRepo) DrugAccuracy(context.Context, int) (float64, int, error) {
	return 0, 0, nil
}

func testRepo() *mockEventRepo {
	return &mockEventRepo{
		sessions: []store.SessionSummaryRecord{
			{SessionID: "s1", Mode: "qa_practice", Timestamp: time.Now(), Total: 4, Correct: 3, DurationSecs: 95},
		},
		attempts: []store.AttemptRecord{
			{AttemptEventData: store.AttemptEventData{SessionID: "s1", DrugName: "Metformin", Answer: "glucophage", Expected: "Glucophage", Correct: true}},
		},
	}
}

func load(s *HistoryScreen) {
	s.Update(s.Init()())
}

func TestHistoryScreen_ListsSessions(t *testing.T) {
	s := New(testRepo())
	if !strings.Contains(s.View(120, 30), "Loading") {
		t.Error("expected loading state before Init completes")
	}
	load(s)
	view := s.View(120, 30)
	if !strings.Contains(view, "Q&A Practice") || !strings.Contains(view, "75% accuracy") {
		t.Errorf("unexpected view: %q", view)
	}
}

func TestHistoryScreen_ExpandLoadsAttempts(t *testing.T) {
	repo := testRepo()
	s := New(repo)
	load(s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected attempts to load on first expand")
	}
	s.Update(cmd())
	if len(repo.queried) != 1 || repo.queried[0] != "s1" {
		t.Errorf("queried = %v, want [s1]", repo.queried)
	}
	if !strings.Contains(s.View(120, 30), "Metformin") {
		t.Error("expected attempt lines in expanded view")
	}

	// Collapse and expand again uses the cache.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected cached attempts on re-expand")
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&mockEventRepo{})
	load(s)
	if !strings.Contains(s.View(80, 24), "No sessions yet") {
		t.Error("expected empty message")
	}
}
