package home

import (
	"math/rand/v2"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pharmdrill/internal/dataset"
	"github.com/abhisek/pharmdrill/internal/progress"
	"github.com/abhisek/pharmdrill/internal/router"
	flashcardscreen "github.com/abhisek/pharmdrill/internal/screens/flashcard"
	qascreen "github.com/abhisek/pharmdrill/internal/screens/qa"
	selectionscreen "github.com/abhisek/pharmdrill/internal/screens/selection"
	"github.com/abhisek/pharmdrill/internal/selection"
	"github.com/abhisek/pharmdrill/internal/study"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	ds := dataset.FromRecords([]dataset.DrugRecord{
		{Section: "Cardio", GenericName: "Lisinopril", BrandNames: "Zestril", DrugClass: "ACE inhibitor"},
		{Section: "Diabetes", GenericName: "Metformin", BrandNames: "Glucophage"},
	})
	return Deps{
		Selection: selection.New(ds),
		Progress:  progress.Open(filepath.Join(t.TempDir(), progress.DefaultFileName), progress.Options{}),
		Rand:      rand.New(rand.NewPCG(3, 4)),
	}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// choose moves the menu to mode and presses Enter.
func choose(t *testing.T, h *HomeScreen, mode study.Mode) tea.Msg {
	t.Helper()
	for i, m := range h.modes {
		if m == mode {
			h.menu.Selected = i
		}
	}
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestHomeScreen_MenuHasModesAndQuit(t *testing.T) {
	h := New(testDeps(t))
	if got, want := len(h.menu.Items), len(study.Modes())+1; got != want {
		t.Errorf("menu items = %d, want %d", got, want)
	}
	if h.menuLabels[len(h.menuLabels)-1] != quitLabel {
		t.Error("expected Quit as the last entry")
	}
}

func TestHomeScreen_OpensModes(t *testing.T) {
	tests := []struct {
		mode study.Mode
		want any
	}{
		{study.QA, &qascreen.QAScreen{}},
		{study.Flashcard, &flashcardscreen.FlashcardScreen{}},
		{study.Selection, &selectionscreen.SelectionScreen{}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.Label(), func(t *testing.T) {
			h := New(testDeps(t))
			msg := choose(t, h, tt.mode)
			push, ok := msg.(router.PushScreenMsg)
			if !ok {
				t.Fatalf("expected PushScreenMsg, got %T", msg)
			}
			switch tt.want.(type) {
			case *qascreen.QAScreen:
				_, ok = push.Screen.(*qascreen.QAScreen)
			case *flashcardscreen.FlashcardScreen:
				_, ok = push.Screen.(*flashcardscreen.FlashcardScreen)
			case *selectionscreen.SelectionScreen:
				_, ok = push.Screen.(*selectionscreen.SelectionScreen)
			}
			if !ok {
				t.Errorf("pushed %T", push.Screen)
			}
		})
	}
}

func TestHomeScreen_EmptySelectionWarns(t *testing.T) {
	deps := testDeps(t)
	deps.Selection.DeselectAll()
	h := New(deps)

	for _, m := range []study.Mode{study.Matching, study.QA, study.Flashcard} {
		if msg := choose(t, h, m); msg != nil {
			t.Errorf("%s: expected no navigation, got %T", m, msg)
		}
		if h.Warning() == "" {
			t.Errorf("%s: expected a warning", m)
		}
	}

	// Selection and progress stay reachable.
	if _, ok := choose(t, h, study.Selection).(router.PushScreenMsg); !ok {
		t.Error("expected selection screen to open with nothing selected")
	}
	if h.Warning() != "" {
		t.Error("expected the warning cleared by the next key press")
	}
}

func TestHomeScreen_View(t *testing.T) {
	h := New(testDeps(t))
	if h.View(120, 40) == "" {
		t.Error("expected non-empty view")
	}
	if h.Title() != "Home" {
		t.Errorf("Title = %q", h.Title())
	}
}
