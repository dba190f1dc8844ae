// Package study holds the vocabulary shared by every study mode.
package study

import "fmt"

// Mode is one of the closed set of top-level activities.
type Mode int

const (
	Matching Mode = iota
	QA
	Flashcard
	Selection
	ProgressView
)

// Modes returns every mode in menu order.
func Modes() []Mode {
	return []Mode{Matching, QA, Flashcard, Selection, ProgressView}
}

var modeLabels = map[Mode]string{
	Matching:     "Matching Game",
	QA:           "Q&A Practice",
	Flashcard:    "Learn Mode",
	Selection:    "Select Drugs",
	ProgressView: "View Progress",
}

// Label returns the menu label.
func (m Mode) Label() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

var modeDescriptions = map[Mode]string{
	Matching:     "Pair up values from two drug attributes",
	QA:           "Answer generated questions about the selected drugs",
	Flashcard:    "Flip through drug cards",
	Selection:    "Choose which sections and drugs to study",
	ProgressView: "Review history and weak spots",
}

// Description returns a one-line summary for menus.
func (m Mode) Description() string {
	return modeDescriptions[m]
}

// Tag returns the string written to session history.
// Only modes that produce a session outcome have a tag.
func (m Mode) Tag() string {
	switch m {
	case Matching:
		return "matching"
	case QA:
		return "qa_practice"
	case Flashcard:
		return "learn"
	default:
		return ""
	}
}

func (m Mode) String() string {
	return m.Label()
}

// Accuracy returns correct/total as a percentage, 0 when total is 0.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Rating returns the end-of-session encouragement for an accuracy percentage.
func Rating(accuracy float64) string {
	switch {
	case accuracy >= 90:
		return "Outstanding!"
	case accuracy >= 75:
		return "Great job!"
	case accuracy >= 60:
		return "Good progress!"
	default:
		return "Keep practicing!"
	}
}

// ModeForTag maps a history tag back to its mode.
func ModeForTag(tag string) (Mode, bool) {
	for _, m := range Modes() {
		if t := m.Tag(); t != "" && t == tag {
			return m, true
		}
	}
	return 0, false
}

// TagLabel is the display name for a history tag; unknown tags are shown as is.
func TagLabel(tag string) string {
	if m, ok := ModeForTag(tag); ok {
		return m.Label()
	}
	return tag
}
