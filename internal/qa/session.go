package qa

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/pharmdrill/internal/study"
)

// ErrSessionOver is returned by actions on a session with no current exercise.
var ErrSessionOver = errors.New("qa: session is over")

// Recorder receives a finished session's results.
type Recorder interface {
	UpdateDrugPerformance(drugID int, name string, correct bool)
	RecordSession(mode string, correct, total int) error
}

// Tally counts graded attempts.
type Tally struct {
	Correct int
	Total   int
}

// Attempt is one graded answer.
type Attempt struct {
	Exercise Exercise
	Answer   string
	Correct  bool
	At       time.Time
}

// Summary is what a learner sees when a session ends.
type Summary struct {
	Correct   int
	Total     int
	Accuracy  float64
	Rating    string
	Remaining int
	Duration  time.Duration
}

// Session walks a generated exercise list once. Counters live here until
// Finish hands them to a Recorder; a session dropped without Finish leaves
// no trace.
type Session struct {
	ID        string
	StartedAt time.Time

	exercises []Exercise
	index     int
	attempts  []Attempt
	finished  bool
	now       func() time.Time
}

// NewSession starts a session over exercises.
func NewSession(exercises []Exercise) *Session {
	return &Session{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		exercises: exercises,
		now:       time.Now,
	}
}

// Current returns the exercise awaiting an answer.
func (s *Session) Current() (Exercise, bool) {
	if s.Done() {
		return Exercise{}, false
	}
	return s.exercises[s.index], true
}

// Position returns the zero-based index of the current exercise and the total count.
func (s *Session) Position() (int, int) {
	return s.index, len(s.exercises)
}

// Done reports whether the sequence is exhausted or ended.
func (s *Session) Done() bool {
	return s.finished || s.index >= len(s.exercises)
}

// Submit grades an answer to the current exercise and advances.
func (s *Session) Submit(answer string) (Attempt, error) {
	ex, ok := s.Current()
	if !ok {
		return Attempt{}, ErrSessionOver
	}
	a := Attempt{
		Exercise: ex,
		Answer:   answer,
		Correct:  Grade(answer, ex.Expected),
		At:       s.now(),
	}
	s.attempts = append(s.attempts, a)
	s.index++
	return a, nil
}

// Reveal returns the expected answer and advances without grading.
func (s *Session) Reveal() (string, error) {
	ex, ok := s.Current()
	if !ok {
		return "", ErrSessionOver
	}
	s.index++
	return ex.Expected, nil
}

// Skip advances without grading.
func (s *Session) Skip() error {
	if _, ok := s.Current(); !ok {
		return ErrSessionOver
	}
	s.index++
	return nil
}

// End stops the session early. Attempts made so far are kept for Finish.
func (s *Session) End() {
	if s.index < len(s.exercises) {
		s.exercises = s.exercises[:s.index]
	}
}

// Score returns correct and total graded attempts so far.
func (s *Session) Score() Tally {
	var t Tally
	for _, a := range s.attempts {
		t.Total++
		if a.Correct {
			t.Correct++
		}
	}
	return t
}

// Attempts returns the graded attempts in order.
func (s *Session) Attempts() []Attempt {
	return append([]Attempt(nil), s.attempts...)
}

// PerDrug tallies attempts by drug ID.
func (s *Session) PerDrug() map[int]Tally {
	out := make(map[int]Tally)
	for _, a := range s.attempts {
		t := out[a.Exercise.DrugID]
		t.Total++
		if a.Correct {
			t.Correct++
		}
		out[a.Exercise.DrugID] = t
	}
	return out
}

// Summary describes the session as it stands.
func (s *Session) Summary() Summary {
	score := s.Score()
	acc := study.Accuracy(score.Correct, score.Total)
	return Summary{
		Correct:   score.Correct,
		Total:     score.Total,
		Accuracy:  acc,
		Rating:    study.Rating(acc),
		Remaining: len(s.exercises) - s.index,
		Duration:  s.now().Sub(s.StartedAt),
	}
}

// Finish ends the session and hands its results to rec: one performance
// update per attempt, then one session outcome. A session finishes once.
func (s *Session) Finish(rec Recorder) (Summary, error) {
	if s.finished {
		return Summary{}, ErrSessionOver
	}
	s.End()
	sum := s.Summary()
	s.finished = true
	if rec == nil {
		return sum, nil
	}

	for _, a := range s.attempts {
		rec.UpdateDrugPerformance(a.Exercise.DrugID, a.Exercise.DrugName, a.Correct)
	}
	if err := rec.RecordSession(study.QA.Tag(), sum.Correct, sum.Total); err != nil {
		return sum, fmt.Errorf("recording session: %w", err)
	}
	return sum, nil
}
