package qa

import "github.com/abhisek/pharmdrill/internal/qa"

// sessionEndMsg is sent to trigger the session end flow.
type sessionEndMsg struct{}

// feedback is what the overlay shows after a submit or a reveal.
type feedback struct {
	exercise qa.Exercise
	answer   string
	correct  bool
	revealed bool
}
