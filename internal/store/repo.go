package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	SessionID string    // only events from this session
	DrugID    *int      // only attempts on this drug
}

// Session actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// AttemptEventData is one graded Q&A answer.
type AttemptEventData struct {
	SessionID string
	DrugID    int
	DrugName  string
	Relation  string
	Prompt    string
	Expected  string
	Answer    string
	Correct   bool
}

// AttemptRecord is a stored attempt.
type AttemptRecord struct {
	AttemptEventData
	Sequence  int64
	Timestamp time.Time
}

// SessionEventData marks the start or end of a study session.
type SessionEventData struct {
	SessionID    string
	Mode         string
	Action       string
	Total        int
	Correct      int
	DurationSecs int
}

// SessionSummaryRecord is an ended session as shown by history.
type SessionSummaryRecord struct {
	SessionID    string
	Mode         string
	Timestamp    time.Time
	Total        int
	Correct      int
	DurationSecs int
}

// EventRepo provides append and query access to study events.
type EventRepo interface {
	// AppendAttempt records one graded answer.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// AppendSessionEvent records a session start or end marker.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QueryAttempts returns attempts newest first.
	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)

	// QuerySessionSummaries returns ended sessions newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// DrugAccuracy returns the fraction of correct attempts on a drug and
	// how many attempts there were.
	DrugAccuracy(ctx context.Context, drugID int) (float64, int, error)
}
