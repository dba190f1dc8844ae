package progress

import (
	"fmt"
	"strings"
	"time"
)

// Document is the persisted progress file.
type Document struct {
	TotalQuestions  int                     `json:"total_questions"`
	TotalCorrect    int                     `json:"total_correct"`
	SessionHistory  []SessionOutcome        `json:"session_history"`
	DrugPerformance map[int]DrugPerformance `json:"drug_performance"`
}

// SessionOutcome is one finished session.
type SessionOutcome struct {
	Date     Timestamp `json:"date"`
	Mode     string    `json:"mode"`
	Total    int       `json:"total"`
	Correct  int       `json:"correct"`
	Accuracy float64   `json:"accuracy"`
}

// DrugPerformance counts graded attempts for one drug. Name is the generic
// name the counters were recorded against, used by Reconcile.
type DrugPerformance struct {
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Name    string `json:"name,omitempty"`
}

// OverallStats is the aggregate block shown on the progress view and in exports.
type OverallStats struct {
	TotalQuestions int     `json:"total_questions"`
	TotalCorrect   int     `json:"total_correct"`
	Accuracy       float64 `json:"accuracy"`
	Sessions       int     `json:"-"`
}

// Export is the standalone snapshot written by ExportSnapshot.
type Export struct {
	ExportDate      Timestamp               `json:"export_date"`
	OverallStats    OverallStats            `json:"overall_stats"`
	SessionHistory  []SessionOutcome        `json:"session_history"`
	DrugPerformance map[int]DrugPerformance `json:"drug_performance"`
}

func emptyDocument() Document {
	return Document{
		SessionHistory:  []SessionOutcome{},
		DrugPerformance: map[int]DrugPerformance{},
	}
}

func (d Document) clone() Document {
	out := Document{
		TotalQuestions:  d.TotalQuestions,
		TotalCorrect:    d.TotalCorrect,
		SessionHistory:  make([]SessionOutcome, len(d.SessionHistory)),
		DrugPerformance: make(map[int]DrugPerformance, len(d.DrugPerformance)),
	}
	copy(out.SessionHistory, d.SessionHistory)
	for k, v := range d.DrugPerformance {
		out.DrugPerformance[k] = v
	}
	return out
}

// Timestamp is an ISO-8601 time. It reads timestamps with or without a zone
// offset; zone-less values are taken as local time.
type Timestamp struct {
	time.Time
}

// Fractional seconds are written with as many digits as the value carries, so
// timestamps read from a file go back out unchanged.
const timestampLayout = "2006-01-02T15:04:05.999999999Z07:00"

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// NewTimestamp truncates t to microseconds, the precision new entries carry.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.Round(0).Truncate(time.Microsecond)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(timestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = v
		return nil
	}
	for _, layout := range naiveLayouts {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("progress: unrecognised timestamp %q", s)
}
