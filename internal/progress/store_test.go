package progress

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pharmdrill/internal/dataset"
)

func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	return Open(path, Options{Now: fixedClock()}), path
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestOpen_MissingFileIsZeroState(t *testing.T) {
	s, path := openTemp(t)
	doc := s.Snapshot()
	assert.Equal(t, 0, doc.TotalQuestions)
	assert.Empty(t, doc.SessionHistory)
	assert.Empty(t, doc.DrugPerformance)
	assert.Equal(t, path, s.Path())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "opening does not create the file")
}

func TestOpen_InvalidFileIsZeroState(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{oops"},
		{"missing keys", `{"total_questions": 3}`},
		{"negative count", `{"total_questions": -1, "total_correct": 0, "session_history": [], "drug_performance": {}}`},
		{"non numeric drug key", `{"total_questions": 0, "total_correct": 0, "session_history": [], "drug_performance": {"abc": {"correct": 0, "total": 0}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			s := Open(path, Options{})
			assert.Equal(t, 0, s.Overall().TotalQuestions)

			backup, err := os.ReadFile(path + ".bak")
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(backup))
		})
	}
}

func TestOpen_ReadsPythonWrittenFile(t *testing.T) {
	content := `{
  "total_questions": 5,
  "total_correct": 3,
  "session_history": [
    {"date": "2024-11-02T14:03:11.123456", "mode": "qa_practice", "total": 5, "correct": 3, "accuracy": 60.0}
  ],
  "drug_performance": {
    "0": {"correct": 2, "total": 3},
    "4": {"correct": 1, "total": 2}
  }
}`
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := Open(path, Options{})
	doc := s.Snapshot()
	assert.Equal(t, 5, doc.TotalQuestions)
	require.Len(t, doc.SessionHistory, 1)
	assert.Equal(t, 2024, doc.SessionHistory[0].Date.Year())
	assert.Equal(t, 123456000, doc.SessionHistory[0].Date.Nanosecond())
	assert.Equal(t, DrugPerformance{Correct: 1, Total: 2}, doc.DrugPerformance[4])
}

func TestRoundTrip(t *testing.T) {
	s, path := openTemp(t)
	s.UpdateDrugPerformance(0, "Lisinopril", true)
	s.UpdateDrugPerformance(0, "Lisinopril", false)
	s.UpdateDrugPerformance(7, "Metformin", true)
	require.NoError(t, s.RecordSession("qa_practice", 2, 3))
	require.NoError(t, s.RecordSession("qa_practice", 0, 0))
	assert.False(t, s.Dirty())

	reloaded := Open(path, Options{})
	assert.JSONEq(t, marshal(t, s.Snapshot()), marshal(t, reloaded.Snapshot()))

	doc := reloaded.Snapshot()
	assert.Equal(t, 3, doc.TotalQuestions)
	assert.Equal(t, 2, doc.TotalCorrect)
	assert.Equal(t, DrugPerformance{Correct: 1, Total: 2, Name: "Lisinopril"}, doc.DrugPerformance[0])
}

func TestRecordSession_ZeroTotalAccuracy(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.RecordSession("qa_practice", 0, 0))
	h := s.Snapshot().SessionHistory
	require.Len(t, h, 1)
	assert.Equal(t, 0.0, h[0].Accuracy)
	assert.Equal(t, 0.0, s.Overall().Accuracy)
}

func TestRecordSession_WriteFailureKeepsState(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// The parent "directory" is a regular file, so every write fails.
	s := Open(filepath.Join(blocker, DefaultFileName), Options{})
	err := s.RecordSession("qa_practice", 4, 5)

	var pwe *PersistenceWriteError
	require.True(t, errors.As(err, &pwe))
	assert.Equal(t, "write", pwe.Op)
	assert.True(t, s.Dirty())
	assert.Equal(t, 5, s.Overall().TotalQuestions)
	assert.Len(t, s.Snapshot().SessionHistory, 1)
	assert.Error(t, s.Save(), "retry still fails")
}

func TestSave_FailureLeavesPreviousFile(t *testing.T) {
	s, path := openTemp(t)
	require.NoError(t, s.RecordSession("qa_practice", 1, 1))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	s.path = filepath.Join(path, "nested")
	s.UpdateDrugPerformance(1, "x", true)
	assert.Error(t, s.Save())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestResetAll(t *testing.T) {
	s, path := openTemp(t)
	s.UpdateDrugPerformance(1, "Amlodipine", true)
	require.NoError(t, s.RecordSession("qa_practice", 1, 1))
	require.NoError(t, s.ResetAll())

	reloaded := Open(path, Options{})
	doc := reloaded.Snapshot()
	assert.Equal(t, 0, doc.TotalQuestions)
	assert.Equal(t, 0, doc.TotalCorrect)
	assert.Empty(t, doc.SessionHistory)
	assert.Empty(t, doc.DrugPerformance)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_questions":0,"total_correct":0,"session_history":[],"drug_performance":{}}`, string(raw))
}

func TestRecentSessions_NewestFirst(t *testing.T) {
	s, _ := openTemp(t)
	for i := 1; i <= 4; i++ {
		require.NoError(t, s.RecordSession("qa_practice", 0, i))
	}
	recent := s.RecentSessions(3)
	require.Len(t, recent, 3)
	assert.Equal(t, []int{4, 3, 2}, []int{recent[0].Total, recent[1].Total, recent[2].Total})
	assert.True(t, recent[0].Date.After(recent[1].Date.Time))
	assert.Len(t, s.RecentSessions(0), 4)
	assert.Len(t, s.RecentSessions(99), 4)
}

func TestDrugStats_LowestAccuracyFirst(t *testing.T) {
	ds := dataset.FromRecords([]dataset.DrugRecord{
		{GenericName: "Lisinopril"},
		{GenericName: "Amlodipine"},
		{GenericName: "Metformin"},
	})
	s, _ := openTemp(t)
	s.UpdateDrugPerformance(0, "Lisinopril", true)
	s.UpdateDrugPerformance(1, "Amlodipine", false)
	s.UpdateDrugPerformance(2, "Metformin", true)
	s.UpdateDrugPerformance(2, "Metformin", false)
	s.UpdateDrugPerformance(9, "Gone", true)

	stats := s.DrugStats(ds)
	require.Len(t, stats, 3)
	assert.Equal(t, "Amlodipine", stats[0].Name)
	assert.Equal(t, 0.0, stats[0].Accuracy)
	assert.Equal(t, "Metformin", stats[1].Name)
	assert.Equal(t, 50.0, stats[1].Accuracy)
	assert.Equal(t, "Lisinopril", stats[2].Name)
}

func TestReconcile_FollowsRenamedPositions(t *testing.T) {
	s, path := openTemp(t)
	s.UpdateDrugPerformance(0, "Lisinopril", true)
	s.UpdateDrugPerformance(1, "Amlodipine", false)
	s.UpdateDrugPerformance(2, "", true)
	require.NoError(t, s.Save())

	// Dataset reordered: Amlodipine now first, Lisinopril second.
	ds := dataset.FromRecords([]dataset.DrugRecord{
		{GenericName: "Amlodipine"},
		{GenericName: "Lisinopril"},
		{GenericName: "Metformin"},
	})
	moved, err := s.Reconcile(ds)
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	doc := Open(path, Options{}).Snapshot()
	assert.Equal(t, DrugPerformance{Correct: 0, Total: 1, Name: "Amlodipine"}, doc.DrugPerformance[0])
	assert.Equal(t, DrugPerformance{Correct: 1, Total: 1, Name: "Lisinopril"}, doc.DrugPerformance[1])
	assert.Equal(t, "Metformin", doc.DrugPerformance[2].Name, "unnamed entries adopt the current name")

	moved, err = s.Reconcile(ds)
	require.NoError(t, err)
	assert.Equal(t, 0, moved)
	assert.False(t, s.Dirty())
}

func TestReconcile_MissingDrugKeepsSlot(t *testing.T) {
	s, _ := openTemp(t)
	s.UpdateDrugPerformance(0, "Warfarin", true)

	ds := dataset.FromRecords([]dataset.DrugRecord{{GenericName: "Lisinopril"}})
	moved, err := s.Reconcile(ds)
	require.NoError(t, err)
	assert.Equal(t, 0, moved)
	assert.Equal(t, "Warfarin", s.Snapshot().DrugPerformance[0].Name)
	assert.Empty(t, s.DrugStats(ds), "counters for another drug are not shown")
}

func TestTimestamp_Parse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-11-02T14:03:11.123456"`, time.Date(2024, 11, 2, 14, 3, 11, 123456000, time.Local)},
		{`"2024-11-02T14:03:11"`, time.Date(2024, 11, 2, 14, 3, 11, 0, time.Local)},
		{`"2024-11-02T14:03:11.5Z"`, time.Date(2024, 11, 2, 14, 3, 11, 500000000, time.UTC)},
	}
	for _, tt := range tests {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(tt.in), &ts), tt.in)
		assert.True(t, tt.want.Equal(ts.Time), "%s parsed as %v", tt.in, ts.Time)
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestamp_KeepsPrecisionReadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	doc := `{
  "total_questions": 4,
  "total_correct": 3,
  "session_history": [
    {"date": "2024-11-02T14:03:11.123456789Z", "mode": "qa_practice", "total": 4, "correct": 3, "accuracy": 75}
  ],
  "drug_performance": {}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s := Open(path, Options{Now: fixedClock()})
	require.NoError(t, s.RecordSession("qa_practice", 1, 1))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"2024-11-02T14:03:11.123456789Z"`)
	// New entries are stamped at microsecond precision.
	assert.Contains(t, string(raw), `"2025-03-14T09:27:53.589793Z"`)
}
