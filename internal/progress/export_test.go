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
)

func TestExportSnapshot(t *testing.T) {
	s, path := openTemp(t)
	s.UpdateDrugPerformance(3, "Metoprolol", true)
	require.NoError(t, s.RecordSession("qa_practice", 3, 4))
	live, err := os.ReadFile(path)
	require.NoError(t, err)
	before := marshal(t, s.Snapshot())

	dir := t.TempDir()
	out, err := s.ExportSnapshot(dir)
	require.NoError(t, err)
	assert.Regexp(t, `drug_study_export_\d{8}_\d{6}\.json$`, out)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var exp map[string]any
	require.NoError(t, json.Unmarshal(raw, &exp))
	assert.Contains(t, exp, "export_date")
	assert.Equal(t, map[string]any{
		"total_questions": 4.0,
		"total_correct":   3.0,
		"accuracy":        75.0,
	}, exp["overall_stats"])
	assert.Len(t, exp["session_history"], 1)
	assert.Contains(t, exp["drug_performance"], "3")

	assert.JSONEq(t, before, marshal(t, s.Snapshot()), "export does not mutate the store")
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, live, after, "live file untouched")
}

func TestExportSnapshot_NameClash(t *testing.T) {
	s, _ := openTemp(t)
	dir := t.TempDir()

	// The clock advances a minute per call; pin it so both exports collide.
	ts := NewTimestamp(s.now())
	s.now = func() time.Time { return ts.Time }

	first, err := s.ExportSnapshot(dir)
	require.NoError(t, err)
	second, err := s.ExportSnapshot(dir)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, filepath.Join(dir, ExportFileName(ts)), first)
	assert.Regexp(t, `_1\.json$`, second)
}

func TestExportSnapshot_WriteError(t *testing.T) {
	s, _ := openTemp(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := s.ExportSnapshot(filepath.Join(blocker, "exports"))
	var pwe *PersistenceWriteError
	require.True(t, errors.As(err, &pwe))
	assert.Equal(t, "export", pwe.Op)
}
