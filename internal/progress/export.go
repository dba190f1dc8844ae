package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const exportLayout = "20060102_150405"

// ExportFileName returns the export artifact name for a timestamp.
func ExportFileName(t Timestamp) string {
	return "drug_study_export_" + t.Format(exportLayout) + ".json"
}

// ExportSnapshot writes a timestamped copy of the aggregates, history and
// per-drug counters into dir and returns the file path. It never overwrites
// an existing file or the live progress file; a name clash gets a numeric
// suffix. Pending live changes are flushed afterwards.
func (s *Store) ExportSnapshot(dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.doc.clone()
	exp := Export{
		ExportDate:      NewTimestamp(s.now()),
		OverallStats:    s.overallLocked(),
		SessionHistory:  snap.SessionHistory,
		DrugPerformance: snap.DrugPerformance,
	}
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return "", &PersistenceWriteError{Op: "export", Path: dir, Err: err}
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &PersistenceWriteError{Op: "export", Path: dir, Err: err}
	}

	base := ExportFileName(exp.ExportDate)
	path, err := createExclusive(dir, base, data, s.path)
	if err != nil {
		s.log.Error("export failed", zap.String("dir", dir), zap.Error(err))
		return "", &PersistenceWriteError{Op: "export", Path: filepath.Join(dir, base), Err: err}
	}
	s.log.Info("progress exported", zap.String("path", path))

	if s.dirty {
		if err := s.saveLocked(); err != nil {
			return path, err
		}
	}
	return path, nil
}

const maxExportAttempts = 100

// createExclusive writes data to dir/name, or dir/name_N.json when taken.
func createExclusive(dir, name string, data []byte, live string) (string, error) {
	stem := name[:len(name)-len(filepath.Ext(name))]
	liveAbs, _ := filepath.Abs(live)

	for i := 0; i < maxExportAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d.json", stem, i)
		}
		path := filepath.Join(dir, candidate)
		if abs, _ := filepath.Abs(path); abs == liveAbs {
			continue
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", err
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", err
		}
		return path, nil
	}
	return "", fmt.Errorf("no free export name for %s", name)
}
