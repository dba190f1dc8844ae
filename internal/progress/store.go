package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/pharmdrill/internal/dataset"
	"github.com/abhisek/pharmdrill/internal/study"
)

// DefaultFileName is the progress file name used when none is configured.
const DefaultFileName = "study_progress.json"

// Options configures a Store.
type Options struct {
	Logger *zap.Logger
	Now    func() time.Time
}

// Store is the process-wide progress record. Every mutation that ends a
// session, resets or exports is followed by a whole-file write.
type Store struct {
	mu    sync.Mutex
	path  string
	doc   Document
	dirty bool
	log   *zap.Logger
	now   func() time.Time
}

// Open loads the progress file at path. A missing, unreadable or malformed
// file yields the zero state; a malformed one is copied aside first.
func Open(path string, opts Options) *Store {
	s := &Store{
		path: path,
		doc:  emptyDocument(),
		log:  opts.Logger,
		now:  opts.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Info("no progress file, starting fresh", zap.String("path", path))
		return s
	case err != nil:
		s.log.Warn("progress file unreadable, starting fresh", zap.String("path", path), zap.Error(err))
		return s
	}

	doc, err := decode(raw)
	if err != nil {
		s.log.Warn("progress file invalid, starting fresh", zap.String("path", path), zap.Error(err))
		s.backup(raw)
		return s
	}
	s.doc = doc
	s.log.Debug("progress loaded",
		zap.String("path", path),
		zap.Int("sessions", len(doc.SessionHistory)),
		zap.Int("drugs", len(doc.DrugPerformance)),
	)
	return s
}

func decode(raw []byte) (Document, error) {
	if err := validate(raw); err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if doc.SessionHistory == nil {
		doc.SessionHistory = []SessionOutcome{}
	}
	if doc.DrugPerformance == nil {
		doc.DrugPerformance = map[int]DrugPerformance{}
	}
	return doc, nil
}

func (s *Store) backup(raw []byte) {
	dst := s.path + ".bak"
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		s.log.Warn("could not back up invalid progress file", zap.String("path", dst), zap.Error(err))
	}
}

// Path returns the progress file location.
func (s *Store) Path() string { return s.path }

// Dirty reports whether there are changes not yet on disk.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.clone()
}

// RecordSession appends an outcome, adds its counts to the totals and saves.
// On a write failure the outcome stays in memory and Save may be retried.
func (s *Store) RecordSession(mode string, correct, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := SessionOutcome{
		Date:     NewTimestamp(s.now()),
		Mode:     mode,
		Total:    total,
		Correct:  correct,
		Accuracy: study.Accuracy(correct, total),
	}
	s.doc.SessionHistory = append(s.doc.SessionHistory, out)
	s.doc.TotalQuestions += total
	s.doc.TotalCorrect += correct
	s.dirty = true
	s.log.Info("session recorded",
		zap.String("mode", mode),
		zap.Int("correct", correct),
		zap.Int("total", total),
	)
	return s.saveLocked()
}

// UpdateDrugPerformance counts one graded attempt for a drug. It does not
// write; the next session record or Save does.
func (s *Store) UpdateDrugPerformance(drugID int, name string, correct bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.doc.DrugPerformance[drugID]
	p.Total++
	if correct {
		p.Correct++
	}
	if name != "" {
		p.Name = name
	}
	s.doc.DrugPerformance[drugID] = p
	s.dirty = true
}

// ResetAll clears every counter and the history, then saves.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = emptyDocument()
	s.dirty = true
	s.log.Info("progress reset")
	return s.saveLocked()
}

// Save writes the document if anything changed since the last write.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return &PersistenceWriteError{Op: "encode", Path: s.path, Err: err}
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		s.log.Error("progress write failed", zap.String("path", s.path), zap.Error(err))
		return &PersistenceWriteError{Op: "write", Path: s.path, Err: err}
	}
	s.dirty = false
	return nil
}

// writeFileAtomic replaces path with data via a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Overall returns the aggregate counters.
func (s *Store) Overall() OverallStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overallLocked()
}

func (s *Store) overallLocked() OverallStats {
	return OverallStats{
		TotalQuestions: s.doc.TotalQuestions,
		TotalCorrect:   s.doc.TotalCorrect,
		Accuracy:       study.Accuracy(s.doc.TotalCorrect, s.doc.TotalQuestions),
		Sessions:       len(s.doc.SessionHistory),
	}
}

// RecentSessions returns up to n outcomes, newest first. n <= 0 returns all.
func (s *Store) RecentSessions(n int) []SessionOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.doc.SessionHistory
	if n <= 0 || n > len(h) {
		n = len(h)
	}
	out := make([]SessionOutcome, 0, n)
	for i := len(h) - 1; i >= len(h)-n; i-- {
		out = append(out, h[i])
	}
	return out
}

// DrugStat is one row of the per-drug performance table.
type DrugStat struct {
	ID       int
	Name     string
	Correct  int
	Total    int
	Accuracy float64
}

// DrugStats joins per-drug counters with ds, lowest accuracy first. Entries
// pointing past the end of ds, or recorded against a different drug name,
// are skipped.
func (s *Store) DrugStats(ds *dataset.Dataset) []DrugStat {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []DrugStat
	for id, p := range s.doc.DrugPerformance {
		rec, ok := ds.Record(id)
		if !ok || (p.Name != "" && !strings.EqualFold(p.Name, rec.GenericName)) {
			continue
		}
		out = append(out, DrugStat{
			ID:       id,
			Name:     rec.GenericName,
			Correct:  p.Correct,
			Total:    p.Total,
			Accuracy: study.Accuracy(p.Correct, p.Total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy < out[j].Accuracy
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Reconcile re-keys per-drug counters after the dataset has been reordered.
// An entry whose recorded name no longer matches the drug at its ID moves to
// the drug carrying that name; entries without a name adopt the current one.
// Entries whose drug has disappeared are kept as they are. It returns how
// many entries moved and saves when anything changed.
func (s *Store) Reconcile(ds *dataset.Dataset) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := 0
	changed := false
	next := make(map[int]DrugPerformance, len(s.doc.DrugPerformance))
	add := func(id int, p DrugPerformance) {
		cur, ok := next[id]
		if !ok {
			next[id] = p
			return
		}
		cur.Correct += p.Correct
		cur.Total += p.Total
		if cur.Name == "" {
			cur.Name = p.Name
		}
		next[id] = cur
	}

	ids := make([]int, 0, len(s.doc.DrugPerformance))
	for id := range s.doc.DrugPerformance {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var stale []int
	for _, id := range ids {
		p := s.doc.DrugPerformance[id]
		rec, inRange := ds.Record(id)
		switch {
		case p.Name == "" && inRange:
			p.Name = rec.GenericName
			changed = true
			add(id, p)
		case p.Name == "" || (inRange && strings.EqualFold(rec.GenericName, p.Name)):
			add(id, p)
		default:
			target, found := ds.FindByName(p.Name)
			if !found {
				stale = append(stale, id)
				continue
			}
			p.Name = target.GenericName
			add(target.ID, p)
			moved++
			changed = true
		}
	}

	// Counters for drugs no longer in the dataset keep their slot unless a
	// moved entry now owns it.
	for _, id := range stale {
		p := s.doc.DrugPerformance[id]
		if _, taken := next[id]; taken {
			s.log.Warn("dropping counters for missing drug", zap.Int("id", id), zap.String("name", p.Name))
			changed = true
			continue
		}
		s.log.Warn("drug in progress not in dataset", zap.Int("id", id), zap.String("name", p.Name))
		next[id] = p
	}

	if !changed {
		return 0, nil
	}
	s.doc.DrugPerformance = next
	s.dirty = true
	s.log.Info("drug performance reconciled", zap.Int("moved", moved))
	return moved, s.saveLocked()
}
