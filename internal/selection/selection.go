package selection

import (
	"errors"
	"fmt"

	"github.com/abhisek/pharmdrill/internal/dataset"
)

// ErrEmptySelection is returned when no drug survives the current flags.
var ErrEmptySelection = errors.New("no drugs selected: select at least one drug or section")

// State holds the per-section and per-drug inclusion flags for a dataset.
// Section and drug flags are independent: toggling a section rewrites its
// members, but toggling a member never touches the section flag.
type State struct {
	ds       *dataset.Dataset
	sections map[string]bool
	drugs    map[int]bool
}

// New returns a state with every section and drug included.
func New(ds *dataset.Dataset) *State {
	s := &State{
		ds:       ds,
		sections: make(map[string]bool, len(ds.Sections)),
		drugs:    make(map[int]bool, ds.Len()),
	}
	s.SelectAll()
	return s
}

// Dataset returns the dataset the flags refer to.
func (s *State) Dataset() *dataset.Dataset {
	return s.ds
}

// ToggleSection sets the section flag and every member drug's flag to included.
func (s *State) ToggleSection(name string, included bool) error {
	sec, ok := s.ds.Section(name)
	if !ok {
		return fmt.Errorf("unknown section %q", name)
	}
	s.sections[name] = included
	for _, id := range sec.IDs {
		s.drugs[id] = included
	}
	return nil
}

// SetDrugIncluded sets exactly one drug's flag.
func (s *State) SetDrugIncluded(id int, included bool) error {
	if _, ok := s.ds.Record(id); !ok {
		return fmt.Errorf("unknown drug id %d", id)
	}
	s.drugs[id] = included
	return nil
}

// SelectAll includes every section and drug.
func (s *State) SelectAll() {
	s.setAll(true)
}

// DeselectAll excludes every section and drug.
func (s *State) DeselectAll() {
	s.setAll(false)
}

func (s *State) setAll(v bool) {
	for _, sec := range s.ds.Sections {
		s.sections[sec.Name] = v
	}
	for _, r := range s.ds.Records {
		s.drugs[r.ID] = v
	}
}

// SectionIncluded reports the section flag.
func (s *State) SectionIncluded(name string) bool {
	return s.sections[name]
}

// DrugIncluded reports a drug's own flag.
func (s *State) DrugIncluded(id int) bool {
	return s.drugs[id]
}

// SelectedCount counts drugs whose own flag is set, ignoring section flags.
func (s *State) SelectedCount() int {
	n := 0
	for _, v := range s.drugs {
		if v {
			n++
		}
	}
	return n
}

// WorkingSubset returns the drugs whose section and own flags are both set,
// in section order. It never returns an empty slice without ErrEmptySelection.
func (s *State) WorkingSubset() ([]dataset.DrugRecord, error) {
	var out []dataset.DrugRecord
	for _, sec := range s.ds.Sections {
		if !s.sections[sec.Name] {
			continue
		}
		for _, id := range sec.IDs {
			if s.drugs[id] {
				out = append(out, s.ds.Records[id])
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptySelection
	}
	return out, nil
}
