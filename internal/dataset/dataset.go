package dataset

import "fmt"

// DefaultSection receives records that appear before any section header.
const DefaultSection = "General"

// Dataset is the in-memory drug table, partitioned into sections in source order.
type Dataset struct {
	Records  []DrugRecord
	Sections []Section

	sectionIdx map[string]int
}

// FromRecords builds a dataset from records already carrying section labels.
// IDs are reassigned to the slice position.
func FromRecords(records []DrugRecord) *Dataset {
	ds := &Dataset{sectionIdx: make(map[string]int)}
	for i, r := range records {
		r.ID = i
		if r.Section == "" {
			r.Section = DefaultSection
		}
		ds.Records = append(ds.Records, r)
		ds.addToSection(r.Section, r.ID)
	}
	return ds
}

func (d *Dataset) addToSection(name string, id int) {
	idx, ok := d.sectionIdx[name]
	if !ok {
		idx = len(d.Sections)
		d.sectionIdx[name] = idx
		d.Sections = append(d.Sections, Section{Name: name})
	}
	d.Sections[idx].IDs = append(d.Sections[idx].IDs, id)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Record returns the record with the given ID.
func (d *Dataset) Record(id int) (DrugRecord, bool) {
	if id < 0 || id >= len(d.Records) {
		return DrugRecord{}, false
	}
	return d.Records[id], true
}

// Section returns the named section.
func (d *Dataset) Section(name string) (Section, bool) {
	idx, ok := d.sectionIdx[name]
	if !ok {
		return Section{}, false
	}
	return d.Sections[idx], true
}

// SectionOf returns the section name of a record.
func (d *Dataset) SectionOf(id int) (string, error) {
	r, ok := d.Record(id)
	if !ok {
		return "", fmt.Errorf("drug %d not in dataset", id)
	}
	return r.Section, nil
}

// FindByName returns the first record whose generic name matches, case-insensitively.
func (d *Dataset) FindByName(name string) (DrugRecord, bool) {
	for _, r := range d.Records {
		if equalFoldTrim(r.GenericName, name) {
			return r, true
		}
	}
	return DrugRecord{}, false
}
