package dataset

import (
	"fmt"
	"strings"
)

// Attribute names one of the seven free-text columns of a drug record.
type Attribute int

const (
	GenericName Attribute = iota
	BrandNames
	DrugClass
	DosageForms
	Indication
	SideEffects
	ClinicalPearls
)

var attributeHeaders = [...]string{
	GenericName:    "Generic Name",
	BrandNames:     "Brand Name(s)",
	DrugClass:      "Drug Class",
	DosageForms:    "Dosage Forms",
	Indication:     "Indication",
	SideEffects:    "Side Effects",
	ClinicalPearls: "Clinical Pearls",
}

var attributeSlugs = [...]string{
	GenericName:    "generic",
	BrandNames:     "brand",
	DrugClass:      "class",
	DosageForms:    "forms",
	Indication:     "indication",
	SideEffects:    "side-effects",
	ClinicalPearls: "pearls",
}

// AllAttributes returns every attribute in display order.
func AllAttributes() []Attribute {
	return []Attribute{GenericName, BrandNames, DrugClass, DosageForms, Indication, SideEffects, ClinicalPearls}
}

// Valid reports whether a is a known attribute.
func (a Attribute) Valid() bool {
	return a >= GenericName && a <= ClinicalPearls
}

// Header returns the column header used in the source sheet.
func (a Attribute) Header() string {
	if !a.Valid() {
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
	return attributeHeaders[a]
}

// Slug returns the short flag-friendly name.
func (a Attribute) Slug() string {
	if !a.Valid() {
		return ""
	}
	return attributeSlugs[a]
}

func (a Attribute) String() string {
	return a.Header()
}

// ParseAttribute resolves a header name or slug, case-insensitively.
func ParseAttribute(s string) (Attribute, error) {
	s = strings.TrimSpace(s)
	for _, a := range AllAttributes() {
		if strings.EqualFold(s, a.Header()) || strings.EqualFold(s, a.Slug()) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", s)
}

// DrugRecord is one row of the drug table.
type DrugRecord struct {
	// ID is the row position among data rows. Progress is keyed by it.
	ID      int
	Section string

	GenericName    string
	BrandNames     string
	DrugClass      string
	DosageForms    string
	Indication     string
	SideEffects    string
	ClinicalPearls string
}

// Value returns the text of the given attribute.
func (r DrugRecord) Value(a Attribute) string {
	switch a {
	case GenericName:
		return r.GenericName
	case BrandNames:
		return r.BrandNames
	case DrugClass:
		return r.DrugClass
	case DosageForms:
		return r.DosageForms
	case Indication:
		return r.Indication
	case SideEffects:
		return r.SideEffects
	case ClinicalPearls:
		return r.ClinicalPearls
	}
	return ""
}

// Has reports whether the attribute carries non-blank text.
func (r DrugRecord) Has(a Attribute) bool {
	return strings.TrimSpace(r.Value(a)) != ""
}

func (r *DrugRecord) set(a Attribute, v string) {
	v = strings.TrimSpace(v)
	switch a {
	case GenericName:
		r.GenericName = v
	case BrandNames:
		r.BrandNames = v
	case DrugClass:
		r.DrugClass = v
	case DosageForms:
		r.DosageForms = v
	case Indication:
		r.Indication = v
	case SideEffects:
		r.SideEffects = v
	case ClinicalPearls:
		r.ClinicalPearls = v
	}
}

// Label is the short "Generic (Brand)" text used in lists.
func (r DrugRecord) Label() string {
	if r.BrandNames == "" {
		return r.GenericName
	}
	return fmt.Sprintf("%s (%s)", r.GenericName, r.BrandNames)
}

// Section is a named, ordered group of record IDs.
type Section struct {
	Name string
	IDs  []int
}

// Len returns the number of member records.
func (s Section) Len() int {
	return len(s.IDs)
}
