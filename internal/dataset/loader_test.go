package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Generic Name,Brand Name(s),Drug Class,Dosage Forms,Indication,Side Effects,Clinical Pearls
# Cardiovascular HTN,,,,,,
Lisinopril,Zestril,ACE Inhibitor,Tablet,Hypertension,"Dry cough, hyperkalemia",Monitor potassium
Amlodipine,Norvasc,Calcium Channel Blocker,Tablet,Hypertension,Peripheral edema,
,,,,,,
# Diabetes,,,,,,
Metformin,Glucophage,Biguanide,Tablet,Type 2 diabetes,GI upset,Hold before contrast
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSV_SectionsFromHeaderRows(t *testing.T) {
	ds, err := Load(writeFile(t, "drugs.csv", sampleCSV), LoadOptions{})
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	require.Len(t, ds.Sections, 2)
	assert.Equal(t, "Cardiovascular HTN", ds.Sections[0].Name)
	assert.Equal(t, []int{0, 1}, ds.Sections[0].IDs)
	assert.Equal(t, "Diabetes", ds.Sections[1].Name)
	assert.Equal(t, []int{2}, ds.Sections[1].IDs)

	met, ok := ds.Record(2)
	require.True(t, ok)
	assert.Equal(t, "Metformin", met.GenericName)
	assert.Equal(t, "Diabetes", met.Section)
	assert.Equal(t, "Dry cough, hyperkalemia", ds.Records[0].SideEffects)
	assert.False(t, ds.Records[1].Has(ClinicalPearls))
}

func TestLoadCSV_IDsStableAcrossReloads(t *testing.T) {
	p := writeFile(t, "drugs.csv", sampleCSV)
	a, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	b, err := Load(p, LoadOptions{})
	require.NoError(t, err)

	for i := range a.Records {
		assert.Equal(t, a.Records[i].ID, b.Records[i].ID)
		assert.Equal(t, a.Records[i].GenericName, b.Records[i].GenericName)
	}
}

func TestLoadCSV_SectionColumnOverrides(t *testing.T) {
	csv := "Section,Generic Name,Drug Class\nPulmonary,Albuterol,SABA\nPain,Ibuprofen,NSAID\nPulmonary,Montelukast,LTRA\n"
	ds, err := Load(writeFile(t, "drugs.csv", csv), LoadOptions{})
	require.NoError(t, err)

	pulm, ok := ds.Section("Pulmonary")
	require.True(t, ok)
	assert.Equal(t, []int{0, 2}, pulm.IDs)
	name, err := ds.SectionOf(1)
	require.NoError(t, err)
	assert.Equal(t, "Pain", name)
}

func TestLoadCSV_RowsBeforeHeaderGoToDefaultSection(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("Generic Name\nAspirin\n"))
	require.NoError(t, err)
	require.Len(t, ds.Sections, 1)
	assert.Equal(t, DefaultSection, ds.Sections[0].Name)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
		},
		{
			name:    "only section headers",
			path:    func(t *testing.T) string { return writeFile(t, "d.csv", "Generic Name\n# Heading\n") },
			wantErr: ErrNoRecords,
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return writeFile(t, "d.csv", "") },
			wantErr: ErrNoRecords,
		},
		{
			name: "no generic column",
			path: func(t *testing.T) string { return writeFile(t, "d.csv", "Name,Class\nA,B\n") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t), LoadOptions{})
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"Generic Name", "Brand Name(s)", "Drug Class"},
		{"# Antibiotics"},
		{"Amoxicillin", "Amoxil", "Penicillin"},
		{"Azithromycin", "Zithromax", "Macrolide"},
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cellName, &r))
	}
	p := filepath.Join(t.TempDir(), "drugs.xlsx")
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	ds, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "Antibiotics", ds.Records[1].Section)
	assert.Equal(t, "Zithromax", ds.Records[1].BrandNames)
}

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		in   string
		want Attribute
		ok   bool
	}{
		{"Generic Name", GenericName, true},
		{"brand name(s)", BrandNames, true},
		{"side-effects", SideEffects, true},
		{" pearls ", ClinicalPearls, true},
		{"dose", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseAttribute(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFindByName(t *testing.T) {
	ds := FromRecords([]DrugRecord{{GenericName: "Lisinopril"}, {GenericName: "Metformin"}})
	r, ok := ds.FindByName(" metformin")
	require.True(t, ok)
	assert.Equal(t, 1, r.ID)

	_, ok = ds.FindByName("warfarin")
	assert.False(t, ok)
}
