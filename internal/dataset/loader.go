package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SectionColumn is the optional header that assigns a section per row.
const SectionColumn = "Section"

// ErrNoRecords is returned when a source holds no usable drug rows.
var ErrNoRecords = errors.New("no drug records found")

// LoadError reports a dataset source that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load drug data %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadOptions controls ingestion.
type LoadOptions struct {
	// Sheet selects the worksheet for spreadsheet sources. Empty means the first sheet.
	Sheet string
}

// Load reads a drug table from a .csv or .xlsx file.
//
// The first non-blank row is the header; it must contain "Generic Name".
// Rows whose generic name starts with '#' are section headers and label the
// rows that follow them.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readSpreadsheet(path, opts.Sheet)
	default:
		rows, err = readCSVFile(path)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	ds, err := parseRows(rows)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return ds, nil
}

// ReadCSV parses a drug table from CSV text.
func ReadCSV(r io.Reader) (*Dataset, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, &LoadError{Path: "<reader>", Err: err}
	}
	ds, err := parseRows(rows)
	if err != nil {
		return nil, &LoadError{Path: "<reader>", Err: err}
	}
	return ds, nil
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readSpreadsheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("spreadsheet has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// parseRows turns raw rows into a dataset.
func parseRows(rows [][]string) (*Dataset, error) {
	headerAt := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrNoRecords
	}

	columns := make(map[Attribute]int)
	sectionCol := -1
	for i, h := range rows[headerAt] {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if strings.EqualFold(name, SectionColumn) {
			sectionCol = i
			continue
		}
		if a, err := ParseAttribute(name); err == nil {
			if _, dup := columns[a]; !dup {
				columns[a] = i
			}
		}
	}
	genericCol, ok := columns[GenericName]
	if !ok {
		return nil, fmt.Errorf("missing %q column", GenericName.Header())
	}

	var records []DrugRecord
	current := DefaultSection
	for _, row := range rows[headerAt+1:] {
		if blankRow(row) {
			continue
		}
		generic := strings.TrimSpace(cell(row, genericCol))
		if strings.HasPrefix(generic, "#") {
			if name := strings.TrimSpace(strings.TrimLeft(generic, "#")); name != "" {
				current = name
			}
			continue
		}
		if generic == "" {
			continue
		}

		rec := DrugRecord{Section: current}
		for a, col := range columns {
			rec.set(a, cell(row, col))
		}
		if sectionCol >= 0 {
			if s := strings.TrimSpace(cell(row, sectionCol)); s != "" {
				rec.Section = s
			}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return FromRecords(records), nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
