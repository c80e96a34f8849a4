// Package csvload parses the two covid fact-table CSV shapes into records.
// Rows missing a location or date are dropped silently; numeric cells
// that fail to parse are surfaced as per-row data-quality errors rather
// than silently coerced, and never abort the rest of the file.
package csvload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Rohan-1103/covidx/pkg/rollup"
)

// RowError reports a single unparseable cell. The row it belongs to is
// still emitted with that cell treated as missing.
type RowError struct {
	File   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s:%d: column %q: bad value %q: %v", e.File, e.Line, e.Column, e.Value, e.Err)
}

var dateFormats = []string{"2006-01-02", "2006-01-02 15:04:05", "1/2/2006"}

// LoadDeaths reads a deaths CSV from disk. See ParseDeaths.
func LoadDeaths(path string) ([]rollup.DeathRecord, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ParseDeaths(f, path)
}

// LoadVaccinations reads a vaccinations CSV from disk. See ParseVaccinations.
func LoadVaccinations(path string) ([]rollup.VaccinationRecord, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ParseVaccinations(f, path)
}

// ParseDeaths parses death records. Required headers: location, date.
// Recognized: continent, population, total_cases, new_cases, total_deaths,
// new_deaths. Extra columns are ignored.
func ParseDeaths(r io.Reader, name string) ([]rollup.DeathRecord, []RowError, error) {
	p, err := newParser(r, name, []string{"location", "date"})
	if err != nil {
		return nil, nil, err
	}

	var records []rollup.DeathRecord
	for {
		row, line, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		location := p.cell(row, "location")
		date, ok := p.date(row, line, "date")
		if location == "" || !ok {
			continue
		}

		rec := rollup.DeathRecord{
			Location:    location,
			Date:        date,
			TotalCases:  p.nullableFloat(row, line, "total_cases"),
			NewCases:    p.nullableFloat(row, line, "new_cases"),
			TotalDeaths: p.nullableFloat(row, line, "total_deaths"),
			NewDeaths:   p.nullableFloat(row, line, "new_deaths"),
		}
		if c := p.cell(row, "continent"); c != "" {
			rec.Continent = &c
		}
		if pop := p.nullableFloat(row, line, "population"); pop != nil && *pop > 0 {
			rec.Population = uint64(*pop)
		}
		records = append(records, rec)
	}

	return records, p.rowErrors, nil
}

// ParseVaccinations parses vaccination records. Required headers: location, date.
func ParseVaccinations(r io.Reader, name string) ([]rollup.VaccinationRecord, []RowError, error) {
	p, err := newParser(r, name, []string{"location", "date"})
	if err != nil {
		return nil, nil, err
	}

	var records []rollup.VaccinationRecord
	for {
		row, line, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		location := p.cell(row, "location")
		date, ok := p.date(row, line, "date")
		if location == "" || !ok {
			continue
		}

		records = append(records, rollup.VaccinationRecord{
			Location:        location,
			Date:            date,
			NewVaccinations: p.nullableFloat(row, line, "new_vaccinations"),
		})
	}

	return records, p.rowErrors, nil
}

type parser struct {
	name      string
	reader    *csv.Reader
	columns   map[string]int
	line      int
	rowErrors []RowError
}

func newParser(r io.Reader, name string, required []string) (*parser, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", name, col)
		}
	}

	return &parser{name: name, reader: cr, columns: columns, line: 1}, nil
}

func (p *parser) next() ([]string, int, error) {
	row, err := p.reader.Read()
	if err != nil {
		return nil, 0, err
	}
	p.line++
	return row, p.line, nil
}

func (p *parser) cell(row []string, column string) string {
	idx, ok := p.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (p *parser) date(row []string, line int, column string) (time.Time, bool) {
	raw := p.cell(row, column)
	if raw == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t.UTC(), true
		}
	}
	p.rowErrors = append(p.rowErrors, RowError{
		File:   p.name,
		Line:   line,
		Column: column,
		Value:  raw,
		Err:    fmt.Errorf("unrecognized date"),
	})
	return time.Time{}, false
}

func (p *parser) nullableFloat(row []string, line int, column string) *float64 {
	raw := p.cell(row, column)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.rowErrors = append(p.rowErrors, RowError{
			File:   p.name,
			Line:   line,
			Column: column,
			Value:  raw,
			Err:    err,
		})
		return nil
	}
	return &v
}
