// Package table reads and writes delimited tabular files with named columns.
//
// # Input Conventions
//
// Impact-model exports and census extracts arrive as comma- or semicolon-
// separated text with a single header row. The separator is sniffed from the
// header line rather than configured, because upstream tooling is inconsistent
// about it (European locales export semicolons). Columns are always addressed
// by name; positional access is never part of the contract.
//
// Damage tables exported in the FIAT metrics format carry three metadata rows
// (Description, Show In Metrics Table, Long Name) under an unnamed first
// column. See [NormalizeMetricsTable] for how these are flattened into a plain
// numeric table.
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Table is an in-memory delimited table: an ordered header plus row-major
// string cells. A Table is immutable by convention once constructed.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New builds a Table from a header and rows. Duplicate column names and rows
// whose width differs from the header are rejected.
func New(columns []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q in header", name)
		}
		index[name] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(columns))
		}
	}
	return &Table{Columns: columns, Rows: rows, index: index}, nil
}

// ReadCSV parses a delimited file into a Table. The field separator is sniffed
// from the header line: semicolon when the header contains more semicolons
// than commas, comma otherwise.
func ReadCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}

	content := strings.TrimPrefix(string(data), "\ufeff")
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = sniffSeparator(content)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse table %s: file is empty", path)
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}

	t, err := New(header, records[1:])
	if err != nil {
		return nil, fmt.Errorf("parse table %s: %w", path, err)
	}
	return t, nil
}

// sniffSeparator picks the delimiter from the first line of the file.
func sniffSeparator(content string) rune {
	head, _, _ := strings.Cut(content, "\n")
	if strings.Count(head, ";") > strings.Count(head, ",") {
		return ';'
	}
	return ','
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	i, ok := t.index[name]
	if !ok {
		return -1
	}
	return i
}

// Column returns all cell values of the named column in row order.
func (t *Table) Column(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Floats returns the named column parsed as float64 values. Parse failures
// name the column and the 1-based data row that offended.
func (t *Table) Floats(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %q is not numeric", name, r+1, row[i])
		}
		out[r] = v
	}
	return out, nil
}

// Cell returns the value at the given data row for the named column.
func (t *Table) Cell(row int, name string) (string, error) {
	i, ok := t.index[name]
	if !ok {
		return "", fmt.Errorf("column %q not found", name)
	}
	if row < 0 || row >= len(t.Rows) {
		return "", fmt.Errorf("row %d out of range (%d rows)", row, len(t.Rows))
	}
	return t.Rows[row][i], nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// WriteCSV writes the table as comma-separated text.
func (t *Table) WriteCSV(path string) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("write table %s: %w", path, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write table %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write table %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("write table %s: %w", path, err)
	}
	return nil
}
