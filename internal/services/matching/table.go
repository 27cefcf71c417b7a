package matching

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchema     = errors.New("required columns missing")
	ErrEmptyInput = errors.New("input table is empty")
)

// SchemaError lists the canonical fields that could not be resolved in a table.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s is missing columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

type EmptyInputError struct {
	Table string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s has no data rows", e.Table)
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

// Table is an untyped record set as read from an uploaded file.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Column returns the index of the header, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value at row/col, "" when the column is absent or the row is short.
func (t *Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) label() string {
	if t.Name == "" {
		return "table"
	}
	return t.Name
}
