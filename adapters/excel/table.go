package excel

import (
	"fmt"
	"strconv"
	"strings"

	"hypotest/domain/core"
)

// Row maps a header to the trimmed cell text in one data row
type Row map[string]string

// Table is a sheet or CSV file read as a header row plus data rows. Cells
// stay as text until a column is requested as a sample.
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the header row names the column
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column parses the named column as float64 values in row order
func (t *Table) Column(name string) ([]float64, error) {
	if !t.HasColumn(name) {
		return nil, core.NewInvalidParameterError("column", name, fmt.Sprintf("not found; available: %s", strings.Join(t.Headers, ", ")))
	}

	values := make([]float64, 0, len(t.Rows))
	for i, row := range t.Rows {
		cell := row[name]
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			// header is row 1
			return nil, core.NewInvalidParameterError(name, cell, fmt.Sprintf("row %d is not numeric", i+2))
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, core.NewInsufficientDataError("column "+name, 0, 1)
	}
	return values, nil
}
