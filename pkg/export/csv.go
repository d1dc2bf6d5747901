package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

const (
	// ListSeparator joins flattened list values such as option names.
	ListSeparator = ", "
	// AddressSeparator joins flattened address lines.
	AddressSeparator = "; "
)

// Table is a header row plus data rows rendered as CSV.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Append adds one data row; it must match the header width.
func (t *Table) Append(values ...string) {
	t.Rows = append(t.Rows, values)
}

// CSV renders the table.
func (t Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return nil, fmt.Errorf("csv row %d has %d columns, want %d", i, len(row), len(t.Headers))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// JoinList joins non-empty values with ListSeparator.
func JoinList(values []string) string {
	return join(values, ListSeparator)
}

// JoinAddresses joins non-empty address values with AddressSeparator.
func JoinAddresses(values []string) string {
	return join(values, AddressSeparator)
}

// Str renders an optional string as an empty cell when nil.
func Str(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// Filename builds an attachment filename like "products-export.csv".
func Filename(entity string) string {
	entity = strings.TrimSpace(strings.ToLower(entity))
	if entity == "" {
		entity = "data"
	}
	return entity + "-export.csv"
}

func join(values []string, sep string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
