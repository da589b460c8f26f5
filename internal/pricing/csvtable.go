// Package pricing turns the free-form CSV blob stored against an API
// entry into a rectangular table for display. Parsing is tolerant:
// any input yields either a table or the explicit "no table" signal,
// never an error.
package pricing

import (
	"fmt"
	"regexp"
	"strings"
)

// Table is the parse result of a pricing CSV blob. Every row has
// exactly len(Header) cells; short rows are padded with empty strings.
type Table struct {
	Header []string
	Rows   [][]string
}

var numericCell = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// ParseTable scans raw character by character and builds a table.
// The second return value is false when the input produces no usable
// table (empty input, or no data rows remain after header
// extraction); callers show an upload prompt instead.
func ParseTable(raw string) (*Table, bool) {
	rows := scanRows(raw)

	// Drop trailing rows whose every field is blank after trim.
	for len(rows) > 0 && isBlankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, false
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}

	var header []string
	if hasHeaderRow(rows) {
		header = rows[0]
		rows = rows[1:]
	} else {
		header = make([]string, width)
		for i := range header {
			header[i] = fmt.Sprintf("Column %d", i+1)
		}
	}

	if len(rows) == 0 {
		return nil, false
	}
	return &Table{Header: header, Rows: rows}, true
}

// scanRows is the quoted-CSV state machine: two states (normal and
// in-quotes), comma as the field separator, \n, \r\n or bare \r as
// the record separator, "" inside quotes as a literal quote.
func scanRows(raw string) [][]string {
	if raw == "" {
		return nil
	}

	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if inQuotes {
			if ch == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteRune(ch)
			continue
		}

		switch ch {
		case '"':
			inQuotes = true
		case ',':
			endField()
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			endRow()
		case '\n':
			endRow()
		default:
			field.WriteRune(ch)
		}
	}
	endRow()

	return rows
}

// hasHeaderRow applies the header heuristic: more than one row, at
// least one non-numeric cell in row 0, and no empty cell in row 0.
func hasHeaderRow(rows [][]string) bool {
	if len(rows) < 2 {
		return false
	}
	nonNumeric := false
	for _, cell := range rows[0] {
		trimmed := strings.TrimSpace(cell)
		if trimmed == "" {
			return false
		}
		if !numericCell.MatchString(trimmed) {
			nonNumeric = true
		}
	}
	return nonNumeric
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// MarshalCSV re-serializes the table with minimal quoting, escaping
// embedded quotes by doubling them. Round-tripping through ParseTable
// yields the same logical rows.
func (t *Table) MarshalCSV() string {
	var b strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			if strings.ContainsAny(cell, ",\"\n\r") {
				b.WriteByte('"')
				b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
				b.WriteByte('"')
			} else {
				b.WriteString(cell)
			}
		}
		b.WriteByte('\n')
	}
	writeRow(t.Header)
	for _, row := range t.Rows {
		writeRow(row)
	}
	return b.String()
}
