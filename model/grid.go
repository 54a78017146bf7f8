package model

import "strings"

// Row is one table row as an ordered list of normalized cell strings.
type Row []string

// Cell returns the value at column c, or "" when the row is too short.
func (r Row) Cell(c int) string {
	if c < 0 || c >= len(r) {
		return ""
	}
	return r[c]
}

// Blank reports whether column c is empty or out of range.
func (r Row) Blank(c int) bool {
	return strings.TrimSpace(r.Cell(c)) == ""
}

// Grid is a normalized row/column view of one source table. Rows may be
// ragged; consumers read through Cell so short rows read as blank.
type Grid struct {
	Rows []Row
}

// NewGrid builds a grid from raw rows.
func NewGrid(rows ...[]string) Grid {
	g := Grid{Rows: make([]Row, len(rows))}
	for i, r := range rows {
		g.Rows[i] = Row(r)
	}
	return g
}

// RowCount returns the number of rows
func (g Grid) RowCount() int {
	return len(g.Rows)
}

// Empty reports whether the grid has no rows.
func (g Grid) Empty() bool {
	return len(g.Rows) == 0
}

// Row returns row r, or nil when out of range.
func (g Grid) Row(r int) Row {
	if r < 0 || r >= len(g.Rows) {
		return nil
	}
	return g.Rows[r]
}

// Cell returns the value at (r, c), or "" when either index is out of range.
func (g Grid) Cell(r, c int) string {
	return g.Row(r).Cell(c)
}

// Blank reports whether the cell at (r, c) is empty or missing.
func (g Grid) Blank(r, c int) bool {
	return g.Row(r).Blank(c)
}

// Width returns the number of cells in row r.
func (g Grid) Width(r int) int {
	return len(g.Row(r))
}

// Data returns the rows that follow the first n header rows.
func (g Grid) Data(n int) []Row {
	if n >= len(g.Rows) {
		return nil
	}
	if n < 0 {
		n = 0
	}
	return g.Rows[n:]
}

// String renders the grid as tab-separated lines.
func (g Grid) String() string {
	var sb strings.Builder
	for _, row := range g.Rows {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}
