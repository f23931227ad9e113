// Package preview turns a worksheet's rows into a read-only display grid.
//
// Fully blank rows are dropped, then the first remaining row supplies column
// names. Columns without a name get a placeholder "Unnamed: <index>" which
// displays as a blank header, and every empty data cell displays as a single
// space.
package preview

import (
	"fmt"
	"strings"
)

// Blank is what an empty cell or a placeholder header displays as.
const Blank = " "

// UnnamedPrefix starts every placeholder column name.
const UnnamedPrefix = "Unnamed:"

// Grid is a row-major, display-ready table.
type Grid struct {
	Sheet string `json:"sheet"`
	// Columns are the parsed column names, placeholders included.
	Columns []string `json:"columns"`
	// Headers are the display names: placeholders replaced by Blank.
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	Truncated bool       `json:"truncated,omitempty"`
}

// Options configures Build.
type Options struct {
	MaxRows int // 0 = no limit
}

// Build parses rows into a Grid.
func Build(sheet string, rows [][]string, opts Options) *Grid {
	g := &Grid{Sheet: sheet}
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return g
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	g.Columns = columnNames(rows[0], width)
	g.Headers = make([]string, width)
	for i, c := range g.Columns {
		g.Headers[i] = DisplayHeader(c)
	}

	data := rows[1:]
	if opts.MaxRows > 0 && len(data) > opts.MaxRows {
		data = data[:opts.MaxRows]
		g.Truncated = true
	}

	g.Rows = make([][]string, len(data))
	for i, r := range data {
		out := make([]string, width)
		for j := range out {
			v := ""
			if j < len(r) {
				v = r[j]
			}
			out[j] = DisplayCell(v)
		}
		g.Rows[i] = out
	}
	return g
}

// dropBlankRows returns the rows holding at least one non-empty cell.
func dropBlankRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		for _, v := range r {
			if v != "" {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// DisplayHeader renders a parsed column name for display.
func DisplayHeader(name string) string {
	if strings.HasPrefix(name, UnnamedPrefix) {
		return Blank
	}
	return name
}

// DisplayCell renders a cell value for display.
func DisplayCell(v string) string {
	if v == "" {
		return Blank
	}
	return v
}

// columnNames names each column from the header row, filling gaps with
// placeholders and suffixing repeats (.1, .2, ...).
func columnNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	taken := make(map[string]bool, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("%s %d", UnnamedPrefix, i)
		}

		if taken[name] {
			base := name
			for {
				seen[base]++
				name = fmt.Sprintf("%s.%d", base, seen[base])
				if !taken[name] {
					break
				}
			}
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return len(g.Columns)
}

// Empty reports whether the sheet had no rows at all.
func (g *Grid) Empty() bool {
	return len(g.Columns) == 0
}
