package preview

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const (
	maxColWidth = 40
	minColWidth = 3
)

// WriteText renders the grid as an aligned, width-capped table.
func (g *Grid) WriteText(w io.Writer) error {
	headerStyle := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	headerStyle.Fprintf(w, "Sheet: %s\n", g.Sheet)

	if g.Empty() {
		dim.Fprintln(w, "  (empty)")
		return nil
	}

	widths := g.ColumnWidths(maxColWidth)

	writeRow(w, g.Headers, widths, color.New(color.Bold))
	dim.Fprint(w, "  ")
	for j, cw := range widths {
		if j > 0 {
			dim.Fprint(w, "+-")
		}
		dim.Fprint(w, strings.Repeat("-", cw+1))
	}
	dim.Fprintln(w)

	for _, row := range g.Rows {
		writeRow(w, row, widths, nil)
	}

	if g.Truncated {
		dim.Fprintf(w, "  (%d rows shown, more not displayed)\n", len(g.Rows))
	} else {
		dim.Fprintf(w, "  (%d rows)\n", len(g.Rows))
	}
	return nil
}

// WriteCSV writes the display headers and rows as CSV.
func (g *Grid) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if !g.Empty() {
		if err := cw.Write(g.Headers); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(g.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// ColumnWidths returns each column's display width, capped at max.
func (g *Grid) ColumnWidths(max int) []int {
	widths := make([]int, g.Width())
	measure := func(row []string) {
		for j, cell := range row {
			if j >= len(widths) {
				break
			}
			if n := runewidth.StringWidth(cell); n > widths[j] {
				widths[j] = n
			}
		}
	}
	measure(g.Headers)
	for _, row := range g.Rows {
		measure(row)
	}
	for i := range widths {
		if max > 0 && widths[i] > max {
			widths[i] = max
		}
		if widths[i] < minColWidth {
			widths[i] = minColWidth
		}
	}
	return widths
}

func writeRow(w io.Writer, row []string, widths []int, style *color.Color) {
	fmt.Fprint(w, "  ")
	for j, cw := range widths {
		if j > 0 {
			fmt.Fprint(w, "| ")
		}
		cell := ""
		if j < len(row) {
			cell = row[j]
		}
		cell = runewidth.Truncate(cell, cw, "~")
		padded := runewidth.FillRight(cell, cw+1)
		if style != nil {
			style.Fprint(w, padded)
		} else {
			fmt.Fprint(w, padded)
		}
	}
	fmt.Fprintln(w)
}
