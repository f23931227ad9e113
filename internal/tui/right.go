package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/klytics/sheetkit/internal/errs"
	"github.com/klytics/sheetkit/internal/preview"
)

const maxPreviewColWidth = 24

// rightPanel builds the preview grid and the status line.
type rightPanel struct {
	grid  *preview.Grid
	table table.Model

	status    string
	statusErr error
}

func newRightPanel() rightPanel {
	t := table.New(table.WithFocused(false))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return rightPanel{table: t}
}

// setGrid replaces the previewed worksheet.
func (p *rightPanel) setGrid(g *preview.Grid) {
	p.grid = g
	p.table.SetRows(nil)

	if g == nil || g.Empty() {
		p.table.SetColumns(nil)
		return
	}

	widths := g.ColumnWidths(maxPreviewColWidth)
	cols := make([]table.Column, len(g.Headers))
	for i, h := range g.Headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	rows := make([]table.Row, len(g.Rows))
	for i, r := range g.Rows {
		rows[i] = table.Row(r)
	}
	p.table.SetColumns(cols)
	p.table.SetRows(rows)
	p.table.GotoTop()
}

// setStatus records the outcome of the last operation.
func (p *rightPanel) setStatus(msg string, err error) {
	p.status = msg
	p.statusErr = err
}

func (p *rightPanel) resize(width, height int) {
	p.table.SetWidth(width)
	p.table.SetHeight(height)
}

func (p *rightPanel) view(width int) string {
	var b strings.Builder
	if p.grid == nil {
		b.WriteString(titleStyle.Render("Preview"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Select a worksheet and press ctrl+p."))
	} else {
		b.WriteString(titleStyle.Render("Sheet: " + p.grid.Sheet))
		b.WriteString("\n")
		if p.grid.Empty() {
			b.WriteString(mutedStyle.Render("(empty)"))
		} else {
			b.WriteString(p.table.View())
			b.WriteString("\n")
			n := fmt.Sprintf("%d rows", len(p.grid.Rows))
			if p.grid.Truncated {
				n += ", more not shown"
			}
			b.WriteString(mutedStyle.Render(n))
		}
	}
	return panelStyle.Width(width).Render(b.String())
}

// statusView renders the one-line outcome of the last operation.
func (p *rightPanel) statusView() string {
	if p.statusErr != nil {
		kind := errs.KindOf(p.statusErr)
		if kind == "" {
			return badStyle.Render("✗ ") + p.statusErr.Error()
		}
		return badStyle.Render(fmt.Sprintf("✗ %s [%s] ", kind.Label(), kind)) + p.statusErr.Error()
	}
	if p.status == "" {
		return ""
	}
	return okStyle.Render("✓ ") + p.status
}
