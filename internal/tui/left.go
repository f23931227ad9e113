package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/klytics/sheetkit/internal/errs"
	"github.com/klytics/sheetkit/internal/session"
)

// focusArea is the widget that receives keystrokes.
type focusArea int

const (
	focusPath focusArea = iota
	focusTree
	focusCell
	focusValue
	focusKind
	focusRange
	focusDest
	focusTitle
	focusXTitle
	focusYTitle
	focusCount
)

func (f focusArea) chartField() bool { return f >= focusKind && f <= focusYTitle }
func (f focusArea) cellField() bool  { return f == focusCell || f == focusValue }

// treeNode is one visible line of the file/worksheet tree.
type treeNode struct {
	file  string
	path  string
	sheet string // empty for file lines
	err   error
}

// leftPanel builds the navigation and edit forms.
type leftPanel struct {
	path   textinput.Model
	nodes  []treeNode
	cursor int

	cell  textinput.Model
	value textinput.Model
	chart [6]textinput.Model // kind, range, dest, title, x title, y title
}

func newLeftPanel(dir, defaultKind string) leftPanel {
	p := leftPanel{
		path:  newInput("Directory: ", "/path/to/workbooks"),
		cell:  newInput("Cell:  ", "B4"),
		value: newInput("Value: ", "text to write"),
	}
	p.path.SetValue(dir)

	labels := []struct{ prompt, placeholder string }{
		{"Kind:    ", "Line | Bar | Pie | Area | Doughnut"},
		{"Range:   ", "B1:B5"},
		{"Dest:    ", "D2"},
		{"Title:   ", "chart title"},
		{"X title: ", "x axis"},
		{"Y title: ", "y axis"},
	}
	for i, l := range labels {
		p.chart[i] = newInput(l.prompt, l.placeholder)
	}
	p.chart[0].SetValue(defaultKind)
	return p
}

func newInput(prompt, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = 512
	ti.Width = 28
	return ti
}

// input returns the text input behind f, or nil for the tree.
func (p *leftPanel) input(f focusArea) *textinput.Model {
	switch {
	case f == focusPath:
		return &p.path
	case f == focusCell:
		return &p.cell
	case f == focusValue:
		return &p.value
	case f.chartField():
		return &p.chart[f-focusKind]
	}
	return nil
}

// focus moves keyboard focus to f.
func (p *leftPanel) focus(f focusArea) {
	p.path.Blur()
	p.cell.Blur()
	p.value.Blur()
	for i := range p.chart {
		p.chart[i].Blur()
	}
	if in := p.input(f); in != nil {
		in.Focus()
	}
}

// setTree flattens a browsed tree, keeping the cursor on the same line when
// it still exists.
func (p *leftPanel) setTree(tree []session.TreeEntry) {
	prev, hadPrev := p.selected()

	p.nodes = p.nodes[:0]
	for _, e := range tree {
		p.nodes = append(p.nodes, treeNode{file: e.File.Name, path: e.File.Path, err: e.Err})
		for _, s := range e.Sheets {
			p.nodes = append(p.nodes, treeNode{file: e.File.Name, path: e.File.Path, sheet: s})
		}
	}

	p.cursor = 0
	if hadPrev {
		for i, n := range p.nodes {
			if n.path == prev.path && n.sheet == prev.sheet {
				p.cursor = i
				break
			}
		}
	}
}

func (p *leftPanel) selected() (treeNode, bool) {
	if p.cursor < 0 || p.cursor >= len(p.nodes) {
		return treeNode{}, false
	}
	return p.nodes[p.cursor], true
}

func (p *leftPanel) move(delta int) {
	p.cursor += delta
	if p.cursor >= len(p.nodes) {
		p.cursor = len(p.nodes) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// chartValues returns the chart form fields in declaration order.
func (p *leftPanel) chartValues() [6]string {
	var out [6]string
	for i := range p.chart {
		out[i] = strings.TrimSpace(p.chart[i].Value())
	}
	return out
}

func (p *leftPanel) view(focus focusArea, active *session.EditSession, width, treeHeight int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Workbooks"))
	b.WriteString("\n")
	b.WriteString(p.path.View())
	b.WriteString("\n\n")
	b.WriteString(p.treeView(focus == focusTree, active, width, treeHeight))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Write cell"))
	b.WriteString(labelStyle.Render("  ctrl+s"))
	b.WriteString("\n")
	b.WriteString(p.cell.View())
	b.WriteString("\n")
	b.WriteString(p.value.View())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Insert chart"))
	b.WriteString(labelStyle.Render("  ctrl+g"))
	b.WriteString("\n")
	for i := range p.chart {
		b.WriteString(p.chart[i].View())
		b.WriteString("\n")
	}

	return focusedPanelStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (p *leftPanel) treeView(focused bool, active *session.EditSession, width, height int) string {
	if len(p.nodes) == 0 {
		return mutedStyle.Render("  (no spreadsheets)") + "\n"
	}

	start := 0
	if height > 0 && p.cursor >= height {
		start = p.cursor - height + 1
	}
	end := len(p.nodes)
	if height > 0 && end > start+height {
		end = start + height
	}

	var lines []string
	for i := start; i < end; i++ {
		n := p.nodes[i]
		var line string
		if n.sheet == "" {
			line = n.file
			if n.err != nil {
				line += " " + errorStyle.Render(fmt.Sprintf("[%s]", errs.KindOf(n.err)))
			}
		} else {
			line = "  └ " + n.sheet
			if active != nil && active.Path() == n.path && active.Sheet().Name == n.sheet {
				line = activeStyle.Render(line + " ●")
			}
		}

		prefix := "  "
		if i == p.cursor && focused {
			prefix = cursorStyle.Render("> ")
		} else if i == p.cursor {
			prefix = mutedStyle.Render("> ")
		}
		lines = append(lines, lipgloss.NewStyle().MaxWidth(width).Render(prefix+line))
	}
	return strings.Join(lines, "\n") + "\n"
}
