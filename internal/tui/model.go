// Package tui is the two-panel terminal interface: a navigation and edit
// panel on the left, the worksheet preview and status on the right.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/preview"
	"github.com/klytics/sheetkit/internal/session"
	"github.com/klytics/sheetkit/internal/watch"
)

var log = logging.NewLogger("tui")

// Options configures the terminal UI.
type Options struct {
	Dir           string
	Extensions    []string
	ChartDefaults xlsx.ChartSpec
	// Watch refreshes the tree when spreadsheets in the directory change.
	Watch bool
}

// Model is the bubbletea model of the whole UI.
type Model struct {
	nav  *session.Navigator
	opts Options

	left  leftPanel
	right rightPanel
	focus focusArea

	keys keyMap
	help help.Model

	width  int
	height int

	watch *watchState
}

// watchState is the running directory watcher. gen tells its events apart
// from those of watchers already stopped.
type watchState struct {
	gen    int
	ctx    context.Context
	cancel context.CancelFunc
	events chan watch.Event
}

// Messages produced by commands.
type (
	browsedMsg struct {
		dir     string
		tree    []session.TreeEntry
		err     error
		refresh bool
	}
	selectedMsg struct {
		sess *session.EditSession
		err  error
	}
	editedMsg struct {
		status string
		err    error
	}
	previewMsg struct {
		grid *preview.Grid
		err  error
	}
	fileChangedMsg struct {
		gen   int
		event watch.Event
	}
)

// New creates the model. The navigator is owned by the caller.
func New(nav *session.Navigator, opts Options) Model {
	kind := opts.ChartDefaults.Kind
	if kind == "" {
		kind = string(xlsx.ChartDoughnut)
	}
	m := Model{
		nav:   nav,
		opts:  opts,
		left:  newLeftPanel(opts.Dir, kind),
		right: newRightPanel(),
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
	m.focus = focusPath
	if opts.Dir != "" {
		m.focus = focusTree
	}
	m.left.focus(m.focus)
	return m
}

// Init browses the starting directory, if any.
func (m Model) Init() tea.Cmd {
	if m.opts.Dir == "" {
		return nil
	}
	return m.browseCmd(m.opts.Dir)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.right.resize(m.rightWidth()-4, m.bodyHeight()-6)
		return m, nil

	case browsedMsg:
		return m.onBrowsed(msg)

	case selectedMsg:
		if msg.err != nil {
			m.right.setGrid(nil)
			m.right.setStatus("", msg.err)
			return m, nil
		}
		ref := msg.sess.Sheet()
		m.right.setGrid(nil)
		m.right.setStatus(fmt.Sprintf("selected %s › %s (ctrl+p to preview)", ref.File, ref.Name), nil)
		return m, nil

	case editedMsg:
		m.right.setStatus(msg.status, msg.err)
		if msg.err == nil && m.right.grid != nil {
			return m, m.previewCmd()
		}
		return m, nil

	case previewMsg:
		if msg.err != nil {
			m.right.setStatus("", msg.err)
			return m, nil
		}
		m.right.setGrid(msg.grid)
		return m, nil

	case fileChangedMsg:
		if m.watch == nil || m.watch.cancel == nil || msg.gen != m.watch.gen {
			return m, nil
		}
		log.WithField("path", msg.event.Path).Debug("directory changed")
		return m, tea.Batch(m.refreshCmd(), m.watch.wait())

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inInput := m.left.input(m.focus) != nil

	switch {
	case msg.Type == tea.KeyCtrlC:
		return m.quit()
	case key.Matches(msg, m.keys.Quit) && !inInput:
		return m.quit()
	case key.Matches(msg, m.keys.Help) && !inInput:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % focusCount), nil
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + focusCount - 1) % focusCount), nil
	case key.Matches(msg, m.keys.Write):
		return m, m.writeCmd()
	case key.Matches(msg, m.keys.Chart):
		return m, m.chartCmd()
	case key.Matches(msg, m.keys.Preview):
		return m, m.previewCmd()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.Enter):
		return m.onEnter()
	}

	if m.focus == focusTree {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.left.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.left.move(1)
		}
		return m, nil
	}

	if in := m.left.input(m.focus); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) onEnter() (tea.Model, tea.Cmd) {
	switch {
	case m.focus == focusPath:
		dir := strings.TrimSpace(m.left.path.Value())
		return m, m.browseCmd(dir)
	case m.focus == focusTree:
		node, ok := m.left.selected()
		if !ok {
			return m, nil
		}
		if node.sheet == "" {
			if node.err != nil {
				m.right.setStatus("", node.err)
			} else {
				m.right.setStatus("choose a worksheet under "+node.file, nil)
			}
			return m, nil
		}
		return m, m.selectCmd(node.path, node.sheet)
	case m.focus.cellField():
		return m, m.writeCmd()
	case m.focus.chartField():
		return m, m.chartCmd()
	}
	return m, nil
}

func (m Model) onBrowsed(msg browsedMsg) (tea.Model, tea.Cmd) {
	m.left.setTree(msg.tree)
	if msg.err != nil {
		m.stopWatch()
		m.right.setStatus("", msg.err)
		return m, nil
	}

	if msg.refresh {
		return m, nil
	}
	m.right.setStatus(fmt.Sprintf("%d spreadsheets in %s", len(msg.tree), msg.dir), nil)
	if !m.opts.Watch {
		return m, nil
	}
	cmd := m.startWatch(msg.dir)
	return m, cmd
}

// startWatch replaces any running watcher with one on dir.
func (m *Model) startWatch(dir string) tea.Cmd {
	m.stopWatch()

	events := make(chan watch.Event, 16)
	w, err := watch.New(watch.Config{Dir: dir, Extensions: m.opts.Extensions}, func(e watch.Event) {
		select {
		case events <- e:
		default:
		}
	})
	if err != nil {
		log.WithError(err).Warn("directory watch unavailable")
		return nil
	}

	gen := 1
	if m.watch != nil {
		gen = m.watch.gen + 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.watch = &watchState{gen: gen, ctx: ctx, cancel: cancel, events: events}

	go func() {
		if err := w.Start(ctx); err != nil {
			log.WithError(err).WithField("dir", dir).Warn("directory watch stopped")
		}
	}()
	return m.watch.wait()
}

func (m *Model) stopWatch() {
	if m.watch != nil && m.watch.cancel != nil {
		m.watch.cancel()
		m.watch.cancel = nil
	}
}

// wait delivers the next change, or nothing once the watcher is stopped.
func (w *watchState) wait() tea.Cmd {
	ctx, events, gen := w.ctx, w.events, w.gen
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			return fileChangedMsg{gen: gen, event: e}
		}
	}
}

func (m Model) setFocus(f focusArea) Model {
	m.focus = f
	m.left.focus(f)
	return m
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.stopWatch()
	return m, tea.Quit
}

func (m Model) browseCmd(dir string) tea.Cmd {
	nav := m.nav
	return func() tea.Msg {
		tree, err := nav.Browse(dir)
		return browsedMsg{dir: dir, tree: tree, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	dir := m.nav.Dir()
	if dir == "" {
		return nil
	}
	nav := m.nav
	return func() tea.Msg {
		tree, err := nav.Browse(dir)
		return browsedMsg{dir: dir, tree: tree, err: err, refresh: true}
	}
}

func (m Model) selectCmd(path, sheet string) tea.Cmd {
	nav := m.nav
	return func() tea.Msg {
		s, err := nav.Select(path, sheet)
		return selectedMsg{sess: s, err: err}
	}
}

func (m Model) writeCmd() tea.Cmd {
	nav := m.nav
	cell := strings.TrimSpace(m.left.cell.Value())
	value := m.left.value.Value()
	return func() tea.Msg {
		err := nav.WriteCell(cell, value)
		return editedMsg{status: fmt.Sprintf("wrote %q to %s", value, strings.ToUpper(cell)), err: err}
	}
}

func (m Model) chartCmd() tea.Cmd {
	nav := m.nav
	spec := m.chartSpec()
	return func() tea.Msg {
		err := nav.InsertChart(spec)
		kind, _ := xlsx.ParseKind(spec.Kind)
		return editedMsg{status: fmt.Sprintf("inserted %s chart of %s at %s", kind, spec.Range, spec.Destination), err: err}
	}
}

func (m Model) previewCmd() tea.Cmd {
	nav := m.nav
	return func() tea.Msg {
		g, err := nav.Preview()
		return previewMsg{grid: g, err: err}
	}
}

func (m Model) chartSpec() xlsx.ChartSpec {
	v := m.left.chartValues()
	return xlsx.ChartSpec{
		Kind:        v[0],
		Range:       v[1],
		Destination: v[2],
		Title:       v[3],
		XTitle:      v[4],
		YTitle:      v[5],
		Width:       m.opts.ChartDefaults.Width,
		Height:      m.opts.ChartDefaults.Height,
	}
}

// View renders both panels side by side, then the status line and help.
func (m Model) View() string {
	leftW := m.leftWidth()
	left := m.left.view(m.focus, m.nav.Current(), leftW-4, m.treeHeight())
	right := m.right.view(m.rightWidth() - 4)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.right.statusView(),
		m.help.View(m.keys),
	)
}

func (m Model) leftWidth() int {
	if m.width <= 0 {
		return 44
	}
	w := m.width * 2 / 5
	if w < 36 {
		w = 36
	}
	return w
}

func (m Model) rightWidth() int {
	if m.width <= 0 {
		return 80
	}
	w := m.width - m.leftWidth()
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) bodyHeight() int {
	if m.height <= 0 {
		return 30
	}
	return m.height - 3
}

// treeHeight is what remains of the left panel after the forms.
func (m Model) treeHeight() int {
	h := m.bodyHeight() - 18
	if h < 3 {
		h = 3
	}
	return h
}

// Run starts the UI on the terminal and blocks until it exits.
func Run(nav *session.Navigator, opts Options) error {
	p := tea.NewProgram(New(nav, opts), tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.stopWatch()
	}
	return err
}
