// Package shell provides the interactive sheetkit REPL. One Navigator lives
// for the whole session, so a selection made with "select" stays active for
// later "set", "chart" and "show" commands.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/pflag"

	"github.com/klytics/sheetkit/internal/errs"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/output"
	"github.com/klytics/sheetkit/internal/preview"
	"github.com/klytics/sheetkit/internal/session"
)

// ErrExit is returned by Eval for "exit" and "quit".
var ErrExit = errors.New("exit")

// Session manages an interactive shell session.
type Session struct {
	Nav            *session.Navigator
	ChartDefaults  xlsx.ChartSpec
	PreviewRows    int
	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time

	// KnownCommands is the list of shell commands for completion.
	KnownCommands []string

	tree []session.TreeEntry
}

// NewSession creates a shell session over nav.
func NewSession(nav *session.Navigator) *Session {
	home, _ := os.UserHomeDir()
	histFile := filepath.Join(home, ".sheetkit", "shell_history")
	os.MkdirAll(filepath.Dir(histFile), 0755)

	return &Session{
		Nav:           nav,
		ChartDefaults: xlsx.ChartSpec{Kind: string(xlsx.ChartDoughnut)},
		HistoryFile:   histFile,
		StartTime:     time.Now(),
		KnownCommands: []string{
			"open", "ls", "select", "set", "chart", "show",
			"status", "history", "help", "exit", "quit",
		},
	}
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     s.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(s.buildCompleter()...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("sheetkit interactive shell")
	fmt.Println("Type 'help' for commands, 'exit' to quit.")
	if dir := s.Nav.Dir(); dir != "" {
		fmt.Printf("Browsing %s (%d spreadsheets)\n", dir, len(s.tree))
	}
	fmt.Println()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		out, err := s.Eval(ctx, line)
		if err == ErrExit {
			elapsed := time.Since(s.StartTime)
			fmt.Printf("\nSession ended. %d commands run in %s.\n",
				len(s.CommandHistory)-1, formatDuration(elapsed))
			return nil
		}
		if out != "" {
			fmt.Print(out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Println()
			}
		}
		if err != nil {
			output.PrintStatus(os.Stderr, "", err)
		}
		rl.SetPrompt(s.prompt())
	}
	return nil
}

// Open browses dir and remembers the tree for listing and completion.
func (s *Session) Open(dir string) error {
	tree, err := s.Nav.Browse(dir)
	s.tree = tree
	return err
}

// Eval runs a single command line and returns its output. Failures are
// returned as classified errors; the caller prints their status line.
func (s *Session) Eval(ctx context.Context, line string) (string, error) {
	args, err := splitArgs(line)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", nil
	}
	s.CommandHistory = append(s.CommandHistory, line)

	var buf bytes.Buffer
	switch args[0] {
	case "exit", "quit":
		return "", ErrExit
	case "help":
		s.printHelp(&buf)
	case "history":
		for i, cmd := range s.CommandHistory {
			fmt.Fprintf(&buf, "  %d  %s\n", i+1, cmd)
		}
	case "open":
		if len(args) != 2 {
			return "", usage("open <dir>")
		}
		err = s.Open(args[1])
		if err == nil {
			s.writeTree(&buf)
		}
	case "ls":
		if s.Nav.Dir() == "" {
			return "", errs.New(errs.IOUnavailable, "list", "no directory open; use 'open <dir>'")
		}
		err = s.Open(s.Nav.Dir())
		if err == nil {
			s.writeTree(&buf)
		}
	case "select":
		if len(args) != 3 {
			return "", usage("select <file> <sheet>")
		}
		var sess *session.EditSession
		sess, err = s.Nav.SelectFile(args[1], args[2])
		if err == nil {
			output.PrintStatus(&buf, fmt.Sprintf("selected %s › %s", sess.Sheet().File, sess.Sheet().Name), nil)
		}
	case "set":
		if len(args) < 3 {
			return "", usage("set <cell> <value>")
		}
		value := strings.Join(args[2:], " ")
		err = s.Nav.WriteCell(args[1], value)
		if err == nil {
			output.PrintStatus(&buf, fmt.Sprintf("wrote %q to %s", value, strings.ToUpper(args[1])), nil)
		}
	case "chart":
		var spec xlsx.ChartSpec
		spec, err = s.parseChart(args[1:])
		if err != nil {
			return "", err
		}
		err = s.Nav.InsertChart(spec)
		if err == nil {
			kind, _ := xlsx.ParseKind(spec.Kind)
			output.PrintStatus(&buf, fmt.Sprintf("inserted %s chart of %s at %s", kind, spec.Range, spec.Destination), nil)
		}
	case "show":
		var g *preview.Grid
		g, err = s.Nav.Preview()
		if err == nil {
			err = g.WriteText(&buf)
		}
	case "status":
		s.writeStatus(&buf)
	default:
		return "", fmt.Errorf("unknown command %q; type 'help'", args[0])
	}
	return buf.String(), err
}

// parseChart reads chart flags on top of ChartDefaults. --spec loads a YAML
// spec first; explicit flags override it.
func (s *Session) parseChart(args []string) (xlsx.ChartSpec, error) {
	spec := s.ChartDefaults

	fs := pflag.NewFlagSet("chart", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	specFile := fs.String("spec", "", "YAML chart spec")
	kind := fs.String("kind", "", "Line, Bar, Pie, Area or Doughnut")
	rng := fs.String("range", "", "data range, e.g. B1:B5")
	dest := fs.String("dest", "", "anchor cell")
	title := fs.String("title", "", "chart title")
	xTitle := fs.String("x-title", "", "x axis title")
	yTitle := fs.String("y-title", "", "y axis title")
	width := fs.Uint("width", 0, "width in pixels")
	height := fs.Uint("height", 0, "height in pixels")

	if err := fs.Parse(args); err != nil {
		return spec, fmt.Errorf("%v; usage: chart --range <range> --dest <cell> [--kind K]", err)
	}

	if *specFile != "" {
		loaded, err := xlsx.LoadChartSpec(*specFile)
		if err != nil {
			return spec, err
		}
		spec = spec.Merge(*loaded)
	}
	spec = spec.Merge(xlsx.ChartSpec{
		Kind: *kind, Range: *rng, Destination: *dest,
		Title: *title, XTitle: *xTitle, YTitle: *yTitle,
		Width: *width, Height: *height,
	})
	return spec, nil
}

func (s *Session) writeTree(w io.Writer) {
	if len(s.tree) == 0 {
		fmt.Fprintf(w, "No spreadsheets in %s\n", s.Nav.Dir())
		return
	}
	for _, e := range s.tree {
		fmt.Fprintf(w, "%s\n", e.File.Name)
		if e.Err != nil {
			fmt.Fprintf(w, "  ! %s\n", output.StatusLine("", e.Err))
			continue
		}
		for _, sheet := range e.Sheets {
			fmt.Fprintf(w, "  └ %s\n", sheet)
		}
	}
}

func (s *Session) writeStatus(w io.Writer) {
	dir := s.Nav.Dir()
	if dir == "" {
		dir = "(none)"
	}
	fmt.Fprintf(w, "Directory: %s\n", dir)
	cur := s.Nav.Current()
	if cur == nil {
		fmt.Fprintln(w, "Selection: (none)")
		return
	}
	fmt.Fprintf(w, "Selection: %s › %s (sheet %d)\n", cur.Path(), cur.Sheet().Name, cur.Sheet().Index+1)
	fmt.Fprintf(w, "Opened:    %s ago\n", formatDuration(time.Since(cur.OpenedAt())))
}

func (s *Session) prompt() string {
	if cur := s.Nav.Current(); cur != nil {
		return fmt.Sprintf("sheetkit [%s › %s]> ", cur.Sheet().File, cur.Sheet().Name)
	}
	return "sheetkit> "
}

// Complete returns tab-completion candidates for the given input.
func (s *Session) Complete(input string) []string {
	parts := strings.Fields(input)
	trailing := strings.HasSuffix(input, " ")

	if len(parts) == 0 || (len(parts) == 1 && !trailing) {
		prefix := ""
		if len(parts) == 1 {
			prefix = parts[0]
		}
		return matchPrefix(s.KnownCommands, prefix)
	}

	switch parts[0] {
	case "select":
		if len(parts) == 1 || (len(parts) == 2 && !trailing) {
			return matchPrefix(s.fileNames(), lastWord(parts, trailing))
		}
		if len(parts) == 2 || (len(parts) == 3 && !trailing) {
			return matchPrefix(s.sheetNames(parts[1]), lastWord(parts, trailing))
		}
	case "chart":
		last := lastWord(parts, trailing)
		prev := parts[len(parts)-1]
		if trailing && prev == "--kind" {
			return matchPrefix(kindNames(), "")
		}
		if !trailing && len(parts) > 2 && parts[len(parts)-2] == "--kind" {
			return matchPrefix(kindNames(), last)
		}
		return matchPrefix([]string{
			"--kind", "--range", "--dest", "--title", "--x-title", "--y-title",
			"--width", "--height", "--spec",
		}, last)
	}
	return nil
}

func (s *Session) fileNames() []string {
	names := make([]string, 0, len(s.tree))
	for _, e := range s.tree {
		names = append(names, e.File.Name)
	}
	return names
}

func (s *Session) sheetNames(file string) []string {
	for _, e := range s.tree {
		if e.File.Name == file {
			return e.Sheets
		}
	}
	return nil
}

func (s *Session) printHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  open <dir>              browse a directory")
	fmt.Fprintln(w, "  ls                      list spreadsheets and worksheets again")
	fmt.Fprintln(w, "  select <file> <sheet>   select a worksheet")
	fmt.Fprintln(w, "  set <cell> <value>      write text into a cell")
	fmt.Fprintln(w, "  chart --range R --dest C [--kind K] [--title T] [--x-title X] [--y-title Y] [--spec file.yaml]")
	fmt.Fprintln(w, "                          insert a chart")
	fmt.Fprintln(w, "  show                    preview the selected worksheet")
	fmt.Fprintln(w, "  status                  show the current selection")
	fmt.Fprintln(w, "  history                 show command history")
	fmt.Fprintln(w, "  exit                    exit the shell")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Quote names that contain spaces: select \"Q3 budget.xlsx\" 'Sheet 1'")
}

func (s *Session) buildCompleter() []readline.PrefixCompleterInterface {
	files := func(string) []string { return s.fileNames() }
	sheets := func(line string) []string {
		args, err := splitArgs(line)
		if err != nil || len(args) < 2 {
			return nil
		}
		return s.sheetNames(args[1])
	}
	kinds := func(string) []string { return kindNames() }

	var items []readline.PrefixCompleterInterface
	for _, cmd := range s.KnownCommands {
		switch cmd {
		case "select":
			items = append(items, readline.PcItem(cmd,
				readline.PcItemDynamic(files, readline.PcItemDynamic(sheets))))
		case "chart":
			items = append(items, readline.PcItem(cmd,
				readline.PcItem("--kind", readline.PcItemDynamic(kinds)),
				readline.PcItem("--range"),
				readline.PcItem("--dest"),
				readline.PcItem("--title"),
				readline.PcItem("--spec"),
			))
		default:
			items = append(items, readline.PcItem(cmd))
		}
	}
	return items
}

// splitArgs splits a command line the way a POSIX shell would, honoring
// single quotes, double quotes and backslash escapes.
func splitArgs(line string) ([]string, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("could not parse command line: %w", err)
	}
	return args, nil
}

func usage(u string) error {
	return fmt.Errorf("usage: %s", u)
}

func kindNames() []string {
	names := make([]string, len(xlsx.ChartKinds))
	for i, k := range xlsx.ChartKinds {
		names[i] = string(k)
	}
	return names
}

func matchPrefix(candidates []string, prefix string) []string {
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			matches = append(matches, c)
		}
	}
	sort.Strings(matches)
	return matches
}

func lastWord(parts []string, trailing bool) string {
	if trailing || len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
