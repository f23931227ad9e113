// Package watch provides the "sheetkit watch" command for following workbook
// changes in a directory.
package watch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/app"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	w "github.com/klytics/sheetkit/internal/watch"
)

// change is one reported event together with the file's current worksheets.
type change struct {
	w.Event
	Sheets []string `json:"sheets,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		extensions []string
		pattern    string
		debounce   int
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Follow spreadsheet changes in a directory",
		Long: `Watches a directory for spreadsheets being created, saved, renamed or
removed, and prints each change with the file's current worksheet list.
With --json every change is written as one JSON object per line.

Example:
  sheetkit watch ./reports --ext xlsx
  sheetkit watch --pattern 'budget*' --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd, false)
			if err != nil {
				return err
			}
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			dir = a.StartDir(dir)
			if len(extensions) == 0 {
				extensions = a.Config.Extensions
			}

			out := cmd.OutOrStdout()
			report := reporter(out, app.JSON(cmd))

			watcher, err := w.New(w.Config{
				Dir:        dir,
				Extensions: extensions,
				Pattern:    pattern,
				Debounce:   time.Duration(debounce) * time.Millisecond,
			}, func(ev w.Event) {
				report(describe(ev))
			})
			if err != nil {
				return err
			}

			if !app.JSON(cmd) {
				fmt.Fprintf(out, "Watching %s for %s files\n", dir, strings.Join(extensions, ", "))
				fmt.Fprintln(out, "Press Ctrl+C to stop")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watcher.Start(ctx)
		},
	}

	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "File extensions to watch (default: configured extensions)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Only report files whose name matches this glob")
	cmd.Flags().IntVar(&debounce, "debounce", 300, "Debounce interval in milliseconds")

	return cmd
}

// describe attaches the worksheet list of files that still exist.
func describe(ev w.Event) change {
	c := change{Event: ev}
	if ev.Op == w.OpRemove || ev.Op == w.OpRename {
		return c
	}
	if _, err := os.Stat(ev.Path); err != nil {
		return c
	}
	sheets, err := xlsx.ListWorksheets(ev.Path)
	if err != nil {
		c.Error = err.Error()
		return c
	}
	c.Sheets = sheets
	return c
}

// reporter returns a goroutine-safe printer for changes.
func reporter(out io.Writer, asJSON bool) func(change) {
	var mu sync.Mutex
	enc := json.NewEncoder(out)
	opColor := map[string]*color.Color{
		w.OpCreate: color.New(color.FgGreen),
		w.OpWrite:  color.New(color.FgCyan),
		w.OpRemove: color.New(color.FgRed),
		w.OpRename: color.New(color.FgYellow),
	}

	return func(c change) {
		mu.Lock()
		defer mu.Unlock()

		if asJSON {
			_ = enc.Encode(c)
			return
		}
		ts := c.Time.Format("15:04:05")
		op := c.Op
		if col, ok := opColor[c.Op]; ok {
			op = col.Sprintf("%-6s", c.Op)
		}
		fmt.Fprintf(out, "%s  %s  %s", ts, op, filepath.Base(c.Path))
		switch {
		case c.Error != "":
			fmt.Fprintf(out, "  (%s)", c.Error)
		case len(c.Sheets) > 0:
			fmt.Fprintf(out, "  [%s]", strings.Join(c.Sheets, ", "))
		}
		fmt.Fprintln(out)
	}
}
