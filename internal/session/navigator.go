package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/klytics/sheetkit/internal/audit"
	"github.com/klytics/sheetkit/internal/errs"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/fs"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/preview"
)

var log = logging.NewLogger("session")

// TreeEntry is one file of a browsed directory with its worksheets. A file
// whose worksheets could not be read carries the failure instead.
type TreeEntry struct {
	File   fs.SpreadsheetFile `json:"file"`
	Sheets []string           `json:"sheets"`
	Err    error              `json:"-"`
	Kind   errs.Kind          `json:"kind,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// Options configures a Navigator.
type Options struct {
	Extensions  []string
	PreviewRows int
	Audit       *audit.Logger
	// Open loads a workbook; defaults to xlsx.Open.
	Open func(path string) (xlsx.Book, error)
	// Catalog lists worksheet names; defaults to xlsx.ListWorksheets.
	Catalog func(path string) ([]string, error)
}

// Navigator tracks the browsed directory and holds at most one EditSession.
type Navigator struct {
	opts Options

	mu      sync.Mutex
	dir     string
	files   []fs.SpreadsheetFile
	current *EditSession
}

// NewNavigator creates a Navigator with no directory and no selection.
func NewNavigator(opts Options) *Navigator {
	if opts.Open == nil {
		opts.Open = xlsx.Open
	}
	if opts.Catalog == nil {
		opts.Catalog = xlsx.ListWorksheets
	}
	return &Navigator{opts: opts}
}

// Browse lists the spreadsheets in dir and the worksheets of each. A directory
// failure returns IOUnavailable and an empty tree; per-file failures are
// recorded on their entries.
func (n *Navigator) Browse(dir string) ([]TreeEntry, error) {
	files, err := fs.List(dir, fs.ListOptions{Extensions: n.opts.Extensions})

	n.mu.Lock()
	n.dir = dir
	n.files = files
	n.mu.Unlock()

	if err != nil {
		log.WithError(err).WithField("dir", dir).Debug("browse failed")
		return nil, err
	}

	tree := make([]TreeEntry, 0, len(files))
	for _, f := range files {
		entry := TreeEntry{File: f}
		sheets, err := n.opts.Catalog(f.Path)
		if err != nil {
			entry.Err = err
			entry.Kind = errs.KindOf(err)
			entry.Error = err.Error()
			log.WithError(err).WithField("path", f.Path).Debug("catalog failed")
		} else {
			entry.Sheets = sheets
		}
		tree = append(tree, entry)
	}
	log.WithFields(logrus.Fields{"dir": dir, "files": len(files)}).Debug("browsed")
	return tree, nil
}

// Dir returns the last browsed directory.
func (n *Navigator) Dir() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dir
}

// Files returns the last directory listing.
func (n *Navigator) Files() []fs.SpreadsheetFile {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]fs.SpreadsheetFile, len(n.files))
	copy(out, n.files)
	return out
}

// Select opens path, activates sheet and makes the result the only session.
// The new session is fully built before the previous one is closed. On any
// failure no session remains active.
func (n *Navigator) Select(path, sheet string) (*EditSession, error) {
	start := time.Now()
	s, err := n.open(path, sheet)

	n.mu.Lock()
	prev := n.current
	n.current = s
	n.mu.Unlock()

	if prev != nil {
		if cerr := prev.close(); cerr != nil {
			log.WithError(cerr).WithField("path", prev.Path()).Warn("close previous session")
		}
	}

	n.record(audit.OpSelect, path, sheet, "", "", start, err)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SelectFile selects sheet in the file called name from the last listing.
func (n *Navigator) SelectFile(name, sheet string) (*EditSession, error) {
	n.mu.Lock()
	f, ok := fs.Find(n.files, name)
	dir := n.dir
	n.mu.Unlock()

	if !ok {
		err := errs.Newf(errs.IOUnavailable, "select", "%s is not listed", name).WithPath(dir)
		// A failed selection leaves nothing selected.
		n.mu.Lock()
		prev := n.current
		n.current = nil
		n.mu.Unlock()
		if prev != nil {
			prev.close()
		}
		n.record(audit.OpSelect, name, sheet, "", "", time.Now(), err)
		return nil, err
	}
	return n.Select(f.Path, sheet)
}

func (n *Navigator) open(path, sheet string) (*EditSession, error) {
	book, err := n.opts.Open(path)
	if err != nil {
		return nil, err
	}
	index := xlsx.SheetIndex(book, sheet)
	if index < 0 {
		book.Close()
		return nil, errs.Newf(errs.NoActiveSelection, "select", "worksheet %q not found", sheet).WithPath(path)
	}
	book.SetActive(index)
	return newEditSession(book, sheet, index), nil
}

// Current returns the active session, or nil.
func (n *Navigator) Current() *EditSession {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// WriteCell writes value into cell of the active worksheet.
func (n *Navigator) WriteCell(cell, value string) error {
	start := time.Now()
	s := n.Current()
	if s == nil {
		err := errs.New(errs.NoActiveSelection, "write-cell", "select a worksheet first")
		n.record(audit.OpWriteCell, "", "", cell, "", start, err)
		return err
	}
	err := s.WriteCell(cell, value)
	n.record(audit.OpWriteCell, s.Path(), s.Sheet().Name, cell, value, start, err)
	return err
}

// InsertChart inserts a chart into the active worksheet. With no selection
// nothing is touched.
func (n *Navigator) InsertChart(spec xlsx.ChartSpec) error {
	start := time.Now()
	s := n.Current()
	if s == nil {
		err := errs.New(errs.NoActiveSelection, "insert-chart", "select a worksheet first")
		n.record(audit.OpInsertChart, "", "", spec.Destination, spec.Kind, start, err)
		return err
	}
	err := s.InsertChart(spec)
	kind, _ := xlsx.ParseKind(spec.Kind)
	n.record(audit.OpInsertChart, s.Path(), s.Sheet().Name, spec.Destination, string(kind)+" "+spec.Range, start, err)
	return err
}

// Preview builds the grid of the active worksheet.
func (n *Navigator) Preview() (*preview.Grid, error) {
	s := n.Current()
	if s == nil {
		return nil, errs.New(errs.NoActiveSelection, "preview", "select a worksheet first")
	}
	return s.Preview(preview.Options{MaxRows: n.opts.PreviewRows})
}

// Close releases the active session, if any.
func (n *Navigator) Close() error {
	n.mu.Lock()
	s := n.current
	n.current = nil
	n.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.close()
}

func (n *Navigator) record(op, path, sheet, target, detail string, start time.Time, err error) {
	entry := audit.Entry{
		Op:         op,
		Path:       path,
		Sheet:      sheet,
		Target:     target,
		Detail:     detail,
		DurationMs: time.Since(start).Milliseconds(),
	}
	fields := logrus.Fields{"op": op, "path": path, "sheet": sheet}
	if target != "" {
		fields["target"] = target
	}
	if err != nil {
		entry.Kind = string(errs.KindOf(err))
		entry.Error = err.Error()
		log.WithFields(fields).WithError(err).Debug("operation failed")
	} else {
		log.WithFields(fields).Debug("operation completed")
	}
	_ = n.opts.Audit.Log(context.Background(), entry)
}
