// Package session owns the single active worksheet selection and the edits
// made through it.
package session

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/klytics/sheetkit/internal/errs"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/preview"
)

// WorksheetRef identifies one worksheet inside a workbook file.
type WorksheetRef struct {
	File  string `json:"file"`
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// EditSession binds an open workbook to one selected worksheet. Its fields
// never change after construction; edits go through the held book.
type EditSession struct {
	dir      string
	path     string
	sheet    WorksheetRef
	openedAt time.Time

	mu   sync.Mutex
	book xlsx.Book
}

func newEditSession(book xlsx.Book, sheet string, index int) *EditSession {
	path := book.Path()
	return &EditSession{
		dir:      filepath.Dir(path),
		path:     path,
		sheet:    WorksheetRef{File: filepath.Base(path), Name: sheet, Index: index},
		openedAt: time.Now(),
		book:     book,
	}
}

func (s *EditSession) Dir() string         { return s.dir }
func (s *EditSession) Path() string        { return s.path }
func (s *EditSession) Sheet() WorksheetRef { return s.sheet }
func (s *EditSession) OpenedAt() time.Time { return s.openedAt }

// WriteCell stores value as text in cell of the selected worksheet and saves
// the workbook to its original path.
func (s *EditSession) WriteCell(cell, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.book == nil {
		return errs.New(errs.NoActiveSelection, "write-cell", "session is closed")
	}
	if err := s.book.SetCellText(s.sheet.Name, cell, value); err != nil {
		return err
	}
	return s.save("write-cell")
}

// InsertChart adds a chart built from spec to the selected worksheet and saves
// the workbook.
func (s *EditSession) InsertChart(spec xlsx.ChartSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.book == nil {
		return errs.New(errs.NoActiveSelection, "insert-chart", "session is closed")
	}
	if err := s.book.AddChart(s.sheet.Name, spec); err != nil {
		return err
	}
	return s.save("insert-chart")
}

// Preview builds the display grid of the selected worksheet.
func (s *EditSession) Preview(opts preview.Options) (*preview.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.book == nil {
		return nil, errs.New(errs.NoActiveSelection, "preview", "session is closed")
	}
	rows, err := s.book.Rows(s.sheet.Name)
	if err != nil {
		return nil, err
	}
	return preview.Build(s.sheet.Name, rows, opts), nil
}

// save persists the book. On failure the in-memory copy is reloaded from disk
// so it matches the file again.
func (s *EditSession) save(op string) error {
	err := s.book.Save()
	if err == nil {
		return nil
	}
	if rerr := s.book.Reload(); rerr != nil {
		log.WithError(rerr).WithField("path", s.path).Warn("reload after failed save")
	}
	if errs.KindOf(err) == "" {
		return errs.Wrap(err, errs.EditRejected, op, "could not save workbook").WithPath(s.path)
	}
	return err
}

func (s *EditSession) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.book == nil {
		return nil
	}
	err := s.book.Close()
	s.book = nil
	return err
}
