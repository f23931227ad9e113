package xlsx

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/errs"
)

// Book is an open, fully loaded workbook. Mutations stay in memory until Save.
type Book interface {
	Path() string
	SheetList() []string
	SetActive(index int)
	Rows(sheet string) ([][]string, error)
	SetCellText(sheet, cell, value string) error
	AddChart(sheet string, spec ChartSpec) error
	Save() error
	// Reload discards unsaved changes by reopening the file from disk.
	Reload() error
	Close() error
}

// Open loads the workbook at path for reading and writing. Legacy .xls
// workbooks open read-only; their mutators fail with EditRejected.
func Open(path string) (Book, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errs.Wrap(err, errs.IOUnavailable, "open", "could not access workbook").WithPath(path)
	}
	if isLegacy(path) {
		b, err := openLegacy(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.WorkbookUnreadable, "open", "is this a valid .xlsx file?").WithPath(path)
	}
	return &xlsxBook{path: path, f: f}, nil
}

// SheetIndex returns the ordinal of name in book (case-sensitive), or -1.
func SheetIndex(book Book, name string) int {
	for i, s := range book.SheetList() {
		if s == name {
			return i
		}
	}
	return -1
}

func isLegacy(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xls")
}

type xlsxBook struct {
	path string
	f    *excelize.File
}

func (b *xlsxBook) Path() string { return b.path }

func (b *xlsxBook) SheetList() []string { return b.f.GetSheetList() }

func (b *xlsxBook) SetActive(index int) { b.f.SetActiveSheet(index) }

func (b *xlsxBook) Rows(sheet string) ([][]string, error) {
	rows, err := b.f.GetRows(sheet)
	if err != nil {
		return nil, errs.Wrap(err, errs.WorkbookUnreadable, "rows", "could not read sheet "+quoteSheet(sheet)).WithPath(b.path)
	}
	return rows, nil
}

func (b *xlsxBook) SetCellText(sheet, cell, value string) error {
	ref, err := NormalizeCell(cell)
	if err != nil {
		return err
	}
	if err := b.f.SetCellStr(sheet, ref, value); err != nil {
		return errs.Wrap(err, errs.EditRejected, "write-cell", "could not set cell "+ref).WithPath(b.path)
	}
	return nil
}

func (b *xlsxBook) AddChart(sheet string, spec ChartSpec) error {
	chart, anchor, err := buildChart(sheet, spec)
	if err != nil {
		return err
	}
	if err := b.f.AddChart(sheet, anchor, chart); err != nil {
		return errs.Wrap(err, errs.EditRejected, "insert-chart", "could not add chart").WithPath(b.path)
	}
	return nil
}

func (b *xlsxBook) Save() error {
	return SaveAtomic(b.f, b.path)
}

func (b *xlsxBook) Reload() error {
	f, err := excelize.OpenFile(b.path)
	if err != nil {
		return errs.Wrap(err, errs.WorkbookUnreadable, "reload", "could not reopen workbook").WithPath(b.path)
	}
	_ = b.f.Close()
	b.f = f
	return nil
}

func (b *xlsxBook) Close() error {
	return b.f.Close()
}

// NormalizeCell validates an A1-style reference and returns it upper-cased
// without $ anchors.
func NormalizeCell(cell string) (string, error) {
	ref := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(cell), "$", ""))
	if ref == "" {
		return "", errs.New(errs.EditRejected, "cell", "cell reference is empty")
	}
	if _, _, err := excelize.CellNameToCoordinates(ref); err != nil {
		return "", errs.Wrap(err, errs.EditRejected, "cell", "invalid cell reference "+cell)
	}
	return ref, nil
}
