package xlsx

import (
	"fmt"
	"os"

	"github.com/extrame/xls"

	"github.com/klytics/sheetkit/internal/errs"
)

const legacyCharset = "utf-8"

// legacyBook is a BIFF (.xls) workbook held fully in memory. It is read-only.
type legacyBook struct {
	path   string
	wb     *xls.WorkBook
	sheets []string
}

func openLegacy(path string) (book *legacyBook, err error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.IOUnavailable, "open", "could not open workbook").WithPath(path)
	}
	defer fh.Close()

	// The BIFF parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			book = nil
			err = errs.Wrap(fmt.Errorf("%v", r), errs.WorkbookUnreadable, "open", "is this a valid .xls file?").WithPath(path)
		}
	}()

	wb, err := xls.OpenReader(fh, legacyCharset)
	if err != nil {
		return nil, errs.Wrap(err, errs.WorkbookUnreadable, "open", "is this a valid .xls file?").WithPath(path)
	}

	b := &legacyBook{path: path, wb: wb}
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil {
			b.sheets = append(b.sheets, s.Name)
		}
	}
	return b, nil
}

func (b *legacyBook) Path() string { return b.path }

func (b *legacyBook) SheetList() []string { return b.sheets }

func (b *legacyBook) SetActive(int) {}

func (b *legacyBook) Rows(sheet string) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = errs.Wrap(fmt.Errorf("%v", r), errs.WorkbookUnreadable, "rows", "could not read sheet "+quoteSheet(sheet)).WithPath(b.path)
		}
	}()

	idx := -1
	for i, name := range b.sheets {
		if name == sheet {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errs.New(errs.WorkbookUnreadable, "rows", "sheet "+quoteSheet(sheet)+" not found").WithPath(b.path)
	}

	ws := b.wb.GetSheet(idx)
	if ws == nil {
		return nil, nil
	}
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return trimTrailingEmpty(rows), nil
}

func (b *legacyBook) SetCellText(string, string, string) error {
	return errs.New(errs.EditRejected, "write-cell", "legacy .xls workbooks are read-only; save as .xlsx to edit").WithPath(b.path)
}

func (b *legacyBook) AddChart(string, ChartSpec) error {
	return errs.New(errs.EditRejected, "insert-chart", "legacy .xls workbooks are read-only; save as .xlsx to edit").WithPath(b.path)
}

func (b *legacyBook) Save() error {
	return errs.New(errs.EditRejected, "save", "legacy .xls workbooks are read-only").WithPath(b.path)
}

func (b *legacyBook) Reload() error {
	nb, err := openLegacy(b.path)
	if err != nil {
		return err
	}
	*b = *nb
	return nil
}

func (b *legacyBook) Close() error { return nil }

func trimTrailingEmpty(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		empty := true
		for _, c := range last {
			if c != "" {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}
