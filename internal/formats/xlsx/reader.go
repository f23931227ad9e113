// Package xlsx opens spreadsheet workbooks (.xlsx, .xlsm and read-only legacy
// .xls), lists their worksheets, and applies cell and chart edits.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet represents a single worksheet's data.
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// Workbook represents a parsed spreadsheet file with all its sheets.
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// ReadFile reads every sheet of the workbook at path.
func ReadFile(path string) (*Workbook, error) {
	book, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	return readWorkbook(book)
}

func readWorkbook(book Book) (*Workbook, error) {
	wb := &Workbook{}

	for _, name := range book.SheetList() {
		rows, err := book.Rows(name)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}

	return wb, nil
}

// GetSheet returns a specific sheet by name. Returns an error if the sheet is not found.
func (wb *Workbook) GetSheet(name string) (*Sheet, error) {
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i], nil
		}
	}

	available := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		available[i] = s.Name
	}
	return nil, fmt.Errorf("sheet %q not found; available sheets: %v", name, available)
}

// Cell returns the value at the given A1 reference, or "" when it is empty.
func (s *Sheet) Cell(ref string) string {
	cell, err := NormalizeCell(ref)
	if err != nil {
		return ""
	}
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return ""
	}
	if row < 1 || row > len(s.Rows) {
		return ""
	}
	r := s.Rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}
