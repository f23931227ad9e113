package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/errs"
)

// WriteFile creates a workbook at path holding wb's sheets in order. Every
// non-empty cell is stored as text; empty cells are left unset.
func WriteFile(wb *Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range wb.Sheets {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		var err error
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			return errs.Wrap(err, errs.EditRejected, "write", "could not add sheet "+name).WithPath(path)
		}

		for r, row := range s.Rows {
			for c, v := range row {
				if v == "" {
					continue
				}
				ref, _ := excelize.CoordinatesToCellName(c+1, r+1)
				if err := f.SetCellStr(name, ref, v); err != nil {
					return errs.Wrap(err, errs.EditRejected, "write", "could not set "+name+"!"+ref).WithPath(path)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errs.Wrap(err, errs.IOUnavailable, "write", "could not save workbook").WithPath(path)
	}
	return nil
}
