package xlsx

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/errs"
)

// SaveAtomic serializes f next to path and renames it into place, so a failed
// save never leaves a truncated workbook behind.
func SaveAtomic(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errs.Wrap(err, errs.EditRejected, "save", "could not create temporary file").WithPath(path)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if err := f.Write(tmp); err != nil {
		cleanup()
		return errs.Wrap(err, errs.EditRejected, "save", "could not serialize workbook").WithPath(path)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errs.Wrap(err, errs.EditRejected, "save", "could not flush workbook").WithPath(path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.Wrap(err, errs.EditRejected, "save", "could not close temporary file").WithPath(path)
	}

	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errs.Wrap(err, errs.EditRejected, "save", "could not replace workbook").WithPath(path)
	}
	return nil
}
