// Package fs lists the spreadsheet files found in a local directory.
package fs

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klytics/sheetkit/internal/errs"
)

// SpreadsheetExtensions is the set of recognized spreadsheet extensions.
var SpreadsheetExtensions = map[string]string{
	".xlsx": "Excel",
	".xlsm": "Excel (Macro-Enabled)",
	".xls":  "Excel (Legacy)",
}

// DefaultExtensions are listed when ListOptions.Extensions is empty.
var DefaultExtensions = []string{".xls", ".xlsx", ".xlsm"}

// SpreadsheetFile is one listed spreadsheet. Name is unique within a listing.
type SpreadsheetFile struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Extension  string    `json:"extension"`
	Format     string    `json:"format"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// ListOptions configures List.
type ListOptions struct {
	Extensions []string // with or without the leading dot; empty = DefaultExtensions
}

// List returns the spreadsheet files directly inside dir, in the order the
// filesystem enumerates them. Subdirectories are not descended.
func List(dir string, opts ListOptions) ([]SpreadsheetFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errs.Wrap(err, errs.IOUnavailable, "list", "could not access directory").WithPath(dir)
	}
	if !info.IsDir() {
		return nil, errs.New(errs.IOUnavailable, "list", "not a directory").WithPath(dir)
	}

	d, err := os.Open(dir)
	if err != nil {
		return nil, errs.Wrap(err, errs.IOUnavailable, "list", "could not open directory").WithPath(dir)
	}
	defer d.Close()

	// File.ReadDir keeps enumeration order; os.ReadDir would sort.
	entries, err := d.ReadDir(-1)
	if err != nil {
		return nil, errs.Wrap(err, errs.IOUnavailable, "list", "could not read directory").WithPath(dir)
	}

	accept := extensionFilter(opts.Extensions)

	var files []SpreadsheetFile
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !accept[ext] {
			continue
		}

		path := filepath.Join(dir, e.Name())
		finfo, err := e.Info()
		if err != nil {
			continue
		}
		if finfo.Mode()&os.ModeSymlink != 0 {
			finfo, err = os.Stat(path)
			if err != nil {
				continue
			}
		}
		if !finfo.Mode().IsRegular() {
			continue
		}

		format := SpreadsheetExtensions[ext]
		if format == "" {
			format = "Spreadsheet"
		}

		files = append(files, SpreadsheetFile{
			Name:       e.Name(),
			Path:       path,
			Extension:  ext,
			Format:     format,
			Size:       finfo.Size(),
			ModifiedAt: finfo.ModTime(),
		})
	}

	return files, nil
}

// Find returns the file with the given name from a listing.
func Find(files []SpreadsheetFile, name string) (SpreadsheetFile, bool) {
	for _, f := range files {
		if f.Name == name {
			return f, true
		}
	}
	return SpreadsheetFile{}, false
}

// IsSpreadsheet reports whether path carries one of the given extensions
// (DefaultExtensions when none are given).
func IsSpreadsheet(path string, extensions []string) bool {
	return extensionFilter(extensions)[strings.ToLower(filepath.Ext(path))]
}

func extensionFilter(exts []string) map[string]bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	filter := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		filter[e] = true
	}
	return filter
}
