package xlsx

// ListWorksheets returns the worksheet names of the workbook at path, in
// workbook order. The file is opened only for the duration of the call and is
// never written.
func ListWorksheets(path string) ([]string, error) {
	book, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	names := book.SheetList()
	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}
