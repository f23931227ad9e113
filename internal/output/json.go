package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klytics/sheetkit/cmd/version"
	"github.com/klytics/sheetkit/internal/errs"
)

// Exit codes for consistent error reporting.
const (
	ExitOK          = 0 // success
	ExitUserError   = 1 // bad arguments, unknown sheet, bad cell reference
	ExitSystemError = 2 // unreadable directory or workbook, failed save
)

// JSONResult is the standard JSON output envelope for all commands.
type JSONResult struct {
	OK      bool        `json:"ok"`
	Command string      `json:"command"`
	Version string      `json:"version"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    errs.Kind   `json:"kind,omitempty"`
	Code    int         `json:"code,omitempty"`
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var e *errs.Error
	if !errors.As(err, &e) {
		return ExitUserError
	}
	switch e.Kind {
	case errs.IOUnavailable, errs.WorkbookUnreadable:
		return ExitSystemError
	case errs.EditRejected:
		if e.Op == "save" {
			return ExitSystemError
		}
	}
	return ExitUserError
}

// WriteJSON writes a success envelope to w.
func WriteJSON(w io.Writer, cmd string, data interface{}) error {
	return encode(w, JSONResult{
		OK:      true,
		Command: cmd,
		Version: version.Version,
		Data:    data,
	})
}

// PrintJSONError writes a standard error JSON result to stdout.
func PrintJSONError(cmd string, err error) error {
	return WriteJSONError(os.Stdout, cmd, err)
}

// WriteJSONError writes an error envelope for err to w.
func WriteJSONError(w io.Writer, cmd string, err error) error {
	result := JSONResult{
		OK:      false,
		Command: cmd,
		Version: version.Version,
		Error:   err.Error(),
		Kind:    errs.KindOf(err),
		Code:    ExitCode(err),
	}
	if encErr := encode(w, result); encErr != nil {
		return fmt.Errorf("could not encode JSON error: %w", encErr)
	}
	return nil
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
