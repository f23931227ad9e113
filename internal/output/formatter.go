// Package output provides formatting utilities for CLI output.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/klytics/sheetkit/internal/errs"
)

// Format represents an output format.
type Format int

const (
	// FormatText is human-readable text output.
	FormatText Format = iota
	// FormatJSON is the JSON envelope.
	FormatJSON
	// FormatCSV is comma-separated values.
	FormatCSV
)

// Writer handles formatted output to a destination.
type Writer struct {
	dest   io.Writer
	format Format
}

// NewWriter creates a writer to stdout with the given format.
func NewWriter(format Format) *Writer {
	return NewWriterTo(os.Stdout, format)
}

// NewWriterTo creates a writer to dest.
func NewWriterTo(dest io.Writer, format Format) *Writer {
	return &Writer{dest: dest, format: format}
}

// Format returns the writer's format.
func (w *Writer) Format() Format { return w.format }

// Dest returns the underlying destination.
func (w *Writer) Dest() io.Writer { return w.dest }

// Result writes data for command cmd. JSON writers wrap it in the envelope;
// text writers call text.
func (w *Writer) Result(cmd string, data interface{}, text func(io.Writer) error) error {
	if w.format == FormatJSON {
		return WriteJSON(w.dest, cmd, data)
	}
	return text(w.dest)
}

// Fail reports err for command cmd and returns it unchanged.
func (w *Writer) Fail(cmd string, err error) error {
	if w.format == FormatJSON {
		_ = WriteJSONError(w.dest, cmd, err)
		return err
	}
	return err
}

// WriteLn writes a line of text.
func (w *Writer) WriteLn(s string) error {
	_, err := fmt.Fprintln(w.dest, s)
	return err
}

var (
	okStyle   = color.New(color.FgGreen)
	failStyle = color.New(color.FgRed)
	kindStyle = color.New(color.FgYellow, color.Bold)
)

// StatusLine renders the one-line outcome of an operation: a check mark and
// msg on success, otherwise the error kind and message.
func StatusLine(msg string, err error) string {
	if err == nil {
		return okStyle.Sprint("✓ ") + msg
	}
	kind := errs.KindOf(err)
	if kind == "" {
		return failStyle.Sprint("✗ ") + err.Error()
	}
	return failStyle.Sprint("✗ ") + kindStyle.Sprintf("[%s]", kind) + " " + err.Error()
}

// PrintStatus writes StatusLine to w.
func PrintStatus(w io.Writer, msg string, err error) {
	fmt.Fprintln(w, StatusLine(msg, err))
}

// WriteError writes an error message to stderr.
func WriteError(err error) {
	fmt.Fprintln(os.Stderr, StatusLine("", err))
}
