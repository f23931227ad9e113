// Package errs defines the error kinds every sheetkit operation reports.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so each surface can report it distinctly.
type Kind string

const (
	// IOUnavailable means a directory or file could not be accessed.
	IOUnavailable Kind = "IO_UNAVAILABLE"
	// WorkbookUnreadable means a workbook exists but could not be parsed.
	WorkbookUnreadable Kind = "WORKBOOK_UNREADABLE"
	// EditRejected means a cell write or chart insert was refused or could not be saved.
	EditRejected Kind = "EDIT_REJECTED"
	// NoActiveSelection means an operation needed a selected worksheet and none was active.
	NoActiveSelection Kind = "NO_ACTIVE_SELECTION"
)

// Label returns a short human description of the kind.
func (k Kind) Label() string {
	switch k {
	case IOUnavailable:
		return "I/O unavailable"
	case WorkbookUnreadable:
		return "workbook unreadable"
	case EditRejected:
		return "edit rejected"
	case NoActiveSelection:
		return "no active selection"
	}
	return "error"
}

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Op      string
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithPath returns a copy of e carrying the given file or directory path.
func (e *Error) WithPath(path string) *Error {
	cp := *e
	cp.Path = path
	return &cp
}

// New creates a classified error without a cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Newf is New with a format string.
func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return New(kind, op, fmt.Sprintf(format, args...))
}

// Wrap classifies an underlying error.
func Wrap(err error, kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: err}
}

// KindOf returns the kind of the first classified error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err's chain carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
