package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klytics/sheetkit/internal/errs"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitUserError, ExitCode(errors.New("bad flag")))
	assert.Equal(t, ExitUserError, ExitCode(errs.New(errs.NoActiveSelection, "select", "x")))
	assert.Equal(t, ExitUserError, ExitCode(errs.New(errs.EditRejected, "cell", "x")))
	assert.Equal(t, ExitSystemError, ExitCode(errs.New(errs.EditRejected, "save", "x")))
	assert.Equal(t, ExitSystemError, ExitCode(errs.New(errs.IOUnavailable, "list", "x")))
	assert.Equal(t, ExitSystemError, ExitCode(errs.New(errs.WorkbookUnreadable, "open", "x")))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, "ls", []string{"a.xlsx"}))

	var res JSONResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.True(t, res.OK)
	assert.Equal(t, "ls", res.Command)
	assert.Empty(t, res.Kind)
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := errs.New(errs.WorkbookUnreadable, "open", "is this a valid .xlsx file?").WithPath("/x.xlsx")
	require.NoError(t, WriteJSONError(&buf, "show", err))

	var res JSONResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.False(t, res.OK)
	assert.Equal(t, errs.WorkbookUnreadable, res.Kind)
	assert.Equal(t, ExitSystemError, res.Code)
	assert.Contains(t, res.Error, "/x.xlsx")
}

func TestStatusLine(t *testing.T) {
	color.NoColor = true

	assert.Equal(t, "✓ wrote B2", StatusLine("wrote B2", nil))
	line := StatusLine("", errs.New(errs.NoActiveSelection, "insert-chart", "select a worksheet first"))
	assert.Equal(t, "✗ [NO_ACTIVE_SELECTION] select a worksheet first", line)
	assert.Equal(t, "✗ boom", StatusLine("", errors.New("boom")))
}

func TestWriterResult(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterTo(&buf, FormatText)
	require.NoError(t, w.Result("ls", nil, func(out io.Writer) error {
		_, err := io.WriteString(out, "plain\n")
		return err
	}))
	assert.Equal(t, "plain\n", buf.String())

	buf.Reset()
	w = NewWriterTo(&buf, FormatJSON)
	require.NoError(t, w.Result("ls", map[string]int{"n": 1}, nil))
	assert.Contains(t, buf.String(), `"ok": true`)
}

func TestTermHeight(t *testing.T) {
	t.Setenv("LINES", "12")
	assert.Equal(t, 12, TermHeight())
	t.Setenv("LINES", "")
	assert.Equal(t, defaultTermHeight, TermHeight())
}
