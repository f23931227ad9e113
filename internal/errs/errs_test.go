package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapAndKindOf(t *testing.T) {
	cause := os.ErrNotExist
	err := Wrap(cause, IOUnavailable, "list", "could not read directory").WithPath("/nope")

	assert.Equal(t, IOUnavailable, KindOf(err))
	assert.True(t, Is(err, IOUnavailable))
	assert.False(t, Is(err, EditRejected))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "/nope")
	assert.Contains(t, err.Error(), "could not read directory")
}

func TestKindSurvivesFmtWrapping(t *testing.T) {
	inner := New(NoActiveSelection, "chart", "select a worksheet first")
	outer := fmt.Errorf("chart failed: %w", inner)

	assert.Equal(t, NoActiveSelection, KindOf(outer))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, Is(nil, IOUnavailable))
}

func TestLabels(t *testing.T) {
	for _, k := range []Kind{IOUnavailable, WorkbookUnreadable, EditRejected, NoActiveSelection} {
		assert.NotEqual(t, "error", k.Label(), string(k))
	}
	assert.Equal(t, "error", Kind("OTHER").Label())
}
