package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmptyCellsRenderAsSpace(t *testing.T) {
	g := Build("Sheet1", [][]string{
		{"Name", "Age"},
		{"Alice", ""},
		{"", "25"},
		{"Carol"},
	}, Options{})

	require.Len(t, g.Rows, 3)
	assert.Equal(t, []string{"Alice", " "}, g.Rows[0])
	assert.Equal(t, []string{" ", "25"}, g.Rows[1])
	assert.Equal(t, []string{"Carol", " "}, g.Rows[2])

	for _, row := range g.Rows {
		for _, cell := range row {
			assert.NotEqual(t, "", cell)
		}
	}
}

func TestBuildUnnamedHeaderIsBlank(t *testing.T) {
	g := Build("Sheet1", [][]string{
		{"", "Total"},
		{"a", "1"},
	}, Options{})

	assert.Equal(t, []string{"Unnamed: 0", "Total"}, g.Columns)
	assert.Equal(t, []string{Blank, "Total"}, g.Headers)
}

func TestBuildHeaderWiderRows(t *testing.T) {
	g := Build("S", [][]string{
		{"A"},
		{"1", "2", "3"},
	}, Options{})

	assert.Equal(t, []string{"A", "Unnamed: 1", "Unnamed: 2"}, g.Columns)
	assert.Equal(t, []string{"A", Blank, Blank}, g.Headers)
	assert.Equal(t, 3, g.Width())
}

func TestBuildLiteralUnnamedHeader(t *testing.T) {
	g := Build("S", [][]string{{"Unnamed: 0", "B"}, {"x", "y"}}, Options{})
	assert.Equal(t, Blank, g.Headers[0])
	assert.Equal(t, "B", g.Headers[1])
}

func TestBuildDuplicateHeaders(t *testing.T) {
	g := Build("S", [][]string{{"A", "A", "A.1", "A"}}, Options{})
	assert.Equal(t, []string{"A", "A.1", "A.1.1", "A.2"}, g.Columns)
}

func TestBuildSkipsBlankRows(t *testing.T) {
	g := Build("S", [][]string{
		{},
		{"", "", ""},
		{"", "Name", "Qty"},
		{"", "apple", ""},
		{"", "", ""},
		{"", "", "7"},
	}, Options{})

	assert.Equal(t, []string{"Unnamed: 0", "Name", "Qty"}, g.Columns)
	assert.Equal(t, []string{Blank, "Name", "Qty"}, g.Headers)
	assert.Equal(t, [][]string{
		{Blank, "apple", Blank},
		{Blank, Blank, "7"},
	}, g.Rows)
}

func TestBuildAllBlankRowsIsEmpty(t *testing.T) {
	g := Build("S", [][]string{{""}, {"", ""}}, Options{})
	assert.True(t, g.Empty())
}

func TestBuildEmptySheet(t *testing.T) {
	g := Build("S", nil, Options{})
	assert.True(t, g.Empty())
	assert.Empty(t, g.Rows)
}

func TestBuildHeaderOnly(t *testing.T) {
	g := Build("S", [][]string{{"A", "B"}}, Options{})
	assert.False(t, g.Empty())
	assert.Empty(t, g.Rows)
}

func TestBuildMaxRows(t *testing.T) {
	g := Build("S", [][]string{{"A"}, {"1"}, {"2"}, {"3"}}, Options{MaxRows: 2})
	assert.Len(t, g.Rows, 2)
	assert.True(t, g.Truncated)
}

func TestWriteText(t *testing.T) {
	color.NoColor = true
	g := Build("Revenue", [][]string{
		{"Quarter", ""},
		{"Q1", "100"},
	}, Options{})

	var buf bytes.Buffer
	require.NoError(t, g.WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "Sheet: Revenue")
	assert.Contains(t, out, "Quarter")
	assert.NotContains(t, out, "Unnamed")
	assert.Contains(t, out, "(1 rows)")
}

func TestWriteTextTruncatesWideCells(t *testing.T) {
	color.NoColor = true
	long := strings.Repeat("x", 60)
	g := Build("S", [][]string{{"H"}, {long}}, Options{})

	var buf bytes.Buffer
	require.NoError(t, g.WriteText(&buf))
	assert.NotContains(t, buf.String(), long)
	assert.Contains(t, buf.String(), "~")
}

func TestWriteCSV(t *testing.T) {
	g := Build("S", [][]string{{"", "B"}, {"1", ""}}, Options{})

	var buf bytes.Buffer
	require.NoError(t, g.WriteCSV(&buf))
	// encoding/csv quotes fields that start with a space.
	assert.Equal(t, "\" \",B\n1,\" \"\n", buf.String())
}
