package xlsx

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klytics/sheetkit/internal/errs"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want ChartKind
		ok   bool
	}{
		{"Line", ChartLine, true},
		{"bar", ChartBar, true},
		{" Pie ", ChartPie, true},
		{"AREA", ChartArea, true},
		{"Doughnut", ChartDoughnut, true},
		{"Scatter", ChartDoughnut, false},
		{"", ChartDoughnut, false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestParseRange(t *testing.T) {
	refs, err := ParseRange("Sheet1", "A1:B5")
	require.NoError(t, err)
	assert.Equal(t, []string{"'Sheet1'!$A$1:$A$5", "'Sheet1'!$B$1:$B$5"}, refs)
}

func TestParseRangeQualifiedSameSheet(t *testing.T) {
	refs, err := ParseRange("Sheet1", "Sheet1!$B$5:$A$1")
	require.NoError(t, err)
	assert.Equal(t, []string{"'Sheet1'!$A$1:$A$5", "'Sheet1'!$B$1:$B$5"}, refs)
}

func TestParseRangeQualifierIgnoresCase(t *testing.T) {
	refs, err := ParseRange("Sheet1", "sheet1!A1:A3")
	require.NoError(t, err)
	assert.Equal(t, []string{"'Sheet1'!$A$1:$A$3"}, refs)
}

func TestParseRangeQuotesSheetNames(t *testing.T) {
	refs, err := ParseRange("Q1 Sales's", "'Q1 Sales''s'!C2:C4")
	require.NoError(t, err)
	assert.Equal(t, []string{"'Q1 Sales''s'!$C$2:$C$4"}, refs)
}

func TestParseRangeSingleCell(t *testing.T) {
	refs, err := ParseRange("Data", "d7")
	require.NoError(t, err)
	assert.Equal(t, []string{"'Data'!$D$7:$D$7"}, refs)
}

func TestParseRangeRejects(t *testing.T) {
	for _, raw := range []string{"", "A1:B2:C3", "A:B", "Other!A1:B2", "1A:B2"} {
		_, err := ParseRange("Sheet1", raw)
		assert.True(t, errs.Is(err, errs.EditRejected), "range %q: %v", raw, err)
	}
}

func TestLoadChartSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
kind: Line
range: A1:B5
title: Revenue
x_title: Quarter
y_title: USD
destination: D2
width: 640
`), 0644))

	spec, err := LoadChartSpec(path)
	require.NoError(t, err)
	assert.Equal(t, "Line", spec.Kind)
	assert.Equal(t, "A1:B5", spec.Range)
	assert.Equal(t, "Revenue", spec.Title)
	assert.Equal(t, "Quarter", spec.XTitle)
	assert.Equal(t, "USD", spec.YTitle)
	assert.Equal(t, "D2", spec.Destination)
	assert.Equal(t, uint(640), spec.Width)
}

func TestLoadChartSpecErrors(t *testing.T) {
	_, err := LoadChartSpec(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errs.Is(err, errs.IOUnavailable))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("kind: [unclosed"), 0644))
	_, err = LoadChartSpec(bad)
	assert.True(t, errs.Is(err, errs.EditRejected))
}

func chartXML(t *testing.T, path string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var sb strings.Builder
	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, "xl/charts/chart") {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		sb.Write(data)
	}
	return sb.String()
}

func TestAddChartPersists(t *testing.T) {
	path := writeFixture(t, t.TempDir())

	book, err := Open(path)
	require.NoError(t, err)
	err = book.AddChart("Sheet2", ChartSpec{
		Kind:        "Bar",
		Range:       "B1:B3",
		Title:       "Revenue",
		XTitle:      "Quarter",
		YTitle:      "USD",
		Destination: "D1",
	})
	require.NoError(t, err)
	require.NoError(t, book.Save())
	require.NoError(t, book.Close())

	xml := chartXML(t, path)
	assert.Contains(t, xml, "barChart")
	assert.Contains(t, xml, "$B$1:$B$3")
	assert.Contains(t, xml, "Revenue")

	names, err := ListWorksheets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Sheet2"}, names)
}

func TestAddChartInvalidDestination(t *testing.T) {
	path := writeFixture(t, t.TempDir())

	book, err := Open(path)
	require.NoError(t, err)
	defer book.Close()

	err = book.AddChart("Sheet1", ChartSpec{Kind: "Line", Range: "A1:B2", Destination: "nowhere"})
	assert.True(t, errs.Is(err, errs.EditRejected), "got %v", err)
}

func TestChartSpecMerge(t *testing.T) {
	base := ChartSpec{Kind: "Pie", Width: 480, Title: "Old"}
	got := base.Merge(ChartSpec{Range: "A1:A3", Destination: "C1", Title: "New", Height: 300})

	assert.Equal(t, ChartSpec{
		Kind: "Pie", Range: "A1:A3", Destination: "C1",
		Title: "New", Width: 480, Height: 300,
	}, got)
	assert.Equal(t, "Old", base.Title, "receiver is not modified")
}
