package xlsx

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/klytics/sheetkit/internal/errs"
)

// ChartKind names a supported chart type.
type ChartKind string

const (
	ChartLine     ChartKind = "Line"
	ChartBar      ChartKind = "Bar"
	ChartPie      ChartKind = "Pie"
	ChartArea     ChartKind = "Area"
	ChartDoughnut ChartKind = "Doughnut"
)

// ChartKinds lists the supported kinds in menu order.
var ChartKinds = []ChartKind{ChartLine, ChartBar, ChartPie, ChartArea, ChartDoughnut}

// ParseKind maps a user-entered kind to a ChartKind. Unrecognized input falls
// back to Doughnut; ok reports whether the input was recognized.
func ParseKind(s string) (kind ChartKind, ok bool) {
	for _, k := range ChartKinds {
		if strings.EqualFold(strings.TrimSpace(s), string(k)) {
			return k, true
		}
	}
	return ChartDoughnut, false
}

func (k ChartKind) excelType() excelize.ChartType {
	switch k {
	case ChartLine:
		return excelize.Line
	case ChartBar:
		// Vertical clustered bars.
		return excelize.Col
	case ChartPie:
		return excelize.Pie
	case ChartArea:
		return excelize.Area
	}
	return excelize.Doughnut
}

// ChartSpec describes one chart to insert. Range may be bare ("A1:B5") or
// qualified with the target sheet ("Sheet1!A1:B5").
type ChartSpec struct {
	Kind        string `yaml:"kind" json:"kind"`
	Range       string `yaml:"range" json:"range"`
	XTitle      string `yaml:"x_title" json:"xTitle,omitempty"`
	YTitle      string `yaml:"y_title" json:"yTitle,omitempty"`
	Title       string `yaml:"title" json:"title,omitempty"`
	Destination string `yaml:"destination" json:"destination"`
	Width       uint   `yaml:"width,omitempty" json:"width,omitempty"`
	Height      uint   `yaml:"height,omitempty" json:"height,omitempty"`
}

// Merge returns s with every non-zero field of over applied on top.
func (s ChartSpec) Merge(over ChartSpec) ChartSpec {
	if over.Kind != "" {
		s.Kind = over.Kind
	}
	if over.Range != "" {
		s.Range = over.Range
	}
	if over.Destination != "" {
		s.Destination = over.Destination
	}
	if over.Title != "" {
		s.Title = over.Title
	}
	if over.XTitle != "" {
		s.XTitle = over.XTitle
	}
	if over.YTitle != "" {
		s.YTitle = over.YTitle
	}
	if over.Width != 0 {
		s.Width = over.Width
	}
	if over.Height != 0 {
		s.Height = over.Height
	}
	return s
}

// LoadChartSpec reads a ChartSpec from a YAML file.
func LoadChartSpec(path string) (*ChartSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.IOUnavailable, "chart-spec", "could not read chart spec").WithPath(path)
	}
	var spec ChartSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errs.Wrap(err, errs.EditRejected, "chart-spec", "invalid chart spec").WithPath(path)
	}
	return &spec, nil
}

// cellRange is a normalized rectangular block, 1-based and inclusive.
type cellRange struct {
	col1, row1, col2, row2 int
}

// ParseRange validates raw against sheet and returns the absolute,
// sheet-qualified reference for each column of the block.
func ParseRange(sheet, raw string) ([]string, error) {
	r, err := parseRange(sheet, raw)
	if err != nil {
		return nil, err
	}
	var refs []string
	for c := r.col1; c <= r.col2; c++ {
		col, err := excelize.ColumnNumberToName(c)
		if err != nil {
			return nil, errs.Wrap(err, errs.EditRejected, "range", "invalid range "+raw)
		}
		refs = append(refs, fmt.Sprintf("%s!$%s$%d:$%s$%d", quoteSheet(sheet), col, r.row1, col, r.row2))
	}
	return refs, nil
}

func parseRange(sheet, raw string) (cellRange, error) {
	ref := strings.TrimSpace(raw)
	if ref == "" {
		return cellRange{}, errs.New(errs.EditRejected, "range", "chart range is empty")
	}

	if i := strings.LastIndex(ref, "!"); i >= 0 {
		qualifier := unquoteSheet(ref[:i])
		if !strings.EqualFold(qualifier, sheet) {
			return cellRange{}, errs.Newf(errs.EditRejected, "range",
				"range %q refers to sheet %q, but %q is selected", raw, qualifier, sheet)
		}
		ref = ref[i+1:]
	}

	parts := strings.Split(ref, ":")
	if len(parts) > 2 {
		return cellRange{}, errs.New(errs.EditRejected, "range", "invalid range "+raw)
	}

	var coords [2][2]int
	for i := 0; i < 2; i++ {
		p := parts[0]
		if i < len(parts) {
			p = parts[i]
		}
		cell, err := NormalizeCell(p)
		if err != nil {
			return cellRange{}, errs.Wrap(err, errs.EditRejected, "range", "invalid range "+raw)
		}
		col, row, err := excelize.CellNameToCoordinates(cell)
		if err != nil {
			return cellRange{}, errs.Wrap(err, errs.EditRejected, "range", "invalid range "+raw)
		}
		coords[i] = [2]int{col, row}
	}

	r := cellRange{col1: coords[0][0], row1: coords[0][1], col2: coords[1][0], row2: coords[1][1]}
	if r.col1 > r.col2 {
		r.col1, r.col2 = r.col2, r.col1
	}
	if r.row1 > r.row2 {
		r.row1, r.row2 = r.row2, r.row1
	}
	return r, nil
}

func buildChart(sheet string, spec ChartSpec) (*excelize.Chart, string, error) {
	anchor, err := NormalizeCell(spec.Destination)
	if err != nil {
		return nil, "", errs.Wrap(err, errs.EditRejected, "insert-chart", "invalid destination cell")
	}

	refs, err := ParseRange(sheet, spec.Range)
	if err != nil {
		return nil, "", err
	}

	kind, _ := ParseKind(spec.Kind)
	chart := &excelize.Chart{
		Type:      kind.excelType(),
		Dimension: excelize.ChartDimension{Width: spec.Width, Height: spec.Height},
	}
	for _, ref := range refs {
		chart.Series = append(chart.Series, excelize.ChartSeries{Values: ref})
	}
	if spec.Title != "" {
		chart.Title = []excelize.RichTextRun{{Text: spec.Title}}
	}
	if spec.XTitle != "" {
		chart.XAxis.Title = []excelize.RichTextRun{{Text: spec.XTitle}}
	}
	if spec.YTitle != "" {
		chart.YAxis.Title = []excelize.RichTextRun{{Text: spec.YTitle}}
	}
	return chart, anchor, nil
}

// quoteSheet renders a sheet name in range syntax. Names are always quoted,
// which Excel accepts for every name.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func unquoteSheet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}
