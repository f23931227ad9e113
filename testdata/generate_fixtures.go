//go:build ignore

// This program generates the sample workbook used by the benchmarks and for
// trying sheetkit by hand: go run testdata/generate_fixtures.go
package main

import (
	"fmt"
	"os"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
)

func main() {
	if err := generateXlsx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sample.xlsx: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Test fixtures generated successfully.")
}

func generateXlsx() error {
	wb := &xlsx.Workbook{
		Sheets: []xlsx.Sheet{
			{
				Name: "Revenue",
				Rows: [][]string{
					{"Quarter", "Product", "Revenue", "Growth"},
					{"Q1 2024", "Enterprise", "1250000", "12%"},
					{"Q1 2024", "SMB", "450000", "8%"},
					{"Q1 2024", "Consumer", "320000", "15%"},
					{"Q2 2024", "Enterprise", "1380000", "10%"},
					{"Q2 2024", "SMB", "520000", "16%"},
					{"Q2 2024", "Consumer", "350000", "9%"},
					{"Q3 2024", "Enterprise", "1450000", "5%"},
					{"Q3 2024", "SMB", "580000", "12%"},
					{"Q3 2024", "Consumer", "410000", "17%"},
					{"Q4 2024", "Enterprise", "1620000", "12%"},
					{"Q4 2024", "SMB", "640000", "10%"},
					{"Q4 2024", "Consumer", "480000", "17%"},
				},
			},
			{
				// Blank first header and sparse cells exercise the preview
				// placeholders.
				Name: "Q3 plan",
				Rows: [][]string{
					{"", "Budget", "Owner"},
					{"Marketing", "120000", ""},
					{"Engineering", "", "cto"},
					{"Sales", "90000", "vp-sales"},
				},
			},
			{
				Name: "Summary",
				Rows: [][]string{
					{"Metric", "Value"},
					{"Total Revenue", "8450000"},
					{"YoY Growth", "12.3%"},
					{"Top Product", "Enterprise"},
					{"Fastest Growth", "Consumer"},
				},
			},
		},
	}

	return xlsx.WriteFile(wb, "testdata/sample.xlsx")
}
