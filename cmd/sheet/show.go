package sheet

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/app"
	"github.com/klytics/sheetkit/internal/output"
	"github.com/klytics/sheetkit/internal/preview"
)

func newShowCommand() *cobra.Command {
	var (
		csvOutput bool
		limit     int
		noPager   bool
	)

	cmd := &cobra.Command{
		Use:   "show <file> <sheet>",
		Short: "Preview a worksheet as a table",
		Long: `Shows a worksheet with its first row as column headers. Empty cells and
unnamed columns are shown blank. Supports pretty-printed table, CSV and JSON
output.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFileSheet,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd, false)
			if err != nil {
				return err
			}
			nav := a.Navigator()
			defer nav.Close()

			s, err := nav.Select(args[0], args[1])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("limit") {
				limit = a.Config.Preview.MaxRows
			}
			g, err := s.Preview(preview.Options{MaxRows: limit})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case app.JSON(cmd):
				return output.WriteJSON(out, "show", g)
			case csvOutput:
				return g.WriteCSV(out)
			}

			var buf bytes.Buffer
			if err := g.WriteText(&buf); err != nil {
				return err
			}
			if !noPager && output.ShouldPage(buf.String(), output.TermHeight()) {
				if err := output.Page(buf.String()); err == nil {
					return nil
				}
			}
			_, err = fmt.Fprint(out, buf.String())
			return err
		},
	}

	cmd.Flags().BoolVar(&csvOutput, "csv", false, "Output as CSV")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most N data rows (0 = all)")
	cmd.Flags().BoolVar(&noPager, "no-pager", false, "Never pipe output through a pager")
	return cmd
}
