package sheet

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/app"
	"github.com/klytics/sheetkit/internal/output"
)

func newSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <file> <sheet> <cell> <value>",
		Short: "Write text into a cell",
		Long: `Writes value into cell (A1 notation) of the worksheet and saves the
workbook in place. The value is stored as text, exactly as given.`,
		Example:           `  sheetkit set budget.xlsx Summary B4 "Approved"`,
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: completeFileSheet,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd, false)
			if err != nil {
				return err
			}
			nav := a.Navigator()
			defer nav.Close()

			file, sheet, cell, value := args[0], args[1], args[2], args[3]
			if _, err := nav.Select(file, sheet); err != nil {
				return err
			}
			if err := nav.WriteCell(cell, value); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if app.JSON(cmd) {
				return output.WriteJSON(out, "set", map[string]string{
					"file":  file,
					"sheet": sheet,
					"cell":  strings.ToUpper(cell),
					"value": value,
				})
			}
			output.PrintStatus(out, fmt.Sprintf("wrote %q to %s › %s!%s", value, file, sheet, strings.ToUpper(cell)), nil)
			return nil
		},
	}
	return cmd
}
