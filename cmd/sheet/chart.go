package sheet

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/app"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/output"
)

func newChartCommand() *cobra.Command {
	var (
		specFile string
		flags    xlsx.ChartSpec
	)

	cmd := &cobra.Command{
		Use:   "chart <file> <sheet>",
		Short: "Insert a chart into a worksheet",
		Long: `Inserts a Line, Bar, Pie, Area or Doughnut chart built from a range of the
worksheet, one series per column, anchored at the destination cell. An
unrecognized kind falls back to Doughnut.

Settings can come from a YAML file (--spec); flags override it:

  kind: Bar
  range: B1:B5
  destination: D2
  title: Revenue
  x_title: Quarter
  y_title: EUR`,
		Example:           `  sheetkit chart sales.xlsx Q3 --kind Bar --range B1:C5 --dest E2 --title Revenue`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFileSheet,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd, false)
			if err != nil {
				return err
			}

			spec := a.ChartDefaults()
			if specFile != "" {
				loaded, err := xlsx.LoadChartSpec(specFile)
				if err != nil {
					return err
				}
				spec = spec.Merge(*loaded)
			}
			spec = spec.Merge(flags)

			nav := a.Navigator()
			defer nav.Close()

			if _, err := nav.Select(args[0], args[1]); err != nil {
				return err
			}
			if err := nav.InsertChart(spec); err != nil {
				return err
			}

			kind, _ := xlsx.ParseKind(spec.Kind)
			spec.Kind = string(kind)

			out := cmd.OutOrStdout()
			if app.JSON(cmd) {
				return output.WriteJSON(out, "chart", spec)
			}
			output.PrintStatus(out, fmt.Sprintf("inserted %s chart of %s at %s in %s › %s",
				kind, spec.Range, spec.Destination, args[0], args[1]), nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&specFile, "spec", "", "YAML chart spec file")
	cmd.Flags().StringVar(&flags.Kind, "kind", "", "Chart kind: Line, Bar, Pie, Area, Doughnut")
	cmd.Flags().StringVar(&flags.Range, "range", "", "Data range, e.g. B1:B5 or Sheet1!B1:B5")
	cmd.Flags().StringVar(&flags.Destination, "dest", "", "Cell the chart is anchored at")
	cmd.Flags().StringVar(&flags.Title, "title", "", "Chart title")
	cmd.Flags().StringVar(&flags.XTitle, "x-title", "", "X axis title")
	cmd.Flags().StringVar(&flags.YTitle, "y-title", "", "Y axis title")
	cmd.Flags().UintVar(&flags.Width, "width", 0, "Width in pixels")
	cmd.Flags().UintVar(&flags.Height, "height", 0, "Height in pixels")

	_ = cmd.RegisterFlagCompletionFunc("kind", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		kinds := make([]string, len(xlsx.ChartKinds))
		for i, k := range xlsx.ChartKinds {
			kinds[i] = string(k)
		}
		return kinds, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
