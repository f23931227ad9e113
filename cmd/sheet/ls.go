package sheet

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/app"
	"github.com/klytics/sheetkit/internal/output"
	"github.com/klytics/sheetkit/internal/session"
)

func newLsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List spreadsheets and their worksheets",
		Long: `Lists the spreadsheet files directly inside a directory, in directory
order, with the worksheets of each. Files that cannot be read are listed with
the reason.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd, false)
			if err != nil {
				return err
			}
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			dir = a.StartDir(dir)

			nav := a.Navigator()
			defer nav.Close()

			tree, err := nav.Browse(dir)
			if err != nil {
				return err
			}

			format := output.FormatText
			if app.JSON(cmd) {
				format = output.FormatJSON
			}
			w := output.NewWriterTo(cmd.OutOrStdout(), format)
			return w.Result("ls", tree, func(out io.Writer) error {
				printTree(out, dir, tree)
				return nil
			})
		},
	}
	return cmd
}

func printTree(w io.Writer, dir string, tree []session.TreeEntry) {
	header := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	header.Fprintf(w, "%s\n", dir)
	if len(tree) == 0 {
		dim.Fprintln(w, "  (no spreadsheets)")
		return
	}
	for _, e := range tree {
		fmt.Fprintf(w, "  %s ", e.File.Name)
		dim.Fprintf(w, "(%s, %s)\n", e.File.Format, formatSize(e.File.Size))
		if e.Err != nil {
			fmt.Fprintf(w, "    %s\n", output.StatusLine("", e.Err))
			continue
		}
		for _, s := range e.Sheets {
			fmt.Fprintf(w, "    └ %s\n", s)
		}
	}
}

func formatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}
