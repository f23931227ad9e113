// Package sheet provides the one-shot spreadsheet commands: ls, show, set
// and chart.
package sheet

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/fs"
)

// NewCommands returns the spreadsheet commands, registered at the top level.
func NewCommands() []*cobra.Command {
	return []*cobra.Command{
		newLsCommand(),
		newShowCommand(),
		newSetCommand(),
		newChartCommand(),
	}
}

// completeFileSheet completes a workbook path first, then its worksheets.
func completeFileSheet(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		exts := make([]string, 0, len(fs.DefaultExtensions))
		for _, e := range fs.DefaultExtensions {
			exts = append(exts, strings.TrimPrefix(e, "."))
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	case 1:
		sheets, err := xlsx.ListWorksheets(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var out []string
		for _, s := range sheets {
			if strings.HasPrefix(s, toComplete) {
				out = append(out, s)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
