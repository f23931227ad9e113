// Package tui provides the "sheetkit tui" command.
package tui

import (
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/app"
	tuipkg "github.com/klytics/sheetkit/internal/tui"
)

// NewCommand creates the "tui" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [dir]",
		Short: "Open the terminal UI",
		Long: `Opens the two-panel terminal UI. The left panel browses a directory and
holds the cell and chart forms; the right panel previews the selected
worksheet. Logs go to ~/.sheetkit/sheetkit.log unless log.file is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: Run,
	}
}

// Run starts the terminal UI on args[0], or the configured directory.
func Run(cmd *cobra.Command, args []string) error {
	a, err := app.FromCommand(cmd, true)
	if err != nil {
		return err
	}
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}

	nav := a.Navigator()
	defer nav.Close()

	return tuipkg.Run(nav, tuipkg.Options{
		Dir:           a.StartDir(dir),
		Extensions:    a.Config.Extensions,
		ChartDefaults: a.ChartDefaults(),
		Watch:         true,
	})
}
