// Package cmd contains all CLI commands for the sheetkit binary.
package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/cmd/audit"
	"github.com/klytics/sheetkit/cmd/completion"
	cmdconfig "github.com/klytics/sheetkit/cmd/config"
	"github.com/klytics/sheetkit/cmd/doctor"
	"github.com/klytics/sheetkit/cmd/sheet"
	"github.com/klytics/sheetkit/cmd/shell"
	"github.com/klytics/sheetkit/cmd/tui"
	"github.com/klytics/sheetkit/cmd/version"
	"github.com/klytics/sheetkit/cmd/watch"
	"github.com/klytics/sheetkit/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetkit [dir]",
		Short: "Browse, preview and edit spreadsheets from the terminal",
		Long: `sheetkit lists the spreadsheets in a directory with their worksheets,
previews a worksheet as a table, writes text into a cell, and inserts charts.

Run without a subcommand to open the terminal UI.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		RunE: tui.Run,
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	for _, c := range sheet.NewCommands() {
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(tui.NewCommand())
	rootCmd.AddCommand(shell.NewCommand())
	rootCmd.AddCommand(watch.NewCommand())
	rootCmd.AddCommand(audit.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command, reports any error with its kind, and exits
// with the matching code.
func Execute() {
	rootCmd := NewRootCommand()
	c, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	if jsonOutput {
		_ = output.PrintJSONError(c.Name(), err)
	} else {
		output.WriteError(err)
	}
	os.Exit(output.ExitCode(err))
}
