// Package shell provides the "sheetkit shell" interactive REPL command.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/app"
	shellpkg "github.com/klytics/sheetkit/internal/shell"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	var evalCmds []string

	cmd := &cobra.Command{
		Use:   "shell [dir]",
		Short: "Start an interactive sheetkit shell",
		Long: `Start an interactive REPL with a persistent selection and tab completion.

Open a directory, select a worksheet once, then write cells, insert charts
and preview without naming the file again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd, false)
			if err != nil {
				return err
			}
			nav := a.Navigator()
			defer nav.Close()

			session := shellpkg.NewSession(nav)
			session.ChartDefaults = a.ChartDefaults()

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			if err := session.Open(a.StartDir(dir)); err != nil && len(evalCmds) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			}

			if len(evalCmds) > 0 {
				for _, line := range evalCmds {
					output, err := session.Eval(cmd.Context(), line)
					fmt.Fprint(cmd.OutOrStdout(), output)
					if errors.Is(err, shellpkg.ErrExit) {
						return nil
					}
					if err != nil {
						return err
					}
					if output != "" && !strings.HasSuffix(output, "\n") {
						fmt.Fprintln(cmd.OutOrStdout())
					}
				}
				return nil
			}
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringArrayVar(&evalCmds, "eval", nil, "Run a command and exit (repeatable, run in order)")
	return cmd
}
