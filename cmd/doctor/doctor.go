// Package doctor provides the "sheetkit doctor" command for checking that the
// environment can browse and edit workbooks.
package doctor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/app"
	"github.com/klytics/sheetkit/internal/config"
	"github.com/klytics/sheetkit/internal/fs"
	"github.com/klytics/sheetkit/internal/output"
)

// Check statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and environment",
		Long:  "Run diagnostic checks to verify sheetkit is properly configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd, false)
			if err != nil {
				return err
			}
			checks := runChecks(a)

			out := cmd.OutOrStdout()
			if app.JSON(cmd) {
				return output.WriteJSON(out, "doctor", checks)
			}

			errCount := printChecks(out, checks)
			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

func printChecks(w io.Writer, checks []Check) int {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(w, "sheetkit doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	okCount, warnCount, errCount := 0, 0, 0
	for _, c := range checks {
		var icon string
		switch c.Status {
		case StatusOK:
			icon = green("✓")
			okCount++
		case StatusWarning:
			icon = yellow("!")
			warnCount++
		case StatusError:
			icon = red("✗")
			errCount++
		}
		fmt.Fprintf(w, "  %s %s: %s\n", icon, c.Name, c.Message)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)
	return errCount
}

func runChecks(a *app.App) []Check {
	checks := []Check{{
		Name:    "Go Runtime",
		Status:  StatusOK,
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}}

	if _, err := os.Stat(config.ConfigPath()); err == nil {
		checks = append(checks, Check{"Config File", StatusOK, config.ConfigPath()})
	} else {
		checks = append(checks, Check{"Config File", StatusWarning,
			"not found, using defaults; run 'sheetkit config set' to create it"})
	}

	dir := a.StartDir("")
	if files, err := fs.List(dir, fs.ListOptions{Extensions: a.Config.Extensions}); err != nil {
		checks = append(checks, Check{"Start Directory", StatusError, err.Error()})
	} else {
		checks = append(checks, Check{"Start Directory", StatusOK,
			fmt.Sprintf("%s (%d spreadsheets)", dir, len(files))})
	}

	checks = append(checks, Check{"Extensions", StatusOK, strings.Join(a.Config.Extensions, ", ")})
	checks = append(checks, auditCheck(a))

	if w, err := fsnotify.NewWatcher(); err != nil {
		checks = append(checks, Check{"File Watching", StatusWarning,
			fmt.Sprintf("unavailable (%v); the UI will not refresh on changes", err)})
	} else {
		w.Close()
		checks = append(checks, Check{"File Watching", StatusOK, "available"})
	}

	pager := strings.TrimSpace(os.Getenv("PAGER"))
	if pager == "" {
		pager = "less"
	}
	if _, err := exec.LookPath(strings.Fields(pager)[0]); err == nil {
		checks = append(checks, Check{"Pager", StatusOK, pager})
	} else {
		checks = append(checks, Check{"Pager", StatusWarning,
			pager + " not found in PATH; long previews print directly"})
	}

	return checks
}

// auditCheck verifies that the edit log directory can be written.
func auditCheck(a *app.App) Check {
	if !a.Config.Audit.Enabled {
		return Check{"Edit Log", StatusWarning, "disabled (audit.enabled=false)"}
	}
	dir := filepath.Dir(a.Config.Audit.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Check{"Edit Log", StatusError, err.Error()}
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return Check{"Edit Log", StatusError, fmt.Sprintf("%s is not writable: %v", dir, err)}
	}
	f.Close()
	os.Remove(f.Name())
	return Check{"Edit Log", StatusOK, a.Config.Audit.Path}
}
