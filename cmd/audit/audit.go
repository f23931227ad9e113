// Package audit provides the "sheetkit log" commands for the edit trail.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/app"
	auditpkg "github.com/klytics/sheetkit/internal/audit"
	"github.com/klytics/sheetkit/internal/output"
)

// NewCommand creates the "log" command with its subcommands.
func NewCommand() *cobra.Command {
	var (
		last   int
		op     string
		since  string
		path   string
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the trail of selections and edits",
		Long: `Shows recent entries of the edit trail: every worksheet selection, cell
write and chart insert, with its outcome.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd, false)
			if err != nil {
				return err
			}
			logPath := a.Config.Audit.Path
			entries, err := auditpkg.ReadEntries(logPath)
			if err != nil {
				return err
			}

			f := auditpkg.Filter{Op: op, Path: path}
			if since != "" {
				t, err := parseSince(since)
				if err != nil {
					return err
				}
				f.Since = t
			}
			filtered := auditpkg.FilterEntries(entries, f)
			if last > 0 && len(filtered) > last {
				filtered = filtered[len(filtered)-last:]
			}

			out := cmd.OutOrStdout()
			if app.JSON(cmd) {
				if follow {
					return followEntries(cmd.Context(), out, logPath, f, true)
				}
				if filtered == nil {
					filtered = []auditpkg.Entry{}
				}
				return output.WriteJSON(out, "log", filtered)
			}
			printEntries(out, logPath, filtered)
			if follow {
				return followEntries(cmd.Context(), out, logPath, f, false)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&last, "last", 20, "Show last N entries")
	cmd.Flags().StringVar(&op, "op", "", "Filter by operation: select, write-cell, insert-chart")
	cmd.Flags().StringVar(&since, "since", "", "Entries since a date (YYYY-MM-DD) or duration ago (e.g. 2h)")
	cmd.Flags().StringVar(&path, "path", "", "Filter by workbook path substring")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new entries as they are written")

	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newStatusCmd())
	return cmd
}

// parseSince accepts a calendar date or a duration counted back from now.
func parseSince(s string) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return time.Now().Add(-d), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since %q (use YYYY-MM-DD or a duration like 2h)", s)
	}
	return t, nil
}

func printEntries(w io.Writer, logPath string, entries []auditpkg.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No log entries found.")
		return
	}

	fmt.Fprintf(w, "Edit log: %d entries\n", len(entries))
	fmt.Fprintf(w, "File: %s\n\n", logPath)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TIMESTAMP\tOP\tWORKBOOK\tSHEET\tTARGET\tDURATION\tRESULT\n")
	for _, e := range entries {
		ts := e.Timestamp.Format("2006-01-02 15:04:05")
		dur := fmt.Sprintf("%dms", e.DurationMs)
		if e.DurationMs >= 1000 {
			dur = fmt.Sprintf("%.1fs", float64(e.DurationMs)/1000)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			ts, e.Op, dash(e.Path), dash(e.Sheet), dash(e.Target), dur, result(e))
	}
	tw.Flush()
}

// followEntries prints entries appended to the log until ctx is done or the
// process is interrupted. JSON mode writes one entry per line.
func followEntries(ctx context.Context, w io.Writer, logPath string, f auditpkg.Filter, asJSON bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	follower, err := auditpkg.Follow(logPath)
	if err != nil {
		return err
	}
	defer follower.Stop()

	enc := json.NewEncoder(w)
	if !asJSON {
		fmt.Fprintln(w, "\nFollowing new entries (Ctrl+C to stop)...")
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-follower.Entries:
			if !ok {
				return nil
			}
			if len(auditpkg.FilterEntries([]auditpkg.Entry{e}, f)) == 0 {
				continue
			}
			if asJSON {
				if err := enc.Encode(e); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintln(w, formatEntry(e))
		}
	}
}

func formatEntry(e auditpkg.Entry) string {
	return fmt.Sprintf("%s  %-12s  %s  %s  %s  %s",
		e.Timestamp.Format("2006-01-02 15:04:05"), e.Op,
		dash(e.Path), dash(e.Sheet), dash(e.Target), result(e))
}

func result(e auditpkg.Entry) string {
	if e.OK() {
		return "ok"
	}
	if e.Kind == "" {
		return "error"
	}
	return e.Kind
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the edit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd, false)
			if err != nil {
				return err
			}
			path := a.Config.Audit.Path
			if err := auditpkg.Clear(path); err != nil {
				return err
			}
			if app.JSON(cmd) {
				return output.WriteJSON(cmd.OutOrStdout(), "log clear", map[string]string{"cleared": path})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Edit log cleared: %s\n", path)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show edit log path and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd, false)
			if err != nil {
				return err
			}
			path := a.Config.Audit.Path
			size := auditpkg.LogSize(path)
			entries, _ := auditpkg.ReadEntries(path)

			out := cmd.OutOrStdout()
			if app.JSON(cmd) {
				return output.WriteJSON(out, "log status", map[string]interface{}{
					"path":    path,
					"enabled": a.Config.Audit.Enabled,
					"size":    size,
					"entries": len(entries),
				})
			}

			fmt.Fprintf(out, "Edit log: %s\n", path)
			fmt.Fprintf(out, "Enabled:  %t\n", a.Config.Audit.Enabled)
			if size == 0 {
				fmt.Fprintln(out, "Size:     empty (no entries)")
			} else {
				fmt.Fprintf(out, "Size:     %s\n", formatSize(size))
			}
			fmt.Fprintf(out, "Entries:  %d\n", len(entries))
			return nil
		},
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
