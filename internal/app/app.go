// Package app wires configuration, logging and auditing into the objects
// every command surface shares.
package app

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/audit"
	"github.com/klytics/sheetkit/internal/config"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/session"
)

// Options are the process-wide switches taken from global flags.
type Options struct {
	Verbose bool
	NoColor bool
	// Fullscreen keeps logs off the terminal and sends them to a file.
	Fullscreen bool
}

// App is the loaded runtime.
type App struct {
	Config *config.Config
	Audit  *audit.Logger
}

// Load reads the configuration and configures logging and color output.
func Load(opts Options) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if opts.NoColor || !cfg.Output.Color {
		color.NoColor = true
	}

	logFile := cfg.Log.File
	if opts.Fullscreen && logFile == "" {
		logFile = filepath.Join(config.Dir(), "sheetkit.log")
	}
	logging.Configure(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    logFile,
		Verbose: opts.Verbose && !opts.Fullscreen,
		Quiet:   opts.Fullscreen,
	})

	return &App{
		Config: cfg,
		Audit:  audit.NewLogger(cfg.Audit.Path, cfg.Audit.Enabled),
	}, nil
}

// FromCommand loads the App using the global flags of cmd.
func FromCommand(cmd *cobra.Command, fullscreen bool) (*App, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")
	return Load(Options{Verbose: verbose, NoColor: noColor, Fullscreen: fullscreen})
}

// JSON reports whether cmd was asked for JSON output.
func JSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// Navigator creates a navigator using the configured extensions and audit log.
func (a *App) Navigator() *session.Navigator {
	return session.NewNavigator(session.Options{
		Extensions:  a.Config.Extensions,
		PreviewRows: a.Config.Preview.MaxRows,
		Audit:       a.Audit,
	})
}

// ChartDefaults returns the configured chart kind and size.
func (a *App) ChartDefaults() xlsx.ChartSpec {
	return xlsx.ChartSpec{
		Kind:   a.Config.Chart.Kind,
		Width:  a.Config.Chart.Width,
		Height: a.Config.Chart.Height,
	}
}

// StartDir returns dir, or the configured default when dir is empty.
func (a *App) StartDir(dir string) string {
	if dir != "" {
		return dir
	}
	return a.Config.Dir
}
