// Package logging provides component loggers built on logrus.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Options configures the shared logger. Zero values mean defaults.
type Options struct {
	Level   string // debug, info, warn, error; SHEETKIT_LOG_LEVEL wins
	Format  string // text or json
	File    string // log file path; empty = stderr rules below
	Verbose bool   // forces debug level and stderr output
	// Quiet keeps logs off stderr, e.g. while a full-screen UI owns the terminal.
	Quiet bool
}

var (
	mu      sync.Mutex
	base    = newBase(Options{})
	loggers = make(map[string]*logrus.Entry)
	closer  io.Closer
)

// Configure rebuilds the shared logger. Loggers handed out earlier keep
// working and pick up the new settings.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		closer.Close()
		closer = nil
	}

	next := newBase(opts)
	base.SetLevel(next.GetLevel())
	base.SetFormatter(next.Formatter)
	base.SetOutput(next.Out)
}

// NewLogger returns the logger for a component, creating it once.
func NewLogger(component string) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[component]; ok {
		return l
	}
	l := base.WithField("component", component)
	loggers[component] = l
	return l
}

func newBase(opts Options) *logrus.Logger {
	logger := logrus.New()

	levelStr := "info"
	if opts.Level != "" {
		levelStr = opts.Level
	}
	if env := os.Getenv("SHEETKIT_LOG_LEVEL"); env != "" {
		levelStr = env
	}
	if opts.Verbose {
		levelStr = "debug"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if opts.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: !isInteractive(),
		})
	}

	var writers []io.Writer
	if opts.File != "" {
		if f, err := openLogFile(opts.File); err == nil {
			writers = append(writers, f)
			closer = f
		}
	}

	// Interactive terminals stay quiet unless asked for debug output.
	if !opts.Quiet && (opts.Verbose || level >= logrus.DebugLevel || (!isInteractive() && opts.File == "")) {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
	return logger
}

func openLogFile(path string) (*os.File, error) {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// expandPath expands a leading tilde.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
