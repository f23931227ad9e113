// Package watch reports spreadsheet files appearing, changing or disappearing
// in a directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/klytics/sheetkit/internal/fs"
	"github.com/klytics/sheetkit/internal/logging"
)

// Operations carried by Event.
const (
	OpCreate = "create"
	OpWrite  = "write"
	OpRemove = "remove"
	OpRename = "rename"
)

// Config configures a Watcher.
type Config struct {
	Dir        string
	Extensions []string      // empty = fs.DefaultExtensions
	Pattern    string        // optional glob on the base name
	Debounce   time.Duration // default 300ms
}

// Event is a debounced change to one spreadsheet file.
type Event struct {
	Time time.Time `json:"time"`
	Path string    `json:"path"`
	Op   string    `json:"op"`
}

// Handler receives debounced events. It runs on a timer goroutine.
type Handler func(Event)

// Watcher monitors one directory, non-recursively.
type Watcher struct {
	Config  Config
	Handler Handler

	mu       sync.Mutex
	events   []Event
	watcher  *fsnotify.Watcher
	debounce map[string]*time.Timer
}

var log = logging.NewLogger("watch")

// New creates a Watcher. Call Start to begin watching.
func New(config Config, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}
	if config.Debounce <= 0 {
		config.Debounce = 300 * time.Millisecond
	}
	return &Watcher{
		Config:   config,
		Handler:  handler,
		watcher:  fsw,
		debounce: make(map[string]*time.Timer),
	}, nil
}

// Start watches the configured directory until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	absDir, err := filepath.Abs(w.Config.Dir)
	if err != nil {
		w.watcher.Close()
		return fmt.Errorf("could not resolve %s: %w", w.Config.Dir, err)
	}
	if err := w.watcher.Add(absDir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("could not watch %s: %w", absDir, err)
	}
	log.WithField("dir", absDir).Debug("watching")

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	op := opName(event.Op)
	if op == "" {
		return
	}

	path := event.Name
	if !w.matches(path) {
		return
	}

	// Coalesce bursts from editors and atomic saves.
	w.mu.Lock()
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(w.Config.Debounce, func() {
		w.emit(Event{Time: time.Now(), Path: path, Op: op})
	})
	w.mu.Unlock()
}

func (w *Watcher) emit(evt Event) {
	w.mu.Lock()
	delete(w.debounce, evt.Path)
	w.events = append(w.events, evt)
	w.mu.Unlock()

	log.WithField("path", evt.Path).WithField("op", evt.Op).Debug("change")
	if w.Handler != nil {
		w.Handler(evt)
	}
}

// matches reports whether path is a watched spreadsheet. Office lock files
// (~$name) and hidden temporaries (.name, .~name) never match.
func (w *Watcher) matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	if !fs.IsSpreadsheet(path, w.Config.Extensions) {
		return false
	}
	if w.Config.Pattern != "" {
		if ok, _ := filepath.Match(w.Config.Pattern, base); !ok {
			return false
		}
	}
	return true
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.debounce {
		t.Stop()
		delete(w.debounce, path)
	}
}

// Events returns the events emitted so far.
func (w *Watcher) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	case op.Has(fsnotify.Write):
		return OpWrite
	}
	return ""
}
