// Package watch reports changes to style sources on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dpshade/pocket-styler/internal/logger"
	"github.com/dpshade/pocket-styler/internal/storage"
)

// DefaultDebounce coalesces the burst of events one save produces.
const DefaultDebounce = 250 * time.Millisecond

// Change lists the source files touched during one debounce window.
type Change struct {
	Paths []string
}

// Watcher watches the pack directory and the legacy file's directory.
type Watcher struct {
	sources  storage.Sources
	log      *logger.Logger
	Debounce time.Duration
}

// New creates a watcher over sources
func New(sources storage.Sources, log *logger.Logger) *Watcher {
	if len(sources.Extensions) == 0 {
		sources.Extensions = storage.DefaultExtensions
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Watcher{sources: sources, log: log.With("component", "watch"), Debounce: DefaultDebounce}
}

// relevant reports whether path is a style source
func (w *Watcher) relevant(path string) bool {
	if filepath.Clean(path) == filepath.Clean(w.sources.LegacyFile) {
		return true
	}
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(w.sources.PacksDir) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.sources.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Run calls onChange after each burst of source changes until ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	dirs := []string{w.sources.PacksDir}
	if w.sources.LegacyFile != "" {
		dirs = append(dirs, filepath.Dir(w.sources.LegacyFile))
	}
	watched := 0
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			w.log.Warn("not watching missing directory", "path", dir)
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no style directories to watch")
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			w.log.Debug("source event", "path", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = struct{}{}
			timer.Reset(w.Debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "cause", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			change := Change{Paths: make([]string, 0, len(pending))}
			for p := range pending {
				change.Paths = append(change.Paths, p)
			}
			sort.Strings(change.Paths)
			pending = make(map[string]struct{})
			onChange(change)
		}
	}
}
