package checker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	intconfig "github.com/leapstack-labs/leaplint/internal/config"
	"github.com/leapstack-labs/leaplint/internal/python"
)

// DefaultDebounce is how long Watch waits for a burst of writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Change describes the files that triggered a re-run.
type Change struct {
	Paths []string
	// Config is set when a config file was among the changed paths.
	Config bool
}

// Watcher re-runs a callback when Python sources or config files change.
type Watcher struct {
	Roots []string
	// ConfigFile, when set, is watched even if it lies outside Roots.
	ConfigFile string
	Debounce   time.Duration
	Logger     *slog.Logger
}

// Run blocks until ctx is cancelled, calling onChange once per debounced
// burst of changes. Callbacks run serially on the watching goroutine; an
// error from onChange is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, Change) error) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range w.Roots {
		if err := watchTree(watcher, root); err != nil {
			return err
		}
	}
	if w.ConfigFile != "" {
		if err := watcher.Add(filepath.Dir(w.ConfigFile)); err != nil {
			return fmt.Errorf("watch %s: %w", w.ConfigFile, err)
		}
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	var pending Change
	seen := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			isConfig := intconfig.IsConfigFile(event.Name)
			if !isConfig && filepath.Ext(event.Name) != ".py" {
				continue
			}
			pending.Config = pending.Config || isConfig
			if !seen[event.Name] {
				seen[event.Name] = true
				pending.Paths = append(pending.Paths, event.Name)
			}
			timer.Reset(debounce)

		case <-timer.C:
			change := pending
			pending = Change{}
			clear(seen)
			logger.Debug("change detected", "paths", len(change.Paths), "config", change.Config)
			if err := onChange(ctx, change); err != nil {
				logger.Error("re-run failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// watchTree recursively adds root and its searchable subdirectories.
// A file root is watched through its directory.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && python.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
