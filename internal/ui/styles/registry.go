// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ErrUnknownTheme is returned when a requested theme is not registered.
var ErrUnknownTheme = errors.New("unknown theme")

// DefaultReloadDebounce is how long a theme file must be quiet before reload.
const DefaultReloadDebounce = 150 * time.Millisecond

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds named themes: the built-ins plus those loaded from a directory.
// Stored themes are never mutated; a reload replaces the pointer.
type Registry struct {
	mu     sync.RWMutex
	dir    string
	themes map[string]*Theme
	files  map[string]string // path -> theme name
	subs   []func(*Theme)
	logger *log.Logger

	debounce time.Duration
}

// NewRegistry creates a registry seeded with the built-in themes.
// dir may be empty, in which case LoadDir and Watch are no-ops.
func NewRegistry(dir string, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	r := &Registry{
		dir:      dir,
		themes:   make(map[string]*Theme),
		files:    make(map[string]string),
		logger:   logger.WithPrefix("themes"),
		debounce: DefaultReloadDebounce,
	}
	for _, name := range BuiltinNames() {
		th, _ := Builtin(name)
		r.themes[name] = th
	}
	return r
}

// Dir returns the watched theme directory.
func (r *Registry) Dir() string {
	return r.dir
}

// Get returns the named theme.
func (r *Registry) Get(name string) (*Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	th, ok := r.themes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	return th, nil
}

// Names returns all registered theme names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Put registers th, replacing any theme of the same name, and notifies subscribers.
func (r *Registry) Put(th *Theme) {
	r.mu.Lock()
	r.themes[th.Name] = th
	subs := append([]func(*Theme){}, r.subs...)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(th)
	}
}

// Subscribe registers fn to be called with every theme added or reloaded.
func (r *Registry) Subscribe(fn func(*Theme)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// LoadDir loads every theme file in the directory. Files that fail to load
// are skipped; their errors are joined into the returned error.
func (r *Registry) LoadDir() error {
	if r.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read theme directory: %w", err)
	}

	var errs []error
	for _, e := range entries {
		if e.IsDir() || !isThemeFile(e.Name()) {
			continue
		}
		if _, err := r.loadFile(filepath.Join(r.dir, e.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) loadFile(path string) (*Theme, error) {
	th, err := LoadTheme(path)
	if err != nil {
		r.logger.Warn("theme not loaded", "path", path, "err", err)
		return nil, err
	}
	r.mu.Lock()
	r.files[path] = th.Name
	r.mu.Unlock()

	r.Put(th)
	r.logger.Debug("theme loaded", "name", th.Name, "path", path)
	return th, nil
}

func isThemeFile(name string) bool {
	return strings.HasSuffix(name, ThemeFileExt) && !strings.HasPrefix(name, ".")
}

// =============================================================================
// HOT RELOAD
// =============================================================================

// Watch reloads theme files in the directory when they change, until ctx is
// done. It returns once the watcher is running.
func (r *Registry) Watch(ctx context.Context) error {
	if r.dir == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create theme watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", r.dir, err)
	}

	go r.watchLoop(ctx, watcher)
	return nil
}

func (r *Registry) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(r.debounce/3, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isThemeFile(filepath.Base(event.Name)) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("theme watcher error", "err", err)

		case now := <-ticker.C:
			for path, changed := range pending {
				if now.Sub(changed) < r.debounce {
					continue
				}
				delete(pending, path)
				if th, err := r.loadFile(path); err == nil {
					r.logger.Info("theme reloaded", "name", th.Name)
				}
			}
		}
	}
}
