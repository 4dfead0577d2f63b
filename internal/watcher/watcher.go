// Package watcher reports changes to configuration files so that a running
// process can reload them.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/tfsutils/internal/ctxlog"
)

// DefaultDebounce coalesces the burst of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches files and directory trees and calls back once per burst of
// changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	files    map[string]struct{}
	roots    []string
	exts     map[string]struct{}
}

// New watches paths. A file path is watched through its directory so that
// editors replacing the file are noticed; a directory is watched recursively.
// When extensions are given, only files with those extensions count.
func New(paths []string, debounce time.Duration, extensions ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		files:    make(map[string]struct{}),
		exts:     make(map[string]struct{}, len(extensions)),
	}
	for _, ext := range extensions {
		w.exts[strings.ToLower(ext)] = struct{}{}
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(p string) error {
	abs, err := filepath.Abs(p)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watching %s: %w", p, err)
	}
	if !info.IsDir() {
		w.files[abs] = struct{}{}
		return w.fsw.Add(filepath.Dir(abs))
	}

	w.roots = append(w.roots, abs)
	return filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// relevant reports whether an event concerns a watched file.
func (w *Watcher) relevant(name string) bool {
	if _, ok := w.files[name]; ok {
		return true
	}
	for _, root := range w.roots {
		if name == root || strings.HasPrefix(name, root+string(filepath.Separator)) {
			if len(w.exts) == 0 {
				return true
			}
			_, ok := w.exts[strings.ToLower(filepath.Ext(name))]
			return ok
		}
	}
	return false
}

// Run delivers change notifications to onChange until ctx is done. onChange
// runs on the Run goroutine, so bursts arriving during a reload are folded
// into the next call.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	logger := ctxlog.FromContext(ctx)
	// fire is nil while no change is pending.
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && w.underRoot(ev.Name) {
					if err := w.fsw.Add(ev.Name); err != nil {
						logger.Warn("Cannot watch new directory.", "path", ev.Name, "error", err)
					}
				}
			}
			if ev.Op == fsnotify.Chmod || !w.relevant(ev.Name) {
				continue
			}
			logger.Debug("Configuration change detected.", "path", ev.Name, "op", ev.Op.String())
			fire = time.After(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)

		case <-fire:
			fire = nil
			onChange(ctx)
		}
	}
}

func (w *Watcher) underRoot(name string) bool {
	for _, root := range w.roots {
		if strings.HasPrefix(name, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Close releases the underlying watches.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
