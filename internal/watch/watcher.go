// Package watch rebuilds the site while its sources change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
)

// Watcher forwards filesystem changes under a set of roots to a Rebuilder.
type Watcher struct {
	fsw       *fsnotify.Watcher
	rebuilder *Rebuilder
	// outDir is never watched; builds write there.
	outDir string
}

// New watches every directory under roots except outDir. A root may be a
// single file, in which case only its own directory is watched. Missing
// roots are skipped.
func New(roots []string, outDir string, rebuilder *Rebuilder) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, foundation.ResourceError("create file watcher").WithCause(fmt.Errorf("fsnotify: %w", err)).Build()
	}
	w := &Watcher{fsw: fsw, rebuilder: rebuilder, outDir: filepath.Clean(outDir)}
	for _, root := range roots {
		fi, err := os.Stat(root)
		if err != nil {
			slog.Warn("watch root unavailable", logfields.Path(root), logfields.Error(err))
			continue
		}
		if !fi.IsDir() {
			if err := fsw.Add(filepath.Dir(root)); err != nil {
				slog.Warn("watch add failed", logfields.Path(root), logfields.Error(err))
			}
			continue
		}
		w.addDirsRecursive(root)
	}
	return w, nil
}

// WatchList returns the directories currently watched.
func (w *Watcher) WatchList() []string {
	return w.fsw.WatchList()
}

// Run handles events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("Watching for changes", slog.Int("dirs", len(w.fsw.WatchList())))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// Close stops watching and waits for a running rebuild.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	w.rebuilder.Wait()
	return err
}

func (w *Watcher) handleEvent(ctx context.Context, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) || ev.Op == fsnotify.Chmod || w.inOutput(ev.Name) {
		return
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))

	switch {
	case ev.Has(fsnotify.Create):
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(ev.Name)
			return
		}
		// New pages change menus and parents, not only their own output.
		w.rebuilder.RebuildAll(ctx)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.rebuilder.RebuildAll(ctx)
	case ev.Has(fsnotify.Write):
		w.rebuilder.RebuildFile(ctx, ev.Name)
	}
}

func (w *Watcher) inOutput(path string) bool {
	if w.outDir == "" || w.outDir == "." {
		return false
	}
	path = filepath.Clean(path)
	return path == w.outDir || strings.HasPrefix(path, w.outDir+string(filepath.Separator))
}

func (w *Watcher) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") || w.inOutput(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports events from hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
