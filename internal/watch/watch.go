// Package watch reloads a flatstore.Store when its backing file is changed
// by another process.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tinydb/internal/flatstore"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads one store on changes to its file. The store is only
// touched from the goroutine running Run.
type Watcher struct {
	store  *flatstore.Store
	path   string
	w      *fsnotify.Watcher
	logger *slog.Logger
}

// New starts watching the directory holding the store's file. Watching the
// directory rather than the file keeps working across the rename used by
// atomic rewrites. The directory is created if needed.
func New(store *flatstore.Store, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path := filepath.Clean(store.Path())
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{store: store, path: path, w: w, logger: logger}, nil
}

// Run blocks until ctx is done, reloading the store whenever its file is
// written or created (a rename into place counts as created), and calling
// onChange after each successful reload. A failed reload is logged and
// the file is read again on the next change. Moving the file away does
// not trigger a reload. Run closes the watcher when it returns.
func (w *Watcher) Run(ctx context.Context, onChange func(*flatstore.Store)) error {
	defer func() { _ = w.w.Close() }()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Rename on the store path means it was moved away; the
			// rename of a rewrite into place arrives as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.store.Reload(); err != nil {
				w.logger.WarnContext(ctx, "Reload failed", "path", w.path, "err", err)
				continue
			}
			w.logger.DebugContext(ctx, "Store reloaded", "path", w.path, "op", event.Op.String(), "entries", w.store.Len())
			if onChange != nil {
				onChange(w.store)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "Error watching store", "path", w.path, "err", err)
		}
	}
}
