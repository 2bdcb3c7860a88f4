package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Roots       []string      // directories to watch, recursive
	InitialScan bool          // emit files already present at startup
	Debounce    time.Duration // coalesce rapid write bursts per file
}

// Watch emits paths of supported invoice files as they appear under
// the roots. The channels close when ctx is cancelled.
func Watch(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no watch roots provided")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	emit := func(path string) {
		select {
		case evCh <- path:
		default:
			logger.Warn("watch event dropped, channel full", "path", path)
		}
	}

	addRoot := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if isHidden(path) && path != root {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && allowedPath(path) {
				emit(path)
			}
			return nil
		})
	}
	for _, root := range cfg.Roots {
		if err := addRoot(root); err != nil {
			_ = w.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() { _ = w.Close() }()

		var (
			mu      sync.Mutex
			pending = map[string]struct{}{}
			timer   *time.Timer
		)
		// flush also runs from the debounce timer goroutine
		flush := func() {
			mu.Lock()
			defer mu.Unlock()
			for p := range pending {
				emit(p)
				delete(pending, p)
			}
		}
		add := func(path string) {
			mu.Lock()
			pending[path] = struct{}{}
			mu.Unlock()
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op.Has(fsnotify.Create) {
					// New subdirectories need their own watch. Add is
					// a no-op error for plain files.
					if err := w.Add(e.Name); err != nil {
						logger.Debug("not watching created path", "path", e.Name, "error", err)
					}
				}
				if allowedPath(e.Name) && e.Op.Has(fsnotify.Create|fsnotify.Write|fsnotify.Rename) {
					add(e.Name)
					if cfg.Debounce > 0 {
						if timer != nil {
							timer.Stop()
						}
						timer = time.AfterFunc(cfg.Debounce, flush)
					} else {
						flush()
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}
