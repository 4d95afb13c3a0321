package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nishant-rao/legal-summarizer/constants"
)

// WatchConfig configures drop-directory discovery.
type WatchConfig struct {
	Root        string        // directory to watch (recursive)
	InitialScan bool          // walk the root and emit existing files first
	Debounce    time.Duration // coalesce rapid create/write bursts
}

// StartWatcher emits paths of documents with an accepted extension as they
// land under the root. The channel closes when ctx is cancelled.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Root == "" {
		return nil, nil, errors.New("no watch root provided")
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	// Add the root recursively; optionally emit what is already there.
	walkErr := filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if cfg.InitialScan && accepted(path) {
			select {
			case evCh <- path:
			default:
			}
		}
		return nil
	})
	if walkErr != nil {
		w.Close()
		return nil, nil, walkErr
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer w.Close()

		// pending is only ever touched by this goroutine; the debounce timer
		// signals through its channel instead of running a callback.
		var timer *time.Timer
		var timerC <-chan time.Time
		pending := map[string]struct{}{}

		sendPending := func() {
			for p := range pending {
				select {
				case evCh <- p:
				default:
				}
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-timerC:
				timerC = nil
				sendPending()
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op&fsnotify.Create != 0 {
					// New subdirectories join the watch; Add on a file fails
					// harmlessly.
					if err := w.Add(e.Name); err != nil {
						logger.Debug("watcher add skipped", "path", e.Name)
					}
				}
				if accepted(e.Name) && e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					pending[e.Name] = struct{}{}
					if cfg.Debounce > 0 {
						if timer == nil {
							timer = time.NewTimer(cfg.Debounce)
						} else {
							timer.Stop()
							timer.Reset(cfg.Debounce)
						}
						timerC = timer.C
					} else {
						sendPending()
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

func accepted(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	_, ok := constants.MediaTypeForPath(path)
	return ok
}
