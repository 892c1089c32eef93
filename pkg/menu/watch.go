package menu

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce absorbs the burst of events editors emit on save.
const DefaultReloadDebounce = 250 * time.Millisecond

// Watch reloads the menu file whenever it changes and passes every
// successfully parsed menu to onLoad. Parse failures are logged and the
// previous menu stays in place. Watch blocks until ctx is canceled.
//
// The parent directory is watched rather than the file so that editors
// replacing the file by rename are still observed.
func Watch(ctx context.Context, path string, debounce time.Duration, onLoad func(*Menu)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve menu path: %w", err)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	slog.Info("watching menu file", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("menu watcher error", "error", err)

		case <-timer.C:
			m, err := Load(abs)
			if err != nil {
				slog.Error("menu reload failed", "path", abs, "error", err)
				continue
			}
			slog.Info("menu reloaded", "path", abs, "items", len(m.Items))
			onLoad(m)
		}
	}
}
