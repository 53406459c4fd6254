package theme

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for file activity to
// settle before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watch reloads the theme whenever its manifest or template files change,
// until ctx is cancelled. onReload, if non-nil, runs after each successful
// reload.
func (s *Source) Watch(ctx context.Context, debounce time.Duration, onReload func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	for _, dir := range []string{s.dir, filepath.Join(s.dir, templatesDir), filepath.Join(s.dir, partsDir)} {
		if err := fsw.Add(dir); err != nil {
			// templates/ or parts/ may legitimately be absent.
			if dir == s.dir {
				fsw.Close()
				return fmt.Errorf("watching directory %s: %w", dir, err)
			}
			slog.Debug("theme watch skipped directory", "dir", dir, "error", err)
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	go s.watchLoop(ctx, fsw, debounce, onReload)
	return nil
}

func (s *Source) watchLoop(ctx context.Context, fsw *fsnotify.Watcher, debounce time.Duration, onReload func()) {
	defer fsw.Close()

	var timer *time.Timer
	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !isRelevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)

		case <-timerC():
			timer = nil
			if err := s.Reload(); err != nil {
				slog.Warn("theme reload failed", "error", err)
				continue
			}
			if onReload != nil {
				onReload()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("theme watcher error", "error", err)
		}
	}
}

// isRelevant filters events down to manifest and template file changes.
func isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	return name == manifestFile || filepath.Ext(name) == fileExt
}
