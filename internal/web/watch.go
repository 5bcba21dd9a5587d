package web

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay lets a burst of editor writes settle before re-parsing.
const reloadDelay = 100 * time.Millisecond

// ErrNotDev is returned by Watch for sites serving embedded assets.
var ErrNotDev = errors.New("web: assets are embedded, nothing to watch")

// Watch reloads the page template whenever files in the web directory change.
// It blocks until ctx is canceled. The onReload callback, if non-nil, runs
// after every reload attempt.
func (s *Site) Watch(ctx context.Context, onReload func(error)) error {
	if !s.Dev() {
		return ErrNotDev
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range []string{s.dir, filepath.Join(s.dir, staticDir)} {
		if err := watcher.Add(dir); err != nil {
			s.logger.Warn("failed to add watch", "path", dir, "error", err)
			continue
		}
		s.logger.Debug("added watch", "path", dir)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	reload := func() {
		err := s.Reload()
		if err != nil {
			s.logger.Error("Page reload failed, keeping previous template", "error", err)
		} else {
			s.logger.Info("Page template reloaded")
		}
		if onReload != nil {
			onReload(err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDelay, reload)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("web watcher error", "error", err)
		}
	}
}
